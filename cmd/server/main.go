package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dplus/internal/api"
	"github.com/dplus/internal/config"
	"github.com/dplus/internal/db"
	"github.com/dplus/internal/handler"
	"github.com/dplus/internal/logging"
	"github.com/dplus/internal/router"
	"github.com/dplus/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const (
	shutdownTimeout = 10 * time.Second
	janitorInterval = 10 * time.Minute
)

var rootCmd = &cobra.Command{
	Use:           "dplus",
	Short:         "dplus events front end",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd, sitemapCmd, routeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logging.Fatal().Err(err).Msg("command failed")
	}
}

// bootstrap 加载配置并初始化日志，所有子命令共用。
func bootstrap() (config.AppConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.AppConfig{}, fmt.Errorf("load config: %w", err)
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	return cfg, nil
}

// newClient 构造后端客户端；启用缓存时顺带返回缓存服务供清理任务使用。
func newClient(cfg config.AppConfig) (*api.Client, *service.CacheService, error) {
	opts := api.Options{
		BaseURL:         cfg.API.BaseURL,
		Timeout:         cfg.API.Timeout,
		BreakerFailures: cfg.API.BreakerFailures,
		BreakerOpenFor:  cfg.API.BreakerOpenFor,
		BreakerHalfOpen: cfg.API.BreakerHalfOpen,
		BreakerInterval: cfg.API.BreakerResetEach,
	}

	var cache *service.CacheService
	if cfg.Cache.Enabled {
		if err := db.Init(cfg.Cache.DBPath); err != nil {
			return nil, nil, fmt.Errorf("open response cache: %w", err)
		}
		cache = service.NewCacheService(db.DB)
		opts.Cache = cache
	}
	return api.NewClient(opts), cache, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := bootstrap()
	if err != nil {
		return err
	}
	gin.SetMode(cfg.GinMode)

	client, cache, err := newClient(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cache != nil {
		go cache.RunJanitor(ctx, janitorInterval)
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router.SetupRouter(handler.NewAPI(cfg, client)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().
			Str("addr", cfg.ListenAddr).
			Str("routing_mode", cfg.Routing.Mode).
			Str("api", cfg.API.BaseURL).
			Bool("cache", cfg.Cache.Enabled).
			Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("run server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logging.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return nil
}
