package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dplus/internal/db"
	"github.com/dplus/internal/handler"
	"github.com/dplus/internal/locale"
	"github.com/spf13/cobra"
)

var (
	sitemapOutDir string

	routeHeaders []string
	routeCookies []string
)

var sitemapCmd = &cobra.Command{
	Use:   "sitemap",
	Short: "Write sitemap.xml, per-section sitemaps and robots.txt to a directory",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := bootstrap()
		if err != nil {
			return err
		}
		client, _, err := newClient(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		return handler.NewAPI(cfg, client).Sitemaps().WriteAll(cmd.Context(), sitemapOutDir)
	},
}

var routeCmd = &cobra.Command{
	Use:   "route <path>",
	Short: "Print the routing decision for a path",
	Long: `Print what the routing middleware would do with a request path.

Headers and cookies are given as name=value, for example:
  dplus route / --header "Accept-Language=ko-KR" --cookie "country=KR"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := bootstrap()
		if err != nil {
			return err
		}

		src := locale.Source{Header: http.Header{}, Cookies: map[string]string{}}
		for _, raw := range routeHeaders {
			name, value, ok := strings.Cut(raw, "=")
			if !ok {
				return fmt.Errorf("header %q: expected name=value", raw)
			}
			src.Header.Add(strings.TrimSpace(name), strings.TrimSpace(value))
		}
		for _, raw := range routeCookies {
			name, value, ok := strings.Cut(raw, "=")
			if !ok {
				return fmt.Errorf("cookie %q: expected name=value", raw)
			}
			src.Cookies[strings.TrimSpace(name)] = strings.TrimSpace(value)
		}

		decision := handler.NewAPI(cfg, nil).Decide(args[0], src)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "mode:     %s\n", cfg.Routing.Mode)
		fmt.Fprintf(out, "rule:     %s\n", decision.Rule)
		fmt.Fprintf(out, "action:   %s\n", decision.Action)
		if decision.IsRedirect() {
			fmt.Fprintf(out, "location: %s\n", decision.Location)
		}
		return nil
	},
}

func init() {
	sitemapCmd.Flags().StringVarP(&sitemapOutDir, "out", "o", "public", "output directory")
	routeCmd.Flags().StringArrayVarP(&routeHeaders, "header", "H", nil, "request header as name=value (repeatable)")
	routeCmd.Flags().StringArrayVar(&routeCookies, "cookie", nil, "request cookie as name=value (repeatable)")
}
