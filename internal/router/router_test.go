package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dplus/internal/config"
	"github.com/dplus/internal/handler"
	"github.com/gin-gonic/gin"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := config.AppConfig{
		SiteBaseURL: "https://dplus.test",
		SiteName:    "dplus",
		Routing: config.RoutingConfig{
			Mode:             config.RoutingModeCountry,
			AllowedCountries: []string{"AA", "KR"},
			DefaultCountry:   "AA",
		},
	}
	return SetupRouter(handler.NewAPI(cfg, nil))
}

func TestSetupRouterOperationalEndpoints(t *testing.T) {
	r := newTestRouter()

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"ok"`) {
		t.Fatalf("healthz: %d %s", rr.Code, rr.Body.String())
	}

	// healthz 请求已经在计数器里留下样本
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("metrics: expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "dplus_http_requests_total") {
		t.Fatalf("metrics output missing request counter")
	}
}

func TestSetupRouterSetsRequestID(t *testing.T) {
	r := newTestRouter()

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "edge-123")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if got := rr.Header().Get("X-Request-ID"); got != "edge-123" {
		t.Fatalf("expected upstream request id to be kept, got %q", got)
	}
}

func TestSetupRouterServesStylesheet(t *testing.T) {
	r := newTestRouter()

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/static/app.css", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for the stylesheet linked from every page, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/css") {
		t.Fatalf("Content-Type = %q", ct)
	}
}

func TestSetupRouterNoRouteIsNormalized(t *testing.T) {
	r := newTestRouter()

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/?ref=mail", nil))
	if rr.Code != http.StatusTemporaryRedirect {
		t.Fatalf("expected 307 for root, got %d", rr.Code)
	}
	if got := rr.Header().Get("Location"); got != "/AA?ref=mail" {
		t.Fatalf("Location = %q", got)
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/static/missing.css", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("excluded path: expected 404, got %d", rr.Code)
	}
}
