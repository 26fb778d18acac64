package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dplus/internal/api"
	"github.com/dplus/internal/config"
	"github.com/dplus/internal/handler"
	"github.com/dplus/internal/router"
	"github.com/gin-gonic/gin"
)

var ginOnce sync.Once

var backendFixtures = map[string]string{
	"/country/KR": `{"success":true,"dbResponse":{"code":"KR","name":"Korea","description":"Events across *Korea*","cities":[{"id":"c1","slug":"seoul","name":"Seoul"}],"events":[{"id":"e1","title":"Jazz Night"}]}}`,
	"/category":   `{"success":true,"dbResponse":[{"id":"k1","slug":"music","name":"Music"}]}`,
	"/event/e1":   `{"success":true,"dbResponse":{"id":"e1","title":"Jazz Night","description":"**live** music","placeId":"p1","citySlug":"seoul"}}`,
	"/place/p1":   `{"success":true,"dbResponse":{"id":"p1","name":"Blue Note","address":"Itaewon"}}`,
	"/city/seoul": `{"success":true,"dbResponse":{"id":"c1","slug":"seoul","name":"Seoul","countryCode":"kr","events":[{"id":"e1","title":"Jazz Night"},{"id":"e2","title":"Indie Stage"}]}}`,
	"/today/AA":   `{"success":true,"dbResponse":{"events":[{"id":"e3","title":"Open Air Cinema"}]}}`,
	"/folder/f1":  `{"success":true,"dbResponse":{"id":"f1","title":"Summer Picks","groupId":"g1","events":[{"id":"e1","title":"Jazz Night"}]}}`,
	"/group/g1":   `{"success":true,"dbResponse":{"id":"g1","name":"Editors"}}`,
	"/search":     `{"success":true,"dbResponse":{"events":[{"id":"e1","title":"Jazz Night"}]}}`,
}

type testBackend struct {
	server *httptest.Server
	hits   int32
	paths  sync.Map
}

func newTestBackend(t *testing.T) *testBackend {
	t.Helper()
	b := &testBackend{}
	b.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&b.hits, 1)
		b.paths.Store(r.URL.Path, r.URL.RawQuery)
		if r.URL.Path == "/week/AA" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		body, ok := backendFixtures[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(b.server.Close)
	return b
}

func (b *testBackend) requested(path string) bool {
	_, ok := b.paths.Load(path)
	return ok
}

func testConfig(mode string) config.AppConfig {
	return config.AppConfig{
		SiteBaseURL: "https://dplus.test",
		SiteName:    "dplus",
		Routing: config.RoutingConfig{
			Mode:              mode,
			AllowedCountries:  []string{"AA", "KR"},
			DefaultCountry:    "AA",
			HomeCountry:       "KR",
			HomeLanguage:      "ko",
			DefaultFullLocale: "ko-KR",
			SupportedLocales:  []string{"en", "cn", "ja", "id", "vi", "th", "tw"},
			DefaultCity:       "seoul",
		},
	}
}

func setupRouter(t *testing.T, mode string) (*gin.Engine, *testBackend) {
	t.Helper()
	ginOnce.Do(func() {
		gin.SetMode(gin.TestMode)
	})
	backend := newTestBackend(t)
	client := api.NewClient(api.Options{BaseURL: backend.server.URL, Timeout: 2 * time.Second})
	return router.SetupRouter(handler.NewAPI(testConfig(mode), client)), backend
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCountryModeRedirects(t *testing.T) {
	r, _ := setupRouter(t, config.RoutingModeCountry)

	cases := []struct {
		name     string
		path     string
		header   map[string]string
		location string
	}{
		{name: "root korean visitor", path: "/", header: map[string]string{"Accept-Language": "ko-KR,ko;q=0.9"}, location: "/KR"},
		{name: "root geo header", path: "/", header: map[string]string{"CF-IPCountry": "KR"}, location: "/KR"},
		{name: "root anyone else", path: "/", location: "/AA"},
		{name: "today keeps query", path: "/today?utm=1", location: "/today/AA?utm=1"},
		{name: "lowercase country", path: "/today/kr", location: "/today/KR"},
		{name: "unknown country", path: "/date/2025-03-01/US", location: "/date/2025-03-01/AA"},
		{name: "unknown segment", path: "/whatever", location: "/AA"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			for name, value := range tc.header {
				req.Header.Set(name, value)
			}
			w := serve(r, req)
			if w.Code != http.StatusTemporaryRedirect {
				t.Fatalf("expected 307, got %d", w.Code)
			}
			if got := w.Header().Get("Location"); got != tc.location {
				t.Fatalf("Location = %q, want %q", got, tc.location)
			}
		})
	}
}

func TestCityModeRedirects(t *testing.T) {
	r, _ := setupRouter(t, config.RoutingModeCity)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en-US,en;q=0.8")
	w := serve(r, req)
	if w.Code != http.StatusTemporaryRedirect || w.Header().Get("Location") != "/city/seoul/en" {
		t.Fatalf("expected redirect to /city/seoul/en, got %d %q", w.Code, w.Header().Get("Location"))
	}

	req = httptest.NewRequest(http.MethodGet, "/ja", nil)
	w = serve(r, req)
	if w.Header().Get("Location") != "/city/seoul/ja" {
		t.Fatalf("expected redirect to /city/seoul/ja, got %q", w.Header().Get("Location"))
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	w = serve(r, req)
	if w.Header().Get("Location") != "/city/seoul" {
		t.Fatalf("korean visitors keep the bare city path, got %q", w.Header().Get("Location"))
	}
}

func TestShowCountry(t *testing.T) {
	r, backend := setupRouter(t, config.RoutingModeCountry)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/KR", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	for _, want := range []string{"Korea", "<em>Korea</em>", `href="/city/seoul"`, `href="/category/music/KR"`, "Jazz Night", `<link rel="canonical" href="https://dplus.test/KR">`} {
		if !strings.Contains(body, want) {
			t.Errorf("expected body to contain %q", want)
		}
	}
	if got := w.Header().Get("Content-Language"); got != "ko-KR" {
		t.Errorf("Content-Language = %q", got)
	}
	if vary := w.Header().Get("Vary"); !strings.Contains(vary, "Accept-Language") || !strings.Contains(vary, "Cookie") {
		t.Errorf("Vary = %q", vary)
	}
	if backend.requested("/city") {
		t.Errorf("embedded cities should not trigger a city list request")
	}
}

func TestShowEvent(t *testing.T) {
	r, backend := setupRouter(t, config.RoutingModeCountry)

	req := httptest.NewRequest(http.MethodGet, "/event/e1", nil)
	req.Header.Set("Accept-Language", "en")
	w := serve(r, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		"<title>Jazz Night | dplus</title>",
		`<meta property="og:type" content="article">`,
		"<strong>live</strong>",
		"Blue Note",
		"Indie Stage",
		`data-share="x"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected body to contain %q", want)
		}
	}
	if !backend.requested("/place/p1") {
		t.Errorf("expected place lookup for event without embedded place")
	}
}

func TestShowFolderIncludesGroup(t *testing.T) {
	r, _ := setupRouter(t, config.RoutingModeCountry)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/folder/f1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body := w.Body.String(); !strings.Contains(body, "Summer Picks") || !strings.Contains(body, "Editors") {
		t.Fatalf("expected folder and group names in body")
	}
}

func TestShowTodayAndFailures(t *testing.T) {
	r, _ := setupRouter(t, config.RoutingModeCountry)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/today/AA", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Open Air Cinema") {
		t.Fatalf("today page: %d", w.Code)
	}

	w = serve(r, httptest.NewRequest(http.MethodGet, "/event/missing", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing event: expected 404, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `content="noindex, follow"`) {
		t.Fatalf("error pages must not be indexed")
	}

	w = serve(r, httptest.NewRequest(http.MethodGet, "/week/AA", nil))
	if w.Code != http.StatusBadGateway {
		t.Fatalf("backend failure: expected 502, got %d", w.Code)
	}
}

func TestShowSearch(t *testing.T) {
	r, backend := setupRouter(t, config.RoutingModeCountry)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/search", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("empty search: expected 200, got %d", w.Code)
	}
	if atomic.LoadInt32(&backend.hits) != 0 {
		t.Fatalf("empty search must not call the backend")
	}

	w = serve(r, httptest.NewRequest(http.MethodGet, "/search?q=jazz", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Jazz Night") {
		t.Fatalf("search page: %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `value="jazz"`) {
		t.Fatalf("expected query echoed into the search box")
	}
}

func TestShowCityPathLanguage(t *testing.T) {
	r, backend := setupRouter(t, config.RoutingModeCity)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/city/seoul/en", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Header().Get("Content-Language"); got != "en-US" {
		t.Fatalf("Content-Language = %q", got)
	}
	body := w.Body.String()
	if !strings.Contains(body, `<html lang="en-US">`) {
		t.Fatalf("expected html lang from path language")
	}
	if !strings.Contains(body, `hreflang="x-default" href="https://dplus.test/city/seoul"`) {
		t.Fatalf("expected x-default alternate")
	}
	query, _ := backend.paths.Load("/city/seoul")
	if query != "lang=en" {
		t.Fatalf("expected backend lang=en, got %v", query)
	}
}

func TestSwitchLocale(t *testing.T) {
	r, _ := setupRouter(t, config.RoutingModeCountry)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/locale/cn?next=/KR", nil))
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/KR" {
		t.Fatalf("expected 302 to /KR, got %d %q", w.Code, w.Header().Get("Location"))
	}
	cookies := map[string]string{}
	for _, cookie := range w.Result().Cookies() {
		cookies[cookie.Name] = cookie.Value
	}
	if cookies["lang"] != "cn" || cookies["full-locale"] != "zh-CN" {
		t.Fatalf("unexpected cookies %v", cookies)
	}

	w = serve(r, httptest.NewRequest(http.MethodGet, "/locale/en?next=//evil.example", nil))
	if w.Header().Get("Location") != "/" {
		t.Fatalf("open redirect: Location = %q", w.Header().Get("Location"))
	}

	w = serve(r, httptest.NewRequest(http.MethodGet, "/locale/xx?next=/KR", nil))
	if len(w.Result().Cookies()) != 0 {
		t.Fatalf("unsupported language must not set cookies")
	}
}

func TestSitemapEndpoints(t *testing.T) {
	r, _ := setupRouter(t, config.RoutingModeCountry)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "https://dplus.test/sitemaps/events.xml") {
		t.Fatalf("sitemap index: %d %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/xml") {
		t.Fatalf("Content-Type = %q", ct)
	}

	w = serve(r, httptest.NewRequest(http.MethodGet, "/sitemaps/static.xml", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "https://dplus.test/KR") {
		t.Fatalf("static sitemap: %d", w.Code)
	}

	w = serve(r, httptest.NewRequest(http.MethodGet, "/sitemaps/unknown.xml", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown section: expected 404, got %d", w.Code)
	}

	w = serve(r, httptest.NewRequest(http.MethodGet, "/robots.txt", nil))
	if !strings.Contains(w.Body.String(), "Sitemap: https://dplus.test/sitemap.xml") {
		t.Fatalf("robots.txt: %s", w.Body.String())
	}
}
