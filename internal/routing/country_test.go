package routing

import (
	"testing"

	"github.com/dplus/internal/locale"
)

func newTestCountryNormalizer() CountryNormalizer {
	return NewCountryNormalizer(locale.NewAllowList([]string{"AA", "KR"}, "AA"))
}

func TestCountryNormalizer(t *testing.T) {
	n := newTestCountryNormalizer()

	cases := []struct {
		path     string
		country  string
		action   Action
		location string
		rule     string
	}{
		{path: "/_next/static/chunk.js", country: "KR", action: Pass, rule: "excluded"},
		{path: "/_next/data", country: "KR", action: Pass, rule: "excluded"},
		{path: "/api/events", country: "KR", action: Pass, rule: "excluded"},
		{path: "/favicon.ico", country: "KR", action: Pass, rule: "excluded"},
		{path: "/sitemap.xml", country: "AA", action: Pass, rule: "excluded"},
		{path: "/apis", country: "KR", action: Redirect, location: "/AA", rule: "unknown"},

		{path: "/", country: "KR", action: Redirect, location: "/KR", rule: "root"},
		{path: "/", country: "AA", action: Redirect, location: "/AA", rule: "root"},
		{path: "/", country: "JP", action: Redirect, location: "/AA", rule: "root"},
		{path: "/", country: "", action: Redirect, location: "/AA", rule: "root"},

		{path: "/today", country: "KR", action: Redirect, location: "/today/KR", rule: "today"},
		{path: "/today/", country: "AA", action: Redirect, location: "/today/AA", rule: "today"},
		{path: "/today/kr", country: "AA", action: Redirect, location: "/today/KR", rule: "today-country"},
		{path: "/today/KR", country: "AA", action: Pass, rule: "today-country"},
		{path: "/today/xx", country: "KR", action: Redirect, location: "/today/AA", rule: "today-country"},
		{path: "/today/kor", country: "KR", action: Redirect, location: "/today/AA", rule: "today-country"},

		{path: "/date/2025-03-01", country: "KR", action: Redirect, location: "/date/2025-03-01/KR", rule: "date"},
		{path: "/date/2025-03-01/KR", country: "AA", action: Pass, rule: "date-country"},
		{path: "/date/2025-03-01/kr", country: "AA", action: Redirect, location: "/date/2025-03-01/KR", rule: "date-country"},
		{path: "/date/2025-03-01/JP", country: "KR", action: Redirect, location: "/date/2025-03-01/AA", rule: "date-country"},

		{path: "/category/music", country: "AA", action: Redirect, location: "/category/music/AA", rule: "category"},
		{path: "/category/music/AA", country: "KR", action: Pass, rule: "category-country"},
		{path: "/category/music/us", country: "KR", action: Redirect, location: "/category/music/AA", rule: "category-country"},

		{path: "/country/JP", country: "KR", action: Redirect, location: "/country/AA", rule: "country"},
		{path: "/country/KR", country: "AA", action: Pass, rule: "country"},
		{path: "/country/kr", country: "AA", action: Pass, rule: "country"},

		{path: "/event", country: "KR", action: Pass, rule: "known-route"},
		{path: "/search", country: "KR", action: Pass, rule: "known-route"},
		{path: "/kr", country: "AA", action: Pass, rule: "country-code"},
		{path: "/KR", country: "AA", action: Pass, rule: "country-code"},
		{path: "/fr", country: "KR", action: Redirect, location: "/AA", rule: "unknown"},
		{path: "/unknownsegment", country: "KR", action: Redirect, location: "/AA", rule: "unknown"},

		{path: "/event/123", country: "KR", action: Pass, rule: "known-route"},
		{path: "/city/seoul/en", country: "KR", action: Pass, rule: "known-route"},
		{path: "/today/KR/extra", country: "KR", action: Pass, rule: "known-route"},
		{path: "/foo/bar", country: "KR", action: Redirect, location: "/AA", rule: "unknown"},
	}

	for _, tc := range cases {
		t.Run(tc.path+"@"+tc.country, func(t *testing.T) {
			got := n.Normalize(tc.path, tc.country)
			if got.Action != tc.action {
				t.Fatalf("Normalize(%q) action = %v, want %v (%+v)", tc.path, got.Action, tc.action, got)
			}
			if got.Location != tc.location {
				t.Fatalf("Normalize(%q) location = %q, want %q", tc.path, got.Location, tc.location)
			}
			if got.Rule != tc.rule {
				t.Fatalf("Normalize(%q) rule = %q, want %q", tc.path, got.Rule, tc.rule)
			}
		})
	}
}

func TestCountryNormalizerExclusionsIgnoreHeaders(t *testing.T) {
	n := newTestCountryNormalizer()
	for _, path := range []string{"/static/app.css", "/api", "/robots.txt", "/metrics", "/healthz", "/locale/en"} {
		for _, country := range []string{"", "KR", "AA", "ZZ"} {
			if got := n.Normalize(path, country); got.Action != Pass {
				t.Fatalf("Normalize(%q, %q) = %+v, want pass", path, country, got)
			}
		}
	}
}

func TestCountryNormalizerRedirectTargetsAreStable(t *testing.T) {
	n := newTestCountryNormalizer()
	paths := []string{
		"/", "/today", "/today/kr", "/today/zz", "/date/2025-01-01", "/date/2025-01-01/jp",
		"/category/food", "/category/food/kr", "/country/US", "/fr", "/nothing", "/a/b/c",
		"/date/a b", "/category/%E2%98%83",
	}
	for _, path := range paths {
		for _, country := range []string{"KR", "AA", "US"} {
			first := n.Normalize(path, country)
			if !first.IsRedirect() {
				continue
			}
			second := n.Normalize(first.Location, country)
			if second.IsRedirect() {
				t.Fatalf("redirect loop: %q -> %q -> %q", path, first.Location, second.Location)
			}
		}
	}
}
