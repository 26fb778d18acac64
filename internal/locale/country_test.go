package locale

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAllowList(t *testing.T) {
	allow := NewAllowList([]string{"kr", " jp ", "bad", "KR"}, "aa")

	if diff := cmp.Diff([]string{"KR", "JP", "AA"}, allow.Codes()); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
	if !allow.Contains("kr") || !allow.Contains("AA") {
		t.Fatalf("expected kr and AA to be allowed")
	}
	if allow.Contains("FR") {
		t.Fatalf("did not expect FR to be allowed")
	}
	if got := allow.Coerce("jp"); got != "JP" {
		t.Fatalf("Coerce(jp) = %q", got)
	}
	if got := allow.Coerce("fr"); got != "AA" {
		t.Fatalf("Coerce(fr) = %q", got)
	}
	if got := NewAllowList(nil, "").Default(); got != CountryRestOfWorld {
		t.Fatalf("expected default %s, got %q", CountryRestOfWorld, got)
	}
}

func TestEdgeResolver(t *testing.T) {
	resolver := NewEdgeResolver(NewAllowList([]string{"AA", "KR"}, "AA"))

	cases := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{name: "no headers", want: "AA"},
		{name: "cloudflare korea", headers: map[string]string{"CF-IPCountry": "KR"}, want: "KR"},
		{name: "lowercase geo header", headers: map[string]string{"cf-ipcountry": "kr"}, want: "KR"},
		{name: "other country", headers: map[string]string{"CF-IPCountry": "US"}, want: "AA"},
		{name: "korean browser abroad", headers: map[string]string{"CF-IPCountry": "US", "Accept-Language": "ko-KR,ko;q=0.9"}, want: "KR"},
		{name: "english browser", headers: map[string]string{"Accept-Language": "en-US,ko;q=0.5"}, want: "AA"},
		{name: "fallback geo header", headers: map[string]string{"X-Geo-Country": "KR, US"}, want: "KR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := resolver.Resolve(sourceWith(tc.headers, nil)); got != tc.want {
				t.Fatalf("Resolve() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestEdgeResolverExtendedAllowList(t *testing.T) {
	resolver := NewEdgeResolver(NewAllowList([]string{"AA", "KR", "JP"}, "AA"))
	got := resolver.Resolve(sourceWith(map[string]string{"CF-IPCountry": "JP"}, nil))
	if got != "JP" {
		t.Fatalf("expected JP, got %q", got)
	}
}

func TestRequestCountry(t *testing.T) {
	cases := []struct {
		name       string
		headers    map[string]string
		cookies    map[string]string
		fullLocale string
		want       string
	}{
		{name: "default", want: "KR"},
		{name: "header", headers: map[string]string{HeaderCountry: "jp"}, fullLocale: "en-US", want: "JP"},
		{name: "cookie", cookies: map[string]string{CookieCountry: "vn"}, fullLocale: "en-US", want: "VN"},
		{name: "locale region", fullLocale: "en-US", want: "US"},
		{name: "no region", fullLocale: "en", want: "KR"},
		{name: "invalid header ignored", headers: map[string]string{HeaderCountry: "USA"}, fullLocale: "th-TH", want: "TH"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RequestCountry(sourceWith(tc.headers, tc.cookies), tc.fullLocale); got != tc.want {
				t.Fatalf("RequestCountry() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestIsCountryCode(t *testing.T) {
	for input, want := range map[string]bool{"KR": true, "kr": true, "k1": false, "KOR": false, "": false, "é": false} {
		if got := IsCountryCode(input); got != want {
			t.Fatalf("IsCountryCode(%q) = %v, want %v", input, got, want)
		}
	}
}
