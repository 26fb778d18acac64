package locale

import "strings"

const (
	// CountryRestOfWorld is the catch-all country used when nothing better is known.
	CountryRestOfWorld = "AA"
	CountryKorea       = "KR"
)

// countryHeaderCandidates are edge-injected geo headers, most trusted first.
var countryHeaderCandidates = []string{
	"CF-IPCountry",
	"X-Geo-Country",
	"X-Forwarded-Country",
	"X-Country-Code",
}

// CountryHeaders lists the geo headers the edge resolver reads, for Vary.
func CountryHeaders() []string {
	out := make([]string, len(countryHeaderCandidates))
	copy(out, countryHeaderCandidates)
	return out
}

// AllowList is the set of country codes pages are published for.
type AllowList struct {
	codes    map[string]struct{}
	ordered  []string
	fallback string
}

// NewAllowList uppercases codes; fallback is added when missing.
func NewAllowList(codes []string, fallback string) AllowList {
	fallback = strings.ToUpper(strings.TrimSpace(fallback))
	if fallback == "" {
		fallback = CountryRestOfWorld
	}
	list := AllowList{codes: map[string]struct{}{}, fallback: fallback}
	for _, code := range append(append([]string{}, codes...), fallback) {
		normalized := strings.ToUpper(strings.TrimSpace(code))
		if !IsCountryCode(normalized) {
			continue
		}
		if _, exists := list.codes[normalized]; exists {
			continue
		}
		list.codes[normalized] = struct{}{}
		list.ordered = append(list.ordered, normalized)
	}
	return list
}

// Contains reports whether code, compared case-insensitively, is allowed.
func (a AllowList) Contains(code string) bool {
	_, ok := a.codes[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

// Coerce returns the canonical uppercase code, or the fallback when not allowed.
func (a AllowList) Coerce(code string) string {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if _, ok := a.codes[normalized]; ok {
		return normalized
	}
	return a.fallback
}

func (a AllowList) Default() string {
	return a.fallback
}

// Codes returns the allowed codes in configuration order.
func (a AllowList) Codes() []string {
	out := make([]string, len(a.ordered))
	copy(out, a.ordered)
	return out
}

// EdgeResolver picks the country used by the country-routing middleware.
type EdgeResolver struct {
	Allow        AllowList
	HomeCountry  string
	HomeLanguage string
}

// NewEdgeResolver returns the resolver for allow-list {AA, KR} keyed on Korean visitors.
func NewEdgeResolver(allow AllowList) EdgeResolver {
	return EdgeResolver{Allow: allow, HomeCountry: CountryKorea, HomeLanguage: LangKorean}
}

// Resolve checks the geo header, then Accept-Language, and always returns an allowed code.
func (r EdgeResolver) Resolve(src Source) string {
	home := strings.ToUpper(strings.TrimSpace(r.HomeCountry))
	if home == "" {
		home = CountryKorea
	}
	homeLang := strings.ToLower(strings.TrimSpace(r.HomeLanguage))
	if homeLang == "" {
		homeLang = LangKorean
	}

	if geo := strings.ToUpper(readCountryHeader(src)); geo != "" {
		if geo == home || (geo != r.Allow.Default() && r.Allow.Contains(geo)) {
			return r.Allow.Coerce(geo)
		}
	}

	if strings.HasPrefix(strings.ToLower(src.header("Accept-Language")), homeLang) {
		return r.Allow.Coerce(home)
	}
	return r.Allow.Default()
}

// RequestCountry is the general-purpose resolver: x-country header, country cookie,
// then the region of fullLocale. It defaults to KR and does not consult an allow-list.
func RequestCountry(src Source, fullLocale string) string {
	for _, candidate := range []string{src.header(HeaderCountry), src.cookie(CookieCountry)} {
		if normalized := strings.ToUpper(candidate); IsCountryCode(normalized) {
			return normalized
		}
	}
	if _, region := splitLocale(fullLocale); IsCountryCode(region) {
		return region
	}
	return CountryKorea
}

// IsCountryCode reports whether code is exactly two ASCII letters.
func IsCountryCode(code string) bool {
	if len(code) != 2 {
		return false
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}

func readCountryHeader(src Source) string {
	for _, header := range countryHeaderCandidates {
		value := src.header(header)
		if value == "" {
			continue
		}
		candidate := strings.TrimSpace(strings.Split(value, ",")[0])
		if candidate != "" {
			return candidate
		}
	}
	return ""
}
