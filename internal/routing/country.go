package routing

import "github.com/dplus/internal/locale"

// KnownRoutes are the first path segments that belong to a page family.
var KnownRoutes = map[string]struct{}{
	"date":     {},
	"event":    {},
	"folder":   {},
	"city":     {},
	"country":  {},
	"stag":     {},
	"tag":      {},
	"today":    {},
	"week":     {},
	"search":   {},
	"nearby":   {},
	"category": {},
}

// IsKnownRoute reports whether segment names a page family.
func IsKnownRoute(segment string) bool {
	_, ok := KnownRoutes[segment]
	return ok
}

// CountryNormalizer canonicalizes country-scoped paths against an allow-list.
type CountryNormalizer struct {
	Allow      locale.AllowList
	Exclusions Exclusions
}

// NewCountryNormalizer uses DefaultExclusions.
func NewCountryNormalizer(allow locale.AllowList) CountryNormalizer {
	return CountryNormalizer{Allow: allow, Exclusions: DefaultExclusions()}
}

// Normalize applies the ordered rule set; the first matching rule wins. country is
// the visitor's resolved country and is coerced into the allow-list.
func (n CountryNormalizer) Normalize(path, country string) Decision {
	if n.Exclusions.Match(path) {
		return pass("excluded")
	}

	cc := n.Allow.Coerce(country)
	fallback := n.Allow.Default()
	segments := splitSegments(path)

	switch {
	case len(segments) == 0:
		return redirect("root", cc)

	case len(segments) == 1 && segments[0] == "today":
		return redirect("today", "today", cc)
	case len(segments) == 2 && segments[0] == "today":
		return n.validate("today-country", segments[1], "today")

	case len(segments) == 2 && segments[0] == "date":
		return redirect("date", "date", segments[1], cc)
	case len(segments) == 3 && segments[0] == "date":
		return n.validate("date-country", segments[2], "date", segments[1])

	case len(segments) == 2 && segments[0] == "category":
		return redirect("category", "category", segments[1], cc)
	case len(segments) == 3 && segments[0] == "category":
		return n.validate("category-country", segments[2], "category", segments[1])

	case len(segments) == 2 && segments[0] == "country":
		if n.Allow.Contains(segments[1]) {
			return pass("country")
		}
		return redirect("country", "country", fallback)

	case len(segments) == 1:
		segment := segments[0]
		if IsKnownRoute(segment) {
			return pass("known-route")
		}
		if locale.IsCountryCode(segment) && n.Allow.Contains(segment) {
			return pass("country-code")
		}
		return redirect("unknown", fallback)

	case IsKnownRoute(segments[0]):
		return pass("known-route")
	}

	return redirect("unknown", fallback)
}

// validate passes code only in its canonical uppercase allowed form. A lowercase
// allowed code is redirected to its uppercase spelling; anything else to the fallback.
func (n CountryNormalizer) validate(rule, code string, prefix ...string) Decision {
	if locale.IsCountryCode(code) && n.Allow.Contains(code) {
		canonical := n.Allow.Coerce(code)
		if canonical == code {
			return pass(rule)
		}
		return redirect(rule, append(prefix, canonical)...)
	}
	return redirect(rule, append(prefix, n.Allow.Default())...)
}
