package routing

import "strings"

// DefaultLocales are the languages that appear as a path segment. Korean is the
// implied default and never does.
var DefaultLocales = []string{"en", "cn", "ja", "id", "vi", "th", "tw"}

// CityNormalizer canonicalizes locale-prefixed city paths.
type CityNormalizer struct {
	Locales      []string
	DefaultCity  string
	HomeLanguage string
	Exclusions   Exclusions
}

// NewCityNormalizer returns the seoul/ko configuration with DefaultExclusions.
func NewCityNormalizer() CityNormalizer {
	return CityNormalizer{
		Locales:      DefaultLocales,
		DefaultCity:  "seoul",
		HomeLanguage: "ko",
		Exclusions:   DefaultExclusions(),
	}
}

// Normalize injects the default city and the negotiated langCode where missing.
func (n CityNormalizer) Normalize(path, langCode string) Decision {
	if n.Exclusions.Match(path) {
		return pass("excluded")
	}

	lang := strings.ToLower(strings.TrimSpace(langCode))
	city := n.defaultCity()
	segments := splitSegments(path)

	switch {
	case len(segments) == 0:
		return n.toCity("root", city, lang)
	case len(segments) == 1 && segments[0] == "city":
		return n.toCity("city", city, lang)
	case len(segments) == 2 && segments[0] == "city":
		if n.supported(lang) {
			return redirect("city-code", "city", segments[1], lang)
		}
		return pass("city-code")
	case len(segments) == 3 && segments[0] == "city":
		if n.supported(segments[2]) {
			return pass("city-lang")
		}
		return n.toCity("city-lang", segments[1], lang)
	case len(segments) == 1 && n.supported(segments[0]):
		return redirect("lang", "city", city, segments[0])
	case len(segments) == 1 && segments[0] == n.homeLanguage():
		return n.toCity("lang", city, lang)
	}
	return pass("other")
}

func (n CityNormalizer) toCity(rule, city, lang string) Decision {
	if n.supported(lang) {
		return redirect(rule, "city", city, lang)
	}
	return redirect(rule, "city", city)
}

func (n CityNormalizer) supported(lang string) bool {
	for _, candidate := range n.Locales {
		if candidate == lang {
			return true
		}
	}
	return false
}

func (n CityNormalizer) defaultCity() string {
	if city := strings.TrimSpace(n.DefaultCity); city != "" {
		return city
	}
	return "seoul"
}

func (n CityNormalizer) homeLanguage() string {
	if lang := strings.TrimSpace(n.HomeLanguage); lang != "" {
		return lang
	}
	return "ko"
}
