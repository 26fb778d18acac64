package locale

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

const (
	LangKorean             = "ko"
	LangEnglish            = "en"
	LangChineseSimplified  = "cn"
	LangChineseTraditional = "tw"

	// DefaultFullLocale is used when neither an override nor Accept-Language yields a locale.
	DefaultFullLocale = "ko-KR"
)

const (
	HeaderFullLocale = "X-Full-Locale"
	HeaderLang       = "X-Lang"
	HeaderCountry    = "X-Country"

	CookieFullLocale = "full-locale"
	CookieLang       = "lang"
	CookieCountry    = "country"
)

// Source is the part of a request the negotiator and resolvers look at.
type Source struct {
	Header  http.Header
	Cookies map[string]string
}

// FromRequest snapshots headers and cookies of r.
func FromRequest(r *http.Request) Source {
	src := Source{Header: http.Header{}, Cookies: map[string]string{}}
	if r == nil {
		return src
	}
	if r.Header != nil {
		src.Header = r.Header
	}
	for _, cookie := range r.Cookies() {
		if _, exists := src.Cookies[cookie.Name]; !exists {
			src.Cookies[cookie.Name] = cookie.Value
		}
	}
	return src
}

func (s Source) header(name string) string {
	if s.Header == nil {
		return ""
	}
	return strings.TrimSpace(s.Header.Get(name))
}

func (s Source) cookie(name string) string {
	if s.Cookies == nil {
		return ""
	}
	return strings.TrimSpace(s.Cookies[name])
}

// Resolved is the per-request locale outcome.
type Resolved struct {
	// FullLocale is "lang" or "lang-REGION", e.g. "ko-KR".
	FullLocale string
	// LangCode selects translated content; "cn"/"tw" stand in for "zh".
	LangCode string
	BaseLang string
}

// Language returns the language part of FullLocale.
func (r Resolved) Language() string {
	lang, _ := splitLocale(r.FullLocale)
	return lang
}

// Region returns the region part of FullLocale, or "".
func (r Resolved) Region() string {
	_, region := splitLocale(r.FullLocale)
	return region
}

// Negotiator derives a Resolved locale from request headers and cookies.
type Negotiator struct {
	DefaultFullLocale string
}

// Negotiate runs the default negotiator.
func Negotiate(src Source) Resolved {
	return Negotiator{}.Negotiate(src)
}

// Negotiate never fails: missing or malformed input resolves to the default locale.
func (n Negotiator) Negotiate(src Source) Resolved {
	fallback, ok := NormalizeFullLocale(n.DefaultFullLocale)
	if !ok {
		fallback = DefaultFullLocale
	}

	fullLocale := ""
	for _, candidate := range []string{src.header(HeaderFullLocale), src.cookie(CookieFullLocale)} {
		if normalized, ok := NormalizeFullLocale(candidate); ok {
			fullLocale = normalized
			break
		}
	}
	if fullLocale == "" {
		fullLocale = FromAcceptLanguage(src.header("Accept-Language"))
	}
	if fullLocale == "" {
		fullLocale = fallback
	}

	lang, region := splitLocale(fullLocale)

	baseLang := ""
	for _, candidate := range []string{src.header(HeaderLang), src.cookie(CookieLang)} {
		if normalized := baseLanguage(candidate); normalized != "" {
			baseLang = normalized
			break
		}
	}
	if baseLang == "" {
		baseLang = lang
	}

	langCode := baseLang
	if lang == "zh" {
		langCode = chineseLangCode(region, "")
	}

	return Resolved{FullLocale: fullLocale, LangCode: langCode, BaseLang: baseLang}
}

// FromAcceptLanguage returns the normalized full locale of the highest-priority
// usable Accept-Language entry, or "" when the header yields nothing.
func FromAcceptLanguage(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		// 单个未知子标签会让整个头解析失败，此时逐项解析。
		return fromAcceptLanguageEntries(header)
	}
	for _, tag := range tags {
		if normalized, ok := normalizeTag(tag); ok {
			return normalized
		}
	}
	return ""
}

// fromAcceptLanguageEntries ranks entries by q and returns the first one that
// normalizes. Entries with a malformed or zero q are skipped.
func fromAcceptLanguageEntries(header string) string {
	type candidate struct {
		tag string
		q   float64
	}
	var candidates []candidate
	for _, part := range strings.Split(header, ",") {
		tag, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		tag = strings.TrimSpace(tag)
		if tag == "" || tag == "*" {
			continue
		}
		q := 1.0
		if params = strings.TrimSpace(params); params != "" {
			name, value, ok := strings.Cut(params, "=")
			if !ok || !strings.EqualFold(strings.TrimSpace(name), "q") {
				continue
			}
			parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil || parsed <= 0 || parsed > 1 {
				continue
			}
			q = parsed
		}
		candidates = append(candidates, candidate{tag: tag, q: q})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].q > candidates[j].q
	})
	for _, c := range candidates {
		if normalized, ok := NormalizeFullLocale(c.tag); ok {
			return normalized
		}
	}
	return ""
}

// NormalizeFullLocale lowercases the language and uppercases the region:
// "zh_tw" -> "zh-TW", "EN" -> "en". Scripts and variants are dropped.
func NormalizeFullLocale(raw string) (string, bool) {
	trimmed := strings.ReplaceAll(strings.TrimSpace(raw), "_", "-")
	if trimmed == "" {
		return "", false
	}
	tag, err := language.Parse(trimmed)
	if err != nil {
		return "", false
	}
	return normalizeTag(tag)
}

func normalizeTag(tag language.Tag) (string, bool) {
	base, conf := tag.Base()
	if conf == language.No || base.String() == "und" {
		return "", false
	}
	lang := strings.ToLower(base.String())
	region, regionConf := tag.Region()
	if regionConf == language.Exact && region.IsCountry() {
		return lang + "-" + strings.ToUpper(region.String()), true
	}
	if lang == "zh" {
		// zh-Hant without a region still means traditional characters.
		if script, scriptConf := tag.Script(); scriptConf == language.Exact && script.String() == "Hant" {
			return "zh-TW", true
		}
	}
	return lang, true
}

// NormalizeLangCode maps user input ("zh-Hant", "zh_CN", "EN-us", "tw") onto a langCode.
// It returns "" when raw is not a language.
func NormalizeLangCode(raw string) string {
	trimmed := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(raw), "_", "-"))
	switch trimmed {
	case "":
		return ""
	case LangChineseSimplified, LangChineseTraditional:
		return trimmed
	}
	full, ok := NormalizeFullLocale(trimmed)
	if !ok {
		return ""
	}
	lang, region := splitLocale(full)
	if lang == "zh" {
		return chineseLangCode(region, trimmed)
	}
	return lang
}

func chineseLangCode(region, raw string) string {
	switch region {
	case "TW", "HK", "MO":
		return LangChineseTraditional
	}
	if strings.Contains(raw, "hant") {
		return LangChineseTraditional
	}
	return LangChineseSimplified
}

func baseLanguage(raw string) string {
	trimmed := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(raw), "_", "-"))
	if trimmed == "" {
		return ""
	}
	if idx := strings.Index(trimmed, "-"); idx > 0 {
		trimmed = trimmed[:idx]
	}
	for _, r := range trimmed {
		if r < 'a' || r > 'z' {
			return ""
		}
	}
	return trimmed
}

func splitLocale(full string) (string, string) {
	lang, region, found := strings.Cut(full, "-")
	if !found {
		return lang, ""
	}
	return lang, region
}
