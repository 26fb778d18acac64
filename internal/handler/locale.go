package handler

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dplus/internal/locale"
	"github.com/dplus/internal/seo"
	"github.com/gin-gonic/gin"
)

const (
	localeContextKey   = "__request_locale"
	countryContextKey  = "__request_country"
	localeCookieMaxAge = 365 * 24 * 60 * 60
)

// localeOption is one entry of the language switcher.
type localeOption struct {
	Code   string
	Label  string
	Href   string
	Active bool
}

var localeLabels = map[string]string{
	locale.LangKorean:             "한국어",
	locale.LangEnglish:            "English",
	locale.LangChineseSimplified:  "简体中文",
	locale.LangChineseTraditional: "繁體中文",
	"ja":                          "日本語",
	"id":                          "Bahasa Indonesia",
	"vi":                          "Tiếng Việt",
	"th":                          "ไทย",
}

// 语言代码到写入 full-locale cookie 的完整区域设置。
var fullLocaleByLang = map[string]string{
	locale.LangKorean:             "ko-KR",
	locale.LangEnglish:            "en-US",
	locale.LangChineseSimplified:  "zh-CN",
	locale.LangChineseTraditional: "zh-TW",
	"ja":                          "ja-JP",
	"id":                          "id-ID",
	"vi":                          "vi-VN",
	"th":                          "th-TH",
}

// LocaleMiddleware resolves request language and country and sets headers for downstream caching.
func (a *API) LocaleMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		loc := a.requestLocale(c)
		a.requestCountry(c)
		c.Header("Content-Language", htmlLang(loc))
		varyHeaders := append([]string{"Accept-Language", "Cookie", locale.HeaderFullLocale, locale.HeaderLang}, locale.CountryHeaders()...)
		appendVaryHeader(c, varyHeaders...)
		c.Next()
	}
}

func (a *API) requestLocale(c *gin.Context) locale.Resolved {
	if cached, exists := c.Get(localeContextKey); exists {
		if loc, ok := cached.(locale.Resolved); ok {
			return loc
		}
	}
	loc := a.negotiator.Negotiate(locale.FromRequest(c.Request))
	c.Set(localeContextKey, loc)
	return loc
}

// requestCountry 是页面默认使用的国家：不受白名单约束。
func (a *API) requestCountry(c *gin.Context) string {
	if cached, exists := c.Get(countryContextKey); exists {
		if country, ok := cached.(string); ok {
			return country
		}
	}
	country := locale.RequestCountry(locale.FromRequest(c.Request), a.requestLocale(c).FullLocale)
	c.Set(countryContextKey, country)
	return country
}

// SwitchLocale stores the chosen language in cookies and returns to the page the visitor came from.
func (a *API) SwitchLocale(c *gin.Context) {
	lang := strings.ToLower(strings.TrimSpace(c.Param("lang")))
	next := safeNext(c.Query("next"))

	if !a.languageSupported(lang) {
		c.Redirect(http.StatusFound, next)
		return
	}

	a.persistLocale(c, lang)
	c.Redirect(http.StatusFound, next)
}

func (a *API) languageSupported(lang string) bool {
	return lang == a.homeLanguage() || a.isPathLanguage(lang)
}

// isPathLanguage reports whether lang may appear as the language segment of a city path.
func (a *API) isPathLanguage(lang string) bool {
	for _, candidate := range a.cities.Locales {
		if candidate == lang {
			return true
		}
	}
	return false
}

func (a *API) homeLanguage() string {
	if lang := a.cfg.Routing.HomeLanguage; lang != "" {
		return lang
	}
	return locale.LangKorean
}

func (a *API) persistLocale(c *gin.Context, lang string) {
	secure := strings.EqualFold(detectScheme(c), "https")
	full := fullLocaleByLang[lang]
	if full == "" {
		full = lang
	}
	for name, value := range map[string]string{locale.CookieLang: lang, locale.CookieFullLocale: full} {
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     name,
			Value:    value,
			Path:     "/",
			Secure:   secure,
			MaxAge:   localeCookieMaxAge,
			Expires:  time.Now().Add(365 * 24 * time.Hour),
			SameSite: http.SameSiteLaxMode,
		})
	}
}

func (a *API) localeLinks(c *gin.Context, current locale.Resolved) []localeOption {
	next := "/"
	if c.Request != nil && c.Request.URL != nil {
		next = c.Request.URL.RequestURI()
	}
	codes := append([]string{a.homeLanguage()}, a.cities.Locales...)
	options := make([]localeOption, 0, len(codes))
	for _, code := range codes {
		label := localeLabels[code]
		if label == "" {
			label = code
		}
		options = append(options, localeOption{
			Code:   code,
			Label:  label,
			Href:   "/locale/" + url.PathEscape(code) + "?next=" + url.QueryEscape(next),
			Active: code == current.LangCode,
		})
	}
	return options
}

// htmlLang 返回 <html lang> 与 Content-Language 使用的值。
func htmlLang(loc locale.Resolved) string {
	switch loc.LangCode {
	case locale.LangChineseSimplified, locale.LangChineseTraditional:
		return seo.Hreflang(loc.LangCode)
	}
	if loc.FullLocale != "" {
		return loc.FullLocale
	}
	return locale.DefaultFullLocale
}

// safeNext only accepts same-origin absolute paths.
func safeNext(raw string) string {
	next := strings.TrimSpace(raw)
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	parsed, err := url.Parse(next)
	if err != nil || parsed.IsAbs() || parsed.Host != "" {
		return "/"
	}
	return next
}

func detectScheme(c *gin.Context) string {
	if proto := strings.TrimSpace(strings.Split(c.GetHeader("X-Forwarded-Proto"), ",")[0]); proto != "" {
		return strings.ToLower(proto)
	}
	if c.Request != nil && c.Request.TLS != nil {
		return "https"
	}
	return "http"
}

func appendVaryHeader(c *gin.Context, headers ...string) {
	existing := c.Writer.Header().Get("Vary")
	seen := make(map[string]struct{})
	order := make([]string, 0, len(headers))
	for _, token := range append(strings.Split(existing, ","), headers...) {
		trimmed := strings.TrimSpace(token)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		order = append(order, trimmed)
	}
	if len(order) > 0 {
		c.Header("Vary", strings.Join(order, ", "))
	}
}
