// Package seo builds page metadata (title, description, canonical URL, Open
// Graph and Twitter cards) from backend entities.
package seo

import (
	"net/url"
	"strings"

	"github.com/dplus/internal/content"
	"github.com/dplus/internal/locale"
)

const (
	TypeWebsite = "website"
	TypeArticle = "article"

	cardSummary      = "summary"
	cardLargeImage   = "summary_large_image"
	hreflangFallback = "x-default"
)

// Alternate is one <link rel="alternate" hreflang> entry.
type Alternate struct {
	Hreflang string
	Href     string
}

type Twitter struct {
	Card        string
	Title       string
	Description string
	Image       string
}

// Meta is everything the page <head> needs.
type Meta struct {
	Title       string
	Description string
	Canonical   string
	Image       string
	Type        string
	Locale      string
	SiteName    string
	NoIndex     bool
	Alternates  []Alternate
	Twitter     Twitter
}

// Pick returns the first non-blank value, trimmed.
func Pick(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// Builder carries the site-wide defaults used by every page.
type Builder struct {
	BaseURL      string
	SiteName     string
	DefaultImage string
}

func NewBuilder(baseURL, siteName, defaultImage string) Builder {
	return Builder{
		BaseURL:      strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		SiteName:     Pick(siteName, "dplus"),
		DefaultImage: strings.TrimSpace(defaultImage),
	}
}

// URL joins escaped path segments onto BaseURL.
func (b Builder) URL(segments ...string) string {
	escaped := make([]string, 0, len(segments))
	for _, segment := range segments {
		if segment = strings.Trim(segment, "/"); segment != "" {
			escaped = append(escaped, url.PathEscape(segment))
		}
	}
	return b.BaseURL + "/" + strings.Join(escaped, "/")
}

// Absolute resolves a possibly relative asset URL against BaseURL.
func (b Builder) Absolute(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	if strings.HasPrefix(ref, "//") {
		return "https:" + ref
	}
	return b.BaseURL + "/" + strings.TrimLeft(ref, "/")
}

// page assembles a Meta. description is already plain text.
type page struct {
	title       string
	description string
	image       string
	kind        string
	canonical   string
	alternates  []Alternate
	noIndex     bool
}

func (b Builder) build(loc locale.Resolved, p page) Meta {
	title := b.SiteName
	if p.title != "" && p.title != b.SiteName {
		title = p.title + " | " + b.SiteName
	}
	description := Pick(p.description, locale.T(loc.LangCode, locale.MsgSiteTagline))
	image := b.Absolute(Pick(p.image, b.DefaultImage))
	kind := Pick(p.kind, TypeWebsite)

	card := cardSummary
	if image != "" {
		card = cardLargeImage
	}

	return Meta{
		Title:       title,
		Description: description,
		Canonical:   p.canonical,
		Image:       image,
		Type:        kind,
		Locale:      ogLocale(loc.FullLocale),
		SiteName:    b.SiteName,
		NoIndex:     p.noIndex,
		Alternates:  p.alternates,
		Twitter: Twitter{
			Card:        card,
			Title:       title,
			Description: description,
			Image:       image,
		},
	}
}

// ogLocale 把 "ko-KR" 转成 Open Graph 使用的 "ko_KR"。
func ogLocale(fullLocale string) string {
	full := Pick(fullLocale, locale.DefaultFullLocale)
	return strings.ReplaceAll(full, "-", "_")
}

func describe(markdown ...string) string {
	for _, value := range markdown {
		if text := content.Description(value); text != "" {
			return text
		}
	}
	return ""
}
