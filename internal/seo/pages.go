package seo

import (
	"strings"

	"github.com/dplus/internal/api"
	"github.com/dplus/internal/locale"
)

// CountryName returns the display name for a country page heading.
func CountryName(country *api.Country, code, langCode string) string {
	if strings.EqualFold(code, locale.CountryRestOfWorld) {
		return locale.T(langCode, locale.MsgRestOfWorld)
	}
	if country != nil {
		return Pick(country.Name, strings.ToUpper(code))
	}
	return strings.ToUpper(code)
}

func (b Builder) Country(country *api.Country, code string, loc locale.Resolved) Meta {
	code = strings.ToUpper(code)
	p := page{
		title:     locale.Tf(loc.LangCode, locale.MsgCountry, CountryName(country, code, loc.LangCode)),
		canonical: b.URL(code),
	}
	if country != nil {
		p.description = describe(country.Description)
		p.image = country.ImageURL
	}
	return b.build(loc, p)
}

// City builds metadata for /city/{slug}[/{lang}], with one alternate per path language.
func (b Builder) City(city *api.City, slug string, pathLangs []string, loc locale.Resolved) Meta {
	name := slug
	p := page{}
	if city != nil {
		name = Pick(city.Name, city.Slug, slug)
		p.description = describe(city.Description)
		p.image = city.ImageURL
	}
	p.title = locale.Tf(loc.LangCode, locale.MsgCity, name)
	p.canonical = b.cityURL(slug, loc.LangCode, pathLangs)
	p.alternates = b.cityAlternates(slug, pathLangs)
	return b.build(loc, p)
}

func (b Builder) cityURL(slug, langCode string, pathLangs []string) string {
	for _, lang := range pathLangs {
		if lang == langCode {
			return b.URL("city", slug, lang)
		}
	}
	return b.URL("city", slug)
}

func (b Builder) cityAlternates(slug string, pathLangs []string) []Alternate {
	home := b.URL("city", slug)
	alternates := []Alternate{{Hreflang: locale.LangKorean, Href: home}}
	for _, lang := range pathLangs {
		alternates = append(alternates, Alternate{Hreflang: Hreflang(lang), Href: b.URL("city", slug, lang)})
	}
	return append(alternates, Alternate{Hreflang: hreflangFallback, Href: home})
}

// Hreflang maps a path language code to a BCP 47 hreflang value.
func Hreflang(langCode string) string {
	switch langCode {
	case locale.LangChineseSimplified:
		return "zh-Hans"
	case locale.LangChineseTraditional:
		return "zh-Hant"
	default:
		return langCode
	}
}

func (b Builder) Category(category *api.Category, slug, country string, loc locale.Resolved) Meta {
	country = strings.ToUpper(country)
	name := slug
	p := page{canonical: b.URL("category", slug, country)}
	if category != nil {
		name = Pick(category.Name, slug)
		p.description = describe(category.Description)
		p.image = category.ImageURL
	}
	p.title = locale.Tf(loc.LangCode, locale.MsgCategory, name)
	return b.build(loc, p)
}

func (b Builder) Event(event *api.Event, loc locale.Resolved) Meta {
	if event == nil {
		return b.NotFound(loc)
	}
	image := event.ImageURL
	if image == "" && len(event.Images) > 0 {
		image = event.Images[0]
	}
	return b.build(loc, page{
		title:       Pick(event.Title, event.Subtitle),
		description: Pick(describe(event.Summary, event.Description), event.Subtitle),
		image:       image,
		kind:        TypeArticle,
		canonical:   b.URL("event", event.ID),
	})
}

func (b Builder) Folder(folder *api.Folder, loc locale.Resolved) Meta {
	if folder == nil {
		return b.NotFound(loc)
	}
	image := folder.ImageURL
	if image == "" && len(folder.Events) > 0 {
		image = folder.Events[0].ImageURL
	}
	return b.build(loc, page{
		title:       folder.Title,
		description: describe(folder.Description),
		image:       image,
		canonical:   b.URL("folder", folder.ID),
	})
}

func (b Builder) Tag(tag *api.Tag, slug string, loc locale.Resolved) Meta {
	p := page{title: "#" + slug, canonical: b.URL("tag", slug)}
	if tag != nil {
		p.title = "#" + Pick(tag.Name, slug)
		p.description = describe(tag.Description)
		p.image = tag.ImageURL
	}
	return b.build(loc, p)
}

func (b Builder) Stag(stag *api.Stag, loc locale.Resolved) Meta {
	if stag == nil {
		return b.NotFound(loc)
	}
	image := stag.ImageURL
	if image == "" && len(stag.Events) > 0 {
		image = stag.Events[0].ImageURL
	}
	return b.build(loc, page{
		title:       stag.Name,
		description: describe(stag.Description),
		image:       image,
		canonical:   b.URL("stag", stag.ID),
	})
}

func (b Builder) Today(country string, loc locale.Resolved) Meta {
	country = strings.ToUpper(country)
	return b.build(loc, page{
		title:     locale.T(loc.LangCode, locale.MsgToday),
		canonical: b.URL("today", country),
	})
}

func (b Builder) Date(date, country string, loc locale.Resolved) Meta {
	country = strings.ToUpper(country)
	return b.build(loc, page{
		title:     locale.Tf(loc.LangCode, locale.MsgDate, date),
		canonical: b.URL("date", date, country),
	})
}

func (b Builder) Week(country string, loc locale.Resolved) Meta {
	country = strings.ToUpper(country)
	return b.build(loc, page{
		title:     locale.T(loc.LangCode, locale.MsgWeek),
		canonical: b.URL("week", country),
	})
}

// Search results are never indexed.
func (b Builder) Search(query string, loc locale.Resolved) Meta {
	return b.build(loc, page{
		title:     locale.Tf(loc.LangCode, locale.MsgSearch, strings.TrimSpace(query)),
		canonical: b.URL("search"),
		noIndex:   true,
	})
}

func (b Builder) Nearby(loc locale.Resolved) Meta {
	return b.build(loc, page{
		title:     locale.T(loc.LangCode, locale.MsgNearby),
		canonical: b.URL("nearby"),
		noIndex:   true,
	})
}

func (b Builder) NotFound(loc locale.Resolved) Meta {
	return b.build(loc, page{
		title:   locale.T(loc.LangCode, locale.MsgNotFound),
		noIndex: true,
	})
}

func (b Builder) UpstreamFailure(loc locale.Resolved) Meta {
	return b.build(loc, page{
		title:   locale.T(loc.LangCode, locale.MsgUpstreamFailure),
		noIndex: true,
	})
}
