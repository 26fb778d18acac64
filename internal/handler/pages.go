package handler

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/dplus/internal/api"
	"github.com/dplus/internal/content"
	"github.com/dplus/internal/locale"
	"github.com/dplus/internal/logging"
	"github.com/dplus/internal/seo"
	"github.com/dplus/internal/view"
	"github.com/gin-gonic/gin"
	gobreaker "github.com/sony/gobreaker/v2"
)

const (
	relatedLimit      = 6
	defaultNearbyKM   = 5
	breakerRetryAfter = "30"
)

// ShowCountry renders /{country} and /country/{country}.
func (a *API) ShowCountry(c *gin.Context) {
	loc := a.requestLocale(c)
	code := strings.ToUpper(strings.TrimSpace(c.Param("country")))
	if !locale.IsCountryCode(code) {
		a.NotFound(c)
		return
	}

	ctx := c.Request.Context()
	country, err := a.backend.Country(ctx, api.CountryParams{Code: code, Lang: loc.LangCode})
	if err != nil {
		a.renderFailure(c, loc, err)
		return
	}

	cities := country.Cities
	if len(cities) == 0 {
		cities = a.optionalCities(ctx, code, loc)
	}

	a.renderHTML(c, http.StatusOK, "list.html", gin.H{
		"meta":       a.meta.Country(country, code, loc),
		"heading":    seo.CountryName(country, code, loc.LangCode),
		"intro":      renderIntro(ctx, country.Description),
		"country":    code,
		"cities":     cities,
		"categories": a.optionalCategories(ctx, loc),
		"events":     country.Events,
	})
}

// ShowToday renders /today/{country}.
func (a *API) ShowToday(c *gin.Context) {
	loc := a.requestLocale(c)
	country := a.pageCountry(c)

	list, err := a.backend.Today(c.Request.Context(), api.TodayParams{Country: country, Lang: loc.LangCode})
	if err != nil {
		a.renderFailure(c, loc, err)
		return
	}
	a.renderList(c, a.meta.Today(country, loc), locale.T(loc.LangCode, locale.MsgToday), country, list)
}

// ShowWeek renders /week and /week/{country}.
func (a *API) ShowWeek(c *gin.Context) {
	loc := a.requestLocale(c)
	country := a.pageCountry(c)

	list, err := a.backend.Week(c.Request.Context(), api.WeekParams{Country: country, Lang: loc.LangCode})
	if err != nil {
		a.renderFailure(c, loc, err)
		return
	}
	a.renderList(c, a.meta.Week(country, loc), locale.T(loc.LangCode, locale.MsgWeek), country, list)
}

// ShowDate renders /date/{date}/{country}.
func (a *API) ShowDate(c *gin.Context) {
	loc := a.requestLocale(c)
	date := strings.TrimSpace(c.Param("date"))
	country := a.pageCountry(c)

	list, err := a.backend.Date(c.Request.Context(), api.DateParams{Date: date, Country: country, Lang: loc.LangCode})
	if err != nil {
		a.renderFailure(c, loc, err)
		return
	}
	a.renderList(c, a.meta.Date(date, country, loc), locale.Tf(loc.LangCode, locale.MsgDate, date), country, list)
}

// ShowCategory renders /category/{slug}/{country}.
func (a *API) ShowCategory(c *gin.Context) {
	loc := a.requestLocale(c)
	slug := strings.TrimSpace(c.Param("slug"))
	country := a.pageCountry(c)
	ctx := c.Request.Context()

	category, err := a.backend.Category(ctx, api.CategoryParams{Slug: slug, Country: country, Lang: loc.LangCode})
	if err != nil {
		a.renderFailure(c, loc, err)
		return
	}

	a.renderHTML(c, http.StatusOK, "list.html", gin.H{
		"meta":       a.meta.Category(category, slug, country, loc),
		"heading":    seo.Pick(category.Name, slug),
		"intro":      renderIntro(ctx, category.Description),
		"country":    country,
		"categories": a.optionalCategories(ctx, loc),
		"events":     category.Events,
	})
}

// ShowCity renders /city/{city} and /city/{city}/{lang}. A supported path language
// takes precedence over the negotiated one.
func (a *API) ShowCity(c *gin.Context) {
	loc := a.requestLocale(c)
	if lang := strings.ToLower(c.Param("lang")); lang != "" {
		if !a.isPathLanguage(lang) {
			a.NotFound(c)
			return
		}
		loc = pathLocale(lang)
		c.Set(localeContextKey, loc)
		c.Header("Content-Language", htmlLang(loc))
	}

	slug := strings.TrimSpace(c.Param("city"))
	ctx := c.Request.Context()
	city, err := a.backend.City(ctx, api.CityParams{Slug: slug, Lang: loc.LangCode})
	if err != nil {
		a.renderFailure(c, loc, err)
		return
	}

	a.renderHTML(c, http.StatusOK, "list.html", gin.H{
		"meta":    a.meta.City(city, slug, a.cities.Locales, loc),
		"heading": seo.Pick(city.Name, slug),
		"intro":   renderIntro(ctx, city.Description),
		"country": strings.ToUpper(city.CountryCode),
		"events":  city.Events,
	})
}

// ShowEvent renders /event/{id} with its place, body and related events.
func (a *API) ShowEvent(c *gin.Context) {
	loc := a.requestLocale(c)
	id := strings.TrimSpace(c.Param("id"))
	ctx := c.Request.Context()

	event, err := a.backend.Event(ctx, api.EventParams{ID: id, Lang: loc.LangCode})
	if err != nil {
		a.renderFailure(c, loc, err)
		return
	}

	place := event.Place
	if place == nil && event.PlaceID != "" {
		fetched, placeErr := a.backend.Place(ctx, api.PlaceParams{ID: event.PlaceID, Lang: loc.LangCode})
		if placeErr != nil {
			logging.Ctx(ctx).Warn().Err(placeErr).Str("event_id", event.ID).Str("place_id", event.PlaceID).Msg("place lookup failed")
		} else {
			place = fetched
		}
	}

	body, err := content.Render(event.Description)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("event_id", event.ID).Msg("render event body failed")
		body = ""
	}

	meta := a.meta.Event(event, loc)
	a.renderHTML(c, http.StatusOK, "event.html", gin.H{
		"meta":    meta,
		"heading": event.Title,
		"event":   event,
		"place":   place,
		"body":    body,
		"share":   view.ShareLinks(meta.Canonical, event.Title),
		"related": a.relatedEvents(ctx, event, loc),
	})
}

// ShowFolder renders /folder/{id}; the owning group is shown when it can be fetched.
func (a *API) ShowFolder(c *gin.Context) {
	loc := a.requestLocale(c)
	id := strings.TrimSpace(c.Param("id"))
	ctx := c.Request.Context()

	folder, err := a.backend.Folder(ctx, api.FolderParams{ID: id, Lang: loc.LangCode})
	if err != nil {
		a.renderFailure(c, loc, err)
		return
	}

	var group *api.Group
	if folder.GroupID != "" {
		group, err = a.backend.Group(ctx, api.GroupParams{ID: folder.GroupID, Lang: loc.LangCode})
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("folder_id", folder.ID).Str("group_id", folder.GroupID).Msg("group lookup failed")
			group = nil
		}
	}

	a.renderHTML(c, http.StatusOK, "list.html", gin.H{
		"meta":    a.meta.Folder(folder, loc),
		"heading": folder.Title,
		"intro":   renderIntro(ctx, folder.Description),
		"group":   group,
		"events":  folder.Events,
	})
}

// ShowTag renders /tag/{tag}.
func (a *API) ShowTag(c *gin.Context) {
	loc := a.requestLocale(c)
	slug := strings.TrimSpace(c.Param("tag"))
	ctx := c.Request.Context()

	tag, err := a.backend.Tag(ctx, api.TagParams{Tag: slug, Lang: loc.LangCode})
	if err != nil {
		a.renderFailure(c, loc, err)
		return
	}

	a.renderHTML(c, http.StatusOK, "list.html", gin.H{
		"meta":    a.meta.Tag(tag, slug, loc),
		"heading": "#" + seo.Pick(tag.Name, slug),
		"intro":   renderIntro(ctx, tag.Description),
		"events":  tag.Events,
	})
}

// ShowStag renders /stag/{id}.
func (a *API) ShowStag(c *gin.Context) {
	loc := a.requestLocale(c)
	id := strings.TrimSpace(c.Param("id"))
	ctx := c.Request.Context()

	stag, err := a.backend.Stag(ctx, api.StagParams{ID: id, Lang: loc.LangCode})
	if err != nil {
		a.renderFailure(c, loc, err)
		return
	}

	a.renderHTML(c, http.StatusOK, "list.html", gin.H{
		"meta":    a.meta.Stag(stag, loc),
		"heading": stag.Name,
		"intro":   renderIntro(ctx, stag.Description),
		"events":  stag.Events,
	})
}

// ShowSearch renders /search?q=. An empty query shows the empty page without calling the backend.
func (a *API) ShowSearch(c *gin.Context) {
	loc := a.requestLocale(c)
	query := strings.TrimSpace(c.Query("q"))
	country := a.pageCountry(c)
	meta := a.meta.Search(query, loc)
	heading := locale.Tf(loc.LangCode, locale.MsgSearch, query)

	if query == "" {
		a.renderHTML(c, http.StatusOK, "list.html", gin.H{
			"meta":    meta,
			"heading": locale.T(loc.LangCode, locale.MsgSearchHint),
			"country": country,
		})
		return
	}

	list, err := a.backend.Search(c.Request.Context(), api.SearchParams{Query: query, Country: country, Lang: loc.LangCode})
	if err != nil && !errors.Is(err, api.ErrNotFound) {
		a.renderFailure(c, loc, err)
		return
	}

	a.renderHTML(c, http.StatusOK, "list.html", gin.H{
		"meta":    meta,
		"heading": heading,
		"query":   query,
		"country": country,
		"events":  listEvents(list),
	})
}

// ShowNearby renders /nearby?lat=&lng=[&radius=]. Missing coordinates show the empty page.
func (a *API) ShowNearby(c *gin.Context) {
	loc := a.requestLocale(c)
	meta := a.meta.Nearby(loc)
	heading := locale.T(loc.LangCode, locale.MsgNearby)

	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		a.renderHTML(c, http.StatusOK, "list.html", gin.H{"meta": meta, "heading": heading})
		return
	}
	radius, err := strconv.ParseFloat(c.Query("radius"), 64)
	if err != nil || radius <= 0 {
		radius = defaultNearbyKM
	}

	list, err := a.backend.Nearby(c.Request.Context(), api.NearbyParams{Latitude: lat, Longitude: lng, RadiusKM: radius, Lang: loc.LangCode})
	if err != nil && !errors.Is(err, api.ErrNotFound) {
		a.renderFailure(c, loc, err)
		return
	}

	a.renderHTML(c, http.StatusOK, "list.html", gin.H{
		"meta":    meta,
		"heading": heading,
		"events":  listEvents(list),
	})
}

// NotFound renders the 404 page; used for NoRoute and for invalid path parameters.
func (a *API) NotFound(c *gin.Context) {
	loc := a.requestLocale(c)
	if decision, ok := routeDecision(c); ok {
		logging.Ctx(c.Request.Context()).Debug().Str("rule", decision.Rule).Str("path", c.Request.URL.Path).Msg("no page for path")
	}
	a.renderHTML(c, http.StatusNotFound, "error.html", gin.H{
		"meta":    a.meta.NotFound(loc),
		"heading": locale.T(loc.LangCode, locale.MsgNotFound),
	})
}

// renderFailure maps backend errors onto the error page: unknown entities and invalid
// parameters are 404, an open breaker is 503 and anything else is 502.
func (a *API) renderFailure(c *gin.Context, loc locale.Resolved, err error) {
	if errors.Is(err, api.ErrNotFound) || errors.Is(err, api.ErrInvalidParams) {
		a.NotFound(c)
		return
	}

	_ = c.Error(err)
	status := http.StatusBadGateway
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		status = http.StatusServiceUnavailable
		c.Header("Retry-After", breakerRetryAfter)
	}
	logging.Ctx(c.Request.Context()).Error().Err(err).Int("status", status).Str("path", c.Request.URL.Path).Msg("backend request failed")

	a.renderHTML(c, status, "error.html", gin.H{
		"meta":    a.meta.UpstreamFailure(loc),
		"heading": locale.T(loc.LangCode, locale.MsgUpstreamFailure),
	})
}

func (a *API) renderList(c *gin.Context, meta seo.Meta, heading, country string, list *api.EventList) {
	a.renderHTML(c, http.StatusOK, "list.html", gin.H{
		"meta":    meta,
		"heading": heading,
		"country": country,
		"events":  listEvents(list),
	})
}

// pageCountry 优先取路径参数，其次 ?country=，最后按请求推断并收敛到白名单。
func (a *API) pageCountry(c *gin.Context) string {
	for _, candidate := range []string{c.Param("country"), c.Query("country")} {
		if code := strings.ToUpper(strings.TrimSpace(candidate)); code != "" {
			return code
		}
	}
	return a.allow.Coerce(a.requestCountry(c))
}

func (a *API) optionalCities(ctx context.Context, country string, loc locale.Resolved) []api.City {
	cities, err := a.backend.Cities(ctx, api.CityListParams{Country: country, Lang: loc.LangCode})
	if err != nil {
		if !errors.Is(err, api.ErrNotFound) {
			logging.Ctx(ctx).Warn().Err(err).Str("country", country).Msg("city list unavailable")
		}
		return nil
	}
	return cities
}

func (a *API) optionalCategories(ctx context.Context, loc locale.Resolved) []api.Category {
	categories, err := a.backend.Categories(ctx, api.ListParams{Lang: loc.LangCode})
	if err != nil {
		if !errors.Is(err, api.ErrNotFound) {
			logging.Ctx(ctx).Warn().Err(err).Msg("category list unavailable")
		}
		return nil
	}
	return categories
}

// relatedEvents lists other events of the same city.
func (a *API) relatedEvents(ctx context.Context, event *api.Event, loc locale.Resolved) []api.Event {
	if event.CitySlug == "" {
		return nil
	}
	city, err := a.backend.City(ctx, api.CityParams{Slug: event.CitySlug, Lang: loc.LangCode})
	if err != nil {
		if !errors.Is(err, api.ErrNotFound) {
			logging.Ctx(ctx).Warn().Err(err).Str("city", event.CitySlug).Msg("related events unavailable")
		}
		return nil
	}
	related := make([]api.Event, 0, relatedLimit)
	for _, candidate := range city.Events {
		if candidate.ID == event.ID {
			continue
		}
		related = append(related, candidate)
		if len(related) == relatedLimit {
			break
		}
	}
	return related
}

func renderIntro(ctx context.Context, markdown string) template.HTML {
	if strings.TrimSpace(markdown) == "" {
		return ""
	}
	html, err := content.Render(markdown)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("render intro failed")
		return ""
	}
	return html
}

func listEvents(list *api.EventList) []api.Event {
	if list == nil {
		return nil
	}
	return list.Events
}

func pathLocale(lang string) locale.Resolved {
	full := fullLocaleByLang[lang]
	if full == "" {
		full = lang
	}
	return locale.Resolved{FullLocale: full, LangCode: lang, BaseLang: lang}
}
