package handler

import (
	"context"
	"time"

	"github.com/dplus/internal/api"
	"github.com/dplus/internal/config"
	"github.com/dplus/internal/locale"
	"github.com/dplus/internal/routing"
	"github.com/dplus/internal/seo"
	"github.com/dplus/internal/sitemap"
	"github.com/gin-gonic/gin"
)

// Backend is the part of the API client the handlers call. *api.Client implements it.
type Backend interface {
	Country(ctx context.Context, p api.CountryParams) (*api.Country, error)
	Countries(ctx context.Context, p api.ListParams) ([]api.Country, error)
	City(ctx context.Context, p api.CityParams) (*api.City, error)
	Cities(ctx context.Context, p api.CityListParams) ([]api.City, error)
	Category(ctx context.Context, p api.CategoryParams) (*api.Category, error)
	Categories(ctx context.Context, p api.ListParams) ([]api.Category, error)
	Event(ctx context.Context, p api.EventParams) (*api.Event, error)
	Events(ctx context.Context, p api.EventListParams) (*api.EventList, error)
	Folder(ctx context.Context, p api.FolderParams) (*api.Folder, error)
	Group(ctx context.Context, p api.GroupParams) (*api.Group, error)
	Place(ctx context.Context, p api.PlaceParams) (*api.Place, error)
	Stag(ctx context.Context, p api.StagParams) (*api.Stag, error)
	Tag(ctx context.Context, p api.TagParams) (*api.Tag, error)
	Date(ctx context.Context, p api.DateParams) (*api.EventList, error)
	Today(ctx context.Context, p api.TodayParams) (*api.EventList, error)
	Week(ctx context.Context, p api.WeekParams) (*api.EventList, error)
	Search(ctx context.Context, p api.SearchParams) (*api.EventList, error)
	Nearby(ctx context.Context, p api.NearbyParams) (*api.EventList, error)
}

// API bundles shared dependencies for HTTP handlers.
type API struct {
	backend    Backend
	cfg        config.AppConfig
	allow      locale.AllowList
	negotiator locale.Negotiator
	edge       locale.EdgeResolver
	countries  routing.CountryNormalizer
	cities     routing.CityNormalizer
	meta       seo.Builder
	sitemaps   sitemap.Generator
	now        func() time.Time
}

// NewAPI constructs a handler set from configuration and a backend client.
func NewAPI(cfg config.AppConfig, backend Backend) *API {
	r := cfg.Routing
	allow := locale.NewAllowList(r.AllowedCountries, r.DefaultCountry)

	edge := locale.NewEdgeResolver(allow)
	if r.HomeCountry != "" {
		edge.HomeCountry = r.HomeCountry
	}
	if r.HomeLanguage != "" {
		edge.HomeLanguage = r.HomeLanguage
	}

	exclusions := routing.DefaultExclusions()
	if len(r.PassthroughPaths) > 0 {
		exclusions = routing.Exclusions{Prefixes: r.PassthroughPaths}
	}

	countries := routing.NewCountryNormalizer(allow)
	countries.Exclusions = exclusions

	cities := routing.NewCityNormalizer()
	cities.Exclusions = exclusions
	if len(r.SupportedLocales) > 0 {
		cities.Locales = r.SupportedLocales
	}
	if r.DefaultCity != "" {
		cities.DefaultCity = r.DefaultCity
	}
	if r.HomeLanguage != "" {
		cities.HomeLanguage = r.HomeLanguage
	}

	return &API{
		backend:    backend,
		cfg:        cfg,
		allow:      allow,
		negotiator: locale.Negotiator{DefaultFullLocale: r.DefaultFullLocale},
		edge:       edge,
		countries:  countries,
		cities:     cities,
		meta:       seo.NewBuilder(cfg.SiteBaseURL, cfg.SiteName, cfg.DefaultOG),
		sitemaps: sitemap.Generator{
			BaseURL:   cfg.SiteBaseURL,
			Countries: allow.Codes(),
			Source:    backend,
		},
		now: time.Now,
	}
}

// Sitemaps exposes the generator so the CLI can write the same files.
func (a *API) Sitemaps() sitemap.Generator {
	return a.sitemaps
}

// Decide runs the configured normalizer for path, as the routing middleware would.
func (a *API) Decide(path string, src locale.Source) routing.Decision {
	if a.cfg.Routing.Mode == config.RoutingModeCity {
		return a.cities.Normalize(path, a.negotiator.Negotiate(src).LangCode)
	}
	return a.countries.Normalize(path, a.edge.Resolve(src))
}

func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	loc := a.requestLocale(c)

	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}

	defaults := gin.H{
		"siteName":    a.meta.SiteName,
		"year":        a.now().Year(),
		"lang":        htmlLang(loc),
		"langCode":    loc.LangCode,
		"query":       "",
		"heading":     "",
		"localeLinks": a.localeLinks(c, loc),
	}
	for key, value := range defaults {
		if _, exists := payload[key]; !exists {
			payload[key] = value
		}
	}
	if _, exists := payload["meta"]; !exists {
		payload["meta"] = a.meta.NotFound(loc)
	}

	c.HTML(status, template, payload)
}
