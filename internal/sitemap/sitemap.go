// Package sitemap renders the sitemap index, per-section url sets and robots.txt.
package sitemap

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dplus/internal/api"
	"github.com/dplus/internal/logging"
	"github.com/dplus/internal/seo"
	"github.com/goliatone/go-slug"
)

const (
	xmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

	// 单个 urlset 的上限由协议规定为 50000。
	maxURLs       = 50000
	eventPageSize = 500
)

// Sections in index order.
const (
	SectionStatic     = "static"
	SectionCountries  = "countries"
	SectionCities     = "cities"
	SectionCategories = "categories"
	SectionEvents     = "events"
)

var Sections = []string{SectionStatic, SectionCountries, SectionCities, SectionCategories, SectionEvents}

// ErrUnknownSection is returned for a section name outside Sections.
var ErrUnknownSection = errors.New("sitemap: unknown section")

type URL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod,omitempty"`
	ChangeFreq string  `xml:"changefreq,omitempty"`
	Priority   float64 `xml:"priority,omitempty"`
}

type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

type Entry struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

type Index struct {
	XMLName  xml.Name `xml:"sitemapindex"`
	Xmlns    string   `xml:"xmlns,attr"`
	Sitemaps []Entry  `xml:"sitemap"`
}

// Source is the slice of the backend client the generator reads.
type Source interface {
	Countries(ctx context.Context, p api.ListParams) ([]api.Country, error)
	Cities(ctx context.Context, p api.CityListParams) ([]api.City, error)
	Categories(ctx context.Context, p api.ListParams) ([]api.Category, error)
	Events(ctx context.Context, p api.EventListParams) (*api.EventList, error)
}

// Generator builds sitemaps for the site rooted at BaseURL.
type Generator struct {
	BaseURL   string
	Countries []string
	Source    Source
	MaxPages  int
	Now       func() time.Time
}

func (g Generator) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

// url 与页面 canonical 共用同一套转义规则，sitemap 里的 loc 和 <link rel="canonical"> 逐字一致。
func (g Generator) url(segments ...string) string {
	return seo.NewBuilder(g.BaseURL, "", "").URL(segments...)
}

// Index renders the sitemap index that lists every section.
func (g Generator) Index() ([]byte, error) {
	lastMod := g.now().UTC().Format(time.DateOnly)
	index := Index{Xmlns: xmlns}
	for _, section := range Sections {
		index.Sitemaps = append(index.Sitemaps, Entry{Loc: g.url("sitemaps", section+".xml"), LastMod: lastMod})
	}
	return encode(index)
}

// Section renders one url set.
func (g Generator) Section(ctx context.Context, section string) ([]byte, error) {
	var (
		urls []URL
		err  error
	)
	switch section {
	case SectionStatic:
		urls = g.staticURLs()
	case SectionCountries:
		urls, err = g.countryURLs(ctx)
	case SectionCities:
		urls, err = g.cityURLs(ctx)
	case SectionCategories:
		urls, err = g.categoryURLs(ctx)
	case SectionEvents:
		urls, err = g.eventURLs(ctx)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}
	if err != nil {
		return nil, fmt.Errorf("sitemap %s: %w", section, err)
	}
	if len(urls) > maxURLs {
		urls = urls[:maxURLs]
	}
	return encode(URLSet{Xmlns: xmlns, URLs: urls})
}

func (g Generator) staticURLs() []URL {
	urls := []URL{{Loc: g.url(), ChangeFreq: "daily", Priority: 1.0}}
	for _, code := range g.Countries {
		urls = append(urls,
			URL{Loc: g.url(code), ChangeFreq: "daily", Priority: 0.9},
			URL{Loc: g.url("today", code), ChangeFreq: "hourly", Priority: 0.8},
			URL{Loc: g.url("week", code), ChangeFreq: "daily", Priority: 0.7},
		)
	}
	return urls
}

func (g Generator) countryURLs(ctx context.Context) ([]URL, error) {
	countries, err := g.Source.Countries(ctx, api.ListParams{})
	if err != nil {
		return nil, err
	}
	urls := make([]URL, 0, len(countries))
	for _, country := range countries {
		code := strings.ToUpper(strings.TrimSpace(country.Code))
		if len(code) != 2 {
			continue
		}
		urls = append(urls, URL{Loc: g.url("country", code), LastMod: lastMod(country.UpdatedAt), ChangeFreq: "daily", Priority: 0.6})
	}
	return urls, nil
}

func (g Generator) cityURLs(ctx context.Context) ([]URL, error) {
	cities, err := g.Source.Cities(ctx, api.CityListParams{})
	if err != nil {
		return nil, err
	}
	urls := make([]URL, 0, len(cities))
	for _, city := range cities {
		value := Slug(city.Slug, city.Name)
		if value == "" {
			continue
		}
		urls = append(urls, URL{Loc: g.url("city", value), LastMod: lastMod(city.UpdatedAt), ChangeFreq: "daily", Priority: 0.6})
	}
	return urls, nil
}

func (g Generator) categoryURLs(ctx context.Context) ([]URL, error) {
	categories, err := g.Source.Categories(ctx, api.ListParams{})
	if err != nil {
		return nil, err
	}
	urls := make([]URL, 0, len(categories)*len(g.Countries))
	for _, category := range categories {
		value := Slug(category.Slug, category.Name)
		if value == "" {
			continue
		}
		for _, code := range g.Countries {
			urls = append(urls, URL{Loc: g.url("category", value, code), LastMod: lastMod(category.UpdatedAt), ChangeFreq: "daily", Priority: 0.5})
		}
	}
	return urls, nil
}

// eventURLs pages through the event list until an empty page or MaxPages.
func (g Generator) eventURLs(ctx context.Context) ([]URL, error) {
	maxPages := g.MaxPages
	if maxPages <= 0 {
		maxPages = maxURLs / eventPageSize
	}

	seen := make(map[string]struct{})
	var urls []URL
	for page := 1; page <= maxPages; page++ {
		list, err := g.Source.Events(ctx, api.EventListParams{Page: page, Size: eventPageSize})
		if errors.Is(err, api.ErrNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(list.Events) == 0 {
			break
		}
		for _, event := range list.Events {
			id := strings.TrimSpace(event.ID)
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			urls = append(urls, URL{Loc: g.url("event", id), LastMod: lastMod(event.UpdatedAt), ChangeFreq: "weekly", Priority: 0.4})
		}
		if len(list.Events) < eventPageSize {
			break
		}
	}
	return urls, nil
}

// WriteAll writes sitemap.xml and every section into dir.
func (g Generator) WriteAll(ctx context.Context, dir string) error {
	if err := os.MkdirAll(filepath.Join(dir, "sitemaps"), 0o755); err != nil {
		return err
	}
	index, err := g.Index()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "sitemap.xml"), index, 0o644); err != nil {
		return err
	}
	for _, section := range Sections {
		body, err := g.Section(ctx, section)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, "sitemaps", section+".xml")
		if err := os.WriteFile(path, body, 0o644); err != nil {
			return err
		}
		logging.Info().Str("section", section).Str("path", path).Int("bytes", len(body)).Msg("sitemap written")
	}
	if err := os.WriteFile(filepath.Join(dir, "robots.txt"), []byte(Robots(g.BaseURL)), 0o644); err != nil {
		return err
	}
	return nil
}

// Robots returns robots.txt content pointing crawlers at the index.
func Robots(baseURL string) string {
	base := strings.TrimRight(baseURL, "/")
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: /api/\n")
	b.WriteString("Disallow: /search\n")
	b.WriteString("Disallow: /locale/\n")
	b.WriteString("\n")
	b.WriteString("Sitemap: " + base + "/sitemap.xml\n")
	return b.String()
}

// Slug returns value when it is already a valid slug, otherwise the
// normalized form of the first candidate that yields one.
func Slug(candidates ...string) string {
	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		if slug.IsValid(candidate) {
			return candidate
		}
		if normalized, err := slug.Normalize(candidate); err == nil && normalized != "" {
			return normalized
		}
	}
	return ""
}

func lastMod(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.DateOnly)
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
