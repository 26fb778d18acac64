package api

import (
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// Revalidation windows per endpoint family.
const (
	TTLLive    = 5 * time.Minute
	TTLListing = 10 * time.Minute
	TTLDetail  = time.Hour
	TTLIndex   = 24 * time.Hour
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("segment", validateSegment)
		_ = validate.RegisterValidation("countrycode", validateCountryCode)
		_ = validate.RegisterValidation("langcode", validateLangCode)
	})
	return validate
}

// segment: a non-blank single path segment.
func validateSegment(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	value := strings.TrimSpace(fl.Field().String())
	return value != "" && !strings.ContainsAny(value, "/?#")
}

func validateCountryCode(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if len(value) != 2 {
		return false
	}
	for _, r := range value {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}

func validateLangCode(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if len(value) < 2 || len(value) > 3 {
		return false
	}
	for _, r := range value {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// endpoint is implemented by every parameter struct.
type endpoint interface {
	name() string
	segments() []string
	query() url.Values
	ttl() time.Duration
}

func langQuery(lang string) url.Values {
	values := url.Values{}
	if lang != "" {
		values.Set("lang", lang)
	}
	return values
}

func upper(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ListParams selects the language of an index listing.
type ListParams struct {
	Lang string `validate:"omitempty,langcode"`
}

type CountryParams struct {
	Code string `validate:"countrycode"`
	Lang string `validate:"omitempty,langcode"`
}

func (p CountryParams) name() string { return "country" }
func (p CountryParams) segments() []string { return []string{"country", upper(p.Code)} }
func (p CountryParams) query() url.Values { return langQuery(p.Lang) }
func (p CountryParams) ttl() time.Duration { return TTLDetail }

type countryListParams ListParams

func (p countryListParams) name() string { return "countries" }
func (p countryListParams) segments() []string { return []string{"country"} }
func (p countryListParams) query() url.Values { return langQuery(p.Lang) }
func (p countryListParams) ttl() time.Duration { return TTLIndex }

type CityParams struct {
	Slug string `validate:"segment,max=128"`
	Lang string `validate:"omitempty,langcode"`
}

func (p CityParams) name() string { return "city" }
func (p CityParams) segments() []string { return []string{"city", strings.TrimSpace(p.Slug)} }
func (p CityParams) query() url.Values { return langQuery(p.Lang) }
func (p CityParams) ttl() time.Duration { return TTLDetail }

type CityListParams struct {
	Country string `validate:"omitempty,countrycode"`
	Lang    string `validate:"omitempty,langcode"`
}

func (p CityListParams) name() string { return "cities" }
func (p CityListParams) segments() []string { return []string{"city"} }
func (p CityListParams) query() url.Values {
	values := langQuery(p.Lang)
	if p.Country != "" {
		values.Set("country", upper(p.Country))
	}
	return values
}
func (p CityListParams) ttl() time.Duration { return TTLIndex }

type CategoryParams struct {
	Slug    string `validate:"segment,max=128"`
	Country string `validate:"omitempty,countrycode"`
	Lang    string `validate:"omitempty,langcode"`
}

func (p CategoryParams) name() string { return "category" }
func (p CategoryParams) segments() []string { return []string{"category", strings.TrimSpace(p.Slug)} }
func (p CategoryParams) query() url.Values {
	values := langQuery(p.Lang)
	if p.Country != "" {
		values.Set("country", upper(p.Country))
	}
	return values
}
func (p CategoryParams) ttl() time.Duration { return TTLDetail }

type categoryListParams ListParams

func (p categoryListParams) name() string { return "categories" }
func (p categoryListParams) segments() []string { return []string{"category"} }
func (p categoryListParams) query() url.Values { return langQuery(p.Lang) }
func (p categoryListParams) ttl() time.Duration { return TTLIndex }

type EventParams struct {
	ID   string `validate:"segment"`
	Lang string `validate:"omitempty,langcode"`
}

func (p EventParams) name() string { return "event" }
func (p EventParams) segments() []string { return []string{"event", strings.TrimSpace(p.ID)} }
func (p EventParams) query() url.Values { return langQuery(p.Lang) }
func (p EventParams) ttl() time.Duration { return TTLDetail }

// EventListParams pages through all events, used by sitemaps.
type EventListParams struct {
	Country string `validate:"omitempty,countrycode"`
	Page    int    `validate:"gte=0"`
	Size    int    `validate:"gte=0,lte=1000"`
	Lang    string `validate:"omitempty,langcode"`
}

func (p EventListParams) name() string { return "events" }
func (p EventListParams) segments() []string { return []string{"event"} }
func (p EventListParams) query() url.Values {
	values := langQuery(p.Lang)
	if p.Country != "" {
		values.Set("country", upper(p.Country))
	}
	if p.Page > 0 {
		values.Set("page", strconv.Itoa(p.Page))
	}
	if p.Size > 0 {
		values.Set("size", strconv.Itoa(p.Size))
	}
	return values
}
func (p EventListParams) ttl() time.Duration { return TTLIndex }

type FolderParams struct {
	ID   string `validate:"segment"`
	Lang string `validate:"omitempty,langcode"`
}

func (p FolderParams) name() string { return "folder" }
func (p FolderParams) segments() []string { return []string{"folder", strings.TrimSpace(p.ID)} }
func (p FolderParams) query() url.Values { return langQuery(p.Lang) }
func (p FolderParams) ttl() time.Duration { return TTLDetail }

type GroupParams struct {
	ID   string `validate:"segment"`
	Lang string `validate:"omitempty,langcode"`
}

func (p GroupParams) name() string { return "group" }
func (p GroupParams) segments() []string { return []string{"group", strings.TrimSpace(p.ID)} }
func (p GroupParams) query() url.Values { return langQuery(p.Lang) }
func (p GroupParams) ttl() time.Duration { return TTLDetail }

type PlaceParams struct {
	ID   string `validate:"segment"`
	Lang string `validate:"omitempty,langcode"`
}

func (p PlaceParams) name() string { return "place" }
func (p PlaceParams) segments() []string { return []string{"place", strings.TrimSpace(p.ID)} }
func (p PlaceParams) query() url.Values { return langQuery(p.Lang) }
func (p PlaceParams) ttl() time.Duration { return TTLDetail }

type StagParams struct {
	ID   string `validate:"segment"`
	Lang string `validate:"omitempty,langcode"`
}

func (p StagParams) name() string { return "stag" }
func (p StagParams) segments() []string { return []string{"stag", strings.TrimSpace(p.ID)} }
func (p StagParams) query() url.Values { return langQuery(p.Lang) }
func (p StagParams) ttl() time.Duration { return TTLDetail }

type TagParams struct {
	Tag  string `validate:"segment,max=128"`
	Lang string `validate:"omitempty,langcode"`
}

func (p TagParams) name() string { return "tag" }
func (p TagParams) segments() []string { return []string{"tag", strings.TrimSpace(p.Tag)} }
func (p TagParams) query() url.Values { return langQuery(p.Lang) }
func (p TagParams) ttl() time.Duration { return TTLDetail }

// DateParams selects one day's events; Date is YYYY-MM-DD.
type DateParams struct {
	Date    string `validate:"required,datetime=2006-01-02"`
	Country string `validate:"countrycode"`
	Lang    string `validate:"omitempty,langcode"`
}

func (p DateParams) name() string { return "date" }
func (p DateParams) segments() []string { return []string{"date", p.Date, upper(p.Country)} }
func (p DateParams) query() url.Values { return langQuery(p.Lang) }
func (p DateParams) ttl() time.Duration { return TTLListing }

type TodayParams struct {
	Country string `validate:"countrycode"`
	Lang    string `validate:"omitempty,langcode"`
}

func (p TodayParams) name() string { return "today" }
func (p TodayParams) segments() []string { return []string{"today", upper(p.Country)} }
func (p TodayParams) query() url.Values { return langQuery(p.Lang) }
func (p TodayParams) ttl() time.Duration { return TTLLive }

type WeekParams struct {
	Country string `validate:"countrycode"`
	Lang    string `validate:"omitempty,langcode"`
}

func (p WeekParams) name() string { return "week" }
func (p WeekParams) segments() []string { return []string{"week", upper(p.Country)} }
func (p WeekParams) query() url.Values { return langQuery(p.Lang) }
func (p WeekParams) ttl() time.Duration { return TTLListing }

type SearchParams struct {
	Query   string `validate:"required,max=200"`
	Country string `validate:"omitempty,countrycode"`
	Lang    string `validate:"omitempty,langcode"`
}

func (p SearchParams) name() string { return "search" }
func (p SearchParams) segments() []string { return []string{"search"} }
func (p SearchParams) query() url.Values {
	values := langQuery(p.Lang)
	values.Set("q", strings.TrimSpace(p.Query))
	if p.Country != "" {
		values.Set("country", upper(p.Country))
	}
	return values
}
func (p SearchParams) ttl() time.Duration { return TTLListing }

type NearbyParams struct {
	Latitude  float64 `validate:"latitude"`
	Longitude float64 `validate:"longitude"`
	RadiusKM  float64 `validate:"omitempty,gt=0,lte=100"`
	Lang      string  `validate:"omitempty,langcode"`
}

func (p NearbyParams) name() string { return "nearby" }
func (p NearbyParams) segments() []string { return []string{"nearby"} }
func (p NearbyParams) query() url.Values {
	values := langQuery(p.Lang)
	values.Set("lat", strconv.FormatFloat(p.Latitude, 'f', -1, 64))
	values.Set("lng", strconv.FormatFloat(p.Longitude, 'f', -1, 64))
	if p.RadiusKM > 0 {
		values.Set("radius", strconv.FormatFloat(p.RadiusKM, 'f', -1, 64))
	}
	return values
}
func (p NearbyParams) ttl() time.Duration { return TTLLive }

// BuildURL validates params and returns the absolute backend URL for them.
// Missing required fields are an error; no URL is produced.
func BuildURL(baseURL string, params endpoint) (string, error) {
	if err := getValidator().Struct(params); err != nil {
		return "", newParamsError(params.name(), err)
	}
	segments := params.segments()
	escaped := make([]string, 0, len(segments))
	for _, segment := range segments {
		escaped = append(escaped, url.PathEscape(segment))
	}
	target := strings.TrimRight(baseURL, "/") + "/" + strings.Join(escaped, "/")
	if encoded := params.query().Encode(); encoded != "" {
		target += "?" + encoded
	}
	return target, nil
}
