package api

import (
	"errors"
	"strings"
	"testing"
)

func TestBuildURL(t *testing.T) {
	base := "https://api.example.com/v1/"

	cases := []struct {
		name   string
		params endpoint
		want   string
	}{
		{name: "country", params: CountryParams{Code: "kr", Lang: "en"}, want: base + "country/KR?lang=en"},
		{name: "countries", params: countryListParams{}, want: base + "country"},
		{name: "city", params: CityParams{Slug: "seoul"}, want: base + "city/seoul"},
		{name: "cities", params: CityListParams{Country: "kr", Lang: "ja"}, want: base + "city?country=KR&lang=ja"},
		{name: "category", params: CategoryParams{Slug: "k-pop", Country: "AA"}, want: base + "category/k-pop?country=AA"},
		{name: "event escapes", params: EventParams{ID: "a b", Lang: "tw"}, want: base + "event/a%20b?lang=tw"},
		{name: "events", params: EventListParams{Country: "KR", Page: 2, Size: 100}, want: base + "event?country=KR&page=2&size=100"},
		{name: "folder", params: FolderParams{ID: "f1"}, want: base + "folder/f1"},
		{name: "group", params: GroupParams{ID: "g1"}, want: base + "group/g1"},
		{name: "place", params: PlaceParams{ID: "p1"}, want: base + "place/p1"},
		{name: "stag", params: StagParams{ID: "s1"}, want: base + "stag/s1"},
		{name: "tag", params: TagParams{Tag: "jazz"}, want: base + "tag/jazz"},
		{name: "date", params: DateParams{Date: "2025-03-01", Country: "kr"}, want: base + "date/2025-03-01/KR"},
		{name: "today", params: TodayParams{Country: "AA", Lang: "en"}, want: base + "today/AA?lang=en"},
		{name: "week", params: WeekParams{Country: "KR"}, want: base + "week/KR"},
		{name: "search", params: SearchParams{Query: " jazz night ", Country: "kr"}, want: base + "search?country=KR&q=jazz+night"},
		{name: "nearby", params: NearbyParams{Latitude: 37.5665, Longitude: 126.978, RadiusKM: 5}, want: base + "nearby?lat=37.5665&lng=126.978&radius=5"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := BuildURL(base, tc.params)
			if err != nil {
				t.Fatalf("BuildURL() error = %v", err)
			}
			if got != tc.want {
				t.Fatalf("BuildURL() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBuildURLRejectsMissingParams(t *testing.T) {
	cases := []struct {
		name   string
		params endpoint
		field  string
	}{
		{name: "missing event id", params: EventParams{}, field: "ID"},
		{name: "blank folder id", params: FolderParams{ID: "   "}, field: "ID"},
		{name: "slash in tag", params: TagParams{Tag: "a/b"}, field: "Tag"},
		{name: "missing country", params: TodayParams{Lang: "en"}, field: "Country"},
		{name: "three letter country", params: CountryParams{Code: "KOR"}, field: "Code"},
		{name: "bad date", params: DateParams{Date: "03/01/2025", Country: "KR"}, field: "Date"},
		{name: "bad lang", params: CityParams{Slug: "seoul", Lang: "EN-us"}, field: "Lang"},
		{name: "empty search", params: SearchParams{}, field: "Query"},
		{name: "latitude out of range", params: NearbyParams{Latitude: 123, Longitude: 10}, field: "Latitude"},
		{name: "negative page", params: EventListParams{Page: -1}, field: "Page"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := BuildURL("https://api.example.com", tc.params)
			if err == nil {
				t.Fatalf("expected error, got url %q", got)
			}
			if got != "" {
				t.Fatalf("expected no url on error, got %q", got)
			}
			if strings.Contains(got, "undefined") {
				t.Fatalf("url must never contain placeholder segments")
			}
			if !errors.Is(err, ErrInvalidParams) {
				t.Fatalf("expected ErrInvalidParams, got %v", err)
			}
			var perr *ParamsError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParamsError, got %T", err)
			}
			if !strings.Contains(strings.Join(perr.Fields, ","), tc.field) {
				t.Fatalf("expected field %q in %v", tc.field, perr.Fields)
			}
		})
	}
}
