package view

import (
	"bytes"
	"html/template"
	"strings"
	"testing"
	"time"

	"github.com/dplus/internal/api"
	"github.com/dplus/internal/seo"
)

func TestTemplatesRender(t *testing.T) {
	tmpl, err := Templates()
	if err != nil {
		t.Fatalf("parse templates: %v", err)
	}

	start := time.Date(2025, 3, 1, 19, 0, 0, 0, time.UTC)
	data := map[string]any{
		"lang":        "en",
		"langCode":    "en",
		"siteName":    "dplus",
		"year":        2025,
		"query":       "",
		"heading":     "Seoul Jazz",
		"localeLinks": nil,
		"meta": seo.Meta{
			Title:     "Seoul Jazz | dplus",
			Canonical: "https://dplus.example/event/e1",
			NoIndex:   true,
			Twitter:   seo.Twitter{Card: "summary"},
		},
		"event": &api.Event{ID: "e1", Title: "Seoul Jazz", StartAt: &start, Tags: []api.Tag{{Name: "jazz"}}},
		"body":  template.HTML("<p>Line-up</p>"),
		"share": ShareLinks("https://dplus.example/event/e1", "Seoul Jazz"),
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "event.html", data); err != nil {
		t.Fatalf("execute event.html: %v", err)
	}
	html := buf.String()
	for _, want := range []string{
		"<title>Seoul Jazz | dplus</title>",
		`<link rel="canonical" href="https://dplus.example/event/e1">`,
		`<meta name="robots" content="noindex, follow">`,
		"<p>Line-up</p>",
		"Mar 1, 2025",
		`href="/tag/jazz"`,
		`data-share="facebook"`,
		"<svg",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in output:\n%s", want, html)
		}
	}
}

func TestListTemplateEmptyState(t *testing.T) {
	tmpl := MustTemplates()
	var buf bytes.Buffer
	err := tmpl.ExecuteTemplate(&buf, "list.html", map[string]any{
		"lang": "ko", "langCode": "ko", "siteName": "dplus", "year": 2025, "query": "",
		"heading": "오늘의 이벤트", "meta": seo.Meta{Title: "오늘의 이벤트 | dplus"},
	})
	if err != nil {
		t.Fatalf("execute list.html: %v", err)
	}
	if !strings.Contains(buf.String(), "표시할 이벤트가 없습니다") {
		t.Fatalf("expected empty state message, got:\n%s", buf.String())
	}
}

func TestFormatDateAndRange(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name       string
		start, end *time.Time
		lang       string
		want       string
	}{
		{name: "korean", start: &start, lang: "ko", want: "2025년 3월 1일"},
		{name: "chinese", start: &start, lang: "cn", want: "2025年3月1日"},
		{name: "fallback layout", start: &start, lang: "vi", want: "Mar 1, 2025"},
		{name: "range", start: &start, end: &end, lang: "en", want: "Mar 1, 2025 ~ Mar 3, 2025"},
		{name: "same day", start: &start, end: &start, lang: "en", want: "Mar 1, 2025"},
		{name: "only end", end: &end, lang: "en", want: "Mar 3, 2025"},
		{name: "none", lang: "en", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DateRange(tc.start, tc.end, tc.lang); got != tc.want {
				t.Fatalf("DateRange() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestShareLinks(t *testing.T) {
	links := ShareLinks("https://dplus.example/event/e1", "Jazz & Blues")
	if len(links) != len(shareTargets) {
		t.Fatalf("expected %d links, got %d", len(shareTargets), len(links))
	}
	if links[0].Key != "x" || !strings.Contains(links[0].Href, "text=Jazz+%26+Blues") {
		t.Fatalf("unexpected x link %+v", links[0])
	}
	last := links[len(links)-1]
	if last.Key != "copy" || last.Href != "https://dplus.example/event/e1" {
		t.Fatalf("expected copy link to be the page url, got %+v", last)
	}
	if ShareLinks("  ", "x") != nil {
		t.Fatalf("expected no links without a page url")
	}
}

func TestShareIconSVGFallback(t *testing.T) {
	if ShareIconSVG("FACEBOOK") == defaultShareIcon {
		t.Fatalf("expected facebook icon")
	}
	if ShareIconSVG("unknown") != defaultShareIcon {
		t.Fatalf("expected default icon for unknown key")
	}
}
