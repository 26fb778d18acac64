package content

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestRenderSanitizesHTML(t *testing.T) {
	rendered, err := Render("# 공연 안내\n\n<script>alert(1)</script>\n\n**Jazz** night at [Blue Note](https://bluenote.example)")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	html := string(rendered)

	if strings.Contains(html, "<script") {
		t.Fatalf("expected script to be stripped, got %s", html)
	}
	if !strings.Contains(html, "<strong>Jazz</strong>") {
		t.Fatalf("expected bold text, got %s", html)
	}
	if !strings.Contains(html, `rel="nofollow noopener"`) && !strings.Contains(html, `rel="nofollow"`) {
		t.Fatalf("expected nofollow link, got %s", html)
	}
}

func TestRenderEmptyBody(t *testing.T) {
	rendered, err := Render("   \n")
	if err != nil || rendered != "" {
		t.Fatalf("expected empty output, got %q err=%v", rendered, err)
	}
}

func TestPlainText(t *testing.T) {
	cases := []struct {
		name     string
		markdown string
		limit    int
		want     string
	}{
		{name: "strips markup", markdown: "## Title\n\nSome **bold** and _italic_ text.", limit: 0, want: "Title Some bold and italic text."},
		{name: "decodes entities", markdown: "Rock & Roll <3", limit: 0, want: "Rock & Roll <3"},
		{name: "collapses whitespace", markdown: "a\n\n\n   b\tc", limit: 0, want: "a b c"},
		{name: "empty", markdown: "  ", limit: 10, want: ""},
		{name: "truncates runes", markdown: "서울 재즈 페스티벌 2025", limit: 6, want: "서울 재즈…"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := PlainText(tc.markdown, tc.limit); got != tc.want {
				t.Fatalf("PlainText() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDescriptionLimit(t *testing.T) {
	long := strings.Repeat("가나다라마 ", 80)
	got := Description(long)
	if n := utf8.RuneCountInString(got); n > DescriptionLimit {
		t.Fatalf("expected at most %d runes, got %d", DescriptionLimit, n)
	}
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("expected ellipsis, got %q", got)
	}
}

func TestTruncateKeepsShortText(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("Truncate() = %q", got)
	}
	if got := Truncate("short", 0); got != "short" {
		t.Fatalf("Truncate() with no limit = %q", got)
	}
}
