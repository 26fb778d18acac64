// Package view holds the embedded page templates and their helper functions.
package view

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/dplus/internal/locale"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// StaticFS serves the embedded stylesheet and other assets under /static.
func StaticFS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// Templates parses every embedded template with FuncMap installed.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
}

// MustTemplates panics when the embedded templates fail to parse.
func MustTemplates() *template.Template {
	return template.Must(Templates())
}

// FuncMap 返回模板中可用的辅助函数。
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"t":  locale.T,
		"tf": locale.Tf,
		"add": func(a, b int) int {
			return a + b
		},
		"upper":      strings.ToUpper,
		"formatDate": FormatDate,
		"dateRange":  DateRange,
		"shareIcon": func(key string) template.HTML {
			return template.HTML(ShareIconSVG(key))
		},
	}
}

var dateLayouts = map[string]string{
	locale.LangKorean:             "2006년 1월 2일",
	locale.LangChineseSimplified:  "2006年1月2日",
	locale.LangChineseTraditional: "2006年1月2日",
	"ja":                          "2006年1月2日",
}

// FormatDate renders t as a calendar date in the reader's language.
func FormatDate(t *time.Time, langCode string) string {
	if t == nil || t.IsZero() {
		return ""
	}
	layout, ok := dateLayouts[langCode]
	if !ok {
		layout = "Jan 2, 2006"
	}
	return t.Format(layout)
}

// DateRange renders "start ~ end", collapsing single-day ranges.
func DateRange(start, end *time.Time, langCode string) string {
	from := FormatDate(start, langCode)
	to := FormatDate(end, langCode)
	switch {
	case from == "":
		return to
	case to == "" || to == from:
		return from
	default:
		return from + " ~ " + to
	}
}
