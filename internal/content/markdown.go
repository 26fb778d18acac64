// Package content turns backend markdown bodies into safe HTML and plain text.
package content

import (
	"bytes"
	htmlstd "html"
	"html/template"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// DescriptionLimit 是 meta description 的最大字符数。
const DescriptionLimit = 160

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML(), html.WithUnsafe()),
	)
	bodySanitizer = buildBodySanitizer()
	textSanitizer = bluemonday.StrictPolicy()
)

func buildBodySanitizer() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("iframe")
	policy.AllowAttrs("class", "data-video-embed", "data-video-platform").OnElements("div")
	policy.AllowAttrs("src").Matching(embedSrcPattern).OnElements("iframe")
	policy.AllowAttrs("title", "allow", "allowfullscreen", "frameborder", "loading", "referrerpolicy").OnElements("iframe")
	policy.RequireNoFollowOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	return policy
}

// Render 将 markdown 渲染为经过清洗的 HTML。独占一行的视频链接会被替换为播放器。
func Render(markdown string) (template.HTML, error) {
	if strings.TrimSpace(markdown) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(applyVideoEmbeds(markdown)), &buf); err != nil {
		return "", err
	}
	return template.HTML(bodySanitizer.SanitizeBytes(buf.Bytes())), nil
}

// PlainText 去掉 markdown 与 HTML 标记，折叠空白，并按 limit 个字符截断。
// limit <= 0 表示不截断。
func PlainText(markdown string, limit int) string {
	if strings.TrimSpace(markdown) == "" {
		return ""
	}
	var buf bytes.Buffer
	source := []byte(markdown)
	if err := markdownEngine.Convert(source, &buf); err != nil {
		buf.Reset()
		buf.Write(source)
	}
	text := htmlstd.UnescapeString(textSanitizer.Sanitize(buf.String()))
	text = strings.Join(strings.Fields(text), " ")
	return Truncate(text, limit)
}

// Description 是 PlainText(markdown, DescriptionLimit) 的简写。
func Description(markdown string) string {
	return PlainText(markdown, DescriptionLimit)
}

// Truncate 按字符（rune）截断，截断时以省略号结尾。
func Truncate(text string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	cut := strings.TrimRight(string(runes[:limit-1]), " ")
	return cut + "…"
}
