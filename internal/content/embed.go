package content

import (
	"fmt"
	htmlstd "html"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var (
	embedLinePattern = regexp.MustCompile(`^\s*<?((?:https?://)?[^\s]+)>?\s*$`)
	embedSrcPattern  = regexp.MustCompile(
		`^https://(?:www\.youtube-nocookie\.com/embed/|tv\.naver\.com/embed/|player\.vimeo\.com/video/)`,
	)
	youtubeTimePattern = regexp.MustCompile(`(?i)(\d+)(h|m|s)`)
	orderedItemPattern = regexp.MustCompile(`^\d+\.\s+`)
)

// videoEmbed 描述一个可嵌入的视频播放器。
type videoEmbed struct {
	Platform string
	EmbedURL string
}

// applyVideoEmbeds 把独占一行的视频链接替换为 iframe，代码块、引用和列表内的链接保持原样。
func applyVideoEmbeds(markdown string) string {
	lines := strings.Split(markdown, "\n")
	fence := ""

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if marker := fenceMarker(trimmed); marker != "" {
			switch {
			case fence == "":
				fence = marker
			case strings.HasPrefix(trimmed, fence):
				fence = ""
			}
			continue
		}
		if fence != "" || strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t") || skipLine(trimmed) {
			continue
		}

		match := embedLinePattern.FindStringSubmatch(trimmed)
		if match == nil {
			continue
		}
		embed, ok := parseVideoURL(match[1])
		if !ok {
			continue
		}
		lines[i] = embed.html()
	}

	return strings.Join(lines, "\n")
}

func fenceMarker(line string) string {
	for _, marker := range []string{"```", "~~~"} {
		if strings.HasPrefix(line, marker) {
			return marker
		}
	}
	return ""
}

func skipLine(line string) bool {
	if line == "" || strings.HasPrefix(line, ">") {
		return true
	}
	if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") || strings.HasPrefix(line, "+ ") {
		return true
	}
	return orderedItemPattern.MatchString(line)
}

func parseVideoURL(raw string) (videoEmbed, bool) {
	value := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(raw), "<"), ">")
	lower := strings.ToLower(value)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		value = "https://" + value
	}
	parsed, err := url.Parse(value)
	if err != nil || parsed.Hostname() == "" {
		return videoEmbed{}, false
	}

	host := strings.ToLower(parsed.Hostname())
	switch {
	case host == "youtu.be" || isHostOrSubdomain(host, "youtube.com"):
		return youtubeEmbed(parsed, host)
	case isHostOrSubdomain(host, "tv.naver.com"):
		return naverTVEmbed(parsed)
	case host == "vimeo.com" || host == "www.vimeo.com":
		return vimeoEmbed(parsed)
	}
	return videoEmbed{}, false
}

func youtubeEmbed(u *url.URL, host string) (videoEmbed, bool) {
	path := strings.Trim(u.Path, "/")
	var id string
	if host == "youtu.be" {
		id = path
	} else {
		switch {
		case path == "watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(path, "shorts/"), strings.HasPrefix(path, "embed/"), strings.HasPrefix(path, "live/"):
			id = path[strings.Index(path, "/")+1:]
		}
	}
	id, _, _ = strings.Cut(id, "/")
	if !isVideoID(id) {
		return videoEmbed{}, false
	}

	values := url.Values{}
	values.Set("rel", "0")
	values.Set("playsinline", "1")
	if start := youtubeStart(u.Query()); start > 0 {
		values.Set("start", strconv.Itoa(start))
	}
	return videoEmbed{
		Platform: "youtube",
		EmbedURL: "https://www.youtube-nocookie.com/embed/" + id + "?" + values.Encode(),
	}, true
}

func youtubeStart(query url.Values) int {
	value := query.Get("start")
	if value == "" {
		value = query.Get("t")
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return max(seconds, 0)
	}

	total := 0
	for _, match := range youtubeTimePattern.FindAllStringSubmatch(value, -1) {
		n, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		switch strings.ToLower(match[2]) {
		case "h":
			total += n * 3600
		case "m":
			total += n * 60
		case "s":
			total += n
		}
	}
	return total
}

// tv.naver.com/v/{id}
func naverTVEmbed(u *url.URL) (videoEmbed, bool) {
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 2 || segments[0] != "v" || !isDigits(segments[1]) {
		return videoEmbed{}, false
	}
	return videoEmbed{Platform: "navertv", EmbedURL: "https://tv.naver.com/embed/" + segments[1]}, true
}

// vimeo.com/{id}
func vimeoEmbed(u *url.URL) (videoEmbed, bool) {
	id, _, _ := strings.Cut(strings.Trim(u.Path, "/"), "/")
	if !isDigits(id) {
		return videoEmbed{}, false
	}
	return videoEmbed{Platform: "vimeo", EmbedURL: "https://player.vimeo.com/video/" + id}, true
}

func (e videoEmbed) html() string {
	return fmt.Sprintf(
		`<div class="video-embed" data-video-embed="true" data-video-platform="%s">`+
			`<iframe src="%s" title="%s" loading="lazy" allow="clipboard-write; encrypted-media; picture-in-picture; web-share" allowfullscreen frameborder="0" referrerpolicy="strict-origin-when-cross-origin"></iframe>`+
			`</div>`,
		htmlstd.EscapeString(e.Platform),
		htmlstd.EscapeString(e.EmbedURL),
		htmlstd.EscapeString(e.title()),
	)
}

func (e videoEmbed) title() string {
	switch e.Platform {
	case "youtube":
		return "YouTube video player"
	case "navertv":
		return "NAVER TV video player"
	case "vimeo":
		return "Vimeo video player"
	default:
		return "Video player"
	}
}

func isVideoID(id string) bool {
	if id == "" || len(id) > 32 {
		return false
	}
	for _, r := range id {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_') {
			return false
		}
	}
	return true
}

func isDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isHostOrSubdomain(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}
