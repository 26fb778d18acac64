package view

import (
	"net/url"
	"strings"
)

// ShareLink is one entry of the share sheet on detail pages.
type ShareLink struct {
	Key   string
	Label string
	Href  string
}

type shareTarget struct {
	Key   string
	Label string
	SVG   string
	// link builds the share URL; nil means the client copies the page URL.
	link func(pageURL, title string) string
}

var (
	shareTargets = []shareTarget{
		{
			Key:   "x",
			Label: "X",
			SVG:   `<svg viewBox="0 0 24 24" fill="currentColor" aria-hidden="true"><path d="M18.901 1.153h3.68l-8.04 9.19L24 22.846h-7.406l-5.8-7.584-6.638 7.584H.474l8.6-9.83L0 1.154h7.594l5.243 6.932ZM17.61 20.644h2.039L6.486 3.24H4.298Z"/></svg>`,
			link: func(pageURL, title string) string {
				values := url.Values{}
				values.Set("url", pageURL)
				values.Set("text", title)
				return "https://twitter.com/intent/tweet?" + values.Encode()
			},
		},
		{
			Key:   "facebook",
			Label: "Facebook",
			SVG:   `<svg viewBox="0 0 24 24" fill="currentColor" aria-hidden="true"><path d="M24 12.073C24 5.405 18.627 0 12 0S0 5.405 0 12.073C0 18.1 4.388 23.094 10.125 24v-8.437H7.078v-3.49h3.047V9.43c0-3.007 1.792-4.669 4.533-4.669 1.312 0 2.686.235 2.686.235v2.953H15.83c-1.491 0-1.956.925-1.956 1.874v2.25h3.328l-.532 3.49h-2.796V24C19.612 23.094 24 18.1 24 12.073Z"/></svg>`,
			link: func(pageURL, _ string) string {
				return "https://www.facebook.com/sharer/sharer.php?u=" + url.QueryEscape(pageURL)
			},
		},
		{
			Key:   "line",
			Label: "LINE",
			SVG:   `<svg viewBox="0 0 24 24" fill="currentColor" aria-hidden="true"><path d="M12 2C6.48 2 2 5.64 2 10.13c0 4.03 3.55 7.4 8.35 8.04.33.07.77.22.88.5.1.26.07.66.03.92l-.14.86c-.04.26-.2 1 .88.55 1.08-.46 5.83-3.43 7.95-5.87C21.4 13.52 22 11.9 22 10.13 22 5.64 17.52 2 12 2Z"/></svg>`,
			link: func(pageURL, _ string) string {
				return "https://social-plugins.line.me/lineit/share?url=" + url.QueryEscape(pageURL)
			},
		},
		{
			Key:   "copy",
			Label: "Copy link",
			SVG:   `<svg viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="1.5" stroke-linecap="round" stroke-linejoin="round"><path d="M13.19 8.688a4.5 4.5 0 0 1 1.242 7.244l-4.5 4.5a4.5 4.5 0 0 1-6.364-6.364l1.757-1.757m13.35-.622 1.757-1.757a4.5 4.5 0 0 0-6.364-6.364l-4.5 4.5a4.5 4.5 0 0 0 1.242 7.244"/></svg>`,
		},
	}
	defaultShareIcon = `<svg viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="1.5" stroke-linecap="round" stroke-linejoin="round"><path d="M7.217 10.907a2.25 2.25 0 1 0 0 2.186m0-2.186c.18.324.283.696.283 1.093s-.103.77-.283 1.093m0-2.186 9.566-5.314m-9.566 7.5 9.566 5.314m0 0a2.25 2.25 0 1 0 3.935 2.186 2.25 2.25 0 0 0-3.935-2.186Zm0-12.814a2.25 2.25 0 1 0 3.933-2.185 2.25 2.25 0 0 0-3.933 2.185Z"/></svg>`
	shareIconLookup  = func() map[string]string {
		lookup := make(map[string]string, len(shareTargets))
		for _, target := range shareTargets {
			lookup[target.Key] = target.SVG
		}
		return lookup
	}()
)

// ShareLinks builds the share sheet entries for a page. The copy entry's Href is the page URL itself.
func ShareLinks(pageURL, title string) []ShareLink {
	pageURL = strings.TrimSpace(pageURL)
	if pageURL == "" {
		return nil
	}
	links := make([]ShareLink, 0, len(shareTargets))
	for _, target := range shareTargets {
		href := pageURL
		if target.link != nil {
			href = target.link(pageURL, strings.TrimSpace(title))
		}
		links = append(links, ShareLink{Key: target.Key, Label: target.Label, Href: href})
	}
	return links
}

// ShareIconSVG resolves the SVG for a share target, falling back to a generic share icon.
func ShareIconSVG(key string) string {
	if svg, ok := shareIconLookup[strings.ToLower(strings.TrimSpace(key))]; ok {
		return svg
	}
	return defaultShareIcon
}
