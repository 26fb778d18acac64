// Package routing decides, from the path alone plus an already-resolved country or
// language, whether a request is served as-is or redirected to its canonical path.
// Nothing here performs I/O; every function is deterministic.
package routing

import (
	"net/url"
	"strings"
)

// Action is the outcome kind of a routing decision.
type Action int

const (
	Pass Action = iota
	Redirect
)

func (a Action) String() string {
	if a == Redirect {
		return "redirect"
	}
	return "pass"
}

// Decision is what the normalizer wants done with a request.
type Decision struct {
	Action   Action
	Location string
	// Rule names the rule that produced the decision, for logs and metrics.
	Rule string
}

func pass(rule string) Decision {
	return Decision{Action: Pass, Rule: rule}
}

func redirect(rule string, segments ...string) Decision {
	return Decision{Action: Redirect, Location: joinPath(segments...), Rule: rule}
}

// IsRedirect is shorthand for d.Action == Redirect.
func (d Decision) IsRedirect() bool {
	return d.Action == Redirect
}

// Exclusions are paths the normalizers never touch: asset and API prefixes and any
// path containing a dot.
type Exclusions struct {
	Prefixes []string
}

// DefaultExclusions covers framework assets, the API and operational endpoints.
func DefaultExclusions() Exclusions {
	return Exclusions{Prefixes: []string{"/_next", "/static", "/api", "/metrics", "/healthz", "/locale"}}
}

// Match reports whether path must pass through untouched.
func (e Exclusions) Match(path string) bool {
	if strings.Contains(path, ".") {
		return true
	}
	for _, prefix := range e.Prefixes {
		prefix = "/" + strings.Trim(strings.TrimSpace(prefix), "/")
		if prefix == "/" {
			continue
		}
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

func splitSegments(path string) []string {
	raw := strings.Split(path, "/")
	segments := make([]string, 0, len(raw))
	for _, segment := range raw {
		if segment != "" {
			segments = append(segments, segment)
		}
	}
	return segments
}

func joinPath(segments ...string) string {
	escaped := make([]string, 0, len(segments))
	for _, segment := range segments {
		escaped = append(escaped, url.PathEscape(segment))
	}
	return "/" + strings.Join(escaped, "/")
}
