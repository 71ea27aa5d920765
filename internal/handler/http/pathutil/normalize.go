// Package pathutil parses path IDs and normalizes paths into low-cardinality
// metric labels.
package pathutil

import (
	"net/http"
	"regexp"
	"strings"
)

type pathPattern struct {
	pattern  *regexp.Regexp
	template string
}

// Most specific first.
var pathPatterns = []pathPattern{
	{regexp.MustCompile(`^/products/\d+/offers$`), "/products/{id}/offers"},
	{regexp.MustCompile(`^/products/\d+/interesting-customers$`), "/products/{id}/interesting-customers"},
	{regexp.MustCompile(`^/products/\d+$`), "/products/{id}"},
	{regexp.MustCompile(`^/customers/\d+$`), "/customers/{id}"},
}

// NormalizePath maps ID-bearing paths to their route template, strips a
// query string and trailing slash, and returns anything else unchanged.
//
//	NormalizePath("/products/42/offers") // "/products/{id}/offers"
//	NormalizePath("/health")             // "/health"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	for _, p := range pathPatterns {
		if p.pattern.MatchString(path) {
			return p.template
		}
	}
	return path
}

// RouteLabel returns the label for r: the matched ServeMux pattern without
// its method, or the normalized path when no pattern matched. Unmatched
// paths collapse to "unmatched" so scanners cannot blow up label
// cardinality.
func RouteLabel(r *http.Request) string {
	if r.Pattern != "" {
		if _, route, ok := strings.Cut(r.Pattern, " "); ok {
			return strings.TrimSpace(route)
		}
		return r.Pattern
	}
	if normalized := NormalizePath(r.URL.Path); normalized != r.URL.Path || isKnownStatic(normalized) {
		return normalized
	}
	return "unmatched"
}

func isKnownStatic(path string) bool {
	switch path {
	case "/health", "/ready", "/live", "/metrics":
		return true
	}
	return false
}
