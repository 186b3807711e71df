// Package assets turns image paths returned by the API into URLs the
// browser can load.
package assets

import "strings"

// Placeholder is shown when an event has no poster.
const Placeholder = "https://placehold.co/600x400/18181b/ffffff?text=No+Image"

type Resolver struct {
	base string
}

func NewResolver(base string) Resolver {
	return Resolver{base: strings.TrimRight(base, "/")}
}

// Resolve leaves absolute URLs untouched and prefixes relative paths with the
// API base URL exactly once.
func (r Resolver) Resolve(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if isAbsolute(path) {
		return path
	}
	if r.base == "" {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return r.base + path
}

// ResolveOr resolves path, or returns fallback when path is nil or empty.
func (r Resolver) ResolveOr(path *string, fallback string) string {
	if path == nil {
		return fallback
	}
	if u := r.Resolve(*path); u != "" {
		return u
	}
	return fallback
}

func isAbsolute(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "//")
}
