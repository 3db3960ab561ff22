// Package media turns stored upload paths into absolute URLs.
package media

import "strings"

type Resolver struct {
	baseURL string
}

func NewResolver(baseURL string) *Resolver {
	return &Resolver{baseURL: strings.TrimRight(baseURL, "/")}
}

// URL returns "" for an empty path and leaves absolute URLs untouched.
func (r *Resolver) URL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if r == nil || r.baseURL == "" {
		return "/" + strings.TrimLeft(path, "/")
	}
	return r.baseURL + "/" + strings.TrimLeft(path, "/")
}
