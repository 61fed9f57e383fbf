package view

import (
	"net/url"
	"strings"
)

// NormalizeMediaURL upgrades http to https and rewrites Unsplash photo page
// links to their direct image URL. Anything unparseable is returned as is.
func NormalizeMediaURL(raw string) string {
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "http://") {
		raw = "https://" + strings.TrimPrefix(raw, "http://")
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	if strings.HasSuffix(u.Hostname(), "unsplash.com") && strings.HasPrefix(u.Path, "/photos/") {
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if id := parts[len(parts)-1]; id != "" && id != "photos" {
			return "https://images.unsplash.com/photo-" + id + "?auto=format&fit=crop&w=1200&q=80"
		}
	}
	return raw
}
