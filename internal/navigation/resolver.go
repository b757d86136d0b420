// Package navigation resolves which sidebar entry is active for the current route.
package navigation

import (
	"fmt"
	"slices"
	"strings"
)

// Item is one entry of a navigation list.
type Item struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	// Route is a path prefix. "" and "#" mark placeholder entries that never match.
	Route string `json:"route"`
}

// Navigable reports whether the item can be matched against a path.
func (i Item) Navigable() bool {
	return i.Route != "" && i.Route != "#"
}

// Menu is a static navigation list with its home and fallback keys.
type Menu struct {
	Items       []Item `json:"items"`
	HomeKey     string `json:"home_key"`
	FallbackKey string `json:"fallback_key"`
}

// Active returns the key of the item that should be marked active for path.
func (m Menu) Active(path string) string {
	if isRoot(path) {
		return m.HomeKey
	}
	return ResolveActiveKey(path, m.Items, m.FallbackKey)
}

// Validate checks that item keys are unique and non-empty.
func (m Menu) Validate() error {
	seen := make(map[string]struct{}, len(m.Items))
	for _, item := range m.Items {
		if item.Key == "" {
			return fmt.Errorf("navigation item %q has an empty key", item.Label)
		}
		if _, dup := seen[item.Key]; dup {
			return fmt.Errorf("duplicate navigation key %q", item.Key)
		}
		seen[item.Key] = struct{}{}
	}
	return nil
}

// ResolveActiveKey maps currentPath to the key of the most specific navigable item
// whose route equals the path or is a "/"-bounded prefix of it. The root path
// resolves to fallbackKey without matching; so does a path nothing matches.
func ResolveActiveKey(currentPath string, items []Item, fallbackKey string) string {
	if isRoot(currentPath) {
		return fallbackKey
	}
	path := normalize(currentPath)

	candidates := make([]Item, 0, len(items))
	for _, item := range items {
		if item.Navigable() {
			candidates = append(candidates, item)
		}
	}
	// Longest route first; equal lengths keep list order.
	slices.SortStableFunc(candidates, func(a, b Item) int {
		return len(normalize(b.Route)) - len(normalize(a.Route))
	})

	for _, item := range candidates {
		route := normalize(item.Route)
		if path == route || strings.HasPrefix(path, route+"/") {
			return item.Key
		}
	}
	return fallbackKey
}

func isRoot(path string) bool {
	p := normalize(path)
	return p == "" || p == "/"
}

// normalize strips the query string, the fragment and a trailing slash.
func normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}
