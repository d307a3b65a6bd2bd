package hero

import "strings"

// Hero is a playable character, identified by its case-sensitive name.
type Hero struct {
	ID   int64
	Name string
}

// UniqueNames trims names, drops empties and keeps first-seen order.
func UniqueNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
