package tournament

import (
	"fmt"
	"strings"
)

// Tournament groups matches under a display name, with region and split
// (season grouping) used by listings.
type Tournament struct {
	ID         int64
	Name       string
	Region     string
	Split      string
	SourcePage string
}

func (t Tournament) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("tournament name is required")
	}
	return nil
}

// RegistryEntry is one tracked tournament from the tournaments file.
type RegistryEntry struct {
	LiquipediaName string `json:"liquipedia_name"`
	DisplayName    string `json:"display_name"`
	Region         string `json:"region"`
	Split          string `json:"split"`
}

func (e RegistryEntry) Validate() error {
	switch {
	case strings.TrimSpace(e.LiquipediaName) == "":
		return fmt.Errorf("liquipedia_name is required")
	case strings.TrimSpace(e.DisplayName) == "":
		return fmt.Errorf("display_name is required")
	case strings.TrimSpace(e.Region) == "":
		return fmt.Errorf("region is required")
	case strings.TrimSpace(e.Split) == "":
		return fmt.Errorf("split is required")
	}
	return nil
}

func (e RegistryEntry) Tournament() Tournament {
	return Tournament{
		Name:       strings.TrimSpace(e.DisplayName),
		Region:     strings.TrimSpace(e.Region),
		Split:      strings.TrimSpace(e.Split),
		SourcePage: strings.TrimSpace(e.LiquipediaName),
	}
}

// DisplayNameFromPage derives a readable name from a wiki page path,
// e.g. "MPL/Indonesia/Season_13" becomes "MPL Indonesia Season 13".
func DisplayNameFromPage(page string) string {
	parts := strings.FieldsFunc(page, func(r rune) bool { return r == '/' || r == '_' })
	out := parts[:0]
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return strings.Join(out, " ")
}
