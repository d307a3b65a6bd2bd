package stage

import "strings"

const (
	Uncategorized = "Uncategorized"

	PriorityGroup         = 10
	PriorityStageTwo      = 20
	PriorityPlayIn        = 30
	PriorityPlayoffs      = 40
	PriorityUncategorized = 99
)

// Info is a stage label with its listing order. Priority never affects statistics.
type Info struct {
	Label    string
	Priority int
}

type rule struct {
	keywords []string
	priority int
}

// Evaluated top to bottom, first match wins.
var rules = []rule{
	{keywords: []string{"playoffs", "finals", "knockout"}, priority: PriorityPlayoffs},
	{keywords: []string{"rumble", "play-in"}, priority: PriorityPlayIn},
	{keywords: []string{"stage 2"}, priority: PriorityStageTwo},
	{keywords: []string{"regular season", "group", "swiss", "week", "stage 1"}, priority: PriorityGroup},
}

// Classify derives the stage from wiki page metadata. The section wins when it
// is a path, otherwise the page name is used; the last path segment becomes the label.
func Classify(pageName, section string) Info {
	source := pageName
	if strings.Contains(section, "/") {
		source = section
	}
	if idx := strings.LastIndex(source, "/"); idx >= 0 {
		source = source[idx+1:]
	}
	label := strings.TrimSpace(strings.ReplaceAll(source, "_", " "))

	return Info{Label: labelOrDefault(label), Priority: priorityFor(label)}
}

func priorityFor(label string) int {
	lower := strings.ToLower(label)
	for _, r := range rules {
		for _, keyword := range r.keywords {
			if strings.Contains(lower, keyword) {
				return r.priority
			}
		}
	}
	return PriorityUncategorized
}

func labelOrDefault(label string) string {
	if label == "" {
		return Uncategorized
	}
	return label
}
