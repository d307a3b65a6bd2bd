package team

import (
	"fmt"
	"sort"
	"strings"
)

// defaultAliases collapses sponsor and rebrand names into one canonical roster name.
var defaultAliases = map[string]string{
	"AP.Bren":         "Falcons AP.Bren",
	"Falcons AP.Bren": "Falcons AP.Bren",
	"ECHO":            "Team Liquid PH",
	"Team Liquid PH":  "Team Liquid PH",
}

// DefaultAliases returns a copy of the built-in alias table.
func DefaultAliases() map[string]string {
	out := make(map[string]string, len(defaultAliases))
	for k, v := range defaultAliases {
		out[k] = v
	}
	return out
}

// Normalizer maps raw team names to canonical names. It is immutable after
// construction and safe for concurrent use.
type Normalizer struct {
	aliases map[string]string
}

// NewNormalizer resolves alias chains to their final name so that
// Normalize(Normalize(x)) == Normalize(x). Cyclic chains are rejected.
func NewNormalizer(aliases map[string]string) (*Normalizer, error) {
	raw := make(map[string]string, len(aliases))
	for from, to := range aliases {
		from = strings.TrimSpace(from)
		to = strings.TrimSpace(to)
		if from == "" || to == "" {
			return nil, fmt.Errorf("team alias %q=%q: both sides are required", from, to)
		}
		raw[from] = to
	}

	resolved := make(map[string]string, len(raw)*2)
	keys := make([]string, 0, len(raw))
	for from := range raw {
		keys = append(keys, from)
	}
	sort.Strings(keys)

	for _, from := range keys {
		target, err := resolveAlias(raw, from)
		if err != nil {
			return nil, err
		}
		resolved[from] = target
		resolved[target] = target
	}

	return &Normalizer{aliases: resolved}, nil
}

// DefaultNormalizer uses only the built-in alias table.
func DefaultNormalizer() *Normalizer {
	n, err := NewNormalizer(defaultAliases)
	if err != nil {
		panic(err)
	}
	return n
}

func resolveAlias(raw map[string]string, from string) (string, error) {
	seen := map[string]struct{}{from: {}}
	current := raw[from]
	for {
		next, ok := raw[current]
		if !ok || next == current {
			return current, nil
		}
		if _, loop := seen[current]; loop {
			return "", fmt.Errorf("team alias cycle detected starting at %q", from)
		}
		seen[current] = struct{}{}
		current = next
	}
}

// Normalize trims the name and applies the alias table. Unknown names pass through.
func (n *Normalizer) Normalize(raw string) string {
	name := strings.TrimSpace(raw)
	if n == nil || name == "" {
		return name
	}
	if canonical, ok := n.aliases[name]; ok {
		return canonical
	}
	return name
}

// Len reports how many names the normalizer knows, canonical names included.
func (n *Normalizer) Len() int {
	if n == nil {
		return 0
	}
	return len(n.aliases)
}
