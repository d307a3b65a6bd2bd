package match

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

type ActionType string

const (
	ActionPick ActionType = "pick"
	ActionBan  ActionType = "ban"
)

// Side is the board half a team played on; empty means unknown.
type Side string

const (
	SideBlue    Side = "blue"
	SideRed     Side = "red"
	SideUnknown Side = ""
)

// ParseSide accepts "blue" or "red" in any case and reports unknown otherwise.
func ParseSide(raw string) Side {
	switch Side(strings.ToLower(strings.TrimSpace(raw))) {
	case SideBlue:
		return SideBlue
	case SideRed:
		return SideRed
	default:
		return SideUnknown
	}
}

// Match is one best-of-N series. Its identity is (Team1ID, Team2ID, MatchDate).
type Match struct {
	ID            int64
	ExternalID    int64
	TournamentID  int64
	Team1ID       int64
	Team2ID       int64
	WinnerID      *int64
	Team1Score    int
	Team2Score    int
	MatchDate     time.Time
	Stage         string
	StagePriority int
	Details       []byte
}

// HeroAction is a pick or ban by one team in one game of a series.
// TeamSlot is 1 or 2, matching the series opponent order.
type HeroAction struct {
	HeroName   string
	TeamSlot   int
	Type       ActionType
	GameNumber int
	IsWin      *bool
	Side       Side
}

type actionKey struct {
	hero string
	slot int
	kind ActionType
	game int
}

func (a HeroAction) key() actionKey {
	return actionKey{hero: a.HeroName, slot: a.TeamSlot, kind: a.Type, game: a.GameNumber}
}

// Reconciliation carries everything needed to write one series atomically.
// Team names are already normalized.
type Reconciliation struct {
	TournamentName string
	Region         string
	Split          string
	Team1          string
	Team2          string
	ExternalID     int64
	WinnerSlot     int
	Team1Score     int
	Team2Score     int
	MatchDate      time.Time
	Stage          string
	StagePriority  int
	Details        []byte
	Actions        []HeroAction
}

func (r Reconciliation) Validate() error {
	switch {
	case strings.TrimSpace(r.TournamentName) == "":
		return fmt.Errorf("tournament name is required")
	case strings.TrimSpace(r.Team1) == "" || strings.TrimSpace(r.Team2) == "":
		return fmt.Errorf("both team names are required")
	case r.MatchDate.IsZero():
		return fmt.Errorf("match date is required")
	case r.WinnerSlot < 0 || r.WinnerSlot > 2:
		return fmt.Errorf("winner slot must be 0, 1 or 2")
	}
	for _, action := range r.Actions {
		if action.TeamSlot != 1 && action.TeamSlot != 2 {
			return fmt.Errorf("action for hero %q has invalid team slot %d", action.HeroName, action.TeamSlot)
		}
		if action.Type == ActionBan && (action.IsWin != nil || action.Side != SideUnknown) {
			return fmt.Errorf("ban of hero %q carries pick-only fields", action.HeroName)
		}
	}
	return nil
}

// LockKey identifies the series for per-match serialization.
func (r Reconciliation) LockKey() string {
	return r.Team1 + "|" + r.Team2 + "|" + r.MatchDate.UTC().Format(time.RFC3339)
}

// HeroNames lists every hero referenced by the actions, sorted.
func (r Reconciliation) HeroNames() []string {
	seen := make(map[string]struct{}, len(r.Actions))
	out := make([]string, 0, len(r.Actions))
	for _, action := range r.Actions {
		if _, ok := seen[action.HeroName]; ok {
			continue
		}
		seen[action.HeroName] = struct{}{}
		out = append(out, action.HeroName)
	}
	sort.Strings(out)
	return out
}

// DedupeActions drops repeated actions, keeping the first occurrence. Within a
// game a team has one side and one result, so the stored key also identifies
// the full action.
func DedupeActions(actions []HeroAction) []HeroAction {
	seen := make(map[actionKey]struct{}, len(actions))
	out := make([]HeroAction, 0, len(actions))
	for _, action := range actions {
		k := action.key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, action)
	}
	return out
}

// RowCounts is a diagnostic snapshot of stored rows.
type RowCounts struct {
	Tournaments int `json:"tournaments"`
	Teams       int `json:"teams"`
	Heroes      int `json:"heroes"`
	Matches     int `json:"matches"`
	HeroActions int `json:"hero_actions"`
}
