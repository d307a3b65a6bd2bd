package rawmatch

import (
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/mlbb-analytics/internal/domain/stage"
)

const (
	maxBanSlots = 5

	keyPageID     = "pageid"
	keyPageName   = "pagename"
	keySection    = "section"
	keyMatchID    = "match2id"
	keyOpponents  = "match2opponents"
	keyGames      = "match2games"
	keyWinner     = "winner"
	keyDate       = "date"
	keyTournament = "tournament"
	keyStageType  = "stage_type"
	keyStagePrio  = "stage_priority"
)

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// PickShape tells which payload nesting carried the picks of a game.
type PickShape string

const (
	ShapeNone         PickShape = "none"
	ShapeParticipants PickShape = "participants"
	ShapeOpponents    PickShape = "opponents"
)

// Match is one upstream series record. The decoded payload is kept so the
// enriched document can be stored verbatim.
type Match struct {
	PageID     int64
	PageName   string
	Section    string
	MatchID    string
	Tournament string
	Opponents  []Opponent
	Games      []Game
	Winner     string
	Date       string

	team1Score *int
	team2Score *int
	payload    map[string]any
}

type Opponent struct {
	Name  string
	Score *int
}

// Game is one game of the series. Number is the 1-indexed position in the
// upstream game list, not a value carried by the payload.
type Game struct {
	Number int
	Winner int
	Sides  [2]string
	Bans   [2][]string
	Picks  []PickRecord
	Shape  PickShape
}

// PickRecord is a pick with its per-game result and side already resolved.
// IsWin is nil when the game had no resolvable winner; Side is empty when unknown.
type PickRecord struct {
	Team  int
	Hero  string
	IsWin *bool
	Side  string
}

// Decode parses one upstream match record.
func Decode(raw []byte) (Match, error) {
	var payload map[string]any
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return Match{}, fmt.Errorf("decode match payload: %w", err)
	}
	if payload == nil {
		return Match{}, fmt.Errorf("decode match payload: not an object")
	}
	return FromMap(payload), nil
}

// FromMap reads a match out of an already decoded object. Unknown or
// mistyped fields are treated as absent.
func FromMap(payload map[string]any) Match {
	m := Match{
		PageName:   stringValue(payload[keyPageName]),
		Section:    stringValue(payload[keySection]),
		MatchID:    stringValue(payload[keyMatchID]),
		Tournament: stringValue(payload[keyTournament]),
		Winner:     stringValue(payload[keyWinner]),
		Date:       stringValue(payload[keyDate]),
		team1Score: optionalInt(payload["team1score"]),
		team2Score: optionalInt(payload["team2score"]),
		payload:    payload,
	}
	if id, ok := intValue(payload[keyPageID]); ok {
		m.PageID = int64(id)
	}

	for _, item := range listValue(payload[keyOpponents]) {
		opp, ok := item.(map[string]any)
		if !ok {
			m.Opponents = append(m.Opponents, Opponent{})
			continue
		}
		m.Opponents = append(m.Opponents, Opponent{
			Name:  stringValue(opp["name"]),
			Score: optionalInt(opp["score"]),
		})
	}

	for idx, item := range listValue(payload[keyGames]) {
		game, ok := item.(map[string]any)
		if !ok {
			continue
		}
		m.Games = append(m.Games, parseGame(idx+1, game))
	}

	return m
}

// WinnerSlot resolves the series winner flag to opponent slot 1 or 2, or 0.
func (m Match) WinnerSlot() int {
	return slotFlag(m.Winner)
}

// TeamScore prefers the series-level score field and falls back to the opponent entry.
func (m Match) TeamScore(slot int) int {
	var direct *int
	switch slot {
	case 1:
		direct = m.team1Score
	case 2:
		direct = m.team2Score
	default:
		return 0
	}
	if direct != nil {
		return *direct
	}
	if len(m.Opponents) >= slot && m.Opponents[slot-1].Score != nil {
		return *m.Opponents[slot-1].Score
	}
	return 0
}

// MatchDate parses the upstream date as UTC.
func (m Match) MatchDate() (time.Time, bool) {
	value := strings.TrimSpace(m.Date)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}

// Stage classifies the record from its page metadata.
func (m Match) Stage() stage.Info {
	return stage.Classify(m.PageName, m.Section)
}

// Enrich stamps the tournament display name, normalized opponent names and
// stage classification into both the struct and the stored payload.
func (m *Match) Enrich(tournament string, normalizeTeam func(string) string) stage.Info {
	info := m.Stage()
	m.Tournament = tournament
	if m.payload == nil {
		m.payload = map[string]any{}
	}
	m.payload[keyTournament] = tournament
	m.payload[keyStageType] = info.Label
	m.payload[keyStagePrio] = info.Priority

	opponents := listValue(m.payload[keyOpponents])
	for idx := range m.Opponents {
		m.Opponents[idx].Name = normalizeTeam(m.Opponents[idx].Name)
		if idx < len(opponents) {
			if opp, ok := opponents[idx].(map[string]any); ok {
				opp["name"] = m.Opponents[idx].Name
			}
		}
	}
	return info
}

// Payload encodes the (possibly enriched) record with sorted keys so the
// stored document is stable across reconciliations.
func (m Match) Payload() ([]byte, error) {
	if m.payload == nil {
		return []byte("{}"), nil
	}
	out, err := sonic.ConfigStd.Marshal(m.payload)
	if err != nil {
		return nil, fmt.Errorf("encode match payload: %w", err)
	}
	return out, nil
}

// HeroNames lists every hero referenced by bans and picks across all games.
func (m Match) HeroNames() []string {
	var out []string
	for _, g := range m.Games {
		for _, bans := range g.Bans {
			out = append(out, bans...)
		}
		for _, p := range g.Picks {
			out = append(out, p.Hero)
		}
	}
	return out
}
