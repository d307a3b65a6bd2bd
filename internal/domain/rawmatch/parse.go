package rawmatch

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

func parseGame(number int, game map[string]any) Game {
	g := Game{Number: number, Winner: slotFlag(stringValue(game[keyWinner])), Shape: ShapeNone}

	extra, _ := game["extradata"].(map[string]any)
	for team := 1; team <= 2; team++ {
		g.Sides[team-1] = strings.ToLower(stringValue(extra[fmt.Sprintf("team%dside", team)]))
		for slot := 1; slot <= maxBanSlots; slot++ {
			if hero := stringValue(extra[fmt.Sprintf("team%dban%d", team, slot)]); hero != "" {
				g.Bans[team-1] = append(g.Bans[team-1], hero)
			}
		}
	}

	var picks []PickRecord
	if participants, ok := game["participants"].(map[string]any); ok && len(participants) > 0 {
		picks = picksFromParticipants(participants)
		g.Shape = ShapeParticipants
	} else if opponents := listValue(game["opponents"]); len(opponents) > 0 {
		picks = picksFromOpponents(opponents)
		g.Shape = ShapeOpponents
	}

	for _, p := range picks {
		p.Side = g.sideOf(p.Team)
		p.IsWin = g.resultFor(p.Team)
		g.Picks = append(g.Picks, p)
	}
	return g
}

// picksFromParticipants reads the map keyed "<team>_<slot>".
func picksFromParticipants(participants map[string]any) []PickRecord {
	keys := make([]string, 0, len(participants))
	for key := range participants {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]PickRecord, 0, len(keys))
	for _, key := range keys {
		teamPart, _, found := strings.Cut(key, "_")
		if !found {
			continue
		}
		team, err := strconv.Atoi(strings.TrimSpace(teamPart))
		if err != nil || (team != 1 && team != 2) {
			continue
		}
		player, ok := participants[key].(map[string]any)
		if !ok {
			continue
		}
		if hero := heroOf(player); hero != "" {
			out = append(out, PickRecord{Team: team, Hero: hero})
		}
	}
	return out
}

// picksFromOpponents reads game.opponents[i].players[]; team is i+1.
func picksFromOpponents(opponents []any) []PickRecord {
	var out []PickRecord
	for idx, item := range opponents {
		if idx > 1 {
			break
		}
		opp, ok := item.(map[string]any)
		if !ok {
			continue
		}
		for _, rawPlayer := range listValue(opp["players"]) {
			player, ok := rawPlayer.(map[string]any)
			if !ok {
				continue
			}
			if hero := heroOf(player); hero != "" {
				out = append(out, PickRecord{Team: idx + 1, Hero: hero})
			}
		}
	}
	return out
}

func heroOf(player map[string]any) string {
	if hero := stringValue(player["champion"]); hero != "" {
		return hero
	}
	return stringValue(player["hero"])
}

func (g Game) sideOf(team int) string {
	if team < 1 || team > 2 {
		return ""
	}
	switch side := g.Sides[team-1]; side {
	case "blue", "red":
		return side
	default:
		return ""
	}
}

func (g Game) resultFor(team int) *bool {
	if g.Winner == 0 {
		return nil
	}
	won := g.Winner == team
	return &won
}

func slotFlag(raw string) int {
	switch strings.TrimSpace(raw) {
	case "1":
		return 1
	case "2":
		return 2
	default:
		return 0
	}
}

func stringValue(v any) string {
	switch value := v.(type) {
	case string:
		return strings.TrimSpace(value)
	case float64:
		if value == math.Trunc(value) {
			return strconv.FormatInt(int64(value), 10)
		}
		return strconv.FormatFloat(value, 'f', -1, 64)
	case json.Number:
		return value.String()
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	default:
		return ""
	}
}

func intValue(v any) (int, bool) {
	switch value := v.(type) {
	case float64:
		return int(value), true
	case int:
		return value, true
	case int64:
		return int(value), true
	case json.Number:
		parsed, err := value.Int64()
		return int(parsed), err == nil
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		return parsed, err == nil
	default:
		return 0, false
	}
}

func optionalInt(v any) *int {
	value, ok := intValue(v)
	if !ok {
		return nil
	}
	return &value
}

func listValue(v any) []any {
	items, _ := v.([]any)
	return items
}
