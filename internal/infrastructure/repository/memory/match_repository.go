package memory

import (
	"context"
	"fmt"

	"github.com/riskibarqy/mlbb-analytics/internal/domain/match"
	"github.com/riskibarqy/mlbb-analytics/internal/domain/tournament"
)

type MatchRepository struct {
	store *Store
}

func NewMatchRepository(store *Store) *MatchRepository {
	return &MatchRepository{store: store}
}

// Reconcile applies the whole write under the store lock. Validation happens
// before any mutation, so a rejected record leaves no trace.
func (r *MatchRepository) Reconcile(ctx context.Context, rec match.Reconciliation) (match.Match, error) {
	if err := rec.Validate(); err != nil {
		return match.Match{}, fmt.Errorf("invalid reconciliation: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return match.Match{}, err
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	tournamentID, ok := s.tournamentByName[rec.TournamentName]
	if !ok {
		tournamentID = s.nextID()
		s.tournaments[tournamentID] = tournament.Tournament{
			ID:     tournamentID,
			Name:   rec.TournamentName,
			Region: rec.Region,
			Split:  rec.Split,
		}
		s.tournamentByName[rec.TournamentName] = tournamentID
	}

	team1ID := s.ensureTeam(rec.Team1)
	team2ID := s.ensureTeam(rec.Team2)

	var winnerID *int64
	switch rec.WinnerSlot {
	case 1:
		winnerID = &team1ID
	case 2:
		winnerID = &team2ID
	}

	key := keyOf(team1ID, team2ID, rec.MatchDate)
	matchID, exists := s.matchByKey[key]
	var item match.Match
	if exists {
		item = s.matches[matchID]
		item.WinnerID = winnerID
		item.Team1Score = rec.Team1Score
		item.Team2Score = rec.Team2Score
		item.Stage = rec.Stage
		item.StagePriority = rec.StagePriority
		item.Details = append([]byte(nil), rec.Details...)
	} else {
		matchID = s.nextID()
		item = match.Match{
			ID:            matchID,
			ExternalID:    rec.ExternalID,
			TournamentID:  tournamentID,
			Team1ID:       team1ID,
			Team2ID:       team2ID,
			WinnerID:      winnerID,
			Team1Score:    rec.Team1Score,
			Team2Score:    rec.Team2Score,
			MatchDate:     rec.MatchDate.UTC(),
			Stage:         rec.Stage,
			StagePriority: rec.StagePriority,
			Details:       append([]byte(nil), rec.Details...),
		}
		s.matchByKey[key] = matchID
	}
	s.matches[matchID] = item

	actions := match.DedupeActions(rec.Actions)
	rows := make([]actionRow, 0, len(actions))
	for _, action := range actions {
		teamID := team1ID
		if action.TeamSlot == 2 {
			teamID = team2ID
		}
		rows = append(rows, actionRow{
			heroID: s.ensureHero(action.HeroName),
			teamID: teamID,
			kind:   action.Type,
			game:   action.GameNumber,
			isWin:  action.IsWin,
			side:   action.Side,
		})
	}
	s.actions[matchID] = rows

	return item, nil
}

func (r *MatchRepository) CountRows(_ context.Context) (match.RowCounts, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := match.RowCounts{
		Tournaments: len(s.tournaments),
		Teams:       len(s.teamByName),
		Heroes:      len(s.heroByName),
		Matches:     len(s.matches),
	}
	for _, rows := range s.actions {
		counts.HeroActions += len(rows)
	}
	return counts, nil
}
