package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/mlbb-analytics/internal/domain/tournament"
	qb "github.com/riskibarqy/mlbb-analytics/internal/platform/querybuilder"
)

type TournamentRepository struct {
	db *sqlx.DB
}

func NewTournamentRepository(db *sqlx.DB) *TournamentRepository {
	return &TournamentRepository{db: db}
}

func (r *TournamentRepository) GetByName(ctx context.Context, name string) (tournament.Tournament, bool, error) {
	return r.getOne(ctx, "name", name)
}

func (r *TournamentRepository) GetBySourcePage(ctx context.Context, page string) (tournament.Tournament, bool, error) {
	return r.getOne(ctx, "source_page", page)
}

func (r *TournamentRepository) getOne(ctx context.Context, column, value string) (tournament.Tournament, bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return tournament.Tournament{}, false, nil
	}

	query, args, err := qb.Select("*").From("tournaments").
		Where(qb.Eq(column, value)).
		Limit(1).
		ToSQL()
	if err != nil {
		return tournament.Tournament{}, false, fmt.Errorf("build select tournament by %s query: %w", column, err)
	}

	var row tournamentTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return tournament.Tournament{}, false, nil
		}
		return tournament.Tournament{}, false, fmt.Errorf("select tournament by %s: %w", column, err)
	}

	return toDomainTournament(row), true, nil
}

func (r *TournamentRepository) List(ctx context.Context) ([]tournament.Tournament, error) {
	query, args, err := qb.Select("*").From("tournaments").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select tournaments query: %w", err)
	}

	var rows []tournamentTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select tournaments: %w", err)
	}

	out := make([]tournament.Tournament, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainTournament(row))
	}
	return out, nil
}

// Register upserts by name. Blank incoming values never clear stored ones.
func (r *TournamentRepository) Register(ctx context.Context, item tournament.Tournament) (tournament.Tournament, error) {
	if err := item.Validate(); err != nil {
		return tournament.Tournament{}, fmt.Errorf("invalid tournament: %w", err)
	}

	insertModel := tournamentInsertModel{
		Name:       strings.TrimSpace(item.Name),
		Region:     strings.TrimSpace(item.Region),
		Split:      strings.TrimSpace(item.Split),
		SourcePage: nullString(item.SourcePage),
	}
	query, args, err := qb.InsertModel("tournaments", insertModel, `ON CONFLICT (name) DO UPDATE SET
region = COALESCE(NULLIF(EXCLUDED.region, ''), tournaments.region),
split = COALESCE(NULLIF(EXCLUDED.split, ''), tournaments.split),
source_page = COALESCE(EXCLUDED.source_page, tournaments.source_page),
updated_at = NOW()
RETURNING *`)
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("build register tournament query: %w", err)
	}

	var row tournamentTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return tournament.Tournament{}, fmt.Errorf("register tournament %s: %w", item.Name, err)
	}
	return toDomainTournament(row), nil
}

func toDomainTournament(row tournamentTableModel) tournament.Tournament {
	return tournament.Tournament{
		ID:         row.ID,
		Name:       row.Name,
		Region:     row.Region,
		Split:      row.Split,
		SourcePage: row.SourcePage.String,
	}
}
