package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/mlbb-analytics/internal/domain/stage"
	qb "github.com/riskibarqy/mlbb-analytics/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) ListTeamNames(ctx context.Context, tournaments []string) ([]string, error) {
	builder := qb.Select("name").From("teams").OrderBy("name")
	if len(tournaments) > 0 {
		builder = qb.Select("DISTINCT tm.name").From("teams tm").
			Join("JOIN matches m ON tm.id IN (m.team1_id, m.team2_id)").
			Join("JOIN tournaments t ON t.id = m.tournament_id").
			Where(anyOf("t.name", tournaments)...).
			OrderBy("tm.name")
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select team names query: %w", err)
	}

	out := make([]string, 0)
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("select team names: %w", err)
	}
	return out, nil
}

type HeroRepository struct {
	db *sqlx.DB
}

func NewHeroRepository(db *sqlx.DB) *HeroRepository {
	return &HeroRepository{db: db}
}

func (r *HeroRepository) ListHeroNames(ctx context.Context) ([]string, error) {
	query, args, err := qb.Select("name").From("heroes").OrderBy("name").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select hero names query: %w", err)
	}

	out := make([]string, 0)
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("select hero names: %w", err)
	}
	return out, nil
}

type StageRepository struct {
	db *sqlx.DB
}

func NewStageRepository(db *sqlx.DB) *StageRepository {
	return &StageRepository{db: db}
}

func (r *StageRepository) ListStages(ctx context.Context, tournaments []string) ([]stage.Info, error) {
	query, args, err := qb.Select(
		"DISTINCT COALESCE(m.details->>'stage_type', '') AS stage_type",
		"COALESCE((m.details->>'stage_priority')::int, 0) AS stage_priority",
	).
		From("matches m").
		Join("JOIN tournaments t ON t.id = m.tournament_id").
		Where(anyOf("t.name", tournaments)...).
		OrderBy("stage_priority", "stage_type").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select stages query: %w", err)
	}

	var rows []stageModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select stages: %w", err)
	}

	out := make([]stage.Info, 0, len(rows))
	for _, row := range rows {
		out = append(out, stage.Info{Label: row.Label, Priority: row.Priority})
	}
	return out, nil
}
