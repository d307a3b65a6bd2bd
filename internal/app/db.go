package app

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/mlbb-analytics/internal/config"
	"github.com/riskibarqy/mlbb-analytics/internal/infrastructure/repository/postgres"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

const (
	maxTracedQueryLength = 512
	dbPingTimeout        = 5 * time.Second
	preparedBinaryParam  = "disable_prepared_binary_result"
)

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Refresh workers each hold a reconcile transaction; idle conns match the cap.
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxOpenConns)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

func newPostgresRepositories(db *sqlx.DB) repositories {
	return repositories{
		tournaments: postgres.NewTournamentRepository(db),
		teams:       postgres.NewTeamRepository(db),
		heroes:      postgres.NewHeroRepository(db),
		stages:      postgres.NewStageRepository(db),
		matches:     postgres.NewMatchRepository(db),
		stats:       postgres.NewHeroStatsRepository(db),
	}
}

// normalizeDBURL turns off binary results for URL-style DSNs, which pooled
// deployments behind pgbouncer need. An explicit value in the URL wins.
func normalizeDBURL(raw string, disablePreparedBinary bool) string {
	if !disablePreparedBinary || !isURLDSN(raw) {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	query := parsed.Query()
	if query.Has(preparedBinaryParam) {
		return raw
	}
	query.Set(preparedBinaryParam, "yes")
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

// dbNameFromURL accepts both postgres:// URLs and key=value DSNs.
func dbNameFromURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if isURLDSN(raw) {
		parsed, err := url.Parse(raw)
		if err != nil {
			return ""
		}
		return strings.Trim(parsed.Path, "/ ")
	}

	for _, token := range strings.Fields(raw) {
		if name, ok := strings.CutPrefix(token, "dbname="); ok {
			return strings.Trim(name, `"'`)
		}
	}
	return ""
}

func isURLDSN(raw string) bool {
	return strings.HasPrefix(raw, "postgres://") || strings.HasPrefix(raw, "postgresql://")
}

// formatDBQueryForTrace collapses whitespace and caps the length on a rune
// boundary so multi-line aggregate queries stay readable in span attributes.
func formatDBQueryForTrace(query string) string {
	normalized := strings.Join(strings.Fields(query), " ")
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}

	cut := maxTracedQueryLength
	for cut > 0 && !utf8.RuneStart(normalized[cut]) {
		cut--
	}
	return normalized[:cut] + "..."
}
