package postgres

import (
	"database/sql"
	"time"
)

type tournamentTableModel struct {
	ID         int64          `db:"id"`
	Name       string         `db:"name"`
	Region     string         `db:"region"`
	Split      string         `db:"split"`
	SourcePage sql.NullString `db:"source_page"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

type tournamentInsertModel struct {
	Name       string         `db:"name"`
	Region     string         `db:"region"`
	Split      string         `db:"split"`
	SourcePage sql.NullString `db:"source_page"`
}

type namedRowModel struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

type matchTableModel struct {
	ID            int64         `db:"id"`
	ExternalID    sql.NullInt64 `db:"external_id"`
	TournamentID  int64         `db:"tournament_id"`
	Team1ID       int64         `db:"team1_id"`
	Team2ID       int64         `db:"team2_id"`
	WinnerID      sql.NullInt64 `db:"winner_id"`
	Team1Score    int           `db:"team1_score"`
	Team2Score    int           `db:"team2_score"`
	MatchDate     time.Time     `db:"match_date"`
	StageType     string        `db:"stage_type"`
	StagePriority int           `db:"stage_priority"`
	Details       []byte        `db:"details"`
}

// matchColumns lifts the stage out of the stored payload.
var matchColumns = []string{
	"id", "external_id", "tournament_id", "team1_id", "team2_id", "winner_id",
	"team1_score", "team2_score", "match_date",
	"COALESCE(details->>'stage_type', '') AS stage_type",
	"COALESCE((details->>'stage_priority')::int, 0) AS stage_priority",
	"details",
}

// Details is sent as text; lib/pq would encode []byte as bytea.
type matchInsertModel struct {
	ExternalID   sql.NullInt64 `db:"external_id"`
	TournamentID int64         `db:"tournament_id"`
	Team1ID      int64         `db:"team1_id"`
	Team2ID      int64         `db:"team2_id"`
	WinnerID     sql.NullInt64 `db:"winner_id"`
	Team1Score   int           `db:"team1_score"`
	Team2Score   int           `db:"team2_score"`
	MatchDate    time.Time     `db:"match_date"`
	Details      string        `db:"details"`
}

type heroCountsModel struct {
	HeroName     string `db:"hero_name"`
	Picks        int    `db:"picks"`
	Bans         int    `db:"bans"`
	GamesPresent int    `db:"games_present"`
	Wins         int    `db:"wins"`
	BluePicks    int    `db:"blue_picks"`
	BlueWins     int    `db:"blue_wins"`
	RedPicks     int    `db:"red_picks"`
	RedWins      int    `db:"red_wins"`
}

type teamPerformanceModel struct {
	TeamName    string `db:"team_name"`
	GamesPlayed int    `db:"games_played"`
	Wins        int    `db:"wins"`
}

type opponentMatchupModel struct {
	OpponentHero string `db:"opponent_hero"`
	GamesFaced   int    `db:"games_faced"`
	WinsAgainst  int    `db:"wins_against"`
}

type totalsModel struct {
	Matches int `db:"matches"`
	Games   int `db:"games"`
}

type rowCountsModel struct {
	Tournaments int `db:"tournaments"`
	Teams       int `db:"teams"`
	Heroes      int `db:"heroes"`
	Matches     int `db:"matches"`
	HeroActions int `db:"hero_actions"`
}

type stageModel struct {
	Label    string `db:"stage_type"`
	Priority int    `db:"stage_priority"`
}
