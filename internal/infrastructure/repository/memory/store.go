package memory

import (
	"sync"
	"time"

	"github.com/riskibarqy/mlbb-analytics/internal/domain/match"
	"github.com/riskibarqy/mlbb-analytics/internal/domain/tournament"
)

type matchKey struct {
	team1 int64
	team2 int64
	date  int64
}

type actionRow struct {
	heroID int64
	teamID int64
	kind   match.ActionType
	game   int
	isWin  *bool
	side   match.Side
}

// Store holds every table in process memory. Writes are serialized by a
// single mutex, which also stands in for per-match locking.
type Store struct {
	mu sync.RWMutex

	lastID int64

	tournaments      map[int64]tournament.Tournament
	tournamentByName map[string]int64
	teamByName       map[string]int64
	teamNames        map[int64]string
	heroByName       map[string]int64
	heroNames        map[int64]string
	matches          map[int64]match.Match
	matchByKey       map[matchKey]int64
	actions          map[int64][]actionRow
}

func NewStore() *Store {
	return &Store{
		tournaments:      make(map[int64]tournament.Tournament),
		tournamentByName: make(map[string]int64),
		teamByName:       make(map[string]int64),
		teamNames:        make(map[int64]string),
		heroByName:       make(map[string]int64),
		heroNames:        make(map[int64]string),
		matches:          make(map[int64]match.Match),
		matchByKey:       make(map[matchKey]int64),
		actions:          make(map[int64][]actionRow),
	}
}

func (s *Store) nextID() int64 {
	s.lastID++
	return s.lastID
}

func keyOf(team1, team2 int64, date time.Time) matchKey {
	return matchKey{team1: team1, team2: team2, date: date.UTC().UnixNano()}
}

// ensureTeam must be called with the write lock held.
func (s *Store) ensureTeam(name string) int64 {
	if id, ok := s.teamByName[name]; ok {
		return id
	}
	id := s.nextID()
	s.teamByName[name] = id
	s.teamNames[id] = name
	return id
}

// ensureHero must be called with the write lock held.
func (s *Store) ensureHero(name string) int64 {
	if id, ok := s.heroByName[name]; ok {
		return id
	}
	id := s.nextID()
	s.heroByName[name] = id
	s.heroNames[id] = name
	return id
}
