package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/charleschow/matchday/internal/events"
	"github.com/charleschow/matchday/internal/telemetry"
)

// ErrAlreadySaved means a result row exists for the match. The sink is
// write-once: a completed match never changes.
var ErrAlreadySaved = errors.New("result already saved")

// ErrNotFound means no result row exists for the match.
var ErrNotFound = errors.New("result not found")

// MatchResult is the frozen final state persisted on full time.
type MatchResult struct {
	MatchID    string              `json:"match_id"`
	PlayedAt   time.Time           `json:"played_at"`
	HomeTeam   string              `json:"home_team"`
	AwayTeam   string              `json:"away_team"`
	FinalScore events.Score        `json:"final_score"`
	Stats      events.MatchStats   `json:"stats"`
	Goals      []events.GoalRecord `json:"goals"`
}

// Store persists match results in SQLite. One writer per match; results
// are immutable once written.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open results db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS results (
	match_id   TEXT PRIMARY KEY,
	played_at  TEXT NOT NULL,
	home_team  TEXT NOT NULL,
	away_team  TEXT NOT NULL,
	home_score INTEGER NOT NULL,
	away_score INTEGER NOT NULL,
	stats_json TEXT NOT NULL,
	goals_json TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_results_played_at ON results(played_at);
`

func (s *Store) Close() error { return s.db.Close() }

// Save writes the final result exactly once.
func (s *Store) Save(r MatchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	statsJSON, err := json.Marshal(r.Stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	goalsJSON, err := json.Marshal(r.Goals)
	if err != nil {
		return fmt.Errorf("marshal goals: %w", err)
	}

	res, err := s.db.Exec(
		`INSERT OR IGNORE INTO results
		 (match_id, played_at, home_team, away_team, home_score, away_score, stats_json, goals_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.MatchID, r.PlayedAt.UTC().Format(time.RFC3339), r.HomeTeam, r.AwayTeam,
		r.FinalScore.Home, r.FinalScore.Away, string(statsJSON), string(goalsJSON),
	)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrAlreadySaved
	}
	telemetry.Metrics.ResultsPersisted.Inc()
	telemetry.Debugf("store: saved result match=%s %d-%d", r.MatchID, r.FinalScore.Home, r.FinalScore.Away)
	return nil
}

// Get loads one result by match id.
func (s *Store) Get(matchID string) (MatchResult, error) {
	row := s.db.QueryRow(
		`SELECT match_id, played_at, home_team, away_team, home_score, away_score, stats_json, goals_json
		 FROM results WHERE match_id = ?`, matchID)
	return scanResult(row)
}

// List returns the most recent results, newest first.
func (s *Store) List(limit int) ([]MatchResult, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT match_id, played_at, home_team, away_team, home_score, away_score, stats_json, goals_json
		 FROM results ORDER BY played_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var out []MatchResult
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (MatchResult, error) {
	var r MatchResult
	var playedAt, statsJSON, goalsJSON string
	err := row.Scan(&r.MatchID, &playedAt, &r.HomeTeam, &r.AwayTeam,
		&r.FinalScore.Home, &r.FinalScore.Away, &statsJSON, &goalsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return MatchResult{}, ErrNotFound
	}
	if err != nil {
		return MatchResult{}, fmt.Errorf("scan result: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, playedAt); err == nil {
		r.PlayedAt = t
	}
	if err := json.Unmarshal([]byte(statsJSON), &r.Stats); err != nil {
		return MatchResult{}, fmt.Errorf("unmarshal stats: %w", err)
	}
	if err := json.Unmarshal([]byte(goalsJSON), &r.Goals); err != nil {
		return MatchResult{}, fmt.Errorf("unmarshal goals: %w", err)
	}
	return r, nil
}
