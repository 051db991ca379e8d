package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/cricstack/ipl-mcp/internal/models"
)

// Store is the match database. Reads go through Query, which returns
// column-order-preserving rows; writes are only used by the loader.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %v", err)
	}

	// A single writer keeps the loader's transactions serialized.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite database: %v", err)
	}

	store := &Store{db: db}

	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %v", err)
	}

	return store, nil
}

// initSchema creates the necessary database tables
func (s *Store) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS matches (
		id TEXT PRIMARY KEY,
		date TEXT,
		season INTEGER,
		city TEXT,
		venue TEXT,
		team1 TEXT,
		team2 TEXT,
		toss_winner TEXT,
		toss_decision TEXT,
		winner TEXT,
		result TEXT,
		margin TEXT
	);

	CREATE TABLE IF NOT EXISTS deliveries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		match_id TEXT NOT NULL,
		innings INTEGER NOT NULL,
		over INTEGER NOT NULL,
		ball INTEGER NOT NULL,
		batting_team TEXT,
		bowling_team TEXT,
		batter TEXT,
		non_striker TEXT,
		bowler TEXT,
		runs_batter INTEGER,
		runs_extras INTEGER,
		runs_total INTEGER,
		wicket_type TEXT,
		player_dismissed TEXT
	);

	CREATE TABLE IF NOT EXISTS teams (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		short_name TEXT
	);

	CREATE TABLE IF NOT EXISTS players (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		team TEXT NOT NULL,
		UNIQUE (name, team)
	);

	CREATE TABLE IF NOT EXISTS innings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		match_id TEXT NOT NULL,
		innings_number INTEGER NOT NULL,
		batting_team TEXT,
		total_runs INTEGER,
		total_wickets INTEGER,
		total_overs REAL
	);

	CREATE TABLE IF NOT EXISTS officials (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		match_id TEXT NOT NULL,
		name TEXT NOT NULL,
		role TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_deliveries_order ON deliveries (match_id, innings, over, ball);
	CREATE INDEX IF NOT EXISTS idx_innings_match ON innings (match_id);
	CREATE INDEX IF NOT EXISTS idx_officials_match ON officials (match_id);
	`

	_, err := s.db.Exec(query)
	return err
}

// Query executes a parameterized query and returns all rows with column
// order preserved. []byte values are surfaced as strings so results
// serialize as text rather than base64.
func (s *Store) Query(query string, args ...any) ([]Row, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var results []Row
	for rows.Next() {
		values := make([]any, len(columns))
		targets := make([]any, len(columns))
		for i := range values {
			targets[i] = &values[i]
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		results = append(results, NewRow(columns, values))
	}
	if results == nil {
		results = []Row{}
	}

	return results, rows.Err()
}

// MatchByID fetches a single match row by primary key.
func (s *Store) MatchByID(id string) (Row, error) {
	rows, err := s.Query("SELECT * FROM matches WHERE id = ?", id)
	if err != nil {
		return Row{}, err
	}
	if len(rows) == 0 {
		return Row{}, ErrNotFound
	}
	return rows[0], nil
}

// ReplaceMatch atomically replaces a match and all its child rows. The
// loader calls this once per source file, so reloading a file is
// idempotent.
func (s *Store) ReplaceMatch(m models.Match, deliveries []models.Delivery, innings []models.InningsSummary, officials []models.Official) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO matches
			(id, date, season, city, venue, team1, team2, toss_winner, toss_decision, winner, result, margin)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.Date, m.Season, m.City, m.Venue, m.Team1, m.Team2, m.TossWinner, m.TossDecision, m.Winner, m.Result, m.Margin)
	if err != nil {
		return fmt.Errorf("inserting match %s: %w", m.ID, err)
	}

	for _, table := range []string{"deliveries", "innings", "officials"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE match_id = ?", m.ID); err != nil {
			return fmt.Errorf("clearing %s for match %s: %w", table, m.ID, err)
		}
	}

	for _, d := range deliveries {
		_, err := tx.Exec(`
			INSERT INTO deliveries
				(match_id, innings, over, ball, batting_team, bowling_team,
				 batter, non_striker, bowler, runs_batter, runs_extras, runs_total,
				 wicket_type, player_dismissed)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, d.MatchID, d.Innings, d.Over, d.Ball, d.BattingTeam, d.BowlingTeam,
			d.Batter, d.NonStriker, d.Bowler, d.RunsBatter, d.RunsExtras, d.RunsTotal,
			d.WicketType, d.PlayerDismissed)
		if err != nil {
			return fmt.Errorf("inserting delivery for match %s: %w", m.ID, err)
		}
	}

	for _, in := range innings {
		_, err := tx.Exec(`
			INSERT INTO innings (match_id, innings_number, batting_team, total_runs, total_wickets, total_overs)
			VALUES (?, ?, ?, ?, ?, ?)
		`, in.MatchID, in.InningsNumber, in.BattingTeam, in.TotalRuns, in.TotalWickets, in.TotalOvers)
		if err != nil {
			return fmt.Errorf("inserting innings for match %s: %w", m.ID, err)
		}
	}

	for _, o := range officials {
		_, err := tx.Exec(`
			INSERT INTO officials (match_id, name, role) VALUES (?, ?, ?)
		`, o.MatchID, o.Name, o.Role)
		if err != nil {
			return fmt.Errorf("inserting official for match %s: %w", m.ID, err)
		}
	}

	return tx.Commit()
}

// UpsertTeam records a team, updating its short name if already known.
func (s *Store) UpsertTeam(t models.Team) error {
	_, err := s.db.Exec(`
		INSERT INTO teams (name, short_name) VALUES (?, ?)
		ON CONFLICT (name) DO UPDATE SET short_name = excluded.short_name
	`, t.Name, t.ShortName)
	return err
}

// UpsertPlayer records a player's appearance for a team.
func (s *Store) UpsertPlayer(p models.Player) error {
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO players (name, team) VALUES (?, ?)
	`, p.Name, p.Team)
	return err
}

// Ping tests the database connection
func (s *Store) Ping() error {
	return s.db.Ping()
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

var ErrNotFound = &NotFoundError{}

type NotFoundError struct{}

func (e *NotFoundError) Error() string {
	return "record not found"
}
