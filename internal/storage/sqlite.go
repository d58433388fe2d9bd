// Package storage provides SQLite-based persistence for play sessions and
// saved positions. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrNoSave is returned by LoadPosition when nothing was saved.
var ErrNoSave = errors.New("storage: no saved position")

// timeLayout sorts lexicographically in UTC.
const timeLayout = "2006-01-02 15:04:05.000000000"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Session is one finished play session.
type Session struct {
	ID        string
	MapID     string
	User      string
	StartedAt time.Time
	Duration  time.Duration
	Frames    int64
	AvgFPS    float64
	Distance  float64 // Cells walked
}

// Save is the last position of a user on a map.
type Save struct {
	MapID     string
	User      string
	X, Y      float64
	Angle     float64 // Radians
	Clip      bool
	FOV       float64 // Degrees
	UpdatedAt time.Time
}

// MapStats contains aggregated statistics for a map.
type MapStats struct {
	MapID         string
	Sessions      int
	TotalTime     time.Duration
	TotalDistance float64
	BestFPS       float64
	LastPlayed    time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			map_id TEXT NOT NULL,
			user TEXT NOT NULL DEFAULT '',
			started_at TEXT NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			frames INTEGER NOT NULL DEFAULT 0,
			avg_fps REAL NOT NULL DEFAULT 0,
			distance REAL NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_map ON sessions(map_id, started_at DESC);

		CREATE TABLE IF NOT EXISTS saves (
			map_id TEXT NOT NULL,
			user TEXT NOT NULL DEFAULT '',
			x REAL NOT NULL,
			y REAL NOT NULL,
			angle REAL NOT NULL,
			clip INTEGER NOT NULL DEFAULT 1,
			fov REAL NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (map_id, user)
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSession records a finished session and returns its ID.
// A random UUID is assigned when the session has none.
func (s *Store) SaveSession(sess Session) (string, error) {
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	if sess.StartedAt.IsZero() {
		sess.StartedAt = time.Now()
	}

	_, err := s.db.Exec(
		`INSERT INTO sessions (id, map_id, user, started_at, duration_ms, frames, avg_fps, distance)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID,
		sess.MapID,
		sess.User,
		formatTime(sess.StartedAt),
		sess.Duration.Milliseconds(),
		sess.Frames,
		sess.AvgFPS,
		sess.Distance,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save session: %w", err)
	}

	return sess.ID, nil
}

// RecentSessions retrieves the latest sessions on a map, newest first.
func (s *Store) RecentSessions(mapID string, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, map_id, user, started_at, duration_ms, frames, avg_fps, distance
		 FROM sessions
		 WHERE map_id = ?
		 ORDER BY started_at DESC
		 LIMIT ?`,
		mapID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sessions []Session
	for rows.Next() {
		var (
			sess       Session
			startedAt  any
			durationMS int64
		)
		if err := rows.Scan(&sess.ID, &sess.MapID, &sess.User, &startedAt, &durationMS,
			&sess.Frames, &sess.AvgFPS, &sess.Distance); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		sess.StartedAt = parseTime(startedAt)
		sess.Duration = time.Duration(durationMS) * time.Millisecond
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return sessions, nil
}

// GetMapStats retrieves aggregated statistics for a map.
func (s *Store) GetMapStats(mapID string) (*MapStats, error) {
	stats := &MapStats{MapID: mapID}

	var (
		totalMS    int64
		lastPlayed sql.NullString
	)
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(duration_ms), 0), COALESCE(SUM(distance), 0),
		        COALESCE(MAX(avg_fps), 0), MAX(started_at)
		 FROM sessions WHERE map_id = ?`,
		mapID,
	).Scan(&stats.Sessions, &totalMS, &stats.TotalDistance, &stats.BestFPS, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get map stats: %w", err)
	}

	stats.TotalTime = time.Duration(totalMS) * time.Millisecond
	if lastPlayed.Valid {
		stats.LastPlayed = parseTime(lastPlayed.String)
	}

	return stats, nil
}

// ClearSessions deletes all sessions recorded for a map.
func (s *Store) ClearSessions(mapID string) error {
	_, err := s.db.Exec("DELETE FROM sessions WHERE map_id = ?", mapID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear sessions: %w", err)
	}
	return nil
}

// SavePosition stores the position of a user on a map, replacing any
// previous save.
func (s *Store) SavePosition(sv Save) error {
	if sv.UpdatedAt.IsZero() {
		sv.UpdatedAt = time.Now()
	}

	_, err := s.db.Exec(
		`INSERT INTO saves (map_id, user, x, y, angle, clip, fov, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(map_id, user) DO UPDATE SET
		   x = excluded.x,
		   y = excluded.y,
		   angle = excluded.angle,
		   clip = excluded.clip,
		   fov = excluded.fov,
		   updated_at = excluded.updated_at`,
		sv.MapID, sv.User, sv.X, sv.Y, sv.Angle, sv.Clip, sv.FOV, formatTime(sv.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save position: %w", err)
	}
	return nil
}

// LoadPosition returns the saved position of a user on a map.
// Returns ErrNoSave if there is none.
func (s *Store) LoadPosition(mapID, user string) (*Save, error) {
	sv := Save{MapID: mapID, User: user}
	var updatedAt any

	err := s.db.QueryRow(
		`SELECT x, y, angle, clip, fov, updated_at
		 FROM saves
		 WHERE map_id = ? AND user = ?`,
		mapID, user,
	).Scan(&sv.X, &sv.Y, &sv.Angle, &sv.Clip, &sv.FOV, &updatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSave
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot load position: %w", err)
	}

	sv.UpdatedAt = parseTime(updatedAt)
	return &sv, nil
}

// DeletePosition removes a saved position.
func (s *Store) DeletePosition(mapID, user string) error {
	_, err := s.db.Exec("DELETE FROM saves WHERE map_id = ? AND user = ?", mapID, user)
	if err != nil {
		return fmt.Errorf("storage: cannot delete position: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime handles both time.Time and string column values.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse(timeLayout, v); err == nil {
			return parsed
		}
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
