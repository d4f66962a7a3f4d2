// Package proxdb persists obstacle telemetry history to sqlite: periodic
// closest-object events with their 8-way distance snapshots. This is
// collaborator history for reporting; the in-memory proximity model itself
// never persists across restarts.
package proxdb

import (
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type DB struct {
	*sql.DB
}

// NewDB opens (or creates) the sqlite database at path and applies any
// pending migrations.
func NewDB(path string) (*DB, error) {
	sqldb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// modernc sqlite allows one writer; keep the pool at a single
	// connection so concurrent recorders serialize instead of erroring
	sqldb.SetMaxOpenConns(1)

	if _, err := sqldb.Exec(`PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000;`); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("failed to set pragmas: %w", err)
	}

	db := &DB{sqldb}
	if err := db.migrateUp(); err != nil {
		sqldb.Close()
		return nil, err
	}
	return db, nil
}

// migrateUp applies all pending embedded migrations. Returns nil when the
// schema is already at the latest version.
func (db *DB) migrateUp() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load embedded migrations: %w", err)
	}

	driver, err := sqlite.WithInstance(db.DB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create sqlite driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	// Note: we don't close m because it would close the underlying DB
	// connection.

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// ObstacleEvent is one recorded closest-object observation.
type ObstacleEvent struct {
	ID             string    `json:"id"`
	AngleDeg       float64   `json:"angle_deg"`
	DistanceMeters float64   `json:"distance_m"`
	Status         string    `json:"status"`
	EightWay       []float64 `json:"distances_8way,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// RecordEvent inserts an obstacle event. A missing ID is generated.
func (db *DB) RecordEvent(event ObstacleEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	var eightWay any
	if event.EightWay != nil {
		encoded, err := json.Marshal(event.EightWay)
		if err != nil {
			return fmt.Errorf("failed to encode 8-way distances: %w", err)
		}
		eightWay = string(encoded)
	}

	_, err := db.Exec(`
		INSERT INTO obstacle_events (id, angle_deg, distance_m, status, distances_8way, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)`,
		event.ID, event.AngleDeg, event.DistanceMeters, event.Status, eightWay,
		event.Timestamp.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert obstacle event: %w", err)
	}
	return nil
}

// RecentEvents returns up to limit events, newest first.
func (db *DB) RecentEvents(limit int) ([]ObstacleEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := db.Query(`
		SELECT id, angle_deg, distance_m, status, distances_8way, timestamp
		FROM obstacle_events
		ORDER BY timestamp DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query obstacle events: %w", err)
	}
	defer rows.Close()

	var events []ObstacleEvent
	for rows.Next() {
		var event ObstacleEvent
		var eightWay sql.NullString
		var ts string
		if err := rows.Scan(&event.ID, &event.AngleDeg, &event.DistanceMeters,
			&event.Status, &eightWay, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan obstacle event: %w", err)
		}
		if eightWay.Valid {
			if err := json.Unmarshal([]byte(eightWay.String), &event.EightWay); err != nil {
				return nil, fmt.Errorf("failed to decode 8-way distances: %w", err)
			}
		}
		parsed, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("failed to parse event timestamp %q: %w", ts, err)
		}
		event.Timestamp = parsed
		events = append(events, event)
	}
	return events, rows.Err()
}

// EventCount returns the number of stored events.
func (db *DB) EventCount() (int64, error) {
	var count int64
	if err := db.QueryRow(`SELECT COUNT(*) FROM obstacle_events`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count obstacle events: %w", err)
	}
	return count, nil
}
