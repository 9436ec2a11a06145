// Package telemetry records produced events into a SQLite database for
// later analysis. It is a pure sink: the simulation never reads it back.
package telemetry

import (
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"conquest/game"
)

// Recorder appends simulation events to a SQLite event log.
type Recorder struct {
	conn *sqlx.DB
}

// Open opens or creates the event database at path.
func Open(path string) (*Recorder, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open telemetry db: %w", err)
	}
	r := &Recorder{conn: conn}
	if err := r.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate telemetry db: %w", err)
	}
	return r, nil
}

// Close closes the database connection.
func (r *Recorder) Close() error {
	return r.conn.Close()
}

func (r *Recorder) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		at TEXT NOT NULL,
		kind TEXT NOT NULL,
		payload TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind);
	`
	_, err := r.conn.Exec(schema)
	return err
}

// Record writes one event. Failures are logged and swallowed; telemetry
// must never disturb the simulation.
func (r *Recorder) Record(ev game.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Warn().Err(err).Str("kind", ev.Kind()).Msg("telemetry marshal failed")
		return
	}
	_, err = r.conn.Exec(
		"INSERT INTO events (at, kind, payload) VALUES (?, ?, ?)",
		ev.When().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		ev.Kind(),
		string(payload),
	)
	if err != nil {
		log.Warn().Err(err).Str("kind", ev.Kind()).Msg("telemetry insert failed")
	}
}

// CountByKind returns how many events of each kind were recorded, for
// post-run reporting.
func (r *Recorder) CountByKind() (map[string]int, error) {
	rows, err := r.conn.Queryx("SELECT kind, COUNT(*) AS n FROM events GROUP BY kind")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}
