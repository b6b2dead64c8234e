package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/emostate/internal/states"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS turns (
	id              TEXT PRIMARY KEY,
	session_id      TEXT NOT NULL,
	created_at      TEXT NOT NULL,
	user_message    TEXT NOT NULL,
	state_id        INTEGER NOT NULL,
	state_name      TEXT NOT NULL,
	response        TEXT NOT NULL,
	context_json    TEXT,
	message_length  INTEGER NOT NULL,
	response_length INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_turns_session
ON turns(session_id, created_at DESC);

CREATE TABLE IF NOT EXISTS state_briefs (
	state_id    INTEGER PRIMARY KEY,
	description TEXT NOT NULL
);
`

// Fixed-width so lexical order equals time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// #endregion schema

// #region store-struct
// SQLiteStore is the default Store, backed by a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewSQLiteStore opens a SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if dbPath == ":memory:" {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma busy_timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// #endregion close

// #region save-turn
// SaveTurn implements Store.
func (s *SQLiteStore) SaveTurn(ctx context.Context, rec TurnRecord) error {
	if rec.ID == "" {
		rec.ID = ulid.Make().String()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO turns (id, session_id, created_at, user_message, state_id, state_name,
		                    response, context_json, message_length, response_length)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.SessionID,
		rec.Timestamp.UTC().Format(timeLayout),
		rec.UserMessage,
		int(rec.StateID),
		rec.StateName,
		rec.Response,
		nullIfEmpty(rec.Context),
		rec.MessageLength,
		rec.ResponseLength,
	)
	if err != nil {
		return fmt.Errorf("save turn: %w", err)
	}
	return nil
}

// #endregion save-turn

// #region session-history
// SessionHistory implements Store.
func (s *SQLiteStore) SessionHistory(ctx context.Context, sessionID string, limit int) ([]TurnRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, created_at, user_message, state_id, state_name,
		        response, COALESCE(context_json, ''), message_length, response_length
		 FROM turns
		 WHERE session_id = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []TurnRecord
	for rows.Next() {
		var rec TurnRecord
		var createdAt string
		var stateID int
		if err := rows.Scan(&rec.ID, &rec.SessionID, &createdAt, &rec.UserMessage, &stateID,
			&rec.StateName, &rec.Response, &rec.Context, &rec.MessageLength, &rec.ResponseLength); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		rec.StateID = states.StateID(stateID)
		rec.Timestamp, err = time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// #endregion session-history

// #region state-briefs
// StateBrief implements Store.
func (s *SQLiteStore) StateBrief(ctx context.Context, id states.StateID) (string, bool, error) {
	var brief string
	err := s.db.QueryRowContext(ctx,
		`SELECT description FROM state_briefs WHERE state_id = ?`, int(id),
	).Scan(&brief)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query state brief: %w", err)
	}
	return brief, true, nil
}

// AllStateBriefs implements Store.
func (s *SQLiteStore) AllStateBriefs(ctx context.Context) (map[states.StateID]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT state_id, description FROM state_briefs`)
	if err != nil {
		return nil, fmt.Errorf("query state briefs: %w", err)
	}
	defer rows.Close()

	out := make(map[states.StateID]string)
	for rows.Next() {
		var id int
		var brief string
		if err := rows.Scan(&id, &brief); err != nil {
			return nil, fmt.Errorf("scan state brief: %w", err)
		}
		out[states.StateID(id)] = brief
	}
	return out, rows.Err()
}

// PutStateBrief inserts or replaces the description of a state.
func (s *SQLiteStore) PutStateBrief(ctx context.Context, id states.StateID, brief string) error {
	if !id.Valid() {
		return fmt.Errorf("put state brief: state %d out of range", id)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO state_briefs (state_id, description) VALUES (?, ?)
		 ON CONFLICT(state_id) DO UPDATE SET description = excluded.description`,
		int(id), brief,
	)
	if err != nil {
		return fmt.Errorf("put state brief: %w", err)
	}
	return nil
}

// #endregion state-briefs

// #region health
// Healthy implements Store.
func (s *SQLiteStore) Healthy(ctx context.Context) bool {
	var one int
	return s.db.QueryRowContext(ctx, "SELECT 1").Scan(&one) == nil
}

// #endregion health

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers

var _ Store = (*SQLiteStore)(nil)
