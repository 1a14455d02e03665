// Package postgres persists outcome events durably. It is an independent
// sink: an unavailable database never affects the request path.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"roomalchemy/internal/events"
)

const schema = `
CREATE TABLE IF NOT EXISTS outcome_events (
	id          BIGSERIAL PRIMARY KEY,
	kind        TEXT        NOT NULL,
	occurred_at TIMESTAMPTZ NOT NULL,
	request_id  TEXT,
	user_id     TEXT,
	role        TEXT,
	method      TEXT,
	path        TEXT,
	style       TEXT,
	success     BOOLEAN     NOT NULL,
	status      INT,
	error_kind  TEXT,
	input_size  BIGINT,
	output_size BIGINT,
	client_ip   TEXT,
	user_agent  TEXT,
	latency_ms  BIGINT
);
CREATE INDEX IF NOT EXISTS outcome_events_occurred_at_idx ON outcome_events (occurred_at);
`

// Store is a pgx-backed event sink.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to the database and ensures the events table exists.
func New(ctx context.Context, url string) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure events schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Name() string { return "postgres" }

// Send appends one event row.
func (s *Store) Send(ctx context.Context, ev events.Event) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO outcome_events
			(kind, occurred_at, request_id, user_id, role, method, path, style,
			 success, status, error_kind, input_size, output_size, client_ip,
			 user_agent, latency_ms)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		string(ev.Kind), ev.Timestamp, ev.RequestID, ev.UserID, ev.Role,
		ev.Method, ev.Path, ev.Style, ev.Success, ev.Status, ev.ErrorKind,
		ev.InputSize, ev.OutputSize, ev.ClientIP, ev.UserAgent, ev.LatencyMS,
	)
	if err != nil {
		return fmt.Errorf("insert outcome event: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}
