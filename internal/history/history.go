// Package history records availability listings in Postgres so slot supply
// can be compared across time.
package history

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/bitroom/internal/booking"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS listing_runs (
	id BIGSERIAL PRIMARY KEY,
	taken_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	target_date DATE NOT NULL,
	slot_count INT NOT NULL
);

CREATE TABLE IF NOT EXISTS listing_slots (
	run_id BIGINT NOT NULL REFERENCES listing_runs(id) ON DELETE CASCADE,
	room_id TEXT NOT NULL,
	room_name TEXT NOT NULL,
	start_at TIMESTAMP NOT NULL,
	end_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_listing_slots_run ON listing_slots(run_id);
`

// Querier is the slice of pgxpool.Pool the repo needs; pgxmock satisfies it
// in tests.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Open connects a pool with conservative lifetime settings.
func Open(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	cfg.MaxConnLifetime = 5 * time.Minute
	cfg.MaxConnIdleTime = 1 * time.Minute
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Migrate applies the schema. Idempotent.
func Migrate(ctx context.Context, q Querier) error {
	_, err := q.Exec(ctx, schemaSQL)
	return err
}

// Run is one recorded listing.
type Run struct {
	ID         int64
	TakenAt    time.Time
	TargetDate time.Time
	SlotCount  int
}

type Repo struct{ q Querier }

func NewRepo(q Querier) *Repo { return &Repo{q: q} }

// RecordRun stores one listing result and returns the run id.
func (r *Repo) RecordRun(ctx context.Context, targetDate time.Time, bookings []booking.Booking) (int64, error) {
	var id int64
	err := r.q.QueryRow(ctx,
		`INSERT INTO listing_runs(target_date, slot_count) VALUES ($1,$2) RETURNING id`,
		targetDate, len(bookings),
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	for _, b := range bookings {
		if _, err := r.q.Exec(ctx,
			`INSERT INTO listing_slots(run_id, room_id, room_name, start_at, end_at) VALUES ($1,$2,$3,$4,$5)`,
			id, b.RoomID, b.RoomName, b.Start, b.End,
		); err != nil {
			return 0, err
		}
	}
	return id, nil
}

// RecentRuns lists the newest runs first.
func (r *Repo) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := r.q.Query(ctx, `
SELECT id, taken_at, target_date, slot_count
FROM listing_runs
ORDER BY taken_at DESC
LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.TakenAt, &run.TargetDate, &run.SlotCount); err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}
