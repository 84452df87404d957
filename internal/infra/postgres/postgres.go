// Package postgres is the transactional booking store. The no-overlap
// invariant is enforced by the database itself: a gist exclusion constraint on
// (room_id, tstzrange(start_time, end_time)) scoped to confirmed rows rejects
// the second of two racing overlapping inserts, so check-then-insert needs no
// application-side locking.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx alike.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
