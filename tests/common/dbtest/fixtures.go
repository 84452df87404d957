//go:build e2e

package dbtest

import (
	"context"
	"time"

	"room-booking/internal/infra/memstore"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedReferenceData loads the room catalogue into a fresh test database. The
// same catalogue backs the memory driver, so both drivers see identical rooms.
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, r := range memstore.SeedRooms() {
		_, err := pool.Exec(ctx, `
			INSERT INTO rooms (id, name, capacity, room_type, location, active)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO NOTHING`,
			r.ID(), r.Name(), r.Capacity(), r.Type().String(), r.Location(), r.IsActive(),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// ResetDB clears booking state between subtests. Rooms are reference data and
// survive the reset.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := pool.Exec(ctx, "TRUNCATE TABLE bookings RESTART IDENTITY")
	return err
}
