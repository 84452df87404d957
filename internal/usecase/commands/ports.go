package commands

import (
	"context"
	"time"

	"room-booking/internal/domain/booking"
)

// Write-side snapshots prevent dependency on read-side query types
type RoomSnapshot struct {
	ID       int64
	Name     string
	Capacity int
	Type     string
	Location string
	Active   bool
}

// RoomDirectory is the read-only room lookup the engine consults. The engine
// always re-fetches by id; caller-supplied room data is never trusted for
// validation.
type RoomDirectory interface {
	GetRoomByID(ctx context.Context, id int64) (*RoomSnapshot, error)
}

// BookingStore is the single source of truth for confirmed state. Add must be
// an atomic check-and-insert with respect to other writers on the same room:
// of two racing overlapping inserts, the store rejects the second with a
// conflict error. Update is guarded the same way: the stored record must
// still be Confirmed or the write is rejected with a conflict error, keeping
// cancellation a single transition under racing callers. HasOverlap considers
// Confirmed bookings only; the optional exclude id lets a booking being
// modified be re-checked without colliding with itself.
type BookingStore interface {
	GetByID(ctx context.Context, id int64) (*booking.Booking, error)
	Add(ctx context.Context, b *booking.Booking) (*booking.Booking, error)
	Update(ctx context.Context, b *booking.Booking) error
	HasOverlap(ctx context.Context, roomID int64, start, end time.Time, excludeBookingID *int64) (bool, error)
}
