package postgres

import (
	"context"
	"errors"
	"time"

	"room-booking/internal/domain/booking"
	"room-booking/internal/infra"
	"room-booking/internal/pkg/errs"

	"github.com/jackc/pgx/v5"
)

const insertBookingSQL = `
INSERT INTO bookings (room_id, user_id, start_time, end_time, status, capacity, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`

const getBookingByIDSQL = `
SELECT id, room_id, user_id, start_time, end_time, status, capacity, created_at, cancelled_at
FROM bookings
WHERE id = $1`

const updateBookingSQL = `
UPDATE bookings
SET status = $2, cancelled_at = $3
WHERE id = $1
  AND status = 'Confirmed'`

const getBookingStatusSQL = `
SELECT status
FROM bookings
WHERE id = $1`

const hasOverlapSQL = `
SELECT EXISTS (
    SELECT 1
    FROM bookings
    WHERE room_id = $1
      AND status = 'Confirmed'
      AND start_time < $3
      AND end_time > $2
      AND ($4::bigint IS NULL OR id <> $4)
)`

type BookingRepository struct {
	db DBTX
}

func NewBookingRepository(db DBTX) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Add(ctx context.Context, b *booking.Booking) (*booking.Booking, error) {
	var id int64
	err := r.db.QueryRow(ctx, insertBookingSQL,
		b.RoomID(),
		b.UserID(),
		b.TimeSlot().Start(),
		b.TimeSlot().End(),
		b.Status().String(),
		b.Capacity(),
		b.CreatedAt(),
	).Scan(&id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to insert booking", err)
	}

	return booking.ReconstructBooking(
		id,
		b.RoomID(),
		b.UserID(),
		b.TimeSlot(),
		b.Status(),
		b.Capacity(),
		b.CreatedAt(),
		b.CancelledAt(),
	), nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*booking.Booking, error) {
	row := r.db.QueryRow(ctx, getBookingByIDSQL, id)

	entity, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by id", err)
	}

	return entity, nil
}

// Update persists a state transition. The stored row is the arbiter: only a
// row still in Confirmed accepts the write, so of two racing cancels exactly
// one succeeds and the cancellation timestamp is written once.
func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	var cancelledAt *time.Time
	if b.CancelledAt() != nil {
		t := *b.CancelledAt()
		cancelledAt = &t
	}

	tag, err := r.db.Exec(ctx, updateBookingSQL, b.ID(), b.Status().String(), cancelledAt)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking", err)
	}
	if tag.RowsAffected() == 0 {
		// Either the status guard filtered the row out or it never existed.
		var current string
		if err := r.db.QueryRow(ctx, getBookingStatusSQL, b.ID()).Scan(&current); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
			}
			return infra.WrapRepoErr("failed to update booking", err)
		}
		return infra.WrapRepoErr("booking is no longer confirmed", errs.New("stale booking state"), infra.KindConflict)
	}

	return nil
}

func (r *BookingRepository) HasOverlap(ctx context.Context, roomID int64, start, end time.Time, excludeBookingID *int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, hasOverlapSQL, roomID, start, end, excludeBookingID).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check booking overlap", err)
	}

	return exists, nil
}

func scanBooking(row pgx.Row) (*booking.Booking, error) {
	var (
		id          int64
		roomID      int64
		userID      int64
		startTime   time.Time
		endTime     time.Time
		statusRaw   string
		capacity    int
		createdAt   time.Time
		cancelledAt *time.Time
	)

	if err := row.Scan(&id, &roomID, &userID, &startTime, &endTime, &statusRaw, &capacity, &createdAt, &cancelledAt); err != nil {
		return nil, err
	}

	status, err := booking.ParseStatus(statusRaw)
	if err != nil {
		return nil, err
	}

	slot, err := booking.NewTimeSlot(startTime, endTime)
	if err != nil {
		return nil, err
	}

	return booking.ReconstructBooking(id, roomID, userID, slot, status, capacity, createdAt, cancelledAt), nil
}
