package postgres

import (
	"context"
	"errors"

	"room-booking/internal/infra"
	"room-booking/internal/usecase/queries"

	"github.com/jackc/pgx/v5"
)

const bookingViewColumns = `
SELECT b.id, b.room_id, r.name, b.user_id, b.start_time, b.end_time, b.status, b.capacity, b.created_at, b.cancelled_at
FROM bookings b
JOIN rooms r ON r.id = b.room_id`

const getBookingViewByIDSQL = bookingViewColumns + `
WHERE b.id = $1`

const listBookingViewsSQL = bookingViewColumns + `
ORDER BY b.start_time DESC, b.id DESC`

const listBookingViewsByUserSQL = bookingViewColumns + `
WHERE b.user_id = $1
ORDER BY b.start_time DESC, b.id DESC`

const listBookingViewsByRoomSQL = bookingViewColumns + `
WHERE b.room_id = $1
ORDER BY b.start_time ASC, b.id ASC`

type BookingReadStore struct {
	db DBTX
}

func NewBookingReadStore(db DBTX) *BookingReadStore {
	return &BookingReadStore{db: db}
}

func (r *BookingReadStore) FindByID(ctx context.Context, id int64) (*queries.BookingView, error) {
	row := r.db.QueryRow(ctx, getBookingViewByIDSQL, id)

	view, err := scanBookingView(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by id", err)
	}

	return view, nil
}

func (r *BookingReadStore) FindAll(ctx context.Context) ([]*queries.BookingView, error) {
	return r.list(ctx, listBookingViewsSQL)
}

func (r *BookingReadStore) FindByUserID(ctx context.Context, userID int64) ([]*queries.BookingView, error) {
	return r.list(ctx, listBookingViewsByUserSQL, userID)
}

func (r *BookingReadStore) FindByRoomID(ctx context.Context, roomID int64) ([]*queries.BookingView, error) {
	return r.list(ctx, listBookingViewsByRoomSQL, roomID)
}

func (r *BookingReadStore) list(ctx context.Context, sql string, args ...any) ([]*queries.BookingView, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	result := make([]*queries.BookingView, 0)
	for rows.Next() {
		view, err := scanBookingView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking row", err)
		}
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read booking rows", err)
	}

	return result, nil
}

func scanBookingView(row pgx.Row) (*queries.BookingView, error) {
	var view queries.BookingView
	err := row.Scan(
		&view.ID,
		&view.RoomID,
		&view.RoomName,
		&view.UserID,
		&view.StartTime,
		&view.EndTime,
		&view.Status,
		&view.Capacity,
		&view.CreatedAt,
		&view.CancelledAt,
	)
	if err != nil {
		return nil, err
	}
	return &view, nil
}
