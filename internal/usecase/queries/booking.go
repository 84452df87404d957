package queries

import (
	"context"
	"time"

	"room-booking/internal/infra"
	"room-booking/internal/pkg/errs"
)

var ErrBookingNotFound = errs.New("booking not found")

// Read models (DTO for read side)
type BookingView struct {
	ID          int64      `json:"id"`
	RoomID      int64      `json:"room_id"`
	RoomName    string     `json:"room_name"`
	UserID      int64      `json:"user_id"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     time.Time  `json:"end_time"`
	Status      string     `json:"status"`
	Capacity    int        `json:"capacity"`
	CreatedAt   time.Time  `json:"created_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

type BookingQueries interface {
	GetByID(ctx context.Context, id int64) (*BookingView, error)
	ListAll(ctx context.Context) ([]*BookingView, error)
	ListByUser(ctx context.Context, userID int64) ([]*BookingView, error)
	ListByRoom(ctx context.Context, roomID int64) ([]*BookingView, error)
}

// BookingReadStore reads durable state directly; the engine's overlap guarantee
// relies on no in-process caching between calls.
type BookingReadStore interface {
	FindByID(ctx context.Context, id int64) (*BookingView, error)
	FindAll(ctx context.Context) ([]*BookingView, error)
	FindByUserID(ctx context.Context, userID int64) ([]*BookingView, error)
	FindByRoomID(ctx context.Context, roomID int64) ([]*BookingView, error)
}

type bookingQueriesImpl struct {
	store BookingReadStore
}

func NewBookingQueries(store BookingReadStore) BookingQueries {
	return &bookingQueriesImpl{store: store}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, id int64) (*BookingView, error) {
	booking, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

func (q *bookingQueriesImpl) ListAll(ctx context.Context) ([]*BookingView, error) {
	return q.store.FindAll(ctx)
}

func (q *bookingQueriesImpl) ListByUser(ctx context.Context, userID int64) ([]*BookingView, error) {
	return q.store.FindByUserID(ctx, userID)
}

func (q *bookingQueriesImpl) ListByRoom(ctx context.Context, roomID int64) ([]*BookingView, error) {
	return q.store.FindByRoomID(ctx, roomID)
}
