package commands

import (
	"context"
	"time"

	"room-booking/internal/domain/booking"
	"room-booking/internal/infra"
	"room-booking/internal/pkg/clock"
	"room-booking/internal/pkg/errs"
	"room-booking/internal/usecase/queries"
)

var (
	ErrRoomNotFound    = errs.New("room not found")
	ErrInvalidUserID   = errs.New("user id must be positive")
	ErrInvalidTimeSlot = errs.New("end time must be after start time")
	ErrBookingConflict = errs.New("booking conflict")
	ErrBookingNotFound = errs.New("booking not found")
	ErrCannotCancel    = errs.New("booking cannot be cancelled")
	ErrStoreFailed     = errs.New("store operation failed")
)

type CreateBookingParams struct {
	RoomID    int64
	UserID    int64
	StartTime time.Time
	EndTime   time.Time
}

type BookingCommands interface {
	CreateBooking(ctx context.Context, params CreateBookingParams) (*queries.BookingView, error)
	CancelBooking(ctx context.Context, bookingID int64) error
}

type bookingCommandsImpl struct {
	store BookingStore
	rooms RoomDirectory
	clock clock.Clock
}

func NewBookingCommands(store BookingStore, rooms RoomDirectory, clock clock.Clock) BookingCommands {
	return &bookingCommandsImpl{
		store: store,
		rooms: rooms,
		clock: clock,
	}
}

// CreateBooking validates the request, checks the requested interval against
// all confirmed bookings for the room, and persists a confirmed booking.
// Validation order is fixed: room existence, user id, interval ordering,
// overlap. Either a fully confirmed booking exists afterwards or none does.
func (c *bookingCommandsImpl) CreateBooking(ctx context.Context, params CreateBookingParams) (*queries.BookingView, error) {
	roomSnap, err := c.rooms.GetRoomByID(ctx, params.RoomID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, errs.Mark(err, ErrStoreFailed)
	}

	if params.UserID <= 0 {
		return nil, ErrInvalidUserID
	}

	slot, err := booking.NewTimeSlot(params.StartTime, params.EndTime)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidTimeSlot)
	}

	// Advisory pre-check for a deterministic outcome; the store's Add remains
	// the authoritative arbiter under concurrent writers.
	overlaps, err := c.store.HasOverlap(ctx, roomSnap.ID, slot.Start(), slot.End(), nil)
	if err != nil {
		return nil, errs.Mark(err, ErrStoreFailed)
	}
	if overlaps {
		return nil, ErrBookingConflict
	}

	entity, err := booking.NewBooking(
		booking.RoomSpec{ID: roomSnap.ID, Capacity: roomSnap.Capacity},
		params.UserID,
		slot,
		c.clock.Now(),
	)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidUserID)
	}

	entity.Confirm()

	persisted, err := c.store.Add(ctx, entity)
	if err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return nil, ErrBookingConflict
		}
		return nil, errs.Mark(err, ErrStoreFailed)
	}

	return toBookingView(persisted, roomSnap.Name), nil
}

// CancelBooking transitions a confirmed booking to Cancelled. Cancellation is
// a soft state change; the record is never deleted. The room itself is not
// touched: availability is only the absence of a covering confirmed booking.
// The domain check runs on a loaded copy, so the store's status-guarded
// Update arbitrates racing cancels; the loser reports ErrCannotCancel.
func (c *bookingCommandsImpl) CancelBooking(ctx context.Context, bookingID int64) error {
	entity, err := c.store.GetByID(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrBookingNotFound
		}
		return errs.Mark(err, ErrStoreFailed)
	}

	if err := entity.Cancel(c.clock.Now()); err != nil {
		return ErrCannotCancel
	}

	if err := c.store.Update(ctx, entity); err != nil {
		switch {
		case infra.IsKind(err, infra.KindConflict):
			return ErrCannotCancel
		case infra.IsKind(err, infra.KindNotFound):
			return ErrBookingNotFound
		default:
			return errs.Mark(err, ErrStoreFailed)
		}
	}

	return nil
}

func toBookingView(b *booking.Booking, roomName string) *queries.BookingView {
	return &queries.BookingView{
		ID:          b.ID(),
		RoomID:      b.RoomID(),
		RoomName:    roomName,
		UserID:      b.UserID(),
		StartTime:   b.TimeSlot().Start(),
		EndTime:     b.TimeSlot().End(),
		Status:      b.Status().String(),
		Capacity:    b.Capacity(),
		CreatedAt:   b.CreatedAt(),
		CancelledAt: b.CancelledAt(),
	}
}
