package booking

import (
	"errors"
	"time"
)

var (
	ErrRoomRequired  = errors.New("room must be provided")
	ErrInvalidUserID = errors.New("user id must be positive")
	ErrInvalidStatus = errors.New("invalid booking status")
	ErrCannotCancel  = errors.New("booking cannot be cancelled")
)

// RoomSpec is the slice of room state the entity needs at construction time.
// Capacity is copied into the booking so later room edits never rewrite history.
type RoomSpec struct {
	ID       int64
	Capacity int
}

type Booking struct {
	id          int64
	roomID      int64
	userID      int64
	timeSlot    TimeSlot
	status      Status
	capacity    int
	createdAt   time.Time
	cancelledAt *time.Time
}

// NewBooking constructs a booking in the Booked state. The id stays zero until
// the store assigns one; callers observe only the persisted, Confirmed booking.
func NewBooking(room RoomSpec, userID int64, slot TimeSlot, now time.Time) (*Booking, error) {
	if room.ID <= 0 {
		return nil, ErrRoomRequired
	}
	if userID <= 0 {
		return nil, ErrInvalidUserID
	}

	return &Booking{
		roomID:    room.ID,
		userID:    userID,
		timeSlot:  slot,
		status:    StatusBooked,
		capacity:  room.Capacity,
		createdAt: now,
	}, nil
}

func ReconstructBooking(
	id, roomID, userID int64,
	timeSlot TimeSlot,
	status Status,
	capacity int,
	createdAt time.Time,
	cancelledAt *time.Time,
) *Booking {
	return &Booking{
		id:          id,
		roomID:      roomID,
		userID:      userID,
		timeSlot:    timeSlot,
		status:      status,
		capacity:    capacity,
		createdAt:   createdAt,
		cancelledAt: cancelledAt,
	}
}

// Confirm moves the booking into the only state that participates in the
// no-overlap invariant. Construction and confirmation are one logical step for
// callers of the engine.
func (b *Booking) Confirm() {
	b.status = StatusConfirmed
}

// Cancel is allowed only from Confirmed. cancelledAt is set exactly once and
// never rewritten by a repeated cancel attempt.
func (b *Booking) Cancel(now time.Time) error {
	if b.status != StatusConfirmed {
		return ErrCannotCancel
	}
	b.status = StatusCancelled
	b.cancelledAt = &now
	return nil
}

func (b *Booking) IsActive() bool {
	return b.status == StatusConfirmed
}

func (b *Booking) IsCancelled() bool {
	return b.status == StatusCancelled
}

func (b *Booking) OverlapsRange(start, end time.Time) bool {
	return b.timeSlot.OverlapsRange(start, end)
}

func (b *Booking) ID() int64               { return b.id }
func (b *Booking) RoomID() int64           { return b.roomID }
func (b *Booking) UserID() int64           { return b.userID }
func (b *Booking) TimeSlot() TimeSlot      { return b.timeSlot }
func (b *Booking) Status() Status          { return b.status }
func (b *Booking) Capacity() int           { return b.capacity }
func (b *Booking) CreatedAt() time.Time    { return b.createdAt }
func (b *Booking) CancelledAt() *time.Time { return b.cancelledAt }
