//go:build unit || e2e

package builder

import (
	"time"

	dombooking "room-booking/internal/domain/booking"
	"room-booking/internal/domain/room"
	reqdto "room-booking/internal/handler/dto/request"
	"room-booking/internal/usecase/commands"
	"room-booking/internal/usecase/queries"
)

type BookingBuilder struct {
	ID        int64
	RoomID    int64
	RoomName  string
	Capacity  int
	UserID    int64
	StartTime time.Time
	EndTime   time.Time
	Status    dombooking.Status
	CreatedAt time.Time
}

func NewBookingBuilder() *BookingBuilder {
	now := time.Now().UTC().Truncate(time.Second)
	start := now.Add(24 * time.Hour)
	return &BookingBuilder{
		ID:        1,
		RoomID:    1,
		RoomName:  "Conference Room A",
		Capacity:  10,
		UserID:    42,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Status:    dombooking.StatusConfirmed,
		CreatedAt: now,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *BookingBuilder) BuildDomain() (*dombooking.Booking, error) {
	slot, err := dombooking.NewTimeSlot(b.StartTime, b.EndTime)
	if err != nil {
		return nil, err
	}
	spec := dombooking.RoomSpec{ID: b.RoomID, Capacity: b.Capacity}
	return dombooking.NewBooking(spec, b.UserID, slot, b.CreatedAt)
}

func (b *BookingBuilder) BuildConfirmed() (*dombooking.Booking, error) {
	booking, err := b.BuildDomain()
	if err != nil {
		return nil, err
	}
	booking.Confirm()
	return booking, nil
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		RoomID:    b.RoomID,
		UserID:    b.UserID,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
	}
}

func (b *BookingBuilder) BuildCreateParams() commands.CreateBookingParams {
	return commands.CreateBookingParams{
		RoomID:    b.RoomID,
		UserID:    b.UserID,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
	}
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	return &queries.BookingView{
		ID:        b.ID,
		RoomID:    b.RoomID,
		RoomName:  b.RoomName,
		UserID:    b.UserID,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Status:    b.Status.String(),
		Capacity:  b.Capacity,
		CreatedAt: b.CreatedAt,
	}
}

func (b *BookingBuilder) BuildRoomSnapshot() *commands.RoomSnapshot {
	return &commands.RoomSnapshot{
		ID:       b.RoomID,
		Name:     b.RoomName,
		Capacity: b.Capacity,
		Type:     room.TypeStandard.String(),
		Location: "Cape Town",
		Active:   true,
	}
}

func (b *BookingBuilder) BuildRoom() *room.Room {
	r, err := room.NewRoom(b.RoomID, b.RoomName, b.Capacity, room.TypeStandard, "Cape Town", true)
	if err != nil {
		panic(err)
	}
	return r
}
