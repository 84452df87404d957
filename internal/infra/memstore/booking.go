package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"room-booking/internal/domain/booking"
	"room-booking/internal/infra"
	"room-booking/internal/pkg/errs"
	"room-booking/internal/usecase/queries"
)

// BookingStore is the in-memory reference implementation. Add holds the write
// lock across the overlap re-check and the insert, so the store itself is the
// atomic check-and-insert the engine relies on: of two racing overlapping
// creates, the second one fails with a conflict.
type BookingStore struct {
	mu       sync.RWMutex
	bookings map[int64]*booking.Booking
	nextID   int64

	rooms        *RoomDirectory
	snapshotPath string
}

type Option func(*BookingStore)

// WithSnapshotPath persists the store to a JSON file after every mutation and
// reloads it on startup, mirroring the file-backed iteration of the store.
func WithSnapshotPath(path string) Option {
	return func(s *BookingStore) {
		s.snapshotPath = path
	}
}

func NewBookingStore(rooms *RoomDirectory, opts ...Option) (*BookingStore, error) {
	s := &BookingStore{
		bookings: make(map[int64]*booking.Booking),
		nextID:   1,
		rooms:    rooms,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.snapshotPath != "" {
		if err := s.loadSnapshot(); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *BookingStore) Add(_ context.Context, b *booking.Booking) (*booking.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b.IsActive() && s.overlapsLocked(b.RoomID(), b.TimeSlot().Start(), b.TimeSlot().End(), nil) {
		return nil, infra.WrapRepoErr("overlapping confirmed booking exists", errs.New("booking overlap"), infra.KindConflict)
	}

	id := s.nextID
	s.nextID++

	persisted := booking.ReconstructBooking(
		id,
		b.RoomID(),
		b.UserID(),
		b.TimeSlot(),
		b.Status(),
		b.Capacity(),
		b.CreatedAt(),
		b.CancelledAt(),
	)
	s.bookings[id] = persisted

	if err := s.saveSnapshotLocked(); err != nil {
		delete(s.bookings, id)
		s.nextID = id
		return nil, err
	}

	return cloneBooking(persisted), nil
}

func (s *BookingStore) GetByID(_ context.Context, id int64) (*booking.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", errs.New("no such booking"), infra.KindNotFound)
	}

	return cloneBooking(b), nil
}

// Update persists a state transition. The stored record is the arbiter,
// checked under the write lock: once it leaves Confirmed it accepts no
// further transitions, so a stale cancel loses instead of overwriting the
// cancellation timestamp.
func (s *BookingStore) Update(_ context.Context, b *booking.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.bookings[b.ID()]
	if !ok {
		return infra.WrapRepoErr("booking not found", errs.New("no such booking"), infra.KindNotFound)
	}
	if prev.Status() != booking.StatusConfirmed {
		return infra.WrapRepoErr("booking is no longer confirmed", errs.New("stale booking state"), infra.KindConflict)
	}

	s.bookings[b.ID()] = cloneBooking(b)

	if err := s.saveSnapshotLocked(); err != nil {
		s.bookings[b.ID()] = prev
		return err
	}

	return nil
}

func (s *BookingStore) HasOverlap(_ context.Context, roomID int64, start, end time.Time, excludeBookingID *int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.overlapsLocked(roomID, start, end, excludeBookingID), nil
}

// Confirmed bookings only; cancelled intervals never block a new booking.
func (s *BookingStore) overlapsLocked(roomID int64, start, end time.Time, excludeBookingID *int64) bool {
	for _, b := range s.bookings {
		if b.RoomID() != roomID || !b.IsActive() {
			continue
		}
		if excludeBookingID != nil && b.ID() == *excludeBookingID {
			continue
		}
		if b.OverlapsRange(start, end) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Read side
// ---------------------------------------------------------------------------

func (s *BookingStore) FindByID(_ context.Context, id int64) (*queries.BookingView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", errs.New("no such booking"), infra.KindNotFound)
	}

	return s.toView(b), nil
}

func (s *BookingStore) FindAll(_ context.Context) ([]*queries.BookingView, error) {
	return s.collect(func(*booking.Booking) bool { return true }, newestFirst), nil
}

func (s *BookingStore) FindByUserID(_ context.Context, userID int64) ([]*queries.BookingView, error) {
	return s.collect(func(b *booking.Booking) bool { return b.UserID() == userID }, newestFirst), nil
}

func (s *BookingStore) FindByRoomID(_ context.Context, roomID int64) ([]*queries.BookingView, error) {
	return s.collect(func(b *booking.Booking) bool { return b.RoomID() == roomID }, oldestFirst), nil
}

type viewOrder int

const (
	newestFirst viewOrder = iota
	oldestFirst
)

func (s *BookingStore) collect(keep func(*booking.Booking) bool, order viewOrder) []*queries.BookingView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*queries.BookingView, 0)
	for _, b := range s.bookings {
		if keep(b) {
			result = append(result, s.toView(b))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if order == oldestFirst {
			if !result[i].StartTime.Equal(result[j].StartTime) {
				return result[i].StartTime.Before(result[j].StartTime)
			}
			return result[i].ID < result[j].ID
		}
		if !result[i].StartTime.Equal(result[j].StartTime) {
			return result[i].StartTime.After(result[j].StartTime)
		}
		return result[i].ID > result[j].ID
	})

	return result
}

func (s *BookingStore) toView(b *booking.Booking) *queries.BookingView {
	return &queries.BookingView{
		ID:          b.ID(),
		RoomID:      b.RoomID(),
		RoomName:    s.rooms.roomName(b.RoomID()),
		UserID:      b.UserID(),
		StartTime:   b.TimeSlot().Start(),
		EndTime:     b.TimeSlot().End(),
		Status:      b.Status().String(),
		Capacity:    b.Capacity(),
		CreatedAt:   b.CreatedAt(),
		CancelledAt: b.CancelledAt(),
	}
}

func cloneBooking(b *booking.Booking) *booking.Booking {
	var cancelledAt *time.Time
	if b.CancelledAt() != nil {
		t := *b.CancelledAt()
		cancelledAt = &t
	}
	return booking.ReconstructBooking(
		b.ID(),
		b.RoomID(),
		b.UserID(),
		b.TimeSlot(),
		b.Status(),
		b.Capacity(),
		b.CreatedAt(),
		cancelledAt,
	)
}
