//go:build e2e

package booking_test

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	dombooking "room-booking/internal/domain/booking"
	"room-booking/internal/handler/dto/request"
	"room-booking/internal/handler/dto/response"
	"room-booking/internal/infra"
	"room-booking/internal/infra/postgres"
	"room-booking/tests/common/builder"
	"room-booking/tests/common/httptest"
	"room-booking/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	bookingsURL     = "/api/bookings"
	roomsURL        = "/api/rooms"
	roomBookingsURL = "/api/rooms/%d/bookings"
	userBookingsURL = "/api/users/%d/bookings"
)

type BookingSuite struct {
	e2e.SharedSuite
}

func TestBookingSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(BookingSuite))
}

func bookingRequest(roomID, userID int64, start, end time.Time) request.CreateBookingRequest {
	return request.CreateBookingRequest{
		RoomID:    roomID,
		UserID:    userID,
		StartTime: start,
		EndTime:   end,
	}
}

func (s *BookingSuite) createBooking(req request.CreateBookingRequest) response.BookingResponse {
	t := s.T()
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, req)
	require.Equal(t, http.StatusCreated, w.Code, "booking should be created: %s", w.Body.String())

	var created response.BookingResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))
	return created
}

// =============================================================================
// TestCreateBooking
// =============================================================================

func (s *BookingSuite) TestCreateBooking() {
	start := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	s.Run("Normal case: booking is created and immediately confirmed", func() {
		t := s.T()

		created := s.createBooking(bookingRequest(1, 42, start, end))
		require.NotZero(t, created.ID)
		require.Equal(t, "Confirmed", created.Status)
		require.Equal(t, "Room A", created.RoomName)
		require.Equal(t, 10, created.Capacity, "capacity is captured from the room")
		require.Nil(t, created.CancelledAt)

		// Detail endpoint returns the same record.
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf("%s/%d", bookingsURL, created.ID), nil)
		require.Equal(t, http.StatusOK, w.Code)

		var fetched response.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &fetched))
		if diff := cmp.Diff(created, fetched, cmpopts.EquateApproxTime(time.Second)); diff != "" {
			t.Errorf("created and fetched booking differ (-created +fetched):\n%s", diff)
		}
	})

	s.Run("Conflict: overlapping interval in the same room is rejected", func() {
		t := s.T()

		s.createBooking(bookingRequest(1, 42, start, end))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			bookingRequest(1, 43, start.Add(30*time.Minute), end.Add(30*time.Minute)))
		require.Equal(t, http.StatusConflict, w.Code)
	})

	s.Run("Normal case: same interval in another room is fine", func() {
		s.createBooking(bookingRequest(1, 42, start, end))
		s.createBooking(bookingRequest(2, 42, start, end))
	})

	s.Run("Normal case: back-to-back intervals share a boundary", func() {
		s.createBooking(bookingRequest(1, 42, start, end))
		s.createBooking(bookingRequest(1, 43, end, end.Add(time.Hour)))
	})

	s.Run("Normal case: inactive room is still bookable", func() {
		created := s.createBooking(bookingRequest(6, 42, start, end))
		s.Require().Equal("Room F", created.RoomName)
	})

	s.Run("Error case: unknown room returns 404", func() {
		t := s.T()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			bookingRequest(999, 42, start, end))
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	s.Run("Error case: inverted interval returns 400", func() {
		t := s.T()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			bookingRequest(1, 42, end, start))
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// =============================================================================
// TestCancelBooking
// =============================================================================

func (s *BookingSuite) TestCancelBooking() {
	start := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	s.Run("Normal case: cancelling frees the interval for rebooking", func() {
		t := s.T()

		created := s.createBooking(bookingRequest(1, 42, start, end))

		w := httptest.PerformRequest(t, s.Router, http.MethodDelete, fmt.Sprintf("%s/%d", bookingsURL, created.ID), nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		// The cancelled record survives with its timestamp.
		w = httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf("%s/%d", bookingsURL, created.ID), nil)
		require.Equal(t, http.StatusOK, w.Code)

		var cancelled response.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &cancelled))
		require.Equal(t, "Cancelled", cancelled.Status)
		require.NotNil(t, cancelled.CancelledAt)

		// The interval is free again.
		s.createBooking(bookingRequest(1, 43, start, end))
	})

	s.Run("Error case: second cancel returns 409", func() {
		t := s.T()

		created := s.createBooking(bookingRequest(1, 42, start, end))
		url := fmt.Sprintf("%s/%d", bookingsURL, created.ID)

		w := httptest.PerformRequest(t, s.Router, http.MethodDelete, url, nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodDelete, url, nil)
		require.Equal(t, http.StatusConflict, w.Code)
	})

	s.Run("Error case: unknown booking returns 404", func() {
		t := s.T()
		w := httptest.PerformRequest(t, s.Router, http.MethodDelete, bookingsURL+"/99999", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

// =============================================================================
// TestStoreArbitration
// =============================================================================

// データベース側の保証を直接検証する: 排他制約が競合する挿入を、
// ステータスガード付きUPDATEが競合するキャンセルを調停する。
func (s *BookingSuite) TestStoreArbitration() {
	start := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	confirmed := func(roomID int64, start, end time.Time) *dombooking.Booking {
		b, err := builder.NewBookingBuilder().
			With(func(bb *builder.BookingBuilder) {
				bb.RoomID = roomID
				bb.StartTime = start
				bb.EndTime = end
			}).
			BuildConfirmed()
		s.Require().NoError(err)
		return b
	}

	s.Run("Conflict: overlapping insert hits the exclusion constraint", func() {
		t := s.T()
		ctx := context.Background()
		repo := postgres.NewBookingRepository(s.DB)

		// Going through the repository skips the engine's advisory pre-check,
		// so only the constraint can reject the second insert.
		_, err := repo.Add(ctx, confirmed(1, start, end.Add(time.Hour)))
		require.NoError(t, err)

		_, err = repo.Add(ctx, confirmed(1, start.Add(time.Hour), end.Add(2*time.Hour)))
		require.Error(t, err)
		require.True(t, infra.IsKind(err, infra.KindConflict), "expected conflict kind, got: %v", err)
	})

	s.Run("Conflict: stale cancel is rejected by the status guard", func() {
		t := s.T()
		ctx := context.Background()
		repo := postgres.NewBookingRepository(s.DB)

		persisted, err := repo.Add(ctx, confirmed(1, start, end))
		require.NoError(t, err)

		first, err := repo.GetByID(ctx, persisted.ID())
		require.NoError(t, err)
		second, err := repo.GetByID(ctx, persisted.ID())
		require.NoError(t, err)

		require.NoError(t, first.Cancel(start.Add(time.Hour)))
		require.NoError(t, repo.Update(ctx, first))

		require.NoError(t, second.Cancel(start.Add(2*time.Hour)))
		err = repo.Update(ctx, second)
		require.Error(t, err)
		require.True(t, infra.IsKind(err, infra.KindConflict), "expected conflict kind, got: %v", err)

		// The stored row keeps the first cancellation timestamp.
		stored, err := repo.GetByID(ctx, persisted.ID())
		require.NoError(t, err)
		require.NotNil(t, stored.CancelledAt())
		require.True(t, stored.CancelledAt().Equal(start.Add(time.Hour)))
	})

	s.Run("Normal case: exactly one of many racing identical creates wins", func() {
		t := s.T()

		const writers = 8
		var wg sync.WaitGroup
		codes := make(chan int, writers)

		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(userID int64) {
				defer wg.Done()
				w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
					bookingRequest(1, userID, start, end))
				codes <- w.Code
			}(int64(100 + i))
		}
		wg.Wait()
		close(codes)

		created, conflicted := 0, 0
		for code := range codes {
			switch code {
			case http.StatusCreated:
				created++
			case http.StatusConflict:
				conflicted++
			default:
				t.Errorf("unexpected status code %d", code)
			}
		}
		require.Equal(t, 1, created)
		require.Equal(t, writers-1, conflicted)
	})
}

// =============================================================================
// TestListBookings
// =============================================================================

func (s *BookingSuite) TestListBookings() {
	base := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)

	s.Run("Normal case: orderings per listing", func() {
		t := s.T()

		early := s.createBooking(bookingRequest(1, 10, base, base.Add(time.Hour)))
		late := s.createBooking(bookingRequest(1, 20, base.Add(2*time.Hour), base.Add(3*time.Hour)))
		other := s.createBooking(bookingRequest(2, 10, base.Add(4*time.Hour), base.Add(5*time.Hour)))

		// All bookings, newest start first.
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, bookingsURL, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var all []response.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &all))
		require.Len(t, all, 3)
		require.Equal(t, []int64{other.ID, late.ID, early.ID}, []int64{all[0].ID, all[1].ID, all[2].ID})

		// Per user, newest start first.
		w = httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(userBookingsURL, 10), nil)
		require.Equal(t, http.StatusOK, w.Code)
		var byUser []response.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &byUser))
		require.Len(t, byUser, 2)
		require.Equal(t, other.ID, byUser[0].ID)
		require.Equal(t, early.ID, byUser[1].ID)

		// Per room, oldest start first.
		w = httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(roomBookingsURL, 1), nil)
		require.Equal(t, http.StatusOK, w.Code)
		var byRoom []response.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &byRoom))
		require.Len(t, byRoom, 2)
		require.Equal(t, early.ID, byRoom[0].ID)
		require.Equal(t, late.ID, byRoom[1].ID)
	})

	s.Run("Normal case: empty listings are empty arrays", func() {
		t := s.T()
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, bookingsURL, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var all []response.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &all))
		require.Empty(t, all)
	})
}

// =============================================================================
// TestRooms
// =============================================================================

func (s *BookingSuite) TestRooms() {
	s.Run("Normal case: catalogue lists every room in id order", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, roomsURL, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var rooms []response.RoomResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &rooms))
		require.Len(t, rooms, 16)
		require.Equal(t, int64(1), rooms[0].ID)
		require.Equal(t, int64(16), rooms[15].ID)
		require.False(t, rooms[5].Active, "Room F is inactive")
	})

	s.Run("Normal case: room detail", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, roomsURL+"/2", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var room response.RoomResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &room))
		require.Equal(t, "Room B", room.Name)
		require.Equal(t, "Boardroom", room.Type)
		require.Equal(t, 20, room.Capacity)
	})

	s.Run("Error case: unknown room returns 404", func() {
		t := s.T()
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, roomsURL+"/999", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}
