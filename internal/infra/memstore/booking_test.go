//go:build unit

package memstore_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"room-booking/internal/domain/booking"
	"room-booking/internal/infra"
	"room-booking/internal/infra/memstore"
	"room-booking/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, opts ...memstore.Option) *memstore.BookingStore {
	t.Helper()
	rooms := memstore.NewRoomDirectory(memstore.SeedRooms()...)
	store, err := memstore.NewBookingStore(rooms, opts...)
	require.NoError(t, err)
	return store
}

func confirmedBooking(t *testing.T, roomID int64, start, end time.Time) *booking.Booking {
	t.Helper()
	b, err := builder.NewBookingBuilder().
		With(func(bb *builder.BookingBuilder) {
			bb.RoomID = roomID
			bb.StartTime = start
			bb.EndTime = end
		}).
		BuildConfirmed()
	require.NoError(t, err)
	return b
}

func TestBookingStoreAdd(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)

	t.Run("assigns sequential ids", func(t *testing.T) {
		store := newStore(t)

		first, err := store.Add(ctx, confirmedBooking(t, 1, base, base.Add(time.Hour)))
		require.NoError(t, err)
		second, err := store.Add(ctx, confirmedBooking(t, 2, base, base.Add(time.Hour)))
		require.NoError(t, err)

		assert.Equal(t, int64(1), first.ID())
		assert.Equal(t, int64(2), second.ID())
	})

	t.Run("rejects overlapping confirmed booking in the same room", func(t *testing.T) {
		store := newStore(t)

		_, err := store.Add(ctx, confirmedBooking(t, 1, base, base.Add(2*time.Hour)))
		require.NoError(t, err)

		_, err = store.Add(ctx, confirmedBooking(t, 1, base.Add(time.Hour), base.Add(3*time.Hour)))
		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindConflict))
	})

	t.Run("same interval in another room is allowed", func(t *testing.T) {
		store := newStore(t)

		_, err := store.Add(ctx, confirmedBooking(t, 1, base, base.Add(time.Hour)))
		require.NoError(t, err)

		_, err = store.Add(ctx, confirmedBooking(t, 2, base, base.Add(time.Hour)))
		require.NoError(t, err)
	})

	t.Run("touching intervals are allowed", func(t *testing.T) {
		store := newStore(t)

		_, err := store.Add(ctx, confirmedBooking(t, 1, base, base.Add(time.Hour)))
		require.NoError(t, err)

		_, err = store.Add(ctx, confirmedBooking(t, 1, base.Add(time.Hour), base.Add(2*time.Hour)))
		require.NoError(t, err)
	})

	t.Run("cancelled booking frees its interval", func(t *testing.T) {
		store := newStore(t)

		persisted, err := store.Add(ctx, confirmedBooking(t, 1, base, base.Add(time.Hour)))
		require.NoError(t, err)

		require.NoError(t, persisted.Cancel(base))
		require.NoError(t, store.Update(ctx, persisted))

		_, err = store.Add(ctx, confirmedBooking(t, 1, base, base.Add(time.Hour)))
		require.NoError(t, err)
	})

	t.Run("exactly one of two racing overlapping creates succeeds", func(t *testing.T) {
		store := newStore(t)

		const writers = 16
		var wg sync.WaitGroup
		errCh := make(chan error, writers)

		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := store.Add(ctx, confirmedBooking(t, 1, base, base.Add(time.Hour)))
				errCh <- err
			}()
		}
		wg.Wait()
		close(errCh)

		succeeded := 0
		for err := range errCh {
			if err == nil {
				succeeded++
			} else {
				assert.True(t, infra.IsKind(err, infra.KindConflict))
			}
		}
		assert.Equal(t, 1, succeeded)
	})
}

func TestBookingStoreUpdate(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)

	t.Run("second cancel of the same booking loses", func(t *testing.T) {
		store := newStore(t)

		persisted, err := store.Add(ctx, confirmedBooking(t, 1, base, base.Add(time.Hour)))
		require.NoError(t, err)

		// Two callers each hold their own still-confirmed copy.
		first, err := store.GetByID(ctx, persisted.ID())
		require.NoError(t, err)
		second, err := store.GetByID(ctx, persisted.ID())
		require.NoError(t, err)

		require.NoError(t, first.Cancel(base.Add(time.Hour)))
		require.NoError(t, store.Update(ctx, first))

		require.NoError(t, second.Cancel(base.Add(2*time.Hour)))
		err = store.Update(ctx, second)
		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindConflict))

		// The stored record keeps the first cancellation timestamp.
		stored, err := store.GetByID(ctx, persisted.ID())
		require.NoError(t, err)
		require.NotNil(t, stored.CancelledAt())
		assert.True(t, stored.CancelledAt().Equal(base.Add(time.Hour)))
	})

	t.Run("unknown booking", func(t *testing.T) {
		store := newStore(t)

		err := store.Update(ctx, confirmedBooking(t, 1, base, base.Add(time.Hour)))
		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})
}

func TestBookingStoreHasOverlap(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)

	store := newStore(t)
	persisted, err := store.Add(ctx, confirmedBooking(t, 1, base, base.Add(2*time.Hour)))
	require.NoError(t, err)

	t.Run("reports overlap for intersecting interval", func(t *testing.T) {
		overlaps, err := store.HasOverlap(ctx, 1, base.Add(time.Hour), base.Add(3*time.Hour), nil)
		require.NoError(t, err)
		assert.True(t, overlaps)
	})

	t.Run("ignores other rooms", func(t *testing.T) {
		overlaps, err := store.HasOverlap(ctx, 2, base, base.Add(2*time.Hour), nil)
		require.NoError(t, err)
		assert.False(t, overlaps)
	})

	t.Run("exclude id skips the booking itself", func(t *testing.T) {
		id := persisted.ID()
		overlaps, err := store.HasOverlap(ctx, 1, base, base.Add(2*time.Hour), &id)
		require.NoError(t, err)
		assert.False(t, overlaps)
	})
}

func TestBookingStoreReadSide(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)

	store := newStore(t)

	add := func(roomID int64, userID int64, offset int) int64 {
		b, err := builder.NewBookingBuilder().
			With(func(bb *builder.BookingBuilder) {
				bb.RoomID = roomID
				bb.UserID = userID
				bb.StartTime = base.Add(time.Duration(offset) * time.Hour)
				bb.EndTime = base.Add(time.Duration(offset+1) * time.Hour)
			}).
			BuildConfirmed()
		require.NoError(t, err)
		persisted, err := store.Add(ctx, b)
		require.NoError(t, err)
		return persisted.ID()
	}

	firstID := add(1, 10, 0)
	secondID := add(1, 20, 2)
	thirdID := add(2, 10, 4)

	t.Run("FindByID resolves the room name", func(t *testing.T) {
		view, err := store.FindByID(ctx, firstID)
		require.NoError(t, err)
		assert.Equal(t, "Room A", view.RoomName)
		assert.Equal(t, "Confirmed", view.Status)
	})

	t.Run("FindByID unknown id", func(t *testing.T) {
		_, err := store.FindByID(ctx, 999)
		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})

	t.Run("FindAll orders newest start first", func(t *testing.T) {
		views, err := store.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, views, 3)
		assert.Equal(t, thirdID, views[0].ID)
		assert.Equal(t, secondID, views[1].ID)
		assert.Equal(t, firstID, views[2].ID)
	})

	t.Run("FindByUserID filters and orders newest first", func(t *testing.T) {
		views, err := store.FindByUserID(ctx, 10)
		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, thirdID, views[0].ID)
		assert.Equal(t, firstID, views[1].ID)
	})

	t.Run("FindByRoomID orders oldest start first", func(t *testing.T) {
		views, err := store.FindByRoomID(ctx, 1)
		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, firstID, views[0].ID)
		assert.Equal(t, secondID, views[1].ID)
	})
}

func TestBookingStoreSnapshot(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	path := filepath.Join(t.TempDir(), "bookings.json")

	store := newStore(t, memstore.WithSnapshotPath(path))

	persisted, err := store.Add(ctx, confirmedBooking(t, 1, base, base.Add(time.Hour)))
	require.NoError(t, err)
	require.NoError(t, persisted.Cancel(base))
	require.NoError(t, store.Update(ctx, persisted))

	_, err = store.Add(ctx, confirmedBooking(t, 3, base, base.Add(time.Hour)))
	require.NoError(t, err)

	// A fresh store over the same file sees the same state.
	reloaded := newStore(t, memstore.WithSnapshotPath(path))

	first, err := reloaded.GetByID(ctx, persisted.ID())
	require.NoError(t, err)
	assert.True(t, first.IsCancelled())
	require.NotNil(t, first.CancelledAt())
	assert.True(t, first.CancelledAt().Equal(base))

	views, err := reloaded.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, views, 2)

	// The freed interval stays bookable after reload.
	_, err = reloaded.Add(ctx, confirmedBooking(t, 1, base, base.Add(time.Hour)))
	require.NoError(t, err)

	// Id assignment continues past the reloaded records.
	next, err := reloaded.Add(ctx, confirmedBooking(t, 4, base, base.Add(time.Hour)))
	require.NoError(t, err)
	assert.Greater(t, next.ID(), int64(2))

	// Records are written in id order regardless of map iteration.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var records []struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 4)
	for i := 1; i < len(records); i++ {
		assert.Less(t, records[i-1].ID, records[i].ID)
	}
}
