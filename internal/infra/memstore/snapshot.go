package memstore

import (
	"encoding/json"
	"os"
	"sort"
	"time"

	"room-booking/internal/domain/booking"
	"room-booking/internal/infra"
)

// Snapshot records use string enum values for file readability; the closed
// Status type stays an in-memory concern.
type bookingRecord struct {
	ID          int64      `json:"id"`
	RoomID      int64      `json:"room_id"`
	UserID      int64      `json:"user_id"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     time.Time  `json:"end_time"`
	Status      string     `json:"status"`
	Capacity    int        `json:"capacity"`
	CreatedAt   time.Time  `json:"created_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

func (s *BookingStore) loadSnapshot() error {
	data, err := os.ReadFile(s.snapshotPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return infra.WrapRepoErr("failed to read booking snapshot", err)
	}

	var records []bookingRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return infra.WrapRepoErr("failed to decode booking snapshot", err)
	}

	for _, rec := range records {
		status, err := booking.ParseStatus(rec.Status)
		if err != nil {
			return infra.WrapRepoErr("invalid status in booking snapshot", err)
		}
		slot, err := booking.NewTimeSlot(rec.StartTime, rec.EndTime)
		if err != nil {
			return infra.WrapRepoErr("invalid interval in booking snapshot", err)
		}

		s.bookings[rec.ID] = booking.ReconstructBooking(
			rec.ID,
			rec.RoomID,
			rec.UserID,
			slot,
			status,
			rec.Capacity,
			rec.CreatedAt,
			rec.CancelledAt,
		)
		if rec.ID >= s.nextID {
			s.nextID = rec.ID + 1
		}
	}

	return nil
}

// Callers must hold the write lock. A failed write is surfaced so mutations
// never report success without a durable snapshot.
func (s *BookingStore) saveSnapshotLocked() error {
	if s.snapshotPath == "" {
		return nil
	}

	records := make([]bookingRecord, 0, len(s.bookings))
	for _, b := range s.bookings {
		records = append(records, bookingRecord{
			ID:          b.ID(),
			RoomID:      b.RoomID(),
			UserID:      b.UserID(),
			StartTime:   b.TimeSlot().Start(),
			EndTime:     b.TimeSlot().End(),
			Status:      b.Status().String(),
			Capacity:    b.Capacity(),
			CreatedAt:   b.CreatedAt(),
			CancelledAt: b.CancelledAt(),
		})
	}
	// Map iteration order is random; snapshots are written in id order.
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return infra.WrapRepoErr("failed to encode booking snapshot", err)
	}

	if err := os.WriteFile(s.snapshotPath, data, 0o644); err != nil {
		return infra.WrapRepoErr("failed to write booking snapshot", err)
	}

	return nil
}
