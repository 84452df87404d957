package booking

import (
	"errors"
	"fmt"
	"time"
)

// TimeSlot is the half-open interval [start, end). The end instant itself is
// not reserved, so back-to-back slots sharing a boundary do not overlap.
type TimeSlot struct {
	start time.Time
	end   time.Time
}

func NewTimeSlot(start, end time.Time) (TimeSlot, error) {
	if start.After(end) || start.Equal(end) {
		return TimeSlot{}, errors.New("end time must be after start time")
	}

	return TimeSlot{
		start: start,
		end:   end,
	}, nil
}

func (ts TimeSlot) Start() time.Time {
	return ts.start
}

func (ts TimeSlot) End() time.Time {
	return ts.end
}

func (ts TimeSlot) Duration() time.Duration {
	return ts.end.Sub(ts.start)
}

// Overlaps reports whether two half-open intervals intersect:
// [s1,e1) and [s2,e2) overlap iff s1 < e2 && s2 < e1.
func (ts TimeSlot) Overlaps(other TimeSlot) bool {
	return ts.start.Before(other.end) && other.start.Before(ts.end)
}

func (ts TimeSlot) OverlapsRange(start, end time.Time) bool {
	return ts.start.Before(end) && start.Before(ts.end)
}

func (ts TimeSlot) String() string {
	return fmt.Sprintf("[%s,%s)", ts.start.Format(time.RFC3339), ts.end.Format(time.RFC3339))
}
