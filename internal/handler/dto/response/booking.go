package response

import (
	"time"

	"room-booking/internal/usecase/queries"
)

type BookingResponse struct {
	ID          int64      `json:"id"`
	RoomID      int64      `json:"roomId"`
	RoomName    string     `json:"roomName"`
	UserID      int64      `json:"userId"`
	StartTime   time.Time  `json:"startTime"`
	EndTime     time.Time  `json:"endTime"`
	Status      string     `json:"status"`
	Capacity    int        `json:"capacity"`
	CreatedAt   time.Time  `json:"createdAt"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
}

func FromBookingView(bv *queries.BookingView) *BookingResponse {
	return &BookingResponse{
		ID:          bv.ID,
		RoomID:      bv.RoomID,
		RoomName:    bv.RoomName,
		UserID:      bv.UserID,
		StartTime:   bv.StartTime,
		EndTime:     bv.EndTime,
		Status:      bv.Status,
		Capacity:    bv.Capacity,
		CreatedAt:   bv.CreatedAt,
		CancelledAt: bv.CancelledAt,
	}
}

func FromBookingViews(views []*queries.BookingView) []*BookingResponse {
	responses := make([]*BookingResponse, len(views))
	for i, v := range views {
		responses[i] = FromBookingView(v)
	}
	return responses
}
