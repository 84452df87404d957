package response

import (
	"room-booking/internal/usecase/queries"
)

type RoomResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	Type     string `json:"type"`
	Location string `json:"location"`
	Active   bool   `json:"active"`
}

func FromRoomView(rv *queries.RoomView) *RoomResponse {
	return &RoomResponse{
		ID:       rv.ID,
		Name:     rv.Name,
		Capacity: rv.Capacity,
		Type:     rv.Type,
		Location: rv.Location,
		Active:   rv.Active,
	}
}

func FromRoomViews(views []*queries.RoomView) []*RoomResponse {
	responses := make([]*RoomResponse, len(views))
	for i, v := range views {
		responses[i] = FromRoomView(v)
	}
	return responses
}
