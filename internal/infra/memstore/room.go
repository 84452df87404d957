package memstore

import (
	"context"
	"sort"
	"sync"

	"room-booking/internal/domain/room"
	"room-booking/internal/infra"
	"room-booking/internal/pkg/errs"
	"room-booking/internal/usecase/commands"
	"room-booking/internal/usecase/queries"
)

// RoomDirectory is the in-memory reference directory. Rooms are registered
// up front and never mutated by the booking side.
type RoomDirectory struct {
	mu    sync.RWMutex
	rooms map[int64]*room.Room
}

func NewRoomDirectory(rooms ...*room.Room) *RoomDirectory {
	d := &RoomDirectory{
		rooms: make(map[int64]*room.Room, len(rooms)),
	}
	for _, r := range rooms {
		d.rooms[r.ID()] = r
	}
	return d
}

func (d *RoomDirectory) GetRoomByID(_ context.Context, id int64) (*commands.RoomSnapshot, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	r, ok := d.rooms[id]
	if !ok {
		return nil, infra.WrapRepoErr("room not found", errs.New("no such room"), infra.KindNotFound)
	}

	return &commands.RoomSnapshot{
		ID:       r.ID(),
		Name:     r.Name(),
		Capacity: r.Capacity(),
		Type:     r.Type().String(),
		Location: r.Location(),
		Active:   r.IsActive(),
	}, nil
}

func (d *RoomDirectory) FindByID(ctx context.Context, id int64) (*queries.RoomView, error) {
	snap, err := d.GetRoomByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &queries.RoomView{
		ID:       snap.ID,
		Name:     snap.Name,
		Capacity: snap.Capacity,
		Type:     snap.Type,
		Location: snap.Location,
		Active:   snap.Active,
	}, nil
}

func (d *RoomDirectory) FindAll(_ context.Context) ([]*queries.RoomView, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	result := make([]*queries.RoomView, 0, len(d.rooms))
	for _, r := range d.rooms {
		result = append(result, &queries.RoomView{
			ID:       r.ID(),
			Name:     r.Name(),
			Capacity: r.Capacity(),
			Type:     r.Type().String(),
			Location: r.Location(),
			Active:   r.IsActive(),
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result, nil
}

func (d *RoomDirectory) roomName(id int64) string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if r, ok := d.rooms[id]; ok {
		return r.Name()
	}
	return ""
}

// SeedRooms is the default room catalogue used by the memory driver and test
// fixtures. A few rooms are deliberately inactive.
func SeedRooms() []*room.Room {
	specs := []struct {
		id       int64
		name     string
		capacity int
		roomType room.Type
		location string
		active   bool
	}{
		{1, "Room A", 10, room.TypeStandard, "Bloemfontein", true},
		{2, "Room B", 20, room.TypeBoardroom, "Bloemfontein", true},
		{3, "Room C", 15, room.TypeTraining, "Bloemfontein", true},
		{4, "Room D", 25, room.TypeStandard, "Bloemfontein", true},
		{5, "Room E", 30, room.TypeBoardroom, "Bloemfontein", true},
		{6, "Room F", 10, room.TypeTraining, "Bloemfontein", false},
		{7, "Room G", 20, room.TypeStandard, "Bloemfontein", true},
		{8, "Room H", 15, room.TypeBoardroom, "Bloemfontein", true},
		{9, "Room I", 13, room.TypeTraining, "Cape Town", true},
		{10, "Room J", 20, room.TypeStandard, "Cape Town", true},
		{11, "Room K", 10, room.TypeBoardroom, "Bloemfontein", false},
		{12, "Room L", 5, room.TypeTraining, "Cape Town", true},
		{13, "Room M", 12, room.TypeStandard, "Bloemfontein", true},
		{14, "Room N", 15, room.TypeBoardroom, "Bloemfontein", true},
		{15, "Room O", 12, room.TypeTraining, "Cape Town", false},
		{16, "Room P", 30, room.TypeStandard, "Cape Town", true},
	}

	rooms := make([]*room.Room, 0, len(specs))
	for _, s := range specs {
		r, err := room.NewRoom(s.id, s.name, s.capacity, s.roomType, s.location, s.active)
		if err != nil {
			panic(err) // static catalogue, must be valid
		}
		rooms = append(rooms, r)
	}
	return rooms
}
