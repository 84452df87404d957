package room

import "errors"

var (
	ErrNameRequired    = errors.New("a room name is required")
	ErrInvalidCapacity = errors.New("room capacity must be a positive number")
	ErrInvalidID       = errors.New("room id must be positive")
)

// Room is immutable from the booking engine's perspective; lifecycle belongs
// to the directory that owns it.
type Room struct {
	id       int64
	name     string
	capacity int
	roomType Type
	location string
	active   bool
}

func NewRoom(id int64, name string, capacity int, roomType Type, location string, active bool) (*Room, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	if name == "" {
		return nil, ErrNameRequired
	}
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if !roomType.IsValid() {
		return nil, ErrInvalidType
	}

	return &Room{
		id:       id,
		name:     name,
		capacity: capacity,
		roomType: roomType,
		location: location,
		active:   active,
	}, nil
}

func (r *Room) ID() int64        { return r.id }
func (r *Room) Name() string     { return r.name }
func (r *Room) Capacity() int    { return r.capacity }
func (r *Room) Type() Type       { return r.roomType }
func (r *Room) Location() string { return r.location }
func (r *Room) IsActive() bool   { return r.active }
