package queries

import (
	"context"

	"room-booking/internal/infra"
	"room-booking/internal/pkg/errs"
)

var ErrRoomNotFound = errs.New("room not found")

type RoomView struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	Type     string `json:"type"`
	Location string `json:"location"`
	Active   bool   `json:"active"`
}

type RoomQueries interface {
	GetByID(ctx context.Context, id int64) (*RoomView, error)
	ListAll(ctx context.Context) ([]*RoomView, error)
}

type RoomReadStore interface {
	FindByID(ctx context.Context, id int64) (*RoomView, error)
	FindAll(ctx context.Context) ([]*RoomView, error)
}

type roomQueriesImpl struct {
	store RoomReadStore
}

func NewRoomQueries(store RoomReadStore) RoomQueries {
	return &roomQueriesImpl{store: store}
}

func (q *roomQueriesImpl) GetByID(ctx context.Context, id int64) (*RoomView, error) {
	room, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

func (q *roomQueriesImpl) ListAll(ctx context.Context) ([]*RoomView, error) {
	return q.store.FindAll(ctx)
}
