package postgres

import (
	"context"
	"errors"

	"room-booking/internal/infra"
	"room-booking/internal/usecase/commands"
	"room-booking/internal/usecase/queries"

	"github.com/jackc/pgx/v5"
)

const getRoomByIDSQL = `
SELECT id, name, capacity, room_type, location, active
FROM rooms
WHERE id = $1`

const listRoomsSQL = `
SELECT id, name, capacity, room_type, location, active
FROM rooms
ORDER BY id`

// RoomDirectory is a read-only lookup; room lifecycle is owned elsewhere.
type RoomDirectory struct {
	db DBTX
}

func NewRoomDirectory(db DBTX) *RoomDirectory {
	return &RoomDirectory{db: db}
}

func (r *RoomDirectory) GetRoomByID(ctx context.Context, id int64) (*commands.RoomSnapshot, error) {
	var snap commands.RoomSnapshot
	err := r.db.QueryRow(ctx, getRoomByIDSQL, id).Scan(
		&snap.ID,
		&snap.Name,
		&snap.Capacity,
		&snap.Type,
		&snap.Location,
		&snap.Active,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("room not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find room by id", err)
	}

	return &snap, nil
}

func (r *RoomDirectory) FindByID(ctx context.Context, id int64) (*queries.RoomView, error) {
	snap, err := r.GetRoomByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return roomSnapshotToView(snap), nil
}

func (r *RoomDirectory) FindAll(ctx context.Context) ([]*queries.RoomView, error) {
	rows, err := r.db.Query(ctx, listRoomsSQL)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list rooms", err)
	}
	defer rows.Close()

	result := make([]*queries.RoomView, 0)
	for rows.Next() {
		var snap commands.RoomSnapshot
		if err := rows.Scan(&snap.ID, &snap.Name, &snap.Capacity, &snap.Type, &snap.Location, &snap.Active); err != nil {
			return nil, infra.WrapRepoErr("failed to scan room row", err)
		}
		result = append(result, roomSnapshotToView(&snap))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read room rows", err)
	}

	return result, nil
}

func roomSnapshotToView(snap *commands.RoomSnapshot) *queries.RoomView {
	return &queries.RoomView{
		ID:       snap.ID,
		Name:     snap.Name,
		Capacity: snap.Capacity,
		Type:     snap.Type,
		Location: snap.Location,
		Active:   snap.Active,
	}
}
