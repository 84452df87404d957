package components

import (
	"context"
	"fmt"

	"room-booking/internal/infra/db"
	"room-booking/internal/infra/memstore"
	"room-booking/internal/infra/postgres"
	"room-booking/internal/pkg/config"
	"room-booking/internal/usecase/commands"
	"room-booking/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewStores,
	),
)

// Stores bundles the write and read sides of whichever storage driver the
// configuration selects. Both sides always come from the same driver; mixing
// them would break the overlap guarantee that lives in the store.
type Stores struct {
	fx.Out

	BookingStore     commands.BookingStore
	RoomDirectory    commands.RoomDirectory
	BookingReadStore queries.BookingReadStore
	RoomReadStore    queries.RoomReadStore
}

func NewStores(lc fx.Lifecycle, cfg config.Config) (Stores, error) {
	switch cfg.Store.Driver {
	case "memory":
		return newMemoryStores(cfg)
	case "postgres":
		return newPostgresStores(lc, cfg)
	default:
		return Stores{}, fmt.Errorf("unknown store driver: %q", cfg.Store.Driver)
	}
}

func newMemoryStores(cfg config.Config) (Stores, error) {
	rooms := memstore.NewRoomDirectory(memstore.SeedRooms()...)

	var opts []memstore.Option
	if cfg.Store.SnapshotPath != "" {
		opts = append(opts, memstore.WithSnapshotPath(cfg.Store.SnapshotPath))
	}

	bookings, err := memstore.NewBookingStore(rooms, opts...)
	if err != nil {
		return Stores{}, err
	}

	return Stores{
		BookingStore:     bookings,
		RoomDirectory:    rooms,
		BookingReadStore: bookings,
		RoomReadStore:    rooms,
	}, nil
}

func newPostgresStores(lc fx.Lifecycle, cfg config.Config) (Stores, error) {
	pool, cleanup, err := db.Connect(cfg.DB)
	if err != nil {
		return Stores{}, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	return NewPostgresStoresFromPool(pool), nil
}

// NewPostgresStoresFromPool builds the postgres-backed stores over an existing
// pool. Pool lifecycle stays with the caller.
func NewPostgresStoresFromPool(pool *pgxpool.Pool) Stores {
	rooms := postgres.NewRoomDirectory(pool)

	return Stores{
		BookingStore:     postgres.NewBookingRepository(pool),
		RoomDirectory:    rooms,
		BookingReadStore: postgres.NewBookingReadStore(pool),
		RoomReadStore:    rooms,
	}
}
