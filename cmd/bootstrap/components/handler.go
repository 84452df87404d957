package components

import (
	"room-booking/internal/handler"
	"room-booking/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewBookingHandler,
		api.NewRoomHandler,
	),
	fx.Invoke(handler.NewRouter),
)
