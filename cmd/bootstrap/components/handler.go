package components

import (
	"library-lending/internal/handler"
	"library-lending/internal/handler/api"
	"library-lending/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewBorrowingHandler,
		api.NewItemHandler,
		api.NewUserHandler,
		api.NewStatisticsHandler,
		middleware.NewAuthMiddleware,
		newHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func newHandlers(
	borrowings *api.BorrowingHandler,
	items *api.ItemHandler,
	users *api.UserHandler,
	statistics *api.StatisticsHandler,
) handler.Handlers {
	return handler.Handlers{
		Borrowings: borrowings,
		Items:      items,
		Users:      users,
		Statistics: statistics,
	}
}
