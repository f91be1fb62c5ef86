package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Yediy/daniacasino-sub001/internal/handler"
	"github.com/Yediy/daniacasino-sub001/internal/middleware"
)

// RegisterFloor registers every floor endpoint under /v1.  All routes
// require a valid JWT; write operations that move other players' state
// (calling an entry to a seat, cancelling a hold, balance plans) require
// the FLOOR role on top.  Players act on their own entries and holds.
func RegisterFloor(e *echo.Echo, q *handler.QueueHandler, s *handler.SeatHandler, f *handler.FloorHandler, jwtSecret string, extra ...echo.MiddlewareFunc) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(middleware.RolePlayer, middleware.RoleFloor))
	for _, m := range extra {
		g.Use(m)
	}

	// Lobby and floor boards.  Read-only, safe to cache for a few seconds.
	g.GET("/lists", q.Lists)
	g.GET("/lists/:id/queue", q.Queue)
	g.GET("/tables", f.Tables)
	g.GET("/tables/:id/seats", f.TableSeats)

	// Player-scoped queue operations.  The acting player comes from the
	// token; the engine checks ownership where it matters.
	g.POST("/lists/:id/join", q.Join)
	g.DELETE("/queue/:id", q.Leave)
	g.POST("/queue/:id/checkin", q.CheckIn)
	g.POST("/holds/:id/claim", s.Claim)

	// Staff operations.
	staff := g.Group("", middleware.RequireRole(middleware.RoleFloor))
	staff.POST("/queue/:id/reserve", s.Reserve)
	staff.DELETE("/holds/:id", s.Cancel)
	staff.POST("/floor/balance", f.Balance)
}
