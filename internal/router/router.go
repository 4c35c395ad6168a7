// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-seat-booking/internal/handler"
	"github.com/iliyamo/flight-seat-booking/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication.
// Currently only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the auth endpoints. Register, login, refresh
// and logout live under /v1/auth and need no session; /v1/me requires
// a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// /refresh rotates the refresh token; /refresh-access reuses it.
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("ADMIN", "CUSTOMER"))
	auth.GET("/me", a.Me)
}

// RegisterBrowse registers the read-only endpoints available to every
// authenticated user: reference data, flight listings with remaining
// availability, flight detail with sold places, and the seat map.
// The extra middlewares (rate limiting, response caching) apply only
// to this group since reads dominate traffic.
func RegisterBrowse(e *echo.Echo, b *handler.BrowseHandler, jwtSecret string, extra ...echo.MiddlewareFunc) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN", "CUSTOMER"))
	for _, m := range extra {
		g.Use(m)
	}

	g.GET("/airports", b.ListAirports)
	g.GET("/airports/:id", b.GetAirport)
	g.GET("/airplane-types", b.ListAirplaneTypes)
	g.GET("/airplane-types/:id", b.GetAirplaneType)
	g.GET("/airplanes", b.ListAirplanes)
	g.GET("/airplanes/:id", b.GetAirplane)
	g.GET("/routes", b.ListRoutes)
	g.GET("/routes/:id", b.GetRoute)
	g.GET("/crew", b.ListCrew)
	g.GET("/crew/:id", b.GetCrew)
	g.GET("/flights", b.ListFlights)
	g.GET("/flights/:id", b.GetFlight)
	g.GET("/flights/:id/seats", b.GetFlightSeats)
}

// RegisterAdmin registers the reference-data management endpoints.
// Every route requires the ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN"))

	g.POST("/airports", a.CreateAirport)
	g.PUT("/airports/:id", a.UpdateAirport)
	g.DELETE("/airports/:id", a.DeleteAirport)

	g.POST("/airplane-types", a.CreateAirplaneType)
	g.PUT("/airplane-types/:id", a.UpdateAirplaneType)
	g.DELETE("/airplane-types/:id", a.DeleteAirplaneType)

	g.POST("/airplanes", a.CreateAirplane)
	g.PUT("/airplanes/:id", a.UpdateAirplane)
	g.DELETE("/airplanes/:id", a.DeleteAirplane)

	g.POST("/routes", a.CreateRoute)
	g.PUT("/routes/:id", a.UpdateRoute)
	g.DELETE("/routes/:id", a.DeleteRoute)

	g.POST("/crew", a.CreateCrew)
	g.PUT("/crew/:id", a.UpdateCrew)
	g.DELETE("/crew/:id", a.DeleteCrew)

	g.POST("/flights", a.CreateFlight)
	g.PUT("/flights/:id", a.UpdateFlight)
	g.DELETE("/flights/:id", a.DeleteFlight)
	g.PUT("/flights/:id/crew", a.SetFlightCrew)
}

// RegisterOrders registers the booking endpoints. Any authenticated
// user can place orders; each user only ever sees their own.
func RegisterOrders(e *echo.Echo, o *handler.OrderHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN", "CUSTOMER"))

	g.POST("/orders", o.CreateOrder)
	g.GET("/orders", o.ListOrders)
	g.GET("/orders/:id", o.GetOrder)
	g.POST("/orders/:id/tickets", o.AddTicket)
}
