package handler

import (
	"github.com/iliyamo/flight-seat-booking/internal/repository"
)

// AdminHandler bundles the repositories behind the reference-data
// management endpoints (airports, airplane types, airplanes, routes,
// crew and flights). All of its routes require the ADMIN role.
type AdminHandler struct {
	Airports      *repository.AirportRepo
	AirplaneTypes *repository.AirplaneTypeRepo
	Airplanes     *repository.AirplaneRepo
	Routes        *repository.RouteRepo
	Crew          *repository.CrewRepo
	Flights       *repository.FlightRepo
}

// NewAdminHandler constructs an AdminHandler and panics if any
// dependency is nil.
func NewAdminHandler(
	airports *repository.AirportRepo,
	airplaneTypes *repository.AirplaneTypeRepo,
	airplanes *repository.AirplaneRepo,
	routes *repository.RouteRepo,
	crew *repository.CrewRepo,
	flights *repository.FlightRepo,
) *AdminHandler {
	if airports == nil || airplaneTypes == nil || airplanes == nil || routes == nil || crew == nil || flights == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{
		Airports:      airports,
		AirplaneTypes: airplaneTypes,
		Airplanes:     airplanes,
		Routes:        routes,
		Crew:          crew,
		Flights:       flights,
	}
}
