package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-seat-booking/internal/booking"
	"github.com/iliyamo/flight-seat-booking/internal/repository"
)

// BrowseHandler serves the read-only endpoints available to every
// authenticated user: reference data listings, flight search and the
// per-flight seat map.
type BrowseHandler struct {
	Airports      *repository.AirportRepo
	AirplaneTypes *repository.AirplaneTypeRepo
	Airplanes     *repository.AirplaneRepo
	Routes        *repository.RouteRepo
	Crew          *repository.CrewRepo
	Flights       *repository.FlightRepo
	Booking       *booking.Service
}

// NewBrowseHandler constructs a BrowseHandler and panics if any
// dependency is nil.
func NewBrowseHandler(
	airports *repository.AirportRepo,
	airplaneTypes *repository.AirplaneTypeRepo,
	airplanes *repository.AirplaneRepo,
	routes *repository.RouteRepo,
	crew *repository.CrewRepo,
	flights *repository.FlightRepo,
	svc *booking.Service,
) *BrowseHandler {
	if airports == nil || airplaneTypes == nil || airplanes == nil || routes == nil || crew == nil || flights == nil || svc == nil {
		panic("nil dependency passed to NewBrowseHandler")
	}
	return &BrowseHandler{
		Airports:      airports,
		AirplaneTypes: airplaneTypes,
		Airplanes:     airplanes,
		Routes:        routes,
		Crew:          crew,
		Flights:       flights,
		Booking:       svc,
	}
}

// ListAirports handles GET /v1/airports.
func (h *BrowseHandler) ListAirports(c echo.Context) error {
	items, err := h.Airports.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list airports failed"})
	}
	return c.JSON(http.StatusOK, items)
}

// GetAirport handles GET /v1/airports/:id.
func (h *BrowseHandler) GetAirport(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	a, err := h.Airports.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrAirportNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "airport not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load airport failed"})
	}
	return c.JSON(http.StatusOK, a)
}

// ListAirplaneTypes handles GET /v1/airplane-types.
func (h *BrowseHandler) ListAirplaneTypes(c echo.Context) error {
	items, err := h.AirplaneTypes.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list airplane types failed"})
	}
	return c.JSON(http.StatusOK, items)
}

// GetAirplaneType handles GET /v1/airplane-types/:id.
func (h *BrowseHandler) GetAirplaneType(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	t, err := h.AirplaneTypes.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrAirplaneTypeNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "airplane type not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load airplane type failed"})
	}
	return c.JSON(http.StatusOK, t)
}

// ListAirplanes handles GET /v1/airplanes.
func (h *BrowseHandler) ListAirplanes(c echo.Context) error {
	items, err := h.Airplanes.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list airplanes failed"})
	}
	return c.JSON(http.StatusOK, items)
}

// GetAirplane handles GET /v1/airplanes/:id.
func (h *BrowseHandler) GetAirplane(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	a, err := h.Airplanes.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrAirplaneNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "airplane not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load airplane failed"})
	}
	return c.JSON(http.StatusOK, a)
}

// ListRoutes handles GET /v1/routes.
func (h *BrowseHandler) ListRoutes(c echo.Context) error {
	items, err := h.Routes.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list routes failed"})
	}
	return c.JSON(http.StatusOK, items)
}

// GetRoute handles GET /v1/routes/:id.
func (h *BrowseHandler) GetRoute(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	rt, err := h.Routes.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrRouteNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "route not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load route failed"})
	}
	return c.JSON(http.StatusOK, rt)
}

// ListCrew handles GET /v1/crew.
func (h *BrowseHandler) ListCrew(c echo.Context) error {
	items, err := h.Crew.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list crew failed"})
	}
	return c.JSON(http.StatusOK, items)
}

// GetCrew handles GET /v1/crew/:id.
func (h *BrowseHandler) GetCrew(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cm, err := h.Crew.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrCrewNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "crew member not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load crew failed"})
	}
	return c.JSON(http.StatusOK, cm)
}

// ListFlights handles GET /v1/flights. Each entry carries the number
// of tickets still available on the flight.
func (h *BrowseHandler) ListFlights(c echo.Context) error {
	items, err := h.Flights.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list flights failed"})
	}
	return c.JSON(http.StatusOK, items)
}

// GetFlight handles GET /v1/flights/:id, returning the full detail
// view including assigned crew and the places already sold.
func (h *BrowseHandler) GetFlight(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	d, err := h.Flights.GetDetail(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrFlightNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load flight failed"})
	}
	return c.JSON(http.StatusOK, d)
}

// GetFlightSeats handles GET /v1/flights/:id/seats, reporting the seat
// grid, the occupied places and the remaining availability.
func (h *BrowseHandler) GetFlightSeats(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()

	seating, err := h.Flights.Seating(ctx, id)
	if err != nil {
		if err == booking.ErrFlightNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load flight failed"})
	}
	occupied, err := h.Booking.OccupiedSeats(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load seats failed"})
	}
	available, err := h.Booking.AvailableSeats(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "count seats failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"flight_id":    id,
		"rows":         seating.Rows,
		"seats_in_row": seating.SeatsInRow,
		"capacity":     seating.Capacity(),
		"taken_places": occupied,
		"available":    available,
	})
}
