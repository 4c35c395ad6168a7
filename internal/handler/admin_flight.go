package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-seat-booking/internal/repository"
)

type flightReq struct {
	RouteID       uint64    `json:"route_id"`
	AirplaneID    uint64    `json:"airplane_id"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
}

func (r *flightReq) validate() string {
	if r.RouteID == 0 {
		return "route_id required"
	}
	if r.AirplaneID == 0 {
		return "airplane_id required"
	}
	if r.DepartureTime.IsZero() || r.ArrivalTime.IsZero() {
		return "departure_time/arrival_time required"
	}
	if !r.ArrivalTime.After(r.DepartureTime) {
		return "arrival_time must be after departure_time"
	}
	return ""
}

// checkFlightRefs verifies the route and airplane exist. Returns a
// client-facing message, or "" when both are present.
func (h *AdminHandler) checkFlightRefs(c echo.Context, req flightReq) (string, error) {
	ctx := c.Request().Context()
	if _, err := h.Routes.GetByID(ctx, req.RouteID); err != nil {
		if err == repository.ErrRouteNotFound {
			return "route not found", nil
		}
		return "", err
	}
	if _, err := h.Airplanes.GetByID(ctx, req.AirplaneID); err != nil {
		if err == repository.ErrAirplaneNotFound {
			return "airplane not found", nil
		}
		return "", err
	}
	return "", nil
}

// CreateFlight handles POST /v1/flights.
func (h *AdminHandler) CreateFlight(c echo.Context) error {
	var req flightReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if msg, err := h.checkFlightRefs(c, req); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup reference failed"})
	} else if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	f := repository.Flight{
		RouteID:       req.RouteID,
		AirplaneID:    req.AirplaneID,
		DepartureTime: req.DepartureTime.UTC(),
		ArrivalTime:   req.ArrivalTime.UTC(),
	}
	if err := h.Flights.Create(c.Request().Context(), &f); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create flight failed"})
	}
	return c.JSON(http.StatusCreated, f)
}

// UpdateFlight handles PUT /v1/flights/:id.
func (h *AdminHandler) UpdateFlight(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req flightReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if msg, err := h.checkFlightRefs(c, req); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup reference failed"})
	} else if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	f := repository.Flight{
		ID:            id,
		RouteID:       req.RouteID,
		AirplaneID:    req.AirplaneID,
		DepartureTime: req.DepartureTime.UTC(),
		ArrivalTime:   req.ArrivalTime.UTC(),
	}
	if err := h.Flights.Update(c.Request().Context(), &f); err != nil {
		if err == repository.ErrFlightNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update flight failed"})
	}
	return c.JSON(http.StatusOK, f)
}

// DeleteFlight handles DELETE /v1/flights/:id. Flights with sold
// tickets cannot be removed.
func (h *AdminHandler) DeleteFlight(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Flights.Delete(c.Request().Context(), id); err != nil {
		switch err {
		case repository.ErrFlightNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "flight has sold tickets"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete flight failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

type setCrewReq struct {
	CrewIDs []uint64 `json:"crew_ids"`
}

// SetFlightCrew handles PUT /v1/flights/:id/crew, replacing the whole
// crew assignment of a flight.
func (h *AdminHandler) SetFlightCrew(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req setCrewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx := c.Request().Context()
	if _, err := h.Flights.GetByID(ctx, id); err != nil {
		if err == repository.ErrFlightNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup flight failed"})
	}
	seen := make(map[uint64]bool, len(req.CrewIDs))
	for _, cid := range req.CrewIDs {
		if seen[cid] {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "duplicate crew id"})
		}
		seen[cid] = true
		if _, err := h.Crew.GetByID(ctx, cid); err != nil {
			if err == repository.ErrCrewNotFound {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "crew member not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup crew failed"})
		}
	}

	if err := h.Flights.SetCrew(ctx, id, req.CrewIDs); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "assign crew failed"})
	}
	crew, err := h.Crew.ListByFlight(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load crew failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"flight_id": id, "crew": crew})
}
