package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-seat-booking/internal/repository"
)

type routeReq struct {
	SourceID      uint64 `json:"source_id"`
	DestinationID uint64 `json:"destination_id"`
	Distance      int    `json:"distance"`
}

func (r *routeReq) validate() string {
	if r.SourceID == 0 {
		return "source_id required"
	}
	if r.DestinationID == 0 {
		return "destination_id required"
	}
	if r.SourceID == r.DestinationID {
		return "source and destination must differ"
	}
	if r.Distance < 1 {
		return "distance must be positive"
	}
	return ""
}

// checkRouteAirports verifies both endpoint airports exist. Returns a
// client-facing message, or "" when both are present.
func (h *AdminHandler) checkRouteAirports(c echo.Context, req routeReq) (string, error) {
	ctx := c.Request().Context()
	if _, err := h.Airports.GetByID(ctx, req.SourceID); err != nil {
		if err == repository.ErrAirportNotFound {
			return "source airport not found", nil
		}
		return "", err
	}
	if _, err := h.Airports.GetByID(ctx, req.DestinationID); err != nil {
		if err == repository.ErrAirportNotFound {
			return "destination airport not found", nil
		}
		return "", err
	}
	return "", nil
}

// CreateRoute handles POST /v1/routes.
func (h *AdminHandler) CreateRoute(c echo.Context) error {
	var req routeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if msg, err := h.checkRouteAirports(c, req); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup airport failed"})
	} else if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx := c.Request().Context()
	rt := repository.Route{
		SourceID:      req.SourceID,
		DestinationID: req.DestinationID,
		Distance:      req.Distance,
	}
	if err := h.Routes.Create(ctx, &rt); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create route failed"})
	}
	created, err := h.Routes.GetByID(ctx, rt.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load route failed"})
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdateRoute handles PUT /v1/routes/:id.
func (h *AdminHandler) UpdateRoute(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req routeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if msg, err := h.checkRouteAirports(c, req); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup airport failed"})
	} else if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx := c.Request().Context()
	rt := repository.Route{
		ID:            id,
		SourceID:      req.SourceID,
		DestinationID: req.DestinationID,
		Distance:      req.Distance,
	}
	if err := h.Routes.Update(ctx, &rt); err != nil {
		if err == repository.ErrRouteNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "route not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update route failed"})
	}
	updated, err := h.Routes.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load route failed"})
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteRoute handles DELETE /v1/routes/:id.
func (h *AdminHandler) DeleteRoute(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Routes.Delete(c.Request().Context(), id); err != nil {
		switch err {
		case repository.ErrRouteNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "route not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "route is referenced by flights"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete route failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
