package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-seat-booking/internal/repository"
)

type airportReq struct {
	Name           string `json:"name"`
	AirportCode    string `json:"airport_code"`
	ClosestBigCity string `json:"closest_big_city"`
}

func (r *airportReq) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.AirportCode = strings.ToUpper(strings.TrimSpace(r.AirportCode))
	r.ClosestBigCity = strings.TrimSpace(r.ClosestBigCity)
}

func (r *airportReq) validate() string {
	if r.Name == "" {
		return "name required"
	}
	if r.AirportCode == "" {
		return "airport_code required"
	}
	return ""
}

// CreateAirport handles POST /v1/airports.
func (h *AdminHandler) CreateAirport(c echo.Context) error {
	var req airportReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.normalize()
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	a := repository.Airport{
		Name:           req.Name,
		AirportCode:    req.AirportCode,
		ClosestBigCity: req.ClosestBigCity,
	}
	if err := h.Airports.Create(c.Request().Context(), &a); err != nil {
		if err == repository.ErrAirportCodeExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "airport code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create airport failed"})
	}
	return c.JSON(http.StatusCreated, a)
}

// UpdateAirport handles PUT /v1/airports/:id.
func (h *AdminHandler) UpdateAirport(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req airportReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.normalize()
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	a := repository.Airport{
		ID:             id,
		Name:           req.Name,
		AirportCode:    req.AirportCode,
		ClosestBigCity: req.ClosestBigCity,
	}
	if err := h.Airports.Update(c.Request().Context(), &a); err != nil {
		switch err {
		case repository.ErrAirportNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "airport not found"})
		case repository.ErrAirportCodeExists:
			return c.JSON(http.StatusConflict, echo.Map{"error": "airport code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update airport failed"})
	}
	return c.JSON(http.StatusOK, a)
}

// DeleteAirport handles DELETE /v1/airports/:id. Airports referenced
// by routes cannot be removed.
func (h *AdminHandler) DeleteAirport(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Airports.Delete(c.Request().Context(), id); err != nil {
		switch err {
		case repository.ErrAirportNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "airport not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "airport is referenced by routes"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete airport failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
