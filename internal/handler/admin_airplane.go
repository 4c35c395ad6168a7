package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-seat-booking/internal/repository"
)

type airplaneTypeReq struct {
	Name string `json:"name"`
}

// CreateAirplaneType handles POST /v1/airplane-types.
func (h *AdminHandler) CreateAirplaneType(c echo.Context) error {
	var req airplaneTypeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	t := repository.AirplaneType{Name: req.Name}
	if err := h.AirplaneTypes.Create(c.Request().Context(), &t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create airplane type failed"})
	}
	return c.JSON(http.StatusCreated, t)
}

// UpdateAirplaneType handles PUT /v1/airplane-types/:id.
func (h *AdminHandler) UpdateAirplaneType(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req airplaneTypeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	t := repository.AirplaneType{ID: id, Name: req.Name}
	if err := h.AirplaneTypes.Update(c.Request().Context(), &t); err != nil {
		if err == repository.ErrAirplaneTypeNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "airplane type not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update airplane type failed"})
	}
	return c.JSON(http.StatusOK, t)
}

// DeleteAirplaneType handles DELETE /v1/airplane-types/:id.
func (h *AdminHandler) DeleteAirplaneType(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.AirplaneTypes.Delete(c.Request().Context(), id); err != nil {
		switch err {
		case repository.ErrAirplaneTypeNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "airplane type not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "airplane type is referenced by airplanes"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete airplane type failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

type airplaneReq struct {
	Name           string `json:"name"`
	Rows           int    `json:"rows"`
	SeatsInRow     int    `json:"seats_in_row"`
	AirplaneTypeID uint64 `json:"airplane_type_id"`
}

func (r *airplaneReq) validate() string {
	if strings.TrimSpace(r.Name) == "" {
		return "name required"
	}
	if r.Rows < 1 {
		return "rows must be positive"
	}
	if r.SeatsInRow < 1 {
		return "seats_in_row must be positive"
	}
	if r.AirplaneTypeID == 0 {
		return "airplane_type_id required"
	}
	return ""
}

// CreateAirplane handles POST /v1/airplanes.
func (h *AdminHandler) CreateAirplane(c echo.Context) error {
	var req airplaneReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx := c.Request().Context()
	if _, err := h.AirplaneTypes.GetByID(ctx, req.AirplaneTypeID); err != nil {
		if err == repository.ErrAirplaneTypeNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "airplane type not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup airplane type failed"})
	}

	a := repository.Airplane{
		Name:           strings.TrimSpace(req.Name),
		Rows:           req.Rows,
		SeatsInRow:     req.SeatsInRow,
		AirplaneTypeID: req.AirplaneTypeID,
	}
	if err := h.Airplanes.Create(ctx, &a); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create airplane failed"})
	}
	created, err := h.Airplanes.GetByID(ctx, a.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load airplane failed"})
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdateAirplane handles PUT /v1/airplanes/:id. The seat grid cannot
// shrink below any seat already sold on the airplane's flights.
func (h *AdminHandler) UpdateAirplane(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req airplaneReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx := c.Request().Context()
	if _, err := h.AirplaneTypes.GetByID(ctx, req.AirplaneTypeID); err != nil {
		if err == repository.ErrAirplaneTypeNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "airplane type not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup airplane type failed"})
	}

	maxRow, maxSeat, err := h.Airplanes.SoldSeatBounds(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "check sold seats failed"})
	}
	if req.Rows < maxRow || req.SeatsInRow < maxSeat {
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat grid cannot shrink below sold seats"})
	}

	a := repository.Airplane{
		ID:             id,
		Name:           strings.TrimSpace(req.Name),
		Rows:           req.Rows,
		SeatsInRow:     req.SeatsInRow,
		AirplaneTypeID: req.AirplaneTypeID,
	}
	if err := h.Airplanes.Update(ctx, &a); err != nil {
		if err == repository.ErrAirplaneNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "airplane not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update airplane failed"})
	}
	updated, err := h.Airplanes.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load airplane failed"})
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteAirplane handles DELETE /v1/airplanes/:id.
func (h *AdminHandler) DeleteAirplane(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Airplanes.Delete(c.Request().Context(), id); err != nil {
		switch err {
		case repository.ErrAirplaneNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "airplane not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "airplane is referenced by flights"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete airplane failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
