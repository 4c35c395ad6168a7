package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-seat-booking/internal/repository"
)

type crewReq struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (r *crewReq) normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
}

// CreateCrew handles POST /v1/crew.
func (h *AdminHandler) CreateCrew(c echo.Context) error {
	var req crewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.normalize()
	if req.FirstName == "" || req.LastName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "first_name/last_name required"})
	}
	cm := repository.Crew{FirstName: req.FirstName, LastName: req.LastName}
	if err := h.Crew.Create(c.Request().Context(), &cm); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create crew failed"})
	}
	return c.JSON(http.StatusCreated, cm)
}

// UpdateCrew handles PUT /v1/crew/:id.
func (h *AdminHandler) UpdateCrew(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req crewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.normalize()
	if req.FirstName == "" || req.LastName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "first_name/last_name required"})
	}
	cm := repository.Crew{ID: id, FirstName: req.FirstName, LastName: req.LastName}
	if err := h.Crew.Update(c.Request().Context(), &cm); err != nil {
		if err == repository.ErrCrewNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "crew member not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update crew failed"})
	}
	return c.JSON(http.StatusOK, cm)
}

// DeleteCrew handles DELETE /v1/crew/:id. Flight assignments are
// removed along with the crew member.
func (h *AdminHandler) DeleteCrew(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Crew.Delete(c.Request().Context(), id); err != nil {
		if err == repository.ErrCrewNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "crew member not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete crew failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
