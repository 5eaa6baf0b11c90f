package ot

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/suryacity/hms/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole(auth.RoleReception, auth.RoleBilling))
	g.POST("/ot-procedures", h.Create)
	g.GET("/ot-procedures/:id", h.Get)
	g.POST("/ot-procedures/:id/charges", h.AddCharges)
	g.GET("/admissions/:id/ot-procedures", h.ListByAdmission)
	g.GET("/admissions/:id/ot-charges", h.Charges)
}

func (h *Handler) Create(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.Create(c.Request().Context(), in, auth.UserIDFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) Get(c echo.Context) error {
	p, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) AddCharges(c echo.Context) error {
	var in ChargesInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	charges, err := h.svc.AddCharges(c.Request().Context(), c.Param("id"), in, auth.UserIDFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, charges)
}

func (h *Handler) ListByAdmission(c echo.Context) error {
	procedures, err := h.svc.ListByAdmission(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, procedures)
}

func (h *Handler) Charges(c echo.Context) error {
	charges, err := h.svc.Charges(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, charges)
}
