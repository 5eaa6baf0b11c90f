package admission

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/suryacity/hms/internal/platform/auth"
	"github.com/suryacity/hms/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole(auth.RoleReception, auth.RoleBilling))
	g.GET("/beds", h.ListBeds)
	g.GET("/beds/available", h.AvailableBeds)
	g.GET("/beds/stats", h.BedStats)
	g.GET("/admissions", h.List)
	g.GET("/admissions/:id", h.Get)
	g.GET("/patients/:id/admissions", h.ListByPatient)
	g.POST("/admissions", h.Admit)
	g.PUT("/admissions/:id/bed", h.ChangeBed)
	g.POST("/admissions/:id/discharge", h.Discharge)

	api.POST("/beds", h.CreateBed, auth.RequireRole(auth.RoleAdmin))
}

func (h *Handler) CreateBed(c echo.Context) error {
	var in CreateBedInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	b, err := h.svc.CreateBed(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *Handler) ListBeds(c echo.Context) error {
	pg := pagination.FromContext(c)
	beds, total, err := h.svc.ListBeds(c.Request().Context(), BedStatus(c.QueryParam("status")), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(beds, total, pg.Limit, pg.Offset))
}

func (h *Handler) AvailableBeds(c echo.Context) error {
	pg := pagination.FromContext(c)
	beds, total, err := h.svc.ListBeds(c.Request().Context(), BedAvailable, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(beds, total, pg.Limit, pg.Offset))
}

func (h *Handler) BedStats(c echo.Context) error {
	stats, err := h.svc.BedStats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) Admit(c echo.Context) error {
	var in AdmitInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.Admit(c.Request().Context(), in, auth.UserIDFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) Get(c echo.Context) error {
	a, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	admissions, total, err := h.svc.List(c.Request().Context(), Status(c.QueryParam("status")), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(admissions, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListByPatient(c echo.Context) error {
	pg := pagination.FromContext(c)
	admissions, total, err := h.svc.ListByPatient(c.Request().Context(), c.Param("id"), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(admissions, total, pg.Limit, pg.Offset))
}

type changeBedRequest struct {
	BedID string `json:"bed_id" validate:"required"`
}

func (h *Handler) ChangeBed(c echo.Context) error {
	var req changeBedRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.ChangeBed(c.Request().Context(), c.Param("id"), req.BedID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

type dischargeRequest struct {
	DischargeDate *time.Time `json:"discharge_date"`
}

func (h *Handler) Discharge(c echo.Context) error {
	var req dischargeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.Discharge(c.Request().Context(), c.Param("id"), req.DischargeDate)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}
