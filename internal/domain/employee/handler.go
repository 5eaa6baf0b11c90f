package employee

import (
	"net/http"
	"strconv"

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

// Payroll is back-office only; every route requires the admin role.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/employees", auth.RequireRole(auth.RoleAdmin))
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.POST("/:id/salary-payments", h.PaySalary)
	g.GET("/:id/salary-payments", h.SalaryHistory)
	g.GET("/:id/salary-slip", h.SalarySlip)
}

func (h *Handler) Create(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	e, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *Handler) Get(c echo.Context) error {
	e, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) Update(c echo.Context) error {
	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	e, err := h.svc.Update(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	employees, total, err := h.svc.List(c.Request().Context(), Status(c.QueryParam("status")), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(employees, total, pg.Limit, pg.Offset))
}

func (h *Handler) PaySalary(c echo.Context) error {
	var in PaySalaryInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.PaySalary(c.Request().Context(), c.Param("id"), in, auth.UserIDFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) SalaryHistory(c echo.Context) error {
	payments, err := h.svc.SalaryHistory(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	resp := echo.Map{"payments": payments}
	if y := c.QueryParam("year"); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid year")
		}
		total, err := h.svc.TotalPaid(c.Request().Context(), c.Param("id"), year)
		if err != nil {
			return err
		}
		resp["total_paid"] = total
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) SalarySlip(c echo.Context) error {
	month, err := strconv.Atoi(c.QueryParam("month"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid month")
	}
	year, err := strconv.Atoi(c.QueryParam("year"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid year")
	}
	slip, err := h.svc.SalarySlip(c.Request().Context(), c.Param("id"), month, year)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, slip)
}
