package reports

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/suryacity/hms/internal/platform/apperr"
	"github.com/suryacity/hms/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/reports", auth.RequireRole(auth.RoleBilling))
	g.GET("/daily-collection", h.DailyCollection)
	g.GET("/daily-collection.xlsx", h.DailyCollectionXLSX)
	g.GET("/daily-opd", h.DailyOPD)
	g.GET("/doctor-revenue", h.DoctorRevenue)
	g.GET("/ipd-occupancy", h.IPDOccupancy)
	g.GET("/patient-history/:id", h.PatientHistory)

	// Payroll figures stay admin-only, matching the employee routes.
	api.GET("/reports/salary", h.SalaryReport, auth.RequireRole(auth.RoleAdmin))
}

// reportDay parses the optional date query param, defaulting to today.
func reportDay(c echo.Context) (time.Time, error) {
	d := c.QueryParam("date")
	if d == "" {
		return time.Now(), nil
	}
	day, err := time.Parse("2006-01-02", d)
	if err != nil {
		return time.Time{}, apperr.Validationf("invalid date %q, want YYYY-MM-DD", d)
	}
	return day, nil
}

func (h *Handler) DailyCollection(c echo.Context) error {
	day, err := reportDay(c)
	if err != nil {
		return err
	}
	report, err := h.svc.DailyCollection(c.Request().Context(), day)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) DailyCollectionXLSX(c echo.Context) error {
	day, err := reportDay(c)
	if err != nil {
		return err
	}
	data, err := h.svc.DailyCollectionXLSX(c.Request().Context(), day)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="daily-collection-%s.xlsx"`, day.Format("2006-01-02")))
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *Handler) DailyOPD(c echo.Context) error {
	day, err := reportDay(c)
	if err != nil {
		return err
	}
	report, err := h.svc.DailyOPD(c.Request().Context(), day, c.QueryParam("doctor_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) DoctorRevenue(c echo.Context) error {
	start, err := time.Parse("2006-01-02", c.QueryParam("start"))
	if err != nil {
		return apperr.Validationf("invalid start %q, want YYYY-MM-DD", c.QueryParam("start"))
	}
	end, err := time.Parse("2006-01-02", c.QueryParam("end"))
	if err != nil {
		return apperr.Validationf("invalid end %q, want YYYY-MM-DD", c.QueryParam("end"))
	}
	report, err := h.svc.DoctorRevenue(c.Request().Context(), start, end, c.QueryParam("doctor_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) IPDOccupancy(c echo.Context) error {
	report, err := h.svc.IPDOccupancy(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) PatientHistory(c echo.Context) error {
	report, err := h.svc.PatientHistory(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) SalaryReport(c echo.Context) error {
	month, err := strconv.Atoi(c.QueryParam("month"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid month")
	}
	year, err := strconv.Atoi(c.QueryParam("year"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid year")
	}
	report, err := h.svc.SalaryReport(c.Request().Context(), month, year)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}
