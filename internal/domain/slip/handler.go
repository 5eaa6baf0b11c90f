package slip

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/suryacity/hms/internal/platform/apperr"
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
	g := api.Group("/slips", auth.RequireRole(auth.RoleReception, auth.RoleBilling))
	g.POST("/:kind", h.Generate)
	g.GET("", h.ListByPatient)
	g.GET("/:id", h.Get)
	g.POST("/:id/reprint", h.Reprint)
}

// Generate handles POST /slips/{opd|investigation|procedure|service|ot|discharge}.
func (h *Handler) Generate(c echo.Context) error {
	var in GenerateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	in.SlipType = Type(strings.ToUpper(c.Param("kind")))
	s, err := h.svc.Generate(c.Request().Context(), in, auth.UserIDFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, s)
}

func (h *Handler) Get(c echo.Context) error {
	s, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}

func (h *Handler) Reprint(c echo.Context) error {
	s, err := h.svc.Reprint(c.Request().Context(), c.Param("id"), auth.UserIDFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, s)
}

func (h *Handler) ListByPatient(c echo.Context) error {
	patientID := c.QueryParam("patient_id")
	if patientID == "" {
		return apperr.Validationf("patient_id is required")
	}
	pg := pagination.FromContext(c)
	slips, total, err := h.svc.ListByPatient(c.Request().Context(), patientID, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(slips, total, pg.Limit, pg.Offset))
}
