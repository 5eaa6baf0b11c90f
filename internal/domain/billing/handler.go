package billing

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

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
	g.POST("/charges", h.AddCharge)
	g.POST("/charges/batch", h.AddCharges)
	g.GET("/charges", h.ListCharges)
	g.POST("/payments", h.RecordPayment)
	g.POST("/payments/advance", h.RecordAdvance)
	g.GET("/payments", h.ListPayments)
	g.GET("/payments/balance", h.Balance)
	g.GET("/admissions/:id/bill", h.DischargeBill)

	api.PUT("/charges/:id", h.UpdateCharge, auth.RequireRole(auth.RoleAdmin))
}

type chargeRequest struct {
	VisitID     *string `json:"visit_id"`
	AdmissionID *string `json:"admission_id"`
	ChargeInput
}

func (h *Handler) AddCharge(c echo.Context) error {
	var req chargeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	owner, err := OwnerFromIDs(req.VisitID, req.AdmissionID)
	if err != nil {
		return err
	}
	charge, err := h.svc.AddCharge(c.Request().Context(), owner, req.ChargeInput, auth.UserIDFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, charge)
}

type batchChargeRequest struct {
	VisitID     *string       `json:"visit_id"`
	AdmissionID *string       `json:"admission_id"`
	Charges     []ChargeInput `json:"charges"`
}

func (h *Handler) AddCharges(c echo.Context) error {
	var req batchChargeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	owner, err := OwnerFromIDs(req.VisitID, req.AdmissionID)
	if err != nil {
		return err
	}
	charges, err := h.svc.AddCharges(c.Request().Context(), owner, req.Charges, auth.UserIDFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, charges)
}

func (h *Handler) UpdateCharge(c echo.Context) error {
	var in ChargeInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	charge, err := h.svc.UpdateCharge(c.Request().Context(), c.Param("id"), in, auth.UserIDFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, charge)
}

func ownerFromQuery(c echo.Context) (Owner, error) {
	var visitID, admissionID *string
	if v := c.QueryParam("visit_id"); v != "" {
		visitID = &v
	}
	if a := c.QueryParam("admission_id"); a != "" {
		admissionID = &a
	}
	return OwnerFromIDs(visitID, admissionID)
}

func (h *Handler) ListCharges(c echo.Context) error {
	owner, err := ownerFromQuery(c)
	if err != nil {
		return err
	}
	charges, err := h.svc.ListCharges(c.Request().Context(), owner, ChargeType(c.QueryParam("type")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, charges)
}

func (h *Handler) RecordPayment(c echo.Context) error {
	var in PaymentInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.RecordPayment(c.Request().Context(), in, auth.UserIDFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

type advanceRequest struct {
	AdmissionID    string          `json:"admission_id" validate:"required"`
	Amount         decimal.Decimal `json:"amount"`
	PaymentMode    string          `json:"payment_mode" validate:"required"`
	TransactionRef *string         `json:"transaction_reference"`
	Notes          *string         `json:"notes"`
}

func (h *Handler) RecordAdvance(c echo.Context) error {
	var req advanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.RecordAdvance(c.Request().Context(), req.AdmissionID, req.Amount,
		req.PaymentMode, req.TransactionRef, req.Notes, auth.UserIDFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) ListPayments(c echo.Context) error {
	if patientID := c.QueryParam("patient_id"); patientID != "" {
		pg := pagination.FromContext(c)
		payments, total, err := h.svc.ListPaymentsByPatient(c.Request().Context(), patientID, pg.Limit, pg.Offset)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(payments, total, pg.Limit, pg.Offset))
	}

	owner, err := ownerFromQuery(c)
	if err != nil {
		return err
	}
	payments, err := h.svc.ListPaymentsByOwner(c.Request().Context(), owner)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, payments)
}

func (h *Handler) Balance(c echo.Context) error {
	owner, err := ownerFromQuery(c)
	if err != nil {
		return err
	}
	bal, err := h.svc.Balance(c.Request().Context(), owner)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bal)
}

func (h *Handler) DischargeBill(c echo.Context) error {
	bill, err := h.svc.GenerateDischargeBill(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bill)
}
