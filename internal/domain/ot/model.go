package ot

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/suryacity/hms/internal/platform/apperr"
)

// Procedure is one operation theater session against an IPD admission. The
// fees it generates live in the billing ledger, not here.
type Procedure struct {
	OTID            string    `json:"ot_id"`
	AdmissionID     string    `json:"admission_id"`
	OperationName   string    `json:"operation_name"`
	OperationDate   time.Time `json:"operation_date"`
	DurationMinutes int       `json:"duration_minutes"`
	SurgeonName     string    `json:"surgeon_name"`
	AnesthesiaType  *string   `json:"anesthesia_type,omitempty"`
	Notes           *string   `json:"notes,omitempty"`
	CreatedBy       string    `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
}

type CreateInput struct {
	AdmissionID     string    `json:"admission_id" validate:"required"`
	OperationName   string    `json:"operation_name" validate:"required"`
	OperationDate   time.Time `json:"operation_date" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"gt=0"`
	SurgeonName     string    `json:"surgeon_name" validate:"required"`
	AnesthesiaType  *string   `json:"anesthesia_type"`
	Notes           *string   `json:"notes"`
}

func (in *CreateInput) Validate() error {
	in.OperationName = strings.TrimSpace(in.OperationName)
	in.SurgeonName = strings.TrimSpace(in.SurgeonName)
	if in.AdmissionID == "" {
		return apperr.Validationf("admission_id is required")
	}
	if in.OperationName == "" {
		return apperr.Validationf("operation_name is required")
	}
	if in.SurgeonName == "" {
		return apperr.Validationf("surgeon_name is required")
	}
	if in.OperationDate.IsZero() {
		return apperr.Validationf("operation_date is required")
	}
	if in.DurationMinutes <= 0 {
		return apperr.Validationf("duration_minutes must be positive, got %d", in.DurationMinutes)
	}
	return nil
}

// ChargesInput carries a procedure's component fees. Zero components are
// skipped; at least one must be positive.
type ChargesInput struct {
	SurgeonCharge    decimal.Decimal `json:"surgeon_charge"`
	AnesthesiaCharge decimal.Decimal `json:"anesthesia_charge"`
	FacilityCharge   decimal.Decimal `json:"facility_charge"`
	AssistantCharge  decimal.Decimal `json:"assistant_charge"`
}

type chargeComponent struct {
	name   string
	amount decimal.Decimal
}

func (in *ChargesInput) components() []chargeComponent {
	return []chargeComponent{
		{"Surgeon", in.SurgeonCharge},
		{"Anesthesia", in.AnesthesiaCharge},
		{"Facility", in.FacilityCharge},
		{"Assistant", in.AssistantCharge},
	}
}

func (in *ChargesInput) Validate() error {
	anyPositive := false
	for _, c := range in.components() {
		if c.amount.IsNegative() {
			return apperr.Validationf("%s charge must not be negative", strings.ToLower(c.name))
		}
		if c.amount.IsPositive() {
			anyPositive = true
		}
	}
	if !anyPositive {
		return apperr.Validationf("at least one charge component must be positive")
	}
	return nil
}
