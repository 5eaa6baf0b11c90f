package visit

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/suryacity/hms/internal/platform/apperr"
)

type Type string

const (
	TypeNew      Type = "OPD_NEW"
	TypeFollowup Type = "OPD_FOLLOWUP"
)

var validPaymentModes = map[string]bool{
	"CASH": true,
	"UPI":  true,
	"CARD": true,
}

type Visit struct {
	VisitID      string          `json:"visit_id"`
	PatientID    string          `json:"patient_id"`
	DoctorID     string          `json:"doctor_id"`
	VisitType    Type            `json:"visit_type"`
	OPDFee       decimal.Decimal `json:"opd_fee"`
	SerialNumber int             `json:"serial_number"`
	PaymentMode  string          `json:"payment_mode"`
	VisitDate    time.Time       `json:"visit_date"`
	CreatedBy    string          `json:"created_by"`
	CreatedAt    time.Time       `json:"created_at"`
}

type CreateInput struct {
	PatientID   string `json:"patient_id" validate:"required"`
	DoctorID    string `json:"doctor_id" validate:"required"`
	VisitType   Type   `json:"visit_type" validate:"required"`
	PaymentMode string `json:"payment_mode" validate:"required"`
}

func (in *CreateInput) Validate() error {
	if in.PatientID == "" {
		return apperr.Validationf("patient_id is required")
	}
	if in.DoctorID == "" {
		return apperr.Validationf("doctor_id is required")
	}
	if in.VisitType != TypeNew && in.VisitType != TypeFollowup {
		return apperr.Validationf("invalid visit_type: %s", in.VisitType)
	}
	mode := strings.ToUpper(in.PaymentMode)
	if !validPaymentModes[mode] {
		return apperr.Validationf("invalid payment_mode: %s", in.PaymentMode)
	}
	in.PaymentMode = mode
	return nil
}
