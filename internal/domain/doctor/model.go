package doctor

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/suryacity/hms/internal/platform/apperr"
)

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

type Doctor struct {
	DoctorID      string          `json:"doctor_id"`
	Name          string          `json:"name"`
	Department    string          `json:"department"`
	NewPatientFee decimal.Decimal `json:"new_patient_fee"`
	FollowupFee   decimal.Decimal `json:"followup_fee"`
	Status        Status          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

type CreateInput struct {
	Name          string          `json:"name" validate:"required"`
	Department    string          `json:"department" validate:"required"`
	NewPatientFee decimal.Decimal `json:"new_patient_fee"`
	FollowupFee   decimal.Decimal `json:"followup_fee"`
}

func (in *CreateInput) Validate() error {
	if in.Name == "" {
		return apperr.Validationf("name is required")
	}
	if in.Department == "" {
		return apperr.Validationf("department is required")
	}
	if in.NewPatientFee.IsNegative() {
		return apperr.Validationf("new_patient_fee must not be negative")
	}
	if in.FollowupFee.IsNegative() {
		return apperr.Validationf("followup_fee must not be negative")
	}
	return nil
}

// UpdateInput carries the mutable doctor fields. Nil means "leave as is".
type UpdateInput struct {
	Department    *string          `json:"department"`
	NewPatientFee *decimal.Decimal `json:"new_patient_fee"`
	FollowupFee   *decimal.Decimal `json:"followup_fee"`
	Status        *Status          `json:"status"`
}

func (in *UpdateInput) Validate() error {
	if in.NewPatientFee != nil && in.NewPatientFee.IsNegative() {
		return apperr.Validationf("new_patient_fee must not be negative")
	}
	if in.FollowupFee != nil && in.FollowupFee.IsNegative() {
		return apperr.Validationf("followup_fee must not be negative")
	}
	if in.Status != nil && *in.Status != StatusActive && *in.Status != StatusInactive {
		return apperr.Validationf("invalid status: %s", *in.Status)
	}
	return nil
}
