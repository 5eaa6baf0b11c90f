package admission

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/suryacity/hms/internal/platform/apperr"
)

type BedStatus string

const (
	BedAvailable BedStatus = "AVAILABLE"
	BedOccupied  BedStatus = "OCCUPIED"
)

type WardType string

const (
	WardGeneral     WardType = "GENERAL"
	WardSemiPrivate WardType = "SEMI_PRIVATE"
	WardPrivate     WardType = "PRIVATE"
	WardICU         WardType = "ICU"
)

var validWards = map[WardType]bool{
	WardGeneral:     true,
	WardSemiPrivate: true,
	WardPrivate:     true,
	WardICU:         true,
}

type Bed struct {
	BedID        string          `json:"bed_id"`
	BedNumber    string          `json:"bed_number"`
	WardType     WardType        `json:"ward_type"`
	PerDayCharge decimal.Decimal `json:"per_day_charge"`
	Status       BedStatus       `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}

type Status string

const (
	StatusAdmitted   Status = "ADMITTED"
	StatusDischarged Status = "DISCHARGED"
)

type Admission struct {
	AdmissionID   string          `json:"admission_id"`
	PatientID     string          `json:"patient_id"`
	BedID         string          `json:"bed_id"`
	VisitID       *string         `json:"visit_id,omitempty"`
	FileCharge    decimal.Decimal `json:"file_charge"`
	AdmissionDate time.Time       `json:"admission_date"`
	DischargeDate *time.Time      `json:"discharge_date,omitempty"`
	Status        Status          `json:"status"`
	CreatedBy     string          `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
}

type CreateBedInput struct {
	BedNumber    string          `json:"bed_number" validate:"required"`
	WardType     WardType        `json:"ward_type" validate:"required"`
	PerDayCharge decimal.Decimal `json:"per_day_charge"`
}

func (in *CreateBedInput) Validate() error {
	if in.BedNumber == "" {
		return apperr.Validationf("bed_number is required")
	}
	if !validWards[in.WardType] {
		return apperr.Validationf("invalid ward_type: %s", in.WardType)
	}
	if in.PerDayCharge.IsNegative() {
		return apperr.Validationf("per_day_charge must not be negative")
	}
	return nil
}

type AdmitInput struct {
	PatientID  string          `json:"patient_id" validate:"required"`
	BedID      string          `json:"bed_id" validate:"required"`
	VisitID    *string         `json:"visit_id"`
	FileCharge decimal.Decimal `json:"file_charge"`
}

func (in *AdmitInput) Validate() error {
	if in.PatientID == "" {
		return apperr.Validationf("patient_id is required")
	}
	if in.BedID == "" {
		return apperr.Validationf("bed_id is required")
	}
	if in.FileCharge.IsNegative() {
		return apperr.Validationf("file_charge must not be negative")
	}
	return nil
}

type BedStats struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Occupied  int `json:"occupied"`
}
