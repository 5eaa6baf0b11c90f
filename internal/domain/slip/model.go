package slip

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/suryacity/hms/internal/domain/billing"
	"github.com/suryacity/hms/internal/platform/apperr"
)

type Type string

const (
	TypeOPD           Type = "OPD"
	TypeInvestigation Type = "INVESTIGATION"
	TypeProcedure     Type = "PROCEDURE"
	TypeService       Type = "SERVICE"
	TypeOT            Type = "OT"
	TypeDischarge     Type = "DISCHARGE"
)

var validTypes = map[Type]bool{
	TypeOPD:           true,
	TypeInvestigation: true,
	TypeProcedure:     true,
	TypeService:       true,
	TypeOT:            true,
	TypeDischarge:     true,
}

type PrinterFormat string

const (
	FormatA4      PrinterFormat = "A4"
	FormatThermal PrinterFormat = "THERMAL"
)

type Slip struct {
	SlipID         string        `json:"slip_id"`
	SlipType       Type          `json:"slip_type"`
	PatientID      string        `json:"patient_id"`
	VisitID        *string       `json:"visit_id,omitempty"`
	AdmissionID    *string       `json:"admission_id,omitempty"`
	BarcodeData    string        `json:"barcode_data"`
	BarcodeImage   string        `json:"barcode_image,omitempty"`
	Content        Content       `json:"content"`
	PrinterFormat  PrinterFormat `json:"printer_format"`
	IsReprinted    bool          `json:"is_reprinted"`
	OriginalSlipID *string       `json:"original_slip_id,omitempty"`
	GeneratedBy    string        `json:"generated_by"`
	CreatedAt      time.Time     `json:"created_at"`
}

// Content is the immutable snapshot a printed slip renders from. Everything
// a human-readable slip needs lives here; later edits to the underlying
// records never touch it.
type Content struct {
	HospitalName string               `json:"hospital_name"`
	SlipType     Type                 `json:"slip_type"`
	Patient      PatientBlock         `json:"patient"`
	Visit        *VisitBlock          `json:"visit,omitempty"`
	Admission    *AdmissionBlock      `json:"admission,omitempty"`
	Charges      []ChargeLine         `json:"charges,omitempty"`
	Payments     []PaymentLine        `json:"payments,omitempty"`
	Summary      *billing.BillSummary `json:"summary,omitempty"`
	Barcode      string               `json:"barcode"`
	GeneratedAt  time.Time            `json:"generated_at"`
}

type PatientBlock struct {
	PatientID string `json:"patient_id"`
	Name      string `json:"name"`
	Age       int    `json:"age"`
	Gender    string `json:"gender"`
	Mobile    string `json:"mobile"`
}

type VisitBlock struct {
	VisitID      string          `json:"visit_id"`
	DoctorID     string          `json:"doctor_id"`
	VisitType    string          `json:"visit_type"`
	SerialNumber int             `json:"serial_number"`
	OPDFee       decimal.Decimal `json:"opd_fee"`
	PaymentMode  string          `json:"payment_mode"`
	VisitDate    time.Time       `json:"visit_date"`
}

type AdmissionBlock struct {
	AdmissionID   string          `json:"admission_id"`
	BedID         string          `json:"bed_id"`
	FileCharge    decimal.Decimal `json:"file_charge"`
	AdmissionDate time.Time       `json:"admission_date"`
	DischargeDate *time.Time      `json:"discharge_date,omitempty"`
}

type ChargeLine struct {
	ChargeType  string          `json:"charge_type"`
	ChargeName  string          `json:"charge_name"`
	Quantity    int             `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type PaymentLine struct {
	PaymentType string          `json:"payment_type"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentMode string          `json:"payment_mode"`
	PaymentDate time.Time       `json:"payment_date"`
}

type GenerateInput struct {
	SlipType      Type          `json:"slip_type" validate:"required"`
	VisitID       *string       `json:"visit_id"`
	AdmissionID   *string       `json:"admission_id"`
	PrinterFormat PrinterFormat `json:"printer_format"`
}

func (in *GenerateInput) Validate() error {
	if !validTypes[in.SlipType] {
		return apperr.Validationf("invalid slip_type: %s", in.SlipType)
	}
	if in.PrinterFormat == "" {
		in.PrinterFormat = FormatA4
	}
	if in.PrinterFormat != FormatA4 && in.PrinterFormat != FormatThermal {
		return apperr.Validationf("invalid printer_format: %s", in.PrinterFormat)
	}
	switch in.SlipType {
	case TypeOPD:
		if in.VisitID == nil || *in.VisitID == "" {
			return apperr.Validationf("OPD slips require visit_id")
		}
	case TypeDischarge:
		if in.AdmissionID == nil || *in.AdmissionID == "" {
			return apperr.Validationf("discharge slips require admission_id")
		}
	}
	return nil
}

// chargeTypeFor maps a filtered slip kind to the ledger charge type it
// lists. OPD and DISCHARGE slips are handled separately.
func chargeTypeFor(t Type) (billing.ChargeType, bool) {
	switch t {
	case TypeInvestigation:
		return billing.ChargeInvestigation, true
	case TypeProcedure:
		return billing.ChargeProcedure, true
	case TypeService:
		return billing.ChargeService, true
	case TypeOT:
		return billing.ChargeOT, true
	default:
		return "", false
	}
}
