package billing

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/suryacity/hms/internal/platform/apperr"
)

type ChargeType string

const (
	ChargeInvestigation ChargeType = "INVESTIGATION"
	ChargeProcedure     ChargeType = "PROCEDURE"
	ChargeService       ChargeType = "SERVICE"
	ChargeManual        ChargeType = "MANUAL"
	ChargeOT            ChargeType = "OT"
	ChargeOPDFee        ChargeType = "OPD_FEE"
	ChargeFileCharge    ChargeType = "FILE_CHARGE"
)

var validChargeTypes = map[ChargeType]bool{
	ChargeInvestigation: true,
	ChargeProcedure:     true,
	ChargeService:       true,
	ChargeManual:        true,
	ChargeOT:            true,
	ChargeOPDFee:        true,
	ChargeFileCharge:    true,
}

type PaymentType string

const (
	PaymentOPDFee        PaymentType = "OPD_FEE"
	PaymentIPDAdvance    PaymentType = "IPD_ADVANCE"
	PaymentDischarge     PaymentType = "DISCHARGE"
	PaymentInvestigation PaymentType = "INVESTIGATION"
	PaymentProcedure     PaymentType = "PROCEDURE"
	PaymentService       PaymentType = "SERVICE"
	PaymentOT            PaymentType = "OT"
	PaymentManual        PaymentType = "MANUAL"
	PaymentOther         PaymentType = "OTHER"
)

var validPaymentTypes = map[PaymentType]bool{
	PaymentOPDFee:        true,
	PaymentIPDAdvance:    true,
	PaymentDischarge:     true,
	PaymentInvestigation: true,
	PaymentProcedure:     true,
	PaymentService:       true,
	PaymentOT:            true,
	PaymentManual:        true,
	PaymentOther:         true,
}

var validPaymentModes = map[string]bool{
	"CASH": true,
	"UPI":  true,
	"CARD": true,
}

// NormalizeMode uppercases a payment mode and rejects anything outside the
// enumerated set.
func NormalizeMode(mode string) (string, error) {
	m := strings.ToUpper(strings.TrimSpace(mode))
	if !validPaymentModes[m] {
		return "", apperr.Validationf("invalid payment_mode: %s", mode)
	}
	return m, nil
}

// Owner tags a ledger row to exactly one of a visit or an admission. The
// zero Owner is invalid; constructing one through VisitOwner/AdmissionOwner
// makes the exclusivity a type-level property instead of a pair of nullable
// columns.
type ownerKind int

const (
	ownerNone ownerKind = iota
	ownerVisit
	ownerAdmission
)

type Owner struct {
	kind ownerKind
	id   string
}

func VisitOwner(id string) Owner     { return Owner{kind: ownerVisit, id: id} }
func AdmissionOwner(id string) Owner { return Owner{kind: ownerAdmission, id: id} }

func (o Owner) IsZero() bool { return o.kind == ownerNone }

func (o Owner) VisitID() (string, bool) {
	if o.kind == ownerVisit {
		return o.id, true
	}
	return "", false
}

func (o Owner) AdmissionID() (string, bool) {
	if o.kind == ownerAdmission {
		return o.id, true
	}
	return "", false
}

func (o Owner) String() string {
	switch o.kind {
	case ownerVisit:
		return "visit " + o.id
	case ownerAdmission:
		return "admission " + o.id
	default:
		return "no owner"
	}
}

// OwnerFromIDs builds an Owner from the two nullable references a request
// carries, enforcing the exactly-one rule.
func OwnerFromIDs(visitID, admissionID *string) (Owner, error) {
	switch {
	case visitID != nil && admissionID != nil:
		return Owner{}, apperr.Validationf("visit_id and admission_id are mutually exclusive")
	case visitID != nil && *visitID != "":
		return VisitOwner(*visitID), nil
	case admissionID != nil && *admissionID != "":
		return AdmissionOwner(*admissionID), nil
	default:
		return Owner{}, apperr.Validationf("one of visit_id or admission_id is required")
	}
}

type Charge struct {
	ChargeID    string          `json:"charge_id"`
	VisitID     *string         `json:"visit_id,omitempty"`
	AdmissionID *string         `json:"admission_id,omitempty"`
	ChargeType  ChargeType      `json:"charge_type"`
	ChargeName  string          `json:"charge_name"`
	Quantity    int             `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	StartTime   *time.Time      `json:"start_time,omitempty"`
	EndTime     *time.Time      `json:"end_time,omitempty"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Owner reconstructs the tagged owner from the persisted references.
func (c *Charge) Owner() Owner {
	if c.VisitID != nil {
		return VisitOwner(*c.VisitID)
	}
	if c.AdmissionID != nil {
		return AdmissionOwner(*c.AdmissionID)
	}
	return Owner{}
}

func (c *Charge) setOwner(o Owner) {
	if v, ok := o.VisitID(); ok {
		c.VisitID = &v
		return
	}
	if a, ok := o.AdmissionID(); ok {
		c.AdmissionID = &a
	}
}

type ChargeInput struct {
	ChargeType ChargeType      `json:"charge_type" validate:"required"`
	ChargeName string          `json:"charge_name" validate:"required"`
	Quantity   int             `json:"quantity" validate:"gt=0"`
	Rate       decimal.Decimal `json:"rate"`
	StartTime  *time.Time      `json:"start_time"`
	EndTime    *time.Time      `json:"end_time"`
}

func (in *ChargeInput) Validate() error {
	if !validChargeTypes[in.ChargeType] {
		return apperr.Validationf("invalid charge_type: %s", in.ChargeType)
	}
	if in.ChargeName == "" {
		return apperr.Validationf("charge_name is required")
	}
	if in.Quantity <= 0 {
		return apperr.Validationf("quantity must be positive, got %d", in.Quantity)
	}
	if in.Rate.IsNegative() {
		return apperr.Validationf("rate must not be negative")
	}
	if in.StartTime != nil && in.EndTime != nil && !in.EndTime.After(*in.StartTime) {
		return apperr.Validationf("end_time must be after start_time")
	}
	return nil
}

type Payment struct {
	PaymentID      string          `json:"payment_id"`
	PatientID      string          `json:"patient_id"`
	VisitID        *string         `json:"visit_id,omitempty"`
	AdmissionID    *string         `json:"admission_id,omitempty"`
	PaymentType    PaymentType     `json:"payment_type"`
	Amount         decimal.Decimal `json:"amount"`
	PaymentMode    string          `json:"payment_mode"`
	TransactionRef *string         `json:"transaction_reference,omitempty"`
	Notes          *string         `json:"notes,omitempty"`
	PaymentDate    time.Time       `json:"payment_date"`
	CreatedBy      string          `json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`
}

func (p *Payment) setOwner(o Owner) {
	if v, ok := o.VisitID(); ok {
		p.VisitID = &v
		return
	}
	if a, ok := o.AdmissionID(); ok {
		p.AdmissionID = &a
	}
}

type PaymentInput struct {
	PatientID      string          `json:"patient_id" validate:"required"`
	VisitID        *string         `json:"visit_id"`
	AdmissionID    *string         `json:"admission_id"`
	PaymentType    PaymentType     `json:"payment_type" validate:"required"`
	Amount         decimal.Decimal `json:"amount"`
	PaymentMode    string          `json:"payment_mode" validate:"required"`
	TransactionRef *string         `json:"transaction_reference"`
	Notes          *string         `json:"notes"`
}

func (in *PaymentInput) Validate() error {
	if in.PatientID == "" {
		return apperr.Validationf("patient_id is required")
	}
	if !validPaymentTypes[in.PaymentType] {
		return apperr.Validationf("invalid payment_type: %s", in.PaymentType)
	}
	if !in.Amount.IsPositive() {
		return apperr.Validationf("amount must be positive")
	}
	mode, err := NormalizeMode(in.PaymentMode)
	if err != nil {
		return err
	}
	in.PaymentMode = mode
	return nil
}

// -- Discharge bill (derived, never persisted) --

type ChargeLine struct {
	ChargeID    string          `json:"charge_id"`
	ChargeName  string          `json:"charge_name"`
	Quantity    int             `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type PaymentLine struct {
	PaymentID   string          `json:"payment_id"`
	PaymentType PaymentType     `json:"payment_type"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentMode string          `json:"payment_mode"`
	PaymentDate time.Time       `json:"payment_date"`
}

type BillSummary struct {
	TotalCharges decimal.Decimal `json:"total_charges"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
	AdvancePaid  decimal.Decimal `json:"advance_paid"`
	BalanceDue   decimal.Decimal `json:"balance_due"`
}

type PatientBlock struct {
	PatientID string `json:"patient_id"`
	Name      string `json:"name"`
	Age       int    `json:"age"`
	Gender    string `json:"gender"`
	Mobile    string `json:"mobile"`
}

type AdmissionBlock struct {
	AdmissionID   string          `json:"admission_id"`
	BedID         string          `json:"bed_id"`
	FileCharge    decimal.Decimal `json:"file_charge"`
	AdmissionDate time.Time       `json:"admission_date"`
	DischargeDate *time.Time      `json:"discharge_date,omitempty"`
	Status        string          `json:"status"`
}

type DischargeBill struct {
	Patient       PatientBlock                `json:"patient"`
	Admission     AdmissionBlock              `json:"admission"`
	ChargesByType map[ChargeType][]ChargeLine `json:"charges_by_type"`
	Payments      []PaymentLine               `json:"payments"`
	Summary       BillSummary                 `json:"summary"`
	GeneratedAt   time.Time                   `json:"generated_at"`
}

// Balance is the running settlement view for a visit or admission.
type Balance struct {
	TotalCharges   decimal.Decimal `json:"total_charges"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	BalanceDue     decimal.Decimal `json:"balance_due"`
	AdvanceBalance decimal.Decimal `json:"advance_balance"`
}
