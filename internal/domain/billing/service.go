package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/suryacity/hms/internal/domain/admission"
	"github.com/suryacity/hms/internal/domain/patient"
	"github.com/suryacity/hms/internal/domain/visit"
	"github.com/suryacity/hms/internal/platform/apperr"
	"github.com/suryacity/hms/internal/platform/db"
	"github.com/suryacity/hms/internal/platform/idgen"
)

// Read-side lookups into the owning domains. The repository interfaces of
// those domains satisfy these directly; all return (nil, nil) for no row.

type PatientSource interface {
	GetByID(ctx context.Context, id string) (*patient.Patient, error)
}

type VisitSource interface {
	GetByID(ctx context.Context, id string) (*visit.Visit, error)
}

type AdmissionSource interface {
	GetByID(ctx context.Context, id string) (*admission.Admission, error)
}

// AuditSink receives manual-edit events. Failures are non-fatal.
type AuditSink interface {
	RecordChange(ctx context.Context, actor, actionType, tableName, recordID string, oldValue, newValue any) error
}

type Service struct {
	charges    ChargeRepository
	payments   PaymentRepository
	patients   PatientSource
	visits     VisitSource
	admissions AdmissionSource
	audits     AuditSink
	ids        *idgen.Generator
	tx         db.TxRunner
	now        func() time.Time
}

func NewService(charges ChargeRepository, payments PaymentRepository, patients PatientSource,
	visits VisitSource, admissions AdmissionSource, audits AuditSink, ids *idgen.Generator, tx db.TxRunner) *Service {
	return &Service{
		charges:    charges,
		payments:   payments,
		patients:   patients,
		visits:     visits,
		admissions: admissions,
		audits:     audits,
		ids:        ids,
		tx:         tx,
		now:        time.Now,
	}
}

// resolveOwner checks the owner exists and, for admissions, that the ledger
// is still open. The returned admission is nil for visit owners.
func (s *Service) resolveOwner(ctx context.Context, owner Owner, requireOpen bool) (*admission.Admission, error) {
	if owner.IsZero() {
		return nil, apperr.Validationf("one of visit_id or admission_id is required")
	}
	if id, ok := owner.VisitID(); ok {
		v, err := s.visits.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, apperr.NotFoundf("visit %s not found", id)
		}
		return nil, nil
	}

	id, _ := owner.AdmissionID()
	a, err := s.admissions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperr.NotFoundf("admission %s not found", id)
	}
	if requireOpen && a.Status != admission.StatusAdmitted {
		return nil, apperr.Validationf("admission %s is discharged", id)
	}
	return a, nil
}

func (s *Service) newCharge(owner Owner, in ChargeInput, createdBy string) *Charge {
	rate := in.Rate.Round(2)
	c := &Charge{
		ChargeID:    s.ids.ChargeID(),
		ChargeType:  in.ChargeType,
		ChargeName:  in.ChargeName,
		Quantity:    in.Quantity,
		Rate:        rate,
		TotalAmount: rate.Mul(decimal.NewFromInt(int64(in.Quantity))).Round(2),
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		CreatedBy:   createdBy,
		CreatedAt:   s.now().UTC(),
	}
	c.setOwner(owner)
	return c
}

// AddCharge appends one line item to the ledger. total_amount is computed
// here, once, and never recomputed.
func (s *Service) AddCharge(ctx context.Context, owner Owner, in ChargeInput, createdBy string) (*Charge, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.resolveOwner(ctx, owner, true); err != nil {
		return nil, err
	}

	c := s.newCharge(owner, in, createdBy)
	if err := s.charges.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// AddCharges is the batch variant: every item is validated before anything
// is written, and the inserts share one transaction, so a batch lands
// all-or-nothing.
func (s *Service) AddCharges(ctx context.Context, owner Owner, ins []ChargeInput, createdBy string) ([]*Charge, error) {
	if len(ins) == 0 {
		return nil, apperr.Validationf("at least one charge is required")
	}
	for i := range ins {
		if err := ins[i].Validate(); err != nil {
			return nil, err
		}
	}
	if _, err := s.resolveOwner(ctx, owner, true); err != nil {
		return nil, err
	}

	out := make([]*Charge, 0, len(ins))
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		for i := range ins {
			c := s.newCharge(owner, ins[i], createdBy)
			if err := s.charges.Create(ctx, c); err != nil {
				return err
			}
			out = append(out, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateCharge is the audited admin correction path, the one exception to
// the append-only ledger. Old and new values go to the audit log.
func (s *Service) UpdateCharge(ctx context.Context, chargeID string, in ChargeInput, actor string) (*Charge, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	c, err := s.charges.GetByID(ctx, chargeID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFoundf("charge %s not found", chargeID)
	}
	before := *c

	rate := in.Rate.Round(2)
	c.ChargeName = in.ChargeName
	c.Quantity = in.Quantity
	c.Rate = rate
	c.TotalAmount = rate.Mul(decimal.NewFromInt(int64(in.Quantity))).Round(2)

	if err := s.charges.Update(ctx, c); err != nil {
		return nil, err
	}
	_ = s.audits.RecordChange(ctx, actor, "MANUAL_CHARGE_EDIT", "charges", c.ChargeID, before, c)
	return c, nil
}

func (s *Service) ListCharges(ctx context.Context, owner Owner, chargeType ChargeType) ([]*Charge, error) {
	if _, err := s.resolveOwner(ctx, owner, false); err != nil {
		return nil, err
	}
	if chargeType == "" {
		return s.charges.ListByOwner(ctx, owner)
	}
	if !validChargeTypes[chargeType] {
		return nil, apperr.Validationf("invalid charge_type: %s", chargeType)
	}
	return s.charges.ListByOwnerAndType(ctx, owner, chargeType)
}

// ChargeTotal sums the ledger for an owner.
func (s *Service) ChargeTotal(ctx context.Context, owner Owner) (decimal.Decimal, error) {
	charges, err := s.ListCharges(ctx, owner, "")
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, c := range charges {
		total = total.Add(c.TotalAmount)
	}
	return total, nil
}

// -- Payments --

// RecordPayment appends to the payment ledger. The owner references are
// optional; when present they must resolve, and advances must target an
// open admission.
func (s *Service) RecordPayment(ctx context.Context, in PaymentInput, createdBy string) (*Payment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	p, err := s.patients.GetByID(ctx, in.PatientID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFoundf("patient %s not found", in.PatientID)
	}

	var owner Owner
	if in.VisitID != nil || in.AdmissionID != nil {
		owner, err = OwnerFromIDs(in.VisitID, in.AdmissionID)
		if err != nil {
			return nil, err
		}
		requireOpen := in.PaymentType == PaymentIPDAdvance
		if _, err := s.resolveOwner(ctx, owner, requireOpen); err != nil {
			return nil, err
		}
	} else if in.PaymentType == PaymentIPDAdvance {
		return nil, apperr.Validationf("advance payments require admission_id")
	}

	now := s.now().UTC()
	pay := &Payment{
		PaymentID:      s.ids.NewID("PAY"),
		PatientID:      in.PatientID,
		PaymentType:    in.PaymentType,
		Amount:         in.Amount.Round(2),
		PaymentMode:    in.PaymentMode,
		TransactionRef: in.TransactionRef,
		Notes:          in.Notes,
		PaymentDate:    now,
		CreatedBy:      createdBy,
		CreatedAt:      now,
	}
	pay.setOwner(owner)

	if err := s.payments.Create(ctx, pay); err != nil {
		return nil, err
	}
	return pay, nil
}

// RecordAdvance pins the classification to IPD_ADVANCE against an open
// admission.
func (s *Service) RecordAdvance(ctx context.Context, admissionID string, amount decimal.Decimal, mode string, ref, notes *string, createdBy string) (*Payment, error) {
	a, err := s.admissions.GetByID(ctx, admissionID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperr.NotFoundf("admission %s not found", admissionID)
	}

	return s.RecordPayment(ctx, PaymentInput{
		PatientID:      a.PatientID,
		AdmissionID:    &admissionID,
		PaymentType:    PaymentIPDAdvance,
		Amount:         amount,
		PaymentMode:    mode,
		TransactionRef: ref,
		Notes:          notes,
	}, createdBy)
}

func (s *Service) ListPaymentsByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Payment, int, error) {
	return s.payments.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListPaymentsByOwner(ctx context.Context, owner Owner) ([]*Payment, error) {
	if _, err := s.resolveOwner(ctx, owner, false); err != nil {
		return nil, err
	}
	return s.payments.ListByOwner(ctx, owner)
}

// totalCharges applies the settlement rule: the admission's file charge
// plus every ledger line except FILE_CHARGE rows. The file charge lands in
// the ledger at admit time, so summing it from both places would double
// count it.
func totalCharges(a *admission.Admission, charges []*Charge) decimal.Decimal {
	total := decimal.Zero
	if a != nil {
		total = a.FileCharge
	}
	for _, c := range charges {
		if a != nil && c.ChargeType == ChargeFileCharge {
			continue
		}
		total = total.Add(c.TotalAmount)
	}
	return total
}

// Balance is the running settlement view for a visit or admission.
func (s *Service) Balance(ctx context.Context, owner Owner) (*Balance, error) {
	a, err := s.resolveOwner(ctx, owner, false)
	if err != nil {
		return nil, err
	}

	charges, err := s.charges.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	payments, err := s.payments.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}

	paid := decimal.Zero
	advance := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
		if p.PaymentType == PaymentIPDAdvance {
			advance = advance.Add(p.Amount)
		}
	}

	total := totalCharges(a, charges)
	return &Balance{
		TotalCharges:   total,
		TotalPaid:      paid,
		BalanceDue:     total.Sub(paid),
		AdvanceBalance: advance,
	}, nil
}

// GenerateDischargeBill aggregates the admission's ledgers into the
// settlement snapshot. Pure read: calling it twice with no intervening
// writes yields identical totals. It does not drive the discharge
// transition; callers settle first, then discharge.
func (s *Service) GenerateDischargeBill(ctx context.Context, admissionID string) (*DischargeBill, error) {
	a, err := s.admissions.GetByID(ctx, admissionID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperr.NotFoundf("admission %s not found", admissionID)
	}

	p, err := s.patients.GetByID(ctx, a.PatientID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFoundf("patient %s not found", a.PatientID)
	}

	owner := AdmissionOwner(admissionID)
	charges, err := s.charges.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	payments, err := s.payments.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}

	byType := make(map[ChargeType][]ChargeLine)
	for _, c := range charges {
		byType[c.ChargeType] = append(byType[c.ChargeType], ChargeLine{
			ChargeID:    c.ChargeID,
			ChargeName:  c.ChargeName,
			Quantity:    c.Quantity,
			Rate:        c.Rate,
			TotalAmount: c.TotalAmount,
		})
	}

	paymentLines := make([]PaymentLine, 0, len(payments))
	paid := decimal.Zero
	advance := decimal.Zero
	for _, pay := range payments {
		paymentLines = append(paymentLines, PaymentLine{
			PaymentID:   pay.PaymentID,
			PaymentType: pay.PaymentType,
			Amount:      pay.Amount,
			PaymentMode: pay.PaymentMode,
			PaymentDate: pay.PaymentDate,
		})
		paid = paid.Add(pay.Amount)
		if pay.PaymentType == PaymentIPDAdvance {
			advance = advance.Add(pay.Amount)
		}
	}

	total := totalCharges(a, charges)
	return &DischargeBill{
		Patient: PatientBlock{
			PatientID: p.PatientID,
			Name:      p.Name,
			Age:       p.Age,
			Gender:    string(p.Gender),
			Mobile:    p.Mobile,
		},
		Admission: AdmissionBlock{
			AdmissionID:   a.AdmissionID,
			BedID:         a.BedID,
			FileCharge:    a.FileCharge,
			AdmissionDate: a.AdmissionDate,
			DischargeDate: a.DischargeDate,
			Status:        string(a.Status),
		},
		ChargesByType: byType,
		Payments:      paymentLines,
		Summary: BillSummary{
			TotalCharges: total,
			TotalPaid:    paid,
			AdvancePaid:  advance,
			// Negative means overpayment; surfaced as-is.
			BalanceDue: total.Sub(paid),
		},
		GeneratedAt: s.now().UTC(),
	}, nil
}

// -- Internal recorders used by the visit and admission services --

// RecordVisitFee posts the frozen OPD fee as a charge and a matching
// payment, inside the visit-creation transaction.
func (s *Service) RecordVisitFee(ctx context.Context, visitID, patientID string, fee decimal.Decimal, mode, createdBy string) error {
	now := s.now().UTC()

	c := s.newCharge(VisitOwner(visitID), ChargeInput{
		ChargeType: ChargeOPDFee,
		ChargeName: "OPD Consultation Fee",
		Quantity:   1,
		Rate:       fee,
	}, createdBy)
	if err := s.charges.Create(ctx, c); err != nil {
		return err
	}

	pay := &Payment{
		PaymentID:   s.ids.NewID("PAY"),
		PatientID:   patientID,
		PaymentType: PaymentOPDFee,
		Amount:      fee.Round(2),
		PaymentMode: mode,
		PaymentDate: now,
		CreatedBy:   createdBy,
		CreatedAt:   now,
	}
	pay.setOwner(VisitOwner(visitID))
	return s.payments.Create(ctx, pay)
}

// RecordFileCharge posts the one-time IPD file charge inside the admit
// transaction.
func (s *Service) RecordFileCharge(ctx context.Context, admissionID string, amount decimal.Decimal, createdBy string) error {
	c := s.newCharge(AdmissionOwner(admissionID), ChargeInput{
		ChargeType: ChargeFileCharge,
		ChargeName: "IPD File Charge",
		Quantity:   1,
		Rate:       amount,
	}, createdBy)
	return s.charges.Create(ctx, c)
}
