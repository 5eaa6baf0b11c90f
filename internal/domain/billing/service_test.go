package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/suryacity/hms/internal/domain/admission"
	"github.com/suryacity/hms/internal/domain/patient"
	"github.com/suryacity/hms/internal/domain/visit"
	"github.com/suryacity/hms/internal/platform/apperr"
	"github.com/suryacity/hms/internal/platform/idgen"
)

type mockChargeRepo struct {
	items   []*Charge
	failOn  string // charge_name that makes Create fail
}

func (m *mockChargeRepo) Create(_ context.Context, c *Charge) error {
	if m.failOn != "" && c.ChargeName == m.failOn {
		return errors.New("insert failed")
	}
	cp := *c
	m.items = append(m.items, &cp)
	return nil
}

func (m *mockChargeRepo) GetByID(_ context.Context, id string) (*Charge, error) {
	for _, c := range m.items {
		if c.ChargeID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockChargeRepo) Update(_ context.Context, c *Charge) error {
	for i, old := range m.items {
		if old.ChargeID == c.ChargeID {
			cp := *c
			m.items[i] = &cp
			return nil
		}
	}
	return errors.New("charge not found")
}

func (m *mockChargeRepo) ListByOwner(_ context.Context, owner Owner) ([]*Charge, error) {
	var out []*Charge
	for _, c := range m.items {
		if c.Owner() == owner {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockChargeRepo) ListByOwnerAndType(ctx context.Context, owner Owner, t ChargeType) ([]*Charge, error) {
	all, _ := m.ListByOwner(ctx, owner)
	var out []*Charge
	for _, c := range all {
		if c.ChargeType == t {
			out = append(out, c)
		}
	}
	return out, nil
}

type mockPaymentRepo struct {
	items []*Payment
}

func (m *mockPaymentRepo) Create(_ context.Context, p *Payment) error {
	cp := *p
	m.items = append(m.items, &cp)
	return nil
}

func (m *mockPaymentRepo) GetByID(_ context.Context, id string) (*Payment, error) {
	for _, p := range m.items {
		if p.PaymentID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockPaymentRepo) ListByPatient(_ context.Context, patientID string, limit, offset int) ([]*Payment, int, error) {
	var out []*Payment
	for _, p := range m.items {
		if p.PatientID == patientID {
			out = append(out, p)
		}
	}
	return out, len(out), nil
}

func (m *mockPaymentRepo) ListByOwner(_ context.Context, owner Owner) ([]*Payment, error) {
	var out []*Payment
	for _, p := range m.items {
		if ownerOf(p) == owner {
			out = append(out, p)
		}
	}
	return out, nil
}

func ownerOf(p *Payment) Owner {
	if p.VisitID != nil {
		return VisitOwner(*p.VisitID)
	}
	if p.AdmissionID != nil {
		return AdmissionOwner(*p.AdmissionID)
	}
	return Owner{}
}

func (m *mockPaymentRepo) ListByDate(_ context.Context, day time.Time) ([]*Payment, error) {
	var out []*Payment
	for _, p := range m.items {
		if p.PaymentDate.Truncate(24 * time.Hour).Equal(day.Truncate(24 * time.Hour)) {
			out = append(out, p)
		}
	}
	return out, nil
}

type mockPatients struct {
	items map[string]*patient.Patient
}

func (m *mockPatients) GetByID(_ context.Context, id string) (*patient.Patient, error) {
	return m.items[id], nil
}

type mockVisits struct {
	items map[string]*visit.Visit
}

func (m *mockVisits) GetByID(_ context.Context, id string) (*visit.Visit, error) {
	return m.items[id], nil
}

type mockAdmissions struct {
	items map[string]*admission.Admission
}

func (m *mockAdmissions) GetByID(_ context.Context, id string) (*admission.Admission, error) {
	return m.items[id], nil
}

type mockAudit struct {
	changes int
}

func (m *mockAudit) RecordChange(_ context.Context, actor, actionType, tableName, recordID string, oldValue, newValue any) error {
	m.changes++
	return nil
}

type passTx struct{}

func (passTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fixture struct {
	svc        *Service
	charges    *mockChargeRepo
	payments   *mockPaymentRepo
	admissions *mockAdmissions
	audits     *mockAudit
}

func newFixture() *fixture {
	charges := &mockChargeRepo{}
	payments := &mockPaymentRepo{}
	patients := &mockPatients{items: map[string]*patient.Patient{
		"P1": {PatientID: "P1", Name: "Ramesh", Age: 42, Gender: patient.GenderMale, Mobile: "98765"},
	}}
	visits := &mockVisits{items: map[string]*visit.Visit{
		"V1": {VisitID: "V1", PatientID: "P1", DoctorID: "D1"},
	}}
	admissions := &mockAdmissions{items: map[string]*admission.Admission{
		"IPD1": {AdmissionID: "IPD1", PatientID: "P1", BedID: "B1",
			FileCharge: dec("300"), Status: admission.StatusAdmitted,
			AdmissionDate: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)},
	}}
	audits := &mockAudit{}
	svc := NewService(charges, payments, patients, visits, admissions, audits, idgen.New(), passTx{})
	return &fixture{svc: svc, charges: charges, payments: payments, admissions: admissions, audits: audits}
}

// Seeds the FILE_CHARGE ledger row the way admit does.
func (f *fixture) seedFileCharge(t *testing.T) {
	t.Helper()
	if err := f.svc.RecordFileCharge(context.Background(), "IPD1", dec("300"), "U1"); err != nil {
		t.Fatalf("RecordFileCharge: %v", err)
	}
}

func TestAddChargeTotalInvariant(t *testing.T) {
	f := newFixture()

	c, err := f.svc.AddCharge(context.Background(), AdmissionOwner("IPD1"), ChargeInput{
		ChargeType: ChargeProcedure, ChargeName: "Dressing", Quantity: 3, Rate: dec("150.50"),
	}, "U1")
	if err != nil {
		t.Fatalf("AddCharge: %v", err)
	}
	if !c.TotalAmount.Equal(dec("451.50")) {
		t.Errorf("TotalAmount = %s, want 451.50 (rate x quantity)", c.TotalAmount)
	}
}

func TestAddChargeValidation(t *testing.T) {
	f := newFixture()
	owner := AdmissionOwner("IPD1")

	cases := []ChargeInput{
		{ChargeType: ChargeProcedure, ChargeName: "X", Quantity: 0, Rate: dec("10")},
		{ChargeType: ChargeProcedure, ChargeName: "X", Quantity: 1, Rate: dec("-10")},
		{ChargeType: "BOGUS", ChargeName: "X", Quantity: 1, Rate: dec("10")},
		{ChargeType: ChargeProcedure, Quantity: 1, Rate: dec("10")},
	}
	for i, in := range cases {
		if _, err := f.svc.AddCharge(context.Background(), owner, in, "U1"); !apperr.IsValidation(err) {
			t.Errorf("case %d: err = %v, want validation error", i, err)
		}
	}
	if len(f.charges.items) != 0 {
		t.Errorf("rejected charges were persisted: %d rows", len(f.charges.items))
	}
}

func TestAddChargeUnknownOwner(t *testing.T) {
	f := newFixture()
	in := ChargeInput{ChargeType: ChargeManual, ChargeName: "Misc", Quantity: 1, Rate: dec("10")}

	if _, err := f.svc.AddCharge(context.Background(), VisitOwner("V404"), in, "U1"); !apperr.IsNotFound(err) {
		t.Errorf("unknown visit: err = %v, want not found", err)
	}
	if _, err := f.svc.AddCharge(context.Background(), AdmissionOwner("IPD404"), in, "U1"); !apperr.IsNotFound(err) {
		t.Errorf("unknown admission: err = %v, want not found", err)
	}
}

func TestAddChargeDischargedAdmissionRejected(t *testing.T) {
	f := newFixture()
	now := time.Now().UTC()
	f.admissions.items["IPD1"].Status = admission.StatusDischarged
	f.admissions.items["IPD1"].DischargeDate = &now

	_, err := f.svc.AddCharge(context.Background(), AdmissionOwner("IPD1"), ChargeInput{
		ChargeType: ChargeManual, ChargeName: "Late entry", Quantity: 1, Rate: dec("10"),
	}, "U1")
	if !apperr.IsValidation(err) {
		t.Errorf("err = %v, want validation error", err)
	}
}

func TestAddChargesBatchAllOrNothing(t *testing.T) {
	f := newFixture()
	owner := AdmissionOwner("IPD1")

	// One invalid item rejects the whole batch before any write.
	_, err := f.svc.AddCharges(context.Background(), owner, []ChargeInput{
		{ChargeType: ChargeInvestigation, ChargeName: "CBC", Quantity: 1, Rate: dec("500")},
		{ChargeType: ChargeInvestigation, ChargeName: "LFT", Quantity: 0, Rate: dec("700")},
	}, "U1")
	if !apperr.IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if len(f.charges.items) != 0 {
		t.Errorf("partial batch persisted: %d rows", len(f.charges.items))
	}

	out, err := f.svc.AddCharges(context.Background(), owner, []ChargeInput{
		{ChargeType: ChargeInvestigation, ChargeName: "CBC", Quantity: 1, Rate: dec("500")},
		{ChargeType: ChargeInvestigation, ChargeName: "LFT", Quantity: 1, Rate: dec("700")},
	}, "U1")
	if err != nil {
		t.Fatalf("AddCharges: %v", err)
	}
	if len(out) != 2 || len(f.charges.items) != 2 {
		t.Errorf("batch size = %d persisted = %d, want 2/2", len(out), len(f.charges.items))
	}
}

func TestUpdateChargeIsAudited(t *testing.T) {
	f := newFixture()
	c, err := f.svc.AddCharge(context.Background(), AdmissionOwner("IPD1"), ChargeInput{
		ChargeType: ChargeManual, ChargeName: "Oxygen", Quantity: 1, Rate: dec("100"),
	}, "U1")
	if err != nil {
		t.Fatalf("AddCharge: %v", err)
	}

	updated, err := f.svc.UpdateCharge(context.Background(), c.ChargeID, ChargeInput{
		ChargeType: ChargeManual, ChargeName: "Oxygen", Quantity: 2, Rate: dec("100"),
	}, "admin-1")
	if err != nil {
		t.Fatalf("UpdateCharge: %v", err)
	}
	if !updated.TotalAmount.Equal(dec("200")) {
		t.Errorf("TotalAmount = %s, want 200", updated.TotalAmount)
	}
	if f.audits.changes != 1 {
		t.Errorf("audit changes = %d, want 1", f.audits.changes)
	}
}

func TestDischargeBillFileChargeOnly(t *testing.T) {
	f := newFixture()
	f.seedFileCharge(t)

	bill, err := f.svc.GenerateDischargeBill(context.Background(), "IPD1")
	if err != nil {
		t.Fatalf("GenerateDischargeBill: %v", err)
	}
	if !bill.Summary.TotalCharges.Equal(dec("300")) {
		t.Errorf("TotalCharges = %s, want 300.00", bill.Summary.TotalCharges)
	}
	if !bill.Summary.TotalPaid.Equal(dec("0")) {
		t.Errorf("TotalPaid = %s, want 0.00", bill.Summary.TotalPaid)
	}
	if !bill.Summary.BalanceDue.Equal(dec("300")) {
		t.Errorf("BalanceDue = %s, want 300.00", bill.Summary.BalanceDue)
	}
	if len(bill.ChargesByType[ChargeFileCharge]) != 1 {
		t.Errorf("file charge group missing from charges_by_type")
	}
}

func TestDischargeBillWithCharges(t *testing.T) {
	f := newFixture()
	f.seedFileCharge(t)
	ctx := context.Background()
	owner := AdmissionOwner("IPD1")

	if _, err := f.svc.AddCharge(ctx, owner, ChargeInput{
		ChargeType: ChargeInvestigation, ChargeName: "CBC", Quantity: 1, Rate: dec("500"),
	}, "U1"); err != nil {
		t.Fatalf("investigation: %v", err)
	}
	if _, err := f.svc.AddCharge(ctx, owner, ChargeInput{
		ChargeType: ChargeProcedure, ChargeName: "Dressing", Quantity: 2, Rate: dec("300"),
	}, "U1"); err != nil {
		t.Fatalf("procedure: %v", err)
	}

	bill, err := f.svc.GenerateDischargeBill(ctx, "IPD1")
	if err != nil {
		t.Fatalf("GenerateDischargeBill: %v", err)
	}
	// 300 file + 500 investigation + 600 procedure
	if !bill.Summary.TotalCharges.Equal(dec("1400")) {
		t.Errorf("TotalCharges = %s, want 1400.00", bill.Summary.TotalCharges)
	}
}

func TestDischargeBillOverpaymentNotClamped(t *testing.T) {
	f := newFixture()
	f.seedFileCharge(t)
	ctx := context.Background()
	owner := AdmissionOwner("IPD1")

	if _, err := f.svc.AddCharge(ctx, owner, ChargeInput{
		ChargeType: ChargeInvestigation, ChargeName: "CBC", Quantity: 1, Rate: dec("500"),
	}, "U1"); err != nil {
		t.Fatalf("investigation: %v", err)
	}
	if _, err := f.svc.AddCharge(ctx, owner, ChargeInput{
		ChargeType: ChargeProcedure, ChargeName: "Dressing", Quantity: 2, Rate: dec("300"),
	}, "U1"); err != nil {
		t.Fatalf("procedure: %v", err)
	}
	if _, err := f.svc.RecordAdvance(ctx, "IPD1", dec("5000"), "cash", nil, nil, "U1"); err != nil {
		t.Fatalf("RecordAdvance: %v", err)
	}

	bill, err := f.svc.GenerateDischargeBill(ctx, "IPD1")
	if err != nil {
		t.Fatalf("GenerateDischargeBill: %v", err)
	}
	if !bill.Summary.TotalPaid.Equal(dec("5000")) {
		t.Errorf("TotalPaid = %s, want 5000.00 (advances count)", bill.Summary.TotalPaid)
	}
	if !bill.Summary.AdvancePaid.Equal(dec("5000")) {
		t.Errorf("AdvancePaid = %s, want 5000.00", bill.Summary.AdvancePaid)
	}
	if !bill.Summary.BalanceDue.Equal(dec("-3600")) {
		t.Errorf("BalanceDue = %s, want -3600.00", bill.Summary.BalanceDue)
	}
}

func TestDischargeBillIdempotent(t *testing.T) {
	f := newFixture()
	f.seedFileCharge(t)
	ctx := context.Background()

	if _, err := f.svc.AddCharge(ctx, AdmissionOwner("IPD1"), ChargeInput{
		ChargeType: ChargeOT, ChargeName: "Appendectomy", Quantity: 1, Rate: dec("15000"),
	}, "U1"); err != nil {
		t.Fatalf("AddCharge: %v", err)
	}
	if _, err := f.svc.RecordAdvance(ctx, "IPD1", dec("10000"), "UPI", nil, nil, "U1"); err != nil {
		t.Fatalf("RecordAdvance: %v", err)
	}

	first, err := f.svc.GenerateDischargeBill(ctx, "IPD1")
	if err != nil {
		t.Fatalf("first bill: %v", err)
	}
	second, err := f.svc.GenerateDischargeBill(ctx, "IPD1")
	if err != nil {
		t.Fatalf("second bill: %v", err)
	}

	if !first.Summary.TotalCharges.Equal(second.Summary.TotalCharges) ||
		!first.Summary.TotalPaid.Equal(second.Summary.TotalPaid) ||
		!first.Summary.AdvancePaid.Equal(second.Summary.AdvancePaid) ||
		!first.Summary.BalanceDue.Equal(second.Summary.BalanceDue) {
		t.Errorf("summaries differ: %+v vs %+v", first.Summary, second.Summary)
	}
	if len(f.charges.items) != 2 || len(f.payments.items) != 1 {
		t.Errorf("bill generation mutated ledgers: %d charges, %d payments",
			len(f.charges.items), len(f.payments.items))
	}
}

func TestRecordPaymentValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.RecordPayment(ctx, PaymentInput{
		PatientID: "P1", PaymentType: PaymentOther, Amount: dec("0"), PaymentMode: "CASH",
	}, "U1")
	if !apperr.IsValidation(err) {
		t.Errorf("zero amount: %v", err)
	}

	_, err = f.svc.RecordPayment(ctx, PaymentInput{
		PatientID: "P1", PaymentType: PaymentOther, Amount: dec("10"), PaymentMode: "CHEQUE",
	}, "U1")
	if !apperr.IsValidation(err) {
		t.Errorf("bad mode: %v", err)
	}

	_, err = f.svc.RecordPayment(ctx, PaymentInput{
		PatientID: "P404", PaymentType: PaymentOther, Amount: dec("10"), PaymentMode: "CASH",
	}, "U1")
	if !apperr.IsNotFound(err) {
		t.Errorf("unknown patient: %v", err)
	}
}

func TestRecordPaymentNormalizesMode(t *testing.T) {
	f := newFixture()
	p, err := f.svc.RecordPayment(context.Background(), PaymentInput{
		PatientID: "P1", VisitID: strPtr("V1"), PaymentType: PaymentOPDFee,
		Amount: dec("200"), PaymentMode: "upi",
	}, "U1")
	if err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}
	if p.PaymentMode != "UPI" {
		t.Errorf("PaymentMode = %q, want UPI", p.PaymentMode)
	}
}

func TestRecordAdvanceOnDischargedAdmission(t *testing.T) {
	f := newFixture()
	now := time.Now().UTC()
	f.admissions.items["IPD1"].Status = admission.StatusDischarged
	f.admissions.items["IPD1"].DischargeDate = &now

	_, err := f.svc.RecordAdvance(context.Background(), "IPD1", dec("1000"), "CASH", nil, nil, "U1")
	if !apperr.IsValidation(err) {
		t.Errorf("err = %v, want validation error", err)
	}
}

func TestBalance(t *testing.T) {
	f := newFixture()
	f.seedFileCharge(t)
	ctx := context.Background()
	owner := AdmissionOwner("IPD1")

	if _, err := f.svc.AddCharge(ctx, owner, ChargeInput{
		ChargeType: ChargeInvestigation, ChargeName: "CBC", Quantity: 1, Rate: dec("500"),
	}, "U1"); err != nil {
		t.Fatalf("AddCharge: %v", err)
	}
	if _, err := f.svc.RecordAdvance(ctx, "IPD1", dec("600"), "CASH", nil, nil, "U1"); err != nil {
		t.Fatalf("RecordAdvance: %v", err)
	}

	bal, err := f.svc.Balance(ctx, owner)
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if !bal.TotalCharges.Equal(dec("800")) {
		t.Errorf("TotalCharges = %s, want 800", bal.TotalCharges)
	}
	if !bal.TotalPaid.Equal(dec("600")) {
		t.Errorf("TotalPaid = %s, want 600", bal.TotalPaid)
	}
	if !bal.BalanceDue.Equal(dec("200")) {
		t.Errorf("BalanceDue = %s, want 200", bal.BalanceDue)
	}
	if !bal.AdvanceBalance.Equal(dec("600")) {
		t.Errorf("AdvanceBalance = %s, want 600", bal.AdvanceBalance)
	}
}

func TestRecordVisitFeePostsChargeAndPayment(t *testing.T) {
	f := newFixture()
	if err := f.svc.RecordVisitFee(context.Background(), "V1", "P1", dec("200"), "CASH", "U1"); err != nil {
		t.Fatalf("RecordVisitFee: %v", err)
	}

	charges, _ := f.charges.ListByOwner(context.Background(), VisitOwner("V1"))
	if len(charges) != 1 || charges[0].ChargeType != ChargeOPDFee {
		t.Fatalf("charges = %+v, want one OPD_FEE", charges)
	}
	if !charges[0].TotalAmount.Equal(dec("200")) {
		t.Errorf("charge total = %s, want 200", charges[0].TotalAmount)
	}

	payments, _ := f.payments.ListByOwner(context.Background(), VisitOwner("V1"))
	if len(payments) != 1 || payments[0].PaymentType != PaymentOPDFee {
		t.Fatalf("payments = %+v, want one OPD_FEE", payments)
	}
}
