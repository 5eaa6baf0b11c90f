package ot

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/suryacity/hms/internal/domain/admission"
	"github.com/suryacity/hms/internal/domain/billing"
	"github.com/suryacity/hms/internal/platform/apperr"
	"github.com/suryacity/hms/internal/platform/idgen"
)

type mockRepo struct {
	byID map[string]*Procedure
}

func (m *mockRepo) Create(_ context.Context, p *Procedure) error {
	cp := *p
	m.byID[p.OTID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*Procedure, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) ListByAdmission(_ context.Context, admissionID string) ([]*Procedure, error) {
	var out []*Procedure
	for _, p := range m.byID {
		if p.AdmissionID == admissionID {
			out = append(out, p)
		}
	}
	return out, nil
}

type mockAdmissions struct {
	byID map[string]*admission.Admission
}

func (m *mockAdmissions) GetByID(_ context.Context, id string) (*admission.Admission, error) {
	a, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	return a, nil
}

type mockBiller struct {
	owner   billing.Owner
	batches [][]billing.ChargeInput
	posted  []*billing.Charge
}

func (m *mockBiller) AddCharges(_ context.Context, owner billing.Owner, ins []billing.ChargeInput, _ string) ([]*billing.Charge, error) {
	m.owner = owner
	m.batches = append(m.batches, ins)
	out := make([]*billing.Charge, 0, len(ins))
	for i, in := range ins {
		c := &billing.Charge{
			ChargeID:    fmt.Sprintf("C%d", len(m.posted)+i+1),
			ChargeType:  in.ChargeType,
			ChargeName:  in.ChargeName,
			Quantity:    in.Quantity,
			Rate:        in.Rate,
			TotalAmount: in.Rate,
		}
		out = append(out, c)
	}
	m.posted = append(m.posted, out...)
	return out, nil
}

func (m *mockBiller) ListCharges(_ context.Context, owner billing.Owner, chargeType billing.ChargeType) ([]*billing.Charge, error) {
	var out []*billing.Charge
	for _, c := range m.posted {
		if c.ChargeType == chargeType {
			out = append(out, c)
		}
	}
	return out, nil
}

type fixture struct {
	repo       *mockRepo
	admissions *mockAdmissions
	biller     *mockBiller
	svc        *Service
}

const testAdmissionID = "IPD202603140001"

func newFixture() *fixture {
	f := &fixture{
		repo: &mockRepo{byID: map[string]*Procedure{}},
		admissions: &mockAdmissions{byID: map[string]*admission.Admission{
			testAdmissionID: {
				AdmissionID: testAdmissionID,
				PatientID:   "P202603140001",
				BedID:       "B1",
				Status:      admission.StatusAdmitted,
			},
		}},
		biller: &mockBiller{},
	}
	clock := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	ids := idgen.NewWithClock(func() time.Time { return clock })
	f.svc = NewService(f.repo, f.admissions, f.biller, ids, zerolog.Nop())
	f.svc.now = func() time.Time { return clock }
	return f
}

func validCreate() CreateInput {
	return CreateInput{
		AdmissionID:     testAdmissionID,
		OperationName:   " Appendectomy ",
		OperationDate:   time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		DurationMinutes: 90,
		SurgeonName:     "Dr. A. Verma",
	}
}

func TestRecordProcedure(t *testing.T) {
	f := newFixture()

	p, err := f.svc.Create(context.Background(), validCreate(), "U1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !strings.HasPrefix(p.OTID, "OT20260314") {
		t.Errorf("OTID = %q", p.OTID)
	}
	if p.OperationName != "Appendectomy" {
		t.Errorf("OperationName = %q, want trimmed", p.OperationName)
	}
	if p.SurgeonName != "Dr. A. Verma" {
		t.Errorf("SurgeonName = %q", p.SurgeonName)
	}
	if _, ok := f.repo.byID[p.OTID]; !ok {
		t.Error("procedure not persisted")
	}
}

func TestRecordProcedureValidation(t *testing.T) {
	f := newFixture()
	cases := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"missing operation name", func(in *CreateInput) { in.OperationName = "  " }},
		{"missing surgeon", func(in *CreateInput) { in.SurgeonName = "" }},
		{"zero duration", func(in *CreateInput) { in.DurationMinutes = 0 }},
		{"zero operation date", func(in *CreateInput) { in.OperationDate = time.Time{} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validCreate()
			tc.mutate(&in)
			if _, err := f.svc.Create(context.Background(), in, "U1"); !apperr.IsValidation(err) {
				t.Errorf("err = %v, want validation error", err)
			}
		})
	}

	in := validCreate()
	in.AdmissionID = "IPD99999999999"
	if _, err := f.svc.Create(context.Background(), in, "U1"); !apperr.IsNotFound(err) {
		t.Errorf("unknown admission: err = %v, want not found", err)
	}
}

func TestAddCharges(t *testing.T) {
	f := newFixture()
	p, err := f.svc.Create(context.Background(), validCreate(), "U1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	charges, err := f.svc.AddCharges(context.Background(), p.OTID, ChargesInput{
		SurgeonCharge:    decimal.NewFromInt(5000),
		AnesthesiaCharge: decimal.NewFromInt(2000),
		FacilityCharge:   decimal.NewFromInt(3000),
	}, "U1")
	if err != nil {
		t.Fatalf("AddCharges: %v", err)
	}

	// The zero assistant component is dropped; the rest post as one batch.
	if len(charges) != 3 {
		t.Fatalf("posted %d charges, want 3", len(charges))
	}
	if len(f.biller.batches) != 1 {
		t.Fatalf("billed in %d batches, want 1", len(f.biller.batches))
	}
	if id, ok := f.biller.owner.AdmissionID(); !ok || id != testAdmissionID {
		t.Errorf("owner = %s, want admission %s", f.biller.owner, testAdmissionID)
	}
	if charges[0].ChargeName != "OT Surgeon Charge - Appendectomy" {
		t.Errorf("ChargeName = %q", charges[0].ChargeName)
	}
	for _, c := range charges {
		if c.ChargeType != billing.ChargeOT {
			t.Errorf("ChargeType = %s, want OT", c.ChargeType)
		}
	}
}

func TestAddChargesValidation(t *testing.T) {
	f := newFixture()
	p, err := f.svc.Create(context.Background(), validCreate(), "U1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := f.svc.AddCharges(context.Background(), p.OTID, ChargesInput{
		SurgeonCharge: decimal.NewFromInt(-1),
	}, "U1"); !apperr.IsValidation(err) {
		t.Errorf("negative component: err = %v, want validation error", err)
	}
	if _, err := f.svc.AddCharges(context.Background(), p.OTID, ChargesInput{}, "U1"); !apperr.IsValidation(err) {
		t.Errorf("all-zero components: err = %v, want validation error", err)
	}
	if _, err := f.svc.AddCharges(context.Background(), "OT99999999999", ChargesInput{
		SurgeonCharge: decimal.NewFromInt(1000),
	}, "U1"); !apperr.IsNotFound(err) {
		t.Errorf("unknown procedure: err = %v, want not found", err)
	}
	if len(f.biller.posted) != 0 {
		t.Errorf("rejected inputs still posted %d charges", len(f.biller.posted))
	}
}

func TestChargesListsOnlyOTLines(t *testing.T) {
	f := newFixture()
	p, err := f.svc.Create(context.Background(), validCreate(), "U1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.svc.AddCharges(context.Background(), p.OTID, ChargesInput{
		SurgeonCharge: decimal.NewFromInt(5000),
	}, "U1"); err != nil {
		t.Fatalf("AddCharges: %v", err)
	}

	charges, err := f.svc.Charges(context.Background(), testAdmissionID)
	if err != nil {
		t.Fatalf("Charges: %v", err)
	}
	if len(charges) != 1 || charges[0].ChargeType != billing.ChargeOT {
		t.Errorf("charges = %+v", charges)
	}
}
