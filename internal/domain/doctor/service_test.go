package doctor

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/suryacity/hms/internal/platform/apperr"
	"github.com/suryacity/hms/internal/platform/idgen"
)

type mockRepo struct {
	items map[string]*Doctor
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[string]*Doctor)}
}

func (m *mockRepo) Create(_ context.Context, d *Doctor) error {
	m.items[d.DoctorID] = d
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*Doctor, error) {
	return m.items[id], nil
}

func (m *mockRepo) Update(_ context.Context, d *Doctor) error {
	m.items[d.DoctorID] = d
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Doctor, int, error) {
	var out []*Doctor
	for _, d := range m.items {
		out = append(out, d)
	}
	return out, len(out), nil
}

type mockAudit struct {
	changes int
}

func (m *mockAudit) RecordChange(_ context.Context, actor, actionType, tableName, recordID string, oldValue, newValue any) error {
	m.changes++
	return nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestService() (*Service, *mockRepo, *mockAudit) {
	repo := newMockRepo()
	audits := &mockAudit{}
	return NewService(repo, idgen.New(), audits), repo, audits
}

func TestCreateDoctor(t *testing.T) {
	svc, _, _ := newTestService()

	d, err := svc.Create(context.Background(), CreateInput{
		Name: "Dr. Meena", Department: "Medicine",
		NewPatientFee: dec("200"), FollowupFee: dec("100"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if d.Status != StatusActive {
		t.Errorf("Status = %s, want ACTIVE", d.Status)
	}
	if !d.NewPatientFee.Equal(dec("200")) {
		t.Errorf("NewPatientFee = %s", d.NewPatientFee)
	}
}

func TestCreateDoctorNegativeFee(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.Create(context.Background(), CreateInput{
		Name: "Dr. X", Department: "ENT", NewPatientFee: dec("-1"),
	})
	if !apperr.IsValidation(err) {
		t.Errorf("err = %v, want validation error", err)
	}
}

func TestUpdateFeeIsAudited(t *testing.T) {
	svc, _, audits := newTestService()
	d, err := svc.Create(context.Background(), CreateInput{
		Name: "Dr. Meena", Department: "Medicine",
		NewPatientFee: dec("200"), FollowupFee: dec("100"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	fee := dec("250")
	updated, err := svc.Update(context.Background(), d.DoctorID, UpdateInput{NewPatientFee: &fee}, "U1")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.NewPatientFee.Equal(fee) {
		t.Errorf("NewPatientFee = %s, want 250", updated.NewPatientFee)
	}
	if audits.changes != 1 {
		t.Errorf("audit changes = %d, want 1", audits.changes)
	}

	// Status-only update is not a rate change.
	st := StatusInactive
	if _, err := svc.Update(context.Background(), d.DoctorID, UpdateInput{Status: &st}, "U1"); err != nil {
		t.Fatalf("Update status: %v", err)
	}
	if audits.changes != 1 {
		t.Errorf("audit changes after status update = %d, want 1", audits.changes)
	}
}

func TestUpdateUnknownDoctor(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.Update(context.Background(), "D404", UpdateInput{}, "U1"); !apperr.IsNotFound(err) {
		t.Errorf("err = %v, want not found", err)
	}
}
