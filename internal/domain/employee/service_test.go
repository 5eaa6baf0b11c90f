package employee

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/suryacity/hms/internal/platform/apperr"
	"github.com/suryacity/hms/internal/platform/idgen"
)

type mockRepo struct {
	byID map[string]*Employee
}

func (m *mockRepo) Create(_ context.Context, e *Employee) error {
	cp := *e
	m.byID[e.EmployeeID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*Employee, error) {
	e, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, e *Employee) error {
	cp := *e
	m.byID[e.EmployeeID] = &cp
	return nil
}

func (m *mockRepo) List(_ context.Context, status Status, limit, offset int) ([]*Employee, int, error) {
	var out []*Employee
	for _, e := range m.byID {
		if status == "" || e.Status == status {
			out = append(out, e)
		}
	}
	return out, len(out), nil
}

type mockSalaryRepo struct {
	payments []*SalaryPayment
}

func (m *mockSalaryRepo) Create(_ context.Context, p *SalaryPayment) error {
	cp := *p
	m.payments = append(m.payments, &cp)
	return nil
}

func (m *mockSalaryRepo) GetByID(_ context.Context, id string) (*SalaryPayment, error) {
	for _, p := range m.payments {
		if p.SalaryID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockSalaryRepo) GetByEmployeeMonthYear(_ context.Context, employeeID string, month, year int) (*SalaryPayment, error) {
	for _, p := range m.payments {
		if p.EmployeeID == employeeID && p.Month == month && p.Year == year {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockSalaryRepo) ListByEmployee(_ context.Context, employeeID string) ([]*SalaryPayment, error) {
	var out []*SalaryPayment
	for _, p := range m.payments {
		if p.EmployeeID == employeeID {
			out = append(out, p)
		}
	}
	return out, nil
}

func newTestService() (*Service, *mockRepo, *mockSalaryRepo) {
	repo := &mockRepo{byID: map[string]*Employee{}}
	salaries := &mockSalaryRepo{}
	clock := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	ids := idgen.NewWithClock(func() time.Time { return clock })
	svc := NewService(repo, salaries, ids, "Surya City Hospital", zerolog.Nop())
	svc.now = func() time.Time { return clock }
	return svc, repo, salaries
}

func validCreate() CreateInput {
	return CreateInput{
		Name:             "Ramesh Kumar",
		Post:             "Staff Nurse",
		Qualification:    "GNM",
		EmploymentStatus: EmploymentPermanent,
		DutyHours:        "08:00-16:00",
		JoiningDate:      time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		MonthlySalary:    decimal.NewFromInt(22000),
	}
}

func TestCreateEmployee(t *testing.T) {
	svc, _, _ := newTestService()
	e, err := svc.Create(context.Background(), validCreate())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if e.EmployeeID != "EMP20260314001" {
		t.Errorf("EmployeeID = %q", e.EmployeeID)
	}
	if e.Status != StatusActive {
		t.Errorf("Status = %q, want ACTIVE", e.Status)
	}
}

func TestCreateEmployeeValidation(t *testing.T) {
	svc, _, _ := newTestService()
	cases := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"missing name", func(in *CreateInput) { in.Name = "" }},
		{"missing post", func(in *CreateInput) { in.Post = "" }},
		{"bad employment status", func(in *CreateInput) { in.EmploymentStatus = "CONTRACT" }},
		{"zero joining date", func(in *CreateInput) { in.JoiningDate = time.Time{} }},
		{"negative salary", func(in *CreateInput) { in.MonthlySalary = decimal.NewFromInt(-1) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validCreate()
			tc.mutate(&in)
			if _, err := svc.Create(context.Background(), in); !apperr.IsValidation(err) {
				t.Errorf("err = %v, want validation error", err)
			}
		})
	}
}

func TestPaySalary(t *testing.T) {
	svc, _, salaries := newTestService()
	e, _ := svc.Create(context.Background(), validCreate())

	p, err := svc.PaySalary(context.Background(), e.EmployeeID,
		PaySalaryInput{Month: 3, Year: 2026, PaymentMode: "bank"}, "U1")
	if err != nil {
		t.Fatalf("PaySalary: %v", err)
	}
	if !p.Amount.Equal(decimal.NewFromInt(22000)) {
		t.Errorf("Amount = %s, want monthly salary default", p.Amount)
	}
	if p.PaymentMode != "BANK" {
		t.Errorf("PaymentMode = %q, want BANK", p.PaymentMode)
	}
	if len(salaries.payments) != 1 {
		t.Fatalf("persisted %d payments", len(salaries.payments))
	}
}

func TestPaySalaryOncePerMonth(t *testing.T) {
	svc, _, _ := newTestService()
	e, _ := svc.Create(context.Background(), validCreate())

	in := PaySalaryInput{Month: 3, Year: 2026, PaymentMode: "CASH"}
	if _, err := svc.PaySalary(context.Background(), e.EmployeeID, in, "U1"); err != nil {
		t.Fatalf("first payment: %v", err)
	}
	if _, err := svc.PaySalary(context.Background(), e.EmployeeID, in, "U1"); !apperr.IsConflict(err) {
		t.Errorf("second payment: err = %v, want conflict", err)
	}

	// A different month goes through.
	in.Month = 4
	if _, err := svc.PaySalary(context.Background(), e.EmployeeID, in, "U1"); err != nil {
		t.Errorf("next month: %v", err)
	}
}

func TestPaySalaryValidation(t *testing.T) {
	svc, _, _ := newTestService()
	e, _ := svc.Create(context.Background(), validCreate())

	if _, err := svc.PaySalary(context.Background(), e.EmployeeID,
		PaySalaryInput{Month: 13, Year: 2026, PaymentMode: "CASH"}, "U1"); !apperr.IsValidation(err) {
		t.Errorf("month 13: %v", err)
	}
	if _, err := svc.PaySalary(context.Background(), e.EmployeeID,
		PaySalaryInput{Month: 3, Year: 1999, PaymentMode: "CASH"}, "U1"); !apperr.IsValidation(err) {
		t.Errorf("year 1999: %v", err)
	}
	if _, err := svc.PaySalary(context.Background(), "EMP99999999999",
		PaySalaryInput{Month: 3, Year: 2026, PaymentMode: "CASH"}, "U1"); !apperr.IsNotFound(err) {
		t.Errorf("unknown employee: %v", err)
	}
}

func TestPaySalaryInactiveEmployee(t *testing.T) {
	svc, _, _ := newTestService()
	e, _ := svc.Create(context.Background(), validCreate())
	inactive := StatusInactive
	if _, err := svc.Update(context.Background(), e.EmployeeID, UpdateInput{Status: &inactive}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if _, err := svc.PaySalary(context.Background(), e.EmployeeID,
		PaySalaryInput{Month: 3, Year: 2026, PaymentMode: "CASH"}, "U1"); !apperr.IsValidation(err) {
		t.Errorf("inactive employee: err = %v, want validation error", err)
	}
}

func TestSalarySlip(t *testing.T) {
	svc, _, _ := newTestService()
	e, _ := svc.Create(context.Background(), validCreate())
	p, err := svc.PaySalary(context.Background(), e.EmployeeID,
		PaySalaryInput{Month: 3, Year: 2026, PaymentMode: "CASH"}, "U1")
	if err != nil {
		t.Fatalf("PaySalary: %v", err)
	}

	slip, err := svc.SalarySlip(context.Background(), e.EmployeeID, 3, 2026)
	if err != nil {
		t.Fatalf("SalarySlip: %v", err)
	}
	if slip.HospitalName != "Surya City Hospital" {
		t.Errorf("HospitalName = %q", slip.HospitalName)
	}
	if slip.Name != "Ramesh Kumar" || slip.Post != "Staff Nurse" {
		t.Errorf("employee block = %+v", slip)
	}
	if !slip.Amount.Equal(p.Amount) {
		t.Errorf("Amount = %s, want %s", slip.Amount, p.Amount)
	}

	if _, err := svc.SalarySlip(context.Background(), e.EmployeeID, 4, 2026); !apperr.IsNotFound(err) {
		t.Errorf("unpaid month: %v", err)
	}

	inactive := StatusInactive
	if _, err := svc.Update(context.Background(), e.EmployeeID, UpdateInput{Status: &inactive}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if _, err := svc.SalarySlip(context.Background(), e.EmployeeID, 3, 2026); !apperr.IsValidation(err) {
		t.Errorf("inactive employee slip: err = %v, want validation error", err)
	}
}

func TestTotalPaid(t *testing.T) {
	svc, _, _ := newTestService()
	e, _ := svc.Create(context.Background(), validCreate())
	for _, m := range []int{1, 2, 3} {
		if _, err := svc.PaySalary(context.Background(), e.EmployeeID,
			PaySalaryInput{Month: m, Year: 2026, PaymentMode: "CASH"}, "U1"); err != nil {
			t.Fatalf("month %d: %v", m, err)
		}
	}

	total, err := svc.TotalPaid(context.Background(), e.EmployeeID, 2026)
	if err != nil {
		t.Fatalf("TotalPaid: %v", err)
	}
	if !total.Equal(decimal.NewFromInt(66000)) {
		t.Errorf("TotalPaid = %s, want 66000", total)
	}

	other, _ := svc.TotalPaid(context.Background(), e.EmployeeID, 2025)
	if !other.IsZero() {
		t.Errorf("TotalPaid(2025) = %s, want 0", other)
	}
}
