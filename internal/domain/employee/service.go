package employee

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/suryacity/hms/internal/platform/apperr"
	"github.com/suryacity/hms/internal/platform/idgen"
)

type Service struct {
	repo     Repository
	salaries SalaryRepository
	ids      *idgen.Generator
	hospital string
	now      func() time.Time
	log      zerolog.Logger
}

func NewService(repo Repository, salaries SalaryRepository, ids *idgen.Generator, hospital string, log zerolog.Logger) *Service {
	return &Service{repo: repo, salaries: salaries, ids: ids, hospital: hospital, now: time.Now, log: log}
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Employee, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	e := &Employee{
		EmployeeID:       s.ids.EmployeeID(),
		Name:             in.Name,
		Post:             in.Post,
		Qualification:    in.Qualification,
		EmploymentStatus: in.EmploymentStatus,
		DutyHours:        in.DutyHours,
		JoiningDate:      in.JoiningDate,
		MonthlySalary:    in.MonthlySalary.Round(2),
		Status:           StatusActive,
		CreatedAt:        s.now(),
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	s.log.Info().Str("employee_id", e.EmployeeID).Str("post", e.Post).Msg("employee created")
	return e, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Employee, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, apperr.NotFoundf("employee %s not found", id)
	}
	return e, nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*Employee, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Post != nil {
		e.Post = *in.Post
	}
	if in.Qualification != nil {
		e.Qualification = *in.Qualification
	}
	if in.EmploymentStatus != nil {
		e.EmploymentStatus = *in.EmploymentStatus
	}
	if in.DutyHours != nil {
		e.DutyHours = *in.DutyHours
	}
	if in.MonthlySalary != nil {
		e.MonthlySalary = in.MonthlySalary.Round(2)
	}
	if in.Status != nil {
		e.Status = *in.Status
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) List(ctx context.Context, status Status, limit, offset int) ([]*Employee, int, error) {
	if status != "" && status != StatusActive && status != StatusInactive {
		return nil, 0, apperr.Validationf("invalid status: %s", status)
	}
	return s.repo.List(ctx, status, limit, offset)
}

// PaySalary records one salary payment per employee per month. The amount
// defaults to the employee's monthly salary when the request leaves it zero.
func (s *Service) PaySalary(ctx context.Context, employeeID string, in PaySalaryInput, paidBy string) (*SalaryPayment, error) {
	e, err := s.Get(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if e.Status != StatusActive {
		return nil, apperr.Validationf("employee %s is inactive", employeeID)
	}
	if in.Amount.IsZero() {
		in.Amount = e.MonthlySalary
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.salaries.GetByEmployeeMonthYear(ctx, employeeID, in.Month, in.Year)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflictf("salary for %s already paid for %d/%d", employeeID, in.Month, in.Year)
	}

	p := &SalaryPayment{
		SalaryID:    s.ids.NewID("SAL"),
		EmployeeID:  employeeID,
		Month:       in.Month,
		Year:        in.Year,
		Amount:      in.Amount.Round(2),
		PaymentMode: in.PaymentMode,
		Notes:       in.Notes,
		PaidBy:      paidBy,
		PaidAt:      s.now(),
	}
	if err := s.salaries.Create(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info().Str("salary_id", p.SalaryID).Str("employee_id", employeeID).
		Int("month", in.Month).Int("year", in.Year).Msg("salary paid")
	return p, nil
}

func (s *Service) SalaryHistory(ctx context.Context, employeeID string) ([]*SalaryPayment, error) {
	if _, err := s.Get(ctx, employeeID); err != nil {
		return nil, err
	}
	return s.salaries.ListByEmployee(ctx, employeeID)
}

// SalarySlip derives a printable payroll snapshot for a recorded payment.
// Inactive employees cannot be issued slips.
func (s *Service) SalarySlip(ctx context.Context, employeeID string, month, year int) (*SalarySlip, error) {
	e, err := s.Get(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if e.Status != StatusActive {
		return nil, apperr.Validationf("employee %s is inactive", employeeID)
	}
	p, err := s.salaries.GetByEmployeeMonthYear(ctx, employeeID, month, year)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFoundf("no salary payment for %s in %d/%d", employeeID, month, year)
	}
	return &SalarySlip{
		SalaryID:     p.SalaryID,
		HospitalName: s.hospital,
		EmployeeID:   e.EmployeeID,
		Name:         e.Name,
		Post:         e.Post,
		Month:        p.Month,
		Year:         p.Year,
		Amount:       p.Amount,
		PaymentMode:  p.PaymentMode,
		PaidAt:       p.PaidAt,
		GeneratedAt:  s.now(),
	}, nil
}

// TotalPaid sums an employee's recorded salary payments for a year.
func (s *Service) TotalPaid(ctx context.Context, employeeID string, year int) (decimal.Decimal, error) {
	payments, err := s.SalaryHistory(ctx, employeeID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, p := range payments {
		if p.Year == year {
			total = total.Add(p.Amount)
		}
	}
	return total, nil
}
