package reports

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/suryacity/hms/internal/domain/employee"
	"github.com/suryacity/hms/internal/platform/apperr"
)

type SalaryLine struct {
	EmployeeID       string                    `json:"employee_id"`
	Name             string                    `json:"name"`
	Post             string                    `json:"post"`
	EmploymentStatus employee.EmploymentStatus `json:"employment_status"`
	MonthlySalary    decimal.Decimal           `json:"monthly_salary"`
	Paid             bool                      `json:"paid"`
	PaidAmount       decimal.Decimal           `json:"paid_amount"`
}

type SalaryReport struct {
	Month          int             `json:"month"`
	Year           int             `json:"year"`
	TotalEmployees int             `json:"total_employees"`
	TotalSalary    decimal.Decimal `json:"total_salary"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	Employees      []SalaryLine    `json:"employees"`
}

// SalaryReport lists every active employee's monthly salary for a payroll
// month and marks who has already been paid.
func (s *Service) SalaryReport(ctx context.Context, month, year int) (*SalaryReport, error) {
	if month < 1 || month > 12 {
		return nil, apperr.Validationf("month must be between 1 and 12, got %d", month)
	}
	if year < 2000 || year > 2100 {
		return nil, apperr.Validationf("year must be between 2000 and 2100, got %d", year)
	}

	employees, err := drain(func(limit, offset int) ([]*employee.Employee, int, error) {
		return s.employees.List(ctx, employee.StatusActive, limit, offset)
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(employees, func(i, j int) bool { return employees[i].Name < employees[j].Name })

	report := &SalaryReport{
		Month:          month,
		Year:           year,
		TotalEmployees: len(employees),
		TotalSalary:    decimal.Zero,
		TotalPaid:      decimal.Zero,
	}
	for _, e := range employees {
		line := SalaryLine{
			EmployeeID:       e.EmployeeID,
			Name:             e.Name,
			Post:             e.Post,
			EmploymentStatus: e.EmploymentStatus,
			MonthlySalary:    e.MonthlySalary,
		}
		p, err := s.salaries.GetByEmployeeMonthYear(ctx, e.EmployeeID, month, year)
		if err != nil {
			return nil, err
		}
		if p != nil {
			line.Paid = true
			line.PaidAmount = p.Amount
			report.TotalPaid = report.TotalPaid.Add(p.Amount)
		}
		report.TotalSalary = report.TotalSalary.Add(e.MonthlySalary)
		report.Employees = append(report.Employees, line)
	}
	return report, nil
}
