package employee

import "context"

type Repository interface {
	Create(ctx context.Context, e *Employee) error
	GetByID(ctx context.Context, id string) (*Employee, error)
	Update(ctx context.Context, e *Employee) error
	List(ctx context.Context, status Status, limit, offset int) ([]*Employee, int, error)
}

type SalaryRepository interface {
	Create(ctx context.Context, p *SalaryPayment) error
	GetByID(ctx context.Context, id string) (*SalaryPayment, error)
	// GetByEmployeeMonthYear backs the one-payment-per-month rule; a unique
	// index on (employee_id, month, year) backstops it under races.
	GetByEmployeeMonthYear(ctx context.Context, employeeID string, month, year int) (*SalaryPayment, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]*SalaryPayment, error)
}
