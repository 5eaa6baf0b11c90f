package employee

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/suryacity/hms/internal/platform/apperr"
)

type EmploymentStatus string

const (
	EmploymentPermanent EmploymentStatus = "PERMANENT"
	EmploymentProbation EmploymentStatus = "PROBATION"
)

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

type Employee struct {
	EmployeeID       string           `json:"employee_id"`
	Name             string           `json:"name"`
	Post             string           `json:"post"`
	Qualification    string           `json:"qualification"`
	EmploymentStatus EmploymentStatus `json:"employment_status"`
	DutyHours        string           `json:"duty_hours"`
	JoiningDate      time.Time        `json:"joining_date"`
	MonthlySalary    decimal.Decimal  `json:"monthly_salary"`
	Status           Status           `json:"status"`
	CreatedAt        time.Time        `json:"created_at"`
}

type CreateInput struct {
	Name             string           `json:"name" validate:"required"`
	Post             string           `json:"post" validate:"required"`
	Qualification    string           `json:"qualification"`
	EmploymentStatus EmploymentStatus `json:"employment_status" validate:"required"`
	DutyHours        string           `json:"duty_hours"`
	JoiningDate      time.Time        `json:"joining_date"`
	MonthlySalary    decimal.Decimal  `json:"monthly_salary"`
}

func (in *CreateInput) Validate() error {
	if in.Name == "" {
		return apperr.Validationf("name is required")
	}
	if in.Post == "" {
		return apperr.Validationf("post is required")
	}
	if in.EmploymentStatus != EmploymentPermanent && in.EmploymentStatus != EmploymentProbation {
		return apperr.Validationf("invalid employment_status: %s", in.EmploymentStatus)
	}
	if in.JoiningDate.IsZero() {
		return apperr.Validationf("joining_date is required")
	}
	if in.MonthlySalary.IsNegative() {
		return apperr.Validationf("monthly_salary must not be negative")
	}
	return nil
}

type UpdateInput struct {
	Post             *string           `json:"post"`
	Qualification    *string           `json:"qualification"`
	EmploymentStatus *EmploymentStatus `json:"employment_status"`
	DutyHours        *string           `json:"duty_hours"`
	MonthlySalary    *decimal.Decimal  `json:"monthly_salary"`
	Status           *Status           `json:"status"`
}

func (in *UpdateInput) Validate() error {
	if in.EmploymentStatus != nil && *in.EmploymentStatus != EmploymentPermanent && *in.EmploymentStatus != EmploymentProbation {
		return apperr.Validationf("invalid employment_status: %s", *in.EmploymentStatus)
	}
	if in.MonthlySalary != nil && in.MonthlySalary.IsNegative() {
		return apperr.Validationf("monthly_salary must not be negative")
	}
	if in.Status != nil && *in.Status != StatusActive && *in.Status != StatusInactive {
		return apperr.Validationf("invalid status: %s", *in.Status)
	}
	return nil
}

type SalaryPayment struct {
	SalaryID    string          `json:"salary_id"`
	EmployeeID  string          `json:"employee_id"`
	Month       int             `json:"month"`
	Year        int             `json:"year"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentMode string          `json:"payment_mode"`
	Notes       *string         `json:"notes,omitempty"`
	PaidBy      string          `json:"paid_by"`
	PaidAt      time.Time       `json:"paid_at"`
}

type PaySalaryInput struct {
	Month       int             `json:"month" validate:"required,gte=1,lte=12"`
	Year        int             `json:"year" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentMode string          `json:"payment_mode" validate:"required"`
	Notes       *string         `json:"notes"`
}

var validPaymentModes = map[string]bool{
	"CASH": true,
	"UPI":  true,
	"CARD": true,
	"BANK": true,
}

func (in *PaySalaryInput) Validate() error {
	if in.Month < 1 || in.Month > 12 {
		return apperr.Validationf("month must be between 1 and 12, got %d", in.Month)
	}
	if in.Year < 2000 || in.Year > 2100 {
		return apperr.Validationf("year must be between 2000 and 2100, got %d", in.Year)
	}
	mode := strings.ToUpper(strings.TrimSpace(in.PaymentMode))
	if !validPaymentModes[mode] {
		return apperr.Validationf("invalid payment_mode: %s", in.PaymentMode)
	}
	in.PaymentMode = mode
	if !in.Amount.IsPositive() {
		return apperr.Validationf("amount must be positive")
	}
	return nil
}

// SalarySlip is a derived payroll snapshot, built from the employee record
// and the recorded payment. It is never persisted.
type SalarySlip struct {
	SalaryID     string          `json:"salary_id"`
	HospitalName string          `json:"hospital_name"`
	EmployeeID   string          `json:"employee_id"`
	Name         string          `json:"name"`
	Post         string          `json:"post"`
	Month        int             `json:"month"`
	Year         int             `json:"year"`
	Amount       decimal.Decimal `json:"amount"`
	PaymentMode  string          `json:"payment_mode"`
	PaidAt       time.Time       `json:"paid_at"`
	GeneratedAt  time.Time       `json:"generated_at"`
}
