// Package reports builds read-only aggregates over the other domains'
// repositories: the cash desk's daily collection, the OPD day book, doctor
// revenue, bed occupancy, payroll, and per-patient history.
package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/suryacity/hms/internal/domain/admission"
	"github.com/suryacity/hms/internal/domain/billing"
	"github.com/suryacity/hms/internal/domain/doctor"
	"github.com/suryacity/hms/internal/domain/employee"
	"github.com/suryacity/hms/internal/domain/patient"
	"github.com/suryacity/hms/internal/domain/visit"
)

// Read-side interfaces satisfied by the owning domains' repositories.

type PaymentSource interface {
	ListByDate(ctx context.Context, day time.Time) ([]*billing.Payment, error)
	ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*billing.Payment, int, error)
}

type PatientSource interface {
	GetByID(ctx context.Context, id string) (*patient.Patient, error)
}

type DoctorSource interface {
	GetByID(ctx context.Context, id string) (*doctor.Doctor, error)
}

type VisitSource interface {
	ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*visit.Visit, int, error)
	ListByDate(ctx context.Context, day time.Time, limit, offset int) ([]*visit.Visit, int, error)
}

type BedSource interface {
	GetByID(ctx context.Context, id string) (*admission.Bed, error)
	List(ctx context.Context, status admission.BedStatus, limit, offset int) ([]*admission.Bed, int, error)
}

type AdmissionSource interface {
	List(ctx context.Context, status admission.Status, limit, offset int) ([]*admission.Admission, int, error)
	ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*admission.Admission, int, error)
}

type ChargeSource interface {
	ListByOwner(ctx context.Context, owner billing.Owner) ([]*billing.Charge, error)
}

type EmployeeSource interface {
	List(ctx context.Context, status employee.Status, limit, offset int) ([]*employee.Employee, int, error)
}

type SalarySource interface {
	GetByEmployeeMonthYear(ctx context.Context, employeeID string, month, year int) (*employee.SalaryPayment, error)
}

type Service struct {
	payments   PaymentSource
	patients   PatientSource
	doctors    DoctorSource
	visits     VisitSource
	beds       BedSource
	admissions AdmissionSource
	charges    ChargeSource
	employees  EmployeeSource
	salaries   SalarySource
	hospital   string
	now        func() time.Time
}

func NewService(payments PaymentSource, patients PatientSource, doctors DoctorSource, visits VisitSource,
	beds BedSource, admissions AdmissionSource, charges ChargeSource,
	employees EmployeeSource, salaries SalarySource, hospital string) *Service {
	return &Service{
		payments:   payments,
		patients:   patients,
		doctors:    doctors,
		visits:     visits,
		beds:       beds,
		admissions: admissions,
		charges:    charges,
		employees:  employees,
		salaries:   salaries,
		hospital:   hospital,
		now:        time.Now,
	}
}

// drain pages through a limit/offset listing until the reported total is
// reached. Reports aggregate whole datasets, not pages.
func drain[T any](fetch func(limit, offset int) ([]T, int, error)) ([]T, error) {
	const page = 200
	var out []T
	for offset := 0; ; offset += page {
		batch, total, err := fetch(page, offset)
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
		if len(batch) == 0 || len(out) >= total {
			return out, nil
		}
	}
}

type DailyCollection struct {
	Date       string                     `json:"date"`
	Count      int                        `json:"count"`
	ByMode     map[string]decimal.Decimal `json:"by_mode"`
	ByType     map[string]decimal.Decimal `json:"by_type"`
	GrandTotal decimal.Decimal            `json:"grand_total"`
}

func (s *Service) DailyCollection(ctx context.Context, day time.Time) (*DailyCollection, error) {
	payments, err := s.payments.ListByDate(ctx, day)
	if err != nil {
		return nil, err
	}

	report := &DailyCollection{
		Date:       day.Format("2006-01-02"),
		Count:      len(payments),
		ByMode:     map[string]decimal.Decimal{},
		ByType:     map[string]decimal.Decimal{},
		GrandTotal: decimal.Zero,
	}
	for _, p := range payments {
		report.ByMode[p.PaymentMode] = report.ByMode[p.PaymentMode].Add(p.Amount)
		report.ByType[string(p.PaymentType)] = report.ByType[string(p.PaymentType)].Add(p.Amount)
		report.GrandTotal = report.GrandTotal.Add(p.Amount)
	}
	return report, nil
}

// DailyCollectionXLSX renders the report as a spreadsheet: one detail row per
// payment, then the per-mode breakdown and the grand total.
func (s *Service) DailyCollectionXLSX(ctx context.Context, day time.Time) ([]byte, error) {
	payments, err := s.payments.ListByDate(ctx, day)
	if err != nil {
		return nil, err
	}
	report, err := s.DailyCollection(ctx, day)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Daily Collection"
	f.SetSheetName("Sheet1", sheet)

	f.SetCellValue(sheet, "A1", s.hospital)
	f.SetCellValue(sheet, "A2", "Daily Collection Report")
	f.SetCellValue(sheet, "B2", report.Date)

	headers := []string{"Payment ID", "Patient ID", "Type", "Mode", "Amount", "Time"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 4)
		f.SetCellValue(sheet, cell, h)
	}

	row := 5
	for _, p := range payments {
		values := []interface{}{
			p.PaymentID, p.PatientID, string(p.PaymentType), p.PaymentMode,
			p.Amount.InexactFloat64(), p.PaymentDate.Format("15:04:05"),
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	row++
	modes := make([]string, 0, len(report.ByMode))
	for m := range report.ByMode {
		modes = append(modes, m)
	}
	sort.Strings(modes)
	for _, m := range modes {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), m)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), report.ByMode[m].InexactFloat64())
		row++
	}

	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "TOTAL")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row), report.GrandTotal.InexactFloat64())

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
