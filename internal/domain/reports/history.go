package reports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/suryacity/hms/internal/domain/admission"
	"github.com/suryacity/hms/internal/domain/billing"
	"github.com/suryacity/hms/internal/domain/doctor"
	"github.com/suryacity/hms/internal/domain/patient"
	"github.com/suryacity/hms/internal/domain/visit"
	"github.com/suryacity/hms/internal/platform/apperr"
)

type VisitHistory struct {
	Visit        *visit.Visit      `json:"visit"`
	Doctor       *doctor.Doctor    `json:"doctor,omitempty"`
	Charges      []*billing.Charge `json:"charges"`
	TotalCharges decimal.Decimal   `json:"total_charges"`
}

type AdmissionHistory struct {
	Admission    *admission.Admission `json:"admission"`
	Bed          *admission.Bed       `json:"bed,omitempty"`
	Charges      []*billing.Charge    `json:"charges"`
	TotalCharges decimal.Decimal      `json:"total_charges"`
}

type HistorySummary struct {
	TotalVisits     int             `json:"total_visits"`
	TotalAdmissions int             `json:"total_admissions"`
	TotalCharges    decimal.Decimal `json:"total_charges"`
	TotalPaid       decimal.Decimal `json:"total_paid"`
	BalanceDue      decimal.Decimal `json:"balance_due"`
}

type PatientHistory struct {
	Patient    *patient.Patient   `json:"patient"`
	Visits     []VisitHistory     `json:"visits"`
	Admissions []AdmissionHistory `json:"admissions"`
	Payments   []*billing.Payment `json:"payments"`
	Summary    HistorySummary     `json:"summary"`
}

// PatientHistory assembles the complete paper trail for one patient: every
// visit and admission with its ledger lines, every payment, and the running
// settlement position across all of them.
func (s *Service) PatientHistory(ctx context.Context, patientID string) (*PatientHistory, error) {
	p, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFoundf("patient %s not found", patientID)
	}

	visits, err := drain(func(limit, offset int) ([]*visit.Visit, int, error) {
		return s.visits.ListByPatient(ctx, patientID, limit, offset)
	})
	if err != nil {
		return nil, err
	}
	admissions, err := drain(func(limit, offset int) ([]*admission.Admission, int, error) {
		return s.admissions.ListByPatient(ctx, patientID, limit, offset)
	})
	if err != nil {
		return nil, err
	}
	payments, err := drain(func(limit, offset int) ([]*billing.Payment, int, error) {
		return s.payments.ListByPatient(ctx, patientID, limit, offset)
	})
	if err != nil {
		return nil, err
	}

	history := &PatientHistory{
		Patient:    p,
		Visits:     make([]VisitHistory, 0, len(visits)),
		Admissions: make([]AdmissionHistory, 0, len(admissions)),
		Payments:   payments,
	}

	doctors := map[string]*doctor.Doctor{}
	for _, v := range visits {
		d, seen := doctors[v.DoctorID]
		if !seen {
			if d, err = s.doctors.GetByID(ctx, v.DoctorID); err != nil {
				return nil, err
			}
			doctors[v.DoctorID] = d
		}
		charges, err := s.charges.ListByOwner(ctx, billing.VisitOwner(v.VisitID))
		if err != nil {
			return nil, err
		}
		// The OPD fee posts to the ledger at visit creation, so the charge
		// sum already includes it.
		total := decimal.Zero
		for _, c := range charges {
			total = total.Add(c.TotalAmount)
		}
		history.Visits = append(history.Visits, VisitHistory{
			Visit: v, Doctor: d, Charges: charges, TotalCharges: total,
		})
		history.Summary.TotalCharges = history.Summary.TotalCharges.Add(total)
	}

	for _, a := range admissions {
		bed, err := s.beds.GetByID(ctx, a.BedID)
		if err != nil {
			return nil, err
		}
		charges, err := s.charges.ListByOwner(ctx, billing.AdmissionOwner(a.AdmissionID))
		if err != nil {
			return nil, err
		}
		// Same rule as the discharge bill: the file charge is counted from
		// the admission and its ledger row is skipped.
		total := a.FileCharge
		for _, c := range charges {
			if c.ChargeType == billing.ChargeFileCharge {
				continue
			}
			total = total.Add(c.TotalAmount)
		}
		history.Admissions = append(history.Admissions, AdmissionHistory{
			Admission: a, Bed: bed, Charges: charges, TotalCharges: total,
		})
		history.Summary.TotalCharges = history.Summary.TotalCharges.Add(total)
	}

	for _, pay := range payments {
		history.Summary.TotalPaid = history.Summary.TotalPaid.Add(pay.Amount)
	}
	history.Summary.TotalVisits = len(visits)
	history.Summary.TotalAdmissions = len(admissions)
	history.Summary.BalanceDue = history.Summary.TotalCharges.Sub(history.Summary.TotalPaid)
	return history, nil
}
