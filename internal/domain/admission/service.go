package admission

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/suryacity/hms/internal/domain/patient"
	"github.com/suryacity/hms/internal/domain/visit"
	"github.com/suryacity/hms/internal/platform/apperr"
	"github.com/suryacity/hms/internal/platform/db"
	"github.com/suryacity/hms/internal/platform/idgen"
)

type PatientGetter interface {
	Get(ctx context.Context, id string) (*patient.Patient, error)
}

type VisitGetter interface {
	Get(ctx context.Context, id string) (*visit.Visit, error)
}

// FileChargeRecorder posts the one-time file charge to the charge ledger
// inside the admit transaction, so the bill is complete from creation.
type FileChargeRecorder interface {
	RecordFileCharge(ctx context.Context, admissionID string, amount decimal.Decimal, createdBy string) error
}

type Service struct {
	beds     BedRepository
	repo     Repository
	patients PatientGetter
	visits   VisitGetter
	charges  FileChargeRecorder
	ids      *idgen.Generator
	tx       db.TxRunner
}

func NewService(beds BedRepository, repo Repository, patients PatientGetter, visits VisitGetter, charges FileChargeRecorder, ids *idgen.Generator, tx db.TxRunner) *Service {
	return &Service{beds: beds, repo: repo, patients: patients, visits: visits, charges: charges, ids: ids, tx: tx}
}

// -- Beds --

func (s *Service) CreateBed(ctx context.Context, in CreateBedInput) (*Bed, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	b := &Bed{
		BedID:        s.ids.NewID("B"),
		BedNumber:    in.BedNumber,
		WardType:     in.WardType,
		PerDayCharge: in.PerDayCharge.Round(2),
		Status:       BedAvailable,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.beds.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) GetBed(ctx context.Context, id string) (*Bed, error) {
	b, err := s.beds.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, apperr.NotFoundf("bed %s not found", id)
	}
	return b, nil
}

func (s *Service) ListBeds(ctx context.Context, status BedStatus, limit, offset int) ([]*Bed, int, error) {
	if status != "" && status != BedAvailable && status != BedOccupied {
		return nil, 0, apperr.Validationf("invalid bed status: %s", status)
	}
	return s.beds.List(ctx, status, limit, offset)
}

func (s *Service) BedStats(ctx context.Context) (*BedStats, error) {
	return s.beds.Stats(ctx)
}

// -- Admission lifecycle --

// Admit creates the admission, occupies the bed, and posts the file charge
// in one transaction. The bed occupy is a guarded swap: of two concurrent
// admits to the same bed, exactly one wins.
func (s *Service) Admit(ctx context.Context, in AdmitInput, createdBy string) (*Admission, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.patients.Get(ctx, in.PatientID); err != nil {
		return nil, err
	}
	if in.VisitID != nil {
		if _, err := s.visits.Get(ctx, *in.VisitID); err != nil {
			return nil, err
		}
	}
	if _, err := s.GetBed(ctx, in.BedID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	a := &Admission{
		AdmissionID:   s.ids.AdmissionID(),
		PatientID:     in.PatientID,
		BedID:         in.BedID,
		VisitID:       in.VisitID,
		FileCharge:    in.FileCharge.Round(2),
		AdmissionDate: now,
		Status:        StatusAdmitted,
		CreatedBy:     createdBy,
		CreatedAt:     now,
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		ok, err := s.beds.Occupy(ctx, in.BedID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Conflictf("bed %s is not available", in.BedID)
		}
		if err := s.repo.Create(ctx, a); err != nil {
			return err
		}
		return s.charges.RecordFileCharge(ctx, a.AdmissionID, a.FileCharge, createdBy)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ChangeBed moves an active admission to a new bed, freeing the old one.
func (s *Service) ChangeBed(ctx context.Context, admissionID, newBedID string) (*Admission, error) {
	a, err := s.Get(ctx, admissionID)
	if err != nil {
		return nil, err
	}
	if a.Status != StatusAdmitted {
		return nil, apperr.Validationf("admission %s is discharged", admissionID)
	}
	if newBedID == a.BedID {
		return nil, apperr.Validationf("admission %s already occupies bed %s", admissionID, newBedID)
	}
	if _, err := s.GetBed(ctx, newBedID); err != nil {
		return nil, err
	}

	oldBedID := a.BedID
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		ok, err := s.beds.Occupy(ctx, newBedID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Conflictf("bed %s is not available", newBedID)
		}
		if err := s.beds.Release(ctx, oldBedID); err != nil {
			return err
		}
		a.BedID = newBedID
		return s.repo.Update(ctx, a)
	})
	if err != nil {
		a.BedID = oldBedID
		return nil, err
	}
	return a, nil
}

// Discharge is terminal: the bed is freed and no further charges or bed
// changes are accepted against the admission.
func (s *Service) Discharge(ctx context.Context, admissionID string, dischargeDate *time.Time) (*Admission, error) {
	a, err := s.Get(ctx, admissionID)
	if err != nil {
		return nil, err
	}
	if a.Status == StatusDischarged {
		return nil, apperr.Validationf("admission %s is already discharged", admissionID)
	}

	when := time.Now().UTC()
	if dischargeDate != nil {
		when = *dischargeDate
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		a.Status = StatusDischarged
		a.DischargeDate = &when
		if err := s.repo.Update(ctx, a); err != nil {
			return err
		}
		return s.beds.Release(ctx, a.BedID)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Admission, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperr.NotFoundf("admission %s not found", id)
	}
	return a, nil
}

func (s *Service) List(ctx context.Context, status Status, limit, offset int) ([]*Admission, int, error) {
	if status != "" && status != StatusAdmitted && status != StatusDischarged {
		return nil, 0, apperr.Validationf("invalid admission status: %s", status)
	}
	return s.repo.List(ctx, status, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Admission, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

// BedCharges estimates the stay cost as days × per-day charge. Read-only
// helper; nothing posts this to the ledger automatically.
func (s *Service) BedCharges(ctx context.Context, admissionID string) (decimal.Decimal, error) {
	a, err := s.Get(ctx, admissionID)
	if err != nil {
		return decimal.Zero, err
	}
	b, err := s.GetBed(ctx, a.BedID)
	if err != nil {
		return decimal.Zero, err
	}

	until := time.Now().UTC()
	if a.DischargeDate != nil {
		until = *a.DischargeDate
	}
	days := int(until.Sub(a.AdmissionDate).Hours()/24) + 1
	if days < 1 {
		days = 1
	}
	return b.PerDayCharge.Mul(decimal.NewFromInt(int64(days))).Round(2), nil
}
