package visit

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/suryacity/hms/internal/domain/doctor"
	"github.com/suryacity/hms/internal/domain/patient"
	"github.com/suryacity/hms/internal/platform/apperr"
	"github.com/suryacity/hms/internal/platform/db"
	"github.com/suryacity/hms/internal/platform/idgen"
)

type PatientGetter interface {
	Get(ctx context.Context, id string) (*patient.Patient, error)
}

type DoctorGetter interface {
	Get(ctx context.Context, id string) (*doctor.Doctor, error)
}

// FeeRecorder posts the visit's OPD fee to the charge and payment ledgers
// inside the visit-creation transaction.
type FeeRecorder interface {
	RecordVisitFee(ctx context.Context, visitID, patientID string, fee decimal.Decimal, mode, createdBy string) error
}

type Service struct {
	repo     Repository
	patients PatientGetter
	doctors  DoctorGetter
	fees     FeeRecorder
	ids      *idgen.Generator
	tx       db.TxRunner
}

func NewService(repo Repository, patients PatientGetter, doctors DoctorGetter, fees FeeRecorder, ids *idgen.Generator, tx db.TxRunner) *Service {
	return &Service{repo: repo, patients: patients, doctors: doctors, fees: fees, ids: ids, tx: tx}
}

// Create registers an OPD visit. The doctor's fee for the visit type is
// frozen onto the visit, the per-patient serial is allocated, and the fee is
// posted to the ledgers — all in one transaction.
func (s *Service) Create(ctx context.Context, in CreateInput, createdBy string) (*Visit, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.patients.Get(ctx, in.PatientID); err != nil {
		return nil, err
	}
	doc, err := s.doctors.Get(ctx, in.DoctorID)
	if err != nil {
		return nil, err
	}
	if doc.Status != doctor.StatusActive {
		return nil, apperr.Validationf("doctor %s is inactive", doc.DoctorID)
	}

	fee := doc.NewPatientFee
	if in.VisitType == TypeFollowup {
		fee = doc.FollowupFee
	}

	now := time.Now().UTC()
	v := &Visit{
		VisitID:     s.ids.VisitID(),
		PatientID:   in.PatientID,
		DoctorID:    in.DoctorID,
		VisitType:   in.VisitType,
		OPDFee:      fee.Round(2),
		PaymentMode: in.PaymentMode,
		VisitDate:   now,
		CreatedBy:   createdBy,
		CreatedAt:   now,
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		serial, err := s.repo.NextSerial(ctx, in.PatientID)
		if err != nil {
			return err
		}
		v.SerialNumber = serial

		if err := s.repo.Create(ctx, v); err != nil {
			return err
		}
		return s.fees.RecordVisitFee(ctx, v.VisitID, v.PatientID, v.OPDFee, v.PaymentMode, createdBy)
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Visit, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, apperr.NotFoundf("visit %s not found", id)
	}
	return v, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Visit, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListByDate(ctx context.Context, day time.Time, limit, offset int) ([]*Visit, int, error) {
	return s.repo.ListByDate(ctx, day, limit, offset)
}
