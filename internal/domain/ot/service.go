package ot

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/suryacity/hms/internal/domain/admission"
	"github.com/suryacity/hms/internal/domain/billing"
	"github.com/suryacity/hms/internal/platform/apperr"
	"github.com/suryacity/hms/internal/platform/idgen"
)

type AdmissionSource interface {
	GetByID(ctx context.Context, id string) (*admission.Admission, error)
}

// Biller posts and reads OT charges through the billing ledger, so the
// ledger's owner checks and the discharged-admission guard apply unchanged.
type Biller interface {
	AddCharges(ctx context.Context, owner billing.Owner, ins []billing.ChargeInput, createdBy string) ([]*billing.Charge, error)
	ListCharges(ctx context.Context, owner billing.Owner, chargeType billing.ChargeType) ([]*billing.Charge, error)
}

type Service struct {
	repo       Repository
	admissions AdmissionSource
	biller     Biller
	ids        *idgen.Generator
	now        func() time.Time
	log        zerolog.Logger
}

func NewService(repo Repository, admissions AdmissionSource, biller Biller, ids *idgen.Generator, log zerolog.Logger) *Service {
	return &Service{repo: repo, admissions: admissions, biller: biller, ids: ids, now: time.Now, log: log}
}

func (s *Service) Create(ctx context.Context, in CreateInput, createdBy string) (*Procedure, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	a, err := s.admissions.GetByID(ctx, in.AdmissionID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperr.NotFoundf("admission %s not found", in.AdmissionID)
	}

	p := &Procedure{
		OTID:            s.ids.NewID("OT"),
		AdmissionID:     in.AdmissionID,
		OperationName:   in.OperationName,
		OperationDate:   in.OperationDate,
		DurationMinutes: in.DurationMinutes,
		SurgeonName:     in.SurgeonName,
		AnesthesiaType:  in.AnesthesiaType,
		Notes:           in.Notes,
		CreatedBy:       createdBy,
		CreatedAt:       s.now(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info().Str("ot_id", p.OTID).Str("admission_id", p.AdmissionID).
		Str("operation", p.OperationName).Msg("ot procedure recorded")
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Procedure, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFoundf("ot procedure %s not found", id)
	}
	return p, nil
}

func (s *Service) ListByAdmission(ctx context.Context, admissionID string) ([]*Procedure, error) {
	return s.repo.ListByAdmission(ctx, admissionID)
}

// AddCharges posts a procedure's component fees to the admission's charge
// ledger as one all-or-nothing batch.
func (s *Service) AddCharges(ctx context.Context, otID string, in ChargesInput, createdBy string) ([]*billing.Charge, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p, err := s.Get(ctx, otID)
	if err != nil {
		return nil, err
	}

	var lines []billing.ChargeInput
	for _, comp := range in.components() {
		if !comp.amount.IsPositive() {
			continue
		}
		lines = append(lines, billing.ChargeInput{
			ChargeType: billing.ChargeOT,
			ChargeName: fmt.Sprintf("OT %s Charge - %s", comp.name, p.OperationName),
			Quantity:   1,
			Rate:       comp.amount,
		})
	}

	charges, err := s.biller.AddCharges(ctx, billing.AdmissionOwner(p.AdmissionID), lines, createdBy)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("ot_id", p.OTID).Str("admission_id", p.AdmissionID).
		Int("lines", len(charges)).Msg("ot charges posted")
	return charges, nil
}

// Charges lists the OT lines already posted against an admission.
func (s *Service) Charges(ctx context.Context, admissionID string) ([]*billing.Charge, error) {
	return s.biller.ListCharges(ctx, billing.AdmissionOwner(admissionID), billing.ChargeOT)
}
