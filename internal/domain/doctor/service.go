package doctor

import (
	"context"
	"time"

	"github.com/suryacity/hms/internal/domain/audit"
	"github.com/suryacity/hms/internal/platform/apperr"
	"github.com/suryacity/hms/internal/platform/idgen"
)

// AuditSink receives fee/status change events. Failures are non-fatal.
type AuditSink interface {
	RecordChange(ctx context.Context, actor, actionType, tableName, recordID string, oldValue, newValue any) error
}

var _ AuditSink = (*audit.Service)(nil)

type Service struct {
	repo   Repository
	ids    *idgen.Generator
	audits AuditSink
}

func NewService(repo Repository, ids *idgen.Generator, audits AuditSink) *Service {
	return &Service{repo: repo, ids: ids, audits: audits}
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Doctor, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	d := &Doctor{
		DoctorID:      s.ids.NewID("D"),
		Name:          in.Name,
		Department:    in.Department,
		NewPatientFee: in.NewPatientFee.Round(2),
		FollowupFee:   in.FollowupFee.Round(2),
		Status:        StatusActive,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Doctor, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperr.NotFoundf("doctor %s not found", id)
	}
	return d, nil
}

// Update applies fee/status changes. Fee edits are rate changes and go to
// the audit log; historical visits keep the fee frozen at creation time.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput, actor string) (*Doctor, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *d

	if in.Department != nil {
		d.Department = *in.Department
	}
	if in.NewPatientFee != nil {
		d.NewPatientFee = in.NewPatientFee.Round(2)
	}
	if in.FollowupFee != nil {
		d.FollowupFee = in.FollowupFee.Round(2)
	}
	if in.Status != nil {
		d.Status = *in.Status
	}

	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}

	if in.NewPatientFee != nil || in.FollowupFee != nil {
		_ = s.audits.RecordChange(ctx, actor, "FEE_UPDATE", "doctors", d.DoctorID, before, d)
	}
	return d, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Doctor, int, error) {
	return s.repo.List(ctx, limit, offset)
}
