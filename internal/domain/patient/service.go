package patient

import (
	"context"
	"time"

	"github.com/suryacity/hms/internal/platform/apperr"
	"github.com/suryacity/hms/internal/platform/idgen"
)

type Service struct {
	repo Repository
	ids  *idgen.Generator
}

func NewService(repo Repository, ids *idgen.Generator) *Service {
	return &Service{repo: repo, ids: ids}
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Patient, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	p := &Patient{
		PatientID: s.ids.PatientID(),
		Name:      in.Name,
		Age:       in.Age,
		Gender:    in.Gender,
		Mobile:    in.Mobile,
		Address:   in.Address,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFoundf("patient %s not found", id)
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, query string, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, query, limit, offset)
}
