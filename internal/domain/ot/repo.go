package ot

import "context"

type Repository interface {
	Create(ctx context.Context, p *Procedure) error
	// GetByID returns (nil, nil) when no row matches.
	GetByID(ctx context.Context, id string) (*Procedure, error)
	// ListByAdmission returns procedures newest first.
	ListByAdmission(ctx context.Context, admissionID string) ([]*Procedure, error)
}
