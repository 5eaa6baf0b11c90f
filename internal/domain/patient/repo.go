package patient

import "context"

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	// GetByID returns (nil, nil) when no row matches.
	GetByID(ctx context.Context, id string) (*Patient, error)
	List(ctx context.Context, query string, limit, offset int) ([]*Patient, int, error)
}
