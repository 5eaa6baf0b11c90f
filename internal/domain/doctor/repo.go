package doctor

import "context"

type Repository interface {
	Create(ctx context.Context, d *Doctor) error
	// GetByID returns (nil, nil) when no row matches.
	GetByID(ctx context.Context, id string) (*Doctor, error)
	Update(ctx context.Context, d *Doctor) error
	List(ctx context.Context, limit, offset int) ([]*Doctor, int, error)
}
