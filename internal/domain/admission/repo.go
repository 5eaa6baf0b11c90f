package admission

import "context"

type BedRepository interface {
	Create(ctx context.Context, b *Bed) error
	// GetByID returns (nil, nil) when no row matches.
	GetByID(ctx context.Context, id string) (*Bed, error)
	List(ctx context.Context, status BedStatus, limit, offset int) ([]*Bed, int, error)
	// Occupy flips AVAILABLE to OCCUPIED with a status-guarded update and
	// reports whether the swap happened. This is the bed-exclusivity CAS.
	Occupy(ctx context.Context, id string) (bool, error)
	Release(ctx context.Context, id string) error
	Stats(ctx context.Context) (*BedStats, error)
}

type Repository interface {
	Create(ctx context.Context, a *Admission) error
	// GetByID returns (nil, nil) when no row matches.
	GetByID(ctx context.Context, id string) (*Admission, error)
	Update(ctx context.Context, a *Admission) error
	List(ctx context.Context, status Status, limit, offset int) ([]*Admission, int, error)
	ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Admission, int, error)
}
