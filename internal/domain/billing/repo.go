package billing

import (
	"context"
	"time"
)

type ChargeRepository interface {
	Create(ctx context.Context, c *Charge) error
	// GetByID returns (nil, nil) when no row matches.
	GetByID(ctx context.Context, id string) (*Charge, error)
	// Update exists only for the audited admin manual-edit path.
	Update(ctx context.Context, c *Charge) error
	// ListByOwner returns charges in insertion order.
	ListByOwner(ctx context.Context, owner Owner) ([]*Charge, error)
	ListByOwnerAndType(ctx context.Context, owner Owner, chargeType ChargeType) ([]*Charge, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *Payment) error
	// GetByID returns (nil, nil) when no row matches.
	GetByID(ctx context.Context, id string) (*Payment, error)
	ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Payment, int, error)
	// ListByOwner returns payments in insertion order.
	ListByOwner(ctx context.Context, owner Owner) ([]*Payment, error)
	ListByDate(ctx context.Context, day time.Time) ([]*Payment, error)
}
