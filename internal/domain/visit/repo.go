package visit

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, v *Visit) error
	// GetByID returns (nil, nil) when no row matches.
	GetByID(ctx context.Context, id string) (*Visit, error)
	ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Visit, int, error)
	ListByDate(ctx context.Context, day time.Time, limit, offset int) ([]*Visit, int, error)
	// NextSerial returns the next per-patient serial number, starting at 1.
	// Must be called inside the transaction that inserts the visit.
	NextSerial(ctx context.Context, patientID string) (int, error)
}
