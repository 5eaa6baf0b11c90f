package slip

import "context"

// Repository persists slips. Slips are append-only: reprints create new
// rows, nothing is ever updated or deleted.
type Repository interface {
	Create(ctx context.Context, s *Slip) error
	GetByID(ctx context.Context, id string) (*Slip, error)
	ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Slip, int, error)
}
