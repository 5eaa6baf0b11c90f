package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record persists one audit entry. Callers treat failures as non-fatal side
// effects; the entry's ID and timestamp are filled in here.
func (s *Service) Record(ctx context.Context, e Entry) error {
	e.AuditID = uuid.New()
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	return s.repo.Create(ctx, &e)
}

// RecordChange marshals old/new snapshots and records the entry.
func (s *Service) RecordChange(ctx context.Context, actor, actionType, tableName, recordID string, oldValue, newValue any) error {
	e := Entry{
		Actor:      actor,
		ActionType: actionType,
		TableName:  tableName,
		RecordID:   recordID,
	}
	if oldValue != nil {
		if b, err := json.Marshal(oldValue); err == nil {
			s := string(b)
			e.OldValue = &s
		}
	}
	if newValue != nil {
		if b, err := json.Marshal(newValue); err == nil {
			s := string(b)
			e.NewValue = &s
		}
	}
	return s.Record(ctx, e)
}

func (s *Service) List(ctx context.Context, tableName string, limit, offset int) ([]*Entry, int, error) {
	return s.repo.List(ctx, tableName, limit, offset)
}
