// Package audit is the write-side sink for admin-sensitive mutations. The
// core emits entries and never reads them back; admins can page through the
// log over HTTP.
package audit

import (
	"time"

	"github.com/google/uuid"
)

type Entry struct {
	AuditID    uuid.UUID `json:"audit_id"`
	Actor      string    `json:"actor"`
	ActionType string    `json:"action_type"`
	TableName  string    `json:"table_name"`
	RecordID   string    `json:"record_id"`
	OldValue   *string   `json:"old_value,omitempty"`
	NewValue   *string   `json:"new_value,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
