// Package audit defines the audit trail written alongside every committed
// invoice mutation.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"pharmacy/internal/core/id"
)

// Action represents the type of audited operation.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Entry is one audit record. Changes is serialized as JSON by the recorder.
type Entry struct {
	EntityType string
	EntityID   id.ID
	Action     Action
	Changes    map[string]any
}

// Recorder persists audit entries. Record runs inside the caller's
// transaction so the entry commits or rolls back with the change itself.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// Record is a committed audit entry as read back from the trail.
type Record struct {
	ID         id.ID
	EntityType string
	EntityID   id.ID
	Action     Action
	TraceID    string
	Changes    json.RawMessage
	CreatedAt  time.Time
}

// Trail reads the audit history of one entity, newest first.
type Trail interface {
	History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]Record, error)
}

// Store both writes and reads the trail.
type Store interface {
	Recorder
	Trail
}
