package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	appctx "pharmacy/internal/core/context"
	"pharmacy/internal/core/id"
	"pharmacy/internal/domain/audit"
)

var _ audit.Store = (*AuditRecorder)(nil)

// AuditRecorder implements audit.Store.
type AuditRecorder struct{ s *Store }

func (r *AuditRecorder) Record(ctx context.Context, entry audit.Entry) error {
	changes, err := json.Marshal(entry.Changes)
	if err != nil {
		return fmt.Errorf("marshal audit changes: %w", err)
	}
	rec := audit.Record{
		ID:         id.New(),
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Action:     entry.Action,
		TraceID:    appctx.GetTraceID(ctx),
		Changes:    changes,
		CreatedAt:  time.Now().UTC(),
	}
	return r.s.write(ctx, func(st *state) error {
		st.audit = append(st.audit, rec)
		return nil
	})
}

// History returns up to limit records for one entity, newest first.
func (r *AuditRecorder) History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]audit.Record, error) {
	var out []audit.Record
	err := r.s.read(ctx, func(st *state) error {
		for i := len(st.audit) - 1; i >= 0 && len(out) < limit; i-- {
			rec := st.audit[i]
			if rec.EntityType == entityType && rec.EntityID == entityID {
				out = append(out, rec)
			}
		}
		return nil
	})
	return out, err
}

// Entries returns the committed audit trail in write order.
func (r *AuditRecorder) Entries(ctx context.Context) []audit.Record {
	var out []audit.Record
	_ = r.s.read(ctx, func(st *state) error {
		out = slices.Clone(st.audit)
		return nil
	})
	return out
}
