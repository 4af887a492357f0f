package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"growfitness/internal/domain/audit"
)

// AuditStore appends audit entries.
type AuditStore interface {
	Save(ctx context.Context, e audit.Entry) error
}

// Runtime carries the collaborators every mutation needs: an id source,
// a clock and the audit log.
type Runtime struct {
	AuditStore AuditStore
	GenerateID func() string
	Now        func() time.Time
}

// RecordAuditInput carries input for the RecordAudit orchestrator.
type RecordAuditInput struct {
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	Metadata   map[string]any
}

// ExecuteRecordAudit appends one audit entry timestamped now.
// PRE: ActorID and Action are non-empty
// POST: Entry persisted or error returned
func ExecuteRecordAudit(ctx context.Context, input RecordAuditInput, deps Runtime) (audit.Entry, error) {
	e := audit.NewEntry(deps.GenerateID(), deps.Now(), input.ActorID, input.Action, input.EntityType, input.EntityID).
		WithMetadata(input.Metadata)
	if err := e.Validate(); err != nil {
		return audit.Entry{}, err
	}
	if err := deps.AuditStore.Save(ctx, e); err != nil {
		return audit.Entry{}, fmt.Errorf("save audit entry: %w", err)
	}
	return e, nil
}

// record writes the audit entry for a completed mutation.
// INVARIANT: an audit failure never fails the mutation
func (rt Runtime) record(ctx context.Context, actorID, action, entityType, entityID string, metadata map[string]any) {
	if rt.AuditStore == nil {
		return
	}
	_, err := ExecuteRecordAudit(ctx, RecordAuditInput{
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Metadata:   metadata,
	}, rt)
	if err != nil {
		slog.Error("audit_write_failed", "action", action, "entity_type", entityType, "entity_id", entityID, "error", err)
	}
}

// lookup translates sql.ErrNoRows into the entity's not-found error and wraps anything else.
func lookup(err error, notFound error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return fmt.Errorf("get %s: %w", what, err)
}
