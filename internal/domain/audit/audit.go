package audit

import (
	"errors"
	"time"
)

// Entity type names recorded in entries.
const (
	EntityUser                = "User"
	EntityKid                 = "Kid"
	EntityLocation            = "Location"
	EntitySession             = "Session"
	EntityInvoice             = "Invoice"
	EntityBanner              = "Banner"
	EntityQuiz                = "Quiz"
	EntityReport              = "Report"
	EntityFreeSessionRequest  = "FreeSessionRequest"
	EntityRescheduleRequest   = "RescheduleRequest"
	EntityExtraSessionRequest = "ExtraSessionRequest"
	EntityCode                = "Code"
	EntityCrmContact          = "CrmContact"
	EntityResource            = "Resource"
)

// ActorPublic is recorded when an unauthenticated caller triggers a mutation.
const ActorPublic = "public"

// EntityIDMultiple is recorded when one action touches several entities.
const EntityIDMultiple = "multiple"

// Domain errors
var (
	ErrMissingActor  = errors.New("audit entry requires an actor")
	ErrMissingAction = errors.New("audit entry requires an action")
)

// Entry is one append-only audit record.
type Entry struct {
	ID         string         `json:"id"`
	ActorID    string         `json:"actorId"`
	Action     string         `json:"action"`
	EntityType string         `json:"entityType"`
	EntityID   string         `json:"entityId"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

// NewEntry creates an audit entry.
// PRE: actorID and action are non-empty
// POST: Returns an Entry stamped at now
func NewEntry(id string, now time.Time, actorID, action, entityType, entityID string) Entry {
	return Entry{
		ID:         id,
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Timestamp:  now,
	}
}

// WithMetadata attaches free-form metadata.
func (e Entry) WithMetadata(metadata map[string]any) Entry {
	e.Metadata = metadata
	return e
}

// Validate checks that the entry can be persisted.
func (e Entry) Validate() error {
	if e.ActorID == "" {
		return ErrMissingActor
	}
	if e.Action == "" {
		return ErrMissingAction
	}
	return nil
}
