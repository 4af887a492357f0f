package orchestrators

import (
	"context"
	"fmt"
	"strings"
	"time"

	"growfitness/internal/domain/audit"
	"growfitness/internal/domain/location"
	"growfitness/internal/domain/session"
)

// SessionStoreForOrchestrator defines the store interface needed by the session orchestrators.
type SessionStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (session.Session, error)
	Save(ctx context.Context, s session.Session) error
	Delete(ctx context.Context, id string) error
}

// LocationLookup resolves a location by id.
type LocationLookup interface {
	GetByID(ctx context.Context, id string) (location.Location, error)
}

// SessionDeps holds dependencies for the session orchestrators.
type SessionDeps struct {
	Runtime
	SessionStore  SessionStoreForOrchestrator
	LocationStore LocationLookup
	Notifier      Notifications
}

// CreateSessionInput carries input for scheduling a session.
type CreateSessionInput struct {
	ActorID       string    `json:"-"`
	Type          string    `json:"type" validate:"required,oneof=INDIVIDUAL GROUP"`
	CoachID       string    `json:"coachId" validate:"required"`
	LocationID    string    `json:"locationId" validate:"required"`
	DateTime      time.Time `json:"dateTime" validate:"required"`
	Duration      int       `json:"duration" validate:"required,gt=0"`
	Capacity      *int      `json:"capacity" validate:"omitempty,min=1"`
	Kids          []string  `json:"kids"`
	KidID         string    `json:"kidId"`
	Status        string    `json:"status" validate:"omitempty,oneof=SCHEDULED CONFIRMED CANCELLED COMPLETED"`
	IsFreeSession bool      `json:"isFreeSession"`
}

// UpdateSessionInput carries a partial session update.
type UpdateSessionInput struct {
	ID         string     `json:"-"`
	ActorID    string     `json:"-"`
	CoachID    *string    `json:"coachId" validate:"omitempty,min=1"`
	LocationID *string    `json:"locationId" validate:"omitempty,min=1"`
	DateTime   *time.Time `json:"dateTime"`
	Duration   *int       `json:"duration" validate:"omitempty,gt=0"`
	Capacity   *int       `json:"capacity" validate:"omitempty,min=1"`
	Kids       *[]string  `json:"kids"`
	KidID      *string    `json:"kidId"`
	Status     *string    `json:"status" validate:"omitempty,oneof=SCHEDULED CONFIRMED CANCELLED COMPLETED"`
}

// ExecuteCreateSession schedules a session.
// PRE: Group sessions list kids; individual sessions carry a kidId
// POST: Session persisted with default capacity and SCHEDULED status when omitted
// INVARIANT: len(kids) <= capacity
func ExecuteCreateSession(ctx context.Context, input CreateSessionInput, deps SessionDeps) (session.Session, error) {
	now := deps.Now()
	s := session.Session{
		ID:            deps.GenerateID(),
		Type:          input.Type,
		CoachID:       input.CoachID,
		LocationID:    input.LocationID,
		DateTime:      input.DateTime.UTC(),
		Duration:      input.Duration,
		Capacity:      session.DefaultCapacity(input.Type),
		Kids:          input.Kids,
		KidID:         input.KidID,
		Status:        input.Status,
		IsFreeSession: input.IsFreeSession,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if input.Capacity != nil {
		s.Capacity = *input.Capacity
	}
	if s.Status == "" {
		s.Status = session.StatusScheduled
	}
	if s.Kids == nil {
		s.Kids = []string{}
	}
	if err := s.Validate(); err != nil {
		return session.Session{}, err
	}
	if err := deps.SessionStore.Save(ctx, s); err != nil {
		return session.Session{}, fmt.Errorf("save session: %w", err)
	}
	deps.record(ctx, input.ActorID, "CREATE_SESSION", audit.EntitySession, s.ID, map[string]any{"type": s.Type, "dateTime": s.DateTime})
	return s, nil
}

// ExecuteUpdateSession applies a partial update and re-checks capacity on the merged session.
// POST: Parents of booked kids are notified when the time or place moves
func ExecuteUpdateSession(ctx context.Context, input UpdateSessionInput, deps SessionDeps) (session.Session, error) {
	s, err := deps.SessionStore.GetByID(ctx, input.ID)
	if err != nil {
		return session.Session{}, lookup(err, session.ErrNotFound, "session")
	}
	before := s

	if input.CoachID != nil {
		s.CoachID = *input.CoachID
	}
	if input.LocationID != nil {
		s.LocationID = *input.LocationID
	}
	if input.DateTime != nil {
		s.DateTime = input.DateTime.UTC()
	}
	if input.Duration != nil {
		s.Duration = *input.Duration
	}
	if input.Capacity != nil {
		s.Capacity = *input.Capacity
	}
	if input.Kids != nil {
		s.Kids = *input.Kids
	}
	if input.KidID != nil {
		s.KidID = *input.KidID
	}
	if input.Status != nil {
		s.Status = *input.Status
	}
	if err := s.Validate(); err != nil {
		return session.Session{}, err
	}
	s.UpdatedAt = deps.Now()
	if err := deps.SessionStore.Save(ctx, s); err != nil {
		return session.Session{}, fmt.Errorf("save session: %w", err)
	}
	deps.record(ctx, input.ActorID, "UPDATE_SESSION", audit.EntitySession, s.ID, nil)

	if changes := describeSessionChanges(ctx, before, s, deps.LocationStore); changes != "" && deps.Notifier != nil {
		deps.Notifier.SendSessionChange(ctx, s, changes)
	}
	return s, nil
}

// ExecuteDeleteSession removes a session.
func ExecuteDeleteSession(ctx context.Context, id, actorID string, deps SessionDeps) error {
	if _, err := deps.SessionStore.GetByID(ctx, id); err != nil {
		return lookup(err, session.ErrNotFound, "session")
	}
	if err := deps.SessionStore.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	deps.record(ctx, actorID, "DELETE_SESSION", audit.EntitySession, id, nil)
	return nil
}

// describeSessionChanges returns "" when neither time nor location moved.
func describeSessionChanges(ctx context.Context, before, after session.Session, locations LocationLookup) string {
	var parts []string
	if !before.DateTime.Equal(after.DateTime) {
		parts = append(parts, "new date and time "+after.DateTime.Format("Mon 2 Jan 2006, 15:04 MST"))
	}
	if before.LocationID != after.LocationID {
		where := after.LocationID
		if locations != nil {
			if l, err := locations.GetByID(ctx, after.LocationID); err == nil {
				where = l.Name
			}
		}
		parts = append(parts, "new location "+where)
	}
	return strings.Join(parts, "; ")
}
