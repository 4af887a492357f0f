package orchestrators

import (
	"context"
	"fmt"
	"strings"
	"time"

	"growfitness/internal/domain/audit"
	"growfitness/internal/domain/request"
	"growfitness/internal/domain/session"
	"growfitness/internal/domain/user"
)

// RequestStoreForOrchestrator defines the store interface needed by the request orchestrators.
type RequestStoreForOrchestrator interface {
	GetFreeSession(ctx context.Context, id string) (request.FreeSessionRequest, error)
	SaveFreeSession(ctx context.Context, r request.FreeSessionRequest) error
	GetReschedule(ctx context.Context, id string) (request.RescheduleRequest, error)
	SaveReschedule(ctx context.Context, r request.RescheduleRequest) error
	SaveRescheduleWithSession(ctx context.Context, r request.RescheduleRequest, s session.Session) error
	GetExtraSession(ctx context.Context, id string) (request.ExtraSessionRequest, error)
	SaveExtraSession(ctx context.Context, r request.ExtraSessionRequest) error
}

// SessionStoreForRequests reads sessions referenced by requests.
type SessionStoreForRequests interface {
	GetByID(ctx context.Context, id string) (session.Session, error)
}

// RequestDeps holds dependencies for the request orchestrators.
type RequestDeps struct {
	Runtime
	RequestStore RequestStoreForOrchestrator
	SessionStore SessionStoreForRequests
	Notifier     Notifications
}

// CreateFreeSessionRequestInput is the public trial-session form.
type CreateFreeSessionRequestInput struct {
	ParentName        string     `json:"parentName" validate:"required"`
	Phone             string     `json:"phone" validate:"required"`
	Email             string     `json:"email" validate:"required,email"`
	KidName           string     `json:"kidName" validate:"required"`
	SessionType       string     `json:"sessionType" validate:"required,oneof=INDIVIDUAL GROUP"`
	LocationID        string     `json:"locationId"`
	PreferredDateTime *time.Time `json:"preferredDateTime"`
}

// SelectFreeSessionInput marks a free-session request as selected.
type SelectFreeSessionInput struct {
	ID        string `json:"-"`
	ActorID   string `json:"-"`
	SessionID string `json:"sessionId"`
}

// CreateRescheduleRequestInput asks to move a session.
type CreateRescheduleRequestInput struct {
	ActorID     string    `json:"-"`
	SessionID   string    `json:"sessionId" validate:"required"`
	NewDateTime time.Time `json:"newDateTime" validate:"required"`
	Reason      string    `json:"reason" validate:"required"`
}

// CreateExtraSessionRequestInput asks for an additional session. ParentID comes from the token.
type CreateExtraSessionRequestInput struct {
	ParentID          string    `json:"-"`
	KidID             string    `json:"kidId" validate:"required"`
	CoachID           string    `json:"coachId" validate:"required"`
	SessionType       string    `json:"sessionType" validate:"required,oneof=INDIVIDUAL GROUP"`
	LocationID        string    `json:"locationId" validate:"required"`
	PreferredDateTime time.Time `json:"preferredDateTime" validate:"required"`
}

// DecideRequestInput approves or denies a pending request.
type DecideRequestInput struct {
	ID      string
	ActorID string
	Approve bool
}

// ExecuteCreateFreeSessionRequest records a public trial-session request.
// POST: Request persisted as PENDING; audited with actor "public"
func ExecuteCreateFreeSessionRequest(ctx context.Context, input CreateFreeSessionRequestInput, deps RequestDeps) (request.FreeSessionRequest, error) {
	now := deps.Now()
	r := request.FreeSessionRequest{
		ID:                deps.GenerateID(),
		ParentName:        strings.TrimSpace(input.ParentName),
		Phone:             strings.TrimSpace(input.Phone),
		Email:             user.NormalizeEmail(input.Email),
		KidName:           strings.TrimSpace(input.KidName),
		SessionType:       input.SessionType,
		LocationID:        input.LocationID,
		PreferredDateTime: input.PreferredDateTime,
		Status:            request.StatusPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := r.Validate(); err != nil {
		return request.FreeSessionRequest{}, err
	}
	if err := deps.RequestStore.SaveFreeSession(ctx, r); err != nil {
		return request.FreeSessionRequest{}, fmt.Errorf("save free session request: %w", err)
	}
	deps.record(ctx, audit.ActorPublic, "CREATE_FREE_SESSION_REQUEST", audit.EntityFreeSessionRequest, r.ID, nil)
	return r, nil
}

// ExecuteSelectFreeSessionRequest selects a pending request and confirms it to the family.
// PRE: request is PENDING; SessionID, when given, exists
// POST: Status SELECTED; confirmation sent by email and WhatsApp
func ExecuteSelectFreeSessionRequest(ctx context.Context, input SelectFreeSessionInput, deps RequestDeps) (request.FreeSessionRequest, error) {
	r, err := deps.RequestStore.GetFreeSession(ctx, input.ID)
	if err != nil {
		return request.FreeSessionRequest{}, lookup(err, request.ErrFreeSessionNotFound, "free session request")
	}
	if input.SessionID != "" {
		if _, err := deps.SessionStore.GetByID(ctx, input.SessionID); err != nil {
			return request.FreeSessionRequest{}, lookup(err, session.ErrNotFound, "session")
		}
	}
	if err := r.Select(input.SessionID, deps.Now()); err != nil {
		return request.FreeSessionRequest{}, err
	}
	if err := deps.RequestStore.SaveFreeSession(ctx, r); err != nil {
		return request.FreeSessionRequest{}, fmt.Errorf("save free session request: %w", err)
	}
	deps.record(ctx, input.ActorID, "SELECT_FREE_SESSION_REQUEST", audit.EntityFreeSessionRequest, r.ID, map[string]any{"sessionId": input.SessionID})

	if deps.Notifier != nil {
		deps.Notifier.SendFreeSessionConfirmation(ctx, r)
	}
	return r, nil
}

// ExecuteCreateRescheduleRequest records a request to move a session.
// PRE: SessionID exists
func ExecuteCreateRescheduleRequest(ctx context.Context, input CreateRescheduleRequestInput, deps RequestDeps) (request.RescheduleRequest, error) {
	if _, err := deps.SessionStore.GetByID(ctx, input.SessionID); err != nil {
		return request.RescheduleRequest{}, lookup(err, session.ErrNotFound, "session")
	}
	now := deps.Now()
	r := request.RescheduleRequest{
		ID:          deps.GenerateID(),
		SessionID:   input.SessionID,
		RequestedBy: input.ActorID,
		NewDateTime: input.NewDateTime.UTC(),
		Reason:      strings.TrimSpace(input.Reason),
		Status:      request.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.Validate(); err != nil {
		return request.RescheduleRequest{}, err
	}
	if err := deps.RequestStore.SaveReschedule(ctx, r); err != nil {
		return request.RescheduleRequest{}, fmt.Errorf("save reschedule request: %w", err)
	}
	deps.record(ctx, input.ActorID, "CREATE_RESCHEDULE_REQUEST", audit.EntityRescheduleRequest, r.ID, map[string]any{"sessionId": r.SessionID})
	return r, nil
}

// ExecuteDecideRescheduleRequest approves or denies a reschedule request.
// PRE: request is PENDING
// POST: Status APPROVED or DENIED, processedAt set; approval moves the session in the same write
// POST: The requester is notified of the decision
func ExecuteDecideRescheduleRequest(ctx context.Context, input DecideRequestInput, deps RequestDeps) (request.RescheduleRequest, error) {
	r, err := deps.RequestStore.GetReschedule(ctx, input.ID)
	if err != nil {
		return request.RescheduleRequest{}, lookup(err, request.ErrRescheduleNotFound, "reschedule request")
	}
	now := deps.Now()
	if err := r.Decide(input.Approve, now); err != nil {
		return request.RescheduleRequest{}, err
	}

	if input.Approve {
		s, err := deps.SessionStore.GetByID(ctx, r.SessionID)
		if err != nil {
			return request.RescheduleRequest{}, lookup(err, session.ErrNotFound, "session")
		}
		s.DateTime = r.NewDateTime
		s.UpdatedAt = now
		if err := deps.RequestStore.SaveRescheduleWithSession(ctx, r, s); err != nil {
			return request.RescheduleRequest{}, fmt.Errorf("move session: %w", err)
		}
	} else if err := deps.RequestStore.SaveReschedule(ctx, r); err != nil {
		return request.RescheduleRequest{}, fmt.Errorf("save reschedule request: %w", err)
	}
	if deps.Notifier != nil {
		deps.Notifier.SendRescheduleDecision(ctx, r)
	}

	action := "DENY_RESCHEDULE_REQUEST"
	if input.Approve {
		action = "APPROVE_RESCHEDULE_REQUEST"
	}
	deps.record(ctx, input.ActorID, action, audit.EntityRescheduleRequest, r.ID, map[string]any{"sessionId": r.SessionID})
	return r, nil
}

// ExecuteCreateExtraSessionRequest records a parent's request for an extra session.
func ExecuteCreateExtraSessionRequest(ctx context.Context, input CreateExtraSessionRequestInput, deps RequestDeps) (request.ExtraSessionRequest, error) {
	now := deps.Now()
	r := request.ExtraSessionRequest{
		ID:                deps.GenerateID(),
		ParentID:          input.ParentID,
		KidID:             input.KidID,
		CoachID:           input.CoachID,
		SessionType:       input.SessionType,
		LocationID:        input.LocationID,
		PreferredDateTime: input.PreferredDateTime.UTC(),
		Status:            request.StatusPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := r.Validate(); err != nil {
		return request.ExtraSessionRequest{}, err
	}
	if err := deps.RequestStore.SaveExtraSession(ctx, r); err != nil {
		return request.ExtraSessionRequest{}, fmt.Errorf("save extra session request: %w", err)
	}
	deps.record(ctx, input.ParentID, "CREATE_EXTRA_SESSION_REQUEST", audit.EntityExtraSessionRequest, r.ID, map[string]any{"kidId": r.KidID})
	return r, nil
}

// ExecuteDecideExtraSessionRequest approves or denies an extra-session request.
// PRE: request is PENDING
func ExecuteDecideExtraSessionRequest(ctx context.Context, input DecideRequestInput, deps RequestDeps) (request.ExtraSessionRequest, error) {
	r, err := deps.RequestStore.GetExtraSession(ctx, input.ID)
	if err != nil {
		return request.ExtraSessionRequest{}, lookup(err, request.ErrExtraSessionNotFound, "extra session request")
	}
	if err := r.Decide(input.Approve, deps.Now()); err != nil {
		return request.ExtraSessionRequest{}, err
	}
	if err := deps.RequestStore.SaveExtraSession(ctx, r); err != nil {
		return request.ExtraSessionRequest{}, fmt.Errorf("save extra session request: %w", err)
	}
	action := "DENY_EXTRA_SESSION_REQUEST"
	if input.Approve {
		action = "APPROVE_EXTRA_SESSION_REQUEST"
	}
	deps.record(ctx, input.ActorID, action, audit.EntityExtraSessionRequest, r.ID, nil)
	return r, nil
}
