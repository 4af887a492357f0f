package request

import (
	"errors"
	"strings"
	"time"
)

// Status constants shared by every request kind.
const (
	StatusPending     = "PENDING"
	StatusApproved    = "APPROVED"
	StatusDenied      = "DENIED"
	StatusSelected    = "SELECTED"
	StatusNotSelected = "NOT_SELECTED"
	StatusCompleted   = "COMPLETED"
)

// Session type constants
const (
	SessionTypeIndividual = "INDIVIDUAL"
	SessionTypeGroup      = "GROUP"
)

// Domain errors
var (
	ErrFreeSessionNotFound  = errors.New("Free session request not found")
	ErrRescheduleNotFound   = errors.New("Reschedule request not found")
	ErrExtraSessionNotFound = errors.New("Extra session request not found")
	ErrNotPending           = errors.New("request has already been processed")
	ErrInvalidSessionType   = errors.New("sessionType must be INDIVIDUAL or GROUP")
	ErrMissingField         = errors.New("required field is missing")
)

// FreeSessionRequest is a prospective family asking for a trial session.
type FreeSessionRequest struct {
	ID                string     `json:"id"`
	ParentName        string     `json:"parentName"`
	Phone             string     `json:"phone"`
	Email             string     `json:"email"`
	KidName           string     `json:"kidName"`
	SessionType       string     `json:"sessionType"`
	LocationID        string     `json:"locationId,omitempty"`
	PreferredDateTime *time.Time `json:"preferredDateTime,omitempty"`
	SelectedSessionID string     `json:"selectedSessionId,omitempty"`
	Status            string     `json:"status"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// Validate checks if the request has valid data.
func (r *FreeSessionRequest) Validate() error {
	if strings.TrimSpace(r.ParentName) == "" || strings.TrimSpace(r.KidName) == "" ||
		strings.TrimSpace(r.Email) == "" || strings.TrimSpace(r.Phone) == "" {
		return ErrMissingField
	}
	return validSessionType(r.SessionType)
}

// Select marks the request as chosen, optionally attaching a session.
// PRE: Status is PENDING
// POST: Status is SELECTED
func (r *FreeSessionRequest) Select(sessionID string, now time.Time) error {
	if r.Status != StatusPending {
		return ErrNotPending
	}
	r.Status = StatusSelected
	if sessionID != "" {
		r.SelectedSessionID = sessionID
	}
	r.UpdatedAt = now
	return nil
}

// RescheduleRequest asks to move an existing session.
type RescheduleRequest struct {
	ID          string     `json:"id"`
	SessionID   string     `json:"sessionId"`
	RequestedBy string     `json:"requestedBy"`
	NewDateTime time.Time  `json:"newDateTime"`
	Reason      string     `json:"reason"`
	Status      string     `json:"status"`
	ProcessedAt *time.Time `json:"processedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Validate checks if the request has valid data.
func (r *RescheduleRequest) Validate() error {
	if r.SessionID == "" || r.RequestedBy == "" || r.NewDateTime.IsZero() || strings.TrimSpace(r.Reason) == "" {
		return ErrMissingField
	}
	return nil
}

// Decide approves or denies the request.
// PRE: Status is PENDING
// POST: Status is APPROVED or DENIED, ProcessedAt is now
func (r *RescheduleRequest) Decide(approve bool, now time.Time) error {
	if r.Status != StatusPending {
		return ErrNotPending
	}
	r.Status = decision(approve)
	r.ProcessedAt = &now
	r.UpdatedAt = now
	return nil
}

// ExtraSessionRequest asks for an additional session for a kid.
type ExtraSessionRequest struct {
	ID                string    `json:"id"`
	ParentID          string    `json:"parentId"`
	KidID             string    `json:"kidId"`
	CoachID           string    `json:"coachId"`
	SessionType       string    `json:"sessionType"`
	LocationID        string    `json:"locationId"`
	PreferredDateTime time.Time `json:"preferredDateTime"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Validate checks if the request has valid data.
func (r *ExtraSessionRequest) Validate() error {
	if r.ParentID == "" || r.KidID == "" || r.CoachID == "" || r.LocationID == "" || r.PreferredDateTime.IsZero() {
		return ErrMissingField
	}
	return validSessionType(r.SessionType)
}

// Decide approves or denies the request.
// PRE: Status is PENDING
// POST: Status is APPROVED or DENIED
func (r *ExtraSessionRequest) Decide(approve bool, now time.Time) error {
	if r.Status != StatusPending {
		return ErrNotPending
	}
	r.Status = decision(approve)
	r.UpdatedAt = now
	return nil
}

func decision(approve bool) string {
	if approve {
		return StatusApproved
	}
	return StatusDenied
}

func validSessionType(t string) error {
	if t != SessionTypeIndividual && t != SessionTypeGroup {
		return ErrInvalidSessionType
	}
	return nil
}
