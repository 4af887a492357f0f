package session

import (
	"errors"
	"time"
)

// Type constants
const (
	TypeIndividual = "INDIVIDUAL"
	TypeGroup      = "GROUP"
)

// Status constants
const (
	StatusScheduled = "SCHEDULED"
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
	StatusCompleted = "COMPLETED"
)

// Default capacities applied when a create request omits capacity.
const (
	DefaultGroupCapacity      = 10
	DefaultIndividualCapacity = 1
)

// ValidStatuses lists statuses in display order.
var ValidStatuses = []string{StatusScheduled, StatusConfirmed, StatusCancelled, StatusCompleted}

// Domain errors
var (
	ErrNotFound           = errors.New("Session not found")
	ErrGroupNeedsKids     = errors.New("Group sessions require at least one kid")
	ErrIndividualNeedsKid = errors.New("Individual sessions require a kid ID")
	ErrCapacityExceeded   = errors.New("Number of kids exceeds session capacity")
	ErrInvalidType        = errors.New("type must be INDIVIDUAL or GROUP")
	ErrInvalidStatus      = errors.New("status must be one of: SCHEDULED, CONFIRMED, CANCELLED, COMPLETED")
	ErrInvalidCapacity    = errors.New("capacity must be at least 1")
	ErrInvalidDuration    = errors.New("duration must be positive")
	ErrMissingRefs        = errors.New("coachId and locationId are required")
)

// Session is one scheduled training slot.
// Group sessions carry Kids; individual sessions carry KidID.
type Session struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	CoachID       string    `json:"coachId"`
	LocationID    string    `json:"locationId"`
	DateTime      time.Time `json:"dateTime"`
	Duration      int       `json:"duration"`
	Capacity      int       `json:"capacity"`
	Kids          []string  `json:"kids"`
	KidID         string    `json:"kidId,omitempty"`
	Status        string    `json:"status"`
	IsFreeSession bool      `json:"isFreeSession"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// DefaultCapacity returns the capacity used when none is supplied.
func DefaultCapacity(sessionType string) int {
	if sessionType == TypeGroup {
		return DefaultGroupCapacity
	}
	return DefaultIndividualCapacity
}

// Validate checks structural and capacity rules.
// PRE: Session struct is populated
// POST: Returns nil if valid, error otherwise
// INVARIANT: len(Kids) <= Capacity for group sessions
func (s *Session) Validate() error {
	if s.Type != TypeGroup && s.Type != TypeIndividual {
		return ErrInvalidType
	}
	if !IsValidStatus(s.Status) {
		return ErrInvalidStatus
	}
	if s.CoachID == "" || s.LocationID == "" {
		return ErrMissingRefs
	}
	if s.Duration <= 0 {
		return ErrInvalidDuration
	}
	if s.Capacity < 1 {
		return ErrInvalidCapacity
	}
	switch s.Type {
	case TypeGroup:
		if len(s.Kids) == 0 {
			return ErrGroupNeedsKids
		}
		if len(s.Kids) > s.Capacity {
			return ErrCapacityExceeded
		}
	case TypeIndividual:
		if s.KidID == "" {
			return ErrIndividualNeedsKid
		}
	}
	return nil
}

// KidIDs returns every kid attached to the session, regardless of type.
func (s *Session) KidIDs() []string {
	ids := make([]string, 0, len(s.Kids)+1)
	ids = append(ids, s.Kids...)
	if s.KidID != "" {
		ids = append(ids, s.KidID)
	}
	return ids
}

// IsValidStatus reports whether status is a known session status.
func IsValidStatus(status string) bool {
	for _, v := range ValidStatuses {
		if v == status {
			return true
		}
	}
	return false
}

// Summary counts sessions by type and status.
type Summary struct {
	Total    int            `json:"total"`
	ByType   map[string]int `json:"byType"`
	ByStatus map[string]int `json:"byStatus"`
}

// Summarize builds a Summary with every type and status key present.
// POST: ByType and ByStatus contain zero entries for absent keys
func Summarize(sessions []Session) Summary {
	sum := Summary{
		Total:    len(sessions),
		ByType:   map[string]int{TypeIndividual: 0, TypeGroup: 0},
		ByStatus: make(map[string]int, len(ValidStatuses)),
	}
	for _, st := range ValidStatuses {
		sum.ByStatus[st] = 0
	}
	for _, s := range sessions {
		sum.ByType[s.Type]++
		sum.ByStatus[s.Status]++
	}
	return sum
}
