package kid

import (
	"errors"
	"strings"
	"time"
)

// Session type preferences mirror session types.
const (
	SessionTypeIndividual = "INDIVIDUAL"
	SessionTypeGroup      = "GROUP"
)

// Domain errors
var (
	ErrNotFound           = errors.New("Kid not found")
	ErrEmptyName          = errors.New("kid name is required")
	ErrInvalidSessionType = errors.New("sessionType must be INDIVIDUAL or GROUP")
	ErrInvalidBirthDate   = errors.New("birthDate must be YYYY-MM-DD and not in the future")
)

// BirthDateLayout is the wire format for birth dates.
const BirthDateLayout = "2006-01-02"

// Kid holds state for the Kid concept.
// ParentID is empty once a kid has been unlinked.
type Kid struct {
	ID                string    `json:"id"`
	ParentID          string    `json:"parentId,omitempty"`
	Name              string    `json:"name"`
	Gender            string    `json:"gender,omitempty"`
	BirthDate         string    `json:"birthDate,omitempty"`
	Goal              string    `json:"goal,omitempty"`
	CurrentlyInSports bool      `json:"currentlyInSports"`
	MedicalConditions []string  `json:"medicalConditions"`
	SessionType       string    `json:"sessionType"`
	Achievements      []string  `json:"achievements"`
	Milestones        []string  `json:"milestones"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Validate checks if the Kid has valid data.
// PRE: Kid struct is populated
// POST: Returns nil if valid, error otherwise
func (k *Kid) Validate(now time.Time) error {
	if strings.TrimSpace(k.Name) == "" {
		return ErrEmptyName
	}
	if k.SessionType != SessionTypeIndividual && k.SessionType != SessionTypeGroup {
		return ErrInvalidSessionType
	}
	if k.BirthDate != "" {
		d, err := time.Parse(BirthDateLayout, k.BirthDate)
		if err != nil || d.After(now) {
			return ErrInvalidBirthDate
		}
	}
	return nil
}

// Normalize replaces nil slices so they serialize as [].
// POST: MedicalConditions, Achievements and Milestones are non-nil
func (k *Kid) Normalize() {
	if k.MedicalConditions == nil {
		k.MedicalConditions = []string{}
	}
	if k.Achievements == nil {
		k.Achievements = []string{}
	}
	if k.Milestones == nil {
		k.Milestones = []string{}
	}
}
