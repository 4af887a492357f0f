package crm

import (
	"errors"
	"strings"
	"time"
)

// Status constants
const (
	StatusLead      = "LEAD"
	StatusContacted = "CONTACTED"
	StatusQualified = "QUALIFIED"
	StatusConverted = "CONVERTED"
	StatusLost      = "LOST"
)

var validStatuses = []string{StatusLead, StatusContacted, StatusQualified, StatusConverted, StatusLost}

// Domain errors
var (
	ErrNotFound      = errors.New("CRM contact not found")
	ErrInvalidStatus = errors.New("status must be one of: LEAD, CONTACTED, QUALIFIED, CONVERTED, LOST")
	ErrNoIdentity    = errors.New("contact requires a parentId, name, email or phone")
	ErrEmptyNote     = errors.New("note content is required")
)

// Note is a timestamped comment on a contact.
type Note struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// Contact is a sales-pipeline record, optionally tied to a parent user.
type Contact struct {
	ID        string         `json:"id"`
	ParentID  string         `json:"parentId,omitempty"`
	Name      string         `json:"name,omitempty"`
	Email     string         `json:"email,omitempty"`
	Phone     string         `json:"phone,omitempty"`
	Status    string         `json:"status"`
	Source    string         `json:"source,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Notes     []Note         `json:"notes"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// Validate checks if the Contact has valid data.
func (c *Contact) Validate() error {
	if c.ParentID == "" && strings.TrimSpace(c.Name) == "" && c.Email == "" && c.Phone == "" {
		return ErrNoIdentity
	}
	for _, s := range validStatuses {
		if c.Status == s {
			return nil
		}
	}
	return ErrInvalidStatus
}

// AddNote appends a note.
// PRE: content is non-blank
// POST: Notes grows by one
func (c *Contact) AddNote(id, content, author string, now time.Time) (Note, error) {
	if strings.TrimSpace(content) == "" {
		return Note{}, ErrEmptyNote
	}
	n := Note{ID: id, Content: content, CreatedBy: author, CreatedAt: now}
	c.Notes = append(c.Notes, n)
	c.UpdatedAt = now
	return n, nil
}
