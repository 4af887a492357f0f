package location

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrNotFound  = errors.New("Location not found")
	ErrEmptyName = errors.New("location name is required")
)

// Location is a venue where sessions run.
type Location struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate checks if the Location has valid data.
func (l *Location) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return ErrEmptyName
	}
	return nil
}
