package banner

import (
	"errors"
	"strings"
	"time"
)

// Target audience constants
const (
	AudienceParent = "PARENT"
	AudienceCoach  = "COACH"
	AudienceAll    = "ALL"
)

// Domain errors
var (
	ErrNotFound        = errors.New("Banner not found")
	ErrEmptyImageURL   = errors.New("imageUrl is required")
	ErrNegativeOrder   = errors.New("order must be zero or greater")
	ErrInvalidAudience = errors.New("targetAudience must be one of: PARENT, COACH, ALL")
	ErrEmptyReorder    = errors.New("bannerIds must not be empty")
	ErrDuplicateID     = errors.New("bannerIds must not contain duplicates")
)

// Banner is a promotional image shown in the client apps.
type Banner struct {
	ID             string    `json:"id"`
	ImageURL       string    `json:"imageUrl"`
	Active         bool      `json:"active"`
	Order          int       `json:"order"`
	TargetAudience string    `json:"targetAudience"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Validate checks if the Banner has valid data.
func (b *Banner) Validate() error {
	if strings.TrimSpace(b.ImageURL) == "" {
		return ErrEmptyImageURL
	}
	if b.Order < 0 {
		return ErrNegativeOrder
	}
	if !IsValidAudience(b.TargetAudience) {
		return ErrInvalidAudience
	}
	return nil
}

// IsValidAudience reports whether a is a known banner audience.
func IsValidAudience(a string) bool {
	return a == AudienceParent || a == AudienceCoach || a == AudienceAll
}

// ReorderPositions maps each banner id to its index in ids.
// PRE: ids is the full desired sequence
// POST: Returns id -> order with orders 0..len(ids)-1
func ReorderPositions(ids []string) (map[string]int, error) {
	if len(ids) == 0 {
		return nil, ErrEmptyReorder
	}
	pos := make(map[string]int, len(ids))
	for i, id := range ids {
		if _, dup := pos[id]; dup {
			return nil, ErrDuplicateID
		}
		pos[id] = i
	}
	return pos, nil
}
