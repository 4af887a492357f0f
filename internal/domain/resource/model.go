package resource

import (
	"errors"
	"strings"
	"time"
)

// Type constants
const (
	TypeArticle  = "ARTICLE"
	TypeVideo    = "VIDEO"
	TypeDocument = "DOCUMENT"
	TypeLink     = "LINK"
)

// Audience constants
const (
	AudienceParents = "PARENTS"
	AudienceCoaches = "COACHES"
	AudienceKids    = "KIDS"
	AudienceAll     = "ALL"
)

// Domain errors
var (
	ErrNotFound        = errors.New("Resource not found")
	ErrEmptyTitle      = errors.New("resource title is required")
	ErrInvalidType     = errors.New("type must be one of: ARTICLE, VIDEO, DOCUMENT, LINK")
	ErrInvalidAudience = errors.New("targetAudience must be one of: PARENTS, COACHES, KIDS, ALL")
	ErrMissingContent  = errors.New("articles require content")
	ErrMissingFile     = errors.New("videos and documents require fileUrl or externalUrl")
	ErrMissingExternal = errors.New("links require externalUrl")
)

// Resource is a piece of learning material.
type Resource struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Type           string    `json:"type"`
	Content        string    `json:"content,omitempty"`
	FileURL        string    `json:"fileUrl,omitempty"`
	ExternalURL    string    `json:"externalUrl,omitempty"`
	TargetAudience string    `json:"targetAudience"`
	Tags           []string  `json:"tags"`
	CreatedBy      string    `json:"createdBy"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Validate checks type-specific payload rules.
func (r *Resource) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return ErrEmptyTitle
	}
	switch r.TargetAudience {
	case AudienceParents, AudienceCoaches, AudienceKids, AudienceAll:
	default:
		return ErrInvalidAudience
	}
	switch r.Type {
	case TypeArticle:
		if strings.TrimSpace(r.Content) == "" {
			return ErrMissingContent
		}
	case TypeVideo, TypeDocument:
		if r.FileURL == "" && r.ExternalURL == "" {
			return ErrMissingFile
		}
	case TypeLink:
		if r.ExternalURL == "" {
			return ErrMissingExternal
		}
	default:
		return ErrInvalidType
	}
	return nil
}
