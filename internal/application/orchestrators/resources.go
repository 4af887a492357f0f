package orchestrators

import (
	"context"
	"fmt"
	"strings"

	"growfitness/internal/domain/audit"
	"growfitness/internal/domain/resource"
)

// ResourceStoreForOrchestrator defines the store interface needed by the resource orchestrators.
type ResourceStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (resource.Resource, error)
	Save(ctx context.Context, r resource.Resource) error
	Delete(ctx context.Context, id string) error
}

// ResourceDeps holds dependencies for the resource orchestrators.
type ResourceDeps struct {
	Runtime
	ResourceStore ResourceStoreForOrchestrator
}

// CreateResourceInput carries input for publishing a resource.
type CreateResourceInput struct {
	ActorID        string   `json:"-"`
	Title          string   `json:"title" validate:"required"`
	Description    string   `json:"description"`
	Type           string   `json:"type" validate:"required,oneof=ARTICLE VIDEO DOCUMENT LINK"`
	Content        string   `json:"content"`
	FileURL        string   `json:"fileUrl" validate:"omitempty,url"`
	ExternalURL    string   `json:"externalUrl" validate:"omitempty,url"`
	TargetAudience string   `json:"targetAudience" validate:"required,oneof=PARENTS COACHES KIDS ALL"`
	Tags           []string `json:"tags"`
}

// UpdateResourceInput carries a partial resource update.
type UpdateResourceInput struct {
	ID             string    `json:"-"`
	ActorID        string    `json:"-"`
	Title          *string   `json:"title" validate:"omitempty,min=1"`
	Description    *string   `json:"description"`
	Type           *string   `json:"type" validate:"omitempty,oneof=ARTICLE VIDEO DOCUMENT LINK"`
	Content        *string   `json:"content"`
	FileURL        *string   `json:"fileUrl" validate:"omitempty,url"`
	ExternalURL    *string   `json:"externalUrl" validate:"omitempty,url"`
	TargetAudience *string   `json:"targetAudience" validate:"omitempty,oneof=PARENTS COACHES KIDS ALL"`
	Tags           *[]string `json:"tags"`
}

// ExecuteCreateResource publishes a resource.
// PRE: the type-specific payload (content, fileUrl or externalUrl) is present
func ExecuteCreateResource(ctx context.Context, input CreateResourceInput, deps ResourceDeps) (resource.Resource, error) {
	now := deps.Now()
	r := resource.Resource{
		ID:             deps.GenerateID(),
		Title:          strings.TrimSpace(input.Title),
		Description:    input.Description,
		Type:           input.Type,
		Content:        input.Content,
		FileURL:        input.FileURL,
		ExternalURL:    input.ExternalURL,
		TargetAudience: input.TargetAudience,
		Tags:           input.Tags,
		CreatedBy:      input.ActorID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
	if err := r.Validate(); err != nil {
		return resource.Resource{}, err
	}
	if err := deps.ResourceStore.Save(ctx, r); err != nil {
		return resource.Resource{}, fmt.Errorf("save resource: %w", err)
	}
	deps.record(ctx, input.ActorID, "CREATE_RESOURCE", audit.EntityResource, r.ID, map[string]any{"type": r.Type})
	return r, nil
}

// ExecuteUpdateResource applies a partial update; type rules hold on the merged resource.
func ExecuteUpdateResource(ctx context.Context, input UpdateResourceInput, deps ResourceDeps) (resource.Resource, error) {
	r, err := deps.ResourceStore.GetByID(ctx, input.ID)
	if err != nil {
		return resource.Resource{}, lookup(err, resource.ErrNotFound, "resource")
	}
	if input.Title != nil {
		r.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		r.Description = *input.Description
	}
	if input.Type != nil {
		r.Type = *input.Type
	}
	if input.Content != nil {
		r.Content = *input.Content
	}
	if input.FileURL != nil {
		r.FileURL = *input.FileURL
	}
	if input.ExternalURL != nil {
		r.ExternalURL = *input.ExternalURL
	}
	if input.TargetAudience != nil {
		r.TargetAudience = *input.TargetAudience
	}
	if input.Tags != nil {
		r.Tags = *input.Tags
	}
	if err := r.Validate(); err != nil {
		return resource.Resource{}, err
	}
	r.UpdatedAt = deps.Now()
	if err := deps.ResourceStore.Save(ctx, r); err != nil {
		return resource.Resource{}, fmt.Errorf("save resource: %w", err)
	}
	deps.record(ctx, input.ActorID, "UPDATE_RESOURCE", audit.EntityResource, r.ID, nil)
	return r, nil
}

// ExecuteDeleteResource removes a resource.
func ExecuteDeleteResource(ctx context.Context, id, actorID string, deps ResourceDeps) error {
	if _, err := deps.ResourceStore.GetByID(ctx, id); err != nil {
		return lookup(err, resource.ErrNotFound, "resource")
	}
	if err := deps.ResourceStore.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	deps.record(ctx, actorID, "DELETE_RESOURCE", audit.EntityResource, id, nil)
	return nil
}
