package orchestrators

import (
	"context"
	"fmt"
	"strings"

	"growfitness/internal/domain/audit"
	"growfitness/internal/domain/location"
)

// LocationStoreForOrchestrator defines the store interface needed by the location orchestrators.
type LocationStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (location.Location, error)
	Save(ctx context.Context, l location.Location) error
	Delete(ctx context.Context, id string) error
}

// LocationDeps holds dependencies for the location orchestrators.
type LocationDeps struct {
	Runtime
	LocationStore LocationStoreForOrchestrator
}

// CreateLocationInput carries input for creating a location.
type CreateLocationInput struct {
	ActorID  string `json:"-"`
	Name     string `json:"name" validate:"required"`
	Address  string `json:"address"`
	IsActive *bool  `json:"isActive"`
}

// UpdateLocationInput carries a partial location update.
type UpdateLocationInput struct {
	ID       string  `json:"-"`
	ActorID  string  `json:"-"`
	Name     *string `json:"name" validate:"omitempty,min=1"`
	Address  *string `json:"address"`
	IsActive *bool   `json:"isActive"`
}

// ExecuteCreateLocation creates a location; IsActive defaults to true.
func ExecuteCreateLocation(ctx context.Context, input CreateLocationInput, deps LocationDeps) (location.Location, error) {
	now := deps.Now()
	l := location.Location{
		ID:        deps.GenerateID(),
		Name:      strings.TrimSpace(input.Name),
		Address:   strings.TrimSpace(input.Address),
		IsActive:  input.IsActive == nil || *input.IsActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := l.Validate(); err != nil {
		return location.Location{}, err
	}
	if err := deps.LocationStore.Save(ctx, l); err != nil {
		return location.Location{}, fmt.Errorf("save location: %w", err)
	}
	deps.record(ctx, input.ActorID, "CREATE_LOCATION", audit.EntityLocation, l.ID, map[string]any{"name": l.Name})
	return l, nil
}

// ExecuteUpdateLocation applies a partial update.
func ExecuteUpdateLocation(ctx context.Context, input UpdateLocationInput, deps LocationDeps) (location.Location, error) {
	l, err := deps.LocationStore.GetByID(ctx, input.ID)
	if err != nil {
		return location.Location{}, lookup(err, location.ErrNotFound, "location")
	}
	if input.Name != nil {
		l.Name = strings.TrimSpace(*input.Name)
	}
	if input.Address != nil {
		l.Address = strings.TrimSpace(*input.Address)
	}
	if input.IsActive != nil {
		l.IsActive = *input.IsActive
	}
	if err := l.Validate(); err != nil {
		return location.Location{}, err
	}
	l.UpdatedAt = deps.Now()
	if err := deps.LocationStore.Save(ctx, l); err != nil {
		return location.Location{}, fmt.Errorf("save location: %w", err)
	}
	deps.record(ctx, input.ActorID, "UPDATE_LOCATION", audit.EntityLocation, l.ID, nil)
	return l, nil
}

// ExecuteDeleteLocation removes a location.
func ExecuteDeleteLocation(ctx context.Context, id, actorID string, deps LocationDeps) error {
	l, err := deps.LocationStore.GetByID(ctx, id)
	if err != nil {
		return lookup(err, location.ErrNotFound, "location")
	}
	if err := deps.LocationStore.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	deps.record(ctx, actorID, "DELETE_LOCATION", audit.EntityLocation, id, map[string]any{"name": l.Name})
	return nil
}
