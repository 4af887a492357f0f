package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"growfitness/internal/domain/audit"
	"growfitness/internal/domain/banner"
)

// BannerStoreForOrchestrator defines the store interface needed by the banner orchestrators.
type BannerStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (banner.Banner, error)
	Save(ctx context.Context, b banner.Banner) error
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, positions map[string]int, now time.Time) error
}

// BannerDeps holds dependencies for the banner orchestrators.
type BannerDeps struct {
	Runtime
	BannerStore BannerStoreForOrchestrator
}

// CreateBannerInput carries input for creating a banner.
type CreateBannerInput struct {
	ActorID        string `json:"-"`
	ImageURL       string `json:"imageUrl" validate:"required,url"`
	Active         *bool  `json:"active"`
	Order          int    `json:"order" validate:"min=0"`
	TargetAudience string `json:"targetAudience" validate:"required,oneof=PARENT COACH ALL"`
}

// UpdateBannerInput carries a partial banner update.
type UpdateBannerInput struct {
	ID             string  `json:"-"`
	ActorID        string  `json:"-"`
	ImageURL       *string `json:"imageUrl" validate:"omitempty,url"`
	Active         *bool   `json:"active"`
	Order          *int    `json:"order" validate:"omitempty,min=0"`
	TargetAudience *string `json:"targetAudience" validate:"omitempty,oneof=PARENT COACH ALL"`
}

// ReorderBannersInput lists banner ids in their new display order.
type ReorderBannersInput struct {
	ActorID   string   `json:"-"`
	BannerIDs []string `json:"bannerIds" validate:"required,min=1,dive,required"`
}

// ExecuteCreateBanner creates a banner; Active defaults to true.
func ExecuteCreateBanner(ctx context.Context, input CreateBannerInput, deps BannerDeps) (banner.Banner, error) {
	now := deps.Now()
	b := banner.Banner{
		ID:             deps.GenerateID(),
		ImageURL:       strings.TrimSpace(input.ImageURL),
		Active:         input.Active == nil || *input.Active,
		Order:          input.Order,
		TargetAudience: input.TargetAudience,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := b.Validate(); err != nil {
		return banner.Banner{}, err
	}
	if err := deps.BannerStore.Save(ctx, b); err != nil {
		return banner.Banner{}, fmt.Errorf("save banner: %w", err)
	}
	deps.record(ctx, input.ActorID, "CREATE_BANNER", audit.EntityBanner, b.ID, nil)
	return b, nil
}

// ExecuteUpdateBanner applies a partial update.
func ExecuteUpdateBanner(ctx context.Context, input UpdateBannerInput, deps BannerDeps) (banner.Banner, error) {
	b, err := deps.BannerStore.GetByID(ctx, input.ID)
	if err != nil {
		return banner.Banner{}, lookup(err, banner.ErrNotFound, "banner")
	}
	if input.ImageURL != nil {
		b.ImageURL = strings.TrimSpace(*input.ImageURL)
	}
	if input.Active != nil {
		b.Active = *input.Active
	}
	if input.Order != nil {
		b.Order = *input.Order
	}
	if input.TargetAudience != nil {
		b.TargetAudience = *input.TargetAudience
	}
	if err := b.Validate(); err != nil {
		return banner.Banner{}, err
	}
	b.UpdatedAt = deps.Now()
	if err := deps.BannerStore.Save(ctx, b); err != nil {
		return banner.Banner{}, fmt.Errorf("save banner: %w", err)
	}
	deps.record(ctx, input.ActorID, "UPDATE_BANNER", audit.EntityBanner, b.ID, nil)
	return b, nil
}

// ExecuteDeleteBanner removes a banner.
func ExecuteDeleteBanner(ctx context.Context, id, actorID string, deps BannerDeps) error {
	if _, err := deps.BannerStore.GetByID(ctx, id); err != nil {
		return lookup(err, banner.ErrNotFound, "banner")
	}
	if err := deps.BannerStore.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete banner: %w", err)
	}
	deps.record(ctx, actorID, "DELETE_BANNER", audit.EntityBanner, id, nil)
	return nil
}

// ExecuteReorderBanners sets order = index for each listed banner.
// PRE: every id exists
// POST: N banners get orders 0..N-1, or nothing changes when an id is unknown
func ExecuteReorderBanners(ctx context.Context, input ReorderBannersInput, deps BannerDeps) error {
	positions, err := banner.ReorderPositions(input.BannerIDs)
	if err != nil {
		return err
	}
	if err := deps.BannerStore.Reorder(ctx, positions, deps.Now()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return banner.ErrNotFound
		}
		return fmt.Errorf("reorder banners: %w", err)
	}
	deps.record(ctx, input.ActorID, "REORDER_BANNERS", audit.EntityBanner, audit.EntityIDMultiple, map[string]any{"bannerIds": input.BannerIDs})
	return nil
}
