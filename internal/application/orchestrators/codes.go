package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"growfitness/internal/domain/audit"
	"growfitness/internal/domain/code"
)

// CodeStoreForOrchestrator defines the store interface needed by the code orchestrators.
type CodeStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (code.Code, error)
	GetByCode(ctx context.Context, c string) (code.Code, error)
	Save(ctx context.Context, c code.Code) error
	Delete(ctx context.Context, id string) error
}

// CodeDeps holds dependencies for the code orchestrators.
type CodeDeps struct {
	Runtime
	CodeStore CodeStoreForOrchestrator
}

// CreateCodeInput carries input for creating a promo code.
type CreateCodeInput struct {
	ActorID            string     `json:"-"`
	Code               string     `json:"code" validate:"required"`
	Type               string     `json:"type" validate:"required,oneof=DISCOUNT PROMOTION"`
	DiscountPercentage *float64   `json:"discountPercentage" validate:"omitempty,min=0,max=100"`
	DiscountAmount     *float64   `json:"discountAmount" validate:"omitempty,min=0"`
	ExpiryDate         *time.Time `json:"expiryDate"`
	UsageLimit         *int       `json:"usageLimit" validate:"omitempty,min=1"`
	Status             string     `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE EXPIRED"`
	Description        string     `json:"description"`
}

// UpdateCodeInput carries a partial code update.
type UpdateCodeInput struct {
	ID                 string     `json:"-"`
	ActorID            string     `json:"-"`
	Code               *string    `json:"code" validate:"omitempty,min=1"`
	Type               *string    `json:"type" validate:"omitempty,oneof=DISCOUNT PROMOTION"`
	DiscountPercentage *float64   `json:"discountPercentage" validate:"omitempty,min=0,max=100"`
	DiscountAmount     *float64   `json:"discountAmount" validate:"omitempty,min=0"`
	ExpiryDate         *time.Time `json:"expiryDate"`
	UsageLimit         *int       `json:"usageLimit" validate:"omitempty,min=1"`
	Status             *string    `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE EXPIRED"`
	Description        *string    `json:"description"`
}

// ExecuteCreateCode creates a code; the code string is trimmed and uppercased.
// PRE: the normalized code is not taken
// POST: Status ACTIVE and UsageLimit 1 when omitted
func ExecuteCreateCode(ctx context.Context, input CreateCodeInput, deps CodeDeps) (code.Code, error) {
	now := deps.Now()
	c := code.Code{
		ID:                 deps.GenerateID(),
		Code:               code.Normalize(input.Code),
		Type:               input.Type,
		DiscountPercentage: input.DiscountPercentage,
		DiscountAmount:     input.DiscountAmount,
		ExpiryDate:         input.ExpiryDate,
		UsageLimit:         1,
		Status:             input.Status,
		Description:        input.Description,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if input.UsageLimit != nil {
		c.UsageLimit = *input.UsageLimit
	}
	if c.Status == "" {
		c.Status = code.StatusActive
	}
	if err := c.Validate(); err != nil {
		return code.Code{}, err
	}
	if err := ensureCodeFree(ctx, deps.CodeStore, c.Code, ""); err != nil {
		return code.Code{}, err
	}
	if err := deps.CodeStore.Save(ctx, c); err != nil {
		return code.Code{}, fmt.Errorf("save code: %w", err)
	}
	deps.record(ctx, input.ActorID, "CREATE_CODE", audit.EntityCode, c.ID, map[string]any{"code": c.Code})
	return c, nil
}

// ExecuteUpdateCode applies a partial update.
func ExecuteUpdateCode(ctx context.Context, input UpdateCodeInput, deps CodeDeps) (code.Code, error) {
	c, err := deps.CodeStore.GetByID(ctx, input.ID)
	if err != nil {
		return code.Code{}, lookup(err, code.ErrNotFound, "code")
	}
	if input.Code != nil {
		normalized := code.Normalize(*input.Code)
		if normalized != c.Code {
			if err := ensureCodeFree(ctx, deps.CodeStore, normalized, c.ID); err != nil {
				return code.Code{}, err
			}
			c.Code = normalized
		}
	}
	if input.Type != nil {
		c.Type = *input.Type
	}
	if input.DiscountPercentage != nil {
		c.DiscountPercentage = input.DiscountPercentage
	}
	if input.DiscountAmount != nil {
		c.DiscountAmount = input.DiscountAmount
	}
	if input.ExpiryDate != nil {
		c.ExpiryDate = input.ExpiryDate
	}
	if input.UsageLimit != nil {
		c.UsageLimit = *input.UsageLimit
	}
	if input.Status != nil {
		c.Status = *input.Status
	}
	if input.Description != nil {
		c.Description = *input.Description
	}
	if err := c.Validate(); err != nil {
		return code.Code{}, err
	}
	c.UpdatedAt = deps.Now()
	if err := deps.CodeStore.Save(ctx, c); err != nil {
		return code.Code{}, fmt.Errorf("save code: %w", err)
	}
	deps.record(ctx, input.ActorID, "UPDATE_CODE", audit.EntityCode, c.ID, nil)
	return c, nil
}

// ExecuteDeleteCode removes a code.
func ExecuteDeleteCode(ctx context.Context, id, actorID string, deps CodeDeps) error {
	c, err := deps.CodeStore.GetByID(ctx, id)
	if err != nil {
		return lookup(err, code.ErrNotFound, "code")
	}
	if err := deps.CodeStore.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete code: %w", err)
	}
	deps.record(ctx, actorID, "DELETE_CODE", audit.EntityCode, id, map[string]any{"code": c.Code})
	return nil
}

func ensureCodeFree(ctx context.Context, store CodeStoreForOrchestrator, c, selfID string) error {
	existing, err := store.GetByCode(ctx, c)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("check code: %w", err)
	}
	if existing.ID != selfID {
		return code.ErrCodeTaken
	}
	return nil
}
