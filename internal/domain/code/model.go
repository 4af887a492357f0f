package code

import (
	"errors"
	"strings"
	"time"
)

// Type constants
const (
	TypeDiscount  = "DISCOUNT"
	TypePromotion = "PROMOTION"
)

// Status constants
const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
	StatusExpired  = "EXPIRED"
)

// Domain errors
var (
	ErrNotFound          = errors.New("Code not found")
	ErrCodeTaken         = errors.New("Code already exists")
	ErrEmptyCode         = errors.New("code is required")
	ErrInvalidType       = errors.New("type must be DISCOUNT or PROMOTION")
	ErrInvalidStatus     = errors.New("status must be one of: ACTIVE, INACTIVE, EXPIRED")
	ErrMissingDiscount   = errors.New("discount codes require discountPercentage or discountAmount")
	ErrInvalidPercentage = errors.New("discountPercentage must be between 0 and 100")
	ErrNegativeAmount    = errors.New("discountAmount cannot be negative")
	ErrInvalidUsageLimit = errors.New("usageLimit must be at least 1")
)

// Code is a promo or discount code.
type Code struct {
	ID                 string     `json:"id"`
	Code               string     `json:"code"`
	Type               string     `json:"type"`
	DiscountPercentage *float64   `json:"discountPercentage,omitempty"`
	DiscountAmount     *float64   `json:"discountAmount,omitempty"`
	ExpiryDate         *time.Time `json:"expiryDate,omitempty"`
	UsageLimit         int        `json:"usageLimit"`
	UsageCount         int        `json:"usageCount"`
	Status             string     `json:"status"`
	Description        string     `json:"description,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// Normalize trims and uppercases a code string.
func Normalize(c string) string {
	return strings.ToUpper(strings.TrimSpace(c))
}

// Validate checks if the Code has valid data.
func (c *Code) Validate() error {
	if c.Code == "" {
		return ErrEmptyCode
	}
	if c.Type != TypeDiscount && c.Type != TypePromotion {
		return ErrInvalidType
	}
	if c.Status != StatusActive && c.Status != StatusInactive && c.Status != StatusExpired {
		return ErrInvalidStatus
	}
	if c.Type == TypeDiscount && c.DiscountPercentage == nil && c.DiscountAmount == nil {
		return ErrMissingDiscount
	}
	if c.DiscountPercentage != nil && (*c.DiscountPercentage < 0 || *c.DiscountPercentage > 100) {
		return ErrInvalidPercentage
	}
	if c.DiscountAmount != nil && *c.DiscountAmount < 0 {
		return ErrNegativeAmount
	}
	if c.UsageLimit < 1 {
		return ErrInvalidUsageLimit
	}
	return nil
}

// IsUsable reports whether the code can be redeemed at now.
// INVARIANT: Code fields are not mutated
func (c *Code) IsUsable(now time.Time) bool {
	if c.Status != StatusActive {
		return false
	}
	if c.ExpiryDate != nil && now.After(*c.ExpiryDate) {
		return false
	}
	return c.UsageCount < c.UsageLimit
}
