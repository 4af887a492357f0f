package invoice

import (
	"errors"
	"time"
)

// Type constants
const (
	TypeParentInvoice = "PARENT_INVOICE"
	TypeCoachPayout   = "COACH_PAYOUT"
)

// Status constants
const (
	StatusPending = "PENDING"
	StatusPaid    = "PAID"
	StatusOverdue = "OVERDUE"
)

// Domain errors
var (
	ErrNotFound       = errors.New("Invoice not found")
	ErrInvalidType    = errors.New("type must be PARENT_INVOICE or COACH_PAYOUT")
	ErrInvalidStatus  = errors.New("status must be one of: PENDING, PAID, OVERDUE")
	ErrMissingParent  = errors.New("parent invoices require a parentId")
	ErrMissingCoach   = errors.New("coach payouts require a coachId")
	ErrNoItems        = errors.New("invoice requires at least one item")
	ErrNegativeAmount = errors.New("item amount cannot be negative")
	ErrMissingDueDate = errors.New("dueDate is required")
)

// Item is a single invoice line.
type Item struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// Invoice is either a bill to a parent or a payout to a coach.
type Invoice struct {
	ID           string         `json:"id"`
	Type         string         `json:"type"`
	ParentID     string         `json:"parentId,omitempty"`
	CoachID      string         `json:"coachId,omitempty"`
	Items        []Item         `json:"items"`
	TotalAmount  float64        `json:"totalAmount"`
	Status       string         `json:"status"`
	DueDate      time.Time      `json:"dueDate"`
	PaidAt       *time.Time     `json:"paidAt,omitempty"`
	ExportFields map[string]any `json:"exportFields,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// Validate checks if the Invoice has valid data.
// PRE: Invoice struct is populated
// POST: Returns nil if valid, error otherwise
// INVARIANT: TotalAmount equals the sum of item amounts
func (i *Invoice) Validate() error {
	switch i.Type {
	case TypeParentInvoice:
		if i.ParentID == "" {
			return ErrMissingParent
		}
	case TypeCoachPayout:
		if i.CoachID == "" {
			return ErrMissingCoach
		}
	default:
		return ErrInvalidType
	}
	if !IsValidStatus(i.Status) {
		return ErrInvalidStatus
	}
	if len(i.Items) == 0 {
		return ErrNoItems
	}
	for _, it := range i.Items {
		if it.Amount < 0 {
			return ErrNegativeAmount
		}
	}
	if i.DueDate.IsZero() {
		return ErrMissingDueDate
	}
	return nil
}

// Total returns the sum of item amounts.
func Total(items []Item) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Amount
	}
	return sum
}

// SetPaymentStatus moves the invoice to status.
// PRE: status is valid
// POST: PAID sets PaidAt (paidAt or now); other statuses clear it
func (i *Invoice) SetPaymentStatus(status string, paidAt *time.Time, now time.Time) error {
	if !IsValidStatus(status) {
		return ErrInvalidStatus
	}
	i.Status = status
	if status == StatusPaid {
		t := now
		if paidAt != nil && !paidAt.IsZero() {
			t = *paidAt
		}
		i.PaidAt = &t
	} else {
		i.PaidAt = nil
	}
	return nil
}

// IsOverdue reports whether the invoice counts as overdue at now.
// Explicitly OVERDUE invoices and unpaid invoices past their due date both count.
func (i *Invoice) IsOverdue(now time.Time) bool {
	if i.Status == StatusOverdue {
		return true
	}
	return i.Status == StatusPending && i.DueDate.Before(now)
}

// IsValidStatus reports whether status is a known invoice status.
func IsValidStatus(status string) bool {
	return status == StatusPending || status == StatusPaid || status == StatusOverdue
}
