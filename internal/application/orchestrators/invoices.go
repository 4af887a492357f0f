package orchestrators

import (
	"context"
	"fmt"
	"time"

	"growfitness/internal/domain/audit"
	"growfitness/internal/domain/invoice"
)

// InvoiceStoreForOrchestrator defines the store interface needed by the invoice orchestrators.
type InvoiceStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (invoice.Invoice, error)
	Save(ctx context.Context, inv invoice.Invoice) error
}

// InvoiceDeps holds dependencies for the invoice orchestrators.
type InvoiceDeps struct {
	Runtime
	InvoiceStore InvoiceStoreForOrchestrator
	Notifier     Notifications
}

// InvoiceItemInput is one line of a new invoice.
type InvoiceItemInput struct {
	Description string  `json:"description" validate:"required"`
	Amount      float64 `json:"amount" validate:"min=0"`
}

// CreateInvoiceInput carries input for issuing an invoice or payout.
type CreateInvoiceInput struct {
	ActorID      string             `json:"-"`
	Type         string             `json:"type" validate:"required,oneof=PARENT_INVOICE COACH_PAYOUT"`
	ParentID     string             `json:"parentId"`
	CoachID      string             `json:"coachId"`
	Items        []InvoiceItemInput `json:"items" validate:"required,min=1,dive"`
	DueDate      time.Time          `json:"dueDate" validate:"required"`
	ExportFields map[string]any     `json:"exportFields"`
}

// UpdatePaymentStatusInput moves an invoice between PENDING, PAID and OVERDUE.
type UpdatePaymentStatusInput struct {
	ID      string     `json:"-"`
	ActorID string     `json:"-"`
	Status  string     `json:"status" validate:"required,oneof=PENDING PAID OVERDUE"`
	PaidAt  *time.Time `json:"paidAt"`
}

// ExecuteCreateInvoice issues an invoice.
// PRE: PARENT_INVOICE carries parentId; COACH_PAYOUT carries coachId
// POST: TotalAmount equals the sum of item amounts; status PENDING
func ExecuteCreateInvoice(ctx context.Context, input CreateInvoiceInput, deps InvoiceDeps) (invoice.Invoice, error) {
	now := deps.Now()
	items := make([]invoice.Item, len(input.Items))
	for i, it := range input.Items {
		items[i] = invoice.Item{Description: it.Description, Amount: it.Amount}
	}
	inv := invoice.Invoice{
		ID:           deps.GenerateID(),
		Type:         input.Type,
		Items:        items,
		TotalAmount:  invoice.Total(items),
		Status:       invoice.StatusPending,
		DueDate:      input.DueDate.UTC(),
		ExportFields: input.ExportFields,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	switch input.Type {
	case invoice.TypeParentInvoice:
		inv.ParentID = input.ParentID
	case invoice.TypeCoachPayout:
		inv.CoachID = input.CoachID
	}
	if err := inv.Validate(); err != nil {
		return invoice.Invoice{}, err
	}
	if err := deps.InvoiceStore.Save(ctx, inv); err != nil {
		return invoice.Invoice{}, fmt.Errorf("save invoice: %w", err)
	}
	deps.record(ctx, input.ActorID, "CREATE_INVOICE", audit.EntityInvoice, inv.ID, map[string]any{"type": inv.Type, "totalAmount": inv.TotalAmount})
	return inv, nil
}

// ExecuteUpdatePaymentStatus changes an invoice's payment status.
// POST: PAID sets paidAt (given or now); any other status clears it; the parent is notified
func ExecuteUpdatePaymentStatus(ctx context.Context, input UpdatePaymentStatusInput, deps InvoiceDeps) (invoice.Invoice, error) {
	inv, err := deps.InvoiceStore.GetByID(ctx, input.ID)
	if err != nil {
		return invoice.Invoice{}, lookup(err, invoice.ErrNotFound, "invoice")
	}
	now := deps.Now()
	if err := inv.SetPaymentStatus(input.Status, input.PaidAt, now); err != nil {
		return invoice.Invoice{}, err
	}
	inv.UpdatedAt = now
	if err := deps.InvoiceStore.Save(ctx, inv); err != nil {
		return invoice.Invoice{}, fmt.Errorf("save invoice: %w", err)
	}
	deps.record(ctx, input.ActorID, "UPDATE_INVOICE_PAYMENT_STATUS", audit.EntityInvoice, inv.ID, map[string]any{"status": inv.Status})

	if deps.Notifier != nil {
		deps.Notifier.SendInvoiceUpdate(ctx, inv)
	}
	return inv, nil
}
