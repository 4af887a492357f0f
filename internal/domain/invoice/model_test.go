package invoice_test

import (
	"errors"
	"testing"
	"time"

	"growfitness/internal/domain/invoice"
)

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// TestInvoice_Validate tests validation of Invoice.
func TestInvoice_Validate(t *testing.T) {
	base := func() invoice.Invoice {
		return invoice.Invoice{
			Type: invoice.TypeParentInvoice, ParentID: "p1", Status: invoice.StatusPending,
			Items: []invoice.Item{{Description: "Term fee", Amount: 5000}}, DueDate: fixedTime,
		}
	}
	tests := []struct {
		name    string
		mutate  func(i *invoice.Invoice)
		wantErr error
	}{
		{"valid parent invoice", func(i *invoice.Invoice) {}, nil},
		{"valid coach payout", func(i *invoice.Invoice) { i.Type = invoice.TypeCoachPayout; i.ParentID = ""; i.CoachID = "c1" }, nil},
		{"parent invoice without parent", func(i *invoice.Invoice) { i.ParentID = "" }, invoice.ErrMissingParent},
		{"payout without coach", func(i *invoice.Invoice) { i.Type = invoice.TypeCoachPayout }, invoice.ErrMissingCoach},
		{"bad type", func(i *invoice.Invoice) { i.Type = "REFUND" }, invoice.ErrInvalidType},
		{"no items", func(i *invoice.Invoice) { i.Items = nil }, invoice.ErrNoItems},
		{"negative item", func(i *invoice.Invoice) { i.Items[0].Amount = -1 }, invoice.ErrNegativeAmount},
		{"no due date", func(i *invoice.Invoice) { i.DueDate = time.Time{} }, invoice.ErrMissingDueDate},
		{"bad status", func(i *invoice.Invoice) { i.Status = "VOID" }, invoice.ErrInvalidStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := base()
			tt.mutate(&inv)
			if err := inv.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTotal(t *testing.T) {
	got := invoice.Total([]invoice.Item{{Amount: 1500}, {Amount: 2500.5}})
	if got != 4000.5 {
		t.Errorf("Total = %v", got)
	}
}

func TestSetPaymentStatus(t *testing.T) {
	inv := invoice.Invoice{Status: invoice.StatusPending}
	if err := inv.SetPaymentStatus(invoice.StatusPaid, nil, fixedTime); err != nil {
		t.Fatal(err)
	}
	if inv.PaidAt == nil || !inv.PaidAt.Equal(fixedTime) {
		t.Fatalf("PaidAt = %v", inv.PaidAt)
	}

	explicit := fixedTime.Add(-48 * time.Hour)
	_ = inv.SetPaymentStatus(invoice.StatusPaid, &explicit, fixedTime)
	if !inv.PaidAt.Equal(explicit) {
		t.Errorf("explicit PaidAt ignored: %v", inv.PaidAt)
	}

	_ = inv.SetPaymentStatus(invoice.StatusPending, nil, fixedTime)
	if inv.PaidAt != nil {
		t.Error("PaidAt should clear when no longer paid")
	}

	if err := inv.SetPaymentStatus("VOID", nil, fixedTime); !errors.Is(err, invoice.ErrInvalidStatus) {
		t.Errorf("invalid status = %v", err)
	}
}

func TestIsOverdue(t *testing.T) {
	tests := []struct {
		name string
		inv  invoice.Invoice
		want bool
	}{
		{"pending past due", invoice.Invoice{Status: invoice.StatusPending, DueDate: fixedTime.Add(-time.Hour)}, true},
		{"pending not due", invoice.Invoice{Status: invoice.StatusPending, DueDate: fixedTime.Add(time.Hour)}, false},
		{"marked overdue", invoice.Invoice{Status: invoice.StatusOverdue, DueDate: fixedTime.Add(time.Hour)}, true},
		{"paid past due", invoice.Invoice{Status: invoice.StatusPaid, DueDate: fixedTime.Add(-time.Hour)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.inv.IsOverdue(fixedTime); got != tt.want {
				t.Errorf("IsOverdue() = %v, want %v", got, tt.want)
			}
		})
	}
}
