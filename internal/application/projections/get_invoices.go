package projections

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	invoiceStore "growfitness/internal/adapters/storage/invoice"
	"growfitness/internal/application/listutil"
	"growfitness/internal/domain/invoice"
)

// InvoiceView is an invoice with parent and coach populated.
type InvoiceView struct {
	invoice.Invoice
	Parent *UserRef `json:"parent,omitempty"`
	Coach  *UserRef `json:"coach,omitempty"`
}

// InvoiceQueryDeps holds dependencies for invoice queries.
type InvoiceQueryDeps struct {
	InvoiceStore InvoiceReader
	UserStore    UserReader
	Now          func() time.Time
}

// InvoiceFilter selects invoices for the list and the CSV export.
type InvoiceFilter struct {
	Type     string
	ParentID string
	CoachID  string
	Status   string
}

func (f InvoiceFilter) store(limit, offset int) invoiceStore.ListFilter {
	return invoiceStore.ListFilter{
		Limit:    limit,
		Offset:   offset,
		Type:     f.Type,
		ParentID: f.ParentID,
		CoachID:  f.CoachID,
		Status:   f.Status,
	}
}

// QueryListInvoices lists invoices by dueDate ascending.
func QueryListInvoices(ctx context.Context, page listutil.PageParams, filter InvoiceFilter, deps InvoiceQueryDeps) (listutil.Page[InvoiceView], error) {
	list, total, err := deps.InvoiceStore.List(ctx, filter.store(page.Limit, page.Offset()))
	if err != nil {
		return listutil.Page[InvoiceView]{}, fmt.Errorf("list invoices: %w", err)
	}
	views, err := populateInvoices(ctx, list, deps.UserStore)
	if err != nil {
		return listutil.Page[InvoiceView]{}, err
	}
	return listutil.NewPage(views, total, page), nil
}

// QueryGetInvoice returns one populated invoice.
func QueryGetInvoice(ctx context.Context, id string, deps InvoiceQueryDeps) (InvoiceView, error) {
	inv, err := deps.InvoiceStore.GetByID(ctx, id)
	if err != nil {
		return InvoiceView{}, notFound(err, invoice.ErrNotFound, "invoice")
	}
	views, err := populateInvoices(ctx, []invoice.Invoice{inv}, deps.UserStore)
	if err != nil {
		return InvoiceView{}, err
	}
	return views[0], nil
}

// FinanceSummary aggregates invoice amounts and counts.
type FinanceSummary struct {
	TotalRevenue  float64 `json:"totalRevenue"`
	PendingAmount float64 `json:"pendingAmount"`
	OverdueAmount float64 `json:"overdueAmount"`
	PaidCount     int     `json:"paidCount"`
	PendingCount  int     `json:"pendingCount"`
	OverdueCount  int     `json:"overdueCount"`
}

// QueryFinanceSummary totals every invoice.
// POST: PENDING invoices past their due date count toward both pending and overdue
func QueryFinanceSummary(ctx context.Context, deps InvoiceQueryDeps) (FinanceSummary, error) {
	list, _, err := deps.InvoiceStore.List(ctx, invoiceStore.ListFilter{})
	if err != nil {
		return FinanceSummary{}, fmt.Errorf("list invoices: %w", err)
	}
	return summarizeInvoices(list, deps.Now()), nil
}

func summarizeInvoices(list []invoice.Invoice, now time.Time) FinanceSummary {
	var sum FinanceSummary
	for _, inv := range list {
		switch inv.Status {
		case invoice.StatusPaid:
			sum.TotalRevenue += inv.TotalAmount
			sum.PaidCount++
		case invoice.StatusPending:
			sum.PendingAmount += inv.TotalAmount
			sum.PendingCount++
		}
		if inv.IsOverdue(now) {
			sum.OverdueAmount += inv.TotalAmount
			sum.OverdueCount++
		}
	}
	return sum
}

// InvoiceCSVHeader is the first row of the invoice export.
var InvoiceCSVHeader = []string{"ID", "Type", "Parent/Coach", "Total Amount", "Status", "Due Date", "Paid At"}

// ExportInvoicesCSV writes every invoice matching filter to w.
// POST: Dates are YYYY-MM-DD; missing references and paidAt render as N/A
func ExportInvoicesCSV(ctx context.Context, w io.Writer, filter InvoiceFilter, deps InvoiceQueryDeps) error {
	list, _, err := deps.InvoiceStore.List(ctx, filter.store(0, 0))
	if err != nil {
		return fmt.Errorf("list invoices: %w", err)
	}
	views, err := populateInvoices(ctx, list, deps.UserStore)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(InvoiceCSVHeader); err != nil {
		return err
	}
	for _, v := range views {
		who := v.Coach
		if v.Type == invoice.TypeParentInvoice {
			who = v.Parent
		}
		party := "N/A"
		if who != nil && who.Email != "" {
			party = who.Email
		}
		paidAt := "N/A"
		if v.PaidAt != nil {
			paidAt = v.PaidAt.UTC().Format(time.DateOnly)
		}
		row := []string{
			v.ID,
			v.Type,
			party,
			strconv.FormatFloat(v.TotalAmount, 'f', -1, 64),
			v.Status,
			v.DueDate.UTC().Format(time.DateOnly),
			paidAt,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func populateInvoices(ctx context.Context, list []invoice.Invoice, users UserReader) ([]InvoiceView, error) {
	ids := make([]string, 0, len(list)*2)
	for _, inv := range list {
		ids = append(ids, inv.ParentID, inv.CoachID)
	}
	found, err := usersByID(ctx, users, ids)
	if err != nil {
		return nil, err
	}
	views := make([]InvoiceView, len(list))
	for i, inv := range list {
		views[i] = InvoiceView{Invoice: inv, Parent: refOf(found, inv.ParentID), Coach: refOf(found, inv.CoachID)}
	}
	return views, nil
}
