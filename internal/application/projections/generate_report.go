package projections

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	invoiceStore "growfitness/internal/adapters/storage/invoice"
	sessionStore "growfitness/internal/adapters/storage/session"
	userStore "growfitness/internal/adapters/storage/user"
	"growfitness/internal/domain/invoice"
	"growfitness/internal/domain/report"
	"growfitness/internal/domain/session"
	"growfitness/internal/domain/user"
)

// ReportGenerator computes report data from the live stores.
type ReportGenerator struct {
	Sessions SessionReader
	Invoices InvoiceReader
	Users    UserReader
	Kids     KidReader
	Now      func() time.Time
}

// Generate dispatches on the report type.
// PRE: r.Type is one of report.ValidTypes
// POST: returns a JSON-encodable map; the report itself is not modified
func (g ReportGenerator) Generate(ctx context.Context, r report.Report) (map[string]any, error) {
	switch r.Type {
	case report.TypeAttendance:
		return g.attendance(ctx, r)
	case report.TypeFinancial:
		return g.financial(ctx, r)
	case report.TypeSessionSummary:
		return g.sessionSummary(ctx, r)
	case report.TypePerformance:
		return g.performance(ctx, r)
	case report.TypeCustom:
		return g.custom(ctx)
	default:
		return nil, report.ErrInvalidType
	}
}

func (g ReportGenerator) sessionsInRange(ctx context.Context, r report.Report) ([]session.Session, error) {
	f := sessionStore.ListFilter{
		CoachID:    r.FilterString("coachId"),
		LocationID: r.FilterString("locationId"),
		Type:       r.FilterString("sessionType"),
	}
	if r.StartDate != nil {
		f.From = *r.StartDate
	}
	if r.EndDate != nil {
		f.Until = *r.EndDate
	}
	list, _, err := g.Sessions.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return list, nil
}

func (g ReportGenerator) attendance(ctx context.Context, r report.Report) (map[string]any, error) {
	list, err := g.sessionsInRange(ctx, r)
	if err != nil {
		return nil, err
	}
	attendees := 0
	byLocation := map[string]int{}
	for _, s := range list {
		n := len(s.KidIDs())
		attendees += n
		byLocation[s.LocationID] += n
	}
	avg := 0.0
	if len(list) > 0 {
		avg = float64(attendees) / float64(len(list))
	}
	return map[string]any{
		"totalSessions":     len(list),
		"totalAttendees":    attendees,
		"averageAttendance": avg,
		"byStatus":          session.Summarize(list).ByStatus,
		"byLocation":        byLocation,
	}, nil
}

func (g ReportGenerator) financial(ctx context.Context, r report.Report) (map[string]any, error) {
	f := invoiceStore.ListFilter{Type: r.FilterString("invoiceType")}
	if r.StartDate != nil {
		f.DueFrom = *r.StartDate
	}
	if r.EndDate != nil {
		f.DueUntil = *r.EndDate
	}
	list, _, err := g.Invoices.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	now := time.Now().UTC()
	if g.Now != nil {
		now = g.Now()
	}
	var invoiced float64
	byType := map[string]float64{invoice.TypeParentInvoice: 0, invoice.TypeCoachPayout: 0}
	for _, inv := range list {
		invoiced += inv.TotalAmount
		byType[inv.Type] += inv.TotalAmount
	}
	sum := summarizeInvoices(list, now)
	return map[string]any{
		"invoiceCount":  len(list),
		"totalInvoiced": invoiced,
		"totalPaid":     sum.TotalRevenue,
		"totalPending":  sum.PendingAmount,
		"totalOverdue":  sum.OverdueAmount,
		"byType":        byType,
	}, nil
}

func (g ReportGenerator) sessionSummary(ctx context.Context, r report.Report) (map[string]any, error) {
	list, err := g.sessionsInRange(ctx, r)
	if err != nil {
		return nil, err
	}
	sum := session.Summarize(list)
	free := 0
	for _, s := range list {
		if s.IsFreeSession {
			free++
		}
	}
	return map[string]any{
		"total":        sum.Total,
		"byType":       sum.ByType,
		"byStatus":     sum.ByStatus,
		"freeSessions": free,
	}, nil
}

// CoachPerformance is one row of a PERFORMANCE report.
type CoachPerformance struct {
	CoachID   string `json:"coachId"`
	Sessions  int    `json:"sessions"`
	Completed int    `json:"completed"`
	Kids      int    `json:"kids"`
}

func (g ReportGenerator) performance(ctx context.Context, r report.Report) (map[string]any, error) {
	list, err := g.sessionsInRange(ctx, r)
	if err != nil {
		return nil, err
	}
	byCoach := map[string]*CoachPerformance{}
	kidsSeen := map[string]map[string]bool{}
	for _, s := range list {
		row, ok := byCoach[s.CoachID]
		if !ok {
			row = &CoachPerformance{CoachID: s.CoachID}
			byCoach[s.CoachID] = row
			kidsSeen[s.CoachID] = map[string]bool{}
		}
		row.Sessions++
		if s.Status == session.StatusCompleted {
			row.Completed++
		}
		for _, id := range s.KidIDs() {
			kidsSeen[s.CoachID][id] = true
		}
	}
	coaches := make([]CoachPerformance, 0, len(byCoach))
	for id, row := range byCoach {
		row.Kids = len(kidsSeen[id])
		coaches = append(coaches, *row)
	}
	sort.Slice(coaches, func(i, j int) bool {
		if coaches[i].Sessions != coaches[j].Sessions {
			return coaches[i].Sessions > coaches[j].Sessions
		}
		return coaches[i].CoachID < coaches[j].CoachID
	})
	return map[string]any{"coaches": coaches}, nil
}

func (g ReportGenerator) custom(ctx context.Context) (map[string]any, error) {
	parents, err := g.Users.Count(ctx, userStore.ListFilter{Role: user.RoleParent, ExcludeDeleted: true})
	if err != nil {
		return nil, fmt.Errorf("count parents: %w", err)
	}
	coaches, err := g.Users.Count(ctx, userStore.ListFilter{Role: user.RoleCoach, ExcludeDeleted: true})
	if err != nil {
		return nil, fmt.Errorf("count coaches: %w", err)
	}
	kids, err := g.Kids.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count kids: %w", err)
	}
	_, sessions, err := g.Sessions.List(ctx, sessionStore.ListFilter{Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}
	_, invoices, err := g.Invoices.List(ctx, invoiceStore.ListFilter{Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("count invoices: %w", err)
	}
	return map[string]any{
		"parents":  parents,
		"coaches":  coaches,
		"kids":     kids,
		"sessions": sessions,
		"invoices": invoices,
	}, nil
}

// ReportGetter fetches one report.
type ReportGetter interface {
	GetByID(ctx context.Context, id string) (report.Report, error)
}

// ExportReportCSV writes a generated report's data as Key,Value rows.
// Nested values are flattened to dotted keys; rows are sorted by key.
// PRE: the report exists
// POST: returns report.ErrNotGenerated unless the report is GENERATED
func ExportReportCSV(ctx context.Context, w io.Writer, id string, reports ReportGetter) error {
	r, err := reports.GetByID(ctx, id)
	if err != nil {
		return notFound(err, report.ErrNotFound, "report")
	}
	if r.Status != report.StatusGenerated {
		return report.ErrNotGenerated
	}

	raw, err := json.Marshal(r.Data)
	if err != nil {
		return fmt.Errorf("encode report data: %w", err)
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("decode report data: %w", err)
	}
	rows := map[string]string{}
	flatten("", data, rows)
	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Key", "Value"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, k := range keys {
		if err := cw.Write([]string{k, rows[k]}); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func flatten(prefix string, v any, out map[string]string) {
	join := func(k string) string {
		if prefix == "" {
			return k
		}
		return prefix + "." + k
	}
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			flatten(join(k), child, out)
		}
	case []any:
		for i, child := range t {
			flatten(join(strconv.Itoa(i)), child, out)
		}
	case nil:
		out[prefix] = ""
	case float64:
		out[prefix] = strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		out[prefix] = strconv.FormatBool(t)
	case string:
		out[prefix] = t
	default:
		out[prefix] = fmt.Sprint(t)
	}
}
