package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"growfitness/internal/domain/audit"
	"growfitness/internal/domain/report"
)

// ReportStoreForOrchestrator defines the store interface needed by the report orchestrators.
type ReportStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (report.Report, error)
	Save(ctx context.Context, r report.Report) error
	Delete(ctx context.Context, id string) error
}

// ReportGenerator computes the data for a report.
type ReportGenerator interface {
	Generate(ctx context.Context, r report.Report) (map[string]any, error)
}

// ReportDeps holds dependencies for the report orchestrators.
type ReportDeps struct {
	Runtime
	ReportStore ReportStoreForOrchestrator
	Generator   ReportGenerator
}

// CreateReportInput carries input for creating or generating a report.
type CreateReportInput struct {
	ActorID     string         `json:"-"`
	Type        string         `json:"type" validate:"required,oneof=ATTENDANCE FINANCIAL SESSION_SUMMARY PERFORMANCE CUSTOM"`
	Title       string         `json:"title" validate:"required"`
	Description string         `json:"description"`
	StartDate   *time.Time     `json:"startDate"`
	EndDate     *time.Time     `json:"endDate"`
	Filters     map[string]any `json:"filters"`
}

func newReport(input CreateReportInput, deps ReportDeps) (report.Report, error) {
	now := deps.Now()
	r := report.Report{
		ID:          deps.GenerateID(),
		Type:        input.Type,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Status:      report.StatusPending,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Filters:     input.Filters,
		CreatedBy:   input.ActorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return r, r.Validate()
}

// ExecuteCreateReport saves a PENDING report definition.
func ExecuteCreateReport(ctx context.Context, input CreateReportInput, deps ReportDeps) (report.Report, error) {
	r, err := newReport(input, deps)
	if err != nil {
		return report.Report{}, err
	}
	if err := deps.ReportStore.Save(ctx, r); err != nil {
		return report.Report{}, fmt.Errorf("save report: %w", err)
	}
	deps.record(ctx, input.ActorID, "CREATE_REPORT", audit.EntityReport, r.ID, map[string]any{"type": r.Type})
	return r, nil
}

// ExecuteGenerateReport creates a report and computes its data immediately.
// POST: Status is GENERATED with data, or FAILED with data {error}
// INVARIANT: a generation failure is stored on the report, not returned
func ExecuteGenerateReport(ctx context.Context, input CreateReportInput, deps ReportDeps) (report.Report, error) {
	r, err := newReport(input, deps)
	if err != nil {
		return report.Report{}, err
	}
	data, genErr := deps.Generator.Generate(ctx, r)
	if genErr != nil {
		slog.Error("report_generation_failed", "report_id", r.ID, "type", r.Type, "error", genErr)
		r.MarkFailed(genErr, deps.Now())
	} else {
		r.MarkGenerated(data, deps.Now())
	}
	if err := deps.ReportStore.Save(ctx, r); err != nil {
		return report.Report{}, fmt.Errorf("save report: %w", err)
	}
	deps.record(ctx, input.ActorID, "GENERATE_REPORT", audit.EntityReport, r.ID, map[string]any{"type": r.Type, "status": r.Status})
	return r, nil
}

// ExecuteDeleteReport removes a report.
func ExecuteDeleteReport(ctx context.Context, id, actorID string, deps ReportDeps) error {
	if _, err := deps.ReportStore.GetByID(ctx, id); err != nil {
		return lookup(err, report.ErrNotFound, "report")
	}
	if err := deps.ReportStore.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	deps.record(ctx, actorID, "DELETE_REPORT", audit.EntityReport, id, nil)
	return nil
}
