package report_test

import (
	"errors"
	"testing"
	"time"

	"growfitness/internal/domain/report"
)

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestReport_Validate(t *testing.T) {
	start := fixedTime
	end := fixedTime.Add(-time.Hour)
	tests := []struct {
		name    string
		r       report.Report
		wantErr error
	}{
		{"valid", report.Report{Title: "March", Type: report.TypeFinancial}, nil},
		{"empty title", report.Report{Type: report.TypeFinancial}, report.ErrEmptyTitle},
		{"bad type", report.Report{Title: "x", Type: "WEEKLY"}, report.ErrInvalidType},
		{"inverted range", report.Report{Title: "x", Type: report.TypeAttendance, StartDate: &start, EndDate: &end}, report.ErrInvalidRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.r.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestReport_Lifecycle(t *testing.T) {
	r := report.Report{Status: report.StatusPending}
	r.MarkGenerated(map[string]any{"total": 3}, fixedTime)
	if r.Status != report.StatusGenerated || r.GeneratedAt == nil || !r.GeneratedAt.Equal(fixedTime) {
		t.Fatalf("after MarkGenerated: %+v", r)
	}
	r.MarkFailed(errors.New("boom"), fixedTime)
	if r.Status != report.StatusFailed || r.Data["error"] != "boom" {
		t.Errorf("after MarkFailed: %+v", r)
	}
}

func TestReport_FilterString(t *testing.T) {
	r := report.Report{Filters: map[string]any{"coachId": "c1", "locationId": "all", "n": 3}}
	if got := r.FilterString("coachId"); got != "c1" {
		t.Errorf("coachId = %q", got)
	}
	if got := r.FilterString("locationId"); got != "" {
		t.Errorf("all should be ignored, got %q", got)
	}
	if got := r.FilterString("n"); got != "" {
		t.Errorf("non-string should be ignored, got %q", got)
	}
	if got := r.FilterString("missing"); got != "" {
		t.Errorf("missing = %q", got)
	}
}
