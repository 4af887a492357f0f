package report

import (
	"errors"
	"strings"
	"time"
)

// Type constants
const (
	TypeAttendance     = "ATTENDANCE"
	TypeFinancial      = "FINANCIAL"
	TypeSessionSummary = "SESSION_SUMMARY"
	TypePerformance    = "PERFORMANCE"
	TypeCustom         = "CUSTOM"
)

// Status constants
const (
	StatusPending   = "PENDING"
	StatusGenerated = "GENERATED"
	StatusFailed    = "FAILED"
)

// ValidTypes lists every report type.
var ValidTypes = []string{TypeAttendance, TypeFinancial, TypeSessionSummary, TypePerformance, TypeCustom}

// Domain errors
var (
	ErrNotFound     = errors.New("Report not found")
	ErrEmptyTitle   = errors.New("report title is required")
	ErrInvalidType  = errors.New("type must be one of: ATTENDANCE, FINANCIAL, SESSION_SUMMARY, PERFORMANCE, CUSTOM")
	ErrInvalidRange = errors.New("startDate must not be after endDate")
	ErrNotGenerated = errors.New("Report has not been generated")
)

// Report is a saved aggregate over a date range.
type Report struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Status      string         `json:"status"`
	StartDate   *time.Time     `json:"startDate,omitempty"`
	EndDate     *time.Time     `json:"endDate,omitempty"`
	Filters     map[string]any `json:"filters,omitempty"`
	Data        map[string]any `json:"data,omitempty"`
	GeneratedAt *time.Time     `json:"generatedAt,omitempty"`
	CreatedBy   string         `json:"createdBy"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// Validate checks if the Report has valid data.
func (r *Report) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return ErrEmptyTitle
	}
	valid := false
	for _, t := range ValidTypes {
		if r.Type == t {
			valid = true
			break
		}
	}
	if !valid {
		return ErrInvalidType
	}
	if r.StartDate != nil && r.EndDate != nil && r.StartDate.After(*r.EndDate) {
		return ErrInvalidRange
	}
	return nil
}

// MarkGenerated stores the computed data.
// POST: Status is GENERATED, GeneratedAt is now
func (r *Report) MarkGenerated(data map[string]any, now time.Time) {
	r.Status = StatusGenerated
	r.Data = data
	r.GeneratedAt = &now
	r.UpdatedAt = now
}

// MarkFailed records a generation error in Data.
// POST: Status is FAILED, Data holds {error}
func (r *Report) MarkFailed(err error, now time.Time) {
	r.Status = StatusFailed
	r.Data = map[string]any{"error": err.Error()}
	r.UpdatedAt = now
}

// FilterString returns a string-valued filter, ignoring "all" and non-strings.
func (r *Report) FilterString(key string) string {
	v, ok := r.Filters[key].(string)
	if !ok || v == "all" {
		return ""
	}
	return v
}
