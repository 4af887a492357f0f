package audit_test

import (
	"errors"
	"testing"
	"time"

	"growfitness/internal/domain/audit"
)

func TestNewEntry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e := audit.NewEntry("a1", now, "admin-1", "CREATE_KID", audit.EntityKid, "k1").
		WithMetadata(map[string]any{"name": "Ashen"})
	if err := e.Validate(); err != nil {
		t.Fatal(err)
	}
	if !e.Timestamp.Equal(now) || e.Metadata["name"] != "Ashen" {
		t.Errorf("entry = %+v", e)
	}
	if err := (audit.Entry{Action: "X"}).Validate(); !errors.Is(err, audit.ErrMissingActor) {
		t.Errorf("missing actor = %v", err)
	}
	if err := (audit.Entry{ActorID: "a"}).Validate(); !errors.Is(err, audit.ErrMissingAction) {
		t.Errorf("missing action = %v", err)
	}
}
