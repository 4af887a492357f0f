package crm_test

import (
	"errors"
	"testing"
	"time"

	"growfitness/internal/domain/crm"
)

func TestContact_Validate(t *testing.T) {
	tests := []struct {
		name    string
		c       crm.Contact
		wantErr error
	}{
		{"linked parent", crm.Contact{ParentID: "p1", Status: crm.StatusLead}, nil},
		{"walk-in by phone", crm.Contact{Phone: "0771234567", Status: crm.StatusContacted}, nil},
		{"no identity", crm.Contact{Status: crm.StatusLead}, crm.ErrNoIdentity},
		{"bad status", crm.Contact{Name: "A", Status: "COLD"}, crm.ErrInvalidStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.c.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestContact_AddNote(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := crm.Contact{Name: "A", Status: crm.StatusLead}
	n, err := c.AddNote("n1", "Called, interested in weekend group", "admin-1", now)
	if err != nil {
		t.Fatal(err)
	}
	if n.CreatedBy != "admin-1" || len(c.Notes) != 1 || !c.UpdatedAt.Equal(now) {
		t.Errorf("after AddNote: %+v", c)
	}
	if _, err := c.AddNote("n2", "  ", "admin-1", now); !errors.Is(err, crm.ErrEmptyNote) {
		t.Errorf("blank note = %v", err)
	}
}
