package session_test

import (
	"errors"
	"testing"

	"growfitness/internal/domain/session"
)

func validGroup() session.Session {
	return session.Session{
		Type: session.TypeGroup, Status: session.StatusScheduled,
		CoachID: "c1", LocationID: "l1", Duration: 60, Capacity: 2,
		Kids: []string{"k1"},
	}
}

// TestSession_Validate tests validation of Session.
func TestSession_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *session.Session)
		wantErr error
	}{
		{"valid group", func(s *session.Session) {}, nil},
		{"valid individual", func(s *session.Session) {
			s.Type = session.TypeIndividual
			s.Kids = nil
			s.KidID = "k1"
			s.Capacity = 1
		}, nil},
		{"group without kids", func(s *session.Session) { s.Kids = nil }, session.ErrGroupNeedsKids},
		{"individual without kid", func(s *session.Session) { s.Type = session.TypeIndividual; s.Kids = nil }, session.ErrIndividualNeedsKid},
		{"over capacity", func(s *session.Session) { s.Kids = []string{"a", "b", "c"} }, session.ErrCapacityExceeded},
		{"bad type", func(s *session.Session) { s.Type = "PAIR" }, session.ErrInvalidType},
		{"bad status", func(s *session.Session) { s.Status = "DONE" }, session.ErrInvalidStatus},
		{"missing coach", func(s *session.Session) { s.CoachID = "" }, session.ErrMissingRefs},
		{"zero duration", func(s *session.Session) { s.Duration = 0 }, session.ErrInvalidDuration},
		{"zero capacity", func(s *session.Session) { s.Capacity = 0 }, session.ErrInvalidCapacity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validGroup()
			tt.mutate(&s)
			if err := s.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultCapacity(t *testing.T) {
	if got := session.DefaultCapacity(session.TypeGroup); got != 10 {
		t.Errorf("group = %d", got)
	}
	if got := session.DefaultCapacity(session.TypeIndividual); got != 1 {
		t.Errorf("individual = %d", got)
	}
}

func TestSummarize(t *testing.T) {
	sum := session.Summarize([]session.Session{
		{Type: session.TypeGroup, Status: session.StatusScheduled},
		{Type: session.TypeGroup, Status: session.StatusCompleted},
		{Type: session.TypeIndividual, Status: session.StatusScheduled},
	})
	if sum.Total != 3 {
		t.Errorf("Total = %d", sum.Total)
	}
	if sum.ByType[session.TypeGroup] != 2 || sum.ByType[session.TypeIndividual] != 1 {
		t.Errorf("ByType = %v", sum.ByType)
	}
	if sum.ByStatus[session.StatusCancelled] != 0 {
		t.Errorf("missing zero key: %v", sum.ByStatus)
	}
	if _, ok := sum.ByStatus[session.StatusConfirmed]; !ok {
		t.Error("CONFIRMED key should be present")
	}

	empty := session.Summarize(nil)
	if empty.Total != 0 || len(empty.ByStatus) != 4 || len(empty.ByType) != 2 {
		t.Errorf("empty summary = %+v", empty)
	}
}

func TestKidIDs(t *testing.T) {
	s := session.Session{Kids: []string{"a", "b"}, KidID: "c"}
	if got := s.KidIDs(); len(got) != 3 {
		t.Errorf("KidIDs() = %v", got)
	}
}
