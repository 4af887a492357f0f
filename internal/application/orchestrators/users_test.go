package orchestrators

import (
	"context"
	"errors"
	"testing"

	"growfitness/internal/domain/kid"
	"growfitness/internal/domain/user"
)

func TestExecuteCreateParent(t *testing.T) {
	users := newMockUserStore()
	auditStore := &mockAuditStore{}
	deps := UserDeps{Runtime: newRuntime(auditStore), UserStore: users}

	res, err := ExecuteCreateParent(context.Background(), CreateParentInput{
		ActorID:  "admin-1",
		Name:     " Jane Doe ",
		Email:    "Jane@Example.com",
		Phone:    "+94770000000",
		Location: "Colombo",
		Password: "secret1",
		Kids: []NewKidInput{
			{Name: "Sam", SessionType: kid.SessionTypeGroup, BirthDate: "2018-05-01"},
			{Name: "Ava", SessionType: kid.SessionTypeIndividual},
		},
	}, deps)
	if err != nil {
		t.Fatalf("ExecuteCreateParent: %v", err)
	}
	if res.Email != "jane@example.com" {
		t.Errorf("Email = %q, want normalized", res.Email)
	}
	if res.ParentProfile.Name != "Jane Doe" {
		t.Errorf("Name = %q", res.ParentProfile.Name)
	}
	if res.Role != user.RoleParent || res.Status != user.StatusActive {
		t.Errorf("Role/Status = %s/%s", res.Role, res.Status)
	}
	if len(res.Kids) != 2 || len(users.kids) != 2 {
		t.Fatalf("kids = %d stored %d, want 2", len(res.Kids), len(users.kids))
	}
	for _, k := range res.Kids {
		if k.ParentID != res.ID {
			t.Errorf("kid %s ParentID = %q, want %q", k.ID, k.ParentID, res.ID)
		}
	}
	stored := users.users[res.ID]
	if err := stored.CheckPassword("secret1"); err != nil {
		t.Errorf("stored password does not verify: %v", err)
	}
	if got := auditStore.actions(); len(got) != 1 || got[0] != "CREATE_PARENT" {
		t.Errorf("audit actions = %v", got)
	}
	if auditStore.entries[0].ActorID != "admin-1" {
		t.Errorf("audit actor = %q", auditStore.entries[0].ActorID)
	}
}

func TestExecuteCreateParent_DuplicateEmail(t *testing.T) {
	users := newMockUserStore(user.User{ID: "u-1", Email: "jane@example.com", Role: user.RoleCoach})
	deps := UserDeps{Runtime: newRuntime(&mockAuditStore{}), UserStore: users}

	_, err := ExecuteCreateParent(context.Background(), CreateParentInput{
		Name: "Jane", Email: "JANE@example.com", Phone: "1", Password: "secret1",
	}, deps)
	if !errors.Is(err, user.ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
	if len(users.users) != 1 {
		t.Errorf("users = %d, want nothing saved", len(users.users))
	}
}

func TestExecuteCreateParent_InvalidKidSavesNothing(t *testing.T) {
	users := newMockUserStore()
	deps := UserDeps{Runtime: newRuntime(&mockAuditStore{}), UserStore: users}

	_, err := ExecuteCreateParent(context.Background(), CreateParentInput{
		Name: "Jane", Email: "jane@example.com", Phone: "1", Password: "secret1",
		Kids: []NewKidInput{{Name: "Sam", SessionType: "PRIVATE"}},
	}, deps)
	if !errors.Is(err, kid.ErrInvalidSessionType) {
		t.Fatalf("err = %v, want ErrInvalidSessionType", err)
	}
	if len(users.users) != 0 || len(users.kids) != 0 {
		t.Error("nothing should be persisted when a kid is invalid")
	}
}

// TestExecuteCreateParent_ConcurrentEmailClaim
// PRE: the email check passes but the store rejects the write on its unique index
// POST: ErrEmailTaken surfaces, no kids persist and nothing is audited
func TestExecuteCreateParent_ConcurrentEmailClaim(t *testing.T) {
	users := newMockUserStore()
	users.saveErr = user.ErrEmailTaken
	auditStore := &mockAuditStore{}
	deps := UserDeps{Runtime: newRuntime(auditStore), UserStore: users}

	_, err := ExecuteCreateParent(context.Background(), CreateParentInput{
		Name: "Jane", Email: "jane@example.com", Phone: "1", Password: "secret1",
		Kids: []NewKidInput{{Name: "Sam", SessionType: kid.SessionTypeGroup}},
	}, deps)
	if !errors.Is(err, user.ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
	if len(users.kids) != 0 || len(auditStore.entries) != 0 {
		t.Errorf("kids = %d audit = %d, want none", len(users.kids), len(auditStore.entries))
	}
}

func TestExecuteUpdateParent(t *testing.T) {
	parent := user.User{
		ID: "p-1", Email: "jane@example.com", Role: user.RoleParent, Status: user.StatusActive,
		ParentProfile: &user.ParentProfile{Name: "Jane", Location: "Colombo"},
	}
	other := user.User{ID: "p-2", Email: "taken@example.com", Role: user.RoleParent, Status: user.StatusActive,
		ParentProfile: &user.ParentProfile{Name: "Other"}}
	coach := user.User{ID: "c-1", Email: "coach@example.com", Role: user.RoleCoach, Status: user.StatusActive,
		CoachProfile: &user.CoachProfile{Name: "Coach"}}

	str := func(s string) *string { return &s }
	tests := []struct {
		name    string
		input   UpdateUserInput
		wantErr error
		check   func(t *testing.T, u user.User)
	}{
		{
			name:  "partial update keeps other fields",
			input: UpdateUserInput{ID: "p-1", Location: str("Kandy")},
			check: func(t *testing.T, u user.User) {
				if u.ParentProfile.Location != "Kandy" || u.ParentProfile.Name != "Jane" {
					t.Errorf("profile = %+v", *u.ParentProfile)
				}
				if !u.UpdatedAt.Equal(fixedTime) {
					t.Errorf("UpdatedAt = %v", u.UpdatedAt)
				}
			},
		},
		{name: "email taken by another user", input: UpdateUserInput{ID: "p-1", Email: str("taken@example.com")}, wantErr: user.ErrEmailTaken},
		{name: "same email is allowed", input: UpdateUserInput{ID: "p-1", Email: str("JANE@example.com")}},
		{name: "unknown id", input: UpdateUserInput{ID: "missing"}, wantErr: user.ErrNotFound},
		{name: "coach id is not a parent", input: UpdateUserInput{ID: "c-1"}, wantErr: user.ErrNotFound},
		{name: "empty name rejected", input: UpdateUserInput{ID: "p-1", Name: str("  ")}, wantErr: user.ErrMissingName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parent
			profile := *parent.ParentProfile
			p.ParentProfile = &profile
			users := newMockUserStore(p, other, coach)
			deps := UserDeps{Runtime: newRuntime(&mockAuditStore{}), UserStore: users}
			got, err := ExecuteUpdateParent(context.Background(), tt.input, deps)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, got)
			}
		})
	}
}

func TestExecuteDeleteParent_SoftDeletes(t *testing.T) {
	users := newMockUserStore(user.User{
		ID: "p-1", Email: "jane@example.com", Role: user.RoleParent, Status: user.StatusActive,
		ParentProfile: &user.ParentProfile{Name: "Jane"},
	})
	auditStore := &mockAuditStore{}
	deps := UserDeps{Runtime: newRuntime(auditStore), UserStore: users}

	if err := ExecuteDeleteParent(context.Background(), "p-1", "admin-1", deps); err != nil {
		t.Fatalf("ExecuteDeleteParent: %v", err)
	}
	if got := users.users["p-1"].Status; got != user.StatusDeleted {
		t.Errorf("Status = %q, want DELETED", got)
	}
	if got := auditStore.actions(); len(got) != 1 || got[0] != "DELETE_PARENT" {
		t.Errorf("audit = %v", got)
	}
}

func TestCoachLifecycle(t *testing.T) {
	users := newMockUserStore()
	deps := UserDeps{Runtime: newRuntime(&mockAuditStore{}), UserStore: users}
	ctx := context.Background()

	c, err := ExecuteCreateCoach(ctx, CreateCoachInput{Name: "Coach Kim", Email: "kim@example.com", Phone: "1", Password: "secret1"}, deps)
	if err != nil {
		t.Fatalf("create coach: %v", err)
	}
	if c.Role != user.RoleCoach || c.CoachProfile.Name != "Coach Kim" {
		t.Errorf("coach = %+v", c)
	}

	name := "Coach K"
	updated, err := ExecuteUpdateCoach(ctx, UpdateUserInput{ID: c.ID, Name: &name}, deps)
	if err != nil {
		t.Fatalf("update coach: %v", err)
	}
	if updated.CoachProfile.Name != "Coach K" {
		t.Errorf("name = %q", updated.CoachProfile.Name)
	}

	if err := ExecuteDeactivateCoach(ctx, c.ID, "admin-1", deps); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if got := users.users[c.ID].Status; got != user.StatusInactive {
		t.Errorf("Status = %q, want INACTIVE", got)
	}
	if err := ExecuteDeactivateCoach(ctx, "missing", "admin-1", deps); !errors.Is(err, user.ErrNotFound) {
		t.Errorf("unknown coach: err = %v", err)
	}
}

func TestAuditFailureIsNotFatal(t *testing.T) {
	users := newMockUserStore()
	auditStore := &mockAuditStore{err: errors.New("disk full")}
	deps := UserDeps{Runtime: newRuntime(auditStore), UserStore: users}

	if _, err := ExecuteCreateCoach(context.Background(), CreateCoachInput{
		Name: "Coach", Email: "c@example.com", Phone: "1", Password: "secret1",
	}, deps); err != nil {
		t.Fatalf("audit failure should not fail the mutation: %v", err)
	}
	if len(users.users) != 1 {
		t.Errorf("coach not saved")
	}
}

func TestKidParentLinking(t *testing.T) {
	users := newMockUserStore(
		user.User{ID: "p-1", Role: user.RoleParent},
		user.User{ID: "c-1", Role: user.RoleCoach},
	)
	kids := newMockKidStore(kid.Kid{ID: "k-1", Name: "Sam", SessionType: kid.SessionTypeGroup})
	deps := KidDeps{Runtime: newRuntime(&mockAuditStore{}), KidStore: kids, UserStore: users}
	ctx := context.Background()

	tests := []struct {
		name    string
		input   LinkKidInput
		wantErr error
	}{
		{name: "unknown kid", input: LinkKidInput{KidID: "nope", ParentID: "p-1"}, wantErr: kid.ErrNotFound},
		{name: "unknown parent", input: LinkKidInput{KidID: "k-1", ParentID: "nope"}, wantErr: user.ErrParentNotFound},
		{name: "coach is not a parent", input: LinkKidInput{KidID: "k-1", ParentID: "c-1"}, wantErr: user.ErrParentNotFound},
		{name: "links", input: LinkKidInput{KidID: "k-1", ParentID: "p-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExecuteLinkKidToParent(ctx, tt.input, deps)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
	if kids.kids["k-1"].ParentID != "p-1" {
		t.Fatalf("ParentID = %q", kids.kids["k-1"].ParentID)
	}

	k, err := ExecuteUnlinkKidFromParent(ctx, "k-1", "admin-1", deps)
	if err != nil {
		t.Fatalf("unlink: %v", err)
	}
	if k.ParentID != "" || kids.kids["k-1"].ParentID != "" {
		t.Errorf("ParentID not cleared")
	}
}

func TestExecuteUpdateKid(t *testing.T) {
	kids := newMockKidStore(kid.Kid{ID: "k-1", Name: "Sam", SessionType: kid.SessionTypeGroup})
	deps := KidDeps{Runtime: newRuntime(&mockAuditStore{}), KidStore: kids, UserStore: newMockUserStore()}

	future := "2030-01-01"
	if _, err := ExecuteUpdateKid(context.Background(), UpdateKidInput{ID: "k-1", BirthDate: &future}, deps); !errors.Is(err, kid.ErrInvalidBirthDate) {
		t.Errorf("future birth date: err = %v", err)
	}

	goal := "Swim 50m"
	milestones := []string{"first lap"}
	k, err := ExecuteUpdateKid(context.Background(), UpdateKidInput{ID: "k-1", Goal: &goal, Milestones: &milestones}, deps)
	if err != nil {
		t.Fatalf("ExecuteUpdateKid: %v", err)
	}
	if k.Goal != goal || len(k.Milestones) != 1 || k.Name != "Sam" {
		t.Errorf("kid = %+v", k)
	}
}
