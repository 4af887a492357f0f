package orchestrators

import (
	"context"
	"testing"

	"growfitness/internal/domain/user"
)

func TestExecuteSeedAdmin_Idempotent(t *testing.T) {
	store := newMockUserStore()
	deps := SeedAdminDeps{UserStore: store, GenerateID: fixedID, Now: fixedNow}
	ctx := context.Background()

	created, err := ExecuteSeedAdmin(ctx, SeedAdminInput{Email: "Admin@GrowFitness.lk", Password: "changeme"}, deps)
	if err != nil || !created {
		t.Fatalf("first seed: created=%v err=%v", created, err)
	}
	u := store.users[fixedID()]
	if u.Role != user.RoleAdmin || u.Email != "admin@growfitness.lk" {
		t.Errorf("admin = %+v", u)
	}

	created, err = ExecuteSeedAdmin(ctx, SeedAdminInput{Email: "admin@growfitness.lk", Password: "different"}, deps)
	if err != nil || created {
		t.Fatalf("second seed: created=%v err=%v", created, err)
	}
	existing := store.users[fixedID()]
	if err := existing.CheckPassword("changeme"); err != nil {
		t.Error("existing admin password was modified")
	}
}
