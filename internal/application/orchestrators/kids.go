package orchestrators

import (
	"context"
	"fmt"
	"strings"

	"growfitness/internal/domain/audit"
	"growfitness/internal/domain/kid"
	"growfitness/internal/domain/user"
)

// KidStoreForKids defines the store interface needed by the kid orchestrators.
type KidStoreForKids interface {
	GetByID(ctx context.Context, id string) (kid.Kid, error)
	Save(ctx context.Context, k kid.Kid) error
}

// ParentLookup resolves a user by id.
type ParentLookup interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

// KidDeps holds dependencies for the kid orchestrators.
type KidDeps struct {
	Runtime
	KidStore  KidStoreForKids
	UserStore ParentLookup
}

// UpdateKidInput carries a partial kid update.
type UpdateKidInput struct {
	ID                string    `json:"-"`
	ActorID           string    `json:"-"`
	Name              *string   `json:"name" validate:"omitempty,min=1"`
	Gender            *string   `json:"gender"`
	BirthDate         *string   `json:"birthDate" validate:"omitempty,datetime=2006-01-02"`
	Goal              *string   `json:"goal"`
	CurrentlyInSports *bool     `json:"currentlyInSports"`
	MedicalConditions *[]string `json:"medicalConditions"`
	SessionType       *string   `json:"sessionType" validate:"omitempty,oneof=INDIVIDUAL GROUP"`
	Achievements      *[]string `json:"achievements"`
	Milestones        *[]string `json:"milestones"`
}

// LinkKidInput attaches a kid to a parent.
type LinkKidInput struct {
	KidID    string `json:"-"`
	ActorID  string `json:"-"`
	ParentID string `json:"parentId" validate:"required"`
}

// ExecuteUpdateKid applies a partial update to a kid.
// PRE: ID refers to an existing kid
// POST: Only supplied fields change
func ExecuteUpdateKid(ctx context.Context, input UpdateKidInput, deps KidDeps) (kid.Kid, error) {
	k, err := deps.KidStore.GetByID(ctx, input.ID)
	if err != nil {
		return kid.Kid{}, lookup(err, kid.ErrNotFound, "kid")
	}
	fields := []string{}
	setString := func(name string, dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
			fields = append(fields, name)
		}
	}
	setList := func(name string, dst *[]string, src *[]string) {
		if src != nil {
			*dst = *src
			fields = append(fields, name)
		}
	}
	setString("name", &k.Name, input.Name)
	setString("gender", &k.Gender, input.Gender)
	setString("birthDate", &k.BirthDate, input.BirthDate)
	setString("goal", &k.Goal, input.Goal)
	setString("sessionType", &k.SessionType, input.SessionType)
	if input.CurrentlyInSports != nil {
		k.CurrentlyInSports = *input.CurrentlyInSports
		fields = append(fields, "currentlyInSports")
	}
	setList("medicalConditions", &k.MedicalConditions, input.MedicalConditions)
	setList("achievements", &k.Achievements, input.Achievements)
	setList("milestones", &k.Milestones, input.Milestones)

	now := deps.Now()
	k.Normalize()
	if err := k.Validate(now); err != nil {
		return kid.Kid{}, err
	}
	k.UpdatedAt = now
	if err := deps.KidStore.Save(ctx, k); err != nil {
		return kid.Kid{}, fmt.Errorf("save kid: %w", err)
	}
	deps.record(ctx, input.ActorID, "UPDATE_KID", audit.EntityKid, k.ID, map[string]any{"fields": fields})
	return k, nil
}

// ExecuteLinkKidToParent sets the kid's parent.
// PRE: KidID and ParentID exist; ParentID is a PARENT
// POST: kid.ParentID == ParentID
func ExecuteLinkKidToParent(ctx context.Context, input LinkKidInput, deps KidDeps) (kid.Kid, error) {
	k, err := deps.KidStore.GetByID(ctx, input.KidID)
	if err != nil {
		return kid.Kid{}, lookup(err, kid.ErrNotFound, "kid")
	}
	parent, err := deps.UserStore.GetByID(ctx, input.ParentID)
	if err != nil {
		return kid.Kid{}, lookup(err, user.ErrParentNotFound, "parent")
	}
	if parent.Role != user.RoleParent {
		return kid.Kid{}, user.ErrParentNotFound
	}

	k.ParentID = parent.ID
	k.UpdatedAt = deps.Now()
	if err := deps.KidStore.Save(ctx, k); err != nil {
		return kid.Kid{}, fmt.Errorf("save kid: %w", err)
	}
	deps.record(ctx, input.ActorID, "LINK_KID_TO_PARENT", audit.EntityKid, k.ID, map[string]any{"parentId": parent.ID})
	return k, nil
}

// ExecuteUnlinkKidFromParent clears the kid's parent.
// POST: kid.ParentID is empty
func ExecuteUnlinkKidFromParent(ctx context.Context, kidID, actorID string, deps KidDeps) (kid.Kid, error) {
	k, err := deps.KidStore.GetByID(ctx, kidID)
	if err != nil {
		return kid.Kid{}, lookup(err, kid.ErrNotFound, "kid")
	}
	previous := k.ParentID
	k.ParentID = ""
	k.UpdatedAt = deps.Now()
	if err := deps.KidStore.Save(ctx, k); err != nil {
		return kid.Kid{}, fmt.Errorf("save kid: %w", err)
	}
	deps.record(ctx, actorID, "UNLINK_KID_FROM_PARENT", audit.EntityKid, k.ID, map[string]any{"previousParentId": previous})
	return k, nil
}
