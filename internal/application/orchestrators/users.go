package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"growfitness/internal/domain/audit"
	"growfitness/internal/domain/kid"
	"growfitness/internal/domain/user"
)

// UserStoreForUsers defines the store interface needed to manage parents and coaches.
type UserStoreForUsers interface {
	GetByID(ctx context.Context, id string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Save(ctx context.Context, u user.User) error
	SaveWithKids(ctx context.Context, u user.User, kids []kid.Kid) error
}

// UserDeps holds dependencies for the user orchestrators.
type UserDeps struct {
	Runtime
	UserStore UserStoreForUsers
}

// NewKidInput describes a kid registered together with its parent.
type NewKidInput struct {
	Name              string   `json:"name" validate:"required"`
	Gender            string   `json:"gender"`
	BirthDate         string   `json:"birthDate" validate:"omitempty,datetime=2006-01-02"`
	Goal              string   `json:"goal"`
	CurrentlyInSports bool     `json:"currentlyInSports"`
	MedicalConditions []string `json:"medicalConditions"`
	SessionType       string   `json:"sessionType" validate:"required,oneof=INDIVIDUAL GROUP"`
}

// CreateParentInput carries input for creating a parent account.
type CreateParentInput struct {
	ActorID  string        `json:"-"`
	Name     string        `json:"name" validate:"required"`
	Email    string        `json:"email" validate:"required,email"`
	Phone    string        `json:"phone" validate:"required"`
	Location string        `json:"location"`
	Password string        `json:"password" validate:"required,min=6"`
	Kids     []NewKidInput `json:"kids" validate:"omitempty,dive"`
}

// CreateParentResult is the created parent and its kids.
type CreateParentResult struct {
	user.User
	Kids []kid.Kid `json:"kids"`
}

// UpdateUserInput carries a partial update for a parent or coach.
// Location only applies to parents.
type UpdateUserInput struct {
	ID       string  `json:"-"`
	ActorID  string  `json:"-"`
	Name     *string `json:"name" validate:"omitempty,min=1"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone"`
	Location *string `json:"location"`
	Status   *string `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE DELETED"`
}

// CreateCoachInput carries input for creating a coach account.
type CreateCoachInput struct {
	ActorID  string `json:"-"`
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// ExecuteCreateParent creates a PARENT user and one kid per entry.
// PRE: Email is not registered
// POST: Parent and kids persisted atomically; every kid links to the parent
func ExecuteCreateParent(ctx context.Context, input CreateParentInput, deps UserDeps) (CreateParentResult, error) {
	now := deps.Now()
	u := user.User{
		ID:            deps.GenerateID(),
		Email:         user.NormalizeEmail(input.Email),
		Phone:         strings.TrimSpace(input.Phone),
		Role:          user.RoleParent,
		Status:        user.StatusActive,
		ParentProfile: &user.ParentProfile{Name: strings.TrimSpace(input.Name), Location: strings.TrimSpace(input.Location)},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := prepareNewUser(ctx, &u, input.Password, deps.UserStore); err != nil {
		return CreateParentResult{}, err
	}

	kids := make([]kid.Kid, 0, len(input.Kids))
	for _, in := range input.Kids {
		k := kid.Kid{
			ID:                deps.GenerateID(),
			ParentID:          u.ID,
			Name:              strings.TrimSpace(in.Name),
			Gender:            in.Gender,
			BirthDate:         in.BirthDate,
			Goal:              in.Goal,
			CurrentlyInSports: in.CurrentlyInSports,
			MedicalConditions: in.MedicalConditions,
			SessionType:       in.SessionType,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		k.Normalize()
		if err := k.Validate(now); err != nil {
			return CreateParentResult{}, err
		}
		kids = append(kids, k)
	}

	if err := deps.UserStore.SaveWithKids(ctx, u, kids); err != nil {
		return CreateParentResult{}, fmt.Errorf("save parent: %w", err)
	}

	deps.record(ctx, input.ActorID, "CREATE_PARENT", audit.EntityUser, u.ID, map[string]any{"email": u.Email, "kids": len(kids)})
	return CreateParentResult{User: u, Kids: kids}, nil
}

// ExecuteUpdateParent applies a partial update to a parent.
// PRE: ID refers to a PARENT user
// POST: Only supplied fields change
func ExecuteUpdateParent(ctx context.Context, input UpdateUserInput, deps UserDeps) (user.User, error) {
	u, err := loadUserWithRole(ctx, deps.UserStore, input.ID, user.RoleParent)
	if err != nil {
		return user.User{}, err
	}
	if input.Name != nil {
		u.ParentProfile.Name = strings.TrimSpace(*input.Name)
	}
	if input.Location != nil {
		u.ParentProfile.Location = strings.TrimSpace(*input.Location)
	}
	if err := applyUserUpdate(ctx, &u, input, deps); err != nil {
		return user.User{}, err
	}
	deps.record(ctx, input.ActorID, "UPDATE_PARENT", audit.EntityUser, u.ID, changedFields(input))
	return u, nil
}

// ExecuteDeleteParent soft-deletes a parent.
// POST: Status is DELETED; kids are kept
func ExecuteDeleteParent(ctx context.Context, id, actorID string, deps UserDeps) error {
	u, err := loadUserWithRole(ctx, deps.UserStore, id, user.RoleParent)
	if err != nil {
		return err
	}
	u.Status = user.StatusDeleted
	u.UpdatedAt = deps.Now()
	if err := deps.UserStore.Save(ctx, u); err != nil {
		return fmt.Errorf("save parent: %w", err)
	}
	deps.record(ctx, actorID, "DELETE_PARENT", audit.EntityUser, u.ID, nil)
	return nil
}

// ExecuteCreateCoach creates a COACH user.
// PRE: Email is not registered
// POST: Coach persisted with status ACTIVE
func ExecuteCreateCoach(ctx context.Context, input CreateCoachInput, deps UserDeps) (user.User, error) {
	now := deps.Now()
	u := user.User{
		ID:           deps.GenerateID(),
		Email:        user.NormalizeEmail(input.Email),
		Phone:        strings.TrimSpace(input.Phone),
		Role:         user.RoleCoach,
		Status:       user.StatusActive,
		CoachProfile: &user.CoachProfile{Name: strings.TrimSpace(input.Name)},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := prepareNewUser(ctx, &u, input.Password, deps.UserStore); err != nil {
		return user.User{}, err
	}
	if err := deps.UserStore.Save(ctx, u); err != nil {
		return user.User{}, fmt.Errorf("save coach: %w", err)
	}
	deps.record(ctx, input.ActorID, "CREATE_COACH", audit.EntityUser, u.ID, map[string]any{"email": u.Email})
	return u, nil
}

// ExecuteUpdateCoach applies a partial update to a coach.
func ExecuteUpdateCoach(ctx context.Context, input UpdateUserInput, deps UserDeps) (user.User, error) {
	u, err := loadUserWithRole(ctx, deps.UserStore, input.ID, user.RoleCoach)
	if err != nil {
		return user.User{}, err
	}
	if input.Name != nil {
		u.CoachProfile.Name = strings.TrimSpace(*input.Name)
	}
	if err := applyUserUpdate(ctx, &u, input, deps); err != nil {
		return user.User{}, err
	}
	deps.record(ctx, input.ActorID, "UPDATE_COACH", audit.EntityUser, u.ID, changedFields(input))
	return u, nil
}

// ExecuteDeactivateCoach sets a coach INACTIVE.
// POST: Coach can no longer log in; sessions keep their coachId
func ExecuteDeactivateCoach(ctx context.Context, id, actorID string, deps UserDeps) error {
	u, err := loadUserWithRole(ctx, deps.UserStore, id, user.RoleCoach)
	if err != nil {
		return err
	}
	u.Status = user.StatusInactive
	u.UpdatedAt = deps.Now()
	if err := deps.UserStore.Save(ctx, u); err != nil {
		return fmt.Errorf("save coach: %w", err)
	}
	deps.record(ctx, actorID, "DEACTIVATE_COACH", audit.EntityUser, u.ID, nil)
	return nil
}

// loadUserWithRole returns user.ErrNotFound when id is absent or has another role.
func loadUserWithRole(ctx context.Context, store interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}, id, role string) (user.User, error) {
	u, err := store.GetByID(ctx, id)
	if err != nil {
		return user.User{}, lookup(err, user.ErrNotFound, "user")
	}
	if u.Role != role {
		return user.User{}, user.ErrNotFound
	}
	switch role {
	case user.RoleParent:
		if u.ParentProfile == nil {
			u.ParentProfile = &user.ParentProfile{}
		}
	case user.RoleCoach:
		if u.CoachProfile == nil {
			u.CoachProfile = &user.CoachProfile{}
		}
	}
	return u, nil
}

func prepareNewUser(ctx context.Context, u *user.User, password string, store UserStoreForUsers) error {
	if err := u.Validate(); err != nil {
		return err
	}
	if err := ensureEmailFree(ctx, store, u.Email, ""); err != nil {
		return err
	}
	return u.SetPassword(password)
}

func ensureEmailFree(ctx context.Context, store UserStoreForUsers, email, selfID string) error {
	existing, err := store.GetByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if existing.ID != selfID {
		return user.ErrEmailTaken
	}
	return nil
}

func applyUserUpdate(ctx context.Context, u *user.User, input UpdateUserInput, deps UserDeps) error {
	if input.Email != nil {
		email := user.NormalizeEmail(*input.Email)
		if email != u.Email {
			if err := ensureEmailFree(ctx, deps.UserStore, email, u.ID); err != nil {
				return err
			}
			u.Email = email
		}
	}
	if input.Phone != nil {
		u.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Status != nil {
		u.Status = *input.Status
	}
	if err := u.Validate(); err != nil {
		return err
	}
	u.UpdatedAt = deps.Now()
	if err := deps.UserStore.Save(ctx, *u); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func changedFields(input UpdateUserInput) map[string]any {
	fields := []string{}
	if input.Name != nil {
		fields = append(fields, "name")
	}
	if input.Email != nil {
		fields = append(fields, "email")
	}
	if input.Phone != nil {
		fields = append(fields, "phone")
	}
	if input.Location != nil {
		fields = append(fields, "location")
	}
	if input.Status != nil {
		fields = append(fields, "status")
	}
	return map[string]any{"fields": fields}
}
