package orchestrators

import (
	"context"
	"fmt"
	"strings"

	"growfitness/internal/domain/audit"
	"growfitness/internal/domain/crm"
	"growfitness/internal/domain/user"
)

// CrmStoreForOrchestrator defines the store interface needed by the CRM orchestrators.
type CrmStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (crm.Contact, error)
	Save(ctx context.Context, c crm.Contact) error
	Delete(ctx context.Context, id string) error
}

// CrmDeps holds dependencies for the CRM orchestrators.
type CrmDeps struct {
	Runtime
	CrmStore  CrmStoreForOrchestrator
	UserStore ParentLookup
}

// CreateCrmContactInput carries input for creating a contact.
type CreateCrmContactInput struct {
	ActorID  string         `json:"-"`
	ParentID string         `json:"parentId"`
	Name     string         `json:"name"`
	Email    string         `json:"email" validate:"omitempty,email"`
	Phone    string         `json:"phone"`
	Status   string         `json:"status" validate:"omitempty,oneof=LEAD CONTACTED QUALIFIED CONVERTED LOST"`
	Source   string         `json:"source"`
	Metadata map[string]any `json:"metadata"`
}

// UpdateCrmContactInput carries a partial contact update.
type UpdateCrmContactInput struct {
	ID       string          `json:"-"`
	ActorID  string          `json:"-"`
	ParentID *string         `json:"parentId"`
	Name     *string         `json:"name"`
	Email    *string         `json:"email" validate:"omitempty,email"`
	Phone    *string         `json:"phone"`
	Status   *string         `json:"status" validate:"omitempty,oneof=LEAD CONTACTED QUALIFIED CONVERTED LOST"`
	Source   *string         `json:"source"`
	Metadata *map[string]any `json:"metadata"`
}

// AddCrmNoteInput appends a note to a contact.
type AddCrmNoteInput struct {
	ContactID string `json:"-"`
	ActorID   string `json:"-"`
	Content   string `json:"content" validate:"required"`
}

// ExecuteCreateCrmContact creates a contact; Status defaults to LEAD.
// PRE: ParentID, when given, is a PARENT user
func ExecuteCreateCrmContact(ctx context.Context, input CreateCrmContactInput, deps CrmDeps) (crm.Contact, error) {
	if err := checkCrmParent(ctx, deps, input.ParentID); err != nil {
		return crm.Contact{}, err
	}
	now := deps.Now()
	c := crm.Contact{
		ID:        deps.GenerateID(),
		ParentID:  input.ParentID,
		Name:      strings.TrimSpace(input.Name),
		Email:     user.NormalizeEmail(input.Email),
		Phone:     strings.TrimSpace(input.Phone),
		Status:    input.Status,
		Source:    input.Source,
		Metadata:  input.Metadata,
		Notes:     []crm.Note{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if c.Status == "" {
		c.Status = crm.StatusLead
	}
	if err := c.Validate(); err != nil {
		return crm.Contact{}, err
	}
	if err := deps.CrmStore.Save(ctx, c); err != nil {
		return crm.Contact{}, fmt.Errorf("save crm contact: %w", err)
	}
	deps.record(ctx, input.ActorID, "CREATE_CRM_CONTACT", audit.EntityCrmContact, c.ID, nil)
	return c, nil
}

// ExecuteUpdateCrmContact applies a partial update.
func ExecuteUpdateCrmContact(ctx context.Context, input UpdateCrmContactInput, deps CrmDeps) (crm.Contact, error) {
	c, err := deps.CrmStore.GetByID(ctx, input.ID)
	if err != nil {
		return crm.Contact{}, lookup(err, crm.ErrNotFound, "crm contact")
	}
	if input.ParentID != nil {
		if err := checkCrmParent(ctx, deps, *input.ParentID); err != nil {
			return crm.Contact{}, err
		}
		c.ParentID = *input.ParentID
	}
	if input.Name != nil {
		c.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		c.Email = user.NormalizeEmail(*input.Email)
	}
	if input.Phone != nil {
		c.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Status != nil {
		c.Status = *input.Status
	}
	if input.Source != nil {
		c.Source = *input.Source
	}
	if input.Metadata != nil {
		c.Metadata = *input.Metadata
	}
	if err := c.Validate(); err != nil {
		return crm.Contact{}, err
	}
	c.UpdatedAt = deps.Now()
	if err := deps.CrmStore.Save(ctx, c); err != nil {
		return crm.Contact{}, fmt.Errorf("save crm contact: %w", err)
	}
	deps.record(ctx, input.ActorID, "UPDATE_CRM_CONTACT", audit.EntityCrmContact, c.ID, nil)
	return c, nil
}

// ExecuteDeleteCrmContact removes a contact and its notes.
func ExecuteDeleteCrmContact(ctx context.Context, id, actorID string, deps CrmDeps) error {
	if _, err := deps.CrmStore.GetByID(ctx, id); err != nil {
		return lookup(err, crm.ErrNotFound, "crm contact")
	}
	if err := deps.CrmStore.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete crm contact: %w", err)
	}
	deps.record(ctx, actorID, "DELETE_CRM_CONTACT", audit.EntityCrmContact, id, nil)
	return nil
}

// ExecuteAddCrmNote appends a note authored by the actor.
// POST: Notes grows by one
func ExecuteAddCrmNote(ctx context.Context, input AddCrmNoteInput, deps CrmDeps) (crm.Contact, error) {
	c, err := deps.CrmStore.GetByID(ctx, input.ContactID)
	if err != nil {
		return crm.Contact{}, lookup(err, crm.ErrNotFound, "crm contact")
	}
	note, err := c.AddNote(deps.GenerateID(), strings.TrimSpace(input.Content), input.ActorID, deps.Now())
	if err != nil {
		return crm.Contact{}, err
	}
	if err := deps.CrmStore.Save(ctx, c); err != nil {
		return crm.Contact{}, fmt.Errorf("save crm contact: %w", err)
	}
	deps.record(ctx, input.ActorID, "ADD_CRM_NOTE", audit.EntityCrmContact, c.ID, map[string]any{"noteId": note.ID})
	return c, nil
}

func checkCrmParent(ctx context.Context, deps CrmDeps, parentID string) error {
	if parentID == "" || deps.UserStore == nil {
		return nil
	}
	p, err := deps.UserStore.GetByID(ctx, parentID)
	if err != nil {
		return lookup(err, user.ErrParentNotFound, "parent")
	}
	if p.Role != user.RoleParent {
		return user.ErrParentNotFound
	}
	return nil
}
