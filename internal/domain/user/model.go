package user

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Max length constants for user-editable fields.
const (
	MaxEmailLength    = 254
	MinPasswordLength = 6
	MaxFailedLogins   = 5
	LockoutDuration   = 15 * time.Minute
	bcryptCost        = 12
)

// Role constants
const (
	RoleAdmin  = "ADMIN"
	RoleCoach  = "COACH"
	RoleParent = "PARENT"
)

// Status constants
const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
	StatusDeleted  = "DELETED"
)

// ValidRoles contains all valid role values.
var ValidRoles = []string{RoleAdmin, RoleCoach, RoleParent}

// ValidStatuses contains all valid status values.
var ValidStatuses = []string{StatusActive, StatusInactive, StatusDeleted}

// Domain errors
var (
	ErrNotFound         = errors.New("User not found")
	ErrParentNotFound   = errors.New("Parent not found")
	ErrEmailTaken       = errors.New("Email already exists")
	ErrInvalidEmail     = errors.New("email must contain '@'")
	ErrEmptyEmail       = errors.New("email cannot be empty")
	ErrInvalidRole      = errors.New("role must be one of: ADMIN, COACH, PARENT")
	ErrInvalidStatus    = errors.New("status must be one of: ACTIVE, INACTIVE, DELETED")
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrWrongPassword    = errors.New("incorrect password")
	ErrMissingName      = errors.New("name is required")
)

// ParentProfile holds parent-specific details.
type ParentProfile struct {
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
}

// CoachProfile holds coach-specific details.
type CoachProfile struct {
	Name string `json:"name"`
}

// User holds state for the User concept. Parents, coaches and admins share it.
type User struct {
	ID            string         `json:"id"`
	Email         string         `json:"email"`
	Phone         string         `json:"phone,omitempty"`
	PasswordHash  string         `json:"-"`
	Role          string         `json:"role"`
	Status        string         `json:"status"`
	ParentProfile *ParentProfile `json:"parentProfile,omitempty"`
	CoachProfile  *CoachProfile  `json:"coachProfile,omitempty"`
	FailedLogins  int            `json:"-"`
	LockedUntil   time.Time      `json:"-"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// Validate checks if the User has valid data.
// PRE: User struct is populated
// POST: Returns nil if valid, error otherwise
func (u *User) Validate() error {
	if strings.TrimSpace(u.Email) == "" {
		return ErrEmptyEmail
	}
	if len(u.Email) > MaxEmailLength {
		return errors.New("email cannot exceed 254 characters")
	}
	if !strings.Contains(u.Email, "@") {
		return ErrInvalidEmail
	}
	if !contains(ValidRoles, u.Role) {
		return ErrInvalidRole
	}
	if !contains(ValidStatuses, u.Status) {
		return ErrInvalidStatus
	}
	if u.Role == RoleParent && (u.ParentProfile == nil || strings.TrimSpace(u.ParentProfile.Name) == "") {
		return ErrMissingName
	}
	if u.Role == RoleCoach && (u.CoachProfile == nil || strings.TrimSpace(u.CoachProfile.Name) == "") {
		return ErrMissingName
	}
	return nil
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SetPassword hashes and stores a password using bcrypt with cost 12.
// PRE: plaintext is non-empty and >= 6 characters
// POST: PasswordHash is set to bcrypt hash
func (u *User) SetPassword(plaintext string) error {
	if plaintext == "" {
		return ErrEmptyPassword
	}
	if len(plaintext) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
// PRE: PasswordHash is set
// INVARIANT: User fields are not mutated
func (u *User) CheckPassword(plaintext string) error {
	if u.PasswordHash == "" {
		return ErrWrongPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plaintext)); err != nil {
		return ErrWrongPassword
	}
	return nil
}

// IsLocked returns true if the user is currently locked out.
// INVARIANT: User fields are not mutated
func (u *User) IsLocked(now time.Time) bool {
	if u.LockedUntil.IsZero() {
		return false
	}
	return now.Before(u.LockedUntil)
}

// RecordFailedLogin increments the failed login counter and locks after 5 failures.
// PRE: User exists
// POST: FailedLogins incremented; LockedUntil set if >= 5 failures
func (u *User) RecordFailedLogin(now time.Time) {
	u.FailedLogins++
	if u.FailedLogins >= MaxFailedLogins {
		u.LockedUntil = now.Add(LockoutDuration)
	}
}

// ResetFailedLogins clears the failed login counter and lock.
func (u *User) ResetFailedLogins() {
	u.FailedLogins = 0
	u.LockedUntil = time.Time{}
}

// IsActive reports whether the user may authenticate.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// DisplayName returns the profile name for the user's role, falling back to "User".
func (u *User) DisplayName() string {
	if u.ParentProfile != nil && u.ParentProfile.Name != "" {
		return u.ParentProfile.Name
	}
	if u.CoachProfile != nil && u.CoachProfile.Name != "" {
		return u.CoachProfile.Name
	}
	return "User"
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
