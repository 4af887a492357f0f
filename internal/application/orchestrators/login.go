package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"growfitness/internal/domain/user"
)

// AuthUserStore defines the store interface needed by the auth orchestrators.
type AuthUserStore interface {
	GetByID(ctx context.Context, id string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Save(ctx context.Context, u user.User) error
	SaveRefreshSession(ctx context.Context, s user.RefreshSession) error
	GetRefreshSessionByHash(ctx context.Context, tokenHash string) (user.RefreshSession, error)
	RevokeRefreshSessions(ctx context.Context, userID string, at time.Time) error
	SaveResetToken(ctx context.Context, t user.PasswordResetToken) error
	GetResetTokenByHash(ctx context.Context, tokenHash string) (user.PasswordResetToken, error)
}

// AccessTokenIssuer signs access tokens.
type AccessTokenIssuer interface {
	NewAccessToken(userID, email, role string) (string, error)
}

// AuthDeps holds dependencies for the auth orchestrators.
type AuthDeps struct {
	UserStore   AuthUserStore
	Tokens      AccessTokenIssuer
	Notifier    Notifications
	RefreshTTL  time.Duration
	ResetTTL    time.Duration
	FrontendURL string
	GenerateID  func() string
	Now         func() time.Time
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshInput carries a refresh token to rotate.
type RefreshInput struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// AuthUser is the identity echoed back after authentication.
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// AuthResult carries the token pair issued on login or refresh.
type AuthResult struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	User         AuthUser `json:"user"`
}

var (
	ErrInvalidCredentials  = errors.New("Invalid credentials")
	ErrAccountLocked       = errors.New("Account is temporarily locked due to too many failed login attempts")
	ErrInvalidRefreshToken = errors.New("Invalid refresh token")
)

// ExecuteLogin validates credentials and issues a token pair.
// PRE: Valid email and password provided
// POST: Returns tokens on success, records failed login on failure
// INVARIANT: Locked or non-active users never receive tokens
func ExecuteLogin(ctx context.Context, input LoginInput, deps AuthDeps) (AuthResult, error) {
	email := user.NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return AuthResult{}, ErrInvalidCredentials
	}
	now := deps.Now()

	u, err := deps.UserStore.GetByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "not_found")
		return AuthResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return AuthResult{}, fmt.Errorf("get user by email: %w", err)
	}

	if u.IsLocked(now) {
		slog.Info("auth_event", "event", "login_blocked", "email", email, "reason", "locked")
		return AuthResult{}, ErrAccountLocked
	}
	if !u.IsActive() {
		slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "status_"+u.Status)
		return AuthResult{}, ErrInvalidCredentials
	}

	if err := u.CheckPassword(input.Password); err != nil {
		u.RecordFailedLogin(now)
		u.UpdatedAt = now
		if saveErr := deps.UserStore.Save(ctx, u); saveErr != nil {
			slog.Error("auth_event_save_failed", "email", email, "error", saveErr)
		}
		slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "wrong_password", "failed_logins", u.FailedLogins)
		return AuthResult{}, ErrInvalidCredentials
	}

	if u.FailedLogins > 0 || !u.LockedUntil.IsZero() {
		u.ResetFailedLogins()
		u.UpdatedAt = now
		if err := deps.UserStore.Save(ctx, u); err != nil {
			return AuthResult{}, fmt.Errorf("reset failed logins: %w", err)
		}
	}

	res, err := issueTokens(ctx, u, deps)
	if err != nil {
		return AuthResult{}, err
	}
	slog.Info("auth_event", "event", "login_success", "email", email, "role", u.Role)
	return res, nil
}

// ExecuteRefresh rotates a refresh token.
// PRE: RefreshToken is the opaque value issued at login
// POST: Old session revoked; a new token pair is returned
func ExecuteRefresh(ctx context.Context, input RefreshInput, deps AuthDeps) (AuthResult, error) {
	if input.RefreshToken == "" {
		return AuthResult{}, ErrInvalidRefreshToken
	}
	now := deps.Now()

	sess, err := deps.UserStore.GetRefreshSessionByHash(ctx, user.HashToken(input.RefreshToken))
	if errors.Is(err, sql.ErrNoRows) {
		return AuthResult{}, ErrInvalidRefreshToken
	}
	if err != nil {
		return AuthResult{}, fmt.Errorf("get refresh session: %w", err)
	}
	if !sess.IsUsable(now) {
		slog.Info("auth_event", "event", "refresh_rejected", "user_id", sess.UserID)
		return AuthResult{}, ErrInvalidRefreshToken
	}

	u, err := deps.UserStore.GetByID(ctx, sess.UserID)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !u.IsActive()) {
		return AuthResult{}, ErrInvalidRefreshToken
	}
	if err != nil {
		return AuthResult{}, fmt.Errorf("get user: %w", err)
	}

	sess.RevokedAt = now
	if err := deps.UserStore.SaveRefreshSession(ctx, sess); err != nil {
		return AuthResult{}, fmt.Errorf("revoke refresh session: %w", err)
	}
	slog.Info("auth_event", "event", "refresh", "user_id", u.ID)
	return issueTokens(ctx, u, deps)
}

// ExecuteLogout revokes every refresh session of userID.
// POST: No refresh token issued before now can be used
func ExecuteLogout(ctx context.Context, userID string, deps AuthDeps) error {
	if err := deps.UserStore.RevokeRefreshSessions(ctx, userID, deps.Now()); err != nil {
		return fmt.Errorf("revoke refresh sessions: %w", err)
	}
	slog.Info("auth_event", "event", "logout", "user_id", userID)
	return nil
}

func issueTokens(ctx context.Context, u user.User, deps AuthDeps) (AuthResult, error) {
	access, err := deps.Tokens.NewAccessToken(u.ID, u.Email, u.Role)
	if err != nil {
		return AuthResult{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := user.NewOpaqueToken()
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate refresh token: %w", err)
	}
	now := deps.Now()
	sess := user.RefreshSession{
		ID:        deps.GenerateID(),
		UserID:    u.ID,
		TokenHash: user.HashToken(refresh),
		ExpiresAt: now.Add(deps.RefreshTTL),
		CreatedAt: now,
	}
	if err := deps.UserStore.SaveRefreshSession(ctx, sess); err != nil {
		return AuthResult{}, fmt.Errorf("save refresh session: %w", err)
	}
	return AuthResult{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         AuthUser{ID: u.ID, Email: u.Email, Role: u.Role},
	}, nil
}
