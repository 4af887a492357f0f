package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"growfitness/internal/domain/user"
)

// ForgotPasswordInput carries the address a reset link is requested for.
type ForgotPasswordInput struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordInput redeems a reset token.
type ResetPasswordInput struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

var ErrInvalidResetToken = errors.New("Invalid or expired reset token")

// ExecuteForgotPassword stores a reset token and emails the link.
// PRE: none
// POST: Unknown emails succeed silently so callers cannot enumerate accounts
func ExecuteForgotPassword(ctx context.Context, input ForgotPasswordInput, deps AuthDeps) error {
	email := user.NormalizeEmail(input.Email)
	u, err := deps.UserStore.GetByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		slog.Info("auth_event", "event", "password_reset_unknown_email")
		return nil
	}
	if err != nil {
		return fmt.Errorf("get user by email: %w", err)
	}

	token, err := user.NewOpaqueToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	now := deps.Now()
	t := user.PasswordResetToken{
		ID:        deps.GenerateID(),
		UserID:    u.ID,
		TokenHash: user.HashToken(token),
		ExpiresAt: now.Add(deps.ResetTTL),
		CreatedAt: now,
	}
	if err := deps.UserStore.SaveResetToken(ctx, t); err != nil {
		return fmt.Errorf("save reset token: %w", err)
	}

	link := strings.TrimRight(deps.FrontendURL, "/") + "/reset-password?token=" + url.QueryEscape(token)
	if deps.Notifier != nil {
		deps.Notifier.SendPasswordReset(ctx, u, link, deps.ResetTTL)
	}
	slog.Info("auth_event", "event", "password_reset_requested", "user_id", u.ID)
	return nil
}

// ExecuteResetPassword sets a new password from a reset token.
// PRE: Token was issued by ExecuteForgotPassword
// POST: Password changed, token used, every refresh session revoked
// INVARIANT: a token can be redeemed at most once
func ExecuteResetPassword(ctx context.Context, input ResetPasswordInput, deps AuthDeps) error {
	if len(input.NewPassword) < user.MinPasswordLength {
		return user.ErrPasswordTooShort
	}
	now := deps.Now()

	t, err := deps.UserStore.GetResetTokenByHash(ctx, user.HashToken(input.Token))
	if errors.Is(err, sql.ErrNoRows) {
		return ErrInvalidResetToken
	}
	if err != nil {
		return fmt.Errorf("get reset token: %w", err)
	}
	if !t.IsUsable(now) {
		return ErrInvalidResetToken
	}

	u, err := deps.UserStore.GetByID(ctx, t.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrInvalidResetToken
	}
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if err := u.SetPassword(input.NewPassword); err != nil {
		return err
	}
	u.ResetFailedLogins()
	u.UpdatedAt = now
	if err := deps.UserStore.Save(ctx, u); err != nil {
		return fmt.Errorf("save user: %w", err)
	}

	t.Used = true
	if err := deps.UserStore.SaveResetToken(ctx, t); err != nil {
		return fmt.Errorf("mark reset token used: %w", err)
	}
	if err := deps.UserStore.RevokeRefreshSessions(ctx, u.ID, now); err != nil {
		return fmt.Errorf("revoke refresh sessions: %w", err)
	}
	slog.Info("auth_event", "event", "password_reset", "user_id", u.ID)
	return nil
}
