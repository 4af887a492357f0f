package orchestrators

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"growfitness/internal/domain/user"
)

func activeParent(t *testing.T, password string) user.User {
	t.Helper()
	u := user.User{
		ID:            "parent-1",
		Email:         "jane@example.com",
		Role:          user.RoleParent,
		Status:        user.StatusActive,
		ParentProfile: &user.ParentProfile{Name: "Jane"},
	}
	if err := u.SetPassword(password); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	return u
}

func newAuthDeps(store *mockUserStore, n *recordingNotifier) AuthDeps {
	return AuthDeps{
		UserStore:   store,
		Tokens:      stubTokens{},
		Notifier:    n,
		RefreshTTL:  7 * 24 * time.Hour,
		ResetTTL:    time.Hour,
		FrontendURL: "https://admin.example.com/",
		GenerateID:  seqID(),
		Now:         fixedNow,
	}
}

func TestExecuteLogin(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(u *user.User)
		email    string
		password string
		wantErr  error
	}{
		{name: "valid credentials", email: "Jane@Example.com ", password: "secret1"},
		{name: "wrong password", email: "jane@example.com", password: "nope", wantErr: ErrInvalidCredentials},
		{name: "unknown email", email: "who@example.com", password: "secret1", wantErr: ErrInvalidCredentials},
		{name: "empty password", email: "jane@example.com", password: "", wantErr: ErrInvalidCredentials},
		{
			name:     "inactive user",
			mutate:   func(u *user.User) { u.Status = user.StatusInactive },
			email:    "jane@example.com",
			password: "secret1",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "locked account",
			mutate:   func(u *user.User) { u.LockedUntil = fixedTime.Add(5 * time.Minute) },
			email:    "jane@example.com",
			password: "secret1",
			wantErr:  ErrAccountLocked,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := activeParent(t, "secret1")
			if tt.mutate != nil {
				tt.mutate(&u)
			}
			store := newMockUserStore(u)
			res, err := ExecuteLogin(context.Background(), LoginInput{Email: tt.email, Password: tt.password}, newAuthDeps(store, &recordingNotifier{}))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if res.AccessToken != "access-parent-1-PARENT" {
				t.Errorf("AccessToken = %q", res.AccessToken)
			}
			if res.RefreshToken == "" {
				t.Error("RefreshToken is empty")
			}
			if _, ok := store.sessions[user.HashToken(res.RefreshToken)]; !ok {
				t.Error("refresh session not stored by hash")
			}
			if res.User.Role != user.RoleParent {
				t.Errorf("User.Role = %q", res.User.Role)
			}
		})
	}
}

func TestExecuteLogin_LocksAfterRepeatedFailures(t *testing.T) {
	store := newMockUserStore(activeParent(t, "secret1"))
	deps := newAuthDeps(store, &recordingNotifier{})
	ctx := context.Background()

	for i := 0; i < user.MaxFailedLogins; i++ {
		_, err := ExecuteLogin(ctx, LoginInput{Email: "jane@example.com", Password: "bad"}, deps)
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: err = %v", i+1, err)
		}
	}
	_, err := ExecuteLogin(ctx, LoginInput{Email: "jane@example.com", Password: "secret1"}, deps)
	if !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("err = %v, want ErrAccountLocked", err)
	}

	deps.Now = func() time.Time { return fixedTime.Add(user.LockoutDuration + time.Second) }
	if _, err := ExecuteLogin(ctx, LoginInput{Email: "jane@example.com", Password: "secret1"}, deps); err != nil {
		t.Fatalf("login after lockout expiry: %v", err)
	}
	if got := store.users["parent-1"].FailedLogins; got != 0 {
		t.Errorf("FailedLogins = %d, want reset to 0", got)
	}
}

func TestExecuteRefresh_RotatesToken(t *testing.T) {
	store := newMockUserStore(activeParent(t, "secret1"))
	deps := newAuthDeps(store, &recordingNotifier{})
	ctx := context.Background()

	first, err := ExecuteLogin(ctx, LoginInput{Email: "jane@example.com", Password: "secret1"}, deps)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	second, err := ExecuteRefresh(ctx, RefreshInput{RefreshToken: first.RefreshToken}, deps)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Error("refresh token was not rotated")
	}
	if _, err := ExecuteRefresh(ctx, RefreshInput{RefreshToken: first.RefreshToken}, deps); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("reusing old token: err = %v, want ErrInvalidRefreshToken", err)
	}
	if _, err := ExecuteRefresh(ctx, RefreshInput{RefreshToken: "garbage"}, deps); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("unknown token: err = %v", err)
	}
}

func TestExecuteRefresh_Expired(t *testing.T) {
	store := newMockUserStore(activeParent(t, "secret1"))
	deps := newAuthDeps(store, &recordingNotifier{})
	ctx := context.Background()

	res, err := ExecuteLogin(ctx, LoginInput{Email: "jane@example.com", Password: "secret1"}, deps)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	deps.Now = func() time.Time { return fixedTime.Add(deps.RefreshTTL + time.Minute) }
	if _, err := ExecuteRefresh(ctx, RefreshInput{RefreshToken: res.RefreshToken}, deps); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("err = %v, want ErrInvalidRefreshToken", err)
	}
}

func TestExecuteLogout_RevokesSessions(t *testing.T) {
	store := newMockUserStore(activeParent(t, "secret1"))
	deps := newAuthDeps(store, &recordingNotifier{})
	ctx := context.Background()

	res, err := ExecuteLogin(ctx, LoginInput{Email: "jane@example.com", Password: "secret1"}, deps)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := ExecuteLogout(ctx, "parent-1", deps); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := ExecuteRefresh(ctx, RefreshInput{RefreshToken: res.RefreshToken}, deps); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("refresh after logout: err = %v", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	store := newMockUserStore(activeParent(t, "secret1"))
	n := &recordingNotifier{}
	deps := newAuthDeps(store, n)
	ctx := context.Background()

	if err := ExecuteForgotPassword(ctx, ForgotPasswordInput{Email: "nobody@example.com"}, deps); err != nil {
		t.Fatalf("unknown email should succeed silently: %v", err)
	}
	if len(n.resetLinks) != 0 {
		t.Fatalf("reset sent for unknown email")
	}

	if err := ExecuteForgotPassword(ctx, ForgotPasswordInput{Email: "jane@example.com"}, deps); err != nil {
		t.Fatalf("forgot password: %v", err)
	}
	if len(n.resetLinks) != 1 {
		t.Fatalf("reset links = %d, want 1", len(n.resetLinks))
	}
	link := n.resetLinks[0]
	if !strings.HasPrefix(link, "https://admin.example.com/reset-password?token=") {
		t.Fatalf("link = %q", link)
	}
	parsed, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}
	token := parsed.Query().Get("token")

	if err := ExecuteResetPassword(ctx, ResetPasswordInput{Token: token, NewPassword: "abc"}, deps); !errors.Is(err, user.ErrPasswordTooShort) {
		t.Errorf("short password: err = %v", err)
	}
	if err := ExecuteResetPassword(ctx, ResetPasswordInput{Token: token, NewPassword: "newsecret"}, deps); err != nil {
		t.Fatalf("reset password: %v", err)
	}
	if err := ExecuteResetPassword(ctx, ResetPasswordInput{Token: token, NewPassword: "another1"}, deps); !errors.Is(err, ErrInvalidResetToken) {
		t.Errorf("second redemption: err = %v, want ErrInvalidResetToken", err)
	}
	if _, err := ExecuteLogin(ctx, LoginInput{Email: "jane@example.com", Password: "newsecret"}, deps); err != nil {
		t.Errorf("login with new password: %v", err)
	}
}

func TestExecuteResetPassword_Expired(t *testing.T) {
	store := newMockUserStore(activeParent(t, "secret1"))
	n := &recordingNotifier{}
	deps := newAuthDeps(store, n)
	ctx := context.Background()

	if err := ExecuteForgotPassword(ctx, ForgotPasswordInput{Email: "jane@example.com"}, deps); err != nil {
		t.Fatalf("forgot password: %v", err)
	}
	parsed, _ := url.Parse(n.resetLinks[0])
	deps.Now = func() time.Time { return fixedTime.Add(2 * time.Hour) }
	err := ExecuteResetPassword(ctx, ResetPasswordInput{Token: parsed.Query().Get("token"), NewPassword: "newsecret"}, deps)
	if !errors.Is(err, ErrInvalidResetToken) {
		t.Errorf("err = %v, want ErrInvalidResetToken", err)
	}
}
