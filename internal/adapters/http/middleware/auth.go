package middleware

import (
	"context"
	"net/http"
	"strings"

	"growfitness/internal/adapters/auth"
	"growfitness/internal/domain/user"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "session"

// Session is the authenticated caller derived from an access token.
type Session struct {
	UserID string
	Email  string
	Role   string
}

// IsAdmin reports whether the caller is an ADMIN.
func (s Session) IsAdmin() bool {
	return s.Role == user.RoleAdmin
}

// TokenParser verifies access tokens.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// BearerToken returns the token from an "Authorization: Bearer" header, or "".
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

// Auth returns middleware that verifies the bearer token and sets the session in context.
// It does NOT block unauthenticated requests; use RequireAuth or RequireRole for that.
func Auth(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := BearerToken(r); token != "" {
				if claims, err := tokens.Parse(token); err == nil {
					sess := Session{UserID: claims.UserID(), Email: claims.Email, Role: claims.Role}
					r = r.WithContext(ContextWithSession(r.Context(), sess))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth returns 401 for requests without a valid session.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetSessionFromContext(r.Context()); !ok {
			WriteError(w, r, http.StatusUnauthorized, CodeUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole returns middleware that blocks requests from users without one of the specified roles.
// POST: 401 without a session, 403 with the wrong role
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := GetSessionFromContext(r.Context()); !ok {
				WriteError(w, r, http.StatusUnauthorized, CodeUnauthorized, "Unauthorized")
				return
			}
			if !IsRole(r.Context(), roles...) {
				WriteError(w, r, http.StatusForbidden, CodeForbidden, "Forbidden resource")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetSessionFromContext extracts the session from the request context.
func GetSessionFromContext(ctx context.Context) (Session, bool) {
	sess, ok := ctx.Value(sessionContextKey).(Session)
	return sess, ok
}

// ContextWithSession returns a context with the given session set.
func ContextWithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// IsRole checks if the current session has one of the given roles.
func IsRole(ctx context.Context, roles ...string) bool {
	sess, ok := GetSessionFromContext(ctx)
	if !ok {
		return false
	}
	for _, r := range roles {
		if sess.Role == r {
			return true
		}
	}
	return false
}
