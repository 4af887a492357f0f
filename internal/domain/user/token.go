package user

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"time"
)

var (
	ErrTokenInvalid = errors.New("token is invalid or has expired")
)

// RefreshSession is a server-side record of an issued refresh token.
// Only the token hash is stored.
type RefreshSession struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	RevokedAt time.Time
	CreatedAt time.Time
}

// IsUsable reports whether the session can still mint access tokens.
// INVARIANT: RefreshSession fields are not mutated
func (s *RefreshSession) IsUsable(now time.Time) bool {
	return s.RevokedAt.IsZero() && now.Before(s.ExpiresAt)
}

// PasswordResetToken is a single-use, time-limited password reset grant.
type PasswordResetToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

// IsUsable reports whether the token can still be redeemed.
func (t *PasswordResetToken) IsUsable(now time.Time) bool {
	return !t.Used && now.Before(t.ExpiresAt)
}

// NewOpaqueToken returns 32 random bytes encoded as base64url.
// POST: Returns a token suitable for refresh or reset links
func NewOpaqueToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashToken returns the sha256 hash of a token, base64url encoded.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
