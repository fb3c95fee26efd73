package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Type claim values discriminating the token classes. Session tokens are
// tagged access or refresh at issuance; a refresh token is never a valid
// access credential even though both are signed with the session key.
const (
	AccessTokenType  = "access"
	RefreshTokenType = "refresh"
)

// ResetTokenType is the discriminating type claim carried by password reset
// tokens. Its absence or mismatch is an unconditional rejection; session
// tokens and reset tokens share a structurally similar envelope and the type
// tag is the sole discriminator between them.
const ResetTokenType = "password_reset"

// TokenTypeBearer is the token_type reported alongside issued session pairs.
const TokenTypeBearer = "Bearer"

// AuthClaims represents the verified payload of a session token
type AuthClaims interface {
	Subject() string
	Email() string
	Expires() time.Time
	IssuedAt() time.Time
}

// SessionClaims is the claim set embedded in access and refresh tokens. The
// user_id, email, and is_active fields are a snapshot taken at issuance and
// only appear on access tokens; they are informational and never consulted
// for authorization decisions, which always re-read the live account record.
type SessionClaims struct {
	jwt.RegisteredClaims
	UserID    int64  `json:"user_id,omitempty"`
	Mail      string `json:"email,omitempty"`
	Active    *bool  `json:"is_active,omitempty"`
	TokenType string `json:"type,omitempty"`
}

var _ AuthClaims = (*SessionClaims)(nil)

// Subject returns the subject claim, the textual account identifier
func (c *SessionClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// Email returns the email snapshot taken at issuance, if any
func (c *SessionClaims) Email() string {
	return c.Mail
}

// Expires returns the expiration time
func (c *SessionClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *SessionClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// ActiveSnapshot reports the is_active flag captured at issuance. The second
// return is false when the token carries no snapshot, e.g. refresh tokens.
func (c *SessionClaims) ActiveSnapshot() (bool, bool) {
	if c.Active == nil {
		return false, false
	}
	return *c.Active, true
}

// ResetClaims is the claim set embedded in password reset tokens. It carries
// the discriminating type tag and is signed with the reset key, never the
// session key.
type ResetClaims struct {
	jwt.RegisteredClaims
	UserID    int64  `json:"user_id"`
	Mail      string `json:"email"`
	TokenType string `json:"type"`
}

// Email returns the email the reset was requested for
func (c *ResetClaims) Email() string {
	return c.Mail
}

// Expires returns the expiration time
func (c *ResetClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}
