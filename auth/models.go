package auth

import (
	"strconv"
	"time"
)

// Account is the live account record obtained from the external account
// store. It is constructed fresh per request and never cached across
// requests.
type Account struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

// Identity adapts the account record to the Identity interface, stringifying
// the numeric identifier the way token subjects require.
func (a *Account) Identity() Identity {
	return accountIdentity{
		id:     strconv.FormatInt(a.ID, 10),
		email:  a.Email,
		active: a.Active,
	}
}

type accountIdentity struct {
	id     string
	email  string
	active bool
}

func (a accountIdentity) ID() string {
	return a.id
}

func (a accountIdentity) Email() string {
	return a.email
}

func (a accountIdentity) IsActive() bool {
	return a.active
}

var _ Identity = accountIdentity{}

// TokenPair is the result of session issuance.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}
