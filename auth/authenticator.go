package auth

import (
	"context"
	"reflect"

	"github.com/goliatone/go-errors"
)

// Auther orchestrates credential verification and token issuance. It holds
// no account state of its own; identities come from the injected provider
// and all tokens from the token service.
type Auther struct {
	provider IdentityProvider
	tokens   TokenService
	logger   Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, tokens TokenService) *Auther {
	return &Auther{
		provider: provider,
		tokens:   tokens,
		logger:   defLogger{},
	}
}

// WithLogger overrides the logger used by the authenticator.
func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokens
}

// Login verifies the given credentials and issues a fresh session pair.
// Deactivated accounts cannot log in even with valid credentials.
func (s *Auther) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	identity, err := s.provider.VerifyIdentity(ctx, email, password)
	if err != nil {
		s.logger.Error("Login verify identity error", "error", err)
		return nil, err
	}

	if identity == nil || reflect.ValueOf(identity).IsZero() {
		s.logger.Error("Login identity is nil or zero value")
		return nil, ErrIdentityNotFound
	}

	if !identity.IsActive() {
		s.logger.Warn("Login blocked for deactivated account", "id", identity.ID())
		return nil, ErrAccountDeactivated
	}

	return s.tokens.IssueSessionPair(identity)
}

// Refresh validates a refresh token and issues a new session pair. Access
// tokens are rejected by their type tag, and the identity is re-resolved
// live before reissue so a deactivated account cannot mint new credentials
// from a still-unexpired refresh token.
func (s *Auther) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.ValidateRefresh(refreshToken)
	if err != nil {
		s.logger.Info("Refresh token validation failed", "error", err)
		return nil, err
	}

	identity, err := s.findIdentity(ctx, claims.Subject())
	if err != nil {
		return nil, err
	}

	if !identity.IsActive() {
		s.logger.Warn("Refresh blocked for deactivated account", "id", identity.ID())
		return nil, ErrAccountDeactivated
	}

	return s.tokens.IssueSessionPair(identity)
}

// RequestPasswordReset issues a single purpose reset token for the account
// registered under the given email. Delivery of the token is the caller's
// concern.
func (s *Auther) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	identity, err := s.findIdentity(ctx, email)
	if err != nil {
		return "", err
	}

	return s.tokens.IssueResetToken(identity)
}

// VerifyPasswordReset validates a reset token and returns the account
// identifier it authorizes a reset for.
func (s *Auther) VerifyPasswordReset(token string) (int64, error) {
	return s.tokens.ValidateReset(token)
}

func (s *Auther) findIdentity(ctx context.Context, identifier string) (Identity, error) {
	identity, err := s.provider.FindIdentityByIdentifier(ctx, identifier)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		s.logger.Error("find identity by identifier failed", "identifier", identifier, "error", err)
		return nil, err
	}

	if identity == nil || reflect.ValueOf(identity).IsZero() {
		return nil, ErrIdentityNotFound
	}

	return identity, nil
}

var _ Authenticator = (*Auther)(nil)
