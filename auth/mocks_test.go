package auth_test

import (
	"context"
	"time"

	"github.com/kdornadula/planventure/auth"
	"github.com/stretchr/testify/mock"
)

// MockAccountStore implements auth.AccountStore and auth.CredentialStore
type MockAccountStore struct {
	mock.Mock
}

func (m *MockAccountStore) LookupByID(ctx context.Context, id int64) (*auth.Account, error) {
	args := m.Called(ctx, id)
	account, _ := args.Get(0).(*auth.Account)
	return account, args.Error(1)
}

func (m *MockAccountStore) LookupByEmail(ctx context.Context, email string) (*auth.Account, error) {
	args := m.Called(ctx, email)
	account, _ := args.Get(0).(*auth.Account)
	return account, args.Error(1)
}

// MockIdentityProvider implements auth.IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, identifier, password string) (auth.Identity, error) {
	args := m.Called(ctx, identifier, password)
	identity, _ := args.Get(0).(auth.Identity)
	return identity, args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (auth.Identity, error) {
	args := m.Called(ctx, identifier)
	identity, _ := args.Get(0).(auth.Identity)
	return identity, args.Error(1)
}

// MockLogger implements auth.Logger
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

// nopLogger swallows all output; used where log expectations are noise
type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// testConfig returns a valid config with short but ordered TTLs
func testConfig() *auth.EnvConfig {
	return &auth.EnvConfig{
		SigningKey:      "session-secret-key",
		ResetSigningKey: "reset-secret-key",
		SigningMethod:   "HS256",
		ContextKey:      auth.DefaultContextKey,
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 30 * 24 * time.Hour,
		ResetTokenTTL:   time.Hour,
		AuthScheme:      auth.TokenTypeBearer,
		Issuer:          "planventure",
	}
}

// testIdentity is a plain Identity implementation for issuing tokens
type testIdentity struct {
	id     string
	email  string
	active bool
}

func (i testIdentity) ID() string     { return i.id }
func (i testIdentity) Email() string  { return i.email }
func (i testIdentity) IsActive() bool { return i.active }
