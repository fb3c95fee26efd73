package auth

import (
	"context"

	"github.com/goliatone/go-errors"
)

// CredentialStore extends AccountStore with the email lookup credential
// verification needs. Lookups for missing accounts return (nil, nil).
type CredentialStore interface {
	AccountStore
	LookupByEmail(ctx context.Context, email string) (*Account, error)
}

// AccountProvider is the default IdentityProvider, verifying passwords
// against the bcrypt hash stored on the account record. It also satisfies
// PasswordAuthenticator so registration and reset flows hash through the
// same component that verifies.
type AccountProvider struct {
	store  CredentialStore
	logger Logger
}

// NewAccountProvider creates a provider backed by the given credential store.
func NewAccountProvider(store CredentialStore) *AccountProvider {
	return &AccountProvider{
		store:  store,
		logger: defLogger{},
	}
}

// WithLogger overrides the logger used by the provider.
func (p *AccountProvider) WithLogger(logger Logger) *AccountProvider {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// VerifyIdentity checks the given credentials against the stored hash.
// Unknown identifiers and wrong passwords fail identically, and an unknown
// identifier still burns a comparison against a random hash so the failure
// timing does not reveal whether the account exists.
func (p *AccountProvider) VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error) {
	account, err := p.lookup(ctx, identifier)
	if err != nil {
		return nil, err
	}

	if account == nil {
		_ = ComparePasswordAndHash(password, RandomPasswordHash())
		return nil, ErrMismatchedHashAndPassword
	}

	if err := p.ComparePasswordAndHash(password, account.PasswordHash); err != nil {
		p.logger.Debug("credential verification failed", "identifier", identifier)
		return nil, ErrMismatchedHashAndPassword
	}

	return account.Identity(), nil
}

// FindIdentityByIdentifier looks up an identity by email without verifying
// credentials.
func (p *AccountProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error) {
	account, err := p.lookup(ctx, identifier)
	if err != nil {
		return nil, err
	}

	if account == nil {
		return nil, ErrIdentityNotFound
	}

	return account.Identity(), nil
}

// HashPassword hashes a cleartext password for storage.
func (p *AccountProvider) HashPassword(password string) (string, error) {
	return HashPassword(password)
}

// ComparePasswordAndHash checks a cleartext password against a stored hash.
func (p *AccountProvider) ComparePasswordAndHash(password, hash string) error {
	return ComparePasswordAndHash(password, hash)
}

func (p *AccountProvider) lookup(ctx context.Context, email string) (*Account, error) {
	account, err := p.store.LookupByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, nil
		}
		p.logger.Error("provider account store lookup failed", "error", err)
		return nil, errors.Wrap(err, ErrAccountStoreUnavailable.Category, ErrAccountStoreUnavailable.Message).
			WithTextCode(ErrAccountStoreUnavailable.TextCode)
	}
	return account, nil
}

var _ IdentityProvider = (*AccountProvider)(nil)
var _ PasswordAuthenticator = (*AccountProvider)(nil)
