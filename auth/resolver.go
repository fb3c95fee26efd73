package auth

import (
	"context"
	"strconv"

	"github.com/goliatone/go-errors"
)

// IdentityResolver maps a verified token subject to a live account record.
// The account store is injected, not ambient, so the resolver can be tested
// in isolation.
type IdentityResolver struct {
	store  AccountStore
	logger Logger
}

// NewIdentityResolver creates a resolver backed by the given account store.
func NewIdentityResolver(store AccountStore) *IdentityResolver {
	return &IdentityResolver{
		store:  store,
		logger: defLogger{},
	}
}

// WithLogger overrides the logger used by the resolver.
func (r *IdentityResolver) WithLogger(logger Logger) *IdentityResolver {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// Resolve parses the textual subject claim into the store's native numeric
// identifier and loads the account. A subject that does not parse resolves to
// ErrIdentityNotFound, never a fault. The active flag is re-read live on
// every call; a token's issuance snapshot is never trusted for this decision
// because an account may be deactivated while a token is still unexpired.
func (r *IdentityResolver) Resolve(ctx context.Context, subject string) (*Account, error) {
	id, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		r.logger.Debug("resolver could not parse token subject", "subject", subject)
		return nil, ErrIdentityNotFound
	}

	account, err := r.store.LookupByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		r.logger.Error("resolver account store lookup failed", "id", id, "error", err)
		return nil, errors.Wrap(err, ErrAccountStoreUnavailable.Category, ErrAccountStoreUnavailable.Message).
			WithTextCode(ErrAccountStoreUnavailable.TextCode)
	}

	if account == nil {
		return nil, ErrIdentityNotFound
	}

	if !account.Active {
		return nil, ErrAccountDeactivated
	}

	return account, nil
}
