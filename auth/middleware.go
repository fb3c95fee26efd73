package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Rejection messages are part of the observable contract; callers and tests
// distinguish failure kinds by these exact strings.
const (
	MsgTokenRequired      = "Token required"
	MsgTokenExpired       = "Token has expired"
	MsgInvalidToken       = "Invalid token"
	MsgUserNotFound       = "User not found"
	MsgAccountDeactivated = "Account is deactivated"
	MsgAuthUnavailable    = "Authentication temporarily unavailable"
	MsgAdminRequired      = "Admin access required"
)

// DefaultContextKey is where resolved accounts are stored in fiber locals.
const DefaultContextKey = "current_user"

// Middleware composes the token validator and the identity resolver into
// request interception policies. Each request performs its own full
// verify+resolve cycle; nothing is cached across requests.
type Middleware struct {
	validator  TokenValidator
	resolver   *IdentityResolver
	logger     Logger
	contextKey string
	authScheme string
	adminCheck func(*Account) bool
}

// NewMiddleware creates the authorization gate from a validator and resolver.
func NewMiddleware(validator TokenValidator, resolver *IdentityResolver) *Middleware {
	return &Middleware{
		validator:  validator,
		resolver:   resolver,
		logger:     defLogger{},
		contextKey: DefaultContextKey,
		authScheme: TokenTypeBearer,
		adminCheck: func(*Account) bool { return true },
	}
}

// WithLogger overrides the logger used by the gate.
func (m *Middleware) WithLogger(logger Logger) *Middleware {
	if logger != nil {
		m.logger = logger
	}
	return m
}

// WithContextKey overrides the fiber locals key for the resolved account.
func (m *Middleware) WithContextKey(key string) *Middleware {
	if key != "" {
		m.contextKey = key
	}
	return m
}

// WithAuthScheme overrides the Authorization header scheme.
func (m *Middleware) WithAuthScheme(scheme string) *Middleware {
	m.authScheme = scheme
	return m
}

// WithAdminCheck installs the role decision hook used by RequireAdmin. The
// default grants every resolved identity; a future role model plugs in here
// rather than per route.
func (m *Middleware) WithAdminCheck(check func(*Account) bool) *Middleware {
	if check != nil {
		m.adminCheck = check
	}
	return m
}

// RequireAuth rejects unauthenticated, invalid, and inactive requests with a
// 401 and a kind-specific message. The wrapped handler only runs after the
// bearer credential verified and its subject resolved to an active account.
func (m *Middleware) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		account, claims, err := m.authenticate(c)
		if err != nil {
			return m.reject(c, err)
		}

		m.attach(c, account, claims)
		return c.Next()
	}
}

// OptionalAuth attaches the resolved identity when a valid credential is
// present and proceeds without one otherwise. Verification and resolution
// failures of every kind degrade to "no identity"; this asymmetry with
// RequireAuth is deliberate and must hold exactly — optional authentication
// never blocks a request.
func (m *Middleware) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := tokenFromHeader(c, m.authScheme)
		if err != nil {
			return c.Next()
		}

		account, claims, err := m.verifyAndResolve(c, raw)
		if err != nil {
			m.logger.Debug("optional auth degraded to unauthenticated", "reason", err.Error())
			return c.Next()
		}

		m.attach(c, account, claims)
		return c.Next()
	}
}

// RequireActiveUser is RequireAuth plus an explicit re-assertion of the
// account active flag on the value about to be exposed to the handler. The
// resolver already rejects inactive accounts; this second check is defense in
// depth for callers that bypass the standard identity accessor.
func (m *Middleware) RequireActiveUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		account, claims, err := m.authenticate(c)
		if err != nil {
			return m.reject(c, err)
		}

		if !account.Active {
			return m.reject(c, ErrAccountDeactivated)
		}

		m.attach(c, account, claims)
		return c.Next()
	}
}

// RequireAdmin composes like RequireAuth and then consults the admin decision
// hook. Today the default hook grants every resolved identity.
func (m *Middleware) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		account, claims, err := m.authenticate(c)
		if err != nil {
			return m.reject(c, err)
		}

		if !m.adminCheck(account) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": MsgAdminRequired})
		}

		m.attach(c, account, claims)
		return c.Next()
	}
}

// CurrentAccount returns the resolved account stored by the gate, if any.
func (m *Middleware) CurrentAccount(c *fiber.Ctx) (*Account, bool) {
	raw := c.Locals(m.contextKey)
	if raw == nil {
		return nil, false
	}
	account, ok := raw.(*Account)
	return account, ok && account != nil
}

func (m *Middleware) authenticate(c *fiber.Ctx) (*Account, AuthClaims, error) {
	raw, err := tokenFromHeader(c, m.authScheme)
	if err != nil {
		return nil, nil, err
	}
	return m.verifyAndResolve(c, raw)
}

func (m *Middleware) verifyAndResolve(c *fiber.Ctx, raw string) (*Account, AuthClaims, error) {
	claims, err := m.validator.Validate(raw)
	if err != nil {
		return nil, nil, err
	}

	ctx := c.UserContext()

	account, err := m.resolver.Resolve(ctx, claims.Subject())
	if err != nil && IsStoreUnavailableError(err) && ctx.Err() == nil {
		// single retry; store outages are the only transient failure kind
		account, err = m.resolver.Resolve(ctx, claims.Subject())
	}
	if err != nil {
		return nil, nil, err
	}

	return account, claims, nil
}

func (m *Middleware) attach(c *fiber.Ctx, account *Account, claims AuthClaims) {
	c.Locals(m.contextKey, account)

	ctx := WithContext(c.UserContext(), account)
	ctx = WithClaimsContext(ctx, claims)
	c.SetUserContext(ctx)
}

func (m *Middleware) reject(c *fiber.Ctx, err error) error {
	msg := MsgInvalidToken
	switch {
	case hasTextCode(err, TextCodeTokenRequired):
		msg = MsgTokenRequired
	case IsTokenExpiredError(err):
		msg = MsgTokenExpired
	case IsIdentityNotFoundError(err):
		msg = MsgUserNotFound
	case IsAccountDeactivatedError(err):
		msg = MsgAccountDeactivated
	case IsStoreUnavailableError(err):
		msg = MsgAuthUnavailable
	}

	m.logger.Info("request rejected by authorization gate", "reason", err.Error(), "path", c.Path())

	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": msg})
}

// tokenFromHeader extracts the bearer credential from the Authorization
// header, stripping the scheme prefix before decoding. An empty scheme
// accepts the raw header value.
func tokenFromHeader(c *fiber.Ctx, authScheme string) (string, error) {
	a := c.Get(fiber.HeaderAuthorization)
	if a == "" {
		return "", ErrTokenRequired
	}

	authScheme = strings.TrimSpace(authScheme)
	if authScheme == "" {
		return strings.TrimSpace(a), nil
	}

	l := len(authScheme)
	if len(a) > l+1 && strings.EqualFold(a[:l], authScheme) && a[l] == ' ' {
		return strings.TrimSpace(a[l+1:]), nil
	}

	return "", ErrTokenRequired
}
