package auth

import (
	"os"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/joho/godotenv"
)

// Reference token lifetimes. The contract is the ordering, not the literal
// values: access tokens are always shorter lived than refresh tokens.
const (
	DefaultAccessTokenTTL  = time.Hour
	DefaultRefreshTokenTTL = 30 * 24 * time.Hour
	DefaultResetTokenTTL   = time.Hour
)

// EnvConfig is a Config implementation backed by environment variables.
type EnvConfig struct {
	SigningKey      string
	ResetSigningKey string
	SigningMethod   string
	ContextKey      string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	ResetTokenTTL   time.Duration
	AuthScheme      string
	Issuer          string
	Audience        []string
}

// NewConfigFromEnv loads configuration from the environment, reading an
// optional .env file first. JWT_SECRET_KEY signs session tokens and
// SECRET_KEY signs reset tokens; they must be set and must differ.
func NewConfigFromEnv(envFiles ...string) (*EnvConfig, error) {
	// missing .env files are fine, the environment may be set directly
	_ = godotenv.Load(envFiles...)

	cfg := &EnvConfig{
		SigningKey:      os.Getenv("JWT_SECRET_KEY"),
		ResetSigningKey: os.Getenv("SECRET_KEY"),
		SigningMethod:   envOr("JWT_SIGNING_METHOD", "HS256"),
		ContextKey:      envOr("AUTH_CONTEXT_KEY", DefaultContextKey),
		AuthScheme:      envOr("AUTH_SCHEME", TokenTypeBearer),
		Issuer:          os.Getenv("JWT_ISSUER"),
	}

	var err error
	if cfg.AccessTokenTTL, err = envDuration("JWT_ACCESS_TOKEN_TTL", DefaultAccessTokenTTL); err != nil {
		return nil, err
	}
	if cfg.RefreshTokenTTL, err = envDuration("JWT_REFRESH_TOKEN_TTL", DefaultRefreshTokenTTL); err != nil {
		return nil, err
	}
	if cfg.ResetTokenTTL, err = envDuration("JWT_RESET_TOKEN_TTL", DefaultResetTokenTTL); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate enforces the configuration invariants: both signing keys present
// and distinct, and the access TTL strictly shorter than the refresh TTL.
func (c *EnvConfig) Validate() error {
	if c.SigningKey == "" {
		return errors.New("JWT_SECRET_KEY is required", errors.CategoryValidation)
	}
	if c.ResetSigningKey == "" {
		return errors.New("SECRET_KEY is required", errors.CategoryValidation)
	}
	if c.SigningKey == c.ResetSigningKey {
		return errors.New("JWT_SECRET_KEY and SECRET_KEY must differ", errors.CategoryValidation)
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return errors.New("token TTLs must be positive", errors.CategoryValidation)
	}
	if c.AccessTokenTTL >= c.RefreshTokenTTL {
		return errors.New("access token TTL must be shorter than refresh token TTL", errors.CategoryValidation)
	}
	return nil
}

func (c *EnvConfig) GetSigningKey() string             { return c.SigningKey }
func (c *EnvConfig) GetResetSigningKey() string        { return c.ResetSigningKey }
func (c *EnvConfig) GetSigningMethod() string          { return c.SigningMethod }
func (c *EnvConfig) GetContextKey() string             { return c.ContextKey }
func (c *EnvConfig) GetAccessTokenTTL() time.Duration  { return c.AccessTokenTTL }
func (c *EnvConfig) GetRefreshTokenTTL() time.Duration { return c.RefreshTokenTTL }
func (c *EnvConfig) GetResetTokenTTL() time.Duration   { return c.ResetTokenTTL }
func (c *EnvConfig) GetAuthScheme() string             { return c.AuthScheme }
func (c *EnvConfig) GetIssuer() string                 { return c.Issuer }
func (c *EnvConfig) GetAudience() []string             { return c.Audience }

var _ Config = (*EnvConfig)(nil)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, errors.Wrap(err, errors.CategoryValidation, "invalid duration in "+key)
	}
	return d, nil
}
