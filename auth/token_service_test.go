package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kdornadula/planventure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenService(t *testing.T) *auth.TokenServiceImpl {
	t.Helper()
	ts, err := auth.NewTokenService(testConfig(), nopLogger{})
	require.NoError(t, err)
	return ts
}

// signToken signs arbitrary claims outside the service, for forgery and
// expiry scenarios.
func signToken(t *testing.T, method jwt.SigningMethod, key any, claims jwt.Claims) string {
	t.Helper()

	token := jwt.NewWithClaims(method, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestNewTokenService(t *testing.T) {
	t.Run("creates service from valid config", func(t *testing.T) {
		ts, err := auth.NewTokenService(testConfig(), nil)
		assert.NoError(t, err)
		assert.NotNil(t, ts)
	})

	t.Run("rejects missing session key", func(t *testing.T) {
		cfg := testConfig()
		cfg.SigningKey = ""
		_, err := auth.NewTokenService(cfg, nil)
		assert.Error(t, err)
	})

	t.Run("rejects missing reset key", func(t *testing.T) {
		cfg := testConfig()
		cfg.ResetSigningKey = ""
		_, err := auth.NewTokenService(cfg, nil)
		assert.Error(t, err)
	})

	t.Run("rejects shared session and reset keys", func(t *testing.T) {
		cfg := testConfig()
		cfg.ResetSigningKey = cfg.SigningKey
		_, err := auth.NewTokenService(cfg, nil)
		assert.Error(t, err)
	})

	t.Run("rejects access TTL not shorter than refresh TTL", func(t *testing.T) {
		cfg := testConfig()
		cfg.AccessTokenTTL = cfg.RefreshTokenTTL
		_, err := auth.NewTokenService(cfg, nil)
		assert.Error(t, err)
	})
}

func TestTokenService_IssueSessionPair(t *testing.T) {
	ts := newTokenService(t)
	identity := testIdentity{id: "6", email: "a@b.com", active: true}

	pair, err := ts.IssueSessionPair(identity)
	require.NoError(t, err)

	t.Run("pair shape", func(t *testing.T) {
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
		assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
		assert.Equal(t, auth.TokenTypeBearer, pair.TokenType)
		assert.Equal(t, int64(3600), pair.ExpiresIn)
	})

	t.Run("access token round trips with subject and snapshot", func(t *testing.T) {
		claims, err := ts.Validate(pair.AccessToken)
		require.NoError(t, err)

		assert.Equal(t, "6", claims.Subject())
		assert.Equal(t, "a@b.com", claims.Email())
		assert.WithinDuration(t, time.Now().Add(time.Hour), claims.Expires(), time.Minute)

		session, ok := claims.(*auth.SessionClaims)
		require.True(t, ok)
		active, present := session.ActiveSnapshot()
		assert.True(t, present)
		assert.True(t, active)
		assert.Equal(t, int64(6), session.UserID)
	})

	t.Run("refresh token carries subject but no snapshot", func(t *testing.T) {
		claims, err := ts.ValidateRefresh(pair.RefreshToken)
		require.NoError(t, err)

		assert.Equal(t, "6", claims.Subject())
		assert.Empty(t, claims.Email())

		session, ok := claims.(*auth.SessionClaims)
		require.True(t, ok)
		_, present := session.ActiveSnapshot()
		assert.False(t, present)
	})

	t.Run("refresh token outlives access token", func(t *testing.T) {
		access, err := ts.Validate(pair.AccessToken)
		require.NoError(t, err)
		refresh, err := ts.ValidateRefresh(pair.RefreshToken)
		require.NoError(t, err)

		assert.True(t, access.Expires().Before(refresh.Expires()))
	})

	t.Run("token classes carry their type tags", func(t *testing.T) {
		access, err := ts.Validate(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, auth.AccessTokenType, access.(*auth.SessionClaims).TokenType)

		refresh, err := ts.ValidateRefresh(pair.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, auth.RefreshTokenType, refresh.(*auth.SessionClaims).TokenType)
	})

	t.Run("nil identity is rejected", func(t *testing.T) {
		_, err := ts.IssueSessionPair(nil)
		assert.Error(t, err)
	})
}

func TestTokenService_Validate(t *testing.T) {
	ts := newTokenService(t)
	sessionKey := []byte(testConfig().SigningKey)

	t.Run("expired token fails with expired, never malformed", func(t *testing.T) {
		expired := signToken(t, jwt.SigningMethodHS256, sessionKey, &auth.SessionClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "planventure",
				Subject:   "6",
				IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		})

		_, err := ts.Validate(expired)
		require.Error(t, err)
		assert.True(t, auth.IsTokenExpiredError(err))
		assert.False(t, auth.IsMalformedError(err))
	})

	t.Run("token signed with a different secret is malformed", func(t *testing.T) {
		forged := signToken(t, jwt.SigningMethodHS256, []byte("other-secret"), &auth.SessionClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "planventure",
				Subject:   "6",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})

		_, err := ts.Validate(forged)
		require.Error(t, err)
		assert.True(t, auth.IsMalformedError(err))
	})

	t.Run("structurally invalid token is malformed", func(t *testing.T) {
		_, err := ts.Validate("not.a.token")
		require.Error(t, err)
		assert.True(t, auth.IsMalformedError(err))
	})

	t.Run("unsigned token is rejected", func(t *testing.T) {
		unsigned := signToken(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, &auth.SessionClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "planventure",
				Subject:   "6",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})

		_, err := ts.Validate(unsigned)
		require.Error(t, err)
		assert.True(t, auth.IsMalformedError(err))
	})

	t.Run("refresh token is not an access credential", func(t *testing.T) {
		pair, err := ts.IssueSessionPair(testIdentity{id: "6", email: "a@b.com", active: true})
		require.NoError(t, err)

		_, err = ts.Validate(pair.RefreshToken)
		require.Error(t, err)
		assert.True(t, auth.IsWrongTokenTypeError(err))
	})

	t.Run("access token is not a refresh credential", func(t *testing.T) {
		pair, err := ts.IssueSessionPair(testIdentity{id: "6", email: "a@b.com", active: true})
		require.NoError(t, err)

		_, err = ts.ValidateRefresh(pair.AccessToken)
		require.Error(t, err)
		assert.True(t, auth.IsWrongTokenTypeError(err))
	})

	t.Run("untyped session token from an external issuer still validates", func(t *testing.T) {
		untyped := signToken(t, jwt.SigningMethodHS256, sessionKey, &auth.SessionClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "planventure",
				Subject:   "6",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})

		claims, err := ts.Validate(untyped)
		require.NoError(t, err)
		assert.Equal(t, "6", claims.Subject())
	})
}

func TestTokenService_SigningMethod(t *testing.T) {
	t.Run("rejects unknown signing method", func(t *testing.T) {
		cfg := testConfig()
		cfg.SigningMethod = "HS42"
		_, err := auth.NewTokenService(cfg, nil)
		assert.Error(t, err)
	})

	t.Run("rejects non-HMAC signing method", func(t *testing.T) {
		cfg := testConfig()
		cfg.SigningMethod = "RS256"
		_, err := auth.NewTokenService(cfg, nil)
		assert.Error(t, err)
	})

	t.Run("configured HMAC variant round trips", func(t *testing.T) {
		cfg := testConfig()
		cfg.SigningMethod = "HS384"
		ts, err := auth.NewTokenService(cfg, nopLogger{})
		require.NoError(t, err)

		pair, err := ts.IssueSessionPair(testIdentity{id: "6", email: "a@b.com", active: true})
		require.NoError(t, err)

		claims, err := ts.Validate(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "6", claims.Subject())

		decoded, _, err := jwt.NewParser().ParseUnverified(pair.AccessToken, &auth.SessionClaims{})
		require.NoError(t, err)
		assert.Equal(t, "HS384", decoded.Header["alg"])
	})
}

func TestTokenService_ResetTokens(t *testing.T) {
	ts := newTokenService(t)
	identity := testIdentity{id: "6", email: "a@b.com", active: true}

	t.Run("reset token round trips to the account identifier", func(t *testing.T) {
		token, err := ts.IssueResetToken(identity)
		require.NoError(t, err)

		uid, err := ts.ValidateReset(token)
		require.NoError(t, err)
		assert.Equal(t, int64(6), uid)
	})

	t.Run("reset token is never accepted as a session token", func(t *testing.T) {
		token, err := ts.IssueResetToken(identity)
		require.NoError(t, err)

		_, err = ts.Validate(token)
		require.Error(t, err)
		assert.True(t, auth.IsMalformedError(err))
	})

	t.Run("session token is never accepted as a reset token", func(t *testing.T) {
		pair, err := ts.IssueSessionPair(identity)
		require.NoError(t, err)

		_, err = ts.ValidateReset(pair.AccessToken)
		require.Error(t, err)
	})

	t.Run("type tag is checked even under the reset key", func(t *testing.T) {
		// a session-shaped token signed with the reset key must still fail
		resetKey := []byte(testConfig().ResetSigningKey)
		crafted := signToken(t, jwt.SigningMethodHS256, resetKey, &auth.SessionClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "planventure",
				Subject:   "6",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})

		_, err := ts.ValidateReset(crafted)
		require.Error(t, err)
		assert.True(t, auth.IsWrongTokenTypeError(err))
	})

	t.Run("expired reset token fails with expired", func(t *testing.T) {
		resetKey := []byte(testConfig().ResetSigningKey)
		expired := signToken(t, jwt.SigningMethodHS256, resetKey, &auth.ResetClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "planventure",
				Subject:   "6",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			},
			UserID:    6,
			TokenType: auth.ResetTokenType,
		})

		_, err := ts.ValidateReset(expired)
		require.Error(t, err)
		assert.True(t, auth.IsTokenExpiredError(err))
	})
}
