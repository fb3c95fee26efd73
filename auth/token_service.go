package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// TokenService mints and validates the two token classes. Session tokens
// (access/refresh) are signed with the session key; password reset tokens are
// signed with a distinct reset key so compromise of one class cannot forge
// the other.
type TokenService interface {
	TokenIssuer
	TokenValidator
	ValidateRefresh(tokenString string) (AuthClaims, error)
	ValidateReset(tokenString string) (int64, error)
	AccessTokenTTL() time.Duration
}

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey      []byte
	resetSigningKey []byte
	signingMethod   jwt.SigningMethod
	accessTTL       time.Duration
	refreshTTL      time.Duration
	resetTTL        time.Duration
	issuer          string
	audience        jwt.ClaimStrings
	logger          Logger
}

// NewTokenService creates a new TokenService instance from the given config.
// The access TTL must be shorter than the refresh TTL, and the session and
// reset signing keys must differ; violations are configuration mistakes, not
// runtime conditions, so they fail construction.
func NewTokenService(cfg Config, logger Logger) (*TokenServiceImpl, error) {
	if logger == nil {
		logger = defLogger{}
	}

	if cfg.GetSigningKey() == "" {
		return nil, errors.New("session signing key is required", errors.CategoryValidation)
	}

	if cfg.GetResetSigningKey() == "" {
		return nil, errors.New("reset signing key is required", errors.CategoryValidation)
	}

	if cfg.GetSigningKey() == cfg.GetResetSigningKey() {
		return nil, errors.New("session and reset signing keys must differ", errors.CategoryValidation)
	}

	methodName := cfg.GetSigningMethod()
	if methodName == "" {
		methodName = "HS256"
	}
	method := jwt.GetSigningMethod(methodName)
	if method == nil {
		return nil, errors.New("unknown signing method: "+methodName, errors.CategoryValidation)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.New("signing method must be an HMAC variant: "+methodName, errors.CategoryValidation)
	}

	accessTTL := cfg.GetAccessTokenTTL()
	refreshTTL := cfg.GetRefreshTokenTTL()
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("token TTLs must be positive", errors.CategoryValidation)
	}

	if accessTTL >= refreshTTL {
		return nil, errors.New("access token TTL must be shorter than refresh token TTL", errors.CategoryValidation)
	}

	resetTTL := cfg.GetResetTokenTTL()
	if resetTTL <= 0 {
		resetTTL = time.Hour
	}

	return &TokenServiceImpl{
		signingKey:      []byte(cfg.GetSigningKey()),
		resetSigningKey: []byte(cfg.GetResetSigningKey()),
		signingMethod:   method,
		accessTTL:       accessTTL,
		refreshTTL:      refreshTTL,
		resetTTL:        resetTTL,
		issuer:          cfg.GetIssuer(),
		audience:        cfg.GetAudience(),
		logger:          logger,
	}, nil
}

// AccessTokenTTL returns the configured access token lifetime
func (ts *TokenServiceImpl) AccessTokenTTL() time.Duration {
	return ts.accessTTL
}

// IssueSessionPair mints an access/refresh token pair for the given identity.
// The access token carries an issuance snapshot of the account identifier,
// email, and active flag; the snapshot is informational only and the refresh
// token omits it. Both tokens carry subject = identity.ID().
func (ts *TokenServiceImpl) IssueSessionPair(identity Identity) (*TokenPair, error) {
	if identity == nil {
		return nil, errors.New("identity must not be nil", errors.CategoryBadInput)
	}

	now := time.Now()
	active := identity.IsActive()

	access := &SessionClaims{
		RegisteredClaims: ts.registeredClaims(identity.ID(), now, ts.accessTTL),
		Mail:             identity.Email(),
		Active:           &active,
		TokenType:        AccessTokenType,
	}
	if uid, err := strconv.ParseInt(identity.ID(), 10, 64); err == nil {
		access.UserID = uid
	}

	refresh := &SessionClaims{
		RegisteredClaims: ts.registeredClaims(identity.ID(), now, ts.refreshTTL),
		TokenType:        RefreshTokenType,
	}

	accessToken, err := ts.signClaims(access, ts.signingKey)
	if err != nil {
		return nil, err
	}

	refreshToken, err := ts.signClaims(refresh, ts.signingKey)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    TokenTypeBearer,
		ExpiresIn:    int64(ts.accessTTL.Seconds()),
	}, nil
}

// IssueResetToken mints a single purpose password reset token, signed with
// the reset key and tagged with the discriminating type claim. It performs no
// store access.
func (ts *TokenServiceImpl) IssueResetToken(identity Identity) (string, error) {
	if identity == nil {
		return "", errors.New("identity must not be nil", errors.CategoryBadInput)
	}

	claims := &ResetClaims{
		RegisteredClaims: ts.registeredClaims(identity.ID(), time.Now(), ts.resetTTL),
		Mail:             identity.Email(),
		TokenType:        ResetTokenType,
	}
	if uid, err := strconv.ParseInt(identity.ID(), 10, 64); err == nil {
		claims.UserID = uid
	}

	return ts.signClaims(claims, ts.resetSigningKey)
}

// Validate parses and validates an access token, returning structured claims.
// Expired tokens fail with ErrTokenExpired; every other failure, including a
// signature that does not verify under the session key, is ErrTokenMalformed.
// Refresh tokens verify under the same key but are rejected here by their
// type tag; their month-long lifetime must never authorize a request.
func (ts *TokenServiceImpl) Validate(tokenString string) (AuthClaims, error) {
	claims := &SessionClaims{}
	if err := ts.parseToken(tokenString, claims, ts.signingKey); err != nil {
		return nil, err
	}

	if claims.TokenType != "" && claims.TokenType != AccessTokenType {
		ts.logger.Warn("TokenService validate rejected token with wrong type", "type", claims.TokenType)
		return nil, ErrWrongTokenType
	}

	return claims, nil
}

// ValidateRefresh parses and validates a refresh token. Access tokens are
// rejected by their type tag; a short-lived access credential must not stand
// in for the refresh grant.
func (ts *TokenServiceImpl) ValidateRefresh(tokenString string) (AuthClaims, error) {
	claims := &SessionClaims{}
	if err := ts.parseToken(tokenString, claims, ts.signingKey); err != nil {
		return nil, err
	}

	if claims.TokenType != RefreshTokenType {
		ts.logger.Warn("TokenService refresh validation rejected token with wrong type", "type", claims.TokenType)
		return nil, ErrWrongTokenType
	}

	return claims, nil
}

// ValidateReset parses and validates a password reset token and returns the
// account identifier it was issued for. The type tag is checked on every
// successful decode, not only on ambiguous input; a session token signed with
// the same key would otherwise pass as a reset credential.
func (ts *TokenServiceImpl) ValidateReset(tokenString string) (int64, error) {
	claims := &ResetClaims{}
	if err := ts.parseToken(tokenString, claims, ts.resetSigningKey); err != nil {
		return 0, err
	}

	if claims.TokenType != ResetTokenType {
		ts.logger.Warn("TokenService reset validation rejected token with wrong type", "type", claims.TokenType)
		return 0, ErrWrongTokenType
	}

	if claims.UserID != 0 {
		return claims.UserID, nil
	}

	uid, err := strconv.ParseInt(claims.RegisteredClaims.Subject, 10, 64)
	if err != nil {
		return 0, ErrTokenMalformed
	}
	return uid, nil
}

func (ts *TokenServiceImpl) parseToken(tokenString string, claims jwt.Claims, key []byte) error {
	parserOptions := make([]jwt.ParserOption, 0, 1)
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return key, nil
	}, parserOptions...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode)
	}

	if !token.Valid {
		ts.logger.Error("TokenService validate could not decode or validate claims")
		return ErrTokenMalformed
	}

	if len(ts.audience) > 0 && !ts.audienceMatches(claims) {
		return ErrTokenMalformed
	}

	return nil
}

// audienceMatches reports whether the token names at least one of the
// configured audiences.
func (ts *TokenServiceImpl) audienceMatches(claims jwt.Claims) bool {
	aud, err := claims.GetAudience()
	if err != nil {
		return false
	}

	for _, want := range ts.audience {
		for _, got := range aud {
			if got == want {
				return true
			}
		}
	}
	return false
}

func (ts *TokenServiceImpl) signClaims(claims jwt.Claims, key []byte) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	token := jwt.NewWithClaims(ts.signingMethod, claims)

	signedString, err := token.SignedString(key)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

func (ts *TokenServiceImpl) registeredClaims(subject string, now time.Time, ttl time.Duration) jwt.RegisteredClaims {
	var aud jwt.ClaimStrings
	if len(ts.audience) > 0 {
		aud = make(jwt.ClaimStrings, len(ts.audience))
		copy(aud, ts.audience)
	}

	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    ts.issuer,
		Subject:   subject,
		Audience:  aud,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

var _ TokenService = (*TokenServiceImpl)(nil)
