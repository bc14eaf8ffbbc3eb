package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/identity-service/internal/config"
	"github.com/spec-kit/identity-service/internal/domain"
)

// Access and refresh tokens are signed with different HMAC variants on top of
// different secrets, so a leaked refresh secret cannot forge access tokens and
// the other way round. Verification pins the method per token type.
var (
	accessSigningMethod  = jwt.SigningMethodHS256
	refreshSigningMethod = jwt.SigningMethodHS512
)

// TokenPair holds the signed tokens and their expiry timestamps.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// Claims describes the signed payload of both token types.
type Claims struct {
	Email string   `json:"email,omitempty"`
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies access and refresh tokens. It is a pure
// function of its configuration, the input and the clock; it performs no I/O.
type TokenCodec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewTokenCodec validates the auth configuration and builds the codec.
// A missing secret or TTL is a startup fault reported as *ConfigError
// naming the offending setting.
func NewTokenCodec(cfg config.AuthConfig) (*TokenCodec, error) {
	if cfg.AccessTokenSecret == "" {
		return nil, newConfigError("AUTH_ACCESS_TOKEN_SECRET", "is required")
	}
	if cfg.RefreshTokenSecret == "" {
		return nil, newConfigError("AUTH_REFRESH_TOKEN_SECRET", "is required")
	}
	if cfg.RefreshTokenSecret == cfg.AccessTokenSecret {
		return nil, newConfigError("AUTH_REFRESH_TOKEN_SECRET", "must differ from AUTH_ACCESS_TOKEN_SECRET")
	}
	if cfg.AccessTokenTTLMinutes <= 0 {
		return nil, newConfigError("AUTH_ACCESS_TOKEN_TTL_MINUTES", "must be a positive integer")
	}
	if cfg.RefreshTokenTTLMinutes <= 0 {
		return nil, newConfigError("AUTH_REFRESH_TOKEN_TTL_MINUTES", "must be a positive integer")
	}

	return &TokenCodec{
		accessSecret:  []byte(cfg.AccessTokenSecret),
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		accessTTL:     cfg.AccessTokenTTL(),
		refreshTTL:    cfg.RefreshTokenTTL(),
		now:           time.Now,
	}, nil
}

// Issue signs an access/refresh pair for the identity. The identity must carry
// a subject and at least one role code; tokens never leave here half-formed.
func (tc *TokenCodec) Issue(identity domain.Identity) (*TokenPair, error) {
	if identity.SubjectID == "" {
		return nil, ErrInvalidPayload
	}
	if len(identity.RoleCodes) == 0 {
		return nil, ErrInvalidPayload
	}

	now := tc.now()
	accessExp := now.Add(tc.accessTTL)
	refreshExp := now.Add(tc.refreshTTL)

	accessToken, err := tc.sign(identity, accessSigningMethod, tc.accessSecret, now, accessExp)
	if err != nil {
		return nil, err
	}
	refreshToken, err := tc.sign(identity, refreshSigningMethod, tc.refreshSecret, now, refreshExp)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// VerifyAccess validates an access token and returns the identity it carries.
func (tc *TokenCodec) VerifyAccess(token string) (domain.Identity, error) {
	claims, err := tc.verify(token, accessSigningMethod, tc.accessSecret)
	if err != nil {
		return domain.Identity{}, err
	}
	return identityFromClaims(claims), nil
}

// VerifyRefresh validates a refresh token and returns the identity it carries.
func (tc *TokenCodec) VerifyRefresh(token string) (domain.Identity, error) {
	claims, err := tc.verify(token, refreshSigningMethod, tc.refreshSecret)
	if err != nil {
		return domain.Identity{}, err
	}
	return identityFromClaims(claims), nil
}

// ParseRefresh is VerifyRefresh with the full claim set exposed, for callers
// that need the token ID and expiry (rotation and revocation).
func (tc *TokenCodec) ParseRefresh(token string) (*Claims, error) {
	return tc.verify(token, refreshSigningMethod, tc.refreshSecret)
}

func (tc *TokenCodec) sign(identity domain.Identity, method jwt.SigningMethod, secret []byte, issuedAt, expiresAt time.Time) (string, error) {
	claims := &Claims{
		Email: identity.Email,
		Roles: identity.RoleCodes,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.SubjectID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(method, claims).SignedString(secret)
}

func (tc *TokenCodec) verify(token string, method jwt.SigningMethod, secret []byte) (*Claims, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{method.Alg()}))

	var claims Claims
	parsed, err := parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	// A payload without a subject or without a roles claim is rejected even
	// when correctly signed. An empty roles array is a present claim: the
	// identity is authenticated and every permission check comes back false.
	if claims.Subject == "" || claims.Roles == nil {
		return nil, ErrInvalidPayload
	}
	return &claims, nil
}

func identityFromClaims(claims *Claims) domain.Identity {
	return domain.Identity{
		SubjectID: claims.Subject,
		Email:     claims.Email,
		RoleCodes: claims.Roles,
	}
}
