package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/btech-hub/backend/internal/config"
)

const issuer = "btech-hub"

var (
	ErrAccessTokenExpired = jwt.ErrTokenExpired
	ErrInvalidSubject     = errors.New("token subject is not a user id")
)

// TokenManager issues access JWTs and opaque refresh tokens.
type TokenManager interface {
	NewJWT(userID uuid.UUID) (string, time.Duration, error)
	Parse(accessToken string) (uuid.UUID, error)
	NewRefreshToken() (uuid.UUID, time.Duration, error)
}

type Manager struct {
	signingKey      []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	now             func() time.Time
}

func NewManager(cfg config.JWTConfig) (*Manager, error) {
	switch {
	case cfg.SigningKey == "":
		return nil, errors.New("auth: empty signing key")
	case cfg.AccessTokenTTL <= 0:
		return nil, errors.New("auth: access token ttl must be positive")
	case cfg.RefreshTokenTTL <= 0:
		return nil, errors.New("auth: refresh token ttl must be positive")
	}

	return &Manager{
		signingKey:      []byte(cfg.SigningKey),
		accessTokenTTL:  cfg.AccessTokenTTL,
		refreshTokenTTL: cfg.RefreshTokenTTL,
		now:             time.Now,
	}, nil
}

func (m *Manager) NewJWT(userID uuid.UUID) (string, time.Duration, error) {
	issuedAt := m.now()
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(m.accessTokenTTL)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.signingKey)
	if err != nil {
		return "", 0, fmt.Errorf("auth: sign access token: %w", err)
	}

	return signed, m.accessTokenTTL, nil
}

// Parse verifies signature, issuer and expiry, and returns the user id from the subject claim.
func (m *Manager) Parse(accessToken string) (uuid.UUID, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(accessToken, &claims,
		func(*jwt.Token) (any, error) { return m.signingKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return uuid.Nil, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidSubject
	}

	return userID, nil
}

func (m *Manager) NewRefreshToken() (uuid.UUID, time.Duration, error) {
	refreshToken, err := uuid.NewV7()
	if err != nil {
		return uuid.Nil, 0, fmt.Errorf("auth: new refresh token: %w", err)
	}
	return refreshToken, m.refreshTokenTTL, nil
}
