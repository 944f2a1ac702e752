// Package auth issues and verifies the HMAC-signed bearer tokens protecting
// the REST API.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the lifetime of every issued access token.
const TokenTTL = 5 * time.Hour

var (
	// ErrMissingToken indicates no bearer credential was presented.
	ErrMissingToken = errors.New("missing bearer token")
	// ErrInvalidToken indicates a malformed token or failed signature check.
	ErrInvalidToken = errors.New("invalid bearer token")
	// ErrExpiredToken indicates a well-formed token past its expiry.
	ErrExpiredToken = errors.New("expired bearer token")
)

// Claims carries the verified identity of a request.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Manager signs and verifies access tokens with a shared secret.
type Manager struct {
	secret []byte
	now    func() time.Time
}

// NewManager constructs a token Manager for the given signing secret.
func NewManager(secret string) (*Manager, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token secret is required")
	}

	return &Manager{
		secret: []byte(secret),
		now:    time.Now,
	}, nil
}

// Issue signs a token for the given email, valid for TokenTTL.
func (m *Manager) Issue(email string) (string, error) {
	if m == nil || len(m.secret) == 0 {
		return "", errors.New("token manager is not initialized")
	}
	if strings.TrimSpace(email) == "" {
		return "", errors.New("email is required")
	}

	now := m.now().UTC()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Verify checks the signature and expiry of a token and returns its claims.
// Failures map onto the package's sentinel errors so callers can translate
// them into HTTP statuses without string matching.
func (m *Manager) Verify(token string) (Claims, error) {
	if m == nil || len(m.secret) == 0 {
		return Claims{}, errors.New("token manager is not initialized")
	}
	if strings.TrimSpace(token) == "" {
		return Claims{}, ErrMissingToken
	}

	claims := Claims{}
	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (interface{}, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpiredToken
		}
		return Claims{}, ErrInvalidToken
	}
	if !parsed.Valid || claims.Email == "" {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}
