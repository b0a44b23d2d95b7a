package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const minKeyLength = 32

var (
	// ErrInvalidToken covers malformed, tampered, and mis-signed tokens.
	ErrInvalidToken = errors.New("invalid session token")
	// ErrExpiredToken indicates a well-formed token past its expiry.
	ErrExpiredToken = errors.New("session token expired")
)

// Config holds signing material and per-kind lifetimes.
type Config struct {
	// SigningKey is the HMAC key; at least 32 bytes.
	SigningKey []byte
	// BeneficiaryTTL bounds tokens issued for Medicare ID identities.
	BeneficiaryTTL time.Duration
	// ProviderTTL bounds tokens issued for NPI identities.
	ProviderTTL time.Duration
	Issuer      string
}

// Claims is the decoded token payload. Subject carries the normalized
// identifier.
type Claims struct {
	Kind        string `json:"knd"`
	DisplayName string `json:"dn,omitempty"`
	jwt.RegisteredClaims
}

// SessionToken describes an issued token: who it binds and when it lapses.
// ExpiresAt is always IssuedAt plus the TTL configured for the kind.
type SessionToken struct {
	Identifier string
	Kind       string
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

// Manager signs and parses session tokens. Immutable after NewManager.
type Manager struct {
	config Config
}

// NewManager validates cfg and returns a Manager.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.SigningKey) < minKeyLength {
		return nil, fmt.Errorf("signing key must be at least %d bytes", minKeyLength)
	}
	if cfg.BeneficiaryTTL <= 0 || cfg.ProviderTTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	return &Manager{config: cfg}, nil
}

// TTLForKind returns the configured lifetime for an identifier kind.
// Unknown kinds get the shorter beneficiary lifetime.
func (m *Manager) TTLForKind(kind string) time.Duration {
	if kind == "npi" {
		return m.config.ProviderTTL
	}
	return m.config.BeneficiaryTTL
}

// Issue creates a signed token binding identifier and kind, issued at now.
func (m *Manager) Issue(identifier, kind, displayName string, now time.Time) (string, SessionToken, error) {
	ttl := m.TTLForKind(kind)
	issued := now.UTC()
	expires := issued.Add(ttl)

	claims := Claims{
		Kind:        kind,
		DisplayName: displayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identifier,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
			Issuer:    m.config.Issuer,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.config.SigningKey)
	if err != nil {
		return "", SessionToken{}, err
	}

	return signed, SessionToken{
		Identifier: identifier,
		Kind:       kind,
		IssuedAt:   issued,
		ExpiresAt:  expires,
	}, nil
}

// Parse verifies the digest and expiry of tokenStr and returns its claims.
// The signing algorithm is pinned to HS256; anything else is rejected.
func (m *Manager) Parse(tokenStr string) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return m.config.SigningKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
