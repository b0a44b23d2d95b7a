package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(Config{
		SigningKey:     []byte("0123456789abcdef0123456789abcdef"),
		BeneficiaryTTL: time.Hour,
		ProviderTTL:    24 * time.Hour,
		Issuer:         "medauth-test",
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return m
}

func TestNewManagerRejectsShortKey(t *testing.T) {
	_, err := NewManager(Config{
		SigningKey:     []byte("short"),
		BeneficiaryTTL: time.Hour,
		ProviderTTL:    24 * time.Hour,
	})
	if err == nil {
		t.Fatal("expected short key to be rejected")
	}
}

func TestNewManagerRejectsZeroTTL(t *testing.T) {
	_, err := NewManager(Config{
		SigningKey:     []byte("0123456789abcdef0123456789abcdef"),
		BeneficiaryTTL: 0,
		ProviderTTL:    24 * time.Hour,
	})
	if err == nil {
		t.Fatal("expected zero TTL to be rejected")
	}
}

func TestIssueRoundTrip(t *testing.T) {
	m := newTestManager(t)
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	signed, session, err := m.Issue("123-45-6789", "medicare_id", "Maria Rivera", now)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if session.Identifier != "123-45-6789" {
		t.Fatalf("session identifier = %q", session.Identifier)
	}
	if got := session.ExpiresAt.Sub(session.IssuedAt); got != time.Hour {
		t.Fatalf("beneficiary lifetime = %v, want exactly 1h", got)
	}

	claims, err := m.Parse(signed)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.Subject != "123-45-6789" {
		t.Fatalf("decoded subject = %q, want the issued identifier", claims.Subject)
	}
	if claims.Kind != "medicare_id" {
		t.Fatalf("decoded kind = %q", claims.Kind)
	}
	if got := claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Fatalf("decoded lifetime = %v, want exactly 1h", got)
	}
	if claims.ID == "" {
		t.Fatal("expected a jti")
	}
}

func TestIssueProviderTTL(t *testing.T) {
	m := newTestManager(t)
	now := time.Now()

	_, session, err := m.Issue("1457384521", "npi", "Dr. James Okafor", now)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if got := session.ExpiresAt.Sub(session.IssuedAt); got != 24*time.Hour {
		t.Fatalf("provider lifetime = %v, want exactly 24h", got)
	}
}

func TestParseRejectsTamperedToken(t *testing.T) {
	m := newTestManager(t)

	signed, _, err := m.Issue("123-45-6789", "medicare_id", "", time.Now())
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	// Flip a character in the payload segment.
	parts := strings.Split(signed, ".")
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	parts[1] = string(payload)
	tampered := strings.Join(parts, ".")

	if _, err := m.Parse(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered payload, got %v", err)
	}
}

func TestParseRejectsForeignKey(t *testing.T) {
	m := newTestManager(t)

	other, err := NewManager(Config{
		SigningKey:     []byte("ffffffffffffffffffffffffffffffff"),
		BeneficiaryTTL: time.Hour,
		ProviderTTL:    24 * time.Hour,
		Issuer:         "medauth-test",
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	signed, _, err := other.Issue("123-45-6789", "medicare_id", "", time.Now())
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := m.Parse(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign signature, got %v", err)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	m := newTestManager(t)

	signed, _, err := m.Issue("123-45-6789", "medicare_id", "", time.Now().Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := m.Parse(signed); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestParseRejectsUnsignedAlgorithm(t *testing.T) {
	m := newTestManager(t)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Kind: "medicare_id",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "123-45-6789",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Issuer:    "medauth-test",
		},
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none failed: %v", err)
	}

	if _, err := m.Parse(raw); err == nil {
		t.Fatal("expected alg=none token to be rejected")
	}
}
