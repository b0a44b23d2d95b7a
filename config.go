package medauth

import (
	"errors"
	"time"
)

// Config collects all engine tuning. Zero values are filled with defaults by
// [Builder]; treat instances as immutable after Build.
type Config struct {
	Limiter LimiterConfig
	Token   TokenConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

// LimiterConfig tunes the per-identifier attempt window.
type LimiterConfig struct {
	// MaxAttempts is the failed-attempt budget inside one window.
	MaxAttempts int
	// Window is the sliding-window length; a lockout lasts at most this long.
	Window time.Duration
	// RedisPrefix namespaces window keys when a Redis backing is used.
	RedisPrefix string
}

// TokenConfig tunes session token issuance.
type TokenConfig struct {
	// SigningKey is the HMAC key for token digests; at least 32 bytes.
	SigningKey []byte
	// BeneficiaryTTL is the token lifetime for Medicare ID identities.
	BeneficiaryTTL time.Duration
	// ProviderTTL is the token lifetime for NPI identities.
	ProviderTTL time.Duration
	Issuer      string
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process counters.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		Limiter: LimiterConfig{
			MaxAttempts: 5,
			Window:      15 * time.Minute,
		},
		Token: TokenConfig{
			BeneficiaryTTL: time.Hour,
			ProviderTTL:    24 * time.Hour,
			Issuer:         "medauth",
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate rejects configurations the engine cannot run with.
func (c Config) Validate() error {
	if c.Limiter.MaxAttempts <= 0 {
		return errors.New("Limiter.MaxAttempts must be positive")
	}
	if c.Limiter.Window <= 0 {
		return errors.New("Limiter.Window must be positive")
	}
	if len(c.Token.SigningKey) < 32 {
		return errors.New("Token.SigningKey must be at least 32 bytes")
	}
	if c.Token.BeneficiaryTTL <= 0 || c.Token.ProviderTTL <= 0 {
		return errors.New("token TTLs must be positive")
	}
	if c.Audit.Enabled && c.Audit.BufferSize < 0 {
		return errors.New("Audit.BufferSize must not be negative")
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Token.SigningKey = cloneBytes(cfg.Token.SigningKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
