package medauth

import (
	"errors"
	"log/slog"
	"time"

	internalaudit "github.com/caredesk/medauth/internal/audit"
	"github.com/caredesk/medauth/internal/window"
	"github.com/caredesk/medauth/token"
	"github.com/redis/go-redis/v9"
)

// Builder assembles an [Engine]. Construction is allocation-only: no I/O
// happens until Engine methods are called.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	records   RecordStore
	auditSink AuditSink
	logger    *slog.Logger
	clock     func() time.Time

	built bool
}

// New returns a Builder carrying the default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the entire configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis selects the store-backed attempt window. Without it the engine
// uses the in-process backing, whose state is lost on restart.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithRecordStore injects the external credential store. Required.
func (b *Builder) WithRecordStore(rs RecordStore) *Builder {
	b.records = rs
	return b
}

// WithAuditSink injects the destination for audit events.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithLogger injects the structured logger for degraded-mode and
// best-effort failure reporting.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithClock injects the time source. Tests use it to drive window expiry
// and token issuance deterministically.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.clock = now
	return b
}

// Build validates the configuration, wires the attempt window, token
// manager, audit dispatcher, and metrics, and returns the ready engine.
// A Builder can build at most once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.records == nil {
		return nil, errors.New("record store required")
	}

	clock := b.clock
	if clock == nil {
		clock = time.Now
	}

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}

	windowCfg := window.Config{
		MaxAttempts: cfg.Limiter.MaxAttempts,
		TTL:         cfg.Limiter.Window,
	}
	var windows window.Store
	if b.redis != nil {
		windows = window.NewRedisStore(b.redis, windowCfg, cfg.Limiter.RedisPrefix)
	} else {
		windows = window.NewMemoryStoreWithClock(windowCfg, clock)
	}

	tokens, err := token.NewManager(token.Config{
		SigningKey:     cloneBytes(cfg.Token.SigningKey),
		BeneficiaryTTL: cfg.Token.BeneficiaryTTL,
		ProviderTTL:    cfg.Token.ProviderTTL,
		Issuer:         cfg.Token.Issuer,
	})
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config:  cfg,
		records: b.records,
		windows: windows,
		tokens:  tokens,
		audit: internalaudit.NewDispatcher(internalaudit.Config{
			Enabled:    cfg.Audit.Enabled,
			BufferSize: cfg.Audit.BufferSize,
			DropIfFull: cfg.Audit.DropIfFull,
		}, b.auditSink),
		metrics: NewMetrics(cfg.Metrics),
		logger:  logger,
		now:     clock,
	}

	b.built = true

	return engine, nil
}
