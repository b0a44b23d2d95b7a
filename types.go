package medauth

import (
	"context"
	"io"
	"time"

	internalaudit "github.com/caredesk/medauth/internal/audit"
)

// IdentifierKind selects the normalization rules and verification flow for
// an authentication attempt.
type IdentifierKind string

const (
	// KindMedicareID is a beneficiary identifier in NNN-NN-NNNN form,
	// verified against the stored last name.
	KindMedicareID IdentifierKind = "medicare_id"
	// KindNPI is a 10-digit provider identifier, verified by account status.
	KindNPI IdentifierKind = "npi"
)

// Stable error codes consumed by dispatchers for HTTP-status mapping.
// These strings are part of the public contract and must not change.
const (
	CodeMissingCredentials = "MISSING_CREDENTIALS"
	CodeInvalidFormat      = "INVALID_FORMAT"
	CodeRateLimitExceeded  = "RATE_LIMIT_EXCEEDED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInactiveAccount    = "INACTIVE_ACCOUNT"
	CodeNotFound           = "NOT_FOUND"
	CodeInternalError      = "INTERNAL_ERROR"
)

// AuthRequest is the input to [Engine.Authenticate]. SecondaryFactor is the
// claimed last name for beneficiaries and is ignored for providers.
type AuthRequest struct {
	Kind            IdentifierKind
	Identifier      string
	SecondaryFactor string
}

// Profile is the subset of the credential record returned to the caller on
// success. It never includes the secondary factor.
type Profile struct {
	Identifier  string
	DisplayName string
	Attributes  map[string]string
}

// AuthResult is returned by [Engine.Authenticate]. Exactly one of Success or
// ErrorCode is meaningful; RetryAfter is set only with CodeRateLimitExceeded.
type AuthResult struct {
	Success    bool
	Token      string
	ExpiresAt  time.Time
	Profile    *Profile
	ErrorCode  string
	Message    string
	RetryAfter time.Duration
}

// CredentialRecord is the identity record held by the external record store.
// The engine only reads it; LastName doubles as the beneficiary secondary
// factor and is never echoed back or written to the audit trail.
type CredentialRecord struct {
	Identifier  string
	Kind        IdentifierKind
	LastName    string
	Status      string
	DisplayName string
	Attributes  map[string]string
}

// RecordStore is the external credential lookup the engine verifies against.
// FindByIdentifier returns [ErrNotFound] when no record matches; any other
// error is treated as a store outage and authentication fails closed.
// MarkAuthenticated is best-effort: the engine invokes it asynchronously on
// success and swallows its failure.
type RecordStore interface {
	FindByIdentifier(ctx context.Context, kind IdentifierKind, identifier string) (CredentialRecord, error)
	MarkAuthenticated(ctx context.Context, kind IdentifierKind, identifier string) error
}

// AuditEvent is a structured, redacted audit record emitted by the engine.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the engine's audit dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events, one per
// line, to an [io.Writer].
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}
