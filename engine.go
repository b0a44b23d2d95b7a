package medauth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/caredesk/medauth/internal/audit"
	"github.com/caredesk/medauth/internal/window"
	"github.com/caredesk/medauth/token"
)

// markAuthenticatedTimeout bounds the best-effort last-authenticated stamp.
const markAuthenticatedTimeout = 10 * time.Second

// tokenIssuer is the session-token surface the engine depends on, satisfied
// by [token.Manager].
type tokenIssuer interface {
	Issue(identifier, kind, displayName string, now time.Time) (string, token.SessionToken, error)
	Parse(tokenStr string) (*token.Claims, error)
}

// Engine sequences one authentication attempt: normalize the identifier,
// consult the attempt window, verify against the record store, then either
// record the failure or reset the window and issue a session token. Every
// attempt, whatever its outcome, produces exactly one audit event.
//
// Engine instances are configured through [Builder.Build] and are immutable
// and goroutine-safe afterwards.
type Engine struct {
	config  Config
	records RecordStore
	windows window.Store
	tokens  tokenIssuer
	audit   *audit.Dispatcher
	metrics *Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// Close drains and stops the audit dispatcher. Safe on a nil engine.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped reports audit events discarded under backpressure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of the engine's counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// Authenticate runs the full verification sequence for one identity claim
// and returns a structured result. It never returns an error and never
// panics: internal faults come back as CodeInternalError with a generic
// message, with detail only in the system log and audit trail.
func (e *Engine) Authenticate(ctx context.Context, req AuthRequest) (result AuthResult) {
	if e == nil || e.records == nil || e.tokens == nil {
		return internalErrorResult()
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("authenticate panicked", "panic", r)
			e.metricInc(MetricAuthInternalError)
			e.emitAudit(ctx, auditEventSystemError, req.Kind, req.Identifier, false, auditReasonPanic, ErrInternal)
			result = internalErrorResult()
		}
	}()

	if strings.TrimSpace(req.Identifier) == "" ||
		(req.Kind == KindMedicareID && strings.TrimSpace(req.SecondaryFactor) == "") {
		e.metricInc(MetricAuthMissingCredentials)
		e.emitAudit(ctx, auditEventAuthFailure, req.Kind, req.Identifier, false, auditReasonMissingCredentials, ErrMissingCredentials)
		return AuthResult{
			ErrorCode: CodeMissingCredentials,
			Message:   "identifier and secondary factor are required",
		}
	}

	// Normalization is local and immediate: a malformed identifier never
	// touches the limiter or the record store.
	identifier, err := Normalize(req.Kind, req.Identifier)
	if err != nil {
		e.metricInc(MetricAuthInvalidFormat)
		e.emitAudit(ctx, auditEventAuthFailure, req.Kind, req.Identifier, false, auditReasonInvalidFormat, err)
		return AuthResult{
			ErrorCode: CodeInvalidFormat,
			Message:   "identifier is not in a recognized format",
		}
	}

	decision, err := e.windows.CheckAndConsume(ctx, identifier)
	if err != nil {
		// Fail open: a limiter outage must not lock every user out. The
		// degraded mode is logged, audited, and counted.
		e.metricInc(MetricLimiterDegraded)
		e.logger.Warn("attempt window backend unavailable, failing open", "error", err)
		e.emitAudit(ctx, auditEventLimiterDegraded, req.Kind, identifier, false, auditReasonStoreUnavailable, err)
		decision = window.Decision{Allowed: true}
	}
	if !decision.Allowed {
		e.metricInc(MetricAuthRateLimited)
		e.emitAudit(ctx, auditEventAuthRateLimited, req.Kind, identifier, false, "", ErrRateLimited)
		return AuthResult{
			ErrorCode:  CodeRateLimitExceeded,
			Message:    "too many attempts, try again later",
			RetryAfter: decision.RetryAfter,
		}
	}

	record, reason, err := e.verifyCredential(ctx, req.Kind, identifier, req.SecondaryFactor)
	if err != nil {
		// Only genuine rejections consume attempt budget; a store outage is
		// not the caller's fault and fails closed without counting.
		if errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrInactiveAccount) {
			e.recordOutcome(ctx, identifier, false)
		}
		e.emitAudit(ctx, auditEventAuthFailure, req.Kind, identifier, false, reason, err)
		return e.rejectionResult(err)
	}

	signed, session, err := e.tokens.Issue(identifier, string(req.Kind), record.DisplayName, e.now())
	if err != nil {
		// An issuance fault is internal; the caller's credentials verified,
		// so no attempt budget is consumed.
		e.metricInc(MetricAuthInternalError)
		e.logger.Error("token issuance failed", "error", err)
		e.emitAudit(ctx, auditEventSystemError, req.Kind, identifier, false, auditReasonTokenIssuance, err)
		return internalErrorResult()
	}

	// Window reset happens synchronously before returning; the audit write
	// and the last-authenticated stamp are best-effort and may lag.
	e.recordOutcome(ctx, identifier, true)
	e.markAuthenticated(req.Kind, identifier)
	e.metricInc(MetricAuthSuccess)
	e.emitAudit(ctx, auditEventAuthSuccess, req.Kind, identifier, true, "", nil)

	return AuthResult{
		Success:   true,
		Token:     signed,
		ExpiresAt: session.ExpiresAt,
		Profile: &Profile{
			Identifier:  identifier,
			DisplayName: record.DisplayName,
			Attributes:  record.Attributes,
		},
	}
}

// VerifyToken decodes a previously issued session token, checking digest and
// expiry. Dispatchers use it to cross-check an already-authenticated claim.
func (e *Engine) VerifyToken(tokenStr string) (*token.Claims, error) {
	if e == nil || e.tokens == nil {
		return nil, ErrEngineNotReady
	}
	return e.tokens.Parse(tokenStr)
}

// recordOutcome updates the attempt window and absorbs backend outages, so
// a limiter failure after verification cannot change the attempt's result.
func (e *Engine) recordOutcome(ctx context.Context, identifier string, success bool) {
	if err := e.windows.RecordOutcome(ctx, identifier, success); err != nil {
		e.metricInc(MetricLimiterDegraded)
		e.logger.Warn("attempt window update failed", "error", err)
	}
}

func (e *Engine) rejectionResult(err error) AuthResult {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		e.metricInc(MetricAuthInvalidCredentials)
		return AuthResult{
			ErrorCode: CodeInvalidCredentials,
			Message:   "the provided identity details could not be verified",
		}
	case errors.Is(err, ErrInactiveAccount):
		e.metricInc(MetricAuthInactiveAccount)
		return AuthResult{
			ErrorCode: CodeInactiveAccount,
			Message:   "this account is not active",
		}
	default:
		e.metricInc(MetricAuthInternalError)
		e.logger.Error("credential verification failed", "error", err)
		return internalErrorResult()
	}
}

func internalErrorResult() AuthResult {
	return AuthResult{
		ErrorCode: CodeInternalError,
		Message:   "an internal error occurred, try again later",
	}
}
