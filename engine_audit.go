package medauth

import (
	"context"

	internalaudit "github.com/caredesk/medauth/internal/audit"
	"github.com/google/uuid"
)

const (
	auditEventAuthSuccess     = "auth_success"
	auditEventAuthFailure     = "auth_failure"
	auditEventAuthRateLimited = "auth_rate_limited"
	auditEventLimiterDegraded = "limiter_degraded"
	auditEventSystemError     = "auth_system_error"
)

const (
	auditReasonInvalidFormat      = "invalid_format"
	auditReasonMissingCredentials = "missing_credentials"
	auditReasonRecordNotFound     = "record_not_found"
	auditReasonFactorMismatch     = "factor_mismatch"
	auditReasonInactiveAccount    = "inactive_account"
	auditReasonStoreUnavailable   = "store_unavailable"
	auditReasonTokenIssuance      = "token_issuance_failed"
	auditReasonPanic              = "panic_recovered"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	kind IdentifierKind,
	identifier string,
	success bool,
	reason string,
	err error,
) {
	if e == nil || e.audit == nil {
		return
	}

	event := internalaudit.Event{
		EventID:    uuid.NewString(),
		Timestamp:  e.now().UTC(),
		EventType:  eventType,
		Kind:       string(kind),
		Identifier: internalaudit.Redact(identifier),
		IP:         clientIPFromContext(ctx),
		Success:    success,
		Reason:     reason,
	}
	if err != nil {
		event.Error = err.Error()
	}

	e.audit.Emit(ctx, event)
}
