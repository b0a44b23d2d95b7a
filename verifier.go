package medauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// activeProviderStatus is the only record status that admits an NPI login.
const activeProviderStatus = "active"

// verifyCredential looks up exactly one record for the normalized identifier
// and checks the flow's secondary condition. The returned reason string feeds
// the audit trail; the error is one of the package sentinels.
//
// Lookup misses and factor mismatches both map to ErrInvalidCredentials so a
// caller can never probe which identifiers exist. Store outages fail closed.
func (e *Engine) verifyCredential(ctx context.Context, kind IdentifierKind, identifier, factor string) (CredentialRecord, string, error) {
	record, err := e.records.FindByIdentifier(ctx, kind, identifier)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return CredentialRecord{}, auditReasonRecordNotFound, ErrInvalidCredentials
		}
		return CredentialRecord{}, auditReasonStoreUnavailable, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	switch kind {
	case KindMedicareID:
		if !strings.EqualFold(strings.TrimSpace(factor), strings.TrimSpace(record.LastName)) {
			return CredentialRecord{}, auditReasonFactorMismatch, ErrInvalidCredentials
		}
	case KindNPI:
		if !strings.EqualFold(strings.TrimSpace(record.Status), activeProviderStatus) {
			return CredentialRecord{}, auditReasonInactiveAccount, ErrInactiveAccount
		}
	default:
		return CredentialRecord{}, auditReasonInvalidFormat, ErrInvalidFormat
	}

	return record, "", nil
}

// markAuthenticated asks the record store to stamp a successful login.
// Fire-and-forget: runs on its own goroutine with a bounded context, and a
// failure is logged and counted, never surfaced.
func (e *Engine) markAuthenticated(kind IdentifierKind, identifier string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), markAuthenticatedTimeout)
		defer cancel()

		if err := e.records.MarkAuthenticated(ctx, kind, identifier); err != nil {
			e.metricInc(MetricMarkAuthenticatedFailed)
			e.logger.Warn("mark-authenticated callback failed",
				"kind", string(kind),
				"error", err)
		}
	}()
}
