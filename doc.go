// Package medauth provides a rate-limited identity-verification engine for a
// healthcare support backend: beneficiaries authenticate with a Medicare ID
// plus last name, providers with a 10-digit NPI, and every attempt is
// throttled per identifier and written to an append-only audit trail.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// medauth is the public surface. It exposes [Engine], [Builder], [Config],
// sentinel errors, and value types ([AuthRequest], [AuthResult],
// [CredentialRecord]). Internal coordination, attempt-window tracking and
// audit dispatch, lives under internal/ and is never exported. Session
// tokens are issued and verified by the token sub-package. Record storage is
// an injected [RecordStore]; adapters live under store/.
//
// # What this package must NOT do
//
//   - Expose Redis clients, window state, or audit channel internals in its
//     public API.
//   - Return raw store or limiter errors across the Authenticate boundary;
//     faults are mapped to stable error codes with generic messages.
//   - Reveal whether an identifier exists: lookup misses and secondary-factor
//     mismatches both surface as CodeInvalidCredentials.
//
// # Known gaps
//
// Issued tokens are self-contained and verified by recomputing their keyed
// digest; there is no revocation list and no single-active-session
// enforcement. Callers that need either must layer it on top.
package medauth
