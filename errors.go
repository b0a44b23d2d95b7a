package medauth

import "errors"

var (
	// ErrMissingCredentials indicates the request omitted the identifier or
	// a required secondary factor.
	ErrMissingCredentials = errors.New("missing credentials")
	// ErrInvalidFormat indicates the identifier failed normalization.
	ErrInvalidFormat = errors.New("invalid identifier format")
	// ErrRateLimited indicates the identifier's attempt window is exhausted.
	ErrRateLimited = errors.New("too many verification attempts")
	// ErrInvalidCredentials covers both unknown identifiers and
	// secondary-factor mismatches; the two are never distinguished.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInactiveAccount indicates a provider record whose status is not Active.
	ErrInactiveAccount = errors.New("account not active")
	// ErrNotFound is returned by RecordStore implementations when no record
	// matches the identifier. It never crosses the Authenticate boundary.
	ErrNotFound = errors.New("record not found")
	// ErrStoreUnavailable indicates the record store could not be reached.
	// Verification fails closed on this error.
	ErrStoreUnavailable = errors.New("record store unavailable")
	// ErrInternal is the generic fault returned for unexpected failures.
	ErrInternal = errors.New("internal error")
	// ErrEngineNotReady is returned when the engine was not built through Builder.
	ErrEngineNotReady = errors.New("engine not initialized")
)
