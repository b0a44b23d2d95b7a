// Package window tracks failed verification attempts per identifier inside a
// sliding time window and answers whether the next attempt is allowed.
//
// # Design
//
// One contract, two backings. [MemoryStore] keeps explicit per-identifier
// windows in a mutex-guarded map with lazy purge, suitable for tests and
// single-process deployments. [RedisStore] maps the same semantics onto a
// Redis counter whose TTL is set on the first failure, so window expiry and
// reset fall out of key expiry.
//
// # Architecture boundaries
//
// This package owns attempt-window state and nothing else. It does not decide
// the fail-open policy for backend outages: stores return [ErrUnavailable]
// and the caller chooses.
//
// # What this package must NOT do
//
//   - Touch the record store or know anything about credentials.
//   - Log, audit, or emit metrics.
//   - Share window state outside the Store interface.
package window
