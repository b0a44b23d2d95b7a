// Package audit defines the append-only attempt trail: the event model,
// sink implementations, identifier redaction, and the asynchronous
// dispatcher that decouples emission from authentication latency.
//
// # Architecture boundaries
//
// This package owns the event schema and delivery. It never inspects
// credentials and never fails an authentication: sink errors are swallowed,
// backpressure is surfaced only as a dropped-event counter.
package audit
