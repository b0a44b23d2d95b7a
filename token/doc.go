// Package token issues and verifies the self-contained session tokens the
// engine hands out after successful identity verification.
//
// Tokens are HS256 JWTs: the keyed digest is verified by recomputation
// rather than a lookup. There is no backing store and no revocation; expiry
// is the only lifecycle event.
package token
