package medauth

import (
	"regexp"
	"strings"
)

var medicareIDPattern = regexp.MustCompile(`^\d{3}-\d{2}-\d{4}$`)

// Characters with no place in an identifier; stripped before validation so
// injection payloads can never reach a store query.
const forbiddenIdentifierChars = `<>'"&;\` + "`"

// Normalize validates raw against the rules for kind and returns the
// canonical identifier string. It is a pure function: no state, no I/O, and
// normalizing an already-normalized identifier yields the same value.
//
// Medicare IDs are stripped of forbidden characters, trimmed, and must match
// NNN-NN-NNNN. NPIs are reduced to their digits, which must number exactly 10.
// Anything else fails with [ErrInvalidFormat].
func Normalize(kind IdentifierKind, raw string) (string, error) {
	switch kind {
	case KindMedicareID:
		cleaned := strings.TrimSpace(stripChars(raw, forbiddenIdentifierChars))
		if !medicareIDPattern.MatchString(cleaned) {
			return "", ErrInvalidFormat
		}
		return cleaned, nil
	case KindNPI:
		digits := keepDigits(raw)
		if len(digits) != 10 {
			return "", ErrInvalidFormat
		}
		return digits, nil
	default:
		return "", ErrInvalidFormat
	}
}

func stripChars(s, cutset string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(cutset, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func keepDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
