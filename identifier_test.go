package medauth

import (
	"errors"
	"testing"
)

func TestNormalizeMedicareID(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "canonical", raw: "123-45-6789", want: "123-45-6789"},
		{name: "surrounding whitespace", raw: "  123-45-6789\t", want: "123-45-6789"},
		{name: "injection characters stripped", raw: `<123-45-6789>'"`, want: "123-45-6789"},
		{name: "semicolon stripped", raw: "123-45-6789;", want: "123-45-6789"},
		{name: "missing separators", raw: "123456789", wantErr: true},
		{name: "wrong grouping", raw: "12-345-6789", wantErr: true},
		{name: "letters", raw: "abc-de-fghi", wantErr: true},
		{name: "too many digits", raw: "1234-45-6789", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Normalize(KindMedicareID, tc.raw)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidFormat) {
					t.Fatalf("expected ErrInvalidFormat, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNormalizeNPI(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "ten digits", raw: "1457384521", want: "1457384521"},
		{name: "formatted", raw: "145-738-4521", want: "1457384521"},
		{name: "with whitespace", raw: " 1457 384 521 ", want: "1457384521"},
		{name: "nine digits", raw: "145738452", wantErr: true},
		{name: "eleven digits", raw: "14573845210", wantErr: true},
		{name: "letters only", raw: "abcdefghij", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Normalize(KindNPI, tc.raw)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidFormat) {
					t.Fatalf("expected ErrInvalidFormat, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	first, err := Normalize(KindMedicareID, " <123-45-6789> ")
	if err != nil {
		t.Fatalf("first normalize failed: %v", err)
	}
	second, err := Normalize(KindMedicareID, first)
	if err != nil {
		t.Fatalf("second normalize failed: %v", err)
	}
	if first != second {
		t.Fatalf("normalization not idempotent: %q vs %q", first, second)
	}

	npiFirst, err := Normalize(KindNPI, "145-738-4521")
	if err != nil {
		t.Fatalf("npi normalize failed: %v", err)
	}
	npiSecond, err := Normalize(KindNPI, npiFirst)
	if err != nil {
		t.Fatalf("npi renormalize failed: %v", err)
	}
	if npiFirst != npiSecond {
		t.Fatalf("npi normalization not idempotent: %q vs %q", npiFirst, npiSecond)
	}
}

func TestNormalizeUnknownKind(t *testing.T) {
	if _, err := Normalize(IdentifierKind("passport"), "X123"); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat for unknown kind, got %v", err)
	}
}
