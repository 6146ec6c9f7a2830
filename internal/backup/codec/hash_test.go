package codec

import (
	"regexp"
	"testing"
)

var tokenPattern = regexp.MustCompile(`^[0-9a-f]{8}$`)

func TestHash_KnownValues(t *testing.T) {
	// Hand-computed from the accumulator recurrence.
	tests := []struct {
		input string
		want  string
	}{
		{"", "00000000"},
		{"a", "00000061"},  // abs(97)
		{"ab", "00000c21"}, // (97<<5) - 97 + 98 = 3105
	}

	for _, tt := range tests {
		if got := Hash(tt.input); got != tt.want {
			t.Errorf("Hash(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestHash_Format(t *testing.T) {
	inputs := []string{
		"password+salt",
		"日本語のテキスト",
		"🎬🎵📺",
		"a very long input string that overflows the 32-bit accumulator many times over",
	}

	for _, in := range inputs {
		got := Hash(in)
		if !tokenPattern.MatchString(got) {
			t.Errorf("Hash(%q) = %q, want 8 lowercase hex chars", in, got)
		}
	}
}

func TestHash_Deterministic(t *testing.T) {
	const input = "determinism check"
	first := Hash(input)
	for i := 0; i < 5; i++ {
		if got := Hash(input); got != first {
			t.Fatalf("Hash(%q) not stable: %q vs %q", input, got, first)
		}
	}
}

func TestHash_DistinguishesInputs(t *testing.T) {
	// Not collision resistance, just the basic distribution property:
	// near-identical inputs should land on different tokens.
	if Hash("config-a") == Hash("config-b") {
		t.Error("adjacent inputs hashed to the same token")
	}
	if Hash("sonarr") == Hash("radarr") {
		t.Error("adjacent inputs hashed to the same token")
	}
}

func TestDeriveKey_Deterministic(t *testing.T) {
	const (
		password = "TestPassword123!@#"
		salt     = "0123456789abcdef0123456789abcdef"
	)

	first := DeriveKey(password, salt)
	if !tokenPattern.MatchString(first) {
		t.Fatalf("DeriveKey() = %q, want 8 lowercase hex chars", first)
	}

	for i := 0; i < 3; i++ {
		if got := DeriveKey(password, salt); got != first {
			t.Fatalf("DeriveKey not stable: %q vs %q", got, first)
		}
	}
}

func TestDeriveKey_SaltSensitivity(t *testing.T) {
	const password = "hunter22"

	keyA := DeriveKey(password, "salt-a")
	keyB := DeriveKey(password, "salt-b")
	if keyA == keyB {
		t.Error("different salts produced the same key")
	}

	// A one-character password change must also move the key.
	if DeriveKey("hunter22", "salt-a") == DeriveKey("hunter23", "salt-a") {
		t.Error("different passwords produced the same key")
	}
}
