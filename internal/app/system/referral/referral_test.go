package referral

import (
	"regexp"
	"testing"
)

var codeRe = regexp.MustCompile(`^INST-[0-9A-F]{20}$`)

func TestGenerateCodeFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := GenerateCode()
		if !codeRe.MatchString(code) {
			t.Fatalf("GenerateCode() = %q, want match for %s", code, codeRe)
		}
	}
}

func TestGenerateCodeUnique(t *testing.T) {
	seen := make(map[string]bool, 1000)
	for i := 0; i < 1000; i++ {
		code := GenerateCode()
		if seen[code] {
			t.Fatalf("GenerateCode() produced duplicate %q", code)
		}
		seen[code] = true
	}
}

func TestIsCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{GenerateCode(), true},
		{"INST-0123456789ABCDEF0123", true},
		{"", false},
		{"INST-", false},
		{"INST-BADCODE", false},                // too short
		{"INST-0123456789abcdef0123", false},  // lowercase hex
		{"INST-0123456789ABCDEF01234", false}, // too long
		{"REF-0123456789ABCDEF0123", false},   // wrong prefix
		{"INST-0123456789ABCDEG0123", false},  // non-hex char
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := IsCode(tt.code); got != tt.want {
				t.Errorf("IsCode(%q) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}
