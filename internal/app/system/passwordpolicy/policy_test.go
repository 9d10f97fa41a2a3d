package passwordpolicy

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	p := Default()

	tests := []struct {
		name     string
		password string
		wantErr  string // empty means valid
	}{
		{"valid", "Str0ng!Pw", ""},
		{"valid long", "Correct-Horse-Battery-1", ""},
		{"valid unicode special", "Abcdef1©", ""},
		{"empty", "", "required"},
		{"too short", "Ab1!x", "at least 8 characters"},
		{"missing uppercase", "str0ng!pw", "uppercase"},
		{"missing lowercase", "STR0NG!PW", "lowercase"},
		{"missing digit", "Strong!Pw", "numeric"},
		{"missing special", "Str0ngPwd", "special"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.Validate(tt.password)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate(%q) = %v, want nil", tt.password, err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate(%q) = nil, want error containing %q", tt.password, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate(%q) = %q, want message containing %q", tt.password, err, tt.wantErr)
			}
		})
	}
}

func TestValidateZeroMinLengthUsesDefault(t *testing.T) {
	var p Policy // MinLength zero
	if err := p.Validate("Ab1!xyz"); err == nil {
		t.Error("expected 7-char password to fail with default min length")
	}
	if err := p.Validate("Ab1!xyzw"); err != nil {
		t.Errorf("expected 8-char password to pass, got %v", err)
	}
}

func TestHelpTextMentionsLength(t *testing.T) {
	p := Policy{MinLength: 12}
	if !strings.Contains(p.HelpText(), "12") {
		t.Errorf("HelpText() = %q, want configured length mentioned", p.HelpText())
	}
}
