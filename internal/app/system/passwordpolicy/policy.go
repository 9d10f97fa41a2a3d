// internal/app/system/passwordpolicy/policy.go
package passwordpolicy

import (
	"fmt"
	"unicode"
)

// DefaultMinLength is the minimum password length unless configured
// otherwise.
const DefaultMinLength = 8

// Policy validates candidate passwords before they are hashed.
//
// A password must contain at least one uppercase letter, one lowercase
// letter, one digit, and one character that is neither a letter nor a
// digit, and must meet the minimum length. An empty password is rejected
// outright rather than being passed through to hashing.
type Policy struct {
	MinLength int
}

// Default returns a Policy with the standard minimum length.
func Default() Policy {
	return Policy{MinLength: DefaultMinLength}
}

// Validate returns nil if password satisfies the policy, or an error
// whose message is suitable for showing to the user.
func (p Policy) Validate(password string) error {
	min := p.MinLength
	if min <= 0 {
		min = DefaultMinLength
	}
	if password == "" {
		return fmt.Errorf("Password is required.")
	}
	if len([]rune(password)) < min {
		return fmt.Errorf("Password must contain at least %d characters.", min)
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	switch {
	case !hasUpper:
		return fmt.Errorf("Password must contain at least one uppercase letter.")
	case !hasLower:
		return fmt.Errorf("Password must contain at least one lowercase letter.")
	case !hasDigit:
		return fmt.Errorf("Password must contain at least one numeric character.")
	case !hasSpecial:
		return fmt.Errorf("Password must contain at least one special character.")
	}
	return nil
}

// HelpText describes the policy for display on forms and error pages.
func (p Policy) HelpText() string {
	min := p.MinLength
	if min <= 0 {
		min = DefaultMinLength
	}
	return fmt.Sprintf("Your password must contain at least %d characters, with at least one uppercase letter, one lowercase letter, one number, and one special character.", min)
}
