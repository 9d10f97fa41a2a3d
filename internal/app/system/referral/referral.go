// internal/app/system/referral/referral.go
package referral

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Codes look like INST-3F2504E04F8911D39A0C. The prefix marks them as
// institute referral codes; the suffix is random hex. Uniqueness is
// enforced by a sparse unique index on the users collection, so a
// collision (vanishingly unlikely) surfaces as a duplicate-key error at
// insert time.
const (
	Prefix    = "INST-"
	suffixLen = 20
)

// ErrNotFound is returned when no account owns the given referral code.
var ErrNotFound = errors.New("referral code not found")

// Resolver looks up the institute account that owns a referral code.
// Lookups are exact-match and case-sensitive as stored.
type Resolver interface {
	ResolveReferralCode(ctx context.Context, code string) (primitive.ObjectID, error)
}

// GenerateCode produces a new referral code. It has no side effects;
// assignment to an account happens when the account is created.
func GenerateCode() string {
	var b strings.Builder
	b.WriteString(Prefix)
	for b.Len() < len(Prefix)+suffixLen {
		hex := strings.ReplaceAll(uuid.NewString(), "-", "")
		b.WriteString(strings.ToUpper(hex))
	}
	return b.String()[:len(Prefix)+suffixLen]
}

// IsCode reports whether s has the referral code shape
// (prefix + fixed-length uppercase hex suffix).
func IsCode(s string) bool {
	if !strings.HasPrefix(s, Prefix) {
		return false
	}
	suffix := s[len(Prefix):]
	if len(suffix) != suffixLen {
		return false
	}
	for _, r := range suffix {
		if (r < '0' || r > '9') && (r < 'A' || r > 'F') {
			return false
		}
	}
	return true
}
