// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles for accounts. The closed set mirrors the platform's account
// categories: learners take courses, instructors teach them, and
// institutes own referral codes that link new registrants to them.
// Admins are the operators of the platform itself.
const (
	RoleLearner    = "learner"
	RoleInstructor = "instructor"
	RoleInstitute  = "institute"
	RoleAdmin      = "admin"
)

// User represents a registered account. Email is the login identity and
// is stored lowercase.
//
// NOTE:
//   - ReferralCode is only ever set on institute accounts, assigned once
//     at creation and never regenerated.
//   - ReferredBy is a weak back-reference to the institute account whose
//     referral code was used at registration, not an ownership edge.
type User struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	FullName     string              `bson:"full_name,omitempty" json:"full_name,omitempty"`
	FullNameCI   string              `bson:"full_name_ci,omitempty" json:"-"` // lowercase, diacritics-stripped
	Email        string              `bson:"email" json:"email"`
	PasswordHash string              `bson:"password_hash,omitempty" json:"-"`
	Role         string              `bson:"role" json:"role"` // learner | instructor | institute | admin
	IsInstitute  bool                `bson:"is_institute" json:"is_institute"`
	ReferralCode *string             `bson:"referral_code,omitempty" json:"referral_code,omitempty"`
	ReferredBy   *primitive.ObjectID `bson:"referred_by,omitempty" json:"referred_by,omitempty"`
	Status       string              `bson:"status,omitempty" json:"status,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
