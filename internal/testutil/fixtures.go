// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/sharmaacademy/academyhub/internal/app/system/referral"
	"github.com/sharmaacademy/academyhub/internal/domain/models"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user document directly, bypassing store validation.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:          primitive.NewObjectID(),
		FullName:    fullName,
		FullNameCI:  text.Fold(fullName),
		Email:       email,
		Role:        role,
		IsInstitute: role == models.RoleInstitute,
		Status:      "active",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if user.IsInstitute {
		code := referral.GenerateCode()
		user.ReferralCode = &code
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateInstitute creates an institute account and returns it along
// with its generated referral code.
func (f *Fixtures) CreateInstitute(ctx context.Context, fullName, email string) (models.User, string) {
	f.t.Helper()
	u := f.CreateUser(ctx, fullName, email, models.RoleInstitute)
	return u, *u.ReferralCode
}

// CreateAdmin creates a test admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, models.RoleAdmin)
}
