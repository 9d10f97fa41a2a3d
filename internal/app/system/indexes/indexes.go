// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.

The unique indexes here are load-bearing: email and referral-code
uniqueness are enforced by the database, not only by application-level
pre-checks, so concurrent imports cannot race past the in-memory
duplicate detection.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection("users")

	desired := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("email_unique").SetUnique(true),
		},
		{
			// Sparse: only institute accounts carry a referral code, and
			// null codes must not collide with each other.
			Keys: bson.D{{Key: "referral_code", Value: 1}},
			Options: options.Index().
				SetName("referral_code_unique").
				SetUnique(true).
				SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "referred_by", Value: 1}},
			Options: options.Index().SetName("referred_by_lookup"),
		},
	}

	for _, idx := range desired {
		if _, err := coll.Indexes().CreateOne(ctx, idx); err != nil {
			if isOptionsConflictErr(err) {
				zap.L().Warn("index exists with different options",
					zap.String("collection", "users"),
					zap.String("index", *idx.Options.Name),
					zap.Error(err))
				continue
			}
			if isDuplicateKeyErr(err) {
				// Existing data violates the unique constraint; surface it
				// rather than running without the guarantee.
				return err
			}
			return err
		}
		zap.L().Info("index ensured",
			zap.String("collection", "users"),
			zap.String("index", *idx.Options.Name))
	}
	return nil
}

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 { // E11000 duplicate key error index
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name (or options differ).
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict")
}
