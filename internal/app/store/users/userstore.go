// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sharmaacademy/academyhub/internal/app/system/normalize"
	"github.com/sharmaacademy/academyhub/internal/app/system/referral"
	"github.com/sharmaacademy/academyhub/internal/app/system/status"
	"github.com/sharmaacademy/academyhub/internal/domain/models"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	// ErrReferralCodeTaken is returned when a freshly generated referral code
	// collides with an existing one at insert time. Callers may retry creation.
	ErrReferralCodeTaken = errors.New("referral code already in use")
	// ErrReferrerNotInstitute is returned when referred_by does not point at an institute account.
	ErrReferrerNotInstitute = errors.New("referring account must be an institute")
	// ErrSelfReferral is returned when an account would be set to refer itself.
	ErrSelfReferral = errors.New("an account may not refer itself")

	errBadRole            = errors.New(`role must be "learner"|"instructor"|"institute"|"admin"`)
	errBadStatus          = errors.New(`status must be "active"|"disabled"`)
	errMissingEmail       = errors.New("email is required")
	errCodeOnNonInstitute = errors.New("only institute accounts may hold a referral code")
)

// Create inserts a new user after normalizing & validating fields.
//
// Institute accounts without a referral code get one generated here;
// this is the only place a code is ever assigned, and an existing code
// is never regenerated. Non-institute accounts must not carry one.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Email = normalize.Email(u.Email)
	u.FullName = normalize.Name(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)
	if u.Email == "" {
		return models.User{}, errMissingEmail
	}
	if u.Role == "" {
		u.Role = models.RoleLearner
	}
	if u.Status == "" {
		u.Status = status.Active
	}

	switch u.Role {
	case models.RoleLearner, models.RoleInstructor, models.RoleInstitute, models.RoleAdmin:
		// ok
	default:
		return models.User{}, errBadRole
	}
	if !status.IsValid(u.Status) {
		return models.User{}, errBadStatus
	}

	u.IsInstitute = u.Role == models.RoleInstitute
	if u.IsInstitute {
		if u.ReferralCode == nil {
			code := referral.GenerateCode()
			u.ReferralCode = &code
		}
	} else if u.ReferralCode != nil {
		return models.User{}, errCodeOnNonInstitute
	}

	if u.ReferredBy != nil {
		if *u.ReferredBy == u.ID {
			return models.User{}, ErrSelfReferral
		}
		var referrer models.User
		err := s.c.FindOne(ctx, bson.M{"_id": *u.ReferredBy}).Decode(&referrer)
		if err != nil || !referrer.IsInstitute {
			return models.User{}, ErrReferrerNotInstitute
		}
	}

	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			if isDupOn(err, "referral_code") {
				return models.User{}, ErrReferralCodeTaken
			}
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// InsertAll inserts a batch of already-validated users in one ordered
// call. It is used by the bulk import engine inside a transaction; a
// duplicate-key failure is mapped to ErrDuplicateEmail so concurrent
// imports racing past the engine's in-memory check still fail cleanly.
func (s *Store) InsertAll(ctx context.Context, users []models.User) error {
	if len(users) == 0 {
		return nil
	}
	docs := make([]interface{}, len(users))
	for i := range users {
		docs[i] = users[i]
	}
	opts := options.InsertMany().SetOrdered(true)
	if _, err := s.c.InsertMany(ctx, docs, opts); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by normalized email. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// EmailExists reports whether any account already uses the email.
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Err()
	if err == nil {
		return true, nil
	}
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	return false, err
}

// ResolveReferralCode returns the id of the institute account owning
// code. The lookup is exact-match and case-sensitive as stored. Returns
// referral.ErrNotFound when no institute account holds the code.
func (s *Store) ResolveReferralCode(ctx context.Context, code string) (primitive.ObjectID, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"referral_code": code, "is_institute": true}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return primitive.NilObjectID, referral.ErrNotFound
	}
	if err != nil {
		return primitive.NilObjectID, err
	}
	return u.ID, nil
}

// List returns all users sorted by email. Admin-only callers.
func (s *Store) List(ctx context.Context) ([]models.User, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "email", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ProfileUpdate holds the fields the standard update path may change.
// Referral code and referred-by are deliberately absent: codes are
// immutable after creation and the back-reference is set only at
// registration time.
type ProfileUpdate struct {
	FullName string
	Email    string
	Status   string
}

// UpdateProfile updates a user's mutable fields.
// Returns ErrDuplicateEmail if the email already belongs to another user.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd ProfileUpdate) error {
	set := bson.M{"updated_at": time.Now()}
	if upd.FullName != "" {
		set["full_name"] = normalize.Name(upd.FullName)
		set["full_name_ci"] = text.Fold(upd.FullName)
	}
	if upd.Email != "" {
		set["email"] = normalize.Email(upd.Email)
	}
	if upd.Status != "" {
		if !status.IsValid(normalize.Status(upd.Status)) {
			return errBadStatus
		}
		set["status"] = normalize.Status(upd.Status)
	}

	if _, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// PromoteToAdmin raises an existing account to the admin role. Used by
// the bootstrap path; admins never gain referral codes here.
func (s *Store) PromoteToAdmin(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"role": models.RoleAdmin, "updated_at": time.Now()},
	})
	return err
}

// SetPasswordHash replaces a user's credential hash.
func (s *Store) SetPasswordHash(ctx context.Context, id primitive.ObjectID, hash string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"password_hash": hash, "updated_at": time.Now()},
	})
	return err
}

// Delete removes a user by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// isDupOn reports whether a duplicate-key error involves the named field
// (index names embed the field name, e.g. "referral_code_unique").
func isDupOn(err error, field string) bool {
	return err != nil && strings.Contains(err.Error(), field)
}
