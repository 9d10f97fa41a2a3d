// internal/app/store/users/userstore_test.go
package userstore

import (
	"errors"
	"regexp"
	"testing"

	"github.com/sharmaacademy/academyhub/internal/app/system/indexes"
	"github.com/sharmaacademy/academyhub/internal/app/system/referral"
	"github.com/sharmaacademy/academyhub/internal/domain/models"
	"github.com/sharmaacademy/academyhub/internal/testutil"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var codePattern = regexp.MustCompile(`^INST-[0-9A-F]{20}$`)

func setupStore(t *testing.T) *Store {
	t.Helper()
	db := testutil.SetupTestDB(t)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	return New(db)
}

func TestCreateAssignsReferralCodeToInstitute(t *testing.T) {
	store := setupStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Create(ctx, models.User{
		FullName: "Acme Institute",
		Email:    "acme@example.com",
		Role:     models.RoleInstitute,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !u.IsInstitute {
		t.Error("expected is_institute to be set")
	}
	if u.ReferralCode == nil {
		t.Fatal("expected a referral code to be assigned")
	}
	if !codePattern.MatchString(*u.ReferralCode) {
		t.Errorf("referral code %q does not match expected format", *u.ReferralCode)
	}

	// The code must survive the round trip to storage.
	got, err := store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ReferralCode == nil || *got.ReferralCode != *u.ReferralCode {
		t.Error("stored referral code does not match the one returned by Create")
	}
}

func TestCreateLearnerHasNoReferralCode(t *testing.T) {
	store := setupStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Create(ctx, models.User{
		FullName: "Lena Learner",
		Email:    "lena@example.com",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.Role != models.RoleLearner {
		t.Errorf("role = %q, want default learner", u.Role)
	}
	if u.ReferralCode != nil {
		t.Errorf("learner got referral code %q, want none", *u.ReferralCode)
	}
}

func TestCreateRejectsCodeOnNonInstitute(t *testing.T) {
	store := setupStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	code := referral.GenerateCode()
	_, err := store.Create(ctx, models.User{
		FullName:     "Sneaky",
		Email:        "sneaky@example.com",
		Role:         models.RoleLearner,
		ReferralCode: &code,
	})
	if err == nil {
		t.Fatal("expected error when a learner carries a referral code")
	}
}

func TestCreateDuplicateEmail(t *testing.T) {
	store := setupStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.User{Email: "dup@example.com"}); err != nil {
		t.Fatalf("first Create: %v", err)
	}

	// Same address in different case must still collide.
	_, err := store.Create(ctx, models.User{Email: "Dup@Example.COM"})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("err = %v, want ErrDuplicateEmail", err)
	}
}

func TestCreateReferredByMustBeInstitute(t *testing.T) {
	store := setupStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	learner, err := store.Create(ctx, models.User{Email: "plain@example.com"})
	if err != nil {
		t.Fatalf("Create learner: %v", err)
	}

	_, err = store.Create(ctx, models.User{
		Email:      "referred@example.com",
		ReferredBy: &learner.ID,
	})
	if !errors.Is(err, ErrReferrerNotInstitute) {
		t.Fatalf("err = %v, want ErrReferrerNotInstitute", err)
	}

	inst, err := store.Create(ctx, models.User{
		Email: "inst@example.com",
		Role:  models.RoleInstitute,
	})
	if err != nil {
		t.Fatalf("Create institute: %v", err)
	}
	u, err := store.Create(ctx, models.User{
		Email:      "referred@example.com",
		ReferredBy: &inst.ID,
	})
	if err != nil {
		t.Fatalf("Create referred learner: %v", err)
	}
	if u.ReferredBy == nil || *u.ReferredBy != inst.ID {
		t.Error("referred_by not stored")
	}
}

func TestResolveReferralCode(t *testing.T) {
	store := setupStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	inst, err := store.Create(ctx, models.User{
		Email: "resolver@example.com",
		Role:  models.RoleInstitute,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	id, err := store.ResolveReferralCode(ctx, *inst.ReferralCode)
	if err != nil {
		t.Fatalf("ResolveReferralCode: %v", err)
	}
	if id != inst.ID {
		t.Errorf("resolved id = %v, want %v", id, inst.ID)
	}

	if _, err := store.ResolveReferralCode(ctx, "INST-00000000000000000000"); !errors.Is(err, referral.ErrNotFound) {
		t.Fatalf("err = %v, want referral.ErrNotFound", err)
	}
}

func TestEmailExists(t *testing.T) {
	store := setupStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.User{Email: "here@example.com"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	ok, err := store.EmailExists(ctx, "HERE@example.com")
	if err != nil || !ok {
		t.Fatalf("EmailExists(here) = %v, %v; want true, nil", ok, err)
	}
	ok, err = store.EmailExists(ctx, "gone@example.com")
	if err != nil || ok {
		t.Fatalf("EmailExists(gone) = %v, %v; want false, nil", ok, err)
	}
}

func TestInsertAllDuplicateMapsToSentinel(t *testing.T) {
	store := setupStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.User{Email: "taken@example.com"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	batch := []models.User{
		{ID: primitive.NewObjectID(), Email: "taken@example.com", Role: models.RoleLearner, Status: "active"},
	}
	if err := store.InsertAll(ctx, batch); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("err = %v, want ErrDuplicateEmail", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	store := setupStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Create(ctx, models.User{FullName: "Old Name", Email: "upd@example.com"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	err = store.UpdateProfile(ctx, u.ID, ProfileUpdate{FullName: "New Name", Status: "disabled"})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}

	got, err := store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.FullName != "New Name" {
		t.Errorf("full name = %q, want %q", got.FullName, "New Name")
	}
	if got.Status != "disabled" {
		t.Errorf("status = %q, want disabled", got.Status)
	}
	// Unset fields stay put.
	if got.Email != "upd@example.com" {
		t.Errorf("email changed unexpectedly to %q", got.Email)
	}
}

func TestDelete(t *testing.T) {
	store := setupStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Create(ctx, models.User{Email: "bye@example.com"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	n, err := store.Delete(ctx, u.ID)
	if err != nil || n != 1 {
		t.Fatalf("Delete = %d, %v; want 1, nil", n, err)
	}
	if _, err := store.GetByID(ctx, u.ID); err != mongo.ErrNoDocuments {
		t.Fatalf("GetByID after delete: err = %v, want ErrNoDocuments", err)
	}

	// Deleting again reports nothing removed.
	n, err = store.Delete(ctx, u.ID)
	if err != nil || n != 0 {
		t.Fatalf("second Delete = %d, %v; want 0, nil", n, err)
	}
}
