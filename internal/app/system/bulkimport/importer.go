// internal/app/system/bulkimport/importer.go
package bulkimport

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	userstore "github.com/sharmaacademy/academyhub/internal/app/store/users"
	"github.com/sharmaacademy/academyhub/internal/app/system/inputval"
	"github.com/sharmaacademy/academyhub/internal/app/system/normalize"
	"github.com/sharmaacademy/academyhub/internal/app/system/passwordpolicy"
	"github.com/sharmaacademy/academyhub/internal/app/system/referral"
	"github.com/sharmaacademy/academyhub/internal/app/system/status"
	"github.com/sharmaacademy/academyhub/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// RawRow is one untrusted row from the tabular input, with the header
// already stripped. Line is the 1-indexed position after the header and
// appears in error messages.
type RawRow struct {
	Line         int
	Email        string
	ReferralCode string
	Password     string
}

// Result reports the outcome of an import batch. On success Errors is
// empty; on failure CreatedCount is zero and Errors holds exactly one
// message, because processing stops at the first bad row.
type Result struct {
	CreatedCount int      `json:"created_count"`
	Errors       []string `json:"errors"`
}

// AccountStore is the slice of the user store the engine needs: a
// committed-email check and an atomic batch insert.
type AccountStore interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	InsertAll(ctx context.Context, users []models.User) error
}

// TxnRunner executes fn atomically. In production this is txn.Run bound
// to the Mongo client; tests substitute a passthrough.
type TxnRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// Importer materializes accounts from raw rows with whole-batch
// atomicity: every row commits, or none do.
//
// The batch policy is deliberately stop-at-first-error / commit-nothing.
// Do not switch it to skip-and-continue without documenting the change;
// callers rely on a failed import leaving the database untouched.
type Importer struct {
	Registry referral.Resolver
	Accounts AccountStore
	Policy   passwordpolicy.Policy
	Hash     func(password string) (string, error)
	RunTxn   TxnRunner
	Log      *zap.Logger
}

// New builds an Importer with the default bcrypt hasher and a
// non-transactional runner. Callers wanting real transactions set RunTxn
// to txn.Run bound to their client.
func New(registry referral.Resolver, accounts AccountStore, policy passwordpolicy.Policy, log *zap.Logger) *Importer {
	return &Importer{
		Registry: registry,
		Accounts: accounts,
		Policy:   policy,
		Hash:     HashPassword,
		RunTxn: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		},
		Log: log,
	}
}

// HashPassword hashes a password using bcrypt with a cost of 12.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ImportBatch processes rows strictly in order. Each row is trimmed,
// email-validated and normalized, checked against the password policy,
// hashed, referral-resolved, and checked for duplicates against both
// committed accounts and rows staged earlier in the batch. The first
// failure of any kind stops processing and discards the whole batch.
//
// Row and batch failures are reported in the Result, never as a
// returned error; nothing is persisted unless every row succeeded.
func (imp *Importer) ImportBatch(ctx context.Context, rows []RawRow) Result {
	var staged []models.User
	stagedEmails := make(map[string]struct{}, len(rows))
	now := time.Now()

	for _, row := range rows {
		email := normalize.Email(row.Email)
		code := strings.TrimSpace(row.ReferralCode)
		password := strings.TrimSpace(row.Password)

		if !inputval.IsValidEmail(email) {
			return imp.rowFailure(row.Line, fmt.Sprintf("invalid email %q", strings.TrimSpace(row.Email)))
		}
		if err := imp.Policy.Validate(password); err != nil {
			return imp.rowFailure(row.Line, "weak password: "+err.Error())
		}
		hash, err := imp.Hash(password)
		if err != nil {
			return imp.aborted(fmt.Errorf("hash password for row %d: %w", row.Line, err))
		}

		var referredBy *primitive.ObjectID
		if code != "" {
			id, err := imp.Registry.ResolveReferralCode(ctx, code)
			if errors.Is(err, referral.ErrNotFound) {
				return imp.rowFailure(row.Line, fmt.Sprintf("referral code not found: %s", code))
			}
			if err != nil {
				return imp.aborted(fmt.Errorf("resolve referral for row %d: %w", row.Line, err))
			}
			referredBy = &id
		}

		if _, dup := stagedEmails[email]; dup {
			return imp.rowFailure(row.Line, fmt.Sprintf("duplicate email %q", email))
		}
		exists, err := imp.Accounts.EmailExists(ctx, email)
		if err != nil {
			return imp.aborted(fmt.Errorf("check email for row %d: %w", row.Line, err))
		}
		if exists {
			return imp.rowFailure(row.Line, fmt.Sprintf("duplicate email %q", email))
		}

		staged = append(staged, models.User{
			ID:           primitive.NewObjectID(),
			Email:        email,
			PasswordHash: hash,
			Role:         models.RoleLearner,
			Status:       status.Active,
			ReferredBy:   referredBy,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		stagedEmails[email] = struct{}{}
	}

	if len(staged) == 0 {
		return Result{Errors: []string{}}
	}

	err := imp.RunTxn(ctx, func(txCtx context.Context) error {
		return imp.Accounts.InsertAll(txCtx, staged)
	})
	if err != nil {
		// A unique-index violation at commit time means a concurrent
		// writer won the race; report it like the pre-check would have.
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			return Result{Errors: []string{"duplicate email detected during commit"}}
		}
		return imp.aborted(fmt.Errorf("commit batch: %w", err))
	}

	return Result{CreatedCount: len(staged), Errors: []string{}}
}

func (imp *Importer) rowFailure(line int, msg string) Result {
	full := fmt.Sprintf("row %d: %s", line, msg)
	if imp.Log != nil {
		imp.Log.Warn("import row rejected", zap.Int("row", line), zap.String("reason", msg))
	}
	return Result{Errors: []string{full}}
}

func (imp *Importer) aborted(err error) Result {
	if imp.Log != nil {
		imp.Log.Error("import aborted", zap.Error(err))
	}
	return Result{Errors: []string{"import aborted: " + err.Error()}}
}
