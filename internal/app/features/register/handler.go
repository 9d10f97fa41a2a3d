// internal/app/features/register/handler.go
package register

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	userstore "github.com/sharmaacademy/academyhub/internal/app/store/users"
	"github.com/sharmaacademy/academyhub/internal/app/system/bulkimport"
	"github.com/sharmaacademy/academyhub/internal/app/system/inputval"
	"github.com/sharmaacademy/academyhub/internal/app/system/normalize"
	"github.com/sharmaacademy/academyhub/internal/app/system/passwordpolicy"
	"github.com/sharmaacademy/academyhub/internal/app/system/referral"
	"github.com/sharmaacademy/academyhub/internal/app/system/timeouts"
	"github.com/sharmaacademy/academyhub/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves the public registration endpoint.
type Handler struct {
	Users  *userstore.Store
	Policy passwordpolicy.Policy
	Log    *zap.Logger
}

func NewHandler(users *userstore.Store, policy passwordpolicy.Policy, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Policy: policy, Log: logger}
}

type registerRequest struct {
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	ReferralCode    string `json:"referral_code"`
}

// HandleRegister handles POST /register. Registration is open to
// everyone and always creates a learner account; institute and
// instructor accounts are created by administrators.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFieldError(w, http.StatusBadRequest, "body", "invalid JSON body")
		return
	}

	email := normalize.Email(req.Email)
	if !inputval.IsValidEmail(email) {
		writeFieldError(w, http.StatusBadRequest, "email", "Enter a valid email address.")
		return
	}
	if req.Password != req.ConfirmPassword {
		writeFieldError(w, http.StatusBadRequest, "password", "Passwords do not match.")
		return
	}
	if err := h.Policy.Validate(req.Password); err != nil {
		writeFieldError(w, http.StatusBadRequest, "password", err.Error())
		return
	}

	var referredBy *primitive.ObjectID
	if code := strings.TrimSpace(req.ReferralCode); code != "" {
		id, err := h.Users.ResolveReferralCode(ctx, code)
		if errors.Is(err, referral.ErrNotFound) {
			writeFieldError(w, http.StatusBadRequest, "referral_code", "Invalid referral code.")
			return
		}
		if err != nil {
			h.Log.Error("referral resolve failed", zap.Error(err))
			writeFieldError(w, http.StatusInternalServerError, "referral_code", "Could not verify referral code.")
			return
		}
		referredBy = &id
	}

	hash, err := bulkimport.HashPassword(req.Password)
	if err != nil {
		h.Log.Error("password hash failed", zap.Error(err))
		writeFieldError(w, http.StatusInternalServerError, "password", "Could not process password.")
		return
	}

	user, err := h.Users.Create(ctx, models.User{
		FullName:     normalize.Name(req.FullName),
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleLearner,
		ReferredBy:   referredBy,
	})
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		writeFieldError(w, http.StatusConflict, "email", "A user with this email already exists.")
		return
	}
	if err != nil {
		h.Log.Error("register create failed", zap.String("email", email), zap.Error(err))
		writeFieldError(w, http.StatusInternalServerError, "error", "Could not create account.")
		return
	}

	h.Log.Info("account registered",
		zap.String("email", user.Email),
		zap.Bool("referred", referredBy != nil))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(user)
}

func writeFieldError(w http.ResponseWriter, code int, field, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]map[string]string{
		"errors": {field: msg},
	})
}
