// internal/app/features/login/handler.go
package login

import (
	"context"
	"encoding/json"
	"net/http"

	userstore "github.com/sharmaacademy/academyhub/internal/app/store/users"
	"github.com/sharmaacademy/academyhub/internal/app/system/auth"
	"github.com/sharmaacademy/academyhub/internal/app/system/status"
	"github.com/sharmaacademy/academyhub/internal/app/system/timeouts"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	Users *userstore.Store
	Log   *zap.Logger
}

func NewHandler(users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Log: logger}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin handles POST /login with an email + password body.
// Failures are deliberately indistinguishable (no account enumeration).
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	user, err := h.Users.GetByEmail(ctx, req.Email)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "invalid email or password", http.StatusUnauthorized)
		return
	}
	if err != nil {
		h.Log.Error("login lookup failed", zap.Error(err))
		http.Error(w, "login unavailable", http.StatusInternalServerError)
		return
	}
	if user.Status == status.Disabled {
		http.Error(w, "account disabled", http.StatusForbidden)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		http.Error(w, "invalid email or password", http.StatusUnauthorized)
		return
	}

	err = auth.SignIn(w, r, auth.SessionUser{
		ID:    user.ID.Hex(),
		Name:  user.FullName,
		Email: user.Email,
		Role:  user.Role,
	})
	if err != nil {
		h.Log.Error("session save failed", zap.Error(err))
		http.Error(w, "login unavailable", http.StatusInternalServerError)
		return
	}

	h.Log.Info("login", zap.String("email", user.Email), zap.String("role", user.Role))
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(user)
}
