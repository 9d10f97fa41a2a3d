// internal/app/features/users/handler.go
package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	userstore "github.com/sharmaacademy/academyhub/internal/app/store/users"
	"github.com/sharmaacademy/academyhub/internal/app/system/auth"
	"github.com/sharmaacademy/academyhub/internal/app/system/authz"
	"github.com/sharmaacademy/academyhub/internal/app/system/bulkimport"
	"github.com/sharmaacademy/academyhub/internal/app/system/timeouts"
	"github.com/sharmaacademy/academyhub/internal/domain/models"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the user-management endpoints. Access is decided by
// the pure authz.Allowed mapping before any storage work happens.
type Handler struct {
	Users    *userstore.Store
	Importer *bulkimport.Importer
	Log      *zap.Logger
}

func NewHandler(users *userstore.Store, importer *bulkimport.Importer, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Importer: importer, Log: logger}
}

// ServeList handles GET /users. Admins see everyone; other
// authenticated users see only their own record.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	actor := auth.Actor(r)
	if authz.Allowed(actor, authz.ActionList, "") {
		list, err := h.Users.List(ctx)
		if err != nil {
			h.Log.Error("list users failed", zap.Error(err))
			http.Error(w, "could not list users", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, list)
		return
	}

	// Non-admins get a queryset restricted to themselves.
	if actor.ID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	u, ok := h.loadByHex(ctx, w, actor.ID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, []models.User{*u})
}

// ServeUser handles GET /users/{id}.
func (h *Handler) ServeUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	id := chi.URLParam(r, "id")
	if !authz.Allowed(auth.Actor(r), authz.ActionRetrieve, id) {
		forbid(w, r)
		return
	}
	u, ok := h.loadByHex(ctx, w, id)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, u)
}

type updateRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Status   string `json:"status"`
}

// HandleUpdate handles PATCH /users/{id}. The standard update path can
// change profile fields only; referral codes are immutable after
// creation and are never touched here.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	id := chi.URLParam(r, "id")
	if !authz.Allowed(auth.Actor(r), authz.ActionUpdate, id) {
		forbid(w, r)
		return
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		http.Error(w, "bad user id", http.StatusBadRequest)
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	err = h.Users.UpdateProfile(ctx, oid, userstore.ProfileUpdate{
		FullName: req.FullName,
		Email:    req.Email,
		Status:   req.Status,
	})
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		http.Error(w, "a user with this email already exists", http.StatusConflict)
		return
	}
	if err != nil {
		h.Log.Error("update user failed", zap.String("id", id), zap.Error(err))
		http.Error(w, "could not update user", http.StatusInternalServerError)
		return
	}

	u, ok := h.loadByHex(ctx, w, id)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// HandleDelete handles DELETE /users/{id}. Admin only.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	id := chi.URLParam(r, "id")
	if !authz.Allowed(auth.Actor(r), authz.ActionDelete, id) {
		forbid(w, r)
		return
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		http.Error(w, "bad user id", http.StatusBadRequest)
		return
	}

	n, err := h.Users.Delete(ctx, oid)
	if err != nil {
		h.Log.Error("delete user failed", zap.String("id", id), zap.Error(err))
		http.Error(w, "could not delete user", http.StatusInternalServerError)
		return
	}
	if n == 0 {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) loadByHex(ctx context.Context, w http.ResponseWriter, id string) (*models.User, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		http.Error(w, "bad user id", http.StatusBadRequest)
		return nil, false
	}
	u, err := h.Users.GetByID(ctx, oid)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "user not found", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		h.Log.Error("load user failed", zap.String("id", id), zap.Error(err))
		http.Error(w, "could not load user", http.StatusInternalServerError)
		return nil, false
	}
	return u, true
}

func forbid(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	http.Error(w, "forbidden", http.StatusForbidden)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
