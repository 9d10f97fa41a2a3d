// internal/testutil/http.go
package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/sharmaacademy/academyhub/internal/app/system/auth"
	"github.com/sharmaacademy/academyhub/internal/domain/models"

	"github.com/go-chi/chi/v5"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// NewRequest builds a plain unauthenticated request.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// AsAdmin attaches an admin session user to the request context.
func AsAdmin(r *http.Request) *http.Request {
	return auth.WithUser(r, &auth.SessionUser{
		ID:    "000000000000000000000001",
		Name:  "Admin",
		Email: "admin@example.com",
		Role:  models.RoleAdmin,
	})
}

// AsLearner attaches a learner session user with the given id.
func AsLearner(r *http.Request, id string) *http.Request {
	return auth.WithUser(r, &auth.SessionUser{
		ID:    id,
		Name:  "Learner",
		Email: "learner@example.com",
		Role:  models.RoleLearner,
	})
}
