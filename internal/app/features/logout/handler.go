// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/sharmaacademy/academyhub/internal/app/system/auth"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

// HandleLogout handles POST /logout and clears the session.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := auth.SignOut(w, r); err != nil {
		h.Log.Warn("logout failed", zap.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}

// Routes returns the logout subrouter, mounted under /logout.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleLogout)
	return r
}
