// internal/app/features/users/routes.go
package users

import "github.com/go-chi/chi/v5"

// Routes returns the user-management subrouter, mounted under /users.
// Fine-grained access decisions live in the handlers (authz.Allowed);
// the routes only require that route-level parsing succeeds.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/upload_csv", h.HandleUploadCSV)
	r.Get("/{id}", h.ServeUser)
	r.Patch("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)
	return r
}
