package aiquestion

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/epathshala/exam-api/internal/auth"
	"github.com/epathshala/exam-api/internal/user"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(auth.AuthMiddleware)
	r.Use(auth.RequireRole(string(user.RoleFaculty)))

	r.Post("/", h.GenerateDrafts)
	return r
}
