package exam

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/epathshala/exam-api/internal/auth"
	"github.com/epathshala/exam-api/internal/user"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(auth.AuthMiddleware)

	r.Route("/faculty", func(r chi.Router) {
		r.Use(auth.RequireRole(string(user.RoleFaculty)))

		r.Post("/", h.CreateExam)
		r.Get("/", h.ListMyExams)
		r.Get("/{id}", h.GetExam)
		r.Delete("/{id}", h.DeleteExam)
		r.Post("/{id}/questions", h.AddQuestions)
		r.Patch("/{id}/activate", h.ActivateExam)
		r.Patch("/{id}/deactivate", h.DeactivateExam)
		r.Get("/{id}/results", h.ListExamResults)
	})

	r.Route("/student", func(r chi.Router) {
		r.Use(auth.RequireRole(string(user.RoleStudent)))

		r.Get("/", h.ListAvailableExams)
		r.Get("/history", h.GetExamHistory)
		r.Post("/{id}/start", h.StartAttempt)
		r.Get("/{id}/questions", h.GetExamQuestions)
		r.Get("/{id}/timer", h.GetExamTimer)
		r.Post("/{id}/submit", h.SubmitAttempt)
		r.Get("/{id}/result", h.GetExamResult)
	})

	return r
}
