package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/epathshala/exam-api/internal/aiquestion"
	"github.com/epathshala/exam-api/internal/auth"
	"github.com/epathshala/exam-api/internal/exam"
	"github.com/epathshala/exam-api/internal/middlewares"
	"github.com/epathshala/exam-api/internal/user"
)

type RouterConfig struct {
	UserHandler       *user.Handler
	ExamHandler       *exam.Handler
	AIQuestionHandler *aiquestion.Handler
}

func New(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.CorsMiddleware)

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.UserHandler.Register)
		r.Post("/login", cfg.UserHandler.Login)
		r.Post("/logout", auth.NewHandler().Logout)
	})

	r.Mount("/exams", exam.Routes(cfg.ExamHandler))
	r.Mount("/ai-questions", aiquestion.Routes(cfg.AIQuestionHandler))

	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)

		r.Mount("/users", user.Routes(cfg.UserHandler))
	})

	return r
}
