package exam

import (
	"gorm.io/gorm"

	"github.com/epathshala/exam-api/internal/user"
)

type ExamContainer struct {
	Handler *Handler
	Service ExamService
}

func NewExamContainer(db *gorm.DB, userRepo user.UserRepository) *ExamContainer {
	repo := NewRepository(db)
	service := NewService(repo, userRepo)
	handler := NewHandler(service)

	return &ExamContainer{
		Handler: handler,
		Service: service,
	}
}
