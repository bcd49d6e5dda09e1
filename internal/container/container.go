package container

import (
	"context"
	"log"
	"os"

	"github.com/epathshala/exam-api/internal/aiquestion"
	"github.com/epathshala/exam-api/internal/auth"
	"github.com/epathshala/exam-api/internal/config"
	"github.com/epathshala/exam-api/internal/exam"
	"github.com/epathshala/exam-api/internal/user"
)

type Container struct {
	UserContainer       *user.UserContainer
	ExamContainer       *exam.ExamContainer
	AIQuestionContainer *aiquestion.AIQuestionContainer
}

func New() *Container {
	config.Init()
	auth.Init()
	config.InitCrypto()

	dsn := os.Getenv("DATABASE_DSN")
	if err := config.Connect(context.Background(), dsn); err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}

	if err := migrate(); err != nil {
		log.Fatalf("failed to migrate DB: %v", err)
	}

	userContainer := user.NewUserContainer(config.DB)
	examContainer := exam.NewExamContainer(config.DB, userContainer.Repo)
	aiQuestionContainer := aiquestion.NewAIQuestionContainer()

	return &Container{
		UserContainer:       userContainer,
		ExamContainer:       examContainer,
		AIQuestionContainer: aiQuestionContainer,
	}
}

func migrate() error {
	if err := config.DB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}
	return config.DB.AutoMigrate(
		&user.User{},
		&user.Teacher{},
		&user.Student{},
		&exam.Exam{},
		&exam.Question{},
		&exam.Attempt{},
		&exam.Answer{},
	)
}
