package aiquestion

import (
	"context"

	"github.com/epathshala/exam-api/internal/exam"
)

type Service interface {
	GenerateDrafts(ctx context.Context, req DraftRequest) ([]exam.QuestionInput, error)
}

type service struct {
	provider Provider
}

func NewService(provider Provider) Service {
	return &service{provider: provider}
}

func (s *service) GenerateDrafts(ctx context.Context, req DraftRequest) ([]exam.QuestionInput, error) {
	drafts, err := s.provider.SendPrompt(ctx, systemPrompt, buildUserPrompt(req))
	if err != nil {
		return nil, err
	}

	// Normalize so drafts can be passed straight to add-questions.
	for i := range drafts {
		if letter, ok := exam.NormalizeOption(drafts[i].CorrectAnswer); ok {
			drafts[i].CorrectAnswer = letter
		}
		if drafts[i].Marks <= 0 {
			drafts[i].Marks = req.Marks
		}
		if drafts[i].Topic == "" {
			drafts[i].Topic = req.Topic
		}
	}
	return drafts, nil
}
