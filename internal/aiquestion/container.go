package aiquestion

import "context"

type AIQuestionContainer struct {
	Handler *Handler
}

func NewAIQuestionContainer() *AIQuestionContainer {
	ctx := context.Background()
	provider, _ := NewGeminiProvider(ctx)
	service := NewService(provider)
	handler := NewHandler(service)

	return &AIQuestionContainer{
		Handler: handler,
	}
}
