package aiquestion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/epathshala/exam-api/internal/config"
	"github.com/epathshala/exam-api/internal/exam"
)

type Provider interface {
	SendPrompt(ctx context.Context, system, user string) ([]exam.QuestionInput, error)
}

type geminiProvider struct {
	client *genai.Client
}

func NewGeminiProvider(ctx context.Context) (Provider, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &geminiProvider{client: client}, nil
}

func (p *geminiProvider) SendPrompt(ctx context.Context, system, user string) ([]exam.QuestionInput, error) {
	log := config.WithContext(ctx)
	prompt := system + "\n\n" + user

	result, err := p.client.Models.GenerateContent(
		ctx,
		"gemini-2.0-flash",
		genai.Text(prompt),
		nil,
	)
	if err != nil {
		log.WithError(err).Error("Gemini content generation failed")
		return nil, fmt.Errorf("content generation failed: %w", err)
	}

	raw := result.Text()
	log.Debugf("Raw Gemini response:\n%s", raw)

	if raw == "" {
		return nil, errors.New("empty response from model")
	}

	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.Trim(clean, "`")

	var questions []exam.QuestionInput
	if err := json.Unmarshal([]byte(clean), &questions); err != nil {
		log.WithError(err).Errorf("Failed to decode model JSON. Cleaned content:\n%s", clean)
		return nil, fmt.Errorf("failed to decode model JSON: %w", err)
	}

	log.Infof("Generated %d question drafts", len(questions))
	return questions, nil
}
