package aiquestion

import "github.com/epathshala/exam-api/internal/exam"

// DraftRequest asks the model for MCQ drafts a teacher can review and then
// submit through the regular add-questions flow.
type DraftRequest struct {
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
	Count      int    `json:"count"`
	Marks      int    `json:"marks"`
	Context    string `json:"context,omitempty"`
}

type DraftResponse struct {
	Questions []exam.QuestionInput `json:"questions"`
}
