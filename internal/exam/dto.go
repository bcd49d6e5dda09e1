package exam

import (
	"time"

	"github.com/google/uuid"

	util "github.com/epathshala/exam-api/internal/utils"
)

type CreateExamDTO struct {
	Title                     string             `json:"title" validate:"required"`
	Description               string             `json:"description"`
	DurationMinutes           int                `json:"duration_minutes" validate:"required,gt=0"`
	StartTime                 util.LocalDateTime `json:"start_time" validate:"required"`
	EndTime                   util.LocalDateTime `json:"end_time" validate:"required"`
	TotalMarks                int                `json:"total_marks" validate:"required,gt=0"`
	NegativeMarking           bool               `json:"negative_marking"`
	NegativeMarkingPercentage float64            `json:"negative_marking_percentage" validate:"gte=0,lte=100"`
	IsActive                  *bool              `json:"is_active"`
}

type QuestionInput struct {
	QuestionText  string `json:"question_text" validate:"required"`
	OptionA       string `json:"option_a" validate:"required"`
	OptionB       string `json:"option_b" validate:"required"`
	OptionC       string `json:"option_c" validate:"required"`
	OptionD       string `json:"option_d" validate:"required"`
	CorrectAnswer string `json:"correct_answer" validate:"required"`
	Marks         int    `json:"marks" validate:"required,gt=0"`
	Difficulty    string `json:"difficulty"`
	Topic         string `json:"topic"`
}

type AddQuestionsDTO struct {
	Questions []QuestionInput `json:"questions" validate:"required,min=1,dive"`
}

type QuestionResponse struct {
	ID           uuid.UUID `json:"id"`
	QuestionText string    `json:"question_text"`
	OptionA      string    `json:"option_a"`
	OptionB      string    `json:"option_b"`
	OptionC      string    `json:"option_c"`
	OptionD      string    `json:"option_d"`
	// Omitted on every student-facing surface.
	CorrectAnswer string `json:"correct_answer,omitempty"`
	Marks         int    `json:"marks"`
	Difficulty    string `json:"difficulty,omitempty"`
	Topic         string `json:"topic,omitempty"`
}

type ExamResponse struct {
	ID                        uuid.UUID          `json:"id"`
	Title                     string             `json:"title"`
	Description               string             `json:"description,omitempty"`
	DurationMinutes           int                `json:"duration_minutes"`
	StartTime                 util.LocalDateTime `json:"start_time"`
	EndTime                   util.LocalDateTime `json:"end_time"`
	TotalMarks                int                `json:"total_marks"`
	NegativeMarking           bool               `json:"negative_marking"`
	NegativeMarkingPercentage float64            `json:"negative_marking_percentage"`
	IsActive                  bool               `json:"is_active"`
	AssignedClass             string             `json:"assigned_class"`
	Status                    ExamStatus         `json:"status"`
	QuestionCount             int                `json:"question_count"`
	Questions                 []QuestionResponse `json:"questions,omitempty"`
}

type SubmittedAnswer struct {
	Selected         string `json:"selected"`
	TimeSpentSeconds *int   `json:"time_spent_seconds,omitempty"`
}

// SubmitAttemptDTO maps question id to the selected option. Questions absent
// from the map count as unanswered.
type SubmitAttemptDTO struct {
	Answers map[string]SubmittedAnswer `json:"answers"`
}

type TimerResponse struct {
	RemainingSeconds int64     `json:"remaining_seconds"`
	IsExpired        bool      `json:"is_expired"`
	StartTime        time.Time `json:"start_time"`
	Deadline         time.Time `json:"deadline"`
	DurationMinutes  int       `json:"duration_minutes"`
}

type Result struct {
	AttemptID           uuid.UUID      `json:"attempt_id"`
	ExamID              uuid.UUID      `json:"exam_id"`
	ExamTitle           string         `json:"exam_title"`
	StudentName         string         `json:"student_name,omitempty"`
	StudentEmail        string         `json:"student_email,omitempty"`
	StartTime           time.Time      `json:"start_time"`
	EndTime             *time.Time     `json:"end_time,omitempty"`
	Status              AttemptStatus  `json:"status"`
	IsLate              bool           `json:"is_late"`
	TotalQuestions      int            `json:"total_questions"`
	AnsweredQuestions   int            `json:"answered_questions"`
	CorrectAnswers      int            `json:"correct_answers"`
	IncorrectAnswers    int            `json:"incorrect_answers"`
	UnansweredQuestions int            `json:"unanswered_questions"`
	TotalMarks          int            `json:"total_marks"`
	ObtainedMarks       int            `json:"obtained_marks"`
	Percentage          float64        `json:"percentage"`
	Grade               string         `json:"grade"`
	Passed              bool           `json:"passed"`
	TopicPerformance    map[string]int `json:"topic_performance"`
	DifficultyPerformance map[string]int `json:"difficulty_performance"`
	AnswerDistribution    map[string]int `json:"answer_distribution"`
}
