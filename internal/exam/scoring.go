package exam

import (
	"strings"
	"time"
)

// ScoreAnswer grades a single answer. Comparison is case-insensitive. A wrong
// answer under negative marking loses the configured fraction of the
// question's marks, truncated toward zero (whole-mark scoring).
func ScoreAnswer(q *Question, selected string, negativeMarking bool, negativePercentage float64) (isCorrect bool, marksObtained int) {
	if strings.EqualFold(strings.TrimSpace(selected), q.CorrectAnswer) {
		return true, q.Marks
	}
	if negativeMarking {
		return false, int(-float64(q.Marks) * negativePercentage / 100.0)
	}
	return false, 0
}

// GradeFor maps a percentage to its letter grade.
func GradeFor(percentage float64) string {
	switch {
	case percentage >= 90:
		return "A+"
	case percentage >= 80:
		return "A"
	case percentage >= 70:
		return "B+"
	case percentage >= 60:
		return "B"
	case percentage >= 50:
		return "C+"
	case percentage >= 40:
		return "C"
	case percentage >= 30:
		return "D"
	default:
		return "F"
	}
}

func Passed(percentage float64) bool {
	return percentage >= 40.0
}

// StatusAt derives the time-based exam status. UPCOMING and ACTIVE require
// the visibility flag; a window that has closed reports COMPLETED regardless
// of the flag.
func StatusAt(e *Exam, now time.Time) ExamStatus {
	if e.IsActive && now.Before(e.StartTime) {
		return ExamUpcoming
	}
	if e.IsActive && !now.Before(e.StartTime) && !now.After(e.EndTime) {
		return ExamActive
	}
	return ExamCompleted
}

// Startable reports whether an attempt may begin: visibility flag on and now
// inside the window. Status reporting and startability intentionally differ,
// see StatusAt.
func Startable(e *Exam, now time.Time) bool {
	return e.IsActive && !now.Before(e.StartTime) && !now.After(e.EndTime)
}

// Deadline is the authoritative submission cutoff for an attempt.
func Deadline(e *Exam, a *Attempt) time.Time {
	return a.StartTime.Add(time.Duration(e.DurationMinutes) * time.Minute)
}

// Summarize folds scored answers into the attempt counters.
func Summarize(answers []Answer) (answered, correct, incorrect, obtained int) {
	answered = len(answers)
	for _, ans := range answers {
		if ans.IsCorrect {
			correct++
		}
		obtained += ans.MarksObtained
	}
	incorrect = answered - correct
	return answered, correct, incorrect, obtained
}

// PercentageOf guards the zero-total case. Negative totals are allowed, per
// negative-marking semantics.
func PercentageOf(obtained, total int) float64 {
	if total <= 0 {
		return 0.0
	}
	return float64(obtained) * 100.0 / float64(total)
}

// BuildResult projects a Result from an attempt, its answers and the exam's
// questions. Pure: scoring the same inputs twice yields identical values. An
// IN_PROGRESS attempt past its deadline is reported as TIMEOUT; the stored
// row is not touched (the engine runs no background clock).
func BuildResult(e *Exam, a *Attempt, answers []Answer, now time.Time) *Result {
	byID := make(map[string]*Question, len(e.Questions))
	for i := range e.Questions {
		byID[e.Questions[i].ID.String()] = &e.Questions[i]
	}

	topic := make(map[string]int)
	difficulty := make(map[string]int)
	for _, ans := range answers {
		q, ok := byID[ans.QuestionID.String()]
		if !ok {
			continue
		}
		if ans.IsCorrect {
			topic[q.Topic]++
			difficulty[q.Difficulty]++
		} else {
			// Ensure the label shows up with a zero count.
			topic[q.Topic] += 0
			difficulty[q.Difficulty] += 0
		}
	}

	status := a.Status
	if status == AttemptInProgress && now.After(Deadline(e, a)) {
		status = AttemptTimeout
	}

	return &Result{
		AttemptID:           a.ID,
		ExamID:              e.ID,
		ExamTitle:           e.Title,
		StartTime:           a.StartTime,
		EndTime:             a.EndTime,
		Status:              status,
		IsLate:              a.IsLate,
		TotalQuestions:      a.TotalQuestions,
		AnsweredQuestions:   a.AnsweredQuestions,
		CorrectAnswers:      a.CorrectAnswers,
		IncorrectAnswers:    a.IncorrectAnswers,
		UnansweredQuestions: a.TotalQuestions - a.AnsweredQuestions,
		TotalMarks:          a.TotalMarks,
		ObtainedMarks:       a.ObtainedMarks,
		Percentage:          a.Percentage,
		Grade:               GradeFor(a.Percentage),
		Passed:              Passed(a.Percentage),
		TopicPerformance:    topic,
		DifficultyPerformance: difficulty,
		AnswerDistribution: map[string]int{
			"Correct":    a.CorrectAnswers,
			"Incorrect":  a.IncorrectAnswers,
			"Unanswered": a.TotalQuestions - a.AnsweredQuestions,
		},
	}
}
