package exam

import "strings"

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "IN_PROGRESS"
	AttemptCompleted  AttemptStatus = "COMPLETED"
	AttemptTimeout    AttemptStatus = "TIMEOUT"
)

// IsFinal reports whether the attempt has left IN_PROGRESS. No transition
// leaves a final state.
func (s AttemptStatus) IsFinal() bool {
	return s == AttemptCompleted || s == AttemptTimeout
}

type ExamStatus string

const (
	ExamUpcoming  ExamStatus = "UPCOMING"
	ExamActive    ExamStatus = "ACTIVE"
	ExamCompleted ExamStatus = "COMPLETED"
)

// Difficulty labels are conventional, not enforced: teachers may tag
// questions with their own labels.
const (
	DifficultyEasy   = "EASY"
	DifficultyMedium = "MEDIUM"
	DifficultyHard   = "HARD"
)

// NormalizeOption maps a selected option to its canonical uppercase letter.
// Accepts a..d case-insensitively; anything else is rejected.
func NormalizeOption(letter string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(letter)) {
	case "A":
		return "A", true
	case "B":
		return "B", true
	case "C":
		return "C", true
	case "D":
		return "D", true
	}
	return "", false
}
