package exam

import (
	"time"

	"github.com/google/uuid"
)

type Exam struct {
	ID                        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title                     string    `gorm:"type:text;not null" json:"title"`
	Description               string    `gorm:"type:text" json:"description"`
	DurationMinutes           int       `gorm:"not null" json:"duration_minutes"`
	StartTime                 time.Time `gorm:"not null" json:"start_time"`
	EndTime                   time.Time `gorm:"not null" json:"end_time"`
	TotalMarks                int       `gorm:"not null;default:0" json:"total_marks"`
	NegativeMarking           bool      `gorm:"not null;default:false" json:"negative_marking"`
	NegativeMarkingPercentage float64   `gorm:"not null;default:0" json:"negative_marking_percentage"`
	IsActive                  bool      `gorm:"not null;default:true" json:"is_active"`
	TeacherID                 uuid.UUID `gorm:"type:uuid;not null;index" json:"teacher_id"`
	// AssignedClass is snapshotted from the teacher profile at creation; it
	// is the cohort whose students may see and attempt this exam.
	AssignedClass string    `gorm:"type:text;not null;index" json:"assigned_class"`
	CreatedByID   uuid.UUID `gorm:"type:uuid;not null;index" json:"created_by_id"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Questions []Question `gorm:"foreignKey:ExamID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

type Question struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ExamID       uuid.UUID `gorm:"type:uuid;not null;index" json:"exam_id"`
	QuestionText string    `gorm:"type:text;not null" json:"question_text"`
	OptionA      string    `gorm:"type:text;not null" json:"option_a"`
	OptionB      string    `gorm:"type:text;not null" json:"option_b"`
	OptionC      string    `gorm:"type:text;not null" json:"option_c"`
	OptionD      string    `gorm:"type:text;not null" json:"option_d"`
	// CorrectAnswer is one of A-D in memory; the repository stores it
	// AES-GCM encrypted so answer keys are unreadable at rest.
	CorrectAnswer string    `gorm:"type:text;not null" json:"correct_answer,omitempty"`
	Marks         int       `gorm:"not null" json:"marks"`
	Difficulty    string    `gorm:"type:text" json:"difficulty"`
	Topic         string    `gorm:"type:text" json:"topic"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Attempt is one student's single try at one exam. The compound unique index
// is what makes concurrent duplicate starts impossible.
type Attempt struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ExamID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_attempt_exam_student" json:"exam_id"`
	StudentID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_attempt_exam_student" json:"student_id"`
	StartTime time.Time  `gorm:"not null" json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Status    AttemptStatus `gorm:"type:text;not null;default:'IN_PROGRESS'" json:"status"`
	// IsLate tags submissions that landed after startTime + durationMinutes.
	// Kept for audit; late submissions are still scored normally.
	IsLate            bool      `gorm:"not null;default:false" json:"is_late"`
	TotalQuestions    int       `gorm:"not null;default:0" json:"total_questions"`
	AnsweredQuestions int       `gorm:"not null;default:0" json:"answered_questions"`
	CorrectAnswers    int       `gorm:"not null;default:0" json:"correct_answers"`
	IncorrectAnswers  int       `gorm:"not null;default:0" json:"incorrect_answers"`
	TotalMarks        int       `gorm:"not null;default:0" json:"total_marks"`
	ObtainedMarks     int       `gorm:"not null;default:0" json:"obtained_marks"`
	Percentage        float64   `gorm:"not null;default:0" json:"percentage"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Answers []Answer `gorm:"foreignKey:AttemptID;constraint:OnDelete:CASCADE" json:"answers,omitempty"`
}

type Answer struct {
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AttemptID        uuid.UUID `gorm:"type:uuid;not null;index" json:"attempt_id"`
	QuestionID       uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	SelectedAnswer   string    `gorm:"type:text;not null" json:"selected_answer"`
	IsCorrect        bool      `gorm:"not null;default:false" json:"is_correct"`
	MarksObtained    int       `gorm:"not null;default:0" json:"marks_obtained"`
	TimeSpentSeconds *int      `json:"time_spent_seconds,omitempty"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
}
