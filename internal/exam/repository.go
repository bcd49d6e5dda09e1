package exam

import (
	"errors"

	"gorm.io/gorm"

	"github.com/epathshala/exam-api/internal/config"
)

type ExamRepository interface {
	CreateExam(e *Exam) error
	GetExamByID(id string) (*Exam, error)
	ListExamsByCreator(createdByID string) ([]*Exam, error)
	ListExamsByClass(assignedClass string) ([]*Exam, error)
	UpdateExam(e *Exam) error
	DeleteExam(id string) error

	AddQuestions(questions []*Question) error
	CountAttempts(examID string) (int64, error)
	CreateAttempt(a *Attempt) error
	GetAttempt(examID, studentID string) (*Attempt, error)
	ListAttemptsByExam(examID string) ([]*Attempt, error)
	ListAttemptsByStudent(studentID string) ([]*Attempt, error)
	FinishAttempt(a *Attempt, answers []*Answer) error
}

type examRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) ExamRepository {
	return &examRepository{db: db}
}

func (r *examRepository) CreateExam(e *Exam) error {
	return r.db.Create(e).Error
}

func (r *examRepository) GetExamByID(id string) (*Exam, error) {
	var e Exam
	err := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&e, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if err := decryptAnswerKeys(e.Questions); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *examRepository) ListExamsByCreator(createdByID string) ([]*Exam, error) {
	var exams []*Exam
	if err := r.db.
		Preload("Questions").
		Where("created_by_id = ?", createdByID).
		Order("created_at DESC").
		Find(&exams).Error; err != nil {
		return nil, err
	}
	for _, e := range exams {
		if err := decryptAnswerKeys(e.Questions); err != nil {
			return nil, err
		}
	}
	return exams, nil
}

func (r *examRepository) ListExamsByClass(assignedClass string) ([]*Exam, error) {
	var exams []*Exam
	if err := r.db.
		Preload("Questions").
		Where("assigned_class = ?", assignedClass).
		Order("start_time ASC").
		Find(&exams).Error; err != nil {
		return nil, err
	}
	for _, e := range exams {
		if err := decryptAnswerKeys(e.Questions); err != nil {
			return nil, err
		}
	}
	return exams, nil
}

func (r *examRepository) UpdateExam(e *Exam) error {
	// Save without touching owned questions; their keys are already stored
	// encrypted and must not be re-written from decrypted memory.
	return r.db.Omit("Questions").Save(e).Error
}

func (r *examRepository) DeleteExam(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&Question{}, "exam_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&Exam{}, "id = ?", id).Error
	})
}

func (r *examRepository) AddQuestions(questions []*Question) error {
	if len(questions) == 0 {
		return nil
	}
	plain := make([]string, len(questions))
	for i, q := range questions {
		plain[i] = q.CorrectAnswer
		sealed, err := config.Encrypt(q.CorrectAnswer)
		if err != nil {
			return err
		}
		q.CorrectAnswer = sealed
	}
	if err := r.db.Create(&questions).Error; err != nil {
		return err
	}
	// Hand plaintext back to the caller.
	for i, q := range questions {
		q.CorrectAnswer = plain[i]
	}
	return nil
}

func (r *examRepository) CountAttempts(examID string) (int64, error) {
	var n int64
	if err := r.db.Model(&Attempt{}).Where("exam_id = ?", examID).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// CreateAttempt relies on the compound unique index on (exam_id, student_id):
// of two concurrent starts exactly one insert succeeds, the other surfaces
// the duplicate-attempt conflict.
func (r *examRepository) CreateAttempt(a *Attempt) error {
	if err := r.db.Create(a).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyAttempted
		}
		return err
	}
	return nil
}

func (r *examRepository) GetAttempt(examID, studentID string) (*Attempt, error) {
	var a Attempt
	err := r.db.
		Preload("Answers").
		First(&a, "exam_id = ? AND student_id = ?", examID, studentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *examRepository) ListAttemptsByExam(examID string) ([]*Attempt, error) {
	var attempts []*Attempt
	if err := r.db.
		Preload("Answers").
		Where("exam_id = ?", examID).
		Order("created_at DESC").
		Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

func (r *examRepository) ListAttemptsByStudent(studentID string) ([]*Attempt, error) {
	var attempts []*Attempt
	if err := r.db.
		Preload("Answers").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

// FinishAttempt is the single IN_PROGRESS -> COMPLETED transition. The
// conditional UPDATE is the compare-and-swap: a concurrent submit that lost
// the race matches zero rows and fails with ErrAttemptFinished before any
// answer is inserted.
func (r *examRepository) FinishAttempt(a *Attempt, answers []*Answer) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Attempt{}).
			Where("id = ? AND status = ?", a.ID, AttemptInProgress).
			Updates(map[string]interface{}{
				"status":             a.Status,
				"end_time":           a.EndTime,
				"is_late":            a.IsLate,
				"answered_questions": a.AnsweredQuestions,
				"correct_answers":    a.CorrectAnswers,
				"incorrect_answers":  a.IncorrectAnswers,
				"obtained_marks":     a.ObtainedMarks,
				"percentage":         a.Percentage,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAttemptFinished
		}
		if len(answers) > 0 {
			if err := tx.Create(&answers).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func decryptAnswerKeys(questions []Question) error {
	for i := range questions {
		plain, err := config.Decrypt(questions[i].CorrectAnswer)
		if err != nil {
			return err
		}
		questions[i].CorrectAnswer = plain
	}
	return nil
}
