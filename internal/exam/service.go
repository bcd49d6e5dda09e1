package exam

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/epathshala/exam-api/internal/config"
	"github.com/epathshala/exam-api/internal/user"
	util "github.com/epathshala/exam-api/internal/utils"
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrExamNotFound     = errors.New("exam not found")
	ErrTeacherNotFound  = errors.New("teacher profile not found")
	ErrStudentNotFound  = errors.New("student profile not found")
	ErrAttemptNotFound  = errors.New("attempt not found")
	ErrNotOwner         = errors.New("exam belongs to another teacher")
	ErrExamNotStartable = errors.New("exam is not open for attempts")
	ErrExamNotReady     = errors.New("exam has no questions")
	ErrAlreadyAttempted = errors.New("exam already attempted")
	ErrAttemptFinished  = errors.New("attempt already submitted")
	ErrExamHasAttempts  = errors.New("exam has graded attempts")
	ErrQuestionsLocked  = errors.New("questions are frozen once attempts exist")
)

var validate = validator.New()

type ExamService interface {
	// Faculty surface
	CreateExam(ctx context.Context, facultyUserID string, dto CreateExamDTO) (*ExamResponse, error)
	AddQuestions(ctx context.Context, facultyUserID, examID string, dto AddQuestionsDTO) (*ExamResponse, error)
	ActivateExam(ctx context.Context, facultyUserID, examID string) (*ExamResponse, error)
	DeactivateExam(ctx context.Context, facultyUserID, examID string) (*ExamResponse, error)
	DeleteExam(ctx context.Context, facultyUserID, examID string) error
	ListExamsByFaculty(ctx context.Context, facultyUserID string) ([]*ExamResponse, error)
	GetExamForFaculty(ctx context.Context, facultyUserID, examID string) (*ExamResponse, error)
	ListExamResults(ctx context.Context, facultyUserID, examID string) ([]*Result, error)

	// Student surface
	ListAvailableExams(ctx context.Context, studentUserID string) ([]*ExamResponse, error)
	StartAttempt(ctx context.Context, studentUserID, examID string) (*ExamResponse, error)
	GetExamQuestions(ctx context.Context, studentUserID, examID string) (*ExamResponse, error)
	GetExamTimer(ctx context.Context, studentUserID, examID string) (*TimerResponse, error)
	SubmitAttempt(ctx context.Context, studentUserID, examID string, dto SubmitAttemptDTO) (*Result, error)
	GetExamResult(ctx context.Context, studentUserID, examID string) (*Result, error)
	GetExamHistory(ctx context.Context, studentUserID string) ([]*Result, error)
}

type examService struct {
	repo     ExamRepository
	userRepo user.UserRepository
	now      func() time.Time
}

func NewService(repo ExamRepository, userRepo user.UserRepository) ExamService {
	return &examService{
		repo:     repo,
		userRepo: userRepo,
		now:      time.Now,
	}
}

// Faculty surface

func (s *examService) CreateExam(ctx context.Context, facultyUserID string, dto CreateExamDTO) (*ExamResponse, error) {
	log := config.WithContext(ctx)

	if err := validate.Struct(dto); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if !dto.EndTime.After(dto.StartTime.Time) {
		return nil, fmt.Errorf("%w: end_time must be after start_time", ErrValidation)
	}

	createdBy, err := uuid.Parse(facultyUserID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", ErrValidation)
	}

	teacher, err := s.userRepo.GetTeacherByUserID(facultyUserID)
	if err != nil {
		log.WithError(err).Error("Failed to resolve teacher profile")
		return nil, err
	}
	if teacher == nil {
		return nil, ErrTeacherNotFound
	}

	isActive := true
	if dto.IsActive != nil {
		isActive = *dto.IsActive
	}

	e := &Exam{
		Title:                     dto.Title,
		Description:               dto.Description,
		DurationMinutes:           dto.DurationMinutes,
		StartTime:                 dto.StartTime.UTC(),
		EndTime:                   dto.EndTime.UTC(),
		TotalMarks:                dto.TotalMarks,
		NegativeMarking:           dto.NegativeMarking,
		NegativeMarkingPercentage: dto.NegativeMarkingPercentage,
		IsActive:                  isActive,
		TeacherID:                 teacher.ID,
		AssignedClass:             teacher.AssignedClass,
		CreatedByID:               createdBy,
	}

	if err := s.repo.CreateExam(e); err != nil {
		log.WithError(err).Error("Failed to create exam")
		return nil, err
	}

	log.Info("Exam created", "exam_id", e.ID.String())
	return s.toResponse(e, true), nil
}

func (s *examService) AddQuestions(ctx context.Context, facultyUserID, examID string, dto AddQuestionsDTO) (*ExamResponse, error) {
	log := config.WithContext(ctx)

	if err := validate.Struct(dto); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	e, err := s.ownedExam(facultyUserID, examID)
	if err != nil {
		return nil, err
	}

	attempts, err := s.repo.CountAttempts(examID)
	if err != nil {
		return nil, err
	}
	if attempts > 0 {
		// Edits after attempts exist would corrupt already-graded results.
		return nil, ErrQuestionsLocked
	}

	// The whole batch is validated before anything is written.
	questions := make([]*Question, 0, len(dto.Questions))
	for i, in := range dto.Questions {
		letter, ok := NormalizeOption(in.CorrectAnswer)
		if !ok {
			return nil, fmt.Errorf("%w: question %d: correct_answer must be one of A-D", ErrValidation, i+1)
		}
		questions = append(questions, &Question{
			ExamID:        e.ID,
			QuestionText:  in.QuestionText,
			OptionA:       in.OptionA,
			OptionB:       in.OptionB,
			OptionC:       in.OptionC,
			OptionD:       in.OptionD,
			CorrectAnswer: letter,
			Marks:         in.Marks,
			Difficulty:    in.Difficulty,
			Topic:         in.Topic,
		})
	}

	if err := s.repo.AddQuestions(questions); err != nil {
		log.WithError(err).Error("Failed to add questions")
		return nil, err
	}

	// totalMarks tracks the question set, never recomputed lazily.
	total := 0
	for _, q := range e.Questions {
		total += q.Marks
	}
	for _, q := range questions {
		total += q.Marks
	}
	e.TotalMarks = total
	if err := s.repo.UpdateExam(e); err != nil {
		log.WithError(err).Error("Failed to update exam total marks")
		return nil, err
	}

	fresh, err := s.repo.GetExamByID(examID)
	if err != nil {
		return nil, err
	}
	log.Info("Questions added", "exam_id", examID, "count", len(questions))
	return s.toResponse(fresh, true), nil
}

func (s *examService) ActivateExam(ctx context.Context, facultyUserID, examID string) (*ExamResponse, error) {
	return s.setActive(ctx, facultyUserID, examID, true)
}

func (s *examService) DeactivateExam(ctx context.Context, facultyUserID, examID string) (*ExamResponse, error) {
	return s.setActive(ctx, facultyUserID, examID, false)
}

func (s *examService) setActive(ctx context.Context, facultyUserID, examID string, active bool) (*ExamResponse, error) {
	log := config.WithContext(ctx)

	e, err := s.ownedExam(facultyUserID, examID)
	if err != nil {
		return nil, err
	}

	if e.IsActive != active {
		e.IsActive = active
		if err := s.repo.UpdateExam(e); err != nil {
			log.WithError(err).Error("Failed to toggle exam visibility")
			return nil, err
		}
	}
	return s.toResponse(e, true), nil
}

func (s *examService) DeleteExam(ctx context.Context, facultyUserID, examID string) error {
	log := config.WithContext(ctx)

	if _, err := s.ownedExam(facultyUserID, examID); err != nil {
		return err
	}

	attempts, err := s.repo.CountAttempts(examID)
	if err != nil {
		return err
	}
	if attempts > 0 {
		// Never cascade-delete graded history.
		return ErrExamHasAttempts
	}

	if err := s.repo.DeleteExam(examID); err != nil {
		log.WithError(err).Error("Failed to delete exam")
		return err
	}

	log.Info("Exam deleted", "exam_id", examID)
	return nil
}

func (s *examService) ListExamsByFaculty(ctx context.Context, facultyUserID string) ([]*ExamResponse, error) {
	exams, err := s.repo.ListExamsByCreator(facultyUserID)
	if err != nil {
		return nil, err
	}

	responses := make([]*ExamResponse, 0, len(exams))
	for _, e := range exams {
		responses = append(responses, s.toResponse(e, false))
	}
	return responses, nil
}

func (s *examService) GetExamForFaculty(ctx context.Context, facultyUserID, examID string) (*ExamResponse, error) {
	e, err := s.ownedExam(facultyUserID, examID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(e, true), nil
}

func (s *examService) ListExamResults(ctx context.Context, facultyUserID, examID string) ([]*Result, error) {
	log := config.WithContext(ctx)

	e, err := s.ownedExam(facultyUserID, examID)
	if err != nil {
		return nil, err
	}

	attempts, err := s.repo.ListAttemptsByExam(examID)
	if err != nil {
		log.WithError(err).Error("Failed to list attempts")
		return nil, err
	}

	now := s.now()
	results := make([]*Result, 0, len(attempts))
	for _, a := range attempts {
		res := BuildResult(e, a, a.Answers, now)
		s.attachStudent(ctx, res, a.StudentID.String())
		results = append(results, res)
	}
	return results, nil
}

// Student surface

func (s *examService) ListAvailableExams(ctx context.Context, studentUserID string) ([]*ExamResponse, error) {
	student, err := s.student(studentUserID)
	if err != nil {
		return nil, err
	}

	exams, err := s.repo.ListExamsByClass(student.StudentClass)
	if err != nil {
		return nil, err
	}

	now := s.now()
	responses := make([]*ExamResponse, 0, len(exams))
	for _, e := range exams {
		status := StatusAt(e, now)
		if status == ExamUpcoming || status == ExamActive {
			responses = append(responses, s.toResponse(e, false))
		}
	}
	return responses, nil
}

func (s *examService) StartAttempt(ctx context.Context, studentUserID, examID string) (*ExamResponse, error) {
	log := config.WithContext(ctx)

	student, err := s.student(studentUserID)
	if err != nil {
		return nil, err
	}

	e, err := s.repo.GetExamByID(examID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrExamNotFound
	}
	if e.AssignedClass != student.StudentClass {
		return nil, ErrExamNotStartable
	}

	now := s.now()
	if !Startable(e, now) {
		return nil, ErrExamNotStartable
	}
	if len(e.Questions) == 0 {
		return nil, ErrExamNotReady
	}

	attempt := &Attempt{
		ExamID:         e.ID,
		StudentID:      student.ID,
		StartTime:      now,
		Status:         AttemptInProgress,
		TotalQuestions: len(e.Questions),
		TotalMarks:     e.TotalMarks,
	}
	if err := s.repo.CreateAttempt(attempt); err != nil {
		if errors.Is(err, ErrAlreadyAttempted) {
			log.Warn("Duplicate attempt rejected", "exam_id", examID, "student_id", student.ID.String())
			return nil, ErrAlreadyAttempted
		}
		log.WithError(err).Error("Failed to create attempt")
		return nil, err
	}

	log.Info("Attempt started", "exam_id", examID, "student_id", student.ID.String())
	resp := s.toResponse(e, true)
	sanitizeQuestions(resp)
	return resp, nil
}

// GetExamQuestions re-serves the paper for an attempt already in progress, so
// a client that lost the start response can recover it without a second start.
func (s *examService) GetExamQuestions(ctx context.Context, studentUserID, examID string) (*ExamResponse, error) {
	e, attempt, err := s.studentAttempt(studentUserID, examID)
	if err != nil {
		return nil, err
	}
	if attempt.Status.IsFinal() {
		return nil, ErrAttemptFinished
	}

	resp := s.toResponse(e, true)
	sanitizeQuestions(resp)
	return resp, nil
}

func (s *examService) GetExamTimer(ctx context.Context, studentUserID, examID string) (*TimerResponse, error) {
	e, attempt, err := s.studentAttempt(studentUserID, examID)
	if err != nil {
		return nil, err
	}
	if attempt.Status.IsFinal() {
		return nil, ErrAttemptFinished
	}

	now := s.now()
	deadline := Deadline(e, attempt)
	remaining := int64(deadline.Sub(now).Seconds())
	expired := remaining <= 0
	if remaining < 0 {
		remaining = 0
	}

	return &TimerResponse{
		RemainingSeconds: remaining,
		IsExpired:        expired,
		StartTime:        attempt.StartTime,
		Deadline:         deadline,
		DurationMinutes:  e.DurationMinutes,
	}, nil
}

func (s *examService) SubmitAttempt(ctx context.Context, studentUserID, examID string, dto SubmitAttemptDTO) (*Result, error) {
	log := config.WithContext(ctx)

	e, attempt, err := s.studentAttempt(studentUserID, examID)
	if err != nil {
		return nil, err
	}
	if attempt.Status.IsFinal() {
		return nil, ErrAttemptFinished
	}

	byID := make(map[string]*Question, len(e.Questions))
	for i := range e.Questions {
		byID[e.Questions[i].ID.String()] = &e.Questions[i]
	}

	// Scoring is pure and runs before the single atomic persistence step.
	answers := make([]*Answer, 0, len(dto.Answers))
	for questionID, submitted := range dto.Answers {
		q, ok := byID[questionID]
		if !ok {
			return nil, fmt.Errorf("%w: question %s does not belong to this exam", ErrValidation, questionID)
		}
		letter, ok := NormalizeOption(submitted.Selected)
		if !ok {
			return nil, fmt.Errorf("%w: selected answer for question %s must be one of A-D", ErrValidation, questionID)
		}

		isCorrect, marks := ScoreAnswer(q, letter, e.NegativeMarking, e.NegativeMarkingPercentage)
		answers = append(answers, &Answer{
			AttemptID:        attempt.ID,
			QuestionID:       q.ID,
			SelectedAnswer:   letter,
			IsCorrect:        isCorrect,
			MarksObtained:    marks,
			TimeSpentSeconds: submitted.TimeSpentSeconds,
		})
	}

	scored := make([]Answer, len(answers))
	for i, a := range answers {
		scored[i] = *a
	}
	answered, correct, incorrect, obtained := Summarize(scored)

	now := s.now()
	attempt.Status = AttemptCompleted
	attempt.EndTime = &now
	attempt.IsLate = now.After(Deadline(e, attempt))
	attempt.AnsweredQuestions = answered
	attempt.CorrectAnswers = correct
	attempt.IncorrectAnswers = incorrect
	attempt.ObtainedMarks = obtained
	attempt.Percentage = PercentageOf(obtained, attempt.TotalMarks)

	if err := s.repo.FinishAttempt(attempt, answers); err != nil {
		if errors.Is(err, ErrAttemptFinished) {
			log.Warn("Concurrent submission rejected", "attempt_id", attempt.ID.String())
			return nil, ErrAttemptFinished
		}
		log.WithError(err).Error("Failed to finish attempt")
		return nil, err
	}

	log.Info("Attempt submitted", "attempt_id", attempt.ID.String(), "obtained_marks", obtained)
	result := BuildResult(e, attempt, scored, now)
	s.attachStudent(ctx, result, attempt.StudentID.String())
	return result, nil
}

func (s *examService) GetExamResult(ctx context.Context, studentUserID, examID string) (*Result, error) {
	e, attempt, err := s.studentAttempt(studentUserID, examID)
	if err != nil {
		return nil, err
	}

	result := BuildResult(e, attempt, attempt.Answers, s.now())
	s.attachStudent(ctx, result, attempt.StudentID.String())
	return result, nil
}

func (s *examService) GetExamHistory(ctx context.Context, studentUserID string) ([]*Result, error) {
	log := config.WithContext(ctx)

	student, err := s.student(studentUserID)
	if err != nil {
		return nil, err
	}

	attempts, err := s.repo.ListAttemptsByStudent(student.ID.String())
	if err != nil {
		log.WithError(err).Error("Failed to list attempt history")
		return nil, err
	}

	now := s.now()
	exams := make(map[string]*Exam)
	results := make([]*Result, 0, len(attempts))
	for _, a := range attempts {
		e, ok := exams[a.ExamID.String()]
		if !ok {
			e, err = s.repo.GetExamByID(a.ExamID.String())
			if err != nil {
				return nil, err
			}
			if e == nil {
				continue
			}
			exams[a.ExamID.String()] = e
		}
		results = append(results, BuildResult(e, a, a.Answers, now))
	}
	return results, nil
}

// Helpers

func (s *examService) ownedExam(facultyUserID, examID string) (*Exam, error) {
	e, err := s.repo.GetExamByID(examID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrExamNotFound
	}
	if e.CreatedByID.String() != facultyUserID {
		return nil, ErrNotOwner
	}
	return e, nil
}

func (s *examService) student(studentUserID string) (*user.Student, error) {
	student, err := s.userRepo.GetStudentByUserID(studentUserID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}
	return student, nil
}

func (s *examService) studentAttempt(studentUserID, examID string) (*Exam, *Attempt, error) {
	student, err := s.student(studentUserID)
	if err != nil {
		return nil, nil, err
	}

	e, err := s.repo.GetExamByID(examID)
	if err != nil {
		return nil, nil, err
	}
	if e == nil {
		return nil, nil, ErrExamNotFound
	}

	attempt, err := s.repo.GetAttempt(examID, student.ID.String())
	if err != nil {
		return nil, nil, err
	}
	if attempt == nil {
		return nil, nil, ErrAttemptNotFound
	}
	return e, attempt, nil
}

func (s *examService) attachStudent(ctx context.Context, res *Result, studentID string) {
	student, err := s.userRepo.GetStudentByID(studentID)
	if err != nil || student == nil {
		config.WithContext(ctx).Warnf("Could not resolve student %s for result", studentID)
		return
	}
	res.StudentName = student.User.Name
	res.StudentEmail = student.User.Email
}

func (s *examService) toResponse(e *Exam, withQuestions bool) *ExamResponse {
	resp := &ExamResponse{
		ID:                        e.ID,
		Title:                     e.Title,
		Description:               e.Description,
		DurationMinutes:           e.DurationMinutes,
		StartTime:                 util.LocalDateTime{Time: e.StartTime},
		EndTime:                   util.LocalDateTime{Time: e.EndTime},
		TotalMarks:                e.TotalMarks,
		NegativeMarking:           e.NegativeMarking,
		NegativeMarkingPercentage: e.NegativeMarkingPercentage,
		IsActive:                  e.IsActive,
		AssignedClass:             e.AssignedClass,
		Status:                    StatusAt(e, s.now()),
		QuestionCount:             len(e.Questions),
	}
	if withQuestions {
		resp.Questions = make([]QuestionResponse, 0, len(e.Questions))
		for _, q := range e.Questions {
			resp.Questions = append(resp.Questions, QuestionResponse{
				ID:            q.ID,
				QuestionText:  q.QuestionText,
				OptionA:       q.OptionA,
				OptionB:       q.OptionB,
				OptionC:       q.OptionC,
				OptionD:       q.OptionD,
				CorrectAnswer: q.CorrectAnswer,
				Marks:         q.Marks,
				Difficulty:    q.Difficulty,
				Topic:         q.Topic,
			})
		}
	}
	return resp
}

func sanitizeQuestions(resp *ExamResponse) {
	for i := range resp.Questions {
		resp.Questions[i].CorrectAnswer = ""
	}
}
