package exam

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestScoreAnswer(t *testing.T) {
	q := &Question{CorrectAnswer: "B", Marks: 5}

	tests := []struct {
		name        string
		selected    string
		negative    bool
		negativePct float64
		wantCorrect bool
		wantMarks   int
	}{
		{name: "correct", selected: "B", wantCorrect: true, wantMarks: 5},
		{name: "correct lowercase", selected: "b", wantCorrect: true, wantMarks: 5},
		{name: "correct padded", selected: " B ", wantCorrect: true, wantMarks: 5},
		{name: "wrong no negative", selected: "A", wantCorrect: false, wantMarks: 0},
		{name: "wrong negative 50pct truncates toward zero", selected: "A", negative: true, negativePct: 50, wantCorrect: false, wantMarks: -2},
		{name: "wrong negative 100pct", selected: "C", negative: true, negativePct: 100, wantCorrect: false, wantMarks: -5},
		{name: "wrong negative 0pct", selected: "D", negative: true, negativePct: 0, wantCorrect: false, wantMarks: 0},
		{name: "wrong negative 25pct on 3 marks", selected: "A", negative: true, negativePct: 25, wantCorrect: false, wantMarks: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			question := q
			if tc.name == "wrong negative 25pct on 3 marks" {
				question = &Question{CorrectAnswer: "B", Marks: 3}
			}
			isCorrect, marks := ScoreAnswer(question, tc.selected, tc.negative, tc.negativePct)
			if isCorrect != tc.wantCorrect {
				t.Errorf("isCorrect = %v, want %v", isCorrect, tc.wantCorrect)
			}
			if marks != tc.wantMarks {
				t.Errorf("marksObtained = %d, want %d", marks, tc.wantMarks)
			}
		})
	}
}

func TestGradeBoundaries(t *testing.T) {
	tests := []struct {
		percentage float64
		wantGrade  string
		wantPassed bool
	}{
		{90.0, "A+", true},
		{89.99, "A", true},
		{80.0, "A", true},
		{79.99, "B+", true},
		{70.0, "B+", true},
		{60.0, "B", true},
		{50.0, "C+", true},
		{40.0, "C", true},
		{39.99, "D", false},
		{30.0, "D", false},
		{29.99, "F", false},
		{0.0, "F", false},
		{-10.0, "F", false},
		{100.0, "A+", true},
	}

	for _, tc := range tests {
		grade := GradeFor(tc.percentage)
		if grade != tc.wantGrade {
			t.Errorf("GradeFor(%v) = %q, want %q", tc.percentage, grade, tc.wantGrade)
		}
		if Passed(tc.percentage) != tc.wantPassed {
			t.Errorf("Passed(%v) = %v, want %v", tc.percentage, !tc.wantPassed, tc.wantPassed)
		}
	}
}

func TestStatusAt(t *testing.T) {
	now := time.Date(2025, 8, 6, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		start  time.Time
		end    time.Time
		active bool
		want   ExamStatus
	}{
		{name: "upcoming", start: now.Add(time.Hour), end: now.Add(2 * time.Hour), active: true, want: ExamUpcoming},
		{name: "active inside window", start: now.Add(-time.Hour), end: now.Add(time.Hour), active: true, want: ExamActive},
		{name: "active at window start", start: now, end: now.Add(time.Hour), active: true, want: ExamActive},
		{name: "active at window end", start: now.Add(-time.Hour), end: now, active: true, want: ExamActive},
		{name: "window closed", start: now.Add(-2 * time.Hour), end: now.Add(-time.Hour), active: true, want: ExamCompleted},
		{name: "window closed but still flagged active", start: now.Add(-2 * time.Hour), end: now.Add(-time.Hour), active: true, want: ExamCompleted},
		{name: "inactive inside window", start: now.Add(-time.Hour), end: now.Add(time.Hour), active: false, want: ExamCompleted},
		{name: "inactive upcoming", start: now.Add(time.Hour), end: now.Add(2 * time.Hour), active: false, want: ExamCompleted},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := &Exam{StartTime: tc.start, EndTime: tc.end, IsActive: tc.active}
			if got := StatusAt(e, now); got != tc.want {
				t.Errorf("StatusAt = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestStartable(t *testing.T) {
	now := time.Date(2025, 8, 6, 12, 0, 0, 0, time.UTC)

	inWindow := &Exam{StartTime: now.Add(-time.Hour), EndTime: now.Add(time.Hour), IsActive: true}
	if !Startable(inWindow, now) {
		t.Error("exam inside window with active flag should be startable")
	}

	flagged := &Exam{StartTime: now.Add(-2 * time.Hour), EndTime: now.Add(-time.Hour), IsActive: true}
	if Startable(flagged, now) {
		t.Error("exam outside window must not be startable even when flagged active")
	}

	hidden := &Exam{StartTime: now.Add(-time.Hour), EndTime: now.Add(time.Hour), IsActive: false}
	if Startable(hidden, now) {
		t.Error("deactivated exam must not be startable even inside window")
	}
}

func TestNormalizeOption(t *testing.T) {
	valid := map[string]string{"a": "A", "B": "B", " c ": "C", "d": "D"}
	for in, want := range valid {
		got, ok := NormalizeOption(in)
		if !ok || got != want {
			t.Errorf("NormalizeOption(%q) = %q, %v; want %q, true", in, got, ok, want)
		}
	}

	for _, in := range []string{"", "E", "AB", "1", "true"} {
		if _, ok := NormalizeOption(in); ok {
			t.Errorf("NormalizeOption(%q) should be rejected", in)
		}
	}
}

func TestPercentageOf(t *testing.T) {
	if got := PercentageOf(3, 10); got != 30.0 {
		t.Errorf("PercentageOf(3, 10) = %v, want 30.0", got)
	}
	if got := PercentageOf(5, 0); got != 0.0 {
		t.Errorf("PercentageOf(5, 0) = %v, want 0.0", got)
	}
	if got := PercentageOf(-2, 10); got != -20.0 {
		t.Errorf("PercentageOf(-2, 10) = %v, want -20.0", got)
	}
}

func negativeMarkingScenario() (*Exam, *Attempt, []Answer) {
	q1 := Question{ID: uuid.New(), Marks: 5, CorrectAnswer: "A", Topic: "Algebra", Difficulty: DifficultyEasy}
	q2 := Question{ID: uuid.New(), Marks: 5, CorrectAnswer: "B", Topic: "Geometry", Difficulty: DifficultyHard}

	e := &Exam{
		ID:                        uuid.New(),
		Title:                     "Maths Unit Test",
		DurationMinutes:           30,
		TotalMarks:                10,
		NegativeMarking:           true,
		NegativeMarkingPercentage: 50,
		Questions:                 []Question{q1, q2},
	}

	start := time.Date(2025, 8, 6, 10, 0, 0, 0, time.UTC)
	end := start.Add(20 * time.Minute)
	a := &Attempt{
		ID:                uuid.New(),
		ExamID:            e.ID,
		StartTime:         start,
		EndTime:           &end,
		Status:            AttemptCompleted,
		TotalQuestions:    2,
		AnsweredQuestions: 2,
		CorrectAnswers:    1,
		IncorrectAnswers:  1,
		TotalMarks:        10,
		ObtainedMarks:     3,
		Percentage:        30.0,
	}

	answers := []Answer{
		{QuestionID: q1.ID, SelectedAnswer: "A", IsCorrect: true, MarksObtained: 5},
		{QuestionID: q2.ID, SelectedAnswer: "C", IsCorrect: false, MarksObtained: -2},
	}
	return e, a, answers
}

func TestBuildResult_NegativeMarkingScenario(t *testing.T) {
	e, a, answers := negativeMarkingScenario()
	now := time.Date(2025, 8, 6, 11, 0, 0, 0, time.UTC)

	res := BuildResult(e, a, answers, now)

	if res.ObtainedMarks != 3 {
		t.Errorf("ObtainedMarks = %d, want 3", res.ObtainedMarks)
	}
	if res.Percentage != 30.0 {
		t.Errorf("Percentage = %v, want 30.0", res.Percentage)
	}
	if res.Grade != "D" {
		t.Errorf("Grade = %q, want D", res.Grade)
	}
	if res.Passed {
		t.Error("Passed = true, want false")
	}
	if res.AnsweredQuestions+res.UnansweredQuestions != res.TotalQuestions {
		t.Error("answered + unanswered must equal total questions")
	}
	if res.CorrectAnswers+res.IncorrectAnswers != res.AnsweredQuestions {
		t.Error("correct + incorrect must equal answered")
	}
	if res.TopicPerformance["Algebra"] != 1 || res.TopicPerformance["Geometry"] != 0 {
		t.Errorf("TopicPerformance = %v", res.TopicPerformance)
	}
	if res.DifficultyPerformance[DifficultyEasy] != 1 || res.DifficultyPerformance[DifficultyHard] != 0 {
		t.Errorf("DifficultyPerformance = %v", res.DifficultyPerformance)
	}
	want := map[string]int{"Correct": 1, "Incorrect": 1, "Unanswered": 0}
	if !reflect.DeepEqual(res.AnswerDistribution, want) {
		t.Errorf("AnswerDistribution = %v, want %v", res.AnswerDistribution, want)
	}
}

func TestBuildResult_Idempotent(t *testing.T) {
	e, a, answers := negativeMarkingScenario()
	now := time.Date(2025, 8, 6, 11, 0, 0, 0, time.UTC)

	first := BuildResult(e, a, answers, now)
	second := BuildResult(e, a, answers, now)

	if !reflect.DeepEqual(first, second) {
		t.Error("scoring the same attempt twice must yield identical results")
	}
}

func TestBuildResult_TimeoutDerivation(t *testing.T) {
	e, a, _ := negativeMarkingScenario()
	a.Status = AttemptInProgress
	a.EndTime = nil

	beforeDeadline := a.StartTime.Add(10 * time.Minute)
	if res := BuildResult(e, a, nil, beforeDeadline); res.Status != AttemptInProgress {
		t.Errorf("Status before deadline = %s, want IN_PROGRESS", res.Status)
	}

	afterDeadline := a.StartTime.Add(time.Duration(e.DurationMinutes)*time.Minute + time.Second)
	if res := BuildResult(e, a, nil, afterDeadline); res.Status != AttemptTimeout {
		t.Errorf("Status after deadline = %s, want TIMEOUT", res.Status)
	}

	if a.Status != AttemptInProgress {
		t.Error("BuildResult must not mutate the stored attempt")
	}
}

func TestScoringWithoutNegativeMarking_NeverNegative(t *testing.T) {
	questions := []Question{
		{CorrectAnswer: "A", Marks: 5},
		{CorrectAnswer: "B", Marks: 3},
		{CorrectAnswer: "C", Marks: 10},
	}

	var answers []Answer
	for i := range questions {
		// Every answer wrong.
		isCorrect, marks := ScoreAnswer(&questions[i], "D", false, 0)
		if isCorrect {
			t.Fatal("wrong answer scored correct")
		}
		answers = append(answers, Answer{IsCorrect: isCorrect, MarksObtained: marks})
	}

	_, _, _, obtained := Summarize(answers)
	if obtained < 0 {
		t.Errorf("obtained = %d, must never be negative without negative marking", obtained)
	}
}

func TestSummarize(t *testing.T) {
	answers := []Answer{
		{IsCorrect: true, MarksObtained: 5},
		{IsCorrect: false, MarksObtained: -2},
		{IsCorrect: true, MarksObtained: 3},
	}

	answered, correct, incorrect, obtained := Summarize(answers)
	if answered != 3 || correct != 2 || incorrect != 1 || obtained != 6 {
		t.Errorf("Summarize = (%d, %d, %d, %d), want (3, 2, 1, 6)", answered, correct, incorrect, obtained)
	}
}
