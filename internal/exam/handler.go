package exam

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/epathshala/exam-api/internal/auth"
	"github.com/epathshala/exam-api/internal/config"
)

type Handler struct {
	service ExamService
}

func NewHandler(s ExamService) *Handler {
	return &Handler{service: s}
}

func respondError(w http.ResponseWriter, r *http.Request, err error) {
	log := config.WithContext(r.Context())

	switch {
	case errors.Is(err, ErrValidation):
		errorJSON(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
	case errors.Is(err, ErrExamNotFound),
		errors.Is(err, ErrAttemptNotFound),
		errors.Is(err, ErrTeacherNotFound),
		errors.Is(err, ErrStudentNotFound):
		errorJSON(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrNotOwner):
		errorJSON(w, http.StatusForbidden, "NOT_OWNER", err.Error())
	case errors.Is(err, ErrAlreadyAttempted):
		// Distinguishable from a generic conflict so clients can render
		// "already attempted" instead of "error".
		errorJSON(w, http.StatusConflict, "ALREADY_ATTEMPTED", err.Error())
	case errors.Is(err, ErrExamNotStartable):
		errorJSON(w, http.StatusConflict, "EXAM_NOT_STARTABLE", err.Error())
	case errors.Is(err, ErrExamNotReady):
		errorJSON(w, http.StatusConflict, "EXAM_NOT_READY", err.Error())
	case errors.Is(err, ErrAttemptFinished),
		errors.Is(err, ErrExamHasAttempts),
		errors.Is(err, ErrQuestionsLocked):
		errorJSON(w, http.StatusConflict, "CONFLICT", err.Error())
	default:
		log.WithError(err).Error("Unhandled exam service error")
		errorJSON(w, http.StatusInternalServerError, "INTERNAL", "internal server error")
	}
}

func errorJSON(w http.ResponseWriter, status int, code, message string) {
	config.JSON(w, status, map[string]string{
		"code":    code,
		"message": message,
	})
}

func examIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		errorJSON(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid exam id")
		return "", false
	}
	return id, true
}

func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return claims.UserID, true
}

// Faculty handlers

func (h *Handler) CreateExam(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var dto CreateExamDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		errorJSON(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid request body")
		return
	}

	resp, err := h.service.CreateExam(r.Context(), userID, dto)
	if err != nil {
		respondError(w, r, err)
		return
	}
	config.JSON(w, http.StatusCreated, resp)
}

func (h *Handler) AddQuestions(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	examID, ok := examIDParam(w, r)
	if !ok {
		return
	}

	var dto AddQuestionsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		errorJSON(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid request body")
		return
	}

	resp, err := h.service.AddQuestions(r.Context(), userID, examID, dto)
	if err != nil {
		respondError(w, r, err)
		return
	}
	config.JSON(w, http.StatusCreated, resp)
}

func (h *Handler) ActivateExam(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	examID, ok := examIDParam(w, r)
	if !ok {
		return
	}

	resp, err := h.service.ActivateExam(r.Context(), userID, examID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) DeactivateExam(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	examID, ok := examIDParam(w, r)
	if !ok {
		return
	}

	resp, err := h.service.DeactivateExam(r.Context(), userID, examID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) DeleteExam(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	examID, ok := examIDParam(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteExam(r.Context(), userID, examID); err != nil {
		respondError(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, map[string]string{
		"message": "exam deleted successfully",
	})
}

func (h *Handler) ListMyExams(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	resp, err := h.service.ListExamsByFaculty(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) GetExam(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	examID, ok := examIDParam(w, r)
	if !ok {
		return
	}

	resp, err := h.service.GetExamForFaculty(r.Context(), userID, examID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) ListExamResults(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	examID, ok := examIDParam(w, r)
	if !ok {
		return
	}

	resp, err := h.service.ListExamResults(r.Context(), userID, examID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, resp)
}

// Student handlers

func (h *Handler) ListAvailableExams(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	resp, err := h.service.ListAvailableExams(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) StartAttempt(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	examID, ok := examIDParam(w, r)
	if !ok {
		return
	}

	resp, err := h.service.StartAttempt(r.Context(), userID, examID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	config.JSON(w, http.StatusCreated, resp)
}

func (h *Handler) GetExamQuestions(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	examID, ok := examIDParam(w, r)
	if !ok {
		return
	}

	resp, err := h.service.GetExamQuestions(r.Context(), userID, examID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) GetExamTimer(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	examID, ok := examIDParam(w, r)
	if !ok {
		return
	}

	resp, err := h.service.GetExamTimer(r.Context(), userID, examID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) SubmitAttempt(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	examID, ok := examIDParam(w, r)
	if !ok {
		return
	}

	var dto SubmitAttemptDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		errorJSON(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid request body")
		return
	}

	resp, err := h.service.SubmitAttempt(r.Context(), userID, examID, dto)
	if err != nil {
		respondError(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) GetExamResult(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	examID, ok := examIDParam(w, r)
	if !ok {
		return
	}

	resp, err := h.service.GetExamResult(r.Context(), userID, examID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) GetExamHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	resp, err := h.service.GetExamHistory(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, resp)
}
