package aiquestion

import (
	"encoding/json"
	"net/http"

	"github.com/epathshala/exam-api/internal/config"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) GenerateDrafts(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var req DraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Topic == "" {
		http.Error(w, "topic is required", http.StatusBadRequest)
		return
	}

	drafts, err := h.service.GenerateDrafts(r.Context(), req)
	if err != nil {
		log.WithError(err).Error("Failed to generate question drafts")
		http.Error(w, "failed to generate questions", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusCreated, DraftResponse{Questions: drafts})
}
