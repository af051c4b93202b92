package httpd

import (
	"net/http"

	"github.com/Min-Trees/abc-interview-microservice/internal/models"
)

func (h *Handler) GradeEssay(w http.ResponseWriter, r *http.Request) {
	var req models.GradingRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := h.gradingService.HandleGradeEssay(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) EvaluateAnswer(w http.ResponseWriter, r *http.Request) {
	var req models.EvaluateAnswerRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := h.gradingService.EvaluateAnswer(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) ValidateAnswer(w http.ResponseWriter, r *http.Request) {
	var req models.ValidateAnswerRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := h.gradingService.ValidateAnswer(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) CheckPlagiarism(w http.ResponseWriter, r *http.Request) {
	var req models.PlagiarismRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := h.gradingService.CheckPlagiarism(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
