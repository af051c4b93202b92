package httpd

import (
	"net/http"

	"github.com/Min-Trees/abc-interview-microservice/internal/models"
)

func (h *Handler) CheckSimilarity(w http.ResponseWriter, r *http.Request) {
	var req models.SimilarityRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := h.textService.CheckSimilarity(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) AnalyzeText(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeTextRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := h.textService.AnalyzeText(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
