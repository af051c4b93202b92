package httpd

import (
	"net/http"

	"github.com/Min-Trees/abc-interview-microservice/internal/models"
)

func (h *Handler) CheckQuestionSimilarity(w http.ResponseWriter, r *http.Request) {
	var req models.QuestionSimilarityRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := h.questionService.HandleCheckDuplicates(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetQuestionAnalytics(w http.ResponseWriter, r *http.Request) {
	questionID, err := pathInt64(r, "question_id")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, h.questionService.QuestionAnalytics(r.Context(), questionID))
}
