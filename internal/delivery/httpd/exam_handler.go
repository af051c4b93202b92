package httpd

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Min-Trees/abc-interview-microservice/internal/models"
)

func (h *Handler) GradeExamAnswer(w http.ResponseWriter, r *http.Request) {
	examID, err := pathInt64(r, "exam_id")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	questionID, err := pathInt64(r, "question_id")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	var req models.ExamGradingRequest
	if !decode(w, r, &req) {
		return
	}

	record, err := h.examService.HandleGradeExamAnswer(r.Context(), examID, questionID, req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// GradeAllExamAnswers takes no body.
func (h *Handler) GradeAllExamAnswers(w http.ResponseWriter, r *http.Request) {
	examID, err := pathInt64(r, "exam_id")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	// the server write timeout is sized for single requests
	if h.timeouts.Batch > 0 {
		if err := http.NewResponseController(w).SetWriteDeadline(time.Now().Add(h.timeouts.Batch)); err != nil {
			zerolog.Ctx(r.Context()).Debug().Err(err).Msg("Cannot extend write deadline")
		}
	}

	writeJSON(w, http.StatusOK, h.examService.BatchGradeExam(r.Context(), examID))
}
