package httpd

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/Min-Trees/abc-interview-microservice/internal/middleware"
	"github.com/Min-Trees/abc-interview-microservice/internal/service"
	"github.com/Min-Trees/abc-interview-microservice/pkg/utils"
)

const serviceName = "nlp-service"

// RouteTimeouts bounds handler contexts. Batch applies to whole-exam grading,
// Request to every other authenticated route. Zero disables the bound.
type RouteTimeouts struct {
	Request time.Duration
	Batch   time.Duration
}

type Handler struct {
	textService     service.TextService
	gradingService  service.GradingService
	examService     service.ExamService
	questionService service.QuestionService
	timeouts        RouteTimeouts
	version         string
	logger          zerolog.Logger
}

func NewHandler(
	textService service.TextService,
	gradingService service.GradingService,
	examService service.ExamService,
	questionService service.QuestionService,
	timeouts RouteTimeouts,
	version string,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		textService:     textService,
		gradingService:  gradingService,
		examService:     examService,
		questionService: questionService,
		timeouts:        timeouts,
		version:         version,
		logger:          logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.HealthCheck)

	router.Group(func(r chi.Router) {
		r.Use(middleware.BearerAuth)

		r.Group(func(r chi.Router) {
			withTimeout(r, h.timeouts.Request)

			r.Post("/similarity/check", h.CheckSimilarity)
			r.Post("/nlp/analyze", h.AnalyzeText)

			r.Post("/grading/essay", h.GradeEssay)
			r.Post("/grading/validate", h.ValidateAnswer)
			r.Post("/evaluate-answer", h.EvaluateAnswer)
			r.Post("/plagiarism/check", h.CheckPlagiarism)

			r.Post("/questions/similarity/check", h.CheckQuestionSimilarity)
			r.Get("/questions/{question_id}/analytics", h.GetQuestionAnalytics)

			r.Post("/exams/{exam_id}/questions/{question_id}/grade", h.GradeExamAnswer)
		})

		r.Group(func(r chi.Router) {
			withTimeout(r, h.timeouts.Batch)

			r.Post("/exams/{exam_id}/grade-all", h.GradeAllExamAnswers)
		})
	})
}

func withTimeout(r chi.Router, timeout time.Duration) {
	if timeout > 0 {
		r.Use(chimw.Timeout(timeout))
	}
}

func pathInt64(r *http.Request, key string) (int64, error) {
	value := chi.URLParam(r, key)
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, service.NewValidationError(key+" must be an integer", key)
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	_ = utils.WriteJSON(w, status, data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error":   http.StatusText(status),
		"message": message,
	})
}

// decode writes a 400 and returns false when the body is not a valid request.
func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := utils.ReadJSON(r, dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":   http.StatusText(http.StatusUnprocessableEntity),
			"message": verr.Message,
			"fields":  verr.Fields,
		})
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUpstreamUnavailable):
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Upstream service error")
		writeError(w, http.StatusBadGateway, "Upstream service unavailable")
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Request failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
