package httpd

import (
	"net/http"

	"github.com/Min-Trees/abc-interview-microservice/internal/models"
)

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{
		Status:  "healthy",
		Service: serviceName,
		Version: h.version,
	})
}
