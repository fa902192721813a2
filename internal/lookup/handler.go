// internal/lookup/handler.go
package lookup

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"doctrack/internal/common/logger"
	"doctrack/internal/common/metrics"
)

type Handler struct {
	repo   *Repository
	logger logger.Logger
	now    func() time.Time
}

func NewHandler(repo *Repository, log logger.Logger) *Handler {
	return &Handler{repo: repo, logger: log, now: time.Now}
}

// Routes mounts the lookup endpoints on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/api/v1/lookup", h.handleLookup)
}

func (h *Handler) handleLookup(w http.ResponseWriter, r *http.Request) {
	formNumber := strings.TrimSpace(r.URL.Query().Get("id"))
	if formNumber == "" {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing id parameter"})
		return
	}

	docs, err := h.repo.FindByFormNumber(r.Context(), formNumber)
	if err != nil {
		h.logger.Error("lookup query failed", map[string]interface{}{
			"formNumber": formNumber,
			"error":      err.Error(),
		})
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "lookup temporarily unavailable"})
		return
	}

	result := Classify(formNumber, docs, h.now())
	metrics.LookupRequestsTotal.WithLabelValues(result.Result).Inc()

	status := http.StatusOK
	switch result.Result {
	case ResultMalformed:
		status = http.StatusBadRequest
	case ResultNotYetRegistered, ResultPresumedWithdrawn:
		status = http.StatusNotFound
	}
	h.writeJSON(w, status, result)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Warn("response write failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
