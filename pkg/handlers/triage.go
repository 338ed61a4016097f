package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/havenlink/haven-engine/pkg/auth"
	"github.com/havenlink/haven-engine/pkg/logging"
	"github.com/havenlink/haven-engine/pkg/models"
	"github.com/havenlink/haven-engine/pkg/services"
)

// ClassifyRequest carries the victim's free-text situation description.
type ClassifyRequest struct {
	Text string `json:"text"`
}

// ClassifyResponse is the triage recommendation. The recommendation is
// advisory; the victim chooses the category at allocation time.
type ClassifyResponse struct {
	RecommendedCategory models.Category      `json:"recommendedCategory"`
	Rationale           string               `json:"rationale"`
	ScoreBreakdown      models.ScoreBreakdown `json:"scoreBreakdown"`
}

// TriageHandler handles intake triage endpoints.
type TriageHandler struct {
	classifier services.Classifier
	middleware *auth.Middleware
	logger     *zap.Logger
}

// NewTriageHandler creates a new TriageHandler.
func NewTriageHandler(classifier services.Classifier, middleware *auth.Middleware, logger *zap.Logger) *TriageHandler {
	return &TriageHandler{
		classifier: classifier,
		middleware: middleware,
		logger:     logger,
	}
}

// RegisterRoutes registers the triage handler's routes on the given mux.
func (h *TriageHandler) RegisterRoutes(mux *http.ServeMux) {
	victim := h.middleware.RequireRole(models.RoleVictim)
	mux.HandleFunc("POST /api/triage/classify", victim(h.Classify))
}

// Classify handles POST /api/triage/classify requests.
// It recommends a professional category for the described situation.
func (h *TriageHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_input", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	result, err := h.classifier.Classify(r.Context(), req.Text)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	h.logger.Debug("Classified intake",
		zap.String("caller_id", auth.GetCallerIDFromContext(r.Context())),
		zap.String("category", string(result.RecommendedCategory)),
		zap.String("text", logging.SanitizeIntake(req.Text)))

	response := ClassifyResponse{
		RecommendedCategory: result.RecommendedCategory,
		Rationale:           result.Rationale,
		ScoreBreakdown:      result.ScoreBreakdown,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode classify response", zap.Error(err))
	}
}
