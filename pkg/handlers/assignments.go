package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/havenlink/haven-engine/pkg/auth"
	"github.com/havenlink/haven-engine/pkg/models"
	"github.com/havenlink/haven-engine/pkg/services"
)

// AllocateRequest asks for a professional in the given category.
type AllocateRequest struct {
	Category      string `json:"category"`
	IntakeSummary string `json:"intakeSummary"`
}

// AllocateResponse returns the victim's professional for the category.
// IsExisting is true when the pairing predates this request.
type AllocateResponse struct {
	Professional models.Professional `json:"professional"`
	Category     models.Category     `json:"category"`
	IsExisting   bool                `json:"isExisting"`
}

// TransferRequest hands a victim off to a professional in NewCategory.
type TransferRequest struct {
	VictimID    string `json:"victimId"`
	NewCategory string `json:"newCategory"`
	Reason      string `json:"reason"`
}

// TransferResponse returns the professional now handling the victim.
type TransferResponse struct {
	Professional models.Professional `json:"professional"`
	Category     models.Category     `json:"category"`
}

// AssignmentHandler handles allocation, caseload and transfer endpoints.
type AssignmentHandler struct {
	service    services.AssignmentService
	middleware *auth.Middleware
	logger     *zap.Logger
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(service services.AssignmentService, middleware *auth.Middleware, logger *zap.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		service:    service,
		middleware: middleware,
		logger:     logger,
	}
}

// RegisterRoutes registers the assignment handler's routes on the given mux.
func (h *AssignmentHandler) RegisterRoutes(mux *http.ServeMux) {
	victim := h.middleware.RequireRole(models.RoleVictim)
	professional := h.middleware.RequireRole(models.RoleCounsellor, models.RoleLegal)

	mux.HandleFunc("POST /api/assignments/allocate", victim(h.Allocate))
	mux.HandleFunc("GET /api/assignments/mine", victim(h.Mine))
	mux.HandleFunc("POST /api/assignments/contacted", victim(h.MarkContacted))
	mux.HandleFunc("GET /api/assignments/caseload", professional(h.Caseload))
	mux.HandleFunc("POST /api/assignments/transfer", professional(h.Transfer))
	mux.HandleFunc("GET /api/assignments/transfers/{victimId}", professional(h.TransferHistory))
}

// Allocate handles POST /api/assignments/allocate requests.
// Returns the victim's professional for the category, assigning one if
// none exists yet.
func (h *AssignmentHandler) Allocate(w http.ResponseWriter, r *http.Request) {
	victimID, err := auth.RequireCallerUUIDFromContext(r.Context())
	if err != nil {
		h.badCallerID(w, err)
		return
	}

	var req AllocateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_input", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	professional, isExisting, err := h.service.Allocate(r.Context(), victimID, models.Category(req.Category), req.IntakeSummary)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	response := AllocateResponse{
		Professional: *professional,
		Category:     professional.Category,
		IsExisting:   isExisting,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode allocate response", zap.Error(err))
	}
}

// Mine handles GET /api/assignments/mine requests.
// Returns all of the calling victim's assignments with professionals
// resolved.
func (h *AssignmentHandler) Mine(w http.ResponseWriter, r *http.Request) {
	victimID, err := auth.RequireCallerUUIDFromContext(r.Context())
	if err != nil {
		h.badCallerID(w, err)
		return
	}

	assignments, err := h.service.ListForVictim(r.Context(), victimID)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]interface{}{"assignments": assignments}); err != nil {
		h.logger.Error("Failed to encode assignments response", zap.Error(err))
	}
}

// MarkContacted handles POST /api/assignments/contacted requests.
// Clears the first-contact flag on the calling victim's assignments.
func (h *AssignmentHandler) MarkContacted(w http.ResponseWriter, r *http.Request) {
	victimID, err := auth.RequireCallerUUIDFromContext(r.Context())
	if err != nil {
		h.badCallerID(w, err)
		return
	}

	if err := h.service.MarkContacted(r.Context(), victimID); err != nil {
		serviceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]bool{"success": true}); err != nil {
		h.logger.Error("Failed to encode contacted response", zap.Error(err))
	}
}

// Caseload handles GET /api/assignments/caseload requests.
// Returns the calling professional's caseload with victims resolved.
func (h *AssignmentHandler) Caseload(w http.ResponseWriter, r *http.Request) {
	professionalID, err := auth.RequireCallerUUIDFromContext(r.Context())
	if err != nil {
		h.badCallerID(w, err)
		return
	}

	caseload, err := h.service.ListForProfessional(r.Context(), professionalID)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]interface{}{"caseload": caseload}); err != nil {
		h.logger.Error("Failed to encode caseload response", zap.Error(err))
	}
}

// Transfer handles POST /api/assignments/transfer requests.
// The calling professional must currently hold an assignment for the
// victim.
func (h *AssignmentHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	professionalID, err := auth.RequireCallerUUIDFromContext(r.Context())
	if err != nil {
		h.badCallerID(w, err)
		return
	}

	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_input", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	victimID, err := uuid.Parse(req.VictimID)
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_input", "victimId must be a UUID"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	professional, err := h.service.Transfer(r.Context(), victimID, professionalID, models.Category(req.NewCategory), req.Reason)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	response := TransferResponse{
		Professional: *professional,
		Category:     professional.Category,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode transfer response", zap.Error(err))
	}
}

// TransferHistory handles GET /api/assignments/transfers/{victimId}
// requests. Gated by the same ownership rule as Transfer.
func (h *AssignmentHandler) TransferHistory(w http.ResponseWriter, r *http.Request) {
	professionalID, err := auth.RequireCallerUUIDFromContext(r.Context())
	if err != nil {
		h.badCallerID(w, err)
		return
	}

	victimID, err := uuid.Parse(r.PathValue("victimId"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_input", "victimId must be a UUID"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	events, err := h.service.TransferHistory(r.Context(), victimID, professionalID)
	if err != nil {
		serviceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]interface{}{"transfers": events}); err != nil {
		h.logger.Error("Failed to encode transfer history response", zap.Error(err))
	}
}

// badCallerID responds 401 when the token subject is missing or not a
// UUID. The middleware has already validated the token, so this only
// fires on malformed subjects.
func (h *AssignmentHandler) badCallerID(w http.ResponseWriter, err error) {
	h.logger.Warn("Rejected request with invalid caller id", zap.Error(err))
	if err := ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Caller identity is missing or malformed"); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}
