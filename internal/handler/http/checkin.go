package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/servicepro/fieldsync-go/internal/domain/checkin"
	"github.com/servicepro/fieldsync-go/internal/handler/http/middleware"
	"github.com/servicepro/fieldsync-go/internal/handler/http/response"
)

type CheckInHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	ListByJob(w http.ResponseWriter, r *http.Request)
}

type checkInHandlerImpl struct {
	checkInService checkin.CheckInService
}

func NewCheckInHandler(checkInService checkin.CheckInService) CheckInHandler {
	return &checkInHandlerImpl{checkInService: checkInService}
}

// Submit implements CheckInHandler. Idempotent: re-delivering a stored
// entry returns the existing record with 200 instead of 201.
func (h *checkInHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "missing identity")
		return
	}

	var req checkin.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("failed to decode check-in request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.checkInService.Submit(r.Context(), identity.TechnicianID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if result.Duplicate {
		response.Success(w, result)
		return
	}
	response.Created(w, "Location event recorded", result)
}

// ListByJob implements CheckInHandler.
func (h *checkInHandlerImpl) ListByJob(w http.ResponseWriter, r *http.Request) {
	filter := checkin.ListByJobFilter{JobID: chi.URLParam(r, "id")}
	if page := r.URL.Query().Get("page"); page != "" {
		filter.Page, _ = strconv.Atoi(page)
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		filter.Limit, _ = strconv.Atoi(limit)
	}

	result, err := h.checkInService.ListByJob(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.CheckIns, &response.Meta{
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalItems: result.TotalItems,
	})
}
