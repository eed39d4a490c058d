package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/servicepro/fieldsync-go/internal/domain/job"
	"github.com/servicepro/fieldsync-go/internal/handler/http/middleware"
	"github.com/servicepro/fieldsync-go/internal/handler/http/response"
)

type JobHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
}

type jobHandlerImpl struct {
	jobService job.JobService
}

func NewJobHandler(jobService job.JobService) JobHandler {
	return &jobHandlerImpl{jobService: jobService}
}

// List implements JobHandler. Technicians see their own jobs; the
// filter defaults to the caller.
func (h *jobHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "missing identity")
		return
	}

	filter := job.ListJobsFilter{Technician: &identity.TechnicianID}
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = &status
	}
	if page := r.URL.Query().Get("page"); page != "" {
		filter.Page, _ = strconv.Atoi(page)
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		filter.Limit, _ = strconv.Atoi(limit)
	}

	result, err := h.jobService.ListJobs(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Jobs, &response.Meta{
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalItems: result.TotalItems,
	})
}

// Get implements JobHandler.
func (h *jobHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	result, err := h.jobService.GetJob(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Update implements JobHandler. Accepts a sparse field patch, the
// delivery target of an agent's optimistic update.
func (h *jobHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "missing identity")
		return
	}

	var req job.UpdateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("failed to decode update job request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	id := chi.URLParam(r, "id")
	result, err := h.jobService.UpdateJob(r.Context(), id, identity.TechnicianID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
