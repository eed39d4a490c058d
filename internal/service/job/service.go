package job

import (
	"context"
	"fmt"
	"time"

	"github.com/servicepro/fieldsync-go/internal/domain/job"
)

type JobServiceImpl struct {
	jobRepo job.JobRepository
}

func NewJobService(jobRepo job.JobRepository) job.JobService {
	return &JobServiceImpl{jobRepo: jobRepo}
}

func toResponse(j job.Job) job.JobResponse {
	return job.JobResponse{
		ID:                  j.ID,
		Title:               j.Title,
		Description:         j.Description,
		Status:              j.Status,
		CustomerName:        j.CustomerName,
		SiteLatitude:        j.SiteLatitude,
		SiteLongitude:       j.SiteLongitude,
		CheckInRadiusMeters: j.CheckInRadiusMeters,
		AssignedTechnician:  j.AssignedTechnician,
		ScheduledAt:         j.ScheduledAt.Format(time.RFC3339),
		Notes:               j.Notes,
		Version:             j.Version,
		CreatedAt:           j.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           j.UpdatedAt.Format(time.RFC3339),
	}
}

// GetJob implements job.JobService.
func (s *JobServiceImpl) GetJob(ctx context.Context, id string) (job.JobResponse, error) {
	j, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return job.JobResponse{}, err
	}
	return toResponse(j), nil
}

// ListJobs implements job.JobService.
func (s *JobServiceImpl) ListJobs(ctx context.Context, filter job.ListJobsFilter) (job.ListJobsResponse, error) {
	if err := filter.Validate(); err != nil {
		return job.ListJobsResponse{}, err
	}

	jobs, total, err := s.jobRepo.List(ctx, filter)
	if err != nil {
		return job.ListJobsResponse{}, fmt.Errorf("failed to list jobs: %w", err)
	}

	resp := job.ListJobsResponse{
		Jobs:       make([]job.JobResponse, 0, len(jobs)),
		TotalItems: total,
	}
	for _, j := range jobs {
		resp.Jobs = append(resp.Jobs, toResponse(j))
	}
	return resp, nil
}

// UpdateJob implements job.JobService.
func (s *JobServiceImpl) UpdateJob(ctx context.Context, id string, technicianID string, req job.UpdateJobRequest) (job.JobResponse, error) {
	if err := req.Validate(); err != nil {
		return job.JobResponse{}, err
	}

	current, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return job.JobResponse{}, err
	}
	if current.AssignedTechnician != technicianID {
		return job.JobResponse{}, job.ErrNotAssigned
	}

	if status, ok := req.Fields["status"].(string); ok {
		if !job.ValidTransition(current.Status, status) {
			return job.JobResponse{}, fmt.Errorf("%w: %s -> %s", job.ErrInvalidTransition, current.Status, status)
		}
	}

	updated, err := s.jobRepo.UpdateFields(ctx, id, req.Fields, req.ExpectedVersion)
	if err != nil {
		return job.JobResponse{}, err
	}
	return toResponse(updated), nil
}
