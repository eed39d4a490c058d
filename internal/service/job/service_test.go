package job

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servicepro/fieldsync-go/internal/domain/job"
)

type fakeJobRepo struct {
	jobs map[string]job.Job
}

func (f *fakeJobRepo) GetByID(ctx context.Context, id string) (job.Job, error) {
	if j, ok := f.jobs[id]; ok {
		return j, nil
	}
	return job.Job{}, job.ErrJobNotFound
}

func (f *fakeJobRepo) List(ctx context.Context, filter job.ListJobsFilter) ([]job.Job, int64, error) {
	var out []job.Job
	for _, j := range f.jobs {
		if filter.Technician != nil && j.AssignedTechnician != *filter.Technician {
			continue
		}
		out = append(out, j)
	}
	return out, int64(len(out)), nil
}

func (f *fakeJobRepo) UpdateFields(ctx context.Context, id string, fields map[string]any, expectedVersion int64) (job.Job, error) {
	j, ok := f.jobs[id]
	if !ok {
		return job.Job{}, job.ErrJobNotFound
	}
	if expectedVersion > 0 && j.Version != expectedVersion {
		return job.Job{}, job.ErrStaleVersion
	}
	if status, has := fields["status"].(string); has {
		j.Status = status
	}
	if notes, has := fields["notes"].(string); has {
		j.Notes = &notes
	}
	j.Version++
	f.jobs[id] = j
	return j, nil
}

func testRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: map[string]job.Job{
		"job-1": {
			ID:                 "job-1",
			Title:              "Water heater install",
			Status:             job.StatusScheduled,
			AssignedTechnician: "tech-1",
			Version:            3,
		},
	}}
}

func TestUpdateJobAppliesPatch(t *testing.T) {
	ctx := context.Background()
	svc := NewJobService(testRepo())

	resp, err := svc.UpdateJob(ctx, "job-1", "tech-1", job.UpdateJobRequest{
		Fields: map[string]any{"status": job.StatusEnRoute, "notes": "on my way"},
	})
	require.NoError(t, err)
	assert.Equal(t, job.StatusEnRoute, resp.Status)
	require.NotNil(t, resp.Notes)
	assert.Equal(t, "on my way", *resp.Notes)
	assert.Equal(t, int64(4), resp.Version, "version bumps on update")
}

func TestUpdateJobRejectsInvalidTransition(t *testing.T) {
	ctx := context.Background()
	svc := NewJobService(testRepo())

	_, err := svc.UpdateJob(ctx, "job-1", "tech-1", job.UpdateJobRequest{
		Fields: map[string]any{"status": job.StatusCompleted}, // scheduled -> completed skips in_progress
	})
	require.ErrorIs(t, err, job.ErrInvalidTransition)
}

func TestUpdateJobRejectsNonWhitelistedField(t *testing.T) {
	ctx := context.Background()
	svc := NewJobService(testRepo())

	_, err := svc.UpdateJob(ctx, "job-1", "tech-1", job.UpdateJobRequest{
		Fields: map[string]any{"site_latitude": 1.0},
	})
	require.Error(t, err)
}

func TestUpdateJobRejectsUnassignedTechnician(t *testing.T) {
	ctx := context.Background()
	svc := NewJobService(testRepo())

	_, err := svc.UpdateJob(ctx, "job-1", "tech-9", job.UpdateJobRequest{
		Fields: map[string]any{"status": job.StatusEnRoute},
	})
	require.ErrorIs(t, err, job.ErrNotAssigned)
}

func TestUpdateJobStaleVersion(t *testing.T) {
	ctx := context.Background()
	svc := NewJobService(testRepo())

	_, err := svc.UpdateJob(ctx, "job-1", "tech-1", job.UpdateJobRequest{
		Fields:          map[string]any{"status": job.StatusEnRoute},
		ExpectedVersion: 2, // repo holds version 3
	})
	require.ErrorIs(t, err, job.ErrStaleVersion)
}

func TestListJobsFiltersByTechnician(t *testing.T) {
	ctx := context.Background()
	repo := testRepo()
	repo.jobs["job-2"] = job.Job{ID: "job-2", Status: job.StatusScheduled, AssignedTechnician: "tech-2"}
	svc := NewJobService(repo)

	tech := "tech-1"
	resp, err := svc.ListJobs(ctx, job.ListJobsFilter{Technician: &tech})
	require.NoError(t, err)
	require.Len(t, resp.Jobs, 1)
	assert.Equal(t, "job-1", resp.Jobs[0].ID)
}

func TestValidTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{job.StatusScheduled, job.StatusEnRoute, true},
		{job.StatusScheduled, job.StatusInProgress, true},
		{job.StatusEnRoute, job.StatusInProgress, true},
		{job.StatusInProgress, job.StatusCompleted, true},
		{job.StatusScheduled, job.StatusCompleted, false},
		{job.StatusCompleted, job.StatusInProgress, false},
		{job.StatusCancelled, job.StatusScheduled, false},
		{job.StatusInProgress, job.StatusInProgress, true},
		{job.StatusEnRoute, job.StatusCancelled, true},
	}
	for _, c := range cases {
		if got := job.ValidTransition(c.from, c.to); got != c.want {
			t.Errorf("ValidTransition(%q, %q) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}
