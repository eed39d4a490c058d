package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/servicepro/fieldsync-go/internal/domain/job"
	"github.com/servicepro/fieldsync-go/internal/pkg/database"
)

type jobRepository struct {
	db *database.DB
}

func NewJobRepository(db *database.DB) job.JobRepository {
	return &jobRepository{db: db}
}

const jobColumns = `
	id, title, description, status, customer_name,
	site_latitude, site_longitude, check_in_radius_meters,
	assigned_technician, scheduled_at, notes, version,
	created_at, updated_at
`

func scanJob(row pgx.Row) (job.Job, error) {
	var j job.Job
	err := row.Scan(
		&j.ID, &j.Title, &j.Description, &j.Status, &j.CustomerName,
		&j.SiteLatitude, &j.SiteLongitude, &j.CheckInRadiusMeters,
		&j.AssignedTechnician, &j.ScheduledAt, &j.Notes, &j.Version,
		&j.CreatedAt, &j.UpdatedAt,
	)
	return j, err
}

// GetByID implements job.JobRepository.
func (r *jobRepository) GetByID(ctx context.Context, id string) (job.Job, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	j, err := scanJob(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return job.Job{}, job.ErrJobNotFound
		}
		return job.Job{}, fmt.Errorf("failed to get job: %w", err)
	}
	return j, nil
}

// List implements job.JobRepository.
func (r *jobRepository) List(ctx context.Context, filter job.ListJobsFilter) ([]job.Job, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if filter.Technician != nil {
		conditions = append(conditions, fmt.Sprintf("assigned_technician = $%d", argPos))
		args = append(args, *filter.Technician)
		argPos++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *filter.Status)
		argPos++
	}
	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM jobs WHERE ` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count jobs: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM jobs WHERE %s ORDER BY scheduled_at LIMIT $%d OFFSET $%d`,
		jobColumns, where, argPos, argPos+1,
	)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []job.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, total, rows.Err()
}

// UpdateFields implements job.JobRepository.
func (r *jobRepository) UpdateFields(ctx context.Context, id string, fields map[string]any, expectedVersion int64) (job.Job, error) {
	q := GetQuerier(ctx, r.db)

	sets := []string{"version = version + 1", "updated_at = NOW()"}
	args := []interface{}{}
	argPos := 1

	for _, name := range job.UpdatableFields {
		if value, ok := fields[name]; ok {
			sets = append(sets, fmt.Sprintf("%s = $%d", name, argPos))
			args = append(args, value)
			argPos++
		}
	}
	if argPos == 1 {
		return job.Job{}, job.ErrFieldNotAllowed
	}

	conditions := fmt.Sprintf("id = $%d", argPos)
	args = append(args, id)
	argPos++
	if expectedVersion > 0 {
		conditions += fmt.Sprintf(" AND version = $%d", argPos)
		args = append(args, expectedVersion)
	}

	query := fmt.Sprintf(
		`UPDATE jobs SET %s WHERE %s RETURNING %s`,
		strings.Join(sets, ", "), conditions, jobColumns,
	)

	j, err := scanJob(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Distinguish a missing job from a lost version race.
			if _, getErr := r.GetByID(ctx, id); getErr == nil {
				return job.Job{}, job.ErrStaleVersion
			}
			return job.Job{}, job.ErrJobNotFound
		}
		return job.Job{}, fmt.Errorf("failed to update job: %w", err)
	}
	return j, nil
}
