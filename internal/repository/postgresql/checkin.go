package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/servicepro/fieldsync-go/internal/domain/checkin"
	"github.com/servicepro/fieldsync-go/internal/pkg/database"
)

type checkInRepository struct {
	db *database.DB
}

func NewCheckInRepository(db *database.DB) checkin.CheckInRepository {
	return &checkInRepository{db: db}
}

const checkInColumns = `
	id, entry_id, job_id, technician_id, event,
	latitude, longitude, accuracy_meters, altitude, speed,
	distance_meters, quality, recorded_at, received_at
`

func scanCheckIn(row pgx.Row) (checkin.CheckIn, error) {
	var c checkin.CheckIn
	err := row.Scan(
		&c.ID, &c.EntryID, &c.JobID, &c.TechnicianID, &c.Event,
		&c.Latitude, &c.Longitude, &c.AccuracyMeters, &c.Altitude, &c.Speed,
		&c.DistanceMeters, &c.Quality, &c.RecordedAt, &c.ReceivedAt,
	)
	return c, err
}

// Create implements checkin.CheckInRepository.
func (r *checkInRepository) Create(ctx context.Context, c checkin.CheckIn) (checkin.CheckIn, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO check_ins (
			entry_id, job_id, technician_id, event,
			latitude, longitude, accuracy_meters, altitude, speed,
			distance_meters, quality, recorded_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		) RETURNING id, received_at
	`
	err := q.QueryRow(ctx, query,
		c.EntryID, c.JobID, c.TechnicianID, c.Event,
		c.Latitude, c.Longitude, c.AccuracyMeters, c.Altitude, c.Speed,
		c.DistanceMeters, c.Quality, c.RecordedAt,
	).Scan(&c.ID, &c.ReceivedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505: unique violation on entry_id. A concurrent duplicate
		// delivery won the race; return the stored row.
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			existing, getErr := r.GetByEntryID(ctx, c.EntryID)
			if getErr == nil && existing != nil {
				return *existing, nil
			}
		}
		return checkin.CheckIn{}, fmt.Errorf("failed to create check-in: %w", err)
	}
	return c, nil
}

// GetByEntryID implements checkin.CheckInRepository.
func (r *checkInRepository) GetByEntryID(ctx context.Context, entryID string) (*checkin.CheckIn, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + checkInColumns + ` FROM check_ins WHERE entry_id = $1`
	c, err := scanCheckIn(q.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get check-in by entry id: %w", err)
	}
	return &c, nil
}

// ListByJob implements checkin.CheckInRepository.
func (r *checkInRepository) ListByJob(ctx context.Context, filter checkin.ListByJobFilter) ([]checkin.CheckIn, int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM check_ins WHERE job_id = $1`, filter.JobID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count check-ins: %w", err)
	}

	query := `
		SELECT ` + checkInColumns + `
		FROM check_ins
		WHERE job_id = $1
		ORDER BY recorded_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := q.Query(ctx, query, filter.JobID, filter.Limit, (filter.Page-1)*filter.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list check-ins: %w", err)
	}
	defer rows.Close()

	var checkIns []checkin.CheckIn
	for rows.Next() {
		c, err := scanCheckIn(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan check-in: %w", err)
		}
		checkIns = append(checkIns, c)
	}
	return checkIns, total, rows.Err()
}
