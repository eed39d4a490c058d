package checkin

import (
	"context"
	"fmt"
	"time"

	"github.com/servicepro/fieldsync-go/internal/domain/checkin"
	"github.com/servicepro/fieldsync-go/internal/domain/job"
	"github.com/servicepro/fieldsync-go/internal/pkg/geo"
	"github.com/servicepro/fieldsync-go/internal/pkg/observability"
	"github.com/servicepro/fieldsync-go/internal/pkg/sse"
)

// Transactor runs fn inside one storage transaction.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type CheckInServiceImpl struct {
	tx          Transactor
	checkInRepo checkin.CheckInRepository
	jobRepo     job.JobRepository
	hub         *sse.Hub
}

func NewCheckInService(tx Transactor, checkInRepo checkin.CheckInRepository, jobRepo job.JobRepository, hub *sse.Hub) checkin.CheckInService {
	return &CheckInServiceImpl{
		tx:          tx,
		checkInRepo: checkInRepo,
		jobRepo:     jobRepo,
		hub:         hub,
	}
}

func toResponse(c checkin.CheckIn, duplicate bool) checkin.CheckInResponse {
	return checkin.CheckInResponse{
		ID:             c.ID,
		EntryID:        c.EntryID,
		JobID:          c.JobID,
		TechnicianID:   c.TechnicianID,
		Event:          c.Event,
		Latitude:       c.Latitude,
		Longitude:      c.Longitude,
		AccuracyMeters: c.AccuracyMeters,
		DistanceMeters: c.DistanceMeters,
		Quality:        c.Quality,
		RecordedAt:     c.RecordedAt.Format(time.RFC3339),
		ReceivedAt:     c.ReceivedAt.Format(time.RFC3339),
		Duplicate:      duplicate,
	}
}

// Submit implements checkin.CheckInService.
func (s *CheckInServiceImpl) Submit(ctx context.Context, technicianID string, req checkin.SubmitRequest) (checkin.CheckInResponse, error) {
	if err := req.Validate(); err != nil {
		return checkin.CheckInResponse{}, err
	}

	// Dedupe check and insert run in one transaction so a re-delivery
	// racing the first cannot observe a half-ingested entry. The
	// unique index on entry_id still backstops concurrent writers.
	var created checkin.CheckIn
	var duplicate bool
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		// Agent queues deliver at least once; collapse duplicates on
		// the client entry id rather than storing the event twice.
		existing, err := s.checkInRepo.GetByEntryID(ctx, req.EntryID)
		if err != nil {
			return fmt.Errorf("failed to check for duplicate entry: %w", err)
		}
		if existing != nil {
			created = *existing
			duplicate = true
			return nil
		}

		j, err := s.jobRepo.GetByID(ctx, req.JobID)
		if err != nil {
			return err
		}
		if j.AssignedTechnician != technicianID {
			return checkin.ErrJobNotAssigned
		}

		site := geo.Point{Latitude: j.SiteLatitude, Longitude: j.SiteLongitude}
		check := geo.ValidateWorkLocation(site, req.Location, j.CheckInRadiusMeters)
		if !check.Valid {
			observability.RecordCheckInRejected()
			return fmt.Errorf("%w: %.0fm away, limit %.0fm",
				checkin.ErrOutsideAllowedRadius, check.Distance, check.MaxDistance)
		}

		created, err = s.checkInRepo.Create(ctx, checkin.CheckIn{
			EntryID:        req.EntryID,
			JobID:          req.JobID,
			TechnicianID:   technicianID,
			Event:          req.Event,
			Latitude:       req.Location.Latitude,
			Longitude:      req.Location.Longitude,
			AccuracyMeters: req.Location.Accuracy,
			Altitude:       req.Location.Altitude,
			Speed:          req.Location.Speed,
			DistanceMeters: check.Distance,
			Quality:        geo.FixQuality(req.Location.Accuracy),
			RecordedAt:     req.Location.Timestamp.UTC(),
		})
		return err
	})
	if err != nil {
		return checkin.CheckInResponse{}, err
	}

	if duplicate {
		observability.RecordCheckInDuplicate()
		return toResponse(created, true), nil
	}

	// Counted and announced only after the transaction commits.
	observability.RecordCheckInReceived(created.Event)
	resp := toResponse(created, false)
	if s.hub != nil {
		s.hub.Publish(sse.Event{
			Topic: created.JobID,
			Event: "checkin." + created.Event,
			Data:  resp,
		})
	}
	return resp, nil
}

// ListByJob implements checkin.CheckInService.
func (s *CheckInServiceImpl) ListByJob(ctx context.Context, filter checkin.ListByJobFilter) (checkin.ListCheckInsResponse, error) {
	if err := filter.Validate(); err != nil {
		return checkin.ListCheckInsResponse{}, err
	}

	checkIns, total, err := s.checkInRepo.ListByJob(ctx, filter)
	if err != nil {
		return checkin.ListCheckInsResponse{}, fmt.Errorf("failed to list check-ins: %w", err)
	}

	resp := checkin.ListCheckInsResponse{
		CheckIns:   make([]checkin.CheckInResponse, 0, len(checkIns)),
		TotalItems: total,
	}
	for _, c := range checkIns {
		resp.CheckIns = append(resp.CheckIns, toResponse(c, false))
	}
	return resp, nil
}
