package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/linewatch/xray-monitor/internal/api/metrics"
	"github.com/linewatch/xray-monitor/internal/core/domain"
	"github.com/linewatch/xray-monitor/internal/core/ports"
)

const defaultRecentLimit = 20

// DedupChecker abstracts the idempotency store (Redis).
type DedupChecker interface {
	IsDuplicate(ctx context.Context, machineID, zone string, ts time.Time) (bool, error)
	Mark(ctx context.Context, machineID, zone string, ts time.Time) error
}

type alertService struct {
	repo  ports.AlertRepository
	dedup DedupChecker
	log   zerolog.Logger
}

// NewAlertService returns an implementation of both ports.EventService and
// ports.AlertService backed by the alert repository.
func NewAlertService(repo ports.AlertRepository, dedup DedupChecker, log zerolog.Logger) *alertService {
	return &alertService{repo: repo, dedup: dedup, log: log}
}

// Process validates, deduplicates, and persists one detection event.
func (s *alertService) Process(ctx context.Context, in ports.DetectionEventInput) error {
	severity := domain.AlertSeverity(in.Severity)
	if !severity.Valid() {
		metrics.EventsErrorsTotal.WithLabelValues("invalid_severity").Inc()
		return fmt.Errorf("process event: invalid severity %q", in.Severity)
	}
	if !slices.Contains(domain.Zones, in.Zone) {
		metrics.EventsErrorsTotal.WithLabelValues("unknown_zone").Inc()
		return fmt.Errorf("process event: unknown zone %q", in.Zone)
	}

	isDup, err := s.dedup.IsDuplicate(ctx, in.MachineID, in.Zone, in.Timestamp)
	if err != nil {
		s.log.Warn().Err(err).Str("machine_id", in.MachineID).Msg("dedup check failed, processing anyway")
	} else if isDup {
		metrics.EventsDedupTotal.WithLabelValues("hit").Inc()
		s.log.Debug().Str("machine_id", in.MachineID).Str("zone", in.Zone).Msg("duplicate event skipped")
		return nil
	}
	metrics.EventsDedupTotal.WithLabelValues("miss").Inc()

	// Mark before writing so a retried delivery cannot double-insert.
	if markErr := s.dedup.Mark(ctx, in.MachineID, in.Zone, in.Timestamp); markErr != nil {
		s.log.Warn().Err(markErr).Str("machine_id", in.MachineID).Msg("failed to set dedup key")
	}

	alert := &domain.Alert{
		ID:           uuid.NewString(),
		Zone:         in.Zone,
		Type:         in.Type,
		Severity:     severity,
		DetectedAt:   in.Timestamp,
		Location:     in.Location,
		DetectedItem: in.DetectedItem,
		Confidence:   in.Confidence,
		MachineID:    in.MachineID,
		Operator:     in.Operator,
		Status:       domain.InvestigationPending,
		Source:       in.Source,
	}
	if err := s.repo.Insert(ctx, alert); err != nil {
		metrics.EventsErrorsTotal.WithLabelValues("insert_failed").Inc()
		return fmt.Errorf("process event: %w", err)
	}

	metrics.EventsProcessedTotal.WithLabelValues(in.Zone, in.Severity).Inc()
	s.log.Info().
		Str("alert_id", alert.ID).
		Str("zone", in.Zone).
		Str("severity", in.Severity).
		Str("machine_id", in.MachineID).
		Msg("detection event processed")

	return nil
}

func (s *alertService) Recent(ctx context.Context, limit int) ([]domain.Alert, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	return s.repo.Recent(ctx, limit)
}

func (s *alertService) Detail(ctx context.Context, id string) (*domain.Alert, error) {
	return s.repo.FindByID(ctx, id)
}
