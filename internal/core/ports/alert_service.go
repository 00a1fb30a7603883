package ports

import (
	"context"
	"time"

	"github.com/linewatch/xray-monitor/internal/core/domain"
)

// DetectionEventInput is the DTO passed from the transport layer to the
// event service for one machine detection.
type DetectionEventInput struct {
	Zone         string
	Type         string
	Severity     string
	Timestamp    time.Time
	MachineID    string
	Confidence   float64
	DetectedItem string
	Location     string
	Operator     string
	Source       string
}

// EventService processes incoming detection events.
type EventService interface {
	Process(ctx context.Context, event DetectionEventInput) error
}

// AlertService serves stored alerts to the dashboard and detail views.
type AlertService interface {
	Recent(ctx context.Context, limit int) ([]domain.Alert, error)
	Detail(ctx context.Context, id string) (*domain.Alert, error)
}

// AlertRepository handles alert persistence.
type AlertRepository interface {
	Insert(ctx context.Context, alert *domain.Alert) error
	FindByID(ctx context.Context, id string) (*domain.Alert, error)
	// Recent returns up to limit alerts, newest first.
	Recent(ctx context.Context, limit int) ([]domain.Alert, error)
}
