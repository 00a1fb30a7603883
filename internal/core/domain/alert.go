package domain

import "time"

// AlertSeverity classifies how urgent a detection is.
type AlertSeverity string

const (
	SeverityLow    AlertSeverity = "low"
	SeverityMedium AlertSeverity = "medium"
	SeverityHigh   AlertSeverity = "high"
)

// Valid reports whether the severity is one of the known values.
func (s AlertSeverity) Valid() bool {
	return s == SeverityLow || s == SeverityMedium || s == SeverityHigh
}

// InvestigationStatus is the follow-up state of an alert.
type InvestigationStatus string

const (
	InvestigationPending  InvestigationStatus = "pending"
	InvestigationOngoing  InvestigationStatus = "investigating"
	InvestigationResolved InvestigationStatus = "resolved"
)

// Alert is a single detection raised by an inspection machine. The detail
// fields (location, confidence, operator, ...) are populated by the machine
// event and served verbatim on the alert detail view.
type Alert struct {
	ID           string              `json:"id" bson:"_id,omitempty"`
	Zone         string              `json:"zone" bson:"zone"`
	Type         string              `json:"type" bson:"type"`
	Severity     AlertSeverity       `json:"severity" bson:"severity"`
	DetectedAt   time.Time           `json:"detected_at" bson:"detected_at"`
	Description  string              `json:"description,omitempty" bson:"description,omitempty"`
	Location     string              `json:"location,omitempty" bson:"location,omitempty"`
	DetectedItem string              `json:"detected_item,omitempty" bson:"detected_item,omitempty"`
	Confidence   float64             `json:"confidence,omitempty" bson:"confidence,omitempty"`
	ImageURL     string              `json:"image_url,omitempty" bson:"image_url,omitempty"`
	MachineID    string              `json:"machine_id" bson:"machine_id"`
	Operator     string              `json:"operator,omitempty" bson:"operator,omitempty"`
	ActionTaken  string              `json:"action_taken,omitempty" bson:"action_taken,omitempty"`
	Status       InvestigationStatus `json:"status" bson:"status"`
	Source       string              `json:"source,omitempty" bson:"source,omitempty"`
}
