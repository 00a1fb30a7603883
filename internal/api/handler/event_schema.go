package handler

import "time"

type detectionEventRequest struct {
	Zone         string    `json:"zone"          validate:"required,oneof=A B C D"`
	Type         string    `json:"type"          validate:"required"`
	Severity     string    `json:"severity"      validate:"required,oneof=low medium high"`
	Timestamp    time.Time `json:"timestamp"     validate:"required"`
	MachineID    string    `json:"machine_id"    validate:"required"`
	Confidence   float64   `json:"confidence"    validate:"omitempty,min=0,max=100"`
	DetectedItem string    `json:"detected_item"`
	Location     string    `json:"location"`
	Operator     string    `json:"operator"`
	Source       string    `json:"source"        validate:"required"`
}

type acceptedResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}
