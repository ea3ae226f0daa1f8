package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Severity of a medical event, ordered from mildest to most critical.
type Severity string

const (
	SeverityMild     Severity = "MILD"
	SeverityModerate Severity = "MODERATE"
	SeveritySevere   Severity = "SEVERE"
	SeverityCritical Severity = "CRITICAL"
)

// Severities lists all severities in declaration order. Tie-breaks in the
// aggregators resolve to the first-declared value, so the order here matters.
var Severities = []Severity{SeverityMild, SeverityModerate, SeveritySevere, SeverityCritical}

// Rank returns the position of the severity in the ordered scale, or -1 for
// unknown values.
func (s Severity) Rank() int {
	for i, known := range Severities {
		if s == known {
			return i
		}
	}
	return -1
}

// High reports whether the severity is SEVERE or worse. Unknown severities
// rank below the scale and are never high.
func (s Severity) High() bool {
	return s.Rank() >= SeveritySevere.Rank()
}

// Category classifies a medical event.
type Category string

const (
	CategorySymptom         Category = "SYMPTOM"
	CategoryMedication      Category = "MEDICATION"
	CategoryAppointment     Category = "APPOINTMENT"
	CategoryTest            Category = "TEST"
	CategoryEmergency       Category = "EMERGENCY"
	CategoryObservation     Category = "OBSERVATION"
	CategoryAdverseReaction Category = "ADVERSE_REACTION"
)

// Categories lists all categories in declaration order, used for tie-breaks.
var Categories = []Category{
	CategorySymptom,
	CategoryMedication,
	CategoryAppointment,
	CategoryTest,
	CategoryEmergency,
	CategoryObservation,
	CategoryAdverseReaction,
}

// MedicalEvent is one recorded incident in a patient's log: a symptom,
// adverse reaction, emergency, observation and so on. EventTime is never in
// the future. Title/Description and the Details payload are opaque to
// analytics.
type MedicalEvent struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	PatientID    uuid.UUID      `gorm:"type:uuid;index" json:"patientId"`
	MedicationID *uuid.UUID     `gorm:"type:uuid;index" json:"medicationId,omitempty"`
	EventTime    time.Time      `gorm:"index" json:"eventTime"`
	Severity     Severity       `json:"severity"`
	Category     Category       `json:"category"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Details      datatypes.JSON `gorm:"type:jsonb" json:"details,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}
