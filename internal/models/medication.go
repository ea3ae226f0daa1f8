package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Medication is a prescribed medication for a patient. StartDate anchors the
// before/after split used by the impact analysis.
type Medication struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	PatientID   uuid.UUID      `gorm:"type:uuid;index" json:"patientId"`
	Name        string         `json:"name"`
	Dosage      string         `json:"dosage"`
	Unit        string         `json:"unit"`
	StartDate   time.Time      `json:"startDate"`
	EndDate     *time.Time     `json:"endDate,omitempty"`
	SideEffects pq.StringArray `gorm:"type:text[]" json:"sideEffects,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}
