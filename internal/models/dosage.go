package models

import (
	"time"

	"github.com/google/uuid"
)

// Schedule is the intended time-of-day category for an administration.
type Schedule string

const (
	ScheduleAM          Schedule = "AM"
	SchedulePM          Schedule = "PM"
	ScheduleMidday      Schedule = "MIDDAY"
	ScheduleBedtime     Schedule = "BEDTIME"
	ScheduleAsNeeded    Schedule = "AS_NEEDED"
	ScheduleEveryNHours Schedule = "EVERY_N_HOURS"
	ScheduleCustom      Schedule = "CUSTOM"
)

// DosageRecord is one administration (or planned administration) of a
// medication. Records are immutable once written; analytics never mutates them.
type DosageRecord struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PatientID          uuid.UUID `gorm:"type:uuid;index" json:"patientId"`
	MedicationID       uuid.UUID `gorm:"type:uuid;index" json:"medicationId"`
	AdministrationTime time.Time `gorm:"index" json:"administrationTime"`
	Amount             float64   `json:"amount"`
	Unit               string    `json:"unit"`
	Schedule           Schedule  `json:"schedule"`
	Administered       bool      `json:"administered"`
	CreatedAt          time.Time `json:"createdAt"`
}
