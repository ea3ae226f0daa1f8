package models

import (
	"time"

	"github.com/google/uuid"
)

// Patient is the minimal identity record the analytics service keys on.
// Demographics and care-team data live in the record-keeping service.
type Patient struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `json:"name"`
	DateOfBirth time.Time `json:"dateOfBirth"`
	CreatedAt   time.Time `json:"createdAt"`
}
