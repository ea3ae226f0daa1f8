// internal/repository/records.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ciaranmckenna/medical-event-tracker-sub001/internal/analytics"
	"github.com/ciaranmckenna/medical-event-tracker-sub001/internal/models"
)

// GormSource fetches the raw per-patient record lists the analytics
// components consume. Filtering beyond patient/medication/time-range happens
// in memory downstream, not in SQL.
type GormSource struct {
	db *gorm.DB
}

func NewGormSource(db *gorm.DB) *GormSource {
	return &GormSource{db: db}
}

// FetchDosages returns a patient's dosage records, optionally narrowed to one
// medication and an inclusive time range, ordered by administration time.
func (s *GormSource) FetchDosages(ctx context.Context, patientID uuid.UUID, medicationID *uuid.UUID, w analytics.Window) ([]models.DosageRecord, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	q := s.db.WithContext(ctx).Where("patient_id = ?", patientID)
	if medicationID != nil {
		q = q.Where("medication_id = ?", *medicationID)
	}
	if w.Start != nil {
		q = q.Where("administration_time >= ?", *w.Start)
	}
	if w.End != nil {
		q = q.Where("administration_time <= ?", *w.End)
	}

	var records []models.DosageRecord
	if err := q.Order("administration_time asc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("fetching dosages: %w", err)
	}
	return records, nil
}

// FetchEvents returns a patient's medical events, optionally narrowed to one
// medication and an inclusive time range, ordered by event time.
func (s *GormSource) FetchEvents(ctx context.Context, patientID uuid.UUID, medicationID *uuid.UUID, w analytics.Window) ([]models.MedicalEvent, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	q := s.db.WithContext(ctx).Where("patient_id = ?", patientID)
	if medicationID != nil {
		q = q.Where("medication_id = ?", *medicationID)
	}
	if w.Start != nil {
		q = q.Where("event_time >= ?", *w.Start)
	}
	if w.End != nil {
		q = q.Where("event_time <= ?", *w.End)
	}

	var records []models.MedicalEvent
	if err := q.Order("event_time asc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("fetching events: %w", err)
	}
	return records, nil
}

// GetMedication returns the medication or nil when no row matches. Unknown
// ids are the caller's "no data yet" case, not an error.
func (s *GormSource) GetMedication(ctx context.Context, id uuid.UUID) (*models.Medication, error) {
	var med models.Medication
	err := s.db.WithContext(ctx).First(&med, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching medication: %w", err)
	}
	return &med, nil
}

// ListMedications returns all of a patient's medications ordered by start date.
func (s *GormSource) ListMedications(ctx context.Context, patientID uuid.UUID) ([]models.Medication, error) {
	var meds []models.Medication
	err := s.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("start_date asc").
		Find(&meds).Error
	if err != nil {
		return nil, fmt.Errorf("listing medications: %w", err)
	}
	return meds, nil
}
