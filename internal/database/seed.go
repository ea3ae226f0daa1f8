package database

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ciaranmckenna/medical-event-tracker-sub001/internal/models"
)

// Demo fixture shapes mirrored from config/seed.yaml.
type seedFixture struct {
	Patients []seedPatient `yaml:"patients"`
}

type seedPatient struct {
	Name        string           `yaml:"name"`
	DateOfBirth string           `yaml:"date_of_birth"`
	Medications []seedMedication `yaml:"medications"`
	Events      []seedEvent      `yaml:"events"`
}

type seedMedication struct {
	Name        string       `yaml:"name"`
	Dosage      string       `yaml:"dosage"`
	Unit        string       `yaml:"unit"`
	StartDate   string       `yaml:"start_date"`
	SideEffects []string     `yaml:"side_effects"`
	Dosages     []seedDosage `yaml:"dosages"`
}

type seedDosage struct {
	Time         string  `yaml:"time"`
	Amount       float64 `yaml:"amount"`
	Unit         string  `yaml:"unit"`
	Schedule     string  `yaml:"schedule"`
	Administered bool    `yaml:"administered"`
}

type seedEvent struct {
	Time        string `yaml:"time"`
	Severity    string `yaml:"severity"`
	Category    string `yaml:"category"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// SeedDemo loads the YAML fixture and inserts it once; a database that
// already has patients is left alone.
func SeedDemo(log *zap.Logger, path string) error {
	var existing int64
	if err := DB.Model(&models.Patient{}).Count(&existing).Error; err != nil {
		return fmt.Errorf("counting patients before seed: %w", err)
	}
	if existing > 0 {
		log.Info("Demo seed skipped, patients already present", zap.Int64("patients", existing))
		return nil
	}

	fixture, err := loadSeed(path)
	if err != nil {
		return err
	}

	for _, sp := range fixture.Patients {
		if err := insertPatient(sp); err != nil {
			return err
		}
	}
	log.Info("Demo data seeded", zap.Int("patients", len(fixture.Patients)), zap.String("file", path))
	return nil
}

func loadSeed(path string) (*seedFixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	var fixture seedFixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}
	return &fixture, nil
}

func insertPatient(sp seedPatient) error {
	dob, err := parseSeedTime(sp.DateOfBirth)
	if err != nil {
		return err
	}
	patient := models.Patient{ID: uuid.New(), Name: sp.Name, DateOfBirth: dob}
	if err := DB.Create(&patient).Error; err != nil {
		return fmt.Errorf("seeding patient %q: %w", sp.Name, err)
	}

	for _, sm := range sp.Medications {
		start, err := parseSeedTime(sm.StartDate)
		if err != nil {
			return err
		}
		med := models.Medication{
			ID:          uuid.New(),
			PatientID:   patient.ID,
			Name:        sm.Name,
			Dosage:      sm.Dosage,
			Unit:        sm.Unit,
			StartDate:   start,
			SideEffects: pq.StringArray(sm.SideEffects),
		}
		if err := DB.Create(&med).Error; err != nil {
			return fmt.Errorf("seeding medication %q: %w", sm.Name, err)
		}

		for _, sd := range sm.Dosages {
			at, err := parseSeedTime(sd.Time)
			if err != nil {
				return err
			}
			record := models.DosageRecord{
				ID:                 uuid.New(),
				PatientID:          patient.ID,
				MedicationID:       med.ID,
				AdministrationTime: at,
				Amount:             sd.Amount,
				Unit:               sd.Unit,
				Schedule:           models.Schedule(sd.Schedule),
				Administered:       sd.Administered,
			}
			if err := DB.Create(&record).Error; err != nil {
				return fmt.Errorf("seeding dosage for %q: %w", sm.Name, err)
			}
		}
	}

	for _, se := range sp.Events {
		at, err := parseSeedTime(se.Time)
		if err != nil {
			return err
		}
		event := models.MedicalEvent{
			ID:          uuid.New(),
			PatientID:   patient.ID,
			EventTime:   at,
			Severity:    models.Severity(se.Severity),
			Category:    models.Category(se.Category),
			Title:       se.Title,
			Description: se.Description,
		}
		if err := DB.Create(&event).Error; err != nil {
			return fmt.Errorf("seeding event %q: %w", se.Title, err)
		}
	}
	return nil
}

func parseSeedTime(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("seed time %q is neither RFC3339 nor YYYY-MM-DD", value)
}
