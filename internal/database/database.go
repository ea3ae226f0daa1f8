package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ciaranmckenna/medical-event-tracker-sub001/internal/config"
	"github.com/ciaranmckenna/medical-event-tracker-sub001/internal/logging"
	"github.com/ciaranmckenna/medical-event-tracker-sub001/internal/models"
)

var DB *gorm.DB

func Init(log *zap.Logger) {
	var err error
	dbConf := config.Conf.Database
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		dbConf.Host, dbConf.User, dbConf.Password, dbConf.DBName, dbConf.Port)

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logging.NewGormLogger(log),
	})
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	log.Info("Database connection established successfully.")
	runMigrations(log)

	if dbConf.SeedDemo {
		if err := SeedDemo(log, dbConf.SeedFile); err != nil {
			log.Fatal("Failed to seed demo data", zap.Error(err))
		}
	}
}

func runMigrations(log *zap.Logger) {
	// AutoMigrate creates tables, columns, and foreign keys but not the
	// composite indexes the analytics fetches lean on, so those are explicit.
	err := DB.AutoMigrate(
		&models.Patient{},
		&models.Medication{},
		&models.DosageRecord{},
		&models.MedicalEvent{},
	)
	if err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}
	log.Info("Database migrations completed successfully.")

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_dosage_fetch ON dosage_records (patient_id, medication_id, administration_time);`,
		`CREATE INDEX IF NOT EXISTS idx_event_fetch ON medical_events (patient_id, event_time);`,
	}
	for _, stmt := range indexes {
		if err := DB.Exec(stmt).Error; err != nil {
			log.Fatal("Failed to create custom index", zap.Error(err))
		}
	}
	log.Info("Custom indexes ensured successfully.")
}
