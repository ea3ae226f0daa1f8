package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ciaranmckenna/medical-event-tracker-sub001/internal/config"
	"github.com/ciaranmckenna/medical-event-tracker-sub001/internal/database"
	"github.com/ciaranmckenna/medical-event-tracker-sub001/internal/handlers"
	"github.com/ciaranmckenna/medical-event-tracker-sub001/internal/logging"
	"github.com/ciaranmckenna/medical-event-tracker-sub001/internal/metrics"
	"github.com/ciaranmckenna/medical-event-tracker-sub001/internal/repository"
	"github.com/ciaranmckenna/medical-event-tracker-sub001/internal/router"
	"github.com/ciaranmckenna/medical-event-tracker-sub001/internal/services"
)

func main() {
	// A bootstrap logger with defaults; re-created below once config is read.
	log, err := logging.Init(logging.Rotation{Directory: "logs", MaxSizeMB: 10, MaxBackups: 3, MaxAgeDays: 7, Compress: true})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}

	if err := config.Init(".", log); err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	logConf := config.Conf.Logging
	log, err = logging.Init(logging.Rotation{
		Directory:  logConf.Directory,
		MaxSizeMB:  logConf.MaxSize,
		MaxBackups: logConf.MaxBackups,
		MaxAgeDays: logConf.MaxAge,
		Compress:   logConf.Compress,
	})
	if err != nil {
		panic("failed to initialize configured logger: " + err.Error())
	}
	defer log.Sync()

	database.Init(log)

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		log.Fatal("Failed to register prometheus collectors", zap.Error(err))
	}

	source := repository.NewGormSource(database.DB)
	analyticsService := services.NewAnalyticsService(log, source)
	analyticsHandler := handlers.NewAnalyticsHandler(log, analyticsService)

	r := router.Setup(log, analyticsHandler)

	port := ":" + config.Conf.Server.Port
	log.Info("Server listening on http://localhost" + port)
	if err := r.Run(port); err != nil {
		log.Fatal("Failed to run Gin server", zap.Error(err))
	}
}
