package startup

import (
	"biointake.io/application/repository"
	"biointake.io/application/services/notification"
	biometric_usecases "biointake.io/application/usecases/biometric"
	"biointake.io/infrastructure/biometric"
	"biointake.io/infrastructure/database"
	"biointake.io/infrastructure/env"
	"biointake.io/infrastructure/imagesource"
	"biointake.io/infrastructure/logger"
	messagequeue "biointake.io/infrastructure/message_queue"
)

// Services holds everything built at start up that must be torn down.
type Services struct {
	Biometric *biometric_usecases.BiometricUseCase

	models *biometric.Models
	pool   *biometric.WorkerPool
}

// Used to start services such as databases, detector models and the worker pool.
// Detector models are loaded once here; a missing model stops start up.
func StartServices(cfg *env.Config) *Services {
	database.SetUpDatabase()

	models, err := biometric.NewModelLoader(cfg.CascadePath).Load()
	if err != nil {
		logger.Error("could not load detector models", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "cascadePath",
			Data: cfg.CascadePath,
		})
		panic(err)
	}
	pool := biometric.NewWorkerPool(cfg.AnalysisWorkers, cfg.AnalysisBacklog)
	engine := biometric.NewEngine(models, pool, cfg.ForensicMaxCaptureAge)
	source := imagesource.NewSource(cfg.ImageFetchTimeout, cfg.ImageFetchMaxRetries, cfg.ImageMaxBytes)
	store := repository.NewBiometricStore(cfg.FingerprintCacheTTL)
	notifier := notification.NewFraudNotifier(messagequeue.TaskQueue)

	logger.Info("biometric services ready", logger.LoggerOptions{
		Key:  "workers",
		Data: cfg.AnalysisWorkers,
	}, logger.LoggerOptions{
		Key:  "backlog",
		Data: cfg.AnalysisBacklog,
	})

	return &Services{
		Biometric: biometric_usecases.NewBiometricUseCase(engine, source, store, notifier, cfg.FingerprintMatchTolerance),
		models:    models,
		pool:      pool,
	}
}

// Used to clean up after services that have been shutdown.
func CleanUpServices(services *Services) {
	if services != nil {
		services.pool.Close()
		services.models.Close()
	}
	database.CleanUpDatabase()
	logger.Sync()
}
