package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/wellmate-ai/wellmate/pkg/api"
	"github.com/wellmate-ai/wellmate/pkg/common/config"
	"github.com/wellmate-ai/wellmate/pkg/common/database"
	"github.com/wellmate-ai/wellmate/pkg/common/kafka"
	"github.com/wellmate-ai/wellmate/pkg/common/logger"
	"github.com/wellmate-ai/wellmate/pkg/feature"
	"github.com/wellmate-ai/wellmate/pkg/model"
	"github.com/wellmate-ai/wellmate/pkg/observability/metrics"
	"github.com/wellmate-ai/wellmate/pkg/pipeline"
	"github.com/wellmate-ai/wellmate/pkg/recommend"
	"github.com/wellmate-ai/wellmate/pkg/risk"
	"github.com/wellmate-ai/wellmate/pkg/storage"
)

func main() {
	logger.Init()
	cfg := config.Load()

	spec, err := feature.Load(cfg.FeatureSpecPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load feature spec")
	}

	catalog, err := recommend.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load recommendation catalog")
	}

	store, cleanup, err := buildStore(cfg)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to initialise result store")
	}
	defer cleanup()

	var events pipeline.Events
	if cfg.EventsEnabled {
		producer := kafka.NewProducer(cfg, cfg.KafkaTopic)
		defer producer.Close()
		events = producer
	}

	backend := model.NewLinearBackend(cfg.ModelArtifactPath)
	adapter := model.NewAdapter(backend, spec.Len())
	defer adapter.Close()

	adjuster := risk.NewAdjuster(cfg.ComorbidityFloor, cfg.ComorbidityFloorScore)
	engine := recommend.NewEngine(catalog, cfg.TipCount, nil)

	pipe := pipeline.New(spec, adapter, adjuster, engine, store, events)

	router := mux.NewRouter()
	router.HandleFunc("/health", healthCheck).Methods(http.MethodGet)
	router.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w)
	}).Methods(http.MethodGet)
	api.NewHandler(pipe).Register(router)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		}).Info("Scoring Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Scoring Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("Server forced to shutdown")
	}

	logger.Log.Info("Scoring Service stopped")
}

func buildStore(cfg *config.Config) (storage.Store, func(), error) {
	if cfg.StoreDriver == "memory" {
		logger.Log.Info("Using in-memory result store")
		return storage.NewMemoryStore(), func() {}, nil
	}

	db, err := database.NewPostgres(cfg)
	if err != nil {
		return nil, nil, err
	}
	resultStore := storage.NewResultStore(db)
	if err := resultStore.AutoMigrate(); err != nil {
		return nil, nil, fmt.Errorf("migrate result store: %w", err)
	}

	redisClient := database.NewRedis(cfg)
	cached := storage.NewCachedStore(resultStore, redisClient, cfg.ResultCacheTTL)

	cleanup := func() {
		if err := database.ClosePostgres(db); err != nil {
			logger.Log.WithError(err).Error("Failed to close postgres")
		}
		if err := redisClient.Close(); err != nil {
			logger.Log.WithError(err).Error("Failed to close redis")
		}
	}
	return cached, cleanup, nil
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
