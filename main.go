package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"alumni-form/internal/config"
	"alumni-form/internal/formstate"
	logger "alumni-form/internal/logging"
	"alumni-form/internal/models"
	"alumni-form/internal/router"
	"alumni-form/internal/services"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const projectRoot = "."

func main() {
	// A missing .env is normal outside development.
	_ = godotenv.Load(filepath.Join(projectRoot, ".env"))

	v, err := config.Load(projectRoot)
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}
	conf := config.Get()

	log, err := logger.Init(projectRoot, conf.Logging)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	config.Watch(v, log)

	fields, err := models.LoadFieldSet(filepath.Join(projectRoot, conf.Form.FieldsFile))
	if err != nil {
		log.Fatal("Failed to load field definitions", zap.Error(err))
	}

	submitter := services.NewSimulatedSubmitter(log, func() time.Duration {
		return config.Get().Form.SubmitDelay
	})
	registry := formstate.NewRegistry(formstate.Options{
		Submitter:       submitter,
		SuccessDuration: func() time.Duration {
			return config.Get().Form.SuccessDuration
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	janitor := services.NewJanitor(log, registry, conf.Form.SweepInterval, func() time.Duration {
		return config.Get().Form.IdleTimeout
	})
	janitor.Start(ctx)

	r := router.Setup(log, router.Deps{
		Fields:      fields,
		Registry:    registry,
		QR:          services.NewQRService(),
		ProjectRoot: projectRoot,
	})

	srv := &http.Server{
		Addr:              ":" + conf.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server listening on http://localhost:" + conf.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to run server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
}
