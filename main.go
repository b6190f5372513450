package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"footnote/config"
	"footnote/database"
	"footnote/handlers"
	"footnote/services"
	"footnote/storage"
	"footnote/thumbnail"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		config.NewLogger(config.LogConfig{}, nil).WithError(err).Fatal("Failed to load config")
	}

	log := config.NewLogger(cfg.Log, nil)
	gin.SetMode(gin.ReleaseMode)

	// Create context with timeout for initial connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := database.NewStoreFromConfig(ctx, cfg.Database, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer store.Close()

	videos, thumbnails, err := storage.NewBlobStoresFromConfig(ctx, cfg.Storage)
	if err != nil {
		log.WithError(err).Fatal("Failed to create blob stores")
	}

	router := handlers.NewRouter(handlers.Deps{
		Store:          store,
		Projects:       services.NewProjects(store, log),
		Annotations:    services.NewAnnotations(store, log),
		Uploads:        services.NewUploads(videos, thumbnails, thumbnail.NewGenerator(cfg.Thumbnail), store, log),
		Log:            log,
		SessionSecret:  cfg.Session.Secret,
		CookieName:     cfg.Session.CookieName,
		AllowedOrigin:  cfg.Server.AllowedOrigin,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	go func() {
		log.WithField("addr", cfg.Server.Addr).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server shutdown failed")
	}
}
