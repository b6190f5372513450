package database

import (
	"context"
	"fmt"

	"footnote/config"
	"footnote/database/migrations"
	"footnote/models"

	"github.com/sirupsen/logrus"
)

// Store is the persistence contract shared by the postgres and memory backends.
type Store interface {
	ListProjectsByOwner(ctx context.Context, owner string) ([]models.Project, error)
	InsertProject(ctx context.Context, owner, title string) (int64, int64, error)
	GetProject(ctx context.Context, projectID int64) (*models.Project, error)
	UpdateProjectTitle(ctx context.Context, projectID int64, title string) (int64, error)
	DeleteProjectCascade(ctx context.Context, projectID int64) (int64, int64, error)
	SetProjectMedia(ctx context.Context, projectID int64, videoURL, thumbnailURL string) (int64, error)

	ListAnnotations(ctx context.Context, q models.AnnotationQuery) ([]models.Annotation, error)
	InsertAnnotation(ctx context.Context, projectID int64, timestamp models.Timestamp, text string) (int64, int64, error)
	GetAnnotation(ctx context.Context, annotationID int64) (*models.Annotation, error)
	UpdateAnnotationText(ctx context.Context, annotationID int64, text string) (int64, error)
	DeleteAnnotation(ctx context.Context, annotationID int64) (int64, error)

	Ping(ctx context.Context) error
	Close()
}

var (
	_ Store = (*DB)(nil)
	_ Store = (*MemoryStore)(nil)
)

// NewStoreFromConfig creates a Store based on the database config type.
func NewStoreFromConfig(ctx context.Context, cfg config.DatabaseConfig, log logrus.FieldLogger) (Store, error) {
	switch cfg.Type {
	case "postgres":
		db, err := Connect(ctx, cfg.URL, log)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := migrations.MigrateUp(db.Pool); err != nil {
				db.Close()
				return nil, fmt.Errorf("failed to run migrations: %w", err)
			}
			log.Info("Database migrations applied")
		}
		return db, nil
	case "memory":
		log.Warn("Using in-memory store; data is lost on restart")
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}
