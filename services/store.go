package services

import (
	"context"

	"footnote/models"
)

// ProjectStore is the persistence the project and upload services need.
type ProjectStore interface {
	ListProjectsByOwner(ctx context.Context, owner string) ([]models.Project, error)
	InsertProject(ctx context.Context, owner, title string) (int64, int64, error)
	GetProject(ctx context.Context, projectID int64) (*models.Project, error)
	UpdateProjectTitle(ctx context.Context, projectID int64, title string) (int64, error)
	DeleteProjectCascade(ctx context.Context, projectID int64) (int64, int64, error)
	SetProjectMedia(ctx context.Context, projectID int64, videoURL, thumbnailURL string) (int64, error)
}

// AnnotationStore is the persistence the annotation service needs.
type AnnotationStore interface {
	GetProject(ctx context.Context, projectID int64) (*models.Project, error)
	ListAnnotations(ctx context.Context, q models.AnnotationQuery) ([]models.Annotation, error)
	InsertAnnotation(ctx context.Context, projectID int64, timestamp models.Timestamp, text string) (int64, int64, error)
	GetAnnotation(ctx context.Context, annotationID int64) (*models.Annotation, error)
	UpdateAnnotationText(ctx context.Context, annotationID int64, text string) (int64, error)
	DeleteAnnotation(ctx context.Context, annotationID int64) (int64, error)
}
