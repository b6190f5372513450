package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"footnote/database"
	"footnote/models"

	"github.com/sirupsen/logrus"
)

// Annotations manages timestamped notes on projects.
type Annotations struct {
	store AnnotationStore
	log   logrus.FieldLogger
}

func NewAnnotations(store AnnotationStore, log logrus.FieldLogger) *Annotations {
	return &Annotations{store: store, log: log}
}

// List returns the annotations selected by q, ordered by timestamp.
func (s *Annotations) List(ctx context.Context, q models.AnnotationQuery) ([]models.Annotation, error) {
	const op = "annotations.List"

	if q.ProjectID <= 0 {
		return nil, newError(KindValidation, op, "projectID is required", nil)
	}
	if q.From != nil && q.To != nil && *q.From > *q.To {
		return nil, newError(KindValidation, op, "from must not be after to", nil)
	}
	if q.Search != "" {
		if _, err := database.NewSearchQueryParser().Terms(q.Search); err != nil {
			return nil, newError(KindValidation, op, err.Error(), err)
		}
	}

	annotations, err := s.store.ListAnnotations(ctx, q)
	if err != nil {
		return nil, newError(KindInternal, op, "failed to list annotations", err)
	}
	if annotations == nil {
		annotations = []models.Annotation{}
	}
	return annotations, nil
}

// Add attaches a note to a project and returns it with its new id.
func (s *Annotations) Add(ctx context.Context, timestamp models.Timestamp, text string, projectID int64) (*models.Annotation, error) {
	const op = "annotations.Add"

	if err := validateTimestamp(op, timestamp); err != nil {
		return nil, err
	}
	if err := validateText(op, text); err != nil {
		return nil, err
	}

	id, affected, err := s.store.InsertAnnotation(ctx, projectID, timestamp, text)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, newError(KindNotFound, op, fmt.Sprintf("no project found with projectID %d", projectID), err)
		}
		return nil, newError(KindInternal, op, "failed to add annotation", err)
	}
	if affected == 0 {
		return nil, newError(KindWriteFailed, op, "failed to add annotation", nil)
	}

	s.log.WithFields(logrus.Fields{
		"annotation_id": id,
		"project_id":    projectID,
	}).Debug("Annotation added")

	return &models.Annotation{
		ID:        id,
		ProjectID: projectID,
		Timestamp: timestamp,
		Text:      text,
	}, nil
}

// Edit replaces the text of an annotation.
func (s *Annotations) Edit(ctx context.Context, id int64, text string) error {
	const op = "annotations.Edit"

	if err := validateText(op, text); err != nil {
		return err
	}

	affected, err := s.store.UpdateAnnotationText(ctx, id, text)
	if err != nil {
		return newError(KindInternal, op, "failed to edit annotation", err)
	}
	if affected == 0 {
		return newError(KindNotFound, op, fmt.Sprintf("no annotation found with id %d", id), nil)
	}
	return nil
}

// Delete removes an annotation.
func (s *Annotations) Delete(ctx context.Context, id int64) error {
	const op = "annotations.Delete"

	affected, err := s.store.DeleteAnnotation(ctx, id)
	if err != nil {
		return newError(KindInternal, op, "failed to delete annotation", err)
	}
	if affected == 0 {
		return newError(KindNotFound, op, "Annotation not found or not deleted", nil)
	}
	return nil
}

// Authorize loads an annotation and checks that username owns its project.
func (s *Annotations) Authorize(ctx context.Context, username string, id int64) (*models.Annotation, error) {
	const op = "annotations.Authorize"

	if strings.TrimSpace(username) == "" {
		return nil, newError(KindUnauthorized, op, "not logged in", nil)
	}

	a, err := s.store.GetAnnotation(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, newError(KindNotFound, op, fmt.Sprintf("no annotation found with id %d", id), err)
		}
		return nil, newError(KindInternal, op, "failed to load annotation", err)
	}

	if _, err := authorizeProject(ctx, s.store, op, username, a.ProjectID); err != nil {
		return nil, err
	}
	return a, nil
}

// AuthorizeProject checks that username owns the project the notes belong to.
func (s *Annotations) AuthorizeProject(ctx context.Context, username string, projectID int64) error {
	_, err := authorizeProject(ctx, s.store, "annotations.AuthorizeProject", username, projectID)
	return err
}

func validateTimestamp(op string, ts models.Timestamp) error {
	v := ts.Seconds()
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return newError(KindValidation, op, "timestamp must be a non-negative number of seconds", nil)
	}
	if ts > models.MaxTimestamp {
		return newError(KindValidation, op,
			fmt.Sprintf("timestamp cannot exceed %d seconds", int64(models.MaxTimestamp)), nil)
	}
	return nil
}

func validateText(op, text string) error {
	if strings.TrimSpace(text) == "" {
		return newError(KindValidation, op, "text must not be empty", nil)
	}
	if utf8.RuneCountInString(text) > models.MaxAnnotationTextLength {
		return newError(KindValidation, op,
			fmt.Sprintf("text cannot exceed %d characters", models.MaxAnnotationTextLength), nil)
	}
	return nil
}
