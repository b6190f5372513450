package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"footnote/database"
	"footnote/models"

	"github.com/sirupsen/logrus"
)

// Projects manages projects and their ownership.
type Projects struct {
	store ProjectStore
	log   logrus.FieldLogger
}

func NewProjects(store ProjectStore, log logrus.FieldLogger) *Projects {
	return &Projects{store: store, log: log}
}

// ListForUser returns the projects owned by username, newest first.
func (s *Projects) ListForUser(ctx context.Context, username string) ([]models.Project, error) {
	const op = "projects.ListForUser"

	projects, err := s.store.ListProjectsByOwner(ctx, username)
	if err != nil {
		return nil, newError(KindInternal, op, "failed to list projects", err)
	}
	if projects == nil {
		projects = []models.Project{}
	}
	return projects, nil
}

// CreateID creates an untitled project owned by username and returns its id.
func (s *Projects) CreateID(ctx context.Context, username string) (int64, error) {
	const op = "projects.CreateID"

	if strings.TrimSpace(username) == "" {
		return 0, newError(KindUnauthorized, op, "not logged in", nil)
	}

	id, affected, err := s.store.InsertProject(ctx, username, models.DefaultProjectTitle)
	if err != nil {
		return 0, newError(KindInternal, op, "failed to create project", err)
	}
	if affected == 0 {
		return 0, newError(KindWriteFailed, op, "failed to create project", nil)
	}

	s.log.WithFields(logrus.Fields{"project_id": id, "username": username}).Info("Created project")
	return id, nil
}

// Load returns the project with the given id.
func (s *Projects) Load(ctx context.Context, projectID int64) (*models.Project, error) {
	const op = "projects.Load"

	p, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, newError(KindNotFound, op, fmt.Sprintf("no project found with projectID %d", projectID), err)
		}
		return nil, newError(KindInternal, op, "failed to load project", err)
	}
	p.Title = p.DisplayTitle()
	return p, nil
}

// ValidateTitle rejects titles longer than models.MaxProjectTitleLength characters.
func ValidateTitle(title string) error {
	if utf8.RuneCountInString(title) > models.MaxProjectTitleLength {
		return newError(KindValidation, "projects.ValidateTitle",
			fmt.Sprintf("Project name is longer than %d characters", models.MaxProjectTitleLength), nil)
	}
	return nil
}

// EditName renames a project. The length check runs before any store call.
func (s *Projects) EditName(ctx context.Context, title string, projectID int64) error {
	const op = "projects.EditName"

	if err := ValidateTitle(title); err != nil {
		return err
	}

	affected, err := s.store.UpdateProjectTitle(ctx, projectID, title)
	if err != nil {
		return newError(KindInternal, op, "failed to update project name", err)
	}
	if affected == 0 {
		return newError(KindNotFound, op, "Project name not edited or project ID not found", nil)
	}
	return nil
}

// Delete removes a project and all of its annotations atomically.
func (s *Projects) Delete(ctx context.Context, projectID int64) error {
	const op = "projects.Delete"

	annotations, projects, err := s.store.DeleteProjectCascade(ctx, projectID)
	if err != nil {
		return newError(KindInternal, op, "failed to delete project", err)
	}
	if projects == 0 {
		return newError(KindNotFound, op, fmt.Sprintf("No matching pid %d found in PROJECTS", projectID), nil)
	}

	s.log.WithFields(logrus.Fields{
		"project_id":  projectID,
		"annotations": annotations,
	}).Debug("Project deleted")
	return nil
}

// Authorize loads a project and checks that username owns it.
func (s *Projects) Authorize(ctx context.Context, username string, projectID int64) (*models.Project, error) {
	return authorizeProject(ctx, s.store, "projects.Authorize", username, projectID)
}

type projectGetter interface {
	GetProject(ctx context.Context, projectID int64) (*models.Project, error)
}

func authorizeProject(ctx context.Context, store projectGetter, op, username string, projectID int64) (*models.Project, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, newError(KindUnauthorized, op, "not logged in", nil)
	}

	p, err := store.GetProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, newError(KindNotFound, op, fmt.Sprintf("no project found with projectID %d", projectID), err)
		}
		return nil, newError(KindInternal, op, "failed to load project", err)
	}

	if p.Owner != username {
		return nil, newError(KindForbidden, op, "you do not have access to this project", nil)
	}
	return p, nil
}
