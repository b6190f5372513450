package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"footnote/models"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
)

const projectColumns = `pid, COALESCE(project_name, ''), username, video_url, thumbnail_url, created_at, updated_at`

// ListProjectsByOwner returns the projects of owner, newest first.
// Returns an empty slice (not nil) if the owner has none.
func (db *DB) ListProjectsByOwner(ctx context.Context, owner string) ([]models.Project, error) {
	owner = normalizeUsername(owner)
	defer db.timed("ListProjectsByOwner", logrus.Fields{"username": owner})()

	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE username = $1
		ORDER BY created_at DESC, pid DESC
	`

	rows, err := db.Pool.Query(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	return scanProjects(rows)
}

// InsertProject creates a project owned by owner and returns its id and
// the number of rows written.
func (db *DB) InsertProject(ctx context.Context, owner, title string) (int64, int64, error) {
	owner = normalizeUsername(owner)
	defer db.timed("InsertProject", logrus.Fields{"username": owner})()

	query := `
		INSERT INTO projects (project_name, username)
		VALUES ($1, $2)
		RETURNING pid
	`

	var id int64
	err := db.Pool.QueryRow(ctx, query, title, owner).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, nil
		}
		return 0, 0, fmt.Errorf("failed to create project: %w", err)
	}

	return id, 1, nil
}

func (db *DB) GetProject(ctx context.Context, projectID int64) (*models.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE pid = $1
	`

	project, err := scanProject(db.Pool.QueryRow(ctx, query, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("project %d: %w", projectID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return project, nil
}

func (db *DB) UpdateProjectTitle(ctx context.Context, projectID int64, title string) (int64, error) {
	query := `UPDATE projects SET project_name = $1, updated_at = NOW() WHERE pid = $2`

	result, err := db.Pool.Exec(ctx, query, title, projectID)
	if err != nil {
		return 0, fmt.Errorf("failed to update project name: %w", err)
	}

	return result.RowsAffected(), nil
}

// DeleteProjectCascade deletes the annotations of a project and then the
// project row, in one transaction. If the project row does not exist the
// transaction is rolled back and both counts are zero.
func (db *DB) DeleteProjectCascade(ctx context.Context, projectID int64) (int64, int64, error) {
	defer db.timed("DeleteProjectCascade", logrus.Fields{"project_id": projectID})()

	var annotations, projects int64
	err := db.withTx(ctx, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, `DELETE FROM annotations WHERE pid = $1`, projectID)
		if err != nil {
			return fmt.Errorf("failed to delete annotations: %w", err)
		}
		annotations = result.RowsAffected()

		result, err = tx.Exec(ctx, `DELETE FROM projects WHERE pid = $1`, projectID)
		if err != nil {
			return fmt.Errorf("failed to delete project: %w", err)
		}
		projects = result.RowsAffected()

		if projects == 0 {
			return errNoRowsAffected
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errNoRowsAffected) {
			return 0, 0, nil
		}
		return 0, 0, err
	}

	db.log.WithFields(logrus.Fields{
		"project_id":  projectID,
		"annotations": annotations,
	}).Info("Deleted project")
	return annotations, projects, nil
}

// SetProjectMedia records the video and thumbnail URLs of a project in one
// transaction. Returns 1 when both were written and 0 when the project
// does not exist, in which case nothing changes.
func (db *DB) SetProjectMedia(ctx context.Context, projectID int64, videoURL, thumbnailURL string) (int64, error) {
	err := db.withTx(ctx, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx,
			`UPDATE projects SET video_url = $1, updated_at = NOW() WHERE pid = $2`,
			videoURL, projectID)
		if err != nil {
			return fmt.Errorf("failed to update video URL: %w", err)
		}
		if result.RowsAffected() == 0 {
			return errNoRowsAffected
		}

		result, err = tx.Exec(ctx,
			`UPDATE projects SET thumbnail_url = $1, updated_at = NOW() WHERE pid = $2`,
			thumbnailURL, projectID)
		if err != nil {
			return fmt.Errorf("failed to update thumbnail URL: %w", err)
		}
		if result.RowsAffected() == 0 {
			return errNoRowsAffected
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errNoRowsAffected) {
			return 0, nil
		}
		return 0, err
	}

	return 1, nil
}

// Helper functions

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func scanProject(row rowScanner) (*models.Project, error) {
	var project models.Project
	err := row.Scan(
		&project.ID,
		&project.Title,
		&project.Owner,
		&project.VideoURL,
		&project.ThumbnailURL,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func scanProjects(rows rowsScanner) ([]models.Project, error) {
	projects := []models.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}

	return projects, nil
}
