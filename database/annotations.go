package database

import (
	"context"
	"errors"
	"fmt"

	"footnote/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
)

const foreignKeyViolation = "23503"

// ListAnnotations returns the annotations of one project ordered by
// timestamp, then id. Optional filters:
//   - From/To: inclusive range in seconds
//   - Search: full-text match on the note body
//   - Limit: max results, capped at 1000; zero returns every match
//   - Offset: pagination offset
//
// Returns empty slice (not nil) if nothing matches.
func (db *DB) ListAnnotations(ctx context.Context, q models.AnnotationQuery) ([]models.Annotation, error) {
	defer db.timed("ListAnnotations", logrus.Fields{
		"project_id": q.ProjectID,
		"search":     q.Search,
	})()

	qb := NewQueryBuilder()
	qb.AddCondition(columnProjectID, q.ProjectID)
	if err := qb.AddRange(columnTimestamp, q.From, q.To); err != nil {
		return nil, err
	}
	if q.Search != "" {
		tsQuery, err := NewSearchQueryParser().Parse(q.Search)
		if err != nil {
			return nil, fmt.Errorf("invalid search query: %w", err)
		}
		qb.AddFullTextSearch(columnText, tsQuery)
	}

	// SAFETY: All user input is parameterized. WhereClause only contains safe SQL.
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, created_at, updated_at
		FROM annotations
		%s
		ORDER BY %s ASC, %s ASC%s
	`, columnAnnotationID, columnProjectID, columnTimestamp, columnText,
		qb.WhereClause(), columnTimestamp, columnAnnotationID, qb.Page(q.Limit, q.Offset))

	rows, err := db.Pool.Query(ctx, query, qb.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to query annotations: %w", err)
	}
	defer rows.Close()

	return scanAnnotations(rows)
}

// InsertAnnotation adds a note to a project and returns its id and the
// number of rows written. A missing project is reported as ErrNotFound.
func (db *DB) InsertAnnotation(ctx context.Context, projectID int64, timestamp models.Timestamp, text string) (int64, int64, error) {
	query := `
		INSERT INTO annotations (pid, timestamp_seconds, text)
		VALUES ($1, $2, $3)
		RETURNING aid
	`

	var id int64
	err := db.Pool.QueryRow(ctx, query, projectID, timestamp.Seconds(), text).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, nil
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return 0, 0, fmt.Errorf("project %d: %w", projectID, ErrNotFound)
		}
		return 0, 0, fmt.Errorf("failed to add annotation: %w", err)
	}

	return id, 1, nil
}

func (db *DB) GetAnnotation(ctx context.Context, annotationID int64) (*models.Annotation, error) {
	query := `
		SELECT aid, pid, timestamp_seconds, text, created_at, updated_at
		FROM annotations
		WHERE aid = $1
	`

	annotation, err := scanAnnotation(db.Pool.QueryRow(ctx, query, annotationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("annotation %d: %w", annotationID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get annotation: %w", err)
	}

	return annotation, nil
}

func (db *DB) UpdateAnnotationText(ctx context.Context, annotationID int64, text string) (int64, error) {
	query := `UPDATE annotations SET text = $1, updated_at = NOW() WHERE aid = $2`

	result, err := db.Pool.Exec(ctx, query, text, annotationID)
	if err != nil {
		return 0, fmt.Errorf("failed to edit annotation: %w", err)
	}

	return result.RowsAffected(), nil
}

func (db *DB) DeleteAnnotation(ctx context.Context, annotationID int64) (int64, error) {
	query := `DELETE FROM annotations WHERE aid = $1`

	result, err := db.Pool.Exec(ctx, query, annotationID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete annotation: %w", err)
	}

	return result.RowsAffected(), nil
}

// Helper functions

func scanAnnotation(row rowScanner) (*models.Annotation, error) {
	var annotation models.Annotation
	var seconds float64
	err := row.Scan(
		&annotation.ID,
		&annotation.ProjectID,
		&seconds,
		&annotation.Text,
		&annotation.CreatedAt,
		&annotation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	annotation.Timestamp = models.Timestamp(seconds)
	return &annotation, nil
}

func scanAnnotations(rows rowsScanner) ([]models.Annotation, error) {
	annotations := []models.Annotation{}
	for rows.Next() {
		annotation, err := scanAnnotation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan annotation: %w", err)
		}
		annotations = append(annotations, *annotation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating annotations: %w", err)
	}

	return annotations, nil
}
