package database

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"footnote/models"
)

// MemoryStore is an in-memory implementation of Store.
// It follows the same contract as the postgres store, including the
// all-or-nothing behaviour of DeleteProjectCascade and SetProjectMedia.
// This implementation is safe for concurrent use.
type MemoryStore struct {
	mu               sync.RWMutex
	projects         map[int64]models.Project
	annotations      map[int64]models.Annotation
	nextProjectID    int64
	nextAnnotationID int64
	now              func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		projects:    make(map[int64]models.Project),
		annotations: make(map[int64]models.Annotation),
		now:         time.Now,
	}
}

func (m *MemoryStore) ListProjectsByOwner(_ context.Context, owner string) ([]models.Project, error) {
	owner = normalizeUsername(owner)

	m.mu.RLock()
	defer m.mu.RUnlock()

	projects := []models.Project{}
	for _, p := range m.projects {
		if p.Owner == owner {
			projects = append(projects, p)
		}
	}

	sort.Slice(projects, func(i, j int) bool {
		return projects[i].ID > projects[j].ID
	})
	return projects, nil
}

func (m *MemoryStore) InsertProject(_ context.Context, owner, title string) (int64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextProjectID++
	now := m.now()
	m.projects[m.nextProjectID] = models.Project{
		ID:        m.nextProjectID,
		Title:     title,
		Owner:     normalizeUsername(owner),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return m.nextProjectID, 1, nil
}

func (m *MemoryStore) GetProject(_ context.Context, projectID int64) (*models.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.projects[projectID]
	if !ok {
		return nil, fmt.Errorf("project %d: %w", projectID, ErrNotFound)
	}
	return &p, nil
}

func (m *MemoryStore) UpdateProjectTitle(_ context.Context, projectID int64, title string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.projects[projectID]
	if !ok {
		return 0, nil
	}
	p.Title = title
	p.UpdatedAt = m.now()
	m.projects[projectID] = p
	return 1, nil
}

func (m *MemoryStore) DeleteProjectCascade(_ context.Context, projectID int64) (int64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.projects[projectID]; !ok {
		return 0, 0, nil
	}

	var annotations int64
	for id, a := range m.annotations {
		if a.ProjectID == projectID {
			delete(m.annotations, id)
			annotations++
		}
	}
	delete(m.projects, projectID)
	return annotations, 1, nil
}

func (m *MemoryStore) SetProjectMedia(_ context.Context, projectID int64, videoURL, thumbnailURL string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.projects[projectID]
	if !ok {
		return 0, nil
	}
	p.VideoURL = &videoURL
	p.ThumbnailURL = &thumbnailURL
	p.UpdatedAt = m.now()
	m.projects[projectID] = p
	return 1, nil
}

func (m *MemoryStore) ListAnnotations(_ context.Context, q models.AnnotationQuery) ([]models.Annotation, error) {
	if q.From != nil && q.To != nil && *q.From > *q.To {
		return nil, fmt.Errorf("invalid range: from %.3f is after to %.3f", *q.From, *q.To)
	}

	var terms []string
	if q.Search != "" {
		var err error
		terms, err = NewSearchQueryParser().Terms(q.Search)
		if err != nil {
			return nil, fmt.Errorf("invalid search query: %w", err)
		}
	}

	m.mu.RLock()
	matched := []models.Annotation{}
	for _, a := range m.annotations {
		if a.ProjectID != q.ProjectID {
			continue
		}
		seconds := a.Timestamp.Seconds()
		if q.From != nil && seconds < *q.From {
			continue
		}
		if q.To != nil && seconds > *q.To {
			continue
		}
		if !containsAll(a.Text, terms) {
			continue
		}
		matched = append(matched, a)
	}
	m.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Timestamp != matched[j].Timestamp {
			return matched[i].Timestamp < matched[j].Timestamp
		}
		return matched[i].ID < matched[j].ID
	})

	limit, offset := pageBounds(q.Limit, q.Offset)
	if offset >= len(matched) {
		return []models.Annotation{}, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (m *MemoryStore) InsertAnnotation(_ context.Context, projectID int64, timestamp models.Timestamp, text string) (int64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.projects[projectID]; !ok {
		return 0, 0, fmt.Errorf("project %d: %w", projectID, ErrNotFound)
	}

	m.nextAnnotationID++
	now := m.now()
	m.annotations[m.nextAnnotationID] = models.Annotation{
		ID:        m.nextAnnotationID,
		ProjectID: projectID,
		Timestamp: timestamp,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return m.nextAnnotationID, 1, nil
}

func (m *MemoryStore) GetAnnotation(_ context.Context, annotationID int64) (*models.Annotation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.annotations[annotationID]
	if !ok {
		return nil, fmt.Errorf("annotation %d: %w", annotationID, ErrNotFound)
	}
	return &a, nil
}

func (m *MemoryStore) UpdateAnnotationText(_ context.Context, annotationID int64, text string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.annotations[annotationID]
	if !ok {
		return 0, nil
	}
	a.Text = text
	a.UpdatedAt = m.now()
	m.annotations[annotationID] = a
	return 1, nil
}

func (m *MemoryStore) DeleteAnnotation(_ context.Context, annotationID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.annotations[annotationID]; !ok {
		return 0, nil
	}
	delete(m.annotations, annotationID)
	return 1, nil
}

func (m *MemoryStore) Ping(context.Context) error {
	return nil
}

func (m *MemoryStore) Close() {}

// containsAll reports whether text contains every term, ignoring case.
func containsAll(text string, terms []string) bool {
	lower := strings.ToLower(text)
	for _, term := range terms {
		if !strings.Contains(lower, term) {
			return false
		}
	}
	return true
}
