package services

import (
	"context"
	"errors"
	"testing"

	"footnote/database"
	"footnote/models"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func newTestLogger() (*logrus.Logger, *test.Hook) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	return log, hook
}

func requireKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, KindOf(err), "unexpected kind for %v", err)
}

// failingStore wraps a MemoryStore and fails selected operations.
type failingStore struct {
	*database.MemoryStore
	insertProjectAffected *int64
	insertAnnotation      error
	setMedia              error
	list                  error
	updateTitleCalls      int
}

var errStore = errors.New("store unavailable")

func (f *failingStore) InsertProject(ctx context.Context, owner, title string) (int64, int64, error) {
	if f.insertProjectAffected != nil {
		return 0, *f.insertProjectAffected, nil
	}
	return f.MemoryStore.InsertProject(ctx, owner, title)
}

func (f *failingStore) InsertAnnotation(ctx context.Context, projectID int64, ts models.Timestamp, text string) (int64, int64, error) {
	if f.insertAnnotation != nil {
		return 0, 0, f.insertAnnotation
	}
	return f.MemoryStore.InsertAnnotation(ctx, projectID, ts, text)
}

func (f *failingStore) SetProjectMedia(ctx context.Context, projectID int64, videoURL, thumbnailURL string) (int64, error) {
	if f.setMedia != nil {
		return 0, f.setMedia
	}
	return f.MemoryStore.SetProjectMedia(ctx, projectID, videoURL, thumbnailURL)
}

func (f *failingStore) ListProjectsByOwner(ctx context.Context, owner string) ([]models.Project, error) {
	if f.list != nil {
		return nil, f.list
	}
	return f.MemoryStore.ListProjectsByOwner(ctx, owner)
}

func (f *failingStore) UpdateProjectTitle(ctx context.Context, projectID int64, title string) (int64, error) {
	f.updateTitleCalls++
	return f.MemoryStore.UpdateProjectTitle(ctx, projectID, title)
}
