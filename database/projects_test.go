package database

import (
	"context"
	"errors"
	"testing"

	"footnote/models"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertProject(t *testing.T) {
	db := GetTestDB(t)
	CleanupTestDB(t, db)

	ctx := context.Background()
	id, affected, err := db.InsertProject(ctx, "Alice", models.DefaultProjectTitle)

	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.Positive(t, id)

	project, err := db.GetProject(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "untitled", project.Title)
	assert.Equal(t, "alice", project.Owner)
	assert.Nil(t, project.VideoURL)
	assert.Nil(t, project.ThumbnailURL)
	assert.False(t, project.CreatedAt.IsZero())
}

func TestInsertProject_LogsAtDebug(t *testing.T) {
	db := GetTestDB(t)
	CleanupTestDB(t, db)

	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	logged := &DB{Pool: db.Pool, log: log}

	_, _, err := logged.InsertProject(context.Background(), "alice", models.DefaultProjectTitle)
	require.NoError(t, err)

	require.Len(t, hook.AllEntries(), 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.DebugLevel, entry.Level)
	assert.Equal(t, "InsertProject", entry.Message)
	assert.Equal(t, "alice", entry.Data["username"])
}

func TestListProjectsByOwner(t *testing.T) {
	db := GetTestDB(t)
	CleanupTestDB(t, db)

	ctx := context.Background()

	projects, err := db.ListProjectsByOwner(ctx, "alice")
	require.NoError(t, err)
	assert.NotNil(t, projects)
	assert.Empty(t, projects)

	_, _, err = db.InsertProject(ctx, "alice", "one")
	require.NoError(t, err)
	_, _, err = db.InsertProject(ctx, "ALICE", "two")
	require.NoError(t, err)
	_, _, err = db.InsertProject(ctx, "bob", "three")
	require.NoError(t, err)

	projects, err = db.ListProjectsByOwner(ctx, "Alice")
	require.NoError(t, err)
	assert.Len(t, projects, 2)
	for _, p := range projects {
		assert.Equal(t, "alice", p.Owner)
	}
}

func TestGetProject_NotFound(t *testing.T) {
	db := GetTestDB(t)
	CleanupTestDB(t, db)

	_, err := db.GetProject(context.Background(), 424242)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestUpdateProjectTitle(t *testing.T) {
	db := GetTestDB(t)
	CleanupTestDB(t, db)

	ctx := context.Background()
	id, _, err := db.InsertProject(ctx, "alice", models.DefaultProjectTitle)
	require.NoError(t, err)

	affected, err := db.UpdateProjectTitle(ctx, id, "Beach Trip")
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	project, err := db.GetProject(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Beach Trip", project.Title)

	affected, err = db.UpdateProjectTitle(ctx, id+1000, "Nope")
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestDeleteProjectCascade(t *testing.T) {
	db := GetTestDB(t)
	CleanupTestDB(t, db)

	ctx := context.Background()
	id, _, err := db.InsertProject(ctx, "alice", models.DefaultProjectTitle)
	require.NoError(t, err)
	other, _, err := db.InsertProject(ctx, "alice", "keep")
	require.NoError(t, err)

	_, _, err = db.InsertAnnotation(ctx, id, 10, "wave")
	require.NoError(t, err)
	_, _, err = db.InsertAnnotation(ctx, id, 20, "sand")
	require.NoError(t, err)
	_, _, err = db.InsertAnnotation(ctx, other, 5, "unrelated")
	require.NoError(t, err)

	annotations, projects, err := db.DeleteProjectCascade(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), annotations)
	assert.Equal(t, int64(1), projects)

	_, err = db.GetProject(ctx, id)
	assert.True(t, errors.Is(err, ErrNotFound))

	remaining, err := db.ListAnnotations(ctx, models.AnnotationQuery{ProjectID: id})
	require.NoError(t, err)
	assert.Empty(t, remaining)

	kept, err := db.ListAnnotations(ctx, models.AnnotationQuery{ProjectID: other})
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}

func TestDeleteProjectCascade_NotFound(t *testing.T) {
	db := GetTestDB(t)
	CleanupTestDB(t, db)

	annotations, projects, err := db.DeleteProjectCascade(context.Background(), 424242)
	require.NoError(t, err)
	assert.Zero(t, annotations)
	assert.Zero(t, projects)
}

func TestSetProjectMedia(t *testing.T) {
	db := GetTestDB(t)
	CleanupTestDB(t, db)

	ctx := context.Background()
	id, _, err := db.InsertProject(ctx, "alice", models.DefaultProjectTitle)
	require.NoError(t, err)

	affected, err := db.SetProjectMedia(ctx, id, "https://cdn/videos/v.mp4", "https://cdn/thumbnails/v.jpg")
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	project, err := db.GetProject(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, project.VideoURL)
	require.NotNil(t, project.ThumbnailURL)
	assert.Equal(t, "https://cdn/videos/v.mp4", *project.VideoURL)
	assert.Equal(t, "https://cdn/thumbnails/v.jpg", *project.ThumbnailURL)

	affected, err = db.SetProjectMedia(ctx, id+1000, "a", "b")
	require.NoError(t, err)
	assert.Zero(t, affected)
}
