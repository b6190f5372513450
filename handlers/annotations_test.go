package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"footnote/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndListAnnotations(t *testing.T) {
	f := newFixture(t)
	pid := f.createProject("alice")

	w := f.do(http.MethodGet, fmt.Sprintf("/annotations/all?projectID=%d", pid), "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = f.do(http.MethodPost, "/annotations/add", "alice",
		map[string]interface{}{"timestamp": 62.5, "text": "later", "projectID": pid})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var later models.AnnotationResponse
	decode(t, w, &later)
	assert.Greater(t, later.ID, int64(0))
	assert.Equal(t, "01:02", later.Label)

	w = f.do(http.MethodPost, "/annotations/add", "alice",
		map[string]interface{}{"timestamp": "00:31", "text": "wave", "projectID": pid})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var wave models.AnnotationResponse
	decode(t, w, &wave)
	assert.Equal(t, models.Timestamp(31), wave.Timestamp)
	assert.Equal(t, "00:31", wave.Label)

	w = f.do(http.MethodGet, fmt.Sprintf("/annotations/all?projectID=%d", pid), "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list []models.AnnotationResponse
	decode(t, w, &list)
	require.Len(t, list, 2)
	assert.Equal(t, wave.ID, list[0].ID)
	assert.Equal(t, later.ID, list[1].ID)

	w = f.do(http.MethodGet, fmt.Sprintf("/annotations/all?projectID=%d&from=30&to=40", pid), "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "wave", list[0].Text)

	w = f.do(http.MethodGet, fmt.Sprintf("/annotations/all?projectID=%d&search=later", pid), "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, later.ID, list[0].ID)
}

func TestListAnnotations_WithoutLimit(t *testing.T) {
	f := newFixture(t)
	pid := f.createProject("alice")

	for i := 0; i < 205; i++ {
		_, _, err := f.store.InsertAnnotation(t.Context(), pid, models.Timestamp(i), "note")
		require.NoError(t, err)
	}

	w := f.do(http.MethodGet, fmt.Sprintf("/annotations/all?projectID=%d", pid), "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list []models.AnnotationResponse
	decode(t, w, &list)
	require.Len(t, list, 205)
	assert.Equal(t, models.Timestamp(204), list[204].Timestamp)

	w = f.do(http.MethodGet, fmt.Sprintf("/annotations/all?projectID=%d&limit=10&offset=200", pid), "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &list)
	assert.Len(t, list, 5)
}

func TestAddAnnotation_Errors(t *testing.T) {
	f := newFixture(t)
	pid := f.createProject("alice")

	tests := []struct {
		name     string
		username string
		body     map[string]interface{}
		status   int
	}{
		{name: "missing text", username: "alice", body: map[string]interface{}{"timestamp": 1, "projectID": pid}, status: http.StatusBadRequest},
		{name: "timestamp out of range", username: "alice", body: map[string]interface{}{"timestamp": 1e300, "text": "x", "projectID": pid}, status: http.StatusBadRequest},
		{name: "blank text", username: "alice", body: map[string]interface{}{"timestamp": 1, "text": "  ", "projectID": pid}, status: http.StatusBadRequest},
		{name: "missing timestamp", username: "alice", body: map[string]interface{}{"text": "x", "projectID": pid}, status: http.StatusBadRequest},
		{name: "negative timestamp", username: "alice", body: map[string]interface{}{"timestamp": -3, "text": "x", "projectID": pid}, status: http.StatusBadRequest},
		{name: "bad timestamp label", username: "alice", body: map[string]interface{}{"timestamp": "soon", "text": "x", "projectID": pid}, status: http.StatusBadRequest},
		{name: "missing project", username: "alice", body: map[string]interface{}{"timestamp": 1, "text": "x", "projectID": 999}, status: http.StatusNotFound},
		{name: "non-owner", username: "bob", body: map[string]interface{}{"timestamp": 1, "text": "x", "projectID": pid}, status: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(http.MethodPost, "/annotations/add", tt.username, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}

	list, err := f.store.ListAnnotations(t.Context(), models.AnnotationQuery{ProjectID: pid})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListAnnotations_Errors(t *testing.T) {
	f := newFixture(t)
	pid := f.createProject("alice")

	w := f.do(http.MethodGet, "/annotations/all", "alice", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodGet, fmt.Sprintf("/annotations/all?projectID=%d&from=10&to=5", pid), "alice", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodGet, fmt.Sprintf("/annotations/all?projectID=%d", pid), "bob", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(http.MethodGet, "/annotations/all?projectID=999", "alice", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEditAnnotation(t *testing.T) {
	f := newFixture(t)
	pid := f.createProject("alice")

	w := f.do(http.MethodPost, "/annotations/add", "alice",
		map[string]interface{}{"timestamp": 31, "text": "wave", "projectID": pid})
	require.Equal(t, http.StatusCreated, w.Code)
	var wave models.AnnotationResponse
	decode(t, w, &wave)

	w = f.do(http.MethodPut, "/annotations/edit", "bob",
		map[string]interface{}{"id": wave.ID, "text": "mine now", "projectID": pid})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(http.MethodPut, "/annotations/edit", "alice",
		map[string]interface{}{"id": 999, "text": "nothing", "projectID": pid})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(http.MethodPut, "/annotations/edit", "alice",
		map[string]interface{}{"id": wave.ID, "text": "big wave", "projectID": pid})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{}`, w.Body.String())

	a, err := f.store.GetAnnotation(t.Context(), wave.ID)
	require.NoError(t, err)
	assert.Equal(t, "big wave", a.Text)
	assert.Equal(t, models.Timestamp(31), a.Timestamp)
}

func TestDeleteAnnotation(t *testing.T) {
	f := newFixture(t)
	pid := f.createProject("alice")

	w := f.do(http.MethodPost, "/annotations/add", "alice",
		map[string]interface{}{"timestamp": 1, "text": "wave", "projectID": pid})
	require.Equal(t, http.StatusCreated, w.Code)
	var wave models.AnnotationResponse
	decode(t, w, &wave)

	w = f.do(http.MethodDelete, "/annotations/delete", "alice", map[string]interface{}{"id": 999})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Annotation not found or not deleted"}`, w.Body.String())

	w = f.do(http.MethodDelete, "/annotations/delete", "bob", map[string]interface{}{"id": wave.ID})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(http.MethodDelete, "/annotations/delete", "alice", map[string]interface{}{"id": wave.ID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Annotation deleted"}`, w.Body.String())

	_, err := f.store.GetAnnotation(t.Context(), wave.ID)
	assert.Error(t, err)
}

func TestBeachTripScenario(t *testing.T) {
	f := newFixture(t)
	pid := f.createProject("alice")

	w := f.do(http.MethodPut, "/projects/edit-project-name", "alice",
		map[string]interface{}{"projectName": "Beach Trip", "pid": pid})
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodPost, "/annotations/add", "alice",
		map[string]interface{}{"timestamp": "00:31", "text": "wave", "projectID": pid})
	require.Equal(t, http.StatusCreated, w.Code)
	var wave models.AnnotationResponse
	decode(t, w, &wave)

	w = f.do(http.MethodPut, "/annotations/edit", "alice",
		map[string]interface{}{"id": wave.ID, "text": "big wave", "projectID": pid})
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodGet, fmt.Sprintf("/annotations/all?projectID=%d", pid), "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, fmt.Sprintf(
		`[{"id":%d,"projectID":%d,"timestamp":31,"label":"00:31","text":"big wave"}]`,
		wave.ID, pid), w.Body.String())

	w = f.do(http.MethodDelete, fmt.Sprintf("/projects/delete-project/%d", pid), "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodGet, "/projects/home", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = f.do(http.MethodGet, fmt.Sprintf("/projects/load-project/%d", pid), "alice", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
