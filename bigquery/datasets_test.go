package bigquery

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func notFoundError(what string) *NotFoundError {
	return &NotFoundError{ServiceError{
		Message: "Not found: " + what,
		Err:     ErrorProto{Reason: "notFound"},
	}}
}

func duplicateError(what string) *DuplicateError {
	return &DuplicateError{ServiceError{
		Message: "Already Exists: " + what,
		Err:     ErrorProto{Reason: "duplicate"},
	}}
}

func TestNormalizeProjectReference(t *testing.T) {
	c, _ := newFakeClient(t)
	ref, err := c.normalizeProjectReference(nil)
	require.NoError(t, err)
	assert.Equal(t, ProjectReference{ProjectID: "proj"}, ref)

	ref, err = c.normalizeProjectReference(&ProjectReference{ProjectID: "other"})
	require.NoError(t, err)
	assert.Equal(t, ProjectReference{ProjectID: "other"}, ref)

	bare, _ := newFakeClient(t, WithProjectID(""))
	_, err = bare.normalizeProjectReference(nil)
	var config *ConfigurationError
	require.ErrorAs(t, err, &config)
}

func TestListProjects(t *testing.T) {
	c, ft := newFakeClient(t)
	ft.respond(map[string]any{"projects": []*Project{
		{ProjectReference: &ProjectReference{ProjectID: "a"}},
		{ProjectReference: &ProjectReference{ProjectID: "b"}},
	}})

	refs, err := c.ListProjectRefs(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []ProjectReference{{ProjectID: "a"}, {ProjectID: "b"}}, refs)
	assert.Equal(t, "/projects", ft.calls[0].Path)
}

func TestListDatasets(t *testing.T) {
	c, ft := newFakeClient(t)
	ft.respond(map[string]any{"datasets": []*Dataset{
		{DatasetReference: &DatasetReference{ProjectID: "proj", DatasetID: "ds"}},
	}})

	refs, err := c.ListDatasetRefs(context.Background(), nil, 5)
	require.NoError(t, err)
	assert.Equal(t, []DatasetReference{{ProjectID: "proj", DatasetID: "ds"}}, refs)
	assert.Equal(t, "/projects/proj/datasets", ft.calls[0].Path)
	assert.Equal(t, "5", ft.calls[0].Query.Get("maxResults"))
}

func TestDatasetExists(t *testing.T) {
	c, ft := newFakeClient(t)
	ref := DatasetReference{ProjectID: "proj", DatasetID: "ds"}

	ft.respond(&Dataset{DatasetReference: &ref})
	exists, err := c.DatasetExists(context.Background(), ref)
	require.NoError(t, err)
	assert.True(t, exists)

	ft.fail(notFoundError("Dataset proj:ds"))
	exists, err = c.DatasetExists(context.Background(), ref)
	require.NoError(t, err)
	assert.False(t, exists)

	ft.fail(&CommunicationError{Message: "down"})
	_, err = c.DatasetExists(context.Background(), ref)
	assert.Error(t, err)
}

func TestCreateDataset(t *testing.T) {
	c, ft := newFakeClient(t)
	ref := DatasetReference{ProjectID: "proj", DatasetID: "ds"}
	ft.respond(nil)

	desc := "my dataset"
	err := c.CreateDataset(context.Background(), ref, &DatasetOptions{Description: &desc})
	require.NoError(t, err)

	call := ft.calls[0]
	assert.Equal(t, http.MethodPost, call.Method)
	assert.Equal(t, "/projects/proj/datasets", call.Path)
	body := call.Body.(*Dataset)
	assert.Equal(t, ref, *body.DatasetReference)
	assert.Equal(t, "my dataset", body.Description)

	// Duplicate errors are swallowed only when requested.
	ft.fail(duplicateError("Dataset proj:ds"))
	err = c.CreateDataset(context.Background(), ref, &DatasetOptions{IgnoreExisting: true})
	require.NoError(t, err)

	ft.fail(duplicateError("Dataset proj:ds"))
	err = c.CreateDataset(context.Background(), ref, nil)
	var dup *DuplicateError
	require.ErrorAs(t, err, &dup)
}

func TestUpdateDataset(t *testing.T) {
	c, ft := newFakeClient(t)
	ref := DatasetReference{ProjectID: "proj", DatasetID: "ds"}
	ft.respond(nil)

	name := "friendly"
	err := c.UpdateDataset(context.Background(), ref, &DatasetOptions{FriendlyName: &name})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, ft.calls[0].Method)
	assert.Equal(t, "/projects/proj/datasets/ds", ft.calls[0].Path)
	assert.Equal(t, "friendly", ft.calls[0].Body.(*Dataset).FriendlyName)
}

func TestDeleteDataset(t *testing.T) {
	c, ft := newFakeClient(t)
	ref := DatasetReference{ProjectID: "proj", DatasetID: "ds"}

	ft.respond(nil)
	err := c.DeleteDataset(context.Background(), ref, false, true)
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, ft.calls[0].Method)
	assert.Equal(t, "true", ft.calls[0].Query.Get("deleteContents"))

	ft.fail(notFoundError("Dataset proj:ds"))
	err = c.DeleteDataset(context.Background(), ref, true, false)
	require.NoError(t, err)

	ft.fail(notFoundError("Dataset proj:ds"))
	err = c.DeleteDataset(context.Background(), ref, false, false)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}
