package bigquery

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessSources(t *testing.T) {
	dir := t.TempDir()
	local := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(local, []byte("a\n"), 0o644))

	t.Run("remote list", func(t *testing.T) {
		sources, err := ProcessSources("gs://bucket/a , gs://bucket/b")
		require.NoError(t, err)
		assert.Equal(t, []string{"gs://bucket/a", "gs://bucket/b"}, sources)
	})

	t.Run("mixed remote and local fails", func(t *testing.T) {
		_, err := ProcessSources("gs://bucket/a," + local)
		var client *ClientError
		require.ErrorAs(t, err, &client)
		assert.Contains(t, client.Message, `must begin with "gs://"`)
	})

	t.Run("single local file", func(t *testing.T) {
		sources, err := ProcessSources(local)
		require.NoError(t, err)
		assert.Equal(t, []string{local}, sources)
	})

	t.Run("multiple local files fail", func(t *testing.T) {
		_, err := ProcessSources(local + "," + local)
		var client *ClientError
		require.ErrorAs(t, err, &client)
	})

	t.Run("missing local file fails", func(t *testing.T) {
		_, err := ProcessSources(filepath.Join(dir, "nope.csv"))
		var client *ClientError
		require.ErrorAs(t, err, &client)
		assert.Contains(t, client.Message, "not found")
	})

	t.Run("directory fails", func(t *testing.T) {
		_, err := ProcessSources(dir)
		var client *ClientError
		require.ErrorAs(t, err, &client)
	})
}

func TestLoadRemoteSources(t *testing.T) {
	c, ft := newFakeClient(t, WithSync(false))
	ref := JobReference{ProjectID: "proj", JobID: "bqjob_1"}
	ft.respond(&Job{JobReference: &ref, Status: &JobStatus{State: StatusRunning}})

	dest := TableReference{ProjectID: "proj", DatasetID: "d", TableID: "t"}
	_, err := c.Load(context.Background(), dest, "gs://bucket/a,gs://bucket/b", &LoadOptions{
		Schema:          "id:integer,name",
		SkipLeadingRows: Int64(1),
	})
	require.NoError(t, err)

	body := ft.calls[0].Body.(*Job)
	lc := body.Configuration.Load
	assert.Equal(t, []string{"gs://bucket/a", "gs://bucket/b"}, lc.SourceURIs)
	assert.Equal(t, int64(1), *lc.SkipLeadingRows)
	require.NotNil(t, lc.Schema)
	assert.Equal(t, "INTEGER", lc.Schema.Fields[0].Type)
	assert.Equal(t, "STRING", lc.Schema.Fields[1].Type)
	assert.Nil(t, ft.calls[0].Upload)
}

func TestLoadLocalFileAttachesUpload(t *testing.T) {
	local := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(local, []byte("a\n"), 0o644))

	c, ft := newFakeClient(t, WithSync(false))
	ref := JobReference{ProjectID: "proj", JobID: "bqjob_1"}
	ft.respond(&Job{JobReference: &ref, Status: &JobStatus{State: StatusRunning}})

	dest := TableReference{ProjectID: "proj", DatasetID: "d", TableID: "t"}
	_, err := c.Load(context.Background(), dest, local, nil)
	require.NoError(t, err)

	require.NotNil(t, ft.calls[0].Upload)
	assert.Equal(t, local, ft.calls[0].Upload.Path)
	assert.Nil(t, ft.calls[0].Body.(*Job).Configuration.Load.SourceURIs)
}

func TestExtractRequiresStorageURI(t *testing.T) {
	c, _ := newFakeClient(t)
	source := TableReference{ProjectID: "proj", DatasetID: "d", TableID: "t"}
	_, err := c.Extract(context.Background(), source, "/tmp/out.csv", nil)
	var client *ClientError
	require.ErrorAs(t, err, &client)
	assert.Contains(t, client.Message, "gs://")
}

func TestCopyTableIgnoreAlreadyExists(t *testing.T) {
	c, ft := newFakeClient(t, WithSync(false))
	source := TableReference{ProjectID: "proj", DatasetID: "d", TableID: "src"}
	dest := TableReference{ProjectID: "proj", DatasetID: "d", TableID: "dst"}

	dup := &DuplicateError{ServiceError{
		Message: "Already Exists: Table proj:d.dst",
		Err:     ErrorProto{Reason: "duplicate"},
	}}
	ft.fail(dup)
	job, err := c.CopyTable(context.Background(), source, dest, &CopyOptions{
		IgnoreAlreadyExists: true,
	})
	require.NoError(t, err)
	assert.Nil(t, job)

	ft.fail(dup)
	_, err = c.CopyTable(context.Background(), source, dest, nil)
	var dupErr *DuplicateError
	require.ErrorAs(t, err, &dupErr)
}
