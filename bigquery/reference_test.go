package bigquery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceString(t *testing.T) {
	assert.Equal(t, "p", ProjectReference{ProjectID: "p"}.String())
	assert.Equal(t, "p:d", DatasetReference{ProjectID: "p", DatasetID: "d"}.String())
	assert.Equal(t, "p:d.t",
		TableReference{ProjectID: "p", DatasetID: "d", TableID: "t"}.String())
	assert.Equal(t, "p:j", JobReference{ProjectID: "p", JobID: "j"}.String())
}

func TestCreateReferenceIgnoresExtraFields(t *testing.T) {
	fields := map[string]string{
		"projectId": "p",
		"datasetId": "d",
		"tableId":   "t",
		"kind":      "bigquery#table",
	}
	table, err := CreateTableReference(fields)
	require.NoError(t, err)
	assert.Equal(t, TableReference{ProjectID: "p", DatasetID: "d", TableID: "t"}, table)

	dataset, err := CreateDatasetReference(fields)
	require.NoError(t, err)
	assert.Equal(t, DatasetReference{ProjectID: "p", DatasetID: "d"}, dataset)

	project, err := CreateProjectReference(fields)
	require.NoError(t, err)
	assert.Equal(t, ProjectReference{ProjectID: "p"}, project)
}

func TestCreateReferenceMissingField(t *testing.T) {
	_, err := CreateTableReference(map[string]string{"projectId": "p", "datasetId": "d"})
	require.Error(t, err)
	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "tableId", missing.Field)
	assert.Equal(t, "table", missing.TypeName)

	_, err = CreateJobReference(map[string]string{"jobId": "j"})
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "projectId", missing.Field)
}

func TestDerivedReferences(t *testing.T) {
	table := TableReference{ProjectID: "p", DatasetID: "d", TableID: "t"}
	assert.Equal(t, DatasetReference{ProjectID: "p", DatasetID: "d"}, table.DatasetReference())
	assert.Equal(t, ProjectReference{ProjectID: "p"}, table.ProjectReference())
	assert.Equal(t, ProjectReference{ProjectID: "p"},
		DatasetReference{ProjectID: "p", DatasetID: "d"}.ProjectReference())
	assert.Equal(t, ProjectReference{ProjectID: "p"},
		JobReference{ProjectID: "p", JobID: "j"}.ProjectReference())
}

func TestEqualReferences(t *testing.T) {
	a := DatasetReference{ProjectID: "p", DatasetID: "d"}
	b := DatasetReference{ProjectID: "p", DatasetID: "d"}
	assert.True(t, EqualReferences(a, b))

	assert.False(t, EqualReferences(a, DatasetReference{ProjectID: "p", DatasetID: "e"}))

	// Same fields, different variants.
	assert.False(t, EqualReferences(
		ProjectReference{ProjectID: "p"},
		JobReference{ProjectID: "p", JobID: "j"},
	))

	assert.True(t, EqualReferences(nil, nil))
	assert.False(t, EqualReferences(a, nil))
}
