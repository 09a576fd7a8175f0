package bigquery

import "fmt"

// Reference is an immutable typed identifier for a remote resource. The four
// variants (project, dataset, table, job) form a closed set; call sites
// dispatch with exhaustive type switches.
type Reference interface {
	// TypeName is the resource type, e.g. "table".
	TypeName() string

	// Fields returns the required fields in stable order.
	Fields() []ReferenceField

	// String renders the canonical form, e.g. "project:dataset.table".
	String() string
}

// ReferenceField is one required name/value pair of a Reference.
type ReferenceField struct {
	Name  string
	Value string
}

// ProjectReference identifies a project.
type ProjectReference struct {
	ProjectID string `json:"projectId"`
}

// DatasetReference identifies a dataset within a project.
type DatasetReference struct {
	ProjectID string `json:"projectId"`
	DatasetID string `json:"datasetId"`
}

// TableReference identifies a table within a dataset.
type TableReference struct {
	ProjectID string `json:"projectId"`
	DatasetID string `json:"datasetId"`
	TableID   string `json:"tableId"`
}

// JobReference identifies a job within a project. ProjectID is omitted from
// JSON when empty so that job inserts may let the server fill it in.
type JobReference struct {
	ProjectID string `json:"projectId,omitempty"`
	JobID     string `json:"jobId"`
}

func (r ProjectReference) TypeName() string { return "project" }
func (r DatasetReference) TypeName() string { return "dataset" }
func (r TableReference) TypeName() string   { return "table" }
func (r JobReference) TypeName() string     { return "job" }

func (r ProjectReference) Fields() []ReferenceField {
	return []ReferenceField{{"projectId", r.ProjectID}}
}

func (r DatasetReference) Fields() []ReferenceField {
	return []ReferenceField{{"projectId", r.ProjectID}, {"datasetId", r.DatasetID}}
}

func (r TableReference) Fields() []ReferenceField {
	return []ReferenceField{
		{"projectId", r.ProjectID}, {"datasetId", r.DatasetID}, {"tableId", r.TableID},
	}
}

func (r JobReference) Fields() []ReferenceField {
	return []ReferenceField{{"projectId", r.ProjectID}, {"jobId", r.JobID}}
}

func (r ProjectReference) String() string { return r.ProjectID }
func (r DatasetReference) String() string { return r.ProjectID + ":" + r.DatasetID }
func (r TableReference) String() string {
	return r.ProjectID + ":" + r.DatasetID + "." + r.TableID
}
func (r JobReference) String() string { return r.ProjectID + ":" + r.JobID }

// ProjectReference returns the parent project of the dataset.
func (r DatasetReference) ProjectReference() ProjectReference {
	return ProjectReference{ProjectID: r.ProjectID}
}

// DatasetReference returns the parent dataset of the table.
func (r TableReference) DatasetReference() DatasetReference {
	return DatasetReference{ProjectID: r.ProjectID, DatasetID: r.DatasetID}
}

// ProjectReference returns the parent project of the table.
func (r TableReference) ProjectReference() ProjectReference {
	return ProjectReference{ProjectID: r.ProjectID}
}

// ProjectReference returns the project that owns the job.
func (r JobReference) ProjectReference() ProjectReference {
	return ProjectReference{ProjectID: r.ProjectID}
}

// MissingFieldError reports a reference factory call that lacked a required
// field.
type MissingFieldError struct {
	Field    string
	TypeName string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %s for %s reference", e.Field, e.TypeName)
}

// The Create*Reference factories accept a superset of named fields and
// extract only the required subset, so a reference can be built directly
// from a decoded server object that carries extra keys.

// CreateProjectReference builds a ProjectReference from named fields.
func CreateProjectReference(fields map[string]string) (ProjectReference, error) {
	r := ProjectReference{ProjectID: fields["projectId"]}
	return r, validateFields(r)
}

// CreateDatasetReference builds a DatasetReference from named fields.
func CreateDatasetReference(fields map[string]string) (DatasetReference, error) {
	r := DatasetReference{ProjectID: fields["projectId"], DatasetID: fields["datasetId"]}
	return r, validateFields(r)
}

// CreateTableReference builds a TableReference from named fields.
func CreateTableReference(fields map[string]string) (TableReference, error) {
	r := TableReference{
		ProjectID: fields["projectId"],
		DatasetID: fields["datasetId"],
		TableID:   fields["tableId"],
	}
	return r, validateFields(r)
}

// CreateJobReference builds a JobReference from named fields.
func CreateJobReference(fields map[string]string) (JobReference, error) {
	r := JobReference{ProjectID: fields["projectId"], JobID: fields["jobId"]}
	return r, validateFields(r)
}

func validateFields(r Reference) error {
	for _, f := range r.Fields() {
		if f.Value == "" {
			return &MissingFieldError{Field: f.Name, TypeName: r.TypeName()}
		}
	}
	return nil
}

// EqualReferences reports whether a and b are the same variant with equal
// required fields. References of different variants are never equal.
func EqualReferences(a, b Reference) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.TypeName() != b.TypeName() {
		return false
	}
	af, bf := a.Fields(), b.Fields()
	for i := range af {
		if af[i] != bf[i] {
			return false
		}
	}
	return true
}

func describeReference(r Reference) string {
	return fmt.Sprintf("%s '%s'", r.TypeName(), r)
}
