package bigquery

import (
	"regexp"
	"strings"
)

// Domain-scoped project ids such as "example.com:proj" contain a colon of
// their own, which would otherwise be read as a project:dataset separator.
var domainScopedProjectRe = regexp.MustCompile(`^\w[\w.]*\.[\w.]+:\w[\w-]*:?$`)

// parseIdentifier splits an identifier into a loosely-typed
// (projectID, datasetID, tableID) triple without validating the parts;
// missing parts are returned as "". The interpretation of the triple depends
// on the caller: a bare token lands in the table slot even when the caller
// is looking for a job or dataset id.
func parseIdentifier(identifier string) (projectID, datasetID, tableID string) {
	if domainScopedProjectRe.MatchString(identifier) {
		return identifier, "", ""
	}
	projectID, rest := rpartition(identifier, ":")
	if projectID != "" {
		datasetID, tableID = partition(rest, ".")
	} else {
		datasetID, tableID = rpartition(rest, ".")
	}
	return projectID, datasetID, tableID
}

// partition splits s around the first occurrence of sep; when sep is absent
// the whole string lands in head.
func partition(s, sep string) (head, tail string) {
	if i := strings.Index(s, sep); i >= 0 {
		return s[:i], s[i+len(sep):]
	}
	return s, ""
}

// rpartition splits s around the last occurrence of sep; when sep is absent
// the whole string lands in tail.
func rpartition(s, sep string) (head, tail string) {
	if i := strings.LastIndex(s, sep); i >= 0 {
		return s[:i], s[i+len(sep):]
	}
	return "", s
}

// GetProjectReference determines a ProjectReference from an identifier and
// the client's default project.
func (c *Client) GetProjectReference(identifier string) (ProjectReference, error) {
	projectID, datasetID, tableID := parseIdentifier(identifier)
	// A bare identifier parses into the table slot, but here it names a
	// project.
	if projectID == "" {
		projectID = tableID
	}
	if projectID == "" {
		projectID = c.ProjectID
	}
	if datasetID == "" && projectID != "" {
		return ProjectReference{ProjectID: projectID}, nil
	}
	return ProjectReference{}, &ClientError{
		Message: "cannot determine project described by " + identifier,
	}
}

// GetDatasetReference determines a DatasetReference from an identifier and
// the client's defaults. Accepted shapes are "foo", "foo:bar" and "".
func (c *Client) GetDatasetReference(identifier string) (DatasetReference, error) {
	projectID, datasetID, tableID := parseIdentifier(identifier)
	cannot := &ClientError{Message: "cannot determine dataset described by " + identifier}
	switch {
	case tableID != "" && projectID == "" && datasetID == "":
		// identifier is "foo"
		projectID = c.ProjectID
		datasetID = tableID
	case projectID != "" && datasetID != "" && tableID == "":
		// identifier is "foo:bar"
	case identifier == "":
		projectID = c.ProjectID
		datasetID = c.DatasetID
	default:
		return DatasetReference{}, cannot
	}
	ref, err := CreateDatasetReference(map[string]string{
		"projectId": projectID,
		"datasetId": datasetID,
	})
	if err != nil {
		return DatasetReference{}, cannot
	}
	return ref, nil
}

// GetTableReference determines a TableReference from an identifier, filling
// missing parts from the client's defaults.
func (c *Client) GetTableReference(identifier string) (TableReference, error) {
	projectID, datasetID, tableID := parseIdentifier(identifier)
	if projectID == "" {
		projectID = c.ProjectID
	}
	if datasetID == "" {
		datasetID = c.DatasetID
	}
	ref, err := CreateTableReference(map[string]string{
		"projectId": projectID,
		"datasetId": datasetID,
		"tableId":   tableID,
	})
	if err != nil {
		return TableReference{}, &ClientError{
			Message: "cannot determine table described by " + identifier,
		}
	}
	return ref, nil
}

// GetJobReference determines a JobReference from an identifier and the
// client's default project. Accepted shapes are "foo" and "foo:bar".
func (c *Client) GetJobReference(identifier string) (JobReference, error) {
	projectID, datasetID, tableID := parseIdentifier(identifier)
	var jobID string
	switch {
	case tableID != "" && projectID == "" && datasetID == "":
		// identifier is "foo"
		projectID = c.ProjectID
		jobID = tableID
	case projectID != "" && datasetID != "" && tableID == "":
		// identifier is "foo:bar"
		jobID = datasetID
	}
	if jobID != "" {
		ref, err := CreateJobReference(map[string]string{
			"projectId": projectID,
			"jobId":     jobID,
		})
		if err == nil {
			return ref, nil
		}
	}
	return JobReference{}, &ClientError{
		Message: "cannot determine job described by " + identifier,
	}
}

// GetReference deduces a project, dataset, or table reference from a string.
// An unqualified identifier is read as the most specific resource type
// first: table, then dataset, then project.
func (c *Client) GetReference(identifier string) (Reference, error) {
	if ref, err := c.GetTableReference(identifier); err == nil {
		return ref, nil
	}
	if ref, err := c.GetDatasetReference(identifier); err == nil {
		return ref, nil
	}
	if ref, err := c.GetProjectReference(identifier); err == nil {
		return ref, nil
	}
	return nil, &ClientError{
		Message: `cannot determine reference for "` + identifier + `"`,
	}
}
