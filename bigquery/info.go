package bigquery

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ObjectInfo is a flat key/value description of a remote object, suitable
// for human-readable printing.
type ObjectInfo map[string]string

// GetObjectInfo fetches the referenced object and renders its interesting
// fields. Projects have no direct get endpoint, so they are located in the
// project list; an absent project fails with *NotFoundError.
func (c *Client) GetObjectInfo(ctx context.Context, ref Reference) (ObjectInfo, error) {
	switch ref := ref.(type) {
	case ProjectReference:
		projects, err := c.ListProjects(ctx, 0)
		if err != nil {
			return nil, err
		}
		for _, p := range projects {
			if p.ProjectReference != nil && EqualReferences(*p.ProjectReference, ref) {
				return FormatProjectInfo(p), nil
			}
		}
		return nil, &NotFoundError{ServiceError{
			Message: "Unknown " + describeReference(ref),
			Err:     ErrorProto{Reason: "notFound"},
		}}
	case DatasetReference:
		dataset, err := c.GetDataset(ctx, ref)
		if err != nil {
			return nil, err
		}
		return FormatDatasetInfo(dataset)
	case TableReference:
		table, err := c.GetTable(ctx, ref)
		if err != nil {
			return nil, err
		}
		return FormatTableInfo(table), nil
	case JobReference:
		job, err := c.GetJob(ctx, ref)
		if err != nil {
			return nil, err
		}
		return FormatJobInfo(job), nil
	}
	return nil, &ClientError{Message: fmt.Sprintf("unsupported reference type %T", ref)}
}

// FormatTime renders a second-resolution epoch timestamp in local time.
func FormatTime(secs int64) string {
	return time.Unix(secs, 0).Format("02 Jan 15:04:05")
}

// FormatJobInfo renders the interesting fields of a job resource. A DONE job
// is reported as SUCCESS or FAILURE depending on its error result.
func FormatJobInfo(job *Job) ObjectInfo {
	info := ObjectInfo{}
	if job.Statistics != nil {
		if job.Statistics.StartTime > 0 {
			info["Start Time"] = FormatTime(job.Statistics.StartTime / 1000)
		}
		if job.Statistics.EndTime > 0 && job.Statistics.StartTime > 0 {
			duration := time.Duration(job.Statistics.EndTime-job.Statistics.StartTime) * time.Millisecond
			info["Duration"] = duration.String()
		}
		if job.Statistics.TotalBytesProcessed > 0 {
			info["Bytes Processed"] = itoa64(job.Statistics.TotalBytesProcessed)
		}
	}
	if name := job.Configuration.JobTypeName(); name != "" {
		info["Job Type"] = name
	}
	if job.Status != nil {
		state := job.Status.State
		if state == StatusDone {
			if jobError(job) != nil {
				state = "FAILURE"
			} else {
				state = "SUCCESS"
			}
		}
		info["State"] = state
	}
	return info
}

// FormatProjectInfo renders the interesting fields of a project resource.
func FormatProjectInfo(project *Project) ObjectInfo {
	info := ObjectInfo{}
	if project.FriendlyName != "" {
		info["Friendly Name"] = project.FriendlyName
	}
	return info
}

// FormatDatasetInfo renders the interesting fields of a dataset resource.
func FormatDatasetInfo(dataset *Dataset) (ObjectInfo, error) {
	info := ObjectInfo{}
	if dataset.FriendlyName != "" {
		info["Friendly Name"] = dataset.FriendlyName
	}
	if dataset.Description != "" {
		info["Description"] = dataset.Description
	}
	if dataset.LastModifiedTime > 0 {
		info["Last modified"] = FormatTime(dataset.LastModifiedTime / 1000)
	}
	if len(dataset.Access) > 0 {
		acl, err := FormatACL(dataset.Access)
		if err != nil {
			return nil, err
		}
		info["ACLs"] = acl
	}
	return info, nil
}

// FormatTableInfo renders the interesting fields of a table resource.
func FormatTableInfo(table *Table) ObjectInfo {
	info := ObjectInfo{}
	if table.FriendlyName != "" {
		info["Friendly Name"] = table.FriendlyName
	}
	if table.Description != "" {
		info["Description"] = table.Description
	}
	if table.Schema != nil && len(table.Schema.Fields) > 0 {
		info["Schema"] = FormatSchema(table.Schema)
	}
	if table.NumRows > 0 {
		info["Total Rows"] = fmt.Sprintf("%d", table.NumRows)
	}
	if table.NumBytes > 0 {
		info["Total Bytes"] = itoa64(table.NumBytes)
	}
	if table.ExpirationTime > 0 {
		info["Expiration"] = FormatTime(table.ExpirationTime / 1000)
	}
	if table.LastModifiedTime > 0 {
		info["Last modified"] = FormatTime(table.LastModifiedTime / 1000)
	}
	return info
}

// FormatSchema renders a schema as an indented tree. Nested record fields
// are drawn with |- junctions, the last child with +-. Non-NULLABLE modes
// are shown as a suffix.
func FormatSchema(schema *TableSchema) string {
	var lines []string
	for _, field := range schema.Fields {
		lines = append(lines, formatSchemaField("|- ", field)...)
	}
	return strings.Join(lines, "\n")
}

func formatSchemaField(prefix string, field *TableFieldSchema) []string {
	entry := prefix + field.Name + ": " + strings.ToLower(field.Type)
	if field.Mode != "" && field.Mode != "NULLABLE" {
		entry += " (" + strings.ToLower(field.Mode) + ")"
	}
	lines := []string{entry}
	// Children of this field indent under it; the junction of the current
	// line is flattened for descendants.
	childIndent := strings.Replace(prefix, "|- ", "|  ", 1)
	childIndent = strings.Replace(childIndent, "+- ", "   ", 1)
	for i, sub := range field.Fields {
		junction := "|- "
		if i == len(field.Fields)-1 {
			junction = "+- "
		}
		lines = append(lines, formatSchemaField(childIndent+junction, sub)...)
	}
	return lines
}

// FormatACL renders dataset access entries grouped by role. Every entry must
// name exactly one principal.
func FormatACL(entries []AccessEntry) (string, error) {
	grouped := map[string][]string{}
	for _, entry := range entries {
		var principals []string
		if entry.UserByEmail != "" {
			principals = append(principals, entry.UserByEmail)
		}
		if entry.GroupByEmail != "" {
			principals = append(principals, entry.GroupByEmail)
		}
		if entry.Domain != "" {
			principals = append(principals, entry.Domain)
		}
		if entry.SpecialGroup != "" {
			principals = append(principals, entry.SpecialGroup)
		}
		if entry.AllAuthenticatedUsers {
			principals = append(principals, "allAuthenticatedUsers")
		}
		if len(principals) != 1 {
			return "", &InterfaceError{Message: fmt.Sprintf(
				"access entry must name exactly one principal, got %d", len(principals))}
		}
		role := entry.Role
		switch role {
		case "OWNER":
			role = "Owners"
		case "WRITER":
			role = "Writers"
		case "READER":
			role = "Readers"
		}
		grouped[role] = append(grouped[role], principals[0])
	}
	roles := make([]string, 0, len(grouped))
	for role := range grouped {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	var b strings.Builder
	for _, role := range roles {
		b.WriteString(role + ":\n")
		for _, principal := range grouped[role] {
			b.WriteString("  " + principal + "\n")
		}
	}
	return b.String(), nil
}
