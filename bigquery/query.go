package bigquery

import (
	"context"
	"encoding/json"
	"fmt"
)

// QueryOptions tunes a query job.
type QueryOptions struct {
	JobOptions

	// DestinationTable, when set, is resolved as a table identifier and
	// receives the query results.
	DestinationTable string

	CreateDisposition string
	WriteDisposition  string

	// Priority is "INTERACTIVE" (server default) or "BATCH".
	Priority string
}

// Query executes a SQL query as a job, returning the resulting job
// resource. The job runs synchronously when opts.Sync (or the client's Sync
// default) is set.
func (c *Client) Query(ctx context.Context, query string, opts *QueryOptions) (*Job, error) {
	if query == "" {
		return nil, &ClientError{Message: "no query string provided"}
	}
	if opts == nil {
		opts = &QueryOptions{}
	}
	qc := &QueryConfiguration{
		Query:             query,
		CreateDisposition: opts.CreateDisposition,
		WriteDisposition:  opts.WriteDisposition,
		Priority:          opts.Priority,
	}
	if c.DatasetID != "" {
		ref, err := c.GetDatasetReference("")
		if err != nil {
			return nil, err
		}
		qc.DefaultDataset = &ref
	}
	if opts.DestinationTable != "" {
		ref, err := c.GetTableReference(opts.DestinationTable)
		if err != nil {
			return nil, &ClientError{Message: fmt.Sprintf(
				"invalid value %s for destination table: %v", opts.DestinationTable, err)}
		}
		qc.DestinationTable = &ref
	}
	return c.ExecuteJob(ctx, &JobConfiguration{Query: qc}, &opts.JobOptions)
}

// RunQuery runs a query job synchronously and reads back the rows of the
// destination table.
func (c *Client) RunQuery(ctx context.Context, query string, opts *QueryOptions) ([][]string, error) {
	if opts == nil {
		opts = &QueryOptions{}
	}
	o := *opts
	o.Sync = Bool(true)
	job, err := c.Query(ctx, query, &o)
	if err != nil {
		return nil, err
	}
	if job.Configuration == nil || job.Configuration.Query == nil ||
		job.Configuration.Query.DestinationTable == nil {
		return nil, &InterfaceError{Message: "query job from server is missing its destination table"}
	}
	return c.ReadTableRows(ctx, *job.Configuration.Query.DestinationTable, 0)
}

// QueryRows runs a query synchronously and maps each result row into T by
// pairing the destination table's schema field names with the row values.
// Struct fields should be tagged with column names, for example:
// `json:"created_at"`.
func QueryRows[T any](ctx context.Context, c *Client, query string, opts *QueryOptions) ([]T, error) {
	if opts == nil {
		opts = &QueryOptions{}
	}
	o := *opts
	o.Sync = Bool(true)
	job, err := c.Query(ctx, query, &o)
	if err != nil {
		return nil, err
	}
	if job.Configuration == nil || job.Configuration.Query == nil ||
		job.Configuration.Query.DestinationTable == nil {
		return nil, &InterfaceError{Message: "query job from server is missing its destination table"}
	}
	fields, rows, err := c.ReadSchemaAndRows(ctx, *job.Configuration.Query.DestinationTable, 0)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		record := make(map[string]string, len(fields))
		for i, f := range fields {
			if i < len(row) {
				record[f.Name] = row[i]
			}
		}
		b, _ := json.Marshal(record)
		var t T
		if err := json.Unmarshal(b, &t); err != nil {
			return nil, fmt.Errorf("row decoding failed: %w", err)
		}
		out = append(out, t)
	}
	return out, nil
}
