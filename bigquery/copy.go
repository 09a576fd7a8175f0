package bigquery

import (
	"context"
	"errors"
)

// CopyOptions tunes a table copy job.
type CopyOptions struct {
	JobOptions

	CreateDisposition string
	WriteDisposition  string

	// IgnoreAlreadyExists swallows duplicate errors, returning a nil job.
	IgnoreAlreadyExists bool
}

// CopyTable copies the source table to the destination table. When the
// write disposition forbids overwriting and the destination exists, the
// call fails with *DuplicateError unless opts.IgnoreAlreadyExists is set.
func (c *Client) CopyTable(ctx context.Context, source, destination TableReference, opts *CopyOptions) (*Job, error) {
	if opts == nil {
		opts = &CopyOptions{}
	}
	cc := &CopyConfiguration{
		SourceTable:       &source,
		DestinationTable:  &destination,
		CreateDisposition: opts.CreateDisposition,
		WriteDisposition:  opts.WriteDisposition,
	}
	job, err := c.ExecuteJob(ctx, &JobConfiguration{Copy: cc}, &opts.JobOptions)
	if err != nil {
		var dup *DuplicateError
		if opts.IgnoreAlreadyExists && errors.As(err, &dup) {
			return nil, nil
		}
		return nil, err
	}
	return job, nil
}
