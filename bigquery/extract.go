package bigquery

import (
	"context"
	"strings"
)

// ExtractOptions tunes an extract job.
type ExtractOptions struct {
	JobOptions

	// DestinationFormat is "CSV" or "NEWLINE_DELIMITED_JSON".
	DestinationFormat string

	// FieldDelimiter is the single-byte field delimiter of CSV output.
	FieldDelimiter string

	// PrintHeader controls whether a header row is written.
	PrintHeader *bool
}

// Extract exports the source table to the given gs:// destination URI.
func (c *Client) Extract(ctx context.Context, source TableReference, destinationURI string, opts *ExtractOptions) (*Job, error) {
	if !strings.HasPrefix(destinationURI, StorageURIPrefix) {
		return nil, &ClientError{Message: `extract only supports "gs://" URIs`}
	}
	if opts == nil {
		opts = &ExtractOptions{}
	}
	ec := &ExtractConfiguration{
		SourceTable:       &source,
		DestinationURI:    destinationURI,
		DestinationFormat: opts.DestinationFormat,
		FieldDelimiter:    opts.FieldDelimiter,
		PrintHeader:       opts.PrintHeader,
	}
	return c.ExecuteJob(ctx, &JobConfiguration{Extract: ec}, &opts.JobOptions)
}
