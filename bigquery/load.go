package bigquery

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// StorageURIPrefix marks remote storage sources and destinations.
const StorageURIPrefix = "gs://"

// LoadOptions tunes a load job.
type LoadOptions struct {
	JobOptions

	// Schema of the created table, as accepted by ReadSchema. May be left
	// empty for append operations.
	Schema string

	CreateDisposition string
	WriteDisposition  string

	// FieldDelimiter is the single-byte field delimiter of CSV input.
	FieldDelimiter string

	// SkipLeadingRows is the number of initial data rows to skip.
	SkipLeadingRows *int64

	// Encoding is "UTF-8" (server default) or "ISO-8859-1".
	Encoding string

	// Quote is the quote character; the server defaults to '"'.
	Quote *string

	// MaxBadRecords bounds how many bad records are tolerated before the
	// job aborts.
	MaxBadRecords *int64

	// AllowQuotedNewlines permits quoted newlines in CSV input.
	AllowQuotedNewlines *bool

	// SourceFormat is "CSV", "NEWLINE_DELIMITED_JSON" or
	// "DATASTORE_BACKUP".
	SourceFormat string
}

// ProcessSources splits a comma-separated source string into trimmed
// tokens: either a list of gs:// URIs (all tokens must carry the prefix if
// any does) or a single local file path that must exist and be a regular
// file.
func ProcessSources(sourceString string) ([]string, error) {
	sources := strings.Split(sourceString, ",")
	for i := range sources {
		sources[i] = strings.TrimSpace(sources[i])
	}
	var remote int
	for _, s := range sources {
		if strings.HasPrefix(s, StorageURIPrefix) {
			remote++
		}
	}
	if remote > 0 {
		if remote != len(sources) {
			return nil, &ClientError{Message: fmt.Sprintf(
				`all URIs must begin with %q if any do`, StorageURIPrefix)}
		}
		return sources, nil
	}
	if len(sources) > 1 {
		return nil, &ClientError{Message: fmt.Sprintf(
			"local upload currently supports only one file, found %d", len(sources))}
	}
	source := sources[0]
	st, err := os.Stat(source)
	if err != nil {
		return nil, &ClientError{Message: "source file not found: " + source}
	}
	if !st.Mode().IsRegular() {
		return nil, &ClientError{Message: "source path is not a file: " + source}
	}
	return sources, nil
}

// Load loads the given source data into the destination table. Remote
// gs:// sources are referenced in the configuration; a local file is
// attached as a resumable media upload.
func (c *Client) Load(ctx context.Context, destination TableReference, source string, opts *LoadOptions) (*Job, error) {
	if opts == nil {
		opts = &LoadOptions{}
	}
	lc := &LoadConfiguration{
		DestinationTable:    &destination,
		CreateDisposition:   opts.CreateDisposition,
		WriteDisposition:    opts.WriteDisposition,
		FieldDelimiter:      opts.FieldDelimiter,
		SkipLeadingRows:     opts.SkipLeadingRows,
		Encoding:            opts.Encoding,
		Quote:               opts.Quote,
		MaxBadRecords:       opts.MaxBadRecords,
		AllowQuotedNewlines: opts.AllowQuotedNewlines,
		SourceFormat:        opts.SourceFormat,
	}
	sources, err := ProcessSources(source)
	if err != nil {
		return nil, err
	}
	jobOpts := opts.JobOptions
	if strings.HasPrefix(sources[0], StorageURIPrefix) {
		lc.SourceURIs = sources
	} else {
		jobOpts.UploadFile = sources[0]
	}
	if opts.Schema != "" {
		fields, err := ReadSchema(opts.Schema)
		if err != nil {
			return nil, err
		}
		lc.Schema = &TableSchema{Fields: fields}
	}
	return c.ExecuteJob(ctx, &JobConfiguration{Load: lc}, &jobOpts)
}
