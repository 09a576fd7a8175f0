package commands

import (
	"errors"
	"flag"
	"fmt"

	"github.com/yoheimuta/google-bigquery-tools/bigquery"
	"github.com/yoheimuta/google-bigquery-tools/internal/bqcli"
)

// RunLoad loads local or gs:// data into a table.
func RunLoad(args []string) error {
	fs := flag.NewFlagSet("load", flag.ContinueOnError)
	schema := fs.String("schema", "", "Schema: filename or comma-separated name[:type] list")
	createDisp := fs.String("create_disposition", "", "CREATE_IF_NEEDED or CREATE_NEVER")
	writeDisp := fs.String("write_disposition", "", "WRITE_APPEND, WRITE_TRUNCATE or WRITE_EMPTY")
	delimiter := fs.String("field_delimiter", "", "Field delimiter of CSV input")
	skipRows := fs.Int64("skip_leading_rows", 0, "Initial data rows to skip")
	encoding := fs.String("encoding", "", "UTF-8 or ISO-8859-1")
	quote := fs.String("quote", "", "Quote character")
	maxBad := fs.Int64("max_bad_records", 0, "Bad records tolerated before the job aborts")
	quotedNewlines := fs.Bool("allow_quoted_newlines", false, "Permit quoted newlines in CSV input")
	sourceFormat := fs.String("source_format", "", "CSV, NEWLINE_DELIMITED_JSON or DATASTORE_BACKUP")
	jobID := fs.String("job_id", "", "Caller-chosen job id")
	g := bqcli.ParseGlobalFlagsArgs(fs, args)

	defer func() {
		if r := recover(); r != nil {
			bqcli.Panicf("missing required flag: %v", r)
		}
	}()

	if fs.NArg() != 2 {
		return errors.New("usage: bq load [flags] <dest_table> <source>")
	}

	cl := bqcli.NewClient(g)
	ctx, cancel := bqcli.Ctx(g)
	defer cancel()

	dest, err := cl.GetTableReference(fs.Arg(0))
	if err != nil {
		return err
	}

	opts := &bigquery.LoadOptions{
		Schema:            *schema,
		CreateDisposition: *createDisp,
		WriteDisposition:  *writeDisp,
		FieldDelimiter:    *delimiter,
		Encoding:          *encoding,
		SourceFormat:      *sourceFormat,
	}
	opts.JobID = *jobID
	if *skipRows > 0 {
		opts.SkipLeadingRows = bigquery.Int64(*skipRows)
	}
	if *quote != "" {
		opts.Quote = quote
	}
	if *maxBad > 0 {
		opts.MaxBadRecords = bigquery.Int64(*maxBad)
	}
	if *quotedNewlines {
		opts.AllowQuotedNewlines = bigquery.Bool(true)
	}

	job, err := cl.Load(ctx, dest, fs.Arg(1), opts)
	if err != nil {
		return err
	}
	reportJob(job, g.Sync)
	return nil
}

// reportJob prints the terse one-line outcome of a job command.
func reportJob(job *bigquery.Job, sync bool) {
	if job == nil || job.JobReference == nil {
		return
	}
	if sync {
		fmt.Printf("Successfully completed %s\n", job.JobReference)
	} else {
		fmt.Printf("Started %s\n", job.JobReference)
	}
}
