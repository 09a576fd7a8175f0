package commands

import (
	"errors"
	"flag"

	"github.com/yoheimuta/google-bigquery-tools/bigquery"
	"github.com/yoheimuta/google-bigquery-tools/internal/bqcli"
)

// RunExtract exports a table to a gs:// URI.
func RunExtract(args []string) error {
	fs := flag.NewFlagSet("extract", flag.ContinueOnError)
	format := fs.String("destination_format", "", "CSV or NEWLINE_DELIMITED_JSON")
	delimiter := fs.String("field_delimiter", "", "Field delimiter of CSV output")
	noHeader := fs.Bool("noprint_header", false, "Omit the header row from CSV output")
	jobID := fs.String("job_id", "", "Caller-chosen job id")
	g := bqcli.ParseGlobalFlagsArgs(fs, args)

	defer func() {
		if r := recover(); r != nil {
			bqcli.Panicf("missing required flag: %v", r)
		}
	}()

	if fs.NArg() != 2 {
		return errors.New("usage: bq extract [flags] <source_table> <gs://uri>")
	}

	cl := bqcli.NewClient(g)
	ctx, cancel := bqcli.Ctx(g)
	defer cancel()

	source, err := cl.GetTableReference(fs.Arg(0))
	if err != nil {
		return err
	}

	opts := &bigquery.ExtractOptions{
		DestinationFormat: *format,
		FieldDelimiter:    *delimiter,
	}
	opts.JobID = *jobID
	if *noHeader {
		opts.PrintHeader = bigquery.Bool(false)
	}

	job, err := cl.Extract(ctx, source, fs.Arg(1), opts)
	if err != nil {
		return err
	}
	reportJob(job, g.Sync)
	return nil
}
