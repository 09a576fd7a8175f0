package commands

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/yoheimuta/google-bigquery-tools/bigquery"
	"github.com/yoheimuta/google-bigquery-tools/internal/bqcli"
)

// RunQuery executes a SQL query and prints the result rows.
func RunQuery(args []string) error {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	destination := fs.String("destination_table", "", "Table the results are written to")
	createDisp := fs.String("create_disposition", "", "CREATE_IF_NEEDED or CREATE_NEVER")
	writeDisp := fs.String("write_disposition", "", "WRITE_APPEND, WRITE_TRUNCATE or WRITE_EMPTY")
	priority := fs.String("priority", "", "INTERACTIVE or BATCH")
	jobID := fs.String("job_id", "", "Caller-chosen job id")
	maxRows := fs.Int64("max_rows", 100, "Maximum result rows to print")
	g := bqcli.ParseGlobalFlagsArgs(fs, args)

	defer func() {
		if r := recover(); r != nil {
			bqcli.Panicf("missing required flag: %v", r)
		}
	}()

	query := strings.Join(fs.Args(), " ")
	if strings.TrimSpace(query) == "" {
		return errors.New("usage: bq query [flags] <sql>")
	}

	cl := bqcli.NewClient(g)
	ctx, cancel := bqcli.Ctx(g)
	defer cancel()

	opts := &bigquery.QueryOptions{
		DestinationTable:  *destination,
		CreateDisposition: *createDisp,
		WriteDisposition:  *writeDisp,
		Priority:          *priority,
	}
	opts.JobID = *jobID

	if !g.Sync {
		job, err := cl.Query(ctx, query, opts)
		if err != nil {
			return err
		}
		if job.JobReference != nil {
			fmt.Printf("Started %s\n", job.JobReference)
		}
		return nil
	}

	job, err := cl.Query(ctx, query, opts)
	if err != nil {
		return err
	}
	if job.Configuration == nil || job.Configuration.Query == nil ||
		job.Configuration.Query.DestinationTable == nil {
		return errors.New("query job is missing its destination table")
	}
	dest := *job.Configuration.Query.DestinationTable
	fields, rows, err := cl.ReadSchemaAndRows(ctx, dest, *maxRows)
	if err != nil {
		return err
	}
	printRows(fields, rows)
	return nil
}

// printRows renders rows as tab-separated lines under a header.
func printRows(fields []*bigquery.TableFieldSchema, rows [][]string) {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Name)
	}
	if len(names) > 0 {
		fmt.Println(strings.Join(names, "\t"))
	}
	for _, row := range rows {
		fmt.Println(strings.Join(row, "\t"))
	}
}
