package commands

import (
	"errors"
	"flag"
	"fmt"

	"github.com/yoheimuta/google-bigquery-tools/bigquery"
	"github.com/yoheimuta/google-bigquery-tools/internal/bqcli"
)

// RunCopy copies a source table to a destination table.
func RunCopy(args []string) error {
	fs := flag.NewFlagSet("cp", flag.ContinueOnError)
	createDisp := fs.String("create_disposition", "", "CREATE_IF_NEEDED or CREATE_NEVER")
	writeDisp := fs.String("write_disposition", "", "WRITE_APPEND, WRITE_TRUNCATE or WRITE_EMPTY")
	ignoreExisting := fs.Bool("ignore_already_exists", false, "Succeed silently when the destination exists")
	jobID := fs.String("job_id", "", "Caller-chosen job id")
	g := bqcli.ParseGlobalFlagsArgs(fs, args)

	defer func() {
		if r := recover(); r != nil {
			bqcli.Panicf("missing required flag: %v", r)
		}
	}()

	if fs.NArg() != 2 {
		return errors.New("usage: bq cp [flags] <source_table> <dest_table>")
	}

	cl := bqcli.NewClient(g)
	ctx, cancel := bqcli.Ctx(g)
	defer cancel()

	source, err := cl.GetTableReference(fs.Arg(0))
	if err != nil {
		return err
	}
	dest, err := cl.GetTableReference(fs.Arg(1))
	if err != nil {
		return err
	}

	opts := &bigquery.CopyOptions{
		CreateDisposition:   *createDisp,
		WriteDisposition:    *writeDisp,
		IgnoreAlreadyExists: *ignoreExisting,
	}
	opts.JobID = *jobID

	job, err := cl.CopyTable(ctx, source, dest, opts)
	if err != nil {
		return err
	}
	if job == nil {
		fmt.Printf("Table %s already exists, skipping\n", dest)
		return nil
	}
	reportJob(job, g.Sync)
	return nil
}
