package commands

import (
	"errors"
	"flag"
	"fmt"

	"github.com/yoheimuta/google-bigquery-tools/bigquery"
	"github.com/yoheimuta/google-bigquery-tools/internal/bqcli"
)

// RunMake creates a dataset or table.
func RunMake(args []string) error {
	fs := flag.NewFlagSet("mk", flag.ContinueOnError)
	asTable := fs.Bool("t", false, "Force the identifier to be read as a table")
	schema := fs.String("schema", "", "Table schema: filename or comma-separated name[:type] list")
	description := fs.String("description", "", "Description of the dataset or table")
	friendlyName := fs.String("friendly_name", "", "Friendly name of the dataset or table")
	expiration := fs.Int64("expiration", 0, "Table expiration, ms since the epoch")
	force := fs.Bool("f", false, "Succeed silently when the object already exists")
	g := bqcli.ParseGlobalFlagsArgs(fs, args)

	defer func() {
		if r := recover(); r != nil {
			bqcli.Panicf("missing required flag: %v", r)
		}
	}()

	if fs.NArg() != 1 {
		return errors.New("usage: bq mk [-t] [flags] <identifier>")
	}
	identifier := fs.Arg(0)

	cl := bqcli.NewClient(g)
	ctx, cancel := bqcli.Ctx(g)
	defer cancel()

	var ref bigquery.Reference
	var err error
	if *asTable {
		ref, err = cl.GetTableReference(identifier)
	} else {
		ref, err = cl.GetReference(identifier)
	}
	if err != nil {
		return err
	}

	switch ref := ref.(type) {
	case bigquery.DatasetReference:
		opts := &bigquery.DatasetOptions{IgnoreExisting: *force}
		if *description != "" {
			opts.Description = description
		}
		if *friendlyName != "" {
			opts.FriendlyName = friendlyName
		}
		if err := cl.CreateDataset(ctx, ref, opts); err != nil {
			return err
		}
		fmt.Printf("Dataset %s successfully created\n", ref)
	case bigquery.TableReference:
		opts := &bigquery.TableOptions{
			Schema:         *schema,
			IgnoreExisting: *force,
		}
		if *description != "" {
			opts.Description = description
		}
		if *friendlyName != "" {
			opts.FriendlyName = friendlyName
		}
		if *expiration > 0 {
			opts.ExpirationTime = bigquery.Int64(*expiration)
		}
		if err := cl.CreateTable(ctx, ref, opts); err != nil {
			return err
		}
		fmt.Printf("Table %s successfully created\n", ref)
	default:
		return fmt.Errorf("cannot create %s", ref)
	}
	return nil
}
