package commands

import (
	"errors"
	"flag"
	"fmt"

	"github.com/yoheimuta/google-bigquery-tools/bigquery"
	"github.com/yoheimuta/google-bigquery-tools/internal/bqcli"
)

// RunRemove deletes a dataset or table.
func RunRemove(args []string) error {
	fs := flag.NewFlagSet("rm", flag.ContinueOnError)
	asTable := fs.Bool("t", false, "Force the identifier to be read as a table")
	asDataset := fs.Bool("d", false, "Force the identifier to be read as a dataset")
	force := fs.Bool("f", false, "Succeed silently when the object does not exist")
	recursive := fs.Bool("r", false, "Remove a dataset together with its tables")
	g := bqcli.ParseGlobalFlagsArgs(fs, args)

	defer func() {
		if r := recover(); r != nil {
			bqcli.Panicf("missing required flag: %v", r)
		}
	}()

	if *asTable && *asDataset {
		return errors.New("-t and -d are mutually exclusive")
	}
	if fs.NArg() != 1 {
		return errors.New("usage: bq rm [-t|-d] [-f] [-r] <identifier>")
	}
	identifier := fs.Arg(0)

	cl := bqcli.NewClient(g)
	ctx, cancel := bqcli.Ctx(g)
	defer cancel()

	var ref bigquery.Reference
	var err error
	switch {
	case *asTable:
		ref, err = cl.GetTableReference(identifier)
	case *asDataset:
		ref, err = cl.GetDatasetReference(identifier)
	default:
		ref, err = cl.GetReference(identifier)
	}
	if err != nil {
		return err
	}

	switch ref := ref.(type) {
	case bigquery.DatasetReference:
		if err := cl.DeleteDataset(ctx, ref, *force, *recursive); err != nil {
			return err
		}
		fmt.Printf("Dataset %s successfully deleted\n", ref)
	case bigquery.TableReference:
		if err := cl.DeleteTable(ctx, ref, *force); err != nil {
			return err
		}
		fmt.Printf("Table %s successfully deleted\n", ref)
	default:
		return fmt.Errorf("cannot delete %s", ref)
	}
	return nil
}
