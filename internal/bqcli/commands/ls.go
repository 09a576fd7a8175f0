package commands

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/yoheimuta/google-bigquery-tools/bigquery"
	"github.com/yoheimuta/google-bigquery-tools/internal/bqcli"
)

// RunList lists projects, jobs, datasets, or the tables of a dataset.
func RunList(args []string) error {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	listJobs := fs.Bool("j", false, "List jobs in the project")
	listProjects := fs.Bool("p", false, "List accessible projects")
	maxResults := fs.Int64("n", 0, "Maximum results, 0 for server default")
	stateFilter := fs.String("state_filter", "", "Comma-separated job states, e.g. pending,running")
	g := bqcli.ParseGlobalFlagsArgs(fs, args)

	defer func() {
		if r := recover(); r != nil {
			bqcli.Panicf("missing required flag: %v", r)
		}
	}()

	cl := bqcli.NewClient(g)
	ctx, cancel := bqcli.Ctx(g)
	defer cancel()

	switch {
	case *listProjects:
		refs, err := cl.ListProjectRefs(ctx, *maxResults)
		if err != nil {
			return err
		}
		printRefs(refs)
		return nil

	case *listJobs:
		var filter []string
		if *stateFilter != "" {
			filter = strings.Split(*stateFilter, ",")
		}
		refs, err := cl.ListJobRefs(ctx, nil, *maxResults, filter)
		if err != nil {
			return err
		}
		printRefs(refs)
		return nil
	}

	// Without an identifier, list the datasets of the default project;
	// with one, list the tables of that dataset.
	if fs.NArg() == 0 {
		refs, err := cl.ListDatasetRefs(ctx, nil, *maxResults)
		if err != nil {
			return err
		}
		printRefs(refs)
		return nil
	}
	if fs.NArg() != 1 {
		return errors.New("usage: bq ls [-j|-p] [-n max] [identifier]")
	}

	ref, err := cl.GetReference(fs.Arg(0))
	if err != nil {
		return err
	}
	switch ref := ref.(type) {
	case bigquery.ProjectReference:
		refs, err := cl.ListDatasetRefs(ctx, &ref, *maxResults)
		if err != nil {
			return err
		}
		printRefs(refs)
	case bigquery.DatasetReference:
		refs, err := cl.ListTableRefs(ctx, ref, *maxResults)
		if err != nil {
			return err
		}
		printRefs(refs)
	default:
		return fmt.Errorf("cannot list the contents of %s", ref)
	}
	return nil
}

func printRefs[T bigquery.Reference](refs []T) {
	for _, r := range refs {
		fmt.Println(r)
	}
}
