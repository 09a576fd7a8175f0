package commands

import (
	"errors"
	"flag"

	"github.com/yoheimuta/google-bigquery-tools/internal/bqcli"
)

// RunShow prints information about a project, dataset, table, or job.
func RunShow(args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	asJob := fs.Bool("j", false, "Read the identifier as a job id")
	asJSON := fs.Bool("json", false, "Print raw JSON instead of formatted fields")
	g := bqcli.ParseGlobalFlagsArgs(fs, args)

	defer func() {
		if r := recover(); r != nil {
			bqcli.Panicf("missing required flag: %v", r)
		}
	}()

	if fs.NArg() != 1 {
		return errors.New("usage: bq show [-j] <identifier>")
	}
	identifier := fs.Arg(0)

	cl := bqcli.NewClient(g)
	ctx, cancel := bqcli.Ctx(g)
	defer cancel()

	if *asJob {
		ref, err := cl.GetJobReference(identifier)
		if err != nil {
			return err
		}
		if *asJSON {
			job, err := cl.GetJob(ctx, ref)
			if err != nil {
				return err
			}
			bqcli.PrintJSON(job)
			return nil
		}
		info, err := cl.GetObjectInfo(ctx, ref)
		if err != nil {
			return err
		}
		bqcli.PrintInfo(info)
		return nil
	}

	ref, err := cl.GetReference(identifier)
	if err != nil {
		return err
	}
	info, err := cl.GetObjectInfo(ctx, ref)
	if err != nil {
		return err
	}
	bqcli.PrintInfo(info)
	return nil
}
