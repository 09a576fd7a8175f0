package commands

import (
	"errors"
	"flag"
	"strconv"
	"time"

	"github.com/yoheimuta/google-bigquery-tools/bigquery"
	"github.com/yoheimuta/google-bigquery-tools/internal/bqcli"
)

// RunWait blocks until a job finishes, then prints its description.
func RunWait(args []string) error {
	fs := flag.NewFlagSet("wait", flag.ContinueOnError)
	g := bqcli.ParseGlobalFlagsArgs(fs, args)

	defer func() {
		if r := recover(); r != nil {
			bqcli.Panicf("missing required flag: %v", r)
		}
	}()

	if fs.NArg() < 1 || fs.NArg() > 2 {
		return errors.New("usage: bq wait <job_id> [timeout_seconds]")
	}

	cl := bqcli.NewClient(g)
	ctx, cancel := bqcli.Ctx(g)
	defer cancel()

	ref, err := cl.GetJobReference(fs.Arg(0))
	if err != nil {
		return err
	}

	opts := &bigquery.WaitOptions{}
	if fs.NArg() == 2 {
		secs, err := strconv.Atoi(fs.Arg(1))
		if err != nil || secs < 0 {
			return errors.New("timeout must be a non-negative number of seconds")
		}
		opts.Timeout = time.Duration(secs) * time.Second
	}

	job, err := cl.WaitJob(ctx, ref, opts)
	if err != nil {
		return err
	}
	bqcli.PrintInfo(bigquery.FormatJobInfo(job))
	return nil
}
