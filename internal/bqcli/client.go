package bqcli

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/yoheimuta/google-bigquery-tools/bigquery"
)

// NewClient constructs an SDK client using global flags.
func NewClient(g GlobalFlags) *bigquery.Client {
	opts := []bigquery.Option{
		bigquery.WithBaseURL(g.APIURL),
		bigquery.WithProjectID(g.ProjectID),
		bigquery.WithDatasetID(g.DatasetID),
		bigquery.WithSync(g.Sync),
		bigquery.WithRetries(g.Retries),
		bigquery.WithBackoff(g.BackoffInit, g.BackoffMax),
	}
	if g.Token != "" {
		opts = append(opts, bigquery.WithAccessToken(g.Token))
	}
	if g.Trace != "" {
		opts = append(opts, bigquery.WithTraceToken(g.Trace))
	}
	if len(g.JobProperties) > 0 {
		opts = append(opts, bigquery.WithJobProperties(g.JobProperties))
	}
	if g.Quiet {
		opts = append(opts, bigquery.WithWaitPrinterFactory(bigquery.QuietWaitPrinterFactory()))
	} else if g.Verbose {
		opts = append(opts, bigquery.WithWaitPrinterFactory(bigquery.VerboseWaitPrinterFactory(os.Stderr)))
	}
	if g.Verbose {
		l := logrus.New()
		l.SetOutput(os.Stderr)
		l.SetLevel(logrus.DebugLevel)
		opts = append(opts, bigquery.WithLogger(l))
	}
	return bigquery.New(opts...)
}

// Ctx returns a context honoring the CLI-configured timeout, if any.
func Ctx(g GlobalFlags) (context.Context, context.CancelFunc) {
	if g.Timeout > 0 {
		return context.WithTimeout(context.Background(), g.Timeout)
	}
	return context.WithCancel(context.Background())
}
