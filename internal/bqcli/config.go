package bqcli

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment keys for defaults.
const (
	EnvAPIURL    = "BQ_API_URL"
	EnvToken     = "BQ_ACCESS_TOKEN"
	EnvProjectID = "BQ_PROJECT_ID"
	EnvDatasetID = "BQ_DATASET_ID"
	EnvTrace     = "BQ_TRACE"

	EnvTimeoutSec  = "BQ_TIMEOUT"         // seconds, 0 means no limit
	EnvRetries     = "BQ_RETRIES"         // int
	EnvBackoffInit = "BQ_BACKOFF_INIT_MS" // ms
	EnvBackoffMax  = "BQ_BACKOFF_MAX_MS"  // ms
)

// Reasonable defaults for interactive use.
const (
	DefaultAPIURL      = "https://www.googleapis.com/bigquery/v2"
	DefaultTimeoutSec  = 0
	DefaultRetries     = 3
	DefaultBackoffInit = 300  // ms
	DefaultBackoffMax  = 3000 // ms
)

// GlobalFlags captures CLI-wide settings and defaults.
type GlobalFlags struct {
	APIURL    string
	Token     string
	ProjectID string
	DatasetID string
	Trace     string

	JobProperties properties
	Sync          bool
	Quiet         bool
	Verbose       bool

	Timeout     time.Duration
	Retries     int
	BackoffInit time.Duration
	BackoffMax  time.Duration
}

// properties collects repeated -property key=value flags.
type properties []string

func (p *properties) String() string { return strings.Join(*p, ",") }

func (p *properties) Set(v string) error {
	*p = append(*p, v)
	return nil
}

// ParseGlobalFlagsArgs binds global flags to the provided FlagSet and parses args.
func ParseGlobalFlagsArgs(fs *flag.FlagSet, args []string) GlobalFlags {
	var g GlobalFlags

	// Defaults sourced from environment variables.
	defURL := getenvDefault(EnvAPIURL, DefaultAPIURL)
	defToken := getenvDefault(EnvToken, "")
	defProject := getenvDefault(EnvProjectID, "")
	defDataset := getenvDefault(EnvDatasetID, "")
	defTrace := getenvDefault(EnvTrace, "")

	defTO := time.Duration(atoiDefault(os.Getenv(EnvTimeoutSec), DefaultTimeoutSec)) * time.Second
	defRet := atoiDefault(os.Getenv(EnvRetries), DefaultRetries)
	defBInit := durMsDefault(os.Getenv(EnvBackoffInit), time.Duration(DefaultBackoffInit)*time.Millisecond)
	defBMax := durMsDefault(os.Getenv(EnvBackoffMax), time.Duration(DefaultBackoffMax)*time.Millisecond)

	fs.StringVar(&g.APIURL, "api", defURL, "API base URL (env "+EnvAPIURL+")")
	fs.StringVar(&g.Token, "token", defToken, "OAuth2 access token (env "+EnvToken+")")
	fs.StringVar(&g.ProjectID, "project_id", defProject, "Default project id (env "+EnvProjectID+")")
	fs.StringVar(&g.DatasetID, "dataset_id", defDataset, "Default dataset id (env "+EnvDatasetID+")")
	fs.StringVar(&g.Trace, "trace", defTrace, "Trace token attached to API requests (env "+EnvTrace+")")
	fs.Var(&g.JobProperties, "property", "key=value property applied to every job (repeatable)")

	fs.BoolVar(&g.Sync, "sync", true, "Wait for job completion before returning")
	fs.BoolVar(&g.Quiet, "q", false, "Suppress job status updates")
	fs.BoolVar(&g.Verbose, "v", false, "Verbose request/response logs (token redacted)")

	timeoutSec := fs.Int("timeout", int(defTO/time.Second), "Overall timeout seconds, 0 for none (env "+EnvTimeoutSec+")")
	fs.IntVar(&g.Retries, "retries", defRet, "Max retries on 429/5xx (env "+EnvRetries+")")

	backoffInit := fs.Int("backoff-init", int(defBInit/time.Millisecond), "Initial backoff ms (env "+EnvBackoffInit+")")
	backoffMax := fs.Int("backoff-max", int(defBMax/time.Millisecond), "Max backoff ms (env "+EnvBackoffMax+")")

	fs.Parse(args)

	g.Timeout = time.Duration(*timeoutSec) * time.Second
	g.BackoffInit = time.Duration(*backoffInit) * time.Millisecond
	g.BackoffMax = time.Duration(*backoffMax) * time.Millisecond

	return g
}

// MustNonEmpty enforces required flag presence for better operator feedback.
func MustNonEmpty(val, name string) {
	if strings.TrimSpace(val) == "" {
		// Errors are printed by the command runner for consistent formatting.
		panic("missing required " + name)
	}
}

// Helpers

func getenvDefault(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func atoiDefault(s string, d int) int {
	if s == "" {
		return d
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return i
}

func durMsDefault(msStr string, d time.Duration) time.Duration {
	if msStr == "" {
		return d
	}
	ms, err := strconv.Atoi(msStr)
	if err != nil {
		return d
	}
	return time.Duration(ms) * time.Millisecond
}
