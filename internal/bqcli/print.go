package bqcli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/yoheimuta/google-bigquery-tools/bigquery"
)

// PrintJSON prints a value as pretty-printed JSON.
func PrintJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

// PrintInfo prints an object description as aligned key: value lines in
// stable key order. Multi-line values start on their own line.
func PrintInfo(info bigquery.ObjectInfo) {
	keys := make([]string, 0, len(info))
	for k := range info {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := info[k]
		if strings.Contains(v, "\n") {
			fmt.Printf("%s:\n%s\n", k, v)
		} else {
			fmt.Printf("%-16s %s\n", k+":", v)
		}
	}
}

// PrintGlobalUsage renders the top-level usage text.
func PrintGlobalUsage(bin string) {
	fmt.Println(bin + ` - command line client for the BigQuery v2 API

USAGE:
  ` + bin + ` <command> [flags] [args]

GLOBAL FLAGS (env defaults shown in []):
  -api           	API base URL [` + getenvDefault(EnvAPIURL, DefaultAPIURL) + `]
  -token         	OAuth2 access token [` + getenvDefault(EnvToken, "") + `]
  -project_id    	Default project id [` + getenvDefault(EnvProjectID, "") + `]
  -dataset_id    	Default dataset id [` + getenvDefault(EnvDatasetID, "") + `]
  -trace         	Trace token attached to requests
  -property      	key=value applied to every job (repeatable)
  -sync          	Wait for job completion (default true)
  -q             	Suppress job status updates
  -v             	Verbose logs
  -timeout       	Overall timeout seconds, 0 for none [` + getenvDefault(EnvTimeoutSec, "0") + `]
  -retries       	Retries on 429/5xx [` + getenvDefault(EnvRetries, "3") + `]

COMMANDS:
  query      	-destination_table t [-priority BATCH] "SELECT ..."
  load       	[-schema s] [-source_format f] <dest_table> <source>
  extract    	[-destination_format f] <source_table> <gs://uri>
  cp         	[-ignore_already_exists] <source_table> <dest_table>
  show       	[-j] <identifier>
  ls         	[-j|-p] [-n max] [identifier]
  mk         	[-t] [-schema s] [-description d] <identifier>
  rm         	[-t|-d] [-f] [-r] <identifier>
  wait       	<job_id> [timeout_seconds]

EXAMPLES:
  ` + bin + ` query 'SELECT COUNT(*) FROM ds.tbl'
  ` + bin + ` load -schema 'id:integer,name' ds.tbl gs://bucket/data.csv
  ` + bin + ` extract ds.tbl gs://bucket/out.csv
  ` + bin + ` cp ds.tbl ds.tbl_backup
  ` + bin + ` show ds.tbl
  ` + bin + ` ls -j -n 10
  ` + bin + ` mk -t -schema 'id:integer' ds.newtbl
  ` + bin + ` rm -t -f ds.oldtbl
  ` + bin + ` wait bqjob_abc123 60
`)
}

// Panicf is a small helper for required flag validation in subcommands.
func Panicf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format, a...)
	fmt.Fprintln(os.Stderr)
	os.Exit(2)
}
