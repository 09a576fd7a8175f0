package main

import (
	"fmt"
	"os"

	"github.com/yoheimuta/google-bigquery-tools/internal/bqcli"
	"github.com/yoheimuta/google-bigquery-tools/internal/bqcli/commands"
)

// Entry point for the bq command line client.
func main() {
	if len(os.Args) < 2 {
		bqcli.PrintGlobalUsage("bq")
		os.Exit(2)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "help", "-h", "--help":
		bqcli.PrintGlobalUsage("bq")
		return

	case "query":
		if err := commands.RunQuery(args); err != nil {
			fail(err)
		}
	case "load":
		if err := commands.RunLoad(args); err != nil {
			fail(err)
		}
	case "extract":
		if err := commands.RunExtract(args); err != nil {
			fail(err)
		}
	case "cp":
		if err := commands.RunCopy(args); err != nil {
			fail(err)
		}
	case "show":
		if err := commands.RunShow(args); err != nil {
			fail(err)
		}
	case "ls":
		if err := commands.RunList(args); err != nil {
			fail(err)
		}
	case "mk":
		if err := commands.RunMake(args); err != nil {
			fail(err)
		}
	case "rm":
		if err := commands.RunRemove(args); err != nil {
			fail(err)
		}
	case "wait":
		if err := commands.RunWait(args); err != nil {
			fail(err)
		}

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		bqcli.PrintGlobalUsage("bq")
		os.Exit(2)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
