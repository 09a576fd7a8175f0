package bigquery

import (
	"fmt"
	"io"
	"os"
	"time"
)

// WaitPrinter reports progress while the client waits on a job.
type WaitPrinter interface {
	// Print is called after every poll and at least once per sleep tick.
	Print(jobID string, elapsed time.Duration, status string)

	// Done is called exactly once when waiting ends, even when Print was
	// never called.
	Done()
}

// WaitPrinterFactory returns a fresh WaitPrinter for one WaitJob call.
type WaitPrinterFactory func() WaitPrinter

// QuietWaitPrinter prints nothing.
type QuietWaitPrinter struct{}

func (QuietWaitPrinter) Print(string, time.Duration, string) {}
func (QuietWaitPrinter) Done()                               {}

// QuietWaitPrinterFactory returns a factory of silent printers.
func QuietWaitPrinterFactory() WaitPrinterFactory {
	return func() WaitPrinter { return QuietWaitPrinter{} }
}

// VerboseWaitPrinter prints every update on a single rewritten line.
type VerboseWaitPrinter struct {
	out     io.Writer
	printed bool
}

// NewVerboseWaitPrinter writes progress to w, defaulting to stderr.
func NewVerboseWaitPrinter(w io.Writer) *VerboseWaitPrinter {
	if w == nil {
		w = os.Stderr
	}
	return &VerboseWaitPrinter{out: w}
}

func (p *VerboseWaitPrinter) Print(jobID string, elapsed time.Duration, status string) {
	p.printed = true
	fmt.Fprintf(p.out, "\rWaiting on %s ... (%ds) Current status: %-7s",
		jobID, int(elapsed/time.Second), status)
}

func (p *VerboseWaitPrinter) Done() {
	if p.printed {
		fmt.Fprintln(p.out)
	}
}

// VerboseWaitPrinterFactory returns a factory of verbose printers writing
// to w (stderr when nil).
func VerboseWaitPrinterFactory(w io.Writer) WaitPrinterFactory {
	return func() WaitPrinter { return NewVerboseWaitPrinter(w) }
}

// TransitionWaitPrinter prints only when the observed status changes. It
// tracks the last-seen status across calls and suppresses duplicates.
type TransitionWaitPrinter struct {
	VerboseWaitPrinter
	previous string
}

// NewTransitionWaitPrinter writes transitions to w, defaulting to stderr.
func NewTransitionWaitPrinter(w io.Writer) *TransitionWaitPrinter {
	return &TransitionWaitPrinter{VerboseWaitPrinter: *NewVerboseWaitPrinter(w)}
}

func (p *TransitionWaitPrinter) Print(jobID string, elapsed time.Duration, status string) {
	if status != p.previous {
		p.previous = status
		p.VerboseWaitPrinter.Print(jobID, elapsed, status)
	}
}

// TransitionWaitPrinterFactory returns a factory of transition printers
// writing to w (stderr when nil).
func TransitionWaitPrinterFactory(w io.Writer) WaitPrinterFactory {
	return func() WaitPrinter { return NewTransitionWaitPrinter(w) }
}
