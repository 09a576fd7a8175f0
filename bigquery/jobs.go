package bigquery

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PollSchedule describes the local sleep cadence between job polls: a burst
// of short initial ticks, a linear ramp, then a steady tail. The default
// shape is empirically tuned; the boundary values are configurable.
type PollSchedule struct {
	// InitialTicks is how many polls use InitialTick seconds of sleep.
	InitialTicks int
	InitialTick  int

	// After the initial burst the tick grows linearly from RampStart by
	// RampStep, up to but not including RampLimit.
	RampStart int
	RampLimit int
	RampStep  int

	// SteadyTick is used for every subsequent poll.
	SteadyTick int
}

// DefaultPollSchedule is 8 one-second ticks, then 2,5,...,29, then 30s
// forever.
var DefaultPollSchedule = PollSchedule{
	InitialTicks: 8,
	InitialTick:  1,
	RampStart:    2,
	RampLimit:    30,
	RampStep:     3,
	SteadyTick:   30,
}

// delay returns the sleep, in seconds, before re-polling after the n-th
// poll (n starts at zero).
func (s PollSchedule) delay(n int) int {
	if n < s.InitialTicks {
		return s.InitialTick
	}
	ramp := s.RampStart + (n-s.InitialTicks)*s.RampStep
	if ramp < s.RampLimit {
		return ramp
	}
	return s.SteadyTick
}

// NewJobID returns a unique client-side job id suitable for idempotent job
// inserts.
func NewJobID() string {
	return "bqjob_" + strings.ReplaceAll(uuid.NewString(), "-", "_")
}

// StartJob inserts a job with the given configuration and returns the
// server's initial job resource, which carries the assigned JobReference.
func (c *Client) StartJob(ctx context.Context, config *JobConfiguration, opts *JobOptions) (*Job, error) {
	if opts == nil {
		opts = &JobOptions{}
	}
	projectID := opts.ProjectID
	if projectID == "" {
		projectID = c.ProjectID
	}
	if projectID == "" {
		return nil, configurationError("cannot start a job without a project id")
	}
	cfg := *config
	if len(c.JobProperties) > 0 {
		props := make(map[string]string, len(c.JobProperties))
		for _, prop := range c.JobProperties {
			k, v := partition(prop, "=")
			props[k] = v
		}
		cfg.Properties = props
	}
	req := &Job{Configuration: &cfg}
	if opts.JobID != "" {
		req.JobReference = &JobReference{JobID: opts.JobID}
	}
	call := &Call{
		Method: http.MethodPost,
		Path:   "/projects/" + url.PathEscape(projectID) + "/jobs",
		Body:   req,
	}
	if opts.UploadFile != "" {
		call.Upload = &FileUpload{Path: opts.UploadFile, ContentType: "application/octet-stream"}
	}
	var out Job
	call.Out = &out
	if err := c.Transport.Do(ctx, call); err != nil {
		return nil, err
	}
	return &out, nil
}

// RunJobSynchronously inserts a job, waits for it to finish, and surfaces
// any terminal job error as a classified error carrying the job reference.
func (c *Client) RunJobSynchronously(ctx context.Context, config *JobConfiguration, opts *JobOptions) (*Job, error) {
	job, err := c.StartJob(ctx, config, opts)
	if err != nil {
		return nil, err
	}
	if job.JobReference == nil {
		return nil, &InterfaceError{Message: "job resource from server is missing jobReference"}
	}
	job, err = c.WaitJob(ctx, *job.JobReference, nil)
	if err != nil {
		return nil, err
	}
	if err := jobError(job); err != nil {
		return nil, err
	}
	return job, nil
}

// ExecuteJob runs a job, waiting for completion when the call (or the
// client default) is synchronous. Asynchronous execution still checks the
// returned resource for an error result, since a job can fail synchronously
// at submission.
func (c *Client) ExecuteJob(ctx context.Context, config *JobConfiguration, opts *JobOptions) (*Job, error) {
	if opts.sync(c.Sync) {
		return c.RunJobSynchronously(ctx, config, opts)
	}
	job, err := c.StartJob(ctx, config, opts)
	if err != nil {
		return nil, err
	}
	if err := jobError(job); err != nil {
		return nil, err
	}
	return job, nil
}

// GetJob fetches a fresh copy of the job resource.
func (c *Client) GetJob(ctx context.Context, ref JobReference) (*Job, error) {
	var out Job
	err := c.Transport.Do(ctx, &Call{
		Method: http.MethodGet,
		Path: "/projects/" + url.PathEscape(ref.ProjectID) +
			"/jobs/" + url.PathEscape(ref.JobID),
		Out: &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// PollJob fetches the job once and reports whether it has reached the
// desired status.
func (c *Client) PollJob(ctx context.Context, ref JobReference, status string) (bool, *Job, error) {
	job, err := c.GetJob(ctx, ref)
	if err != nil {
		return false, nil, err
	}
	current := ""
	if job.Status != nil {
		current = job.Status.State
	}
	return current == status, job, nil
}

// WaitOptions tunes a single WaitJob call. The zero value waits for DONE
// with no deadline using the client's configured printer.
type WaitOptions struct {
	// Status is the desired terminal state, default StatusDone.
	Status string

	// Timeout bounds the overall wait; zero means no limit.
	Timeout time.Duration

	// Printer overrides the client's WaitPrinterFactory for this call.
	Printer WaitPrinter
}

// WaitJob polls a job until it reaches the desired status or the timeout
// elapses. Transient communication failures during a poll are logged and
// retried within the same call. Reaching the timeout first fails with a
// *TimeoutError carrying the last-observed state.
func (c *Client) WaitJob(ctx context.Context, ref JobReference, opts *WaitOptions) (*Job, error) {
	if opts == nil {
		opts = &WaitOptions{}
	}
	status := opts.Status
	if status == "" {
		status = StatusDone
	}
	printer := opts.Printer
	if printer == nil {
		printer = c.WaitPrinterFactory()
	}
	defer printer.Done()

	start := c.now()
	currentStatus := "UNKNOWN"
	var job *Job
	for attempt := 0; ; attempt++ {
		elapsed := c.now().Sub(start)
		if opts.Timeout > 0 && elapsed > opts.Timeout {
			return nil, &TimeoutError{State: currentStatus, Timeout: opts.Timeout}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		done, polled, err := c.PollJob(ctx, ref, status)
		switch {
		case err == nil:
			job = polled
			if job.Status != nil {
				currentStatus = job.Status.State
			}
			if done {
				printer.Print(ref.JobID, c.now().Sub(start), currentStatus)
				return job, nil
			}
		case errors.As(err, new(*CommunicationError)):
			// Communication errors while waiting on a job are okay.
			c.Logger.Warnf("transient error during job status check: %v", err)
		default:
			return nil, err
		}
		for i := 0; i < c.PollSchedule.delay(attempt); i++ {
			elapsed = c.now().Sub(start)
			printer.Print(ref.JobID, elapsed, currentStatus)
			if opts.Timeout > 0 && elapsed > opts.Timeout {
				break
			}
			c.sleep(time.Second)
		}
	}
}

// IsFailedJob reports whether the job carries a terminal error result.
func IsFailedJob(job *Job) bool {
	return job != nil && job.Status != nil && job.Status.ErrorResult != nil
}

// jobError classifies the job's terminal error, or returns nil when the job
// did not fail.
func jobError(job *Job) error {
	if !IsFailedJob(job) {
		return nil
	}
	primary := *job.Status.ErrorResult
	return errorFromProto(primary, primary.Message, job.Status.Errors, job.JobReference)
}

// ListJobs returns the jobs in a project, newest first. A nil reference
// uses the client's default project. stateFilter entries are lowercased for
// the wire.
func (c *Client) ListJobs(ctx context.Context, ref *ProjectReference, maxResults int64, stateFilter []string) ([]*Job, error) {
	pref, err := c.normalizeProjectReference(ref)
	if err != nil {
		return nil, err
	}
	q := url.Values{"projection": []string{"full"}}
	if maxResults > 0 {
		q.Set("maxResults", itoa64(maxResults))
	}
	for _, s := range stateFilter {
		q.Add("stateFilter", strings.ToLower(s))
	}
	var out jobList
	err = c.Transport.Do(ctx, &Call{
		Method: http.MethodGet,
		Path:   "/projects/" + url.PathEscape(pref.ProjectID) + "/jobs",
		Query:  q,
		Out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return out.Jobs, nil
}

// ListJobRefs returns the references of the jobs in a project.
func (c *Client) ListJobRefs(ctx context.Context, ref *ProjectReference, maxResults int64, stateFilter []string) ([]JobReference, error) {
	jobs, err := c.ListJobs(ctx, ref, maxResults, stateFilter)
	if err != nil {
		return nil, err
	}
	refs := make([]JobReference, 0, len(jobs))
	for _, job := range jobs {
		if job.JobReference != nil {
			refs = append(refs, *job.JobReference)
		}
	}
	return refs, nil
}
