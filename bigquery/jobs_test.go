package bigquery

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollScheduleDelay(t *testing.T) {
	s := DefaultPollSchedule
	var delays []int
	for n := 0; n < 22; n++ {
		delays = append(delays, s.delay(n))
	}
	want := []int{
		1, 1, 1, 1, 1, 1, 1, 1, // initial burst
		2, 5, 8, 11, 14, 17, 20, 23, 26, 29, // linear ramp
		30, 30, 30, 30, // steady
	}
	if diff := cmp.Diff(want, delays); diff != "" {
		t.Errorf("delay schedule mismatch (-want +got):\n%s", diff)
	}
}

func TestNewJobID(t *testing.T) {
	id := NewJobID()
	assert.True(t, strings.HasPrefix(id, "bqjob_"))
	assert.NotContains(t, id, "-")
	assert.NotEqual(t, id, NewJobID())
}

func TestStartJobRequiresProject(t *testing.T) {
	c, _ := newFakeClient(t, WithProjectID(""))
	_, err := c.StartJob(context.Background(), &JobConfiguration{}, nil)
	var config *ConfigurationError
	require.ErrorAs(t, err, &config)
}

func TestStartJobRequest(t *testing.T) {
	c, ft := newFakeClient(t, WithJobProperties([]string{"labels.env=test"}))
	ref := JobReference{ProjectID: "proj", JobID: "bqjob_1"}
	ft.respond(&Job{JobReference: &ref})

	job, err := c.StartJob(context.Background(), &JobConfiguration{
		Query: &QueryConfiguration{Query: "SELECT 1"},
	}, &JobOptions{JobID: "bqjob_1"})
	require.NoError(t, err)
	assert.Equal(t, ref, *job.JobReference)

	require.Len(t, ft.calls, 1)
	call := ft.calls[0]
	assert.Equal(t, "/projects/proj/jobs", call.Path)
	body, ok := call.Body.(*Job)
	require.True(t, ok)
	assert.Equal(t, "bqjob_1", body.JobReference.JobID)
	assert.Equal(t, map[string]string{"labels.env": "test"}, body.Configuration.Properties)
}

func TestWaitJobTransitions(t *testing.T) {
	var buf bytes.Buffer
	c, ft := newFakeClient(t,
		WithWaitPrinterFactory(TransitionWaitPrinterFactory(&buf)))
	ref := JobReference{ProjectID: "proj", JobID: "bqjob_1"}
	ft.respond(&Job{JobReference: &ref, Status: &JobStatus{State: StatusPending}})
	ft.respond(&Job{JobReference: &ref, Status: &JobStatus{State: StatusRunning}})
	ft.respond(doneJob(ref, nil))

	job, err := c.WaitJob(context.Background(), ref, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusDone, job.Status.State)

	out := buf.String()
	// One line per observed state, then the final newline from Done.
	assert.Equal(t, 1, strings.Count(out, "PENDING"))
	assert.Equal(t, 1, strings.Count(out, "RUNNING"))
	assert.Equal(t, 1, strings.Count(out, "DONE"))
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestWaitJobTimeout(t *testing.T) {
	c, ft := newFakeClient(t)
	ref := JobReference{ProjectID: "proj", JobID: "bqjob_1"}
	for i := 0; i < 100; i++ {
		ft.respond(&Job{JobReference: &ref, Status: &JobStatus{State: StatusPending}})
	}

	_, err := c.WaitJob(context.Background(), ref, &WaitOptions{Timeout: 5 * time.Second})
	var timeout *TimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, StatusPending, timeout.State)
}

func TestWaitJobSwallowsCommunicationErrors(t *testing.T) {
	c, ft := newFakeClient(t)
	ref := JobReference{ProjectID: "proj", JobID: "bqjob_1"}
	ft.fail(&CommunicationError{Message: "connection reset"})
	ft.respond(doneJob(ref, nil))

	job, err := c.WaitJob(context.Background(), ref, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusDone, job.Status.State)
	assert.Len(t, ft.calls, 2)
}

func TestWaitJobPropagatesOtherErrors(t *testing.T) {
	c, ft := newFakeClient(t)
	ref := JobReference{ProjectID: "proj", JobID: "bqjob_1"}
	ft.fail(&NotFoundError{ServiceError{
		Message: "Not found: Job proj:bqjob_1",
		Err:     ErrorProto{Reason: "notFound"},
	}})

	_, err := c.WaitJob(context.Background(), ref, nil)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestWaitJobDoneCalledOnce(t *testing.T) {
	done := 0
	printer := &countingPrinter{done: &done}
	c, ft := newFakeClient(t)
	ref := JobReference{ProjectID: "proj", JobID: "bqjob_1"}
	ft.respond(doneJob(ref, nil))

	_, err := c.WaitJob(context.Background(), ref, &WaitOptions{Printer: printer})
	require.NoError(t, err)
	assert.Equal(t, 1, done)

	// Done fires on the timeout path too.
	done = 0
	for i := 0; i < 100; i++ {
		ft.respond(&Job{JobReference: &ref, Status: &JobStatus{State: StatusPending}})
	}
	_, err = c.WaitJob(context.Background(), ref, &WaitOptions{
		Timeout: 3 * time.Second,
		Printer: printer,
	})
	require.Error(t, err)
	assert.Equal(t, 1, done)
}

type countingPrinter struct {
	done *int
}

func (p *countingPrinter) Print(string, time.Duration, string) {}
func (p *countingPrinter) Done()                               { *p.done++ }

func TestRunJobSynchronouslyRaisesJobError(t *testing.T) {
	c, ft := newFakeClient(t)
	ref := JobReference{ProjectID: "proj", JobID: "bqjob_1"}
	ft.respond(&Job{JobReference: &ref, Status: &JobStatus{State: StatusPending}})
	ft.respond(doneJob(ref, &ErrorProto{Reason: "invalidQuery", Message: "bad sql"}))

	_, err := c.RunJobSynchronously(context.Background(), &JobConfiguration{
		Query: &QueryConfiguration{Query: "bad sql"},
	}, nil)
	var invalid *InvalidQueryError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "error processing job 'proj:bqjob_1': bad sql", err.Error())
	assert.Equal(t, ref, *invalid.JobRef)
}

func TestExecuteJobAsync(t *testing.T) {
	c, ft := newFakeClient(t)
	ref := JobReference{ProjectID: "proj", JobID: "bqjob_1"}
	ft.respond(&Job{JobReference: &ref, Status: &JobStatus{State: StatusRunning}})

	job, err := c.ExecuteJob(context.Background(), &JobConfiguration{
		Query: &QueryConfiguration{Query: "SELECT 1"},
	}, &JobOptions{Sync: Bool(false)})
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, job.Status.State)
	// Only the insert; no polling.
	assert.Len(t, ft.calls, 1)

	// A synchronous submission failure still surfaces in async mode.
	ft.respond(doneJob(ref, &ErrorProto{Reason: "accessDenied", Message: "nope"}))
	_, err = c.ExecuteJob(context.Background(), &JobConfiguration{
		Query: &QueryConfiguration{Query: "SELECT 1"},
	}, &JobOptions{Sync: Bool(false)})
	var denied *AccessDeniedError
	require.ErrorAs(t, err, &denied)
}

func TestIsFailedJob(t *testing.T) {
	ref := JobReference{ProjectID: "p", JobID: "j"}
	assert.False(t, IsFailedJob(nil))
	assert.False(t, IsFailedJob(doneJob(ref, nil)))
	assert.True(t, IsFailedJob(doneJob(ref, &ErrorProto{Reason: "notFound", Message: "x"})))
}

func TestListJobs(t *testing.T) {
	c, ft := newFakeClient(t)
	ref := JobReference{ProjectID: "proj", JobID: "bqjob_1"}
	ft.respond(map[string]any{"jobs": []*Job{{JobReference: &ref}}})

	refs, err := c.ListJobRefs(context.Background(), nil, 10, []string{"PENDING", "RUNNING"})
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, ref, refs[0])

	call := ft.calls[0]
	assert.Equal(t, "/projects/proj/jobs", call.Path)
	assert.Equal(t, "full", call.Query.Get("projection"))
	assert.Equal(t, "10", call.Query.Get("maxResults"))
	assert.Equal(t, []string{"pending", "running"}, call.Query["stateFilter"])
}
