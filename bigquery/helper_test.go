package bigquery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// fakeTransport replays a scripted sequence of responses and records every
// call it receives.
type fakeTransport struct {
	t     *testing.T
	calls []*Call
	steps []fakeStep
}

type fakeStep struct {
	out any
	err error
}

func (f *fakeTransport) respond(out any) *fakeTransport {
	f.steps = append(f.steps, fakeStep{out: out})
	return f
}

func (f *fakeTransport) fail(err error) *fakeTransport {
	f.steps = append(f.steps, fakeStep{err: err})
	return f
}

func (f *fakeTransport) Do(_ context.Context, call *Call) error {
	f.calls = append(f.calls, call)
	if len(f.steps) == 0 {
		f.t.Fatalf("unexpected call %s %s", call.Method, call.Path)
	}
	step := f.steps[0]
	f.steps = f.steps[1:]
	if step.err != nil {
		return step.err
	}
	if call.Out != nil && step.out != nil {
		b, err := json.Marshal(step.out)
		if err != nil {
			f.t.Fatalf("marshal scripted response: %v", err)
		}
		if err := json.Unmarshal(b, call.Out); err != nil {
			f.t.Fatalf("decode scripted response: %v", err)
		}
	}
	return nil
}

// newFakeClient builds a client backed by a scripted transport, with frozen
// time and no real sleeping.
func newFakeClient(t *testing.T, opts ...Option) (*Client, *fakeTransport) {
	t.Helper()
	ft := &fakeTransport{t: t}
	all := append([]Option{
		WithTransport(ft),
		WithProjectID("proj"),
		WithWaitPrinterFactory(QuietWaitPrinterFactory()),
	}, opts...)
	c := New(all...)
	now := time.Unix(1700000000, 0)
	c.now = func() time.Time { return now }
	c.sleep = func(d time.Duration) { now = now.Add(d) }
	return c, ft
}

// newHTTPClient builds a client talking to an httptest server.
func newHTTPClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	all := append([]Option{
		WithBaseURL(srv.URL),
		WithUploadBaseURL(srv.URL + "/upload"),
		WithAccessToken("test-token"),
		WithProjectID("proj"),
		WithRetries(2),
		WithBackoff(time.Millisecond, 5*time.Millisecond),
		WithWaitPrinterFactory(QuietWaitPrinterFactory()),
	}, opts...)
	return New(all...)
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func doneJob(ref JobReference, errResult *ErrorProto) *Job {
	st := &JobStatus{State: StatusDone, ErrorResult: errResult}
	if errResult != nil {
		st.Errors = []ErrorProto{*errResult}
	}
	return &Job{JobReference: &ref, Status: st}
}
