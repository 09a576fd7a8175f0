package bigquery

import (
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Option customizes a Client at construction time.
type Option func(*Client)

func WithBaseURL(u string) Option { return func(c *Client) { c.BaseURL = strings.TrimRight(u, "/") } }
func WithUploadBaseURL(u string) Option {
	return func(c *Client) { c.UploadBaseURL = strings.TrimRight(u, "/") }
}
func WithAccessToken(t string) Option      { return func(c *Client) { c.AccessToken = t } }
func WithProjectID(id string) Option       { return func(c *Client) { c.ProjectID = id } }
func WithDatasetID(id string) Option       { return func(c *Client) { c.DatasetID = id } }
func WithJobProperties(p []string) Option  { return func(c *Client) { c.JobProperties = p } }
func WithSync(sync bool) Option            { return func(c *Client) { c.Sync = sync } }
func WithTraceToken(t string) Option       { return func(c *Client) { c.TraceToken = t } }
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.HTTPClient = h } }
func WithUserAgent(ua string) Option       { return func(c *Client) { c.UserAgent = ua } }
func WithRetries(max int) Option           { return func(c *Client) { c.MaxRetries = max } }
func WithBackoff(init, max time.Duration) Option {
	return func(c *Client) {
		c.InitialBackoff = init
		c.MaxBackoff = max
	}
}
func WithLogger(l logrus.FieldLogger) Option { return func(c *Client) { c.Logger = l } }
func WithTransport(t Transport) Option       { return func(c *Client) { c.Transport = t } }

// WithWaitPrinterFactory selects the progress reporter used by WaitJob.
func WithWaitPrinterFactory(f WaitPrinterFactory) Option {
	return func(c *Client) { c.WaitPrinterFactory = f }
}

// WithPollSchedule overrides the local re-poll cadence used by WaitJob.
func WithPollSchedule(s PollSchedule) Option {
	return func(c *Client) { c.PollSchedule = s }
}

// JobOptions carries the per-call settings shared by every job insert.
type JobOptions struct {
	// Sync overrides the client's Sync default when non-nil.
	Sync *bool

	// ProjectID overrides the client's default project for this job.
	ProjectID string

	// JobID is a caller-chosen unique job id. When empty the server
	// assigns one.
	JobID string

	// UploadFile names a local file to attach as a resumable media upload.
	UploadFile string
}

func (o *JobOptions) sync(def bool) bool {
	if o == nil || o.Sync == nil {
		return def
	}
	return *o.Sync
}

// Bool returns a pointer to b, for use in option literals.
func Bool(b bool) *bool { return &b }

// Int64 returns a pointer to n, for use in option literals.
func Int64(n int64) *int64 { return &n }
