// Package bigquery provides a typed Go client for the BigQuery v2 REST API.
// The client wraps HTTP transport, retries, identifier resolution, and the
// asynchronous job lifecycle (insert, poll, classify errors) with
// strongly-typed helpers for the query, load, extract and copy job types.
//
// Credentials are injected as a bearer token; this package does not manage
// token lifecycles.
package bigquery

import (
	"io"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Client contains shared configuration and request plumbing for the SDK.
type Client struct {
	// BaseURL is the API origin and version prefix.
	BaseURL string

	// UploadBaseURL is the origin used for media upload requests.
	UploadBaseURL string

	// AccessToken is sent as a bearer token on authenticated operations.
	AccessToken string

	// ProjectID is the default project for identifier resolution and job
	// inserts. Methods that create jobs fail with *ConfigurationError when
	// neither this nor an explicit project id is available.
	ProjectID string

	// DatasetID is the default dataset for identifier resolution.
	DatasetID string

	// JobProperties holds "key=value" pairs merged into the configuration
	// of every job this client inserts.
	JobProperties []string

	// Sync controls whether ExecuteJob waits for job completion by default.
	Sync bool

	// TraceToken, when set, is attached as a trace query parameter to every
	// API request.
	TraceToken string

	// WaitPrinterFactory is called once per WaitJob to obtain a progress
	// reporter. Defaults to a transition printer on stderr.
	WaitPrinterFactory WaitPrinterFactory

	// PollSchedule governs the local sleep cadence between job polls.
	PollSchedule PollSchedule

	// HTTPClient is the underlying HTTP client. A tuned default is provided
	// and can be replaced via WithHTTPClient.
	HTTPClient *http.Client

	// UserAgent is added to each request.
	UserAgent string

	// Retry configuration for the HTTP transport (429/5xx responses).
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	// Logger receives transport debug logs and transient-poll warnings.
	// Token values are redacted before logging.
	Logger logrus.FieldLogger

	// Transport issues API calls. Defaults to an HTTPTransport built from
	// the fields above; replaceable for testing.
	Transport Transport

	// Clock hooks, overridable in tests.
	now   func() time.Time
	sleep func(time.Duration)
}

// New constructs a Client with safe defaults. Options can override defaults.
func New(opts ...Option) *Client {
	c := &Client{
		BaseURL:       "https://www.googleapis.com/bigquery/v2",
		UploadBaseURL: "https://www.googleapis.com/upload/bigquery/v2",
		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 60 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
				MaxIdleConns:          100,
				IdleConnTimeout:       90 * time.Second,
			},
		},
		UserAgent:      "google-bigquery-tools-go/0.1",
		Sync:           true,
		MaxRetries:     3,
		InitialBackoff: 300 * time.Millisecond,
		MaxBackoff:     3 * time.Second,
		PollSchedule:   DefaultPollSchedule,
		Logger:         discardLogger(),
		now:            time.Now,
		sleep:          time.Sleep,
	}
	for _, f := range opts {
		f(c)
	}
	if c.WaitPrinterFactory == nil {
		c.WaitPrinterFactory = TransitionWaitPrinterFactory(nil)
	}
	if c.Transport == nil {
		c.Transport = &HTTPTransport{
			BaseURL:        c.BaseURL,
			UploadBaseURL:  c.UploadBaseURL,
			AccessToken:    c.AccessToken,
			TraceToken:     c.TraceToken,
			UserAgent:      c.UserAgent,
			HTTPClient:     c.HTTPClient,
			MaxRetries:     c.MaxRetries,
			InitialBackoff: c.InitialBackoff,
			MaxBackoff:     c.MaxBackoff,
			Logger:         c.Logger,
		}
	}
	return c
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
