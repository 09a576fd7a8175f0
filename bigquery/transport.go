package bigquery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// Call describes one API request: an HTTP method, a resource path relative
// to the API base, query parameters, an optional JSON body, an optional
// media upload, and a decode target for the JSON response.
type Call struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Upload *FileUpload
	Out    any
}

// FileUpload names a local file to attach to a job insert as resumable
// media.
type FileUpload struct {
	Path        string
	ContentType string
}

// Transport issues a single API call and decodes the JSON response. Errors
// carried in structured JSON bodies are classified into the package's error
// taxonomy; any other failure surfaces as *CommunicationError.
type Transport interface {
	Do(ctx context.Context, call *Call) error
}

// HTTPTransport is the default Transport. Requests that fail with 429 or
// 5xx are retried with jittered exponential backoff, honoring Retry-After
// when present.
type HTTPTransport struct {
	BaseURL       string
	UploadBaseURL string
	AccessToken   string
	TraceToken    string
	UserAgent     string
	HTTPClient    *http.Client

	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	Logger logrus.FieldLogger

	// Observability hooks.
	BeforeHooks []func(*http.Request)
	AfterHooks  []func(*http.Response, []byte, error)
}

func (t *HTTPTransport) Do(ctx context.Context, call *Call) error {
	if call.Upload != nil {
		return t.doUpload(ctx, call)
	}
	return t.doJSON(ctx, call)
}

func (t *HTTPTransport) url(base string, call *Call, extra url.Values) string {
	q := url.Values{}
	for k, vs := range call.Query {
		q[k] = vs
	}
	for k, vs := range extra {
		q[k] = vs
	}
	if t.TraceToken != "" && q.Get("trace") == "" {
		q.Set("trace", t.TraceToken)
	}
	u := base + call.Path
	if qs := q.Encode(); qs != "" {
		u += "?" + qs
	}
	return u
}

func (t *HTTPTransport) doJSON(ctx context.Context, call *Call) error {
	u := t.url(t.BaseURL, call, nil)

	var lastErr error
	backoff, maxBack := normalizeBackoff(t.InitialBackoff, t.MaxBackoff)
	retries := normalizeRetries(t.MaxRetries)

	for attempt := 0; attempt <= retries; attempt++ {
		body, err := t.roundTrip(ctx, call.Method, u, call.Body, nil, attempt)
		if err == nil {
			if call.Out != nil && len(body) > 0 {
				if err := json.Unmarshal(body, call.Out); err != nil {
					return &InterfaceError{Message: fmt.Sprintf(
						"decode response: %v (body=%s)", err, string(body))}
				}
			}
			return nil
		}
		if ra, retryable := retryAfter(err); retryable {
			lastErr = err
			if ra > backoff {
				backoff = ra
			}
		} else {
			var ce *CommunicationError
			if isCommunication(err, &ce) && ce.StatusCode == 0 {
				// Network-level failure; worth another attempt.
				lastErr = err
			} else {
				return err
			}
		}
		if attempt < retries {
			jitterSleep(ctx, backoff, maxBack)
			backoff = nextBackoff(backoff, maxBack)
		}
	}
	return fmt.Errorf("bigquery: request failed after %d attempts: %w", retries+1, lastErr)
}

// roundTrip performs one HTTP exchange and returns the response body on
// 2xx. Non-success responses are converted into the error taxonomy.
func (t *HTTPTransport) roundTrip(ctx context.Context, method, u string, in any, hdr http.Header, attempt int) ([]byte, error) {
	var rc io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		rc = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rc)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if t.UserAgent != "" {
		req.Header.Set("User-Agent", t.UserAgent)
	}
	if t.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.AccessToken)
	}
	for k, vs := range hdr {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if t.Logger != nil {
		t.Logger.WithFields(logrus.Fields{
			"method": method, "url": u, "attempt": attempt,
		}).Debug("bigquery request")
	}
	for _, h := range t.BeforeHooks {
		h(req)
	}

	res, err := t.HTTPClient.Do(req)
	var body []byte
	if err == nil {
		body, _ = io.ReadAll(res.Body)
		res.Body.Close()
	}
	if t.Logger != nil {
		t.Logger.WithFields(logrus.Fields{
			"method": method, "url": u, "status": statusOf(res), "attempt": attempt,
		}).Debug("bigquery response")
	}
	for _, h := range t.AfterHooks {
		h(res, body, err)
	}

	if err != nil {
		return nil, &CommunicationError{
			Message: fmt.Sprintf("cannot contact server, please try again: %v", err),
			Err:     err,
		}
	}
	if res.StatusCode/100 == 2 {
		return body, nil
	}
	err = classifyResponse(res.StatusCode, body)
	if res.StatusCode == http.StatusTooManyRequests || res.StatusCode/100 == 5 {
		return nil, &retryableError{err: err, after: parseRetryAfter(res.Header.Get("Retry-After"))}
	}
	return nil, err
}

// errorEnvelope is the structured JSON error body returned by the server.
type errorEnvelope struct {
	Error *struct {
		Errors  []ErrorProto `json:"errors"`
		Code    int          `json:"code"`
		Message string       `json:"message"`
	} `json:"error"`
}

// classifyResponse converts a non-success response into a typed error: the
// structured-error JSON shape goes through the classifier, everything else
// becomes a CommunicationError carrying the raw status.
func classifyResponse(status int, body []byte) error {
	var env errorEnvelope
	if json.Unmarshal(body, &env) == nil && env.Error != nil &&
		(len(env.Error.Errors) > 0 || env.Error.Message != "") {
		var primary ErrorProto
		if len(env.Error.Errors) > 0 {
			primary = env.Error.Errors[0]
		} else {
			primary = ErrorProto{Message: env.Error.Message}
		}
		return errorFromProto(primary, string(body), nil, nil)
	}
	return &CommunicationError{
		Message: fmt.Sprintf(
			"could not connect with BigQuery server, http response status: %d", status),
		StatusCode: status,
	}
}

// retryableError marks an error as eligible for another attempt.
type retryableError struct {
	err   error
	after time.Duration
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

func retryAfter(err error) (time.Duration, bool) {
	if re, ok := err.(*retryableError); ok {
		return re.after, true
	}
	return 0, false
}

func isCommunication(err error, target **CommunicationError) bool {
	if ce, ok := err.(*CommunicationError); ok {
		*target = ce
		return true
	}
	return false
}

// doUpload performs a resumable media upload: the job configuration is
// posted first to open an upload session, then the file bytes are sent to
// the session URL the server returns.
func (t *HTTPTransport) doUpload(ctx context.Context, call *Call) error {
	f, err := os.Open(call.Upload.Path)
	if err != nil {
		return &ClientError{Message: fmt.Sprintf("cannot open upload file: %v", err)}
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return &ClientError{Message: fmt.Sprintf("cannot stat upload file: %v", err)}
	}

	cfg, err := json.Marshal(call.Body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	u := t.url(t.UploadBaseURL, call, url.Values{"uploadType": []string{"resumable"}})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(cfg))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Upload-Content-Type", call.Upload.ContentType)
	req.Header.Set("X-Upload-Content-Length", strconv.FormatInt(st.Size(), 10))
	if t.UserAgent != "" {
		req.Header.Set("User-Agent", t.UserAgent)
	}
	if t.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.AccessToken)
	}

	res, err := t.HTTPClient.Do(req)
	if err != nil {
		return &CommunicationError{
			Message: fmt.Sprintf("cannot contact server, please try again: %v", err),
			Err:     err,
		}
	}
	body, _ := io.ReadAll(res.Body)
	res.Body.Close()
	if res.StatusCode/100 != 2 {
		return classifyResponse(res.StatusCode, body)
	}
	loc, err := res.Location()
	if err != nil {
		return &InterfaceError{Message: "upload session response missing Location header"}
	}

	req, err = http.NewRequestWithContext(ctx, http.MethodPut, loc.String(), f)
	if err != nil {
		return err
	}
	req.ContentLength = st.Size()
	req.Header.Set("Content-Type", call.Upload.ContentType)
	if t.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.AccessToken)
	}
	res, err = t.HTTPClient.Do(req)
	if err != nil {
		return &CommunicationError{
			Message: fmt.Sprintf("upload interrupted: %v", err),
			Err:     err,
		}
	}
	body, _ = io.ReadAll(res.Body)
	res.Body.Close()
	if res.StatusCode/100 != 2 {
		return classifyResponse(res.StatusCode, body)
	}
	if call.Out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, call.Out); err != nil {
			return &InterfaceError{Message: fmt.Sprintf(
				"decode response: %v (body=%s)", err, string(body))}
		}
	}
	return nil
}

// statusOf returns the HTTP status code or zero if the response is nil.
func statusOf(res *http.Response) int {
	if res == nil {
		return 0
	}
	return res.StatusCode
}

// parseRetryAfter interprets Retry-After header values (seconds or HTTP-date).
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// randFloat64 returns a pseudo-random value in [0,1).
// It is based on the monotonic clock to avoid a global RNG.
func randFloat64() float64 {
	n := time.Now().UnixNano()
	n ^= n << 13
	n ^= n >> 7
	n ^= n << 17
	if n < 0 {
		n = -n
	}
	return float64(n%1000) / 1000.0
}

// normalizeBackoff ensures sane defaults for backoff windows.
func normalizeBackoff(initial, max time.Duration) (time.Duration, time.Duration) {
	if initial <= 0 {
		initial = 200 * time.Millisecond
	}
	if max <= 0 {
		max = 2 * time.Second
	}
	return initial, max
}

// normalizeRetries ensures non-negative retry counts.
func normalizeRetries(r int) int {
	if r < 0 {
		return 0
	}
	return r
}

// jitterSleep sleeps for a randomized duration based on the current backoff.
// Context cancellation is respected.
func jitterSleep(ctx context.Context, backoff, maxBack time.Duration) {
	jitter := time.Duration(float64(backoff) * (0.5 + 0.5*randFloat64()))
	if jitter > maxBack {
		jitter = maxBack
	}
	timer := time.NewTimer(jitter)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// nextBackoff doubles backoff up to maxBack.
func nextBackoff(backoff, maxBack time.Duration) time.Duration {
	backoff *= 2
	if backoff > maxBack {
		backoff = maxBack
	}
	return backoff
}
