package nifcloud

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"code.cloudfoundry.org/clock"
	"github.com/go-logr/logr"

	"github.com/imamik/nifcloud-lb/internal/metrics"
)

// TimestampFormat is the layout of the Timestamp request parameter.
const TimestampFormat = "2006-01-02T15:04:05Z"

// Client issues signed requests against a single NIFCLOUD API endpoint.
type Client struct {
	accessKey  string
	secretKey  string
	endpoint   string
	scheme     string
	timeout    time.Duration
	httpClient *http.Client
	clock      clock.Clock
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithClock sets the clock used for request timestamps.
func WithClock(clk clock.Clock) ClientOption {
	return func(c *Client) {
		c.clock = clk
	}
}

// WithRequestTimeout bounds every HTTP round trip. Zero disables the bound.
func WithRequestTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithBaseURL overrides scheme and host (useful for testing against httptest).
// The host part is also what gets signed.
func WithBaseURL(raw string) ClientOption {
	return func(c *Client) {
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			return
		}
		c.scheme = u.Scheme
		c.endpoint = u.Host
	}
}

// NewClient creates a Client for endpoint, e.g. "west-1.cp.cloud.nifty.com".
func NewClient(accessKey, secretKey, endpoint string, opts ...ClientOption) *Client {
	c := &Client{
		accessKey:  accessKey,
		secretKey:  secretKey,
		endpoint:   endpoint,
		scheme:     "https",
		httpClient: http.DefaultClient,
		clock:      clock.NewClock(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the host requests are sent to and signed for.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Call signs and sends a request for action. params is not modified.
//
// A response is returned for every status code; callers inspect
// Response.OK and Response.Err. Errors are returned only when no usable
// response exists: *UnsupportedMethodError, *TransportError or
// *MalformedResponseError.
func (c *Client) Call(ctx context.Context, method, action string, params Params) (*Response, error) {
	if method != http.MethodGet && method != http.MethodPost {
		return nil, &UnsupportedMethodError{Method: method}
	}

	req, err := c.newRequest(ctx, method, action, params)
	if err != nil {
		return nil, &TransportError{Action: action, Err: err}
	}

	if c.timeout > 0 {
		reqCtx, cancel := context.WithTimeout(req.Context(), c.timeout)
		defer cancel()
		req = req.WithContext(reqCtx)
	}

	logger := logr.FromContextOrDiscard(ctx).WithValues("action", action, "method", method)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordAPICall(action, "transport_error", time.Since(start).Seconds())
		logger.V(1).Info("api call failed", "error", err.Error())
		return nil, &TransportError{Action: action, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordAPICall(action, "transport_error", time.Since(start).Seconds())
		return nil, &TransportError{Action: action, Err: err}
	}

	res, err := ParseResponse(action, resp.StatusCode, body)
	if err != nil {
		metrics.RecordAPICall(action, "malformed", time.Since(start).Seconds())
		logger.V(1).Info("api call returned malformed body", "status", resp.StatusCode)
		return nil, err
	}

	result := "success"
	if !res.OK() {
		result = "api_error"
	}
	metrics.RecordAPICall(action, result, time.Since(start).Seconds())
	logger.V(1).Info("api call", "status", resp.StatusCode, "namespace", res.Namespace)

	return res, nil
}

// newRequest adds the authentication parameters and signature and builds
// the HTTP request.
func (c *Client) newRequest(ctx context.Context, method, action string, params Params) (*http.Request, error) {
	p := params.Clone()
	p["Action"] = action
	p["AccessKeyId"] = c.accessKey
	p["SignatureMethod"] = SignatureMethod
	p["SignatureVersion"] = SignatureVersion
	p["Timestamp"] = c.clock.Now().UTC().Format(TimestampFormat)
	p["Signature"] = Sign(c.secretKey, method, c.endpoint, APIPath, p)

	encoded := p.Values().Encode()
	u := url.URL{Scheme: c.scheme, Host: c.endpoint, Path: APIPath}

	if method == http.MethodGet {
		u.RawQuery = encoded
		return http.NewRequestWithContext(ctx, method, u.String(), nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), strings.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req, nil
}
