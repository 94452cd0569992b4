package nifcloud

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"code.cloudfoundry.org/clock/fakeclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testServer mocks the NIFCLOUD API endpoint.
type testServer struct {
	server *httptest.Server

	mu sync.Mutex
	// requests holds the decoded parameters of every request received.
	requests []recordedRequest
	respond  func(w http.ResponseWriter, action string)
}

type recordedRequest struct {
	Method      string
	Path        string
	RawQuery    string
	ContentType string
	Form        url.Values
	ValidSig    bool
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{}
	ts.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())

		params := Params{}
		for k := range r.Form {
			if k != "Signature" {
				params[k] = r.Form.Get(k)
			}
		}
		want := Sign(testSecretKey, r.Method, r.Host, r.URL.Path, params)

		ts.mu.Lock()
		ts.requests = append(ts.requests, recordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			RawQuery:    r.URL.RawQuery,
			ContentType: r.Header.Get("Content-Type"),
			Form:        r.Form,
			ValidSig:    want == r.Form.Get("Signature"),
		})
		ts.mu.Unlock()

		if ts.respond != nil {
			ts.respond(w, r.Form.Get("Action"))
			return
		}
		writeXML(w, http.StatusOK, `<OKResponse xmlns="https://cp.cloud.nifty.com/api/"/>`)
	}))
	t.Cleanup(ts.server.Close)
	return ts
}

func (ts *testServer) client(opts ...ClientOption) *Client {
	opts = append([]ClientOption{
		WithBaseURL(ts.server.URL),
		WithClock(fakeclock.NewFakeClock(time.Unix(0, 0))),
	}, opts...)
	return NewClient(testAccessKey, testSecretKey, testEndpoint, opts...)
}

func (ts *testServer) last(t *testing.T) recordedRequest {
	t.Helper()
	ts.mu.Lock()
	defer ts.mu.Unlock()
	require.NotEmpty(t, ts.requests)
	return ts.requests[len(ts.requests)-1]
}

func writeXML(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestClient_CallGet(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	c := ts.client()

	resp, err := c.Call(context.Background(), http.MethodGet, "DescribeLoadBalancers", Params{"Description": "a/b c"})
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Equal(t, "https://cp.cloud.nifty.com/api/", resp.Namespace)

	req := ts.last(t)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/api/", req.Path)
	assert.NotEmpty(t, req.RawQuery)
	assert.True(t, req.ValidSig, "signature must verify against the received parameters")

	assert.Equal(t, "DescribeLoadBalancers", req.Form.Get("Action"))
	assert.Equal(t, testAccessKey, req.Form.Get("AccessKeyId"))
	assert.Equal(t, "HmacSHA256", req.Form.Get("SignatureMethod"))
	assert.Equal(t, "2", req.Form.Get("SignatureVersion"))
	assert.Equal(t, "1970-01-01T00:00:00Z", req.Form.Get("Timestamp"))
	assert.Equal(t, "a/b c", req.Form.Get("Description"))
}

func TestClient_CallPost(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	c := ts.client()

	_, err := c.Call(context.Background(), http.MethodPost, "CreateLoadBalancer", Params{"LoadBalancerName": "lb001", "NetworkVolume": 10})
	require.NoError(t, err)

	req := ts.last(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/", req.Path)
	assert.Empty(t, req.RawQuery, "POST parameters belong in the body")
	assert.Equal(t, "application/x-www-form-urlencoded", req.ContentType)
	assert.True(t, req.ValidSig)
	assert.Equal(t, "lb001", req.Form.Get("LoadBalancerName"))
	assert.Equal(t, "10", req.Form.Get("NetworkVolume"))
}

func TestClient_CallDoesNotModifyParams(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	params := Params{"LoadBalancerName": "lb001"}
	_, err := ts.client().Call(context.Background(), http.MethodGet, "DescribeLoadBalancers", params)
	require.NoError(t, err)
	assert.Equal(t, Params{"LoadBalancerName": "lb001"}, params)
}

func TestClient_UnsupportedMethod(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	for _, method := range []string{"UNKNOWN", http.MethodPut, http.MethodDelete, "get"} {
		_, err := ts.client().Call(context.Background(), method, "DescribeLoadBalancers", nil)

		var unsupported *UnsupportedMethodError
		require.True(t, errors.As(err, &unsupported), "method %s", method)
		assert.Equal(t, method, unsupported.Method)
	}
	assert.Empty(t, ts.requests, "no request may be sent for unsupported methods")
}

func TestClient_TransportError(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	c := ts.client()
	ts.server.Close()

	_, err := c.Call(context.Background(), http.MethodGet, "DescribeLoadBalancers", nil)

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr), "got %T: %v", err, err)
	assert.Equal(t, "DescribeLoadBalancers", transportErr.Action)
}

func TestClient_RequestTimeout(t *testing.T) {
	t.Parallel()
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(block)

	c := NewClient(testAccessKey, testSecretKey, testEndpoint,
		WithBaseURL(server.URL),
		WithRequestTimeout(50*time.Millisecond))

	_, err := c.Call(context.Background(), http.MethodGet, "DescribeLoadBalancers", nil)
	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_MalformedResponse(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	ts.respond = func(w http.ResponseWriter, _ string) {
		writeXML(w, http.StatusBadGateway, "<html><body>Bad Gateway")
	}

	_, err := ts.client().Call(context.Background(), http.MethodGet, "DescribeLoadBalancers", nil)

	var malformed *MalformedResponseError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "DescribeLoadBalancers", malformed.Action)
}

func TestClient_APIErrorIsAResponse(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	body := readFixture(t, "internal_server_error.xml")
	ts.respond = func(w http.ResponseWriter, _ string) {
		writeXML(w, http.StatusInternalServerError, string(body))
	}

	resp, err := ts.client().Call(context.Background(), http.MethodGet, "DescribeLoadBalancers", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "", resp.Namespace)
	assert.Equal(t, "Server.InternalError", ErrorCode(resp.Err()))
}

func TestWithBaseURL(t *testing.T) {
	t.Parallel()

	c := NewClient("a", "s", testEndpoint, WithBaseURL("http://127.0.0.1:8080"))
	assert.Equal(t, "127.0.0.1:8080", c.Endpoint())
	assert.Equal(t, "http", c.scheme)

	c = NewClient("a", "s", testEndpoint, WithBaseURL("::not a url"))
	assert.Equal(t, testEndpoint, c.Endpoint())
	assert.Equal(t, "https", c.scheme)
}
