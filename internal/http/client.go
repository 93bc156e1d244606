package http

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"net/http/httptrace"
	"time"
)

// DefaultEndpoint is the values endpoint served by the demo API.
const DefaultEndpoint = "http://localhost:5000/api/values"

// Client is the connection configuration shared by every call strategy.
// It is built once at startup and passed explicitly to whoever needs it.
// Client is safe for concurrent use by multiple goroutines.
type Client struct {
	httpClient      *http.Client
	endpoint        string
	headers         map[string]string
	timeout         time.Duration
	freshPostClient bool
	newTransport    func() http.RoundTripper
}

// ClientOption is a function that configures a Client
type ClientOption func(*Client)

// NewClient creates a client with the given options. Without options it
// targets DefaultEndpoint, has no timeout beyond the transport defaults and
// hands out a fresh connection pool to every POST.
func NewClient(options ...ClientOption) *Client {
	client := &Client{
		endpoint:        DefaultEndpoint,
		headers:         make(map[string]string),
		freshPostClient: true,
		newTransport:    defaultTransport,
	}

	for _, option := range options {
		option(client)
	}

	client.httpClient = &http.Client{
		Timeout:   client.timeout,
		Transport: client.newTransport(),
	}
	return client
}

func defaultTransport() http.RoundTripper {
	return http.DefaultTransport.(*http.Transport).Clone()
}

// WithEndpoint sets the URL that strategies call.
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithTimeout sets an overall per-request timeout. Zero means none.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithTransport sets the factory used to build round trippers, both for the
// shared client and for fresh POST clients.
func WithTransport(newTransport func() http.RoundTripper) ClientOption {
	return func(c *Client) {
		if newTransport != nil {
			c.newTransport = newTransport
		}
	}
}

// WithFreshPostClient controls whether PostClient builds a new client (and
// connection pool) for every call instead of reusing the shared one.
func WithFreshPostClient(fresh bool) ClientOption {
	return func(c *Client) {
		c.freshPostClient = fresh
	}
}

// Endpoint returns the URL strategies call.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// HTTPClient returns the long-lived pooled client.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// PostClient returns the client a POST should use and a release function the
// caller must invoke once the response has been handled.
func (c *Client) PostClient() (*http.Client, func()) {
	if !c.freshPostClient {
		return c.httpClient, func() {}
	}

	fresh := &http.Client{
		Timeout:   c.timeout,
		Transport: c.newTransport(),
	}
	return fresh, fresh.CloseIdleConnections
}

// NewRequest builds a request against the endpoint carrying the client headers.
func (c *Client) NewRequest(ctx context.Context, method string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint, body)
	if err != nil {
		return nil, err
	}

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	return req, nil
}

// Do executes a single request, buffers the body and records a per-phase
// timing breakdown. It is meant for one-off inspection, not for benchmarks.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	httpReq, err := req.Build(ctx, c.endpoint)
	if err != nil {
		return nil, err
	}

	for key, value := range c.headers {
		if httpReq.Header.Get(key) == "" {
			httpReq.Header.Set(key, value)
		}
	}

	timing := TimingInfo{StartTime: time.Now()}
	httpReq = httpReq.WithContext(httptrace.WithClientTrace(httpReq.Context(), newTrace(&timing)))

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	transferStart := time.Now()
	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}
	timing.ContentTransferTime = time.Since(transferStart)
	timing.TotalTime = time.Since(timing.StartTime)

	return &Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Headers:    httpResp.Header,
		Body:       body,
		Timing:     timing,
	}, nil
}

// newTrace fills timing as the connection phases complete
func newTrace(timing *TimingInfo) *httptrace.ClientTrace {
	var dnsStart, connectStart, tlsStart time.Time
	lastPhaseEnd := timing.StartTime

	return &httptrace.ClientTrace{
		DNSStart: func(httptrace.DNSStartInfo) {
			dnsStart = time.Now()
		},
		DNSDone: func(httptrace.DNSDoneInfo) {
			lastPhaseEnd = time.Now()
			timing.DNSLookupTime = lastPhaseEnd.Sub(dnsStart)
		},
		ConnectStart: func(network, addr string) {
			connectStart = time.Now()
		},
		ConnectDone: func(network, addr string, err error) {
			if err == nil {
				lastPhaseEnd = time.Now()
				timing.TCPConnectTime = lastPhaseEnd.Sub(connectStart)
			}
		},
		TLSHandshakeStart: func() {
			tlsStart = time.Now()
		},
		TLSHandshakeDone: func(state tls.ConnectionState, err error) {
			if err == nil {
				lastPhaseEnd = time.Now()
				timing.TLSHandshakeTime = lastPhaseEnd.Sub(tlsStart)
			}
		},
		GotConn: func(info httptrace.GotConnInfo) {
			timing.ConnReused = info.Reused
			if info.Reused {
				lastPhaseEnd = time.Now()
			}
		},
		GotFirstResponseByte: func() {
			timing.TimeToFirstByte = time.Since(lastPhaseEnd)
		},
	}
}
