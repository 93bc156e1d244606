package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// Request represents a one-off HTTP request
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    interface{}
}

// NewRequest creates a request for url. An empty url targets the client endpoint.
func NewRequest(method, url string) *Request {
	return &Request{
		Method:  method,
		URL:     url,
		Headers: make(map[string]string),
	}
}

// WithHeader adds a header to the request
func (r *Request) WithHeader(key, value string) *Request {
	r.Headers[key] = value
	return r
}

// WithBody sets the body of the request. Strings, byte slices and readers are
// sent as-is; any other value is encoded as JSON.
func (r *Request) WithBody(body interface{}) *Request {
	r.Body = body
	return r
}

// Build constructs an http.Request, falling back to endpoint when URL is empty
func (r *Request) Build(ctx context.Context, endpoint string) (*http.Request, error) {
	url := r.URL
	if url == "" {
		url = endpoint
	}

	var bodyReader io.Reader
	contentType := ""
	switch body := r.Body.(type) {
	case nil:
	case string:
		bodyReader = strings.NewReader(body)
	case []byte:
		bodyReader = bytes.NewReader(body)
	case io.Reader:
		bodyReader = body
	default:
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(jsonBody)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, url, bodyReader)
	if err != nil {
		return nil, err
	}

	for key, value := range r.Headers {
		req.Header.Set(key, value)
	}
	if contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}

	return req, nil
}
