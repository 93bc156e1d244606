package http

import (
	"net/http"
	"time"

	"github.com/wesleyorama2/apibench/pkg/jsonpath"
)

// TimingInfo stores the time spent in each phase of a request.
type TimingInfo struct {
	StartTime           time.Time
	DNSLookupTime       time.Duration
	TCPConnectTime      time.Duration
	TLSHandshakeTime    time.Duration
	TimeToFirstByte     time.Duration
	ContentTransferTime time.Duration
	TotalTime           time.Duration

	// ConnReused is true when the request went out on a pooled connection.
	ConnReused bool
}

// Response is a fully read reply to a traced request.
type Response struct {
	StatusCode int
	Status     string
	Headers    http.Header
	Body       []byte
	Timing     TimingInfo
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// Count returns the length of the array at JSONPath path ("$" for the whole
// body), or -1 when there is no array there.
func (r *Response) Count(path string) int {
	return jsonpath.Count(r.Body, path)
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return IsSuccessStatus(r.StatusCode)
}

// IsRedirect reports a 3xx status.
func (r *Response) IsRedirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400
}

// Elapsed is the total time from sending the request to reading the last byte.
func (r *Response) Elapsed() time.Duration {
	return r.Timing.TotalTime
}

// IsSuccessStatus reports whether code is in the 2xx range.
func IsSuccessStatus(code int) bool {
	return code >= 200 && code < 300
}
