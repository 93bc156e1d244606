package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/wesleyorama2/apibench/internal/http"
)

// Formatter renders one-off HTTP requests and responses as text
type Formatter struct {
	Verbose bool
	colors  *ColorScheme
}

// NewFormatter creates a new formatter with the given options
func NewFormatter(verbose bool, colors *ColorScheme) *Formatter {
	if colors == nil {
		colors = NoColorScheme()
	}
	return &Formatter{
		Verbose: verbose,
		colors:  colors,
	}
}

// FormatRequest formats an HTTP request for display
func (f *Formatter) FormatRequest(req *http.Request, endpoint string) string {
	var buf strings.Builder

	url := req.URL
	if url == "" {
		url = endpoint
	}
	buf.WriteString(fmt.Sprintf("▶ REQUEST: %s %s\n", f.colors.Method.Sprint(req.Method), url))

	if f.Verbose || len(req.Headers) > 0 {
		buf.WriteString("  Headers:\n")
		for _, key := range sortedKeys(req.Headers) {
			buf.WriteString(fmt.Sprintf("    %s: %s\n", f.colors.HeaderKey.Sprint(key), req.Headers[key]))
		}
	}

	if req.Body != nil {
		buf.WriteString("  Body: ")
		switch body := req.Body.(type) {
		case string:
			buf.WriteString(formatJSONString(body))
		case []byte:
			buf.WriteString(formatJSONString(string(body)))
		default:
			jsonBody, err := json.Marshal(body)
			if err != nil {
				buf.WriteString(fmt.Sprintf("%v", body))
			} else {
				buf.WriteString(formatJSONString(string(jsonBody)))
			}
		}
		buf.WriteString("\n")
	}

	return buf.String()
}

// FormatResponse formats an HTTP response for display
func (f *Formatter) FormatResponse(resp *http.Response) string {
	var buf strings.Builder

	statusColor := f.colors.StatusError
	if resp.IsSuccess() {
		statusColor = f.colors.StatusOK
	} else if resp.IsRedirect() {
		statusColor = f.colors.StatusWarn
	}

	buf.WriteString(fmt.Sprintf("◀ RESPONSE: %s (%dms)\n",
		statusColor.Sprint(resp.Status),
		resp.Elapsed().Milliseconds()))

	if f.Verbose {
		t := resp.Timing
		buf.WriteString("  Timing:\n")
		buf.WriteString(fmt.Sprintf("    DNS Lookup:         %s\n", t.DNSLookupTime))
		buf.WriteString(fmt.Sprintf("    TCP Connection:     %s\n", t.TCPConnectTime))
		buf.WriteString(fmt.Sprintf("    TLS Handshake:      %s\n", t.TLSHandshakeTime))
		buf.WriteString(fmt.Sprintf("    Time to First Byte: %s\n", t.TimeToFirstByte))
		buf.WriteString(fmt.Sprintf("    Content Transfer:   %s\n", t.ContentTransferTime))
		buf.WriteString(fmt.Sprintf("    Total:              %s\n", t.TotalTime))
		buf.WriteString(fmt.Sprintf("    Connection Reused:  %t\n", t.ConnReused))

		buf.WriteString("  Headers:\n")
		keys := make([]string, 0, len(resp.Headers))
		for key := range resp.Headers {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			for _, value := range resp.Headers[key] {
				buf.WriteString(fmt.Sprintf("    %s: %s\n", f.colors.HeaderKey.Sprint(key), value))
			}
		}

		if n := resp.Count("$"); n >= 0 {
			buf.WriteString(fmt.Sprintf("  Records: %d\n", n))
		}
	}

	if len(resp.Body) > 0 {
		buf.WriteString("  Body:\n")
		buf.WriteString(formatJSONString(resp.Text()))
		buf.WriteString("\n")
	}

	return buf.String()
}

// formatJSONString attempts to pretty-print a JSON string
func formatJSONString(s string) string {
	var prettyJSON bytes.Buffer
	if err := json.Indent(&prettyJSON, []byte(s), "  ", "  "); err != nil {
		return s
	}
	return prettyJSON.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
