package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	apihttp "github.com/wesleyorama2/apibench/internal/http"
	"github.com/wesleyorama2/apibench/internal/output"
)

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [URL]",
		Short: "Make one traced GET request to the values endpoint",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return traceRequest(cmd, args, http.MethodGet, nil)
		},
	}
	addTraceFlags(cmd)
	return cmd
}

func addTraceFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayP("header", "H", []string{}, "HTTP headers to include (can be used multiple times)")
	cmd.Flags().BoolP("verbose", "v", false, "Show timing breakdown and response headers")
	cmd.Flags().DurationP("timeout", "t", 30*time.Second, "Request timeout")
	cmd.Flags().Bool("no-color", false, "Disable colored output")
}

// traceRequest sends a single request and prints it with its response.
func traceRequest(cmd *cobra.Command, args []string, method string, body []byte) error {
	url := apihttp.DefaultEndpoint
	if len(args) == 1 {
		url = args[0]
	}
	rawHeaders, _ := cmd.Flags().GetStringArray("header")
	verbose, _ := cmd.Flags().GetBool("verbose")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	noColor, _ := cmd.Flags().GetBool("no-color")

	headers, err := parseHeaders(rawHeaders)
	if err != nil {
		return err
	}

	client := apihttp.NewClient(
		apihttp.WithEndpoint(url),
		apihttp.WithTimeout(timeout),
	)

	req := apihttp.NewRequest(method, "")
	for key, value := range headers {
		req.WithHeader(key, value)
	}
	if body != nil {
		req.WithBody(body)
		if _, ok := headers["Content-Type"]; !ok {
			req.WithHeader("Content-Type", "application/json")
		}
	}

	out := cmd.OutOrStdout()
	formatter := output.NewFormatter(verbose, output.SchemeFor(out, noColor))
	fmt.Fprint(out, formatter.FormatRequest(req, client.Endpoint()))

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	resp, err := client.Do(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprint(out, formatter.FormatResponse(resp))
	return nil
}
