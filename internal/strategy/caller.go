// Package strategy implements the interchangeable ways of calling the values
// endpoint that the benchmark compares. They form a ladder: each step removes
// one full-body materialization or starts consuming the body earlier.
package strategy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	apihttp "github.com/wesleyorama2/apibench/internal/http"
	"github.com/wesleyorama2/apibench/internal/model"
)

// Caller runs strategies against the endpoint of a shared client.
type Caller struct {
	client *apihttp.Client
}

// NewCaller creates a Caller using client for every call.
func NewCaller(client *apihttp.Client) *Caller {
	return &Caller{client: client}
}

// send issues req on client and maps context failures to ErrCanceled.
func send(ctx context.Context, client *http.Client, req *http.Request) (*http.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, canceled(err)
	}

	resp, err := client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, canceled(ctxErr)
		}
		return nil, err
	}
	return resp, nil
}

// readAll reads body to the end, mapping a mid-body cancellation to ErrCanceled.
func readAll(ctx context.Context, body io.Reader) ([]byte, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, canceled(ctxErr)
		}
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return data, nil
}

func canceled(cause error) error {
	return fmt.Errorf("%w: %w", ErrCanceled, cause)
}

// drainAndClose lets the connection go back to the pool.
func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}

func decodeRecords(r io.Reader) ([]model.Record, error) {
	var records []model.Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("decoding records: %w", err)
	}
	return records, nil
}

func unmarshalRecords(content string) ([]model.Record, error) {
	var records []model.Record
	if err := json.Unmarshal([]byte(content), &records); err != nil {
		return nil, fmt.Errorf("decoding records: %w", err)
	}
	return records, nil
}

// newEncoder is shared by both POST strategies so that the same value always
// produces the same bytes on the wire.
func newEncoder(w io.Writer) *json.Encoder {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc
}
