package strategy

import (
	"bytes"
	"context"
	"io"
	"net/http"

	apihttp "github.com/wesleyorama2/apibench/internal/http"
	"github.com/wesleyorama2/apibench/internal/model"
)

// BasicGet reads the whole body as text and unmarshals it. It ignores ctx and
// does not look at the status code; transport and parse errors are returned
// as they are.
func (c *Caller) BasicGet(_ context.Context) ([]model.Record, error) {
	req, err := c.client.NewRequest(context.Background(), http.MethodGet, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.HTTPClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return unmarshalRecords(string(data))
}

// CancellableGet is BasicGet with ctx threaded through the request. A done ctx
// yields ErrCanceled, without contacting the endpoint if it was already done.
func (c *Caller) CancellableGet(ctx context.Context) ([]model.Record, error) {
	resp, err := c.get(ctx)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := readAll(ctx, resp.Body)
	if err != nil {
		return nil, err
	}
	return unmarshalRecords(string(data))
}

// StatusCheckedGet fails with ErrUnsuccessfulStatus before touching the body
// when the status is not 2xx.
func (c *Caller) StatusCheckedGet(ctx context.Context) ([]model.Record, error) {
	resp, err := c.get(ctx)
	if err != nil {
		return nil, err
	}
	defer drainAndClose(resp.Body)

	if !apihttp.IsSuccessStatus(resp.StatusCode) {
		return nil, unsuccessfulStatus(resp.StatusCode)
	}

	data, err := readAll(ctx, resp.Body)
	if err != nil {
		return nil, err
	}
	return unmarshalRecords(string(data))
}

// APIErrorGet always reads the body as text. A non-2xx status becomes an
// *APIError carrying that text.
func (c *Caller) APIErrorGet(ctx context.Context) ([]model.Record, error) {
	resp, err := c.get(ctx)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := readAll(ctx, resp.Body)
	if err != nil {
		return nil, err
	}

	content := string(data)
	if !apihttp.IsSuccessStatus(resp.StatusCode) {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: content}
	}
	return unmarshalRecords(content)
}

// maxPreallocBody caps how much Content-Length may reserve up front; larger
// bodies grow the buffer as bytes arrive.
const maxPreallocBody = 64 << 20

// StreamGet waits for the full content like the buffered variants but keeps
// it as bytes and decodes from a reader, skipping the string copy.
func (c *Caller) StreamGet(ctx context.Context) ([]model.Record, error) {
	resp, err := c.get(ctx)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var content bytes.Buffer
	if resp.ContentLength > 0 && resp.ContentLength <= maxPreallocBody {
		content.Grow(int(resp.ContentLength))
	}
	if _, err := content.ReadFrom(resp.Body); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, canceled(ctxErr)
		}
		return nil, err
	}

	if !apihttp.IsSuccessStatus(resp.StatusCode) {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: content.String()}
	}
	return decodeRecords(&content)
}

// StreamHeadersGet decodes straight from the connection as soon as the
// headers are in, so parsing overlaps with the body still arriving.
func (c *Caller) StreamHeadersGet(ctx context.Context) ([]model.Record, error) {
	resp, err := c.get(ctx)
	if err != nil {
		return nil, err
	}
	defer drainAndClose(resp.Body)

	if !apihttp.IsSuccessStatus(resp.StatusCode) {
		data, err := readAll(ctx, resp.Body)
		if err != nil {
			return nil, err
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	records, err := decodeRecords(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, canceled(ctxErr)
		}
		return nil, err
	}
	return records, nil
}

func (c *Caller) get(ctx context.Context) (*http.Response, error) {
	req, err := c.client.NewRequest(ctx, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	return send(ctx, c.client.HTTPClient(), req)
}
