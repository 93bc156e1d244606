package strategy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	apihttp "github.com/wesleyorama2/apibench/internal/http"
)

const jsonContentType = "application/json"

// BasicPost encodes payload into an in-memory buffer and sends it.
func (c *Caller) BasicPost(ctx context.Context, payload any) error {
	var body bytes.Buffer
	if err := newEncoder(&body).Encode(payload); err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	return c.post(ctx, &body)
}

// StreamPost encodes payload straight into the request body through a pipe,
// so the whole document never sits in memory at once.
func (c *Caller) StreamPost(ctx context.Context, payload any) error {
	pr, pw := io.Pipe()
	encoded := make(chan error, 1)
	go func() {
		err := newEncoder(pw).Encode(payload)
		pw.CloseWithError(err)
		encoded <- err
	}()

	err := c.post(ctx, pr)
	// unblocks the encoder if the transport gave up before draining the pipe
	pr.Close()
	if encErr := <-encoded; encErr != nil && !errors.Is(encErr, io.ErrClosedPipe) {
		return fmt.Errorf("encoding payload: %w", encErr)
	}
	return err
}

func (c *Caller) post(ctx context.Context, body io.Reader) error {
	client, release := c.client.PostClient()
	defer release()

	req, err := c.client.NewRequest(ctx, http.MethodPost, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", jsonContentType)

	resp, err := send(ctx, client, req)
	if err != nil {
		return err
	}
	drainAndClose(resp.Body)

	if !apihttp.IsSuccessStatus(resp.StatusCode) {
		return unsuccessfulStatus(resp.StatusCode)
	}
	return nil
}
