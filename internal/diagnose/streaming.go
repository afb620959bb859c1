// ABOUTME: Streaming transport: incremental body reads accumulated into one string
// ABOUTME: Fails fast when the round tripper cannot deliver bodies incrementally

package diagnose

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	acceptStreaming = "application/json, text/event-stream"
	contentTypeJSON = "application/json"

	// streamChunkSize is the read granularity; small enough to observe
	// cancellation promptly, large enough to not thrash on big frames.
	streamChunkSize = 32 * 1024
)

// streamingTransport reads the response body chunk by chunk as bytes arrive.
type streamingTransport struct {
	client *http.Client
}

func (t *streamingTransport) Name() string { return "streaming" }

// FetchText posts the request and drains the body incrementally. On abort
// the partial accumulation is discarded: a body cut off by the timeout is a
// failure, never a partial success.
func (t *streamingTransport) FetchText(ctx context.Context, url string, body []byte) (string, error) {
	if !supportsStreaming(t.client) {
		return "", ErrStreamingUnsupported
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(body)))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", contentTypeJSON)
	req.Header.Set("Accept", acceptStreaming)

	resp, err := t.client.Do(req)
	if err != nil {
		return "", unwrapCtx(ctx, fmt.Errorf("sending request: %w", err))
	}
	defer resp.Body.Close()

	if resp.Body == nil {
		return "", ErrStreamingUnsupported
	}

	var sb strings.Builder
	buf := make([]byte, streamChunkSize)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			sb.Write(buf[:n])
		}
		if err == io.EOF {
			return sb.String(), nil
		}
		if err != nil {
			return "", unwrapCtx(ctx, fmt.Errorf("reading body: %w", err))
		}
	}
}

// unwrapCtx prefers the context's own error once the deadline has fired, so
// timeout aborts do not masquerade as transport errors.
func unwrapCtx(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}
