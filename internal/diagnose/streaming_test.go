// ABOUTME: Unit tests for the streaming transport strategy
// ABOUTME: Chunked accumulation, fail-fast probe, and abort-discards-partial

package diagnose

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestStreaming_AccumulatesChunks(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f := w.(http.Flusher)
		for _, chunk := range []string{"event: message\n", "data: {\"id\":1}", "\n\n"} {
			fmt.Fprint(w, chunk)
			f.Flush()
		}
	}))
	t.Cleanup(srv.Close)

	tr := &streamingTransport{client: http.DefaultClient}
	text, err := tr.FetchText(context.Background(), srv.URL, []byte("{}"))
	if err != nil {
		t.Fatalf("FetchText: %v", err)
	}
	if text != "event: message\ndata: {\"id\":1}\n\n" {
		t.Errorf("text = %q", text)
	}
}

func TestStreaming_UnsupportedProbeFailsFast(t *testing.T) {
	t.Parallel()

	// The probe must fail before any request goes out.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	}))
	t.Cleanup(srv.Close)

	tr := &streamingTransport{client: &http.Client{
		Transport: &bufferedRoundTripper{inner: http.DefaultTransport},
	}}
	_, err := tr.FetchText(context.Background(), srv.URL, []byte("{}"))
	if !errors.Is(err, ErrStreamingUnsupported) {
		t.Errorf("err = %v, want ErrStreamingUnsupported", err)
	}
}

func TestStreaming_AbortDiscardsPartial(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data: {\"partial\":")
		w.(http.Flusher).Flush()
		<-block
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(block) })

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	tr := &streamingTransport{client: http.DefaultClient}
	text, err := tr.FetchText(ctx, srv.URL, []byte("{}"))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
	if text != "" {
		t.Errorf("partial text leaked: %q", text)
	}
}

func TestStreaming_AcceptHeader(t *testing.T) {
	t.Parallel()

	var accept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept = r.Header.Get("Accept")
	}))
	t.Cleanup(srv.Close)

	tr := &streamingTransport{client: http.DefaultClient}
	if _, err := tr.FetchText(context.Background(), srv.URL, []byte("{}")); err != nil {
		t.Fatalf("FetchText: %v", err)
	}
	if accept != "application/json, text/event-stream" {
		t.Errorf("Accept = %q", accept)
	}
}
