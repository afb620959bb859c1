// ABOUTME: Transport strategy interface for fetching the tool-call response text
// ABOUTME: Streaming and polling implementations are selected at call time

package diagnose

import (
	"context"
	"net/http"
)

// textTransport is one strategy for obtaining the full response text of a
// tool-call POST. Implementations own their read mechanics but share the
// caller's context for the timeout budget; a failed strategy must return an
// error rather than a silently truncated body so the client can fall back.
type textTransport interface {
	// Name identifies the strategy in trace events.
	Name() string
	// FetchText posts body to url and returns the complete response text.
	FetchText(ctx context.Context, url string, body []byte) (string, error)
}

// streamProber is optionally implemented by an http.RoundTripper to declare
// whether response bodies are delivered incrementally. Round trippers that
// buffer entire responses make the streaming strategy pointless; the probe
// lets it fail fast instead of pretending a buffered body was streamed.
type streamProber interface {
	SupportsStreaming() bool
}

// supportsStreaming probes the client's round tripper. The stdlib transport
// streams bodies, so an absent or silent round tripper counts as capable.
func supportsStreaming(c *http.Client) bool {
	if c == nil {
		return true
	}
	if p, ok := c.Transport.(streamProber); ok {
		return p.SupportsStreaming()
	}
	return true
}
