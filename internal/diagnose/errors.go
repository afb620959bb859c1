// ABOUTME: Error kinds for the diagnosis client and classification of failures
// ABOUTME: Maps transport/parse errors onto the connection/timeout/protocol/rpc taxonomy

package diagnose

import (
	"context"
	"errors"
	"fmt"

	"github.com/planthaus/cropdoc/internal/rpc"
)

// ErrorKind classifies a failed diagnosis so callers can distinguish
// connectivity problems from service problems.
type ErrorKind string

const (
	// KindNone marks a successful result.
	KindNone ErrorKind = ""
	// KindConnection: the request could not be sent or no response headers
	// arrived (DNS failure, refused connection).
	KindConnection ErrorKind = "connection"
	// KindTimeout: the shared timeout budget elapsed before a usable
	// response was assembled.
	KindTimeout ErrorKind = "timeout"
	// KindProtocol: bytes arrived but no valid envelope could be extracted,
	// even through the recovery parse.
	KindProtocol ErrorKind = "protocol"
	// KindRPC: the remote service returned an explicit error envelope.
	KindRPC ErrorKind = "rpc"
	// KindEmptyResult: a non-error envelope lacked result.content[0].text.
	KindEmptyResult ErrorKind = "empty_result"
	// KindInput: the image could not be read or prepared before any request
	// was sent. Produced by callers, never by the client itself.
	KindInput ErrorKind = "input"
)

// ErrStreamingUnsupported is returned by the streaming transport when the
// runtime cannot deliver a response body incrementally. It always triggers
// the polling fallback.
var ErrStreamingUnsupported = errors.New("diagnose: incremental body reads unsupported")

// errEmptyResult signals a well-formed envelope with no usable content path.
var errEmptyResult = errors.New("diagnose: envelope has no result content")

// httpStatusError reports a non-2xx response from the endpoint.
type httpStatusError struct {
	status int
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("diagnose: endpoint returned HTTP %d", e.status)
}

// classify maps an internal failure onto its ErrorKind. Timeout takes
// precedence: an aborted transport surfaces as a context error no matter
// which strategy was active when the budget ran out.
func classify(err error) ErrorKind {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return KindTimeout
	case errors.Is(err, rpc.ErrNoEnvelope):
		return KindProtocol
	case errors.Is(err, errEmptyResult):
		return KindEmptyResult
	default:
		var statusErr *httpStatusError
		if errors.As(err, &statusErr) {
			return KindProtocol
		}
		return KindConnection
	}
}
