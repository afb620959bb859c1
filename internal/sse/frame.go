// ABOUTME: Strips Server-Sent-Events framing from a fully buffered response
// ABOUTME: Handles event:-led frames, bare data: frames, and unframed payloads

package sse

import "strings"

const dataMarker = "data: "

// ExtractPayload strips SSE envelope syntax from raw and returns the embedded
// payload. It never fails: text that carries no recognizable framing comes
// back unchanged (minus trailing newlines), and running it on its own output
// is a no-op.
//
// The tool endpoint emits at most one frame per response, so this operates on
// the whole buffer rather than iterating frame by frame.
func ExtractPayload(raw string) string {
	payload := raw

	switch {
	case strings.HasPrefix(raw, "event:"):
		// "event: message\ndata: {...}" - take everything after the first
		// data marker. A frame with no data line passes through as-is.
		if idx := strings.Index(raw, "\n"+dataMarker); idx >= 0 {
			payload = raw[idx+1+len(dataMarker):]
		}
	case strings.HasPrefix(raw, dataMarker):
		payload = raw[len(dataMarker):]
	}

	return strings.TrimRight(payload, "\n")
}
