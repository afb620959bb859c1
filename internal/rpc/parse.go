// ABOUTME: Envelope decoding with a brace-matching recovery pass for mangled buffers
// ABOUTME: Direct parse first, then balanced-object extraction over the raw text

package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoEnvelope reports that neither direct parsing nor the recovery scan
// could extract a valid envelope from the response bytes.
var ErrNoEnvelope = errors.New("rpc: no parseable envelope in response")

// ParseEnvelope decodes a JSON-RPC envelope from extracted payload text.
// When the direct parse fails it retries over the original raw buffer,
// extracting the first balanced top-level {...} object regardless of any
// garbage around it. Truncated transports and half-drained polling buffers
// routinely hand us such text.
func ParseEnvelope(extracted, raw string) (*Envelope, error) {
	if env, err := decode(extracted); err == nil {
		return env, nil
	}

	candidate, ok := balancedObject(raw)
	if !ok {
		return nil, fmt.Errorf("%w: no balanced object found", ErrNoEnvelope)
	}

	env, err := decode(stripTrailingCommas(candidate))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoEnvelope, err)
	}
	return env, nil
}

func decode(text string) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal([]byte(text), &env); err != nil {
		return nil, err
	}
	env.Raw = json.RawMessage(text)
	return &env, nil
}

// balancedObject scans raw for the first top-level {...} object, tracking
// brace depth while skipping string contents and escape sequences. It returns
// the spanning substring once depth returns to zero.
func balancedObject(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(raw); i++ {
		c := raw[i]

		if escaped {
			escaped = false
			continue
		}
		if inString {
			switch c {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1], true
			}
		}
	}

	return "", false
}

// stripTrailingCommas normalizes ",}" to "}" and ",]" to "]" outside of
// string literals. Some transports leave these artifacts behind when a
// streamed object is stitched back together.
func stripTrailingCommas(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))

	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if !inString && c == ',' && i+1 < len(s) && (s[i+1] == '}' || s[i+1] == ']') {
			continue
		}
		sb.WriteByte(c)

		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		}
	}

	return sb.String()
}
