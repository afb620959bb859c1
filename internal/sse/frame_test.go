// ABOUTME: Table-driven tests for SSE payload extraction
// ABOUTME: Covers event frames, data frames, unframed text, and idempotence

package sse

import "testing"

func TestExtractPayload(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "event frame",
			in:   "event: message\ndata: {\"jsonrpc\":\"2.0\"}\n\n",
			want: "{\"jsonrpc\":\"2.0\"}",
		},
		{
			name: "data frame only",
			in:   "data: {\"id\":1}\n\n",
			want: "{\"id\":1}",
		},
		{
			name: "no framing",
			in:   "{\"id\":1}",
			want: "{\"id\":1}",
		},
		{
			name: "no framing trailing newlines",
			in:   "{\"id\":1}\n\n\n",
			want: "{\"id\":1}",
		},
		{
			name: "event frame without data line",
			in:   "event: message\n\n",
			want: "event: message",
		},
		{
			name: "payload containing data marker mid-text",
			in:   "event: message\ndata: first\ndata: second\n\n",
			want: "first\ndata: second",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ExtractPayload(tt.in); got != tt.want {
				t.Errorf("ExtractPayload(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractPayload_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"event: message\ndata: {\"a\":1}\n\n",
		"data: plain text\n",
		"already stripped",
		"",
	}

	for _, in := range inputs {
		once := ExtractPayload(in)
		twice := ExtractPayload(once)
		if once != twice {
			t.Errorf("not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}
