// ABOUTME: Tests for the leveled logger: level gating and output formatting
// ABOUTME: Uses SetOutput with a buffer to capture emitted lines

package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLevelGating(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	defer SetLevel(LevelInfo)

	SetLevel(LevelWarn)
	Debug("hidden %d", 1)
	Info("hidden %d", 2)
	Warn("shown %d", 3)
	Error("shown %d", 4)

	got := buf.String()
	if strings.Contains(got, "hidden") {
		t.Errorf("suppressed lines leaked: %q", got)
	}
	if !strings.Contains(got, "[WARN] shown 3") {
		t.Errorf("missing warn line: %q", got)
	}
	if !strings.Contains(got, "[ERROR] shown 4") {
		t.Errorf("missing error line: %q", got)
	}
}

func TestErrorAlwaysEmitted(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	defer SetLevel(LevelInfo)

	SetLevel(LevelError)
	Error("boom: %v", "reason")

	if !strings.Contains(buf.String(), "[ERROR] boom: reason") {
		t.Errorf("error line missing: %q", buf.String())
	}
}
