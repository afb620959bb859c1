// ABOUTME: Formats a diagnosis result as a markdown report for terminal display
// ABOUTME: Glamour rendering on TTYs, plain markdown when piped

package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/planthaus/cropdoc/internal/diagnose"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("221")).Bold(true)
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
)

// Markdown builds the report for one diagnosed image. It only consumes the
// normalized result; transport details never reach this layer.
func Markdown(source string, res diagnose.Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", source)

	if !res.OK {
		fmt.Fprintf(&sb, "**Diagnosis failed** (%s): %s\n", res.Kind, res.Err)
		return sb.String()
	}

	report, ok := res.Diagnosis.Report()
	if !ok {
		// Plain-text answer from the tool, or JSON in an unexpected shape.
		sb.WriteString(res.Diagnosis.Text)
		sb.WriteString("\n")
		return sb.String()
	}

	if report.Crop != "" {
		fmt.Fprintf(&sb, "**Crop:** %s\n\n", report.Crop)
	}
	if report.HealthStatus != "" {
		fmt.Fprintf(&sb, "**Health status:** %s\n\n", report.HealthStatus)
	}
	if len(report.Issues) > 0 {
		sb.WriteString("## Issues\n\n")
		for _, issue := range report.Issues {
			fmt.Fprintf(&sb, "- %s\n", issue)
		}
		sb.WriteString("\n")
	}
	if len(report.TreatmentRecommendations) > 0 {
		sb.WriteString("## Treatment\n\n")
		for _, rec := range report.TreatmentRecommendations {
			fmt.Fprintf(&sb, "- %s\n", rec)
		}
		sb.WriteString("\n")
	}
	if report.DiagnosticNotes != "" {
		fmt.Fprintf(&sb, "## Notes\n\n%s\n\n", report.DiagnosticNotes)
	}
	if report.RequiresLabTest {
		sb.WriteString("A laboratory test is recommended to confirm this diagnosis.\n")
	}

	// Structured payloads outside the conventional shape still deserve
	// display; show them as a JSON block rather than dropping fields.
	if sb.Len() == len(source)+4 {
		sb.WriteString(codeBlock(res.Diagnosis.Text))
	}
	return sb.String()
}

// StatusLine renders a one-line colored summary for a result.
func StatusLine(source string, res diagnose.Result, styled bool) string {
	var label string
	var style lipgloss.Style
	switch {
	case !res.OK:
		label, style = "failed", errStyle
	case looksUnhealthy(res):
		label, style = "needs attention", warnStyle
	default:
		label, style = "done", okStyle
	}
	if !styled {
		return fmt.Sprintf("%s: %s", source, label)
	}
	return fmt.Sprintf("%s: %s", source, style.Render(label))
}

// Terminal renders markdown for display. When styled is false the markdown
// passes through untouched, which keeps piped output machine-friendly.
func Terminal(md string, width int, styled bool) string {
	if !styled {
		return md
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n ") + "\n"
}

func looksUnhealthy(res diagnose.Result) bool {
	report, ok := res.Diagnosis.Report()
	if !ok {
		return false
	}
	status := strings.ToLower(report.HealthStatus)
	return status != "" && status != "healthy"
}

func codeBlock(text string) string {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, []byte(text), "", "  "); err != nil {
		pretty.WriteString(text)
	}
	return "```json\n" + pretty.String() + "\n```\n"
}
