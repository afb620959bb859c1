// ABOUTME: Result types and envelope normalization for the diagnosis client
// ABOUTME: Second-level JSON decode of the tool payload; failures carry ErrorKind

package diagnose

import (
	"encoding/json"
	"fmt"

	"github.com/planthaus/cropdoc/internal/rpc"
)

// Diagnosis is the tool's payload. Tool payloads arrive as JSON-encoded
// strings inside the envelope; when that inner text decodes as JSON the
// Value field holds the decoded object, otherwise the payload is plain text
// and Value is nil. Text always carries the raw payload. No schema beyond
// "valid JSON or string" is enforced here.
type Diagnosis struct {
	Value any
	Text  string
}

// IsStructured reports whether the tool returned a JSON document.
func (d Diagnosis) IsStructured() bool {
	return d.Value != nil
}

// Report is the conventional shape of a structured diagnosis. Decoding into
// it is best-effort sugar for display layers; missing fields are simply zero.
type Report struct {
	Crop                     string   `json:"crop"`
	HealthStatus             string   `json:"health_status"`
	Issues                   []string `json:"issues"`
	TreatmentRecommendations []string `json:"treatment_recommendations"`
	DiagnosticNotes          string   `json:"diagnostic_notes"`
	RequiresLabTest          bool     `json:"requires_lab_test"`
}

// Report re-decodes the raw payload into the conventional report shape.
// ok is false for plain-text payloads or JSON that is not an object of the
// expected field types.
func (d Diagnosis) Report() (Report, bool) {
	if !d.IsStructured() {
		return Report{}, false
	}
	var r Report
	if err := json.Unmarshal([]byte(d.Text), &r); err != nil {
		return Report{}, false
	}
	return r, true
}

// Result is the single outcome type the client hands back: either OK with a
// Diagnosis, or a failure with an ErrorKind and human-readable message.
// No error ever crosses the client boundary any other way.
type Result struct {
	OK        bool
	Diagnosis Diagnosis
	Err       string
	Kind      ErrorKind
}

// normalize maps a parsed envelope into a Result.
func normalize(env *rpc.Envelope) Result {
	if env.Error != nil {
		return Result{OK: false, Err: env.Error.Message, Kind: KindRPC}
	}

	if env.Result == nil || len(env.Result.Content) == 0 || env.Result.Content[0].Text == "" {
		return failure(errEmptyResult)
	}

	text := env.Result.Content[0].Text

	// The tool encodes its diagnosis as a JSON string inside the envelope.
	// A payload that does not decode is a plain-text answer ("Not a plant"),
	// which is still a successful call.
	var value any
	if err := json.Unmarshal([]byte(text), &value); err != nil || value == nil {
		return Result{OK: true, Diagnosis: Diagnosis{Text: text}}
	}

	return Result{OK: true, Diagnosis: Diagnosis{Value: value, Text: text}}
}

// failure converts an internal error into a failed Result with its kind.
func failure(err error) Result {
	kind := classify(err)
	return Result{OK: false, Err: messageFor(kind, err), Kind: kind}
}

// messageFor renders a caller-facing message for a failure. Connectivity
// kinds get guidance wording distinct from service-side kinds.
func messageFor(kind ErrorKind, err error) string {
	switch kind {
	case KindTimeout:
		return "the diagnosis service took too long to respond"
	case KindConnection:
		return fmt.Sprintf("could not reach the diagnosis service: %v", err)
	case KindProtocol:
		return fmt.Sprintf("the diagnosis service sent an unreadable response: %v", err)
	case KindEmptyResult:
		return "the diagnosis service returned an empty result"
	default:
		return err.Error()
	}
}
