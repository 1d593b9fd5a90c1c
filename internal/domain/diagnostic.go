package domain

import "time"

// DiagnosticSeverity grades advisory findings.
type DiagnosticSeverity string

const (
	SeverityInfo    DiagnosticSeverity = "info"
	SeverityWarning DiagnosticSeverity = "warning"
)

// Diagnostic is an advisory finding surfaced to the caller. Ambiguous
// roster situations (orphaned continuation fragments, inferred period
// starts, overlapping periods, malformed clock strings) degrade to
// diagnostics; they never abort the calculation.
type Diagnostic struct {
	Severity DiagnosticSeverity `json:"severity"`
	Date     time.Time          `json:"date,omitempty"`
	Message  string             `json:"message"`
}
