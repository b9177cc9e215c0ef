// Package diagnostics collects and emits user-visible compiler/LSP
// diagnostics. It mirrors the LSP wire shape (spec.md §4.A, §6) so the two
// front ends — the CLI's textual sink and the LSP's publishDiagnostics
// notification — share one data model.
package diagnostics

import (
	"fmt"

	"github.com/nanov/jsasta/internal/source"
)

// Severity mirrors the LSP DiagnosticSeverity enum (spec.md §6): 1=Error,
// 2=Warning, 3=Information, 4=Hint.
type Severity int

const (
	Error Severity = iota + 1
	Warning
	Information
	Hint
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "ERROR"
	case Warning:
		return "WARNING"
	case Information:
		return "INFO"
	case Hint:
		return "HINT"
	default:
		return "UNKNOWN"
	}
}

// Code identifies a diagnostic's category. The taxonomy follows spec.md §7:
// one short letter prefix per family plus a zero-padded number.
type Code string

const (
	// Lexical.
	CodeBadCharacter     Code = "L001"
	CodeUnterminatedStr  Code = "L002"
	CodeMalformedNumber  Code = "L003"
	CodeUnterminatedComm Code = "L004"

	// Syntactic.
	CodeUnexpectedToken  Code = "S001"
	CodeMissingTerminate Code = "S002"
	CodeUnbalancedBraces Code = "S003"

	// Declaration.
	CodeDuplicateDecl    Code = "D001"
	CodeExternalMissing  Code = "D002"
	CodeInvalidArraySize Code = "D003"

	// Resolution.
	CodeUndefinedVariable Code = "R001"
	CodeUndefinedFunction Code = "R002"
	CodeUnknownMember     Code = "R003"
	CodeUnknownType       Code = "R004"

	// Type.
	CodeTypeMismatch        Code = "T001"
	CodeMissingOperatorType Code = "T002"
	CodeNonBoolOperand      Code = "T003"
	CodeSignednessMismatch  Code = "T004"
	CodeNonIntegerIndex     Code = "T005"
	CodeConstMutation       Code = "T006"

	// Inference.
	CodeNonConvergence  Code = "I001"
	CodeRecursiveAlias  Code = "I002"

	// Runtime-LSP.
	CodeMalformedMessage Code = "P001"
	CodeUnknownMethod    Code = "P002"
	CodeMethodNotAllowed Code = "P003"
)

// Diagnostic is one user-visible message.
type Diagnostic struct {
	Severity Severity
	Code     Code // empty means "no code"
	Message  string
	Location source.Location

	// WorkID correlates this diagnostic with the AnalysisWork that produced
	// it, for slog/debugging only (SPEC_FULL.md §10.2). Never serialized.
	WorkID string
}

// DiagnosticError lets a diagnostic also be returned as a Go error from
// internal helpers (e.g. alias-cycle detection in the type registry) while
// still carrying full diagnostic metadata.
type DiagnosticError struct {
	Diagnostic
}

func (e *DiagnosticError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Location, e.Code, e.Message)
}

// NewError builds an Error-severity diagnostic.
func NewError(code Code, loc source.Location, message string) *DiagnosticError {
	return &DiagnosticError{Diagnostic{Severity: Error, Code: code, Message: message, Location: loc}}
}

// NewWarning builds a Warning-severity diagnostic.
func NewWarning(code Code, loc source.Location, message string) *DiagnosticError {
	return &DiagnosticError{Diagnostic{Severity: Warning, Code: code, Message: message, Location: loc}}
}

// FormatText renders a diagnostic in the CLI's fixed textual form from
// spec.md §6: `[SEVERITY] file:line:col: message`.
func FormatText(d Diagnostic) string {
	return fmt.Sprintf("[%s] %s: %s", d.Severity, d.Location, d.Message)
}
