package diagnostics

import (
	"github.com/nanov/jsasta/internal/rpc"
)

// severityToLSP maps Severity to the LSP DiagnosticSeverity numeric code.
// The two enums are deliberately numbered identically (spec.md §6), but the
// mapping is kept explicit so a future renumbering of either enum can't
// silently desync the wire format.
func severityToLSP(s Severity) int {
	switch s {
	case Error:
		return 1
	case Warning:
		return 2
	case Information:
		return 3
	case Hint:
		return 4
	default:
		return 1
	}
}

// WriteJSON appends d's LSP `Diagnostic` representation to b:
//
//	{
//	  "range": {"start": {"line", "character"}, "end": {"line", "character"}},
//	  "severity": <1-4>,
//	  "code": "<Code>",        // omitted when Code is empty
//	  "source": "jsasta",
//	  "message": "<Message>"
//	}
//
// A diagnostic's Location names a single point; range.start and range.end
// are both set to it since the front end does not track end positions.
func WriteJSON(b *rpc.Builder, d Diagnostic) {
	line := d.Location.LSPLine()
	col := d.Location.LSPColumn()

	b.BeginObject()
	b.Key("range").BeginObject()
	b.Key("start").BeginObject().Key("line").Int(line).Key("character").Int(col).EndObject()
	b.Key("end").BeginObject().Key("line").Int(line).Key("character").Int(col).EndObject()
	b.EndObject()
	b.Key("severity").Int(severityToLSP(d.Severity))
	if d.Code != "" {
		b.Key("code").String_(string(d.Code))
	}
	b.Key("source").String_("jsasta")
	b.Key("message").String_(d.Message)
	b.EndObject()
}

// WriteArrayJSON appends the full `publishDiagnostics` diagnostics array for
// diags to b.
func WriteArrayJSON(b *rpc.Builder, diags []Diagnostic) {
	b.BeginArray()
	for _, d := range diags {
		WriteJSON(b, d)
	}
	b.EndArray()
}
