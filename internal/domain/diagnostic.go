package domain

import "fmt"

// Severity of a compiler diagnostic
type Severity string

const (
	SeverityFatal   Severity = "fatal error"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
	SeverityRemark  Severity = "remark"
)

// Diagnostic is one parsed line of analysis tool output
type Diagnostic struct {
	File     string
	Line     int
	Column   int
	Severity Severity
	Message  string
	Flag     string // e.g. -Wgnome or -Wformat-nonliteral, empty if absent
}

// Location returns file:line[:column]
func (d Diagnostic) Location() string {
	if d.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", d.File, d.Line, d.Column)
	}
	return fmt.Sprintf("%s:%d", d.File, d.Line)
}
