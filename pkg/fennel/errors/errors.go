// Package errors provides structured error types for the fennel regex layer.
//
// This package defines RegexError, a unified error type covering dialect
// syntax errors, unsupported-construct errors, and host-engine compilation
// failures, with rich metadata for display and programmatic handling.
package errors

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// ErrorClass categorizes errors for filtering and policy decisions.
type ErrorClass string

const (
	ClassSyntax      ErrorClass = "syntax"      // Malformed dialect pattern
	ClassUnsupported ErrorClass = "unsupported" // Valid dialect, no translation strategy
	ClassProperty    ErrorClass = "property"    // Unknown/malformed Unicode property
	ClassHost        ErrorClass = "host"        // Translated text rejected by host engine
	ClassState       ErrorClass = "state"       // Invalid engine state (e.g. empty pattern, no previous)
)

// RegexError represents any error from translating or compiling a pattern.
type RegexError struct {
	Class   ErrorClass     // Error category
	Code    string         // Error code (e.g. "RX-0001")
	Message string         // Human-readable message
	Pattern string         // Original dialect pattern (if known)
	Offset  int            // Rune offset of the failure in Pattern (-1 if unknown)
	Data    map[string]any // Template variables used to render Message
}

// Error implements the error interface.
func (e *RegexError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	if e.Pattern != "" && e.Offset >= 0 {
		sb.WriteString(" in regex; marked by <-- HERE in m/")
		sb.WriteString(MarkPattern(e.Pattern, e.Offset))
		sb.WriteString("/")
	}
	return sb.String()
}

// MarkedPattern returns the pattern with a position marker inserted at the
// failing offset, or "" when no position is known.
func (e *RegexError) MarkedPattern() string {
	if e.Pattern == "" || e.Offset < 0 {
		return ""
	}
	return MarkPattern(e.Pattern, e.Offset)
}

// IsSyntax reports whether this is a dialect syntax error.
func (e *RegexError) IsSyntax() bool { return e.Class == ClassSyntax }

// IsUnsupported reports whether this is a recognized-but-untranslatable
// construct or property. These are the errors compatibility mode degrades.
func (e *RegexError) IsUnsupported() bool {
	return e.Class == ClassUnsupported || e.Class == ClassProperty
}

// IsHost reports whether the host engine rejected the translated text.
func (e *RegexError) IsHost() bool { return e.Class == ClassHost }

// MarkPattern inserts the " <-- HERE " marker at the given rune offset of the
// pattern. The offset is clamped to the pattern bounds.
func MarkPattern(pattern string, offset int) string {
	runes := []rune(pattern)
	if offset < 0 {
		offset = 0
	}
	if offset > len(runes) {
		offset = len(runes)
	}
	return string(runes[:offset]) + " <-- HERE " + string(runes[offset:])
}

// ErrorDef defines an error in the catalog.
type ErrorDef struct {
	Class    ErrorClass // Error category
	Template string     // Message template with {{.placeholders}}
}

// ErrorCatalog maps error codes to their definitions.
var ErrorCatalog = map[string]ErrorDef{
	// ========================================
	// Syntax errors (translation-time)
	// ========================================
	"RX-0001": {Class: ClassSyntax, Template: "unmatched ( in pattern"},
	"RX-0002": {Class: ClassSyntax, Template: "unmatched [ in pattern"},
	"RX-0003": {Class: ClassSyntax, Template: "invalid [] range \"{{.Lo}}-{{.Hi}}\""},
	"RX-0004": {Class: ClassSyntax, Template: "POSIX class [:{{.Name}}:] unknown"},
	"RX-0005": {Class: ClassSyntax, Template: "group name \"{{.Name}}\" invalid or already defined"},
	"RX-0006": {Class: ClassSyntax, Template: "unknown regexp modifier \"{{.Flag}}\""},
	"RX-0007": {Class: ClassSyntax, Template: "incomplete expression within '(?[ ])'"},
	"RX-0008": {Class: ClassSyntax, Template: "syntax error in '(?[...])', missing '])'"},
	"RX-0009": {Class: ClassSyntax, Template: "unexpected character '{{.Char}}' in '(?[ ])'; elements must be bracketed"},
	"RX-0010": {Class: ClassSyntax, Template: "pattern nesting too deep"},
	"RX-0011": {Class: ClassSyntax, Template: "unknown charname '{{.Name}}'"},
	"RX-0012": {Class: ClassSyntax, Template: "reference to nonexistent group \"{{.Ref}}\""},
	"RX-0013": {Class: ClassSyntax, Template: "trailing \\ in pattern"},
	"RX-0014": {Class: ClassSyntax, Template: "unterminated (?#...) comment"},
	"RX-0015": {Class: ClassSyntax, Template: "unrecognized escape \\{{.Char}} in pattern"},
	"RX-0016": {Class: ClassSyntax, Template: "missing right brace on \\{{.Kind}}{}"},
	"RX-0017": {Class: ClassSyntax, Template: "empty (?) without flags"},
	"RX-0018": {Class: ClassSyntax, Template: "unexpected operand in '(?[ ])'; expected an operator"},
	"RX-0019": {Class: ClassSyntax, Template: "unmatched ) in pattern"},

	// ========================================
	// Unsupported constructs and properties
	// ========================================
	"RX-0020": {Class: ClassProperty, Template: "unknown Unicode property or class name \"{{.Name}}\""},
	"RX-0021": {Class: ClassUnsupported, Template: "construct {{.What}} is not supported"},

	// ========================================
	// Host-engine failures (translation bugs)
	// ========================================
	"RX-0030": {Class: ClassHost, Template: "host engine rejected translated pattern: {{.Detail}} (source m/{{.Source}}/, translated m/{{.Translated}}/)"},

	// ========================================
	// Engine state errors
	// ========================================
	"RX-0040": {Class: ClassState, Template: "empty pattern with no previous successful pattern"},
}

// New creates a RegexError for the given code, rendering the catalog template
// with the supplied data. Pattern and offset attach position information;
// pass offset -1 when the failure has no useful position.
func New(code string, pattern string, offset int, data map[string]any) *RegexError {
	def, ok := ErrorCatalog[code]
	if !ok {
		return &RegexError{
			Class:   ClassState,
			Code:    code,
			Message: fmt.Sprintf("unknown error code %s", code),
			Pattern: pattern,
			Offset:  offset,
		}
	}
	return &RegexError{
		Class:   def.Class,
		Code:    code,
		Message: renderTemplate(def.Template, data),
		Pattern: pattern,
		Offset:  offset,
		Data:    data,
	}
}

// renderTemplate renders a message template with the given data.
// Falls back to the raw template on render failure.
func renderTemplate(tmpl string, data map[string]any) string {
	if !strings.Contains(tmpl, "{{") {
		return tmpl
	}
	t, err := template.New("msg").Parse(tmpl)
	if err != nil {
		return tmpl
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return tmpl
	}
	return buf.String()
}
