// Package pylint statically analyzes assembled Python source: it parses the
// text with Tree-sitter and reports hard syntax errors plus a fixed set of
// semantic violations, without ever executing the code.
package pylint

import (
	"fmt"
	"strings"
)

// ViolationKind names a semantic rule the source broke.
type ViolationKind string

const (
	UndefinedName         ViolationKind = "undefined-name"
	UndefinedLocal        ViolationKind = "undefined-local"
	DuplicateArgument     ViolationKind = "duplicate-argument"
	ReturnOutsideFunction ViolationKind = "return-outside-function"
	YieldOutsideFunction  ViolationKind = "yield-outside-function"
	ContinueOutsideLoop   ViolationKind = "continue-outside-loop"
	BreakOutsideLoop      ViolationKind = "break-outside-loop"
)

// Violation is a single lint finding at an absolute line of the assembled
// source. Message is human-readable and self-contained.
type Violation struct {
	Kind    ViolationKind
	Line    int
	Message string
}

func (v Violation) String() string {
	return fmt.Sprintf("line %d: %s", v.Line, v.Message)
}

// SyntaxError means the source does not parse. It is always a hard failure.
// Cell and CellLine are filled by callers that know the cell layout; zero
// means unknown.
type SyntaxError struct {
	Line     int
	Column   int
	Msg      string
	Cell     int
	CellLine int
}

func (e *SyntaxError) Error() string {
	loc := fmt.Sprintf("line %d, column %d", e.Line, e.Column)
	if e.CellLine > 0 {
		loc = fmt.Sprintf("cell %d, line %d (absolute line %d, column %d)",
			e.Cell+1, e.CellLine, e.Line, e.Column)
	}
	return fmt.Sprintf("syntax error at %s: %s", loc, e.Msg)
}

// LintError aggregates every violation found in one pass, so callers see
// all findings without re-running the analysis.
type LintError struct {
	Violations []Violation
}

func (e *LintError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "code analysis found %d issue(s):", len(e.Violations))
	for _, v := range e.Violations {
		b.WriteString("\n  ")
		b.WriteString(v.String())
	}
	return b.String()
}
