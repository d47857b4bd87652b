// Package check is the entry point the pipeline layer calls before a
// notebook task is executed. It composes assembly, magic neutralization,
// parsing/linting and the parameter contract check over a whole document.
package check

import (
	"errors"
	"fmt"

	"nbcheck/internal/logging"
	"nbcheck/internal/magics"
	"nbcheck/internal/notebook"
	"nbcheck/internal/params"
	"nbcheck/internal/pylint"
)

// WarningSink receives non-fatal findings. Implementations must not abort
// the caller's control flow.
type WarningSink interface {
	Warn(msg string)
}

// WarnFunc adapts a function to a WarningSink.
type WarnFunc func(string)

func (f WarnFunc) Warn(msg string) { f(msg) }

// Options configures a Checker.
type Options struct {
	// Warnings receives every non-fatal finding. Nil means warnings go to
	// the logging layer.
	Warnings WarningSink
	// StrictSource keeps syntax/lint failures fatal in CheckNotebook even
	// when raise is false. Off, such failures are downgraded to warnings
	// alongside the contract findings.
	StrictSource bool
}

// Checker runs the static checks. It is stateless across calls; concurrent
// use on independent documents is safe.
type Checker struct {
	warnings     WarningSink
	strictSource bool

	// analyze is swapped in tests to exercise the inconclusive path.
	analyze func(source string) (warning string, err error)
}

// New builds a Checker.
func New(opts Options) *Checker {
	c := &Checker{
		warnings:     opts.Warnings,
		strictSource: opts.StrictSource,
		analyze:      pylint.Check,
	}
	if c.warnings == nil {
		c.warnings = WarnFunc(func(msg string) {
			logging.Warnf(logging.CategoryAnalysis, "%s", msg)
		})
	}
	return c
}

// CheckSource statically analyzes every code cell of doc: markdown and raw
// cells are skipped, interactive-only lines are neutralized per cell, and
// the assembled text is parsed and linted. A document with no code is
// trivially valid. It returns a *pylint.SyntaxError
// or *pylint.LintError on failure and nil on success. An internal analyzer
// failure is reported through the warning sink and treated as inconclusive,
// never as an error.
func (c *Checker) CheckSource(doc notebook.Document) error {
	asm := notebook.AssembleWith(doc, magics.NeutralizeCell)
	if asm.Empty() {
		return nil
	}
	warning, err := c.analyze(asm.Text)
	if warning != "" {
		c.warnings.Warn(warning)
		return nil
	}
	if err != nil {
		return locate(err, asm)
	}
	return nil
}

// CheckNotebook runs CheckSource and then validates taskParams against the
// cell tagged "parameters" (no cell means no declarations). With raise set,
// the first failure is returned as an error; otherwise every failure is
// reported through the warning sink and the call returns nil.
func (c *Checker) CheckNotebook(doc notebook.Document, taskParams map[string]any, label string, raise bool) error {
	if err := c.CheckSource(doc); err != nil {
		if raise || c.strictSource {
			return err
		}
		c.warnings.Warn(err.Error())
	}

	var source string
	if cell, ok := doc.ParametersCell(); ok {
		source = cell.Source
	}
	if err := params.Check(taskParams, source, label); err != nil {
		if raise {
			return err
		}
		var m *params.MismatchError
		if errors.As(err, &m) {
			c.warnings.Warn(m.WarnText())
		} else {
			c.warnings.Warn(err.Error())
		}
	}
	return nil
}

// locate maps absolute line numbers in analysis errors back to cell
// coordinates for human-readable reporting.
func locate(err error, asm notebook.AssembledSource) error {
	var se *pylint.SyntaxError
	if errors.As(err, &se) {
		if cell, line, ok := asm.Locate(se.Line); ok {
			se.Cell, se.CellLine = cell, line
		}
		return se
	}
	var le *pylint.LintError
	if errors.As(err, &le) {
		for i, v := range le.Violations {
			if cell, line, ok := asm.Locate(v.Line); ok {
				le.Violations[i].Message = fmt.Sprintf("%s (cell %d, line %d)",
					v.Message, cell+1, line)
			}
		}
		return le
	}
	return err
}

// CheckSource runs a one-off source check with default options.
func CheckSource(doc notebook.Document) error {
	return New(Options{}).CheckSource(doc)
}

// CheckNotebook runs a one-off notebook check with default options.
func CheckNotebook(doc notebook.Document, taskParams map[string]any, label string, raise bool) error {
	return New(Options{}).CheckNotebook(doc, taskParams, label, raise)
}
