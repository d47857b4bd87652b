// Package magics detects IPython-only directives (line magics, cell magics,
// shell escapes) in cell source and rewrites them into comments so a strict
// Python parser accepts the text. Rewrites never add or remove lines, so
// (line, column) positions reported downstream stay meaningful.
package magics

import (
	"regexp"
	"strings"
)

// Kind classifies a single line of cell source.
type Kind int

const (
	None Kind = iota
	LineMagic
	CellMagicHeader
	ShellEscape
)

// Detection is anchored at the first non-whitespace character. A line magic
// is exactly one '%' glued to a word character; a cell magic header is
// exactly two. '%% sh' and '%%%x' are neither.
var (
	lineMagicRe       = regexp.MustCompile(`^\s*%[A-Za-z_]\w*`)
	cellMagicHeaderRe = regexp.MustCompile(`^\s*%%[A-Za-z_]\w*`)
	blankRe           = regexp.MustCompile(`^\s*$`)
)

// Classify reports what a single line is, in isolation. Cell-magic
// cancellation (a preceding comment line) is a whole-cell property and is
// handled by IsCellMagic/NeutralizeCell.
func Classify(line string) Kind {
	switch {
	case cellMagicHeaderRe.MatchString(line):
		return CellMagicHeader
	case lineMagicRe.MatchString(line):
		return LineMagic
	case isShellEscape(line):
		return ShellEscape
	default:
		return None
	}
}

// IsLineMagic reports whether a single line is an IPython line magic.
func IsLineMagic(line string) bool {
	return Classify(line) == LineMagic
}

// IsCellMagic reports whether a whole cell is a cell-magic invocation: its
// first non-blank line must be a cell-magic header. Blank and
// whitespace-only lines before the header do not disqualify it; any other
// content does. In particular a comment line cancels the classification,
// because cell-magic bodies cannot contain comments.
func IsCellMagic(cellSource string) bool {
	for _, line := range strings.Split(cellSource, "\n") {
		if blankRe.MatchString(line) {
			continue
		}
		return cellMagicHeaderRe.MatchString(line)
	}
	return false
}

// NeutralizeCell rewrites interactive-only lines of one cell into comments.
// Line magics and shell escapes are commented individually. A cell magic
// comments the header and everything below it, since the body is not Python
// in any form. Ordinary lines pass through byte-for-byte and the line count
// never changes.
func NeutralizeCell(source string) string {
	lines := strings.Split(source, "\n")
	out := make([]string, len(lines))
	cellMagic := IsCellMagic(source)
	commentRest := false
	for i, line := range lines {
		switch {
		case commentRest:
			out[i] = comment(line)
		case cellMagic && cellMagicHeaderRe.MatchString(line):
			out[i] = comment(line)
			commentRest = true
		case IsLineMagic(line):
			out[i] = comment(line)
		case isShellEscape(line):
			out[i] = comment(line)
		default:
			out[i] = line
		}
	}
	return strings.Join(out, "\n")
}

func isShellEscape(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), "!")
}

// comment turns a line into "# <line>". The prefix goes before any
// indentation: "   %cd" becomes "#    %cd".
func comment(line string) string {
	return "# " + line
}
