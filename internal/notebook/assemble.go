package notebook

import "strings"

// cellSpan records which absolute lines of the assembled text came from
// which cell. start is 1-based and count is the number of lines the cell
// contributed.
type cellSpan struct {
	cell  int
	start int
	count int
}

// AssembledSource is the concatenation of every code cell's source, joined
// with a single newline, plus a map from absolute line numbers back to
// (cell index, line within cell). The map exists purely for diagnostics.
type AssembledSource struct {
	Text  string
	spans []cellSpan
}

// Assemble joins the code cells of doc. Markdown and raw cells contribute
// zero lines, so they never shift line numbers of the analyzed text.
func Assemble(doc Document) AssembledSource {
	return AssembleWith(doc, nil)
}

// AssembleWith is Assemble with a per-cell source transform applied before
// joining. The transform must preserve line counts (the neutralizer does),
// otherwise the line map would lie.
func AssembleWith(doc Document, transform func(string) string) AssembledSource {
	var parts []string
	var spans []cellSpan
	line := 1
	for i, c := range doc.Cells {
		if c.Kind != CellCode {
			continue
		}
		src := c.Source
		if transform != nil {
			src = transform(src)
		}
		n := strings.Count(src, "\n") + 1
		spans = append(spans, cellSpan{cell: i, start: line, count: n})
		parts = append(parts, src)
		line += n
	}
	return AssembledSource{Text: strings.Join(parts, "\n"), spans: spans}
}

// Empty reports whether no code cell contributed any text.
func (a AssembledSource) Empty() bool {
	return strings.TrimSpace(a.Text) == ""
}

// Locate maps an absolute 1-based line of the assembled text back to the
// originating cell index and the 1-based line within that cell.
func (a AssembledSource) Locate(line int) (cell, lineInCell int, ok bool) {
	for _, s := range a.spans {
		if line >= s.start && line < s.start+s.count {
			return s.cell, line - s.start + 1, true
		}
	}
	return 0, 0, false
}
