// Package notebook holds the in-memory model for cell-structured documents
// (Jupyter notebooks and percent-format scripts) and the source assembler
// that turns a document into a single analyzable blob.
package notebook

// CellKind discriminates the three cell types a document may contain.
type CellKind string

const (
	CellCode     CellKind = "code"
	CellMarkdown CellKind = "markdown"
	CellRaw      CellKind = "raw"
)

// TagParameters marks the cell that declares injectable task parameters.
const TagParameters = "parameters"

// Cell is one unit of a document. Source keeps the cell text verbatim,
// without any trailing separator added by the container format.
type Cell struct {
	Kind   CellKind
	Source string
	Tags   []string
}

// HasTag reports whether the cell carries the given metadata tag.
func (c Cell) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Document is an ordered sequence of cells. Order is preserved end to end;
// nothing in this module ever reorders cells.
type Document struct {
	Cells []Cell
}

// ParametersCell returns the first code cell tagged "parameters".
// Uniqueness is the loader's problem; the first match is authoritative.
func (d Document) ParametersCell() (Cell, bool) {
	for _, c := range d.Cells {
		if c.Kind == CellCode && c.HasTag(TagParameters) {
			return c, true
		}
	}
	return Cell{}, false
}
