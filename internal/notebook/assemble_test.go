package notebook

import (
	"strings"
	"testing"
)

func TestAssembleSkipsNonCodeCells(t *testing.T) {
	doc := Document{Cells: []Cell{
		{Kind: CellCode, Source: "x = 1"},
		{Kind: CellMarkdown, Source: "# A heading\nwith prose"},
		{Kind: CellCode, Source: "y = 2"},
		{Kind: CellRaw, Source: "raw stuff"},
	}}

	asm := Assemble(doc)
	want := "x = 1\ny = 2"
	if asm.Text != want {
		t.Errorf("Assemble = %q, want %q", asm.Text, want)
	}
}

func TestAssembleEmptyDocument(t *testing.T) {
	if asm := Assemble(Document{}); !asm.Empty() {
		t.Errorf("empty document should assemble to empty source, got %q", asm.Text)
	}
	onlyProse := Document{Cells: []Cell{
		{Kind: CellMarkdown, Source: "text"},
		{Kind: CellRaw, Source: "more"},
	}}
	if asm := Assemble(onlyProse); !asm.Empty() {
		t.Errorf("prose-only document should assemble to empty source, got %q", asm.Text)
	}
}

func TestAssembleLocate(t *testing.T) {
	doc := Document{Cells: []Cell{
		{Kind: CellCode, Source: "a = 1\nb = 2"},   // lines 1-2
		{Kind: CellMarkdown, Source: "ignored"},    // zero lines
		{Kind: CellCode, Source: "c = 3"},          // line 3
		{Kind: CellCode, Source: "d = 4\ne = 5\n"}, // lines 4-6 (trailing newline)
	}}
	asm := Assemble(doc)

	cases := []struct {
		line     int
		cell     int
		cellLine int
	}{
		{1, 0, 1},
		{2, 0, 2},
		{3, 2, 1},
		{4, 3, 1},
		{5, 3, 2},
	}
	for _, tc := range cases {
		cell, cl, ok := asm.Locate(tc.line)
		if !ok {
			t.Errorf("Locate(%d) not found", tc.line)
			continue
		}
		if cell != tc.cell || cl != tc.cellLine {
			t.Errorf("Locate(%d) = (%d, %d), want (%d, %d)", tc.line, cell, cl, tc.cell, tc.cellLine)
		}
	}
	if _, _, ok := asm.Locate(100); ok {
		t.Error("Locate past the end should report not found")
	}
}

func TestAssembleWithTransformKeepsLineMap(t *testing.T) {
	doc := Document{Cells: []Cell{
		{Kind: CellCode, Source: "%%sh\necho hi"},
		{Kind: CellCode, Source: "x = 1"},
	}}
	upper := func(s string) string { return strings.ToUpper(s) }

	asm := AssembleWith(doc, upper)
	if asm.Text != "%%SH\nECHO HI\nX = 1" {
		t.Errorf("unexpected transformed text %q", asm.Text)
	}
	cell, line, ok := asm.Locate(3)
	if !ok || cell != 1 || line != 1 {
		t.Errorf("Locate(3) = (%d, %d, %v), want (1, 1, true)", cell, line, ok)
	}
}

func TestParametersCell(t *testing.T) {
	doc := Document{Cells: []Cell{
		{Kind: CellMarkdown, Source: "intro", Tags: []string{"parameters"}}, // wrong kind
		{Kind: CellCode, Source: "a = None", Tags: []string{"parameters"}},
		{Kind: CellCode, Source: "b = None", Tags: []string{"parameters"}}, // first wins
	}}
	cell, ok := doc.ParametersCell()
	if !ok {
		t.Fatal("expected a parameters cell")
	}
	if cell.Source != "a = None" {
		t.Errorf("wrong parameters cell picked: %q", cell.Source)
	}

	if _, ok := (Document{}).ParametersCell(); ok {
		t.Error("empty document should have no parameters cell")
	}
}
