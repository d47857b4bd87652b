package notebook

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Percent-format script reader. Scripts use comment markers to delimit
// cells: "# %%" (percent format) or "# +" (light format), optionally
// followed by a title, a kind marker such as [markdown], and cell metadata
// like tags=["parameters"]. Text before the first marker becomes a plain
// code cell. The marker line itself is not part of the cell source.

var (
	cellMarkerRe = regexp.MustCompile(`^#\s*(?:%%|\+)(.*)$`)
	cellKindRe   = regexp.MustCompile(`\[(markdown|raw)\]`)
	cellTagsRe   = regexp.MustCompile(`tags=\[([^\]]*)\]`)
	tagLiteralRe = regexp.MustCompile(`"([^"]*)"|'([^']*)'`)
)

// ParseScript reads a percent/light-format script into a Document.
func ParseScript(source string) Document {
	var doc Document
	var cur *Cell
	var buf []string

	flush := func() {
		if cur == nil {
			// Implicit leading cell: keep only if it has real content.
			joined := strings.Join(buf, "\n")
			if strings.TrimSpace(joined) != "" {
				doc.Cells = append(doc.Cells, Cell{Kind: CellCode, Source: trimCellBlanks(joined)})
			}
		} else {
			cur.Source = trimCellBlanks(strings.Join(buf, "\n"))
			doc.Cells = append(doc.Cells, *cur)
		}
		buf = nil
	}

	for _, line := range strings.Split(source, "\n") {
		if m := cellMarkerRe.FindStringSubmatch(line); m != nil {
			flush()
			cur = &Cell{Kind: markerKind(m[1]), Tags: markerTags(m[1])}
			continue
		}
		buf = append(buf, line)
	}
	flush()
	return doc
}

// ReadScriptFile loads a percent-format script from disk.
func ReadScriptFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("reading script: %w", err)
	}
	return ParseScript(string(data)), nil
}

func markerKind(rest string) CellKind {
	if m := cellKindRe.FindStringSubmatch(rest); m != nil {
		return CellKind(m[1])
	}
	return CellCode
}

func markerTags(rest string) []string {
	m := cellTagsRe.FindStringSubmatch(rest)
	if m == nil {
		return nil
	}
	var tags []string
	for _, lit := range tagLiteralRe.FindAllStringSubmatch(m[1], -1) {
		if lit[1] != "" {
			tags = append(tags, lit[1])
		} else if lit[2] != "" {
			tags = append(tags, lit[2])
		}
	}
	return tags
}

// trimCellBlanks drops the blank lines that separate a cell from its
// marker and from the next marker, keeping interior blanks intact.
func trimCellBlanks(s string) string {
	return strings.Trim(s, "\n")
}
