package notebook

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// ipynb (nbformat v4) wire structures. Source may be a plain string or a
// list of line fragments that already carry their own newlines.

type ipynbFile struct {
	Cells    []ipynbCell `json:"cells"`
	NBFormat int         `json:"nbformat"`
}

type ipynbCell struct {
	CellType string      `json:"cell_type"`
	Source   ipynbSource `json:"source"`
	Metadata struct {
		Tags []string `json:"tags"`
	} `json:"metadata"`
}

type ipynbSource string

func (s *ipynbSource) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = ipynbSource(single)
		return nil
	}
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return fmt.Errorf("cell source is neither string nor string list: %w", err)
	}
	*s = ipynbSource(strings.Join(lines, ""))
	return nil
}

// ParseIpynb decodes an nbformat v4 notebook from raw JSON.
func ParseIpynb(data []byte) (Document, error) {
	var f ipynbFile
	if err := json.Unmarshal(data, &f); err != nil {
		return Document{}, fmt.Errorf("decoding notebook: %w", err)
	}
	if f.NBFormat != 0 && f.NBFormat < 4 {
		return Document{}, fmt.Errorf("unsupported nbformat version %d (need 4)", f.NBFormat)
	}
	doc := Document{Cells: make([]Cell, 0, len(f.Cells))}
	for i, c := range f.Cells {
		kind, err := cellKind(c.CellType)
		if err != nil {
			return Document{}, fmt.Errorf("cell %d: %w", i, err)
		}
		doc.Cells = append(doc.Cells, Cell{
			Kind:   kind,
			Source: string(c.Source),
			Tags:   c.Metadata.Tags,
		})
	}
	return doc, nil
}

// ReadIpynbFile loads an .ipynb file from disk.
func ReadIpynbFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("reading notebook: %w", err)
	}
	doc, err := ParseIpynb(data)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func cellKind(cellType string) (CellKind, error) {
	switch cellType {
	case "code":
		return CellCode, nil
	case "markdown":
		return CellMarkdown, nil
	case "raw":
		return CellRaw, nil
	default:
		return "", fmt.Errorf("unknown cell_type %q", cellType)
	}
}
