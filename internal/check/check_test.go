package check

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"nbcheck/internal/notebook"
	"nbcheck/internal/params"
	"nbcheck/internal/pylint"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// recorder collects warnings for assertions.
type recorder struct {
	mu   sync.Mutex
	msgs []string
}

func (r *recorder) Warn(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.msgs...)
}

func code(src string, tags ...string) notebook.Cell {
	return notebook.Cell{Kind: notebook.CellCode, Source: src, Tags: tags}
}

func doc(cells ...notebook.Cell) notebook.Document {
	return notebook.Document{Cells: cells}
}

func TestCheckSourceIgnoresNonCodeCells(t *testing.T) {
	d := doc(
		code("1 + 1"),
		notebook.Cell{Kind: notebook.CellMarkdown, Source: "Some markdown"},
		notebook.Cell{Kind: notebook.CellRaw, Source: "Some raw cell"},
	)
	require.NoError(t, CheckSource(d))
}

func TestCheckSourceProseOnlyDocument(t *testing.T) {
	d := doc(
		notebook.Cell{Kind: notebook.CellMarkdown, Source: "just text"},
		notebook.Cell{Kind: notebook.CellRaw, Source: "more text"},
	)
	require.NoError(t, CheckSource(d))
}

func TestCheckSourceSyntaxError(t *testing.T) {
	d := doc(code("x = 1"), code("if\n"))
	err := CheckSource(d)

	var se *pylint.SyntaxError
	require.True(t, errors.As(err, &se), "expected *pylint.SyntaxError, got %v", err)
	assert.Equal(t, 1, se.Cell, "error should be located in the second cell")
	assert.Contains(t, se.Error(), "cell 2")
}

func TestCheckSourceLintError(t *testing.T) {
	d := doc(code("a = 1"), code("c = a + b"))
	err := CheckSource(d)

	var le *pylint.LintError
	require.True(t, errors.As(err, &le), "expected *pylint.LintError, got %v", err)
	require.Len(t, le.Violations, 1)
	assert.Equal(t, pylint.UndefinedName, le.Violations[0].Kind)
	assert.Contains(t, le.Violations[0].Message, "undefined name 'b'")
	assert.Contains(t, le.Violations[0].Message, "cell 2")
}

func TestCheckSourceToleratesMagics(t *testing.T) {
	d := doc(
		code("x = 1"),
		code("%debug"),
		code("! mkdir stuff"),
		code("%%sh\necho hello"),
		code("y = x + 1"),
	)
	require.NoError(t, CheckSource(d))
}

func TestCheckSourceInternalFailureWarnsOnce(t *testing.T) {
	rec := &recorder{}
	c := New(Options{Warnings: rec})
	c.analyze = func(string) (string, error) {
		return "An unexpected error happened when analyzing code: ': problem decoding source'", nil
	}

	require.NoError(t, c.CheckSource(doc(code("x = 1"))))
	msgs := rec.all()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "An unexpected error happened when analyzing code")
}

func TestCheckSourceEmptyDocumentSkipsAnalysis(t *testing.T) {
	c := New(Options{Warnings: &recorder{}})
	c.analyze = func(string) (string, error) {
		t.Fatal("analyzer invoked for a document with no code")
		return "", nil
	}

	require.NoError(t, c.CheckSource(doc()))
	require.NoError(t, c.CheckSource(doc(code(""), code("   \n  "))))
	require.NoError(t, c.CheckSource(doc(
		notebook.Cell{Kind: notebook.CellMarkdown, Source: "text"},
	)))
}

func TestCheckSourceIdempotent(t *testing.T) {
	d := doc(code("a = 1"), code("c = a + b"))
	first := CheckSource(d)
	second := CheckSource(d)
	require.Error(t, first)
	require.Error(t, second)
	assert.Equal(t, first.Error(), second.Error())
}

func TestCheckNotebookRaises(t *testing.T) {
	cases := []struct {
		name   string
		cell   string
		target any
	}{
		{"syntax error", "if\n", &pylint.SyntaxError{}},
		{"lint error", "c = a + b", &pylint.LintError{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := doc(code("a = 1", "parameters"), code(tc.cell))
			err := CheckNotebook(d, map[string]any{"a": 1}, "file.py", true)
			require.Error(t, err)
			switch tc.target.(type) {
			case *pylint.SyntaxError:
				var se *pylint.SyntaxError
				assert.True(t, errors.As(err, &se))
			case *pylint.LintError:
				var le *pylint.LintError
				assert.True(t, errors.As(err, &le))
			}
		})
	}
}

func TestCheckNotebookWarnsInsteadOfRaising(t *testing.T) {
	for _, cell := range []string{"if\n", "c = a + b"} {
		rec := &recorder{}
		c := New(Options{Warnings: rec})
		d := doc(code("a = 1", "parameters"), code(cell))

		err := c.CheckNotebook(d, map[string]any{"a": 1}, "file.py", false)
		require.NoError(t, err, "cell %q", cell)
		require.NotEmpty(t, rec.all(), "cell %q should warn", cell)
	}
}

func TestCheckNotebookStrictSource(t *testing.T) {
	rec := &recorder{}
	c := New(Options{Warnings: rec, StrictSource: true})
	d := doc(code("a = 1", "parameters"), code("if\n"))

	err := c.CheckNotebook(d, map[string]any{"a": 1}, "file.py", false)
	require.Error(t, err, "strict mode keeps source failures fatal even when raise is off")
}

func TestCheckNotebookParamContract(t *testing.T) {
	d := doc(code("a = None", "parameters"), code("print(a)"))

	t.Run("match passes", func(t *testing.T) {
		require.NoError(t, CheckNotebook(d, map[string]any{"a": 1}, "nb.ipynb", true))
	})

	t.Run("mismatch raises", func(t *testing.T) {
		err := CheckNotebook(d, map[string]any{"b": 2}, "nb.ipynb", true)
		var m *params.MismatchError
		require.True(t, errors.As(err, &m), "expected *params.MismatchError, got %v", err)
		assert.Contains(t, err.Error(), "Missing params: 'a'")
		assert.Contains(t, err.Error(), "Unexpected params: 'b'")
		assert.Contains(t, err.Error(), "nb.ipynb")
	})

	t.Run("mismatch warns in warn mode", func(t *testing.T) {
		rec := &recorder{}
		c := New(Options{Warnings: rec})
		require.NoError(t, c.CheckNotebook(d, map[string]any{}, "nb.ipynb", false))
		msgs := rec.all()
		require.Len(t, msgs, 1)
		assert.Contains(t, msgs[0],
			"Parameters declared in the 'parameters' cell do not match task params")
	})

	t.Run("match emits zero warnings", func(t *testing.T) {
		rec := &recorder{}
		c := New(Options{Warnings: rec})
		require.NoError(t, c.CheckNotebook(d, map[string]any{"a": 1}, "nb.ipynb", false))
		assert.Empty(t, rec.all())
	})
}

func TestCheckNotebookMissingParametersCell(t *testing.T) {
	d := doc(code("x = 1"))
	// no parameters cell means no declarations: supplied params are extra
	err := CheckNotebook(d, map[string]any{"a": 1}, "nb.ipynb", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unexpected params: 'a'")

	require.NoError(t, CheckNotebook(d, nil, "nb.ipynb", true))
}

func TestConcurrentChecksAreIndependent(t *testing.T) {
	var g errgroup.Group
	for i := 0; i < 16; i++ {
		i := i
		g.Go(func() error {
			d := doc(
				code(fmt.Sprintf("v%d = %d", i, i), "parameters"),
				code(fmt.Sprintf("print(v%d)", i)),
			)
			if err := CheckSource(d); err != nil {
				return err
			}
			return CheckNotebook(d, map[string]any{fmt.Sprintf("v%d", i): i}, "nb.py", true)
		})
	}
	require.NoError(t, g.Wait())
}
