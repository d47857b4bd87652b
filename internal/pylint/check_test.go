package pylint

import (
	"errors"
	"strings"
	"testing"
)

func TestCheckSyntaxError(t *testing.T) {
	cases := []struct {
		name string
		code string
	}{
		{"bare if", "\nif\n"},
		{"bare while", "\nwhile\n"},
		{"unclosed paren", "x = (1 + 2"},
		{"bad def", "def f(:\n    pass"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			warning, err := Check(tc.code)
			if warning != "" {
				t.Errorf("unexpected warning %q", warning)
			}
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("expected *SyntaxError, got %v", err)
			}
			if se.Line < 1 {
				t.Errorf("syntax error line should be 1-based, got %d", se.Line)
			}
			if !strings.Contains(se.Error(), "syntax error") {
				t.Errorf("unexpected message %q", se.Error())
			}
		})
	}
}

func TestCheckLintViolations(t *testing.T) {
	cases := []struct {
		name string
		code string
		kind ViolationKind
	}{
		{
			name: "undefined name at module scope",
			code: "x = 1\n\nif y:\n    pass\n",
			kind: UndefinedName,
		},
		{
			name: "undefined name inside function",
			code: "def x():\n    df = pd.read_csv()\n",
			kind: UndefinedName,
		},
		{
			name: "local referenced before assignment",
			code: "def f():\n    print(n)\n    n = 1\n",
			kind: UndefinedLocal,
		},
		{
			name: "duplicate argument",
			code: "def fn(a, a):\n    pass\n",
			kind: DuplicateArgument,
		},
		{name: "return outside function", code: "return", kind: ReturnOutsideFunction},
		{name: "yield outside function", code: "yield", kind: YieldOutsideFunction},
		{name: "continue outside loop", code: "continue", kind: ContinueOutsideLoop},
		{name: "break outside loop", code: "break", kind: BreakOutsideLoop},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			warning, err := Check(tc.code)
			if warning != "" {
				t.Errorf("unexpected warning %q", warning)
			}
			var le *LintError
			if !errors.As(err, &le) {
				t.Fatalf("expected *LintError, got %v", err)
			}
			found := false
			for _, v := range le.Violations {
				if v.Kind == tc.kind {
					found = true
				}
			}
			if !found {
				t.Errorf("expected a %s violation, got %v", tc.kind, le.Violations)
			}
		})
	}
}

func TestCheckAggregatesAllFindings(t *testing.T) {
	code := "print(a)\n\ndef fn(x, x):\n    return x\n"
	_, err := Check(code)
	var le *LintError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LintError, got %v", err)
	}
	if len(le.Violations) != 2 {
		t.Fatalf("expected 2 violations in one error, got %d: %v", len(le.Violations), le.Violations)
	}
	// one pass, one message, every finding enumerated
	msg := le.Error()
	if !strings.Contains(msg, "undefined name 'a'") ||
		!strings.Contains(msg, "duplicate argument 'x'") {
		t.Errorf("aggregated message incomplete: %q", msg)
	}
	if le.Violations[0].Line > le.Violations[1].Line {
		t.Error("violations should be ordered by line")
	}
}

func TestCheckCleanSource(t *testing.T) {
	cases := []struct {
		name string
		code string
	}{
		{"empty", ""},
		{"simple expression", "1 + 1"},
		{
			name: "realistic module",
			code: `import os
import pandas as pd
from pathlib import Path

DATA = Path("data")


def load(name):
    df = pd.read_csv(DATA / name)
    return df


def summarize(df, columns=None):
    if columns is None:
        columns = list(df.columns)
    out = {}
    for col in columns:
        out[col] = df[col].mean()
    return out


frames = [load(f) for f in os.listdir(DATA)]
`,
		},
		{
			name: "loops and control flow keywords in legal positions",
			code: `def gen(items):
    for item in items:
        if item is None:
            continue
        if item < 0:
            break
        yield item
    return
`,
		},
		{
			name: "try except with alias",
			code: `try:
    value = int("3")
except ValueError as exc:
    print(exc)
`,
		},
		{
			name: "fstring interpolation",
			code: "name = 'world'\nprint(f'hello {name}')\n",
		},
		{
			name: "names defined later at module scope are fine in functions",
			code: "def use():\n    return helper()\n\ndef helper():\n    return 1\n",
		},
		{
			name: "wildcard import silences resolution",
			code: "from os.path import *\n\nprint(join('a', 'b'))\n",
		},
		{
			name: "global declaration",
			code: "def bump():\n    global counter\n    counter = counter + 1\n",
		},
		{
			name: "lambda and comprehension scopes",
			code: "square = lambda v: v * v\nsquares = [square(x) for x in range(10)]\n",
		},
		{
			name: "augmented assignment",
			code: "total = 0\nfor i in range(3):\n    total += i\n",
		},
		{
			name: "walrus binding",
			code: "data = [1, 2, 3]\nif (n := len(data)) > 2:\n    print(n)\n",
		},
		{
			name: "class with methods",
			code: `class Greeter:
    prefix = "hi"

    def __init__(self, name):
        self.name = name

    def greet(self):
        return self.name
`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			warning, err := Check(tc.code)
			if warning != "" {
				t.Errorf("unexpected warning %q", warning)
			}
			if err != nil {
				t.Errorf("expected clean pass, got %v", err)
			}
		})
	}
}

func TestCheckNeutralizedMagicsPass(t *testing.T) {
	// what the neutralizer produces: magics already rewritten as comments
	code := "# %%sh\n# echo hi\nx = 1\n# %debug\n# ! mkdir stuff\nprint(x)\n"
	warning, err := Check(code)
	if warning != "" || err != nil {
		t.Errorf("expected clean pass, got warning=%q err=%v", warning, err)
	}
}

func TestCheckIdempotent(t *testing.T) {
	code := "x = 1\n\nif y:\n    pass\n"
	_, first := Check(code)
	_, second := Check(code)
	if (first == nil) != (second == nil) {
		t.Fatalf("outcome changed between runs: %v vs %v", first, second)
	}
	if first.Error() != second.Error() {
		t.Errorf("message changed between runs:\n%q\n%q", first.Error(), second.Error())
	}
}
