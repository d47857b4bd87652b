package pylint

import "fmt"

// Check parses one blob of (already neutralized) source and lints it.
//
// err is *SyntaxError when the text does not parse and *LintError when it
// parses but violates a semantic rule; both carry every detail needed to
// act without re-running the analysis. warning is non-empty only when the
// analyzer itself failed for a reason unrelated to the source; that makes
// the check inconclusive, never failed, so err stays nil.
func Check(source string) (warning string, err error) {
	res := parse([]byte(source))
	if res.internalErr != nil {
		return fmt.Sprintf("An unexpected error happened when analyzing code: '%v'",
			res.internalErr), nil
	}
	if res.syntaxErr != nil {
		return "", res.syntaxErr
	}
	defer res.tree.Close()

	if vs := lint(res.tree, []byte(source)); len(vs) > 0 {
		return "", &LintError{Violations: vs}
	}
	return "", nil
}
