package params

import (
	"fmt"
	"strings"
)

// MismatchError reports a parameter contract violation. Missing holds names
// declared in the parameters cell that the caller did not supply; Extra
// holds names the caller supplied that the cell does not declare. Both are
// sorted.
type MismatchError struct {
	Label   string
	Missing []string
	Extra   []string
}

func (e *MismatchError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf(
			"Missing params: %s (to fix this, pass %s in the 'params' argument).",
			nameList(e.Missing), fixRef(e.Missing)))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, fmt.Sprintf(
			"Unexpected params: %s (to fix this, add %s to the 'parameters' cell "+
				"and assign the value as None. e.g., %s = None).",
			nameList(e.Extra), fixRef(e.Extra), e.Extra[0]))
	}
	return fmt.Sprintf("Parameters in %q do not match the 'parameters' cell. %s",
		e.Label, strings.Join(parts, " "))
}

// WarnText is the short form used when the caller opted into warn mode.
func (e *MismatchError) WarnText() string {
	var detail []string
	if len(e.Missing) > 0 {
		detail = append(detail, fmt.Sprintf("missing: %s", nameList(e.Missing)))
	}
	if len(e.Extra) > 0 {
		detail = append(detail, fmt.Sprintf("unexpected: %s", nameList(e.Extra)))
	}
	return fmt.Sprintf("Parameters declared in the 'parameters' cell do not match "+
		"task params (%s: %s)", e.Label, strings.Join(detail, "; "))
}

// nameList renders sorted names as "'a'", "'a', and 'b'" or
// "'a', 'b', and 'c'".
func nameList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "'" + n + "'"
	}
	if len(quoted) == 1 {
		return quoted[0]
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", and " + quoted[len(quoted)-1]
}

// fixRef is how the remediation phrase refers to the offending names:
// the quoted name when there is one, "them" otherwise.
func fixRef(names []string) string {
	if len(names) == 1 {
		return "'" + names[0] + "'"
	}
	return "them"
}
