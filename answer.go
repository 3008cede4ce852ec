package wyrm

import (
	"sort"
	"strings"
)

// Solution is one answer to a query: the bindings of every named
// variable (anonymous "_"-prefixed variables are never reported) that
// appeared in the goal, indexed by name, the same shape as the
// teacher's own Substitution type for a query result.
type Solution map[string]Term

// String renders a solution the way ISO's variable_names/1 option
// would: "X = foo, Y = bar", sorted by variable name so output is
// deterministic across runs.
func (s Solution) String() string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	var sb strings.Builder
	for i, name := range names {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(name)
		sb.WriteString(" = ")
		sb.WriteString(text(s[name]))
	}
	return sb.String()
}
