package store

import (
	"fmt"
	"strings"
)

// Filter collects WHERE conditions together with their arguments, in
// insertion order. Conditions use ? placeholders; Store rebinds the final
// query to $n in one pass, so argument positions cannot drift as clauses
// are added conditionally.
type Filter struct {
	conds []string
	args  []any
}

// Where appends cond. The number of ? in cond must equal len(args).
func (f *Filter) Where(cond string, args ...any) *Filter {
	if n := strings.Count(cond, "?"); n != len(args) {
		panic(fmt.Sprintf("store: %q has %d placeholders, got %d args", cond, n, len(args)))
	}
	f.conds = append(f.conds, cond)
	f.args = append(f.args, args...)
	return f
}

// SQL renders "WHERE a AND b", or "" when empty.
func (f *Filter) SQL() string {
	if len(f.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(f.conds, " AND ")
}

// Args returns a copy of the bound arguments, safe to append to.
func (f *Filter) Args() []any {
	out := make([]any, len(f.args), len(f.args)+2)
	copy(out, f.args)
	return out
}

func (f *Filter) Len() int { return len(f.conds) }

// EscapeLike escapes LIKE wildcards so s matches literally.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
