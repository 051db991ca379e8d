package handlers

import "strings"

// filter accumulates conjunctive predicates and their positional
// parameters. Predicates and parameters are appended in lockstep so the
// placeholder order always matches the argument order.
type filter struct {
	conds  []string
	params []any
}

func (f *filter) add(cond string, args ...any) {
	f.conds = append(f.conds, cond)
	f.params = append(f.params, args...)
}

// where renders the WHERE clause, or nothing when no filter is present
// (all rows considered).
func (f *filter) where() string {
	if len(f.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(f.conds, " AND ")
}

func (f *filter) args() []any {
	return f.params
}

// like wraps a text filter value for case-insensitive substring match.
func like(v string) string {
	return "%" + v + "%"
}

// stringArg reads an optional string argument; absent means no filter.
func stringArg(args map[string]any, key string) (string, bool) {
	v, ok := args[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// intArg reads an optional integer argument. JSON numbers arrive as
// float64, direct Go callers may pass int.
func intArg(args map[string]any, key string) (int, bool) {
	v, ok := args[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	}
	return 0, false
}
