package storage

import "strings"

// Where accumulates AND-ed predicates and their arguments.
type Where struct {
	clauses []string
	args    []any
}

// Add appends a predicate when cond is true.
func (w *Where) Add(cond bool, clause string, args ...any) {
	if !cond {
		return
	}
	w.clauses = append(w.clauses, clause)
	w.args = append(w.args, args...)
}

// SQL returns " WHERE a AND b" or the empty string.
func (w *Where) SQL() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// Args returns the collected arguments.
func (w *Where) Args() []any {
	return w.args
}

// Page appends LIMIT/OFFSET to args when limit is positive.
// A non-positive limit returns every row.
func Page(args []any, limit, offset int) (string, []any) {
	if limit <= 0 {
		return "", args
	}
	return " LIMIT ? OFFSET ?", append(append([]any{}, args...), limit, offset)
}

// Placeholders returns "?, ?, ?" for n arguments.
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// likeEscaper escapes LIKE metacharacters for use with ESCAPE '\'.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Like wraps s for a case-insensitive substring match.
// The pattern must be used with ESCAPE '\' so % and _ in s match literally.
func Like(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
