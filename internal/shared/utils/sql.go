package utils

import (
	"fmt"
	"strings"
)

// JoinWithAnd joins a slice of strings with AND operator
func JoinWithAnd(clauses []string) string {
	return strings.Join(clauses, " AND ")
}

// QueryBuilder accumulates WHERE clauses with positional pgx arguments.
type QueryBuilder struct {
	clauses []string
	args    []any
}

// Add appends a clause; every "?" is replaced by the next $n placeholder.
func (b *QueryBuilder) Add(clause string, args ...any) {
	for _, a := range args {
		b.args = append(b.args, a)
		clause = strings.Replace(clause, "?", fmt.Sprintf("$%d", len(b.args)), 1)
	}
	b.clauses = append(b.clauses, clause)
}

// Arg registers an argument without a clause and returns its placeholder.
func (b *QueryBuilder) Arg(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *QueryBuilder) Where() string {
	if len(b.clauses) == 0 {
		return ""
	}
	return "WHERE " + JoinWithAnd(b.clauses)
}

func (b *QueryBuilder) Args() []any {
	return b.args
}
