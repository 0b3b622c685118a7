// Package querybuilder renders the small set of PostgreSQL statements the
// event store issues, numbering placeholders as $1, $2, ...
package querybuilder

import (
	"errors"
	"strconv"
	"strings"
)

// Condition is one predicate of a WHERE clause.
type Condition interface {
	render(q *sqlWriter)
}

// sqlWriter accumulates statement text and its bound arguments.
type sqlWriter struct {
	strings.Builder
	args []any
}

// bind appends v to the argument list and returns its placeholder.
func (q *sqlWriter) bind(v any) string {
	q.args = append(q.args, v)
	return "$" + strconv.Itoa(len(q.args))
}

func (q *sqlWriter) join(conditions []Condition, sep string) {
	for i, c := range conditions {
		if i > 0 {
			q.WriteString(sep)
		}
		c.render(q)
	}
}

type compare struct {
	column string
	op     string
	value  any
}

func (c compare) render(q *sqlWriter) {
	q.WriteString(c.column + " " + c.op + " " + q.bind(c.value))
}

func Eq(column string, value any) Condition  { return compare{column, "=", value} }
func Gte(column string, value any) Condition { return compare{column, ">=", value} }
func Lte(column string, value any) Condition { return compare{column, "<=", value} }

// Any matches column against a bound array such as pq.Array(ids).
func Any(column string, array any) Condition { return anyOf{column, array} }

type anyOf struct {
	column string
	array  any
}

func (c anyOf) render(q *sqlWriter) {
	q.WriteString(c.column + " = ANY(" + q.bind(c.array) + ")")
}

// Expr is a raw predicate whose ? markers are bound to args in order. Extra
// markers are left as written.
func Expr(expr string, args ...any) Condition { return raw{expr, args} }

type raw struct {
	expr string
	args []any
}

func (c raw) render(q *sqlWriter) {
	next := 0
	for _, r := range c.expr {
		if r == '?' && next < len(c.args) {
			q.WriteString(q.bind(c.args[next]))
			next++
			continue
		}
		q.WriteRune(r)
	}
}

// Or groups conditions in parentheses. An empty Or matches nothing.
func Or(conditions ...Condition) Condition { return anyMatch(conditions) }

type anyMatch []Condition

func (c anyMatch) render(q *sqlWriter) {
	if len(c) == 0 {
		q.WriteString("1=0")
		return
	}
	q.WriteString("(")
	q.join(c, " OR ")
	q.WriteString(")")
}

// SelectBuilder composes a SELECT. Where conditions are ANDed.
type SelectBuilder struct {
	distinct bool
	columns  []string
	table    string
	where    []Condition
	groupBy  []string
	orderBy  []string
	limit    int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) Distinct() *SelectBuilder {
	b.distinct = true
	return b
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = strings.TrimSpace(table)
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) GroupBy(parts ...string) *SelectBuilder {
	b.groupBy = append(b.groupBy, parts...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

// Limit caps the row count; zero or less means no limit.
func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	switch {
	case len(b.columns) == 0:
		return "", nil, errors.New("select columns are required")
	case b.table == "":
		return "", nil, errors.New("select table is required")
	}

	var q sqlWriter
	q.WriteString("SELECT ")
	if b.distinct {
		q.WriteString("DISTINCT ")
	}
	q.WriteString(strings.Join(b.columns, ", ") + " FROM " + b.table)
	if len(b.where) > 0 {
		q.WriteString(" WHERE ")
		q.join(b.where, " AND ")
	}
	if len(b.groupBy) > 0 {
		q.WriteString(" GROUP BY " + strings.Join(b.groupBy, ", "))
	}
	if len(b.orderBy) > 0 {
		q.WriteString(" ORDER BY " + strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		q.WriteString(" LIMIT " + strconv.Itoa(b.limit))
	}
	return q.String(), q.args, nil
}
