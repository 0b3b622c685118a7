package querybuilder

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// MaxArgs is the PostgreSQL limit on bound parameters per statement.
const MaxArgs = 65535

// Statement is one rendered query with its arguments.
type Statement struct {
	SQL  string
	Args []any
}

// InsertBuilder renders a multi-row INSERT that skips rows conflicting on
// the given target.
type InsertBuilder struct {
	table    string
	columns  []string
	rows     [][]any
	conflict []string
	skip     bool
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: strings.TrimSpace(table)}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Row(values ...any) *InsertBuilder {
	b.rows = append(b.rows, values)
	return b
}

// OnConflictDoNothing adds ON CONFLICT [(target)] DO NOTHING.
func (b *InsertBuilder) OnConflictDoNothing(target ...string) *InsertBuilder {
	b.skip = true
	b.conflict = target
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	switch {
	case b.table == "":
		return "", nil, errors.New("insert table is required")
	case len(b.columns) == 0:
		return "", nil, errors.New("insert columns are required")
	case len(b.rows) == 0:
		return "", nil, errors.New("insert values are required")
	case len(b.rows)*len(b.columns) > MaxArgs:
		return "", nil, fmt.Errorf("insert binds %d values, limit is %d", len(b.rows)*len(b.columns), MaxArgs)
	}

	var q sqlWriter
	q.WriteString("INSERT INTO " + b.table + " (" + strings.Join(b.columns, ", ") + ") VALUES ")
	for i, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", i, len(row), len(b.columns))
		}
		if i > 0 {
			q.WriteString(", ")
		}
		q.WriteString("(")
		for j, v := range row {
			if j > 0 {
				q.WriteString(", ")
			}
			q.WriteString(q.bind(v))
		}
		q.WriteString(")")
	}
	if b.skip {
		q.WriteString(" ON CONFLICT ")
		if len(b.conflict) > 0 {
			q.WriteString("(" + strings.Join(b.conflict, ", ") + ") ")
		}
		q.WriteString("DO NOTHING")
	}
	return q.String(), q.args, nil
}

// InsertRows renders rows of a db-tagged struct type as as few statements
// as the parameter limit allows, skipping rows that conflict on target.
func InsertRows[T any](table string, rows []T, target ...string) ([]Statement, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	fields, err := dbFields(reflect.TypeOf(rows[0]))
	if err != nil {
		return nil, err
	}
	columns := columnNames(fields)

	perStatement := MaxArgs / len(columns)
	out := make([]Statement, 0, len(rows)/perStatement+1)
	for start := 0; start < len(rows); start += perStatement {
		end := min(start+perStatement, len(rows))
		b := InsertInto(table).Columns(columns...).OnConflictDoNothing(target...)
		for _, row := range rows[start:end] {
			b.Row(fieldValues(reflect.Indirect(reflect.ValueOf(row)), fields)...)
		}
		sql, args, err := b.ToSQL()
		if err != nil {
			return nil, fmt.Errorf("rows %d-%d: %w", start, end-1, err)
		}
		out = append(out, Statement{SQL: sql, Args: args})
	}
	return out, nil
}

type dbField struct {
	column string
	index  int
}

var fieldCache sync.Map // reflect.Type -> []dbField

// Columns lists the db tag names of model's exported fields in order.
func Columns(model any) ([]string, error) {
	fields, err := dbFields(reflect.TypeOf(model))
	if err != nil {
		return nil, err
	}
	return columnNames(fields), nil
}

func columnNames(fields []dbField) []string {
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.column
	}
	return cols
}

func dbFields(typ reflect.Type) ([]dbField, error) {
	for typ != nil && typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ == nil || typ.Kind() != reflect.Struct {
		return nil, errors.New("model must be a struct")
	}
	if cached, ok := fieldCache.Load(typ); ok {
		return cached.([]dbField), nil
	}

	var fields []dbField
	for i := range typ.NumField() {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		column, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		column = strings.TrimSpace(column)
		if column == "" || column == "-" {
			continue
		}
		fields = append(fields, dbField{column: column, index: i})
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%s has no db columns", typ)
	}
	fieldCache.Store(typ, fields)
	return fields, nil
}

func fieldValues(value reflect.Value, fields []dbField) []any {
	out := make([]any, 0, len(fields))
	for _, f := range fields {
		out = append(out, value.Field(f.index).Interface())
	}
	return out
}
