package sql

import (
	"fmt"
	"strconv"
	"strings"
)

// JSONValue returns an expression extracting the JSON value of the given
// column under the path. String segments address object keys and int
// segments address array indices.
//
// MySQL and SQLite render a JSON_EXTRACT call with a '$."key"[n]' path
// literal; Postgres renders the '#>' operator with a text-array path.
func JSONValue(column string, path ...any) Querier {
	return &jsonExpr{column: column, path: path}
}

// JSONValueText behaves like JSONValue but extracts the value as text,
// for comparison against string bind parameters.
func JSONValueText(column string, path ...any) Querier {
	return &jsonExpr{column: column, path: path, text: true}
}

type jsonExpr struct {
	Builder
	column string
	path   []any
	text   bool
}

// Query implements the Querier interface.
func (e *jsonExpr) Query() (string, []any) {
	b := e.fork()
	switch {
	case b.postgres():
		op := "#>"
		if e.text {
			op = "#>>"
		}
		b.Ident(e.column).WriteString(op)
		b.WriteString("'{")
		for i, seg := range e.path {
			if i > 0 {
				b.WriteByte(',')
			}
			writePgSegment(b, seg)
		}
		b.WriteString("}'")
	default:
		b.WriteString("JSON_EXTRACT(").Ident(e.column).Comma()
		b.WriteString("'$")
		for _, seg := range e.path {
			writeMySQLSegment(b, seg)
		}
		b.WriteString("')")
	}
	e.rerrs = b.errs
	return b.String(), b.args
}

// writeMySQLSegment writes one '$'-path segment: ."key" or [n]. Quote
// characters inside a key are escaped so that a segment can never
// terminate the path literal early.
func writeMySQLSegment(b *Builder, seg any) {
	switch s := seg.(type) {
	case string:
		s = strings.ReplaceAll(s, `\`, `\\`)
		s = strings.ReplaceAll(s, `"`, `\"`)
		s = strings.ReplaceAll(s, `'`, `''`)
		b.WriteString(`."` + s + `"`)
	case int:
		b.WriteString("[" + strconv.Itoa(s) + "]")
	default:
		b.AddError(fmt.Errorf("sql: invalid json path segment %T", seg))
	}
}

// writePgSegment writes one text-array path element.
func writePgSegment(b *Builder, seg any) {
	switch s := seg.(type) {
	case string:
		b.WriteString(strings.ReplaceAll(s, "'", "''"))
	case int:
		b.WriteString(strconv.Itoa(s))
	default:
		b.AddError(fmt.Errorf("sql: invalid json path segment %T", seg))
	}
}

// JSONValueEQ returns a predicate comparing the JSON value under the path
// with the given value.
func JSONValueEQ(column string, v any, path ...any) *Predicate {
	return P().Append(func(b *Builder) {
		_, text := v.(string)
		b.Join(&jsonExpr{column: column, path: path, text: text})
		b.WriteOp(OpEQ)
		b.Arg(v)
	})
}

// JSONValueIsNull returns a predicate checking that the JSON value under
// the path is absent.
func JSONValueIsNull(column string, path ...any) *Predicate {
	return P().Append(func(b *Builder) {
		b.Join(&jsonExpr{column: column, path: path})
		b.WriteOp(OpIsNull)
	})
}
