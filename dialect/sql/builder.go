package sql

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/stratumdb/stratum/dialect"
)

// Querier wraps the Query method. It is implemented by all statement
// builders and rendered fragments.
type Querier interface {
	// Query returns the query representation of the element
	// and its arguments (if any).
	Query() (string, []any)
}

// state allows a parent builder to propagate its dialect and its running
// placeholder count into nested builders before rendering them.
type state interface {
	Querier
	SetDialect(string)
	SetTotal(int)
}

// Builder is the base query builder shared by all statement builders.
// It tracks the target dialect, the ordered bind arguments, and any
// construction errors collected while the statement was assembled.
type Builder struct {
	sb      strings.Builder
	dialect string
	args    []any
	total   int     // total placeholders, including those of parent builders.
	errs    []error // construction errors, collected while assembling the statement.
	rerrs   []error // errors of the most recent rendering.
	depth   int     // composition nesting depth of the current rendering.
}

// Quote quotes the given identifier with the dialect's identifier quote
// character. Identifiers that were already quoted with backticks by a
// dialect-less helper (e.g. Table("t").C("c")) are re-quoted for Postgres.
func (b *Builder) Quote(ident string) string {
	quote := "`"
	switch {
	case b.postgres():
		if strings.Contains(ident, "`") {
			return strings.ReplaceAll(ident, "`", `"`)
		}
		quote = `"`
	case strings.Contains(ident, "`"):
		return ident
	}
	return quote + ident + quote
}

// Ident appends the given string as an identifier. Dotted names are quoted
// per part, and function calls or order modifiers are written as-is.
func (b *Builder) Ident(s string) *Builder {
	switch {
	case len(s) == 0:
	case s == "*":
		b.WriteString(s)
	case isFunc(s) || isModifier(s) || b.isQuoted(s):
		if b.postgres() {
			s = strings.ReplaceAll(s, "`", `"`)
		}
		b.WriteString(s)
	case strings.ContainsRune(s, '.'):
		parts := strings.Split(s, ".")
		for i, p := range parts {
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(b.Quote(p))
		}
	default:
		b.WriteString(b.Quote(s))
	}
	return b
}

// IdentComma calls Ident on all arguments and adds a comma between them.
func (b *Builder) IdentComma(s ...string) *Builder {
	for i := range s {
		if i > 0 {
			b.Comma()
		}
		b.Ident(s[i])
	}
	return b
}

// String returns the accumulated SQL text.
func (b *Builder) String() string { return b.sb.String() }

// WriteString appends the given string to the query text.
func (b *Builder) WriteString(s string) *Builder {
	b.sb.WriteString(s)
	return b
}

// WriteByte appends the given byte to the query text.
func (b *Builder) WriteByte(c byte) *Builder {
	b.sb.WriteByte(c)
	return b
}

// Comma appends a comma separator.
func (b *Builder) Comma() *Builder { return b.WriteString(", ") }

// Pad appends a single space.
func (b *Builder) Pad() *Builder { return b.WriteByte(' ') }

// Wrap wraps the output of the given function with parentheses.
func (b *Builder) Wrap(fn func(*Builder)) *Builder {
	b.WriteByte('(')
	fn(b)
	b.WriteByte(')')
	return b
}

// Arg appends the given value as a bind argument and writes the matching
// positional placeholder. Raw values are written to the text verbatim.
func (b *Builder) Arg(a any) *Builder {
	switch a := a.(type) {
	case raw:
		b.WriteString(a.s)
	case Querier:
		b.Wrap(func(b *Builder) {
			b.Join(a)
		})
	default:
		b.total++
		b.args = append(b.args, a)
		if b.postgres() {
			b.WriteString("$" + strconv.Itoa(b.total))
		} else {
			b.WriteByte('?')
		}
	}
	return b
}

// Args appends a comma-separated list of bind arguments.
func (b *Builder) Args(a ...any) *Builder {
	for i := range a {
		if i > 0 {
			b.Comma()
		}
		b.Arg(a[i])
	}
	return b
}

// Join renders the given queriers into this builder, continuing its
// placeholder numbering and merging their arguments and errors.
func (b *Builder) Join(qs ...Querier) *Builder { return b.join(qs, "") }

// JoinComma renders the given queriers separated by commas.
func (b *Builder) JoinComma(qs ...Querier) *Builder { return b.join(qs, ", ") }

func (b *Builder) join(qs []Querier, sep string) *Builder {
	for i, q := range qs {
		if i > 0 {
			b.WriteString(sep)
		}
		if st, ok := q.(state); ok {
			st.SetDialect(b.dialect)
			st.SetTotal(b.total)
		}
		query, args := q.Query()
		b.WriteString(query)
		b.args = append(b.args, args...)
		b.total += len(args)
		if eq, ok := q.(interface{ Err() error }); ok {
			b.AddError(eq.Err())
		}
	}
	return b
}

// AddError appends an error to the builder. Errors are surfaced by Err.
func (b *Builder) AddError(err error) *Builder {
	if err != nil {
		b.errs = append(b.errs, err)
	}
	return b
}

// Err returns the construction errors of the builder together with the
// errors of its most recent rendering, joined into one, or nil.
// Construction errors are never dropped by rendering; rendering the same
// statement again replaces only the render errors.
func (b *Builder) Err() error {
	if len(b.rerrs) == 0 {
		return errors.Join(b.errs...)
	}
	errs := make([]error, 0, len(b.errs)+len(b.rerrs))
	errs = append(errs, b.errs...)
	errs = append(errs, b.rerrs...)
	return errors.Join(errs...)
}

// SetDialect sets the builder dialect. It is used internally to propagate
// the dialect into nested builders.
func (b *Builder) SetDialect(d string) { b.dialect = d }

// SetTotal sets the starting placeholder count. It is used internally to
// keep positional placeholders contiguous across nested builders.
func (b *Builder) SetTotal(total int) { b.total = total }

// Dialect returns the builder dialect.
func (b *Builder) Dialect() string { return b.dialect }

// Total returns the total number of placeholders emitted so far.
func (b *Builder) Total() int { return b.total }

func (b *Builder) postgres() bool { return b.dialect == dialect.Postgres }
func (b *Builder) mysql() bool    { return b.dialect == dialect.MySQL }

// fork returns a fresh builder sharing the dialect and the current
// placeholder offset.
func (b *Builder) fork() *Builder {
	return &Builder{dialect: b.dialect, total: b.total}
}

func (b *Builder) isQuoted(s string) bool {
	return strings.ContainsAny(s, "`\"")
}

func isFunc(s string) bool { return strings.ContainsRune(s, '(') }

func isModifier(s string) bool {
	for _, m := range []string{" ASC", " DESC"} {
		if strings.HasSuffix(strings.ToUpper(s), m) {
			return true
		}
	}
	return false
}

type raw struct{ s string }

// Raw returns a raw SQL fragment that is written to the statement text
// as-is when passed as an argument (escape hatch, table-unaware).
func Raw(s string) any { return raw{s} }

// expr is a raw expression with optional arguments.
type expr struct {
	Builder
	s    string
	args []any
}

// Expr returns a raw SQL expression with the given arguments. Each `?` in
// the expression is replaced with the dialect's positional placeholder.
func Expr(s string, args ...any) Querier { return &expr{s: s, args: args} }

// Query implements the Querier interface.
func (e *expr) Query() (string, []any) {
	b := e.fork()
	for i := 0; i < len(e.s); i++ {
		if e.s[i] != '?' {
			b.WriteByte(e.s[i])
			continue
		}
		b.total++
		if b.postgres() {
			b.WriteString("$" + strconv.Itoa(b.total))
		} else {
			b.WriteByte('?')
		}
	}
	if n := strings.Count(e.s, "?"); n != len(e.args) {
		b.AddError(fmt.Errorf("sql: expr %q expects %d arguments, got %d", e.s, n, len(e.args)))
	}
	e.rerrs = b.errs
	return b.String(), e.args
}

// Op represents a comparison operator.
type Op int

// Comparison operators.
const (
	OpEQ      Op = iota // =
	OpNEQ               // <>
	OpGT                // >
	OpGTE               // >=
	OpLT                // <
	OpLTE               // <=
	OpIn                // IN
	OpNotIn             // NOT IN
	OpLike              // LIKE
	OpIsNull            // IS NULL
	OpNotNull           // IS NOT NULL
)

var ops = [...]string{
	OpEQ:      "=",
	OpNEQ:     "<>",
	OpGT:      ">",
	OpGTE:     ">=",
	OpLT:      "<",
	OpLTE:     "<=",
	OpIn:      "IN",
	OpNotIn:   "NOT IN",
	OpLike:    "LIKE",
	OpIsNull:  "IS NULL",
	OpNotNull: "IS NOT NULL",
}

// WriteOp writes the operator surrounded by spaces (or prefixed by one, for
// postfix operators such as IS NULL).
func (b *Builder) WriteOp(op Op) *Builder {
	switch {
	case op >= OpEQ && op <= OpLike:
		b.Pad().WriteString(ops[op]).Pad()
	case op == OpIsNull || op == OpNotNull:
		b.Pad().WriteString(ops[op])
	default:
		b.AddError(fmt.Errorf("sql: invalid operator %v", op))
	}
	return b
}

// Predicate is a condition tree. Conditions appended to one predicate are
// joined with AND; And/Or compose whole trees. A compound tree rendered as
// an operand of an outer composition parenthesizes itself.
type Predicate struct {
	Builder
	fns []func(*Builder)
}

// P returns a new predicate from the given render functions.
func P(fns ...func(*Builder)) *Predicate {
	return &Predicate{fns: fns}
}

// Append adds a condition to the predicate and returns it.
func (p *Predicate) Append(fn func(*Builder)) *Predicate {
	p.fns = append(p.fns, fn)
	return p
}

// Query implements the Querier interface. Re-rendering the same predicate
// yields identical text and arguments.
func (p *Predicate) Query() (string, []any) {
	b := p.fork()
	for i, f := range p.fns {
		if i > 0 {
			b.WriteString(" AND ")
		}
		f(b)
	}
	p.rerrs = b.errs
	return b.String(), b.args
}

// And combines the given predicates with AND between them.
func And(preds ...*Predicate) *Predicate {
	if len(preds) == 1 {
		return preds[0]
	}
	p := P()
	return p.Append(func(b *Builder) {
		p.mayWrap(preds, b, "AND")
	})
}

// Or combines the given predicates with OR between them.
func Or(preds ...*Predicate) *Predicate {
	if len(preds) == 1 {
		return preds[0]
	}
	p := P()
	return p.Append(func(b *Builder) {
		p.mayWrap(preds, b, "OR")
	})
}

// mayWrap writes the operands joined by op. The composition parenthesizes
// itself when it renders below the top level, and each operand that holds
// several conditions of its own is parenthesized as well. Nesting is tracked
// on the builder, so composing predicates never modifies the operands.
func (p *Predicate) mayWrap(preds []*Predicate, b *Builder, op string) {
	if len(preds) == 1 {
		b.Join(preds[0])
		return
	}
	if b.depth != 0 {
		b.WriteByte('(')
		defer b.WriteByte(')')
	}
	for i := range preds {
		if i > 0 {
			b.WriteByte(' ')
			b.WriteString(op)
			b.WriteByte(' ')
		}
		if len(preds[i].fns) > 1 {
			b.Wrap(func(b *Builder) {
				p.renderOperand(b, preds[i])
			})
			continue
		}
		p.renderOperand(b, preds[i])
	}
}

// renderOperand renders the conditions of an operand predicate inline, one
// nesting level below the current one.
func (p *Predicate) renderOperand(b *Builder, operand *Predicate) {
	prev := b.depth
	b.depth++
	for i, f := range operand.fns {
		if i > 0 {
			b.WriteString(" AND ")
		}
		f(b)
	}
	b.depth = prev
	for _, err := range operand.errs {
		b.AddError(err)
	}
}

// Not wraps the given predicate with NOT.
func Not(pred *Predicate) *Predicate {
	return P().Append(func(b *Builder) {
		b.WriteString("NOT ")
		b.Wrap(func(b *Builder) {
			b.Join(pred)
		})
	})
}

// arg writes a comparison argument: a nested query, or a bind value.
func (*Predicate) arg(b *Builder, a any) {
	switch a := a.(type) {
	case *Selector:
		b.Wrap(func(b *Builder) {
			b.Join(a)
		})
	default:
		b.Arg(a)
	}
}

// EQ returns a column = value predicate.
func EQ(col string, value any) *Predicate { return P().EQ(col, value) }

// EQ appends a column = value condition.
func (p *Predicate) EQ(col string, arg any) *Predicate {
	// Boolean columns in Postgres can stand alone as predicates.
	if v, ok := arg.(bool); ok {
		return p.Append(func(b *Builder) {
			if !b.postgres() {
				b.Ident(col).WriteOp(OpEQ)
				b.Arg(v)
				return
			}
			if !v {
				b.WriteString("NOT ")
			}
			b.Ident(col)
		})
	}
	return p.Append(func(b *Builder) {
		b.Ident(col).WriteOp(OpEQ)
		p.arg(b, arg)
	})
}

// NEQ returns a column <> value predicate.
func NEQ(col string, value any) *Predicate { return P().NEQ(col, value) }

// NEQ appends a column <> value condition.
func (p *Predicate) NEQ(col string, arg any) *Predicate {
	if v, ok := arg.(bool); ok {
		return p.EQ(col, !v)
	}
	return p.Append(func(b *Builder) {
		b.Ident(col).WriteOp(OpNEQ)
		p.arg(b, arg)
	})
}

// GT returns a column > value predicate.
func GT(col string, value any) *Predicate { return P().GT(col, value) }

// GT appends a column > value condition.
func (p *Predicate) GT(col string, arg any) *Predicate {
	return p.Append(func(b *Builder) {
		b.Ident(col).WriteOp(OpGT)
		p.arg(b, arg)
	})
}

// GTE returns a column >= value predicate.
func GTE(col string, value any) *Predicate { return P().GTE(col, value) }

// GTE appends a column >= value condition.
func (p *Predicate) GTE(col string, arg any) *Predicate {
	return p.Append(func(b *Builder) {
		b.Ident(col).WriteOp(OpGTE)
		p.arg(b, arg)
	})
}

// LT returns a column < value predicate.
func LT(col string, value any) *Predicate { return P().LT(col, value) }

// LT appends a column < value condition.
func (p *Predicate) LT(col string, arg any) *Predicate {
	return p.Append(func(b *Builder) {
		b.Ident(col).WriteOp(OpLT)
		p.arg(b, arg)
	})
}

// LTE returns a column <= value predicate.
func LTE(col string, value any) *Predicate { return P().LTE(col, value) }

// LTE appends a column <= value condition.
func (p *Predicate) LTE(col string, arg any) *Predicate {
	return p.Append(func(b *Builder) {
		b.Ident(col).WriteOp(OpLTE)
		p.arg(b, arg)
	})
}

// ColumnsEQ returns a column = column predicate.
func ColumnsEQ(col1, col2 string) *Predicate { return columnsOp(col1, col2, OpEQ) }

// ColumnsNEQ returns a column <> column predicate.
func ColumnsNEQ(col1, col2 string) *Predicate { return columnsOp(col1, col2, OpNEQ) }

// ColumnsGT returns a column > column predicate.
func ColumnsGT(col1, col2 string) *Predicate { return columnsOp(col1, col2, OpGT) }

// ColumnsGTE returns a column >= column predicate.
func ColumnsGTE(col1, col2 string) *Predicate { return columnsOp(col1, col2, OpGTE) }

// ColumnsLT returns a column < column predicate.
func ColumnsLT(col1, col2 string) *Predicate { return columnsOp(col1, col2, OpLT) }

// ColumnsLTE returns a column <= column predicate.
func ColumnsLTE(col1, col2 string) *Predicate { return columnsOp(col1, col2, OpLTE) }

func columnsOp(col1, col2 string, op Op) *Predicate {
	return P().Append(func(b *Builder) {
		b.Ident(col1).WriteOp(op).Ident(col2)
	})
}

// In returns a column IN (values...) predicate. An empty value list renders
// FALSE so that the predicate matches no rows. A single *Selector argument
// renders as an IN (subquery).
func In(col string, args ...any) *Predicate { return P().In(col, args...) }

// In appends a column IN condition.
func (p *Predicate) In(col string, args ...any) *Predicate {
	if len(args) == 0 {
		return p.Append(func(b *Builder) {
			b.WriteString("FALSE")
		})
	}
	return p.Append(func(b *Builder) {
		b.Ident(col).WriteOp(OpIn)
		b.Wrap(func(b *Builder) {
			if s, ok := args[0].(*Selector); ok && len(args) == 1 {
				b.Join(s)
				return
			}
			b.Args(args...)
		})
	})
}

// NotIn returns a column NOT IN (values...) predicate. An empty value list
// renders TRUE so that the predicate matches all rows.
func NotIn(col string, args ...any) *Predicate { return P().NotIn(col, args...) }

// NotIn appends a column NOT IN condition.
func (p *Predicate) NotIn(col string, args ...any) *Predicate {
	if len(args) == 0 {
		return p.Append(func(b *Builder) {
			b.WriteString("TRUE")
		})
	}
	return p.Append(func(b *Builder) {
		b.Ident(col).WriteOp(OpNotIn)
		b.Wrap(func(b *Builder) {
			if s, ok := args[0].(*Selector); ok && len(args) == 1 {
				b.Join(s)
				return
			}
			b.Args(args...)
		})
	})
}

// Exists returns an EXISTS (subquery) predicate.
func Exists(query *Selector) *Predicate {
	return P().Append(func(b *Builder) {
		b.WriteString("EXISTS ")
		b.Wrap(func(b *Builder) {
			b.Join(query)
		})
	})
}

// NotExists returns a NOT EXISTS (subquery) predicate.
func NotExists(query *Selector) *Predicate {
	return P().Append(func(b *Builder) {
		b.WriteString("NOT EXISTS ")
		b.Wrap(func(b *Builder) {
			b.Join(query)
		})
	})
}

// Like returns a column LIKE pattern predicate.
func Like(col, pattern string) *Predicate { return P().Like(col, pattern) }

// Like appends a column LIKE condition.
func (p *Predicate) Like(col, pattern string) *Predicate {
	return p.Append(func(b *Builder) {
		b.Ident(col).WriteOp(OpLike)
		b.Arg(pattern)
	})
}

// HasPrefix returns a column LIKE prefix% predicate.
func HasPrefix(col, prefix string) *Predicate {
	return Like(col, prefix+"%")
}

// HasSuffix returns a column LIKE %suffix predicate.
func HasSuffix(col, suffix string) *Predicate {
	return Like(col, "%"+suffix)
}

// Contains returns a column LIKE %substr% predicate.
func Contains(col, substr string) *Predicate {
	return Like(col, "%"+substr+"%")
}

// EqualFold returns a case-insensitive column = value predicate.
func EqualFold(col, value string) *Predicate {
	return P().Append(func(b *Builder) {
		b.WriteString("LOWER(").Ident(col).WriteString(")")
		b.WriteOp(OpEQ)
		b.Arg(strings.ToLower(value))
	})
}

// ContainsFold returns a case-insensitive column LIKE %substr% predicate.
func ContainsFold(col, substr string) *Predicate {
	return P().Append(func(b *Builder) {
		b.WriteString("LOWER(").Ident(col).WriteString(")")
		b.WriteOp(OpLike)
		b.Arg("%" + strings.ToLower(substr) + "%")
	})
}

// IsNull returns a column IS NULL predicate.
func IsNull(col string) *Predicate { return P().IsNull(col) }

// IsNull appends a column IS NULL condition.
func (p *Predicate) IsNull(col string) *Predicate {
	return p.Append(func(b *Builder) {
		b.Ident(col).WriteOp(OpIsNull)
	})
}

// NotNull returns a column IS NOT NULL predicate.
func NotNull(col string) *Predicate { return P().NotNull(col) }

// NotNull appends a column IS NOT NULL condition.
func (p *Predicate) NotNull(col string) *Predicate {
	return p.Append(func(b *Builder) {
		b.Ident(col).WriteOp(OpNotNull)
	})
}

// ExprP returns a predicate from a raw expression with arguments.
func ExprP(s string, args ...any) *Predicate {
	return P().Append(func(b *Builder) {
		b.Join(Expr(s, args...))
	})
}

// Aggregation and expression helpers.

// As returns an aliased expression.
func As(expr, as string) string { return expr + " AS " + as }

// Count returns a COUNT aggregation on the given column.
func Count(column string) string { return "COUNT(" + column + ")" }

// Sum returns a SUM aggregation on the given column.
func Sum(column string) string { return "SUM(" + column + ")" }

// Min returns a MIN aggregation on the given column.
func Min(column string) string { return "MIN(" + column + ")" }

// Max returns a MAX aggregation on the given column.
func Max(column string) string { return "MAX(" + column + ")" }

// Avg returns an AVG aggregation on the given column.
func Avg(column string) string { return "AVG(" + column + ")" }

// Asc marks a column for ascending ordering.
func Asc(column string) string { return column + " ASC" }

// Desc marks a column for descending ordering.
func Desc(column string) string { return column + " DESC" }

// OrderTerm is a single ORDER BY term with an explicit direction and null
// placement. MySQL and SQLite lack native NULLS FIRST/LAST, so a non-default
// placement is emulated there with a CASE term prepended to the natural one.
type OrderTerm struct {
	column string
	desc   bool
	nulls  string // "", "FIRST" or "LAST"
}

// OrderByField returns an ascending order term for the given column.
func OrderByField(column string) *OrderTerm {
	return &OrderTerm{column: column}
}

// Desc switches the term to descending ordering.
func (t *OrderTerm) Desc() *OrderTerm {
	t.desc = true
	return t
}

// Asc switches the term to ascending ordering.
func (t *OrderTerm) Asc() *OrderTerm {
	t.desc = false
	return t
}

// NullsFirst requests rows with a NULL value first.
func (t *OrderTerm) NullsFirst() *OrderTerm {
	t.nulls = "FIRST"
	return t
}

// NullsLast requests rows with a NULL value last.
func (t *OrderTerm) NullsLast() *OrderTerm {
	t.nulls = "LAST"
	return t
}

func (t *OrderTerm) write(b *Builder) {
	if t.nulls != "" && !b.postgres() {
		b.WriteString("CASE WHEN ").Ident(t.column).WriteString(" IS NULL THEN ")
		if t.nulls == "FIRST" {
			b.WriteString("0 ELSE 1")
		} else {
			b.WriteString("1 ELSE 0")
		}
		b.WriteString(" END").Comma()
	}
	b.Ident(t.column)
	if t.desc {
		b.WriteString(" DESC")
	}
	if t.nulls != "" && b.postgres() {
		b.WriteString(" NULLS " + t.nulls)
	}
}

// TableView is a table or a subquery that can appear in a FROM clause.
type TableView interface {
	view()
}

// SelectTable is a table reference with an optional alias.
type SelectTable struct {
	Builder
	name string
	as   string
}

// Table returns a new table reference.
func Table(name string) *SelectTable {
	return &SelectTable{name: name}
}

// As sets the table alias.
func (t *SelectTable) As(alias string) *SelectTable {
	t.as = alias
	return t
}

// Name returns the table name.
func (t *SelectTable) Name() string { return t.name }

// C returns the given column qualified with the table name or alias.
func (t *SelectTable) C(column string) string {
	name := t.name
	if t.as != "" {
		name = t.as
	}
	b := &Builder{dialect: t.dialect}
	b.Ident(name).WriteByte('.').Ident(column)
	return b.String()
}

// Columns returns the given columns qualified with the table name or alias.
func (t *SelectTable) Columns(columns ...string) []string {
	names := make([]string, len(columns))
	for i := range columns {
		names[i] = t.C(columns[i])
	}
	return names
}

// ref writes the table reference to the builder.
func (t *SelectTable) ref(b *Builder) {
	b.Ident(t.name)
	if t.as != "" {
		b.WriteString(" AS ")
		b.Ident(t.as)
	}
}

func (*SelectTable) view() {}

type joinKind string

// Join kinds.
const (
	joinInner joinKind = "JOIN"
	joinLeft  joinKind = "LEFT JOIN"
	joinRight joinKind = "RIGHT JOIN"
	joinCross joinKind = "CROSS JOIN"
)

type joinClause struct {
	kind  joinKind
	table TableView
	on    *Predicate
}

// Selector builds a SELECT statement.
type Selector struct {
	Builder
	as       string
	columns  []string
	from     TableView
	joins    []joinClause
	where    *Predicate
	group    []string
	having   *Predicate
	order    []any // string, *OrderTerm or Querier
	limit    *int
	offset   *int
	distinct bool
	lock     string
}

// Select returns a new selector with the given selection columns.
func Select(columns ...string) *Selector {
	return (&Selector{}).Select(columns...)
}

// Select replaces the selection with the given columns.
func (s *Selector) Select(columns ...string) *Selector {
	s.columns = columns
	return s
}

// AppendSelect adds columns to the selection.
func (s *Selector) AppendSelect(columns ...string) *Selector {
	s.columns = append(s.columns, columns...)
	return s
}

// SelectedColumns returns the current selection.
func (s *Selector) SelectedColumns() []string {
	return append([]string(nil), s.columns...)
}

// From sets the FROM view of the statement.
func (s *Selector) From(t TableView) *Selector {
	s.from = t
	if st, ok := t.(state); ok {
		st.SetDialect(s.dialect)
	}
	return s
}

// Distinct marks the selection as DISTINCT.
func (s *Selector) Distinct() *Selector {
	s.distinct = true
	return s
}

// As gives the selector an alias for use as a subquery view.
func (s *Selector) As(alias string) *Selector {
	s.as = alias
	return s
}

// Table returns the FROM table of the selector, or nil when selecting from
// a subquery.
func (s *Selector) Table() *SelectTable {
	if t, ok := s.from.(*SelectTable); ok {
		return t
	}
	return nil
}

// TableName returns the name or alias of the FROM view.
func (s *Selector) TableName() string {
	switch v := s.from.(type) {
	case *SelectTable:
		if v.as != "" {
			return v.as
		}
		return v.name
	case *Selector:
		return v.as
	default:
		return ""
	}
}

// C returns the given column qualified with the selector's table or alias.
func (s *Selector) C(column string) string {
	if s.as != "" {
		b := &Builder{dialect: s.dialect}
		b.Ident(s.as).WriteByte('.').Ident(column)
		return b.String()
	}
	if t := s.Table(); t != nil {
		t.SetDialect(s.dialect)
		return t.C(column)
	}
	return column
}

// Where ANDs the given predicate into the condition tree. Composing Where
// twice never replaces the previous tree.
func (s *Selector) Where(p *Predicate) *Selector {
	switch {
	case p == nil:
	case s.where == nil:
		s.where = p
	default:
		s.where = And(s.where, p)
	}
	return s
}

// P returns the condition tree of the selector, or nil.
func (s *Selector) P() *Predicate { return s.where }

// Join appends an INNER JOIN on the given view. Joins render in insertion
// order; each join's own ON predicate is never folded into WHERE.
func (s *Selector) Join(t TableView) *Selector { return s.join(joinInner, t) }

// LeftJoin appends a LEFT JOIN on the given view.
func (s *Selector) LeftJoin(t TableView) *Selector { return s.join(joinLeft, t) }

// RightJoin appends a RIGHT JOIN on the given view.
func (s *Selector) RightJoin(t TableView) *Selector { return s.join(joinRight, t) }

// CrossJoin appends a CROSS JOIN on the given view. Cross joins carry no
// ON predicate.
func (s *Selector) CrossJoin(t TableView) *Selector { return s.join(joinCross, t) }

func (s *Selector) join(kind joinKind, t TableView) *Selector {
	if st, ok := t.(state); ok {
		st.SetDialect(s.dialect)
	}
	s.joins = append(s.joins, joinClause{kind: kind, table: t})
	return s
}

// On sets the join condition of the last join to col1 = col2. Calling On
// again ANDs the conditions.
func (s *Selector) On(col1, col2 string) *Selector {
	return s.OnP(ColumnsEQ(col1, col2))
}

// OnP sets (or ANDs) the join condition of the last join.
func (s *Selector) OnP(p *Predicate) *Selector {
	if len(s.joins) == 0 {
		s.AddError(errors.New("sql: ON without a join"))
		return s
	}
	j := &s.joins[len(s.joins)-1]
	if j.kind == joinCross {
		s.AddError(errors.New("sql: ON is not allowed on a cross join"))
		return s
	}
	if j.on == nil {
		j.on = p
	} else {
		j.on = And(j.on, p)
	}
	return s
}

// GroupBy appends the given columns to the GROUP BY clause.
func (s *Selector) GroupBy(columns ...string) *Selector {
	s.group = append(s.group, columns...)
	return s
}

// Having sets (or ANDs) the HAVING predicate.
func (s *Selector) Having(p *Predicate) *Selector {
	if s.having == nil {
		s.having = p
	} else {
		s.having = And(s.having, p)
	}
	return s
}

// OrderBy appends the given columns to the ORDER BY clause. A column may
// carry an " ASC" or " DESC" suffix (see Asc and Desc).
func (s *Selector) OrderBy(columns ...string) *Selector {
	for i := range columns {
		s.order = append(s.order, columns[i])
	}
	return s
}

// OrderByTerm appends the given order terms to the ORDER BY clause.
func (s *Selector) OrderByTerm(terms ...*OrderTerm) *Selector {
	for i := range terms {
		s.order = append(s.order, terms[i])
	}
	return s
}

// OrderExpr appends a raw ordering expression to the ORDER BY clause.
func (s *Selector) OrderExpr(q Querier) *Selector {
	s.order = append(s.order, q)
	return s
}

// Limit sets the LIMIT clause. Negative values are a construction error.
func (s *Selector) Limit(n int) *Selector {
	if n < 0 {
		s.AddError(fmt.Errorf("sql: negative limit %d", n))
		return s
	}
	s.limit = &n
	return s
}

// Offset sets the OFFSET clause. Negative values are a construction error.
func (s *Selector) Offset(n int) *Selector {
	if n < 0 {
		s.AddError(fmt.Errorf("sql: negative offset %d", n))
		return s
	}
	s.offset = &n
	return s
}

// ForUpdate appends a FOR UPDATE row-locking suffix. SQLite has no row
// locks; requesting one is an unsupported-feature error.
func (s *Selector) ForUpdate() *Selector {
	s.lock = "FOR UPDATE"
	return s
}

// ForShare appends a FOR SHARE row-locking suffix.
func (s *Selector) ForShare() *Selector {
	s.lock = "FOR SHARE"
	return s
}

// Clone returns a duplicate of the selector, including all its state.
func (s *Selector) Clone() *Selector {
	if s == nil {
		return nil
	}
	c := *s
	c.Builder = Builder{dialect: s.dialect, total: s.total, errs: append([]error(nil), s.errs...)}
	c.columns = append([]string(nil), s.columns...)
	c.joins = append([]joinClause(nil), s.joins...)
	c.group = append([]string(nil), s.group...)
	c.order = append([]any(nil), s.order...)
	return &c
}

func (*Selector) view() {}

// Query implements the Querier interface. Rendering is deterministic:
// re-rendering the same selector yields identical text and arguments.
func (s *Selector) Query() (string, []any) {
	b := s.fork()
	b.WriteString("SELECT ")
	if s.distinct {
		b.WriteString("DISTINCT ")
	}
	if len(s.columns) > 0 {
		b.IdentComma(s.columns...)
	} else {
		b.WriteString("*")
	}
	if s.from != nil {
		b.WriteString(" FROM ")
		s.writeView(b, s.from)
	}
	for _, j := range s.joins {
		b.Pad().WriteString(string(j.kind)).Pad()
		s.writeView(b, j.table)
		if j.on != nil {
			b.WriteString(" ON ")
			b.Join(j.on)
		}
	}
	if s.where != nil {
		b.WriteString(" WHERE ")
		b.Join(s.where)
	}
	if len(s.group) > 0 {
		b.WriteString(" GROUP BY ")
		b.IdentComma(s.group...)
	}
	if s.having != nil {
		b.WriteString(" HAVING ")
		b.Join(s.having)
	}
	if len(s.order) > 0 {
		b.WriteString(" ORDER BY ")
		s.writeOrder(b)
	}
	if s.limit != nil {
		b.WriteString(" LIMIT ").WriteString(strconv.Itoa(*s.limit))
	}
	if s.offset != nil {
		b.WriteString(" OFFSET ").WriteString(strconv.Itoa(*s.offset))
	}
	if s.lock != "" {
		if b.dialect == dialect.SQLite {
			b.AddError(&UnsupportedFeatureError{Dialect: b.dialect, Feature: "row-level locking"})
		} else {
			b.Pad().WriteString(s.lock)
		}
	}
	s.rerrs = b.errs
	return b.String(), b.args
}

func (s *Selector) writeView(b *Builder, t TableView) {
	switch v := t.(type) {
	case *SelectTable:
		v.SetDialect(b.dialect)
		v.ref(b)
	case *Selector:
		b.Wrap(func(b *Builder) {
			b.Join(v)
		})
		if v.as != "" {
			b.WriteString(" AS ")
			b.Ident(v.as)
		}
	default:
		b.AddError(fmt.Errorf("sql: unexpected view type %T", t))
	}
}

func (s *Selector) writeOrder(b *Builder) {
	for i, o := range s.order {
		if i > 0 {
			b.Comma()
		}
		switch t := o.(type) {
		case string:
			b.Ident(t)
		case *OrderTerm:
			t.write(b)
		case Querier:
			b.Join(t)
		default:
			b.AddError(fmt.Errorf("sql: unexpected order type %T", o))
		}
	}
}

// UnsupportedFeatureError is returned when a dialect cannot express a
// requested operation. The feature is never silently degraded.
type UnsupportedFeatureError struct {
	Dialect string
	Feature string
}

// Error implements the error interface.
func (e *UnsupportedFeatureError) Error() string {
	return fmt.Sprintf("sql: dialect %s does not support %s", e.Dialect, e.Feature)
}

// InsertBuilder builds an INSERT statement, optionally with multiple value
// rows and conflict resolution.
type InsertBuilder struct {
	Builder
	table     string
	columns   []string
	defaults  bool
	returning []string
	values    [][]any
	conflict  *conflict
}

// Insert returns a new insert builder for the given table.
func Insert(table string) *InsertBuilder {
	b := &InsertBuilder{table: table}
	if table == "" {
		b.AddError(errors.New("sql: insert with empty table name"))
	}
	return b
}

// Columns sets the insert field list.
func (i *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	i.columns = append(i.columns, columns...)
	return i
}

// Values appends one row of values matching the field list.
func (i *InsertBuilder) Values(values ...any) *InsertBuilder {
	if len(values) != len(i.columns) {
		i.AddError(fmt.Errorf("sql: insert row has %d values for %d columns", len(values), len(i.columns)))
		return i
	}
	i.values = append(i.values, values)
	return i
}

// Default requests a row with default values for all columns.
func (i *InsertBuilder) Default() *InsertBuilder {
	i.defaults = true
	return i
}

// Returning adds a RETURNING clause. MySQL does not support RETURNING and
// the clause is omitted there.
func (i *InsertBuilder) Returning(columns ...string) *InsertBuilder {
	i.returning = columns
	return i
}

type conflict struct {
	columns []string
	nothing bool
	update  []func(*UpdateSet)
}

// ConflictOption configures the conflict resolution of an insert.
type ConflictOption func(*conflict)

// ConflictColumns sets the conflict target columns (Postgres/SQLite).
func ConflictColumns(columns ...string) ConflictOption {
	return func(c *conflict) {
		c.columns = columns
	}
}

// DoNothing requests the dialect's ignore-duplicates variant.
func DoNothing() ConflictOption {
	return func(c *conflict) {
		c.nothing = true
	}
}

// ResolveWithNewValues updates every inserted column, except the conflict
// target, to the value that would have been inserted.
func ResolveWithNewValues() ConflictOption {
	return func(c *conflict) {
		c.update = append(c.update, func(u *UpdateSet) {
			target := make(map[string]bool, len(u.conflict.columns))
			for _, col := range u.conflict.columns {
				target[col] = true
			}
			for _, col := range u.columns {
				if !target[col] {
					u.SetExcluded(col)
				}
			}
		})
	}
}

// ResolveWith customizes the update-on-conflict assignments.
func ResolveWith(fn func(*UpdateSet)) ConflictOption {
	return func(c *conflict) {
		c.update = append(c.update, fn)
	}
}

// OnConflict turns the insert into a bulk upsert. Calling it with no
// resolution option is an explicit request for the ignore-duplicates
// variant; the builder does not infer intent from elsewhere.
func (i *InsertBuilder) OnConflict(opts ...ConflictOption) *InsertBuilder {
	if i.conflict == nil {
		i.conflict = &conflict{}
	}
	for _, opt := range opts {
		opt(i.conflict)
	}
	return i
}

// UpdateSet describes the SET assignments of an update-on-conflict clause.
type UpdateSet struct {
	columns  []string
	conflict *conflict
	assigns  []func(*Builder)
}

// Columns returns the columns of the insert field list.
func (u *UpdateSet) Columns() []string {
	return append([]string(nil), u.columns...)
}

// Set assigns a literal replacement value to the column on conflict.
func (u *UpdateSet) Set(column string, v any) *UpdateSet {
	u.assigns = append(u.assigns, func(b *Builder) {
		b.Ident(column).WriteOp(OpEQ).Arg(v)
	})
	return u
}

// SetExcluded assigns the value that would have been inserted to the
// column on conflict (the VALUES(col) / excluded.col marker).
func (u *UpdateSet) SetExcluded(column string) *UpdateSet {
	u.assigns = append(u.assigns, func(b *Builder) {
		b.Ident(column).WriteOp(OpEQ)
		if b.mysql() {
			b.WriteString("VALUES(").Ident(column).WriteString(")")
		} else {
			b.Ident("excluded").WriteByte('.').Ident(column)
		}
	})
	return u
}

// Query implements the Querier interface.
func (i *InsertBuilder) Query() (string, []any) {
	b := i.fork()
	b.WriteString("INSERT ")
	if i.conflict != nil && i.ignoreMode() && b.mysql() {
		b.WriteString("IGNORE ")
	}
	b.WriteString("INTO ")
	b.Ident(i.table).Pad()
	switch {
	case i.defaults && len(i.columns) == 0:
		if b.mysql() {
			b.WriteString("() VALUES ()")
		} else {
			b.WriteString("DEFAULT VALUES")
		}
	case len(i.values) == 0:
		b.AddError(errors.New("sql: insert without value rows"))
	default:
		b.Wrap(func(b *Builder) {
			b.IdentComma(i.columns...)
		})
		b.WriteString(" VALUES ")
		for j, row := range i.values {
			if j > 0 {
				b.Comma()
			}
			b.Wrap(func(b *Builder) {
				b.Args(row...)
			})
		}
	}
	if i.conflict != nil {
		i.writeConflict(b)
	}
	if len(i.returning) > 0 && !b.mysql() {
		b.WriteString(" RETURNING ")
		b.IdentComma(i.returning...)
	}
	i.rerrs = b.errs
	return b.String(), b.args
}

// ignoreMode reports whether the conflict clause has no update assignments.
func (i *InsertBuilder) ignoreMode() bool {
	return i.conflict.nothing || len(i.conflict.update) == 0
}

func (i *InsertBuilder) writeConflict(b *Builder) {
	switch ignore := i.ignoreMode(); {
	case b.mysql():
		if ignore {
			// Rendered as INSERT IGNORE in the statement head.
			return
		}
		b.WriteString(" ON DUPLICATE KEY UPDATE ")
		i.writeAssigns(b)
	default: // Postgres and SQLite.
		b.WriteString(" ON CONFLICT")
		if len(i.conflict.columns) > 0 {
			b.Pad().Wrap(func(b *Builder) {
				b.IdentComma(i.conflict.columns...)
			})
		}
		if ignore {
			b.WriteString(" DO NOTHING")
			return
		}
		if len(i.conflict.columns) == 0 {
			b.AddError(&UnsupportedFeatureError{Dialect: b.dialect, Feature: "update on conflict without conflict target"})
		}
		b.WriteString(" DO UPDATE SET ")
		i.writeAssigns(b)
	}
}

func (i *InsertBuilder) writeAssigns(b *Builder) {
	u := &UpdateSet{columns: i.columns, conflict: i.conflict}
	for _, fn := range i.conflict.update {
		fn(u)
	}
	if len(u.assigns) == 0 {
		b.AddError(errors.New("sql: update on conflict with no assignments"))
		return
	}
	for j, assign := range u.assigns {
		if j > 0 {
			b.Comma()
		}
		assign(b)
	}
}

// UpdateBuilder builds an UPDATE statement. Joined updates are a MySQL
// feature; other dialects report a named unsupported-feature error.
type UpdateBuilder struct {
	Builder
	table   string
	columns []string
	values  []any
	joins   []joinClause
	where   *Predicate
}

// Update returns a new update builder for the given table.
func Update(table string) *UpdateBuilder {
	b := &UpdateBuilder{table: table}
	if table == "" {
		b.AddError(errors.New("sql: update with empty table name"))
	}
	return b
}

// Set assigns a value to a column. Assignments render in declaration order.
func (u *UpdateBuilder) Set(column string, v any) *UpdateBuilder {
	u.columns = append(u.columns, column)
	u.values = append(u.values, v)
	return u
}

// Where ANDs the given predicate into the condition tree.
func (u *UpdateBuilder) Where(p *Predicate) *UpdateBuilder {
	if u.where == nil {
		u.where = p
	} else {
		u.where = And(u.where, p)
	}
	return u
}

// Join appends an INNER JOIN on the given table.
func (u *UpdateBuilder) Join(t *SelectTable) *UpdateBuilder {
	t.SetDialect(u.dialect)
	u.joins = append(u.joins, joinClause{kind: joinInner, table: t})
	return u
}

// LeftJoin appends a LEFT JOIN on the given table.
func (u *UpdateBuilder) LeftJoin(t *SelectTable) *UpdateBuilder {
	t.SetDialect(u.dialect)
	u.joins = append(u.joins, joinClause{kind: joinLeft, table: t})
	return u
}

// On sets the join condition of the last join to col1 = col2.
func (u *UpdateBuilder) On(col1, col2 string) *UpdateBuilder {
	return u.OnP(ColumnsEQ(col1, col2))
}

// OnP sets (or ANDs) the join condition of the last join.
func (u *UpdateBuilder) OnP(p *Predicate) *UpdateBuilder {
	if len(u.joins) == 0 {
		u.AddError(errors.New("sql: ON without a join"))
		return u
	}
	j := &u.joins[len(u.joins)-1]
	if j.on == nil {
		j.on = p
	} else {
		j.on = And(j.on, p)
	}
	return u
}

// Query implements the Querier interface.
func (u *UpdateBuilder) Query() (string, []any) {
	b := u.fork()
	b.WriteString("UPDATE ")
	b.Ident(u.table)
	if len(u.joins) > 0 && !b.mysql() {
		b.AddError(&UnsupportedFeatureError{Dialect: b.dialect, Feature: "update with join"})
	}
	for _, j := range u.joins {
		b.Pad().WriteString(string(j.kind)).Pad()
		if t, ok := j.table.(*SelectTable); ok {
			t.SetDialect(b.dialect)
			t.ref(b)
		}
		if j.on != nil {
			b.WriteString(" ON ")
			b.Join(j.on)
		}
	}
	b.WriteString(" SET ")
	if len(u.columns) == 0 {
		b.AddError(errors.New("sql: update without assignments"))
	}
	for i, col := range u.columns {
		if i > 0 {
			b.Comma()
		}
		b.Ident(col).WriteOp(OpEQ).Arg(u.values[i])
	}
	if u.where != nil {
		b.WriteString(" WHERE ")
		b.Join(u.where)
	}
	u.rerrs = b.errs
	return b.String(), b.args
}

// DeleteBuilder builds a DELETE statement.
type DeleteBuilder struct {
	Builder
	table string
	where *Predicate
}

// Delete returns a new delete builder for the given table.
func Delete(table string) *DeleteBuilder {
	b := &DeleteBuilder{table: table}
	if table == "" {
		b.AddError(errors.New("sql: delete with empty table name"))
	}
	return b
}

// Where ANDs the given predicate into the condition tree.
func (d *DeleteBuilder) Where(p *Predicate) *DeleteBuilder {
	if d.where == nil {
		d.where = p
	} else {
		d.where = And(d.where, p)
	}
	return d
}

// Query implements the Querier interface.
func (d *DeleteBuilder) Query() (string, []any) {
	b := d.fork()
	b.WriteString("DELETE FROM ")
	b.Ident(d.table)
	if d.where != nil {
		b.WriteString(" WHERE ")
		b.Join(d.where)
	}
	d.rerrs = b.errs
	return b.String(), b.args
}

// DialectBuilder prefixes all root builders with the given dialect.
type DialectBuilder struct {
	dialect string
}

// Dialect creates a new DialectBuilder for the given dialect name.
func Dialect(name string) *DialectBuilder {
	return &DialectBuilder{dialect: name}
}

// Select creates a dialect-aware Selector.
func (d *DialectBuilder) Select(columns ...string) *Selector {
	s := Select(columns...)
	s.SetDialect(d.dialect)
	return s
}

// Table creates a dialect-aware table reference.
func (d *DialectBuilder) Table(name string) *SelectTable {
	t := Table(name)
	t.SetDialect(d.dialect)
	return t
}

// Insert creates a dialect-aware InsertBuilder.
func (d *DialectBuilder) Insert(table string) *InsertBuilder {
	i := Insert(table)
	i.SetDialect(d.dialect)
	return i
}

// Update creates a dialect-aware UpdateBuilder.
func (d *DialectBuilder) Update(table string) *UpdateBuilder {
	u := Update(table)
	u.SetDialect(d.dialect)
	return u
}

// Delete creates a dialect-aware DeleteBuilder.
func (d *DialectBuilder) Delete(table string) *DeleteBuilder {
	del := Delete(table)
	del.SetDialect(d.dialect)
	return del
}
