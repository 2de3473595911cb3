// Package querylanguage provides the backend-agnostic expression tree used
// across stratum. Predicates built here carry no dialect or table
// knowledge; dialect/sql/sqlgraph compiles them onto concrete statements.
package querylanguage

import (
	"encoding/json"
	"fmt"
	"strings"
)

type (
	// Expr is the expression interface implemented by all node variants.
	Expr interface {
		expr()
		fmt.Stringer
	}

	// P is an expression that represents a predicate and can be negated.
	P interface {
		Expr
		// Negate returns the negation of the predicate.
		Negate() P
	}

	// Field is a column reference by name. Its owning table is resolved
	// by the compiler against the query it is evaluated on.
	Field struct {
		Name string
	}

	// Edge is a relation reference by name.
	Edge struct {
		Name string
	}

	// Value is a literal. Literals are never interpolated into SQL text;
	// the compiler binds them as parameters.
	Value struct {
		V any
	}

	// UnaryExpr is a negation node.
	UnaryExpr struct {
		X Expr
	}

	// BinaryExpr is a comparison or a two-operand logical node.
	BinaryExpr struct {
		Op   Op
		X, Y Expr
	}

	// NaryExpr is a logical node with more than two operands.
	NaryExpr struct {
		Op Op
		Xs []Expr
	}

	// CallExpr is a function node (string matching, edge traversal).
	CallExpr struct {
		Func Func
		Args []Expr
	}
)

// Op is a predicate operator.
type Op int

// Predicate operators.
const (
	OpAnd Op = iota
	OpOr
	OpEQ
	OpNEQ
	OpGT
	OpGTE
	OpLT
	OpLTE
	OpIn
	OpNotIn
)

var ops = [...]string{
	OpAnd:   "&&",
	OpOr:    "||",
	OpEQ:    "==",
	OpNEQ:   "!=",
	OpGT:    ">",
	OpGTE:   ">=",
	OpLT:    "<",
	OpLTE:   "<=",
	OpIn:    "in",
	OpNotIn: "not in",
}

// String returns the textual representation of the operator.
func (o Op) String() string {
	if int(o) < len(ops) {
		return ops[o]
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Func is a function identifier.
type Func string

// Builtin functions.
const (
	FuncEqualFold    Func = "equal_fold"
	FuncContains     Func = "contains"
	FuncContainsFold Func = "contains_fold"
	FuncHasPrefix    Func = "has_prefix"
	FuncHasSuffix    Func = "has_suffix"
	FuncHasEdge      Func = "has_edge"
)

func (*Field) expr()      {}
func (*Edge) expr()       {}
func (*Value) expr()      {}
func (*UnaryExpr) expr()  {}
func (*BinaryExpr) expr() {}
func (*NaryExpr) expr()   {}
func (*CallExpr) expr()   {}

// F returns a field reference with the given name.
func F(name string) *Field { return &Field{Name: name} }

// String returns the field name.
func (f *Field) String() string { return f.Name }

// String returns the edge name.
func (e *Edge) String() string { return e.Name }

// String returns the literal rendered as its JSON form ("nil" for nil).
func (v *Value) String() string {
	if v.V == nil {
		return "nil"
	}
	buf, err := json.Marshal(v.V)
	if err != nil {
		return fmt.Sprint(v.V)
	}
	return string(buf)
}

// String returns !(X).
func (e *UnaryExpr) String() string {
	return "!(" + e.X.String() + ")"
}

// Negate returns the double negation of the expression.
func (e *UnaryExpr) Negate() P { return &UnaryExpr{X: e} }

// String returns X op Y.
func (e *BinaryExpr) String() string {
	return e.X.String() + " " + e.Op.String() + " " + e.Y.String()
}

// Negate negates the expression.
func (e *BinaryExpr) Negate() P { return &UnaryExpr{X: e} }

// String returns (X1 op X2 op ...).
func (e *NaryExpr) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, x := range e.Xs {
		if i > 0 {
			sb.WriteString(" " + e.Op.String() + " ")
		}
		sb.WriteString(x.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// Negate negates the expression.
func (e *NaryExpr) Negate() P { return &UnaryExpr{X: e} }

// String returns func(args...).
func (e *CallExpr) String() string {
	var sb strings.Builder
	sb.WriteString(string(e.Func))
	sb.WriteByte('(')
	for i, a := range e.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// Negate negates the expression.
func (e *CallExpr) Negate() P { return &UnaryExpr{X: e} }

// Not returns the negation of the given predicate.
func Not(x P) P { return &UnaryExpr{X: x} }

// And combines the given predicates with logical conjunction.
func And(x, y P, z ...P) P {
	if len(z) == 0 {
		return &BinaryExpr{Op: OpAnd, X: x, Y: y}
	}
	xs := make([]Expr, 0, len(z)+2)
	xs = append(xs, x, y)
	for _, e := range z {
		xs = append(xs, e)
	}
	return &NaryExpr{Op: OpAnd, Xs: xs}
}

// Or combines the given predicates with logical disjunction.
func Or(x, y P, z ...P) P {
	if len(z) == 0 {
		return &BinaryExpr{Op: OpOr, X: x, Y: y}
	}
	xs := make([]Expr, 0, len(z)+2)
	xs = append(xs, x, y)
	for _, e := range z {
		xs = append(xs, e)
	}
	return &NaryExpr{Op: OpOr, Xs: xs}
}

// EQ returns an x == y predicate.
func EQ(x, y Expr) P { return &BinaryExpr{Op: OpEQ, X: x, Y: y} }

// NEQ returns an x != y predicate.
func NEQ(x, y Expr) P { return &BinaryExpr{Op: OpNEQ, X: x, Y: y} }

// GT returns an x > y predicate.
func GT(x, y Expr) P { return &BinaryExpr{Op: OpGT, X: x, Y: y} }

// GTE returns an x >= y predicate.
func GTE(x, y Expr) P { return &BinaryExpr{Op: OpGTE, X: x, Y: y} }

// LT returns an x < y predicate.
func LT(x, y Expr) P { return &BinaryExpr{Op: OpLT, X: x, Y: y} }

// LTE returns an x <= y predicate.
func LTE(x, y Expr) P { return &BinaryExpr{Op: OpLTE, X: x, Y: y} }

// FieldEQ returns a field == value predicate.
func FieldEQ(name string, v any) P {
	return &BinaryExpr{Op: OpEQ, X: F(name), Y: &Value{V: v}}
}

// FieldNEQ returns a field != value predicate.
func FieldNEQ(name string, v any) P {
	return &BinaryExpr{Op: OpNEQ, X: F(name), Y: &Value{V: v}}
}

// FieldGT returns a field > value predicate.
func FieldGT(name string, v any) P {
	return &BinaryExpr{Op: OpGT, X: F(name), Y: &Value{V: v}}
}

// FieldGTE returns a field >= value predicate.
func FieldGTE(name string, v any) P {
	return &BinaryExpr{Op: OpGTE, X: F(name), Y: &Value{V: v}}
}

// FieldLT returns a field < value predicate.
func FieldLT(name string, v any) P {
	return &BinaryExpr{Op: OpLT, X: F(name), Y: &Value{V: v}}
}

// FieldLTE returns a field <= value predicate.
func FieldLTE(name string, v any) P {
	return &BinaryExpr{Op: OpLTE, X: F(name), Y: &Value{V: v}}
}

// FieldIn returns a field membership predicate.
func FieldIn(name string, vs ...any) P {
	return &BinaryExpr{Op: OpIn, X: F(name), Y: &Value{V: vs}}
}

// FieldNotIn returns a negated field membership predicate.
func FieldNotIn(name string, vs ...any) P {
	return &BinaryExpr{Op: OpNotIn, X: F(name), Y: &Value{V: vs}}
}

// FieldNil returns a field == nil predicate.
func FieldNil(name string) P {
	return &BinaryExpr{Op: OpEQ, X: F(name), Y: &Value{}}
}

// FieldNotNil returns a field != nil predicate.
func FieldNotNil(name string) P {
	return &BinaryExpr{Op: OpNEQ, X: F(name), Y: &Value{}}
}

// FieldContains returns a substring-match predicate.
func FieldContains(name, substr string) P {
	return &CallExpr{Func: FuncContains, Args: []Expr{F(name), &Value{V: substr}}}
}

// FieldContainsFold returns a case-insensitive substring-match predicate.
func FieldContainsFold(name, substr string) P {
	return &CallExpr{Func: FuncContainsFold, Args: []Expr{F(name), &Value{V: substr}}}
}

// FieldEqualFold returns a case-insensitive equality predicate.
func FieldEqualFold(name, v string) P {
	return &CallExpr{Func: FuncEqualFold, Args: []Expr{F(name), &Value{V: v}}}
}

// FieldHasPrefix returns a prefix-match predicate.
func FieldHasPrefix(name, prefix string) P {
	return &CallExpr{Func: FuncHasPrefix, Args: []Expr{F(name), &Value{V: prefix}}}
}

// FieldHasSuffix returns a suffix-match predicate.
func FieldHasSuffix(name, suffix string) P {
	return &CallExpr{Func: FuncHasSuffix, Args: []Expr{F(name), &Value{V: suffix}}}
}

// HasEdge returns a predicate matching entities with at least one neighbor
// over the named relation.
func HasEdge(name string) P {
	return &CallExpr{Func: FuncHasEdge, Args: []Expr{&Edge{Name: name}}}
}

// HasEdgeWith returns a predicate matching entities whose neighbors over
// the named relation satisfy all the given predicates.
func HasEdgeWith(name string, ps ...P) P {
	args := make([]Expr, 0, len(ps)+1)
	args = append(args, &Edge{Name: name})
	for _, p := range ps {
		args = append(args, p)
	}
	return &CallExpr{Func: FuncHasEdge, Args: args}
}
