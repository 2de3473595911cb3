package sqlgraph

import (
	"fmt"
	"strconv"

	"github.com/stratumdb/stratum/dialect/sql"
	"github.com/stratumdb/stratum/querylanguage"
)

// A WrappedFunc wraps a raw selector mutation as a querylanguage predicate
// so it can be combined with expression-tree predicates.
type WrappedFunc struct {
	querylanguage.P
	Func func(*sql.Selector)
}

// WrapFunc returns a predicate from the given selector mutator.
func WrapFunc(fn func(*sql.Selector)) *WrappedFunc {
	return &WrappedFunc{Func: fn}
}

// EvalP compiles the given predicate onto the selector, resolving field
// and edge names against the node with the given type. Literal values are
// always bound as parameters, never rendered into the statement text.
func (g *Schema) EvalP(nodeType string, p querylanguage.P, selector *sql.Selector) error {
	node, err := g.node(nodeType)
	if err != nil {
		return err
	}
	var aliases int
	ev := &evaluator{graph: g, node: node, sel: selector, aliases: &aliases}
	pred, err := ev.eval(p)
	if err != nil {
		return err
	}
	selector.Where(pred)
	return nil
}

// evaluator compiles expressions in the scope of one node and the selector
// its columns are qualified by. Edge traversal forks a new evaluator for
// the neighbor scope; the alias counter is shared across the whole walk.
type evaluator struct {
	graph   *Schema
	node    *Node
	sel     *sql.Selector
	aliases *int
}

func (e *evaluator) eval(expr querylanguage.Expr) (*sql.Predicate, error) {
	switch expr := expr.(type) {
	case *querylanguage.BinaryExpr:
		return e.evalBinary(expr)
	case *querylanguage.NaryExpr:
		ps := make([]*sql.Predicate, 0, len(expr.Xs))
		for _, x := range expr.Xs {
			p, err := e.eval(x)
			if err != nil {
				return nil, err
			}
			ps = append(ps, p)
		}
		if expr.Op == querylanguage.OpOr {
			return sql.Or(ps...), nil
		}
		return sql.And(ps...), nil
	case *querylanguage.UnaryExpr:
		p, err := e.eval(expr.X)
		if err != nil {
			return nil, err
		}
		return sql.Not(p), nil
	case *querylanguage.CallExpr:
		return e.evalCall(expr)
	default:
		return nil, fmt.Errorf("sqlgraph: invalid expression %T", expr)
	}
}

func (e *evaluator) evalBinary(expr *querylanguage.BinaryExpr) (*sql.Predicate, error) {
	switch expr.Op {
	case querylanguage.OpAnd, querylanguage.OpOr:
		x, err := e.eval(expr.X)
		if err != nil {
			return nil, err
		}
		y, err := e.eval(expr.Y)
		if err != nil {
			return nil, err
		}
		if expr.Op == querylanguage.OpOr {
			return sql.Or(x, y), nil
		}
		return sql.And(x, y), nil
	}
	col, err := e.field(expr.X)
	if err != nil {
		return nil, err
	}
	if f, ok := expr.Y.(*querylanguage.Field); ok {
		other, err := e.column(f.Name)
		if err != nil {
			return nil, err
		}
		return columnsPred(expr.Op, col, other)
	}
	v, ok := expr.Y.(*querylanguage.Value)
	if !ok {
		return nil, fmt.Errorf("sqlgraph: invalid operand %T for %s", expr.Y, expr.Op)
	}
	if v.V == nil {
		switch expr.Op {
		case querylanguage.OpEQ:
			return sql.IsNull(col), nil
		case querylanguage.OpNEQ:
			return sql.NotNull(col), nil
		default:
			return nil, fmt.Errorf("sqlgraph: nil operand for %s", expr.Op)
		}
	}
	switch expr.Op {
	case querylanguage.OpEQ:
		return sql.EQ(col, v.V), nil
	case querylanguage.OpNEQ:
		return sql.NEQ(col, v.V), nil
	case querylanguage.OpGT:
		return sql.GT(col, v.V), nil
	case querylanguage.OpGTE:
		return sql.GTE(col, v.V), nil
	case querylanguage.OpLT:
		return sql.LT(col, v.V), nil
	case querylanguage.OpLTE:
		return sql.LTE(col, v.V), nil
	case querylanguage.OpIn, querylanguage.OpNotIn:
		vs, ok := v.V.([]any)
		if !ok {
			return nil, fmt.Errorf("sqlgraph: invalid values %T for %s", v.V, expr.Op)
		}
		if expr.Op == querylanguage.OpIn {
			return sql.In(col, vs...), nil
		}
		return sql.NotIn(col, vs...), nil
	default:
		return nil, fmt.Errorf("sqlgraph: unsupported operator %s", expr.Op)
	}
}

func columnsPred(op querylanguage.Op, col1, col2 string) (*sql.Predicate, error) {
	switch op {
	case querylanguage.OpEQ:
		return sql.ColumnsEQ(col1, col2), nil
	case querylanguage.OpNEQ:
		return sql.ColumnsNEQ(col1, col2), nil
	case querylanguage.OpGT:
		return sql.ColumnsGT(col1, col2), nil
	case querylanguage.OpGTE:
		return sql.ColumnsGTE(col1, col2), nil
	case querylanguage.OpLT:
		return sql.ColumnsLT(col1, col2), nil
	case querylanguage.OpLTE:
		return sql.ColumnsLTE(col1, col2), nil
	default:
		return nil, fmt.Errorf("sqlgraph: unsupported column operator %s", op)
	}
}

func (e *evaluator) evalCall(expr *querylanguage.CallExpr) (*sql.Predicate, error) {
	if expr.Func == querylanguage.FuncHasEdge {
		return e.evalEdge(expr)
	}
	if len(expr.Args) != 2 {
		return nil, fmt.Errorf("sqlgraph: invalid number of arguments for %s", expr.Func)
	}
	col, err := e.field(expr.Args[0])
	if err != nil {
		return nil, err
	}
	v, ok := expr.Args[1].(*querylanguage.Value)
	if !ok {
		return nil, fmt.Errorf("sqlgraph: invalid argument %T for %s", expr.Args[1], expr.Func)
	}
	s, ok := v.V.(string)
	if !ok {
		return nil, fmt.Errorf("sqlgraph: invalid argument %T for %s", v.V, expr.Func)
	}
	switch expr.Func {
	case querylanguage.FuncContains:
		return sql.Contains(col, s), nil
	case querylanguage.FuncContainsFold:
		return sql.ContainsFold(col, s), nil
	case querylanguage.FuncEqualFold:
		return sql.EqualFold(col, s), nil
	case querylanguage.FuncHasPrefix:
		return sql.HasPrefix(col, s), nil
	case querylanguage.FuncHasSuffix:
		return sql.HasSuffix(col, s), nil
	default:
		return nil, fmt.Errorf("sqlgraph: unsupported function %s", expr.Func)
	}
}

func (e *evaluator) evalEdge(expr *querylanguage.CallExpr) (*sql.Predicate, error) {
	if len(expr.Args) == 0 {
		return nil, fmt.Errorf("sqlgraph: missing edge name for %s", expr.Func)
	}
	name, ok := expr.Args[0].(*querylanguage.Edge)
	if !ok {
		return nil, fmt.Errorf("sqlgraph: expect edge name as the first argument for %s", expr.Func)
	}
	edge, err := e.node.edge(name.Name)
	if err != nil {
		return nil, err
	}
	var (
		preds []querylanguage.P
		fns   []func(*sql.Selector)
	)
	for _, arg := range expr.Args[1:] {
		switch arg := arg.(type) {
		case *WrappedFunc:
			fns = append(fns, arg.Func)
		case querylanguage.P:
			preds = append(preds, arg)
		default:
			return nil, fmt.Errorf("sqlgraph: invalid edge argument %T", arg)
		}
	}
	b := sql.Dialect(e.sel.Dialect())
	switch {
	case edge.Rel == M2M:
		pk1, pk2 := edge.Columns[0], edge.Columns[1]
		if edge.Inverse {
			pk1, pk2 = pk2, pk1
		}
		joinT := b.Table(edge.Table)
		sub := b.Select(joinT.C(pk1)).From(joinT)
		if len(preds) > 0 || len(fns) > 0 {
			*e.aliases++
			to := b.Table(edge.to.table()).As("t" + strconv.Itoa(*e.aliases))
			sub.Join(to).On(joinT.C(pk2), to.C(edge.to.ID.Column))
			matches := b.Select().From(to)
			ps, err := e.neighbor(edge.to, matches, preds, fns)
			if err != nil {
				return nil, err
			}
			sub.Where(sql.And(ps...))
		}
		return sql.In(e.sel.C(e.node.ID.Column), sub), nil
	case edge.Rel == O2M, edge.Rel == O2O && !edge.Inverse:
		// The foreign key lives on the neighbor table.
		to := b.Table(edge.fkTable())
		sub := b.Select(to.C(edge.Columns[0])).From(to)
		ps := []*sql.Predicate{
			sql.ColumnsEQ(e.sel.C(e.node.ID.Column), to.C(edge.Columns[0])),
		}
		nps, err := e.neighbor(edge.to, sub, preds, nil)
		if err != nil {
			return nil, err
		}
		sub.Where(sql.And(append(ps, nps...)...))
		for _, fn := range fns {
			fn(sub)
		}
		return sql.Exists(sub), nil
	default: // M2O or inverse O2O, foreign key on the owning table.
		col := e.sel.C(edge.Columns[0])
		if len(preds) == 0 && len(fns) == 0 {
			return sql.NotNull(col), nil
		}
		to := b.Table(edge.to.table())
		sub := b.Select(to.C(edge.to.ID.Column)).From(to)
		ps, err := e.neighbor(edge.to, sub, preds, fns)
		if err != nil {
			return nil, err
		}
		sub.Where(sql.And(ps...))
		return sql.In(col, sub), nil
	}
}

// neighbor compiles the given predicates in the scope of the neighbor node
// with columns qualified by sel, and applies raw mutators to sel.
func (e *evaluator) neighbor(to *Node, sel *sql.Selector, preds []querylanguage.P, fns []func(*sql.Selector)) ([]*sql.Predicate, error) {
	ev := &evaluator{graph: e.graph, node: to, sel: sel, aliases: e.aliases}
	ps := make([]*sql.Predicate, 0, len(preds)+1)
	for _, p := range preds {
		pred, err := ev.eval(p)
		if err != nil {
			return nil, err
		}
		ps = append(ps, pred)
	}
	for _, fn := range fns {
		fn(sel)
	}
	if len(fns) > 0 {
		if p := sel.P(); p != nil {
			ps = append(ps, p)
		}
	}
	return ps, nil
}

func (e *evaluator) field(expr querylanguage.Expr) (string, error) {
	f, ok := expr.(*querylanguage.Field)
	if !ok {
		return "", fmt.Errorf("sqlgraph: expect field expression, got %T", expr)
	}
	return e.column(f.Name)
}

func (e *evaluator) column(name string) (string, error) {
	col, err := e.node.column(name)
	if err != nil {
		return "", err
	}
	return e.sel.C(col), nil
}
