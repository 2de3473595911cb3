package sqlgraph

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/stratumdb/stratum/dialect"
	"github.com/stratumdb/stratum/dialect/sql"
)

// Load is a nested eager-load request: a mapping from relation name to a
// further request. A nil sub-request is a leaf.
type Load map[string]Load

// NewLoad returns a request loading the given relations with no nesting.
func NewLoad(names ...string) Load {
	l := make(Load, len(names))
	for _, name := range names {
		l[name] = nil
	}
	return l
}

// Add composes a relation into the request. Adding a relation that is
// already requested merges the nested sub-requests instead of duplicating
// the relation load.
func (l Load) Add(name string, sub Load) Load {
	if cur, ok := l[name]; ok {
		l[name] = cur.union(sub)
		return l
	}
	l[name] = sub
	return l
}

func (l Load) union(other Load) Load {
	if l == nil {
		return other
	}
	for name, sub := range other {
		l.Add(name, sub)
	}
	return l
}

// Entity is the materialization contract consumed by the loader: access to
// column values for key collection, and mutable relation slots to assign
// loaded neighbors into.
type Entity interface {
	// Value returns the entity's value for the given column.
	Value(column string) (any, error)
	// InitEdge marks the named relation as loaded with no neighbors: an
	// empty collection for to-many relations, explicit absence for to-one.
	InitEdge(relation string)
	// AddEdge adds a loaded neighbor to the named relation.
	AddEdge(relation string, neighbor Entity)
}

// A Materializer builds one entity of its node type from a scanned row,
// given as a column name to value mapping.
type Materializer func(row map[string]any) (Entity, error)

// A LoadError reports the relation and nesting level an eager load
// failed at. The load call is aborted as a whole; no partially populated
// graph is returned.
type LoadError struct {
	Relation string
	Depth    int
	Err      error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("sqlgraph: load relation %q at depth %d: %v", e.Relation, e.Depth, e.Err)
}

// Unwrap implements the errors.Wrapper interface.
func (e *LoadError) Unwrap() error { return e.Err }

// Loader resolves eager-load requests with batched queries: one query per
// relation per nesting level, regardless of how many entities that level
// holds. Relations of the same level are queried concurrently; levels are
// resolved sequentially since each depends on the keys of the previous one.
type Loader struct {
	Schema        *Schema
	Driver        dialect.Driver
	Materializers map[string]Materializer
}

// Load resolves the request tree against the given root entities of the
// named node type and assigns the loaded neighbors onto them.
func (l *Loader) Load(ctx context.Context, typ string, roots []Entity, req Load) error {
	node, err := l.Schema.node(typ)
	if err != nil {
		return err
	}
	return l.load(ctx, node, roots, req, 0)
}

// loaded carries one relation's query result until assignment.
type loaded struct {
	name      string
	edge      *sharedEdge
	sub       Load
	neighbors []Entity
	groups    map[any][]Entity
}

func (l *Loader) load(ctx context.Context, node *Node, owners []Entity, req Load, depth int) error {
	if len(req) == 0 || len(owners) == 0 {
		return nil
	}
	names := make([]string, 0, len(req))
	for name := range req {
		names = append(names, name)
	}
	sort.Strings(names)
	results := make([]*loaded, len(names))
	g, qctx := errgroup.WithContext(ctx)
	for i, name := range names {
		edge, err := node.edge(name)
		if err != nil {
			return &LoadError{Relation: name, Depth: depth, Err: err}
		}
		res := &loaded{name: name, edge: edge, sub: req[name]}
		results[i] = res
		g.Go(func() error {
			if err := l.query(qctx, node, owners, res); err != nil {
				return &LoadError{Relation: res.name, Depth: depth, Err: err}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	// Assignment is single-threaded and runs only after every query of
	// the level succeeded.
	for _, res := range results {
		if err := l.assign(node, owners, res); err != nil {
			return &LoadError{Relation: res.name, Depth: depth, Err: err}
		}
	}
	for _, res := range results {
		if len(res.sub) == 0 || len(res.neighbors) == 0 {
			continue
		}
		if err := l.load(ctx, res.edge.to, res.neighbors, res.sub, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// query issues the single batched query for one relation of a level and
// materializes its rows. Rows are deduplicated by neighbor ID, so an
// entity is never materialized twice within one load call.
func (l *Loader) query(ctx context.Context, node *Node, owners []Entity, res *loaded) error {
	edge, to := res.edge, res.edge.to
	mat, ok := l.Materializers[to.Type]
	if !ok {
		return fmt.Errorf("sqlgraph: no materializer for type %q", to.Type)
	}
	b := sql.Dialect(l.Driver.Dialect())
	var (
		sel    *sql.Selector
		keyCol string
	)
	switch {
	case edge.Rel == M2M:
		pk1, pk2 := edge.Columns[0], edge.Columns[1]
		if edge.Inverse {
			pk1, pk2 = pk2, pk1
		}
		keys, err := collectKeys(owners, node.ID.Column)
		if err != nil {
			return err
		}
		if len(keys) == 0 {
			return nil
		}
		joinT, t := b.Table(edge.Table), b.Table(to.table())
		cols := append(t.Columns(to.columns()...), joinT.C(pk1))
		sel = b.Select(cols...).From(joinT).
			Join(t).On(joinT.C(pk2), t.C(to.ID.Column)).
			Where(sql.In(joinT.C(pk1), keys...))
		keyCol = pk1
	case edge.Rel == O2M, edge.Rel == O2O && !edge.Inverse:
		// The foreign key lives on the neighbor table.
		fk := edge.Columns[0]
		keys, err := collectKeys(owners, node.ID.Column)
		if err != nil {
			return err
		}
		if len(keys) == 0 {
			return nil
		}
		t := b.Table(edge.fkTable())
		cols := to.columns()
		if !contains(cols, fk) {
			cols = append(cols, fk)
		}
		sel = b.Select(t.Columns(cols...)...).From(t).
			Where(sql.In(t.C(fk), keys...))
		keyCol = fk
	default: // M2O or inverse O2O, foreign key on the owning table.
		keys, err := collectKeys(owners, edge.Columns[0])
		if err != nil {
			return err
		}
		if len(keys) == 0 {
			return nil
		}
		t := b.Table(to.table())
		sel = b.Select(t.Columns(to.columns()...)...).From(t).
			Where(sql.In(t.C(to.ID.Column), keys...))
		keyCol = to.ID.Column
	}
	query, args := sel.Query()
	if err := sel.Err(); err != nil {
		return err
	}
	var rows sql.Rows
	if err := l.Driver.Query(ctx, query, args, &rows); err != nil {
		return err
	}
	defer rows.Close()
	res.groups = make(map[any][]Entity)
	seen := make(map[any]Entity)
	for rows.Next() {
		row, err := scanRow(&rows)
		if err != nil {
			return err
		}
		key := normKey(row[keyCol])
		if edge.Rel == M2M {
			delete(row, keyCol)
		}
		id := normKey(row[to.ID.Column])
		e, ok := seen[id]
		if !ok {
			if e, err = mat(row); err != nil {
				return err
			}
			seen[id] = e
			res.neighbors = append(res.neighbors, e)
		}
		res.groups[key] = append(res.groups[key], e)
	}
	return rows.Err()
}

// assign stitches one relation's loaded neighbors onto their owners.
// Owners with no matching neighbors keep an initialized, empty slot. When
// the edge declares an inverse relation, the back-reference is set on each
// neighbor as well.
func (l *Loader) assign(node *Node, owners []Entity, res *loaded) error {
	edge := res.edge
	keyCol := node.ID.Column
	if edge.Rel == M2O || edge.Rel == O2O && edge.Inverse {
		keyCol = edge.Columns[0]
	}
	for _, owner := range owners {
		owner.InitEdge(res.name)
		v, err := owner.Value(keyCol)
		if err != nil {
			return err
		}
		if v == nil {
			continue
		}
		for _, n := range res.groups[normKey(v)] {
			owner.AddEdge(res.name, n)
			if edge.Ref != "" {
				n.AddEdge(edge.Ref, owner)
			}
		}
	}
	return nil
}

// collectKeys returns the distinct non-nil values of the given column
// across the owners, preserving first-seen order.
func collectKeys(owners []Entity, column string) ([]any, error) {
	seen := make(map[any]struct{}, len(owners))
	keys := make([]any, 0, len(owners))
	for _, o := range owners {
		v, err := o.Value(column)
		if err != nil {
			return nil, err
		}
		if v == nil {
			continue
		}
		k := normKey(v)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, v)
	}
	return keys, nil
}

func scanRow(rows *sql.Rows) (map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	row := make(map[string]any, len(columns))
	for i, c := range columns {
		row[c] = values[i]
	}
	return row, nil
}

// normKey maps a key value to a canonical comparable form, so that keys
// collected from entities match keys scanned from the database regardless
// of driver-specific integer and byte representations.
func normKey(v any) any {
	switch v := v.(type) {
	case []byte:
		return string(v)
	case uuid.UUID:
		return v.String()
	case int:
		return int64(v)
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case uint:
		return normUint(uint64(v))
	case uint8:
		return int64(v)
	case uint16:
		return int64(v)
	case uint32:
		return int64(v)
	case uint64:
		return normUint(v)
	default:
		return v
	}
}

// normUint widens unsigned keys to int64 where the value fits, so that
// signed and unsigned representations of the same id compare equal. Values
// above MaxInt64 stay uint64 instead of wrapping into the negative range.
func normUint(v uint64) any {
	if v > math.MaxInt64 {
		return v
	}
	return int64(v)
}

func contains(list []string, s string) bool {
	for _, e := range list {
		if e == s {
			return true
		}
	}
	return false
}
