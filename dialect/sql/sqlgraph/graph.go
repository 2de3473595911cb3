// Package sqlgraph provides graph abstractions on top of dialect/sql:
// relation metadata shared by all queries of a process, a compiler from
// querylanguage predicates to SQL conditions, and a batched eager loader.
package sqlgraph

import (
	"fmt"
	"sort"

	"github.com/stratumdb/stratum/schema/field"
)

// Rel is an edge relation type.
type Rel int

// Relation types.
const (
	O2O Rel = iota // one-to-one
	O2M            // one-to-many
	M2O            // many-to-one
	M2M            // many-to-many
)

// String returns the relation name.
func (r Rel) String() string {
	s := "Unknown"
	switch r {
	case O2O:
		s = "O2O"
	case O2M:
		s = "O2M"
	case M2O:
		s = "M2O"
	case M2M:
		s = "M2M"
	}
	return s
}

// A ConstraintError represents an error from mutation that violates a
// specific constraint.
type ConstraintError struct {
	msg  string
	wrap error
}

// Error implements the error interface.
func (e ConstraintError) Error() string { return "constraint failed: " + e.msg }

// Unwrap implements the errors.Wrapper interface.
func (e ConstraintError) Unwrap() error { return e.wrap }

// An UnknownRelationError is returned when a predicate or an eager-load
// request names a relation the owning type does not declare.
type UnknownRelationError struct {
	Type     string
	Relation string
}

// Error implements the error interface.
func (e *UnknownRelationError) Error() string {
	return fmt.Sprintf("sqlgraph: unknown relation %q for type %q", e.Relation, e.Type)
}

// A FieldSpec holds the information for a column field.
type FieldSpec struct {
	Column string
	Type   field.Type
}

// NodeSpec defines the information for both read and write operations
// on a node in the graph.
type NodeSpec struct {
	Table string
	ID    *FieldSpec
}

// EdgeSpec holds the information for an edge in the graph. Columns holds
// the foreign-key column for O2O/O2M/M2O edges, and the two join-table
// key columns, from-side first, for M2M edges.
type EdgeSpec struct {
	Rel     Rel
	Inverse bool
	Table   string
	Columns []string
	// Ref names the inverse relation on the neighbor type. When set, the
	// eager loader assigns back-references on loaded neighbors.
	Ref string
}

// A Node in the graph: its table spec, queryable fields, and the edges
// registered with AddE.
type Node struct {
	NodeSpec
	Type   string
	Fields map[string]*FieldSpec
	edges  map[string]*sharedEdge
}

type sharedEdge struct {
	*EdgeSpec
	to *Node
}

// fkTable returns the table the edge's foreign key lives on for O2O and
// O2M edges: the edge table when set, the neighbor table otherwise.
func (e *sharedEdge) fkTable() string {
	if e.Table != "" {
		return e.Table
	}
	return e.to.table()
}

// table returns the node's table name, deriving it from the type name
// when the spec leaves it empty.
func (n *Node) table() string {
	if n.Table != "" {
		return n.Table
	}
	return TableName(n.Type)
}

// columns returns the node's selection columns, ID column first and the
// field columns in a stable order.
func (n *Node) columns() []string {
	cols := make([]string, 0, len(n.Fields)+1)
	if n.ID != nil {
		cols = append(cols, n.ID.Column)
	}
	fields := make([]string, 0, len(n.Fields))
	for _, f := range n.Fields {
		fields = append(fields, f.Column)
	}
	sort.Strings(fields)
	return append(cols, fields...)
}

// column resolves a logical field name to its column, covering the ID
// field as well.
func (n *Node) column(name string) (string, error) {
	if f, ok := n.Fields[name]; ok {
		if f.Column != "" {
			return f.Column, nil
		}
		return name, nil
	}
	if n.ID != nil && n.ID.Column == name {
		return name, nil
	}
	return "", fmt.Errorf("sqlgraph: unknown field %q for type %q", name, n.Type)
}

func (n *Node) edge(name string) (*sharedEdge, error) {
	if e, ok := n.edges[name]; ok {
		return e, nil
	}
	return nil, &UnknownRelationError{Type: n.Type, Relation: name}
}

// A Schema holds the node/edge graph of the generated schemas. It is
// read-only after assembly and shared by reference across queries.
type Schema struct {
	Nodes []*Node
}

// node returns the node with the given type.
func (g *Schema) node(typ string) (*Node, error) {
	for _, n := range g.Nodes {
		if n.Type == typ {
			return n, nil
		}
	}
	return nil, fmt.Errorf("sqlgraph: node %q was not found in the graph schema", typ)
}

// AddE adds an edge with the given name between the from and to node
// types. Both endpoints must already exist in the schema.
func (g *Schema) AddE(name string, spec *EdgeSpec, from, to string) error {
	fn, err := g.node(from)
	if err != nil {
		return err
	}
	tn, err := g.node(to)
	if err != nil {
		return err
	}
	if fn.edges == nil {
		fn.edges = make(map[string]*sharedEdge)
	}
	if _, ok := fn.edges[name]; ok {
		return fmt.Errorf("sqlgraph: edge %q already exists for type %q", name, from)
	}
	fn.edges[name] = &sharedEdge{EdgeSpec: spec, to: tn}
	return nil
}

// MustAddE is like AddE but panics if the edge cannot be added.
func (g *Schema) MustAddE(name string, spec *EdgeSpec, from, to string) {
	if err := g.AddE(name, spec, from, to); err != nil {
		panic(err)
	}
}
