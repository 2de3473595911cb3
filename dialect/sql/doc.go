// Package sql provides SQL statement building primitives on top of the
// dialect abstraction.
//
// Statements are rendered for PostgreSQL, MySQL or SQLite depending on the
// configured dialect. Literal values are always bound as parameters; only
// identifiers and keywords appear in the statement text.
//
// # Builder Types
//
// The package provides specialized builders for different statements:
//
//   - Builder: low-level statement builder with identifier quoting
//   - Selector: SELECT builder with joins, predicates, and pagination
//   - InsertBuilder: INSERT builder with RETURNING and upsert support
//   - UpdateBuilder: UPDATE builder with SET and WHERE clauses
//   - DeleteBuilder: DELETE builder with WHERE predicates
//
// # Dialect Support
//
// Rendering adapts to the dialect the builder is created with:
//
//	import "github.com/stratumdb/stratum/dialect"
//
//	// PostgreSQL, placeholders render as $1, $2, ...
//	b := sql.Dialect(dialect.Postgres)
//	b.Select("id", "name").From(b.Table("users")).Where(sql.EQ("status", "active"))
//
//	// MySQL, placeholders render as ?
//	b := sql.Dialect(dialect.MySQL)
//
// # Predicates
//
// Predicates compose with And, Or and Not, and chained Where calls are
// ANDed together:
//
//	sql.EQ("name", "john")           // "name" = ?
//	sql.GT("age", 18)                // "age" > ?
//	sql.Contains("name", "john")     // "name" LIKE '%john%'
//	sql.IsNull("deleted_at")         // "deleted_at" IS NULL
//	sql.In("status", "active", "pending")
//	sql.Or(sql.EQ("role", "admin"), sql.EQ("role", "owner"))
//
// # Joins
//
// Join operations are supported through the selector:
//
//	u, p := sql.Table("users").As("u"), sql.Table("posts").As("p")
//	sql.Select(u.C("id"), p.C("title")).
//	    From(u).
//	    Join(p).On(u.C("id"), p.C("user_id")).
//	    Where(sql.EQ(u.C("status"), "active"))
//
// # Ordering and Pagination
//
//	sql.Select("*").From(sql.Table("users")).
//	    OrderBy(sql.Desc("created_at")).
//	    Offset(20).Limit(10)
//
// # Row-Level Locking
//
// Pessimistic locking for transactions:
//
//	sql.Select("*").From(sql.Table("users")).
//	    Where(sql.EQ("id", 1)).
//	    ForUpdate()
package sql
