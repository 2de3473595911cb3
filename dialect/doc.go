// Package dialect provides the database backend abstraction for stratum.
//
// It defines the interfaces a storage backend must implement so that the
// query builders in dialect/sql and the graph loader in dialect/sql/sqlgraph
// stay backend-agnostic. Three dialects are supported out of the box:
//
//	dialect.Postgres = "postgres"
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//
// # Driver Interface
//
// Driver is the execute/query/transaction adapter consumed by the rest of
// the system:
//
//	type Driver interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	    Tx(ctx context.Context) (Tx, error)
//	    Close() error
//	    Dialect() string
//	}
//
// Tx extends ExecQuerier with Commit and Rollback. Both Driver and Tx
// implement ExecQuerier, so statement-issuing code can run inside or
// outside a transaction unchanged.
//
// # Usage
//
//	import (
//	    "github.com/stratumdb/stratum/dialect"
//	    "github.com/stratumdb/stratum/dialect/sql"
//	)
//
//	drv, err := sql.Open(dialect.Postgres, "postgres://...")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//
// Wrap a driver with dialect.Debug to log every outgoing statement through
// log/slog.
package dialect
