package sql

import (
	"testing"

	"github.com/stratumdb/stratum/dialect"
)

var benchDialects = []string{dialect.SQLite, dialect.MySQL, dialect.Postgres}

func BenchmarkSelectRender(b *testing.B) {
	// Build once, render repeatedly. Rendering is the hot path when the
	// same statement is reused against a prepared cache.
	for _, d := range benchDialects {
		s := Dialect(d).Select("id", "sku", "total").
			From(Table("orders")).
			Where(And(
				EQ("state", "confirmed"),
				GT("total", 100),
				In("region", "eu", "us", "apac"),
			)).
			OrderBy("placed_at").
			Limit(50)
		b.Run(d, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				s.Query()
			}
		})
	}
}

func BenchmarkSelectBuild(b *testing.B) {
	for _, d := range benchDialects {
		b.Run(d, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				Dialect(d).Select("id", "sku", "total").
					From(Table("orders")).
					Where(EQ("state", "confirmed")).
					Query()
			}
		})
	}
}

func BenchmarkSelectJoin(b *testing.B) {
	for _, d := range benchDialects {
		b.Run(d, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				o, c := Table("orders").As("o"), Table("customers").As("c")
				Dialect(d).Select(o.C("id"), c.C("name")).
					From(o).
					Join(c).On(o.C("customer_id"), c.C("id")).
					Where(And(EQ(c.C("active"), true), NotNull(o.C("shipped_at")))).
					OrderBy(Desc(o.C("placed_at"))).
					Limit(20).
					Query()
			}
		})
	}
}

func BenchmarkSelectSubquery(b *testing.B) {
	for _, d := range benchDialects {
		b.Run(d, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				flagged := Dialect(d).Select("order_id").
					From(Table("disputes")).
					Where(EQ("state", "open"))
				Dialect(d).Select().
					From(Table("orders")).
					Where(In("id", flagged)).
					Query()
			}
		})
	}
}

func BenchmarkSelectOrderTerms(b *testing.B) {
	// Non-default null placement is emulated with CASE on MySQL/SQLite,
	// which costs an extra term per column.
	for _, d := range benchDialects {
		b.Run(d, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				Dialect(d).Select().
					From(Table("tasks")).
					OrderByTerm(
						OrderByField("due_at").NullsLast(),
						OrderByField("priority").Desc(),
					).
					Query()
			}
		})
	}
}

func BenchmarkInsert(b *testing.B) {
	for _, d := range benchDialects {
		b.Run(d, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				Dialect(d).Insert("events").
					Columns("kind", "actor", "object", "payload", "recorded_at").
					Values("order.shipped", 7, 1042, `{"carrier":"dhl"}`, "2026-08-01 12:00:00").
					Query()
			}
		})
	}
}

func BenchmarkInsertBatch(b *testing.B) {
	for _, d := range benchDialects {
		b.Run(d, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				ins := Dialect(d).Insert("metrics").Columns("name", "value", "at")
				for row := 0; row < 10; row++ {
					ins.Values("cpu", row, "2026-08-01 12:00:00")
				}
				ins.Query()
			}
		})
	}
}

func BenchmarkUpsert(b *testing.B) {
	for _, d := range benchDialects {
		b.Run(d, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				Dialect(d).Insert("counters").
					Columns("name", "value").
					Values("pageviews", 1).
					OnConflict(ConflictColumns("name"), ResolveWithNewValues()).
					Query()
			}
		})
	}
}

func BenchmarkUpdate(b *testing.B) {
	for _, d := range benchDialects {
		b.Run(d, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				Dialect(d).Update("orders").
					Set("state", "cancelled").
					Set("cancelled_at", "2026-08-01 12:00:00").
					Where(And(EQ("id", 1042), NEQ("state", "shipped"))).
					Query()
			}
		})
	}
}

func BenchmarkDelete(b *testing.B) {
	for _, d := range benchDialects {
		b.Run(d, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				Dialect(d).Delete("sessions").
					Where(And(LT("expires_at", "2026-08-01"), NotIn("kind", "service", "system"))).
					Query()
			}
		})
	}
}

func BenchmarkJSONPredicate(b *testing.B) {
	for _, d := range benchDialects {
		b.Run(d, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				Dialect(d).Select().
					From(Table("events")).
					Where(JSONValueEQ("payload", "dhl", "carrier")).
					Query()
			}
		})
	}
}

func BenchmarkPredicateCompose(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = And(
			EQ("state", "confirmed"),
			Or(GT("total", 100), EQ("vip", true)),
			In("region", "eu", "us"),
			NotNull("shipped_at"),
			HasPrefix("sku", "KB-"),
		)
	}
}

func BenchmarkPredicateRender(b *testing.B) {
	p := And(
		EQ("state", "confirmed"),
		Or(GT("total", 100), EQ("vip", true)),
		NotNull("shipped_at"),
	)
	p.SetDialect(dialect.Postgres)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		p.Query()
	}
}
