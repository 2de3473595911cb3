package sql

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratumdb/stratum/dialect"
)

func TestBuilder(t *testing.T) {
	tests := []struct {
		input     Querier
		wantQuery string
		wantArgs  []any
		wantErr   bool
	}{
		{
			input: Dialect(dialect.Postgres).Insert("users").
				Columns("name", "age").
				Values("ann", 30),
			wantQuery: `INSERT INTO "users" ("name", "age") VALUES ($1, $2)`,
			wantArgs:  []any{"ann", 30},
		},
		{
			input: Dialect(dialect.MySQL).Insert("users").
				Columns("name", "age").
				Values("ann", 30),
			wantQuery: "INSERT INTO `users` (`name`, `age`) VALUES (?, ?)",
			wantArgs:  []any{"ann", 30},
		},
		{
			input: Dialect(dialect.SQLite).Insert("users").
				Columns("name").
				Values("ann").
				Values("ben"),
			wantQuery: "INSERT INTO `users` (`name`) VALUES (?), (?)",
			wantArgs:  []any{"ann", "ben"},
		},
		{
			input:     Dialect(dialect.Postgres).Insert("users").Default(),
			wantQuery: `INSERT INTO "users" DEFAULT VALUES`,
		},
		{
			input:     Dialect(dialect.MySQL).Insert("users").Default(),
			wantQuery: "INSERT INTO `users` () VALUES ()",
		},
		{
			input: Dialect(dialect.Postgres).Insert("users").
				Columns("name").
				Values("ann").
				Returning("id"),
			wantQuery: `INSERT INTO "users" ("name") VALUES ($1) RETURNING "id"`,
			wantArgs:  []any{"ann"},
		},
		{
			// MySQL has no RETURNING; the clause is omitted.
			input: Dialect(dialect.MySQL).Insert("users").
				Columns("name").
				Values("ann").
				Returning("id"),
			wantQuery: "INSERT INTO `users` (`name`) VALUES (?)",
			wantArgs:  []any{"ann"},
		},
		{
			// Bulk upsert, ignore-duplicates variant.
			input: Dialect(dialect.Postgres).Insert("users").
				Columns("email").
				Values("a@a").Values("b@b").Values("c@c").
				OnConflict(ConflictColumns("email"), DoNothing()),
			wantQuery: `INSERT INTO "users" ("email") VALUES ($1), ($2), ($3) ON CONFLICT ("email") DO NOTHING`,
			wantArgs:  []any{"a@a", "b@b", "c@c"},
		},
		{
			// An OnConflict call with no resolution option is an explicit
			// request for the ignore variant.
			input: Dialect(dialect.MySQL).Insert("users").
				Columns("email").
				Values("a@a").Values("b@b").Values("c@c").
				OnConflict(),
			wantQuery: "INSERT IGNORE INTO `users` (`email`) VALUES (?), (?), (?)",
			wantArgs:  []any{"a@a", "b@b", "c@c"},
		},
		{
			input: Dialect(dialect.Postgres).Insert("users").
				Columns("id", "name").
				Values(1, "ann").
				OnConflict(ConflictColumns("id"), ResolveWithNewValues()),
			wantQuery: `INSERT INTO "users" ("id", "name") VALUES ($1, $2) ON CONFLICT ("id") DO UPDATE SET "name" = "excluded"."name"`,
			wantArgs:  []any{1, "ann"},
		},
		{
			input: Dialect(dialect.MySQL).Insert("users").
				Columns("id", "name").
				Values(1, "ann").
				OnConflict(ResolveWithNewValues()),
			wantQuery: "INSERT INTO `users` (`id`, `name`) VALUES (?, ?) ON DUPLICATE KEY UPDATE `id` = VALUES(`id`), `name` = VALUES(`name`)",
			wantArgs:  []any{1, "ann"},
		},
		{
			input: Dialect(dialect.SQLite).Insert("users").
				Columns("id", "name").
				Values(1, "ann").
				OnConflict(ConflictColumns("id"), ResolveWith(func(u *UpdateSet) {
					u.Set("name", "overridden")
				})),
			wantQuery: "INSERT INTO `users` (`id`, `name`) VALUES (?, ?) ON CONFLICT (`id`) DO UPDATE SET `name` = ?",
			wantArgs:  []any{1, "ann", "overridden"},
		},
		{
			// Update on conflict needs a conflict target outside MySQL.
			input: Dialect(dialect.Postgres).Insert("users").
				Columns("id", "name").
				Values(1, "ann").
				OnConflict(ResolveWithNewValues()),
			wantErr: true,
		},
		{
			input: Dialect(dialect.Postgres).Update("users").
				Set("name", "ben").
				Set("age", 10).
				Where(EQ("id", 1)),
			wantQuery: `UPDATE "users" SET "name" = $1, "age" = $2 WHERE "id" = $3`,
			wantArgs:  []any{"ben", 10, 1},
		},
		{
			// Joined updates are a MySQL feature.
			input: Dialect(dialect.MySQL).Update("users").
				Join(Table("pets")).
				On("users.id", "pets.owner_id").
				Set("name", "ben"),
			wantQuery: "UPDATE `users` JOIN `pets` ON `users`.`id` = `pets`.`owner_id` SET `name` = ?",
			wantArgs:  []any{"ben"},
		},
		{
			input: Dialect(dialect.Postgres).Update("users").
				Join(Table("pets")).
				On("users.id", "pets.owner_id").
				Set("name", "ben"),
			wantErr: true,
		},
		{
			input:   Dialect(dialect.Postgres).Update("users").Where(EQ("id", 1)),
			wantErr: true, // update without assignments
		},
		{
			input:     Dialect(dialect.Postgres).Delete("users").Where(EQ("id", 1)),
			wantQuery: `DELETE FROM "users" WHERE "id" = $1`,
			wantArgs:  []any{1},
		},
		{
			input:     Dialect(dialect.MySQL).Delete("users"),
			wantQuery: "DELETE FROM `users`",
		},
		{
			input:     Select().From(Table("users")),
			wantQuery: "SELECT * FROM `users`",
		},
		{
			// Chained Where calls AND without parenthesizing leaf conditions.
			input: Dialect(dialect.Postgres).Select().
				From(Table("users")).
				Where(EQ("name", "ann")).
				Where(GT("age", 18)),
			wantQuery: `SELECT * FROM "users" WHERE "name" = $1 AND "age" > $2`,
			wantArgs:  []any{"ann", 18},
		},
		{
			// A compound operand parenthesizes itself below the top level.
			input: Dialect(dialect.Postgres).Select().
				From(Table("users")).
				Where(Or(EQ("role", "admin"), EQ("role", "owner"))).
				Where(EQ("active", true)),
			wantQuery: `SELECT * FROM "users" WHERE ("role" = $1 OR "role" = $2) AND "active"`,
			wantArgs:  []any{"admin", "owner"},
		},
		{
			// A top-level Or renders without the wrapping parentheses.
			input: Dialect(dialect.Postgres).Select().
				From(Table("users")).
				Where(Or(EQ("a", 1), EQ("b", 2))),
			wantQuery: `SELECT * FROM "users" WHERE "a" = $1 OR "b" = $2`,
			wantArgs:  []any{1, 2},
		},
		{
			input: Dialect(dialect.MySQL).Select().
				From(Table("users")).
				Where(EQ("active", true)),
			wantQuery: "SELECT * FROM `users` WHERE `active` = ?",
			wantArgs:  []any{true},
		},
		{
			input: Dialect(dialect.Postgres).Select().
				From(Table("users")).
				Where(EQ("active", false)),
			wantQuery: `SELECT * FROM "users" WHERE NOT "active"`,
		},
		{
			input: Dialect(dialect.Postgres).Select().
				From(Table("users")).
				Where(Not(EQ("name", "ann"))),
			wantQuery: `SELECT * FROM "users" WHERE NOT ("name" = $1)`,
			wantArgs:  []any{"ann"},
		},
		{
			// An empty IN list matches no rows instead of rendering
			// invalid SQL.
			input: Dialect(dialect.Postgres).Select().
				From(Table("users")).
				Where(In("id")),
			wantQuery: `SELECT * FROM "users" WHERE FALSE`,
		},
		{
			input: Dialect(dialect.Postgres).Select().
				From(Table("users")).
				Where(NotIn("id")),
			wantQuery: `SELECT * FROM "users" WHERE TRUE`,
		},
		{
			// Subquery arguments continue the parent's placeholder numbering.
			input: Dialect(dialect.Postgres).Select().
				From(Table("users")).
				Where(EQ("active", true)).
				Where(In("id", Select("owner_id").From(Table("pets")).Where(EQ("name", "luna")))),
			wantQuery: `SELECT * FROM "users" WHERE "active" AND "id" IN (SELECT "owner_id" FROM "pets" WHERE "name" = $1)`,
			wantArgs:  []any{"luna"},
		},
		{
			input: Dialect(dialect.Postgres).Select().
				From(Table("users")).
				Where(Exists(Select().From(Table("pets")).Where(ColumnsEQ("users.id", "pets.owner_id")))),
			wantQuery: `SELECT * FROM "users" WHERE EXISTS (SELECT * FROM "pets" WHERE "users"."id" = "pets"."owner_id")`,
		},
		{
			input: Dialect(dialect.Postgres).Select().
				From(Table("users")).
				Where(Contains("name", "an")),
			wantQuery: `SELECT * FROM "users" WHERE "name" LIKE $1`,
			wantArgs:  []any{"%an%"},
		},
		{
			input: Dialect(dialect.Postgres).Select().
				From(Table("users")).
				Where(HasPrefix("name", "a")),
			wantQuery: `SELECT * FROM "users" WHERE "name" LIKE $1`,
			wantArgs:  []any{"a%"},
		},
		{
			input: Dialect(dialect.Postgres).Select().
				From(Table("users")).
				Where(EqualFold("name", "Ann")),
			wantQuery: `SELECT * FROM "users" WHERE LOWER("name") = $1`,
			wantArgs:  []any{"ann"},
		},
		{
			input: Dialect(dialect.MySQL).Select().
				From(Table("users")).
				Where(ContainsFold("name", "An")),
			wantQuery: "SELECT * FROM `users` WHERE LOWER(`name`) LIKE ?",
			wantArgs:  []any{"%an%"},
		},
		{
			input: Dialect(dialect.Postgres).Select("name", Count("*")).
				From(Table("users")).
				GroupBy("name").
				Having(GT(Count("*"), 5)),
			wantQuery: `SELECT "name", COUNT(*) FROM "users" GROUP BY "name" HAVING COUNT(*) > $1`,
			wantArgs:  []any{5},
		},
		{
			input: Dialect(dialect.Postgres).Select().
				From(Table("users")).
				OrderBy(Desc("created_at"), Asc("id")).
				Limit(10).
				Offset(20),
			wantQuery: `SELECT * FROM "users" ORDER BY created_at DESC, id ASC LIMIT 10 OFFSET 20`,
		},
		{
			input: Dialect(dialect.Postgres).Select().
				From(Table("users")).
				OrderByTerm(OrderByField("age").Desc().NullsLast()),
			wantQuery: `SELECT * FROM "users" ORDER BY "age" DESC NULLS LAST`,
		},
		{
			// MySQL and SQLite emulate null placement with a CASE term.
			input: Dialect(dialect.SQLite).Select().
				From(Table("users")).
				OrderByTerm(OrderByField("age").Desc().NullsLast()),
			wantQuery: "SELECT * FROM `users` ORDER BY CASE WHEN `age` IS NULL THEN 1 ELSE 0 END, `age` DESC",
		},
		{
			input: Dialect(dialect.MySQL).Select().
				From(Table("users")).
				OrderByTerm(OrderByField("age").NullsFirst()),
			wantQuery: "SELECT * FROM `users` ORDER BY CASE WHEN `age` IS NULL THEN 0 ELSE 1 END, `age`",
		},
		{
			input: Dialect(dialect.Postgres).Select().
				From(Table("users")).
				Where(EQ("id", 1)).
				ForUpdate(),
			wantQuery: `SELECT * FROM "users" WHERE "id" = $1 FOR UPDATE`,
			wantArgs:  []any{1},
		},
		{
			// SQLite has no row-level locks.
			input: Dialect(dialect.SQLite).Select().
				From(Table("users")).
				ForUpdate(),
			wantErr: true,
		},
		{
			input:   Dialect(dialect.Postgres).Select().From(Table("users")).Limit(-1),
			wantErr: true,
		},
		{
			input:   Dialect(dialect.Postgres).Select().From(Table("users")).Offset(-10),
			wantErr: true,
		},
		{
			input: func() Querier {
				u, p := Table("users").As("u"), Table("pets").As("p")
				return Dialect(dialect.Postgres).Select(u.C("name"), p.C("name")).
					From(u).
					Join(p).
					On(u.C("id"), p.C("owner_id")).
					Where(EQ(u.C("active"), true))
			}(),
			wantQuery: `SELECT "u"."name", "p"."name" FROM "users" AS "u" JOIN "pets" AS "p" ON "u"."id" = "p"."owner_id" WHERE "u"."active"`,
		},
		{
			input: Dialect(dialect.Postgres).Select().
				From(Table("users")).
				LeftJoin(Table("pets")).
				On("users.id", "pets.owner_id"),
			wantQuery: `SELECT * FROM "users" LEFT JOIN "pets" ON "users"."id" = "pets"."owner_id"`,
		},
		{
			input: func() Querier {
				base := Select().From(Table("users")).As("t")
				return Dialect(dialect.Postgres).Select("t.id").From(base)
			}(),
			wantQuery: `SELECT "t"."id" FROM (SELECT * FROM "users") AS "t"`,
		},
		{
			input: Dialect(dialect.Postgres).Select().
				Distinct().
				From(Table("users")),
			wantQuery: `SELECT DISTINCT * FROM "users"`,
		},
		{
			input: Dialect(dialect.Postgres).Select().
				From(Table("users")).
				Where(ExprP("age > ? AND age < ?", 18, 65)),
			wantQuery: `SELECT * FROM "users" WHERE age > $1 AND age < $2`,
			wantArgs:  []any{18, 65},
		},
		{
			// Literal values never reach the statement text.
			input: Dialect(dialect.Postgres).Select().
				From(Table("users")).
				Where(EQ("name", "'; DROP TABLE users; --")),
			wantQuery: `SELECT * FROM "users" WHERE "name" = $1`,
			wantArgs:  []any{"'; DROP TABLE users; --"},
		},
	}
	for i, tt := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			query, args := tt.input.Query()
			err := tt.input.(interface{ Err() error }).Err()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantQuery, query)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

// TestPlaceholderParity builds the same statement for every dialect and
// checks that the number of rendered placeholders always matches the
// number of bind arguments.
func TestPlaceholderParity(t *testing.T) {
	for _, d := range []string{dialect.Postgres, dialect.MySQL, dialect.SQLite} {
		t.Run(d, func(t *testing.T) {
			query, args := Dialect(d).Select().
				From(Table("users")).
				Where(EQ("name", "ann")).
				Where(In("id", 1, 2, 3)).
				Where(Or(GT("age", 18), LTE("age", 65))).
				Query()
			var n int
			if d == dialect.Postgres {
				n = strings.Count(query, "$")
			} else {
				n = strings.Count(query, "?")
			}
			assert.Equal(t, len(args), n)
		})
	}
}

// TestPredicateReuse renders the same predicate twice and checks that the
// output is identical both times.
func TestPredicateReuse(t *testing.T) {
	p := And(EQ("a", 1), Or(EQ("b", 2), EQ("c", 3)))
	q1, a1 := p.Query()
	q2, a2 := p.Query()
	assert.Equal(t, q1, q2)
	assert.Equal(t, a1, a2)

	s := Dialect(dialect.Postgres).Select().From(Table("users")).Where(p)
	q1, a1 = s.Query()
	q2, a2 = s.Query()
	assert.Equal(t, q1, q2)
	assert.Equal(t, a1, a2)
}

// TestSelectorClone checks that mutating a clone leaves the source
// selector untouched.
func TestSelectorClone(t *testing.T) {
	base := Dialect(dialect.Postgres).Select().From(Table("users")).Where(EQ("a", 1))
	clone := base.Clone().Where(EQ("b", 2))

	q, args := base.Query()
	assert.Equal(t, `SELECT * FROM "users" WHERE "a" = $1`, q)
	assert.Equal(t, []any{1}, args)

	q, args = clone.Query()
	assert.Equal(t, `SELECT * FROM "users" WHERE "a" = $1 AND "b" = $2`, q)
	assert.Equal(t, []any{1, 2}, args)
}

// TestConstructionErrors checks that errors collected while assembling a
// statement survive rendering, and that re-rendering reports the same
// errors instead of accumulating or dropping them.
func TestConstructionErrors(t *testing.T) {
	t.Run("NegativeLimit", func(t *testing.T) {
		s := Dialect(dialect.Postgres).Select().From(Table("users")).Limit(-1)
		require.EqualError(t, s.Err(), "sql: negative limit -1")
		s.Query()
		require.EqualError(t, s.Err(), "sql: negative limit -1")
		s.Query()
		require.EqualError(t, s.Err(), "sql: negative limit -1")
	})
	t.Run("NegativeOffset", func(t *testing.T) {
		s := Dialect(dialect.Postgres).Select().From(Table("users")).Offset(-10)
		s.Query()
		require.EqualError(t, s.Err(), "sql: negative offset -10")
	})
	t.Run("EmptyTable", func(t *testing.T) {
		i := Dialect(dialect.Postgres).Insert("").Columns("name").Values("ann")
		require.Error(t, i.Err())
		i.Query()
		require.EqualError(t, i.Err(), "sql: insert with empty table name")
	})
	t.Run("OnWithoutJoin", func(t *testing.T) {
		s := Dialect(dialect.Postgres).Select().From(Table("users")).On("a", "b")
		s.Query()
		require.Error(t, s.Err())
		err := s.Err()
		s.Query()
		require.EqualError(t, s.Err(), err.Error())
	})
	t.Run("RenderErrorIdempotent", func(t *testing.T) {
		// Row locking is rejected at render time on SQLite. The error must
		// appear on the first render and stay stable across re-renders.
		s := Dialect(dialect.SQLite).Select().From(Table("users")).ForUpdate()
		require.NoError(t, s.Err())
		s.Query()
		err := s.Err()
		require.Error(t, err)
		s.Query()
		require.EqualError(t, s.Err(), err.Error())
	})
	t.Run("ConstructionAndRender", func(t *testing.T) {
		// Both kinds of errors are reported together.
		s := Dialect(dialect.SQLite).Select().From(Table("users")).Limit(-5).ForUpdate()
		s.Query()
		err := s.Err()
		require.ErrorContains(t, err, "sql: negative limit -5")
		require.ErrorContains(t, err, "row-level locking")
	})
}

// TestPredicateComposition checks that composing predicates with And/Or
// leaves the operands untouched: a predicate renders the same standalone
// before and after being used inside a larger composition.
func TestPredicateComposition(t *testing.T) {
	p := Or(EQ("a", 1), EQ("b", 2))
	p.SetDialect(dialect.Postgres)
	q1, a1 := p.Query()
	assert.Equal(t, `"a" = $1 OR "b" = $2`, q1)
	assert.Equal(t, []any{1, 2}, a1)

	s := Dialect(dialect.Postgres).Select().From(Table("users")).Where(And(p, EQ("c", 3)))
	q, args := s.Query()
	assert.Equal(t, `SELECT * FROM "users" WHERE ("a" = $1 OR "b" = $2) AND "c" = $3`, q)
	assert.Equal(t, []any{1, 2, 3}, args)

	q2, a2 := p.Query()
	assert.Equal(t, q1, q2)
	assert.Equal(t, a1, a2)
}
