package sql

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratumdb/stratum/dialect"
)

// userPredicate plays the role of a generated per-entity predicate type.
type userPredicate func(*Selector)

func renderP(t *testing.T, p userPredicate) (string, []any) {
	t.Helper()
	s := Dialect(dialect.Postgres).Select().From(Table("users"))
	p(s)
	query, args := s.Query()
	require.NoError(t, s.Err())
	return query, args
}

func TestTypedFields(t *testing.T) {
	var (
		name    = StringField[userPredicate]("name")
		age     = IntField[userPredicate]("age")
		active  = BoolField[userPredicate]("active")
		created = TimeField[userPredicate, time.Time]("created_at")
		id      = UUIDField[userPredicate, uuid.UUID]("id")
	)
	assert.Equal(t, "name", name.Name())

	query, args := renderP(t, name.Contains("an"))
	assert.Equal(t, `SELECT * FROM "users" WHERE "users"."name" LIKE $1`, query)
	assert.Equal(t, []any{"%an%"}, args)

	query, args = renderP(t, name.EqualFold("Ann"))
	assert.Equal(t, `SELECT * FROM "users" WHERE LOWER("users"."name") = $1`, query)
	assert.Equal(t, []any{"ann"}, args)

	query, args = renderP(t, age.GTE(18))
	assert.Equal(t, `SELECT * FROM "users" WHERE "users"."age" >= $1`, query)
	assert.Equal(t, []any{18}, args)

	query, args = renderP(t, age.In(1, 2, 3))
	assert.Equal(t, `SELECT * FROM "users" WHERE "users"."age" IN ($1, $2, $3)`, query)
	assert.Equal(t, []any{1, 2, 3}, args)

	// Postgres renders boolean equality as the bare column.
	query, args = renderP(t, active.EQ(true))
	assert.Equal(t, `SELECT * FROM "users" WHERE "users"."active"`, query)
	assert.Empty(t, args)

	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	query, args = renderP(t, created.LT(now))
	assert.Equal(t, `SELECT * FROM "users" WHERE "users"."created_at" < $1`, query)
	assert.Equal(t, []any{now}, args)

	uid := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	query, args = renderP(t, id.EQ(uid))
	assert.Equal(t, `SELECT * FROM "users" WHERE "users"."id" = $1`, query)
	assert.Equal(t, []any{uid}, args)

	query, args = renderP(t, name.IsNull())
	assert.Equal(t, `SELECT * FROM "users" WHERE "users"."name" IS NULL`, query)
	assert.Empty(t, args)
}

func TestTypedFields_Enum(t *testing.T) {
	type role string
	roles := EnumField[userPredicate, role]("role")

	query, args := renderP(t, roles.In(role("admin"), role("owner")))
	assert.Equal(t, `SELECT * FROM "users" WHERE "users"."role" IN ($1, $2)`, query)
	assert.Equal(t, []any{role("admin"), role("owner")}, args)
}

// Typed predicates qualify their column against the selector they are
// applied to, so the same predicate works under an alias.
func TestTypedFields_Aliased(t *testing.T) {
	name := StringField[userPredicate]("name")
	s := Dialect(dialect.Postgres).Select().From(Table("users").As("u"))
	name.EQ("ann")(s)
	query, args := s.Query()
	require.NoError(t, s.Err())
	assert.Equal(t, `SELECT * FROM "users" AS "u" WHERE "u"."name" = $1`, query)
	assert.Equal(t, []any{"ann"}, args)
}
