package sql

// PredicateFunc constrains the predicate types generated per entity.
// Any named func(*Selector) type satisfies it, which lets the field types
// below be declared once and instantiated per entity package.
type PredicateFunc interface {
	~func(*Selector)
}

// StringField is a typed string field bound to a column name.
//
//	var Email = sql.StringField[predicate.User]("email")
//	query.Where(user.Email.Contains("@gmail"))
type StringField[P PredicateFunc] string

// Name returns the column name.
func (f StringField[P]) Name() string { return string(f) }

// EQ returns a field = value predicate.
func (f StringField[P]) EQ(v string) P { return P(FieldEQ(string(f), v)) }

// NEQ returns a field <> value predicate.
func (f StringField[P]) NEQ(v string) P { return P(FieldNEQ(string(f), v)) }

// In returns a field IN (values...) predicate.
func (f StringField[P]) In(vs ...string) P { return P(FieldIn(string(f), vs...)) }

// NotIn returns a field NOT IN (values...) predicate.
func (f StringField[P]) NotIn(vs ...string) P { return P(FieldNotIn(string(f), vs...)) }

// GT returns a field > value predicate.
func (f StringField[P]) GT(v string) P { return P(FieldGT(string(f), v)) }

// GTE returns a field >= value predicate.
func (f StringField[P]) GTE(v string) P { return P(FieldGTE(string(f), v)) }

// LT returns a field < value predicate.
func (f StringField[P]) LT(v string) P { return P(FieldLT(string(f), v)) }

// LTE returns a field <= value predicate.
func (f StringField[P]) LTE(v string) P { return P(FieldLTE(string(f), v)) }

// Contains returns a substring-match predicate.
func (f StringField[P]) Contains(v string) P { return P(FieldContains(string(f), v)) }

// ContainsFold returns a case-insensitive substring-match predicate.
func (f StringField[P]) ContainsFold(v string) P { return P(FieldContainsFold(string(f), v)) }

// HasPrefix returns a prefix-match predicate.
func (f StringField[P]) HasPrefix(v string) P { return P(FieldHasPrefix(string(f), v)) }

// HasSuffix returns a suffix-match predicate.
func (f StringField[P]) HasSuffix(v string) P { return P(FieldHasSuffix(string(f), v)) }

// EqualFold returns a case-insensitive equality predicate.
func (f StringField[P]) EqualFold(v string) P { return P(FieldEqualFold(string(f), v)) }

// IsNull returns a field IS NULL predicate.
func (f StringField[P]) IsNull() P { return P(FieldIsNull(string(f))) }

// NotNull returns a field IS NOT NULL predicate.
func (f StringField[P]) NotNull() P { return P(FieldNotNull(string(f))) }

// NumericField is a typed numeric field bound to a column name. T covers
// the integer and float column types.
type NumericField[P PredicateFunc, T int | int64 | uint64 | float64] string

// Name returns the column name.
func (f NumericField[P, T]) Name() string { return string(f) }

// EQ returns a field = value predicate.
func (f NumericField[P, T]) EQ(v T) P { return P(FieldEQ(string(f), v)) }

// NEQ returns a field <> value predicate.
func (f NumericField[P, T]) NEQ(v T) P { return P(FieldNEQ(string(f), v)) }

// In returns a field IN (values...) predicate.
func (f NumericField[P, T]) In(vs ...T) P { return P(FieldIn(string(f), vs...)) }

// NotIn returns a field NOT IN (values...) predicate.
func (f NumericField[P, T]) NotIn(vs ...T) P { return P(FieldNotIn(string(f), vs...)) }

// GT returns a field > value predicate.
func (f NumericField[P, T]) GT(v T) P { return P(FieldGT(string(f), v)) }

// GTE returns a field >= value predicate.
func (f NumericField[P, T]) GTE(v T) P { return P(FieldGTE(string(f), v)) }

// LT returns a field < value predicate.
func (f NumericField[P, T]) LT(v T) P { return P(FieldLT(string(f), v)) }

// LTE returns a field <= value predicate.
func (f NumericField[P, T]) LTE(v T) P { return P(FieldLTE(string(f), v)) }

// IsNull returns a field IS NULL predicate.
func (f NumericField[P, T]) IsNull() P { return P(FieldIsNull(string(f))) }

// NotNull returns a field IS NOT NULL predicate.
func (f NumericField[P, T]) NotNull() P { return P(FieldNotNull(string(f))) }

// IntField is a NumericField over int.
type IntField[P PredicateFunc] = NumericField[P, int]

// Int64Field is a NumericField over int64.
type Int64Field[P PredicateFunc] = NumericField[P, int64]

// Uint64Field is a NumericField over uint64.
type Uint64Field[P PredicateFunc] = NumericField[P, uint64]

// Float64Field is a NumericField over float64.
type Float64Field[P PredicateFunc] = NumericField[P, float64]

// BoolField is a typed bool field bound to a column name.
type BoolField[P PredicateFunc] string

// Name returns the column name.
func (f BoolField[P]) Name() string { return string(f) }

// EQ returns a field = value predicate.
func (f BoolField[P]) EQ(v bool) P { return P(FieldEQ(string(f), v)) }

// NEQ returns a field <> value predicate.
func (f BoolField[P]) NEQ(v bool) P { return P(FieldNEQ(string(f), v)) }

// IsNull returns a field IS NULL predicate.
func (f BoolField[P]) IsNull() P { return P(FieldIsNull(string(f))) }

// NotNull returns a field IS NOT NULL predicate.
func (f BoolField[P]) NotNull() P { return P(FieldNotNull(string(f))) }

// OrderedField is a typed field over any ordered driver value, used for
// time, UUID and custom column types.
type OrderedField[P PredicateFunc, T any] string

// Name returns the column name.
func (f OrderedField[P, T]) Name() string { return string(f) }

// EQ returns a field = value predicate.
func (f OrderedField[P, T]) EQ(v T) P { return P(FieldEQ(string(f), v)) }

// NEQ returns a field <> value predicate.
func (f OrderedField[P, T]) NEQ(v T) P { return P(FieldNEQ(string(f), v)) }

// In returns a field IN (values...) predicate.
func (f OrderedField[P, T]) In(vs ...T) P { return P(FieldIn(string(f), vs...)) }

// NotIn returns a field NOT IN (values...) predicate.
func (f OrderedField[P, T]) NotIn(vs ...T) P { return P(FieldNotIn(string(f), vs...)) }

// GT returns a field > value predicate.
func (f OrderedField[P, T]) GT(v T) P { return P(FieldGT(string(f), v)) }

// GTE returns a field >= value predicate.
func (f OrderedField[P, T]) GTE(v T) P { return P(FieldGTE(string(f), v)) }

// LT returns a field < value predicate.
func (f OrderedField[P, T]) LT(v T) P { return P(FieldLT(string(f), v)) }

// LTE returns a field <= value predicate.
func (f OrderedField[P, T]) LTE(v T) P { return P(FieldLTE(string(f), v)) }

// IsNull returns a field IS NULL predicate.
func (f OrderedField[P, T]) IsNull() P { return P(FieldIsNull(string(f))) }

// NotNull returns a field IS NOT NULL predicate.
func (f OrderedField[P, T]) NotNull() P { return P(FieldNotNull(string(f))) }

// TimeField is an OrderedField over a time type.
type TimeField[P PredicateFunc, T any] = OrderedField[P, T]

// UUIDField is an OrderedField over a UUID type.
type UUIDField[P PredicateFunc, T any] = OrderedField[P, T]

// EnumField is a typed enum field bound to a column name.
type EnumField[P PredicateFunc, T ~string] string

// Name returns the column name.
func (f EnumField[P, T]) Name() string { return string(f) }

// EQ returns a field = value predicate.
func (f EnumField[P, T]) EQ(v T) P { return P(FieldEQ(string(f), v)) }

// NEQ returns a field <> value predicate.
func (f EnumField[P, T]) NEQ(v T) P { return P(FieldNEQ(string(f), v)) }

// In returns a field IN (values...) predicate.
func (f EnumField[P, T]) In(vs ...T) P { return P(FieldIn(string(f), vs...)) }

// NotIn returns a field NOT IN (values...) predicate.
func (f EnumField[P, T]) NotIn(vs ...T) P { return P(FieldNotIn(string(f), vs...)) }

// IsNull returns a field IS NULL predicate.
func (f EnumField[P, T]) IsNull() P { return P(FieldIsNull(string(f))) }

// NotNull returns a field IS NOT NULL predicate.
func (f EnumField[P, T]) NotNull() P { return P(FieldNotNull(string(f))) }
