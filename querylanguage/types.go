package querylanguage

import (
	"database/sql/driver"
	"time"
)

// Fielder is a typed predicate that is bound to a field by name.
type Fielder interface {
	Field(name string) P
}

func fieldP[T any](op Op, v T) func(string) P {
	return func(name string) P {
		return &BinaryExpr{Op: op, X: F(name), Y: &Value{V: v}}
	}
}

func nilP(op Op) func(string) P {
	return func(name string) P {
		return &BinaryExpr{Op: op, X: F(name), Y: &Value{}}
	}
}

func orP[PF ~func(string) P](x, y PF, z []PF) PF {
	return func(name string) P {
		ps := evalP(name, x, y, z)
		return Or(ps[0], ps[1], ps[2:]...)
	}
}

func andP[PF ~func(string) P](x, y PF, z []PF) PF {
	return func(name string) P {
		ps := evalP(name, x, y, z)
		return And(ps[0], ps[1], ps[2:]...)
	}
}

func notP[PF ~func(string) P](x PF) PF {
	return func(name string) P {
		return Not(x(name))
	}
}

func evalP[PF ~func(string) P](name string, x, y PF, z []PF) []P {
	ps := make([]P, 0, len(z)+2)
	ps = append(ps, x(name), y(name))
	for _, p := range z {
		ps = append(ps, p(name))
	}
	return ps
}

// StringP is a predicate for string fields.
type StringP func(string) P

// Field binds the predicate to the given field name.
func (p StringP) Field(name string) P { return p(name) }

func StringEQ(v string) StringP                    { return StringP(fieldP(OpEQ, v)) }
func StringNEQ(v string) StringP                   { return StringP(fieldP(OpNEQ, v)) }
func StringLT(v string) StringP                    { return StringP(fieldP(OpLT, v)) }
func StringLTE(v string) StringP                   { return StringP(fieldP(OpLTE, v)) }
func StringGT(v string) StringP                    { return StringP(fieldP(OpGT, v)) }
func StringGTE(v string) StringP                   { return StringP(fieldP(OpGTE, v)) }
func StringNil() StringP                           { return StringP(nilP(OpEQ)) }
func StringNotNil() StringP                        { return StringP(nilP(OpNEQ)) }
func StringOr(x, y StringP, z ...StringP) StringP  { return orP(x, y, z) }
func StringAnd(x, y StringP, z ...StringP) StringP { return andP(x, y, z) }
func StringNot(x StringP) StringP                  { return notP(x) }

// BoolP is a predicate for bool fields.
type BoolP func(string) P

// Field binds the predicate to the given field name.
func (p BoolP) Field(name string) P { return p(name) }

func BoolEQ(v bool) BoolP                  { return BoolP(fieldP(OpEQ, v)) }
func BoolNEQ(v bool) BoolP                 { return BoolP(fieldP(OpNEQ, v)) }
func BoolNil() BoolP                       { return BoolP(nilP(OpEQ)) }
func BoolNotNil() BoolP                    { return BoolP(nilP(OpNEQ)) }
func BoolOr(x, y BoolP, z ...BoolP) BoolP  { return orP(x, y, z) }
func BoolAnd(x, y BoolP, z ...BoolP) BoolP { return andP(x, y, z) }
func BoolNot(x BoolP) BoolP                { return notP(x) }

// BytesP is a predicate for []byte fields. Values render base64-encoded.
type BytesP func(string) P

// Field binds the predicate to the given field name.
func (p BytesP) Field(name string) P { return p(name) }

func BytesEQ(v []byte) BytesP                  { return BytesP(fieldP(OpEQ, v)) }
func BytesNEQ(v []byte) BytesP                 { return BytesP(fieldP(OpNEQ, v)) }
func BytesNil() BytesP                         { return BytesP(nilP(OpEQ)) }
func BytesNotNil() BytesP                      { return BytesP(nilP(OpNEQ)) }
func BytesOr(x, y BytesP, z ...BytesP) BytesP  { return orP(x, y, z) }
func BytesAnd(x, y BytesP, z ...BytesP) BytesP { return andP(x, y, z) }
func BytesNot(x BytesP) BytesP                 { return notP(x) }

// TimeP is a predicate for time.Time fields. Values render in RFC 3339.
type TimeP func(string) P

// Field binds the predicate to the given field name.
func (p TimeP) Field(name string) P { return p(name) }

func TimeEQ(v time.Time) TimeP             { return TimeP(fieldP(OpEQ, v)) }
func TimeNEQ(v time.Time) TimeP            { return TimeP(fieldP(OpNEQ, v)) }
func TimeLT(v time.Time) TimeP             { return TimeP(fieldP(OpLT, v)) }
func TimeLTE(v time.Time) TimeP            { return TimeP(fieldP(OpLTE, v)) }
func TimeGT(v time.Time) TimeP             { return TimeP(fieldP(OpGT, v)) }
func TimeGTE(v time.Time) TimeP            { return TimeP(fieldP(OpGTE, v)) }
func TimeNil() TimeP                       { return TimeP(nilP(OpEQ)) }
func TimeNotNil() TimeP                    { return TimeP(nilP(OpNEQ)) }
func TimeOr(x, y TimeP, z ...TimeP) TimeP  { return orP(x, y, z) }
func TimeAnd(x, y TimeP, z ...TimeP) TimeP { return andP(x, y, z) }
func TimeNot(x TimeP) TimeP                { return notP(x) }

// IntP is a predicate for int fields.
type IntP func(string) P

// Field binds the predicate to the given field name.
func (p IntP) Field(name string) P { return p(name) }

func IntEQ(v int) IntP                 { return IntP(fieldP(OpEQ, v)) }
func IntNEQ(v int) IntP                { return IntP(fieldP(OpNEQ, v)) }
func IntLT(v int) IntP                 { return IntP(fieldP(OpLT, v)) }
func IntLTE(v int) IntP                { return IntP(fieldP(OpLTE, v)) }
func IntGT(v int) IntP                 { return IntP(fieldP(OpGT, v)) }
func IntGTE(v int) IntP                { return IntP(fieldP(OpGTE, v)) }
func IntNil() IntP                     { return IntP(nilP(OpEQ)) }
func IntNotNil() IntP                  { return IntP(nilP(OpNEQ)) }
func IntOr(x, y IntP, z ...IntP) IntP  { return orP(x, y, z) }
func IntAnd(x, y IntP, z ...IntP) IntP { return andP(x, y, z) }
func IntNot(x IntP) IntP               { return notP(x) }

// Int8P is a predicate for int8 fields.
type Int8P func(string) P

// Field binds the predicate to the given field name.
func (p Int8P) Field(name string) P { return p(name) }

func Int8EQ(v int8) Int8P                  { return Int8P(fieldP(OpEQ, v)) }
func Int8NEQ(v int8) Int8P                 { return Int8P(fieldP(OpNEQ, v)) }
func Int8LT(v int8) Int8P                  { return Int8P(fieldP(OpLT, v)) }
func Int8LTE(v int8) Int8P                 { return Int8P(fieldP(OpLTE, v)) }
func Int8GT(v int8) Int8P                  { return Int8P(fieldP(OpGT, v)) }
func Int8GTE(v int8) Int8P                 { return Int8P(fieldP(OpGTE, v)) }
func Int8Nil() Int8P                       { return Int8P(nilP(OpEQ)) }
func Int8NotNil() Int8P                    { return Int8P(nilP(OpNEQ)) }
func Int8Or(x, y Int8P, z ...Int8P) Int8P  { return orP(x, y, z) }
func Int8And(x, y Int8P, z ...Int8P) Int8P { return andP(x, y, z) }
func Int8Not(x Int8P) Int8P                { return notP(x) }

// Int16P is a predicate for int16 fields.
type Int16P func(string) P

// Field binds the predicate to the given field name.
func (p Int16P) Field(name string) P { return p(name) }

func Int16EQ(v int16) Int16P                   { return Int16P(fieldP(OpEQ, v)) }
func Int16NEQ(v int16) Int16P                  { return Int16P(fieldP(OpNEQ, v)) }
func Int16LT(v int16) Int16P                   { return Int16P(fieldP(OpLT, v)) }
func Int16LTE(v int16) Int16P                  { return Int16P(fieldP(OpLTE, v)) }
func Int16GT(v int16) Int16P                   { return Int16P(fieldP(OpGT, v)) }
func Int16GTE(v int16) Int16P                  { return Int16P(fieldP(OpGTE, v)) }
func Int16Nil() Int16P                         { return Int16P(nilP(OpEQ)) }
func Int16NotNil() Int16P                      { return Int16P(nilP(OpNEQ)) }
func Int16Or(x, y Int16P, z ...Int16P) Int16P  { return orP(x, y, z) }
func Int16And(x, y Int16P, z ...Int16P) Int16P { return andP(x, y, z) }
func Int16Not(x Int16P) Int16P                 { return notP(x) }

// Int32P is a predicate for int32 fields.
type Int32P func(string) P

// Field binds the predicate to the given field name.
func (p Int32P) Field(name string) P { return p(name) }

func Int32EQ(v int32) Int32P                   { return Int32P(fieldP(OpEQ, v)) }
func Int32NEQ(v int32) Int32P                  { return Int32P(fieldP(OpNEQ, v)) }
func Int32LT(v int32) Int32P                   { return Int32P(fieldP(OpLT, v)) }
func Int32LTE(v int32) Int32P                  { return Int32P(fieldP(OpLTE, v)) }
func Int32GT(v int32) Int32P                   { return Int32P(fieldP(OpGT, v)) }
func Int32GTE(v int32) Int32P                  { return Int32P(fieldP(OpGTE, v)) }
func Int32Nil() Int32P                         { return Int32P(nilP(OpEQ)) }
func Int32NotNil() Int32P                      { return Int32P(nilP(OpNEQ)) }
func Int32Or(x, y Int32P, z ...Int32P) Int32P  { return orP(x, y, z) }
func Int32And(x, y Int32P, z ...Int32P) Int32P { return andP(x, y, z) }
func Int32Not(x Int32P) Int32P                 { return notP(x) }

// Int64P is a predicate for int64 fields.
type Int64P func(string) P

// Field binds the predicate to the given field name.
func (p Int64P) Field(name string) P { return p(name) }

func Int64EQ(v int64) Int64P                   { return Int64P(fieldP(OpEQ, v)) }
func Int64NEQ(v int64) Int64P                  { return Int64P(fieldP(OpNEQ, v)) }
func Int64LT(v int64) Int64P                   { return Int64P(fieldP(OpLT, v)) }
func Int64LTE(v int64) Int64P                  { return Int64P(fieldP(OpLTE, v)) }
func Int64GT(v int64) Int64P                   { return Int64P(fieldP(OpGT, v)) }
func Int64GTE(v int64) Int64P                  { return Int64P(fieldP(OpGTE, v)) }
func Int64Nil() Int64P                         { return Int64P(nilP(OpEQ)) }
func Int64NotNil() Int64P                      { return Int64P(nilP(OpNEQ)) }
func Int64Or(x, y Int64P, z ...Int64P) Int64P  { return orP(x, y, z) }
func Int64And(x, y Int64P, z ...Int64P) Int64P { return andP(x, y, z) }
func Int64Not(x Int64P) Int64P                 { return notP(x) }

// UintP is a predicate for uint fields.
type UintP func(string) P

// Field binds the predicate to the given field name.
func (p UintP) Field(name string) P { return p(name) }

func UintEQ(v uint) UintP                  { return UintP(fieldP(OpEQ, v)) }
func UintNEQ(v uint) UintP                 { return UintP(fieldP(OpNEQ, v)) }
func UintLT(v uint) UintP                  { return UintP(fieldP(OpLT, v)) }
func UintLTE(v uint) UintP                 { return UintP(fieldP(OpLTE, v)) }
func UintGT(v uint) UintP                  { return UintP(fieldP(OpGT, v)) }
func UintGTE(v uint) UintP                 { return UintP(fieldP(OpGTE, v)) }
func UintNil() UintP                       { return UintP(nilP(OpEQ)) }
func UintNotNil() UintP                    { return UintP(nilP(OpNEQ)) }
func UintOr(x, y UintP, z ...UintP) UintP  { return orP(x, y, z) }
func UintAnd(x, y UintP, z ...UintP) UintP { return andP(x, y, z) }
func UintNot(x UintP) UintP                { return notP(x) }

// Uint8P is a predicate for uint8 fields.
type Uint8P func(string) P

// Field binds the predicate to the given field name.
func (p Uint8P) Field(name string) P { return p(name) }

func Uint8EQ(v uint8) Uint8P                   { return Uint8P(fieldP(OpEQ, v)) }
func Uint8NEQ(v uint8) Uint8P                  { return Uint8P(fieldP(OpNEQ, v)) }
func Uint8LT(v uint8) Uint8P                   { return Uint8P(fieldP(OpLT, v)) }
func Uint8LTE(v uint8) Uint8P                  { return Uint8P(fieldP(OpLTE, v)) }
func Uint8GT(v uint8) Uint8P                   { return Uint8P(fieldP(OpGT, v)) }
func Uint8GTE(v uint8) Uint8P                  { return Uint8P(fieldP(OpGTE, v)) }
func Uint8Nil() Uint8P                         { return Uint8P(nilP(OpEQ)) }
func Uint8NotNil() Uint8P                      { return Uint8P(nilP(OpNEQ)) }
func Uint8Or(x, y Uint8P, z ...Uint8P) Uint8P  { return orP(x, y, z) }
func Uint8And(x, y Uint8P, z ...Uint8P) Uint8P { return andP(x, y, z) }
func Uint8Not(x Uint8P) Uint8P                 { return notP(x) }

// Uint16P is a predicate for uint16 fields.
type Uint16P func(string) P

// Field binds the predicate to the given field name.
func (p Uint16P) Field(name string) P { return p(name) }

func Uint16EQ(v uint16) Uint16P                    { return Uint16P(fieldP(OpEQ, v)) }
func Uint16NEQ(v uint16) Uint16P                   { return Uint16P(fieldP(OpNEQ, v)) }
func Uint16LT(v uint16) Uint16P                    { return Uint16P(fieldP(OpLT, v)) }
func Uint16LTE(v uint16) Uint16P                   { return Uint16P(fieldP(OpLTE, v)) }
func Uint16GT(v uint16) Uint16P                    { return Uint16P(fieldP(OpGT, v)) }
func Uint16GTE(v uint16) Uint16P                   { return Uint16P(fieldP(OpGTE, v)) }
func Uint16Nil() Uint16P                           { return Uint16P(nilP(OpEQ)) }
func Uint16NotNil() Uint16P                        { return Uint16P(nilP(OpNEQ)) }
func Uint16Or(x, y Uint16P, z ...Uint16P) Uint16P  { return orP(x, y, z) }
func Uint16And(x, y Uint16P, z ...Uint16P) Uint16P { return andP(x, y, z) }
func Uint16Not(x Uint16P) Uint16P                  { return notP(x) }

// Uint32P is a predicate for uint32 fields.
type Uint32P func(string) P

// Field binds the predicate to the given field name.
func (p Uint32P) Field(name string) P { return p(name) }

func Uint32EQ(v uint32) Uint32P                    { return Uint32P(fieldP(OpEQ, v)) }
func Uint32NEQ(v uint32) Uint32P                   { return Uint32P(fieldP(OpNEQ, v)) }
func Uint32LT(v uint32) Uint32P                    { return Uint32P(fieldP(OpLT, v)) }
func Uint32LTE(v uint32) Uint32P                   { return Uint32P(fieldP(OpLTE, v)) }
func Uint32GT(v uint32) Uint32P                    { return Uint32P(fieldP(OpGT, v)) }
func Uint32GTE(v uint32) Uint32P                   { return Uint32P(fieldP(OpGTE, v)) }
func Uint32Nil() Uint32P                           { return Uint32P(nilP(OpEQ)) }
func Uint32NotNil() Uint32P                        { return Uint32P(nilP(OpNEQ)) }
func Uint32Or(x, y Uint32P, z ...Uint32P) Uint32P  { return orP(x, y, z) }
func Uint32And(x, y Uint32P, z ...Uint32P) Uint32P { return andP(x, y, z) }
func Uint32Not(x Uint32P) Uint32P                  { return notP(x) }

// Uint64P is a predicate for uint64 fields.
type Uint64P func(string) P

// Field binds the predicate to the given field name.
func (p Uint64P) Field(name string) P { return p(name) }

func Uint64EQ(v uint64) Uint64P                    { return Uint64P(fieldP(OpEQ, v)) }
func Uint64NEQ(v uint64) Uint64P                   { return Uint64P(fieldP(OpNEQ, v)) }
func Uint64LT(v uint64) Uint64P                    { return Uint64P(fieldP(OpLT, v)) }
func Uint64LTE(v uint64) Uint64P                   { return Uint64P(fieldP(OpLTE, v)) }
func Uint64GT(v uint64) Uint64P                    { return Uint64P(fieldP(OpGT, v)) }
func Uint64GTE(v uint64) Uint64P                   { return Uint64P(fieldP(OpGTE, v)) }
func Uint64Nil() Uint64P                           { return Uint64P(nilP(OpEQ)) }
func Uint64NotNil() Uint64P                        { return Uint64P(nilP(OpNEQ)) }
func Uint64Or(x, y Uint64P, z ...Uint64P) Uint64P  { return orP(x, y, z) }
func Uint64And(x, y Uint64P, z ...Uint64P) Uint64P { return andP(x, y, z) }
func Uint64Not(x Uint64P) Uint64P                  { return notP(x) }

// Float32P is a predicate for float32 fields.
type Float32P func(string) P

// Field binds the predicate to the given field name.
func (p Float32P) Field(name string) P { return p(name) }

func Float32EQ(v float32) Float32P                     { return Float32P(fieldP(OpEQ, v)) }
func Float32NEQ(v float32) Float32P                    { return Float32P(fieldP(OpNEQ, v)) }
func Float32LT(v float32) Float32P                     { return Float32P(fieldP(OpLT, v)) }
func Float32LTE(v float32) Float32P                    { return Float32P(fieldP(OpLTE, v)) }
func Float32GT(v float32) Float32P                     { return Float32P(fieldP(OpGT, v)) }
func Float32GTE(v float32) Float32P                    { return Float32P(fieldP(OpGTE, v)) }
func Float32Nil() Float32P                             { return Float32P(nilP(OpEQ)) }
func Float32NotNil() Float32P                          { return Float32P(nilP(OpNEQ)) }
func Float32Or(x, y Float32P, z ...Float32P) Float32P  { return orP(x, y, z) }
func Float32And(x, y Float32P, z ...Float32P) Float32P { return andP(x, y, z) }
func Float32Not(x Float32P) Float32P                   { return notP(x) }

// Float64P is a predicate for float64 fields.
type Float64P func(string) P

// Field binds the predicate to the given field name.
func (p Float64P) Field(name string) P { return p(name) }

func Float64EQ(v float64) Float64P                     { return Float64P(fieldP(OpEQ, v)) }
func Float64NEQ(v float64) Float64P                    { return Float64P(fieldP(OpNEQ, v)) }
func Float64LT(v float64) Float64P                     { return Float64P(fieldP(OpLT, v)) }
func Float64LTE(v float64) Float64P                    { return Float64P(fieldP(OpLTE, v)) }
func Float64GT(v float64) Float64P                     { return Float64P(fieldP(OpGT, v)) }
func Float64GTE(v float64) Float64P                    { return Float64P(fieldP(OpGTE, v)) }
func Float64Nil() Float64P                             { return Float64P(nilP(OpEQ)) }
func Float64NotNil() Float64P                          { return Float64P(nilP(OpNEQ)) }
func Float64Or(x, y Float64P, z ...Float64P) Float64P  { return orP(x, y, z) }
func Float64And(x, y Float64P, z ...Float64P) Float64P { return andP(x, y, z) }
func Float64Not(x Float64P) Float64P                   { return notP(x) }

// ValueP is a predicate for fields backed by a driver.Valuer.
type ValueP func(string) P

// Field binds the predicate to the given field name.
func (p ValueP) Field(name string) P { return p(name) }

func ValueEQ(v driver.Valuer) ValueP           { return ValueP(fieldP(OpEQ, v)) }
func ValueNEQ(v driver.Valuer) ValueP          { return ValueP(fieldP(OpNEQ, v)) }
func ValueNil() ValueP                         { return ValueP(nilP(OpEQ)) }
func ValueNotNil() ValueP                      { return ValueP(nilP(OpNEQ)) }
func ValueOr(x, y ValueP, z ...ValueP) ValueP  { return orP(x, y, z) }
func ValueAnd(x, y ValueP, z ...ValueP) ValueP { return andP(x, y, z) }
func ValueNot(x ValueP) ValueP                 { return notP(x) }

// OtherP is a predicate for fields with custom Go types.
type OtherP func(string) P

// Field binds the predicate to the given field name.
func (p OtherP) Field(name string) P { return p(name) }

func OtherEQ(v driver.Valuer) OtherP           { return OtherP(fieldP(OpEQ, v)) }
func OtherNEQ(v driver.Valuer) OtherP          { return OtherP(fieldP(OpNEQ, v)) }
func OtherNil() OtherP                         { return OtherP(nilP(OpEQ)) }
func OtherNotNil() OtherP                      { return OtherP(nilP(OpNEQ)) }
func OtherOr(x, y OtherP, z ...OtherP) OtherP  { return orP(x, y, z) }
func OtherAnd(x, y OtherP, z ...OtherP) OtherP { return andP(x, y, z) }
func OtherNot(x OtherP) OtherP                 { return notP(x) }
