package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"

	"github.com/shopspring/decimal"
)

// Kind is the variant held by a Value.
type Kind int

// Value kinds.
const (
	KindInvalid Kind = iota
	KindString
	KindBool
	KindDecimal
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindDecimal:
		return "decimal"
	default:
		return "invalid"
	}
}

// Value is a configuration value: a string, a bool or a canonical decimal.
//
// Decimals are kept in canonical form: the shortest representation without
// trailing fractional zeros, so integral values have exponent 0 and two
// numerically equal inputs produce identical Values.
type Value struct {
	kind Kind
	str  string
	b    bool
	dec  decimal.Decimal
}

// StringValue returns a string Value.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// BoolValue returns a bool Value.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// Bounds on canonical decimals. Integral values are expanded to exponent 0,
// so the exponent limit also caps the number of digits written out.
const (
	maxExponent        = 1024
	maxCoefficientBits = 4096
)

// DecimalValue returns a decimal Value in canonical form. It fails with
// ErrInvalidValue when d is outside the canonical bounds.
func DecimalValue(d decimal.Decimal) (Value, error) {
	c, err := canonical(d)
	if err != nil {
		return Value{}, err
	}
	return Value{kind: KindDecimal, dec: c}, nil
}

// ValueOf converts v into a Value.
//
// Fixed-width integers become decimals with exponent 0; floats keep their
// shortest round-trip precision; json.Number and decimal.Decimal are parsed
// exactly. NaN, infinities, nil and any other type fail with
// ErrInvalidValue.
func ValueOf(v any) (Value, error) {
	switch x := v.(type) {
	case Value:
		if x.kind == KindInvalid {
			return Value{}, fmt.Errorf("%w: zero Value", ErrInvalidValue)
		}
		if x.kind == KindDecimal {
			return DecimalValue(x.dec)
		}
		return x, nil
	case string:
		return StringValue(x), nil
	case bool:
		return BoolValue(x), nil
	case int:
		return DecimalValue(decimal.NewFromInt(int64(x)))
	case int8:
		return DecimalValue(decimal.NewFromInt(int64(x)))
	case int16:
		return DecimalValue(decimal.NewFromInt(int64(x)))
	case int32:
		return DecimalValue(decimal.NewFromInt32(x))
	case int64:
		return DecimalValue(decimal.NewFromInt(x))
	case uint:
		return DecimalValue(decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(x)), 0))
	case uint8:
		return DecimalValue(decimal.NewFromInt(int64(x)))
	case uint16:
		return DecimalValue(decimal.NewFromInt(int64(x)))
	case uint32:
		return DecimalValue(decimal.NewFromInt(int64(x)))
	case uint64:
		return DecimalValue(decimal.NewFromBigInt(new(big.Int).SetUint64(x), 0))
	case float32:
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return Value{}, fmt.Errorf("%w: %v", ErrInvalidValue, x)
		}
		return DecimalValue(decimal.NewFromFloat32(x))
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return Value{}, fmt.Errorf("%w: %v", ErrInvalidValue, x)
		}
		return DecimalValue(decimal.NewFromFloat(x))
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q", ErrInvalidValue, x.String())
		}
		return DecimalValue(d)
	case decimal.Decimal:
		return DecimalValue(x)
	case *big.Int:
		if x == nil {
			return Value{}, fmt.Errorf("%w: nil *big.Int", ErrInvalidValue)
		}
		return DecimalValue(decimal.NewFromBigInt(x, 0))
	case nil:
		return Value{}, fmt.Errorf("%w: nil", ErrInvalidValue)
	default:
		return Value{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidValue, v)
	}
}

// canonical strips trailing fractional zeros from the coefficient and
// expands integral values to exponent 0. The exponent is bounded before
// any digits are written out.
func canonical(d decimal.Decimal) (decimal.Decimal, error) {
	coef := d.Coefficient()
	if coef.BitLen() > maxCoefficientBits {
		return decimal.Decimal{}, fmt.Errorf("%w: coefficient exceeds %d bits", ErrInvalidValue, maxCoefficientBits)
	}
	if coef.Sign() == 0 {
		return decimal.New(0, 0), nil
	}

	exp := int64(d.Exponent())
	ten := big.NewInt(10)
	q, r := new(big.Int), new(big.Int)
	for exp < 0 {
		q.QuoRem(coef, ten, r)
		if r.Sign() != 0 {
			break
		}
		coef, q = q, coef
		exp++
	}

	if exp > maxExponent || exp < -maxExponent {
		return decimal.Decimal{}, fmt.Errorf("%w: exponent %d out of range", ErrInvalidValue, exp)
	}
	if exp > 0 {
		coef.Mul(coef, new(big.Int).Exp(ten, big.NewInt(exp), nil))
		exp = 0
	}
	return decimal.NewFromBigInt(coef, int32(exp)), nil
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsBool returns the bool held by v.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsDecimal returns the decimal held by v.
func (v Value) AsDecimal() (decimal.Decimal, bool) { return v.dec, v.kind == KindDecimal }

// Interface returns the held value as string, bool or decimal.Decimal.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return v.b
	case KindDecimal:
		return v.dec
	default:
		return nil
	}
}

// Equal compares variants and contents; decimals compare numerically.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindBool:
		return v.b == o.b
	case KindDecimal:
		return v.dec.Equal(o.dec)
	default:
		return true
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindDecimal:
		return v.dec.String()
	default:
		return "<invalid>"
	}
}

// MarshalJSON encodes decimals as bare JSON numbers.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindBool:
		return json.Marshal(v.b)
	case KindDecimal:
		return []byte(v.dec.String()), nil
	default:
		return nil, fmt.Errorf("%w: zero Value", ErrInvalidValue)
	}
}

// UnmarshalJSON decodes a JSON string, bool or number.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}
	parsed, err := ValueOf(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
