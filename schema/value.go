package schema

import (
	"fmt"
	"math"
)

// ValueKind is the sealed tag attached to every parameter value at ingestion.
type ValueKind int

const (
	KindInvalid ValueKind = iota
	KindString
	KindInteger
	KindReal
	KindBool
	KindIntVector
	KindRealVector
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindBool:
		return "bool"
	case KindIntVector:
		return "integer vector"
	case KindRealVector:
		return "real vector"
	default:
		return "invalid"
	}
}

// Value is an immutable tagged parameter value. Vector payloads are copied on
// construction and on access, so a Mapping never aliases caller-owned slices.
type Value struct {
	kind ValueKind
	s    string
	i    int64
	r    float64
	b    bool
	iv   []int64
	rv   []float64
}

func String(s string) Value  { return Value{kind: KindString, s: s} }
func Int(i int64) Value      { return Value{kind: KindInteger, i: i} }
func Real(r float64) Value   { return Value{kind: KindReal, r: r} }
func Bool(b bool) Value      { return Value{kind: KindBool, b: b} }

func Ints(v ...int64) Value {
	cp := make([]int64, len(v))
	copy(cp, v)
	return Value{kind: KindIntVector, iv: cp}
}

func Reals(v ...float64) Value {
	cp := make([]float64, len(v))
	copy(cp, v)
	return Value{kind: KindRealVector, rv: cp}
}

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) Str() string     { return v.s }
func (v Value) Int() int64      { return v.i }
func (v Value) Real() float64   { return v.r }
func (v Value) Bool() bool      { return v.b }

func (v Value) IntVector() []int64 {
	cp := make([]int64, len(v.iv))
	copy(cp, v.iv)
	return cp
}

func (v Value) RealVector() []float64 {
	cp := make([]float64, len(v.rv))
	copy(cp, v.rv)
	return cp
}

// Len reports the vector length; zero for scalars.
func (v Value) Len() int {
	switch v.kind {
	case KindIntVector:
		return len(v.iv)
	case KindRealVector:
		return len(v.rv)
	default:
		return 0
	}
}

// Equal compares values by kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.s == o.s
	case KindInteger:
		return v.i == o.i
	case KindReal:
		return v.r == o.r
	case KindBool:
		return v.b == o.b
	case KindIntVector:
		if len(v.iv) != len(o.iv) {
			return false
		}
		for i := range v.iv {
			if v.iv[i] != o.iv[i] {
				return false
			}
		}
		return true
	case KindRealVector:
		if len(v.rv) != len(o.rv) {
			return false
		}
		for i := range v.rv {
			if v.rv[i] != o.rv[i] {
				return false
			}
		}
		return true
	}
	return false
}

// Tag converts an arbitrary Go value into a tagged Value. Any native numeric
// width is accepted here, once, so nothing downstream needs to care.
func Tag(raw any) (Value, error) {
	switch x := raw.(type) {
	case Value:
		return x, nil
	case string:
		return String(x), nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		if uint64(x) > math.MaxInt64 {
			return Value{}, fmt.Errorf("integer value %d overflows int64", x)
		}
		return Int(int64(x)), nil
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint64:
		if x > math.MaxInt64 {
			return Value{}, fmt.Errorf("integer value %d overflows int64", x)
		}
		return Int(int64(x)), nil
	case float32:
		return Real(float64(x)), nil
	case float64:
		return Real(x), nil
	case []int:
		iv := make([]int64, len(x))
		for i, n := range x {
			iv[i] = int64(n)
		}
		return Ints(iv...), nil
	case []int64:
		return Ints(x...), nil
	case []float32:
		rv := make([]float64, len(x))
		for i, f := range x {
			rv[i] = float64(f)
		}
		return Reals(rv...), nil
	case []float64:
		return Reals(x...), nil
	case []any:
		return tagSlice(x)
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", raw)
	}
}

// tagSlice tags a heterogeneous slice: all-integer elements become an integer
// vector, any float promotes the whole vector to real.
func tagSlice(xs []any) (Value, error) {
	iv := make([]int64, 0, len(xs))
	rv := make([]float64, 0, len(xs))
	promoted := false
	for _, x := range xs {
		v, err := Tag(x)
		if err != nil {
			return Value{}, err
		}
		switch v.Kind() {
		case KindInteger:
			iv = append(iv, v.Int())
			rv = append(rv, float64(v.Int()))
		case KindReal:
			promoted = true
			rv = append(rv, v.Real())
		default:
			return Value{}, fmt.Errorf("unsupported vector element kind %s", v.Kind())
		}
	}
	if promoted {
		return Reals(rv...), nil
	}
	return Ints(iv...), nil
}
