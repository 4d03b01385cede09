package transform

import (
	"cmp"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"
)

// Record is a loosely typed row, such as one element of a decoded JSON array.
type Record map[string]any

// A Field reads one value out of a record of type R. ok is false when the
// record has no such field, which is distinct from holding a nil value.
type Field[R any] func(R) (value any, ok bool)

// Key returns the Field for the named entry of a Record.
func Key(name string) Field[Record] {
	return func(r Record) (any, bool) {
		v, ok := r[name]
		return v, ok
	}
}

// Func returns a Field for a typed accessor. The field is always present.
//
//	byCrop := transform.Func(func(l CropLoss) string { return l.Crop })
func Func[R, V any](get func(R) V) Field[R] {
	return func(r R) (any, bool) {
		return get(r), true
	}
}

// Stringify renders a field value as a group key: missing fields become
// "undefined", nil becomes "null", and numbers use their shortest decimal
// form, so 3.0 and 3 share the key "3".
func Stringify(v any, ok bool) string {
	if !ok {
		return "undefined"
	}
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		if f, ok := Numeric(t); ok {
			return formatNumber(f)
		}
		return t.String()
	case time.Time:
		return t.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return t.String()
	}
	if f, ok := Numeric(v); ok {
		switch n := integer(v); n.kind {
		case signed:
			return strconv.FormatInt(n.i, 10)
		case unsigned:
			return strconv.FormatUint(n.u, 10)
		}
		return formatNumber(f)
	}
	return fmt.Sprint(v)
}

const (
	notInteger = iota
	signed
	unsigned
)

type intValue struct {
	kind int
	i    int64
	u    uint64
}

// integer returns the exact value of a Go integer, which a float64 cannot
// hold beyond 2^53.
func integer(v any) intValue {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intValue{kind: signed, i: rv.Int()}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return intValue{kind: unsigned, u: rv.Uint()}
	}
	return intValue{}
}

func compareIntegers(a, b intValue) int {
	switch {
	case a.kind == signed && b.kind == signed:
		return cmp.Compare(a.i, b.i)
	case a.kind == unsigned && b.kind == unsigned:
		return cmp.Compare(a.u, b.u)
	case a.kind == signed:
		if a.i < 0 {
			return -1
		}
		return cmp.Compare(uint64(a.i), b.u)
	}
	if b.i < 0 {
		return 1
	}
	return cmp.Compare(a.u, uint64(b.i))
}

// Numeric converts any Go integer or floating-point value, or a
// json.Number, to a float64. ok is false for every other type.
func Numeric(v any) (f float64, ok bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case uintptr:
		return float64(t), true
	case float32:
		return float64(t), true
	case float64:
		return t, true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	}
	return 0, false
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	case math.Abs(f) >= 1e21:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
