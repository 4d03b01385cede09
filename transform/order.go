package transform

import (
	"cmp"
	"fmt"
	"strings"
	"time"
)

// Direction is the order of a sort.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// ParseDirection accepts "asc", "ascending", "desc" and "descending",
// in any case; the empty string means Ascending.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return Ascending, fmt.Errorf("unknown sort direction %q", s)
}

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// type classes, in sort order
const (
	classMissing = iota
	classNil
	classBool
	classNumber
	classString
	classTime
	classOther
)

func classify(v any, ok bool) int {
	if !ok {
		return classMissing
	}
	switch v.(type) {
	case nil:
		return classNil
	case bool:
		return classBool
	case string:
		return classString
	case time.Time:
		return classTime
	}
	if _, isNum := Numeric(v); isNum {
		return classNumber
	}
	return classOther
}

// Compare orders two field values. Values of the same kind use their
// natural order; values of different kinds order by kind: missing, nil,
// bool, number, string, time.Time, then anything else (by fmt.Sprint).
// NaN sorts before every other number.
func Compare(a any, aok bool, b any, bok bool) int {
	ca, cb := classify(a, aok), classify(b, bok)
	if ca != cb {
		return cmp.Compare(ca, cb)
	}
	switch ca {
	case classBool:
		return compareBools(a.(bool), b.(bool))
	case classNumber:
		if ia, ib := integer(a), integer(b); ia.kind != notInteger && ib.kind != notInteger {
			return compareIntegers(ia, ib)
		}
		fa, _ := Numeric(a)
		fb, _ := Numeric(b)
		return cmp.Compare(fa, fb)
	case classString:
		return strings.Compare(a.(string), b.(string))
	case classTime:
		return a.(time.Time).Compare(b.(time.Time))
	case classOther:
		return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
	}
	return 0
}

func compareBools(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}
