package transform

import (
	"reflect"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// GroupBy buckets the records by the string form (see Stringify) of a
// field. Records keep their relative order within a bucket.
func GroupBy[R any](s []R, f Field[R]) *Groups[R] {
	g := &Groups[R]{}
	for _, r := range s {
		g.add(Stringify(f(r)), r)
	}
	return g
}

// SortBy returns a copy of s stably sorted by a field, as ordered by Compare.
func SortBy[R any](s []R, f Field[R], dir Direction) []R {
	type keyed struct {
		r  R
		v  any
		ok bool
	}
	ks := make([]keyed, len(s))
	for i, r := range s {
		v, ok := f(r)
		ks[i] = keyed{r, v, ok}
	}
	slices.SortStableFunc(ks, func(a, b keyed) int {
		c := Compare(a.v, a.ok, b.v, b.ok)
		if dir == Descending {
			return -c
		}
		return c
	})
	out := make([]R, len(ks))
	for i, k := range ks {
		out[i] = k.r
	}
	return out
}

// FilterBy returns the records whose field is present and strictly equal
// to value: the same dynamic type and the same value, without numeric or
// string conversion.
func FilterBy[R any](s []R, f Field[R], value any) []R {
	out := []R{}
	for _, r := range s {
		v, ok := f(r)
		if ok && strictEqual(v, value) {
			out = append(out, r)
		}
	}
	return out
}

func strictEqual(a, b any) (eq bool) {
	// comparable structs can still hold uncomparable values in interface fields
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}

// SearchBy returns the records where at least one of the fields contains
// term, ignoring case. String fields are searched directly and numeric
// fields by their decimal form; other values never match. An empty term
// matches every record.
func SearchBy[R any](s []R, fields []Field[R], term string) []R {
	if term == "" {
		return append([]R{}, s...)
	}
	fold := cases.Fold()
	normalize := func(str string) string {
		return fold.String(norm.NFC.String(str))
	}
	needle := normalize(term)
	out := []R{}
	for _, r := range s {
		for _, f := range fields {
			v, ok := f(r)
			if !ok {
				continue
			}
			var hay string
			if str, isString := v.(string); isString {
				hay = str
			} else if _, isNum := Numeric(v); isNum {
				hay = Stringify(v, true)
			} else {
				continue
			}
			if strings.Contains(normalize(hay), needle) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}
