package transform

import "math"

// Summary holds the aggregates of one numeric field over a sequence.
// Records whose field is missing or not numeric contribute 0 and are
// counted in Coerced.
type Summary struct {
	Count   int     `json:"count"`
	Sum     float64 `json:"sum"`
	Mean    float64 `json:"mean"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Coerced int     `json:"coerced"`
}

// Summarize aggregates a field in a single pass. Every aggregate of an
// empty sequence is 0.
func Summarize[R any](s []R, f Field[R]) Summary {
	var sum Summary
	for i, r := range s {
		v, ok := f(r)
		n, isNum := Numeric(v)
		if !ok || !isNum {
			n = 0
			sum.Coerced++
		}
		sum.Sum += n
		if i == 0 {
			sum.Min, sum.Max = n, n
		} else {
			sum.Min = math.Min(sum.Min, n)
			sum.Max = math.Max(sum.Max, n)
		}
	}
	sum.Count = len(s)
	if sum.Count > 0 {
		sum.Mean = sum.Sum / float64(sum.Count)
	}
	return sum
}

// SumBy adds up a field, counting missing and non-numeric values as 0.
func SumBy[R any](s []R, f Field[R]) float64 {
	return Summarize(s, f).Sum
}

// AverageBy is SumBy divided by the number of records, or 0 for none.
func AverageBy[R any](s []R, f Field[R]) float64 {
	return Summarize(s, f).Mean
}

// MaxBy returns the largest value of a field, counting missing and
// non-numeric values as 0, or 0 for no records.
func MaxBy[R any](s []R, f Field[R]) float64 {
	return Summarize(s, f).Max
}

// MinBy returns the smallest value of a field, counting missing and
// non-numeric values as 0, or 0 for no records.
func MinBy[R any](s []R, f Field[R]) float64 {
	return Summarize(s, f).Min
}
