package transform

import (
	"bytes"
	"encoding/json"
)

// Groups is the result of GroupBy: buckets of records sharing a group
// key, iterated in the order each key was first seen.
type Groups[R any] struct {
	keys    []string
	buckets map[string][]R
}

func (g *Groups[R]) add(key string, r R) {
	if g.buckets == nil {
		g.buckets = map[string][]R{}
	}
	if _, ok := g.buckets[key]; !ok {
		g.keys = append(g.keys, key)
	}
	g.buckets[key] = append(g.buckets[key], r)
}

// Keys returns the group keys in first-occurrence order.
func (g *Groups[R]) Keys() []string {
	return append([]string(nil), g.keys...)
}

// Get returns the bucket for key, or nil if there is none.
func (g *Groups[R]) Get(key string) []R {
	return g.buckets[key]
}

// Len returns the number of groups.
func (g *Groups[R]) Len() int {
	return len(g.keys)
}

// Each calls f for every group in order, stopping when f returns false.
func (g *Groups[R]) Each(f func(key string, bucket []R) bool) {
	for _, k := range g.keys {
		if !f(k, g.buckets[k]) {
			return
		}
	}
}

// Flatten concatenates the buckets in group order.
func (g *Groups[R]) Flatten() []R {
	out := make([]R, 0, len(g.keys))
	for _, k := range g.keys {
		out = append(out, g.buckets[k]...)
	}
	return out
}

// MarshalJSON encodes the groups as a JSON object whose members keep the
// group order.
func (g *Groups[R]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range g.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(g.buckets[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
