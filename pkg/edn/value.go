// Package edn reads and writes the subset of Extensible Data Notation used by
// the smart contract registry documents: lists, vectors, maps, sets, keywords,
// symbols, strings, characters, numbers, booleans, nil and tagged literals.
//
// Maps keep insertion order so a document can be read, edited and written back
// without reshuffling its entries.
package edn

import (
	"fmt"
	"math"
)

// Keyword is an EDN keyword stored without its leading colon.
type Keyword string

func (k Keyword) String() string { return ":" + string(k) }

// Valid reports whether the keyword reads back as itself: non-empty and free
// of whitespace, commas and delimiters.
func (k Keyword) Valid() bool {
	if k == "" {
		return false
	}
	for _, c := range string(k) {
		if isDelimiter(c) {
			return false
		}
	}
	return true
}

// Symbol is a bare EDN symbol such as def or ns.
type Symbol string

func (s Symbol) String() string { return string(s) }

// Char is an EDN character literal (\a, \newline).
type Char rune

// List is a parenthesized EDN sequence.
type List []any

// Vector is a bracketed EDN sequence.
type Vector []any

// Set is an EDN set literal. Element order is kept as read.
type Set []any

// Tagged is a tagged literal such as #inst "2024-01-01".
type Tagged struct {
	Tag   Symbol
	Value any
}

// MapEntry is a single key/value pair of a Map.
type MapEntry struct {
	Key   any
	Value any
}

// Map is an insertion-ordered EDN map.
type Map struct {
	entries []MapEntry
}

// NewMap builds a map from alternating key/value arguments.
func NewMap(kv ...any) *Map {
	if len(kv)%2 != 0 {
		panic("edn: NewMap requires an even number of arguments")
	}
	m := &Map{}
	for i := 0; i < len(kv); i += 2 {
		m.Set(kv[i], kv[i+1])
	}
	return m
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Entries returns the entries in insertion order. The slice must not be modified.
func (m *Map) Entries() []MapEntry {
	if m == nil {
		return nil
	}
	return m.entries
}

func (m *Map) index(key any) int {
	if m == nil {
		return -1
	}
	for i, e := range m.entries {
		if Equal(e.Key, key) {
			return i
		}
	}
	return -1
}

// Get returns the value stored under key.
func (m *Map) Get(key any) (any, bool) {
	i := m.index(key)
	if i < 0 {
		return nil, false
	}
	return m.entries[i].Value, true
}

// Set replaces the value under key in place, or appends a new entry.
func (m *Map) Set(key, value any) {
	if i := m.index(key); i >= 0 {
		m.entries[i].Value = value
		return
	}
	m.entries = append(m.entries, MapEntry{Key: key, Value: value})
}

// Delete removes key, keeping the order of the remaining entries.
func (m *Map) Delete(key any) {
	if i := m.index(key); i >= 0 {
		m.entries = append(m.entries[:i], m.entries[i+1:]...)
	}
}

// Equal reports whether two EDN values are structurally equal. Map and set
// comparison ignores ordering; integer and float values compare numerically.
func Equal(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case int64:
		switch bv := b.(type) {
		case int64:
			return av == bv
		case float64:
			return float64(av) == bv
		}
		return false
	case float64:
		switch bv := b.(type) {
		case float64:
			return av == bv || (math.IsNaN(av) && math.IsNaN(bv))
		case int64:
			return av == float64(bv)
		}
		return false
	case *Map:
		bv, ok := b.(*Map)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for _, e := range av.Entries() {
			other, found := bv.Get(e.Key)
			if !found || !Equal(e.Value, other) {
				return false
			}
		}
		return true
	case List:
		bv, ok := b.(List)
		return ok && seqEqual(av, bv)
	case Vector:
		bv, ok := b.(Vector)
		return ok && seqEqual(av, bv)
	case Set:
		bv, ok := b.(Set)
		if !ok || len(av) != len(bv) {
			return false
		}
		for _, x := range av {
			if !contains(bv, x) {
				return false
			}
		}
		return true
	case Tagged:
		bv, ok := b.(Tagged)
		return ok && av.Tag == bv.Tag && Equal(av.Value, bv.Value)
	default:
		return isComparable(a) && isComparable(b) && a == b
	}
}

func seqEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func contains(s []any, v any) bool {
	for _, x := range s {
		if Equal(x, v) {
			return true
		}
	}
	return false
}

func isComparable(v any) bool {
	switch v.(type) {
	case bool, string, Keyword, Symbol, Char:
		return true
	}
	return false
}

// SyntaxError describes malformed input.
type SyntaxError struct {
	Line int
	Col  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("edn: %s at line %d, column %d", e.Msg, e.Line, e.Col)
}
