// Package artifact provides typed feature maps for measured artifacts.
//
// Upstream feature extraction produces schemaless documents (JSON/YAML maps
// of measurement name to number or boolean). This package bridges between
// that bag and the typed values the classification engine consumes. A key
// that is absent is explicitly missing: there is no default substitution
// that could mask a measurement gap.
package artifact

import (
	"sort"
	"strconv"
)

// Kind discriminates the value variants a feature can hold.
type Kind uint8

const (
	// KindInvalid is the zero Kind, held by no valid feature value.
	KindInvalid Kind = iota
	// KindNumber is a continuous measurement.
	KindNumber
	// KindBool is a presence/absence observation.
	KindBool
)

// Value is a tagged union of the measurement types the engine understands.
// The zero Value is invalid and never stored in a Features map.
type Value struct {
	kind Kind
	num  float64
	b    bool
}

// Number constructs a numeric feature value.
func Number(v float64) Value {
	return Value{kind: KindNumber, num: v}
}

// Bool constructs a boolean feature value.
func Bool(v bool) Value {
	return Value{kind: KindBool, b: v}
}

// Kind reports which variant the value holds.
func (v Value) Kind() Kind {
	return v.kind
}

// Number returns the numeric payload. The second result is false when the
// value does not hold a number.
func (v Value) Number() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Bool returns the boolean payload. The second result is false when the
// value does not hold a boolean.
func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// String renders the value for diagnostics and CLI display.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return "<invalid>"
	}
}

// Features maps measurement names to typed values.
type Features map[string]Value

// Number looks up a numeric feature. Missing keys and boolean-typed keys
// both report false.
func (f Features) Number(key string) (float64, bool) {
	v, ok := f[key]
	if !ok {
		return 0, false
	}
	return v.Number()
}

// Bool looks up a boolean feature. Missing keys and numeric-typed keys
// both report false.
func (f Features) Bool(key string) (bool, bool) {
	v, ok := f[key]
	if !ok {
		return false, false
	}
	return v.Bool()
}

// Has reports whether the key is present at all, regardless of kind.
func (f Features) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// NumericKeys returns the sorted names of all numeric features.
func (f Features) NumericKeys() []string {
	keys := make([]string, 0, len(f))
	for k, v := range f {
		if v.kind == KindNumber {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// BoolKeys returns the sorted names of all boolean features.
func (f Features) BoolKeys() []string {
	keys := make([]string, 0, len(f))
	for k, v := range f {
		if v.kind == KindBool {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Artifact is a measured physical object: an identifier plus its flat
// feature map.
type Artifact struct {
	ID       string   `json:"id"`
	Features Features `json:"features"`
}
