package types

import (
	"math"
	"strings"
)

// Row is a single dataset record, keyed by field name. Rows are owned by the
// caller; the pipeline never writes to them. Tree bookkeeping lives in a side
// table keyed by the normalized row id, never on the row itself.
type Row map[string]any

// ID is a normalized row identifier produced by NormalizeID. The dynamic type
// is always one of int64, float64 or string, so values are comparable and can
// key maps.
type ID any

// NormalizeID folds the raw id value of a row into a canonical comparable
// form: every integer kind and every integral float becomes int64, remaining
// floats stay float64, strings stay strings. Anything else (nil, slices,
// maps, structs) reports false and counts as a structural anomaly upstream.
func NormalizeID(v any) (ID, bool) {
	switch n := v.(type) {
	case string:
		return n, true
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	case float32:
		return NormalizeID(float64(n))
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, false
		}
		if n == math.Trunc(n) && n >= math.MinInt64 && n <= math.MaxInt64 {
			return int64(n), true
		}
		return n, true
	}
	return nil, false
}

// Get resolves a field value, supporting dot notation for nested maps
// ("address.zip"). A literal key always wins over a nested path.
func (r Row) Get(field string) (any, bool) {
	if v, ok := r[field]; ok {
		return v, true
	}
	if !strings.Contains(field, ".") {
		return nil, false
	}
	var current any = map[string]any(r)
	for part := range strings.SplitSeq(field, ".") {
		m, ok := asMap(current)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Id returns the normalized identifier of the row under the given id field.
func (r Row) Id(idField string) (ID, bool) {
	v, ok := r.Get(idField)
	if !ok {
		return nil, false
	}
	return NormalizeID(v)
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Row:
		return m, true
	}
	return nil, false
}
