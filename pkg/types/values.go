package types

import (
	"strconv"
	"strings"
	"time"
)

// Scalar conversion helpers shared by the filter and sort engines. All of
// them report failure through the second return instead of erroring: a cell
// that cannot be interpreted must not break a pass over the whole dataset.

// ToFloat64 widens any numeric kind (and numeric strings) to float64.
func ToFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}

// ToBool interprets booleans, the truthy strings "true"/"1" (case folded)
// and non-zero numbers.
func ToBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		return b == "1" || strings.EqualFold(b, "true"), true
	case int:
		return b != 0, true
	case float64:
		return b != 0, true
	}
	return false, false
}

// ToDate interprets time.Time values directly and strings through the field
// type's layout chain.
func ToDate(v any, fieldType FieldType) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		return d, true
	case *time.Time:
		if d == nil {
			return time.Time{}, false
		}
		return *d, true
	case string:
		return ParseDate(strings.TrimSpace(d), fieldType)
	}
	return time.Time{}, false
}

// ValueString renders a cell value for text comparison. Unknown types render
// empty rather than leaking Go syntax into match results.
func ValueString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	case bool:
		if s {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case uint:
		return strconv.FormatUint(uint64(s), 10)
	case uint64:
		return strconv.FormatUint(s, 10)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	case time.Time:
		return s.Format(time.RFC3339)
	}
	if stringer, ok := v.(interface{ String() string }); ok {
		return stringer.String()
	}
	return ""
}
