package sorting

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/matst80/slask-grid/pkg/types"
)

// BoundDirective is a sort directive with its column resolved. Binding (and
// the configuration errors it can raise) happens in the view; by the time a
// directive reaches this package it is valid.
type BoundDirective struct {
	Column *types.Column
	Desc   bool
}

// Options tunes the generic comparator.
type Options struct {
	// Locale is a BCP 47 tag for text collation; empty falls back to und.
	Locale string

	// CaseSensitive text comparison; the default folds case.
	CaseSensitive bool
}

// Comparer builds a three-way row comparator from the directive chain.
// Directives are consulted in priority order; the first non-neutral decision
// wins and later directives only break ties.
//
// A column's custom Comparer pre-empts the generic comparator, and its result
// is NOT inverted for descending directives. Custom comparers are expected to
// account for direction themselves. This asymmetry is deliberate and callers
// rely on it, so do not "fix" it here.
//
// The returned function holds a collator and is not safe for concurrent use;
// build one comparator per sort pass.
func Comparer(directives []BoundDirective, opt Options) func(a, b types.Row) int {
	collator := newCollator(opt)
	return func(a, b types.Row) int {
		for _, directive := range directives {
			valueA, _ := directive.Column.ValueFor(a)
			valueB, _ := directive.Column.ValueFor(b)

			if directive.Column.Comparer != nil {
				if result := directive.Column.Comparer(valueA, valueB); result != 0 {
					return result
				}
			}

			result := compareGeneric(valueA, valueB, directive.Column, collator)
			if directive.Desc {
				result = -result
			}
			if result != 0 {
				return result
			}
		}
		return 0
	}
}

func newCollator(opt Options) *collate.Collator {
	tag := language.Und
	if opt.Locale != "" {
		if parsed, err := language.Parse(opt.Locale); err == nil {
			tag = parsed
		}
	}
	if opt.CaseSensitive {
		return collate.New(tag)
	}
	return collate.New(tag, collate.IgnoreCase)
}

// compareGeneric orders two cell values by the column's general type. Values
// that cannot be interpreted compare neutral, so one bad cell does not poison
// the whole pass.
func compareGeneric(a, b any, col *types.Column, collator *collate.Collator) int {
	switch col.General() {
	case types.GeneralNumber:
		numA, okA := types.ToFloat64(a)
		numB, okB := types.ToFloat64(b)
		if !okA || !okB {
			return 0
		}
		switch {
		case numA < numB:
			return -1
		case numA > numB:
			return 1
		}
		return 0
	case types.GeneralDate:
		dateA, okA := types.ToDate(a, col.Type)
		dateB, okB := types.ToDate(b, col.Type)
		if !okA || !okB {
			return 0
		}
		return dateA.Compare(dateB)
	case types.GeneralBoolean:
		boolA, okA := types.ToBool(a)
		boolB, okB := types.ToBool(b)
		if !okA || !okB || boolA == boolB {
			return 0
		}
		if !boolA {
			return -1
		}
		return 1
	}
	// object columns without a custom comparer and text both order on the
	// collated string form
	return collator.CompareString(types.ValueString(a), types.ValueString(b))
}

// OrderById is the default ordering applied when sorting is cleared: row ids
// ascending, numeric ids before string ids.
func OrderById(idField string) func(a, b types.Row) int {
	return func(a, b types.Row) int {
		idA, okA := a.Id(idField)
		idB, okB := b.Id(idField)
		if !okA || !okB {
			return 0
		}
		return compareIds(idA, idB)
	}
}

func compareIds(a, b types.ID) int {
	numA, isNumA := idNumber(a)
	numB, isNumB := idNumber(b)
	switch {
	case isNumA && isNumB:
		if numA < numB {
			return -1
		}
		if numA > numB {
			return 1
		}
		return 0
	case isNumA:
		return -1
	case isNumB:
		return 1
	}
	strA, _ := a.(string)
	strB, _ := b.(string)
	switch {
	case strA < strB:
		return -1
	case strA > strB:
		return 1
	}
	return 0
}

func idNumber(id types.ID) (float64, bool) {
	switch n := id.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
