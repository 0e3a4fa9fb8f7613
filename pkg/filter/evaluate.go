package filter

import (
	"math"
	"strings"

	"github.com/matst80/slask-grid/pkg/types"
)

// evaluator checks one cell value against coerced search terms. Evaluators
// never panic and never allocate errors; a value that cannot be interpreted
// simply does not match.
type evaluator func(op types.Operator, sv *SearchValues, cell any, col *types.Column) bool

// evaluators is indexed by general type so the category set stays closed: a
// new category fails at runtime initialization until it gets an entry here.
var evaluators = [types.GeneralTypeCount]evaluator{
	types.GeneralBoolean: evaluateBoolean,
	types.GeneralDate:    evaluateDate,
	types.GeneralNumber:  evaluateNumber,
	types.GeneralObject:  evaluateObject,
	types.GeneralText:    evaluateText,
}

// Evaluate reports whether a single cell satisfies the condition. Collection
// operators (the IN family) bypass field-type dispatch entirely and use
// set-membership semantics regardless of the column's type.
func Evaluate(op types.Operator, sv *SearchValues, cell any, col *types.Column) bool {
	if op.IsCollection() {
		return evaluateCollection(op, sv, cell, col)
	}
	return evaluators[sv.General](op, sv, cell, col)
}

func evaluateBoolean(op types.Operator, sv *SearchValues, cell any, _ *types.Column) bool {
	value, ok := types.ToBool(cell)
	if !ok {
		return false
	}
	// booleans only support equality; every other operator behaves as equal
	if op == types.OpNotEqual {
		return value != sv.Bool
	}
	return value == sv.Bool
}

func evaluateDate(op types.Operator, sv *SearchValues, cell any, col *types.Column) bool {
	if sv.Invalid || len(sv.Dates) == 0 {
		return false
	}
	value, ok := types.ToDate(cell, col.Type)
	if !ok {
		return false
	}
	term := sv.Dates[0]
	switch op {
	case types.OpLessThan:
		return value.Before(term)
	case types.OpLessEqual:
		return !value.After(term)
	case types.OpGreaterThan:
		return value.After(term)
	case types.OpGreaterEq:
		return !value.Before(term)
	case types.OpNotEqual:
		return !value.Equal(term)
	}
	// default for dates is equality
	return value.Equal(term)
}

func evaluateNumber(op types.Operator, sv *SearchValues, cell any, _ *types.Column) bool {
	if sv.Invalid || len(sv.Numbers) == 0 {
		return false
	}
	value, ok := types.ToFloat64(cell)
	if !ok || math.IsNaN(value) {
		return false
	}
	term := sv.Numbers[0]
	if math.IsNaN(term) {
		return false
	}
	switch op {
	case types.OpLessThan:
		return value < term
	case types.OpLessEqual:
		return value <= term
	case types.OpGreaterThan:
		return value > term
	case types.OpGreaterEq:
		return value >= term
	case types.OpNotEqual:
		return value != term
	}
	return value == term
}

func evaluateObject(op types.Operator, sv *SearchValues, cell any, col *types.Column) bool {
	if len(sv.Terms) == 0 {
		return false
	}
	// objects have no ordering; a caller-supplied comparer decides equality,
	// otherwise the string form does
	equal := false
	if col.Comparer != nil {
		equal = col.Comparer(cell, sv.Terms[0]) == 0
	} else {
		equal = types.ValueString(cell) == sv.Terms[0]
	}
	if op == types.OpNotEqual {
		return !equal
	}
	return equal
}

func evaluateText(op types.Operator, sv *SearchValues, cell any, col *types.Column) bool {
	if len(sv.Terms) == 0 {
		return false
	}
	value := types.ValueString(cell)
	term := sv.Terms[0]
	if !col.CaseSensitive {
		value = strings.ToLower(value)
		term = strings.ToLower(term)
	}
	switch op {
	case types.OpEqual:
		return value == term
	case types.OpNotEqual:
		return value != term
	case types.OpStartsWith:
		return strings.HasPrefix(value, term)
	case types.OpEndsWith:
		return strings.HasSuffix(value, term)
	case types.OpNotContains:
		return !strings.Contains(value, term)
	}
	// default for text is substring match
	return strings.Contains(value, term)
}

// evaluateCollection handles the IN family. A scalar cell matches by
// membership of its string form in the terms; a collection cell matches when
// any of its elements does. The contains variants use substring matching
// instead of equality.
func evaluateCollection(op types.Operator, sv *SearchValues, cell any, col *types.Column) bool {
	substring := op == types.OpInContains || op == types.OpNotInContains || op == "NIN_CONTAINS"
	negated := op == types.OpNotIn || op == types.OpNotInContains || op == "NIN" || op == "NIN_CONTAINS"

	matched := false
	for _, element := range cellElements(cell) {
		if !col.CaseSensitive {
			element = strings.ToLower(element)
		}
		for _, term := range sv.Terms {
			if !col.CaseSensitive {
				term = strings.ToLower(term)
			}
			if substring {
				if strings.Contains(element, term) {
					matched = true
				}
			} else if element == term {
				matched = true
			}
			if matched {
				break
			}
		}
		if matched {
			break
		}
	}
	if negated {
		return !matched
	}
	return matched
}

func cellElements(cell any) []string {
	switch v := cell.(type) {
	case []string:
		return v
	case []any:
		elements := make([]string, 0, len(v))
		for _, e := range v {
			elements = append(elements, types.ValueString(e))
		}
		return elements
	case nil:
		return nil
	}
	return []string{types.ValueString(cell)}
}
