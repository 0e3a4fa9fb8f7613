package types

import "strings"

// Operator is a filter condition operator. The set is closed; ParseOperator
// also accepts the shorthand symbols used on the wire ("<=", "a*", ...).
type Operator string

const (
	// OpNone selects the general-type default (contains for text, equal for
	// the rest).
	OpNone        Operator = ""
	OpEqual       Operator = "EQ"
	OpNotEqual    Operator = "NE"
	OpLessThan    Operator = "LT"
	OpLessEqual   Operator = "LE"
	OpGreaterThan Operator = "GT"
	OpGreaterEq   Operator = "GE"
	OpContains    Operator = "Contains"
	OpNotContains Operator = "Not_Contains"
	OpStartsWith  Operator = "StartsWith"
	OpEndsWith    Operator = "EndsWith"

	// collection operators bypass field-type dispatch entirely
	OpIn            Operator = "IN"
	OpNotIn         Operator = "NOT_IN"
	OpInContains    Operator = "IN_CONTAINS"
	OpNotInContains Operator = "NOT_IN_CONTAINS"

	// aliases accepted when directives are built in code instead of parsed
	opNin         Operator = "NIN"
	opNinContains Operator = "NIN_CONTAINS"
)

var operatorAliases = map[string]Operator{
	"=":               OpEqual,
	"==":              OpEqual,
	"EQ":              OpEqual,
	"<>":              OpNotEqual,
	"!=":              OpNotEqual,
	"NE":              OpNotEqual,
	"<":               OpLessThan,
	"LT":              OpLessThan,
	"<=":              OpLessEqual,
	"LE":              OpLessEqual,
	">":               OpGreaterThan,
	"GT":              OpGreaterThan,
	">=":              OpGreaterEq,
	"GE":              OpGreaterEq,
	"*":               OpContains,
	"Contains":        OpContains,
	"CONTAINS":        OpContains,
	"Not_Contains":    OpNotContains,
	"NOT_CONTAINS":    OpNotContains,
	"a*":              OpStartsWith,
	"StartsWith":      OpStartsWith,
	"STARTS_WITH":     OpStartsWith,
	"*z":              OpEndsWith,
	"EndsWith":        OpEndsWith,
	"ENDS_WITH":       OpEndsWith,
	"IN":              OpIn,
	"NIN":             OpNotIn,
	"NOT_IN":          OpNotIn,
	"IN_CONTAINS":     OpInContains,
	"NIN_CONTAINS":    OpNotInContains,
	"NOT_IN_CONTAINS": OpNotInContains,
}

// ParseOperator resolves an operator name or shorthand symbol, ignoring
// case for the word forms. Unrecognized input yields OpNone so evaluation
// falls back to the category default instead of failing mid-pass.
func ParseOperator(s string) Operator {
	if op, ok := operatorAliases[s]; ok {
		return op
	}
	if op, ok := operatorAliases[strings.ToUpper(s)]; ok {
		return op
	}
	return OpNone
}

// IsCollection reports whether the operator belongs to the set-membership
// family, which is evaluated before any field-type classification.
func (o Operator) IsCollection() bool {
	switch o {
	case OpIn, OpNotIn, OpInContains, OpNotInContains,
		opNin, opNinContains:
		return true
	}
	return false
}

func (o Operator) MarshalText() ([]byte, error) {
	return []byte(o), nil
}

func (o *Operator) UnmarshalText(data []byte) error {
	*o = ParseOperator(string(data))
	return nil
}
