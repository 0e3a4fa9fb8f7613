package types

import "testing"

func TestParseOperatorShorthand(t *testing.T) {
	tests := []struct {
		input    string
		expected Operator
	}{
		{"=", OpEqual},
		{"==", OpEqual},
		{"<>", OpNotEqual},
		{"!=", OpNotEqual},
		{"<", OpLessThan},
		{"<=", OpLessEqual},
		{">", OpGreaterThan},
		{">=", OpGreaterEq},
		{"*", OpContains},
		{"a*", OpStartsWith},
		{"*z", OpEndsWith},
		{"IN", OpIn},
		{"NIN", OpNotIn},
		{"NOT_IN", OpNotIn},
		{"IN_CONTAINS", OpInContains},
		{"NIN_CONTAINS", OpNotInContains},
		{"NOT_IN_CONTAINS", OpNotInContains},
		{"bogus", OpNone},
		{"", OpNone},
	}
	for _, tc := range tests {
		if got := ParseOperator(tc.input); got != tc.expected {
			t.Errorf("ParseOperator(%q) = %q, expected %q", tc.input, got, tc.expected)
		}
	}
}

func TestIsCollection(t *testing.T) {
	for _, op := range []Operator{OpIn, OpNotIn, OpInContains, OpNotInContains, "NIN", "NIN_CONTAINS"} {
		if !op.IsCollection() {
			t.Errorf("%q should be a collection operator", op)
		}
	}
	for _, op := range []Operator{OpEqual, OpContains, OpLessThan, OpNone} {
		if op.IsCollection() {
			t.Errorf("%q should not be a collection operator", op)
		}
	}
}
