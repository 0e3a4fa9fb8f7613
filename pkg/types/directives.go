package types

// SortDirective is one entry of the active multi-sort state. Slice order is
// tie-break precedence: the first directive is the primary sort key.
type SortDirective struct {
	ColumnId string `json:"columnId"`
	Desc     bool   `json:"desc,omitempty"`
}

// FilterDirective is one active filter condition. Terms are raw strings as
// entered; coercion to the column's general type happens once per activation
// in the filter engine, not per row.
type FilterDirective struct {
	ColumnId string   `json:"columnId"`
	Operator Operator `json:"operator,omitempty"`
	Terms    []string `json:"terms"`
}
