package types

// Column describes a single dataset field and how it sorts and filters.
// Columns are immutable once a view is built, except for the Sortable and
// Filterable toggles.
type Column struct {
	Id         string    `json:"id"`
	Field      string    `json:"field"`
	Name       string    `json:"name,omitempty"`
	Type       FieldType `json:"type"`
	Sortable   bool      `json:"sortable"`
	Filterable bool      `json:"filterable"`

	// CaseSensitive switches text filtering away from the default folded
	// comparison.
	CaseSensitive bool `json:"caseSensitive,omitempty"`

	// Comparer pre-empts the generic comparator when it returns non-zero.
	// It is never direction-inverted: a comparer is expected to account for
	// ascending/descending itself. Not serialized.
	Comparer func(a, b any) int `json:"-"`

	// QueryField overrides Field when resolving values; QueryFieldFunc does
	// the same per row and wins over both.
	QueryField     string           `json:"queryField,omitempty"`
	QueryFieldFunc func(Row) string `json:"-"`
}

// FieldFor resolves the field name used for the given row, honoring the
// per-row resolver and the static query-field override.
func (c *Column) FieldFor(row Row) string {
	if c.QueryFieldFunc != nil {
		if name := c.QueryFieldFunc(row); name != "" {
			return name
		}
	}
	if c.QueryField != "" {
		return c.QueryField
	}
	return c.Field
}

// ValueFor resolves the cell value of this column on the given row.
func (c *Column) ValueFor(row Row) (any, bool) {
	return row.Get(c.FieldFor(row))
}

// General is a convenience for Classify on the column's type.
func (c *Column) General() GeneralType {
	return Classify(c.Type)
}
