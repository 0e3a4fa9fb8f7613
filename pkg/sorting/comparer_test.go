package sorting

import (
	"slices"
	"testing"

	"github.com/matst80/slask-grid/pkg/types"
)

func testColumns() map[string]*types.Column {
	return map[string]*types.Column{
		"name":  {Id: "name", Field: "name", Type: types.FieldString, Sortable: true},
		"price": {Id: "price", Field: "price", Type: types.FieldNumber, Sortable: true},
		"added": {Id: "added", Field: "added", Type: types.FieldDateIso, Sortable: true},
		"live":  {Id: "live", Field: "live", Type: types.FieldBoolean, Sortable: true},
	}
}

func names(rows []types.Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r["name"].(string)
	}
	return out
}

func TestMultiKeyTieBreak(t *testing.T) {
	cols := testColumns()
	rows := []types.Row{
		{"name": "a", "group": "x", "price": 10},
		{"name": "b", "group": "x", "price": 30},
		{"name": "c", "group": "x", "price": 20},
	}
	group := &types.Column{Id: "group", Field: "group", Type: types.FieldString, Sortable: true}

	cmp := Comparer([]BoundDirective{
		{Column: group},
		{Column: cols["price"], Desc: true},
	}, Options{})
	slices.SortStableFunc(rows, cmp)

	expected := []string{"b", "c", "a"}
	if got := names(rows); !slices.Equal(got, expected) {
		t.Errorf("tie-break order = %v, expected %v", got, expected)
	}

	// flipping precedence changes the result
	cmp = Comparer([]BoundDirective{
		{Column: cols["price"]},
		{Column: group},
	}, Options{})
	slices.SortStableFunc(rows, cmp)
	expected = []string{"a", "c", "b"}
	if got := names(rows); !slices.Equal(got, expected) {
		t.Errorf("primary-key order = %v, expected %v", got, expected)
	}
}

func TestCustomComparerPrecedence(t *testing.T) {
	// custom comparer orders by string length, opposite of what the generic
	// collation would do for these values
	byLength := &types.Column{
		Id: "name", Field: "name", Type: types.FieldString, Sortable: true,
		Comparer: func(a, b any) int {
			return len(a.(string)) - len(b.(string))
		},
	}
	rows := []types.Row{
		{"name": "dddd"},
		{"name": "aa"},
		{"name": "ccc"},
	}

	cmp := Comparer([]BoundDirective{{Column: byLength}}, Options{})
	slices.SortStableFunc(rows, cmp)
	expected := []string{"aa", "ccc", "dddd"}
	if got := names(rows); !slices.Equal(got, expected) {
		t.Errorf("custom comparer order = %v, expected %v", got, expected)
	}

	// descending must NOT invert a non-neutral custom result
	cmp = Comparer([]BoundDirective{{Column: byLength, Desc: true}}, Options{})
	slices.SortStableFunc(rows, cmp)
	if got := names(rows); !slices.Equal(got, expected) {
		t.Errorf("descending inverted the custom comparer: %v", got)
	}
}

func TestCustomComparerNeutralFallsThrough(t *testing.T) {
	neutral := &types.Column{
		Id: "price", Field: "price", Type: types.FieldNumber, Sortable: true,
		Comparer: func(a, b any) int { return 0 },
	}
	rows := []types.Row{
		{"name": "a", "price": 20},
		{"name": "b", "price": 10},
	}
	cmp := Comparer([]BoundDirective{{Column: neutral}}, Options{})
	slices.SortStableFunc(rows, cmp)
	if got := names(rows); !slices.Equal(got, []string{"b", "a"}) {
		t.Errorf("neutral custom result should fall back to generic compare: %v", got)
	}
}

func TestGenericCompareByType(t *testing.T) {
	cols := testColumns()

	rows := []types.Row{
		{"name": "a", "price": "100"},
		{"name": "b", "price": 20},
		{"name": "c", "price": 3.5},
	}
	cmp := Comparer([]BoundDirective{{Column: cols["price"]}}, Options{})
	slices.SortStableFunc(rows, cmp)
	if got := names(rows); !slices.Equal(got, []string{"c", "b", "a"}) {
		t.Errorf("numeric compare should be numeric, not lexical: %v", got)
	}

	rows = []types.Row{
		{"name": "a", "added": "2024-03-01"},
		{"name": "b", "added": "2023-12-24"},
		{"name": "c", "added": "2024-01-15"},
	}
	cmp = Comparer([]BoundDirective{{Column: cols["added"]}}, Options{})
	slices.SortStableFunc(rows, cmp)
	if got := names(rows); !slices.Equal(got, []string{"b", "c", "a"}) {
		t.Errorf("date compare order wrong: %v", got)
	}

	rows = []types.Row{
		{"name": "a", "live": true},
		{"name": "b", "live": false},
	}
	cmp = Comparer([]BoundDirective{{Column: cols["live"]}}, Options{})
	slices.SortStableFunc(rows, cmp)
	if got := names(rows); !slices.Equal(got, []string{"b", "a"}) {
		t.Errorf("false should sort before true: %v", got)
	}
}

func TestDescendingInvertsGeneric(t *testing.T) {
	cols := testColumns()
	rows := []types.Row{
		{"name": "a", "price": 10},
		{"name": "b", "price": 30},
		{"name": "c", "price": 20},
	}
	cmp := Comparer([]BoundDirective{{Column: cols["price"], Desc: true}}, Options{})
	slices.SortStableFunc(rows, cmp)
	if got := names(rows); !slices.Equal(got, []string{"b", "c", "a"}) {
		t.Errorf("descending numeric order wrong: %v", got)
	}
}

func TestUnparseableValuesCompareNeutral(t *testing.T) {
	cols := testColumns()
	rows := []types.Row{
		{"name": "a", "price": "broken"},
		{"name": "b", "price": 10},
		{"name": "c", "price": nil},
	}
	cmp := Comparer([]BoundDirective{{Column: cols["price"]}}, Options{})
	// stable sort keeps input order for neutral comparisons
	slices.SortStableFunc(rows, cmp)
	if got := names(rows); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("bad cells should compare neutral under stable sort: %v", got)
	}
}

func TestCollationFoldsCase(t *testing.T) {
	cols := testColumns()
	rows := []types.Row{
		{"name": "banana"},
		{"name": "Apple"},
		{"name": "cherry"},
	}
	cmp := Comparer([]BoundDirective{{Column: cols["name"]}}, Options{})
	slices.SortStableFunc(rows, cmp)
	if got := names(rows); !slices.Equal(got, []string{"Apple", "banana", "cherry"}) {
		t.Errorf("case-folded collation order wrong: %v", got)
	}
}

func TestQueryFieldFuncResolution(t *testing.T) {
	// per-row resolver picks which field to sort on
	dynamic := &types.Column{
		Id: "value", Field: "value", Type: types.FieldNumber, Sortable: true,
		QueryFieldFunc: func(r types.Row) string {
			if alt, ok := r["useAlt"].(bool); ok && alt {
				return "altValue"
			}
			return "value"
		},
	}
	rows := []types.Row{
		{"name": "a", "value": 100, "altValue": 1, "useAlt": true},
		{"name": "b", "value": 50},
	}
	cmp := Comparer([]BoundDirective{{Column: dynamic}}, Options{})
	slices.SortStableFunc(rows, cmp)
	if got := names(rows); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("per-row field resolution not applied: %v", got)
	}
}

func TestOrderById(t *testing.T) {
	rows := []types.Row{
		{"id": "zed"},
		{"id": 10},
		{"id": 2},
		{"id": "alpha"},
	}
	slices.SortStableFunc(rows, OrderById("id"))
	expected := []any{2, 10, "alpha", "zed"}
	for i, r := range rows {
		if r["id"] != expected[i] {
			t.Errorf("position %d = %v, expected %v", i, r["id"], expected[i])
		}
	}
}
