package tree

import (
	"slices"
	"testing"

	"github.com/matst80/slask-grid/pkg/sorting"
	"github.com/matst80/slask-grid/pkg/types"
)

func chainRows() []types.Row {
	return []types.Row{
		{"id": 1},
		{"id": 2, "parentId": 1},
		{"id": 3, "parentId": 2},
	}
}

func TestRoundTrip(t *testing.T) {
	roots, anomalies := ToHierarchy(chainRows(), Options{})
	if !anomalies.IsClean() {
		t.Fatalf("unexpected anomalies: %+v", anomalies)
	}
	if len(roots) != 1 {
		t.Fatalf("expected a single root, got %d", len(roots))
	}

	flat, meta, anomalies := Flatten(roots, Options{})
	if !anomalies.IsClean() {
		t.Fatalf("unexpected flatten anomalies: %+v", anomalies)
	}
	if len(flat) != 3 {
		t.Fatalf("expected 3 rows back, got %d", len(flat))
	}

	expected := []struct {
		id          types.ID
		level       int
		hasChildren bool
		parent      types.ID
	}{
		{int64(1), 0, true, nil},
		{int64(2), 1, true, int64(1)},
		{int64(3), 2, false, int64(2)},
	}
	for i, want := range expected {
		id, _ := flat[i].Id("id")
		if id != want.id {
			t.Errorf("row %d id = %v, expected %v", i, id, want.id)
		}
		m := meta[want.id]
		if m == nil {
			t.Fatalf("missing metadata for %v", want.id)
		}
		if m.Level != want.level {
			t.Errorf("id %v level = %d, expected %d", want.id, m.Level, want.level)
		}
		if m.HasChildren != want.hasChildren {
			t.Errorf("id %v hasChildren = %v, expected %v", want.id, m.HasChildren, want.hasChildren)
		}
		if m.ParentId != want.parent {
			t.Errorf("id %v parentId = %v, expected %v", want.id, m.ParentId, want.parent)
		}
	}
}

func TestRollUpChain(t *testing.T) {
	rows := chainRows()
	meta := make(Metadata)
	RollUp(rows, meta, Options{})

	expected := map[types.ID][]types.ID{
		int64(1): {int64(1), int64(2), int64(3)},
		int64(2): {int64(2), int64(3)},
		int64(3): {int64(3)},
	}
	for id, want := range expected {
		got := meta[id].TreeIds
		if len(got) != len(want) {
			t.Fatalf("id %v roll-up = %v, expected %v", id, got, want)
		}
		for _, member := range want {
			if !slices.Contains(got, member) {
				t.Errorf("id %v roll-up %v is missing %v", id, got, member)
			}
		}
	}
}

func TestDanglingParentBecomesRoot(t *testing.T) {
	rows := []types.Row{
		{"id": 1},
		{"id": 2, "parentId": 99},
		{"id": 3, "parentId": 3},
	}
	roots, anomalies := ToHierarchy(rows, Options{})
	if len(roots) != 3 {
		t.Errorf("dangling and self parents should be roots, got %d roots", len(roots))
	}
	if len(anomalies.DanglingParents) != 2 {
		t.Errorf("expected 2 dangling parents recorded, got %v", anomalies.DanglingParents)
	}
}

func TestDuplicateIdsKeepFirst(t *testing.T) {
	rows := []types.Row{
		{"id": 1, "name": "first"},
		{"id": 1, "name": "second"},
		{"id": 2, "parentId": 1},
	}
	roots, anomalies := ToHierarchy(rows, Options{})
	if len(anomalies.DuplicateIds) != 1 {
		t.Fatalf("expected one duplicate recorded, got %v", anomalies.DuplicateIds)
	}
	if len(roots) != 1 || roots[0].Row["name"] != "first" {
		t.Errorf("first occurrence should survive, got %v", roots)
	}
	flat, _, _ := Flatten(roots, Options{})
	if len(flat) != 2 {
		t.Errorf("flattened output should hold 2 unique rows, got %d", len(flat))
	}
}

func TestUnidentifiedRowsAreRoots(t *testing.T) {
	rows := []types.Row{
		{"id": 1},
		{"name": "no id here"},
	}
	roots, anomalies := ToHierarchy(rows, Options{})
	if anomalies.UnidentifiedRows != 1 {
		t.Errorf("expected one unidentified row, got %d", anomalies.UnidentifiedRows)
	}
	if len(roots) != 2 {
		t.Errorf("rows without ids should still render as roots, got %d", len(roots))
	}
}

func TestCustomFieldNames(t *testing.T) {
	rows := []types.Row{
		{"key": "a"},
		{"key": "b", "up": "a"},
	}
	opt := Options{IdField: "key", ParentField: "up"}
	roots, anomalies := ToHierarchy(rows, opt)
	if !anomalies.IsClean() || len(roots) != 1 || len(roots[0].Children) != 1 {
		t.Errorf("custom field names not honored: roots=%d anomalies=%+v", len(roots), anomalies)
	}
}

func TestSortHierarchyPerParent(t *testing.T) {
	// overlapping child values under different parents must sort
	// independently per parent
	rows := []types.Row{
		{"id": 1, "rank": 2},
		{"id": 2, "rank": 1},
		{"id": 10, "parentId": 1, "rank": 5},
		{"id": 11, "parentId": 1, "rank": 3},
		{"id": 20, "parentId": 2, "rank": 4},
		{"id": 21, "parentId": 2, "rank": 3},
	}
	roots, _ := ToHierarchy(rows, Options{})

	rank := &types.Column{Id: "rank", Field: "rank", Type: types.FieldNumber, Sortable: true}
	cmp := sorting.Comparer([]sorting.BoundDirective{{Column: rank}}, sorting.Options{})

	_, flat, meta, anomalies := SortHierarchy(roots, cmp, Options{})
	if !anomalies.IsClean() {
		t.Fatalf("unexpected anomalies: %+v", anomalies)
	}

	got := make([]int64, 0, len(flat))
	for _, row := range flat {
		id, _ := row.Id("id")
		got = append(got, id.(int64))
	}
	expected := []int64{2, 21, 20, 1, 11, 10}
	if !slices.Equal(got, expected) {
		t.Errorf("hierarchical sort order = %v, expected %v", got, expected)
	}

	// roll-up sets are regenerated as part of the sort pipeline
	if len(meta[int64(1)].TreeIds) != 3 {
		t.Errorf("root roll-up should cover itself and both children: %v", meta[int64(1)].TreeIds)
	}
}
