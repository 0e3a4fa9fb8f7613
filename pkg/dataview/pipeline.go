package dataview

import (
	"slices"

	"github.com/matst80/slask-grid/pkg/sorting"
	"github.com/matst80/slask-grid/pkg/tree"
	"github.com/matst80/slask-grid/pkg/types"
)

// recompute runs the full local pipeline and refreshes the visible sequence.
// Call with the write lock held. Data-shape problems never surface from here;
// the engines absorb them into neutral comparisons and non-matches.
func (v *View) recompute() {
	pipelineRuns.Inc()
	if v.opts.TreeMode {
		v.recomputeTree()
	} else {
		v.recomputeFlat()
	}
	visibleRows.WithLabelValues(v.name).Set(float64(len(v.visible)))
}

func (v *View) recomputeFlat() {
	v.meta = nil
	v.anomalies = tree.Anomalies{}

	rows := v.source
	if filters := v.boundFilters(); len(filters) > 0 {
		rows = filterRows(rows, filters)
	} else {
		rows = slices.Clone(rows)
	}

	if cmp := v.orderFunc(); cmp != nil {
		slices.SortStableFunc(rows, cmp)
	}
	v.visible = rows
}

func (v *View) recomputeTree() {
	treeOpt := v.opts.treeOptions()
	roots, anomalies := tree.ToHierarchy(v.source, treeOpt)

	var flat []types.Row
	var meta tree.Metadata
	var flatAnomalies tree.Anomalies
	if cmp := v.orderFunc(); cmp != nil {
		_, flat, meta, flatAnomalies = tree.SortHierarchy(roots, cmp, treeOpt)
	} else {
		flat, meta, flatAnomalies = tree.Flatten(roots, treeOpt)
		tree.RollUp(flat, meta, treeOpt)
	}
	anomalies.DanglingParents = append(anomalies.DanglingParents, flatAnomalies.DanglingParents...)
	anomalies.DuplicateIds = append(anomalies.DuplicateIds, flatAnomalies.DuplicateIds...)
	anomalies.UnidentifiedRows += flatAnomalies.UnidentifiedRows

	if filters := v.boundFilters(); len(filters) > 0 {
		// a row stays visible when its roll-up set intersects the directly
		// matching ids, so ancestors of a match keep rendering
		matched := make(map[types.ID]struct{})
		idField := v.opts.idField()
		for _, row := range flat {
			if rowMatches(row, filters) {
				if id, ok := row.Id(idField); ok {
					matched[id] = struct{}{}
				}
			}
		}
		visible := make([]types.Row, 0, len(flat))
		for _, row := range flat {
			id, ok := row.Id(idField)
			if !ok {
				continue
			}
			if intersects(meta[id], matched) {
				visible = append(visible, row)
			}
		}
		flat = visible
	}

	v.visible = flat
	v.meta = meta
	v.anomalies = anomalies
}

// orderFunc picks the active comparator: the directive chain, the default
// id-ascending order after an explicit clear, or none (source order).
func (v *View) orderFunc() func(a, b types.Row) int {
	if len(v.sortState) > 0 {
		return sorting.Comparer(v.boundSort(), sorting.Options{Locale: v.opts.Locale})
	}
	if v.sortCleared {
		return sorting.OrderById(v.opts.idField())
	}
	return nil
}

func filterRows(rows []types.Row, filters []boundFilter) []types.Row {
	out := make([]types.Row, 0, len(rows))
	for _, row := range rows {
		if rowMatches(row, filters) {
			out = append(out, row)
		}
	}
	return out
}

func rowMatches(row types.Row, filters []boundFilter) bool {
	for i := range filters {
		if !filters[i].matches(row) {
			return false
		}
	}
	return true
}

func intersects(meta *tree.NodeMeta, matched map[types.ID]struct{}) bool {
	if meta == nil {
		return false
	}
	for _, id := range meta.TreeIds {
		if _, ok := matched[id]; ok {
			return true
		}
	}
	return false
}
