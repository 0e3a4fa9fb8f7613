package dataview

import (
	"fmt"
	"slices"

	"github.com/matst80/slask-grid/pkg/filter"
	"github.com/matst80/slask-grid/pkg/sorting"
	"github.com/matst80/slask-grid/pkg/types"
)

// ApplySort replaces the multi-sort state. Directive order is tie-break
// precedence. Configuration problems (sorting disabled, unknown or
// unsortable column, missing backend adapter) surface immediately; nothing
// about row data can fail here.
func (v *View) ApplySort(directives ...types.SortDirective) error {
	v.mu.Lock()
	if !v.opts.EnableSorting {
		v.mu.Unlock()
		return types.ErrSortingDisabled
	}
	for _, d := range directives {
		col, err := v.column(d.ColumnId)
		if err != nil {
			v.mu.Unlock()
			return err
		}
		if !col.Sortable {
			v.mu.Unlock()
			return fmt.Errorf("%w: %s", types.ErrColumnNotSortable, d.ColumnId)
		}
	}
	v.sortState = slices.Clone(directives)
	v.sortCleared = false

	if v.opts.BackendMode {
		if err := v.buildBackendSort(); err != nil {
			v.mu.Unlock()
			return err
		}
	} else {
		v.recompute()
	}
	snapshot := slices.Clone(v.sortState)
	listeners := slices.Clone(v.listeners)
	v.mu.Unlock()

	sortOps.Inc()
	for _, l := range listeners {
		l.OnSortChanged(v.name, snapshot)
	}
	return nil
}

// UpdateSort merges a single directive into the current state: an existing
// directive for the same column is replaced in place (keeping its
// precedence), otherwise the directive is appended as the weakest key.
func (v *View) UpdateSort(directive types.SortDirective) error {
	v.mu.RLock()
	merged := slices.Clone(v.sortState)
	v.mu.RUnlock()
	replaced := false
	for i, existing := range merged {
		if existing.ColumnId == directive.ColumnId {
			merged[i] = directive
			replaced = true
			break
		}
	}
	if !replaced {
		merged = append(merged, directive)
	}
	return v.ApplySort(merged...)
}

// ClearSort drops all sort directives and restores the default id-ascending
// order.
func (v *View) ClearSort() error {
	v.mu.Lock()
	if !v.opts.EnableSorting {
		v.mu.Unlock()
		return types.ErrSortingDisabled
	}
	v.sortState = nil
	v.sortCleared = true
	if !v.opts.BackendMode {
		v.recompute()
	}
	listeners := slices.Clone(v.listeners)
	v.mu.Unlock()

	sortOps.Inc()
	for _, l := range listeners {
		l.OnSortCleared(v.name)
	}
	return nil
}

// SortDirectives returns a copy of the active multi-sort state.
func (v *View) SortDirectives() []types.SortDirective {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return slices.Clone(v.sortState)
}

// ApplyFilter replaces the filter state. Terms are coerced once here (per
// activation), not per row.
func (v *View) ApplyFilter(directives ...types.FilterDirective) error {
	v.mu.Lock()
	if !v.opts.EnableFiltering {
		v.mu.Unlock()
		return types.ErrFilteringDisabled
	}
	for _, d := range directives {
		col, err := v.column(d.ColumnId)
		if err != nil {
			v.mu.Unlock()
			return err
		}
		if !col.Filterable {
			v.mu.Unlock()
			return fmt.Errorf("%w: %s", types.ErrColumnNotFilterable, d.ColumnId)
		}
	}
	v.filterState = slices.Clone(directives)

	if v.opts.BackendMode {
		if err := v.buildBackendFilter(); err != nil {
			v.mu.Unlock()
			return err
		}
	} else {
		v.recompute()
	}
	snapshot := slices.Clone(v.filterState)
	listeners := slices.Clone(v.listeners)
	v.mu.Unlock()

	filterOps.Inc()
	for _, l := range listeners {
		l.OnFilterChanged(v.name, snapshot)
	}
	return nil
}

// UpdateFilter merges a single directive, replacing any existing condition on
// the same column. Empty terms remove the condition.
func (v *View) UpdateFilter(directive types.FilterDirective) error {
	v.mu.RLock()
	merged := slices.Clone(v.filterState)
	v.mu.RUnlock()

	merged = slices.DeleteFunc(merged, func(d types.FilterDirective) bool {
		return d.ColumnId == directive.ColumnId
	})
	if len(directive.Terms) > 0 {
		merged = append(merged, directive)
	}
	return v.ApplyFilter(merged...)
}

// ClearFilter drops all filter directives.
func (v *View) ClearFilter() error {
	return v.ApplyFilter()
}

// FilterDirectives returns a copy of the active filter state.
func (v *View) FilterDirectives() []types.FilterDirective {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return slices.Clone(v.filterState)
}

// boundSort resolves directive columns; call with the lock held. Unknown
// columns were rejected at Apply time, stale ones are skipped.
func (v *View) boundSort() []sorting.BoundDirective {
	bound := make([]sorting.BoundDirective, 0, len(v.sortState))
	for _, d := range v.sortState {
		if col, ok := v.columns[d.ColumnId]; ok {
			bound = append(bound, sorting.BoundDirective{Column: col, Desc: d.Desc})
		}
	}
	return bound
}

type boundFilter struct {
	column   *types.Column
	operator types.Operator
	terms    filter.SearchValues
}

// boundFilters coerces every active directive once; call with the lock held.
func (v *View) boundFilters() []boundFilter {
	bound := make([]boundFilter, 0, len(v.filterState))
	for _, d := range v.filterState {
		col, ok := v.columns[d.ColumnId]
		if !ok {
			continue
		}
		bound = append(bound, boundFilter{
			column:   col,
			operator: d.Operator,
			terms:    filter.Coerce(d.Terms, col.Type),
		})
	}
	return bound
}

func (f *boundFilter) matches(row types.Row) bool {
	cell, _ := f.column.ValueFor(row)
	return filter.Evaluate(f.operator, &f.terms, cell, f.column)
}
