package dataview

import (
	"fmt"
	"slices"
	"sync"

	"github.com/matst80/slask-grid/pkg/tree"
	"github.com/matst80/slask-grid/pkg/types"
)

// Options configures one data view.
type Options struct {
	// IdField is the row identifier property, "id" when empty.
	IdField string `json:"idField,omitempty"`
	// ParentField is the tree parent reference, "parentId" when empty.
	ParentField string `json:"parentField,omitempty"`
	// TreeMode runs the hierarchical pipeline instead of the flat one.
	TreeMode bool `json:"treeMode,omitempty"`
	// Locale is the BCP 47 collation tag for text sorting.
	Locale string `json:"locale,omitempty"`

	EnableSorting   bool `json:"enableSorting"`
	EnableFiltering bool `json:"enableFiltering"`

	// BackendMode hands sort/filter changes to the adapter instead of the
	// local pipeline; the view only builds the directive payload.
	BackendMode bool `json:"backendMode,omitempty"`
}

func (o Options) idField() string {
	if o.IdField == "" {
		return "id"
	}
	return o.IdField
}

func (o Options) treeOptions() tree.Options {
	return tree.Options{IdField: o.IdField, ParentField: o.ParentField}
}

// View holds one dataset with its columns, directive state and the derived
// visible row sequence a renderer consumes. All operations are synchronous;
// the mutex only guards against concurrent API access, a single pass never
// suspends.
type View struct {
	mu   sync.RWMutex
	name string
	opts Options

	columns     map[string]*types.Column
	columnOrder []string

	source []types.Row
	byId   map[types.ID]types.Row

	sortState   []types.SortDirective
	filterState []types.FilterDirective
	// sortCleared switches the default order to id-ascending after an
	// explicit clear, until the next sort is applied
	sortCleared bool

	visible   []types.Row
	meta      tree.Metadata
	anomalies tree.Anomalies

	listeners []types.ViewListener
	backend   BackendAdapter
	lastQuery string
}

// NewView builds a view over the given columns. Rows come in via SetRows.
func NewView(name string, columns []*types.Column, opts Options) *View {
	v := &View{
		name:    name,
		opts:    opts,
		columns: make(map[string]*types.Column, len(columns)),
		byId:    make(map[types.ID]types.Row),
	}
	for _, col := range columns {
		if _, exists := v.columns[col.Id]; exists {
			continue
		}
		v.columns[col.Id] = col
		v.columnOrder = append(v.columnOrder, col.Id)
	}
	return v
}

func (v *View) Name() string {
	return v.name
}

func (v *View) Options() Options {
	return v.opts
}

// SetRows replaces the dataset. The slice becomes the source order; the view
// keeps the reference but never mutates the rows.
func (v *View) SetRows(rows []types.Row) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.source = rows
	v.reindex()
	v.recompute()
}

// UpsertRow replaces the row with the same id or appends a new one.
func (v *View) UpsertRow(row types.Row) {
	v.mu.Lock()
	defer v.mu.Unlock()
	id, ok := row.Id(v.opts.idField())
	if ok {
		if _, exists := v.byId[id]; exists {
			for i, existing := range v.source {
				if existingId, hasId := existing.Id(v.opts.idField()); hasId && existingId == id {
					v.source[i] = row
					break
				}
			}
			v.byId[id] = row
			v.recompute()
			return
		}
		v.byId[id] = row
	}
	v.source = append(v.source, row)
	v.recompute()
}

// DeleteRow removes the row with the given raw id; unknown ids are a no-op.
func (v *View) DeleteRow(rawId any) bool {
	id, ok := types.NormalizeID(rawId)
	if !ok {
		return false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, exists := v.byId[id]; !exists {
		return false
	}
	delete(v.byId, id)
	v.source = slices.DeleteFunc(v.source, func(row types.Row) bool {
		rowId, hasId := row.Id(v.opts.idField())
		return hasId && rowId == id
	})
	v.recompute()
	return true
}

// GetById resolves a row by raw identifier.
func (v *View) GetById(rawId any) (types.Row, bool) {
	id, ok := types.NormalizeID(rawId)
	if !ok {
		return nil, false
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	row, found := v.byId[id]
	return row, found
}

// Rows returns the current visible flat sequence, a copy.
func (v *View) Rows() []types.Row {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return slices.Clone(v.visible)
}

// Len reports the visible row count.
func (v *View) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.visible)
}

// SourceRows returns a copy of the full dataset in insertion order,
// regardless of the active directives.
func (v *View) SourceRows() []types.Row {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return slices.Clone(v.source)
}

// SourceLen reports the total dataset size before filtering.
func (v *View) SourceLen() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.source)
}

// TreeMeta exposes the bookkeeping side table of the last pipeline run. Only
// populated in tree mode.
func (v *View) TreeMeta() tree.Metadata {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.meta
}

// Anomalies reports the structural problems normalized away by the last tree
// conversion: callers who want to detect malformed input check here, nothing
// is ever raised for them.
func (v *View) Anomalies() tree.Anomalies {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.anomalies
}

// Columns returns the column definitions in registration order.
func (v *View) Columns() []*types.Column {
	v.mu.RLock()
	defer v.mu.RUnlock()
	cols := make([]*types.Column, 0, len(v.columnOrder))
	for _, id := range v.columnOrder {
		cols = append(cols, v.columns[id])
	}
	return cols
}

// SetColumns replaces the column set and re-resolves directive bindings;
// directives for columns that no longer exist are dropped.
func (v *View) SetColumns(columns []*types.Column) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.columns = make(map[string]*types.Column, len(columns))
	v.columnOrder = v.columnOrder[:0]
	for _, col := range columns {
		if _, exists := v.columns[col.Id]; exists {
			continue
		}
		v.columns[col.Id] = col
		v.columnOrder = append(v.columnOrder, col.Id)
	}
	v.sortState = slices.DeleteFunc(v.sortState, func(d types.SortDirective) bool {
		_, ok := v.columns[d.ColumnId]
		return !ok
	})
	v.filterState = slices.DeleteFunc(v.filterState, func(d types.FilterDirective) bool {
		_, ok := v.columns[d.ColumnId]
		return !ok
	})
	v.recompute()
}

// Column resolves a single column definition.
func (v *View) Column(id string) (*types.Column, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	col, ok := v.columns[id]
	return col, ok
}

// AddListener attaches a change listener. Listeners are invoked after the
// pipeline has run, outside the view lock, and must not block.
func (v *View) AddListener(l types.ViewListener) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.listeners = append(v.listeners, l)
}

func (v *View) reindex() {
	v.byId = make(map[types.ID]types.Row, len(v.source))
	for _, row := range v.source {
		if id, ok := row.Id(v.opts.idField()); ok {
			if _, exists := v.byId[id]; !exists {
				v.byId[id] = row
			}
		}
	}
}

func (v *View) column(id string) (*types.Column, error) {
	col, ok := v.columns[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrUnknownColumn, id)
	}
	return col, nil
}
