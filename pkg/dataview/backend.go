package dataview

import "github.com/matst80/slask-grid/pkg/types"

// BackendAdapter builds backend queries from directive payloads when a view
// runs in backend mode. The view's contract ends at handing over the
// directives: executing the query, awaiting the response and cancelling
// superseded requests are all the adapter's business.
type BackendAdapter interface {
	BuildSortQuery(grid string, directives []types.SortDirective) (string, error)
	BuildFilterQuery(grid string, directives []types.FilterDirective) (string, error)
}

// SetBackend attaches the adapter used in backend mode.
func (v *View) SetBackend(adapter BackendAdapter) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.backend = adapter
}

// LastQuery returns the most recent query built by the backend adapter.
func (v *View) LastQuery() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.lastQuery
}

// call with the write lock held
func (v *View) buildBackendSort() error {
	if v.backend == nil {
		return types.ErrBackendAdapterMissing
	}
	query, err := v.backend.BuildSortQuery(v.name, v.sortState)
	if err != nil {
		return err
	}
	v.lastQuery = query
	return nil
}

// call with the write lock held
func (v *View) buildBackendFilter() error {
	if v.backend == nil {
		return types.ErrBackendAdapterMissing
	}
	query, err := v.backend.BuildFilterQuery(v.name, v.filterState)
	if err != nil {
		return err
	}
	v.lastQuery = query
	return nil
}
