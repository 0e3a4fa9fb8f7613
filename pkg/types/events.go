package types

// ViewListener receives change notifications from a data view. Deliveries are
// fire-and-forget: listeners must not block and get no way to veto a change.
// Directive slices are snapshots owned by the receiver.
type ViewListener interface {
	OnSortChanged(grid string, directives []SortDirective)
	OnSortCleared(grid string)
	OnFilterChanged(grid string, directives []FilterDirective)
}
