package types

import "errors"

// Configuration errors. These surface synchronously to the caller: they mean
// the integration is wired wrong and must be fixed before retrying. Data
// shape problems (bad dates, NaN, dangling parents) never become errors; the
// engines absorb them into neutral results or anomaly counts.
var (
	// ErrUnknownColumn is returned when a directive references a column id
	// that is not part of the view.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrSortingDisabled is returned when sort operations are invoked on a
	// view built without sorting enabled.
	ErrSortingDisabled = errors.New("sorting is not enabled")

	// ErrFilteringDisabled is returned when filter operations are invoked on
	// a view built without filtering enabled.
	ErrFilteringDisabled = errors.New("filtering is not enabled")

	// ErrColumnNotSortable is returned for sort directives on a column with
	// the sortable toggle off.
	ErrColumnNotSortable = errors.New("column is not sortable")

	// ErrColumnNotFilterable is returned for filter directives on a column
	// with the filterable toggle off.
	ErrColumnNotFilterable = errors.New("column is not filterable")

	// ErrBackendAdapterMissing is returned when a view configured for
	// backend mode has no adapter attached.
	ErrBackendAdapterMissing = errors.New("backend mode requires an adapter")

	// ErrUnknownGrid is returned by the registry for unregistered grid names.
	ErrUnknownGrid = errors.New("unknown grid")
)
