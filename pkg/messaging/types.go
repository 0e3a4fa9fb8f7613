package messaging

import "github.com/matst80/slask-grid/pkg/types"

// ChangeTopic names one fan-out exchange; the configured prefix scopes
// topics per environment.
type ChangeTopic string

const (
	RowsUpserted     ChangeTopic = "rows_upserted"
	RowDeleted       ChangeTopic = "row_deleted"
	ColumnsChanged   ChangeTopic = "columns_changed"
	ViewStateChanged ChangeTopic = "view_state_changed"
)

// RabbitConfig wires the multi-node grid sync.
type RabbitConfig struct {
	Url         string
	VHost       string
	TopicPrefix string
}

func (c RabbitConfig) prefix() string {
	if c.TopicPrefix == "" {
		return "slaskgrid"
	}
	return c.TopicPrefix
}

// RowsUpsertedMessage carries new or replaced rows of one grid.
type RowsUpsertedMessage struct {
	Grid string      `json:"grid"`
	Rows []types.Row `json:"rows"`
}

// RowDeletedMessage carries one removed row id.
type RowDeletedMessage struct {
	Grid string `json:"grid"`
	Id   any    `json:"id"`
}

// ColumnsChangedMessage carries a full column set replacement.
type ColumnsChangedMessage struct {
	Grid    string          `json:"grid"`
	Columns []*types.Column `json:"columns"`
}

// StateChange names which directive set a ViewStateMessage replaces.
type StateChange string

const (
	SortChange   StateChange = "sort"
	FilterChange StateChange = "filter"
)

// ViewStateMessage carries the directive state after a change so replica
// nodes converge on the same ordering. Only the set named by Change is
// applied; the other one is left alone on the replica.
type ViewStateMessage struct {
	Grid        string                  `json:"grid"`
	Change      StateChange             `json:"change"`
	Sort        []types.SortDirective   `json:"sort,omitempty"`
	Filter      []types.FilterDirective `json:"filter,omitempty"`
	SortCleared bool                    `json:"sortCleared,omitempty"`
}
