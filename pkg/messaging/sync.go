package messaging

import (
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/matst80/slask-grid/pkg/common"
	"github.com/matst80/slask-grid/pkg/common/jsoncompat"
	"github.com/matst80/slask-grid/pkg/dataview"
	"github.com/matst80/slask-grid/pkg/types"
)

// GridTransportMaster publishes dataset and view-state changes from the node
// that owns mutations.
type GridTransportMaster struct {
	RabbitConfig
	conn *amqp.Connection
}

func (t *GridTransportMaster) Connect() error {
	conn, err := amqp.DialConfig(t.Url, amqp.Config{Vhost: t.VHost})
	if err != nil {
		return err
	}
	t.conn = conn
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	for _, topic := range []ChangeTopic{RowsUpserted, RowDeleted, ColumnsChanged, ViewStateChanged} {
		if err := DefineTopic(ch, t.prefix(), topic); err != nil {
			return err
		}
	}
	return nil
}

func (t *GridTransportMaster) Close() error {
	if t.conn == nil {
		return nil
	}
	return t.conn.Close()
}

func (t *GridTransportMaster) SendRowsUpserted(grid string, rows []types.Row) error {
	return SendChange(t.conn, t.prefix(), RowsUpserted, RowsUpsertedMessage{Grid: grid, Rows: rows})
}

func (t *GridTransportMaster) SendRowDeleted(grid string, id any) error {
	return SendChange(t.conn, t.prefix(), RowDeleted, RowDeletedMessage{Grid: grid, Id: id})
}

func (t *GridTransportMaster) SendColumnsChanged(grid string, columns []*types.Column) error {
	return SendChange(t.conn, t.prefix(), ColumnsChanged, ColumnsChangedMessage{Grid: grid, Columns: columns})
}

func (t *GridTransportMaster) SendViewState(msg ViewStateMessage) error {
	return SendChange(t.conn, t.prefix(), ViewStateChanged, msg)
}

// GridTransportClient follows a master node, applying row and view-state
// changes to the local registry. Row bursts are batched through a queue
// handler so one multi-row import does not re-run the pipeline per row.
type GridTransportClient struct {
	RabbitConfig
	ClientName string
	conn       *amqp.Connection
	registry   *dataview.Registry
	rowQueue   *common.QueueHandler[RowsUpsertedMessage]
}

func (t *GridTransportClient) Connect(registry *dataview.Registry) error {
	conn, err := amqp.DialConfig(t.Url, amqp.Config{Vhost: t.VHost})
	if err != nil {
		return err
	}
	t.conn = conn
	t.registry = registry
	t.rowQueue = common.NewQueueHandler(t.applyRowBatches, 256)

	listeners := map[ChangeTopic]func(amqp.Delivery) error{
		RowsUpserted:     t.onRowsUpserted,
		RowDeleted:       t.onRowDeleted,
		ColumnsChanged:   t.onColumnsChanged,
		ViewStateChanged: t.onViewStateChanged,
	}
	for topic, handler := range listeners {
		ch, err := conn.Channel()
		if err != nil {
			return err
		}
		if err := ListenToTopic(ch, t.prefix(), topic, handler); err != nil {
			return err
		}
	}
	log.Printf("connected to grid sync as client: %s", t.ClientName)
	return nil
}

func (t *GridTransportClient) Close() error {
	if t.rowQueue != nil {
		t.rowQueue.Close()
	}
	if t.conn == nil {
		return nil
	}
	return t.conn.Close()
}

func (t *GridTransportClient) onRowsUpserted(d amqp.Delivery) error {
	var msg RowsUpsertedMessage
	if err := jsoncompat.Unmarshal(d.Body, &msg); err != nil {
		return err
	}
	t.rowQueue.Add(msg)
	return nil
}

func (t *GridTransportClient) applyRowBatches(batches []RowsUpsertedMessage) {
	for _, msg := range batches {
		view, err := t.registry.Get(msg.Grid)
		if err != nil {
			log.Printf("rows for unknown grid %s dropped", msg.Grid)
			continue
		}
		for _, row := range msg.Rows {
			view.UpsertRow(row)
		}
	}
}

func (t *GridTransportClient) onRowDeleted(d amqp.Delivery) error {
	var msg RowDeletedMessage
	if err := jsoncompat.Unmarshal(d.Body, &msg); err != nil {
		return err
	}
	view, err := t.registry.Get(msg.Grid)
	if err != nil {
		return nil
	}
	view.DeleteRow(msg.Id)
	return nil
}

func (t *GridTransportClient) onColumnsChanged(d amqp.Delivery) error {
	var msg ColumnsChangedMessage
	if err := jsoncompat.Unmarshal(d.Body, &msg); err != nil {
		return err
	}
	view, err := t.registry.Get(msg.Grid)
	if err != nil {
		return nil
	}
	view.SetColumns(msg.Columns)
	return nil
}

func (t *GridTransportClient) onViewStateChanged(d amqp.Delivery) error {
	var msg ViewStateMessage
	if err := jsoncompat.Unmarshal(d.Body, &msg); err != nil {
		return err
	}
	view, err := t.registry.Get(msg.Grid)
	if err != nil {
		return nil
	}
	ApplyViewState(view, msg)
	return nil
}

// ApplyViewState replays a view-state message onto a local view. Directive
// validation errors are logged and skipped; a replica with divergent columns
// should not crash the consume loop.
func ApplyViewState(view *dataview.View, msg ViewStateMessage) {
	switch msg.Change {
	case SortChange:
		var err error
		if msg.SortCleared {
			err = view.ClearSort()
		} else {
			err = view.ApplySort(msg.Sort...)
		}
		if err != nil {
			log.Printf("failed to apply sort on %s: %v", msg.Grid, err)
		}
	case FilterChange:
		if err := view.ApplyFilter(msg.Filter...); err != nil {
			log.Printf("failed to apply filter on %s: %v", msg.Grid, err)
		}
	default:
		log.Printf("ignoring view state message with change %q", msg.Change)
	}
}
