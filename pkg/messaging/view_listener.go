package messaging

import (
	"log"

	"github.com/matst80/slask-grid/pkg/types"
)

// RabbitViewChangeHandler publishes view-state changes so replica nodes can
// replay them. Publish failures are logged, not propagated; a flaky broker
// must not block local sorting.
type RabbitViewChangeHandler struct {
	Master *GridTransportMaster
}

func (h *RabbitViewChangeHandler) OnSortChanged(grid string, directives []types.SortDirective) {
	err := h.Master.SendViewState(ViewStateMessage{Grid: grid, Change: SortChange, Sort: directives})
	if err != nil {
		log.Printf("failed to send sort change: %v", err)
	}
}

func (h *RabbitViewChangeHandler) OnSortCleared(grid string) {
	err := h.Master.SendViewState(ViewStateMessage{Grid: grid, Change: SortChange, SortCleared: true})
	if err != nil {
		log.Printf("failed to send sort clear: %v", err)
	}
}

func (h *RabbitViewChangeHandler) OnFilterChanged(grid string, directives []types.FilterDirective) {
	err := h.Master.SendViewState(ViewStateMessage{Grid: grid, Change: FilterChange, Filter: directives})
	if err != nil {
		log.Printf("failed to send filter change: %v", err)
	}
}
