package tree

import (
	"slices"

	"github.com/matst80/slask-grid/pkg/types"
)

// SortHierarchy orders every level of the hierarchy with the given row
// comparator and re-flattens for rendering. Siblings are sorted stably before
// descending into their children, so ties at one level are resolved with
// sibling context only and sibling groups under different parents never
// influence each other.
//
// Children order is mutated in place; the returned nodes are the same slice.
func SortHierarchy(nodes []*Node, cmp func(a, b types.Row) int, opt Options) ([]*Node, []types.Row, Metadata, Anomalies) {
	sortLevel(nodes, cmp)
	flat, meta, anomalies := Flatten(nodes, opt)
	RollUp(flat, meta, opt)
	return nodes, flat, meta, anomalies
}

func sortLevel(nodes []*Node, cmp func(a, b types.Row) int) {
	slices.SortStableFunc(nodes, func(a, b *Node) int {
		return cmp(a.Row, b.Row)
	})
	for _, node := range nodes {
		if len(node.Children) > 0 {
			sortLevel(node.Children, cmp)
		}
	}
}
