// Package tree converts between the flat (parent-reference) and hierarchical
// (nested children) representations of a dataset. The flat form is the system
// of record; hierarchies are derived, sorted and re-flattened on demand.
//
// Rows are never mutated: depth, parent linkage and roll-up sets live in a
// Metadata side table keyed by normalized row id, regenerated on every
// conversion instead of being stamped onto caller-owned rows.
package tree

import "github.com/matst80/slask-grid/pkg/types"

// Options names the bookkeeping fields of a tree dataset.
type Options struct {
	// IdField is the row identifier property, "id" when empty.
	IdField string
	// ParentField is the parent reference property, "parentId" when empty.
	ParentField string
}

func (o Options) idField() string {
	if o.IdField == "" {
		return "id"
	}
	return o.IdField
}

func (o Options) parentField() string {
	if o.ParentField == "" {
		return "parentId"
	}
	return o.ParentField
}

// Node is one branch of the derived hierarchical form.
type Node struct {
	Row      types.Row
	Children []*Node
}

// NodeMeta is the per-row bookkeeping regenerated by Flatten and RollUp.
type NodeMeta struct {
	ParentId    types.ID   `json:"parentId,omitempty"`
	Level       int        `json:"level"`
	HasChildren bool       `json:"hasChildren,omitempty"`
	TreeIds     []types.ID `json:"treeIds,omitempty"`
}

// Metadata is the side table of bookkeeping, keyed by normalized row id.
type Metadata map[types.ID]*NodeMeta

// Anomalies records structural problems that were normalized away instead of
// raised: the grid still renders a best-effort tree for malformed input, but
// callers who care can inspect the counts.
type Anomalies struct {
	// DanglingParents are ids whose declared parent does not resolve; the
	// rows were treated as roots.
	DanglingParents []types.ID `json:"danglingParents,omitempty"`
	// DuplicateIds were seen more than once; only the first row survives.
	DuplicateIds []types.ID `json:"duplicateIds,omitempty"`
	// UnidentifiedRows lack a normalizable id and can never be parents.
	UnidentifiedRows int `json:"unidentifiedRows,omitempty"`
}

// IsClean reports whether the dataset converted without normalization.
func (a Anomalies) IsClean() bool {
	return len(a.DanglingParents) == 0 && len(a.DuplicateIds) == 0 && a.UnidentifiedRows == 0
}

func (a *Anomalies) merge(other Anomalies) {
	a.DanglingParents = append(a.DanglingParents, other.DanglingParents...)
	a.DuplicateIds = append(a.DuplicateIds, other.DuplicateIds...)
	a.UnidentifiedRows += other.UnidentifiedRows
}

// ToHierarchy builds the nested form from a flat parent-referenced dataset.
// Rows whose parent id is null, absent, self-referencing or unresolvable
// become roots; unresolvable and self references are recorded as dangling.
// Duplicate ids keep the first row. Input rows are not touched.
func ToHierarchy(rows []types.Row, opt Options) ([]*Node, Anomalies) {
	idField := opt.idField()
	parentField := opt.parentField()

	anomalies := Anomalies{}
	nodes := make([]*Node, 0, len(rows))
	byId := make(map[types.ID]*Node, len(rows))

	for _, row := range rows {
		node := &Node{Row: row}
		id, ok := row.Id(idField)
		if !ok {
			anomalies.UnidentifiedRows++
			nodes = append(nodes, node)
			continue
		}
		if _, exists := byId[id]; exists {
			anomalies.DuplicateIds = append(anomalies.DuplicateIds, id)
			continue
		}
		byId[id] = node
		nodes = append(nodes, node)
	}

	roots := make([]*Node, 0)
	for _, node := range nodes {
		raw, present := node.Row.Get(parentField)
		if !present || raw == nil {
			roots = append(roots, node)
			continue
		}
		parentId, ok := types.NormalizeID(raw)
		if !ok {
			roots = append(roots, node)
			continue
		}
		parent, found := byId[parentId]
		if !found || parent == node {
			// dangling or self reference, normalized to a root
			if id, hasId := node.Row.Id(idField); hasId {
				anomalies.DanglingParents = append(anomalies.DanglingParents, id)
			}
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	return roots, anomalies
}

// Flatten emits the hierarchy depth-first pre-order as the flat renderable
// sequence, stamping level, parent linkage and has-children into a fresh
// Metadata table. Ids seen a second time are skipped, not duplicated.
func Flatten(nodes []*Node, opt Options) ([]types.Row, Metadata, Anomalies) {
	idField := opt.idField()
	meta := make(Metadata)
	anomalies := Anomalies{}
	seen := make(map[types.ID]struct{})
	flat := make([]types.Row, 0)

	var walk func(nodes []*Node, level int, parentId types.ID)
	walk = func(nodes []*Node, level int, parentId types.ID) {
		for _, node := range nodes {
			id, ok := node.Row.Id(idField)
			if !ok {
				anomalies.UnidentifiedRows++
				flat = append(flat, node.Row)
				continue
			}
			if _, dup := seen[id]; dup {
				anomalies.DuplicateIds = append(anomalies.DuplicateIds, id)
				continue
			}
			seen[id] = struct{}{}
			flat = append(flat, node.Row)
			meta[id] = &NodeMeta{
				ParentId:    parentId,
				Level:       level,
				HasChildren: len(node.Children) > 0,
			}
			walk(node.Children, level+1, id)
		}
	}
	walk(nodes, 0, nil)

	return flat, meta, anomalies
}
