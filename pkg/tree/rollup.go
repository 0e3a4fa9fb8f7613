package tree

import "github.com/matst80/slask-grid/pkg/types"

// RollUp precomputes, for every row, the set of its own id plus all
// descendant ids, written into the metadata side table. A tree-aware filter
// can then answer "does any descendant match" with a set intersection instead
// of walking the tree once per filter application.
//
// Each row seeds its own set and merges its id into every ancestor reachable
// through the parent field. Dangling parents simply end the walk; cycles are
// cut by the visited guard.
func RollUp(rows []types.Row, meta Metadata, opt Options) {
	idField := opt.idField()
	parentField := opt.parentField()

	byId := make(map[types.ID]types.Row, len(rows))
	for _, row := range rows {
		if id, ok := row.Id(idField); ok {
			if _, exists := byId[id]; !exists {
				byId[id] = row
			}
		}
	}

	members := make(map[types.ID]map[types.ID]struct{}, len(rows))
	add := func(owner, member types.ID) {
		entry, ok := meta[owner]
		if !ok {
			entry = &NodeMeta{}
			meta[owner] = entry
		}
		set, ok := members[owner]
		if !ok {
			set = make(map[types.ID]struct{})
			members[owner] = set
		}
		if _, dup := set[member]; dup {
			return
		}
		set[member] = struct{}{}
		entry.TreeIds = append(entry.TreeIds, member)
	}

	for _, row := range rows {
		id, ok := row.Id(idField)
		if !ok {
			continue
		}
		add(id, id)

		visited := map[types.ID]struct{}{id: {}}
		current := row
		for {
			raw, present := current.Get(parentField)
			if !present || raw == nil {
				break
			}
			parentId, ok := types.NormalizeID(raw)
			if !ok {
				break
			}
			if _, cycle := visited[parentId]; cycle {
				break
			}
			visited[parentId] = struct{}{}
			parentRow, found := byId[parentId]
			if !found {
				break
			}
			add(parentId, id)
			current = parentRow
		}
	}
}
