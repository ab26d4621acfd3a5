package engine

// buildProcessingOrder computes a topological order over nodeOrder (the
// node map's stable insertion order, used to break ties deterministically)
// given the connection list. Nodes that are part of a cycle — or otherwise
// unreachable by the traversal — are omitted from the returned order and
// reported separately so the caller can emit a diagnostic; the spec never
// wants the scheduler to error, only to render those nodes silent.
func buildProcessingOrder(nodeOrder []string, nodes map[string]Node, conns []Connection) (order []Node, omitted []string) {
	inDegree := make(map[string]int, len(nodeOrder))
	adjacency := make(map[string][]string, len(nodeOrder))
	for _, id := range nodeOrder {
		inDegree[id] = 0
	}

	for _, c := range conns {
		if _, ok := nodes[c.ToNodeID]; !ok {
			continue // dangling connection: omitted from the order naturally
		}
		if _, ok := nodes[c.FromNodeID]; !ok {
			continue
		}
		inDegree[c.ToNodeID]++
		adjacency[c.FromNodeID] = append(adjacency[c.FromNodeID], c.ToNodeID)
	}

	// Queue seeded in stable insertion order of the node map, so identical
	// inputs always yield identical orders.
	queue := make([]string, 0, len(nodeOrder))
	for _, id := range nodeOrder {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	visited := make(map[string]bool, len(nodeOrder))
	order = make([]Node, 0, len(nodeOrder))

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited[id] = true

		if n, ok := nodes[id]; ok {
			order = append(order, n)
		}

		for _, next := range adjacency[id] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(visited) != len(nodeOrder) {
		for _, id := range nodeOrder {
			if !visited[id] {
				omitted = append(omitted, id)
			}
		}
	}

	return order, omitted
}
