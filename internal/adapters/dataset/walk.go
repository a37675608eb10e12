package dataset

// NodeContext is one node of the menu tree during traversal, with the
// ancestor chain and best-effort id/title paths from the root.
type NodeContext struct {
	Node       map[string]any
	Ancestors  []map[string]any
	PathIDs    []int
	PathTitles []string
}

type stackFrame struct {
	node       map[string]any
	ancestors  []map[string]any
	pathIDs    []int
	pathTitles []string
}

// walkNodes runs a depth-first, left-to-right traversal over the tree,
// calling visit for every node including the root itself.
func walkNodes(root map[string]any, visit func(NodeContext)) {
	if root == nil {
		return
	}
	stack := []stackFrame{{node: root}}

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		pathIDs := frame.pathIDs
		pathTitles := frame.pathTitles
		if id, ok := asInt(frame.node["itemMasterId"]); ok {
			pathIDs = appendCopyInt(pathIDs, id)
		}
		if title := bestTitle(frame.node); title != "" {
			pathTitles = appendCopyStr(pathTitles, title)
		}

		visit(NodeContext{
			Node:       frame.node,
			Ancestors:  frame.ancestors,
			PathIDs:    pathIDs,
			PathTitles: pathTitles,
		})

		children, ok := frame.node["children"].([]any)
		if !ok || len(children) == 0 {
			continue
		}
		ancestors := make([]map[string]any, len(frame.ancestors), len(frame.ancestors)+1)
		copy(ancestors, frame.ancestors)
		ancestors = append(ancestors, frame.node)

		// Reverse push so children pop left-to-right.
		for i := len(children) - 1; i >= 0; i-- {
			child, ok := children[i].(map[string]any)
			if !ok {
				continue
			}
			stack = append(stack, stackFrame{
				node:       child,
				ancestors:  ancestors,
				pathIDs:    pathIDs,
				pathTitles: pathTitles,
			})
		}
	}
}

func appendCopyInt(s []int, v int) []int {
	out := make([]int, len(s), len(s)+1)
	copy(out, s)
	return append(out, v)
}

func appendCopyStr(s []string, v string) []string {
	out := make([]string, len(s), len(s)+1)
	copy(out, s)
	return append(out, v)
}

// TraversalSummary carries sanity-check counts over the raw tree.
type TraversalSummary struct {
	Roots             int   `json:"roots"`
	TotalNodes        int   `json:"total_nodes"`
	NodesWithChildren int   `json:"nodes_with_children"`
	LeafNodes         int   `json:"leaf_nodes"`
	DistinctItemTypes []int `json:"distinct_item_types"`
}

// Summarize walks the whole tree and counts nodes by shape. Used by the
// ingest command to eyeball a new dataset before anything depends on it.
func Summarize(data map[string]any) (TraversalSummary, error) {
	roots, err := MenuRoots(data)
	if err != nil {
		return TraversalSummary{}, err
	}

	summary := TraversalSummary{Roots: len(roots)}
	types := map[int]bool{}
	for _, root := range roots {
		walkNodes(root, func(ctx NodeContext) {
			summary.TotalNodes++
			if children, ok := ctx.Node["children"].([]any); ok && len(children) > 0 {
				summary.NodesWithChildren++
			} else {
				summary.LeafNodes++
			}
			if t, ok := asInt(ctx.Node["itemType"]); ok {
				types[t] = true
			}
		})
	}

	summary.DistinctItemTypes = sortedKeys(types)
	return summary, nil
}
