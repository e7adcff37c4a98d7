package critique

// color marks a node's state during three-color DFS cycle detection.
type color int

const (
	white color = iota // unvisited
	grey                // on the current DFS stack
	black               // done
)

// ValidateDAG detects cycles in derived_from edges across every item in the
// store using a three-color depth-first traversal (§4.3). Edges to IDs not
// present in items are ignored — cross-proposal references are permitted
// but opaque. Returns the offending cycle (in traversal order) if one
// exists; safe to call repeatedly and from scratch after the store grows
// (§4.12: DAG validation is idempotent).
func ValidateDAG(items []CritiqueItem) (valid bool, cycle []string) {
	byID := make(map[string]CritiqueItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	colors := make(map[string]color, len(items))
	var stack []string

	var visit func(id string) []string
	visit = func(id string) []string {
		switch colors[id] {
		case black:
			return nil
		case grey:
			// Found a back-edge into the current stack: extract the cycle
			// starting at id's first occurrence.
			for i, s := range stack {
				if s == id {
					return append(append([]string{}, stack[i:]...), id)
				}
			}
			return []string{id, id}
		}

		colors[id] = grey
		stack = append(stack, id)

		item, ok := byID[id]
		if ok {
			for _, parent := range item.DerivedFrom {
				if _, known := byID[parent]; !known {
					continue // cross-proposal or external reference: opaque
				}
				if found := visit(parent); found != nil {
					return found
				}
			}
		}

		stack = stack[:len(stack)-1]
		colors[id] = black
		return nil
	}

	for _, it := range items {
		if colors[it.ID] == white {
			if found := visit(it.ID); found != nil {
				return false, found
			}
		}
	}
	return true, nil
}
