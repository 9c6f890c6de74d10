package puppet

import "sort"

// scanParts visits node and its children in pre-order, appending every Part
// to list. A disabled node hides its entire subtree: neither it nor any
// descendant is visited.
func scanParts(node *Node, list []*Node) []*Node {
	if !node.Enabled {
		return list
	}
	if node.Kind == KindPart {
		list = append(list, node)
	}
	for _, child := range node.children {
		list = scanParts(child, list)
	}
	return list
}

// sortNodeDraw orders the list by descending effective depth. The sort is
// stable so ties keep the pre-order scan order.
func sortNodeDraw(list []*Node) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].EffectiveZSort() > list[j].EffectiveZSort()
	})
}
