package partition

import (
	"slices"

	"github.com/aukilabs/shatter/geometry"
)

// InfluenceOrder returns the node indices sorted by descending clipped
// influence area. Nodes that do not affect root come last. The sort is
// stable.
//
// Partitioning large influences first produces fewer fragments.
func InfluenceOrder(root geometry.AABB, nodes []Node) []int {
	areas := make([]int, len(nodes))
	order := make([]int, len(nodes))

	for i, n := range nodes {
		order[i] = i
		areas[i] = -1

		if influence, ok := n.Influence(root); ok {
			areas[i] = influence.Area()
		}
	}

	slices.SortStableFunc(order, func(a, b int) int {
		switch {
		case areas[a] > areas[b]:
			return -1
		case areas[a] < areas[b]:
			return 1
		default:
			return 0
		}
	})

	return order
}
