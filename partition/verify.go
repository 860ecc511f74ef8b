package partition

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/shatter/geometry"
)

// Verify checks that cells are a valid partition of root for nodes: regions
// are inside root and pairwise disjoint, every label refers to a node whose
// clipped influence contains the region, and for every node the labeled area
// equals its clipped influence area.
func Verify(root geometry.AABB, nodes []Node, cells []Cell) error {
	influences := make([]geometry.AABB, len(nodes))
	affects := make([]bool, len(nodes))
	for i, n := range nodes {
		influences[i], affects[i] = n.Influence(root)
	}

	areas := make([]int, len(nodes))

	for i, c := range cells {
		if err := c.Region.Validate(); err != nil {
			return violation("malformed cell region", i, c, "error", err.Error())
		}

		if !root.Contains(c.Region) {
			return violation("cell outside of root", i, c)
		}

		if c.Influence.Len() == 0 {
			return violation("cell without influence", i, c)
		}

		labels := c.Influence.Slice()
		for j, n := range labels {
			if n < 0 || n >= len(nodes) {
				return violation("influence index out of range", i, c, "node", n)
			}

			if !affects[n] {
				return violation("cell labeled with a node outside of root", i, c, "node", n)
			}

			if !influences[n].Contains(c.Region) {
				return violation("cell outside of node influence", i, c,
					"node", n,
					"node_influence", influences[n].String())
			}

			for _, m := range labels[j+1:] {
				if m == n {
					return violation("duplicated influence index", i, c, "node", n)
				}
			}

			areas[n] += c.Region.Area()
		}

		for j := i + 1; j < len(cells); j++ {
			if c.Region.Intersects(cells[j].Region) {
				return violation("overlapping cells", i, c,
					"other_index", j,
					"other_region", cells[j].Region.String())
			}
		}
	}

	for n := range nodes {
		if !affects[n] {
			continue
		}

		if expected := influences[n].Area(); areas[n] != expected {
			return errors.New("node influence area not conserved").
				WithType(ErrTypeInvariantViolated).
				WithTag("node", n).
				WithTag("influence", influences[n].String()).
				WithTag("expected_area", expected).
				WithTag("labeled_area", areas[n])
		}
	}

	return nil
}

// violation builds an invariant error for the cell at index. tags are
// key/value pairs.
func violation(msg string, index int, c Cell, tags ...any) error {
	err := errors.New(msg).
		WithType(ErrTypeInvariantViolated).
		WithTag("index", index).
		WithTag("region", c.Region.String()).
		WithTag("influence", c.Influence.String())

	for i := 0; i+1 < len(tags); i += 2 {
		err = err.WithTag(tags[i].(string), tags[i+1])
	}
	return err
}
