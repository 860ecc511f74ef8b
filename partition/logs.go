package partition

import (
	"time"

	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/shatter/geometry"
)

// WithLogs returns a partitioner that logs every partition it computes.
func WithLogs(p Partitioner) Partitioner {
	return &partitionerWithLogs{Partitioner: p}
}

type partitionerWithLogs struct {
	Partitioner
}

func (p *partitionerWithLogs) Regions(root geometry.AABB, nodes []Node) ([]Cell, error) {
	start := time.Now()
	cells, err := p.Partitioner.Regions(root, nodes)
	duration := time.Since(start)

	if err != nil {
		logs.WithTag("root", root.String()).
			WithTag("node_count", len(nodes)).
			WithTag("duration", duration).
			Warn(err)
		return nil, err
	}

	logs.WithTag("root", root.String()).
		WithTag("node_count", len(nodes)).
		WithTag("cell_count", len(cells)).
		WithTag("duration", duration).
		Debug("partition computed")
	return cells, nil
}
