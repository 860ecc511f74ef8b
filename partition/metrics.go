package partition

import (
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/shatter/geometry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	errTypeLabel = "error_type"
	sourceLabel  = "source"
)

var (
	partitionRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "partition_runs",
		Help: "The number of partitions computed.",
	}, []string{
		sourceLabel,
	})

	partitionErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "partition_errors",
		Help: "The errors that occured while computing a partition.",
	}, []string{
		sourceLabel,
		errTypeLabel,
	})

	partitionCells = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "partition_cells",
		Help:    "The number of cells in a computed partition.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	}, []string{
		sourceLabel,
	})

	partitionLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "partition_latency",
		Help:    "The time to compute a partition.",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
	}, []string{
		sourceLabel,
	})
)

// WithMetrics returns a partitioner that records prometheus metrics labeled
// with source.
func WithMetrics(p Partitioner, source string) Partitioner {
	return &partitionerWithMetrics{
		Partitioner: p,
		source:      source,
	}
}

type partitionerWithMetrics struct {
	Partitioner

	source string
}

func (p *partitionerWithMetrics) Regions(root geometry.AABB, nodes []Node) ([]Cell, error) {
	start := time.Now()
	cells, err := p.Partitioner.Regions(root, nodes)
	instrumentLatency(p.source, start)

	if err != nil {
		instrumentError(p.source, err)
		return nil, err
	}

	instrumentRun(p.source, len(cells))
	return cells, nil
}

func instrumentLatency(source string, start time.Time) {
	partitionLatency.With(prometheus.Labels{
		sourceLabel: source,
	}).Observe(time.Since(start).Seconds())
}

func instrumentRun(source string, cellCount int) {
	partitionRuns.With(prometheus.Labels{
		sourceLabel: source,
	}).Inc()

	partitionCells.With(prometheus.Labels{
		sourceLabel: source,
	}).Observe(float64(cellCount))
}

func instrumentError(source string, err error) {
	partitionErrors.With(prometheus.Labels{
		sourceLabel:  source,
		errTypeLabel: errors.Type(err),
	}).Inc()
}
