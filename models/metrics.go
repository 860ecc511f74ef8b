package models

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultLabel = "result"

	resultOK = "ok"
)

var (
	regionsRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "regions_requests",
		Help: "The number of resolved regions requests by result.",
	}, []string{resultLabel})

	regionsRequestNodes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "regions_request_nodes",
		Help:    "The number of nodes in regions requests.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})
)

func instrumentRequest(nodeCount int, err error) {
	result := resultOK
	if err != nil {
		if result = errors.Type(err); result == "" {
			result = "unknown"
		}
	}

	regionsRequests.
		With(prometheus.Labels{resultLabel: result}).
		Inc()

	regionsRequestNodes.Observe(float64(nodeCount))
}
