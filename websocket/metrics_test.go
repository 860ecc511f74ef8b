package websocket

import (
	"testing"
	"time"

	"github.com/aukilabs/shatter/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestHandlerWithMetrics(t *testing.T) {
	endpoint := "metrics-test"

	client, close := NewTestingEnv(t, newTestHandler(time.Minute, endpoint))
	defer close()

	var res models.RegionsResponse
	roundTrip(t, client, `{
		"root": {"x": 0, "y": 0, "width": 10, "height": 10},
		"nodes": [{"x": 5, "y": 5}]
	}`, &res)
	require.Len(t, res.Cells, 1)

	require.Equal(t, float64(1), testutil.ToFloat64(wsConnectedClients.With(prometheus.Labels{
		endpointLabel: endpoint,
	})))

	require.Equal(t, float64(1), testutil.ToFloat64(wsReceivedMsgs.With(prometheus.Labels{
		endpointLabel: endpoint,
		msgTypeLabel:  MsgTypeRegionsRequest,
	})))

	require.NotZero(t, testutil.ToFloat64(wsReceivedBytes.With(prometheus.Labels{
		endpointLabel: endpoint,
		msgTypeLabel:  MsgTypeRegionsRequest,
	})))
}
