package models

import (
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/shatter/geometry"
	"github.com/aukilabs/shatter/partition"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int {
	return &v
}

func TestNodeConversion(t *testing.T) {
	tests := []struct {
		name     string
		node     Node
		expected partition.Node
		err      bool
	}{
		{
			name:     "infinite",
			node:     Node{X: 1, Y: 2},
			expected: partition.NewNode(1, 2),
		},
		{
			name:     "square",
			node:     Node{X: 1, Y: 2, HalfExtent: intPtr(5)},
			expected: partition.NewSquareNode(1, 2, 5),
		},
		{
			name:     "rectangle",
			node:     Node{X: 1, Y: 2, HalfWidth: intPtr(5), HalfHeight: intPtr(6)},
			expected: partition.NewRectNode(1, 2, 5, 6),
		},
		{
			name: "square and rectangle",
			node: Node{HalfExtent: intPtr(5), HalfWidth: intPtr(5)},
			err:  true,
		},
		{
			name: "half width alone",
			node: Node{HalfWidth: intPtr(5)},
			err:  true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			n, err := test.node.Node()
			if test.err {
				require.Equal(t, ErrTypeBadRequest, errors.Type(err))
				return
			}

			require.NoError(t, err)
			require.Equal(t, test.expected, n)
		})
	}
}

func TestRegionsRequestParse(t *testing.T) {
	t.Run("decodes and converts", func(t *testing.T) {
		var req RegionsRequest
		err := json.Unmarshal([]byte(`{
			"root": {"x": 0, "y": 0, "width": 200, "height": 300},
			"nodes": [
				{"x": 75, "y": 150, "half_extent": 50},
				{"x": 75, "y": 125, "half_width": 50, "half_height": 20},
				{"x": 0, "y": 0}
			]
		}`), &req)
		require.NoError(t, err)

		root, nodes, err := req.Parse(10)
		require.NoError(t, err)
		require.NotEmpty(t, req.RequestID)
		require.Equal(t, geometry.MustNew(0, 0, 200, 300), root)
		require.Equal(t, []partition.Node{
			partition.NewSquareNode(75, 150, 50),
			partition.NewRectNode(75, 125, 50, 20),
			partition.NewNode(0, 0),
		}, nodes)
	})

	t.Run("keeps the request id", func(t *testing.T) {
		req := RegionsRequest{RequestID: "req-1"}
		_, _, err := req.Parse(0)
		require.NoError(t, err)
		require.Equal(t, "req-1", req.RequestID)
	})

	t.Run("too many nodes", func(t *testing.T) {
		req := RegionsRequest{
			Root:  Box{Width: 10, Height: 10},
			Nodes: make([]Node, 3),
		}
		_, _, err := req.Parse(2)
		require.Equal(t, ErrTypeBadRequest, errors.Type(err))
	})

	t.Run("negative root size", func(t *testing.T) {
		req := RegionsRequest{Root: Box{Width: -10, Height: 10}}
		_, _, err := req.Parse(0)
		require.Equal(t, ErrTypeBadRequest, errors.Type(err))
	})

	t.Run("negative half extent", func(t *testing.T) {
		req := RegionsRequest{
			Root:  Box{Width: 10, Height: 10},
			Nodes: []Node{{HalfExtent: intPtr(-1)}},
		}
		_, _, err := req.Parse(0)
		require.Equal(t, ErrTypeBadRequest, errors.Type(err))
	})
}

func TestNewCells(t *testing.T) {
	labels := partition.NewLabels(0)
	derived := labels.Derive(3)

	cells := NewCells([]partition.Cell{
		{Region: geometry.MustNew(0, 0, 10, 10), Influence: labels},
		{Region: geometry.MustNew(10, 0, 10, 10), Influence: derived},
	})

	require.Equal(t, []Cell{
		{Left: 0, Top: 0, Right: 10, Bottom: 10, Influence: []int{0}},
		{Left: 10, Top: 0, Right: 20, Bottom: 10, Influence: []int{0, 3}},
	}, cells)

	b, err := json.Marshal(RegionsResponse{RequestID: "r", Cells: cells[:1]})
	require.NoError(t, err)
	require.JSONEq(t, `{"request_id":"r","cells":[{"left":0,"top":0,"right":10,"bottom":10,"influence":[0]}]}`, string(b))
}

func TestNewErrorResponse(t *testing.T) {
	err := errors.New("boom").WithType(ErrTypeBadRequest)
	res := NewErrorResponse("r", err)

	require.Equal(t, "r", res.RequestID)
	require.Equal(t, ErrTypeBadRequest, res.Error.Type)
	require.NotEmpty(t, res.Error.Message)
}
