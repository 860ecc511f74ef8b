package models

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/shatter/geometry"
	"github.com/aukilabs/shatter/partition"
	"github.com/google/uuid"
)

const (
	ErrTypeBadRequest = "bad_request"
)

// Box is a rectangle given by its top left corner and size.
type Box struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (b Box) AABB() (geometry.AABB, error) {
	return geometry.New(b.X, b.Y, b.Width, b.Height)
}

// Node is a node anchor with optional half extents. HalfExtent is a shorthand
// for a square influence. A node without extents has infinite influence.
type Node struct {
	X          int  `json:"x"`
	Y          int  `json:"y"`
	HalfExtent *int `json:"half_extent,omitempty"`
	HalfWidth  *int `json:"half_width,omitempty"`
	HalfHeight *int `json:"half_height,omitempty"`
}

func (n Node) Node() (partition.Node, error) {
	switch {
	case n.HalfExtent != nil && (n.HalfWidth != nil || n.HalfHeight != nil):
		return partition.Node{}, errors.New("half extent is exclusive with half width and half height").
			WithType(ErrTypeBadRequest)

	case n.HalfExtent != nil:
		return partition.NewSquareNode(n.X, n.Y, *n.HalfExtent), nil

	case n.HalfWidth != nil && n.HalfHeight != nil:
		return partition.NewRectNode(n.X, n.Y, *n.HalfWidth, *n.HalfHeight), nil

	case n.HalfWidth != nil || n.HalfHeight != nil:
		return partition.Node{}, errors.New("half width and half height must be set together").
			WithType(ErrTypeBadRequest)

	default:
		return partition.NewNode(n.X, n.Y), nil
	}
}

// RegionsRequest asks for the partition of a root box by nodes.
type RegionsRequest struct {
	RequestID       string `json:"request_id,omitempty"`
	Root            Box    `json:"root"`
	Nodes           []Node `json:"nodes"`
	SortByInfluence bool   `json:"sort_by_influence,omitempty"`
}

// Parse validates the request and converts it to partition inputs. A missing
// request id is generated.
func (r *RegionsRequest) Parse(maxNodes int) (geometry.AABB, []partition.Node, error) {
	if r.RequestID == "" {
		r.RequestID = uuid.NewString()
	}

	if maxNodes > 0 && len(r.Nodes) > maxNodes {
		return geometry.AABB{}, nil, errors.New("too many nodes").
			WithType(ErrTypeBadRequest).
			WithTag("request_id", r.RequestID).
			WithTag("node_count", len(r.Nodes)).
			WithTag("max_nodes", maxNodes)
	}

	root, err := r.Root.AABB()
	if err != nil {
		return geometry.AABB{}, nil, errors.New("invalid root").
			WithType(ErrTypeBadRequest).
			WithTag("request_id", r.RequestID).
			Wrap(err)
	}

	nodes := make([]partition.Node, len(r.Nodes))
	for i, n := range r.Nodes {
		node, err := n.Node()
		if err == nil {
			err = node.Validate()
		}
		if err != nil {
			return geometry.AABB{}, nil, errors.New("invalid node").
				WithType(ErrTypeBadRequest).
				WithTag("request_id", r.RequestID).
				WithTag("node", i).
				Wrap(err)
		}
		nodes[i] = node
	}

	return root, nodes, nil
}

// Cell is a partition cell with the indices of the nodes influencing it.
type Cell struct {
	Left      int   `json:"left"`
	Top       int   `json:"top"`
	Right     int   `json:"right"`
	Bottom    int   `json:"bottom"`
	Influence []int `json:"influence"`
}

func NewCells(cells []partition.Cell) []Cell {
	res := make([]Cell, len(cells))
	for i, c := range cells {
		influence := make([]int, c.Influence.Len())
		copy(influence, c.Influence.Slice())

		res[i] = Cell{
			Left:      c.Region.Left,
			Top:       c.Region.Top,
			Right:     c.Region.Right,
			Bottom:    c.Region.Bottom,
			Influence: influence,
		}
	}
	return res
}

type RegionsResponse struct {
	RequestID string `json:"request_id"`
	Cells     []Cell `json:"cells"`
}

type NoiseResponse struct {
	RequestID string   `json:"request_id"`
	Width     int      `json:"width"`
	Height    int      `json:"height"`
	Max       uint32   `json:"max"`
	Values    []uint32 `json:"values"`
}

type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	RequestID string `json:"request_id,omitempty"`
	Error     Error  `json:"error"`
}

func NewErrorResponse(requestID string, err error) ErrorResponse {
	return ErrorResponse{
		RequestID: requestID,
		Error: Error{
			Type:    errors.Type(err),
			Message: err.Error(),
		},
	}
}
