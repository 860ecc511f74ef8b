package models

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/shatter/geometry"
	"github.com/aukilabs/shatter/partition"
)

// Resolver turns regions requests into partitions.
type Resolver struct {
	// The partitioner used by default.
	Partitioner partition.Partitioner

	// The partitioner used for requests asking for influence ordering. Falls
	// back to Partitioner when nil.
	SortedPartitioner partition.Partitioner

	// The maximum number of nodes in a request. 0 means unlimited.
	MaxNodes int

	// Checks every partition invariant before answering.
	Verify bool
}

// Partition is a resolved regions request.
type Partition struct {
	RequestID string
	Root      geometry.AABB
	Nodes     []partition.Node
	Cells     []partition.Cell
}

func (p Partition) Response() RegionsResponse {
	return RegionsResponse{
		RequestID: p.RequestID,
		Cells:     NewCells(p.Cells),
	}
}

// Resolve parses the request and partitions its root. The request id is set
// when missing.
func (r Resolver) Resolve(req *RegionsRequest) (Partition, error) {
	p, err := r.resolve(req)
	instrumentRequest(len(req.Nodes), err)
	return p, err
}

func (r Resolver) resolve(req *RegionsRequest) (Partition, error) {
	root, nodes, err := req.Parse(r.MaxNodes)
	if err != nil {
		return Partition{}, err
	}

	p := r.Partitioner
	if req.SortByInfluence && r.SortedPartitioner != nil {
		p = r.SortedPartitioner
	}

	cells, err := p.Regions(root, nodes)
	if err != nil {
		return Partition{}, errors.New("computing regions failed").
			WithType(errors.Type(err)).
			WithTag("request_id", req.RequestID).
			Wrap(err)
	}

	if r.Verify {
		if err := partition.Verify(root, nodes, cells); err != nil {
			return Partition{}, errors.New("regions verification failed").
				WithType(partition.ErrTypeInvariantViolated).
				WithTag("request_id", req.RequestID).
				Wrap(err)
		}
	}

	return Partition{
		RequestID: req.RequestID,
		Root:      root,
		Nodes:     nodes,
		Cells:     cells,
	}, nil
}
