package partition

const (
	ErrTypeMalformedNode     = "malformed_node"
	ErrTypeCapacityExceeded  = "capacity_exceeded"
	ErrTypeInvariantViolated = "invariant_violated"
)
