package featureflag

type Flag string

const (
	// Dissolves the pending fragment and cell with the largest overlap first
	// instead of the first intersecting pair.
	FlagLargestOverlap Flag = "LARGEST_OVERLAP"

	// Partitions nodes in descending influence area order.
	FlagSortByInfluence Flag = "SORT_BY_INFLUENCE"

	// Checks every computed partition before responding.
	FlagVerifyRegions Flag = "VERIFY_REGIONS"

	FlagDisableNoise  Flag = "DISABLE_NOISE"
	FlagDisableStream Flag = "DISABLE_STREAM"
)
