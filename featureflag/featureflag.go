package featureflag

// FeatureFlag is a lookup map for features that are enabled.
type FeatureFlag map[Flag]struct{}

// New returns feature flags initialized with a list of flags. Unknown flags
// are kept so they can be reported.
func New(flags []string) FeatureFlag {
	featureFlag := make(FeatureFlag)
	for _, f := range flags {
		if f == "" {
			continue
		}
		featureFlag[Flag(f)] = struct{}{}
	}
	return featureFlag
}

func (f FeatureFlag) IsSet(flag Flag) bool {
	_, ok := f[flag]
	return ok
}

// IfSet runs do if flag is set.
func (f FeatureFlag) IfSet(flag Flag, do func()) {
	if !f.IsSet(flag) {
		return
	}
	do()
}

// IfNotSet runs do if flag is not set.
func (f FeatureFlag) IfNotSet(flag Flag, do func()) {
	if f.IsSet(flag) {
		return
	}
	do()
}

// Unknown returns the set flags that are not declared in this package.
func (f FeatureFlag) Unknown() []string {
	var unknown []string
	for flag := range f {
		switch flag {
		case FlagLargestOverlap,
			FlagSortByInfluence,
			FlagVerifyRegions,
			FlagDisableNoise,
			FlagDisableStream:
		default:
			unknown = append(unknown, string(flag))
		}
	}
	return unknown
}
