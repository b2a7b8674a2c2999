// Package startlevel maps bundle placement between provisioning start levels
// and feature model start-order metadata.
package startlevel

import (
	"strconv"
	"strings"

	"github.com/arthur-debert/modelconv/pkg/errors"
	"github.com/arthur-debert/modelconv/pkg/provisioning"
)

const (
	// DefaultStartLevel applies when nothing else decides
	DefaultStartLevel = 20
	// BootStartLevel is what level 0 means inside the boot feature
	BootStartLevel = 1

	// StartOrderKey is the feature model bundle metadata for the start order
	StartOrderKey = "start-order"
	// StartLevelKey is the bundle metadata that may carry an explicit level or a sentinel
	StartLevelKey = "start-level"
)

// ForFeature returns the start order a bundle at level gets in the feature
// model. Level 0 means "unspecified" and depends on the owning feature.
func ForFeature(featureName string, level int) int {
	if level != 0 {
		return level
	}
	if featureName == provisioning.BootFeature {
		return BootStartLevel
	}
	return DefaultStartLevel
}

// IsSentinel reports whether a start-level value names a separately
// bootstrapped bucket such as ":boot" or ":launchpad"
func IsSentinel(value string) bool {
	return strings.HasPrefix(value, ":")
}

// Placement says where a feature model bundle lands in the provisioning model
type Placement struct {
	// Sentinel is set when the bundle belongs to an auxiliary feature; Level is then 0
	Sentinel string
	Level    int
}

// Place decides the provisioning placement of a bundle from its start-level
// metadata, its start order and the run modes it will be filed under.
// A sentinel combined with run modes cannot be expressed and fails.
func Place(startLevel string, startOrder int, modes []string) (Placement, error) {
	if IsSentinel(startLevel) {
		if len(modes) > 0 {
			return Placement{}, errors.Newf(errors.ErrEncodingConflict,
				"run modes must not be defined for bundles with start-level %s", startLevel).
				WithDetail("start-level", startLevel).
				WithDetail("run-modes", modes)
		}
		return Placement{Sentinel: startLevel}, nil
	}
	if startLevel != "" {
		level, err := strconv.Atoi(strings.TrimSpace(startLevel))
		if err != nil {
			return Placement{}, errors.Wrapf(err, errors.ErrInvalidInput, "invalid start-level %q", startLevel)
		}
		if level > 0 {
			return Placement{Level: level}, nil
		}
	}
	if startOrder > 0 {
		return Placement{Level: startOrder}, nil
	}
	return Placement{Level: DefaultStartLevel}, nil
}

// Sentinels is the arena of auxiliary provisioning features created while
// converting one feature, keyed by sentinel and kept in first-seen order
type Sentinels struct {
	order    []string
	features map[string]*provisioning.Feature
}

// NewSentinels creates an empty arena
func NewSentinels() *Sentinels {
	return &Sentinels{features: make(map[string]*provisioning.Feature)}
}

// Get returns the feature for sentinel, creating it on first use
func (s *Sentinels) Get(sentinel string) *provisioning.Feature {
	if f, ok := s.features[sentinel]; ok {
		return f
	}
	f := provisioning.NewFeature(sentinel)
	s.features[sentinel] = f
	s.order = append(s.order, sentinel)
	return f
}

// Add files the artifact at level 0 of the sentinel's default run mode
func (s *Sentinels) Add(sentinel string, a *provisioning.Artifact) {
	s.Get(sentinel).GetOrCreateRunMode(nil).GetOrCreateArtifactGroup(0).Add(a)
}

// Features returns the auxiliary features in creation order
func (s *Sentinels) Features() []*provisioning.Feature {
	out := make([]*provisioning.Feature, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.features[name])
	}
	return out
}

// Len returns the number of auxiliary features
func (s *Sentinels) Len() int {
	return len(s.order)
}
