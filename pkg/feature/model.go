package feature

import (
	"slices"
	"strconv"
	"strings"

	"github.com/arthur-debert/modelconv/pkg/types"
)

// ExtensionType is the payload kind of an extension
type ExtensionType string

const (
	ExtensionText      ExtensionType = "TEXT"
	ExtensionJSON      ExtensionType = "JSON"
	ExtensionArtifacts ExtensionType = "ARTIFACTS"
)

// ExtensionState tells a launcher what to do with an extension it does not understand
type ExtensionState string

const (
	StateRequired  ExtensionState = "required"
	StateOptional  ExtensionState = "optional"
	StateTransient ExtensionState = "transient"
)

// DefaultType is the packaging type of a feature identity
const DefaultType = "slingosgifeature"

// Feature is one feature model document
type Feature struct {
	ID                  types.ArtifactID
	Title               string
	Description         string
	Variables           *types.OrderedMap[string]
	Bundles             []*Artifact
	Configurations      []*Configuration
	FrameworkProperties *types.OrderedMap[string]
	Extensions          []*Extension
	Prototype           *Prototype
	// Location is where the feature was read from, if anywhere
	Location string
}

// New creates an empty feature with the given identity
func New(id types.ArtifactID) *Feature {
	return &Feature{
		ID:                  id,
		Variables:           types.NewOrderedMap[string](),
		FrameworkProperties: types.NewOrderedMap[string](),
	}
}

// Extension returns the named extension or nil
func (f *Feature) Extension(name string) *Extension {
	for _, e := range f.Extensions {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// Configuration returns the configuration with the given pid or nil
func (f *Feature) Configuration(pid string) *Configuration {
	for _, c := range f.Configurations {
		if c.PID == pid {
			return c
		}
	}
	return nil
}

// Bundle returns the bundle with the same identity as id, ignoring the version
func (f *Feature) Bundle(id types.ArtifactID) *Artifact {
	for _, b := range f.Bundles {
		if b.ID.SameIdentity(id) {
			return b
		}
	}
	return nil
}

// Artifact is a bundle or extension artifact with string metadata
type Artifact struct {
	ID       types.ArtifactID
	Metadata *types.OrderedMap[string]
}

// NewArtifact creates an artifact with empty metadata
func NewArtifact(id types.ArtifactID) *Artifact {
	return &Artifact{ID: id, Metadata: types.NewOrderedMap[string]()}
}

// StartOrder parses the start-order metadata, 0 when absent or invalid
func (a *Artifact) StartOrder() int {
	v, ok := a.Metadata.Get("start-order")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0
	}
	return n
}

// Clone returns a deep copy
func (a *Artifact) Clone() *Artifact {
	return &Artifact{ID: a.ID, Metadata: a.Metadata.Clone()}
}

// Configuration is an OSGi configuration. Factory configurations use a
// "factoryPid~name" pid.
type Configuration struct {
	PID        string
	Properties *types.OrderedMap[any]
}

// NewConfiguration creates an empty configuration
func NewConfiguration(pid string) *Configuration {
	return &Configuration{PID: pid, Properties: types.NewOrderedMap[any]()}
}

// IsFactory reports whether the pid names a factory configuration
func (c *Configuration) IsFactory() bool {
	return strings.Contains(c.PID, "~")
}

// FactoryPID returns the factory part of a factory pid, "" otherwise
func (c *Configuration) FactoryPID() string {
	factory, _, ok := strings.Cut(c.PID, "~")
	if !ok {
		return ""
	}
	return factory
}

// Name returns the name part of a factory pid, "" otherwise
func (c *Configuration) Name() string {
	_, name, _ := strings.Cut(c.PID, "~")
	return name
}

// Clone returns a deep copy
func (c *Configuration) Clone() *Configuration {
	out := NewConfiguration(c.PID)
	for k, v := range c.Properties.All() {
		if list, ok := v.([]any); ok {
			v = slices.Clone(list)
		}
		out.Properties.Put(k, v)
	}
	return out
}

// Extension is a named, typed side channel payload. Exactly one of Text,
// JSON or Artifacts is meaningful, according to Type.
type Extension struct {
	Name      string
	Type      ExtensionType
	State     ExtensionState
	Text      string
	JSON      string
	Artifacts []*Artifact
}

// NewExtension creates an empty extension
func NewExtension(name string, typ ExtensionType, state ExtensionState) *Extension {
	return &Extension{Name: name, Type: typ, State: state}
}

// Required reports whether launchers must understand the extension
func (e *Extension) Required() bool {
	return e.State == StateRequired
}

// Clone returns a deep copy
func (e *Extension) Clone() *Extension {
	out := *e
	out.Artifacts = nil
	for _, a := range e.Artifacts {
		out.Artifacts = append(out.Artifacts, a.Clone())
	}
	return &out
}

// Prototype references a feature this one is derived from, minus removals
type Prototype struct {
	ID                        types.ArtifactID
	BundleRemovals            []types.ArtifactID
	ConfigurationRemovals     []string
	FrameworkPropertyRemovals []string
	ExtensionRemovals         []string
}

// Clone returns a deep copy of the feature
func (f *Feature) Clone() *Feature {
	out := New(f.ID)
	out.Title = f.Title
	out.Description = f.Description
	out.Location = f.Location
	out.Variables = f.Variables.Clone()
	out.FrameworkProperties = f.FrameworkProperties.Clone()
	for _, b := range f.Bundles {
		out.Bundles = append(out.Bundles, b.Clone())
	}
	for _, c := range f.Configurations {
		out.Configurations = append(out.Configurations, c.Clone())
	}
	for _, e := range f.Extensions {
		out.Extensions = append(out.Extensions, e.Clone())
	}
	if f.Prototype != nil {
		p := *f.Prototype
		p.BundleRemovals = slices.Clone(f.Prototype.BundleRemovals)
		p.ConfigurationRemovals = slices.Clone(f.Prototype.ConfigurationRemovals)
		p.FrameworkPropertyRemovals = slices.Clone(f.Prototype.FrameworkPropertyRemovals)
		p.ExtensionRemovals = slices.Clone(f.Prototype.ExtensionRemovals)
		out.Prototype = &p
	}
	return out
}
