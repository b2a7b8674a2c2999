package provisioning

import (
	"slices"
	"strings"

	"github.com/arthur-debert/modelconv/pkg/types"
)

const (
	// BootFeature is the distinguished feature bootstrapped before the framework starts
	BootFeature = ":boot"
	// LaunchpadFeature carries the launcher artifacts
	LaunchpadFeature = ":launchpad"
	// DefaultFeatureName is used when a feature has no name
	DefaultFeatureName = "feature"
)

// Model is a provisioning model: an ordered list of features
type Model struct {
	Features []*Feature
	// Location is where the model was read from, if anywhere
	Location string
}

// NewModel creates an empty model
func NewModel() *Model {
	return &Model{}
}

// Feature returns the feature with the given name or nil
func (m *Model) Feature(name string) *Feature {
	for _, f := range m.Features {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// GetOrCreateFeature returns the named feature, appending a new one if missing
func (m *Model) GetOrCreateFeature(name string) *Feature {
	if f := m.Feature(name); f != nil {
		return f
	}
	f := NewFeature(name)
	m.Features = append(m.Features, f)
	return f
}

// Feature groups run modes, text sections and variables under a name
type Feature struct {
	Name      string
	Version   string
	RunModes  []*RunMode
	Sections  []*Section
	Variables *types.OrderedMap[string]
	Location  string
}

// NewFeature creates an empty feature
func NewFeature(name string) *Feature {
	return &Feature{
		Name:      name,
		Variables: types.NewOrderedMap[string](),
	}
}

// RunMode returns the run mode with exactly the given name set, or nil
func (f *Feature) RunMode(names []string) *RunMode {
	for _, rm := range f.RunModes {
		if SameRunModeNames(rm.Names, names) {
			return rm
		}
	}
	return nil
}

// GetOrCreateRunMode returns the run mode for names, creating it on first use.
// A nil or empty names slice denotes the default run mode.
func (f *Feature) GetOrCreateRunMode(names []string) *RunMode {
	if rm := f.RunMode(names); rm != nil {
		return rm
	}
	rm := NewRunMode(names)
	f.RunModes = append(f.RunModes, rm)
	return rm
}

// SectionsNamed returns all additional sections with the given name
func (f *Feature) SectionsNamed(name string) []*Section {
	var out []*Section
	for _, s := range f.Sections {
		if s.Name == name {
			out = append(out, s)
		}
	}
	return out
}

// SameRunModeNames compares two run mode name lists as sets: order and
// repeated names do not matter
func SameRunModeNames(a, b []string) bool {
	return slices.Equal(runModeSet(a), runModeSet(b))
}

func runModeSet(names []string) []string {
	set := slices.Clone(names)
	slices.Sort(set)
	return slices.Compact(set)
}

// RunMode holds the content that applies when all of its names are active
type RunMode struct {
	Names          []string
	ArtifactGroups []*ArtifactGroup
	Configurations []*Configuration
	Settings       *types.OrderedMap[string]
}

// NewRunMode creates an empty run mode. Repeated names are dropped, keeping
// the first occurrence; empty names are normalised to nil.
func NewRunMode(names []string) *RunMode {
	var copied []string
	for _, n := range names {
		if !slices.Contains(copied, n) {
			copied = append(copied, n)
		}
	}
	return &RunMode{
		Names:    copied,
		Settings: types.NewOrderedMap[string](),
	}
}

// IsDefault reports whether the run mode applies unconditionally
func (r *RunMode) IsDefault() bool {
	return len(r.Names) == 0
}

// String joins the names for logs
func (r *RunMode) String() string {
	if r.IsDefault() {
		return "<default>"
	}
	return strings.Join(r.Names, ",")
}

// ArtifactGroup returns the group for a start level, or nil
func (r *RunMode) ArtifactGroup(startLevel int) *ArtifactGroup {
	for _, g := range r.ArtifactGroups {
		if g.StartLevel == startLevel {
			return g
		}
	}
	return nil
}

// GetOrCreateArtifactGroup returns the group for a start level, creating it on
// first use. Groups stay sorted by start level.
func (r *RunMode) GetOrCreateArtifactGroup(startLevel int) *ArtifactGroup {
	if g := r.ArtifactGroup(startLevel); g != nil {
		return g
	}
	g := &ArtifactGroup{StartLevel: startLevel}
	idx, _ := slices.BinarySearchFunc(r.ArtifactGroups, startLevel, func(e *ArtifactGroup, level int) int {
		return e.StartLevel - level
	})
	r.ArtifactGroups = slices.Insert(r.ArtifactGroups, idx, g)
	return g
}

// Configuration returns the configuration with the given pid and factory pid, or nil
func (r *RunMode) Configuration(pid, factoryPID string) *Configuration {
	for _, c := range r.Configurations {
		if c.PID == pid && c.FactoryPID == factoryPID {
			return c
		}
	}
	return nil
}

// ArtifactGroup is the ordered list of artifacts started at one start level
type ArtifactGroup struct {
	StartLevel int
	Artifacts  []*Artifact
}

// Add appends an artifact
func (g *ArtifactGroup) Add(a *Artifact) {
	g.Artifacts = append(g.Artifacts, a)
}

// Search finds an artifact with the same identity, ignoring the version
func (g *ArtifactGroup) Search(a *Artifact) *Artifact {
	for _, candidate := range g.Artifacts {
		if candidate.ID.SameIdentity(a.ID) {
			return candidate
		}
	}
	return nil
}

// Remove deletes the artifact with the same identity
func (g *ArtifactGroup) Remove(a *Artifact) bool {
	for i, candidate := range g.Artifacts {
		if candidate.ID.SameIdentity(a.ID) {
			g.Artifacts = append(g.Artifacts[:i], g.Artifacts[i+1:]...)
			return true
		}
	}
	return false
}

// Artifact is a Maven coordinate plus free-form metadata
type Artifact struct {
	ID       types.ArtifactID
	Metadata *types.OrderedMap[string]
}

// NewArtifact creates an artifact with empty metadata
func NewArtifact(id types.ArtifactID) *Artifact {
	return &Artifact{ID: id, Metadata: types.NewOrderedMap[string]()}
}

// Configuration is an OSGi configuration. For factory configurations PID
// holds the configuration name and FactoryPID the factory.
type Configuration struct {
	PID        string
	FactoryPID string
	Properties *types.OrderedMap[any]
}

// NewConfiguration creates an empty configuration
func NewConfiguration(pid, factoryPID string) *Configuration {
	return &Configuration{
		PID:        pid,
		FactoryPID: factoryPID,
		Properties: types.NewOrderedMap[any](),
	}
}

// IsFactory reports whether this is a factory configuration
func (c *Configuration) IsFactory() bool {
	return c.FactoryPID != ""
}

// Section is a named block of free text such as a repoinit script
type Section struct {
	Name       string
	Attributes *types.OrderedMap[string]
	Contents   string
}

// NewSection creates an empty section
func NewSection(name string) *Section {
	return &Section{Name: name, Attributes: types.NewOrderedMap[string]()}
}

// Clone returns a deep copy of the model
func (m *Model) Clone() *Model {
	out := &Model{Location: m.Location}
	for _, f := range m.Features {
		out.Features = append(out.Features, f.Clone())
	}
	return out
}

// Clone returns a deep copy of the feature
func (f *Feature) Clone() *Feature {
	out := &Feature{
		Name:      f.Name,
		Version:   f.Version,
		Variables: f.Variables.Clone(),
		Location:  f.Location,
	}
	for _, rm := range f.RunModes {
		out.RunModes = append(out.RunModes, rm.Clone())
	}
	for _, s := range f.Sections {
		out.Sections = append(out.Sections, s.Clone())
	}
	return out
}

// Clone returns a deep copy of the run mode
func (r *RunMode) Clone() *RunMode {
	out := NewRunMode(r.Names)
	out.Settings = r.Settings.Clone()
	for _, g := range r.ArtifactGroups {
		cg := &ArtifactGroup{StartLevel: g.StartLevel}
		for _, a := range g.Artifacts {
			cg.Add(a.Clone())
		}
		out.ArtifactGroups = append(out.ArtifactGroups, cg)
	}
	for _, c := range r.Configurations {
		out.Configurations = append(out.Configurations, c.Clone())
	}
	return out
}

// Clone returns a deep copy of the artifact
func (a *Artifact) Clone() *Artifact {
	return &Artifact{ID: a.ID, Metadata: a.Metadata.Clone()}
}

// Clone returns a deep copy of the configuration
func (c *Configuration) Clone() *Configuration {
	out := NewConfiguration(c.PID, c.FactoryPID)
	for k, v := range c.Properties.All() {
		if list, ok := v.([]any); ok {
			v = slices.Clone(list)
		}
		out.Properties.Put(k, v)
	}
	return out
}

// Clone returns a deep copy of the section
func (s *Section) Clone() *Section {
	return &Section{Name: s.Name, Attributes: s.Attributes.Clone(), Contents: s.Contents}
}
