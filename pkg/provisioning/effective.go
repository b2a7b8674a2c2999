package provisioning

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/arthur-debert/modelconv/pkg/errors"
	"github.com/arthur-debert/modelconv/pkg/types"
)

// VariableResolver supplies the replacement for a ${name} placeholder found
// in feature. Call sites differ in policy (keep, substitute, fail), so the
// policy is always injected.
type VariableResolver func(f *Feature, name string) (string, error)

// KeepPlaceholders leaves every placeholder untouched
func KeepPlaceholders(_ *Feature, name string) (string, error) {
	return "${" + name + "}", nil
}

// FromVariables substitutes feature variables and fails on unknown names
func FromVariables(f *Feature, name string) (string, error) {
	if v, ok := f.Variables.Get(name); ok {
		return v, nil
	}
	return "", errors.Newf(errors.ErrModelInvalid, "undefined variable %q in feature %s", name, f.Name)
}

// FromVariablesOrKeep substitutes feature variables and keeps unknown placeholders
func FromVariablesOrKeep(f *Feature, name string) (string, error) {
	if v, ok := f.Variables.Get(name); ok {
		return v, nil
	}
	return KeepPlaceholders(f, name)
}

var placeholder = regexp.MustCompile(`\$\{([^}]+)\}`)

// Effective returns a copy of the model with placeholders in artifact
// coordinates and metadata, settings and string configuration values
// replaced through resolver. The input model is not modified.
func Effective(m *Model, resolver VariableResolver) (*Model, error) {
	out := m.Clone()
	for _, f := range out.Features {
		subst := func(s string) (string, error) {
			var firstErr error
			res := placeholder.ReplaceAllStringFunc(s, func(match string) string {
				name := placeholder.FindStringSubmatch(match)[1]
				v, err := resolver(f, name)
				if err != nil && firstErr == nil {
					firstErr = err
				}
				return v
			})
			return res, firstErr
		}
		if err := substituteFeature(f, subst); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func substituteFeature(f *Feature, subst func(string) (string, error)) error {
	var err error
	for _, rm := range f.RunModes {
		for _, g := range rm.ArtifactGroups {
			for _, a := range g.Artifacts {
				fields := []*string{&a.ID.GroupID, &a.ID.ArtifactID, &a.ID.Version, &a.ID.Classifier, &a.ID.Type}
				for _, field := range fields {
					if *field, err = subst(*field); err != nil {
						return err
					}
				}
				if err := substituteMap(a.Metadata, subst); err != nil {
					return err
				}
			}
		}
		if err := substituteMap(rm.Settings, subst); err != nil {
			return err
		}
		for _, c := range rm.Configurations {
			for k, v := range c.Properties.All() {
				s, ok := v.(string)
				if !ok {
					continue
				}
				if s, err = subst(s); err != nil {
					return err
				}
				c.Properties.Put(k, s)
			}
		}
	}
	return nil
}

func substituteMap(m *types.OrderedMap[string], subst func(string) (string, error)) error {
	for k, v := range m.All() {
		s, err := subst(v)
		if err != nil {
			return err
		}
		m.Put(k, s)
	}
	return nil
}

// Merge folds next into base, the way later model files override earlier
// ones: features and run modes are matched by name, variables and settings
// overwrite, an artifact replaces any artifact with the same identity in the
// run mode (whatever its start level), configurations with the same pid have
// their properties merged and sections are appended.
func Merge(base, next *Model) {
	for _, nf := range next.Features {
		bf := base.GetOrCreateFeature(nf.Name)
		if nf.Version != "" {
			bf.Version = nf.Version
		}
		if bf.Location == "" {
			bf.Location = nf.Location
		}
		bf.Variables.PutAll(nf.Variables)
		for _, nrm := range nf.RunModes {
			brm := bf.GetOrCreateRunMode(nrm.Names)
			brm.Settings.PutAll(nrm.Settings)
			for _, ng := range nrm.ArtifactGroups {
				bg := brm.GetOrCreateArtifactGroup(ng.StartLevel)
				for _, a := range ng.Artifacts {
					for _, g := range brm.ArtifactGroups {
						g.Remove(a)
					}
					bg.Add(a.Clone())
				}
			}
			for _, nc := range nrm.Configurations {
				if bc := brm.Configuration(nc.PID, nc.FactoryPID); bc != nil {
					bc.Properties.PutAll(nc.Properties)
					continue
				}
				brm.Configurations = append(brm.Configurations, nc.Clone())
			}
		}
		for _, s := range nf.Sections {
			bf.Sections = append(bf.Sections, s.Clone())
		}
	}
}

// Validate checks the invariants the converter relies on and reports all
// violations in one error
func Validate(m *Model) error {
	var problems []string
	seen := map[string]bool{}
	for _, f := range m.Features {
		if seen[f.Name] {
			problems = append(problems, fmt.Sprintf("duplicate feature %q", f.Name))
		}
		seen[f.Name] = true
		for i, rm := range f.RunModes {
			for _, other := range f.RunModes[:i] {
				if SameRunModeNames(rm.Names, other.Names) {
					problems = append(problems, fmt.Sprintf("feature %s: run mode %s declared twice", f.Name, rm))
				}
			}
			for _, g := range rm.ArtifactGroups {
				for j, a := range g.Artifacts {
					if a.ID.GroupID == "" || a.ID.ArtifactID == "" || a.ID.Version == "" {
						problems = append(problems, fmt.Sprintf("feature %s: incomplete artifact %q", f.Name, a.ID.MvnPath()))
					}
					if slices.ContainsFunc(g.Artifacts[:j], func(o *Artifact) bool { return o.ID.SameIdentity(a.ID) }) {
						problems = append(problems, fmt.Sprintf("feature %s: artifact %s listed twice at start level %d", f.Name, a.ID.MvnPath(), g.StartLevel))
					}
				}
			}
			for _, c := range rm.Configurations {
				if c.PID == "" {
					problems = append(problems, fmt.Sprintf("feature %s: configuration without pid", f.Name))
				}
			}
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return errors.Newf(errors.ErrModelInvalid, "invalid provisioning model %s: %d problem(s)", m.Location, len(problems)).
		WithDetail("problems", problems)
}
