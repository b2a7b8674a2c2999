package feature

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/arthur-debert/modelconv/pkg/errors"
	"github.com/arthur-debert/modelconv/pkg/types"
)

// Write serializes the feature as indented JSON
func Write(w io.Writer, f *Feature) error {
	doc, err := toDocument(f)
	if err != nil {
		return err
	}
	var compactBuf bytes.Buffer
	if err := encodeValue(&compactBuf, doc); err != nil {
		return errors.Wrapf(err, errors.ErrModelWrite, "cannot encode feature %s", f.ID)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compactBuf.Bytes(), "", "  "); err != nil {
		return errors.Wrapf(err, errors.ErrModelWrite, "cannot encode feature %s", f.ID)
	}
	out.WriteByte('\n')
	if _, err := w.Write(out.Bytes()); err != nil {
		return errors.Wrapf(err, errors.ErrModelWrite, "cannot write feature %s", f.ID)
	}
	return nil
}

// ExtensionKey renders "name:TYPE|state"
func ExtensionKey(e *Extension) string {
	state := e.State
	if state == "" {
		state = StateOptional
	}
	return e.Name + ":" + string(e.Type) + "|" + string(state)
}

func toDocument(f *Feature) (*object, error) {
	doc := types.NewOrderedMap[any]()
	doc.Put(keyID, f.ID.MvnID())
	if f.Title != "" {
		doc.Put(keyTitle, f.Title)
	}
	if f.Description != "" {
		doc.Put(keyDescription, f.Description)
	}
	if f.Prototype != nil {
		doc.Put(keyPrototype, prototypeDocument(f.Prototype))
	}
	if f.Variables.Len() > 0 {
		doc.Put(keyVariables, stringObject(f.Variables))
	}
	if f.FrameworkProperties.Len() > 0 {
		doc.Put(keyFrameworkProperties, stringObject(f.FrameworkProperties))
	}
	if len(f.Bundles) > 0 {
		doc.Put(keyBundles, artifactList(f.Bundles))
	}
	if len(f.Configurations) > 0 {
		configs := types.NewOrderedMap[any]()
		for _, c := range f.Configurations {
			props := types.NewOrderedMap[any]()
			for k, v := range c.Properties.All() {
				if hint := typeHint(v); hint != "" {
					k = k + ":" + hint
				}
				props.Put(k, v)
			}
			configs.Put(c.PID, props)
		}
		doc.Put(keyConfigurations, configs)
	}
	for _, e := range f.Extensions {
		switch e.Type {
		case ExtensionText:
			doc.Put(ExtensionKey(e), e.Text)
		case ExtensionJSON:
			if !json.Valid([]byte(e.JSON)) {
				return nil, errors.Newf(errors.ErrModelWrite, "extension %s does not hold valid JSON", e.Name)
			}
			doc.Put(ExtensionKey(e), json.RawMessage(e.JSON))
		case ExtensionArtifacts:
			doc.Put(ExtensionKey(e), artifactList(e.Artifacts))
		default:
			return nil, errors.Newf(errors.ErrUnsupportedExtension, "extension %s has unknown type %q", e.Name, e.Type)
		}
	}
	return doc, nil
}

func stringObject(m *types.OrderedMap[string]) *object {
	out := types.NewOrderedMap[any]()
	for k, v := range m.All() {
		out.Put(k, v)
	}
	return out
}

func artifactList(artifacts []*Artifact) []any {
	out := make([]any, 0, len(artifacts))
	for _, a := range artifacts {
		if a.Metadata.Len() == 0 {
			out = append(out, a.ID.MvnID())
			continue
		}
		entry := types.NewOrderedMap[any]()
		entry.Put(keyID, a.ID.MvnID())
		for k, v := range a.Metadata.All() {
			entry.Put(k, v)
		}
		out = append(out, entry)
	}
	return out
}

func prototypeDocument(p *Prototype) *object {
	doc := types.NewOrderedMap[any]()
	doc.Put(keyID, p.ID.MvnID())
	removals := types.NewOrderedMap[any]()
	if len(p.BundleRemovals) > 0 {
		ids := make([]string, len(p.BundleRemovals))
		for i, id := range p.BundleRemovals {
			ids[i] = id.MvnID()
		}
		removals.Put(keyBundles, ids)
	}
	if len(p.ConfigurationRemovals) > 0 {
		removals.Put(keyConfigurations, p.ConfigurationRemovals)
	}
	if len(p.FrameworkPropertyRemovals) > 0 {
		removals.Put(keyFrameworkProperties, p.FrameworkPropertyRemovals)
	}
	if len(p.ExtensionRemovals) > 0 {
		removals.Put(keyExtensions, p.ExtensionRemovals)
	}
	if removals.Len() > 0 {
		doc.Put(keyRemovals, removals)
	}
	return doc
}
