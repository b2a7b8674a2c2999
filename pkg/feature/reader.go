package feature

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/modelconv/pkg/errors"
	"github.com/arthur-debert/modelconv/pkg/types"
)

const (
	keyID                  = "id"
	keyTitle               = "title"
	keyDescription         = "description"
	keyModelVersion        = "model-version"
	keyVariables           = "variables"
	keyBundles             = "bundles"
	keyConfigurations      = "configurations"
	keyFrameworkProperties = "framework-properties"
	keyPrototype           = "prototype"
	keyRemovals            = "removals"
	keyExtensions          = "extensions"
)

type reader struct {
	location string
}

// Read parses a feature from its JSON form. location is recorded on the
// feature and used in error messages.
func Read(r io.Reader, location string) (*Feature, error) {
	doc, err := decodeDocument(r)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrModelParse, "cannot parse feature %s", location).
			WithDetail("location", location)
	}
	root, ok := doc.(*object)
	if !ok {
		return nil, errors.Newf(errors.ErrModelParse, "feature %s is not a JSON object", location)
	}
	rd := &reader{location: location}
	f, err := rd.feature(root)
	if err != nil {
		return nil, err
	}
	f.Location = location
	return f, nil
}

func (rd *reader) fail(format string, args ...interface{}) error {
	return errors.Newf(errors.ErrModelParse, "%s: %s", rd.location, fmt.Sprintf(format, args...)).
		WithDetail("location", rd.location)
}

func (rd *reader) feature(root *object) (*Feature, error) {
	rawID, ok := root.Get(keyID)
	if !ok {
		return nil, rd.fail("feature without id")
	}
	idText, ok := rawID.(string)
	if !ok {
		return nil, rd.fail("id must be a string")
	}
	id, err := types.ParseMvnID(idText)
	if err != nil {
		return nil, rd.fail("invalid id %q", idText)
	}
	f := New(id)

	for key, value := range root.All() {
		switch key {
		case keyID, keyModelVersion:
		case keyTitle:
			f.Title, err = rd.text(key, value)
		case keyDescription:
			f.Description, err = rd.text(key, value)
		case keyVariables:
			err = rd.stringMap(key, value, f.Variables)
		case keyFrameworkProperties:
			err = rd.stringMap(key, value, f.FrameworkProperties)
		case keyBundles:
			f.Bundles, err = rd.artifacts(key, value)
		case keyConfigurations:
			f.Configurations, err = rd.configurations(value)
		case keyPrototype:
			f.Prototype, err = rd.prototype(value)
		default:
			var ext *Extension
			if ext, err = rd.extension(key, value); err == nil {
				if f.Extension(ext.Name) != nil {
					err = rd.fail("duplicate extension %q", ext.Name)
				}
				f.Extensions = append(f.Extensions, ext)
			}
		}
		if err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (rd *reader) text(key string, value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", rd.fail("%s must be a string", key)
	}
	return s, nil
}

func (rd *reader) stringMap(key string, value any, into *types.OrderedMap[string]) error {
	obj, ok := value.(*object)
	if !ok {
		return rd.fail("%s must be an object", key)
	}
	for k, v := range obj.All() {
		s, err := scalarString(v)
		if err != nil {
			return rd.fail("%s.%s: %v", key, k, err)
		}
		into.Put(k, s)
	}
	return nil
}

func (rd *reader) artifacts(key string, value any) ([]*Artifact, error) {
	list, ok := value.([]any)
	if !ok {
		return nil, rd.fail("%s must be an array", key)
	}
	out := make([]*Artifact, 0, len(list))
	for _, item := range list {
		a, err := rd.artifact(key, item)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (rd *reader) artifact(key string, value any) (*Artifact, error) {
	switch t := value.(type) {
	case string:
		id, err := types.ParseMvnID(t)
		if err != nil {
			return nil, rd.fail("%s: invalid artifact id %q", key, t)
		}
		return NewArtifact(id), nil
	case *object:
		rawID, _ := t.Get(keyID)
		idText, _ := rawID.(string)
		id, err := types.ParseMvnID(idText)
		if err != nil {
			return nil, rd.fail("%s: invalid artifact id %q", key, idText)
		}
		a := NewArtifact(id)
		for k, v := range t.All() {
			if k == keyID {
				continue
			}
			s, err := scalarString(v)
			if err != nil {
				return nil, rd.fail("%s: metadata %s of %s: %v", key, k, idText, err)
			}
			a.Metadata.Put(k, s)
		}
		return a, nil
	default:
		return nil, rd.fail("%s: artifact must be a string or an object", key)
	}
}

func (rd *reader) configurations(value any) ([]*Configuration, error) {
	obj, ok := value.(*object)
	if !ok {
		return nil, rd.fail("configurations must be an object")
	}
	var out []*Configuration
	for pid, rawProps := range obj.All() {
		props, ok := rawProps.(*object)
		if !ok {
			return nil, rd.fail("configuration %s must be an object", pid)
		}
		c := NewConfiguration(pid)
		for key, raw := range props.All() {
			name, hint, _ := splitTypeHint(key)
			v, err := decodeProperty(raw, hint)
			if err != nil {
				return nil, rd.fail("configuration %s property %s: %v", pid, key, err)
			}
			c.Properties.Put(name, v)
		}
		out = append(out, c)
	}
	return out, nil
}

func (rd *reader) prototype(value any) (*Prototype, error) {
	var idText string
	var removals *object
	switch t := value.(type) {
	case string:
		idText = t
	case *object:
		raw, _ := t.Get(keyID)
		idText, _ = raw.(string)
		if r, ok := t.Get(keyRemovals); ok {
			if removals, ok = r.(*object); !ok {
				return nil, rd.fail("prototype removals must be an object")
			}
		}
	default:
		return nil, rd.fail("prototype must be a string or an object")
	}
	id, err := types.ParseMvnID(idText)
	if err != nil {
		return nil, rd.fail("invalid prototype id %q", idText)
	}
	p := &Prototype{ID: id}
	for key, raw := range removals.All() {
		list, ok := raw.([]any)
		if !ok {
			return nil, rd.fail("prototype removals %s must be an array", key)
		}
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, rd.fail("prototype removals %s must contain strings", key)
			}
			switch key {
			case keyBundles:
				bid, err := types.ParseMvnID(s)
				if err != nil {
					return nil, rd.fail("invalid bundle removal %q", s)
				}
				p.BundleRemovals = append(p.BundleRemovals, bid)
			case keyConfigurations:
				p.ConfigurationRemovals = append(p.ConfigurationRemovals, s)
			case keyFrameworkProperties:
				p.FrameworkPropertyRemovals = append(p.FrameworkPropertyRemovals, s)
			case keyExtensions:
				p.ExtensionRemovals = append(p.ExtensionRemovals, s)
			default:
				return nil, rd.fail("unknown prototype removal %q", key)
			}
		}
	}
	return p, nil
}

// ParseExtensionKey splits "name:TYPE|state". The type defaults to JSON and
// the state to optional; "true" and "false" are accepted as states.
func ParseExtensionKey(key string) (string, ExtensionType, ExtensionState, error) {
	spec, stateText, hasState := strings.Cut(key, "|")
	name, typeText, hasType := strings.Cut(spec, ":")
	if name == "" {
		return "", "", "", fmt.Errorf("extension without name: %q", key)
	}
	typ := ExtensionJSON
	if hasType {
		typ = ExtensionType(strings.ToUpper(typeText))
		switch typ {
		case ExtensionText, ExtensionJSON, ExtensionArtifacts:
		default:
			return "", "", "", fmt.Errorf("unknown extension type %q", typeText)
		}
	}
	state := StateOptional
	if hasState {
		switch strings.ToLower(stateText) {
		case "true", string(StateRequired):
			state = StateRequired
		case "false", string(StateOptional):
			state = StateOptional
		case string(StateTransient):
			state = StateTransient
		default:
			return "", "", "", fmt.Errorf("unknown extension state %q", stateText)
		}
	}
	return name, typ, state, nil
}

func (rd *reader) extension(key string, value any) (*Extension, error) {
	name, typ, state, err := ParseExtensionKey(key)
	if err != nil {
		return nil, rd.fail("%v", err)
	}
	ext := NewExtension(name, typ, state)
	switch typ {
	case ExtensionText:
		switch t := value.(type) {
		case string:
			ext.Text = t
		case []any:
			lines := make([]string, 0, len(t))
			for _, item := range t {
				s, ok := item.(string)
				if !ok {
					return nil, rd.fail("extension %s: text lines must be strings", name)
				}
				lines = append(lines, s)
			}
			ext.Text = strings.Join(lines, "\n")
		default:
			return nil, rd.fail("extension %s: text must be a string or an array of strings", name)
		}
	case ExtensionJSON:
		ext.JSON, err = compact(value)
		if err != nil {
			return nil, rd.fail("extension %s: %v", name, err)
		}
	case ExtensionArtifacts:
		ext.Artifacts, err = rd.artifacts(name, value)
		if err != nil {
			return nil, err
		}
	}
	return ext, nil
}

func compact(v any) (string, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// UnmarshalJSONExtension decodes a JSON extension payload into target
func UnmarshalJSONExtension(e *Extension, target any) error {
	if e.Type != ExtensionJSON {
		return errors.Newf(errors.ErrUnsupportedExtension, "extension %s is %s, not JSON", e.Name, e.Type)
	}
	if err := json.Unmarshal([]byte(e.JSON), target); err != nil {
		return errors.Wrapf(err, errors.ErrModelParse, "invalid JSON in extension %s", e.Name)
	}
	return nil
}
