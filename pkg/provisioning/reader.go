package provisioning

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/arthur-debert/modelconv/pkg/errors"
	"github.com/arthur-debert/modelconv/pkg/types"
)

const (
	sectionFeature        = "feature"
	sectionVariables      = "variables"
	sectionSettings       = "settings"
	sectionArtifacts      = "artifacts"
	sectionConfigurations = "configurations"

	attrName       = "name"
	attrVersion    = "version"
	attrRunModes   = "runModes"
	attrStartLevel = "startLevel"
)

type parser struct {
	model    *Model
	location string
	lineNo   int

	feature  *Feature
	section  string
	runMode  *RunMode
	group    *ArtifactGroup
	config   *Configuration
	cfgDepth int
	extra    *Section
	extraBuf []string

	pendingKey   string
	pendingValue strings.Builder
	continuing   bool
}

// Read parses a provisioning model from its text form. location is only used
// for error messages and recorded on the model.
func Read(r io.Reader, location string) (*Model, error) {
	p := &parser{model: NewModel(), location: location}
	p.model.Location = location

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		p.lineNo++
		if err := p.line(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, errors.ErrModelRead, "cannot read %s", location)
	}
	if err := p.finishSection(); err != nil {
		return nil, err
	}
	return p.model, nil
}

func (p *parser) fail(format string, args ...interface{}) error {
	return errors.Newf(errors.ErrModelParse, format, args...).
		WithDetail("location", p.location).
		WithDetail("line", p.lineNo)
}

func (p *parser) line(raw string) error {
	if p.continuing {
		return p.continueProperty(raw)
	}

	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "[") {
		if err := p.finishSection(); err != nil {
			return err
		}
		return p.header(trimmed)
	}

	if p.extra != nil {
		p.extraBuf = append(p.extraBuf, raw)
		return nil
	}
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil
	}
	if p.feature == nil || p.section == "" {
		return p.fail("content outside of a section: %q", trimmed)
	}

	switch p.section {
	case sectionFeature:
		return p.fail("unexpected content in feature header: %q", trimmed)
	case sectionVariables:
		k, v, err := p.keyValue(trimmed)
		if err != nil {
			return err
		}
		p.feature.Variables.Put(k, v)
	case sectionSettings:
		k, v, err := p.keyValue(trimmed)
		if err != nil {
			return err
		}
		p.runMode.Settings.Put(k, v)
	case sectionArtifacts:
		return p.artifact(trimmed)
	case sectionConfigurations:
		return p.configurationLine(raw, trimmed)
	}
	return nil
}

func (p *parser) header(line string) error {
	if !strings.HasSuffix(line, "]") {
		return p.fail("unterminated section header %q", line)
	}
	fields := strings.Fields(strings.TrimSuffix(strings.TrimPrefix(line, "["), "]"))
	if len(fields) == 0 {
		return p.fail("empty section header")
	}
	name := fields[0]
	attrs := types.NewOrderedMap[string]()
	for _, f := range fields[1:] {
		k, v, ok := strings.Cut(f, "=")
		if !ok {
			return p.fail("invalid section attribute %q", f)
		}
		attrs.Put(k, v)
	}

	if name == sectionFeature {
		featureName, _ := attrs.Get(attrName)
		if featureName == "" {
			featureName = DefaultFeatureName
		}
		if p.model.Feature(featureName) != nil {
			return p.fail("duplicate feature %q", featureName)
		}
		p.feature = p.model.GetOrCreateFeature(featureName)
		p.feature.Version, _ = attrs.Get(attrVersion)
		p.feature.Location = p.location
		p.section = sectionFeature
		return nil
	}
	if p.feature == nil {
		return p.fail("section %q before any feature", name)
	}

	if strings.HasPrefix(name, ":") {
		p.extra = NewSection(strings.TrimPrefix(name, ":"))
		p.extra.Attributes = attrs
		p.section = ""
		return nil
	}

	var runModes []string
	if rm, ok := attrs.Get(attrRunModes); ok && rm != "" {
		runModes = strings.Split(rm, ",")
	}

	switch name {
	case sectionVariables:
		if runModes != nil {
			return p.fail("variables cannot be restricted to run modes")
		}
	case sectionSettings, sectionConfigurations:
		p.runMode = p.feature.GetOrCreateRunMode(runModes)
	case sectionArtifacts:
		level := 0
		if sl, ok := attrs.Get(attrStartLevel); ok {
			n, err := strconv.Atoi(sl)
			if err != nil {
				return p.fail("invalid start level %q", sl)
			}
			level = n
		}
		p.runMode = p.feature.GetOrCreateRunMode(runModes)
		p.group = p.runMode.GetOrCreateArtifactGroup(level)
	default:
		return p.fail("unknown section %q", name)
	}
	p.section = name
	p.config = nil
	return nil
}

func (p *parser) keyValue(line string) (string, string, error) {
	k, v, ok := strings.Cut(line, "=")
	if !ok {
		return "", "", p.fail("expected key=value, got %q", line)
	}
	return strings.TrimSpace(k), strings.TrimSpace(v), nil
}

func (p *parser) artifact(line string) error {
	coordinate := line
	var meta string
	if idx := strings.Index(line, "["); idx >= 0 {
		if !strings.HasSuffix(line, "]") {
			return p.fail("unterminated artifact metadata in %q", line)
		}
		coordinate = strings.TrimSpace(line[:idx])
		meta = line[idx+1 : len(line)-1]
	}
	id, err := types.ParseMvnPath(coordinate)
	if err != nil {
		return p.fail("%v", err)
	}
	a := NewArtifact(id)
	if strings.TrimSpace(meta) != "" {
		for _, entry := range strings.Split(meta, ",") {
			k, v, ok := strings.Cut(entry, "=")
			if !ok {
				return p.fail("invalid artifact metadata %q", entry)
			}
			a.Metadata.Put(strings.TrimSpace(k), strings.TrimSpace(v))
		}
	}
	p.group.Add(a)
	return nil
}

func (p *parser) configurationLine(raw, trimmed string) error {
	depth := len(raw) - len(strings.TrimLeft(raw, " \t"))
	if p.config != nil && depth > p.cfgDepth {
		return p.property(trimmed)
	}

	pid := trimmed
	if idx := strings.Index(pid, "["); idx >= 0 {
		// Only the Felix format is understood, the format attribute is informational
		pid = strings.TrimSpace(pid[:idx])
	}
	factoryPID := ""
	if idx := strings.Index(pid, "-"); idx > 0 && !strings.HasPrefix(pid, ":") {
		factoryPID = pid[:idx]
		pid = pid[idx+1:]
	}
	p.config = NewConfiguration(pid, factoryPID)
	p.cfgDepth = depth
	p.runMode.Configurations = append(p.runMode.Configurations, p.config)
	return nil
}

func (p *parser) property(line string) error {
	k, v, ok := strings.Cut(line, "=")
	if !ok {
		return p.fail("expected property key=value, got %q", line)
	}
	p.pendingKey = strings.TrimSpace(k)
	p.pendingValue.Reset()
	return p.appendPropertyText(v)
}

func (p *parser) continueProperty(raw string) error {
	return p.appendPropertyText(strings.TrimSpace(raw))
}

func (p *parser) appendPropertyText(text string) error {
	text = strings.TrimSpace(text)
	if strings.HasSuffix(text, `\`) {
		p.pendingValue.WriteString(strings.TrimSuffix(text, `\`))
		p.continuing = true
		return nil
	}
	p.pendingValue.WriteString(text)
	p.continuing = false
	v, err := ParsePropertyValue(p.pendingValue.String())
	if err != nil {
		return p.fail("invalid value for property %q: %v", p.pendingKey, err)
	}
	p.config.Properties.Put(p.pendingKey, v)
	return nil
}

func (p *parser) finishSection() error {
	if p.continuing {
		return p.fail("unterminated property continuation for %q", p.pendingKey)
	}
	if p.extra == nil {
		return nil
	}
	p.extra.Contents = dedent(p.extraBuf)
	p.feature.Sections = append(p.feature.Sections, p.extra)
	p.extra = nil
	p.extraBuf = nil
	return nil
}

// dedent removes the indentation common to all non blank lines and trims
// leading and trailing blank lines
func dedent(lines []string) string {
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	indent := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		switch {
		case indent <= 0:
			out[i] = l
		case len(l) >= indent:
			out[i] = l[indent:]
		default:
			out[i] = ""
		}
	}
	return strings.Join(out, "\n")
}
