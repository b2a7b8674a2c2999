package provisioning

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arthur-debert/modelconv/pkg/errors"
	"github.com/arthur-debert/modelconv/pkg/types"
)

// Write serializes the model in the provisioning text format
func Write(w io.Writer, m *Model) error {
	bw := bufio.NewWriter(w)
	for i, f := range m.Features {
		if i > 0 {
			fmt.Fprintln(bw)
		}
		if err := writeFeature(bw, f); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, errors.ErrModelWrite, "cannot write provisioning model")
	}
	return nil
}

func writeFeature(w *bufio.Writer, f *Feature) error {
	fmt.Fprintf(w, "[feature name=%s", f.Name)
	if f.Version != "" {
		fmt.Fprintf(w, " version=%s", f.Version)
	}
	fmt.Fprintln(w, "]")

	if f.Variables.Len() > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "[variables]")
		for k, v := range f.Variables.All() {
			fmt.Fprintf(w, "  %s=%s\n", k, v)
		}
	}

	for _, rm := range f.RunModes {
		if err := writeRunMode(w, rm); err != nil {
			return err
		}
	}

	for _, s := range f.Sections {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "[:%s%s]\n", s.Name, formatAttributes(s.Attributes))
		for _, line := range strings.Split(strings.TrimRight(s.Contents, "\n"), "\n") {
			if line == "" {
				fmt.Fprintln(w)
				continue
			}
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
	return nil
}

func writeRunMode(w *bufio.Writer, rm *RunMode) error {
	runModeAttr := ""
	if !rm.IsDefault() {
		runModeAttr = " runModes=" + strings.Join(rm.Names, ",")
	}

	if rm.Settings.Len() > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "[settings%s]\n", runModeAttr)
		for k, v := range rm.Settings.All() {
			fmt.Fprintf(w, "  %s=%s\n", k, v)
		}
	}

	for _, g := range rm.ArtifactGroups {
		if len(g.Artifacts) == 0 {
			continue
		}
		fmt.Fprintln(w)
		fmt.Fprint(w, "[artifacts")
		if g.StartLevel > 0 {
			fmt.Fprintf(w, " startLevel=%s", strconv.Itoa(g.StartLevel))
		}
		fmt.Fprintf(w, "%s]\n", runModeAttr)
		for _, a := range g.Artifacts {
			fmt.Fprintf(w, "  %s%s\n", a.ID.MvnPath(), formatMetadata(a.Metadata))
		}
	}

	if len(rm.Configurations) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "[configurations%s]\n", runModeAttr)
		for _, c := range rm.Configurations {
			if c.IsFactory() {
				fmt.Fprintf(w, "  %s-%s\n", c.FactoryPID, c.PID)
			} else {
				fmt.Fprintf(w, "  %s\n", c.PID)
			}
			for k, v := range c.Properties.All() {
				encoded, err := FormatPropertyValue(v)
				if err != nil {
					return errors.Wrapf(err, errors.ErrModelWrite, "cannot write property %s of %s", k, c.PID)
				}
				fmt.Fprintf(w, "    %s=%s\n", k, encoded)
			}
		}
	}
	return nil
}

func formatMetadata(m *types.OrderedMap[string]) string {
	if m.Len() == 0 {
		return ""
	}
	parts := make([]string, 0, m.Len())
	for k, v := range m.All() {
		parts = append(parts, k+"="+v)
	}
	return " [" + strings.Join(parts, ",") + "]"
}

func formatAttributes(m *types.OrderedMap[string]) string {
	var b strings.Builder
	for k, v := range m.All() {
		b.WriteString(" ")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(v)
	}
	return b.String()
}
