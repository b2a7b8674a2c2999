// Package text renders command results as plain text. The terminal
// renderer reuses it with a styling function.
package text

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/arthur-debert/modelconv/pkg/errors"
	"github.com/arthur-debert/modelconv/pkg/types"
)

// Styler decorates text with a named style
type Styler func(style, text string) string

func plain(_ string, text string) string { return text }

// Renderer writes results line by line
type Renderer struct {
	output io.Writer
	style  Styler
}

// New creates a plain text renderer
func New(output io.Writer) *Renderer {
	return NewStyled(output, plain)
}

// NewStyled creates a renderer that passes every fragment through style
func NewStyled(output io.Writer, style Styler) *Renderer {
	return &Renderer{output: output, style: style}
}

var statusStyles = map[types.OutputStatus]string{
	types.OutputWritten:  "Written",
	types.OutputReplaced: "Replaced",
	types.OutputUpToDate: "UpToDate",
}

// RenderResult renders the known result types and prints anything else
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *types.ConversionResult:
		return r.renderConversion(v)
	case *types.GenConfigResult:
		if len(v.FilesWritten) == 0 {
			_, err := io.WriteString(r.output, v.ConfigContent)
			return err
		}
		for _, path := range v.FilesWritten {
			if err := r.printf("Written %s\n", r.style("FilePath", path)); err != nil {
				return err
			}
		}
		return nil
	default:
		return r.printf("%+v\n", result)
	}
}

func (r *Renderer) renderConversion(res *types.ConversionResult) error {
	written := res.Count(types.OutputWritten) + res.Count(types.OutputReplaced)
	summary := fmt.Sprintf("%s: %d written, %d up to date", res.Command, written, res.Count(types.OutputUpToDate))
	if err := r.printf("%s\n", r.style("Header", summary)); err != nil {
		return err
	}
	for _, o := range res.Outputs {
		status := r.style(statusStyles[o.Status], fmt.Sprintf("%-11s", o.Status))
		line := "  " + status + " " + r.style("FilePath", o.Path)
		if o.ID != "" {
			line += " " + r.style("Muted", o.ID)
		}
		if err := r.printf("%s\n", line); err != nil {
			return err
		}
	}
	if len(res.RunModes) > 0 {
		return r.printf("%s\n", r.style("Muted", "run modes: "+strings.Join(res.RunModes, ",")))
	}
	return nil
}

// RenderError renders the error followed by its details, sorted by key
func (r *Renderer) RenderError(err error) error {
	if perr := r.printf("%s %v\n", r.style("Error", "Error:"), err); perr != nil {
		return perr
	}
	details := errors.GetErrorDetails(err)
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if perr := r.printf("%s\n", r.style("Detail", fmt.Sprintf("%s: %v", k, details[k]))); perr != nil {
			return perr
		}
	}
	return nil
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	return r.printf("%s\n", msg)
}

func (r *Renderer) printf(format string, args ...interface{}) error {
	_, err := fmt.Fprintf(r.output, format, args...)
	return err
}
