// Package terminal renders command results with lipgloss styles
package terminal

import (
	"io"

	"github.com/arthur-debert/modelconv/pkg/ui/styles"
	"github.com/arthur-debert/modelconv/pkg/ui/text"
)

// New creates a terminal renderer
func New(output io.Writer) *text.Renderer {
	return text.NewStyled(output, styles.Render)
}
