package tui

import (
	"io"

	"github.com/aretw0/robobunny/pkg/domain"
	"github.com/muesli/termenv"
)

// Styler colours status output for a writer's colour profile.
type Styler struct {
	out *termenv.Output
}

// NewStyler detects the colour profile of w. Pass termenv options to force
// one, e.g. termenv.WithProfile(termenv.Ascii) in tests.
func NewStyler(w io.Writer, opts ...termenv.OutputOption) *Styler {
	return &Styler{out: termenv.NewOutput(w, opts...)}
}

var statusColors = map[domain.StatusKind]string{
	domain.StatusInfo:     "#60a5fa",
	domain.StatusRunning:  "#facc15",
	domain.StatusComplete: "#4ade80",
	domain.StatusError:    "#f87171",
}

// Status renders a status message prefixed with its kind marker.
func (s *Styler) Status(status domain.Status) string {
	marker := ">>>"
	switch status.Kind {
	case domain.StatusComplete:
		marker = "✔"
	case domain.StatusError:
		marker = "✘"
	}
	style := s.out.String(marker + " " + status.Message)
	if c, ok := statusColors[status.Kind]; ok {
		style = style.Foreground(s.out.Color(c))
	}
	if status.Kind == domain.StatusError {
		style = style.Bold()
	}
	return style.String()
}

// Highlight renders the active command line during a run.
func (s *Styler) Highlight(text string) string {
	return s.out.String(text).Reverse().String()
}
