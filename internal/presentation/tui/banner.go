package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the robobunny banner and version to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{`   ___       __       __                        `, "#f9a8d4"},
		{`  / _ \___  / /  ___ / /  __ _____  ___  __ __  `, "#f472b6"},
		{` / , _/ _ \/ _ \/ _ \/ _ \/ // / _ \/ _ \/ // /  `, "#ec4899"},
		{`/_/|_|\___/_.__/\___/_.__/\_,_/_//_/_//_/\_, /   `, "#db2777"},
		{`                                        /___/    `, "#be185d"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  v"+version).Faint())
	fmt.Fprintln(w)
}
