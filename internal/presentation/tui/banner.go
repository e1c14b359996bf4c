package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the strips banner followed by version to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"      _        _           ", "#818cf8"},
		{"  ___| |_ _ __(_)_ __  ___ ", "#a78bfa"},
		{" / __| __| '__| | '_ \\/ __|", "#c084fc"},
		{" \\__ \\ |_| |  | | |_) \\__ \\", "#e879f9"},
		{" |___/\\__|_|  |_| .__/|___/", "#f472b6"},
		{"                |_|        ", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, out.String(" "+version).Faint())
	fmt.Fprintln(w)
}
