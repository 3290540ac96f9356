package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the punchline banner and version to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	// Warm gradient, top to bottom.
	colors := []string{"#facc15", "#fb923c", "#f87171", "#f472b6"}
	lines := []string{
		"  ___ _  _ _  _  ___ _  _ _    ___ _  _ ___ ",
		" | _ \\ || | \\| |/ __| || | |  |_ _| \\| | __|",
		" |  _/ __ | .` | (__| __ | |__ | || .` | _| ",
		" |_| |_||_|_|\\_|\\___|_||_|____|___|_|\\_|___|",
	}

	fmt.Fprintln(w)
	for i, line := range lines {
		fmt.Fprintln(w, out.String(line).Foreground(out.Color(colors[i%len(colors)])))
	}
	fmt.Fprintln(w, out.String(fmt.Sprintf("  jokes, critiqued. %s", version)).Faint())
	fmt.Fprintln(w)
}
