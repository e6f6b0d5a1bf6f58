package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the dyeflow banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	// Indigo to amber, the process and outcome colors.
	lines := []struct{ text, color string }{
		{"      _             __ _               ", "#818cf8"},
		{"   __| |_   _  ___ / _| | _____      __", "#6366f1"},
		{"  / _` | | | |/ _ \\ |_| |/ _ \\ \\ /\\ / /", "#10b981"},
		{" | (_| | |_| |  __/  _| | (_) \\ V  V / ", "#34d399"},
		{"  \\__,_|\\__, |\\___|_| |_|\\___/ \\_/\\_/  ", "#f59e0b"},
		{"        |___/                          ", "#fbbf24"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	if v := strings.TrimSpace(version); v != "" {
		fmt.Fprintln(w, termenv.String("  v"+v).Faint())
	}
	fmt.Fprintln(w)
}
