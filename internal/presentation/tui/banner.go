package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{"    ___                        _", "#38bdf8"},
	{"   / __\\__ _ ___  ___ __ _  __| | ___", "#22d3ee"},
	{"  / /  / _` / __|/ __/ _` |/ _` |/ _ \\", "#2dd4bf"},
	{" / /__| (_| \\__ \\ (_| (_| | (_| |  __/", "#34d399"},
	{" \\____/\\__,_|___/\\___\\__,_|\\__,_|\\___|", "#4ade80"},
}

// PrintBanner writes the cascade ASCII art banner to w using profile p.
// With termenv.Ascii the banner is printed without colour.
func PrintBanner(w io.Writer, p termenv.Profile) {
	fmt.Fprintln(w)
	for _, line := range bannerLines {
		fmt.Fprintln(w, p.String(line.text).Foreground(p.Color(line.color)))
	}
	fmt.Fprintln(w)
}
