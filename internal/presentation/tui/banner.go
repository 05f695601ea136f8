package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []string{
	`  _                                         _ _    `,
	` | |__  _   _ _ __   ___ _ ____      ____ _| | | __`,
	` | '_ \| | | | '_ \ / _ \ '__\ \ /\ / / _' | | |/ /`,
	` | | | | |_| | |_) |  __/ |   \ V  V / (_| | |   < `,
	` |_| |_|\__, | .__/ \___|_|    \_/\_/ \__,_|_|_|\_\`,
	`        |___/|_|                                   `,
}

var bannerColors = []string{"#818cf8", "#a78bfa", "#c084fc", "#e879f9", "#f472b6", "#fb7185"}

// PrintBanner writes the hyperwalk banner to w using the colour profile of out.
func PrintBanner(w io.Writer, out *termenv.Output) {
	fmt.Fprintln(w)
	for i, line := range bannerLines {
		fmt.Fprintln(w, out.String(line).Foreground(out.Color(bannerColors[i])))
	}
	fmt.Fprintln(w)
}
