// Command renderpng renders a saved viewer state to a PNG without a display.
package main

import (
	"flag"
	"fmt"
	"os"

	"mol2d/internal/export"
	"mol2d/internal/project"
)

func main() {
	in := flag.String("i", "", "Path to state file")
	out := flag.String("o", "out.png", "Output PNG path")
	width := flag.Int("w", 0, "Override render width")
	height := flag.Int("h", 0, "Override render height")
	frame := flag.Int("frame", -1, "Active frame index (default: as saved)")
	flag.Parse()

	if *in == "" {
		fmt.Println("Usage: renderpng -i <state file> [-o out.png] [-w N] [-h N] [-frame N]")
		os.Exit(1)
	}

	s, err := project.Load(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load state: %v\n", err)
		os.Exit(1)
	}

	if *width > 0 {
		s.Config.Display.Width = *width
	}
	if *height > 0 {
		s.Config.Display.Height = *height
	}
	if *frame >= 0 {
		for _, obj := range s.Objects() {
			obj.SetActiveIndex(*frame)
		}
	}

	if err := export.PNG(s, *out); err != nil {
		fmt.Fprintf(os.Stderr, "Render failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Rendered %d object(s) to %s (%dx%d)\n",
		s.Len(), *out, s.Config.Display.Width, s.Config.Display.Height)
}
