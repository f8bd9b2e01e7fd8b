// Command aligncheck reports per-frame alignment quality for a saved state.
package main

import (
	"flag"
	"fmt"
	"os"

	"mol2d/internal/alignment"
	"mol2d/internal/project"
)

func main() {
	in := flag.String("i", "", "Path to state file")
	objName := flag.String("obj", "", "Object name (default: all objects)")
	flag.Parse()

	if *in == "" {
		fmt.Println("Usage: aligncheck -i <state file> [-obj <name>]")
		os.Exit(1)
	}

	s, err := project.Load(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load state: %v\n", err)
		os.Exit(1)
	}

	for _, obj := range s.Objects() {
		if *objName != "" && obj.Name != *objName {
			continue
		}
		fmt.Printf("=== Object %s (%d frames) ===\n", obj.Name, obj.FrameCount())

		ref := obj.Frame(0)
		if ref == nil {
			fmt.Println("  empty object")
			continue
		}

		rot, center := alignment.BestOrientation(ref.Coords())
		fmt.Printf("  center: (%.2f, %.2f, %.2f)\n", center.X, center.Y, center.Z)
		for r := 0; r < 3; r++ {
			fmt.Printf("  view  : [%8.4f %8.4f %8.4f]\n", rot[r][0], rot[r][1], rot[r][2])
		}

		for i := 1; i < obj.FrameCount(); i++ {
			f := obj.Frame(i)
			if f.Len() != ref.Len() {
				fmt.Printf("  frame %d: %d positions (reference has %d), not comparable\n",
					i, f.Len(), ref.Len())
				continue
			}
			fmt.Printf("  frame %d: RMSD to frame 0 = %.3f\n",
				i, alignment.RMSD(f.Coords(), ref.Coords()))
		}
	}
}
