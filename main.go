// Package main provides the entry point for the mol2d viewer application.
package main

import (
	"log"
	"os"

	"mol2d/internal/app"
	"mol2d/internal/version"
	"mol2d/ui/canvas"
	"mol2d/ui/mainwindow"

	fyneapp "fyne.io/fyne/v2/app"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting mol2d v%s", version.Version)

	fyneApp := fyneapp.NewWithID("io.mol2d.viewer")
	fyneApp.Settings().SetTheme(&app.ViewerTheme{})

	// The canvas is the render host, so it exists before the state.
	vc := canvas.NewViewerCanvas()
	state := app.NewState(vc)
	vc.Bind(state)

	win := mainwindow.New(fyneApp, state, vc)

	// Optional state file argument, kept live-reloading while open
	if len(os.Args) > 1 {
		path := os.Args[1]
		if err := state.LoadState(path); err != nil {
			log.Printf("Failed to load state %s: %v", path, err)
		} else {
			setupWatch(state, path)
		}
	}

	win.Show()
	fyneApp.Run()
}

// setupWatch reloads the state file whenever it changes on disk, so a
// rerun of an external prediction pipeline shows up immediately.
func setupWatch(state *app.State, path string) {
	watcher, err := app.NewFileWatcher(path)
	if err != nil {
		log.Printf("File watch unavailable for %s: %v", path, err)
		return
	}
	watcher.OnChange(func() {
		log.Printf("State file changed, reloading %s", path)
		if err := state.LoadState(path); err != nil {
			log.Printf("Reload failed: %v", err)
		}
	})
	watcher.Start()
}
