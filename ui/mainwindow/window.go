// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"path/filepath"
	"time"

	"mol2d/internal/app"
	"mol2d/internal/export"
	"mol2d/internal/scene"
	"mol2d/internal/version"
	"mol2d/ui/canvas"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const (
	prefKeyLastDir = "lastDirectory"

	playInterval = 100 * time.Millisecond
	spinStep     = 0.02 // radians per tick
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app    fyne.App
	state  *app.State
	canvas *canvas.ViewerCanvas

	frameSlider *widget.Slider
	frameLabel  *widget.Label
	playBtn     *widget.Button
	statusBar   *widget.Label

	playing  bool
	spinning bool
	stopPlay chan struct{}
	stopSpin chan struct{}

	// Menu items that need state tracking
	boxItem     *fyne.MenuItem
	overlayItem *fyne.MenuItem
	shadowItem  *fyne.MenuItem
	paeItem     *fyne.MenuItem
}

// New creates the main window around an already-bound viewer canvas.
func New(fyneApp fyne.App, state *app.State, vc *canvas.ViewerCanvas) *MainWindow {
	win := fyneApp.NewWindow("mol2d")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		canvas: vc,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.statusBar = widget.NewLabel("Ready")

	toolbar := mw.createToolbar()
	frameBar := mw.createFrameBar()

	content := container.NewBorder(
		toolbar, // top
		container.NewVBox(frameBar, container.NewPadded(mw.statusBar)), // bottom
		nil, // left
		nil, // right
		mw.canvas,
	)

	mw.SetContent(content)
	mw.Resize(fyne.NewSize(900, 700))
}

// createToolbar creates the toolbar with tool, zoom and playback controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	toolSelect := widget.NewSelect([]string{"Rotate", "Select"}, func(s string) {
		if s == "Select" {
			mw.canvas.SetTool(canvas.ToolSelect)
		} else {
			mw.canvas.SetTool(canvas.ToolRotate)
		}
	})
	toolSelect.SetSelectedIndex(0)

	zoomOutBtn := widget.NewButton("-", func() {
		mw.state.ZoomView(1 / 1.25)
	})
	zoomInBtn := widget.NewButton("+", func() {
		mw.state.ZoomView(1.25)
	})

	mw.playBtn = widget.NewButton("Play", mw.onTogglePlay)
	spinBtn := widget.NewButton("Spin", mw.onToggleSpin)

	colorSelect := widget.NewSelect(
		[]string{"Auto", "Chain", "Confidence", "Rainbow"},
		func(s string) { mw.onColorMode(s) },
	)
	colorSelect.SetSelectedIndex(0)

	return container.NewHBox(
		widget.NewLabel("Tool:"),
		toolSelect,
		widget.NewSeparator(),
		widget.NewLabel("Zoom:"),
		zoomOutBtn,
		zoomInBtn,
		widget.NewSeparator(),
		mw.playBtn,
		spinBtn,
		widget.NewSeparator(),
		widget.NewLabel("Color:"),
		colorSelect,
	)
}

// createFrameBar creates the trajectory slider row.
func (mw *MainWindow) createFrameBar() fyne.CanvasObject {
	mw.frameLabel = widget.NewLabel("Frame 0/0")
	mw.frameSlider = widget.NewSlider(0, 0)
	mw.frameSlider.Step = 1
	mw.frameSlider.OnChanged = func(v float64) {
		mw.state.SetActiveFrame("", int(v))
	}
	return container.NewBorder(nil, nil, mw.frameLabel, nil, mw.frameSlider)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Scene", mw.onNewScene),
		fyne.NewMenuItem("Open State...", mw.onOpenState),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save State", mw.onSaveState),
		fyne.NewMenuItem("Save State As...", mw.onSaveStateAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PNG...", mw.onExportPNG),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	mw.boxItem = fyne.NewMenuItem("Bounding Box", mw.onToggleBox)
	mw.overlayItem = fyne.NewMenuItem("Overlay All Frames", mw.onToggleOverlay)
	mw.shadowItem = fyne.NewMenuItem("Shadows", mw.onToggleShadow)
	mw.paeItem = fyne.NewMenuItem("Pairwise Panel", mw.onTogglePAEPanel)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", func() { mw.state.ZoomView(1.25) }),
		fyne.NewMenuItem("Zoom Out", func() { mw.state.ZoomView(1 / 1.25) }),
		fyne.NewMenuItemSeparator(),
		mw.boxItem,
		mw.overlayItem,
		mw.shadowItem,
		mw.paeItem,
		fyne.NewMenuItem("Outline: cycle", mw.onCycleOutline),
		fyne.NewMenuItem("Colorblind Palette", mw.onToggleColorblind),
	)

	selectionMenu := fyne.NewMenu("Selection",
		fyne.NewMenuItem("Select All", func() { mw.state.SelectAll("") }),
		fyne.NewMenuItem("Clear Selection", func() { mw.state.ClearSelection("") }),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mainMenu := fyne.NewMainMenu(fileMenu, viewMenu, selectionMenu, helpMenu)
	mw.SetMainMenu(mainMenu)
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventStateLoaded, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle("mol2d - " + filepath.Base(path))
			mw.updateStatus("State loaded: " + path)
		}
		mw.syncFrameBar()
		mw.applyAutoPlayback()
	})

	mw.state.On(app.EventObjectsChanged, func(data interface{}) {
		mw.syncFrameBar()
	})

	mw.state.On(app.EventFrameChanged, func(data interface{}) {
		mw.syncFrameBar()
	})

	mw.state.On(app.EventSelectionChanged, func(data interface{}) {
		if obj := mw.state.Scene.Last(); obj != nil {
			mw.updateStatus(fmt.Sprintf("%d positions visible", len(obj.VisiblePositions())))
		}
	})

	mw.state.On(app.EventModified, func(data interface{}) {
		if modified, ok := data.(bool); ok && modified {
			title := mw.Title()
			if len(title) > 0 && title[len(title)-1] != '*' {
				mw.SetTitle(title + " *")
			}
		}
	})
}

// syncFrameBar reflects the last object's frame count and active index.
func (mw *MainWindow) syncFrameBar() {
	obj := mw.state.Scene.Last()
	if obj == nil || obj.FrameCount() == 0 {
		mw.frameLabel.SetText("Frame 0/0")
		mw.frameSlider.Max = 0
		mw.frameSlider.Refresh()
		return
	}
	mw.frameSlider.Max = float64(obj.FrameCount() - 1)
	mw.frameSlider.SetValue(float64(obj.ActiveIndex()))
	mw.frameLabel.SetText(fmt.Sprintf("Frame %d/%d", obj.ActiveIndex()+1, obj.FrameCount()))
}

// applyAutoPlayback honours the autoplay and spin flags of a loaded state.
func (mw *MainWindow) applyAutoPlayback() {
	cfg := mw.state.Scene.Config
	if cfg.Display.Autoplay && !mw.playing {
		mw.onTogglePlay()
	}
	if cfg.Display.Spin && !mw.spinning {
		mw.onToggleSpin()
	}
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.app.Preferences().String(prefKeyLastDir)
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	dir := filepath.Dir(filePath)
	mw.app.Preferences().SetString(prefKeyLastDir, dir)
}

// Menu action handlers

func (mw *MainWindow) onNewScene() {
	mw.state.ClearScene()
	mw.state.StatePath = ""
	mw.state.SetModified(false)
	mw.SetTitle("mol2d")
}

func (mw *MainWindow) onOpenState() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.state.LoadState(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".mol2d", ".json"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSaveState() {
	if mw.state.StatePath == "" {
		mw.onSaveStateAs()
		return
	}
	if err := mw.state.SaveState(mw.state.StatePath); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSaveStateAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != ".mol2d" && filepath.Ext(path) != ".json" {
			path += ".mol2d"
		}
		mw.saveLastDir(path)
		if err := mw.state.SaveState(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFileName("scene.mol2d")
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onExportPNG() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != ".png" {
			path += ".png"
		}
		mw.saveLastDir(path)
		if err := export.PNG(mw.state.Scene, path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Exported " + path)
	}, mw.Window)
	fd.SetFileName("scene.png")
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onTogglePlay() {
	if mw.playing {
		mw.playing = false
		close(mw.stopPlay)
		mw.playBtn.SetText("Play")
		return
	}
	mw.playing = true
	mw.stopPlay = make(chan struct{})
	mw.playBtn.SetText("Pause")

	go func(stop chan struct{}) {
		ticker := time.NewTicker(playInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				mw.state.StepFrame(1)
			}
		}
	}(mw.stopPlay)
}

func (mw *MainWindow) onToggleSpin() {
	if mw.spinning {
		mw.spinning = false
		close(mw.stopSpin)
		return
	}
	mw.spinning = true
	mw.stopSpin = make(chan struct{})

	go func(stop chan struct{}) {
		ticker := time.NewTicker(playInterval / 2)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				mw.state.RotateView(spinStep, 0)
			}
		}
	}(mw.stopSpin)
}

func (mw *MainWindow) onColorMode(name string) {
	mw.state.UpdateConfig(func(cfg *scene.Config) {
		cfg.Color.Mode = scene.ParseColorMode(name)
	})
}

func (mw *MainWindow) onToggleBox() {
	mw.state.UpdateConfig(func(cfg *scene.Config) {
		cfg.Display.Box = !cfg.Display.Box
	})
}

func (mw *MainWindow) onToggleOverlay() {
	mw.state.UpdateConfig(func(cfg *scene.Config) {
		cfg.Display.Overlay = !cfg.Display.Overlay
	})
}

func (mw *MainWindow) onTogglePAEPanel() {
	mw.state.UpdateConfig(func(cfg *scene.Config) {
		cfg.PAE.Enabled = !cfg.PAE.Enabled
	})
}

func (mw *MainWindow) onToggleShadow() {
	mw.state.UpdateConfig(func(cfg *scene.Config) {
		cfg.Rendering.Shadow = !cfg.Rendering.Shadow
	})
}

func (mw *MainWindow) onCycleOutline() {
	mw.state.UpdateConfig(func(cfg *scene.Config) {
		switch cfg.Rendering.Outline {
		case scene.OutlineNone:
			cfg.Rendering.Outline = scene.OutlinePartial
		case scene.OutlinePartial:
			cfg.Rendering.Outline = scene.OutlineFull
		default:
			cfg.Rendering.Outline = scene.OutlineNone
		}
	})
	mw.updateStatus("Outline: " + mw.state.Scene.Config.Rendering.Outline.Name())
}

func (mw *MainWindow) onToggleColorblind() {
	mw.state.UpdateConfig(func(cfg *scene.Config) {
		cfg.Color.Colorblind = !cfg.Color.Colorblind
	})
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About mol2d",
		fmt.Sprintf("mol2d v%s\n\n"+
			"A pseudo-3D molecular structure viewer.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
