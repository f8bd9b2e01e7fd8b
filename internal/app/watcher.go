package app

import (
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches a state file on disk and triggers a callback when it
// changes, so an externally regenerated file (e.g. from a prediction
// pipeline rerun) is picked up without restarting the viewer.
type FileWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	stopCh   chan struct{}
	debounce time.Duration
	onChange func() // Called from a background goroutine
}

// NewFileWatcher creates a watcher for the given state file. The parent
// directory is watched rather than the file itself, because editors and
// pipelines typically replace the file via rename.
func NewFileWatcher(path string) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, err
	}
	return &FileWatcher{
		path:     abs,
		watcher:  w,
		stopCh:   make(chan struct{}),
		debounce: 250 * time.Millisecond,
	}, nil
}

// OnChange sets the callback to invoke when the file changes. The callback
// runs on a background goroutine - use appropriate synchronization if
// updating UI.
func (fw *FileWatcher) OnChange(callback func()) {
	fw.onChange = callback
}

// Start begins watching in a background goroutine.
func (fw *FileWatcher) Start() {
	go fw.watchLoop()
}

// Stop stops the watcher goroutine and releases the inotify handle.
func (fw *FileWatcher) Stop() {
	close(fw.stopCh)
	fw.watcher.Close()
}

// watchLoop coalesces bursts of events (write + rename + chmod) into a
// single callback after a quiet period.
func (fw *FileWatcher) watchLoop() {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-fw.stopCh:
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != fw.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(fw.debounce)
				timerC = timer.C
			} else {
				timer.Reset(fw.debounce)
			}
		case <-timerC:
			timer = nil
			timerC = nil
			if fw.onChange != nil {
				fw.onChange()
			}
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("File watcher error: %v", err)
		}
	}
}

// Path returns the absolute path of the watched file.
func (fw *FileWatcher) Path() string {
	return fw.path
}
