package app

import (
	"log"
	"slices"
	"sync"
	"time"

	"parcel-labeler/internal/image"
)

// DirWatcher polls an image directory and reports when its listing changes,
// so images dropped into the folder while labeling can be picked up.
type DirWatcher struct {
	dir           string
	checkInterval time.Duration

	mu       sync.Mutex
	baseline []string
	stopCh   chan struct{}
	onChange func(images []string) // Called when the listing differs from the baseline
}

// NewDirWatcher creates a watcher for dir. The current listing becomes the
// baseline; an unreadable dir yields an empty baseline.
func NewDirWatcher(dir string, checkInterval time.Duration) *DirWatcher {
	baseline, err := image.List(dir)
	if err != nil {
		log.Printf("DirWatcher: %v", err)
	}
	return &DirWatcher{
		dir:           dir,
		checkInterval: checkInterval,
		baseline:      baseline,
	}
}

// OnChange sets the callback to invoke with the new listing.
// The callback is called from a background goroutine - use appropriate
// synchronization if updating UI.
func (w *DirWatcher) OnChange(callback func(images []string)) {
	w.mu.Lock()
	w.onChange = callback
	w.mu.Unlock()
}

// Dir returns the watched directory.
func (w *DirWatcher) Dir() string {
	return w.dir
}

// Start begins watching in a background goroutine.
func (w *DirWatcher) Start() {
	w.mu.Lock()
	w.stopCh = make(chan struct{})
	stop := w.stopCh
	w.mu.Unlock()
	go w.watchLoop(stop)
}

// Stop stops the watcher goroutine. It is safe to call more than once.
func (w *DirWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopCh != nil {
		close(w.stopCh)
		w.stopCh = nil
	}
}

func (w *DirWatcher) watchLoop(stop chan struct{}) {
	ticker := time.NewTicker(w.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if images, changed := w.checkForUpdate(); changed {
				w.mu.Lock()
				cb := w.onChange
				w.mu.Unlock()
				if cb != nil {
					cb(images)
				}
			}
		}
	}
}

// checkForUpdate lists the directory and moves the baseline when the
// listing changed. Listing errors are treated as no change.
func (w *DirWatcher) checkForUpdate() ([]string, bool) {
	images, err := image.List(w.dir)
	if err != nil {
		return nil, false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if slices.Equal(images, w.baseline) {
		return nil, false
	}
	w.baseline = images
	return images, true
}

// ResetBaseline makes images the listing future checks compare against.
func (w *DirWatcher) ResetBaseline(images []string) {
	w.mu.Lock()
	w.baseline = slices.Clone(images)
	w.mu.Unlock()
}
