package watch

import (
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher invokes onChange when the watched file is rewritten. It watches
// the parent directory rather than the file itself so write-temp-then-
// rename saves are seen, and debounces event bursts into one callback.
type Watcher struct {
	path     string
	onChange func()
	debounce time.Duration

	watcher *fsnotify.Watcher
	stopCh  chan struct{}
}

func New(path string, onChange func()) *Watcher {
	return &Watcher{
		path:     path,
		onChange: onChange,
		debounce: defaultDebounce,
		stopCh:   make(chan struct{}),
	}
}

// Start begins watching. Returns an error only when the watcher cannot be
// created or the directory cannot be added; later errors are logged.
func (w *Watcher) Start() error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		return err
	}
	w.watcher = fw
	go w.loop()
	return nil
}

func (w *Watcher) loop() {
	var pending <-chan time.Time
	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(w.debounce)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("config watcher: %v", err)
		case <-pending:
			pending = nil
			w.onChange()
		}
	}
}

// Stop ends watching. Safe to call once, before or after Start.
func (w *Watcher) Stop() {
	close(w.stopCh)
	if w.watcher != nil {
		w.watcher.Close()
	}
}
