package catalog

import (
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// FileWatcher watches override directories and triggers a callback when a
// YAML file is written, created, renamed or removed.
type FileWatcher struct {
	onChange func(string) // called with path that changed
	w        *fsnotify.Watcher
	log      *zap.Logger
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewFileWatcher creates a watcher for the given directories. Directories
// that do not exist are skipped.
func NewFileWatcher(dirs []string, onChange func(string), log *zap.Logger) (*FileWatcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			log.Debug("skip watch dir", zap.String("dir", d), zap.Error(err))
		}
	}
	return &FileWatcher{
		onChange: onChange,
		w:        w,
		log:      log,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins dispatching events in a goroutine.
func (fw *FileWatcher) Start() {
	go func() {
		defer close(fw.doneCh)
		for {
			select {
			case ev, ok := <-fw.w.Events:
				if !ok {
					return
				}
				if !relevant(ev) {
					continue
				}
				fw.log.Info("catalog file changed", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
				if fw.onChange != nil {
					fw.onChange(ev.Name)
				}
			case err, ok := <-fw.w.Errors:
				if !ok {
					return
				}
				fw.log.Warn("catalog watcher error", zap.Error(err))
			case <-fw.stopCh:
				return
			}
		}
	}()
}

// Stop terminates the watcher.
func (fw *FileWatcher) Stop() error {
	close(fw.stopCh)
	err := fw.w.Close()
	<-fw.doneCh
	return err
}

func relevant(ev fsnotify.Event) bool {
	if !strings.EqualFold(filepath.Ext(ev.Name), ".yaml") {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}
