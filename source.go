package pledge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher observes a draft of the form and emits its raw bytes whenever it
// changes. Implementations emit the current draft first. The channel is
// closed when the context is canceled or the source goes away.
type Watcher interface {
	Watch(ctx context.Context) (<-chan []byte, error)
}

// ChannelWatcher hands out an existing channel of drafts.
// Useful for tests and for embedding the store behind another input source.
type ChannelWatcher struct {
	ch <-chan []byte
}

// NewChannelWatcher wraps ch as a Watcher.
func NewChannelWatcher(ch <-chan []byte) *ChannelWatcher {
	return &ChannelWatcher{ch: ch}
}

// Watch returns the wrapped channel.
func (w *ChannelWatcher) Watch(context.Context) (<-chan []byte, error) {
	return w.ch, nil
}

// FileWatcher emits the contents of a draft file each time it is saved.
//
// The parent directory is watched rather than the file itself, so editors
// that save by writing a temporary file and renaming it over the draft are
// still seen.
type FileWatcher struct {
	path string
}

// NewFileWatcher creates a FileWatcher for the draft at path.
func NewFileWatcher(path string) *FileWatcher {
	return &FileWatcher{path: filepath.Clean(path)}
}

// Watch reads the draft, emits it, and keeps emitting it on every write or
// create event for the file. Read errors after the first read are skipped.
func (w *FileWatcher) Watch(ctx context.Context) (<-chan []byte, error) {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read draft %s: %w", w.path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch directory of %s: %w", w.path, err)
	}

	out := make(chan []byte, 1)
	out <- data

	go func() {
		defer close(out)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != w.path {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				data, err := os.ReadFile(w.path)
				if err != nil {
					continue
				}
				select {
				case out <- data:
				case <-ctx.Done():
					return
				}

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return out, nil
}
