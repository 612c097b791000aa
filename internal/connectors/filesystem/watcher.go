package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/ragent/internal/core/domain"
	"github.com/custodia-labs/ragent/internal/core/ports/driven"
	"github.com/custodia-labs/ragent/internal/logger"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 500 * time.Millisecond

// Watcher reports supported files that are created or written in a directory.
type Watcher struct {
	registry driven.NormaliserRegistry
	debounce time.Duration
}

// NewWatcher creates a watcher. A non-positive debounce uses DefaultDebounce.
func NewWatcher(registry driven.NormaliserRegistry, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{registry: registry, debounce: debounce}
}

// Watch emits sorted batches of changed file paths until ctx is cancelled,
// then closes the channel. Deletions are ignored: the index is append-only.
func (w *Watcher) Watch(ctx context.Context, dir string) (<-chan []string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, domain.NewFileError(dir, err)
	}
	if !info.IsDir() {
		return nil, domain.NewFileError(dir, fmt.Errorf("not a directory"))
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, domain.NewFileError(dir, err)
	}

	out := make(chan []string)
	go w.run(ctx, fw, out)
	return out, nil
}

func (w *Watcher) run(ctx context.Context, fw *fsnotify.Watcher, out chan<- []string) {
	defer close(out)
	defer fw.Close()

	pending := make(map[string]struct{})
	var flush <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if path, ok := w.handleEvent(event); ok {
				pending[path] = struct{}{}
				flush = time.After(w.debounce)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			logger.Warn("watch: %v", err)

		case <-flush:
			flush = nil
			batch := make([]string, 0, len(pending))
			for path := range pending {
				batch = append(batch, path)
			}
			sort.Strings(batch)
			pending = make(map[string]struct{})

			select {
			case out <- batch:
			case <-ctx.Done():
				return
			}
		}
	}
}

// handleEvent returns the file path if the event should trigger ingestion.
func (w *Watcher) handleEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if isHidden(filepath.Base(event.Name)) || !w.registry.Supports(event.Name) {
		return "", false
	}

	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}

	logger.Debug("watch: %s %s", event.Op, event.Name)
	return event.Name, true
}
