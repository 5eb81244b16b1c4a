package rulesource

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mealguard-dev/mealguard/internal/infrastructure/config"
)

const defaultDebounce = 250 * time.Millisecond

// FileSource reads a rule set from the local filesystem.
type FileSource struct {
	path     string
	debounce time.Duration
}

// NewFileSource creates a source for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: filepath.Clean(path), debounce: defaultDebounce}
}

// Fetch reads the file.
func (s *FileSource) Fetch(context.Context) ([]byte, error) {
	data, err := config.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return data, nil
}

// Describe names the source.
func (s *FileSource) Describe() string {
	return "file://" + s.path
}

// Watch calls onChange after the file is written, created or renamed into
// place. Bursts of events are coalesced. The directory is watched rather
// than the file so atomic replace-by-rename is seen.
func (s *FileSource) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close() // Best-effort cleanup
	}()

	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(s.path), err)
	}

	base := filepath.Base(s.path)
	timer := time.NewTimer(s.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				timer.Reset(s.debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.WarnContext(ctx, "rule set watcher error", "path", s.path, "error", err)
		case <-timer.C:
			onChange()
		}
	}
}
