// Package watcher indexes files dropped into a watched directory.
package watcher

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/parcelworks/deedex-cli/internal/core/domain"
	"github.com/parcelworks/deedex-cli/internal/core/ports/driving"
	"github.com/parcelworks/deedex-cli/internal/logger"
)

// settleDelay is how long a file must be quiet before it is indexed.
// Editors and copies emit several write events per file.
const settleDelay = 500 * time.Millisecond

// Watcher monitors a directory and indexes new or changed files.
type Watcher struct {
	indexer driving.IndexerService

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// New creates a watcher that feeds files into the given indexer.
func New(indexer driving.IndexerService) *Watcher {
	return &Watcher{
		indexer: indexer,
		timers:  make(map[string]*time.Timer),
	}
}

// Watch blocks watching dir until the context is cancelled.
func (w *Watcher) Watch(ctx context.Context, dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch %s: %w: not a directory", dir, domain.ErrInvalidInput)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	logger.Info("Watching %s", dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !indexable(event.Name) {
				continue
			}
			w.schedule(ctx, event.Name)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)
		}
	}
}

// schedule (re)arms the settle timer for a path.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.timers[path]; ok {
		timer.Stop()
	}
	w.timers[path] = time.AfterFunc(settleDelay, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		w.indexFile(ctx, path)
	})
}

func (w *Watcher) indexFile(ctx context.Context, path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	content, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Failed to read %s: %v", path, err)
		return
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	report, err := w.indexer.Index(ctx, &domain.RawDocument{
		URI:      "file://" + abs,
		Filename: filepath.Base(path),
		MIMEType: mimeType,
		Content:  content,
	})
	if err != nil {
		logger.Warn("Failed to index %s: %v", path, err)
		return
	}

	logger.Info("Indexed %s as %s (%d chunks)", filepath.Base(path), report.Type, report.ChunksIndexed)
}

// indexable filters out hidden files and partial downloads.
func indexable(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".tmp", ".part", ".crdownload", ".swp":
		return false
	}
	return true
}
