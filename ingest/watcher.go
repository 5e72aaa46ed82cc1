package ingest

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow coalesces the burst of events an editor or exporter fires
// while rewriting the file.
const debounceWindow = 500 * time.Millisecond

// ReimportCallback is called after a watcher-driven import, with the counts
// written.
type ReimportCallback func(pages, blocks int)

// Watch starts an fsnotify watcher on the export file and re-imports it
// whenever it is rewritten, until ctx is cancelled. It calls cb (if non-nil)
// after each successful import.
//
// The parent directory is watched rather than the file itself: exporters
// typically replace the file atomically, which would otherwise drop the
// watch on the first rewrite.
func Watch(ctx context.Context, imp *Importer, exportPath string, logger *slog.Logger, cb ReimportCallback) error {
	if logger == nil {
		logger = slog.Default()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dir := filepath.Dir(exportPath)
	if err := w.Add(dir); err != nil {
		return err
	}
	target := filepath.Clean(exportPath)

	logger.Info("watcher started", "path", target)

	var debounce *time.Timer
	var importCh <-chan time.Time

	scheduleImport := func() {
		if debounce == nil {
			debounce = time.NewTimer(debounceWindow)
			importCh = debounce.C
		} else {
			debounce.Reset(debounceWindow)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			logger.Info("watcher stopped")
			return nil

		case <-importCh:
			pages, blocks, importErr := imp.ImportFile(ctx, target)
			if importErr != nil {
				logger.Warn("re-import failed", "path", target, "error", importErr)
				continue
			}
			logger.Info("graph re-imported", "pages", pages, "blocks", blocks)
			if cb != nil {
				cb(pages, blocks)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				scheduleImport()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", watchErr)
		}
	}
}
