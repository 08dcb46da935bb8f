// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package knowledge

import (
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// =============================================================================
// DROP-FOLDER WATCHER
// =============================================================================

// DropWatcher watches a single directory for new files. Files created or
// written there surface as candidate uploads in the knowledge view.
type DropWatcher struct {
	dir     string
	watcher *fsnotify.Watcher
	logger  *zap.Logger

	files chan string

	mu     sync.Mutex
	closed bool
}

// NewDropWatcher creates a watcher for the given directory. The directory
// must exist.
func NewDropWatcher(dir string, logger *zap.Logger) (*DropWatcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, os.ErrInvalid
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}

	dw := &DropWatcher{
		dir:     dir,
		watcher: w,
		logger:  logger,
		files:   make(chan string, 16),
	}
	go dw.processEvents()
	return dw, nil
}

// Files returns the channel of newly dropped file paths. The channel is
// closed when the watcher is closed.
func (dw *DropWatcher) Files() <-chan string {
	return dw.files
}

// Close stops the watcher and releases resources.
func (dw *DropWatcher) Close() error {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	if dw.closed {
		return nil
	}
	dw.closed = true
	return dw.watcher.Close()
}

// processEvents forwards create/write events for regular files. Duplicate
// events for the same path collapse on the receiving side, which only
// tracks the latest candidate.
func (dw *DropWatcher) processEvents() {
	defer close(dw.files)

	for {
		select {
		case event, ok := <-dw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			info, err := os.Stat(event.Name)
			if err != nil || info.IsDir() {
				continue
			}
			select {
			case dw.files <- event.Name:
			default:
				// Receiver is behind; drop rather than block the
				// event loop.
			}

		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}
			if dw.logger != nil {
				dw.logger.Warn("drop watcher error", zap.Error(err))
			}
		}
	}
}
