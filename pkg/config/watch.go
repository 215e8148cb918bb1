package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads filename whenever it is written, created or renamed into place
// and passes the result to fn. The directory is watched rather than the file so
// editors that replace the file are noticed too. Watch blocks until ctx is done.
func Watch(ctx context.Context, filename string, fn func(*Config, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed creating file watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(filename)
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch config directory: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			log.Debugf("Config file %s changed (%s)", abs, ev.Op)
			fn(Load(abs))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warnf("Config watcher: %v", err)
		}
	}
}
