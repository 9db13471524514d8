package config

import (
	"context"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// WatchSettings monitors path for changes and calls onChange with the newly
// loaded Settings each time the file is written. It runs until ctx is
// cancelled.
//
// If a reload fails (e.g., invalid YAML), the error is logged and the
// previous settings remain active — WatchSettings does not call onChange.
func WatchSettings(ctx context.Context, path string, onChange func(*Settings)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	slog.Info("settings: watching for changes", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Only reload on write or create events. Editors often write via
			// rename (atomic save), so also catch fsnotify.Create.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			s, err := LoadSettings(path)
			if err != nil {
				slog.Error("settings: reload failed, keeping previous settings",
					"path", path, "err", err)
				continue
			}

			slog.Info("settings: reloaded",
				"path", path,
				"emissary_enabled", s.Emissary.Enabled,
				"emissary_url", s.Emissary.URL)
			onChange(s)

			// Re-add the file in case an atomic save replaced the inode.
			_ = watcher.Add(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("settings: watcher error", "err", err)
		}
	}
}
