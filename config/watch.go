package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads the config file on change. Events are debounced: the file
// is read only after it has been quiet for Cooldown, so a rename-and-replace
// or truncate-then-write sequence delivers one update with the final
// content. A failed reload keeps the previous config.
type Watcher struct {
	Path     string
	Cooldown time.Duration
	Logger   *zap.Logger
}

// Start blocks until ctx is done, invoking onUpdate with each validated
// config. The parent directory is watched because editors typically
// rename-and-replace rather than write in place.
func (w Watcher) Start(ctx context.Context, onUpdate func(AppConfig)) error {
	if w.Cooldown <= 0 {
		w.Cooldown = 2 * time.Second
	}
	log := w.Logger
	if log == nil {
		log = zap.NewNop()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	dir := filepath.Dir(w.Path)
	if err := fw.Add(dir); err != nil {
		return err
	}

	target := filepath.Clean(w.Path)
	settle := time.NewTimer(w.Cooldown)
	if !settle.Stop() {
		<-settle.C
	}
	armed := false

	for {
		select {
		case <-ctx.Done():
			settle.Stop()
			return ctx.Err()
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			// Re-arm on every event so the reload happens only once
			// the writes go quiet and the last write wins.
			if armed && !settle.Stop() {
				<-settle.C
			}
			settle.Reset(w.Cooldown)
			armed = true
		case <-settle.C:
			armed = false
			cfg, err := Load(w.Path)
			if err != nil {
				log.Warn("config reload failed, keeping previous", zap.Error(err))
				continue
			}
			log.Info("config reloaded", zap.String("path", w.Path))
			if onUpdate != nil {
				onUpdate(cfg)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn("config watcher error", zap.Error(err))
		}
	}
}
