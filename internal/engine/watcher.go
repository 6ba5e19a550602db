package engine

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/labstack/gommon/log"
)

// Watch invalidates c whenever one of its source files is written,
// created, renamed or removed. It blocks until ctx is done.
func Watch(ctx context.Context, c *Cache) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Watch directories so editors that replace files are still seen.
	files := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, p := range c.Paths() {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for d := range dirs {
		if err := w.Add(d); err != nil {
			return err
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || !files[abs] {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove) {
				log.Infof("%s changed (%s), reloading on next request", ev.Name, ev.Op)
				c.Invalidate()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warnf("watch: %v", err)
		}
	}
}
