package config

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultReloadDebounce coalesces the burst of events an editor save produces.
const DefaultReloadDebounce = 200 * time.Millisecond

// WatchTuning calls onChange with the reparsed tuning each time the file at
// path is written or created. Parse errors are logged and
// the previous tuning stays in effect. It blocks until ctx is done.
func WatchTuning(ctx context.Context, path string, debounce time.Duration, onChange func(Tuning)) error {
	if debounce <= 0 {
		debounce = DefaultReloadDebounce
	}
	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch tuning: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch tuning: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			log.Printf("config: watcher close: %v", err)
		}
	}()

	// Watch the directory so atomic replace-on-save is seen.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch tuning: %w", err)
	}

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(ev, target) {
				continue
			}
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("config: watch %s: %v", target, err)
		case <-timer.C:
			t, err := LoadTuning(target)
			if err != nil {
				log.Printf("config: reload ignored: %v", err)
				continue
			}
			log.Printf("config: reloaded %s", target)
			onChange(t)
		}
	}
}

// relevant reports whether ev changes the contents of target.
func relevant(ev fsnotify.Event, target string) bool {
	name, err := filepath.Abs(ev.Name)
	if err != nil || name != target {
		return false
	}
	return ev.Op&(fsnotify.Write|fsnotify.Create) != 0
}
