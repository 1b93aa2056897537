package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Steviegt6/TerraWeave/internal/patch"
)

// Watch runs Create once, then again every time the baseline or modified
// image changes, until ctx is cancelled. Bursts of events are collapsed into
// one run after Config.Debounce of quiet. A failed run is logged and
// reported through onRun; it does not stop the watch. onRun may be nil.
func (p *Pipeline) Watch(ctx context.Context, onRun func([]patch.Record, error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	targets := make(map[string]bool)
	for _, path := range []string{p.Config.Baseline, p.Config.Modified} {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", path, err)
		}
		targets[abs] = true
	}
	// watch directories so replaced files keep being tracked
	dirs := make(map[string]bool)
	for path := range targets {
		dir := filepath.Dir(path)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	delay := p.Config.Debounce()
	if delay <= 0 {
		delay = 200 * time.Millisecond
	}

	run := func() {
		records, err := p.Create(ctx)
		if err != nil {
			p.Logger.Error("Patch creation failed", "error", err)
		}
		if onRun != nil {
			onRun(records, err)
		}
	}

	p.Logger.Info("Watching for changes", "baseline", p.Config.Baseline, "modified", p.Config.Modified)
	run()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || !targets[abs] {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			p.Logger.Debug("Input changed", "path", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(delay)
			} else {
				timer.Stop()
				timer.Reset(delay)
			}
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			p.Logger.Warn("Watcher error", "error", err)
		case <-fire:
			fire = nil
			run()
		}
	}
}
