package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce batches the bursts of events editors produce on save.
const watchDebounce = 100 * time.Millisecond

// RunWatch runs the program and, whenever the program or map file changes,
// resets the in-flight run and starts a fresh one. It returns when ctx ends.
func RunWatch(ctx context.Context, opts RunOptions) error {
	opts.defaults()
	logger := createLogger(opts.Debug)
	editor := createEditor(editorConfig{Delay: opts.Delay, Debug: opts.Debug}, logger, opts.Out)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often save by rename, so watch directories and filter by name.
	targets := make(map[string]bool)
	for _, p := range []string{opts.ProgramPath, opts.MapPath} {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		targets[abs] = true
	}
	dirs := make(map[string]bool)
	for abs := range targets {
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	logger.Info("Starting Watcher", "program", opts.ProgramPath, "map", opts.MapPath)
	printSystemMessage(opts.Out, "Watching '%s' and '%s'.", opts.ProgramPath, opts.MapPath)

	var (
		runs   sync.WaitGroup
		cancel context.CancelFunc = func() {}
	)
	start := func() {
		var runCtx context.Context
		runCtx, cancel = context.WithCancel(ctx)
		runs.Add(1)
		go func() {
			defer runs.Done()
			err := runOnce(runCtx, opts, editor)
			switch {
			case err != nil && isInterrupted(err):
				return
			case err != nil:
				logger.Error("Run failed", "err", err)
				printSystemMessage(opts.Out, "Error: %v", err)
			}
			if runCtx.Err() == nil {
				printSystemMessage(opts.Out, "Waiting for changes...")
			}
		}()
	}
	stop := func() {
		cancel()
		editor.Reset()
		runs.Wait()
	}

	debounce := time.NewTimer(watchDebounce)
	debounce.Stop()
	changed := ""

	start()
	for {
		select {
		case <-ctx.Done():
			stop()
			logger.Info("Stopping watcher")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				stop()
				return nil
			}
			if !targets[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("File event", "event", event.String())
			changed = event.Name
			debounce.Reset(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				stop()
				return nil
			}
			logger.Error("Watcher error", "err", err)

		case <-debounce.C:
			printSystemMessage(opts.Out, "Change detected in '%s'.", filepath.Base(changed))
			stop()
			start()
		}
	}
}

