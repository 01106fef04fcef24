package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/biginformatics/docsite/internal/logfields"
)

// DefaultDebounce coalesces the bursts of events editors produce on save.
const DefaultDebounce = 500 * time.Millisecond

// ConfigWatcher calls onChange after the configuration file settles.
type ConfigWatcher struct {
	configPath string
	watcher    *fsnotify.Watcher
	reloadCh   chan struct{}
	debounce   time.Duration
	onChange   func(context.Context)
	logger     *slog.Logger
	done       chan struct{}
	closeOnce  sync.Once
	wg         sync.WaitGroup
}

// NewConfigWatcher creates a watcher for configPath. A non-positive debounce
// uses DefaultDebounce.
func NewConfigWatcher(configPath string, debounce time.Duration, onChange func(context.Context), logger *slog.Logger) (*ConfigWatcher, error) {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ConfigWatcher{
		configPath: absPath,
		watcher:    w,
		reloadCh:   make(chan struct{}, 1),
		debounce:   debounce,
		onChange:   onChange,
		logger:     logger,
		done:       make(chan struct{}),
	}, nil
}

// Start watches the directory holding the configuration file, which survives
// editors that replace the file by rename. The loops stop when ctx is done.
func (cw *ConfigWatcher) Start(ctx context.Context) error {
	dir := filepath.Dir(cw.configPath)
	if err := cw.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch config directory %s: %w", dir, err)
	}
	cw.logger.Info("Starting configuration watcher", logfields.Config(cw.configPath))

	cw.wg.Add(2)
	go cw.watchLoop(ctx)
	go cw.reloadLoop(ctx)
	return nil
}

// Close releases the fsnotify watcher and waits for the loops to exit.
func (cw *ConfigWatcher) Close() error {
	var err error
	cw.closeOnce.Do(func() {
		close(cw.done)
		err = cw.watcher.Close()
		cw.wg.Wait()
	})
	return err
}

func (cw *ConfigWatcher) watchLoop(ctx context.Context) {
	defer cw.wg.Done()
	name := filepath.Base(cw.configPath)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			switch {
			case event.Has(fsnotify.Write), event.Has(fsnotify.Create), event.Has(fsnotify.Rename):
				cw.logger.Debug("Config file change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
				cw.trigger()
			case event.Has(fsnotify.Remove):
				cw.logger.Warn("Config file removed", logfields.Path(event.Name))
			}
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.logger.Error("Config watcher error", logfields.Error(err))
		}
	}
}

// reloadLoop runs onChange once per quiet period, never concurrently.
func (cw *ConfigWatcher) reloadLoop(ctx context.Context) {
	defer cw.wg.Done()
	timer := time.NewTimer(cw.debounce)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-cw.done:
			return
		case <-cw.reloadCh:
			timer.Reset(cw.debounce)
		case <-timer.C:
			cw.onChange(ctx)
		}
	}
}

func (cw *ConfigWatcher) trigger() {
	select {
	case cw.reloadCh <- struct{}{}:
	default:
	}
}
