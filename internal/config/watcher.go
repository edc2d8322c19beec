package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"agentflow/pkg/logging"
)

// DefaultDebounceInterval is the time to wait after the last file change
// before triggering a reload, so editors that write in multiple steps do
// not cause rapid successive reloads.
const DefaultDebounceInterval = 500 * time.Millisecond

// Watcher monitors the configuration file for changes and invokes a reload
// callback with the freshly loaded configuration.
type Watcher struct {
	mu sync.Mutex

	configPath string
	onChange   func(AgentFlowConfig)

	fsWatcher *fsnotify.Watcher
	stopCh    chan struct{}
	running   bool

	debounceMu    sync.Mutex
	debounceTimer *time.Timer
}

// NewWatcher creates a watcher for the config.yaml inside configPath.
// onChange receives the reloaded configuration; it is never called with a
// configuration that failed to load.
func NewWatcher(configPath string, onChange func(AgentFlowConfig)) *Watcher {
	return &Watcher{
		configPath: configPath,
		onChange:   onChange,
	}
}

// Start begins watching for configuration changes.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Watch the directory rather than the file: editors commonly replace
	// the file, which would invalidate a file-level watch.
	if err := watcher.Add(w.configPath); err != nil {
		watcher.Close()
		return err
	}

	w.fsWatcher = watcher
	w.stopCh = make(chan struct{})
	w.running = true

	go w.watchLoop(watcher, w.stopCh)

	logging.Info("ConfigWatcher", "Watching %s for configuration changes", w.configPath)
	return nil
}

// Stop stops watching. It is safe to call multiple times.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	w.running = false
	close(w.stopCh)
	w.fsWatcher.Close()
}

func (w *Watcher) watchLoop(watcher *fsnotify.Watcher, stopCh chan struct{}) {
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != configFileName {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logging.Warn("ConfigWatcher", "Watch error: %v", err)

		case <-stopCh:
			return
		}
	}
}

// scheduleReload debounces bursts of file events into one reload.
func (w *Watcher) scheduleReload() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(DefaultDebounceInterval, w.reload)
}

func (w *Watcher) reload() {
	cfg, err := LoadConfig(w.configPath)
	if err != nil {
		logging.Error("ConfigWatcher", err, "Reload skipped, configuration failed to load")
		return
	}
	if errs := Validate(cfg); errs.HasErrors() {
		logging.Error("ConfigWatcher", errs, "Reload skipped, configuration is invalid")
		return
	}

	logging.Info("ConfigWatcher", "Configuration reloaded from %s", w.configPath)
	w.onChange(cfg)
}
