package template

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"deckforge/internal/logging"
)

// catalogFile is the on-disk overlay schema: extra or replacement
// templates and themes layered over the built-ins.
type catalogFile struct {
	Templates []*Template `yaml:"templates"`
	Themes    []*Theme    `yaml:"themes"`
}

// LoadCatalog overlays templates/themes from a YAML file onto the
// registry. A missing file is a no-op.
func (r *Registry) LoadCatalog(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read catalog %s: %w", path, err)
	}
	var cf catalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return fmt.Errorf("parse catalog %s: %w", path, err)
	}
	for _, t := range cf.Templates {
		if t.Slots == nil {
			t.Slots = map[string]SlotPlacement{}
		}
		r.RegisterTemplate(t)
	}
	for _, th := range cf.Themes {
		r.RegisterTheme(th)
	}
	logging.Layout("catalog overlay loaded: %d templates, %d themes from %s",
		len(cf.Templates), len(cf.Themes), path)
	return nil
}

// Watcher hot-reloads a catalog YAML file into the registry whenever
// it changes on disk, with debouncing for editors that save twice.
type Watcher struct {
	mu       sync.Mutex
	registry *Registry
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	lastLoad time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// NewWatcher creates a watcher for the given catalog path.
func NewWatcher(registry *Registry, path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		registry: registry,
		path:     path,
		watcher:  fw,
		debounce: 500 * time.Millisecond,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start loads the catalog once and begins watching. Non-blocking.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.registry.LoadCatalog(w.path); err != nil {
		logging.Get(logging.CategoryLayout).Warn("initial catalog load failed: %v", err)
	}
	// Watch the directory so create/rename events for the file are seen.
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		_ = w.watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	go w.loop(ctx)
	return nil
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.doneCh)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			w.mu.Lock()
			if time.Since(w.lastLoad) < w.debounce {
				w.mu.Unlock()
				continue
			}
			w.lastLoad = time.Now()
			w.mu.Unlock()

			if err := w.registry.LoadCatalog(w.path); err != nil {
				logging.Get(logging.CategoryLayout).Warn("catalog reload failed: %v", err)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Get(logging.CategoryLayout).Warn("catalog watcher error: %v", err)
		}
	}
}

// Stop terminates the watcher and waits for the loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	_ = w.watcher.Close()
	<-w.doneCh
}
