package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"imagesteps/common"
	"imagesteps/config"
	"imagesteps/logging"
)

// Alterer applies an attribute map to an image file in place
type Alterer interface {
	Alter(ctx context.Context, path string, attrs common.Attributes) error
}

// Watcher monitors the fixtures directory and regenerates altered
// reference images whenever a fixture descriptor changes
type Watcher struct {
	cfg      *config.Config
	renderer *Renderer
	watcher  *fsnotify.Watcher
	events   chan Event
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
	done    chan struct{}
}

// Event represents a processed fixture change
type Event struct {
	Type     EventType
	FilePath string
	Output   string
	Err      error
}

// EventType represents the type of file event
type EventType int

const (
	EventCreated EventType = iota
	EventModified
	EventDeleted
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventModified:
		return "modified"
	case EventDeleted:
		return "deleted"
	}
	return "unknown"
}

// NewWatcher creates a new fixture watcher
func NewWatcher(cfg *config.Config, alterer Alterer) (*Watcher, error) {
	if cfg.Fixtures.OutputDir == "" {
		return nil, fmt.Errorf("fixtures.output_dir is required to watch fixtures")
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		cfg:      cfg,
		renderer: NewRenderer(cfg.Fixtures.DataDir, cfg.Fixtures.OutputDir, alterer),
		watcher:  fsWatcher,
		events:   make(chan Event, 100),
		debounce: 500 * time.Millisecond,
		pending:  make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}, nil
}

// Start begins monitoring the fixtures directory
func (w *Watcher) Start(ctx context.Context) error {
	dir := w.cfg.Fixtures.DataDir
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch folder %s: %w", dir, err)
	}
	logging.L().WithField("dir", dir).Info("Watching fixtures")

	// Start event processing goroutine
	go w.processEvents(ctx)

	return nil
}

// processEvents handles fsnotify events and converts them to our event type
func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// Only process fixture descriptors
			ext := filepath.Ext(event.Name)
			if ext != ".yaml" && ext != ".yml" {
				continue
			}

			// Skip temp files
			if filepath.Base(event.Name)[0] == '.' {
				continue
			}

			// Debounce editors that write in several steps
			w.mu.Lock()
			if timer, exists := w.pending[event.Name]; exists {
				timer.Stop()
			}
			w.pending[event.Name] = time.AfterFunc(w.debounce, func() {
				w.mu.Lock()
				delete(w.pending, event.Name)
				w.mu.Unlock()
				w.handleEvent(ctx, event)
			})
			w.mu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.L().WithError(err).Warn("Watcher error")
		}
	}
}

// handleEvent processes a single file event
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	log := logging.L().WithField("fixture", event.Name)

	out := Event{FilePath: event.Name}
	switch {
	case event.Op&fsnotify.Create == fsnotify.Create:
		out.Type = EventCreated
	case event.Op&fsnotify.Write == fsnotify.Write:
		out.Type = EventModified
	case event.Op&fsnotify.Remove == fsnotify.Remove:
		out.Type = EventDeleted
	default:
		return // Ignore other events
	}
	log.Debugf("Fixture %s", out.Type)

	if out.Type != EventDeleted {
		out.Output, out.Err = w.renderer.RenderFile(ctx, event.Name)
		if out.Err != nil {
			log.WithError(out.Err).Error("Failed to render fixture")
		} else {
			log.WithField("output", out.Output).Info("Fixture rendered")
		}
	}

	select {
	case w.events <- out:
	case <-w.done:
	}
}

// Events returns the event channel
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop stops the watcher
func (w *Watcher) Stop() error {
	w.mu.Lock()
	for _, timer := range w.pending {
		timer.Stop()
	}
	w.mu.Unlock()
	close(w.done)
	return w.watcher.Close()
}
