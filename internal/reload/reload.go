// Package reload watches a rule corpus file and swaps in a freshly built
// Deconjugator whenever the file changes.
package reload

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hoverdict/deconj"
)

// DefaultDebounce is how long to wait for more writes before reloading.
const DefaultDebounce = 200 * time.Millisecond

// Target receives each successfully loaded Deconjugator.
type Target interface {
	Swap(*deconj.Deconjugator)
}

// BuildFunc wraps a freshly loaded repository. It usually attaches a new
// cache, since cached results of the old rules are no longer valid.
type BuildFunc func(*deconj.Repository) *deconj.Deconjugator

// Watcher reloads a rule file on change. A corpus that fails to load is
// logged and the target keeps serving the previous rules.
type Watcher struct {
	path     string
	target   Target
	build    BuildFunc
	logger   *slog.Logger
	debounce time.Duration
	watcher  *fsnotify.Watcher
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// New watches path. The parent directory is watched rather than the file
// itself so that editors which replace the file by rename are seen.
func New(path string, target Target, build BuildFunc, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		fsw.Close()
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:     abs,
		target:   target,
		build:    build,
		logger:   slog.Default(),
		debounce: DefaultDebounce,
		watcher:  fsw,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run processes file events until ctx is cancelled, then closes the
// underlying watcher.
func (w *Watcher) Run(ctx context.Context) {
	defer w.watcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("rule file changed", "path", w.path, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			// Failures are logged by Reload; the previous rules stay.
			_ = w.Reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("rule watcher error", "error", err)
		}
	}
}

// Reload loads the file now and swaps it in on success.
func (w *Watcher) Reload() error {
	start := time.Now()
	repo, err := deconj.LoadRules(w.path)
	if err != nil {
		w.logger.Error("rule reload failed, keeping previous rules", "error", err)
		return err
	}
	w.target.Swap(w.build(repo))
	w.logger.Info("rules reloaded",
		"path", w.path,
		"rules", repo.Len(),
		"duration", time.Since(start))
	return nil
}
