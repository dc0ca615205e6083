// Package worksheet clears stale phantoms as soon as a worksheet is edited.
package worksheet

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/phantoms/pkg/host"
)

const DefaultSuffix = ".worksheet.sc"

// Clearer schedules a clear for a file path. Implemented by *dispatch.Dispatcher.
type Clearer interface {
	ClearPath(ctx context.Context, path string) bool
}

type Watcher struct {
	clearer  Clearer
	suffix   string
	patterns []string
}

func NewWatcher(clearer Clearer, suffix string, patterns ...string) *Watcher {
	if suffix == "" && len(patterns) == 0 {
		suffix = DefaultSuffix
	}
	return &Watcher{clearer: clearer, suffix: suffix, patterns: patterns}
}

// IsWorksheet reports whether edits to path should clear its phantoms
func (w *Watcher) IsWorksheet(path string) bool {
	if path == "" {
		return false
	}
	if w.suffix != "" && strings.HasSuffix(path, w.suffix) {
		return true
	}
	slashed := filepath.ToSlash(path)
	for _, pattern := range w.patterns {
		if ok, err := doublestar.Match(pattern, slashed); err == nil && ok {
			return true
		}
	}
	return false
}

// OnModified is called for every modification of every view. Each one clears; there is no debounce.
func (w *Watcher) OnModified(ctx context.Context, view host.View) {
	name := view.FileName()
	if !w.IsWorksheet(name) {
		return
	}
	zerolog.Ctx(ctx).Debug().Str("path", name).Msg("worksheet modified, clearing phantoms")
	w.clearer.ClearPath(ctx, name)
}
