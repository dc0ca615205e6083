package overlay

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/phantoms/pkg/host"
)

const DefaultKey = "metals_decoration"

// Diff counts what an Update changed, compared by host.Overlay.Equal
type Diff struct {
	Added   int
	Removed int
	Kept    int
}

// Manager owns the overlays of one key in one buffer session. It is only touched from the
// dispatch queue.
type Manager struct {
	key     string
	view    host.View
	set     host.OverlaySet
	current []host.Overlay
}

func newManager(renderer host.OverlayRenderer, view host.View, key string) *Manager {
	return &Manager{
		key:  key,
		view: view,
		set:  renderer.NewOverlaySet(view, key),
	}
}

func (m *Manager) Key() string {
	return m.key
}

// View is the view the manager was created for
func (m *Manager) View() host.View {
	return m.view
}

// Update replaces every overlay with the given list. An empty list clears the manager.
func (m *Manager) Update(ctx context.Context, overlays []host.Overlay) Diff {
	diff := diffOverlays(m.current, overlays)

	m.set.Update(overlays)
	m.current = append([]host.Overlay(nil), overlays...)

	zerolog.Ctx(ctx).Debug().
		Str("key", m.key).
		Int("added", diff.Added).
		Int("removed", diff.Removed).
		Int("kept", diff.Kept).
		Msg("overlays updated")

	return diff
}

// Overlays returns a copy of the current set
func (m *Manager) Overlays() []host.Overlay {
	return append([]host.Overlay(nil), m.current...)
}

func diffOverlays(prev, next []host.Overlay) Diff {
	var diff Diff
	used := make([]bool, len(prev))
	for _, n := range next {
		found := false
		for i, p := range prev {
			if !used[i] && p.Equal(n) {
				used[i] = true
				found = true
				break
			}
		}
		if found {
			diff.Kept++
		} else {
			diff.Added++
		}
	}
	diff.Removed = len(prev) - diff.Kept
	return diff
}

// Registry is the side table from buffer session id to its Manager
type Registry struct {
	renderer host.OverlayRenderer
	key      string

	mu       sync.Mutex
	managers map[string]*Manager
}

func NewRegistry(renderer host.OverlayRenderer, key string) *Registry {
	if key == "" {
		key = DefaultKey
	}
	return &Registry{
		renderer: renderer,
		key:      key,
		managers: make(map[string]*Manager),
	}
}

// Lookup never creates a manager
func (r *Registry) Lookup(buffer host.BufferSession) (*Manager, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.managers[buffer.ID()]
	return m, ok
}

// LookupOrCreate returns the buffer's manager, binding a new one to view on first use
func (r *Registry) LookupOrCreate(buffer host.BufferSession, view host.View) *Manager {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.managers[buffer.ID()]; ok {
		return m
	}
	m := newManager(r.renderer, view, r.key)
	r.managers[buffer.ID()] = m
	return m
}

// Forget drops the manager of a closed buffer session
func (r *Registry) Forget(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.managers, id)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.managers)
}
