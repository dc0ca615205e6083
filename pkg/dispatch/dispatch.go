// Package dispatch is the single entry point for applying and clearing decorations.
package dispatch

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/phantoms/pkg/decoration"
	"github.com/walteh/phantoms/pkg/host"
	"github.com/walteh/phantoms/pkg/overlay"
	"github.com/walteh/phantoms/pkg/protocol"
	"github.com/walteh/phantoms/pkg/scheduler"
)

// Outcome reports what Handle did with a request
type Outcome int

const (
	Dropped Outcome = iota
	Cleared
	Applied
)

type Dispatcher struct {
	session    host.Session
	registry   *overlay.Registry
	translator *decoration.Translator
	queue      *scheduler.Queue
}

func New(session host.Session, registry *overlay.Registry, translator *decoration.Translator, queue *scheduler.Queue) *Dispatcher {
	return &Dispatcher{
		session:    session,
		registry:   registry,
		translator: translator,
		queue:      queue,
	}
}

func (d *Dispatcher) Registry() *overlay.Registry {
	return d.registry
}

// ClearPath schedules removal of every phantom in the document at path
func (d *Dispatcher) ClearPath(ctx context.Context, path string) bool {
	return d.Schedule(ctx, Clear(path))
}

// Apply schedules a full replacement of the phantoms in params.URI
func (d *Dispatcher) Apply(ctx context.Context, params *protocol.PublishDecorationsParams) bool {
	return d.Schedule(ctx, Apply(params))
}

// Schedule defers Handle to the queue so the caller is never blocked by it
func (d *Dispatcher) Schedule(ctx context.Context, req Request) bool {
	return d.queue.Schedule(ctx, "decorations/"+req.Kind().String(), func(ctx context.Context) error {
		d.Handle(ctx, req)
		return nil
	})
}

// Handle runs a request synchronously. Anything missing along the way is a silent drop.
func (d *Dispatcher) Handle(ctx context.Context, req Request) Outcome {
	logger := zerolog.Ctx(ctx).With().Str("request", req.Kind().String()).Logger()

	var uri protocol.DocumentURI
	switch req.Kind() {
	case KindClear:
		uri = d.session.PathToURI(req.Path())
		logger = logger.With().Str("path", req.Path()).Logger()
	case KindApply:
		uri = req.URI()
	default:
		logger.Debug().Msg("unknown request kind")
		return Dropped
	}

	if uri == "" {
		logger.Debug().Msg("no uri for request")
		return Dropped
	}
	logger = logger.With().Str("uri", string(uri)).Logger()

	buffer := d.session.BufferSessionForURI(uri)
	if buffer == nil {
		logger.Debug().Msg("document is not open")
		return Dropped
	}

	views := buffer.Views()
	if len(views) == 0 {
		logger.Debug().Str("buffer", buffer.ID()).Msg("buffer has no views")
		return Dropped
	}
	view := views[0]

	ctx = logger.WithContext(ctx)

	if req.Kind() == KindClear {
		manager, ok := d.registry.Lookup(buffer)
		if !ok {
			logger.Debug().Str("buffer", buffer.ID()).Msg("nothing to clear")
			return Dropped
		}
		manager.Update(ctx, nil)
		return Cleared
	}

	manager := d.registry.LookupOrCreate(buffer, view)
	phantoms := d.translator.Translate(ctx, req.Options(), view)
	manager.Update(ctx, decoration.Overlays(phantoms))
	return Applied
}
