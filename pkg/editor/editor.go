// Package editor wires the decoration pipeline to the headless host and exposes it as the
// client end of a language server connection.
package editor

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/phantoms/pkg/config"
	"github.com/walteh/phantoms/pkg/decoration"
	"github.com/walteh/phantoms/pkg/dispatch"
	"github.com/walteh/phantoms/pkg/headless"
	"github.com/walteh/phantoms/pkg/overlay"
	"github.com/walteh/phantoms/pkg/popup"
	"github.com/walteh/phantoms/pkg/protocol"
	"github.com/walteh/phantoms/pkg/scheduler"
	"github.com/walteh/phantoms/pkg/worksheet"
)

var _ protocol.Client = (*Editor)(nil)

type Editor struct {
	cfg        config.Config
	host       *headless.Host
	queue      *scheduler.Queue
	dispatcher *dispatch.Dispatcher
	watcher    *worksheet.Watcher
}

// New builds the pipeline. Call Start before sending notifications and Stop when done.
func New(cfg config.Config, fs afero.Fs, root string) (*Editor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("invalid config: %w", err)
	}

	h := headless.New(fs, root,
		headless.WithTheme(cfg.Theme),
		headless.WithViewportWidth(cfg.ViewportWidth),
	)

	queue := scheduler.NewQueue(cfg.QueueSize)
	translator := decoration.NewTranslator(popup.New(h, h)).WithCommentScope(cfg.CommentScope)
	dispatcher := dispatch.New(h, overlay.NewRegistry(h, cfg.OverlayKey), translator, queue)

	return &Editor{
		cfg:        cfg,
		host:       h,
		queue:      queue,
		dispatcher: dispatcher,
		watcher:    worksheet.NewWatcher(dispatcher, cfg.WorksheetSuffix, cfg.WorksheetPatterns...),
	}, nil
}

func (e *Editor) Start(ctx context.Context) {
	e.queue.Run(ctx)
}

// Wait blocks until every scheduled decoration request was handled
func (e *Editor) Wait() {
	e.queue.Wait()
}

func (e *Editor) Stop(ctx context.Context) error {
	return e.queue.Stop(ctx)
}

func (e *Editor) Host() *headless.Host {
	return e.host
}

func (e *Editor) Dispatcher() *dispatch.Dispatcher {
	return e.dispatcher
}

func (e *Editor) OverlayKey() string {
	return e.cfg.OverlayKey
}

func (e *Editor) PublishDecorations(ctx context.Context, params *protocol.PublishDecorationsParams) error {
	e.dispatcher.Apply(ctx, params)
	return nil
}

func (e *Editor) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	zerolog.Ctx(ctx).Debug().Str("uri", string(params.TextDocument.URI)).Msg("document opened")

	if _, err := e.host.OpenText(params.TextDocument.URI.Path(), params.TextDocument.Text); err != nil {
		return errors.Errorf("opening document: %w", err)
	}
	return nil
}

// DidChange edits the buffer and lets the worksheet watcher react as if the first view was modified
func (e *Editor) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	buffer, ok := e.host.Buffer(params.TextDocument.URI)
	if !ok {
		zerolog.Ctx(ctx).Debug().Str("uri", string(params.TextDocument.URI)).Msg("change for unopened document")
		return nil
	}

	buffer.Edit(params.ContentChanges...)

	if view := buffer.View(); view != nil {
		e.watcher.OnModified(ctx, view)
	}
	return nil
}

// DidClose drops the buffer on the decoration queue, behind any apply or clear already scheduled for it,
// so a pending apply cannot recreate the manager after it was forgotten.
func (e *Editor) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	closeBuffer := func(ctx context.Context) error {
		id, ok := e.host.Close(uri)
		if !ok {
			zerolog.Ctx(ctx).Debug().Str("uri", string(uri)).Msg("close for unopened document")
			return nil
		}
		e.dispatcher.Registry().Forget(id)
		zerolog.Ctx(ctx).Debug().Str("uri", string(uri)).Str("buffer", id).Msg("document closed")
		return nil
	}

	if !e.queue.Schedule(ctx, "documents/close", closeBuffer) {
		// nothing runs on a stopped queue anymore
		return closeBuffer(ctx)
	}
	return nil
}

// Modified reports a local modification of path without changing its text
func (e *Editor) Modified(ctx context.Context, path string) {
	buffer, ok := e.host.Buffer(e.host.PathToURI(path))
	if !ok {
		return
	}
	if view := buffer.View(); view != nil {
		e.watcher.OnModified(ctx, view)
	}
}
