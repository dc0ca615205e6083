package protocol

import (
	"context"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/rs/zerolog"
)

const (
	MethodPublishDecorations = "metals/publishDecorations"
	MethodDidOpen            = "textDocument/didOpen"
	MethodDidChange          = "textDocument/didChange"
	MethodDidClose           = "textDocument/didClose"
)

// Client is the editor side of the connection: the notifications a language server pushes to us
// plus the document lifecycle the editor forwards.
type Client interface {
	PublishDecorations(ctx context.Context, params *PublishDecorationsParams) error
	DidOpen(ctx context.Context, params *DidOpenTextDocumentParams) error
	DidChange(ctx context.Context, params *DidChangeTextDocumentParams) error
	DidClose(ctx context.Context, params *DidCloseTextDocumentParams) error
}

func newParseError(err error) *jrpc2.Error {
	return &jrpc2.Error{
		Code:    -32700, // Parse error
		Message: err.Error(),
	}
}

func ApplyRequestToZerolog(ctx context.Context, req *jrpc2.Request) context.Context {
	return zerolog.Ctx(ctx).With().Str("rpc_method", req.Method()).Str("rpc_id", req.ID()).Logger().WithContext(ctx)
}

func createEmptyResultHandler[T any](method func(ctx context.Context, params *T) error) handler.Func {
	return handler.New(func(ctx context.Context, r *jrpc2.Request) (interface{}, error) {
		ctx = ApplyRequestToZerolog(ctx, r)
		var params T
		if err := r.UnmarshalParams(&params); err != nil {
			return nil, newParseError(err)
		}
		return nil, method(ctx, &params)
	})
}

// BuildClientDispatchMap routes incoming notifications to the client implementation
func BuildClientDispatchMap(client Client) handler.Map {
	return handler.Map{
		MethodPublishDecorations: createEmptyResultHandler(client.PublishDecorations),
		MethodDidOpen:            createEmptyResultHandler(client.DidOpen),
		MethodDidChange:          createEmptyResultHandler(client.DidChange),
		MethodDidClose:           createEmptyResultHandler(client.DidClose),
	}
}

// NewClientServer wraps the client in a jrpc2 server. The base context carries the caller's logger.
func NewClientServer(ctx context.Context, client Client, opts *jrpc2.ServerOptions) *jrpc2.Server {
	if opts == nil {
		opts = &jrpc2.ServerOptions{}
	}
	if opts.NewContext == nil {
		opts.NewContext = func() context.Context { return ctx }
	}
	return jrpc2.NewServer(BuildClientDispatchMap(client), opts)
}
