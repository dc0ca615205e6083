package dispatch

import (
	"github.com/walteh/phantoms/pkg/protocol"
)

// Kind tags a Request
type Kind int

const (
	KindClear Kind = iota + 1
	KindApply
)

func (k Kind) String() string {
	switch k {
	case KindClear:
		return "clear"
	case KindApply:
		return "apply"
	default:
		return "unknown"
	}
}

// Request is either a local clear of a file path or a server push of decorations for a uri.
// Build it with Clear or Apply.
type Request struct {
	kind    Kind
	path    string
	uri     protocol.DocumentURI
	options []protocol.DecorationOptions
}

func Clear(path string) Request {
	return Request{kind: KindClear, path: path}
}

func Apply(params *protocol.PublishDecorationsParams) Request {
	if params == nil {
		return Request{kind: KindApply}
	}
	return Request{kind: KindApply, uri: params.URI, options: params.Options}
}

func (r Request) Kind() Kind {
	return r.kind
}

// Path is set for clear requests
func (r Request) Path() string {
	return r.path
}

// URI is set for apply requests
func (r Request) URI() protocol.DocumentURI {
	return r.uri
}

func (r Request) Options() []protocol.DecorationOptions {
	return r.options
}
