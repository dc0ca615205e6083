// Package host declares what the editor must provide for decorations to be rendered.
// Nothing here is implemented by the core; see pkg/headless for an in-memory host.
package host

import (
	"github.com/walteh/phantoms/pkg/protocol"
)

// Region is a span of text points in a view. A == B is a zero-width region.
type Region struct {
	A int
	B int
}

func (r Region) Empty() bool {
	return r.A == r.B
}

// Style is the resolved look of a syntax scope in the active color scheme
type Style struct {
	Foreground string
	Background string
	Italic     bool
}

// Session maps client paths to server uris and tracks open buffers
type Session interface {
	// PathToURI returns "" when the path does not belong to the session
	PathToURI(path string) protocol.DocumentURI
	// BufferSessionForURI returns nil when the document is not open
	BufferSessionForURI(uri protocol.DocumentURI) BufferSession
}

// BufferSession binds an open document to the views showing it
type BufferSession interface {
	ID() string
	Views() []View
}

type View interface {
	FileName() string
	StyleForScope(scope string) Style
	RangeToRegion(rng protocol.Range) Region
	TextPoint(row, col int) int
	ViewportWidth() float64
}

// Layout controls how an overlay is placed relative to the text
type Layout int

const (
	LayoutInline Layout = iota
	LayoutBelow
	LayoutBlock
)

// Overlay is the renderable form of a phantom
type Overlay struct {
	Region     Region
	HTML       string
	Layout     Layout
	OnActivate func(href string)
}

// Equal reports whether two overlays would render identically. Callbacks are not compared.
func (o Overlay) Equal(other Overlay) bool {
	return o.Region == other.Region && o.HTML == other.HTML && o.Layout == other.Layout
}

// OverlaySet holds every overlay of one key in one view. Update replaces the whole set.
type OverlaySet interface {
	Update(overlays []Overlay)
}

type OverlayRenderer interface {
	NewOverlaySet(view View, key string) OverlaySet
}

// Format is a bitmask of markup kinds the renderer may accept
type Format int

const (
	FormatMarkedString Format = 1 << iota
	FormatMarkupContent
)

type MarkupRenderer interface {
	Render(content *protocol.MarkupContent, view View, allowed Format) string
}

type PopupOptions struct {
	CSS                string
	ClassName          string
	Point              int
	HideOnPointerLeave bool
	MaxWidth           float64
	OnNavigate         func(href string)
}

type PopupDisplay interface {
	Show(view View, html string, opts PopupOptions)
}
