// Package headless is an in-memory editor host. It keeps documents, views, overlays and popups
// in memory so decorations can be replayed and inspected without an editor.
package headless

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/phantoms/pkg/host"
	"github.com/walteh/phantoms/pkg/protocol"
)

var (
	_ host.Session         = (*Host)(nil)
	_ host.OverlayRenderer = (*Host)(nil)
	_ host.BufferSession   = (*Buffer)(nil)
	_ host.View            = (*View)(nil)
)

type Host struct {
	fs            afero.Fs
	root          string
	theme         *chroma.Style
	viewportWidth float64

	mu       sync.Mutex
	buffers  map[protocol.DocumentURI]*Buffer
	overlays map[overlayKey]*OverlaySet
	popups   []Popup
}

type Option func(*Host)

// WithTheme selects the chroma style used as colour scheme. Unknown names fall back to chroma's default.
func WithTheme(name string) Option {
	return func(h *Host) {
		h.theme = styles.Get(name)
	}
}

func WithViewportWidth(width float64) Option {
	return func(h *Host) {
		h.viewportWidth = width
	}
}

// New creates a host serving files under root from fs
func New(fs afero.Fs, root string, opts ...Option) *Host {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = filepath.Clean(root)
	}
	h := &Host{
		fs:            fs,
		root:          abs,
		theme:         styles.Fallback,
		viewportWidth: 800,
		buffers:       make(map[protocol.DocumentURI]*Buffer),
		overlays:      make(map[overlayKey]*OverlaySet),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Host) resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(h.root, path)
}

// PathToURI maps paths inside the root to file uris, anything else to ""
func (h *Host) PathToURI(path string) protocol.DocumentURI {
	if path == "" {
		return ""
	}
	abs := h.resolve(path)
	rel, err := filepath.Rel(h.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}
	return protocol.URIFromPath(abs)
}

// BufferSessionForURI accepts any spelling of a file uri; buffers are keyed by the normalized form.
func (h *Host) BufferSessionForURI(uri protocol.DocumentURI) host.BufferSession {
	h.mu.Lock()
	defer h.mu.Unlock()
	if b, ok := h.buffers[uri.Normalize()]; ok {
		return b
	}
	// a typed nil would not compare equal to nil for callers
	return nil
}

// Buffer returns the concrete buffer for uri
func (h *Host) Buffer(uri protocol.DocumentURI) (*Buffer, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	b, ok := h.buffers[uri.Normalize()]
	return b, ok
}

// Open reads path from the filesystem and opens it in one view
func (h *Host) Open(path string) (*Buffer, error) {
	abs := h.resolve(path)
	data, err := afero.ReadFile(h.fs, abs)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", path, err)
	}
	return h.OpenText(abs, string(data))
}

// OpenText opens a buffer with the given content. Opening an already open document returns the existing buffer.
func (h *Host) OpenText(path string, text string) (*Buffer, error) {
	uri := h.PathToURI(path)
	if uri == "" {
		return nil, errors.Errorf("path %s is outside of root %s", path, h.root)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if b, ok := h.buffers[uri]; ok {
		return b, nil
	}

	b := &Buffer{
		id:   uuid.NewString(),
		uri:  uri,
		path: h.resolve(path),
		host: h,
		doc:  newDocument(text),
	}
	b.views = []*View{{id: 1, buffer: b}}
	h.buffers[uri] = b
	return b, nil
}

// Close forgets the buffer and its overlays, returning its id
func (h *Host) Close(uri protocol.DocumentURI) (string, bool) {
	uri = uri.Normalize()

	h.mu.Lock()
	defer h.mu.Unlock()
	b, ok := h.buffers[uri]
	if !ok {
		return "", false
	}
	delete(h.buffers, uri)
	for key, set := range h.overlays {
		if set.view.buffer == b {
			delete(h.overlays, key)
		}
	}
	return b.id, true
}

// Buffers lists open buffers in no particular order
func (h *Host) Buffers() []*Buffer {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*Buffer, 0, len(h.buffers))
	for _, b := range h.buffers {
		out = append(out, b)
	}
	return out
}

type Buffer struct {
	id   string
	uri  protocol.DocumentURI
	path string
	host *Host

	mu    sync.Mutex
	doc   *document
	views []*View
}

func (b *Buffer) ID() string {
	return b.id
}

func (b *Buffer) URI() protocol.DocumentURI {
	return b.uri
}

func (b *Buffer) Views() []host.View {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]host.View, len(b.views))
	for i, v := range b.views {
		out[i] = v
	}
	return out
}

// View returns the first view, nil when every view was closed
func (b *Buffer) View() *View {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.views) == 0 {
		return nil
	}
	return b.views[0]
}

// Split adds another view on the same buffer
func (b *Buffer) Split() *View {
	b.mu.Lock()
	defer b.mu.Unlock()
	v := &View{id: len(b.views) + 1, buffer: b}
	b.views = append(b.views, v)
	return v
}

// CloseViews detaches every view while keeping the buffer open
func (b *Buffer) CloseViews() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.views = nil
}

func (b *Buffer) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.doc.text
}

// Edit applies content changes in order
func (b *Buffer) Edit(changes ...protocol.TextDocumentContentChangeEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range changes {
		b.doc.apply(c)
	}
}

type View struct {
	id     int
	buffer *Buffer
}

func (v *View) ID() int {
	return v.id
}

func (v *View) Buffer() *Buffer {
	return v.buffer
}

func (v *View) FileName() string {
	return v.buffer.path
}

// StyleForScope looks the scope up in the chroma style. Scopes are dotted like "comment.line";
// the longest known prefix wins.
func (v *View) StyleForScope(scope string) host.Style {
	theme := v.buffer.host.theme
	entry := theme.Get(tokenTypeForScope(scope))
	style := host.Style{Italic: entry.Italic == chroma.Yes}
	if entry.Colour.IsSet() {
		style.Foreground = entry.Colour.String()
	}
	if entry.Background.IsSet() {
		style.Background = entry.Background.String()
	}
	return style
}

func (v *View) RangeToRegion(rng protocol.Range) host.Region {
	v.buffer.mu.Lock()
	defer v.buffer.mu.Unlock()
	return host.Region{
		A: v.buffer.doc.point(int(rng.Start.Line), int(rng.Start.Character)),
		B: v.buffer.doc.point(int(rng.End.Line), int(rng.End.Character)),
	}
}

func (v *View) TextPoint(row, col int) int {
	v.buffer.mu.Lock()
	defer v.buffer.mu.Unlock()
	return v.buffer.doc.point(row, col)
}

func (v *View) ViewportWidth() float64 {
	return v.buffer.host.viewportWidth
}

var scopeTokenTypes = map[string]chroma.TokenType{
	"comment":                     chroma.Comment,
	"comment.line":                chroma.CommentSingle,
	"comment.block":               chroma.CommentMultiline,
	"comment.block.documentation": chroma.CommentSpecial,
	"keyword":                     chroma.Keyword,
	"string":                      chroma.LiteralString,
	"constant.numeric":            chroma.LiteralNumber,
	"entity.name.function":        chroma.NameFunction,
	"entity.name.type":            chroma.NameClass,
	"variable":                    chroma.NameVariable,
	"invalid":                     chroma.Error,
}

func tokenTypeForScope(scope string) chroma.TokenType {
	for s := scope; s != ""; {
		if tt, ok := scopeTokenTypes[s]; ok {
			return tt
		}
		idx := strings.LastIndexByte(s, '.')
		if idx < 0 {
			break
		}
		s = s[:idx]
	}
	return chroma.Text
}
