package overlay_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/phantoms/pkg/host"
	"github.com/walteh/phantoms/pkg/overlay"
	"github.com/walteh/phantoms/pkg/protocol"
)

type fakeView struct{ name string }

func (v *fakeView) FileName() string                         { return v.name }
func (v *fakeView) StyleForScope(string) host.Style          { return host.Style{} }
func (v *fakeView) RangeToRegion(protocol.Range) host.Region { return host.Region{} }
func (v *fakeView) TextPoint(row, col int) int               { return 0 }
func (v *fakeView) ViewportWidth() float64                   { return 0 }

type fakeBuffer struct {
	id    string
	views []host.View
}

func (b *fakeBuffer) ID() string         { return b.id }
func (b *fakeBuffer) Views() []host.View { return b.views }

// fakeSet behaves like an editor: the visible set is exactly the last update
type fakeSet struct {
	view    host.View
	key     string
	visible []host.Overlay
	calls   int
}

func (s *fakeSet) Update(overlays []host.Overlay) {
	s.visible = overlays
	s.calls++
}

type fakeRenderer struct {
	sets []*fakeSet
}

func (r *fakeRenderer) NewOverlaySet(view host.View, key string) host.OverlaySet {
	s := &fakeSet{view: view, key: key}
	r.sets = append(r.sets, s)
	return s
}

func ov(point int, body string) host.Overlay {
	return host.Overlay{Region: host.Region{A: point, B: point}, HTML: body, Layout: host.LayoutInline}
}

func TestRegistryLookupOrCreate(t *testing.T) {
	renderer := &fakeRenderer{}
	reg := overlay.NewRegistry(renderer, "")

	view := &fakeView{name: "A.worksheet.sc"}
	buf := &fakeBuffer{id: "buf-1", views: []host.View{view}}

	_, ok := reg.Lookup(buf)
	assert.False(t, ok)
	assert.Equal(t, 0, reg.Len(), "lookup must not create")

	m1 := reg.LookupOrCreate(buf, view)
	m2 := reg.LookupOrCreate(buf, &fakeView{name: "other"})
	assert.Same(t, m1, m2, "one manager per buffer session")
	assert.Same(t, view, m1.View().(*fakeView))
	assert.Equal(t, overlay.DefaultKey, m1.Key())

	require.Len(t, renderer.sets, 1)
	assert.Equal(t, "metals_decoration", renderer.sets[0].key)
	assert.Same(t, view, renderer.sets[0].view.(*fakeView))

	got, ok := reg.Lookup(buf)
	assert.True(t, ok)
	assert.Same(t, m1, got)

	reg.Forget("buf-1")
	assert.Equal(t, 0, reg.Len())
	_, ok = reg.Lookup(buf)
	assert.False(t, ok)
}

func TestManagerFullReplace(t *testing.T) {
	ctx := context.Background()
	renderer := &fakeRenderer{}
	reg := overlay.NewRegistry(renderer, "key")

	view := &fakeView{}
	m := reg.LookupOrCreate(&fakeBuffer{id: "b"}, view)

	a, b, c := ov(1, "A"), ov(2, "B"), ov(3, "C")

	diff := m.Update(ctx, []host.Overlay{a, b})
	assert.Equal(t, overlay.Diff{Added: 2}, diff)

	diff = m.Update(ctx, []host.Overlay{b, c})
	assert.Equal(t, overlay.Diff{Added: 1, Removed: 1, Kept: 1}, diff)

	set := renderer.sets[0]
	assert.Equal(t, []host.Overlay{b, c}, set.visible)
	assert.Equal(t, []host.Overlay{b, c}, m.Overlays())

	diff = m.Update(ctx, nil)
	assert.Equal(t, overlay.Diff{Removed: 2}, diff)
	assert.Empty(t, set.visible)
	assert.Empty(t, m.Overlays())
	assert.Equal(t, 3, set.calls)
}

func TestManagerDuplicates(t *testing.T) {
	m := overlay.NewRegistry(&fakeRenderer{}, "key").LookupOrCreate(&fakeBuffer{id: "b"}, &fakeView{})
	a := ov(1, "A")

	m.Update(context.Background(), []host.Overlay{a, a})
	diff := m.Update(context.Background(), []host.Overlay{a})
	assert.Equal(t, overlay.Diff{Kept: 1, Removed: 1}, diff)
}
