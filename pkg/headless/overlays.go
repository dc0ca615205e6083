package headless

import (
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/walteh/phantoms/pkg/host"
)

type overlayKey struct {
	view *View
	key  string
}

// OverlaySet is the host side of one overlay key in one view
type OverlaySet struct {
	view     *View
	key      string
	overlays []host.Overlay
	updates  int
}

// NewOverlaySet returns the set for (view, key), creating it on first use
func (h *Host) NewOverlaySet(view host.View, key string) host.OverlaySet {
	v, ok := view.(*View)
	if !ok {
		panic("headless: foreign view passed to NewOverlaySet")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	k := overlayKey{view: v, key: key}
	if set, ok := h.overlays[k]; ok {
		return set
	}
	set := &OverlaySet{view: v, key: key}
	h.overlays[k] = set
	return set
}

func (s *OverlaySet) Update(overlays []host.Overlay) {
	s.view.buffer.host.mu.Lock()
	defer s.view.buffer.host.mu.Unlock()
	s.overlays = append([]host.Overlay(nil), overlays...)
	s.updates++
}

// Overlays returns what is visible in view for key, sorted by position
func (h *Host) Overlays(view *View, key string) []host.Overlay {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.overlays[overlayKey{view: view, key: key}]
	if !ok {
		return nil
	}
	out := append([]host.Overlay(nil), set.overlays...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Region.B < out[j].Region.B })
	return out
}

// Updates counts Update calls on the set for (view, key)
func (h *Host) Updates(view *View, key string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.overlays[overlayKey{view: view, key: key}]; ok {
		return set.updates
	}
	return 0
}

// Activate clicks the link of the i-th visible overlay
func (h *Host) Activate(view *View, key string, i int, href string) bool {
	overlays := h.Overlays(view, key)
	if i < 0 || i >= len(overlays) || overlays[i].OnActivate == nil {
		return false
	}
	overlays[i].OnActivate(href)
	return true
}

// PhantomText is what a phantom shows once its html is stripped
type PhantomText struct {
	Label   string
	Link    string
	HasLink bool
}

// ParsePhantomHTML extracts the label and link text from a phantom body
func ParsePhantomHTML(body string) (PhantomText, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return PhantomText{}, err
	}

	sel := doc.Find("div.phantom").First()
	if sel.Length() == 0 {
		sel = doc.Find("body")
	}

	var out PhantomText
	if a := sel.Find("a").First(); a.Length() > 0 {
		out.HasLink = true
		out.Link = a.Text()
		a.Remove()
	}
	out.Label = strings.TrimSpace(sel.Text())
	return out, nil
}
