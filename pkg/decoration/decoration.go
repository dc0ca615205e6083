// Package decoration turns server decorations into phantoms: trailing inline labels that can
// open the decoration's hover message.
package decoration

import (
	"context"
	"fmt"
	"html"

	"github.com/rs/zerolog"
	"github.com/walteh/phantoms/pkg/host"
	"github.com/walteh/phantoms/pkg/protocol"
)

const (
	DefaultCommentScope = "comment"

	moreHref = "more"
	moreLink = " <a href='" + moreHref + "'>more</a>"

	phantomHTML = `<style>div.phantom {font-style: italic; color: %s}</style>` +
		`<div class='phantom'>%s%s</div>`
)

// PopupShower opens a hover popup. Implemented by *popup.Popup.
type PopupShower interface {
	Show(ctx context.Context, view host.View, content *protocol.MarkupContent, point int)
}

// Phantom is the overlay for one decoration plus where its popup would open.
type Phantom struct {
	host.Overlay
	// PopupPoint is the start of the decorated range; the overlay itself sits at the end.
	PopupPoint int
	Hover      *protocol.MarkupContent
}

type Translator struct {
	popup        PopupShower
	commentScope string
}

func NewTranslator(popup PopupShower) *Translator {
	return &Translator{popup: popup, commentScope: DefaultCommentScope}
}

// WithCommentScope changes which theme scope colours the labels
func (t *Translator) WithCommentScope(scope string) *Translator {
	cp := *t
	cp.commentScope = scope
	return &cp
}

// Translate converts every option to a phantom bound to view. It does not touch any state.
func (t *Translator) Translate(ctx context.Context, options []protocol.DecorationOptions, view host.View) []Phantom {
	phantoms := make([]Phantom, 0, len(options))
	for _, opt := range options {
		phantoms = append(phantoms, t.translateOne(ctx, opt, view))
	}
	return phantoms
}

func (t *Translator) translateOne(ctx context.Context, opt protocol.DecorationOptions, view host.View) Phantom {
	region := view.RangeToRegion(opt.Range)
	region.A = region.B

	hover := opt.Hover()
	point := view.TextPoint(int(opt.Range.Start.Line), int(opt.Range.Start.Character))

	link := ""
	if hover != nil {
		link = moreLink
	}

	color := view.StyleForScope(t.commentScope).Foreground

	return Phantom{
		Overlay: host.Overlay{
			Region: region,
			HTML:   fmt.Sprintf(phantomHTML, color, html.EscapeString(opt.Label()), link),
			Layout: host.LayoutInline,
			OnActivate: func(href string) {
				zerolog.Ctx(ctx).Debug().Str("href", href).Int("point", point).Msg("phantom activated")
				t.popup.Show(ctx, view, hover, point)
			},
		},
		PopupPoint: point,
		Hover:      hover,
	}
}

// Overlays strips the phantoms down to what the host renders
func Overlays(phantoms []Phantom) []host.Overlay {
	out := make([]host.Overlay, len(phantoms))
	for i, p := range phantoms {
		out[i] = p.Overlay
	}
	return out
}
