// Package popup shows a decoration's hover message next to the text it describes.
package popup

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/phantoms/pkg/host"
	"github.com/walteh/phantoms/pkg/protocol"
)

const (
	DefaultClassName = "lsp_popup"
	DefaultCSS       = `.lsp_popup { margin: 0.5rem; } .lsp_popup code { font-family: monospace; }`
)

// Popup renders markup through the host and displays it. It keeps no state between calls.
type Popup struct {
	markup    host.MarkupRenderer
	display   host.PopupDisplay
	css       string
	className string
}

func New(markup host.MarkupRenderer, display host.PopupDisplay) *Popup {
	return &Popup{
		markup:    markup,
		display:   display,
		css:       DefaultCSS,
		className: DefaultClassName,
	}
}

// WithStyle overrides the css and wrapper class passed to the display
func (p *Popup) WithStyle(css, className string) *Popup {
	cp := *p
	cp.css = css
	cp.className = className
	return &cp
}

// Show renders content and shows it at point, sized to the viewport and hidden once the pointer leaves it.
func (p *Popup) Show(ctx context.Context, view host.View, content *protocol.MarkupContent, point int) {
	if content == nil {
		zerolog.Ctx(ctx).Debug().Int("point", point).Msg("no hover content, skipping popup")
		return
	}

	html := p.markup.Render(content, view, host.FormatMarkedString|host.FormatMarkupContent)

	p.display.Show(view, html, host.PopupOptions{
		CSS:                p.css,
		ClassName:          p.className,
		Point:              point,
		HideOnPointerLeave: true,
		MaxWidth:           view.ViewportWidth(),
		OnNavigate:         nil,
	})
}
