package headless

import (
	"bytes"
	"html"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/walteh/phantoms/pkg/host"
	"github.com/walteh/phantoms/pkg/protocol"
)

var (
	_ host.MarkupRenderer = (*Host)(nil)
	_ host.PopupDisplay   = (*Host)(nil)
)

// Popup is a popup the host was asked to show
type Popup struct {
	View    *View
	HTML    string
	Options host.PopupOptions
}

// Render turns markup into html. Plain text is escaped; markdown code fences are highlighted
// with the view's theme and everything else is kept as escaped paragraphs.
func (h *Host) Render(content *protocol.MarkupContent, view host.View, allowed host.Format) string {
	if content == nil {
		return ""
	}
	if content.Kind != protocol.Markdown || allowed&host.FormatMarkupContent == 0 {
		return "<p>" + html.EscapeString(content.Value) + "</p>"
	}

	var out strings.Builder
	var paragraph []string
	flush := func() {
		if len(paragraph) > 0 {
			out.WriteString("<p>" + html.EscapeString(strings.Join(paragraph, "\n")) + "</p>")
			paragraph = nil
		}
	}

	lines := strings.Split(content.Value, "\n")
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if !strings.HasPrefix(strings.TrimSpace(line), "```") {
			if strings.TrimSpace(line) == "" {
				flush()
			} else {
				paragraph = append(paragraph, line)
			}
			continue
		}

		flush()
		lang := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "```"))
		var code []string
		for i++; i < len(lines) && !strings.HasPrefix(strings.TrimSpace(lines[i]), "```"); i++ {
			code = append(code, lines[i])
		}
		out.WriteString(h.highlight(lang, strings.Join(code, "\n")))
	}
	flush()

	return out.String()
}

func (h *Host) highlight(lang, code string) string {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "<pre>" + html.EscapeString(code) + "</pre>"
	}

	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(false), chromahtml.PreventSurroundingPre(false))
	if err := formatter.Format(&buf, h.theme, iterator); err != nil {
		return "<pre>" + html.EscapeString(code) + "</pre>"
	}
	return buf.String()
}

func (h *Host) Show(view host.View, body string, opts host.PopupOptions) {
	v, _ := view.(*View)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.popups = append(h.popups, Popup{View: v, HTML: body, Options: opts})
}

// Popups returns every popup shown so far, oldest first
func (h *Host) Popups() []Popup {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Popup(nil), h.popups...)
}
