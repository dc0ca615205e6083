package headless

import (
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	labelColor = color.New(color.Italic, color.FgHiBlack)
	linkColor  = color.New(color.Underline, color.FgCyan)
)

// WriteText writes the view's document with every overlay of key inlined at its point,
// the way an editor would draw inline phantoms.
func (h *Host) WriteText(w io.Writer, view *View, key string) error {
	overlays := h.Overlays(view, key)
	text := []rune(view.buffer.Text())

	var out strings.Builder
	next := 0
	for _, o := range overlays {
		at := o.Region.B
		if at > len(text) {
			at = len(text)
		}
		if at < next {
			at = next
		}
		out.WriteString(string(text[next:at]))
		next = at

		parsed, err := ParsePhantomHTML(o.HTML)
		if err != nil {
			return err
		}
		out.WriteString(" ")
		out.WriteString(labelColor.Sprint(parsed.Label))
		if parsed.HasLink {
			out.WriteString(" ")
			out.WriteString(linkColor.Sprint(parsed.Link))
		}
	}
	out.WriteString(string(text[next:]))
	if !strings.HasSuffix(out.String(), "\n") {
		out.WriteString("\n")
	}

	_, err := io.WriteString(w, out.String())
	return err
}
