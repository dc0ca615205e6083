package headless

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/walteh/phantoms/pkg/protocol"
)

// document is the text of one buffer. Points are rune offsets, columns from the server are UTF-16 units.
type document struct {
	text  string
	lines []string
}

func newDocument(text string) *document {
	return &document{text: text, lines: strings.Split(text, "\n")}
}

// point converts a server line/character to a rune offset, clamping past-the-end values
func (d *document) point(line, character int) int {
	if line < 0 {
		return 0
	}
	if line >= len(d.lines) {
		return utf8.RuneCountInString(d.text)
	}

	offset := 0
	for i := 0; i < line; i++ {
		offset += utf8.RuneCountInString(d.lines[i]) + 1
	}

	units := 0
	for _, r := range d.lines[line] {
		if units >= character {
			break
		}
		units += utf16.RuneLen(r)
		offset++
	}
	return offset
}

// runeToByte maps a rune offset back to a byte offset in text
func (d *document) runeToByte(point int) int {
	if point <= 0 {
		return 0
	}
	n := 0
	for i := range d.text {
		if n == point {
			return i
		}
		n++
	}
	return len(d.text)
}

// apply performs one content change; a nil range replaces the whole text
func (d *document) apply(change protocol.TextDocumentContentChangeEvent) {
	if change.Range == nil {
		*d = *newDocument(change.Text)
		return
	}
	start := d.runeToByte(d.point(int(change.Range.Start.Line), int(change.Range.Start.Character)))
	end := d.runeToByte(d.point(int(change.Range.End.Line), int(change.Range.End.Character)))
	if end < start {
		start, end = end, start
	}
	*d = *newDocument(d.text[:start] + change.Text + d.text[end:])
}
