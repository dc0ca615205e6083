package protocol

import (
	"net/url"
	"path/filepath"
	"strings"
)

// DocumentURI is a file:// uri as sent over the wire
type DocumentURI string

// Path returns the local file path of the uri, or the raw value if it is not a file uri
func (u DocumentURI) Path() string {
	parsed, err := url.Parse(string(u))
	if err != nil || parsed.Scheme != "file" {
		return strings.TrimPrefix(string(u), "file://")
	}
	return filepath.FromSlash(parsed.Path)
}

// Normalize re-encodes a file uri so that escaped and unescaped spellings of the same path compare equal.
// Other schemes are returned unchanged.
func (u DocumentURI) Normalize() DocumentURI {
	parsed, err := url.Parse(string(u))
	if err != nil || parsed.Scheme != "file" {
		return u
	}
	return URIFromPath(parsed.Path)
}

// URIFromPath builds a file uri from a local path. Relative paths are left relative.
func URIFromPath(path string) DocumentURI {
	if path == "" {
		return ""
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return DocumentURI(u.String())
}

type Position struct {
	Line      uint32 `json:"line"`
	Character uint32 `json:"character"`
}

type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// MarkupKind describes the content type of a MarkupContent
type MarkupKind string

const (
	PlainText MarkupKind = "plaintext"
	Markdown  MarkupKind = "markdown"
)

// MarkupContent represents a marked up content.
type MarkupContent struct {
	Kind  MarkupKind `json:"kind"`
	Value string     `json:"value"`
}

// ThemableDecorationAttachmentRenderOptions describes text attached before or after a decoration
type ThemableDecorationAttachmentRenderOptions struct {
	ContentText *string `json:"contentText,omitempty"`
	Color       *string `json:"color,omitempty"`
	FontStyle   *string `json:"fontStyle,omitempty"`
}

// ThemableDecorationInstanceRenderOptions are the per-decoration render options
type ThemableDecorationInstanceRenderOptions struct {
	After *ThemableDecorationAttachmentRenderOptions `json:"after,omitempty"`
}

// DecorationOptions is a single decoration pushed by the server
type DecorationOptions struct {
	Range         Range                                    `json:"range"`
	HoverMessage  *MarkupContent                           `json:"hoverMessage,omitempty"`
	RenderOptions *ThemableDecorationInstanceRenderOptions `json:"renderOptions,omitempty"`
}

// Label returns renderOptions.after.contentText, or "" when any part of the chain is missing.
func (d DecorationOptions) Label() string {
	if d.RenderOptions == nil || d.RenderOptions.After == nil || d.RenderOptions.After.ContentText == nil {
		return ""
	}
	return *d.RenderOptions.After.ContentText
}

// Hover returns the hover payload, nil when absent or sent as an empty object.
func (d DecorationOptions) Hover() *MarkupContent {
	if d.HoverMessage == nil || *d.HoverMessage == (MarkupContent{}) {
		return nil
	}
	return d.HoverMessage
}

// PublishDecorationsParams is the payload of metals/publishDecorations
type PublishDecorationsParams struct {
	URI      DocumentURI         `json:"uri"`
	Options  []DecorationOptions `json:"options"`
	IsInline *bool               `json:"isInline,omitempty"`
}

type TextDocumentItem struct {
	URI        DocumentURI `json:"uri"`
	LanguageID string      `json:"languageId"`
	Version    int32       `json:"version"`
	Text       string      `json:"text"`
}

type TextDocumentIdentifier struct {
	URI DocumentURI `json:"uri"`
}

type VersionedTextDocumentIdentifier struct {
	URI     DocumentURI `json:"uri"`
	Version int32       `json:"version"`
}

type TextDocumentContentChangeEvent struct {
	Range *Range `json:"range,omitempty"`
	Text  string `json:"text"`
}

type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

type DidChangeTextDocumentParams struct {
	TextDocument   VersionedTextDocumentIdentifier  `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

type DidCloseTextDocumentParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}
