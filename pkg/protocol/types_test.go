package protocol_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/phantoms/pkg/protocol"
)

const publishDecorationsJSON = `{
	"uri": "file:///work/Foo.worksheet.sc",
	"options": [
		{
			"range": {"start": {"line": 0, "character": 0}, "end": {"line": 0, "character": 9}},
			"hoverMessage": {"kind": "markdown", "value": "` + "```scala\\nval x: Int = 1\\n```" + `"},
			"renderOptions": {"after": {"contentText": "// : Int = 1", "color": "green", "fontStyle": "italic"}}
		},
		{
			"range": {"start": {"line": 1, "character": 0}, "end": {"line": 1, "character": 3}},
			"renderOptions": {}
		}
	],
	"isInline": true
}`

func TestDecodePublishDecorations(t *testing.T) {
	var params protocol.PublishDecorationsParams
	require.NoError(t, json.Unmarshal([]byte(publishDecorationsJSON), &params))

	assert.Equal(t, protocol.DocumentURI("file:///work/Foo.worksheet.sc"), params.URI)
	require.Len(t, params.Options, 2)
	require.NotNil(t, params.IsInline)
	assert.True(t, *params.IsInline)

	first := params.Options[0]
	assert.Equal(t, "// : Int = 1", first.Label())
	require.NotNil(t, first.Hover())
	assert.Equal(t, protocol.Markdown, first.Hover().Kind)
	assert.Equal(t, protocol.Position{Line: 0, Character: 9}, first.Range.End)

	second := params.Options[1]
	assert.Equal(t, "", second.Label())
	assert.Nil(t, second.Hover())
}

func TestLabelMissingLinks(t *testing.T) {
	text := "x"
	tests := []struct {
		name string
		opt  protocol.DecorationOptions
		want string
	}{
		{"no render options", protocol.DecorationOptions{}, ""},
		{"no after", protocol.DecorationOptions{RenderOptions: &protocol.ThemableDecorationInstanceRenderOptions{}}, ""},
		{"no content text", protocol.DecorationOptions{RenderOptions: &protocol.ThemableDecorationInstanceRenderOptions{After: &protocol.ThemableDecorationAttachmentRenderOptions{}}}, ""},
		{"content text", protocol.DecorationOptions{RenderOptions: &protocol.ThemableDecorationInstanceRenderOptions{After: &protocol.ThemableDecorationAttachmentRenderOptions{ContentText: &text}}}, "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.opt.Label())
		})
	}
}

func TestURIPath(t *testing.T) {
	uri := protocol.URIFromPath("/work/dir with space/A.worksheet.sc")
	assert.Equal(t, protocol.DocumentURI("file:///work/dir%20with%20space/A.worksheet.sc"), uri)
	assert.Equal(t, "/work/dir with space/A.worksheet.sc", uri.Path())

	assert.Equal(t, protocol.DocumentURI(""), protocol.URIFromPath(""))
	assert.Equal(t, "untitled:1", protocol.DocumentURI("untitled:1").Path())
}

func TestHoverEmptyObject(t *testing.T) {
	var params protocol.PublishDecorationsParams
	require.NoError(t, json.Unmarshal([]byte(`{"uri":"file:///a.sc","options":[
		{"range":{"start":{"line":0,"character":0},"end":{"line":0,"character":1}},"hoverMessage":{}},
		{"range":{"start":{"line":0,"character":0},"end":{"line":0,"character":1}},"hoverMessage":{"kind":"markdown","value":""}}
	]}`), &params))

	assert.Nil(t, params.Options[0].Hover())
	require.NotNil(t, params.Options[1].Hover())
	assert.Equal(t, protocol.Markdown, params.Options[1].Hover().Kind)
}

func TestURINormalize(t *testing.T) {
	tests := []struct {
		name string
		uri  protocol.DocumentURI
		want protocol.DocumentURI
	}{
		{"plain", "file:///work/Main.worksheet.sc", "file:///work/Main.worksheet.sc"},
		{"unescaped non ascii", "file:///work/Été.worksheet.sc", "file:///work/%C3%89t%C3%A9.worksheet.sc"},
		{"escaped non ascii", "file:///work/%C3%89t%C3%A9.worksheet.sc", "file:///work/%C3%89t%C3%A9.worksheet.sc"},
		{"escaped colon", "file:///work/a%3Ab.worksheet.sc", "file:///work/a:b.worksheet.sc"},
		{"other scheme", "untitled:1", "untitled:1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.uri.Normalize())
		})
	}
}
