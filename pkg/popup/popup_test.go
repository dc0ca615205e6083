package popup_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/walteh/phantoms/pkg/host"
	"github.com/walteh/phantoms/pkg/popup"
	"github.com/walteh/phantoms/pkg/protocol"
)

type MockMarkup struct {
	mock.Mock
}

func (m *MockMarkup) Render(content *protocol.MarkupContent, view host.View, allowed host.Format) string {
	return m.Called(content, view, allowed).String(0)
}

type MockDisplay struct {
	mock.Mock
}

func (m *MockDisplay) Show(view host.View, html string, opts host.PopupOptions) {
	m.Called(view, html, opts)
}

type wideView struct{}

func (wideView) FileName() string                         { return "/w/A.worksheet.sc" }
func (wideView) StyleForScope(string) host.Style          { return host.Style{} }
func (wideView) RangeToRegion(protocol.Range) host.Region { return host.Region{} }
func (wideView) TextPoint(int, int) int                   { return 0 }
func (wideView) ViewportWidth() float64                   { return 1234 }

func TestShow(t *testing.T) {
	content := &protocol.MarkupContent{Kind: protocol.Markdown, Value: "`Int`"}
	view := wideView{}

	markup := &MockMarkup{}
	markup.On("Render", content, view, host.FormatMarkedString|host.FormatMarkupContent).Return("<code>Int</code>").Once()

	display := &MockDisplay{}
	display.On("Show", view, "<code>Int</code>", mock.MatchedBy(func(o host.PopupOptions) bool {
		return o.Point == 42 &&
			o.HideOnPointerLeave &&
			o.MaxWidth == 1234 &&
			o.CSS == popup.DefaultCSS &&
			o.ClassName == popup.DefaultClassName &&
			o.OnNavigate == nil
	})).Once()

	popup.New(markup, display).Show(context.Background(), view, content, 42)

	markup.AssertExpectations(t)
	display.AssertExpectations(t)
}

func TestShowWithStyle(t *testing.T) {
	content := &protocol.MarkupContent{Kind: protocol.PlainText, Value: "x"}

	markup := &MockMarkup{}
	markup.On("Render", content, mock.Anything, mock.Anything).Return("x")

	display := &MockDisplay{}
	display.On("Show", mock.Anything, "x", mock.MatchedBy(func(o host.PopupOptions) bool {
		return o.CSS == ".p{}" && o.ClassName == "p"
	})).Once()

	base := popup.New(markup, display)
	base.WithStyle(".p{}", "p").Show(context.Background(), wideView{}, content, 0)

	display.AssertExpectations(t)
}

func TestShowWithoutContent(t *testing.T) {
	markup := &MockMarkup{}
	display := &MockDisplay{}

	popup.New(markup, display).Show(context.Background(), wideView{}, nil, 3)

	markup.AssertNotCalled(t, "Render", mock.Anything, mock.Anything, mock.Anything)
	display.AssertNotCalled(t, "Show", mock.Anything, mock.Anything, mock.Anything)
}
