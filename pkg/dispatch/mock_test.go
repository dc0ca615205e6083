package dispatch_test

import (
	"github.com/stretchr/testify/mock"
	"github.com/walteh/phantoms/pkg/host"
	"github.com/walteh/phantoms/pkg/protocol"
)

type MockSession struct {
	mock.Mock
}

func (m *MockSession) PathToURI(path string) protocol.DocumentURI {
	return protocol.DocumentURI(m.Called(path).String(0))
}

func (m *MockSession) BufferSessionForURI(uri protocol.DocumentURI) host.BufferSession {
	args := m.Called(uri)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(host.BufferSession)
}

type MockBuffer struct {
	mock.Mock
}

func (m *MockBuffer) ID() string {
	return m.Called().String(0)
}

func (m *MockBuffer) Views() []host.View {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]host.View)
}

type stubView struct{}

func (stubView) FileName() string                { return "/work/A.worksheet.sc" }
func (stubView) StyleForScope(string) host.Style { return host.Style{Foreground: "#888888"} }
func (stubView) TextPoint(row, col int) int      { return row*100 + col }
func (stubView) ViewportWidth() float64          { return 100 }
func (stubView) RangeToRegion(r protocol.Range) host.Region {
	return host.Region{A: int(r.Start.Line*100 + r.Start.Character), B: int(r.End.Line*100 + r.End.Character)}
}

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) NewOverlaySet(view host.View, key string) host.OverlaySet {
	return m.Called(view, key).Get(0).(host.OverlaySet)
}

type MockOverlaySet struct {
	mock.Mock
}

func (m *MockOverlaySet) Update(overlays []host.Overlay) {
	m.Called(overlays)
}
