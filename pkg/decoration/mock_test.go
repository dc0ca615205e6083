package decoration_test

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/walteh/phantoms/pkg/host"
	"github.com/walteh/phantoms/pkg/protocol"
)

// MockView maps every (line, character) to line*100+character
type MockView struct {
	mock.Mock
}

func (m *MockView) FileName() string {
	return m.Called().String(0)
}

func (m *MockView) StyleForScope(scope string) host.Style {
	return m.Called(scope).Get(0).(host.Style)
}

func (m *MockView) RangeToRegion(rng protocol.Range) host.Region {
	return host.Region{
		A: int(rng.Start.Line)*100 + int(rng.Start.Character),
		B: int(rng.End.Line)*100 + int(rng.End.Character),
	}
}

func (m *MockView) TextPoint(row, col int) int {
	return row*100 + col
}

func (m *MockView) ViewportWidth() float64 {
	return 640
}

type MockPopup struct {
	mock.Mock
}

func (m *MockPopup) Show(ctx context.Context, view host.View, content *protocol.MarkupContent, point int) {
	m.Called(ctx, view, content, point)
}
