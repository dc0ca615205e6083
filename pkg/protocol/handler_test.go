package protocol_test

import (
	"context"
	"testing"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/phantoms/pkg/protocol"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) PublishDecorations(ctx context.Context, params *protocol.PublishDecorationsParams) error {
	return m.Called(ctx, params).Error(0)
}

func (m *MockClient) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	return m.Called(ctx, params).Error(0)
}

func (m *MockClient) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	return m.Called(ctx, params).Error(0)
}

func (m *MockClient) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	return m.Called(ctx, params).Error(0)
}

func TestClientServerRoutesNotifications(t *testing.T) {
	ctx := context.Background()

	client := &MockClient{}
	done := make(chan struct{}, 2)

	client.On("PublishDecorations", mock.Anything, mock.MatchedBy(func(p *protocol.PublishDecorationsParams) bool {
		return p.URI == "file:///work/A.worksheet.sc" && len(p.Options) == 1 && p.Options[0].Label() == "// 42"
	})).Return(nil).Run(func(mock.Arguments) { done <- struct{}{} }).Once()

	client.On("DidClose", mock.Anything, mock.MatchedBy(func(p *protocol.DidCloseTextDocumentParams) bool {
		return p.TextDocument.URI == "file:///work/A.worksheet.sc"
	})).Return(nil).Run(func(mock.Arguments) { done <- struct{}{} }).Once()

	cch, sch := channel.Direct()
	srv := protocol.NewClientServer(ctx, client, nil).Start(sch)
	cli := jrpc2.NewClient(cch, nil)

	label := "// 42"
	require.NoError(t, cli.Notify(ctx, protocol.MethodPublishDecorations, &protocol.PublishDecorationsParams{
		URI: "file:///work/A.worksheet.sc",
		Options: []protocol.DecorationOptions{{
			RenderOptions: &protocol.ThemableDecorationInstanceRenderOptions{
				After: &protocol.ThemableDecorationAttachmentRenderOptions{ContentText: &label},
			},
		}},
	}))
	require.NoError(t, cli.Notify(ctx, protocol.MethodDidClose, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///work/A.worksheet.sc"},
	}))

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for notification")
		}
	}

	cli.Close()
	srv.Wait()

	client.AssertExpectations(t)
}
