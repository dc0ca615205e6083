package serve_lsp

import (
	"context"
	"io"
	"os"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/phantoms/pkg/config"
	"github.com/walteh/phantoms/pkg/debug"
	"github.com/walteh/phantoms/pkg/editor"
	"github.com/walteh/phantoms/pkg/protocol"
)

type Handler struct {
	root       string
	configPath string
	debug      bool
}

func NewServeLSPCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "serve-lsp",
		Short: "accept decoration notifications on stdin and keep phantoms for the open documents",
	}

	cmd.Flags().StringVar(&me.root, "root", ".", "workspace root the documents live under")
	cmd.Flags().StringVar(&me.configPath, "config", "", "yaml config file")
	cmd.Flags().BoolVar(&me.debug, "debug", false, "enable debug logging")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), os.Stdin, os.Stdout, os.Stderr)
	}

	return cmd
}

type RPCLogger struct {
}

func (me *RPCLogger) LogRequest(ctx context.Context, req *jrpc2.Request) {
	zerolog.Ctx(ctx).Debug().Str("rpc_params", req.ParamString()).Str("rpc_id", req.ID()).Str("rpc_method", req.Method()).Msg("server notification")
}

func (me *RPCLogger) LogResponse(ctx context.Context, res *jrpc2.Response) {
	zerolog.Ctx(ctx).Debug().Str("rpc_params", res.ResultString()).Str("rpc_id", res.ID()).Msg("client response")
}

func (me *Handler) Run(ctx context.Context, in io.Reader, out io.WriteCloser, logs io.Writer) error {
	level := zerolog.InfoLevel
	if me.debug {
		level = zerolog.DebugLevel
	}
	ctx = debug.NewLoggerContext(ctx, logs, level, false)

	fs := afero.NewOsFs()

	cfg, err := config.Load(fs, me.configPath)
	if err != nil {
		return err
	}

	ed, err := editor.New(cfg, fs, me.root)
	if err != nil {
		return err
	}
	ed.Start(ctx)

	srv := protocol.NewClientServer(ctx, ed, &jrpc2.ServerOptions{
		RPCLog: &RPCLogger{},
	})

	zerolog.Ctx(ctx).Info().Str("root", me.root).Msg("waiting for decorations")

	srv.Start(channel.LSP(in, out))
	waitErr := srv.Wait()

	if err := ed.Stop(ctx); err != nil {
		return errors.Errorf("stopping queue: %w", err)
	}

	if waitErr != nil && !errors.Is(waitErr, io.EOF) && !errors.Is(waitErr, jrpc2.ErrConnClosed) {
		return errors.Errorf("error running decoration server: %w", waitErr)
	}
	return nil
}
