package replay

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/phantoms/pkg/config"
	"github.com/walteh/phantoms/pkg/debug"
	"github.com/walteh/phantoms/pkg/editor"
	"github.com/walteh/phantoms/pkg/protocol"
)

// MethodModified marks a local edit that does not change the text
const MethodModified = "phantoms/modified"

type Handler struct {
	fs         afero.Fs
	root       string
	configPath string
	theme      string
	debug      bool
	noColor    bool
}

type ModifiedParams struct {
	Path string `json:"path"`
}

// Line is one entry of a replay file
type Line struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

func NewReplayCommand() *cobra.Command {
	me := &Handler{fs: afero.NewOsFs()}

	cmd := &cobra.Command{
		Use:   "replay [notifications.jsonl]",
		Short: "apply recorded decoration notifications and print the decorated documents",
		Args:  cobra.ExactArgs(1),
	}

	cmd.Flags().StringVar(&me.root, "root", ".", "workspace root the documents live under")
	cmd.Flags().StringVar(&me.configPath, "config", "", "yaml config file")
	cmd.Flags().StringVar(&me.theme, "theme", "", "chroma style used as colour scheme")
	cmd.Flags().BoolVar(&me.debug, "debug", false, "enable debug logging")
	cmd.Flags().BoolVar(&me.noColor, "no-color", false, "disable colored output")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		file, err := me.fs.Open(args[0])
		if err != nil {
			return errors.Errorf("opening %s: %w", args[0], err)
		}
		defer file.Close()
		return me.Run(cmd.Context(), file, cmd.OutOrStdout())
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	level := zerolog.WarnLevel
	if me.debug {
		level = zerolog.DebugLevel
	}
	var logOut io.Writer = io.Discard
	if me.debug {
		logOut = color.Error
	}
	ctx = debug.NewLoggerContext(ctx, logOut, level, me.debug)
	if me.noColor {
		color.NoColor = true
	}

	cfg, err := config.Load(me.fs, me.configPath)
	if err != nil {
		return err
	}
	if me.theme != "" {
		cfg.Theme = me.theme
	}

	ed, err := editor.New(cfg, me.fs, me.root)
	if err != nil {
		return err
	}
	ed.Start(ctx)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		if err := me.apply(ctx, ed, scanner.Bytes()); err != nil {
			_ = ed.Stop(ctx)
			return errors.Errorf("line %d: %w", lineNo, err)
		}
		// one line at a time so the printed state matches the file order exactly
		ed.Wait()
	}
	if err := scanner.Err(); err != nil {
		_ = ed.Stop(ctx)
		return errors.Errorf("reading notifications: %w", err)
	}

	if err := ed.Stop(ctx); err != nil {
		return errors.Errorf("stopping queue: %w", err)
	}

	return me.print(ed, out)
}

func (me *Handler) apply(ctx context.Context, ed *editor.Editor, raw []byte) error {
	var line Line
	if err := json.Unmarshal(raw, &line); err != nil {
		return errors.Errorf("decoding line: %w", err)
	}

	switch line.Method {
	case protocol.MethodPublishDecorations:
		var params protocol.PublishDecorationsParams
		if err := json.Unmarshal(line.Params, &params); err != nil {
			return errors.Errorf("decoding %s: %w", line.Method, err)
		}
		// documents named by the server are opened from disk on first sight
		if _, ok := ed.Host().Buffer(params.URI); !ok {
			if _, err := ed.Host().Open(params.URI.Path()); err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Str("uri", string(params.URI)).Msg("could not open decorated document")
			}
		}
		return ed.PublishDecorations(ctx, &params)
	case protocol.MethodDidOpen:
		var params protocol.DidOpenTextDocumentParams
		if err := json.Unmarshal(line.Params, &params); err != nil {
			return errors.Errorf("decoding %s: %w", line.Method, err)
		}
		return ed.DidOpen(ctx, &params)
	case protocol.MethodDidChange:
		var params protocol.DidChangeTextDocumentParams
		if err := json.Unmarshal(line.Params, &params); err != nil {
			return errors.Errorf("decoding %s: %w", line.Method, err)
		}
		return ed.DidChange(ctx, &params)
	case protocol.MethodDidClose:
		var params protocol.DidCloseTextDocumentParams
		if err := json.Unmarshal(line.Params, &params); err != nil {
			return errors.Errorf("decoding %s: %w", line.Method, err)
		}
		return ed.DidClose(ctx, &params)
	case MethodModified:
		var params ModifiedParams
		if err := json.Unmarshal(line.Params, &params); err != nil {
			return errors.Errorf("decoding %s: %w", line.Method, err)
		}
		ed.Modified(ctx, params.Path)
		return nil
	default:
		zerolog.Ctx(ctx).Debug().Str("method", line.Method).Msg("skipping unknown method")
		return nil
	}
}

func (me *Handler) print(ed *editor.Editor, out io.Writer) error {
	buffers := ed.Host().Buffers()
	sort.Slice(buffers, func(i, j int) bool { return buffers[i].URI() < buffers[j].URI() })

	header := color.New(color.Bold)
	for _, b := range buffers {
		view := b.View()
		if view == nil {
			continue
		}
		if _, err := fmt.Fprintln(out, header.Sprintf("==> %s", view.FileName())); err != nil {
			return err
		}
		if err := ed.Host().WriteText(out, view, ed.OverlayKey()); err != nil {
			return errors.Errorf("rendering %s: %w", view.FileName(), err)
		}
	}
	return nil
}
