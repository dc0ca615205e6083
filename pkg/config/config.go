package config

import (
	"bytes"
	"os"

	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/walteh/phantoms/pkg/decoration"
	"github.com/walteh/phantoms/pkg/overlay"
	"github.com/walteh/phantoms/pkg/worksheet"
)

type Config struct {
	WorksheetSuffix   string   `yaml:"worksheet_suffix"`
	WorksheetPatterns []string `yaml:"worksheet_patterns,omitempty"`
	OverlayKey        string   `yaml:"overlay_key"`
	// QueueSize only preallocates the decoration queue. The queue itself is unbounded, a
	// backlog past this size grows it instead of blocking or dropping.
	QueueSize     int     `yaml:"queue_size"`
	Theme         string  `yaml:"theme"`
	CommentScope  string  `yaml:"comment_scope"`
	ViewportWidth float64 `yaml:"viewport_width"`
}

func Default() Config {
	return Config{
		WorksheetSuffix: worksheet.DefaultSuffix,
		OverlayKey:      overlay.DefaultKey,
		QueueSize:       64,
		Theme:           "monokai",
		CommentScope:    decoration.DefaultCommentScope,
		ViewportWidth:   800,
	}
}

// Load reads a yaml file over the defaults. A missing file yields the defaults.
func Load(fs afero.Fs, path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, errors.Errorf("reading config file: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		// an empty file decodes to io.EOF
		if len(bytes.TrimSpace(data)) == 0 {
			return cfg, nil
		}
		return Config{}, errors.Errorf("decoding config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.WorksheetSuffix == "" && len(c.WorksheetPatterns) == 0 {
		return errors.New("config: worksheet_suffix or worksheet_patterns is required")
	}
	if c.OverlayKey == "" {
		return errors.New("config: overlay_key must not be empty")
	}
	if c.QueueSize < 0 {
		return errors.Errorf("config: queue_size must not be negative, got %d", c.QueueSize)
	}
	if c.ViewportWidth <= 0 {
		return errors.Errorf("config: viewport_width must be positive, got %v", c.ViewportWidth)
	}
	return nil
}
