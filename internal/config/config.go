// Package config holds the application settings. Defaults match the desktop
// tool's built-in values; a TOML file can override any of them.
package config

import (
	"os"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"peak-overlay/internal/logger"
	"peak-overlay/internal/models"
	"peak-overlay/internal/render"
)

// EnvPath names the environment variable holding the config file path.
const EnvPath = "PEAK_OVERLAY_CONFIG"

const (
	BackendOpenCV = "opencv"
	BackendTIFF   = "tiff"
)

// Duration decodes TOML strings such as "1s" or "250ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrapf(err, "invalid duration %q", text)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type Caption struct {
	XOffset         int    `toml:"x_offset"`
	YOffset         int    `toml:"y_offset"`
	Font            string `toml:"font"`
	FontSize        string `toml:"font_size"`
	Color           string `toml:"color"`
	BackgroundColor string `toml:"background_color"`
	Visible         bool   `toml:"visible"`
}

type Symbol struct {
	Shape     string `toml:"shape"`
	Size      int    `toml:"size"`
	LineWidth int    `toml:"line_width"`
	LineColor string `toml:"line_color"`
	FillColor string `toml:"fill_color"`
	Visible   bool   `toml:"visible"`
}

type Config struct {
	Palette       string   `toml:"palette"`
	InvertPalette bool     `toml:"invert_palette"`
	PollInterval  Duration `toml:"poll_interval"`
	OutputLines   int      `toml:"output_lines"`
	Debug         bool     `toml:"debug"`
	LogLevel      string   `toml:"log_level"`
	ImageBackend  string   `toml:"image_backend"`
	Rotation      int      `toml:"rotation"`
	Flip          string   `toml:"flip"`
	BatchBuffer   int      `toml:"batch_buffer"`
	Caption       Caption  `toml:"caption"`
	Symbol        Symbol   `toml:"symbol"`
}

func Default() Config {
	return Config{
		Palette:       render.DefaultPalette,
		InvertPalette: true,
		PollInterval:  Duration{time.Second},
		OutputLines:   10,
		Debug:         true,
		LogLevel:      "info",
		ImageBackend:  BackendOpenCV,
		Rotation:      0,
		Flip:          string(models.FlipNone),
		BatchBuffer:   4,
		Caption: Caption{
			XOffset:         5,
			YOffset:         5,
			Font:            "Arial",
			FontSize:        "1em",
			Color:           "rgba(255,255,255,1)",
			BackgroundColor: "rgba(0,0,0,0.1)",
			Visible:         true,
		},
		Symbol: Symbol{
			Shape:     models.ShapeCircle,
			Size:      10,
			LineWidth: 2,
			LineColor: "rgba(255,255,255,0.9)",
			FillColor: "rgba(255,255,255,0)",
			Visible:   true,
		},
	}
}

// Load reads path on top of the defaults. Keys the Config does not know
// about are an error, as is any value Validate rejects.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrapf(err, "decode config %s", path)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, errors.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// FromEnv loads the file named by PEAK_OVERLAY_CONFIG, or returns the
// defaults when the variable is unset.
func FromEnv() (Config, error) {
	path := strings.TrimSpace(os.Getenv(EnvPath))
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

func (c Config) Validate() error {
	if !render.IsKnownPalette(c.Palette) {
		return errors.Errorf("unknown palette %q", c.Palette)
	}
	if c.PollInterval.Duration <= 0 {
		return errors.Errorf("poll_interval must be positive, got %s", c.PollInterval)
	}
	if c.OutputLines <= 0 {
		return errors.Errorf("output_lines must be positive, got %d", c.OutputLines)
	}
	if c.BatchBuffer <= 0 {
		return errors.Errorf("batch_buffer must be positive, got %d", c.BatchBuffer)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.ImageBackend {
	case BackendOpenCV, BackendTIFF:
	default:
		return errors.Errorf("image_backend must be %q or %q, got %q", BackendOpenCV, BackendTIFF, c.ImageBackend)
	}
	if !models.Rotation(c.Rotation).Valid() {
		return errors.Errorf("rotation must be 0, 90, 180 or 270, got %d", c.Rotation)
	}
	if _, err := models.ParseFlip(c.Flip); err != nil {
		return err
	}

	validShape := false
	for _, s := range models.Shapes {
		if s == c.Symbol.Shape {
			validShape = true
		}
	}
	if !validShape {
		return errors.Errorf("unknown symbol shape %q", c.Symbol.Shape)
	}
	if c.Symbol.Size <= 0 || c.Symbol.LineWidth < 0 {
		return errors.Errorf("symbol size %d / line width %d out of range", c.Symbol.Size, c.Symbol.LineWidth)
	}
	for name, v := range map[string]string{
		"symbol.line_color":        c.Symbol.LineColor,
		"symbol.fill_color":        c.Symbol.FillColor,
		"caption.color":            c.Caption.Color,
		"caption.background_color": c.Caption.BackgroundColor,
	} {
		if v == "" && name == "caption.background_color" {
			continue
		}
		if _, err := render.ParseColor(v); err != nil {
			return errors.Wrap(err, name)
		}
	}
	if _, err := render.ParseFontSize(c.Caption.FontSize); err != nil {
		return errors.Wrap(err, "caption.font_size")
	}
	return nil
}

// Level resolves the log level: LOG_LEVEL wins, then DEBUG=1, then the file.
func (c Config) Level(getenv func(string) string) logger.LogLevel {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		if lvl, err := logger.ParseLevel(v); err == nil {
			return lvl
		}
	}
	if getenv("DEBUG") == "1" {
		return logger.DebugLevel
	}
	lvl, err := logger.ParseLevel(c.LogLevel)
	if err != nil {
		return logger.InfoLevel
	}
	return lvl
}

func (c Config) SymbolStyle() models.SymbolStyle {
	return models.SymbolStyle{
		Shape:     c.Symbol.Shape,
		Size:      c.Symbol.Size,
		LineWidth: c.Symbol.LineWidth,
		LineColor: c.Symbol.LineColor,
		FillColor: c.Symbol.FillColor,
		Visible:   c.Symbol.Visible,
	}
}

func (c Config) CaptionStyle() models.CaptionStyle {
	return models.CaptionStyle{
		XOffset:         c.Caption.XOffset,
		YOffset:         c.Caption.YOffset,
		Font:            c.Caption.Font,
		FontSize:        c.Caption.FontSize,
		TextColor:       c.Caption.Color,
		BackgroundColor: c.Caption.BackgroundColor,
		Visible:         c.Caption.Visible,
	}
}

// RenderState is the initial coordinator state described by the config.
func (c Config) RenderState() models.RenderState {
	symbol := c.SymbolStyle()
	caption := c.CaptionStyle()
	flip, _ := models.ParseFlip(c.Flip)
	return models.RenderState{
		Palette:  c.Palette,
		Invert:   c.InvertPalette,
		Rotation: models.Rotation(c.Rotation),
		Flip:     flip,
		Symbol:   &symbol,
		Caption:  &caption,
	}
}
