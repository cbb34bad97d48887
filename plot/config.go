package plot

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// EnvDevice names the environment variable holding the default device spec.
const EnvDevice = "OKPLOT_DEVICE"

// Config describes a device to open.
type Config struct {
	Type string // registered device type, such as "png" or "pdf"
	File string // output file, if any; empty selects the device default

	// Size of the page, in device units. Zero values
	// select the device default.
	Width, Height int

	Label      string      // window title, for interactive devices
	Background color.Color // nil means white

	// Logger receives the warnings of the device. It is set by
	// Context.OpenConfig to the logger of the context.
	Logger *slog.Logger
}

// Log returns the device logger, defaulting to the package one.
func (cfg Config) Log() *slog.Logger {
	if cfg.Logger == nil {
		return Logger()
	}
	return cfg.Logger
}

// BackgroundColor returns the background, defaulting to white.
func (cfg Config) BackgroundColor() color.Color {
	if cfg.Background == nil {
		return color.White
	}
	return cfg.Background
}

// SizeOr returns the configured size, replacing zero
// values by the given defaults.
func (cfg Config) SizeOr(width, height int) (int, int) {
	if cfg.Width > 0 {
		width = cfg.Width
	}
	if cfg.Height > 0 {
		height = cfg.Height
	}
	return width, height
}

// FileOr returns the configured file, or `def`.
func (cfg Config) FileOr(def string) string {
	if cfg.File == "" {
		return def
	}
	return cfg.File
}

// ParseDeviceSpec parses a device string of the form "[file]/type",
// for instance "curve.png/png", "out.pdf/pdf" or "/xw".
// An empty spec is read from $OKPLOT_DEVICE, and defaults to "/null".
func ParseDeviceSpec(spec string) (Config, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		spec = strings.TrimSpace(os.Getenv(EnvDevice))
	}
	if spec == "" {
		spec = "/null"
	}

	i := strings.LastIndexByte(spec, '/')
	if i == -1 {
		return Config{}, fmt.Errorf("plot: missing device type in %q", spec)
	}
	cfg := Config{File: spec[:i], Type: strings.ToLower(spec[i+1:])}
	if cfg.Type == "" {
		return Config{}, errors.New("plot: empty device type in " + spec)
	}
	return cfg, nil
}

// PageFile returns the name of the file holding page `page` (0-based)
// of a multi-page output: the first page uses `file`, the next ones
// insert a page number before the extension.
func PageFile(file string, page int) string {
	if page == 0 {
		return file
	}
	ext := filepath.Ext(file)
	return fmt.Sprintf("%s_%04d%s", strings.TrimSuffix(file, ext), page, ext)
}
