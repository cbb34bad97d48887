package plot

import (
	"errors"
	"image/color"
	"io"
	"log/slog"
	"testing"
)

func TestParseDeviceSpec(t *testing.T) {
	for _, test := range []struct {
		spec string
		want Config
	}{
		{"curve.png/png", Config{File: "curve.png", Type: "png"}},
		{"/PDF", Config{Type: "pdf"}},
		{"dir/sub/out.tiff/tiff", Config{File: "dir/sub/out.tiff", Type: "tiff"}},
		{"  /xw ", Config{Type: "xw"}},
	} {
		got, err := ParseDeviceSpec(test.spec)
		if err != nil {
			t.Errorf("%q: %s", test.spec, err)
			continue
		}
		if got.File != test.want.File || got.Type != test.want.Type {
			t.Errorf("%q: expected %+v, got %+v", test.spec, test.want, got)
		}
	}

	for _, spec := range []string{"curve.png", "curve.png/"} {
		if _, err := ParseDeviceSpec(spec); err == nil {
			t.Errorf("%q: expected an error", spec)
		}
	}
}

func TestParseDeviceSpecDefault(t *testing.T) {
	t.Setenv(EnvDevice, "")
	cfg, err := ParseDeviceSpec("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Type != "null" {
		t.Errorf("expected the null device, got %q", cfg.Type)
	}

	t.Setenv(EnvDevice, "plot.pdf/pdf")
	cfg, err = ParseDeviceSpec("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Type != "pdf" || cfg.File != "plot.pdf" {
		t.Errorf("environment variable ignored: %+v", cfg)
	}
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	if w, h := cfg.SizeOr(10, 20); w != 10 || h != 20 {
		t.Errorf("unexpected size %d x %d", w, h)
	}
	cfg.Width = 5
	if w, h := cfg.SizeOr(10, 20); w != 5 || h != 20 {
		t.Errorf("unexpected size %d x %d", w, h)
	}
	if cfg.FileOr("okplot.png") != "okplot.png" {
		t.Errorf("unexpected default file")
	}
	if cfg.BackgroundColor() != color.White {
		t.Errorf("background should default to white")
	}
}

func TestPageFile(t *testing.T) {
	for _, test := range []struct {
		file string
		page int
		want string
	}{
		{"out.png", 0, "out.png"},
		{"out.png", 1, "out_0001.png"},
		{"dir/out.pdf", 12, "dir/out_0012.pdf"},
		{"noext", 2, "noext_0002"},
	} {
		if got := PageFile(test.file, test.page); got != test.want {
			t.Errorf("PageFile(%q, %d): expected %q, got %q", test.file, test.page, test.want, got)
		}
	}
}

func TestRegistry(t *testing.T) {
	found := false
	for _, name := range Devices() {
		if name == "null" {
			found = true
		}
	}
	if !found {
		t.Errorf("null device not registered: %v", Devices())
	}

	Register("spy", func(Config) Driver { return newSpy() })
	defer Unregister("spy")

	func() {
		defer func() {
			if recover() == nil {
				t.Errorf("expected a panic for a duplicate registration")
			}
		}()
		Register("spy", func(Config) Driver { return newSpy() })
	}()

	c := New()
	if err := c.Open("whatever/spy"); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Driver().(*spyDriver); !ok {
		t.Errorf("unexpected driver %T", c.Driver())
	}

	if err := c.Open("/unknown"); err == nil || errors.Is(err, ErrNotReady) {
		t.Errorf("expected an unknown device error, got %v", err)
	}
	if _, ok := c.Driver().(*spyDriver); !ok {
		t.Errorf("failed open should keep the previous device")
	}
}

func TestOpenConfigLogger(t *testing.T) {
	var got Config
	Register("logged", func(cfg Config) Driver { got = cfg; return newSpy() })
	defer Unregister("logged")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := New(WithLogger(logger))
	if err := c.Open("/logged"); err != nil {
		t.Fatal(err)
	}
	if got.Log() != logger {
		t.Errorf("the device should use the logger of the context")
	}

	if (Config{}).Log() != Logger() {
		t.Errorf("expected the package logger by default")
	}
}

func TestOpenNull(t *testing.T) {
	c := New()
	if err := c.Open("/null"); err != nil {
		t.Fatal(err)
	}
	if err := c.FunctionY(func(y float64) float64 { return y * y }, 50, -1, 1, true); err != nil {
		t.Fatal(err)
	}
	if s := c.Size(); s.Width != 800 || s.Height != 600 {
		t.Errorf("unexpected size %v", s)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
}
