// Okplot plots a built-in function to any registered device.
//
// Usage:
//
//	okplot [flags]
//
// For example, to plot the sine function into a PNG file:
//
//	okplot -dev curve.png/png -f sin -from 0 -to 6.283 -n 200
//
// The device defaults to $OKPLOT_DEVICE, then to the null device.
// With -cursor, a point is captured after drawing (window device only).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"

	"github.com/benoitkugler/okplot/plot"
	_ "github.com/benoitkugler/okplot/plotgg"
	_ "github.com/benoitkugler/okplot/plotlcd"
	_ "github.com/benoitkugler/okplot/plotpdf"
	_ "github.com/benoitkugler/okplot/plotraster"
	_ "github.com/benoitkugler/okplot/plotwin"
	"github.com/gogpu/gg"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stderr)
	stop()
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "okplot:", err)
		}
		os.Exit(2)
	}
}

type options struct {
	device   string
	function string
	from, to float64
	n        int
	axis     string
	auto     bool
	single   bool
	width    float64
	color    string
	cursor   bool
	verbose  bool
}

func parseFlags(args []string, output io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("okplot", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.device, "dev", "", "output `device`, as file/type")
	fs.StringVar(&opts.function, "f", "sin", "`function` to plot: "+strings.Join(functionNames(), ", "))
	fs.Float64Var(&opts.from, "from", 0, "start of the parameter range")
	fs.Float64Var(&opts.to, "to", 1, "end of the parameter range")
	fs.IntVar(&opts.n, "n", 100, "number of segments")
	fs.StringVar(&opts.axis, "axis", "x", "parameter axis: x plots y = f(x), y plots x = f(y)")
	fs.BoolVar(&opts.auto, "auto", true, "fit the environment to the curve")
	fs.BoolVar(&opts.single, "float32", false, "evaluate in single precision")
	fs.Float64Var(&opts.width, "width", 1, "line `width`, in device units")
	fs.StringVar(&opts.color, "color", "#000000", "line `color`, as #rrggbb")
	fs.BoolVar(&opts.cursor, "cursor", false, "capture a point after drawing")
	fs.BoolVar(&opts.verbose, "v", false, "verbose logging")
	fs.Usage = func() {
		fmt.Fprintf(output, "usage: okplot [flags]\n\ndevices: %s\n\nflags:\n", strings.Join(plot.Devices(), ", "))
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return opts, fmt.Errorf("unexpected arguments %v", fs.Args())
	}
	if opts.axis != "x" && opts.axis != "y" {
		return opts, fmt.Errorf("invalid axis %q (expected x or y)", opts.axis)
	}
	if _, ok := functions[opts.function]; !ok {
		return opts, fmt.Errorf("unknown function %q", opts.function)
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	ink, err := parseColor(opts.color)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	plot.SetLogger(logger)
	gg.SetLogger(logger)

	c := plot.New(plot.WithLineStyle(plot.LineStyle{Width: opts.width, Color: ink}))
	if err := c.Open(opts.device); err != nil {
		return err
	}
	if err := draw(c, opts); err != nil {
		c.Close()
		return err
	}
	if opts.cursor {
		x, y, key, err := c.Cursor(ctx, plot.BandCrossHair, false, 0, 0)
		if err != nil {
			c.Close()
			return err
		}
		logger.Info("point selected", "x", x, "y", y, "key", string(key))
	}
	return c.Close()
}

func draw(c *plot.Context, opts options) error {
	fn := functions[opts.function]
	switch {
	case opts.axis == "x" && opts.single:
		return c.FunctionXFloat32(to32(fn), opts.n, float32(opts.from), float32(opts.to), opts.auto)
	case opts.axis == "x":
		return c.FunctionX(fn, opts.n, opts.from, opts.to, opts.auto)
	case opts.single:
		return c.FunctionYFloat32(to32(fn), opts.n, float32(opts.from), float32(opts.to), opts.auto)
	default:
		return c.FunctionY(fn, opts.n, opts.from, opts.to, opts.auto)
	}
}

// parseColor accepts #rrggbb and #rrggbbaa.
func parseColor(s string) (color.Color, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return nil, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xFF
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func functionNames() []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
