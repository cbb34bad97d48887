package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/benoitkugler/okplot/plot"
)

func TestParseColor(t *testing.T) {
	for s, want := range map[string]color.NRGBA{
		"#000000":   {A: 0xFF},
		"#ff8000":   {R: 0xFF, G: 0x80, A: 0xFF},
		"102030":    {R: 0x10, G: 0x20, B: 0x30, A: 0xFF},
		"#10203040": {R: 0x10, G: 0x20, B: 0x30, A: 0x40},
	} {
		got, err := parseColor(s)
		if err != nil {
			t.Errorf("%q: %s", s, err)
			continue
		}
		if got != want {
			t.Errorf("%q: expected %v, got %v", s, want, got)
		}
	}
	for _, s := range []string{"", "#fff", "#gg0000"} {
		if _, err := parseColor(s); err == nil {
			t.Errorf("%q: expected an error", s)
		}
	}
}

func TestParseFlags(t *testing.T) {
	var out bytes.Buffer
	for _, args := range [][]string{
		{"-axis", "z"},
		{"-f", "nope"},
		{"extra"},
	} {
		if _, err := parseFlags(args, &out); err == nil {
			t.Errorf("%v: expected an error", args)
		}
	}
	if _, err := parseFlags([]string{"-h"}, &out); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("expected ErrHelp, got %v", err)
	}

	opts, err := parseFlags([]string{"-f", "cos", "-n", "20", "-axis", "y", "-float32"}, &out)
	if err != nil {
		t.Fatal(err)
	}
	if opts.function != "cos" || opts.n != 20 || opts.axis != "y" || !opts.single || !opts.auto {
		t.Errorf("unexpected options %+v", opts)
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	for _, args := range [][]string{
		{"-dev", filepath.Join(dir, "sin.png") + "/png", "-f", "sin", "-to", "6.283", "-width", "2", "-color", "#cc0000"},
		{"-dev", filepath.Join(dir, "sqrt.pdf") + "/pdf", "-f", "sqrt", "-axis", "y", "-to", "4", "-float32"},
		{"-dev", filepath.Join(dir, "gauss.png") + "/gg", "-f", "gauss", "-from", "-3", "-to", "3"},
	} {
		var stderr bytes.Buffer
		if err := run(context.Background(), args, &stderr); err != nil {
			t.Fatalf("%v: %s (%s)", args, err, stderr.String())
		}
	}
	for _, name := range []string{"sin.png", "sqrt.pdf", "gauss.png"} {
		if fi, err := os.Stat(filepath.Join(dir, name)); err != nil || fi.Size() == 0 {
			t.Errorf("%s not written: %v", name, err)
		}
	}
}

func TestRunErrors(t *testing.T) {
	var stderr bytes.Buffer
	err := run(context.Background(), []string{"-dev", "/unknown"}, &stderr)
	if err == nil {
		t.Errorf("expected an error for an unknown device")
	}

	err = run(context.Background(), []string{"-dev", "/null", "-cursor"}, &stderr)
	if !errors.Is(err, plot.ErrNotInteractive) {
		t.Errorf("expected ErrNotInteractive, got %v", err)
	}

	err = run(context.Background(), []string{"-dev", "/null", "-color", "red"}, &stderr)
	if err == nil {
		t.Errorf("expected an invalid color error")
	}
}

func TestFunctions(t *testing.T) {
	if f := functions["sinc"]; f(0) != 1 {
		t.Errorf("sinc(0) should be 1")
	}
	if f := to32(functions["square"]); f(3) != 9 {
		t.Errorf("unexpected float32 square")
	}
	if names := functionNames(); len(names) != len(functions) || names[0] != "abs" {
		t.Errorf("unexpected names %v", names)
	}
}

func TestRunNonFiniteSamples(t *testing.T) {
	var stderr bytes.Buffer
	for _, args := range [][]string{
		{"-dev", "/null", "-f", "log"},
		{"-dev", "/null", "-f", "sqrt", "-from", "-1"},
	} {
		if err := run(context.Background(), args, &stderr); err != nil {
			t.Errorf("%v: %s", args, err)
		}
	}
}
