package plot

import (
	"errors"
	"math"
	"testing"
)

func TestMatrix(t *testing.T) {
	m := Identity.Translate(10, 20).Scale(2, -3)
	x, y := m.Transform(1, 1)
	if x != 12 || y != 17 {
		t.Errorf("expected (12, 17), got (%g, %g)", x, y)
	}

	inv := m.Invert()
	x, y = inv.Transform(12, 17)
	assertClose(t, "x", x, 1, 1e-12)
	assertClose(t, "y", y, 1, 1e-12)

	if id := m.Mult(inv); math.Abs(id.A-1) > 1e-12 || math.Abs(id.E) > 1e-12 || math.Abs(id.F) > 1e-12 {
		t.Errorf("m * m^-1 should be the identity, got %v", id)
	}
}

func TestSetTransform(t *testing.T) {
	c := New()
	for _, tr := range []Transform{TransDevice, TransNDC, TransWorld} {
		c.SetTransform(tr)
		if got := c.Transform(); got != tr {
			t.Errorf("expected %s, got %s", tr, got)
		}
	}
}

func TestWithTransformRestores(t *testing.T) {
	c := New()
	c.SetTransform(TransNDC)

	err := c.withTransform(TransDevice, func() error {
		if c.Transform() != TransDevice {
			t.Errorf("transform not installed")
		}
		return errBoom
	})
	if !errors.Is(err, errBoom) {
		t.Errorf("unexpected error %v", err)
	}
	if c.Transform() != TransNDC {
		t.Errorf("transform not restored after an error")
	}

	func() {
		defer func() { recover() }()
		_ = c.withTransform(TransWorld, func() error { panic("early exit") })
	}()
	if c.Transform() != TransNDC {
		t.Errorf("transform not restored after a panic")
	}
}

func TestNDCMatrix(t *testing.T) {
	c, _ := openSpy()
	m := c.Matrix(TransNDC)
	for _, test := range []struct{ nx, ny, dx, dy float64 }{
		{0, 0, 0, 600},
		{1, 1, 800, 0},
		{0.5, 0.25, 400, 450},
	} {
		x, y := m.Transform(test.nx, test.ny)
		if x != test.dx || y != test.dy {
			t.Errorf("NDC (%g, %g): expected (%g, %g), got (%g, %g)", test.nx, test.ny, test.dx, test.dy, x, y)
		}
	}
	if c.Matrix(TransDevice) != Identity {
		t.Errorf("device transform should be the identity")
	}
}

func TestWorldMatrix(t *testing.T) {
	c, d := openSpy()
	if err := c.SetEnvironment(-1, 3, 10, 20, false); err != nil {
		t.Fatal(err)
	}
	m := c.Matrix(TransWorld)

	// lower left and upper right corners of the default viewport
	x, y := m.Transform(-1, 10)
	assertClose(t, "x0", x, 80, 1e-9)
	assertClose(t, "y0", y, 540, 1e-9)
	x, y = m.Transform(3, 20)
	assertClose(t, "x1", x, 720, 1e-9)
	assertClose(t, "y1", y, 60, 1e-9)

	if d.clip.Min != fToFixed(80, 60) || d.clip.Max != fToFixed(720, 540) {
		t.Errorf("unexpected clip %v", d.clip)
	}

	c.SetTransform(TransWorld)
	dx, dy := c.ToDevice(1, 15)
	wx, wy := c.FromDevice(dx, dy)
	assertClose(t, "wx", wx, 1, 1e-9)
	assertClose(t, "wy", wy, 15, 1e-9)
}

func TestJustifiedEnvironment(t *testing.T) {
	c, _ := openSpy()
	if err := c.SetEnvironment(0, 1, 0, 1, true); err != nil {
		t.Fatal(err)
	}
	m := c.Matrix(TransWorld)
	x0, y0 := m.Transform(0, 0)
	x1, y1 := m.Transform(1, 1)
	w, h := x1-x0, y0-y1
	assertClose(t, "aspect", w, h, 1e-9)
	// the 640x480 viewport shrinks to 480x480, centered
	assertClose(t, "width", w, 480, 1e-9)
	assertClose(t, "center", (x0+x1)/2, 400, 1e-9)
}

func TestSetViewport(t *testing.T) {
	c, d := openSpy()
	c.SetViewport(Viewport{X0: 0, X1: 1, Y0: 0, Y1: 1})
	if d.clip.Min != fToFixed(0, 0) || d.clip.Max != fToFixed(800, 600) {
		t.Errorf("unexpected clip %v", d.clip)
	}
	x, y := c.Matrix(TransWorld).Transform(1, 1)
	if x != 800 || y != 0 {
		t.Errorf("expected (800, 0), got (%g, %g)", x, y)
	}
}
