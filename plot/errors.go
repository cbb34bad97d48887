package plot

import (
	"errors"
	"fmt"
)

var (
	// ErrNotReady is returned by the drawing entry points when no device is open.
	ErrNotReady = errors.New("plot: no device open")

	// ErrNotInteractive is returned by backends without input capability.
	ErrNotInteractive = errors.New("plot: device is not interactive")

	// ErrDeviceClosed is returned by a capture on a closed device.
	ErrDeviceClosed = errors.New("plot: device closed")

	// ErrInvalidWindow is returned for an environment with empty ranges.
	ErrInvalidWindow = errors.New("plot: invalid world window")
)

// ResourceError reports a device which could not acquire
// its resources when opening.
type ResourceError struct {
	Device string
	Err    error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("plot: can't open device %s: %s", e.Device, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }
