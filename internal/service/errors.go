package service

import (
	"errors"
	"fmt"

	"messana_bridge/internal/messana"
)

var (
	ErrUnknownDevice = errors.New("unknown device")
	ErrNoSnapshot    = errors.New("no snapshot yet")
	ErrInvalidZone   = errors.New("zone not available")
	ErrInvalidGroup  = errors.New("h/c group not available")
	ErrInvalidMode   = errors.New("invalid mode")
	ErrInvalidValue  = errors.New("invalid value")
)

// Setup failure classes shown to whoever configured the device.
const (
	SetupAuth          = "auth"
	SetupCannotConnect = "cannot_connect"
	SetupUnknown       = "unknown"
)

// ClassifySetupError maps a first-refresh failure to a setup class. A data error
// is a schema mismatch rather than a connectivity problem and reports unknown.
func ClassifySetupError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, messana.ErrAuth):
		return SetupAuth
	case errors.Is(err, messana.ErrData):
		return SetupUnknown
	case errors.Is(err, messana.ErrAPI):
		return SetupCannotConnect
	default:
		return SetupUnknown
	}
}

// SetupError is returned by Hub.Setup when a device's first refresh fails.
type SetupError struct {
	Device string
	Class  string
	Err    error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("setup %s failed (%s): %v", e.Device, e.Class, e.Err)
}

func (e *SetupError) Unwrap() error { return e.Err }
