package idle

import "errors"

// Errors returned by Registry.Register.
var (
	// ErrInvalidDriver reports a nil driver or an empty state catalog.
	ErrInvalidDriver = errors.New("invalid driver")

	// ErrUnavailable reports that idle management is administratively
	// disabled.
	ErrUnavailable = errors.New("idle management is disabled")

	// ErrBusy reports that another driver already occupies at least one of
	// the requested cores.
	ErrBusy = errors.New("cores are busy with another driver")
)
