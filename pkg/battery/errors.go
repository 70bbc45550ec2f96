package battery

import (
	"errors"
	"fmt"
)

// Error categorizes backend failures.
type Error struct {
	Err   error
	fatal bool
}

// NewError returns an error that is fatal if the user has to act before the backend can work.
func NewError(message string, fatal bool) error {
	return &Error{Err: errors.New(message), fatal: fatal}
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Fatal returns true if retrying without user intervention cannot succeed.
func (e *Error) Fatal() bool {
	return e.fatal
}

var (
	// ErrRadioUnavailable indicates Bluetooth is off or no adapter is present.
	ErrRadioUnavailable = NewError("bluetooth radio is unavailable", true)
	// ErrPermissionDenied indicates the OS did not authorize Bluetooth access.
	ErrPermissionDenied = NewError("bluetooth permission denied", true)
	// ErrVendorAPIUnavailable indicates the accessory registry could not be queried.
	ErrVendorAPIUnavailable = NewError("accessory registry is unavailable", false)
	// ErrDeviceTimeout indicates a device did not answer a battery read in time.
	ErrDeviceTimeout = NewError("device did not respond in time", false)
	// ErrConflictingReading indicates two backends reported different levels for one device.
	ErrConflictingReading = NewError("backends reported conflicting battery levels", false)
	// ErrNoSources indicates an engine was run without any backend.
	ErrNoSources = errors.New("no battery sources configured")
)

// IsFatal returns true if err wraps a fatal Error.
func IsFatal(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Fatal()
}

// SourceError records the failure of one backend during a snapshot.
type SourceError struct {
	Origin Origin
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Origin, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Conflict describes two backends disagreeing about the level of one device. The level from
// the higher-priority backend is kept.
type Conflict struct {
	Address       string
	Name          string
	Kept          Level
	KeptFrom      Origin
	Discarded     Level
	DiscardedFrom Origin
}

func (c *Conflict) Error() string {
	return fmt.Sprintf("%s (%s): kept %s from %s, discarded %s from %s",
		c.Name, c.Address, c.Kept, c.KeptFrom, c.Discarded, c.DiscardedFrom)
}

func (c *Conflict) Unwrap() error {
	return ErrConflictingReading
}
