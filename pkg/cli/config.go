/*
Package cli facilitates building command-line applications that take battery snapshots. It defines
a [Config] type that registers the common command-line flags (using the Golang flag package) and
builds a [battery.Engine] from them.

# Examples

	config := cli.NewConfig(cli.FlagAll)
	config.RegisterCommandLineFlags(flag.CommandLine)
	flag.Parse()
	if err := config.Validate(); err != nil {
		panic(err)
	}

	report, err := config.Engine().Snapshot(ctx)

A [Flag] mask controls which backends and options are available:

	config := cli.NewConfig(cli.FlagRegistry) // Paired devices only; no radio access required.
*/
package cli

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/carlmjohnson/versioninfo"

	"github.com/sivchari/btmon/internal/log"
	"github.com/sivchari/btmon/pkg/battery"
	"github.com/sivchari/btmon/pkg/connector/ble"
	"github.com/sivchari/btmon/pkg/connector/ble/goble"
	"github.com/sivchari/btmon/pkg/connector/registry"
)

// Flag controls which backends, and therefore which options, are enabled.
type Flag int

func (f Flag) isSet(other Flag) bool {
	return (f & other) == other
}

const (
	FlagGATT     Flag = 1 // Enable the GATT Battery Service scanner and its options.
	FlagRegistry Flag = 2 // Enable the accessory registry reader.
	FlagAll      Flag = FlagGATT | FlagRegistry
)

var (
	ErrNoBackends      = errors.New("all backends are disabled")
	ErrInvalidDuration = errors.New("durations must be positive")
	ErrScanWindow      = errors.New("scan window must not exceed the session timeout")
	ErrMaxConnections  = errors.New("max connections must be at least 1")
)

// Config fields determine which backends run and how long they may take.
type Config struct {
	Flags  Flag   // Controls which set of CLI flags to use.
	Device string // Only report devices whose name contains this substring.
	JSON   bool
	Debug  bool

	ScanWindow     time.Duration
	DeviceTimeout  time.Duration
	SessionTimeout time.Duration
	MaxConnections int
	ProbeAll       bool
	BtAdapterID    string

	SkipGATT     bool
	SkipRegistry bool
}

// NewConfig returns a Config with default timeouts.
func NewConfig(flags Flag) *Config {
	return &Config{
		Flags:          flags,
		ScanWindow:     ble.DefaultScanWindow,
		DeviceTimeout:  ble.DefaultDeviceTimeout,
		SessionTimeout: ble.DefaultSessionTimeout,
		MaxConnections: ble.DefaultMaxConnections,
	}
}

// RegisterCommandLineFlags adds the options enabled by c.Flags to fs.
func (c *Config) RegisterCommandLineFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Device, "device", c.Device, "Only show devices whose name contains `substring` (case-insensitive)")
	fs.BoolVar(&c.JSON, "json", c.JSON, "Print results as JSON")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "Enable debug logging (JSON, on stderr)")
	if c.Flags.isSet(FlagGATT) {
		fs.DurationVar(&c.ScanWindow, "scan-window", c.ScanWindow, "How long to listen for BLE advertisements")
		fs.DurationVar(&c.DeviceTimeout, "device-timeout", c.DeviceTimeout, "Maximum time to connect to and read a single device")
		fs.DurationVar(&c.SessionTimeout, "session-timeout", c.SessionTimeout, "Maximum time for the whole BLE session")
		fs.IntVar(&c.MaxConnections, "max-connections", c.MaxConnections, "Maximum number of concurrent BLE connections")
		fs.BoolVar(&c.ProbeAll, "probe-all", c.ProbeAll, "Probe connectable devices that do not advertise the Battery Service")
		fs.BoolVar(&c.SkipGATT, "skip-gatt", c.SkipGATT, "Do not scan for BLE devices")
		c.registerCommandLineFlagsOsSpecific(fs)
	}
	if c.Flags.isSet(FlagRegistry) {
		fs.BoolVar(&c.SkipRegistry, "skip-registry", c.SkipRegistry, "Do not read the paired-accessory registry")
	}
	versioninfo.AddFlag(fs)
}

// Validate returns an error if c cannot produce a working engine.
func (c *Config) Validate() error {
	if !c.gatt() && !c.registry() {
		return ErrNoBackends
	}
	if !c.gatt() {
		return nil
	}
	if c.ScanWindow <= 0 || c.DeviceTimeout <= 0 || c.SessionTimeout <= 0 {
		return ErrInvalidDuration
	}
	if c.ScanWindow > c.SessionTimeout {
		return fmt.Errorf("%w: %s > %s", ErrScanWindow, c.ScanWindow, c.SessionTimeout)
	}
	if c.MaxConnections < 1 {
		return ErrMaxConnections
	}
	return nil
}

func (c *Config) gatt() bool {
	return c.Flags.isSet(FlagGATT) && !c.SkipGATT
}

func (c *Config) registry() bool {
	return c.Flags.isSet(FlagRegistry) && !c.SkipRegistry
}

// ScanOptions returns the scanner options described by c.
func (c *Config) ScanOptions() ble.Options {
	return ble.Options{
		ScanWindow:     c.ScanWindow,
		DeviceTimeout:  c.DeviceTimeout,
		SessionTimeout: c.SessionTimeout,
		MaxConnections: c.MaxConnections,
		NameHint:       c.Device,
		ProbeAll:       c.ProbeAll,
	}
}

// Sources returns the enabled backends in priority order: readings from the GATT scanner win
// over the registry.
func (c *Config) Sources() []battery.Source {
	var sources []battery.Source
	if c.gatt() {
		adapterID := c.BtAdapterID
		sources = append(sources, ble.NewScanner(func() (ble.Adapter, error) {
			log.Debug("Opening BLE adapter %q", adapterID)
			return goble.NewAdapter(adapterID)
		}, c.ScanOptions()))
	}
	if c.registry() {
		sources = append(sources, registry.NewSource(registry.DefaultReader()))
	}
	return sources
}

// Engine returns an engine over c.Sources().
func (c *Config) Engine() *battery.Engine {
	return &battery.Engine{
		Sources: c.Sources(),
		Filter:  c.Device,
	}
}
