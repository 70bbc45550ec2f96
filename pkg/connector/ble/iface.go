package ble

import (
	"context"
)

//go:generate mockgen -source=iface.go -destination=../../../mocks/ble.go -package=mocks -mock_names=Adapter=BLEAdapter,Device=BLEDevice,ConnectedLister=BLEConnectedLister

// Beacon is a BLE advertisement.
type Beacon struct {
	Address     string
	LocalName   string
	RSSI        int16
	Connectable bool
	// Battery is true if the advertisement lists the Battery Service.
	Battery bool
}

// Adapter is a Bluetooth radio.
type Adapter interface {
	// ScanBeacons reports advertisements to fn until ctx is done. fn may be invoked for the same
	// device more than once and must not block.
	ScanBeacons(ctx context.Context, fn func(*Beacon)) error
	Connect(ctx context.Context, beacon *Beacon) (Device, error)
	Close() error
}

// Device is a connected peripheral.
type Device interface {
	// Name returns the device name learnt after connecting, or an empty string.
	Name() string
	// ReadBatteryLevel returns the raw value of the Battery Level characteristic.
	ReadBatteryLevel(ctx context.Context) ([]byte, error)
	Close() error
}

// ConnectedLister is implemented by adapters that can list peripherals already connected to the
// host. Connected keyboards and mice usually stop advertising, so scanning alone misses them.
type ConnectedLister interface {
	// ConnectedBeacons returns connected peripherals that expose the Battery Service.
	ConnectedBeacons(ctx context.Context) ([]*Beacon, error)
}
