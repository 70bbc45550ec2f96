package battery

import (
	"strings"
	"time"
)

// Origin identifies the backend(s) that contributed to a record.
type Origin uint8

const (
	// GenericGatt records come from the standard GATT Battery Service.
	GenericGatt Origin = 1 << iota
	// VendorRegistry records come from the platform's paired-accessory registry.
	VendorRegistry

	// Both marks records merged from the two backends.
	Both = GenericGatt | VendorRegistry
)

func (o Origin) String() string {
	switch o {
	case GenericGatt:
		return "gatt"
	case VendorRegistry:
		return "registry"
	case Both:
		return "gatt+registry"
	}
	return "unknown"
}

const (
	// AddressPlaceholder is reported for devices no backend could resolve an address for.
	AddressPlaceholder = "BLE"
	// UnknownName is reported for devices without a name or address.
	UnknownName = "Unknown"
)

// Partial is what a single backend knows about a device.
type Partial struct {
	Address    string // Hardware address or platform identifier. May be empty.
	Name       string // May be empty.
	Level      Level  // NoLevel if the backend has no reading.
	Components *Components
	Origin     Origin
	Seen       time.Time // When the backend first observed the device.
}

// Record is a reconciled device with a known battery level.
type Record struct {
	Name       string
	Address    string
	Level      Level
	Components *Components
	Origin     Origin
	Seq        int // Position in first-discovery order.
}

// NormalizeAddress returns the identity key of a hardware address: upper case without
// separators. Returns an empty string if addr has no usable characters.
func NormalizeAddress(addr string) string {
	addr = strings.ToUpper(strings.TrimSpace(addr))
	addr = strings.ReplaceAll(addr, ":", "")
	addr = strings.ReplaceAll(addr, "-", "")
	addr = strings.ReplaceAll(addr, ".", "")
	return addr
}

func isPlaceholderName(name, address string) bool {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return true
	case strings.EqualFold(name, UnknownName):
		return true
	case address != "" && NormalizeAddress(name) == NormalizeAddress(address):
		return true
	}
	return false
}
