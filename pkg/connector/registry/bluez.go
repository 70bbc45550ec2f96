package registry

import (
	"context"
	"fmt"
	"sort"

	"github.com/godbus/dbus/v5"

	"github.com/sivchari/btmon/pkg/battery"
)

const (
	bluezService      = "org.bluez"
	getManagedObjects = "org.freedesktop.DBus.ObjectManager.GetManagedObjects"
	deviceInterface   = "org.bluez.Device1"
	batteryInterface  = "org.bluez.Battery1"
)

type managedObjects map[dbus.ObjectPath]map[string]map[string]dbus.Variant

// BlueZReader reads org.bluez.Battery1 from the BlueZ object tree on the system bus.
type BlueZReader struct {
	connect func() (*dbus.Conn, error)
}

func NewBlueZReader() *BlueZReader {
	return &BlueZReader{
		connect: func() (*dbus.Conn, error) {
			return dbus.ConnectSystemBus()
		},
	}
}

func (r *BlueZReader) Entries(ctx context.Context) ([]Entry, error) {
	conn, err := r.connect()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect to system bus: %w", battery.ErrVendorAPIUnavailable, err)
	}
	defer conn.Close()

	var objects managedObjects
	call := conn.Object(bluezService, "/").CallWithContext(ctx, getManagedObjects, 0)
	if err := call.Store(&objects); err != nil {
		return nil, fmt.Errorf("%w: failed to list bluez objects: %w", battery.ErrVendorAPIUnavailable, err)
	}
	return decodeManagedObjects(objects), nil
}

// decodeManagedObjects returns one entry per org.bluez.Device1 object, ordered by object path.
func decodeManagedObjects(objects managedObjects) []Entry {
	paths := make([]dbus.ObjectPath, 0, len(objects))
	for path := range objects {
		paths = append(paths, path)
	}
	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })

	var entries []Entry
	for _, path := range paths {
		interfaces := objects[path]
		props, ok := interfaces[deviceInterface]
		if !ok {
			continue
		}
		entry := Entry{
			Address:   stringProp(props, "Address"),
			Name:      stringProp(props, "Alias"),
			Connected: boolProp(props, "Connected"),
			Level:     battery.NoLevel,
		}
		if entry.Name == "" {
			entry.Name = stringProp(props, "Name")
		}
		if batteryProps, ok := interfaces[batteryInterface]; ok {
			if percentage, ok := intProp(batteryProps, "Percentage"); ok {
				entry.Level = battery.VendorLevel(percentage)
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

func stringProp(props map[string]dbus.Variant, key string) string {
	if v, ok := props[key]; ok {
		if s, ok := v.Value().(string); ok {
			return s
		}
	}
	return ""
}

func boolProp(props map[string]dbus.Variant, key string) bool {
	if v, ok := props[key]; ok {
		if b, ok := v.Value().(bool); ok {
			return b
		}
	}
	return false
}

func intProp(props map[string]dbus.Variant, key string) (int, bool) {
	v, ok := props[key]
	if !ok {
		return 0, false
	}
	switch n := v.Value().(type) {
	case byte:
		return int(n), true
	case int16:
		return int(n), true
	case uint16:
		return int(n), true
	case int32:
		return int(n), true
	case uint32:
		return int(n), true
	}
	return 0, false
}
