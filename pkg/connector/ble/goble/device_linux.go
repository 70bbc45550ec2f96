package goble

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-ble/ble"
	"github.com/go-ble/ble/linux"
	"github.com/go-ble/ble/linux/hci/cmd"

	"github.com/sivchari/btmon/pkg/battery"
	btble "github.com/sivchari/btmon/pkg/connector/ble"
)

const bleTimeout = 20 * time.Second

var scanParams = cmd.LESetScanParameters{
	LEScanType:           1,    // Active scanning
	LEScanInterval:       0x10, // 10ms
	LEScanWindow:         0x10, // 10ms
	OwnAddressType:       0,    // Static
	ScanningFilterPolicy: 0,    // Accept all
}

func newAdapter(id string) (ble.Device, error) {
	opts := []ble.Option{
		ble.OptListenerTimeout(bleTimeout),
		ble.OptDialerTimeout(bleTimeout),
		ble.OptScanParams(scanParams),
	}
	if id != "" {
		n, err := parseAdapterID(id)
		if err != nil {
			return nil, err
		}
		opts = append(opts, ble.OptDeviceID(n))
	}

	device, err := linux.NewDevice(opts...)
	if err != nil {
		return nil, btble.ClassifyAdapterError(fmt.Errorf("ble: failed to open hci device: %w", err))
	}
	return device, nil
}

func AdapterErrorHelpMessage(err error) string {
	msg := "Failed to initialize BLE adapter: \n\t" + err.Error() + "\n"
	switch {
	case errors.Is(err, battery.ErrPermissionDenied):
		return msg + "Raw HCI access requires root or network capabilities, e.g.:\n" +
			"\tsudo setcap 'cap_net_raw,cap_net_admin+eip' $(which btmon)"
	case errors.Is(err, ErrAdapterInvalidID):
		return msg + "Adapter IDs look like hci0. List adapters with `hciconfig` or `bluetoothctl list`."
	}
	return msg + "Make sure a Bluetooth adapter is present and powered on (e.g. `bluetoothctl power on`).\n" +
		"If running in a container, make sure it shares the host network namespace (e.g. --net=host)."
}

// Peripherals connected through BlueZ are read by the registry source from their Battery1 interface.
func platformAdapter(a *adapter) btble.Adapter {
	return a
}
