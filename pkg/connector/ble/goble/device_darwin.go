package goble

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JuulLabs-OSS/cbgo"
	"github.com/go-ble/ble"
	"github.com/go-ble/ble/darwin"

	"github.com/sivchari/btmon/internal/log"
	"github.com/sivchari/btmon/pkg/battery"
	btble "github.com/sivchari/btmon/pkg/connector/ble"
)

func newAdapter(id string) (ble.Device, error) {
	if id != "" {
		log.Warning("Darwin does not support specifying a Bluetooth adapter ID")
		return nil, ErrAdapterInvalidID
	}
	device, err := darwin.NewDevice()
	if err != nil {
		// CoreBluetooth reports CBManagerStateUnauthorized as state 3.
		if strings.Contains(err.Error(), "have=3") {
			return nil, fmt.Errorf("%w: %w", battery.ErrPermissionDenied, err)
		}
		return nil, btble.ClassifyAdapterError(err)
	}
	return device, nil
}

func AdapterErrorHelpMessage(err error) string {
	msg := "Failed to initialize BLE adapter: \n\t" + err.Error() + "\n"
	if errors.Is(err, battery.ErrPermissionDenied) {
		return msg + "Allow your terminal to use Bluetooth in System Settings > Privacy & Security > Bluetooth."
	}
	return msg + "Make sure Bluetooth is turned on."
}

// centralAdapter adds the peripherals CoreBluetooth already holds connections to.
type centralAdapter struct {
	*adapter
}

func platformAdapter(a *adapter) btble.Adapter {
	return &centralAdapter{adapter: a}
}

type stateWatcher struct {
	cbgo.CentralManagerDelegateBase
	changed chan struct{}
}

func (w *stateWatcher) CentralManagerDidUpdateState(cbgo.CentralManager) {
	select {
	case w.changed <- struct{}{}:
	default:
	}
}

func (a *centralAdapter) ConnectedBeacons(ctx context.Context) ([]*btble.Beacon, error) {
	cm := cbgo.NewCentralManager(nil)
	watcher := &stateWatcher{changed: make(chan struct{}, 1)}
	cm.SetDelegate(watcher)

	for cm.State() != cbgo.ManagerStatePoweredOn {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-watcher.changed:
		}
		switch state := cm.State(); state {
		case cbgo.ManagerStatePoweredOn, cbgo.ManagerStateUnknown, cbgo.ManagerStateResetting:
		default:
			return nil, fmt.Errorf("ble: central manager state is %d", state)
		}
	}

	prphs := cm.RetrieveConnectedPeripheralsWithServices([]cbgo.UUID{cbgo.UUID(batteryServiceUUID)})
	beacons := make([]*btble.Beacon, 0, len(prphs))
	for _, prph := range prphs {
		// Dial resolves the identifier back to the peripheral.
		beacons = append(beacons, &btble.Beacon{
			Address:     prph.Identifier().String(),
			LocalName:   prph.Name(),
			Connectable: true,
			Battery:     true,
		})
	}
	log.Debug("Found %d connected peripherals with a battery service", len(beacons))
	return beacons, nil
}
