package goble

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-ble/ble"
)

var ErrNoBatteryService = errors.New("ble: device has no battery level characteristic")

type device struct {
	client ble.Client
	once   sync.Once
	err    error
}

func (d *device) Name() string {
	return d.client.Name()
}

type readResult struct {
	value []byte
	err   error
}

// ReadBatteryLevel discovers the Battery Service and reads its level characteristic. The go-ble
// client calls are not cancellable, so ctx only bounds how long the caller waits.
func (d *device) ReadBatteryLevel(ctx context.Context) ([]byte, error) {
	results := make(chan readResult, 1)
	go func() {
		value, err := d.read()
		results <- readResult{value: value, err: err}
	}()

	select {
	case r := <-results:
		return r.value, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (d *device) read() ([]byte, error) {
	services, err := d.client.DiscoverServices([]ble.UUID{batteryServiceUUID})
	if err != nil {
		return nil, fmt.Errorf("ble: failed to enumerate device services: %w", err)
	}

	for _, service := range services {
		if !service.UUID.Equal(batteryServiceUUID) {
			continue
		}
		characteristics, err := d.client.DiscoverCharacteristics([]ble.UUID{batteryLevelUUID}, service)
		if err != nil {
			return nil, fmt.Errorf("ble: failed to discover service characteristics: %w", err)
		}
		for _, characteristic := range characteristics {
			if characteristic.UUID.Equal(batteryLevelUUID) {
				return d.client.ReadCharacteristic(characteristic)
			}
		}
	}
	return nil, ErrNoBatteryService
}

// Close disconnects the device. Repeated calls return the result of the first.
func (d *device) Close() error {
	d.once.Do(func() {
		d.err = d.client.CancelConnection()
	})
	return d.err
}
