package goble

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-ble/ble"

	"github.com/sivchari/btmon/internal/log"
	"github.com/sivchari/btmon/pkg/battery"
	btble "github.com/sivchari/btmon/pkg/connector/ble"
)

var ErrAdapterInvalidID = battery.NewError("the bluetooth adapter ID is invalid", true)

var (
	batteryServiceUUID = ble.UUID16(0x180F)
	batteryLevelUUID   = ble.UUID16(0x2A19)
)

// NewAdapter opens the radio identified by id, or the default radio if id is empty.
func NewAdapter(id string) (btble.Adapter, error) {
	device, err := newAdapter(id)
	if err != nil {
		return nil, err
	}

	return platformAdapter(&adapter{
		device: device,
	}), nil
}

type adapter struct {
	device ble.Device
}

func (s *adapter) ScanBeacons(ctx context.Context, fn func(*btble.Beacon)) error {
	// Duplicates are reported so that names arriving in scan responses are not lost.
	err := s.device.Scan(ctx, true, func(a ble.Advertisement) {
		fn(advertisementToBeacon(a))
	})
	if ctx.Err() != nil {
		// device.Scan() does not return on darwin until ctx is done, so the error is expected.
		return nil
	}
	return err
}

type dialResult struct {
	client ble.Client
	err    error
}

func (s *adapter) Connect(ctx context.Context, beacon *btble.Beacon) (btble.Device, error) {
	results := make(chan dialResult, 1)
	go func() {
		client, err := s.device.Dial(ctx, ble.NewAddr(beacon.Address))
		results <- dialResult{client: client, err: err}
	}()

	select {
	case r := <-results:
		if r.err != nil {
			return nil, fmt.Errorf("ble: failed to dial %s: %w", beacon.Address, r.err)
		}
		return &device{client: r.client}, nil
	case <-ctx.Done():
		go func() {
			if r := <-results; r.err == nil {
				log.Debug("Closing late connection to %s", beacon.Address)
				_ = r.client.CancelConnection()
			}
		}()
		return nil, ctx.Err()
	}
}

func (s *adapter) Close() error {
	if s.device == nil {
		return nil
	}

	device := s.device
	s.device = nil
	return device.Stop()
}

func advertisementToBeacon(a ble.Advertisement) *btble.Beacon {
	b := &btble.Beacon{
		Address:     a.Addr().String(),
		LocalName:   a.LocalName(),
		RSSI:        int16(a.RSSI()),
		Connectable: a.Connectable(),
	}
	for _, uuid := range a.Services() {
		if uuid.Equal(batteryServiceUUID) {
			b.Battery = true
			break
		}
	}
	return b
}

// parseAdapterID accepts an HCI device index with or without the "hci" prefix.
func parseAdapterID(id string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(id), "hci"))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrAdapterInvalidID, id)
	}
	return n, nil
}

// IsAdapterError returns true if err means the radio could not be used at all.
func IsAdapterError(err error) bool {
	return errors.Is(err, battery.ErrRadioUnavailable) ||
		errors.Is(err, battery.ErrPermissionDenied) ||
		errors.Is(err, ErrAdapterInvalidID)
}
