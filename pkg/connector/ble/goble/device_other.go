//go:build !linux && !darwin

package goble

import (
	"fmt"
	"runtime"

	"github.com/go-ble/ble"

	"github.com/sivchari/btmon/pkg/battery"
	btble "github.com/sivchari/btmon/pkg/connector/ble"
)

func AdapterErrorHelpMessage(err error) string {
	return err.Error()
}

func newAdapter(_ string) (ble.Device, error) {
	return nil, fmt.Errorf("%w: not supported on %s", battery.ErrRadioUnavailable, runtime.GOOS)
}

func platformAdapter(a *adapter) btble.Adapter {
	return a
}
