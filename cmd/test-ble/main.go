package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/sivchari/btmon/internal/log"
	"github.com/sivchari/btmon/pkg/connector/ble"
	"github.com/sivchari/btmon/pkg/connector/ble/goble"
)

var (
	btAdapter = flag.String("btAdapter", "", "Optional ID of Bluetooth adapter to use (Linux only)")
	testScan  = flag.Bool("testScan", false, "Also test BLE scan")
)

func main() {
	flag.Parse()
	log.SetLevel(log.LevelDebug)

	if *btAdapter != "" {
		log.Info("Trying to use BLE adapter: %s", *btAdapter)
	} else {
		log.Info("Using first available BLE device")
	}

	adapter, err := goble.NewAdapter(*btAdapter)
	if err != nil {
		if goble.IsAdapterError(err) {
			log.Error("%s", goble.AdapterErrorHelpMessage(err))
		} else {
			log.Error("Failed to initialize BLE device: %v", err)
		}
		return
	}
	defer adapter.Close()

	log.Info("BLE adapter initialized")

	if !*testScan {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	seen := make(map[string]bool)
	log.Info("Scanning for BLE devices until interrupted")
	err = adapter.ScanBeacons(ctx, func(b *ble.Beacon) {
		if seen[b.Address] {
			return
		}
		seen[b.Address] = true
		log.Info("Found %s (%q) rssi=%d connectable=%v battery-service=%v",
			b.Address, b.LocalName, b.RSSI, b.Connectable, b.Battery)
	})
	if err != nil {
		log.Error("Scan failed: %v", err)
		return
	}
	log.Info("Stopping scan")
}
