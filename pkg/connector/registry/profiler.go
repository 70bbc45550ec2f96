package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"sort"

	"github.com/sivchari/btmon/pkg/battery"
)

// ProfilerReader reads the battery fields macOS exposes for connected accessories through
// `system_profiler SPBluetoothDataType -json`.
type ProfilerReader struct {
	run func(ctx context.Context) ([]byte, error)
}

func NewProfilerReader() *ProfilerReader {
	return &ProfilerReader{run: runSystemProfiler}
}

func runSystemProfiler(ctx context.Context) ([]byte, error) {
	return exec.CommandContext(ctx, "system_profiler", "SPBluetoothDataType", "-json").Output()
}

func (r *ProfilerReader) Entries(ctx context.Context) ([]Entry, error) {
	out, err := r.run(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: system_profiler failed: %w", battery.ErrVendorAPIUnavailable, err)
	}
	entries, err := decodeProfiler(out)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", battery.ErrVendorAPIUnavailable, err)
	}
	return entries, nil
}

type profilerReport struct {
	Bluetooth []struct {
		Connected []map[string]profilerDevice `json:"device_connected"`
	} `json:"SPBluetoothDataType"`
}

type profilerDevice struct {
	Address string `json:"device_address"`
	Main    string `json:"device_batteryLevelMain"`
	Left    string `json:"device_batteryLevelLeft"`
	Right   string `json:"device_batteryLevelRight"`
	Case    string `json:"device_batteryLevelCase"`
}

// decodeProfiler returns the connected devices of a system profiler report. Devices that share
// a section are ordered by name, since JSON objects are unordered.
func decodeProfiler(data []byte) ([]Entry, error) {
	var report profilerReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to decode system_profiler output: %w", err)
	}

	var entries []Entry
	for _, controller := range report.Bluetooth {
		for _, section := range controller.Connected {
			names := make([]string, 0, len(section))
			for name := range section {
				names = append(names, name)
			}
			sort.Strings(names)

			for _, name := range names {
				device := section[name]
				entries = append(entries, Entry{
					Address:   device.Address,
					Name:      name,
					Connected: true,
					Level:     battery.ParseVendorLevel(device.Main),
					Components: battery.NewComponents(
						battery.ParseVendorLevel(device.Left),
						battery.ParseVendorLevel(device.Right),
						battery.ParseVendorLevel(device.Case),
					),
				})
			}
		}
	}
	return entries, nil
}
