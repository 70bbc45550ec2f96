package ble_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sivchari/btmon/mocks"
	"github.com/sivchari/btmon/pkg/battery"
	"github.com/sivchari/btmon/pkg/connector/ble"
)

var (
	trackpad = &ble.Beacon{Address: "bc-d0-74-b7-a6-b3", LocalName: "sivchari magic", RSSI: -60, Connectable: true, Battery: true}
	keyboard = &ble.Beacon{Address: "aa:bb:cc:dd:ee:01", LocalName: "Keyboard", RSSI: -70, Connectable: true}
	beacon   = &ble.Beacon{Address: "aa:bb:cc:dd:ee:02", LocalName: "Tag", RSSI: -80, Connectable: false, Battery: true}
	nameless = &ble.Beacon{Address: "aa:bb:cc:dd:ee:03", RSSI: -65, Connectable: true, Battery: true}
)

// connectedAdapter is a radio that can also list the peripherals connected to the host.
type connectedAdapter struct {
	*mocks.BLEAdapter
	*mocks.BLEConnectedLister
}

// advertise returns a ScanBeacons implementation that reports beacons and then waits for the
// scan window to close.
func advertise(beacons ...*ble.Beacon) func(context.Context, func(*ble.Beacon)) error {
	return func(ctx context.Context, fn func(*ble.Beacon)) error {
		for _, b := range beacons {
			fn(b)
		}
		<-ctx.Done()
		return ctx.Err()
	}
}

// stall blocks a battery read until the probe is cancelled.
func stall(ctx context.Context) ([]byte, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

var _ = Describe("Scanner", func() {
	var (
		ctrl    *gomock.Controller
		adapter *mocks.BLEAdapter
		opts    ble.Options
		openErr error
	)

	collect := func() ([]battery.Partial, error) {
		scanner := ble.NewScanner(func() (ble.Adapter, error) {
			if openErr != nil {
				return nil, openErr
			}
			return adapter, nil
		}, opts)
		return scanner.Collect(context.Background())
	}

	device := func(level []byte, name string) *mocks.BLEDevice {
		d := mocks.NewBLEDevice(ctrl)
		d.EXPECT().Name().Return(name).AnyTimes()
		d.EXPECT().ReadBatteryLevel(gomock.Any()).Return(level, nil)
		d.EXPECT().Close().Return(nil)
		return d
	}

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		adapter = mocks.NewBLEAdapter(ctrl)
		openErr = nil
		opts = ble.Options{
			ScanWindow:     50 * time.Millisecond,
			DeviceTimeout:  100 * time.Millisecond,
			SessionTimeout: time.Second,
		}
		DeferCleanup(func() {
			ctrl.Finish()
		})
	})

	It("reads the battery level of advertised devices", func() {
		adapter.EXPECT().ScanBeacons(gomock.Any(), gomock.Any()).DoAndReturn(advertise(trackpad, keyboard, beacon, trackpad))
		adapter.EXPECT().Connect(gomock.Any(), trackpad).Return(device([]byte{86}, "Magic Trackpad"), nil)
		adapter.EXPECT().Close().Return(nil)

		partials, err := collect()
		Expect(err).NotTo(HaveOccurred())
		Expect(partials).To(HaveLen(1))
		Expect(partials[0].Address).To(Equal("bc-d0-74-b7-a6-b3"))
		Expect(partials[0].Name).To(Equal("sivchari magic"))
		Expect(partials[0].Level).To(Equal(battery.Level(86)))
		Expect(partials[0].Origin).To(Equal(battery.GenericGatt))
		Expect(partials[0].Seen.IsZero()).To(BeFalse())
	})

	It("probes each address once", func() {
		again := *trackpad
		again.Address = "BC:D0:74:B7:A6:B3"
		adapter.EXPECT().ScanBeacons(gomock.Any(), gomock.Any()).DoAndReturn(advertise(trackpad, &again, trackpad))
		adapter.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(device([]byte{86}, ""), nil).Times(1)
		adapter.EXPECT().Close().Return(nil)

		partials, err := collect()
		Expect(err).NotTo(HaveOccurred())
		Expect(partials).To(HaveLen(1))
	})

	It("probes devices without the advertised service when asked to", func() {
		opts.ProbeAll = true
		adapter.EXPECT().ScanBeacons(gomock.Any(), gomock.Any()).DoAndReturn(advertise(keyboard, beacon))
		adapter.EXPECT().Connect(gomock.Any(), keyboard).Return(device([]byte{40}, ""), nil)
		adapter.EXPECT().Close().Return(nil)

		partials, err := collect()
		Expect(err).NotTo(HaveOccurred())
		Expect(partials).To(HaveLen(1))
		Expect(partials[0].Level).To(Equal(battery.Level(40)))
	})

	It("uses the name learnt after connecting", func() {
		adapter.EXPECT().ScanBeacons(gomock.Any(), gomock.Any()).DoAndReturn(advertise(nameless))
		adapter.EXPECT().Connect(gomock.Any(), nameless).Return(device([]byte{12}, "MX Anywhere"), nil)
		adapter.EXPECT().Close().Return(nil)

		partials, err := collect()
		Expect(err).NotTo(HaveOccurred())
		Expect(partials).To(HaveLen(1))
		Expect(partials[0].Name).To(Equal("MX Anywhere"))
	})

	It("skips devices whose advertised name does not match the hint", func() {
		opts.NameHint = "MAGIC"
		opts.ProbeAll = true
		adapter.EXPECT().ScanBeacons(gomock.Any(), gomock.Any()).DoAndReturn(advertise(keyboard, trackpad, nameless))
		adapter.EXPECT().Connect(gomock.Any(), trackpad).Return(device([]byte{86}, ""), nil)
		adapter.EXPECT().Connect(gomock.Any(), nameless).Return(device([]byte{50}, "Logi"), nil)
		adapter.EXPECT().Close().Return(nil)

		partials, err := collect()
		Expect(err).NotTo(HaveOccurred())
		Expect(partials).To(HaveLen(2))
	})

	It("reports an out-of-range reading as no level", func() {
		adapter.EXPECT().ScanBeacons(gomock.Any(), gomock.Any()).DoAndReturn(advertise(trackpad))
		adapter.EXPECT().Connect(gomock.Any(), trackpad).Return(device([]byte{0xff}, ""), nil)
		adapter.EXPECT().Close().Return(nil)

		partials, err := collect()
		Expect(err).NotTo(HaveOccurred())
		Expect(partials).To(HaveLen(1))
		Expect(partials[0].Level).To(Equal(battery.NoLevel))
	})

	It("reports devices that fail to connect without a level", func() {
		adapter.EXPECT().ScanBeacons(gomock.Any(), gomock.Any()).DoAndReturn(advertise(trackpad))
		adapter.EXPECT().Connect(gomock.Any(), trackpad).Return(nil, errors.New("connection refused"))
		adapter.EXPECT().Close().Return(nil)

		partials, err := collect()
		Expect(err).NotTo(HaveOccurred())
		Expect(partials).To(HaveLen(1))
		Expect(partials[0].Level).To(Equal(battery.NoLevel))
	})

	It("gives up on devices that do not answer in time", func() {
		slow := mocks.NewBLEDevice(ctrl)
		slow.EXPECT().Name().Return("").AnyTimes()
		slow.EXPECT().ReadBatteryLevel(gomock.Any()).DoAndReturn(stall)
		slow.EXPECT().Close().Return(nil)

		adapter.EXPECT().ScanBeacons(gomock.Any(), gomock.Any()).DoAndReturn(advertise(trackpad, nameless))
		adapter.EXPECT().Connect(gomock.Any(), trackpad).Return(slow, nil)
		adapter.EXPECT().Connect(gomock.Any(), nameless).Return(device([]byte{70}, ""), nil)
		adapter.EXPECT().Close().Return(nil)

		start := time.Now()
		partials, err := collect()
		Expect(err).NotTo(HaveOccurred())
		Expect(time.Since(start)).To(BeNumerically("<", opts.SessionTimeout))
		Expect(partials).To(HaveLen(2))
		Expect(partials[0].Level).To(Equal(battery.NoLevel))
		Expect(partials[1].Level).To(Equal(battery.Level(70)))
	})

	It("returns when the session times out and closes pending connections", func() {
		opts.DeviceTimeout = time.Minute
		opts.SessionTimeout = 200 * time.Millisecond
		slow := mocks.NewBLEDevice(ctrl)
		slow.EXPECT().Name().Return("").AnyTimes()
		slow.EXPECT().ReadBatteryLevel(gomock.Any()).DoAndReturn(stall)
		slow.EXPECT().Close().Return(nil)

		adapter.EXPECT().ScanBeacons(gomock.Any(), gomock.Any()).DoAndReturn(advertise(trackpad))
		adapter.EXPECT().Connect(gomock.Any(), trackpad).Return(slow, nil)
		adapter.EXPECT().Close().Return(nil)

		start := time.Now()
		partials, err := collect()
		Expect(err).NotTo(HaveOccurred())
		Expect(time.Since(start)).To(BeNumerically("<", 2*time.Second))
		Expect(partials).To(HaveLen(1))
		Expect(partials[0].Level).To(Equal(battery.NoLevel))
	})

	It("stops when the caller cancels", func() {
		opts.DeviceTimeout = time.Minute
		opts.SessionTimeout = time.Minute
		opts.ScanWindow = time.Minute
		ctx, cancel := context.WithCancel(context.Background())
		slow := mocks.NewBLEDevice(ctrl)
		slow.EXPECT().Name().Return("").AnyTimes()
		slow.EXPECT().ReadBatteryLevel(gomock.Any()).DoAndReturn(func(ctx context.Context) ([]byte, error) {
			cancel()
			return stall(ctx)
		})
		slow.EXPECT().Close().Return(nil)

		adapter.EXPECT().ScanBeacons(gomock.Any(), gomock.Any()).DoAndReturn(advertise(trackpad))
		adapter.EXPECT().Connect(gomock.Any(), trackpad).Return(slow, nil)
		adapter.EXPECT().Close().Return(nil)

		scanner := ble.NewScanner(func() (ble.Adapter, error) { return adapter, nil }, opts)
		partials, err := scanner.Collect(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(partials).To(HaveLen(1))
	})

	It("limits concurrent connections", func() {
		opts.MaxConnections = 1
		var active, peak atomic.Int32
		probe := func(level byte) *mocks.BLEDevice {
			d := mocks.NewBLEDevice(ctrl)
			d.EXPECT().Name().Return("").AnyTimes()
			d.EXPECT().ReadBatteryLevel(gomock.Any()).DoAndReturn(func(context.Context) ([]byte, error) {
				n := active.Add(1)
				if n > peak.Load() {
					peak.Store(n)
				}
				time.Sleep(10 * time.Millisecond)
				active.Add(-1)
				return []byte{level}, nil
			})
			d.EXPECT().Close().Return(nil)
			return d
		}

		adapter.EXPECT().ScanBeacons(gomock.Any(), gomock.Any()).DoAndReturn(advertise(trackpad, nameless))
		adapter.EXPECT().Connect(gomock.Any(), trackpad).Return(probe(86), nil)
		adapter.EXPECT().Connect(gomock.Any(), nameless).Return(probe(50), nil)
		adapter.EXPECT().Close().Return(nil)

		partials, err := collect()
		Expect(err).NotTo(HaveOccurred())
		Expect(partials).To(HaveLen(2))
		Expect(peak.Load()).To(Equal(int32(1)))
	})

	Context("when the adapter lists connected devices", func() {
		var lister *mocks.BLEConnectedLister

		collectConnected := func() ([]battery.Partial, error) {
			radio := connectedAdapter{BLEAdapter: adapter, BLEConnectedLister: lister}
			scanner := ble.NewScanner(func() (ble.Adapter, error) { return radio, nil }, opts)
			return scanner.Collect(context.Background())
		}

		connected := &ble.Beacon{
			Address:     "5f1c2d3e-4a5b-6c7d-8e9f-0a1b2c3d4e5f",
			LocalName:   "Adv360 Pro",
			Connectable: true,
			Battery:     true,
		}

		BeforeEach(func() {
			lister = mocks.NewBLEConnectedLister(ctrl)
		})

		It("reads devices that no longer advertise", func() {
			lister.EXPECT().ConnectedBeacons(gomock.Any()).Return([]*ble.Beacon{connected}, nil)
			adapter.EXPECT().ScanBeacons(gomock.Any(), gomock.Any()).DoAndReturn(advertise(trackpad))
			adapter.EXPECT().Connect(gomock.Any(), connected).Return(device([]byte{76}, ""), nil)
			adapter.EXPECT().Connect(gomock.Any(), trackpad).Return(device([]byte{86}, ""), nil)
			adapter.EXPECT().Close().Return(nil)

			partials, err := collectConnected()
			Expect(err).NotTo(HaveOccurred())
			Expect(partials).To(HaveLen(2))
			Expect(partials[0].Address).To(Equal(connected.Address))
			Expect(partials[0].Name).To(Equal("Adv360 Pro"))
			Expect(partials[0].Level).To(Equal(battery.Level(76)))
			Expect(partials[1].Level).To(Equal(battery.Level(86)))
		})

		It("probes a connected device that also advertises once", func() {
			again := *connected
			again.Address = "5F1C2D3E4A5B6C7D8E9F0A1B2C3D4E5F"
			lister.EXPECT().ConnectedBeacons(gomock.Any()).Return([]*ble.Beacon{connected}, nil)
			adapter.EXPECT().ScanBeacons(gomock.Any(), gomock.Any()).DoAndReturn(advertise(&again))
			adapter.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(device([]byte{76}, ""), nil).Times(1)
			adapter.EXPECT().Close().Return(nil)

			partials, err := collectConnected()
			Expect(err).NotTo(HaveOccurred())
			Expect(partials).To(HaveLen(1))
		})

		It("applies the name hint", func() {
			opts.NameHint = "magic"
			lister.EXPECT().ConnectedBeacons(gomock.Any()).Return([]*ble.Beacon{connected}, nil)
			adapter.EXPECT().ScanBeacons(gomock.Any(), gomock.Any()).DoAndReturn(advertise())
			adapter.EXPECT().Close().Return(nil)

			partials, err := collectConnected()
			Expect(err).NotTo(HaveOccurred())
			Expect(partials).To(BeEmpty())
		})

		It("still scans when the list is unavailable", func() {
			lister.EXPECT().ConnectedBeacons(gomock.Any()).Return(nil, errors.New("central manager state is 4"))
			adapter.EXPECT().ScanBeacons(gomock.Any(), gomock.Any()).DoAndReturn(advertise(trackpad))
			adapter.EXPECT().Connect(gomock.Any(), trackpad).Return(device([]byte{86}, ""), nil)
			adapter.EXPECT().Close().Return(nil)

			partials, err := collectConnected()
			Expect(err).NotTo(HaveOccurred())
			Expect(partials).To(HaveLen(1))
			Expect(partials[0].Level).To(Equal(battery.Level(86)))
		})
	})

	Context("when the radio cannot be used", func() {
		It("reports a missing adapter", func() {
			openErr = errors.New("can't init hci: no devices available")
			_, err := collect()
			Expect(errors.Is(err, battery.ErrRadioUnavailable)).To(BeTrue())
			Expect(battery.IsFatal(err)).To(BeTrue())
		})

		It("reports missing permissions", func() {
			openErr = fmt.Errorf("can't init hci: %w", os.ErrPermission)
			_, err := collect()
			Expect(errors.Is(err, battery.ErrPermissionDenied)).To(BeTrue())
		})

		It("reports scan failures with the readings taken so far", func() {
			adapter.EXPECT().ScanBeacons(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fn func(*ble.Beacon)) error {
				fn(trackpad)
				return errors.New("adapter powered off")
			})
			adapter.EXPECT().Connect(gomock.Any(), trackpad).Return(nil, context.Canceled).MaxTimes(1)
			adapter.EXPECT().Close().Return(nil)

			partials, err := collect()
			Expect(errors.Is(err, battery.ErrRadioUnavailable)).To(BeTrue())
			Expect(partials).To(HaveLen(1))
		})
	})
})

var _ = Describe("ClassifyAdapterError", func() {
	It("recognizes permission errors", func() {
		for _, msg := range []string{"operation not permitted", "Permission denied", "state unauthorized (have=3)"} {
			Expect(errors.Is(ble.ClassifyAdapterError(errors.New(msg)), battery.ErrPermissionDenied)).To(BeTrue(), msg)
		}
	})

	It("treats everything else as a missing radio", func() {
		err := ble.ClassifyAdapterError(errors.New("hci0: no such device"))
		Expect(errors.Is(err, battery.ErrRadioUnavailable)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("no such device"))
	})

	It("keeps classified errors", func() {
		Expect(ble.ClassifyAdapterError(battery.ErrPermissionDenied)).To(Equal(battery.ErrPermissionDenied))
		Expect(ble.ClassifyAdapterError(nil)).To(BeNil())
	})
})
