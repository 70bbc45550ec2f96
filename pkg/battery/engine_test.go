package battery_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sivchari/btmon/mocks"
	"github.com/sivchari/btmon/pkg/battery"
)

var _ = Describe("Engine", func() {
	var (
		ctrl     *gomock.Controller
		gattSrc  *mocks.BatterySource
		vendor   *mocks.BatterySource
		engine   *battery.Engine
		scanned  []battery.Partial
		paired   []battery.Partial
		alone    []battery.Record
		radioErr error
	)

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		gattSrc = mocks.NewBatterySource(ctrl)
		vendor = mocks.NewBatterySource(ctrl)
		gattSrc.EXPECT().Origin().Return(battery.GenericGatt).AnyTimes()
		vendor.EXPECT().Origin().Return(battery.VendorRegistry).AnyTimes()
		engine = &battery.Engine{Sources: []battery.Source{gattSrc, vendor}}

		scanned = []battery.Partial{gatt("bc-d0-74-b7-a6-b3", "sivchari magic", 86, 20)}
		paired = []battery.Partial{registry("", "Adv360 Pro(Home)", 76, 5)}
		alone, _ = battery.Reconcile(scanned)
		radioErr = fmt.Errorf("%w: hci0 is down", battery.ErrRadioUnavailable)
		DeferCleanup(func() {
			ctrl.Finish()
		})
	})

	It("merges both sources", func() {
		gattSrc.EXPECT().Collect(gomock.Any()).Return(scanned, nil)
		vendor.EXPECT().Collect(gomock.Any()).Return(paired, nil)

		report, err := engine.Snapshot(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Failures).To(BeEmpty())
		Expect(names(report.Records)).To(Equal([]string{"Adv360 Pro(Home)", "sivchari magic"}))
	})

	It("runs sources concurrently", func() {
		release := make(chan struct{})
		gattSrc.EXPECT().Collect(gomock.Any()).DoAndReturn(func(context.Context) ([]battery.Partial, error) {
			<-release
			return scanned, nil
		})
		vendor.EXPECT().Collect(gomock.Any()).DoAndReturn(func(context.Context) ([]battery.Partial, error) {
			// Would deadlock if sources ran one after another.
			close(release)
			return paired, nil
		})

		report, err := engine.Snapshot(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Records).To(HaveLen(2))
	})

	It("waits for the slower source", func() {
		gattSrc.EXPECT().Collect(gomock.Any()).DoAndReturn(func(context.Context) ([]battery.Partial, error) {
			time.Sleep(50 * time.Millisecond)
			return scanned, nil
		})
		vendor.EXPECT().Collect(gomock.Any()).Return(paired, nil)

		report, err := engine.Snapshot(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Records).To(HaveLen(2))
	})

	It("degrades to GATT results when the registry is unavailable", func() {
		gattSrc.EXPECT().Collect(gomock.Any()).Return(scanned, nil)
		vendor.EXPECT().Collect(gomock.Any()).Return(nil, fmt.Errorf("%w: no system bus", battery.ErrVendorAPIUnavailable))

		report, err := engine.Snapshot(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Records).To(Equal(alone))
		Expect(report.Failures).To(HaveLen(1))
		Expect(report.Failures[0].Origin).To(Equal(battery.VendorRegistry))
		Expect(errors.Is(report.Failures[0], battery.ErrVendorAPIUnavailable)).To(BeTrue())
		Expect(report.Fatal()).To(BeNil())
	})

	It("keeps registry results and flags a fatal radio failure", func() {
		gattSrc.EXPECT().Collect(gomock.Any()).Return(nil, radioErr)
		vendor.EXPECT().Collect(gomock.Any()).Return(paired, nil)

		report, err := engine.Snapshot(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(names(report.Records)).To(Equal([]string{"Adv360 Pro(Home)"}))
		Expect(report.Fatal()).NotTo(BeNil())
		Expect(report.Fatal().Origin).To(Equal(battery.GenericGatt))
		Expect(errors.Is(report.Fatal(), battery.ErrRadioUnavailable)).To(BeTrue())
	})

	It("fails when every source fails", func() {
		gattSrc.EXPECT().Collect(gomock.Any()).Return(nil, radioErr)
		vendor.EXPECT().Collect(gomock.Any()).Return(nil, battery.ErrVendorAPIUnavailable)

		report, err := engine.Snapshot(context.Background())
		Expect(err).To(HaveOccurred())
		Expect(errors.Is(err, battery.ErrRadioUnavailable)).To(BeTrue())
		Expect(errors.Is(err, battery.ErrVendorAPIUnavailable)).To(BeTrue())
		Expect(report).NotTo(BeNil())
		Expect(report.Records).To(BeEmpty())
		Expect(report.Failures).To(HaveLen(2))
	})

	It("reconciles partial results returned with an error", func() {
		gattSrc.EXPECT().Collect(gomock.Any()).Return(scanned, fmt.Errorf("%w: adapter reset", battery.ErrRadioUnavailable))
		vendor.EXPECT().Collect(gomock.Any()).Return(nil, nil)

		report, err := engine.Snapshot(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Records).To(Equal(alone))
		Expect(report.Fatal()).NotTo(BeNil())
	})

	It("resolves conflicts in favor of the first source", func() {
		conflicting := []battery.Partial{registry("BC:D0:74:B7:A6:B3", "Magic Trackpad", 60, 1)}
		gattSrc.EXPECT().Collect(gomock.Any()).Return(scanned, nil)
		vendor.EXPECT().Collect(gomock.Any()).Return(conflicting, nil)

		report, err := engine.Snapshot(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Records).To(HaveLen(1))
		Expect(report.Records[0].Level).To(Equal(battery.Level(86)))
		Expect(report.Records[0].Name).To(Equal("sivchari magic"))
		Expect(report.Conflicts).To(HaveLen(1))
	})

	It("applies the name filter", func() {
		engine.Filter = "ADV"
		gattSrc.EXPECT().Collect(gomock.Any()).Return(scanned, nil)
		vendor.EXPECT().Collect(gomock.Any()).Return(paired, nil)

		report, err := engine.Snapshot(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(names(report.Records)).To(Equal([]string{"Adv360 Pro(Home)"}))
	})

	It("requires at least one source", func() {
		_, err := (&battery.Engine{}).Snapshot(context.Background())
		Expect(err).To(MatchError(battery.ErrNoSources))
	})
})
