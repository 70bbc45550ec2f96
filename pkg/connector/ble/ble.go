package ble

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/sivchari/btmon/internal/log"
	"github.com/sivchari/btmon/pkg/battery"
)

const (
	DefaultScanWindow     = 5 * time.Second
	DefaultDeviceTimeout  = 3 * time.Second
	DefaultSessionTimeout = 10 * time.Second
	DefaultMaxConnections = 4

	// Abandoned probes get this long to close their connections before the adapter stops.
	closeGracePeriod = time.Second
)

// Options control a scanning session. Zero values select the defaults.
type Options struct {
	// ScanWindow is how long to listen for advertisements.
	ScanWindow time.Duration
	// DeviceTimeout bounds the connect-and-read of a single device.
	DeviceTimeout time.Duration
	// SessionTimeout bounds the whole session, including probes still running after the scan.
	SessionTimeout time.Duration
	// MaxConnections caps concurrent connections.
	MaxConnections int
	// NameHint skips devices whose advertised name does not contain it.
	NameHint string
	// ProbeAll probes connectable devices that do not advertise the Battery Service.
	ProbeAll bool
}

func (o Options) withDefaults() Options {
	if o.ScanWindow <= 0 {
		o.ScanWindow = DefaultScanWindow
	}
	if o.DeviceTimeout <= 0 {
		o.DeviceTimeout = DefaultDeviceTimeout
	}
	if o.SessionTimeout <= 0 {
		o.SessionTimeout = DefaultSessionTimeout
	}
	if o.MaxConnections < 1 {
		o.MaxConnections = DefaultMaxConnections
	}
	return o
}

// Scanner reads the GATT Battery Service of nearby devices.
type Scanner struct {
	open func() (Adapter, error)
	opts Options
	now  func() time.Time
}

// NewScanner returns a Scanner that obtains a radio from open at the start of every session.
func NewScanner(open func() (Adapter, error), opts Options) *Scanner {
	return &Scanner{
		open: open,
		opts: opts.withDefaults(),
		now:  time.Now,
	}
}

func (s *Scanner) Origin() battery.Origin {
	return battery.GenericGatt
}

// Collect probes the devices already connected to the host if the adapter can list them, then
// scans for ScanWindow, probing candidates as they are discovered, and returns once
// every probe finished or SessionTimeout elapsed. Devices whose level could not be read are
// returned with battery.NoLevel.
func (s *Scanner) Collect(ctx context.Context) ([]battery.Partial, error) {
	adapter, err := s.open()
	if err != nil {
		return nil, ClassifyAdapterError(err)
	}
	defer func() {
		if err := adapter.Close(); err != nil {
			log.Warning("ble: failed to stop adapter: %s", err)
		}
	}()

	sessionCtx, cancelSession := context.WithTimeout(ctx, s.opts.SessionTimeout)
	defer cancelSession()

	sess := &session{
		ctx:     sessionCtx,
		adapter: adapter,
		opts:    s.opts,
		now:     s.now,
		sem:     semaphore.NewWeighted(int64(s.opts.MaxConnections)),
		seen:    make(map[string]int),
	}

	if lister, ok := adapter.(ConnectedLister); ok {
		beacons, err := lister.ConnectedBeacons(sessionCtx)
		if err != nil {
			log.Debug("ble: failed to list connected devices: %s", err)
		}
		for _, b := range beacons {
			sess.observe(b)
		}
	}

	log.Debug("Scanning for %s", s.opts.ScanWindow)
	scanCtx, cancelScan := context.WithTimeout(sessionCtx, s.opts.ScanWindow)
	err = adapter.ScanBeacons(scanCtx, sess.observe)
	cancelScan()
	sess.endScan()

	var scanErr error
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		scanErr = ClassifyAdapterError(err)
		cancelSession()
	}

	done := make(chan struct{})
	go func() {
		sess.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-sessionCtx.Done():
		log.Debug("Session ended with probes pending")
	}

	results := sess.freeze()
	cancelSession()

	select {
	case <-done:
	case <-time.After(closeGracePeriod):
		log.Debug("Probes still closing after %s", closeGracePeriod)
	}

	return results, scanErr
}

type session struct {
	ctx     context.Context
	adapter Adapter
	opts    Options
	now     func() time.Time
	sem     *semaphore.Weighted
	wg      sync.WaitGroup

	lock     sync.Mutex
	seen     map[string]int
	results  []battery.Partial
	scanDone bool
	frozen   bool
}

func (s *session) candidate(b *Beacon) bool {
	if b == nil || b.Address == "" || !b.Connectable {
		return false
	}
	if !b.Battery && !s.opts.ProbeAll {
		return false
	}
	if s.opts.NameHint != "" && b.LocalName != "" &&
		!strings.Contains(strings.ToLower(b.LocalName), strings.ToLower(s.opts.NameHint)) {
		return false
	}
	return true
}

// observe is the scan callback. It never blocks on a probe.
func (s *session) observe(b *Beacon) {
	if !s.candidate(b) {
		return
	}
	key := battery.NormalizeAddress(b.Address)

	s.lock.Lock()
	defer s.lock.Unlock()
	if s.scanDone {
		return
	}
	if i, ok := s.seen[key]; ok {
		if s.results[i].Name == "" {
			s.results[i].Name = b.LocalName
		}
		return
	}

	s.seen[key] = len(s.results)
	s.results = append(s.results, battery.Partial{
		Address: b.Address,
		Name:    b.LocalName,
		Level:   battery.NoLevel,
		Origin:  battery.GenericGatt,
		Seen:    s.now(),
	})

	s.wg.Add(1)
	go s.probe(s.seen[key], *b)
}

func (s *session) probe(i int, b Beacon) {
	defer s.wg.Done()

	if err := s.sem.Acquire(s.ctx, 1); err != nil {
		log.Debug("Skipping %s: %s", b.Address, err)
		return
	}
	defer s.sem.Release(1)

	ctx, cancel := context.WithTimeout(s.ctx, s.opts.DeviceTimeout)
	defer cancel()

	level, name, err := readLevel(ctx, s.adapter, &b)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %s: %w", battery.ErrDeviceTimeout, b.Address, err)
		}
		log.Debug("No battery level for %s (%s): %s", b.Address, b.LocalName, err)
	}
	s.update(i, level, name)
}

func (s *session) update(i int, level battery.Level, name string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.frozen {
		return
	}
	s.results[i].Level = level
	if s.results[i].Name == "" {
		s.results[i].Name = name
	}
}

// endScan stops new probes from being started by late advertisements.
func (s *session) endScan() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.scanDone = true
}

// freeze returns the results and ignores later updates.
func (s *session) freeze() []battery.Partial {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.frozen = true
	results := make([]battery.Partial, len(s.results))
	copy(results, s.results)
	return results
}

func readLevel(ctx context.Context, adapter Adapter, b *Beacon) (battery.Level, string, error) {
	log.Debug("Dialing %s (%s)...", b.Address, b.LocalName)
	device, err := adapter.Connect(ctx, b)
	if err != nil {
		return battery.NoLevel, "", fmt.Errorf("ble: failed to connect: %w", err)
	}
	defer func() {
		if err := device.Close(); err != nil {
			log.Debug("ble: failed to close %s: %s", b.Address, err)
		}
	}()

	name := device.Name()
	value, err := device.ReadBatteryLevel(ctx)
	if err != nil {
		return battery.NoLevel, name, fmt.Errorf("ble: failed to read battery level: %w", err)
	}
	level := battery.GattLevel(value)
	if !level.Valid() {
		log.Debug("Ignoring battery level %02x from %s", value, b.Address)
	}
	return level, name, nil
}

var permissionMessages = []string{
	"operation not permitted",
	"permission denied",
	"unauthorized",
	"not authorized",
}

// ClassifyAdapterError wraps err with battery.ErrPermissionDenied if the OS refused access to
// the radio and with battery.ErrRadioUnavailable otherwise.
func ClassifyAdapterError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, battery.ErrRadioUnavailable) || errors.Is(err, battery.ErrPermissionDenied) {
		return err
	}
	if errors.Is(err, os.ErrPermission) {
		return fmt.Errorf("%w: %w", battery.ErrPermissionDenied, err)
	}
	msg := strings.ToLower(err.Error())
	for _, m := range permissionMessages {
		if strings.Contains(msg, m) {
			return fmt.Errorf("%w: %w", battery.ErrPermissionDenied, err)
		}
	}
	return fmt.Errorf("%w: %w", battery.ErrRadioUnavailable, err)
}
