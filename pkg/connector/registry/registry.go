// Package registry reads battery levels of paired devices from the operating system's accessory
// registry: BlueZ on Linux and the Bluetooth system profile on macOS.
package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sivchari/btmon/internal/log"
	"github.com/sivchari/btmon/pkg/battery"
)

//go:generate mockgen -source=registry.go -destination=../../../mocks/registry.go -package=mocks -mock_names=Reader=RegistryReader

// Entry is a device as described by the registry.
type Entry struct {
	Address   string
	Name      string
	Connected bool
	// Level is the main battery level, or battery.NoLevel.
	Level      battery.Level
	Components *battery.Components
}

// Reader queries a registry.
type Reader interface {
	// Entries returns the devices the registry currently knows about.
	Entries(ctx context.Context) ([]Entry, error)
}

// Source adapts a Reader to battery.Source.
type Source struct {
	reader Reader
	now    func() time.Time
}

// NewSource returns a Source backed by reader. A nil reader always fails with
// battery.ErrVendorAPIUnavailable.
func NewSource(reader Reader) *Source {
	return &Source{reader: reader, now: time.Now}
}

func (s *Source) Origin() battery.Origin {
	return battery.VendorRegistry
}

// Collect returns connected devices with at least one battery reading.
func (s *Source) Collect(ctx context.Context) ([]battery.Partial, error) {
	if s.reader == nil {
		return nil, battery.ErrVendorAPIUnavailable
	}
	entries, err := s.reader.Entries(ctx)
	if err != nil {
		if errors.Is(err, battery.ErrVendorAPIUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", battery.ErrVendorAPIUnavailable, err)
	}

	// The registry is a single snapshot, so every entry is observed at the same time.
	seen := s.now()
	var partials []battery.Partial
	for _, entry := range entries {
		if !entry.Connected {
			continue
		}
		level := entry.Level
		if !level.Valid() {
			level = entry.Components.Lowest()
		}
		if !level.Valid() {
			log.Debug("No battery level for %s (%s) in registry", entry.Name, entry.Address)
			continue
		}
		partials = append(partials, battery.Partial{
			Address:    entry.Address,
			Name:       entry.Name,
			Level:      level,
			Components: entry.Components,
			Origin:     battery.VendorRegistry,
			Seen:       seen,
		})
	}
	return partials, nil
}
