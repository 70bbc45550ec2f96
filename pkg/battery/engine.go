package battery

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/sivchari/btmon/internal/log"
)

//go:generate mockgen -source=engine.go -destination=../../mocks/battery.go -package=mocks -mock_names=Source=BatterySource

// Source is a backend that reports battery readings.
type Source interface {
	// Origin identifies the backend in records and errors.
	Origin() Origin

	// Collect takes a snapshot of the devices the backend can see.
	//
	// Implementations must return once ctx is done. A source may return partial results together
	// with an error; those results are still reconciled.
	Collect(ctx context.Context) ([]Partial, error)
}

// Engine takes battery snapshots from a set of sources.
type Engine struct {
	// Sources in priority order. Levels from earlier sources win conflicts.
	Sources []Source
	// Filter, if set, limits results to devices whose name contains it (case-insensitive).
	Filter string
}

// Report is the result of a snapshot.
type Report struct {
	Records   []Record
	Conflicts []*Conflict
	Failures  []*SourceError
}

// Fatal returns the first failure that requires user action, or nil.
func (r *Report) Fatal() *SourceError {
	for _, f := range r.Failures {
		if IsFatal(f.Err) {
			return f
		}
	}
	return nil
}

// Snapshot runs all sources concurrently and reconciles their results once every source has
// returned.
//
// A failing source does not prevent the others from contributing. The returned error is non-nil
// only if every source failed; the report is returned regardless so callers can inspect
// Failures.
func (e *Engine) Snapshot(ctx context.Context) (*Report, error) {
	if len(e.Sources) == 0 {
		return nil, ErrNoSources
	}

	streams := make([][]Partial, len(e.Sources))
	errs := make([]error, len(e.Sources))

	var g errgroup.Group
	for i, source := range e.Sources {
		g.Go(func() error {
			streams[i], errs[i] = source.Collect(ctx)
			return nil
		})
	}
	// Errors are per source and collected in errs.
	_ = g.Wait()

	report := &Report{}
	var joined []error
	for i, err := range errs {
		origin := e.Sources[i].Origin()
		log.Debug("Collected %d partial records from %s", len(streams[i]), origin)
		if err == nil {
			continue
		}
		failure := &SourceError{Origin: origin, Err: err}
		if IsFatal(err) {
			log.Warning("Battery source failed: %s", failure)
		} else {
			log.Debug("Battery source degraded: %s", failure)
		}
		report.Failures = append(report.Failures, failure)
		joined = append(joined, failure)
	}

	records, conflicts := Reconcile(streams...)
	report.Records = FilterByName(records, e.Filter)
	report.Conflicts = conflicts

	if len(report.Failures) == len(e.Sources) {
		return report, errors.Join(joined...)
	}
	return report, nil
}
