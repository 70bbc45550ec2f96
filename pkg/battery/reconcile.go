package battery

import (
	"sort"

	"github.com/sivchari/btmon/internal/log"
)

type entry struct {
	partial Partial
	rank    int // Index of the stream; lower ranks take precedence.
	index   int // Position within the stream.
}

type group struct {
	members []entry // In discovery order.
}

// Reconcile merges partial streams into one record per device.
//
// Streams are given in priority order. Partials with matching normalized addresses describe the
// same device; partials without an address are always distinct devices. Names are never used to
// merge. Devices left without a valid level are dropped. Records are ordered by first discovery
// (Seen), with ties broken by stream priority and then position within the stream.
//
// Conflicts lists every pair of disagreeing levels that was resolved in favor of the
// higher-priority stream.
func Reconcile(streams ...[]Partial) (records []Record, conflicts []*Conflict) {
	var entries []entry
	for rank, stream := range streams {
		for i, p := range stream {
			entries = append(entries, entry{partial: p, rank: rank, index: i})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.partial.Seen.Equal(b.partial.Seen) {
			return a.partial.Seen.Before(b.partial.Seen)
		}
		if a.rank != b.rank {
			return a.rank < b.rank
		}
		return a.index < b.index
	})

	var groups []*group
	byKey := make(map[string]*group)
	for _, e := range entries {
		key := NormalizeAddress(e.partial.Address)
		if key == "" {
			groups = append(groups, &group{members: []entry{e}})
			continue
		}
		if g, ok := byKey[key]; ok {
			g.members = append(g.members, e)
			continue
		}
		g := &group{members: []entry{e}}
		byKey[key] = g
		groups = append(groups, g)
	}

	records = make([]Record, 0, len(groups))
	for _, g := range groups {
		record, found := g.merge()
		conflicts = append(conflicts, found...)
		if !record.Level.Valid() {
			log.Debug("Dropping %s (%s): no battery reading from %s", record.Name, record.Address, record.Origin)
			continue
		}
		record.Seq = len(records)
		records = append(records, record)
	}
	return records, conflicts
}

func (g *group) merge() (Record, []*Conflict) {
	byPriority := make([]entry, len(g.members))
	copy(byPriority, g.members)
	sort.SliceStable(byPriority, func(i, j int) bool {
		if byPriority[i].rank != byPriority[j].rank {
			return byPriority[i].rank < byPriority[j].rank
		}
		return byPriority[i].index < byPriority[j].index
	})

	// The highest-priority spelling wins so the address does not depend on timing.
	record := Record{Level: NoLevel}
	for _, m := range byPriority {
		if m.partial.Address != "" {
			record.Address = m.partial.Address
			break
		}
	}

	var conflicts []*Conflict
	var levelFrom Origin
	for _, m := range byPriority {
		p := m.partial
		record.Origin |= p.Origin
		if record.Name == "" && !isPlaceholderName(p.Name, p.Address) {
			record.Name = p.Name
		}
		record.Components = record.Components.merge(p.Components)
		if !p.Level.Valid() {
			continue
		}
		if !record.Level.Valid() {
			record.Level = p.Level
			levelFrom = p.Origin
		} else if p.Level != record.Level {
			conflicts = append(conflicts, &Conflict{
				Address:       record.Address,
				Kept:          record.Level,
				KeptFrom:      levelFrom,
				Discarded:     p.Level,
				DiscardedFrom: p.Origin,
			})
		}
	}

	if record.Name == "" {
		record.Name = fallbackName(g.members, record.Address)
	}
	if record.Address == "" {
		record.Address = AddressPlaceholder
	}
	for _, c := range conflicts {
		c.Name = record.Name
		log.Debug("Conflicting battery levels: %s", c)
	}
	return record, conflicts
}

func fallbackName(members []entry, address string) string {
	if address != "" {
		return address
	}
	for _, m := range members {
		if m.partial.Name != "" {
			return m.partial.Name
		}
	}
	return UnknownName
}
