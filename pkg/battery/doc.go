/*
Package battery reconciles battery readings reported by independent Bluetooth backends into a
single device list.

Each backend implements [Source] and returns [Partial] records: whatever it managed to learn
about a device (an address, a name, a percentage). [Engine.Snapshot] runs every source
concurrently, waits for all of them, and hands their output to [Reconcile], which merges partials
that share a hardware address, drops devices without a usable reading, and orders the result by
first discovery. [FilterByName] narrows the result to matching names.

# Example

	engine := &battery.Engine{
		Sources: []battery.Source{gattScanner, registrySource}, // priority order
		Filter:  "airpods",
	}
	report, err := engine.Snapshot(ctx)
	if err != nil {
		// Every source failed. report.Failures explains why.
	}
	for _, record := range report.Records {
		fmt.Printf("%s: %d%%\n", record.Name, record.Level)
	}

Sources are listed in priority order. When two sources disagree about the level of the same
device, the earlier source wins and the disagreement is reported as a [Conflict].
*/
package battery
