package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/sivchari/btmon/internal/log"
	"github.com/sivchari/btmon/pkg/battery"
	"github.com/sivchari/btmon/pkg/cli"
	"github.com/sivchari/btmon/pkg/connector/ble/goble"
)

func writeErr(w io.Writer, format string, a ...interface{}) {
	fmt.Fprintf(w, format, a...)
	fmt.Fprintf(w, "\n")
}

const usage = `
Prints the battery level of nearby Bluetooth devices. Levels are read from the
GATT Battery Service of BLE devices and from the operating system's registry of
paired accessories.`

func Usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: %s [OPTION...]\n", os.Args[0])
	fmt.Fprintln(out, usage)
	fmt.Fprintln(out, "")
	fmt.Fprintf(out, "Available OPTIONs:\n")
	flag.PrintDefaults()
}

type snapshotter interface {
	Snapshot(ctx context.Context) (*battery.Report, error)
}

// run takes one snapshot, renders it and returns the exit status. filter is only used to explain
// an empty result.
func run(ctx context.Context, engine snapshotter, out output, filter string, stdout, stderr io.Writer) int {
	report, err := engine.Snapshot(ctx)
	if report == nil {
		writeErr(stderr, "Error: %s", err)
		return 1
	}

	if werr := out.write(stdout, report.Records); werr != nil {
		writeErr(stderr, "Failed to write results: %s", werr)
		return 1
	}

	status := 0
	if fatal := report.Fatal(); fatal != nil {
		writeErr(stderr, "%s", goble.AdapterErrorHelpMessage(fatal.Err))
		status = 1
	} else if err != nil {
		writeErr(stderr, "Error: %s", err)
		status = 1
	}

	if ctx.Err() != nil {
		writeErr(stderr, "Interrupted, results may be incomplete")
		return 1
	}
	if status == 0 && len(report.Records) == 0 && !out.json {
		if filter != "" {
			writeErr(stderr, "No devices found matching '%s'", filter)
		} else {
			writeErr(stderr, "No devices found")
		}
	}
	return status
}

func main() {
	status := 1
	defer func() {
		os.Exit(status)
	}()

	config := cli.NewConfig(cli.FlagAll)
	flag.Usage = Usage
	config.RegisterCommandLineFlags(flag.CommandLine)
	flag.Parse()

	if flag.NArg() > 0 {
		writeErr(os.Stderr, "Unexpected argument: %s", flag.Arg(0))
		status = 2
		return
	}
	if err := config.Validate(); err != nil {
		writeErr(os.Stderr, "Invalid options: %s", err)
		status = 2
		return
	}

	if config.Debug {
		log.SetJSON(true)
		log.SetLevel(log.LevelDebug)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := output{
		json:   config.JSON,
		indent: term.IsTerminal(int(os.Stdout.Fd())),
	}
	status = run(ctx, config.Engine(), out, config.Device, os.Stdout, os.Stderr)
}
