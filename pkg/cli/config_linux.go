package cli

import "flag"

func (c *Config) registerCommandLineFlagsOsSpecific(fs *flag.FlagSet) {
	fs.StringVar(&c.BtAdapterID, "bt-adapter", c.BtAdapterID, "ID of the Bluetooth adapter to use, e.g. hci1. Defaults to hci0.")
}
