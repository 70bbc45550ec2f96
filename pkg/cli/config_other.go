//go:build !linux

package cli

import "flag"

func (c *Config) registerCommandLineFlagsOsSpecific(_ *flag.FlagSet) {}
