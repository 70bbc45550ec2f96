//go:build !linux && !darwin

package registry

// DefaultReader returns nil: there is no supported registry on this platform.
func DefaultReader() Reader {
	return nil
}
