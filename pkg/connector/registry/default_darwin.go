package registry

// DefaultReader returns the registry reader for this platform.
func DefaultReader() Reader {
	return NewProfilerReader()
}
