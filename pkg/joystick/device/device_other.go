// +build !linux

package device

// Open is not supported.
func Open(int) (Device, error) {
	return nil, ErrUnsupported
}

// DetectAndOpen is not supported.
func DetectAndOpen(int) (Device, error) {
	return nil, ErrUnsupported
}
