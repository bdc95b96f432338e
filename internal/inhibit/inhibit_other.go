//go:build !linux

package inhibit

// New returns ErrUnsupported outside Linux.
func New(string) (*Inhibitor, error) {
	return nil, ErrUnsupported
}
