package dashboard

// closedError signals an operation issued after Close. Gateway errors are
// passed through opaque; this is the only error the package originates.
type closedError struct{}

func (closedError) Error() string { return "dashboard controller is closed" }

// ErrClosed constructs the closed-controller error.
func ErrClosed() error { return closedError{} }

// IsClosed reports whether err indicates a closed controller.
func IsClosed(err error) bool {
	_, ok := err.(closedError)
	return ok
}
