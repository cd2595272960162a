package device

// Backend executes kernel dispatches over index ranges.
type Backend interface {
	Name() string
	Available() bool
	// Dispatch runs fn over chunks covering [0, n) and blocks until
	// every chunk has completed.
	Dispatch(n int, fn func(start, end int))
	Cleanup()
}

var activeBackend Backend

func init() {
	activeBackend = AutoSelectBackend()
}

func SetBackend(b Backend) {
	if activeBackend != nil {
		activeBackend.Cleanup()
	}
	activeBackend = b
}

func Get() Backend {
	return activeBackend
}

// AutoSelectBackend returns the best available backend. Today that is
// always the CPU pool; the seam exists so a GPU backend can slot in
// without touching the solver.
func AutoSelectBackend() Backend {
	return NewCPUBackend()
}
