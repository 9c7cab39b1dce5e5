package localauth

import "sync"

// resolver enforces the at-most-once outcome contract. The OS can surface
// several callbacks per ceremony (attempt failures, then a terminal
// verdict, or duplicate terminals from a staged fallback); only the first
// terminal one may reach the caller.
type resolver struct {
	mu       sync.Mutex
	resolved bool
	deliver  func(Outcome)
}

func newResolver(deliver func(Outcome)) *resolver {
	return &resolver{deliver: deliver}
}

// resolve delivers the outcome unless one was already delivered. Reports
// whether this call won.
func (r *resolver) resolve(o Outcome) bool {
	r.mu.Lock()
	if r.resolved {
		r.mu.Unlock()
		return false
	}
	r.resolved = true
	r.mu.Unlock()

	r.deliver(o)
	return true
}
