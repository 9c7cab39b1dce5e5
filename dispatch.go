package localauth

import "sync"

// dispatcher is a serial delivery loop: callbacks run one at a time, in
// post order, on a single goroutine. It stands in for a UI main thread when
// the host does not supply one.
type dispatcher struct {
	queue chan func()
	done  chan struct{}
	once  sync.Once
}

func newDispatcher() *dispatcher {
	d := &dispatcher{
		queue: make(chan func(), 8),
		done:  make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *dispatcher) run() {
	for {
		select {
		case <-d.done:
			return
		case fn := <-d.queue:
			fn()
		}
	}
}

// post enqueues fn for serial execution. Posts after stop are dropped.
func (d *dispatcher) post(fn func()) {
	select {
	case <-d.done:
	case d.queue <- fn:
	}
}

func (d *dispatcher) stop() {
	d.once.Do(func() { close(d.done) })
}
