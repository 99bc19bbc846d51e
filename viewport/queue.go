package viewport

// Queue is a single-threaded deferred callback queue for toolkits that have
// no native "after the event queue drained" primitive. The owner calls Drain
// once per event loop iteration, after pending toolkit events were handled.
type Queue struct {
	pending []func()
	wake    func()
}

// NewQueue returns a Queue. wake, if non-nil, is called on every Defer so a
// loop blocked waiting for toolkit events gets a chance to drain.
func NewQueue(wake func()) *Queue {
	return &Queue{wake: wake}
}

func (q *Queue) Defer(fn func()) {
	q.pending = append(q.pending, fn)
	if q.wake != nil {
		q.wake()
	}
}

// Drain runs the callbacks queued so far and returns how many ran.
// Callbacks deferred while draining are kept for the next Drain.
func (q *Queue) Drain() int {
	fns := q.pending
	q.pending = nil
	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

// Len returns the number of queued callbacks.
func (q *Queue) Len() int {
	return len(q.pending)
}
