package viewport

// Trigger coalesces requests into a single deferred call. Request arms the
// trigger when it is idle; requests made while armed are dropped. The
// trigger disarms right before fire runs, so fire itself may re-arm it.
type Trigger struct {
	sched Scheduler
	fire  func()
	armed bool
}

func NewTrigger(s Scheduler, fire func()) *Trigger {
	return &Trigger{sched: s, fire: fire}
}

// Request arms the trigger. It reports whether this call armed it.
func (t *Trigger) Request() bool {
	if t.armed {
		return false
	}
	t.armed = true
	t.sched.Defer(t.run)
	return true
}

// Pending reports whether the trigger is armed and has not fired yet.
func (t *Trigger) Pending() bool {
	return t.armed
}

func (t *Trigger) run() {
	t.armed = false
	t.fire()
}
