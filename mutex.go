package ekernel

// Mutex is a non-reentrant binary lock built on the same event
// machinery as Semaphore. Grounded on
// original_source/os/os_mutex.c/h's struct os_mutex,
// __os_event_mutex_is_triggered, os_mutex_lock and os_mutex_unlock.
type Mutex struct {
	kernel *Kernel
	locked bool
	owner  *Process
	event  *Event
}

// CreateMutex builds an unlocked mutex.
func (k *Kernel) CreateMutex(name string) *Mutex {
	m := &Mutex{kernel: k}
	m.event = NewEvent(name, EventDescriptor{IsTriggered: m.isTriggered, Sort: defaultSort(k)}, nil)
	return m
}

// isTriggered mirrors __os_event_mutex_is_triggered: the first waiter
// examined while the mutex is free takes ownership and stops the pass;
// everyone else stays queued.
func (m *Mutex) isTriggered(proc *Process, args any) EventStatus {
	if m.locked {
		return EventNone
	}
	m.locked = true
	m.owner = proc
	return EventOkStop
}

// Lock blocks the calling task until it owns the mutex. An unlocked
// mutex is granted immediately without waiting for the event
// scheduler's next idle-loop pass.
func (m *Mutex) Lock() {
	if _, ok := m.kernel.tryEvent(m.event); ok {
		return
	}
	m.kernel.Sleep(m.event)
}

// Unlock releases the mutex if the calling task owns it; a non-owner
// call is a silent no-op, matching os_mutex_unlock's owner check.
// Ownership passes directly to the process at the head of the waiting
// queue (highest priority first when priorities are enabled, otherwise
// the longest-waiting) without re-examining the free/locked flag, or
// the mutex becomes free if nobody is waiting.
func (m *Mutex) Unlock() {
	k := m.kernel
	k.port.CriticalEnter()
	defer k.port.CriticalLeave()

	if m.owner != k.sched.current {
		return
	}

	if entry := m.event.queueHead; entry != nil {
		queueRemove(&m.event.queueHead, entry)
		if m.event.queueHead == nil {
			k.events.unlinkPending(m.event)
		}
		m.owner = entry.proc
		k.events.wake(k, entry)
		return
	}
	m.locked = false
	m.owner = nil
}

// IsLocked reports whether the mutex is currently held. Diagnostic
// only.
func (m *Mutex) IsLocked() bool { return m.locked }
