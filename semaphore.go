package ekernel

// Semaphore is a counting semaphore built on the event subsystem rather
// than the original's raw busy-yield os_semaphore_take/release: its
// waiting queue and wakeup dispatch are entirely the Event's, rather
// than original_source/os/os_semaphore.c's direct busy loop. See
// DESIGN.md for why the event-based form was chosen over a literal
// port of the busy loop.
type Semaphore struct {
	kernel *Kernel
	count  int
	max    int
	event  *Event
}

// CreateSemaphore builds a semaphore starting at count (0 <= count <=
// max). Grounded on os_semaphore_create and
// os_event_sempahore_is_triggered's three-way verdict.
func (k *Kernel) CreateSemaphore(name string, count, max int) *Semaphore {
	s := &Semaphore{kernel: k, count: count, max: max}
	s.event = NewEvent(name, EventDescriptor{IsTriggered: s.isTriggered, Sort: defaultSort(k)}, nil)
	return s
}

// isTriggered mirrors os_event_sempahore_is_triggered exactly: more
// than one ticket left wakes this waiter and leaves the event open for
// the next one in queue; exactly one ticket wakes this waiter and
// closes the event for this pass; zero tickets leaves the waiter
// queued.
func (s *Semaphore) isTriggered(proc *Process, args any) EventStatus {
	switch {
	case s.count > 1:
		s.count--
		return EventOkContinue
	case s.count == 1:
		s.count = 0
		return EventOkStop
	default:
		return EventNone
	}
}

// Take blocks the calling task until a ticket is available. An
// uncontended semaphore (count > 0, no one already waiting) is granted
// immediately without waiting for the event scheduler's next idle-loop
// pass.
func (s *Semaphore) Take() {
	if _, ok := s.kernel.tryEvent(s.event); ok {
		return
	}
	s.kernel.Sleep(s.event)
}

// Release hands off a ticket directly to the process at the head of the
// waiting queue (highest priority first when priorities are enabled,
// otherwise the longest-waiting) without touching count, or — if nobody
// is waiting —
// increments count up to max, or drops the release silently if count
// is already at max. This differs from the original's raw
// increment-only os_semaphore_release by servicing the waiting queue
// synchronously instead of leaving it to the next event-scheduler pass.
func (s *Semaphore) Release() {
	k := s.kernel
	k.port.CriticalEnter()
	defer k.port.CriticalLeave()

	if entry := s.event.queueHead; entry != nil {
		queueRemove(&s.event.queueHead, entry)
		if s.event.queueHead == nil {
			k.events.unlinkPending(s.event)
		}
		k.events.wake(k, entry)
		return
	}
	if s.count < s.max {
		s.count++
	}
}

// Count returns the number of tickets presently available. Diagnostic
// only; torn reads are harmless since it is never used for
// synchronization by the kernel itself.
func (s *Semaphore) Count() int { return s.count }

// defaultSort picks priority ordering when the kernel has priorities
// enabled, else FIFO — the same rule original_source/os/os_core.c
// applies when choosing the default queue sort function.
func defaultSort(k *Kernel) SortFunc {
	if k.cfg.UsePriority {
		return SortPriority
	}
	return SortFIFO
}
