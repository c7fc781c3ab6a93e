package ekernel

// EventStatus is the three-way verdict an event's IsTriggered hook
// returns for one waiting process. Mirrors
// original_source/os/os_event.h's OS_EVENT_NONE / OS_EVENT_OK_STOP /
// OS_EVENT_OK_CONTINUE.
type EventStatus int

const (
	// EventNone means the process stays queued; the scheduler moves on
	// to the next waiter on this event without consuming anything.
	EventNone EventStatus = iota
	// EventOkStop means this process wakes and no further waiter on the
	// same event should be examined this pass (the event's "supply" is
	// exhausted for now — e.g. a semaphore just hit zero).
	EventOkStop
	// EventOkContinue means this process wakes but the event may still
	// have enough left to wake the next waiter too.
	EventOkContinue
)

// EventDescriptor is the behavior attached to an Event: what it means
// for a given waiter to be satisfied, an optional arming hook run once
// per Sleep call before the process is queued, and an optional custom
// ordering for its waiting queue. Grounded on
// original_source/os/os_event.h's struct os_event_desc.
type EventDescriptor struct {
	// IsTriggered is evaluated once per waiter, in queue order, each
	// time the event scheduler visits this event. proc is the waiter
	// under consideration; args is the Event's own Args.
	IsTriggered func(proc *Process, args any) EventStatus

	// Start runs once per Sleep call that registers against this event,
	// before the process is queued. Used by, e.g., a timer event to arm
	// a one-shot deadline the first time anyone waits on it.
	Start func(args any)

	// Sort orders competing waiters; nil defaults to FIFO (first
	// registered, first woken).
	Sort SortFunc
}

// Event is a named condition tasks and software interrupts can sleep
// against. Grounded on original_source/os/os_event.h's struct os_event.
type Event struct {
	name string
	desc EventDescriptor
	args any

	queueHead *waitEntry
	next      *Event // pending-events list link; nil when not registered
	pending   bool   // true while linked into the registry's pending list
}

// NewEvent constructs an event with a custom descriptor and argument
// blob passed to IsTriggered/Start. args is typically a pointer to the
// event's own state (a counter, a deadline) that IsTriggered closes
// over via the Event itself, or receives directly here.
func NewEvent(name string, desc EventDescriptor, args any) *Event {
	return &Event{name: name, desc: desc, args: args}
}

// NewPredicateEvent wraps a plain boolean predicate as an event: true
// always wakes the waiter with EventOkContinue, so the predicate is
// re-checked for each following waiter in the same pass and a true
// predicate wakes every queued waiter at once. This is the
// generalization of "wait until a boolean condition holds" that the
// original leaves to ad hoc event descriptors in each subsystem.
func NewPredicateEvent(name string, predicate func() bool) *Event {
	return NewEvent(name, EventDescriptor{
		IsTriggered: func(proc *Process, args any) EventStatus {
			if predicate() {
				return EventOkContinue
			}
			return EventNone
		},
	}, nil)
}

// Name returns the event's diagnostic label.
func (e *Event) Name() string { return e.name }

// eventRegistry holds the pending-events list: every Event with at
// least one waiter queued. Grounded on original_source/os/os_event.c's
// file-scope os_current_event list and os_event_scheduler.
type eventRegistry struct {
	head *Event
}

func newEventRegistry() *eventRegistry {
	return &eventRegistry{}
}

// linkPending prepends ev to the pending list if it is not already
// linked. Unlike __os_event_enable's apparent list-splice (which drops
// the previous head when inserting a second event), this always
// preserves every previously linked event — losing one silently would
// violate the invariant that an event with a non-empty queue is always
// visited by run.
func (r *eventRegistry) linkPending(ev *Event) {
	if ev.pending {
		return
	}
	ev.next = r.head
	r.head = ev
	ev.pending = true
}

// unlinkPending removes ev from the pending list.
func (r *eventRegistry) unlinkPending(ev *Event) {
	if !ev.pending {
		return
	}
	if r.head == ev {
		r.head = ev.next
	} else {
		for p := r.head; p != nil; p = p.next {
			if p.next == ev {
				p.next = ev.next
				break
			}
		}
	}
	ev.next = nil
	ev.pending = false
}

// run is the event-scheduler persona's body, called once per idle-loop
// iteration (kernel.go's Start). It walks every pending event exactly
// once, examining each of that event's waiters in queue order and
// dispatching on IsTriggered's verdict, then reports whether any event
// remained pending so the caller knows whether to fall back to the
// idle hook. Grounded on os_event_scheduler.
//
// Per the second open question recorded in DESIGN.md: a waiter whose
// process is no longer Pending (e.g. it was independently disabled) is
// logged and dropped rather than halting the scheduler — a structural
// inconsistency the original leaves undefined, but one a caller could
// reach by mixing Disable with Sleep on the same process.
func (r *eventRegistry) run(k *Kernel) bool {
	if r.head == nil {
		return false
	}

	// Snapshot the list first: a wake may unlink a sibling's event
	// further along the list, which would otherwise cut the walk short.
	var pending []*Event
	for ev := r.head; ev != nil; ev = ev.next {
		pending = append(pending, ev)
	}
	for _, ev := range pending {
		if ev.pending {
			r.runEvent(k, ev)
		}
	}
	return r.head != nil
}

// runEvent processes every waiter currently queued on ev in one pass,
// under a critical section scoped to this event alone (the first open
// question recorded in DESIGN.md: finer-grained than wrapping the
// entire registry walk, so one event's long queue cannot inflate
// interrupt latency for unrelated events).
func (r *eventRegistry) runEvent(k *Kernel, ev *Event) {
	k.port.CriticalEnter()
	defer k.port.CriticalLeave()

	for entry := ev.queueHead; entry != nil; {
		next := entry.next

		if entry.proc.status != statusPending {
			k.logger.Errorw("stale pending entry dropped", "event", ev.name, "process", entry.proc.name)
			queueRemove(&ev.queueHead, entry)
			entry = next
			continue
		}

		verdict := ev.desc.IsTriggered(entry.proc, ev.args)
		switch verdict {
		case EventNone:
			entry = next
			continue
		case EventOkStop, EventOkContinue:
			queueRemove(&ev.queueHead, entry)
			r.wake(k, entry)
			if verdict == EventOkStop {
				entry = nil
			} else {
				entry = next
			}
		}
	}

	if ev.queueHead == nil {
		r.unlinkPending(ev)
	}
}

// wake detaches every other entry the waking process registered
// across its whole Sleep call (the wait-any sibling chain starting at
// proc.waitHead), records which event fired, and re-enables the
// process.
func (r *eventRegistry) wake(k *Kernel, woken *waitEntry) {
	proc := woken.proc
	proc.eventTriggered = woken.event

	for sib := proc.waitHead; sib != nil; {
		nextSib := sib.sibling
		if sib != woken && sib.event != nil && sib.event.queueHead != nil {
			queueRemove(&sib.event.queueHead, sib)
			if sib.event.queueHead == nil {
				r.unlinkPending(sib.event)
			}
		}
		sib = nextSib
	}
	proc.waitHead = nil

	k.sched.enable(proc)
}

// Sleep registers the current process against one or more events and
// blocks until one of them wakes it, returning the Event that did.
// Mirrors os_task_sleep generalized to an arbitrary wait-any set instead
// of a single hardcoded event; see the third open question in
// DESIGN.md for why no alternate-process cursor slot is needed here.
func (k *Kernel) Sleep(events ...*Event) *Event {
	proc := k.sched.current
	k.sleepRegister(proc, events...)
	// sleepRegister's call to scheduler.disable may already have moved
	// scheduler.current off of proc (the same reassignment Disable's doc
	// comment describes), so the caller's identity is passed through
	// explicitly rather than re-read from k.sched.current.
	k.switchContextFrom(proc, false)
	return proc.eventTriggered
}

// sleepRegister performs the non-blocking half of Sleep: arming each
// event's Start hook, queueing a wait entry per event (building the
// sibling chain wake uses to garbage-collect the others), and ensuring
// the process is off the ready list and marked Pending. Used directly
// by InterruptSleep, which arms a software interrupt's wake condition
// without itself blocking (interrupts have no calling goroutine to
// park — they are woken the same way a task is, but only start running
// their handler once re-enabled).
func (k *Kernel) sleepRegister(proc *Process, events ...*Event) {
	for _, ev := range events {
		if ev.desc.Start != nil {
			ev.desc.Start(ev.args)
		}
	}

	k.port.CriticalEnter()
	defer k.port.CriticalLeave()

	k.sched.disable(proc)
	proc.status = statusPending

	var entries []*waitEntry
	for _, ev := range events {
		entry := &waitEntry{proc: proc, event: ev}
		queueInsertSorted(&ev.queueHead, entry, ev.desc.Sort)
		k.events.linkPending(ev)
		entries = append(entries, entry)
	}
	for i, entry := range entries {
		if i+1 < len(entries) {
			entry.sibling = entries[i+1]
		}
	}
	if len(entries) > 0 {
		proc.waitHead = entries[0]
	}
}

// InterruptSleep arms si to trigger the next time ev wakes it, without
// blocking the caller. Mirrors os_interrupt_sleep.
func (k *Kernel) InterruptSleep(si *SoftwareInterrupt, ev *Event) {
	k.sleepRegister(&si.proc, ev)
}

// tryEvent evaluates ev.desc.IsTriggered against the current process
// directly, without queueing it. Used by Semaphore.Take and
// Mutex.Lock to grant an uncontended acquisition immediately instead
// of waiting for the event scheduler's next idle-loop pass.
func (k *Kernel) tryEvent(ev *Event) (EventStatus, bool) {
	k.port.CriticalEnter()
	defer k.port.CriticalLeave()
	v := ev.desc.IsTriggered(k.sched.current, ev.args)
	return v, v != EventNone
}
