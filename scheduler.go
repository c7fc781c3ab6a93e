package ekernel

// scheduler owns the circular ready list and its single cursor. It has
// no notion of goroutines or channels; context.go is the layer that
// turns "the next process to run" into an actual execution handoff.
//
// Grounded on original_source/os/os_core.c's os_task_scheduler,
// __os_task_enable and __os_task_disable.
type scheduler struct {
	current     *Process // ready-list cursor == currently running process
	app         *Process // application/event-scheduler placeholder
	usePriority bool
}

func newScheduler(app *Process, usePriority bool) *scheduler {
	app.next = app
	app.status = statusActive
	return &scheduler{current: app, app: app, usePriority: usePriority}
}

// step advances the cursor one link, applying the priority-counter rule
// when priorities are enabled, and returns the newly current process.
func (s *scheduler) step() *Process {
	if !s.usePriority {
		s.current = s.current.next
		return s.current
	}
	for {
		s.current = s.current.next
		if s.current.priorityCounter == 0 {
			s.current.priorityCounter = s.current.priority
			return s.current
		}
		s.current.priorityCounter--
	}
}

// isEnabled reports whether proc currently appears in the ready list.
// Mirrors os_task_is_enabled: walk starting from current.next until the
// walk returns to current.next.
func (s *scheduler) isEnabled(proc *Process) bool {
	start := s.current.next
	n := start
	for {
		if n == proc {
			return true
		}
		n = n.next
		if n == start {
			return false
		}
	}
}

// onlyApplication reports whether the application placeholder is the
// sole member of the ready list.
func (s *scheduler) onlyApplication() bool {
	return s.app.next == s.app
}

// enable splices proc into the ready list immediately before the
// cursor's successor — the "end" of the list in traversal order. No-op
// if proc is already enabled. Must be called under the critical
// section.
func (s *scheduler) enable(proc *Process) {
	if s.isEnabled(proc) {
		return
	}
	wasAloneApp := s.onlyApplication()

	last := s.current.next
	for last.next != s.current.next {
		last = last.next
	}
	proc.next = last.next
	last.next = proc
	proc.status = statusActive

	if wasAloneApp {
		s.app.status = statusIdle
	}
}

// disable unlinks proc from the ready list if present. If proc is the
// sole non-application member, the list collapses back to the
// placeholder, which becomes Active and the cursor. The cursor is never
// left dangling. Must be called under the critical section.
func (s *scheduler) disable(proc *Process) {
	if !s.isEnabled(proc) {
		return
	}
	last := proc
	for last.next != proc {
		last = last.next
	}
	if last == proc {
		// proc was the only entry in the ring
		s.app.next = s.app
		s.app.status = statusActive
		if s.current == proc {
			s.current = s.app
		}
	} else {
		last.next = proc.next
		if s.current == proc {
			s.current = last
		}
		if s.onlyApplication() {
			s.app.status = statusActive
		}
	}
	proc.next = nil
	if proc.status == statusActive {
		proc.status = statusIdle
	}
}
