package ekernel

// Context-switch glue: two entry points sharing the scheduler call,
// generalized from original_source/os/os_core.h's
// os_task_switch_context_hook (cooperative) and
// os_task_switch_context_int_handler_hook (tick-driven). The tick-driven
// entry here only performs bookkeeping rather than forcing a goroutine
// handoff: Go cannot suspend another goroutine's execution from the
// outside, so true preemption of a task that never calls back into the
// kernel is out of reach for a portable implementation. Every
// suspension point the original's own os_task_delay relies on (a busy
// loop that calls os_yield on each check) is cooperative in exactly
// this same sense, so round-robin and priority rotation keep working
// for every task written the way the reference scenarios are.

// Yield performs the cooperative context-switch entry point: it runs
// the scheduler under the critical section and hands control to
// whichever process comes next, parking the caller until it is chosen
// again. Equivalent to os_yield.
func (k *Kernel) Yield() {
	k.switchContext(false)
}

// switchContext is the shared implementation behind Yield and every
// blocking primitive (Sleep, Take, Lock). bypassSave is set only when
// returning from a software-interrupt trampoline, where the port need
// not re-park the caller because it is not really an independent
// process.
func (k *Kernel) switchContext(bypassSave bool) {
	k.switchContextFrom(k.sched.current, bypassSave)
}

// switchContextFrom is switchContext generalized over which process the
// port should treat as the caller. Disable needs this: it removes proc
// from the ready list (possibly reassigning scheduler.current out from
// under the caller, e.g. collapsing the ring back to the application
// placeholder) before requesting the switch, so by the time a switch
// would run, k.sched.current no longer names the goroutine that is
// actually asking to be parked. Passing the pre-disable identity
// through keeps the port's channel handshake honest: the disabled
// process's own goroutine is the one that parks (forever, since it is
// no longer scheduled), and the process the rotation lands on is the
// one actually woken.
func (k *Kernel) switchContextFrom(from *Process, bypassSave bool) {
	k.port.CriticalEnter()
	k.runPostInterruptHook(from)
	k.runPostEventHook()
	to := k.sched.step()
	k.runPreInterruptHook(to)
	k.port.CriticalLeave()

	if k.stats != nil {
		k.stats.recordSwitch(k.port.ReadCycleCounter())
	}

	k.port.SwitchContext(from, to, bypassSave)
}

// runPreInterruptHook builds the trampoline frame for a software
// interrupt the instant it becomes current with no stack pointer of its
// own yet — the dormant state software interrupts sit in between
// triggers. Mirrors OS_SCHEDULER_PRE_INTERRUPT_HOOK.
func (k *Kernel) runPreInterruptHook(to *Process) {
	if to.typ != typeSoftwareInterrupt {
		return
	}
	si := k.interruptOf(to)
	if si == nil || si.running {
		return
	}
	si.running = true
	entry := func(args any) {
		k.runSoftwareInterrupt(si)
	}
	// Errors from ContextLoad here are not recoverable mid-switch; the
	// trampoline simply never runs and the interrupt re-triggers dormant
	// on its next enable, matching "silent no-op" failure semantics for
	// structural edge cases the original leaves undefined.
	_ = k.port.ContextLoad(to, entry, nil)
}

// runPostInterruptHook clears the borrowed-stack arrangement once a
// software interrupt handler has run to completion. Mirrors
// OS_SCHEDULER_POST_INTERRUPT_HOOK.
func (k *Kernel) runPostInterruptHook(from *Process) {
	if from.typ != typeSoftwareInterrupt {
		return
	}
	if si := k.interruptOf(from); si != nil {
		si.running = false
	}
}

// runPostEventHook does nothing: it marks the point where the original
// restored the event-scheduler/idle persona of the application
// placeholder after a blocking sleep call mutated the ready list
// cursor. It replaces the original's "alternate process" cursor
// workaround (see the third open question in DESIGN.md): the cursor is
// simply left wherever scheduler.step last placed it, because Sleep no
// longer needs a side-channel slot to remember it.
func (k *Kernel) runPostEventHook() {}

// tickAdvance is the preemptive/tick-driven entry point: advances the
// tick counter (wrap-safe by construction, since it is a fixed-width
// unsigned add), runs the stack-overflow check, and records statistics.
// It deliberately does not call scheduler.step: see the file comment.
func (k *Kernel) tickAdvance() {
	k.port.CriticalEnter()
	if k.cfg.Use16BitTicks {
		k.tickCounter = uint32(uint16(k.tickCounter + 1))
	} else {
		k.tickCounter++
	}
	k.checkStackOverflow()
	k.port.CriticalLeave()
}

// tick returns the current tick counter value.
func (k *Kernel) tick() uint32 {
	return k.tickCounter
}

// TickAdvance is the exported seam a Port's timer source calls on
// every tick interrupt. port/sim's tick goroutine calls it directly; a
// real hardware port would call it from the timer ISR's trampoline.
func (k *Kernel) TickAdvance() { k.tickAdvance() }
